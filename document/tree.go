package document

import "strings"

// IDSet is a set of instance ids.
type IDSet map[string]struct{}

// Has reports whether id is in the set.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// FindTreeInstanceIDs returns the ids reachable from rootID, rootID included.
func FindTreeInstanceIDs(instances Instances, rootID string) IDSet {
	return collectTree(instances, rootID, nil)
}

// FindTreeInstanceIDsExcludingSlotDescendants is FindTreeInstanceIDs that
// stops at slots: a Slot instance is part of the tree, the content it
// forwards belongs to the scope of whoever fills it.
func FindTreeInstanceIDsExcludingSlotDescendants(instances Instances, rootID string) IDSet {
	return collectTree(instances, rootID, func(instance *Instance) bool {
		return instance.Component != SlotComponent
	})
}

// FindComponentInstanceIDs returns the instances rendered by the component
// generated for rootID: the tree without slot content and without Fragment
// instances below the root, which are hoisted into components of their own.
func FindComponentInstanceIDs(instances Instances, rootID string) IDSet {
	isNestedFragment := func(instance *Instance) bool {
		return instance.ID != rootID && instance.Component == FragmentComponent
	}
	ids := collectTree(instances, rootID, func(instance *Instance) bool {
		return instance.Component != SlotComponent && !isNestedFragment(instance)
	})
	for id := range ids {
		if instance, ok := instances[id]; ok && isNestedFragment(instance) {
			delete(ids, id)
		}
	}
	return ids
}

// collectTree gathers the ids reachable from rootID. Children of instances
// for which descend returns false are not visited; a nil descend visits
// everything.
func collectTree(instances Instances, rootID string, descend func(*Instance) bool) IDSet {
	ids := IDSet{rootID: {}}
	queue := []string{rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		instance, ok := instances[id]
		if !ok {
			continue
		}
		if descend != nil && !descend(instance) {
			continue
		}
		for _, child := range instance.Children {
			if child.Type != ChildID || ids.Has(child.Value) {
				continue
			}
			ids[child.Value] = struct{}{}
			queue = append(queue, child.Value)
		}
	}
	return ids
}

// FindFragmentInstanceIDs lists the Fragment instances under rootID, slot
// content and nested fragments included, in depth-first document order.
func FindFragmentInstanceIDs(instances Instances, rootID string) []string {
	var fragments []string
	WalkTree(instances, rootID, func(instance *Instance) {
		if instance.Component == FragmentComponent {
			fragments = append(fragments, instance.ID)
		}
	})
	return fragments
}

// WalkTree visits every instance reachable from rootID once, parents before
// children, children in order. Dangling ids are skipped.
func WalkTree(instances Instances, rootID string, visit func(*Instance)) {
	visited := make(IDSet)
	var walk func(id string)
	walk = func(id string) {
		if visited.Has(id) {
			return
		}
		visited[id] = struct{}{}
		instance, ok := instances[id]
		if !ok {
			return
		}
		visit(instance)
		for _, child := range instance.Children {
			if child.Type == ChildID {
				walk(child.Value)
			}
		}
	}
	walk(rootID)
}

// ParseComponentName splits "namespace:Name" into its parts. Names without a
// namespace return an empty namespace.
func ParseComponentName(component string) (namespace, name string) {
	if ns, short, found := strings.Cut(component, ":"); found {
		return ns, short
	}
	return "", component
}
