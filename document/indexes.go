package document

// ComputeIndexesWithinAncestors numbers instances whose component appears in
// rules (component -> ancestor component). Each instance gets its position
// among instances of the same component under the nearest enclosing
// instance of the ruled ancestor component; entering a new ancestor restarts
// the count. Instances without such an ancestor get no index.
//
// For example with rules {"TabsTrigger": "Tabs"} every trigger is numbered
// within its own Tabs, which lets the preview tell apart triggers rendered
// from one repeated template.
func ComputeIndexesWithinAncestors(instances Instances, rootIDs []string, rules map[string]string) IndexesWithinAncestors {
	indexes := make(IndexesWithinAncestors)
	if len(rules) == 0 {
		return indexes
	}
	ancestors := make(map[string]struct{}, len(rules))
	for _, ancestor := range rules {
		ancestors[ancestor] = struct{}{}
	}

	// counters: ancestor component -> component -> last index
	type counters map[string]map[string]int

	visited := make(IDSet)
	var traverse func(id string, latest counters)
	traverse = func(id string, latest counters) {
		if visited.Has(id) {
			return
		}
		visited[id] = struct{}{}
		instance, ok := instances[id]
		if !ok {
			return
		}
		if _, isAncestor := ancestors[instance.Component]; isAncestor {
			next := make(counters, len(latest)+1)
			for k, v := range latest {
				next[k] = v
			}
			next[instance.Component] = make(map[string]int)
			latest = next
		}
		if ancestor, ruled := rules[instance.Component]; ruled {
			if counts, ok := latest[ancestor]; ok {
				index, seen := counts[instance.Component]
				if seen {
					index++
				}
				counts[instance.Component] = index
				indexes[instance.ID] = index
			}
		}
		for _, child := range instance.Children {
			if child.Type == ChildID {
				traverse(child.Value, latest)
			}
		}
	}
	for _, rootID := range rootIDs {
		traverse(rootID, counters{})
	}
	return indexes
}
