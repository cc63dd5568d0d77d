package compose

import "github.com/irvanherz/entityorm/query"

// splitGroups splits an operation list into layered groups at boundaries
// where a map is immediately preceded, within the group being built, by a
// skip or take. Each group beyond the first becomes a sub-SELECT wrapping
// the previous group, so that a map following pagination sees the projected
// aliases of its predecessor rather than the raw root columns.
func splitGroups(operations []query.Operation) [][]query.Operation {
	var groups [][]query.Operation

	var current []query.Operation

	for _, op := range operations {
		if _, isMap := op.(query.MapOp); isMap && len(current) > 0 && endsWithSkipOrTake(current) {
			groups = append(groups, current)
			current = nil
		}

		current = append(current, op)
	}

	if len(current) > 0 {
		groups = append(groups, current)
	}

	if len(groups) == 0 {
		groups = [][]query.Operation{nil}
	}

	return groups
}

func endsWithSkipOrTake(group []query.Operation) bool {
	switch group[len(group)-1].(type) {
	case query.SkipOp, query.TakeOp:
		return true
	default:
		return false
	}
}
