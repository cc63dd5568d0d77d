package engine

import "strings"

// rehydrateRow reverses dot-path column aliases back into a nested plain
// object. A row with no dot-aliases yields a flat map unchanged; an alias
// like "c.cid" contributes value at row["c"]["cid"], and no top-level
// "c.cid" key remains.
func rehydrateRow(columns []string, values []any) map[string]any {
	row := make(map[string]any, len(columns))

	for i, col := range columns {
		segments := strings.Split(col, ".")
		cursor := row

		for j, seg := range segments {
			if j == len(segments)-1 {
				cursor[seg] = values[i]

				continue
			}

			next, ok := cursor[seg].(map[string]any)
			if !ok {
				next = map[string]any{}
				cursor[seg] = next
			}

			cursor = next
		}
	}

	return row
}
