package community

import (
	"maps"

	"github.com/Gopher0727/Cario/internal/normalize"
)

// MergeGroups combines the raw "all groups" and "user groups" records into a
// single list keyed by resolved group id. Entries from all are inserted
// first; user entries are shallow-merged over them so per-user fields such
// as userRole win. Output order is first-seen id order. Records without a
// usable id are skipped.
func MergeGroups(all, user []map[string]any) []map[string]any {
	index := make(map[int64]int, len(all)+len(user))
	out := make([]map[string]any, 0, len(all)+len(user))

	for _, list := range [][]map[string]any{all, user} {
		for _, rec := range list {
			id, ok := normalize.GroupID(rec)
			if !ok {
				continue
			}
			if i, seen := index[id]; seen {
				merged := maps.Clone(out[i])
				maps.Copy(merged, rec)
				merged["id"] = id
				out[i] = merged
				continue
			}
			entry := maps.Clone(rec)
			entry["id"] = id
			index[id] = len(out)
			out = append(out, entry)
		}
	}
	return out
}
