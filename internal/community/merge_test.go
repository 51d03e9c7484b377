package community

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Gopher0727/Cario/internal/models"
	"github.com/Gopher0727/Cario/internal/normalize"
)

func TestMergeGroups_UserEntryWins(t *testing.T) {
	all := []map[string]any{{"id": json.Number("1"), "name": "A"}}
	user := []map[string]any{{"id": json.Number("1"), "name": "A", "userRole": "admin"}}

	merged := MergeGroups(all, user)
	require.Len(t, merged, 1)

	groups := normalize.New(nil, normalize.Options{}).Groups(toAny(merged), "")
	require.Len(t, groups.Items, 1)
	assert.Equal(t, models.RoleAdmin, groups.Items[0].UserRole)
	assert.Equal(t, "A", groups.Items[0].Name)
}

func TestMergeGroups_OrderAndIDForms(t *testing.T) {
	all := []map[string]any{
		{"id": "2", "name": "two"},
		{"_id": 1, "name": "one", "description": "from all"},
		{"id": "x", "name": "bad"},
	}
	user := []map[string]any{
		{"groupId": json.Number("1"), "userRole": "member"},
		{"id": json.Number("3"), "name": "three"},
	}

	merged := MergeGroups(all, user)
	require.Len(t, merged, 3)
	assert.Equal(t, int64(2), merged[0]["id"])
	assert.Equal(t, int64(1), merged[1]["id"])
	assert.Equal(t, int64(3), merged[2]["id"])

	assert.Equal(t, "from all", merged[1]["description"])
	assert.Equal(t, "member", merged[1]["userRole"])
}

func TestMergeGroups_DoesNotMutateInput(t *testing.T) {
	all := []map[string]any{{"id": "1", "name": "A"}}
	user := []map[string]any{{"id": "1", "userRole": "admin"}}

	MergeGroups(all, user)
	assert.Equal(t, "1", all[0]["id"])
	_, hasRole := all[0]["userRole"]
	assert.False(t, hasRole)
}

func toAny(recs []map[string]any) []any {
	out := make([]any, len(recs))
	for i, r := range recs {
		out[i] = r
	}
	return out
}

func genRecords(t *rapid.T, label string) []map[string]any {
	ids := rapid.SliceOf(rapid.Int64Range(1, 20)).Draw(t, label+"_ids")
	out := make([]map[string]any, len(ids))
	for i, id := range ids {
		out[i] = map[string]any{"id": id, "src": label}
	}
	return out
}

func TestProperty_MergeGroupsDedupes(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		all := genRecords(t, "all")
		user := genRecords(t, "user")

		merged := MergeGroups(all, user)

		seen := map[int64]bool{}
		for _, rec := range merged {
			id := rec["id"].(int64)
			if seen[id] {
				t.Fatalf("duplicate id %d", id)
			}
			seen[id] = true
		}

		want := map[int64]bool{}
		for _, rec := range append(append([]map[string]any{}, all...), user...) {
			want[rec["id"].(int64)] = true
		}
		if len(want) != len(merged) {
			t.Fatalf("expected %d unique ids, got %d", len(want), len(merged))
		}
	})
}

func TestProperty_MergeGroupsUserWinsAndOrderIsFirstSeen(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		all := genRecords(t, "all")
		user := genRecords(t, "user")
		merged := MergeGroups(all, user)

		inUser := map[int64]bool{}
		for _, rec := range user {
			inUser[rec["id"].(int64)] = true
		}
		var order []int64
		seen := map[int64]bool{}
		for _, rec := range append(append([]map[string]any{}, all...), user...) {
			id := rec["id"].(int64)
			if !seen[id] {
				seen[id] = true
				order = append(order, id)
			}
		}

		for i, rec := range merged {
			id := rec["id"].(int64)
			if id != order[i] {
				t.Fatalf("position %d: want id %d, got %d", i, order[i], id)
			}
			if inUser[id] && rec["src"] != "user" {
				t.Fatalf("id %d: user entry should win", id)
			}
		}
	})
}
