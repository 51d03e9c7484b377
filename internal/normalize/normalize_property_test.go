package normalize

import (
	"encoding/json"
	"reflect"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_GroupShapesAreEquivalent(t *testing.T) {
	properties := gopter.NewProperties(nil)
	n := New(nil, Options{})

	properties.Property("bare, groups-wrapped and data-wrapped payloads agree", prop.ForAll(
		func(id int64, name string, asString bool) bool {
			var rawID any = json.Number(strconv.FormatInt(id, 10))
			if asString {
				rawID = strconv.FormatInt(id, 10)
			}
			rec := map[string]any{"id": rawID, "name": name}

			bare := n.Groups([]any{rec}, "")
			inGroups := n.Groups(map[string]any{"groups": []any{rec}}, "")
			inData := n.Groups(map[string]any{"data": []any{rec}}, "")

			return len(bare.Items) == 1 &&
				bare.Items[0].ID == id &&
				reflect.DeepEqual(bare.Items, inGroups.Items) &&
				reflect.DeepEqual(bare.Items, inData.Items)
		},
		gen.Int64Range(-1<<40, 1<<40),
		gen.AlphaString(),
		gen.Bool(),
	))

	properties.Property("records with non-numeric ids are always dropped", prop.ForAll(
		func(id string) bool {
			if _, err := strconv.ParseFloat(id, 64); err == nil {
				return true
			}
			res := n.Groups([]any{map[string]any{"id": id, "name": "x"}}, "")
			return len(res.Items) == 0 && res.Dropped == 1
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
