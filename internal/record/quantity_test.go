package record

import (
	"encoding/json"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestGetQuantity(t *testing.T) {
	tests := map[string]struct {
		rec   Record
		path  string
		expQt int
	}{
		"json float": {
			rec:   Record{"data": map[string]any{"quantity": float64(4)}},
			path:  "data.quantity",
			expQt: 4,
		},
		"int": {
			rec:   Record{"data": Record{"quantity": 2}},
			path:  "data.quantity",
			expQt: 2,
		},
		"truncates fraction": {
			rec:   Record{"q": 2.9},
			path:  "q",
			expQt: 2,
		},
		"numeric string": {
			rec:   Record{"q": " 12 "},
			path:  "q",
			expQt: 12,
		},
		"json number": {
			rec:   Record{"q": json.Number("7")},
			path:  "q",
			expQt: 7,
		},
		"non numeric": {
			rec:   Record{"q": "lots"},
			path:  "q",
			expQt: 0,
		},
		"absent": {
			rec:   Record{},
			path:  "data.quantity",
			expQt: 0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "quantity", GetQuantity(tt.rec, tt.path), tt.expQt)
		})
	}
}

func TestSetQuantity(t *testing.T) {
	r := Record{"name": "Arrow"}
	SetQuantity(r, "data.quantity.value", 20)

	testutil.AssertEqual(t, "quantity", GetQuantity(r, "data.quantity.value"), 20)
	testutil.AssertEqual(t, "name", r.Name(), "Arrow")
}

func TestEqual(t *testing.T) {
	testutil.AssertEqual(t, "int vs float", Equal(3, float64(3)), true)
	testutil.AssertEqual(t, "different numbers", Equal(3, 4.0), false)
	testutil.AssertEqual(t, "strings", Equal("gear", "gear"), true)
	testutil.AssertEqual(t, "string vs number", Equal("3", 3), false)
	testutil.AssertEqual(t, "both nil", Equal(nil, nil), true)
	testutil.AssertEqual(t, "maps", Equal(map[string]any{"a": "b"}, map[string]any{"a": "b"}), true)
}
