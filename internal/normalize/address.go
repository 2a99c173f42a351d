// Package normalize derives flat address columns from stored client rows and
// collapses them to one row per client.
package normalize

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/sells-group/client-dashboard/internal/model"
)

// ExtractAddress reads the first entry of a JSON-encoded address list and
// returns its city, state, and street. Anything that is not a non-empty list
// whose first element is an object yields an empty Address. It never fails.
//
// raw may be a string, *string, []byte, json.RawMessage, or an already
// decoded []any.
func ExtractAddress(raw any) model.Address {
	doc, ok := rawJSON(raw)
	if !ok || !gjson.Valid(doc) {
		return model.Address{}
	}

	list := gjson.Parse(doc)
	if !list.IsArray() {
		return model.Address{}
	}
	first := list.Get("0")
	if !first.IsObject() {
		return model.Address{}
	}

	// Walk every key so a repeated key resolves to its last value.
	var addr model.Address
	first.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "city":
			addr.City = scalar(value)
		case "state":
			addr.State = scalar(value)
		case "street":
			addr.Street = scalar(value)
		}
		return true
	})
	return addr
}

func rawJSON(raw any) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	case []byte:
		return string(v), v != nil
	case json.RawMessage:
		return string(v), v != nil
	case []any:
		b, err := json.Marshal(v)
		if err != nil {
			return "", false
		}
		return string(b), true
	default:
		return "", false
	}
}

// scalar renders strings, numbers, and booleans as text. Missing keys,
// nulls, objects, and arrays become "".
func scalar(r gjson.Result) string {
	switch r.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return r.String()
	default:
		return ""
	}
}
