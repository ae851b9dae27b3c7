package runtime

import (
	"encoding/json"

	"github.com/goliatone/go-formstudio/pkg/model"
)

// Values maps field ids to their current value.
type Values map[model.FieldID]model.Value

// Clone deep copies the map.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for id, value := range v {
		out[id] = model.CloneValue(value)
	}
	return out
}

// Map returns the JSON-friendly representation keyed by field id.
func (v Values) Map() map[string]any {
	out := make(map[string]any, len(v))
	for id, value := range v {
		if value == nil {
			continue
		}
		out[string(id)] = value.Interface()
	}
	return out
}

// MarshalJSON encodes the values through Map.
func (v Values) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Map())
}
