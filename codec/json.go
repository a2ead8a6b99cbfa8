package codec

import (
	"encoding/json"
)

// JSON is the standard-library JSON codec: the most portable option for
// snapshot manifests read by other tooling.
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// Default is the codec used for newly written snapshots. Existing files
// are self-describing and are opened by selecting the codec by name.
var Default Codec = GoJSON{}
