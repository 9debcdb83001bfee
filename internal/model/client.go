package model

import (
	"encoding/json"
	"reflect"
)

// StatusOK is the status marker returned by a successful check.
const StatusOK = "ok"

// ClientData is the body of POST /api/check. Name is a pointer so that an
// absent key can be told apart from the empty string, which is a valid name.
type ClientData struct {
	Name *string `json:"name" validate:"required"`
}

// UnmarshalJSON matches the "name" key exactly and rejects any value that
// is not a JSON string, null included. Unknown keys are ignored. Type
// errors carry Field "name" so they can be reported against the field.
func (d *ClientData) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	raw, ok := fields["name"]
	if !ok {
		return nil
	}
	if kind := jsonKind(raw); kind != "string" {
		return &json.UnmarshalTypeError{Value: kind, Type: reflect.TypeOf(""), Field: "name"}
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return err
	}
	d.Name = &name
	return nil
}

// jsonKind names the type of a syntactically valid JSON value by its first byte.
func jsonKind(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "null"
	}
	switch raw[0] {
	case '"':
		return "string"
	case '{':
		return "object"
	case '[':
		return "array"
	case 't', 'f':
		return "bool"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

// CheckResponse is returned by POST /api/check.
type CheckResponse struct {
	Status             string `json:"status"`
	Message            string `json:"message"`
	ClientNameReceived string `json:"client_name_received"`
}

// RootResponse is returned by GET /.
type RootResponse struct {
	Message string `json:"message"`
}
