package model

// Error types reported in FieldError.Type.
const (
	ErrTypeMissing        = "missing"
	ErrTypeStringType     = "string_type"
	ErrTypeJSONInvalid    = "json_invalid"
	ErrTypeAttributesType = "model_attributes_type"
	ErrTypeInvalid        = "value_error"
)

// ValidationError is the 422 body for a request that failed schema
// validation. Each entry in Detail locates one offending field.
type ValidationError struct {
	Detail []FieldError `json:"detail"`
}

// FieldError describes a single validation failure. Loc is the path to the
// field, starting with "body".
type FieldError struct {
	Type string   `json:"type"`
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
}
