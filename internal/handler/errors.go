package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/checkin-api/internal/model"
)

// bindFailure turns a c.Bind error caused by the body's content into a
// ValidationError. It returns false for errors that are not about the
// payload shape, which callers should propagate unchanged.
func bindFailure(err error) (*model.ValidationError, bool) {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code != http.StatusBadRequest {
		return nil, false
	}

	var ute *json.UnmarshalTypeError
	switch {
	case errors.As(err, &ute) && ute.Field == "":
		return single(model.ErrTypeAttributesType, "Input should be a valid dictionary or object to extract fields from", "body"), true
	case errors.As(err, &ute):
		return single(model.ErrTypeStringType, "Input should be a valid string", "body", ute.Field), true
	case errors.Is(err, io.EOF):
		// chunked request with no body
		return missingBody(), true
	default:
		return single(model.ErrTypeJSONInvalid, "JSON decode error", "body"), true
	}
}

// validationFailure converts validator.ValidationErrors, one FieldError per
// failed field.
func validationFailure(err error) (*model.ValidationError, bool) {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return nil, false
	}
	out := &model.ValidationError{Detail: make([]model.FieldError, 0, len(ves))}
	for _, fe := range ves {
		fieldErr := model.FieldError{Loc: []string{"body", fe.Field()}}
		if fe.Tag() == "required" {
			fieldErr.Type = model.ErrTypeMissing
			fieldErr.Msg = "Field required"
		} else {
			fieldErr.Type = model.ErrTypeInvalid
			fieldErr.Msg = "Value failed the " + fe.Tag() + " check"
		}
		out.Detail = append(out.Detail, fieldErr)
	}
	return out, true
}

func missingBody() *model.ValidationError {
	return single(model.ErrTypeMissing, "Field required", "body")
}

func single(typ, msg string, loc ...string) *model.ValidationError {
	return &model.ValidationError{Detail: []model.FieldError{{Type: typ, Loc: loc, Msg: msg}}}
}
