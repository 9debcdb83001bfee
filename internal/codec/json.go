// Package codec adapts echo's request decoding to the API's JSON rules.
package codec

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
)

// ErrInvalidUTF8 is returned for request bodies that are not valid UTF-8.
// encoding/json would otherwise replace the bad bytes with U+FFFD.
var ErrInvalidUTF8 = errors.New("request body is not valid UTF-8")

// JSONSerializer decodes a request body as exactly one JSON value. Unlike
// echo.DefaultJSONSerializer it rejects trailing data after that value and
// invalid UTF-8. Responses are encoded by the default serializer.
type JSONSerializer struct {
	echo.DefaultJSONSerializer
}

// Deserialize reads the whole body, which BodyLimit has already capped.
// Errors are returned unwrapped so echo's binder can attach them as the
// internal error of a 400, or pass a body-limit HTTPError through.
func (JSONSerializer) Deserialize(c echo.Context, i interface{}) error {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return io.EOF
	}
	if !utf8.Valid(data) {
		return ErrInvalidUTF8
	}
	// json.Unmarshal checks the whole input first, so "{...} trailing" and
	// "{...}{...}" fail as *json.SyntaxError before anything is decoded.
	return json.Unmarshal(data, i)
}

// Binder is echo's DefaultBinder with a lenient view of the body's media
// type: a missing Content-Type or any +json subtype is read as JSON.
type Binder struct {
	echo.DefaultBinder
}

// Bind rewrites JSON-compatible Content-Type headers to application/json
// before delegating, so DefaultBinder picks the JSON serializer.
func (b *Binder) Bind(i interface{}, c echo.Context) error {
	req := c.Request()
	if treatAsJSON(req.Header.Get(echo.HeaderContentType)) {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return b.DefaultBinder.Bind(i, c)
}

func treatAsJSON(ctype string) bool {
	if strings.TrimSpace(ctype) == "" {
		return true
	}
	mt, _, err := mime.ParseMediaType(ctype)
	if err != nil {
		return false
	}
	return strings.HasSuffix(mt, "+json")
}
