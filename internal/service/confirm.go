// Package service holds the request-independent logic behind the handlers.
package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/valyala/fasttemplate"
)

// NamePlaceholder is substituted with the client's name.
const NamePlaceholder = "{name}"

// ErrInvalidTemplate is returned by NewConfirmer for templates that do not
// parse or do not reference the name.
var ErrInvalidTemplate = errors.New("invalid message template")

// Confirmer renders the confirmation message for /api/check. It is safe for
// concurrent use.
type Confirmer struct {
	tpl *fasttemplate.Template
}

// NewConfirmer compiles text. Placeholders are delimited by braces and the
// template must contain {name}.
func NewConfirmer(text string) (*Confirmer, error) {
	if !strings.Contains(text, NamePlaceholder) {
		return nil, fmt.Errorf("%w: missing %s placeholder", ErrInvalidTemplate, NamePlaceholder)
	}
	tpl, err := fasttemplate.NewTemplate(text, "{", "}")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	}
	c := &Confirmer{tpl: tpl}
	// "{{name}}" contains the placeholder text but parses as tag "{name".
	const sentinel = "\x00name\x00"
	if !strings.Contains(c.Confirm(sentinel), sentinel) {
		return nil, fmt.Errorf("%w: %s is not a standalone placeholder", ErrInvalidTemplate, NamePlaceholder)
	}
	return c, nil
}

// Confirm returns the message for name. Unknown placeholders render empty.
func (c *Confirmer) Confirm(name string) string {
	return c.tpl.ExecuteString(map[string]interface{}{"name": name})
}
