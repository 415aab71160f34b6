// Package requestid carries the id that ties an inbound API request to the
// Prism Central calls made on its behalf.
package requestid

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// Header carries the request id on inbound requests, responses and calls
// forwarded to Prism Central.
const Header = "X-Request-ID"

// caller ids longer than this are replaced
const maxLength = 128

type ctxKey struct{}

// New returns a fresh random id.
func New() string {
	return uuid.NewString()
}

// FromHeader returns the id the caller sent in h. A missing id, or one
// that is too long or contains spaces or control characters, is replaced
// by a fresh one.
func FromHeader(h http.Header) string {
	id := h.Get(Header)
	if id == "" || len(id) > maxLength || strings.IndexFunc(id, unprintable) >= 0 {
		return New()
	}
	return id
}

func unprintable(r rune) bool {
	return r <= ' ' || r > '~'
}

func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the id stored by NewContext, or "".
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
