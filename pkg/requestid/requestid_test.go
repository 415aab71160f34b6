package requestid

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	id := New()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)

	ctx := NewContext(context.Background(), id)
	assert.Equal(t, id, FromContext(ctx))
	assert.Equal(t, id, FromContext(context.WithoutCancel(ctx)))
}

func TestFromContext_Missing(t *testing.T) {
	assert.Empty(t, FromContext(context.Background()))
}

func TestFromHeader(t *testing.T) {
	h := http.Header{}
	h.Set(Header, "caller-supplied")
	assert.Equal(t, "caller-supplied", FromHeader(h))

	tests := map[string]string{
		"missing":  "",
		"too long": strings.Repeat("a", maxLength+1),
		"space":    "two words",
		"newline":  "forged\nlevel=error",
		"unicode":  "idé",
	}
	for name, value := range tests {
		t.Run(name, func(t *testing.T) {
			h := http.Header{}
			if value != "" {
				h.Set(Header, value)
			}
			got := FromHeader(h)
			assert.NotEqual(t, value, got)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		})
	}
}
