package requestid

import (
	"context"
	"regexp"

	"github.com/google/uuid"
)

const Header = "X-Request-ID"

// Incoming ids are echoed into logs and headers, so only short, printable
// tokens are accepted.
var validID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

type ctxKey struct{}

// New generates a random UUID v4 request ID.
func New() string {
	return uuid.NewString()
}

// Sanitize returns id when it is an acceptable client-supplied request id,
// otherwise a freshly generated one.
func Sanitize(id string) string {
	if validID.MatchString(id) {
		return id
	}
	return New()
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the request ID from ctx. Returns "" if absent.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
