// Package requestid carries the request ID through a context.
package requestid

import "context"

type contextKey struct{}

// Unknown is reported when no request ID is present
const Unknown = "unknown"

// With returns a copy of ctx carrying id
func With(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// From returns the request ID stored in ctx, or Unknown
func From(ctx context.Context) string {
	id, ok := ctx.Value(contextKey{}).(string)
	if !ok || id == "" {
		return Unknown
	}
	return id
}
