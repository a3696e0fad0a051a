package auth

import "context"

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

// ContextKeyEmail is the key for the signed-in admin email in request context
const ContextKeyEmail ContextKey = "adminEmail"

// ContextWithEmail returns a new context with the admin email set
func ContextWithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, ContextKeyEmail, email)
}

// EmailFromContext extracts the admin email from context
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(ContextKeyEmail).(string)
	return email, ok
}
