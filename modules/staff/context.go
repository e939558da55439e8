package staff

import "context"

type contextKey struct{}

// WithStaff attaches the resolved staff member to the request context so
// downstream handlers can act on behalf of a verified principal.
func WithStaff(ctx context.Context, s *Staff) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext retrieves the staff member attached by the guard.
func FromContext(ctx context.Context) (*Staff, bool) {
	s, ok := ctx.Value(contextKey{}).(*Staff)
	return s, ok && s != nil
}
