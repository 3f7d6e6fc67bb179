package contextkeys

// Custom key type to avoid collisions with other packages writing
// into the same request context.
type contextKey string

const (
	// RequestIDKey is the key under which RequestIDMiddleware stores the
	// per-request correlation id.
	RequestIDKey = contextKey("request_id")

	// UserIDKey is set by the auth middleware after token verification.
	UserIDKey = contextKey("user_id")
)
