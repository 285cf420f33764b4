package globals

import (
	"context"
	"os"
)

var JwtSecret = []byte(envOr("JWT_SECRET", "nitrojack_dev_secret"))

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"

// TokenHash is the Redis hash holding the active access token per user.
// Logout deletes the entry, which invalidates the session server-side.
const TokenHash = "tokki"

var Ctx = context.Background()

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
