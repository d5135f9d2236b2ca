package globals

import (
	"context"
	"os"
)

var JwtSecret = []byte(os.Getenv("JWT_SECRET"))

// Context keys
type ContextKey string

const RoleKey ContextKey = "role"
const UserIDKey ContextKey = "userId"

var Ctx = context.Background()
