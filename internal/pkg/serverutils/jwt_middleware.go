package serverutils

import (
	"fmt"
	"regexp"
	"strings"

	"bioez-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	LocalsWorkspaceID  = "workspace_id"
	WorkspaceHeader    = "X-Workspace-Id"
	DefaultWorkspaceID = "default"
)

var workspaceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_.:-]{1,128}$`)

// WorkspaceMiddleware resolves the caller's workspace. With a secret the id
// comes from the token claims (user_id, then sub) and a token is mandatory.
// Without one the X-Workspace-Id header or workspace query is trusted.
func WorkspaceMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		var id string
		if secret != "" {
			tokenStr := bearerToken(ctx)
			if tokenStr == "" {
				return fiber.NewError(fiber.StatusUnauthorized, "Missing token")
			}
			claims, err := ParseToken(tokenStr, secret)
			if err != nil {
				return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
			}
			id = claimString(claims, "user_id")
			if id == "" {
				id = claimString(claims, "sub")
			}
			if id == "" {
				return fiber.NewError(fiber.StatusUnauthorized, "Invalid claims")
			}
		} else {
			id = strings.TrimSpace(ctx.Get(WorkspaceHeader))
			if id == "" {
				id = strings.TrimSpace(ctx.Query("workspace"))
			}
			if id == "" {
				id = DefaultWorkspaceID
			}
		}

		if !workspaceIDPattern.MatchString(id) {
			return apperror.Validation("INVALID_WORKSPACE", "Invalid workspace id")
		}
		ctx.Locals(LocalsWorkspaceID, id)
		return ctx.Next()
	}
}

// WorkspaceID returns the id set by WorkspaceMiddleware.
func WorkspaceID(ctx *fiber.Ctx) string {
	id, _ := ctx.Locals(LocalsWorkspaceID).(string)
	return id
}

// ParseToken verifies an HMAC-signed token and returns its claims.
func ParseToken(tokenStr, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}
	return claims, nil
}

// bearerToken reads the Authorization header, falling back to the token
// query parameter that browsers use for WebSocket handshakes.
func bearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:]
	}
	return ctx.Query("token")
}

func claimString(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return ""
}
