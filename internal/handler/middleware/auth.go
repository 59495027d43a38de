package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"fitbook/internal/domain/member"
	"fitbook/internal/pkg/cookie"
	"fitbook/internal/usecase"
	"fitbook/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

const (
	ctxMemberIDKey   = "member_id"
	ctxBranchIDKey   = "branch_id"
	ctxMemberRoleKey = "member_role"
)

var roleHierarchy = map[member.Role]int{
	member.RoleMember: 1,
	member.RoleStaff:  2,
	member.RoleAdmin:  3,
}

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		tokenValidator: tokenValidator,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookie.GetAccessToken(c)

		if token == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				token = strings.TrimSpace(authHeader[len("Bearer "):])
			}
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Access token required",
			})
			c.Abort()
			return
		}

		memberID, branchID, role, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			slog.Warn("token validation failed in auth middleware", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxMemberIDKey, memberID)
		c.Set(ctxBranchIDKey, branchID)
		c.Set(ctxMemberRoleKey, role)
		c.Set("jwt_claims", map[string]any{
			"member_id": memberID.String(),
			"branch_id": branchID.String(),
			"role":      string(role),
		})
		c.Next()
	}
}

func (m *AuthMiddleware) RequireRoleAtLeast(minRole member.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetMemberRole(c)
		if !ok {
			// Misordered middleware: must run after RequireAuth()
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   "Internal server error",
			})
			c.Abort()
			return
		}

		if !hasMinimumRole(role, minRole) {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Insufficient permissions",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func hasMinimumRole(role, minRole member.Role) bool {
	level, ok := roleHierarchy[role]
	minLevel, minOK := roleHierarchy[minRole]
	return ok && minOK && level >= minLevel
}

func GetMemberID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxMemberIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func GetBranchID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxBranchIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func GetMemberRole(c *gin.Context) (member.Role, bool) {
	v, exists := c.Get(ctxMemberRoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(member.Role)
	return role, ok
}

// GetActor assembles the command-side caller identity from the request
// context set by RequireAuth.
func GetActor(c *gin.Context) (commands.Actor, bool) {
	id, ok := GetMemberID(c)
	if !ok {
		return commands.Actor{}, false
	}
	branchID, ok := GetBranchID(c)
	if !ok {
		return commands.Actor{}, false
	}
	role, ok := GetMemberRole(c)
	if !ok {
		return commands.Actor{}, false
	}
	return commands.Actor{ID: id, BranchID: branchID, Role: role}, true
}
