package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/ridershift/internal/domain/models"
	"github.com/mamadbah2/ridershift/internal/service/riders"
)

const (
	ctxUserID   = "user_id"
	ctxUserRole = "user_role"
	ctxToken    = "token"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	ParseToken(token string) (*riders.Claims, error)
}

// AccountService is the identity surface used by the auth and rider handlers.
type AccountService interface {
	Login(ctx context.Context, email, password string) (models.Session, error)
	CurrentUser(ctx context.Context, token string) (models.User, error)
	SignUp(ctx context.Context, req models.SignUpRequest, role models.Role) (models.User, error)
	ListRiders(ctx context.Context) ([]models.User, error)
}

// Authenticate rejects requests without a valid bearer token and stores the
// caller identity on the context.
func Authenticate(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		token := strings.TrimSpace(parts[1])
		claims, err := tokens.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserRole, claims.Role)
		c.Set(ctxToken, token)
		c.Next()
	}
}

// RequireRole lets the request through only for the given roles.
func RequireRole(allowed ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, _ := c.Get(ctxUserRole)
		for _, r := range allowed {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

func userID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// AuthHandler serves login, logout and the current-user endpoint.
type AuthHandler struct {
	accounts AccountService
	logger   *zap.Logger
}

// NewAuthHandler constructs the auth HTTP adapter.
func NewAuthHandler(accounts AccountService, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{accounts: accounts, logger: logger}
}

// Login exchanges credentials for a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	session, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// Logout acknowledges the sign-out. Tokens are stateless, the client drops it.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Me returns the caller's account.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.accounts.CurrentUser(c.Request.Context(), c.GetString(ctxToken))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
