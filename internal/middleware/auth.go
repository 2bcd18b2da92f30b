package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/branchops/float_ledger/internal/core/domain"
	"github.com/branchops/float_ledger/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ActorClaims are the JWT claims issued by the external identity provider.
type ActorClaims struct {
	Role     string `json:"role"`
	BranchID string `json:"branch_id"`
	jwt.RegisteredClaims
}

var knownRoles = map[domain.Role]bool{
	domain.RoleAdmin:      true,
	domain.RoleFinance:    true,
	domain.RoleManager:    true,
	domain.RoleOperations: true,
	domain.RoleCashier:    true,
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.APIResponse{Success: false, Error: msg})
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens
// and resolves the request actor. Requests without a valid actor are rejected;
// no default identity is ever substituted.
func AuthMiddleware(jwtSecret string, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			abortUnauthorized(c, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			abortUnauthorized(c, "Authorization header format must be Bearer {token}")
			return
		}

		opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
		if issuer != "" {
			opts = append(opts, jwt.WithIssuer(issuer))
		}
		claims := &ActorClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(jwtSecret), nil
		}, opts...)
		if err != nil || !token.Valid {
			logger.Warn("Invalid token", "error", err)
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			abortUnauthorized(c, msg)
			return
		}

		role := domain.Role(claims.Role)
		if claims.Subject == "" || !knownRoles[role] {
			logger.Error("Token is missing subject or carries an unknown role", slog.String("role", claims.Role))
			abortUnauthorized(c, "Invalid token claims")
			return
		}
		if claims.BranchID == "" && role != domain.RoleAdmin && role != domain.RoleFinance {
			logger.Error("Branch-scoped role without branch_id claim", slog.String("role", claims.Role))
			abortUnauthorized(c, "Invalid token claims")
			return
		}

		actor := domain.Actor{UserID: claims.Subject, Role: role, BranchID: claims.BranchID}
		enrichedLogger := logger.With(
			slog.String("user_id", actor.UserID),
			slog.String("role", string(actor.Role)),
			slog.String("branch_id", actor.BranchID),
		)
		c.Set(string(actorKey), actor)
		c.Set(string(loggerKey), enrichedLogger)
		c.Request = c.Request.WithContext(WithLogger(WithActor(c.Request.Context(), actor), enrichedLogger))

		c.Next()
	}
}

// RequireRoles rejects actors whose role is not in roles with 403.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		actor, ok := GetActorFromContext(c)
		if !ok {
			abortUnauthorized(c, "Authentication required")
			return
		}
		if !allowed[actor.Role] {
			GetLoggerFromCtx(c.Request.Context()).Warn("Role not permitted for route", slog.String("role", string(actor.Role)))
			c.AbortWithStatusJSON(http.StatusForbidden, dto.APIResponse{Success: false, Error: "insufficient role for this operation"})
			return
		}
		c.Next()
	}
}
