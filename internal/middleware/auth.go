package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rolo-dev/rolo/internal/apperr"
	"github.com/rolo-dev/rolo/internal/models"
	"github.com/rolo-dev/rolo/internal/services"
	"github.com/rolo-dev/rolo/internal/utils"
)

// Authenticator resolves a session token to a user. *services.AuthService implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

func abort(ctx *gin.Context, err error) {
	ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": apperr.PublicMessage(err)})
}

// bearerToken extracts the token from the Authorization header. Browsers
// cannot set headers on websocket upgrades, so a token query parameter is
// accepted as well.
func bearerToken(ctx *gin.Context) (string, error) {
	authHeader := ctx.GetHeader("Authorization")

	if authHeader == "" {
		if token := ctx.Query("token"); token != "" {
			return token, nil
		}
		return "", apperr.Auth("Authorization token is required")
	}

	parts := strings.SplitN(authHeader, " ", 2)

	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", apperr.Auth("Authorization header format must be Bearer {token}")
	}

	return parts[1], nil
}

// AuthMiddleware rejects every unauthenticated request with 403.
func AuthMiddleware(authn Authenticator) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := bearerToken(ctx)

		if err != nil {
			abort(ctx, err)
			return
		}

		user, err := authn.Authenticate(ctx.Request.Context(), token)

		if err != nil {
			if apperr.KindOf(err) == apperr.KindInternal {
				ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": apperr.PublicMessage(err)})
				return
			}
			abort(ctx, err)
			return
		}

		utils.SetCurrentUser(ctx, user)
		ctx.Next()
	}
}

// RequireAdmin must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, err := utils.GetCurrentUser(ctx)

		if err != nil {
			abort(ctx, apperr.Auth(err.Error()))
			return
		}

		if err := services.RequireRole(user, models.RoleAdmin); err != nil {
			abort(ctx, err)
			return
		}

		ctx.Next()
	}
}
