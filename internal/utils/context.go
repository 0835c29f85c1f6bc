package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rolo-dev/rolo/internal/models"
)

const ContextUserKey = "user"

func SetCurrentUser(ctx *gin.Context, user *models.User) {
	ctx.Set(ContextUserKey, user)
}

func GetCurrentUser(ctx *gin.Context) (*models.User, error) {
	user, exists := ctx.Get(ContextUserKey)

	if !exists {
		return nil, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(*models.User)

	if !ok || authenticatedUser == nil {
		return nil, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// ParseID reads a positive numeric path parameter.
func ParseID(ctx *gin.Context, param string) (uint, error) {
	raw := ctx.Param(param)

	if raw == "" {
		return 0, fmt.Errorf("%s is required", param)
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil || id == 0 {
		return 0, fmt.Errorf("Invalid %s", param)
	}

	return uint(id), nil
}
