package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rolo-dev/rolo/internal/apperr"
	"github.com/rolo-dev/rolo/internal/models"
	"github.com/rolo-dev/rolo/internal/utils"
)

func respondError(ctx *gin.Context, err error) {
	respondErrorStatus(ctx, apperr.Status(err), err)
}

func respondErrorStatus(ctx *gin.Context, status int, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		log.Printf("%s %s failed: %v", ctx.Request.Method, ctx.FullPath(), err)
	}

	ctx.JSON(status, gin.H{"success": false, "message": apperr.PublicMessage(err)})
}

func badRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

// pathID parses a numeric path parameter, writing a 400 on failure.
func pathID(ctx *gin.Context, param string) (uint, bool) {
	id, err := utils.ParseID(ctx, param)

	if err != nil {
		badRequest(ctx, err.Error())
		return 0, false
	}

	return id, true
}

// currentUser returns the authenticated user, writing a 403 when absent.
func currentUser(ctx *gin.Context) (*models.User, bool) {
	user, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"success": false, "message": err.Error()})
		return nil, false
	}

	return user, true
}
