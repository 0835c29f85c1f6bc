package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rolo-dev/rolo/internal/apperr"
	"github.com/rolo-dev/rolo/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ResetLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email" binding:"omitempty,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var body RegisterRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		badRequest(ctx, "Invalid request")
		return
	}

	_, err := h.Auth.Register(ctx.Request.Context(), services.RegisterInput{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
		Password:  body.Password,
		Role:      body.Role,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"success": true, "message": "User Registered"})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var body LoginRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		log.Printf("Failed to bind JSON: %v", err)
		badRequest(ctx, "Invalid request")
		return
	}

	token, user, err := h.Auth.Login(ctx.Request.Context(), body.Email, body.Password)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login Successful",
		"token":   token,
		"data":    user,
	})
}

func (h *AuthHandler) SendResetLink(ctx *gin.Context) {
	var body ResetLinkRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "A valid email is required")
		return
	}

	if err := h.Auth.SendResetLink(ctx.Request.Context(), body.Email); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Reset email sent"})
}

func (h *AuthHandler) ResetPassword(ctx *gin.Context) {
	var body ResetPasswordRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Password is required")
		return
	}

	if err := h.Auth.ResetPassword(ctx.Request.Context(), ctx.Param("token"), body.Password); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated"})
}

func (h *AuthHandler) Profile(ctx *gin.Context) {
	current, ok := currentUser(ctx)
	if !ok {
		return
	}

	user, orders, err := h.Auth.Profile(ctx.Request.Context(), current.ID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": user, "orders": orders})
}

func (h *AuthHandler) UpdateProfile(ctx *gin.Context) {
	current, ok := currentUser(ctx)
	if !ok {
		return
	}

	var body UpdateProfileRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "Invalid request")
		return
	}

	user, err := h.Auth.UpdateProfile(ctx.Request.Context(), current.ID, services.ProfileUpdate{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     body.Email,
	})

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"email":     user.Email,
	})
}

// ChangePassword answers a wrong current password with 401, unlike the
// 403 used for token failures.
func (h *AuthHandler) ChangePassword(ctx *gin.Context) {
	current, ok := currentUser(ctx)
	if !ok {
		return
	}

	var body ChangePasswordRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		badRequest(ctx, "currentPassword and newPassword are required")
		return
	}

	err := h.Auth.ChangePassword(ctx.Request.Context(), current.ID, body.CurrentPassword, body.NewPassword)

	if err != nil {
		if apperr.KindOf(err) == apperr.KindAuth {
			respondErrorStatus(ctx, http.StatusUnauthorized, err)
			return
		}
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password changed successfully."})
}
