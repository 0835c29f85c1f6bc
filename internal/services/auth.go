package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/rolo-dev/rolo/internal/apperr"
	"github.com/rolo-dev/rolo/internal/auth"
	"github.com/rolo-dev/rolo/internal/mailer"
	"github.com/rolo-dev/rolo/internal/models"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	tokens    *auth.Tokens
	mail      MailQueue
	clientURL string
}

func NewAuthService(db *gorm.DB, tokens *auth.Tokens, mail MailQueue, clientURL string) *AuthService {
	return &AuthService{
		db:        db,
		tokens:    tokens,
		mail:      mail,
		clientURL: strings.TrimRight(clientURL, "/"),
	}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
}

// ProfileUpdate fields left empty keep their current value.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Email     string
}

type UserUpdate struct {
	FirstName string
	LastName  string
	Role      string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = normalizeEmail(in.Email)

	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.Validation("Missing fields")
	}

	role, err := models.ParseRole(in.Role)
	if err != nil {
		return nil, apperr.Validation("Invalid role")
	}

	if err := s.ensureEmailFree(ctx, in.Email, 0); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}

	user := models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  hash,
		Role:      role,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, userWriteErr("create user", err)
	}

	return &user, nil
}

// ensureEmailFree fails with Conflict when another user (not exceptID) owns email.
func (s *AuthService) ensureEmailFree(ctx context.Context, email string, exceptID uint) error {
	var count int64

	err := s.db.WithContext(ctx).Unscoped().
		Model(&models.User{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&count).Error
	if err != nil {
		return dbErr("check email", err)
	}

	if count > 0 {
		return apperr.Conflict("User exists")
	}

	return nil
}

// Login returns a session token. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, apperr.Validation("Missing field")
	}

	var user models.User

	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperr.Auth("Invalid credentials")
		}
		return "", nil, dbErr("find user", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		return "", nil, apperr.Auth("Invalid credentials")
	}

	token, err := s.tokens.GenerateSession(auth.Claims{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      string(user.Role),
	})
	if err != nil {
		return "", nil, apperr.Internal("sign session token", err)
	}

	return token, &user, nil
}

// Authenticate resolves the current user from a session token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, apperr.Auth("Authorization token is required")
	}

	claims, err := s.tokens.Verify(token, auth.PurposeSession)
	if err != nil {
		return nil, apperr.Auth("Invalid or expired token")
	}

	var user models.User

	if err := s.db.WithContext(ctx).First(&user, claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Auth("User not found")
		}
		return nil, dbErr("find user", err)
	}

	return &user, nil
}

func RequireRole(user *models.User, role models.Role) error {
	if user == nil || user.Role != role {
		return apperr.Forbidden("Access denied")
	}
	return nil
}

func (s *AuthService) findUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, lookupErr(err, "User not found", "find user")
	}
	return &user, nil
}

// Profile returns the user with their orders, newest first.
func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, []OrderView, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	orders, err := listOrders(ctx, s.db, OrderFilter{UserID: userID})
	if err != nil {
		return nil, nil, err
	}

	return user, orders, nil
}

// userWriteErr reports a lost race for the unique email index as a conflict.
func userWriteErr(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperr.Conflict("User exists")
	}
	return dbErr(op, err)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*models.User, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(in.FirstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(in.LastName); v != "" {
		user.LastName = v
	}
	if v := normalizeEmail(in.Email); v != "" && v != user.Email {
		if err := s.ensureEmailFree(ctx, v, user.ID); err != nil {
			return nil, err
		}
		user.Email = v
	}

	err = s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"email":      user.Email,
	}).Error
	if err != nil {
		return nil, userWriteErr("update profile", err)
	}

	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	if next == "" {
		return apperr.Validation("New password is required")
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(user.Password, current) {
		return apperr.Auth("Incorrect current password.")
	}

	return s.setPassword(ctx, user.ID, next)
}

func (s *AuthService) setPassword(ctx context.Context, userID uint, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return apperr.Internal("hash password", err)
	}

	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password", hash)
	if res.Error != nil {
		return dbErr("update password", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("User not found")
	}

	return nil
}

// SendResetLink queues a password reset email. Delivery problems are logged only.
func (s *AuthService) SendResetLink(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return apperr.Validation("Email is required")
	}

	var user models.User

	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return lookupErr(err, "User not found", "find user")
	}

	token, err := s.tokens.GenerateReset(user.ID)
	if err != nil {
		return apperr.Internal("sign reset token", err)
	}

	url := s.clientURL + "/reset-password/" + token

	if s.mail == nil || !s.mail.Enqueue(mailer.ResetPassword(user.Email, user.FirstName, url)) {
		log.Printf("[AUTH] Reset email for user %d was not queued", user.ID)
	}

	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	if password == "" {
		return apperr.Validation("Password is required")
	}

	claims, err := s.tokens.Verify(token, auth.PurposeReset)
	if err != nil {
		return apperr.Auth("Invalid or expired token")
	}

	return s.setPassword(ctx, claims.UserID, password)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, dbErr("list users", err)
	}
	return users, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.findUser(ctx, id)
}

func (s *AuthService) UpdateUser(ctx context.Context, id uint, in UserUpdate) (*models.User, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if v := strings.TrimSpace(in.FirstName); v != "" {
		user.FirstName = v
	}
	if v := strings.TrimSpace(in.LastName); v != "" {
		user.LastName = v
	}
	if in.Role != "" {
		role, err := models.ParseRole(in.Role)
		if err != nil {
			return nil, apperr.Validation("Invalid role")
		}
		user.Role = role
	}

	err = s.db.WithContext(ctx).Model(user).Updates(map[string]interface{}{
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"role":       user.Role,
	}).Error
	if err != nil {
		return nil, userWriteErr("update user", err)
	}

	return user, nil
}

// DeleteUser removes the account permanently so the email can be reused.
// Orders and notifications that reference it are kept.
func (s *AuthService) DeleteUser(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Unscoped().Delete(&models.User{}, id)
	if res.Error != nil {
		return dbErr("delete user", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}
