package services

import (
	"strings"
	"testing"

	"github.com/rolo-dev/rolo/internal/apperr"
	"github.com/rolo-dev/rolo/internal/auth"
	"github.com/rolo-dev/rolo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T) (*AuthService, *mailRecorder) {
	t.Helper()
	mail := &mailRecorder{}
	return NewAuthService(setupTestDB(t), testTokens(t), mail, "http://localhost:5173/"), mail
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)

	user, err := svc.Register(bg, RegisterInput{
		FirstName: "Asha",
		LastName:  "Rai",
		Email:     "  Asha@Example.com ",
		Password:  "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, models.RoleNormal, user.Role)
	assert.NotEqual(t, "secret", user.Password)

	token, logged, err := svc.Login(bg, "asha@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)
	assert.NotEmpty(t, token)

	current, err := svc.Authenticate(bg, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	in := RegisterInput{FirstName: "A", LastName: "B", Email: "dup@example.com", Password: "x"}
	_, err := svc.Register(bg, in)
	require.NoError(t, err)

	in.Email = "DUP@example.com"
	_, err = svc.Register(bg, in)
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "User exists", apperr.PublicMessage(err))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Register(bg, RegisterInput{FirstName: "A", Email: "a@b.c", Password: "x"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Register(bg, RegisterInput{FirstName: "A", LastName: "B", Email: "a@b.c", Password: "x", Role: "root"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestLoginFailuresAreUniform(t *testing.T) {
	svc, _ := newAuthService(t)
	_, err := svc.Register(bg, RegisterInput{FirstName: "A", LastName: "B", Email: "a@b.c", Password: "right"})
	require.NoError(t, err)

	_, _, errUnknown := svc.Login(bg, "nobody@b.c", "right")
	_, _, errWrong := svc.Login(bg, "a@b.c", "wrong")

	assert.ErrorIs(t, errUnknown, apperr.ErrAuth)
	assert.ErrorIs(t, errWrong, apperr.ErrAuth)
	assert.Equal(t, apperr.PublicMessage(errUnknown), apperr.PublicMessage(errWrong))
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Authenticate(bg, "")
	assert.ErrorIs(t, err, apperr.ErrAuth)

	_, err = svc.Authenticate(bg, "not-a-jwt")
	assert.ErrorIs(t, err, apperr.ErrAuth)

	reset, err := testTokens(t).GenerateReset(1)
	require.NoError(t, err)
	_, err = svc.Authenticate(bg, reset)
	assert.ErrorIs(t, err, apperr.ErrAuth)

	ghost, err := testTokens(t).GenerateSession(auth.Claims{UserID: 4242})
	require.NoError(t, err)
	_, err = svc.Authenticate(bg, ghost)
	assert.ErrorIs(t, err, apperr.ErrAuth)
}

func TestRequireRole(t *testing.T) {
	assert.NoError(t, RequireRole(&models.User{Role: models.RoleAdmin}, models.RoleAdmin))
	assert.ErrorIs(t, RequireRole(&models.User{Role: models.RoleNormal}, models.RoleAdmin), apperr.ErrForbidden)
	assert.ErrorIs(t, RequireRole(nil, models.RoleAdmin), apperr.ErrForbidden)
}

func TestUpdateProfileKeepsEmptyFields(t *testing.T) {
	svc, _ := newAuthService(t)
	createUser(t, svc.db, "taken@example.com", models.RoleNormal)
	u := createUser(t, svc.db, "me@example.com", models.RoleNormal)

	updated, err := svc.UpdateProfile(bg, u.ID, ProfileUpdate{FirstName: "New"})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.FirstName)
	assert.Equal(t, "User", updated.LastName)
	assert.Equal(t, "me@example.com", updated.Email)

	_, err = svc.UpdateProfile(bg, u.ID, ProfileUpdate{Email: "taken@example.com"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.UpdateProfile(bg, 9999, ProfileUpdate{FirstName: "X"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateProfileLosesEmailRace(t *testing.T) {
	svc, _ := newAuthService(t)
	u := createUser(t, svc.db, "me@example.com", models.RoleNormal)

	// Another account claims the address after the availability check passed.
	claimed := false
	require.NoError(t, svc.db.Callback().Update().Before("gorm:update").Register("test:claim_email", func(tx *gorm.DB) {
		if claimed || tx.Statement.Table != "users" {
			return
		}
		claimed = true
		other := &models.User{FirstName: "Other", LastName: "User", Email: "wanted@example.com", Password: "x", Role: models.RoleNormal}
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Create(other).Error)
	}))

	_, err := svc.UpdateProfile(bg, u.ID, ProfileUpdate{Email: "wanted@example.com"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
	assert.Equal(t, "User exists", apperr.PublicMessage(err))
	assert.True(t, claimed)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthService(t)
	u := createUser(t, svc.db, "me@example.com", models.RoleNormal)

	err := svc.ChangePassword(bg, u.ID, "wrong", "next-password")
	assert.ErrorIs(t, err, apperr.ErrAuth)

	err = svc.ChangePassword(bg, u.ID, "password123", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, svc.ChangePassword(bg, u.ID, "password123", "next-password"))

	_, _, err = svc.Login(bg, "me@example.com", "next-password")
	assert.NoError(t, err)
}

func TestResetPasswordFlow(t *testing.T) {
	svc, mail := newAuthService(t)
	u := createUser(t, svc.db, "me@example.com", models.RoleNormal)

	err := svc.SendResetLink(bg, "missing@example.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, svc.SendResetLink(bg, "ME@example.com"))

	sent := mail.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, u.Email, sent[0].To)

	const prefix = "http://localhost:5173/reset-password/"
	start := strings.Index(sent[0].HTML, prefix)
	require.GreaterOrEqual(t, start, 0)
	token := sent[0].HTML[start+len(prefix):]
	token = token[:strings.IndexAny(token, `"<`)]

	err = svc.ResetPassword(bg, "garbage", "new-password")
	assert.ErrorIs(t, err, apperr.ErrAuth)

	require.NoError(t, svc.ResetPassword(bg, token, "new-password"))

	_, _, err = svc.Login(bg, u.Email, "new-password")
	assert.NoError(t, err)
}

func TestAdminUserManagement(t *testing.T) {
	svc, _ := newAuthService(t)
	u := createUser(t, svc.db, "me@example.com", models.RoleNormal)

	users, err := svc.ListUsers(bg)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	updated, err := svc.UpdateUser(bg, u.ID, UserUpdate{LastName: "Changed", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, "Changed", updated.LastName)
	assert.True(t, updated.IsAdmin())

	_, err = svc.UpdateUser(bg, u.ID, UserUpdate{Role: "owner"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	require.NoError(t, svc.DeleteUser(bg, u.ID))
	assert.ErrorIs(t, svc.DeleteUser(bg, u.ID), apperr.ErrNotFound)

	_, err = svc.GetUser(bg, u.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// the address is free again after a hard delete
	_, err = svc.Register(bg, RegisterInput{FirstName: "A", LastName: "B", Email: "me@example.com", Password: "x"})
	assert.NoError(t, err)
}
