package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sharath018/business-directory-backend/config"
	"github.com/sharath018/business-directory-backend/internal/apperr"
	"github.com/sharath018/business-directory-backend/internal/auditlog"
	"github.com/sharath018/business-directory-backend/internal/testutil"
)

const (
	rootEmail    = "root@example.com"
	rootPassword = "s3cret-pass"
)

func newAuthService(t *testing.T) (*service, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t, &UserRole{}, &User{}, &auditlog.AuditLog{})
	require.NoError(t, SeedUserRoles(db))
	require.NoError(t, SeedSuperAdminUser(db, rootEmail, rootPassword))

	cfg := &config.Config{
		JWTAccessSecret:    "access-secret",
		JWTRefreshSecret:   "refresh-secret",
		JWTAccessTTLHours:  1,
		JWTRefreshTTLHours: 24,
	}
	svc := NewService(NewRepository(db), auditlog.NewService(auditlog.NewRepository(db)), cfg, zerolog.Nop()).(*service)
	return svc, db
}

func TestSeedIsIdempotent(t *testing.T) {
	_, db := newAuthService(t)
	require.NoError(t, SeedUserRoles(db))
	require.NoError(t, SeedSuperAdminUser(db, rootEmail, "another"))
	require.NoError(t, SeedSuperAdminUser(db, "", ""))

	var roles, users int64
	require.NoError(t, db.Model(&UserRole{}).Count(&roles).Error)
	require.NoError(t, db.Model(&User{}).Count(&users).Error)
	assert.Equal(t, int64(2), roles)
	assert.Equal(t, int64(1), users)
}

func TestLoginAndParse(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	pair, user, err := svc.Login(ctx, LoginInput{Email: "ROOT@example.com", Password: rootPassword, IPAddress: "10.0.0.1"})
	require.NoError(t, err)
	assert.Equal(t, RoleSuperAdmin, user.Role.RoleName)
	require.NotNil(t, user.LastLoginAt)

	id, err := svc.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	// A refresh token is not an access token.
	_, err = svc.ParseAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	var logs []auditlog.AuditLog
	require.NoError(t, db.Where("action = ?", "LOGIN_SUCCESS").Find(&logs).Error)
	assert.Len(t, logs, 1)
}

func TestLoginFailures(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Login(ctx, LoginInput{Email: rootEmail, Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: rootPassword})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, db.Model(&User{}).Where("email = ?", rootEmail).Update("status", StatusInactive).Error)
	_, _, err = svc.Login(ctx, LoginInput{Email: rootEmail, Password: rootPassword})
	assert.ErrorIs(t, err, ErrAccountInactive)

	var failed int64
	require.NoError(t, db.Model(&auditlog.AuditLog{}).Where("action = ?", "LOGIN_FAILED").Count(&failed).Error)
	assert.Equal(t, int64(3), failed)
}

func TestRefreshAndExpiry(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	issued := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	pair, user, err := svc.Login(ctx, LoginInput{Email: rootEmail, Password: rootPassword})
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = svc.ParseAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	access, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	id, err := svc.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	svc.now = func() time.Time { return issued.Add(25 * time.Hour) }
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCreateAdmin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	admin, err := svc.CreateAdmin(ctx, CreateAdminInput{FullName: "Ada Reviewer", Email: "Ada@Example.com", Password: "password1"}, rootEmail, "")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", admin.Email)
	assert.Equal(t, RoleAdmin, admin.Role.RoleName)
	assert.Equal(t, rootEmail, admin.CreatedBy)

	_, user, err := svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, user.ID)

	_, err = svc.CreateAdmin(ctx, CreateAdminInput{FullName: "Dup", Email: "ada@example.com", Password: "password1"}, rootEmail, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.GetUserByID(ctx, 999)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateAdminStatus(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	root, err := svc.repo.FindByEmail(ctx, rootEmail)
	require.NoError(t, err)
	admin, err := svc.CreateAdmin(ctx, CreateAdminInput{FullName: "Ada Reviewer", Email: "ada@example.com", Password: "password1"}, rootEmail, "")
	require.NoError(t, err)

	admins, err := svc.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, admin.ID, admins[0].ID)

	updated, err := svc.UpdateAdminStatus(ctx, admin.ID, StatusInactive, root.ID, rootEmail, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, updated.Status)

	_, _, err = svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrAccountInactive)

	_, err = svc.UpdateAdminStatus(ctx, admin.ID, "suspended", root.ID, rootEmail, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.UpdateAdminStatus(ctx, root.ID, StatusInactive, root.ID, rootEmail, "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.UpdateAdminStatus(ctx, 999, StatusActive, root.ID, rootEmail, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	var updates int64
	require.NoError(t, db.Model(&auditlog.AuditLog{}).Where("action = ?", "ADMIN_STATUS_UPDATED").Count(&updates).Error)
	assert.Equal(t, int64(1), updates)
}
