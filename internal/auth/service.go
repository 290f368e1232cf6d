package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sharath018/business-directory-backend/config"
	"github.com/sharath018/business-directory-backend/internal/apperr"
	"github.com/sharath018/business-directory-backend/internal/auditlog"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrAccountInactive    = errors.New("your account is inactive")
)

type Service interface {
	Login(ctx context.Context, in LoginInput) (*TokenPair, *User, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	ParseAccessToken(token string) (uint, error)
	GetUserByID(ctx context.Context, id uint) (*User, error)
	CreateAdmin(ctx context.Context, in CreateAdminInput, actor, ip string) (*User, error)
	ListAdmins(ctx context.Context) ([]User, error)
	UpdateAdminStatus(ctx context.Context, id uint, status string, actorID uint, actor, ip string) (*User, error)
}

type service struct {
	repo          Repository
	audit         auditlog.Service
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
	log           zerolog.Logger
	now           func() time.Time
}

func NewService(r Repository, audit auditlog.Service, cfg *config.Config, log zerolog.Logger) Service {
	return &service{
		repo:          r,
		audit:         audit,
		accessSecret:  cfg.JWTAccessSecret,
		refreshSecret: cfg.JWTRefreshSecret,
		accessTTL:     time.Duration(cfg.JWTAccessTTLHours) * time.Hour,
		refreshTTL:    time.Duration(cfg.JWTRefreshTTLHours) * time.Hour,
		log:           log.With().Str("component", "auth").Logger(),
		now:           time.Now,
	}
}

func (s *service) Login(ctx context.Context, in LoginInput) (*TokenPair, *User, error) {
	email := strings.TrimSpace(in.Email)
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.loginFailed(ctx, email, nil, "unknown email", in.IPAddress)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, apperr.Store("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		s.loginFailed(ctx, email, &user.ID, "wrong password", in.IPAddress)
		return nil, nil, ErrInvalidCredentials
	}
	if user.Status != StatusActive {
		s.loginFailed(ctx, email, &user.ID, "inactive account", in.IPAddress)
		return nil, nil, ErrAccountInactive
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	if err := s.repo.TouchLogin(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Uint("user_id", user.ID).Msg("could not record login time")
	} else {
		user.LastLoginAt = &now
	}
	_ = s.audit.LogAction(ctx, user.Email, "user", &user.ID, "LOGIN_SUCCESS", nil, in.IPAddress, auditlog.StatusSuccess)
	return pair, user, nil
}

func (s *service) loginFailed(ctx context.Context, email string, userID *uint, reason, ip string) {
	_ = s.audit.LogAction(ctx, email, "user", userID, "LOGIN_FAILED",
		map[string]interface{}{"reason": reason}, ip, auditlog.StatusFailure)
}

func (s *service) issue(user *User) (*TokenPair, error) {
	access, err := s.sign(user, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) sign(user *User, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role_id": user.RoleID,
		"exp":     s.now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// parse validates a token signed with secret and returns its user id.
func (s *service) parse(tokenStr, secret string) (uint, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

func (s *service) ParseAccessToken(token string) (uint, error) {
	return s.parse(token, s.accessSecret)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	id, err := s.parse(refreshToken, s.refreshSecret)
	if err != nil {
		return "", err
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", ErrInvalidToken
	}
	if user.Status != StatusActive {
		return "", ErrAccountInactive
	}
	return s.sign(user, s.accessSecret, s.accessTTL)
}

func (s *service) GetUserByID(ctx context.Context, id uint) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Store("find user", err)
	}
	return u, nil
}

// CreateAdmin adds an admin account. Only the super admin route calls it.
func (s *service) CreateAdmin(ctx context.Context, in CreateAdminInput, actor, ip string) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Validation("email %s is already registered", email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Store("find user", err)
	}

	role, err := s.repo.FindRoleByName(ctx, RoleAdmin)
	if err != nil {
		return nil, apperr.Store("find role", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &User{
		FullName:     strings.TrimSpace(in.FullName),
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		Status:       StatusActive,
		CreatedBy:    actor,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, apperr.Store("create admin", err)
	}
	user.Role = *role
	_ = s.audit.LogAction(ctx, actor, "user", &user.ID, "ADMIN_CREATED",
		map[string]interface{}{"email": email}, ip, auditlog.StatusSuccess)
	s.log.Info().Str("email", email).Str("by", actor).Msg("admin account created")
	return user, nil
}

func (s *service) ListAdmins(ctx context.Context) ([]User, error) {
	users, err := s.repo.ListByRole(ctx, RoleAdmin)
	if err != nil {
		return nil, apperr.Store("list admins", err)
	}
	if users == nil {
		users = []User{}
	}
	return users, nil
}

// UpdateAdminStatus activates or deactivates an admin account. Super admin
// accounts and the caller's own account cannot be changed here.
func (s *service) UpdateAdminStatus(ctx context.Context, id uint, status string, actorID uint, actor, ip string) (*User, error) {
	if status != StatusActive && status != StatusInactive {
		return nil, apperr.Validation("status must be %q or %q", StatusActive, StatusInactive)
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Store("find user", err)
	}

	fail := func(reason string) error {
		_ = s.audit.LogAction(ctx, actor, "user", &user.ID, "ADMIN_STATUS_UPDATE_FAILED",
			map[string]interface{}{"email": user.Email, "new_status": status, "reason": reason}, ip, auditlog.StatusFailure)
		return apperr.Validation("%s", reason)
	}
	switch {
	case user.ID == actorID:
		return nil, fail("cannot change your own account status")
	case user.Role.RoleName != RoleAdmin:
		return nil, fail("only admin accounts can be changed")
	}

	old := user.Status
	if old == status {
		return user, nil
	}
	if err := s.repo.UpdateStatus(ctx, user.ID, status); err != nil {
		return nil, apperr.Store("update user status", err)
	}
	user.Status = status

	_ = s.audit.LogAction(ctx, actor, "user", &user.ID, "ADMIN_STATUS_UPDATED",
		map[string]interface{}{"email": user.Email, "old_status": old, "new_status": status}, ip, auditlog.StatusSuccess)
	s.log.Info().Str("email", user.Email).Str("status", status).Str("by", actor).Msg("admin status updated")
	return user, nil
}
