package auth

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	FindRoleByName(ctx context.Context, name string) (*UserRole, error)
	TouchLogin(ctx context.Context, id uint, at time.Time) error
	ListByRole(ctx context.Context, roleName string) ([]User, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Preload("Role").Where("LOWER(email) = LOWER(?)", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*User, error) {
	var u User
	if err := r.db.WithContext(ctx).Preload("Role").First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) FindRoleByName(ctx context.Context, name string) (*UserRole, error) {
	var role UserRole
	if err := r.db.WithContext(ctx).Where("role_name = ?", name).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *repository) TouchLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("last_login_at", at).Error
}

func (r *repository) ListByRole(ctx context.Context, roleName string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Preload("Role").
		Joins("JOIN user_roles ON user_roles.id = users.role_id").
		Where("user_roles.role_name = ?", roleName).
		Order("users.created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *repository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&User{}).Where("id = ?", id).Update("status", status).Error
}
