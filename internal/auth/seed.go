package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedUserRoles creates the back-office roles if they are missing.
func SeedUserRoles(db *gorm.DB) error {
	roles := []UserRole{
		{RoleName: RoleSuperAdmin, Description: "Full access, manages admins"},
		{RoleName: RoleAdmin, Description: "Reviews submissions and manages listings"},
	}
	return db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "role_name"}}, DoNothing: true}).
		Create(&roles).Error
}

// SeedSuperAdminUser creates the super admin account once. An empty email
// or password skips seeding.
func SeedSuperAdminUser(db *gorm.DB, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var existing User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var role UserRole
	if err := db.Where("role_name = ?", RoleSuperAdmin).First(&role).Error; err != nil {
		return fmt.Errorf("superadmin role missing: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return db.Create(&User{
		FullName:     "Super Admin",
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		Status:       StatusActive,
		CreatedBy:    "system",
	}).Error
}
