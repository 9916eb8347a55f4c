package models

import "gorm.io/gorm"

type UserRole string

const (
	RoleManager UserRole = "manager"
	RoleReader  UserRole = "reader"
)

type User struct {
	gorm.Model
	Email        string   `gorm:"uniqueIndex;size:255;not null"`
	Name         string   `gorm:"size:255"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null"`
}
