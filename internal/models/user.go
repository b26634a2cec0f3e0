package models

import (
	"gorm.io/gorm"
)

// UserRole represents the role of a user
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// User represents a user in the system
type User struct {
	ID              string   `json:"id" gorm:"primaryKey"`
	Name            string   `json:"name" gorm:"not null"`
	Email           string   `json:"email" gorm:"uniqueIndex;not null"`
	Password        string   `json:"-" gorm:"not null"`
	Role            UserRole `json:"role" gorm:"not null;default:'member'"`
	ProfileImageURL string   `json:"profileImageUrl" gorm:"column:profile_image_url"`
	gorm.Model
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}

// AssigneeInfo is the display-relevant slice of a user attached to task
// responses. It never carries the password hash.
type AssigneeInfo struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// Info maps a user to its safe display form.
func (u User) Info() AssigneeInfo {
	return AssigneeInfo{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		ProfileImageURL: u.ProfileImageURL,
	}
}
