package models

import (
	"gorm.io/gorm"
)

// User represents a chat user in the system
type User struct {
	ID         string `json:"id" gorm:"primaryKey"`
	Username   string `json:"username" gorm:"unique;not null"`
	FullName   string `json:"fullName" gorm:"column:full_name"`
	Password   string `json:"-" gorm:"not null"`
	ProfilePic string `json:"profilePic" gorm:"column:profile_pic"`
	gorm.Model
}

// TableName specifies the table name for User Model
func (User) TableName() string {
	return "users"
}

// Profile is the safe, public projection of a user.
type Profile struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	FullName   string `json:"fullName"`
	ProfilePic string `json:"profilePic"`
}

// PublicProfile maps a user to its public projection.
func (u User) PublicProfile() Profile {
	return Profile{
		ID:         u.ID,
		Username:   u.Username,
		FullName:   u.FullName,
		ProfilePic: u.ProfilePic,
	}
}
