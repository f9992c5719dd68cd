package models

import (
	"gorm.io/gorm"
)

// Group represents a chat group
type Group struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`
	Avatar      string `json:"avatar"`
	AdminID     string `json:"adminId" gorm:"column:admin_id;index"`
	IsActive    bool   `json:"isActive" gorm:"column:is_active"`
	gorm.Model
}

// TableName specifies the table name for Group Model
func (Group) TableName() string {
	return "groups"
}

// GroupMember links a user to a group it belongs to
type GroupMember struct {
	GroupID string `json:"groupId" gorm:"column:group_id;index;not null"`
	UserID  string `json:"userId" gorm:"column:user_id;index;not null"`
	gorm.Model
}

// TableName specifies the table name for GroupMember Model
func (GroupMember) TableName() string {
	return "group_members"
}
