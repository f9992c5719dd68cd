package models

import (
	"gorm.io/gorm"
)

// Message represents a direct (one-to-one) chat message
type Message struct {
	ID         string `json:"id" gorm:"primaryKey"`
	SenderID   string `json:"senderId" gorm:"column:sender_id;index;not null"`
	ReceiverID string `json:"receiverId" gorm:"column:receiver_id;index;not null"`
	Text       string `json:"text"`
	Image      string `json:"image"`
	gorm.Model
}

// TableName specifies the table name for Message Model
func (Message) TableName() string {
	return "messages"
}

// GroupMessage represents a message sent to a group
type GroupMessage struct {
	ID       string  `json:"id" gorm:"primaryKey"`
	SenderID string  `json:"senderId" gorm:"column:sender_id;index;not null"`
	GroupID  string  `json:"groupId" gorm:"column:group_id;index;not null"`
	Text     string  `json:"text"`
	Image    string  `json:"image"`
	Sender   Profile `json:"sender" gorm:"-"`
	gorm.Model
}

// TableName specifies the table name for GroupMessage Model
func (GroupMessage) TableName() string {
	return "group_messages"
}
