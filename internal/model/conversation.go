package model

import "time"

// Conversation 会话主表 (IM 服务所有，此处只读)
type Conversation struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Type          int8      `gorm:"not null;default:1" json:"type"`              // 1-单聊, 2-群聊
	PeerKey       string    `gorm:"uniqueIndex;type:varchar(64)" json:"peerKey"` // uid1_uid2
	LastMessageAt time.Time `gorm:"index" json:"lastMessageAt"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (Conversation) TableName() string { return "conversations" }

// ConversationMember 会话成员表
// IsVisible=0 表示用户已在会话列表删除该会话 (软删)，
// 汇总回溯时仍会列出，但带删除标记。
type ConversationMember struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationID uint64    `gorm:"uniqueIndex:idx_conv_user" json:"conversationId"`
	UserID         uint64    `gorm:"uniqueIndex:idx_conv_user;index" json:"userId"`
	IsVisible      int8      `gorm:"not null;default:1;index" json:"isVisible"`
	JoinedAt       time.Time `json:"joinedAt"`

	Conversation Conversation `gorm:"foreignKey:ConversationID;references:ID" json:"conversation"`
}

func (ConversationMember) TableName() string { return "conversation_members" }
