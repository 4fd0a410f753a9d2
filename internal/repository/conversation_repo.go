package repository

import (
	"Lighthouse/internal/model"
	"context"

	"gorm.io/gorm"
)

type ConversationRepo interface {
	GetUserConversationMemList(ctx context.Context, userID uint64) ([]*model.ConversationMember, error)
}

type conversationRepoImpl struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &conversationRepoImpl{db: db}
}

// GetUserConversationMemList 用户参与的全部会话成员记录，含已软删会话。
// 汇总计数与回溯都要覆盖软删会话，IsVisible 仅作为删除标记透出。
func (s *conversationRepoImpl) GetUserConversationMemList(ctx context.Context, userID uint64) ([]*model.ConversationMember, error) {
	var members []*model.ConversationMember
	err := s.db.WithContext(ctx).
		Preload("Conversation").
		Where("user_id = ?", userID).
		Find(&members).Error
	return members, err
}
