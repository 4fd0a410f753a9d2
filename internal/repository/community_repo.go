package repository

import (
	"Lighthouse/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommunityQuestionCount 按社区分组的新提问计数
type CommunityQuestionCount struct {
	CommunityID   uint64
	CommunityName string
	Count         int64
}

// QuestionDetail 回溯明细行
type QuestionDetail struct {
	QuestionID    uint64
	Title         string
	AuthorID      uint64
	AuthorName    string
	CommunityID   uint64
	CommunityName string
	AskedAt       time.Time
}

type CommunityRepo interface {
	CountQuestionsSince(ctx context.Context, userID uint64, since time.Time) ([]*CommunityQuestionCount, error)
	ListQuestionsSince(ctx context.Context, userID uint64, since time.Time) ([]*QuestionDetail, error)
	UpsertQuestion(ctx context.Context, question *model.Question) error
}

type communityRepoImpl struct {
	db *gorm.DB
}

func NewCommunityRepo(db *gorm.DB) CommunityRepo {
	return &communityRepoImpl{db: db}
}

// CountQuestionsSince 用户加入的社区中他人窗口内的新提问，按社区分组。
// 社区被删除后联表自然失配，无需特判。
func (s *communityRepoImpl) CountQuestionsSince(ctx context.Context, userID uint64, since time.Time) ([]*CommunityQuestionCount, error) {
	var counts []*CommunityQuestionCount
	err := s.db.WithContext(ctx).
		Table("questions q").
		Select("c.id AS community_id, c.name AS community_name, COUNT(*) AS count").
		Joins("JOIN communities c ON c.id = q.community_id").
		Joins("JOIN community_members m ON m.community_id = q.community_id").
		Where("m.user_id = ? AND q.author_id <> ? AND q.created_at > ?", userID, userID, since).
		Group("c.id, c.name").
		Order("c.name").
		Find(&counts).Error
	return counts, err
}

// ListQuestionsSince 同一窗口条件的明细行，用于按需回溯
func (s *communityRepoImpl) ListQuestionsSince(ctx context.Context, userID uint64, since time.Time) ([]*QuestionDetail, error) {
	var details []*QuestionDetail
	err := s.db.WithContext(ctx).
		Table("questions q").
		Select("q.id AS question_id, q.title, q.author_id, u.nickname AS author_name, "+
			"c.id AS community_id, c.name AS community_name, q.created_at AS asked_at").
		Joins("JOIN communities c ON c.id = q.community_id").
		Joins("JOIN community_members m ON m.community_id = q.community_id").
		Joins("LEFT JOIN users u ON u.id = q.author_id").
		Where("m.user_id = ? AND q.author_id <> ? AND q.created_at > ?", userID, userID, since).
		Order("c.name, q.created_at").
		Find(&details).Error
	return details, err
}

// UpsertQuestion CDC 同步提问读模型
func (s *communityRepoImpl) UpsertQuestion(ctx context.Context, question *model.Question) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"community_id", "author_id", "title"}),
		}).
		Create(question).Error
}
