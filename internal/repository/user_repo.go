package repository

import (
	"Lighthouse/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepo interface {
	Ping(ctx context.Context) error
	GetUserById(ctx context.Context, id uint64) (*model.User, error)
	GetUsersByIds(ctx context.Context, ids []uint64) ([]*model.User, error)
	GetSetting(ctx context.Context, userID uint64) (*model.NotificationSetting, error)
	UpdateSetting(ctx context.Context, setting *model.NotificationSetting) error
	ListSummaryCandidates(ctx context.Context) ([]*model.SummaryCandidate, error)
	MarkSummaryDate(ctx context.Context, userID uint64, date string) error
	UpsertUser(ctx context.Context, user *model.User) error
	UpdateLastLogin(ctx context.Context, userID uint64, at time.Time) error
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepo {
	return &userRepoImpl{db: db}
}

// Ping 存储探活，调度循环每轮开始前的防御检查
func (s *userRepoImpl) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *userRepoImpl) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	user := &model.User{}
	result := s.db.WithContext(ctx).
		Preload("Setting").
		First(user, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}

	return user, nil
}

func (s *userRepoImpl) GetUsersByIds(ctx context.Context, ids []uint64) ([]*model.User, error) {
	users := make([]*model.User, 0, len(ids))
	result := s.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}
	return users, nil
}

// GetSetting 获取用户通知偏好，无记录时返回 nil
func (s *userRepoImpl) GetSetting(ctx context.Context, userID uint64) (*model.NotificationSetting, error) {
	setting := &model.NotificationSetting{}
	result := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(setting)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return setting, nil
}

// UpdateSetting 按 user_id 更新偏好，不存在时插入
func (s *userRepoImpl) UpdateSetting(ctx context.Context, setting *model.NotificationSetting) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"enabled", "summarized", "summary_time",
				"dm_enabled", "job_fair_enabled", "community_enabled",
			}),
		}).
		Create(setting).Error
}

// ListSummaryCandidates 只取调度循环需要的最小字段，窄查询控制成本
func (s *userRepoImpl) ListSummaryCandidates(ctx context.Context) ([]*model.SummaryCandidate, error) {
	var candidates []*model.SummaryCandidate
	err := s.db.WithContext(ctx).
		Model(&model.NotificationSetting{}).
		Select("user_id, summary_time, last_summary_date").
		Where("enabled = 1 AND summarized = 1").
		Find(&candidates).Error
	return candidates, err
}

// MarkSummaryDate 记录当日已汇总，保证每天至多投递一次
func (s *userRepoImpl) MarkSummaryDate(ctx context.Context, userID uint64, date string) error {
	return s.db.WithContext(ctx).
		Model(&model.NotificationSetting{}).
		Where("user_id = ?", userID).
		Update("last_summary_date", date).Error
}

// UpsertUser CDC 同步用户读模型
func (s *userRepoImpl) UpsertUser(ctx context.Context, user *model.User) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "nickname", "is_delete", "updated_at"}),
		}).
		Create(user).Error
}

// UpdateLastLogin CDC 同步最近活跃时间
func (s *userRepoImpl) UpdateLastLogin(ctx context.Context, userID uint64, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login", at).Error
}
