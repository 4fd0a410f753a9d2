package repository

import (
	"Lighthouse/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JobFairRepo interface {
	GetUserFairSignalsSince(ctx context.Context, userID uint64, since, now time.Time) ([]*model.JobFair, error)
	UpsertJobFair(ctx context.Context, fair *model.JobFair) error
}

type jobFairRepoImpl struct {
	db *gorm.DB
}

func NewJobFairRepo(db *gorm.DB) JobFairRepo {
	return &jobFairRepoImpl{db: db}
}

// GetUserFairSignalsSince 用户报名的招聘会中，窗口内命中任一信号的记录：
// (a) 窗口内有变更且当前状态为 live/ended；
// (b) upcoming 且开始时间落在 (now, now+24h] 且晚于窗口起点；
// (c) ended 且结束时间晚于窗口起点。
// 三个信号在 SQL 层过滤，一行可能同时命中多个，由调用方分别计数。
func (s *jobFairRepoImpl) GetUserFairSignalsSince(ctx context.Context, userID uint64, since, now time.Time) ([]*model.JobFair, error) {
	soon := now.Add(24 * time.Hour)

	var fairs []*model.JobFair
	err := s.db.WithContext(ctx).
		Table("job_fairs f").
		Select("f.*").
		Joins("JOIN job_fair_participants p ON p.job_fair_id = f.id").
		Where("p.user_id = ?", userID).
		Where(
			s.db.Where("f.updated_at > ? AND f.status IN ?", since, []string{"live", "ended"}).
				Or("f.status = ? AND f.start_time > ? AND f.start_time <= ? AND f.start_time > ?", "upcoming", now, soon, since).
				Or("f.status = ? AND f.end_time > ?", "ended", since),
		).
		Find(&fairs).Error
	return fairs, err
}

// UpsertJobFair CDC 同步招聘会读模型
func (s *jobFairRepoImpl) UpsertJobFair(ctx context.Context, fair *model.JobFair) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "status", "start_time", "end_time", "updated_at"}),
		}).
		Create(fair).Error
}
