package model

import "time"

// JobFair 招聘会读模型 (招聘服务所有，经 Canal CDC 同步)
type JobFair struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"type:varchar(255)" json:"title"`
	Status    string    `gorm:"type:varchar(16);index" json:"status"` // upcoming / live / ended
	StartTime time.Time `gorm:"index" json:"startTime"`
	EndTime   time.Time `gorm:"index" json:"endTime"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `gorm:"index" json:"updatedAt"`
}

func (JobFair) TableName() string { return "job_fairs" }

// JobFairParticipant 用户报名记录
type JobFairParticipant struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	JobFairID uint64    `gorm:"uniqueIndex:idx_fair_user" json:"jobFairId"`
	UserID    uint64    `gorm:"uniqueIndex:idx_fair_user;index" json:"userId"`
	JoinedAt  time.Time `json:"joinedAt"`
}

func (JobFairParticipant) TableName() string { return "job_fair_participants" }
