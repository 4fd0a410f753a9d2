package model

import "time"

// NotificationSetting 用户通知偏好
// Enabled 与 Summarized 同时为真才进入每日汇总管线；
// 三个分类开关独立于总开关，关闭的分类在聚合时贡献为零。
type NotificationSetting struct {
	ID               uint64 `gorm:"primaryKey;autoIncrement"`
	UserID           uint64 `gorm:"uniqueIndex:idx_setting_user;not null"`
	Enabled          bool   `gorm:"type:tinyint(1);default:1"`
	Summarized       bool   `gorm:"type:tinyint(1);default:0"`
	SummaryTime      string `gorm:"type:varchar(5);default:'09:00'"` // "HH:MM" 24 小时制，本地服务器时区
	DMEnabled        bool   `gorm:"type:tinyint(1);default:1"`
	JobFairEnabled   bool   `gorm:"type:tinyint(1);default:1"`
	CommunityEnabled bool   `gorm:"type:tinyint(1);default:1"`

	// LastSummaryDate 最近一次成功汇总的本地日期 "2006-01-02"。
	// 调度循环以 today > LastSummaryDate 判定当日是否已投递，保证每天至多一次。
	LastSummaryDate string `gorm:"type:varchar(10);default:''"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (NotificationSetting) TableName() string {
	return "notification_settings"
}

// SummaryCandidate 调度循环一次扫描所需的最小字段集合
type SummaryCandidate struct {
	UserID          uint64
	SummaryTime     string
	LastSummaryDate string
}
