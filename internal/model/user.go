package model

import (
	"time"
)

// User 用户读模型 (由平台用户服务经 Canal CDC 同步)
type User struct {
	ID        uint64     `gorm:"primaryKey"`
	Username  string     `gorm:"type:varchar(50);uniqueIndex:idx_username"`
	Nickname  string     `gorm:"type:varchar(50)"`
	LastLogin *time.Time `gorm:"index"` // 最近活跃时间，缺省表示从未记录
	IsDelete  bool       `gorm:"type:tinyint(1);default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Setting NotificationSetting `gorm:"foreignKey:UserID;references:ID"`
}

func (User) TableName() string {
	return "users"
}
