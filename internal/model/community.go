package model

import "time"

// Community 社区读模型 (问答服务所有)
type Community struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Community) TableName() string { return "communities" }

// CommunityMember 社区成员表
type CommunityMember struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	CommunityID uint64    `gorm:"uniqueIndex:idx_comm_user" json:"communityId"`
	UserID      uint64    `gorm:"uniqueIndex:idx_comm_user;index" json:"userId"`
	JoinedAt    time.Time `json:"joinedAt"`
}

func (CommunityMember) TableName() string { return "community_members" }

// Question 社区提问读模型 (经 Canal CDC 同步)
type Question struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	CommunityID uint64    `gorm:"index" json:"communityId"`
	AuthorID    uint64    `gorm:"index" json:"authorId"`
	Title       string    `gorm:"type:varchar(255)" json:"title"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"` // 提问时间，窗口过滤字段
}

func (Question) TableName() string { return "questions" }
