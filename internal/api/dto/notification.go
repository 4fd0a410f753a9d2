package dto

// NotificationDTO 通知列表项返回对象
type NotificationDTO struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"` // dm / job_fair / community / summary
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Counts    *SummaryCountsDTO `json:"counts,omitempty"` // summary 类型附带
	RelatedID string            `json:"related_id,omitempty"`
	IsRead    bool              `json:"is_read"`
	CreatedAt string            `json:"created_at"`
}

// SummaryCountsDTO 汇总通知的分类计数
type SummaryCountsDTO struct {
	DMMessages      int64            `json:"dm_messages"`
	JobFairUpdated  int64            `json:"job_fair_updated"`
	JobFairUpcoming int64            `json:"job_fair_upcoming"`
	JobFairEnded    int64            `json:"job_fair_ended"`
	Questions       int64            `json:"questions"`
	ByCommunity     map[string]int64 `json:"by_community,omitempty"`
}

// NotificationUnreadDTO 未读数返回
type NotificationUnreadDTO struct {
	UnreadCount int64 `json:"unread_count"`
}

// NotificationSettingDTO 通知偏好返回对象
type NotificationSettingDTO struct {
	Enabled          bool   `json:"enabled"`
	Summarized       bool   `json:"summarized"`
	SummaryTime      string `json:"summary_time"` // "HH:MM"
	DMEnabled        bool   `json:"dm_enabled"`
	JobFairEnabled   bool   `json:"job_fair_enabled"`
	CommunityEnabled bool   `json:"community_enabled"`
}

// UpdateSettingReq 修改通知偏好请求体
type UpdateSettingReq struct {
	Enabled          *bool   `json:"enabled"`
	Summarized       *bool   `json:"summarized"`
	SummaryTime      *string `json:"summary_time"`
	DMEnabled        *bool   `json:"dm_enabled"`
	JobFairEnabled   *bool   `json:"job_fair_enabled"`
	CommunityEnabled *bool   `json:"community_enabled"`
}

// MarkAsReadReq 标记单条已读请求
type MarkAsReadReq struct {
	NotificationID string `json:"notification_id" binding:"required"`
}
