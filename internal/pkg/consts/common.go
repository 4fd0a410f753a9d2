package consts

// 通知类型
const (
	NotificationTypeDM        = "dm"
	NotificationTypeJobFair   = "job_fair"
	NotificationTypeCommunity = "community"
	NotificationTypeSummary   = "summary"
)

// 招聘会状态
const (
	JobFairStatusUpcoming = "upcoming"
	JobFairStatusLive     = "live"
	JobFairStatusEnded    = "ended"
)

const (
	// DefaultSummaryTime 未配置或非法 summary_time 时的兜底投递时刻
	DefaultSummaryTime = "09:00"

	// SummaryTitle 每日汇总通知标题
	SummaryTitle = "Daily Notification Summary"
)
