package consts

const (
	// NotifyUserKey 用户私有通知频道前缀 (pub/sub)
	NotifyUserKey = "notify:user:"

	// TokenBlacklistKey 已注销 token 签名前缀
	TokenBlacklistKey = "token:blacklist:"
)

const (
	// SummaryDayLock 每日汇总防重锁前缀: summary:lock:<uid>:<yyyy-mm-dd>
	SummaryDayLock = "summary:lock:"
)
