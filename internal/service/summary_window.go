package service

import (
	"time"
)

// ResolveSince 计算本次汇总的回看窗口起点。
// 基准是昨天同一投递时刻 (HH:MM，秒归零)；当用户超过 24 小时未活跃时，
// 改用其最近活跃时间，保证离线期间的动态不会被窗口截断。
// summaryTime 非法时退化为固定 24 小时窗口。
func ResolveSince(summaryTime string, lastLogin *time.Time, now time.Time) time.Time {
	if lastLogin != nil && now.Sub(*lastLogin) > 24*time.Hour {
		return *lastLogin
	}

	parsed, err := time.Parse("15:04", summaryTime)
	if err != nil {
		return now.Add(-24 * time.Hour)
	}

	yesterday := now.AddDate(0, 0, -1)
	return time.Date(
		yesterday.Year(), yesterday.Month(), yesterday.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0,
		now.Location(),
	)
}
