package kafka

import (
	"strconv"
	"time"
)

// Canal 行变更类型
const (
	INSERT = "INSERT"
	UPDATE = "UPDATE"
	DELETE = "DELETE"
)

// Canal 行数据全部以字符串形式下发，以下为字段取值辅助

func StrToString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func StrToUint64(v interface{}) uint64 {
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, _ := strconv.ParseUint(s, 10, 64)
	return n
}

func StrToBool(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return s == "1" || s == "true"
}

// StrToDateTime 解析 Canal 下发的 "2006-01-02 15:04:05" 格式时间
func StrToDateTime(v interface{}) time.Time {
	s, ok := v.(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
