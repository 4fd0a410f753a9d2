package dto

import "time"

// SummaryBreakdownDTO 汇总回溯返回对象，窗口起点与各分类明细
type SummaryBreakdownDTO struct {
	Since              string           `json:"since"` // RFC3339
	DMThreads          []*ChatThreadDTO `json:"dm_threads"`
	JobFairs           []*JobFairDTO    `json:"job_fairs"`
	CommunityQuestions []*QuestionDTO   `json:"community_questions"`
}

// ChatThreadDTO 单个会话的窗口内新消息
type ChatThreadDTO struct {
	ConversationID uint64            `json:"conversation_id"`
	PeerID         uint64            `json:"peer_id"`
	PeerName       string            `json:"peer_name"`
	Deleted        bool              `json:"deleted"` // 用户已在会话列表删除该会话
	Count          int64             `json:"count"`
	Messages       []*ChatMessageDTO `json:"messages"`
}

// ChatMessageDTO 消息明细
type ChatMessageDTO struct {
	SenderID uint64    `json:"sender_id"`
	MsgType  int       `json:"msg_type"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
}

// JobFairDTO 招聘会明细
type JobFairDTO struct {
	JobFairID uint64    `json:"job_fair_id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"` // upcoming / live / ended
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// QuestionDTO 社区提问明细
type QuestionDTO struct {
	QuestionID    uint64    `json:"question_id"`
	Title         string    `json:"title"`
	AuthorName    string    `json:"author_name"`
	CommunityName string    `json:"community_name"`
	AskedAt       time.Time `json:"asked_at"`
}
