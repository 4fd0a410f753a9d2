package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationModel 通知模型
type NotificationModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"`         // 接收者 UID
	Type       string             `bson:"type" json:"type"`                      // dm / job_fair / community / summary
	Title      string             `bson:"title" json:"title"`                    // 标题
	Content    string             `bson:"content" json:"content"`                // 可读文案 (汇总为 "Summary: ..." 拼接串)
	Counts     *SummaryCounts     `bson:"counts,omitempty" json:"counts"`        // summary 类型附带的结构化分类计数
	RelatedID  string             `bson:"related_id,omitempty" json:"relatedId"` // 关联目标 ID (可选)
	IsRead     bool               `bson:"is_read" json:"isRead"`                 // 是否已读
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`           // 创建时间

	// WindowStart 汇总聚合时实际使用的窗口起点 (含长期未活跃回退)，
	// 回溯按它重建，保证明细与计数同窗
	WindowStart time.Time `bson:"window_start" json:"windowStart"`
}

// SummaryCounts 每日汇总的分类计数，避免客户端解析拼接文案
type SummaryCounts struct {
	DMMessages      int64            `bson:"dm_messages" json:"dmMessages"`
	JobFairUpdated  int64            `bson:"job_fair_updated" json:"jobFairUpdated"`
	JobFairUpcoming int64            `bson:"job_fair_upcoming" json:"jobFairUpcoming"`
	JobFairEnded    int64            `bson:"job_fair_ended" json:"jobFairEnded"`
	Questions       int64            `bson:"questions" json:"questions"`
	ByCommunity     map[string]int64 `bson:"by_community,omitempty" json:"byCommunity"`
}
