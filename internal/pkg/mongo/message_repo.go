package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepo interface {
	CountPeerMessagesSince(ctx context.Context, convIDs []uint64, excludeSender uint64, since time.Time) (map[uint64]int64, error)
	ListPeerMessagesSince(ctx context.Context, convIDs []uint64, excludeSender uint64, since time.Time) (map[uint64][]*Message, error)
}

type messageRepoImpl struct {
	col *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) MessageRepo {
	return &messageRepoImpl{
		col: db.Collection("message"),
	}
}

// sinceFilter 窗口过滤：指定会话集合内、对方发送、晚于 since 的消息
func sinceFilter(convIDs []uint64, excludeSender uint64, since time.Time) bson.M {
	return bson.M{
		"conversation_id": bson.M{"$in": convIDs},
		"sender_id":       bson.M{"$ne": excludeSender},
		"created_at":      bson.M{"$gt": since},
	}
}

// CountPeerMessagesSince 按会话分组统计窗口内对方新消息数
// 统计口径为消息明细本身，与通知记录无关，保证计数反映会话真实状态。
func (s *messageRepoImpl) CountPeerMessagesSince(ctx context.Context, convIDs []uint64, excludeSender uint64, since time.Time) (map[uint64]int64, error) {
	if len(convIDs) == 0 {
		return map[uint64]int64{}, nil
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: sinceFilter(convIDs, excludeSender, since)}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$conversation_id",
			"count": bson.M{"$sum": 1},
		}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var rows []struct {
		ConversationID uint64 `bson:"_id"`
		Count          int64  `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	res := make(map[uint64]int64, len(rows))
	for _, r := range rows {
		res[r.ConversationID] = r.Count
	}
	return res, nil
}

// ListPeerMessagesSince 拉取窗口内对方新消息明细，按会话分组，时间升序
func (s *messageRepoImpl) ListPeerMessagesSince(ctx context.Context, convIDs []uint64, excludeSender uint64, since time.Time) (map[uint64][]*Message, error) {
	if len(convIDs) == 0 {
		return map[uint64][]*Message{}, nil
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := s.col.Find(ctx, sinceFilter(convIDs, excludeSender, since), findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var messages []*Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	res := make(map[uint64][]*Message)
	for _, m := range messages {
		res[m.ConversationID] = append(res[m.ConversationID], m)
	}
	return res, nil
}
