package kafka

import (
	"Lighthouse/internal/model"
	"Lighthouse/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// UserActivityHandler 消费平台用户服务的 users 表变更，
// 维护本地用户读模型与最近活跃时间。
type UserActivityHandler struct {
	userRepo repository.UserRepo
}

func NewUserActivityHandler(userRepo repository.UserRepo) *UserActivityHandler {
	return &UserActivityHandler{userRepo: userRepo}
}

func (s *UserActivityHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("user consumer setup")
	return nil
}

func (s *UserActivityHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("user consumer cleanup")
	return nil
}

func (s *UserActivityHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-users consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-users process batch error", "err", err)
		return err
	}
	log.Info("topic-users consume claim end")
	return nil
}

func (s *UserActivityHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "users")
	if err != nil {
		return err
	}
	if canalMsg.Type != INSERT && canalMsg.Type != UPDATE {
		return nil
	}

	row := canalMsg.Data[0]
	user := &model.User{
		ID:       StrToUint64(row["id"]),
		Username: StrToString(row["username"]),
		Nickname: StrToString(row["nickname"]),
		IsDelete: StrToBool(row["is_delete"]),
	}
	if err := s.userRepo.UpsertUser(ctx, user); err != nil {
		return err
	}

	// last_login 单独更新，避免 upsert 把空值覆盖掉已有记录
	if at := StrToDateTime(row["last_login"]); !at.IsZero() {
		return s.userRepo.UpdateLastLogin(ctx, user.ID, at)
	}
	return nil
}
