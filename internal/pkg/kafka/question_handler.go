package kafka

import (
	"Lighthouse/internal/model"
	"Lighthouse/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// QuestionHandler 消费社区服务的 questions 表变更，维护提问读模型
type QuestionHandler struct {
	communityRepo repository.CommunityRepo
}

func NewQuestionHandler(communityRepo repository.CommunityRepo) *QuestionHandler {
	return &QuestionHandler{communityRepo: communityRepo}
}

func (s *QuestionHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("question consumer setup")
	return nil
}

func (s *QuestionHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("question consumer cleanup")
	return nil
}

func (s *QuestionHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-questions consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-questions process batch error", "err", err)
		return err
	}
	log.Info("topic-questions consume claim end")
	return nil
}

func (s *QuestionHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "questions")
	if err != nil {
		return err
	}
	if canalMsg.Type != INSERT && canalMsg.Type != UPDATE {
		return nil
	}

	row := canalMsg.Data[0]
	question := &model.Question{
		ID:          StrToUint64(row["id"]),
		CommunityID: StrToUint64(row["community_id"]),
		AuthorID:    StrToUint64(row["author_id"]),
		Title:       StrToString(row["title"]),
		CreatedAt:   StrToDateTime(row["created_at"]),
	}
	return s.communityRepo.UpsertQuestion(ctx, question)
}
