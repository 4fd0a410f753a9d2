package kafka

import (
	"Lighthouse/internal/model"
	"Lighthouse/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// JobFairHandler 消费招聘会服务的 job_fairs 表变更，维护招聘会读模型
type JobFairHandler struct {
	jobFairRepo repository.JobFairRepo
}

func NewJobFairHandler(jobFairRepo repository.JobFairRepo) *JobFairHandler {
	return &JobFairHandler{jobFairRepo: jobFairRepo}
}

func (s *JobFairHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("job fair consumer setup")
	return nil
}

func (s *JobFairHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("job fair consumer cleanup")
	return nil
}

func (s *JobFairHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-job-fairs consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-job-fairs process batch error", "err", err)
		return err
	}
	log.Info("topic-job-fairs consume claim end")
	return nil
}

func (s *JobFairHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	canalMsg, err := ToCanalMessage(msg, "job_fairs")
	if err != nil {
		return err
	}
	if canalMsg.Type != INSERT && canalMsg.Type != UPDATE {
		return nil
	}

	row := canalMsg.Data[0]
	fair := &model.JobFair{
		ID:        StrToUint64(row["id"]),
		Title:     StrToString(row["title"]),
		Status:    StrToString(row["status"]),
		StartTime: StrToDateTime(row["start_time"]),
		EndTime:   StrToDateTime(row["end_time"]),
		UpdatedAt: StrToDateTime(row["updated_at"]),
	}
	return s.jobFairRepo.UpsertJobFair(ctx, fair)
}
