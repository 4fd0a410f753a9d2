package kafka

import (
	"Lighthouse/internal/api/config"
	"Lighthouse/internal/repository"
	"context"
	log "log/slog"

	"github.com/IBM/sarama"
)

// ConsumerManager 管理所有 Kafka 消费者
type ConsumerManager struct {
	userConsumer sarama.ConsumerGroup
	userHandler  sarama.ConsumerGroupHandler

	jobFairConsumer sarama.ConsumerGroup
	jobFairHandler  sarama.ConsumerGroupHandler

	questionConsumer sarama.ConsumerGroup
	questionHandler  sarama.ConsumerGroupHandler
}

// NewConsumerManager 构造函数
func NewConsumerManager(
	cfg *config.Config,
	userRepo repository.UserRepo,
	jobFairRepo repository.JobFairRepo,
	communityRepo repository.CommunityRepo,
) (*ConsumerManager, error) {
	saramaCfg := newSaramaConfig(cfg.Kafka)

	userConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaUserConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	userHandler := NewUserActivityHandler(userRepo)

	jobFairConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaJobFairConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	jobFairHandler := NewJobFairHandler(jobFairRepo)

	questionConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaQuestionConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}
	questionHandler := NewQuestionHandler(communityRepo)

	return &ConsumerManager{
		userConsumer:     userConsumer,
		userHandler:      userHandler,
		jobFairConsumer:  jobFairConsumer,
		jobFairHandler:   jobFairHandler,
		questionConsumer: questionConsumer,
		questionHandler:  questionHandler,
	}, nil
}

// Start 启动所有消费者，阻塞直到 ctx 取消
func (m *ConsumerManager) Start(ctx context.Context, cfg *config.Config) error {
	// 用户活跃消费者
	go func() {
		topic := cfg.KafkaUserConsumer.Topic
		log.Info("User consumer started", "topic", topic)
		for {
			if err := m.userConsumer.Consume(ctx, []string{topic}, m.userHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	// 招聘会消费者
	go func() {
		topic := cfg.KafkaJobFairConsumer.Topic
		log.Info("Job fair consumer started", "topic", topic)
		for {
			if err := m.jobFairConsumer.Consume(ctx, []string{topic}, m.jobFairHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	// 社区提问消费者
	go func() {
		topic := cfg.KafkaQuestionConsumer.Topic
		log.Info("Question consumer started", "topic", topic)
		for {
			if err := m.questionConsumer.Consume(ctx, []string{topic}, m.questionHandler); err != nil {
				log.Error("Error from consumer", "err", err)
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.userConsumer.Close(); err != nil {
		log.Error("Failed to close user consumer", "err", err)
	}
	if err := m.jobFairConsumer.Close(); err != nil {
		log.Error("Failed to close job fair consumer", "err", err)
	}
	if err := m.questionConsumer.Close(); err != nil {
		log.Error("Failed to close question consumer", "err", err)
	}

	return nil
}
