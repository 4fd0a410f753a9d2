package wire

import (
	"Lighthouse/internal/api"
	"Lighthouse/internal/api/config"
	"Lighthouse/internal/api/handler"
	"Lighthouse/internal/job"
	"Lighthouse/internal/pkg/cron"
	"Lighthouse/internal/pkg/kafka"
	mongoPkg "Lighthouse/internal/pkg/mongo"
	"Lighthouse/internal/repository"
	"Lighthouse/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongo *mongoDB.Database, cfg *config.Config) (*ApplicationContainer, error) {
	userRepo := repository.NewUserRepo(db)
	convRepo := repository.NewConversationRepo(db)
	jobFairRepo := repository.NewJobFairRepo(db)
	communityRepo := repository.NewCommunityRepo(db)

	messageRepo := mongoPkg.NewMessageRepo(mongo)
	notificationRepo := mongoPkg.NewNotificationRepo(mongo)

	summaryService := service.NewSummaryService(
		userRepo, convRepo, jobFairRepo, communityRepo, messageRepo, notificationRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo)
	pushService := service.NewPushService(cfg)

	handlers := &api.HandlersGroup{
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		SummaryHandler:      handler.NewSummaryHandler(summaryService),
		WSHandler:           handler.NewWsHandler(),
	}

	router := api.SetupRouter(handlers)

	summaryJob := job.NewSummaryJob(
		userRepo, summaryService, pushService,
		time.Duration(cfg.Scheduler.UserTimeout)*time.Second,
		time.Duration(cfg.Scheduler.PassTimeout)*time.Second,
	)
	cronMgr := cron.NewCronManager(summaryJob)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, userRepo, jobFairRepo, communityRepo)
	if err != nil {
		return nil, err
	}

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
