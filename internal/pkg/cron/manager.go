package cron

import (
	"Lighthouse/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine     *cron.Cron
	summaryJob *job.SummaryJob
}

func NewCronManager(summaryJob *job.SummaryJob) *Manager {
	return &Manager{
		engine:     cron.New(cron.WithSeconds()),
		summaryJob: summaryJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	// 每分钟扫描一次到点用户
	if _, err := s.engine.AddJob("0 * * * * *", s.summaryJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
