package job

import (
	"Lighthouse/internal/model"
	"Lighthouse/internal/pkg/consts"
	"Lighthouse/internal/pkg/logger"
	"Lighthouse/internal/pkg/redis"
	"Lighthouse/internal/repository"
	"Lighthouse/internal/service"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// SummaryJob 每日汇总调度循环。每分钟扫描一次候选用户，
// 对当天尚未投递且已到投递时刻的用户触发汇总。
type SummaryJob struct {
	userRepo    repository.UserRepo
	summarySvc  service.SummaryService
	pushSvc     service.PushService
	userTimeout time.Duration
	passTimeout time.Duration

	now       func() time.Time
	lockDay   func(ctx context.Context, key string) (bool, error)
	unlockDay func(ctx context.Context, key string)
}

func NewSummaryJob(
	userRepo repository.UserRepo,
	summarySvc service.SummaryService,
	pushSvc service.PushService,
	userTimeout, passTimeout time.Duration,
) *SummaryJob {
	return &SummaryJob{
		userRepo:    userRepo,
		summarySvc:  summarySvc,
		pushSvc:     pushSvc,
		userTimeout: userTimeout,
		passTimeout: passTimeout,
		now:         time.Now,
		lockDay: func(ctx context.Context, key string) (bool, error) {
			return redis.SetNX(ctx, key, 1, 24*time.Hour)
		},
		unlockDay: func(ctx context.Context, key string) {
			if err := redis.DeleteKey(ctx, key); err != nil {
				log.ErrorContext(ctx, "release summary day lock error", "key", key, "err", err)
			}
		},
	}
}

func (s *SummaryJob) Run() {
	traceID := "job-summary-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)
	ctx, cancel := context.WithTimeout(ctx, s.passTimeout)
	defer cancel()

	// 存储不可用时整轮跳过，下一分钟重试
	if err := s.userRepo.Ping(ctx); err != nil {
		log.ErrorContext(ctx, "storage unavailable, skip summary pass", "err", err)
		return
	}

	now := s.now()
	today := now.Format(time.DateOnly)

	candidates, err := s.userRepo.ListSummaryCandidates(ctx)
	if err != nil {
		log.ErrorContext(ctx, "list summary candidates error", "err", err)
		return
	}

	for _, c := range candidates {
		if !summaryDue(c, now) {
			continue
		}

		// 多实例部署时的当日幂等锁；Redis 异常时放行，
		// last_summary_date 仍能兜底去重
		lockKey := consts.SummaryDayLock + strconv.FormatUint(c.UserID, 10) + ":" + today
		locked, err := s.lockDay(ctx, lockKey)
		if err != nil {
			log.WarnContext(ctx, "acquire summary day lock error", "user_id", c.UserID, "err", err)
		} else if !locked {
			continue
		}

		if !s.summarizeUser(ctx, c.UserID, today) {
			// 瞬时失败不推进 last_summary_date，释放锁让后续轮次重试
			s.unlockDay(ctx, lockKey)
		}
	}
}

// summaryDue 判定候选用户本轮是否到点：当天未投递过，且已过投递时刻。
// summary_time 非法时按默认时刻兜底。
func summaryDue(c *model.SummaryCandidate, now time.Time) bool {
	today := now.Format(time.DateOnly)
	if c.LastSummaryDate >= today {
		return false
	}

	at := consts.DefaultSummaryTime
	if parsed, err := time.Parse("15:04", c.SummaryTime); err == nil {
		at = parsed.Format("15:04")
	}
	return now.Format("15:04") >= at
}

// summarizeUser 单用户汇总，返回本轮是否出了终态结果。
// false 表示瞬时失败，当日可重试。
func (s *SummaryJob) summarizeUser(ctx context.Context, userID uint64, today string) bool {
	ctx, cancel := context.WithTimeout(ctx, s.userTimeout)
	defer cancel()

	notification, err := s.summarySvc.Compose(ctx, userID)
	switch {
	case errors.Is(err, service.ErrNothingToReport):
		// 无动态时静默跳过，但推进日期避免当天反复聚合
		s.markDate(ctx, userID, today)
	case errors.Is(err, service.ErrSummaryNotConfigured):
		// 扫描与聚合之间偏好被关闭，跳过
	case err != nil:
		log.ErrorContext(ctx, "compose summary error", "user_id", userID, "err", err)
		return false
	default:
		s.markDate(ctx, userID, today)
		s.pushSvc.PushNotification(ctx, notification)
		log.InfoContext(ctx, "summary delivered", "user_id", userID)
	}
	return true
}

func (s *SummaryJob) markDate(ctx context.Context, userID uint64, today string) {
	if err := s.userRepo.MarkSummaryDate(ctx, userID, today); err != nil {
		log.ErrorContext(ctx, "mark summary date error", "user_id", userID, "err", err)
	}
}
