package service

import (
	"Lighthouse/internal/api/dto"
	"Lighthouse/internal/model"
	"Lighthouse/internal/pkg/consts"
	"Lighthouse/internal/pkg/mongo"
	"Lighthouse/internal/repository"
	"context"
	stdErrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

type SummaryService interface {
	// Compose 聚合窗口内动态并落库一条汇总通知
	Compose(ctx context.Context, userID uint64) (*mongo.NotificationModel, error)
	// Breakdown 按窗口起点回溯汇总明细
	Breakdown(ctx context.Context, userID uint64, since time.Time) (*dto.SummaryBreakdownDTO, error)
	// BreakdownByNotification 按汇总通知 ID 回溯其覆盖窗口的明细
	BreakdownByNotification(ctx context.Context, userID uint64, notificationID string) (*dto.SummaryBreakdownDTO, error)
}

type summaryServiceImpl struct {
	userRepo         repository.UserRepo
	convRepo         repository.ConversationRepo
	jobFairRepo      repository.JobFairRepo
	communityRepo    repository.CommunityRepo
	messageRepo      mongo.MessageRepo
	notificationRepo mongo.NotificationRepo

	now func() time.Time
}

func NewSummaryService(
	user repository.UserRepo,
	conv repository.ConversationRepo,
	jobFair repository.JobFairRepo,
	community repository.CommunityRepo,
	message mongo.MessageRepo,
	notification mongo.NotificationRepo,
) SummaryService {
	return &summaryServiceImpl{
		userRepo:         user,
		convRepo:         conv,
		jobFairRepo:      jobFair,
		communityRepo:    community,
		messageRepo:      message,
		notificationRepo: notification,
		now:              time.Now,
	}
}

// aggregation 一次聚合的分类计数
type aggregation struct {
	dmCount      int64
	fairUpdated  int64
	fairUpcoming int64
	fairEnded    int64
	questions    []*repository.CommunityQuestionCount
}

func (a *aggregation) questionTotal() int64 {
	var total int64
	for _, q := range a.questions {
		total += q.Count
	}
	return total
}

func (a *aggregation) empty() bool {
	return a.dmCount == 0 &&
		a.fairUpdated == 0 && a.fairUpcoming == 0 && a.fairEnded == 0 &&
		a.questionTotal() == 0
}

// Compose 聚合并投递每日汇总。窗口内无动态时返回 ErrNothingToReport，
// 调用方据此静默跳过但仍推进 last_summary_date。
func (s *summaryServiceImpl) Compose(ctx context.Context, userID uint64) (*mongo.NotificationModel, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	setting, err := s.userRepo.GetSetting(ctx, userID)
	if err != nil {
		return nil, err
	}
	if setting == nil || !setting.Enabled || !setting.Summarized {
		return nil, ErrSummaryNotConfigured
	}

	now := s.now()
	since := ResolveSince(setting.SummaryTime, user.LastLogin, now)

	agg, err := s.aggregate(ctx, userID, setting, since, now)
	if err != nil {
		return nil, err
	}
	if agg.empty() {
		return nil, ErrNothingToReport
	}

	content, counts := buildDigest(agg)
	notification := &mongo.NotificationModel{
		ReceiverID:  userID,
		Type:        consts.NotificationTypeSummary,
		Title:       consts.SummaryTitle,
		Content:     content,
		Counts:      counts,
		IsRead:      false,
		CreatedAt:   now,
		WindowStart: since,
	}
	if err = s.notificationRepo.CreateNotification(ctx, notification); err != nil {
		return nil, errors.Wrap(err, "create summary notification")
	}
	return notification, nil
}

// aggregate 跑三个分类聚合器，关闭的分类贡献为零
func (s *summaryServiceImpl) aggregate(ctx context.Context, userID uint64, setting *model.NotificationSetting, since, now time.Time) (*aggregation, error) {
	agg := &aggregation{}

	if setting.DMEnabled {
		members, err := s.convRepo.GetUserConversationMemList(ctx, userID)
		if err != nil {
			return nil, errors.Wrap(err, "aggregate dm conversations")
		}
		convIDs := make([]uint64, 0, len(members))
		for _, m := range members {
			convIDs = append(convIDs, m.ConversationID)
		}
		counts, err := s.messageRepo.CountPeerMessagesSince(ctx, convIDs, userID, since)
		if err != nil {
			return nil, errors.Wrap(err, "aggregate dm messages")
		}
		for _, c := range counts {
			agg.dmCount += c
		}
	}

	if setting.JobFairEnabled {
		fairs, err := s.jobFairRepo.GetUserFairSignalsSince(ctx, userID, since, now)
		if err != nil {
			return nil, errors.Wrap(err, "aggregate job fairs")
		}
		for _, f := range fairs {
			updated, upcoming, ended := classifyFair(f, since, now)
			if updated {
				agg.fairUpdated++
			}
			if upcoming {
				agg.fairUpcoming++
			}
			if ended {
				agg.fairEnded++
			}
		}
	}

	if setting.CommunityEnabled {
		questions, err := s.communityRepo.CountQuestionsSince(ctx, userID, since)
		if err != nil {
			return nil, errors.Wrap(err, "aggregate community questions")
		}
		agg.questions = questions
	}

	return agg, nil
}

// classifyFair 判定一场招聘会在窗口内命中的信号。
// 一场招聘会可以同时命中多个信号 (如窗口内转为 ended 且有字段变更)。
func classifyFair(f *model.JobFair, since, now time.Time) (updated, upcoming, ended bool) {
	switch f.Status {
	case consts.JobFairStatusLive, consts.JobFairStatusEnded:
		updated = f.UpdatedAt.After(since)
	}
	if f.Status == consts.JobFairStatusUpcoming {
		upcoming = f.StartTime.After(now) &&
			!f.StartTime.After(now.Add(24*time.Hour)) &&
			f.StartTime.After(since)
	}
	if f.Status == consts.JobFairStatusEnded {
		ended = f.EndTime.After(since)
	}
	return
}

// buildDigest 生成可读文案与结构化计数。
// 分句顺序与单复数形式固定，客户端与测试都依赖这一格式。
func buildDigest(agg *aggregation) (string, *mongo.SummaryCounts) {
	var clauses []string

	if agg.dmCount > 0 {
		if agg.dmCount == 1 {
			clauses = append(clauses, "1 new DM message")
		} else {
			clauses = append(clauses, fmt.Sprintf("%d new DM messages", agg.dmCount))
		}
	}
	if agg.fairUpdated > 0 {
		if agg.fairUpdated == 1 {
			clauses = append(clauses, "1 job fair update")
		} else {
			clauses = append(clauses, fmt.Sprintf("%d job fair updates", agg.fairUpdated))
		}
	}
	if agg.fairUpcoming > 0 {
		if agg.fairUpcoming == 1 {
			clauses = append(clauses, "1 job fair starting soon")
		} else {
			clauses = append(clauses, fmt.Sprintf("%d job fairs starting soon", agg.fairUpcoming))
		}
	}
	if agg.fairEnded > 0 {
		if agg.fairEnded == 1 {
			clauses = append(clauses, "1 job fair just ended")
		} else {
			clauses = append(clauses, fmt.Sprintf("%d job fairs just ended", agg.fairEnded))
		}
	}

	byCommunity := make(map[string]int64, len(agg.questions))
	if total := agg.questionTotal(); total > 0 {
		perCommunity := make([]string, 0, len(agg.questions))
		for _, q := range agg.questions {
			byCommunity[q.CommunityName] = q.Count
			perCommunity = append(perCommunity, fmt.Sprintf("%s: %d", q.CommunityName, q.Count))
		}
		noun := "new questions"
		if total == 1 {
			noun = "new question"
		}
		clauses = append(clauses, fmt.Sprintf("%d %s in followed communities (%s)",
			total, noun, strings.Join(perCommunity, ", ")))
	}

	counts := &mongo.SummaryCounts{
		DMMessages:      agg.dmCount,
		JobFairUpdated:  agg.fairUpdated,
		JobFairUpcoming: agg.fairUpcoming,
		JobFairEnded:    agg.fairEnded,
		Questions:       agg.questionTotal(),
	}
	if len(byCommunity) > 0 {
		counts.ByCommunity = byCommunity
	}

	return "Summary: " + strings.Join(clauses, "; "), counts
}

// Breakdown 按窗口起点回溯明细，分类开关与聚合口径一致
func (s *summaryServiceImpl) Breakdown(ctx context.Context, userID uint64, since time.Time) (*dto.SummaryBreakdownDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	setting, err := s.userRepo.GetSetting(ctx, userID)
	if err != nil {
		return nil, err
	}
	if setting == nil || !setting.Enabled {
		return nil, ErrSummaryNotConfigured
	}

	now := s.now()
	res := &dto.SummaryBreakdownDTO{
		Since:              since.Format(time.RFC3339),
		DMThreads:          make([]*dto.ChatThreadDTO, 0),
		JobFairs:           make([]*dto.JobFairDTO, 0),
		CommunityQuestions: make([]*dto.QuestionDTO, 0),
	}

	if setting.DMEnabled {
		threads, err := s.dmThreads(ctx, userID, since)
		if err != nil {
			return nil, err
		}
		res.DMThreads = threads
	}

	if setting.JobFairEnabled {
		fairs, err := s.jobFairRepo.GetUserFairSignalsSince(ctx, userID, since, now)
		if err != nil {
			return nil, errors.Wrap(err, "breakdown job fairs")
		}
		for _, f := range fairs {
			res.JobFairs = append(res.JobFairs, &dto.JobFairDTO{
				JobFairID: f.ID,
				Title:     f.Title,
				Status:    f.Status,
				StartTime: f.StartTime,
				EndTime:   f.EndTime,
			})
		}
	}

	if setting.CommunityEnabled {
		questions, err := s.communityRepo.ListQuestionsSince(ctx, userID, since)
		if err != nil {
			return nil, errors.Wrap(err, "breakdown community questions")
		}
		for _, q := range questions {
			res.CommunityQuestions = append(res.CommunityQuestions, &dto.QuestionDTO{
				QuestionID:    q.QuestionID,
				Title:         q.Title,
				AuthorName:    q.AuthorName,
				CommunityName: q.CommunityName,
				AskedAt:       q.AskedAt,
			})
		}
	}

	return res, nil
}

// BreakdownByNotification 以汇总通知为锚点回溯。
// 窗口起点取通知上持久化的 window_start，与当初聚合使用的窗口一致。
func (s *summaryServiceImpl) BreakdownByNotification(ctx context.Context, userID uint64, notificationID string) (*dto.SummaryBreakdownDTO, error) {
	objectID, err := primitive.ObjectIDFromHex(notificationID)
	if err != nil {
		return nil, ErrParamInvalid
	}

	notification, err := s.notificationRepo.GetByID(ctx, objectID)
	if err != nil {
		if stdErrors.Is(err, mongoDB.ErrNoDocuments) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	if notification.ReceiverID != userID {
		return nil, UnauthorizedError
	}
	if notification.Type != consts.NotificationTypeSummary {
		return nil, ErrParamInvalid
	}

	since := notification.WindowStart
	if since.IsZero() {
		// 存量通知没有窗口字段，按投递时刻重推兜底
		setting, err := s.userRepo.GetSetting(ctx, userID)
		if err != nil {
			return nil, err
		}
		summaryTime := consts.DefaultSummaryTime
		if setting != nil {
			summaryTime = setting.SummaryTime
		}
		since = ResolveSince(summaryTime, nil, notification.CreatedAt)
	}

	return s.Breakdown(ctx, userID, since)
}

// dmThreads 按会话分组的窗口内新消息，含已软删会话 (带删除标记)
func (s *summaryServiceImpl) dmThreads(ctx context.Context, userID uint64, since time.Time) ([]*dto.ChatThreadDTO, error) {
	members, err := s.convRepo.GetUserConversationMemList(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "breakdown dm conversations")
	}

	convIDs := make([]uint64, 0, len(members))
	for _, m := range members {
		convIDs = append(convIDs, m.ConversationID)
	}
	grouped, err := s.messageRepo.ListPeerMessagesSince(ctx, convIDs, userID, since)
	if err != nil {
		return nil, errors.Wrap(err, "breakdown dm messages")
	}

	threads := make([]*dto.ChatThreadDTO, 0, len(grouped))
	peerIDs := make([]uint64, 0, len(grouped))
	for _, m := range members {
		messages, ok := grouped[m.ConversationID]
		if !ok {
			continue
		}
		peerID := parsePeerID(m.Conversation.PeerKey, userID)
		if peerID > 0 {
			peerIDs = append(peerIDs, peerID)
		}

		thread := &dto.ChatThreadDTO{
			ConversationID: m.ConversationID,
			PeerID:         peerID,
			Deleted:        m.IsVisible == 0,
			Count:          int64(len(messages)),
			Messages:       make([]*dto.ChatMessageDTO, 0, len(messages)),
		}
		for _, msg := range messages {
			thread.Messages = append(thread.Messages, &dto.ChatMessageDTO{
				SenderID: msg.SenderID,
				MsgType:  msg.MsgType,
				Content:  msg.Content,
				SentAt:   msg.CreatedAt,
			})
		}
		threads = append(threads, thread)
	}

	// 补全对手方昵称
	if len(peerIDs) > 0 {
		peers, err := s.userRepo.GetUsersByIds(ctx, peerIDs)
		if err == nil {
			names := make(map[uint64]string, len(peers))
			for _, p := range peers {
				names[p.ID] = p.Nickname
			}
			for _, t := range threads {
				t.PeerName = names[t.PeerID]
			}
		}
	}

	return threads, nil
}

// parsePeerID 从单聊 peer_key "uid1_uid2" 中解析对手方 ID
func parsePeerID(peerKey string, selfID uint64) uint64 {
	var a, b uint64
	if _, err := fmt.Sscanf(peerKey, "%d_%d", &a, &b); err != nil {
		return 0
	}
	if a == selfID {
		return b
	}
	return a
}
