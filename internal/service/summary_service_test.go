package service

import (
	"Lighthouse/internal/model"
	"Lighthouse/internal/pkg/consts"
	"Lighthouse/internal/pkg/mongo"
	"Lighthouse/internal/repository"
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

type fakeUserRepo struct {
	user    *model.User
	setting *model.NotificationSetting
	peers   []*model.User
}

func (f *fakeUserRepo) Ping(_ context.Context) error { return nil }

func (f *fakeUserRepo) GetUserById(_ context.Context, id uint64) (*model.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUsersByIds(_ context.Context, ids []uint64) ([]*model.User, error) {
	res := make([]*model.User, 0)
	for _, p := range f.peers {
		for _, id := range ids {
			if p.ID == id {
				res = append(res, p)
			}
		}
	}
	return res, nil
}

func (f *fakeUserRepo) GetSetting(_ context.Context, _ uint64) (*model.NotificationSetting, error) {
	return f.setting, nil
}

func (f *fakeUserRepo) UpdateSetting(_ context.Context, setting *model.NotificationSetting) error {
	f.setting = setting
	return nil
}

func (f *fakeUserRepo) ListSummaryCandidates(_ context.Context) ([]*model.SummaryCandidate, error) {
	return nil, nil
}

func (f *fakeUserRepo) MarkSummaryDate(_ context.Context, _ uint64, _ string) error {
	return nil
}

func (f *fakeUserRepo) UpsertUser(_ context.Context, _ *model.User) error { return nil }

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, _ uint64, _ time.Time) error { return nil }

type fakeConvRepo struct {
	members []*model.ConversationMember
}

func (f *fakeConvRepo) GetUserConversationMemList(_ context.Context, _ uint64) ([]*model.ConversationMember, error) {
	return f.members, nil
}

type fakeJobFairRepo struct {
	fairs []*model.JobFair
}

func (f *fakeJobFairRepo) GetUserFairSignalsSince(_ context.Context, _ uint64, _, _ time.Time) ([]*model.JobFair, error) {
	return f.fairs, nil
}

func (f *fakeJobFairRepo) UpsertJobFair(_ context.Context, _ *model.JobFair) error { return nil }

type fakeCommunityRepo struct {
	counts  []*repository.CommunityQuestionCount
	details []*repository.QuestionDetail
}

func (f *fakeCommunityRepo) CountQuestionsSince(_ context.Context, _ uint64, _ time.Time) ([]*repository.CommunityQuestionCount, error) {
	return f.counts, nil
}

func (f *fakeCommunityRepo) ListQuestionsSince(_ context.Context, _ uint64, _ time.Time) ([]*repository.QuestionDetail, error) {
	return f.details, nil
}

func (f *fakeCommunityRepo) UpsertQuestion(_ context.Context, _ *model.Question) error { return nil }

// fakeMessageRepo 按照真实仓库的窗口口径过滤内存消息
type fakeMessageRepo struct {
	messages []*mongo.Message
}

func (f *fakeMessageRepo) match(m *mongo.Message, convIDs []uint64, excludeSender uint64, since time.Time) bool {
	if m.SenderID == excludeSender || !m.CreatedAt.After(since) {
		return false
	}
	for _, id := range convIDs {
		if m.ConversationID == id {
			return true
		}
	}
	return false
}

func (f *fakeMessageRepo) CountPeerMessagesSince(_ context.Context, convIDs []uint64, excludeSender uint64, since time.Time) (map[uint64]int64, error) {
	res := make(map[uint64]int64)
	for _, m := range f.messages {
		if f.match(m, convIDs, excludeSender, since) {
			res[m.ConversationID]++
		}
	}
	return res, nil
}

func (f *fakeMessageRepo) ListPeerMessagesSince(_ context.Context, convIDs []uint64, excludeSender uint64, since time.Time) (map[uint64][]*mongo.Message, error) {
	res := make(map[uint64][]*mongo.Message)
	for _, m := range f.messages {
		if f.match(m, convIDs, excludeSender, since) {
			res[m.ConversationID] = append(res[m.ConversationID], m)
		}
	}
	return res, nil
}

type fakeNotificationRepo struct {
	created []*mongo.NotificationModel
}

func (f *fakeNotificationRepo) CreateNotification(_ context.Context, msg *mongo.NotificationModel) error {
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	f.created = append(f.created, msg)
	return nil
}

func (f *fakeNotificationRepo) GetNotificationList(_ context.Context, _ uint64, _, _ int64) ([]*mongo.NotificationModel, error) {
	return f.created, nil
}

func (f *fakeNotificationRepo) GetByID(_ context.Context, id primitive.ObjectID) (*mongo.NotificationModel, error) {
	for _, m := range f.created {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, mongoDB.ErrNoDocuments
}

func (f *fakeNotificationRepo) MarkAsRead(_ context.Context, _ uint64, _ string) error { return nil }

func (f *fakeNotificationRepo) MarkAllAsRead(_ context.Context, _ uint64) error { return nil }

func (f *fakeNotificationRepo) GetUnreadCount(_ context.Context, _ uint64) (int64, error) {
	var n int64
	for _, m := range f.created {
		if !m.IsRead {
			n++
		}
	}
	return n, nil
}

type summaryFixture struct {
	userRepo         *fakeUserRepo
	convRepo         *fakeConvRepo
	jobFairRepo      *fakeJobFairRepo
	communityRepo    *fakeCommunityRepo
	messageRepo      *fakeMessageRepo
	notificationRepo *fakeNotificationRepo
	svc              *summaryServiceImpl
	now              time.Time
}

func newSummaryFixture() *summaryFixture {
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local)
	f := &summaryFixture{
		userRepo: &fakeUserRepo{
			user: &model.User{ID: 1, Nickname: "alice"},
			setting: &model.NotificationSetting{
				UserID:           1,
				Enabled:          true,
				Summarized:       true,
				SummaryTime:      "09:00",
				DMEnabled:        true,
				JobFairEnabled:   true,
				CommunityEnabled: true,
			},
		},
		convRepo:         &fakeConvRepo{},
		jobFairRepo:      &fakeJobFairRepo{},
		communityRepo:    &fakeCommunityRepo{},
		messageRepo:      &fakeMessageRepo{},
		notificationRepo: &fakeNotificationRepo{},
		now:              now,
	}
	f.svc = &summaryServiceImpl{
		userRepo:         f.userRepo,
		convRepo:         f.convRepo,
		jobFairRepo:      f.jobFairRepo,
		communityRepo:    f.communityRepo,
		messageRepo:      f.messageRepo,
		notificationRepo: f.notificationRepo,
		now:              func() time.Time { return now },
	}
	return f
}

func TestCompose_NotConfigured(t *testing.T) {
	f := newSummaryFixture()
	f.userRepo.setting.Summarized = false

	_, err := f.svc.Compose(context.Background(), 1)
	if !errors.Is(err, ErrSummaryNotConfigured) {
		t.Fatalf("want ErrSummaryNotConfigured, got %v", err)
	}
}

func TestCompose_UnknownUser(t *testing.T) {
	f := newSummaryFixture()

	_, err := f.svc.Compose(context.Background(), 42)
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}

func TestCompose_NothingToReport(t *testing.T) {
	f := newSummaryFixture()

	_, err := f.svc.Compose(context.Background(), 1)
	if !errors.Is(err, ErrNothingToReport) {
		t.Fatalf("want ErrNothingToReport, got %v", err)
	}
	if len(f.notificationRepo.created) != 0 {
		t.Fatalf("no notification expected, got %d", len(f.notificationRepo.created))
	}
}

func TestCompose_DigestFormat(t *testing.T) {
	f := newSummaryFixture()
	f.convRepo.members = []*model.ConversationMember{
		{ConversationID: 10, UserID: 1, IsVisible: 1, Conversation: model.Conversation{ID: 10, PeerKey: "1_2"}},
	}
	f.messageRepo.messages = []*mongo.Message{
		{ConversationID: 10, SenderID: 2, Content: "hi", CreatedAt: f.now.Add(-2 * time.Hour)},
		{ConversationID: 10, SenderID: 2, Content: "there", CreatedAt: f.now.Add(-1 * time.Hour)},
	}
	f.jobFairRepo.fairs = []*model.JobFair{
		{ID: 7, Title: "Spring Fair", Status: consts.JobFairStatusEnded,
			EndTime: f.now.Add(-3 * time.Hour), UpdatedAt: f.now.Add(-48 * time.Hour)},
	}
	f.communityRepo.counts = []*repository.CommunityQuestionCount{
		{CommunityID: 5, CommunityName: "Alpha", Count: 3},
	}

	notification, err := f.svc.Compose(context.Background(), 1)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	want := "Summary: 2 new DM messages; 1 job fair just ended; 3 new questions in followed communities (Alpha: 3)"
	if notification.Content != want {
		t.Fatalf("content mismatch:\nwant %q\ngot  %q", want, notification.Content)
	}
	if notification.Type != consts.NotificationTypeSummary {
		t.Fatalf("want summary type, got %q", notification.Type)
	}
	if notification.Title != consts.SummaryTitle {
		t.Fatalf("unexpected title %q", notification.Title)
	}
	if notification.Counts == nil || notification.Counts.DMMessages != 2 ||
		notification.Counts.JobFairEnded != 1 || notification.Counts.Questions != 3 {
		t.Fatalf("unexpected counts %+v", notification.Counts)
	}
	if notification.Counts.ByCommunity["Alpha"] != 3 {
		t.Fatalf("unexpected by_community %+v", notification.Counts.ByCommunity)
	}
	if len(f.notificationRepo.created) != 1 {
		t.Fatalf("want 1 stored notification, got %d", len(f.notificationRepo.created))
	}
}

func TestCompose_WindowFiltersOldMessages(t *testing.T) {
	f := newSummaryFixture()
	f.convRepo.members = []*model.ConversationMember{
		{ConversationID: 10, UserID: 1, IsVisible: 1, Conversation: model.Conversation{ID: 10, PeerKey: "1_2"}},
	}
	// since = 昨天 09:00；一条落在窗口外
	f.messageRepo.messages = []*mongo.Message{
		{ConversationID: 10, SenderID: 2, CreatedAt: f.now.Add(-30 * time.Hour)},
		{ConversationID: 10, SenderID: 2, CreatedAt: f.now.Add(-20 * time.Hour)},
		{ConversationID: 10, SenderID: 2, CreatedAt: f.now.Add(-10 * time.Hour)},
		{ConversationID: 10, SenderID: 2, CreatedAt: f.now.Add(-1 * time.Hour)},
	}

	notification, err := f.svc.Compose(context.Background(), 1)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if notification.Counts.DMMessages != 3 {
		t.Fatalf("want 3 messages in window, got %d", notification.Counts.DMMessages)
	}
}

func TestCompose_OwnMessagesExcluded(t *testing.T) {
	f := newSummaryFixture()
	f.convRepo.members = []*model.ConversationMember{
		{ConversationID: 10, UserID: 1, IsVisible: 1, Conversation: model.Conversation{ID: 10, PeerKey: "1_2"}},
	}
	f.messageRepo.messages = []*mongo.Message{
		{ConversationID: 10, SenderID: 1, CreatedAt: f.now.Add(-1 * time.Hour)},
		{ConversationID: 10, SenderID: 2, CreatedAt: f.now.Add(-1 * time.Hour)},
	}

	notification, err := f.svc.Compose(context.Background(), 1)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if notification.Counts.DMMessages != 1 {
		t.Fatalf("want 1 peer message, got %d", notification.Counts.DMMessages)
	}
}

func TestCompose_DisabledCategorySkipped(t *testing.T) {
	f := newSummaryFixture()
	f.userRepo.setting.DMEnabled = false
	f.convRepo.members = []*model.ConversationMember{
		{ConversationID: 10, UserID: 1, IsVisible: 1, Conversation: model.Conversation{ID: 10, PeerKey: "1_2"}},
	}
	f.messageRepo.messages = []*mongo.Message{
		{ConversationID: 10, SenderID: 2, CreatedAt: f.now.Add(-1 * time.Hour)},
	}
	f.communityRepo.counts = []*repository.CommunityQuestionCount{
		{CommunityID: 5, CommunityName: "Alpha", Count: 1},
	}

	notification, err := f.svc.Compose(context.Background(), 1)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if notification.Counts.DMMessages != 0 {
		t.Fatalf("disabled dm must contribute zero, got %d", notification.Counts.DMMessages)
	}
	want := "Summary: 1 new question in followed communities (Alpha: 1)"
	if notification.Content != want {
		t.Fatalf("content mismatch:\nwant %q\ngot  %q", want, notification.Content)
	}
}

func TestClassifyFair(t *testing.T) {
	now := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.Local)
	since := now.Add(-24 * time.Hour)

	cases := []struct {
		name     string
		fair     *model.JobFair
		updated  bool
		upcoming bool
		ended    bool
	}{
		{
			name: "starts in 20h",
			fair: &model.JobFair{Status: consts.JobFairStatusUpcoming,
				StartTime: now.Add(20 * time.Hour)},
			upcoming: true,
		},
		{
			name: "starts in 30h",
			fair: &model.JobFair{Status: consts.JobFairStatusUpcoming,
				StartTime: now.Add(30 * time.Hour)},
		},
		{
			name: "already started",
			fair: &model.JobFair{Status: consts.JobFairStatusUpcoming,
				StartTime: now.Add(-1 * time.Hour)},
		},
		{
			name: "ended in window with update",
			fair: &model.JobFair{Status: consts.JobFairStatusEnded,
				EndTime: now.Add(-2 * time.Hour), UpdatedAt: now.Add(-2 * time.Hour)},
			updated: true,
			ended:   true,
		},
		{
			name: "ended before window",
			fair: &model.JobFair{Status: consts.JobFairStatusEnded,
				EndTime: now.Add(-48 * time.Hour), UpdatedAt: now.Add(-48 * time.Hour)},
		},
		{
			name: "live updated in window",
			fair: &model.JobFair{Status: consts.JobFairStatusLive,
				UpdatedAt: now.Add(-1 * time.Hour)},
			updated: true,
		},
	}

	for _, tc := range cases {
		updated, upcoming, ended := classifyFair(tc.fair, since, now)
		if updated != tc.updated || upcoming != tc.upcoming || ended != tc.ended {
			t.Fatalf("%s: want (%v,%v,%v), got (%v,%v,%v)",
				tc.name, tc.updated, tc.upcoming, tc.ended, updated, upcoming, ended)
		}
	}
}

func TestBuildDigest_SingularForms(t *testing.T) {
	agg := &aggregation{
		dmCount:      1,
		fairUpdated:  1,
		fairUpcoming: 1,
		fairEnded:    1,
		questions: []*repository.CommunityQuestionCount{
			{CommunityName: "Alpha", Count: 1},
		},
	}

	content, _ := buildDigest(agg)
	want := "Summary: 1 new DM message; 1 job fair update; 1 job fair starting soon; " +
		"1 job fair just ended; 1 new question in followed communities (Alpha: 1)"
	if content != want {
		t.Fatalf("content mismatch:\nwant %q\ngot  %q", want, content)
	}
}

func TestBuildDigest_MultipleCommunities(t *testing.T) {
	agg := &aggregation{
		questions: []*repository.CommunityQuestionCount{
			{CommunityName: "Alpha", Count: 2},
			{CommunityName: "Beta", Count: 1},
		},
	}

	content, counts := buildDigest(agg)
	want := "Summary: 3 new questions in followed communities (Alpha: 2, Beta: 1)"
	if content != want {
		t.Fatalf("content mismatch:\nwant %q\ngot  %q", want, content)
	}
	if counts.Questions != 3 || counts.ByCommunity["Beta"] != 1 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}

func TestBreakdownByNotification_RoundTrip(t *testing.T) {
	f := newSummaryFixture()
	f.userRepo.peers = []*model.User{{ID: 2, Nickname: "bob"}}
	f.convRepo.members = []*model.ConversationMember{
		{ConversationID: 10, UserID: 1, IsVisible: 0, Conversation: model.Conversation{ID: 10, PeerKey: "1_2"}},
	}
	f.messageRepo.messages = []*mongo.Message{
		{ConversationID: 10, SenderID: 2, Content: "ping", CreatedAt: f.now.Add(-2 * time.Hour)},
	}
	f.communityRepo.counts = []*repository.CommunityQuestionCount{
		{CommunityID: 5, CommunityName: "Alpha", Count: 1},
	}
	f.communityRepo.details = []*repository.QuestionDetail{
		{QuestionID: 99, Title: "how?", AuthorName: "carol", CommunityName: "Alpha", AskedAt: f.now.Add(-3 * time.Hour)},
	}

	notification, err := f.svc.Compose(context.Background(), 1)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	breakdown, err := f.svc.BreakdownByNotification(context.Background(), 1, notification.ID.Hex())
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}

	if len(breakdown.DMThreads) != 1 {
		t.Fatalf("want 1 dm thread, got %d", len(breakdown.DMThreads))
	}
	thread := breakdown.DMThreads[0]
	if thread.PeerID != 2 || thread.PeerName != "bob" {
		t.Fatalf("unexpected peer %d/%q", thread.PeerID, thread.PeerName)
	}
	if !thread.Deleted {
		t.Fatal("soft-deleted conversation must carry deleted flag")
	}
	if thread.Count != 1 || len(thread.Messages) != 1 || thread.Messages[0].Content != "ping" {
		t.Fatalf("unexpected thread messages %+v", thread.Messages)
	}
	if len(breakdown.CommunityQuestions) != 1 || breakdown.CommunityQuestions[0].QuestionID != 99 {
		t.Fatalf("unexpected questions %+v", breakdown.CommunityQuestions)
	}
}

func TestBreakdownByNotification_StaleLoginWindow(t *testing.T) {
	f := newSummaryFixture()
	// 超过 24h 未活跃：聚合窗口回退到 lastLogin，
	// 回溯必须复用同一窗口，而不是缩窄到昨天 HH:MM
	lastLogin := f.now.Add(-72 * time.Hour)
	f.userRepo.user.LastLogin = &lastLogin
	f.userRepo.peers = []*model.User{{ID: 2, Nickname: "bob"}}
	f.convRepo.members = []*model.ConversationMember{
		{ConversationID: 10, UserID: 1, IsVisible: 1, Conversation: model.Conversation{ID: 10, PeerKey: "1_2"}},
	}
	f.messageRepo.messages = []*mongo.Message{
		{ConversationID: 10, SenderID: 2, Content: "hi", CreatedAt: f.now.Add(-48 * time.Hour)},
	}

	notification, err := f.svc.Compose(context.Background(), 1)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	if notification.Counts.DMMessages != 1 {
		t.Fatalf("want 1 dm message in digest, got %d", notification.Counts.DMMessages)
	}
	if !notification.WindowStart.Equal(lastLogin) {
		t.Fatalf("want window start %v, got %v", lastLogin, notification.WindowStart)
	}

	breakdown, err := f.svc.BreakdownByNotification(context.Background(), 1, notification.ID.Hex())
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if len(breakdown.DMThreads) != 1 || breakdown.DMThreads[0].Count != 1 {
		t.Fatalf("breakdown must cover the digest window, got %+v", breakdown.DMThreads)
	}
}

func TestBreakdownByNotification_LegacyWithoutWindow(t *testing.T) {
	f := newSummaryFixture()
	f.communityRepo.details = []*repository.QuestionDetail{
		{QuestionID: 99, Title: "how?", CommunityName: "Alpha", AskedAt: f.now.Add(-3 * time.Hour)},
	}
	legacy := &mongo.NotificationModel{
		ReceiverID: 1,
		Type:       consts.NotificationTypeSummary,
		CreatedAt:  f.now,
	}
	if err := f.notificationRepo.CreateNotification(context.Background(), legacy); err != nil {
		t.Fatalf("seed: %v", err)
	}

	breakdown, err := f.svc.BreakdownByNotification(context.Background(), 1, legacy.ID.Hex())
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	want := time.Date(2025, time.March, 9, 9, 0, 0, 0, time.Local).Format(time.RFC3339)
	if breakdown.Since != want {
		t.Fatalf("legacy fallback window: want %s, got %s", want, breakdown.Since)
	}
}

func TestBreakdownByNotification_WrongUser(t *testing.T) {
	f := newSummaryFixture()
	f.communityRepo.counts = []*repository.CommunityQuestionCount{
		{CommunityID: 5, CommunityName: "Alpha", Count: 1},
	}

	notification, err := f.svc.Compose(context.Background(), 1)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	_, err = f.svc.BreakdownByNotification(context.Background(), 2, notification.ID.Hex())
	if !errors.Is(err, UnauthorizedError) {
		t.Fatalf("want UnauthorizedError, got %v", err)
	}
}

func TestBreakdownByNotification_BadID(t *testing.T) {
	f := newSummaryFixture()

	_, err := f.svc.BreakdownByNotification(context.Background(), 1, "not-an-object-id")
	if !errors.Is(err, ErrParamInvalid) {
		t.Fatalf("want ErrParamInvalid, got %v", err)
	}

	_, err = f.svc.BreakdownByNotification(context.Background(), 1, primitive.NewObjectID().Hex())
	if !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("want ErrNotificationNotFound, got %v", err)
	}
}

func TestParsePeerID(t *testing.T) {
	if got := parsePeerID("1_2", 1); got != 2 {
		t.Fatalf("want 2, got %d", got)
	}
	if got := parsePeerID("1_2", 2); got != 1 {
		t.Fatalf("want 1, got %d", got)
	}
	if got := parsePeerID("garbage", 1); got != 0 {
		t.Fatalf("want 0, got %d", got)
	}
}
