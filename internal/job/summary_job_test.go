package job

import (
	"Lighthouse/internal/api/dto"
	"Lighthouse/internal/model"
	"Lighthouse/internal/pkg/mongo"
	"Lighthouse/internal/service"
	"context"
	"testing"
	"time"
)

func TestSummaryDue(t *testing.T) {
	now := time.Date(2025, time.March, 10, 9, 30, 0, 0, time.Local)

	cases := []struct {
		name      string
		candidate *model.SummaryCandidate
		want      bool
	}{
		{
			name:      "due after delivery time",
			candidate: &model.SummaryCandidate{SummaryTime: "09:00", LastSummaryDate: "2025-03-09"},
			want:      true,
		},
		{
			name:      "due exactly at delivery time",
			candidate: &model.SummaryCandidate{SummaryTime: "09:30", LastSummaryDate: ""},
			want:      true,
		},
		{
			name:      "not yet due",
			candidate: &model.SummaryCandidate{SummaryTime: "10:00", LastSummaryDate: ""},
			want:      false,
		},
		{
			name:      "already delivered today",
			candidate: &model.SummaryCandidate{SummaryTime: "09:00", LastSummaryDate: "2025-03-10"},
			want:      false,
		},
		{
			name:      "unpadded hour normalized",
			candidate: &model.SummaryCandidate{SummaryTime: "9:00", LastSummaryDate: ""},
			want:      true,
		},
		{
			name:      "malformed time falls back to default",
			candidate: &model.SummaryCandidate{SummaryTime: "morning", LastSummaryDate: ""},
			want:      true, // 默认 09:00，当前 09:30 已过
		},
		{
			name:      "never delivered and due",
			candidate: &model.SummaryCandidate{SummaryTime: "00:00", LastSummaryDate: ""},
			want:      true,
		},
	}

	for _, tc := range cases {
		if got := summaryDue(tc.candidate, now); got != tc.want {
			t.Fatalf("%s: want %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestSummaryDue_BeforeDefaultTime(t *testing.T) {
	now := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.Local)
	c := &model.SummaryCandidate{SummaryTime: "broken", LastSummaryDate: ""}
	if summaryDue(c, now) {
		t.Fatal("malformed time must wait for the default 09:00 slot")
	}
}

type fakeUserRepo struct {
	pingErr    error
	candidates []*model.SummaryCandidate
	marked     []uint64
}

func (f *fakeUserRepo) Ping(_ context.Context) error { return f.pingErr }

func (f *fakeUserRepo) GetUserById(_ context.Context, _ uint64) (*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetUsersByIds(_ context.Context, _ []uint64) ([]*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetSetting(_ context.Context, _ uint64) (*model.NotificationSetting, error) {
	return nil, nil
}

func (f *fakeUserRepo) UpdateSetting(_ context.Context, _ *model.NotificationSetting) error {
	return nil
}

func (f *fakeUserRepo) ListSummaryCandidates(_ context.Context) ([]*model.SummaryCandidate, error) {
	return f.candidates, nil
}

func (f *fakeUserRepo) MarkSummaryDate(_ context.Context, userID uint64, _ string) error {
	f.marked = append(f.marked, userID)
	return nil
}

func (f *fakeUserRepo) UpsertUser(_ context.Context, _ *model.User) error { return nil }

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, _ uint64, _ time.Time) error {
	return nil
}

type fakeSummaryService struct {
	errs     map[uint64]error
	composed []uint64
}

func (f *fakeSummaryService) Compose(_ context.Context, userID uint64) (*mongo.NotificationModel, error) {
	f.composed = append(f.composed, userID)
	if err := f.errs[userID]; err != nil {
		return nil, err
	}
	return &mongo.NotificationModel{ReceiverID: userID, Type: "summary"}, nil
}

func (f *fakeSummaryService) Breakdown(_ context.Context, _ uint64, _ time.Time) (*dto.SummaryBreakdownDTO, error) {
	return nil, nil
}

func (f *fakeSummaryService) BreakdownByNotification(_ context.Context, _ uint64, _ string) (*dto.SummaryBreakdownDTO, error) {
	return nil, nil
}

type fakePushService struct {
	pushed []uint64
}

func (f *fakePushService) PushNotification(_ context.Context, n *mongo.NotificationModel) {
	f.pushed = append(f.pushed, n.ReceiverID)
}

type jobFixture struct {
	userRepo   *fakeUserRepo
	summarySvc *fakeSummaryService
	pushSvc    *fakePushService
	job        *SummaryJob
	unlocked   []string
}

func newJobFixture(candidates []*model.SummaryCandidate) *jobFixture {
	f := &jobFixture{
		userRepo:   &fakeUserRepo{candidates: candidates},
		summarySvc: &fakeSummaryService{errs: map[uint64]error{}},
		pushSvc:    &fakePushService{},
	}
	f.job = NewSummaryJob(f.userRepo, f.summarySvc, f.pushSvc, time.Second, time.Minute)
	f.job.now = func() time.Time {
		return time.Date(2025, time.March, 10, 9, 30, 0, 0, time.Local)
	}
	f.job.lockDay = func(_ context.Context, _ string) (bool, error) { return true, nil }
	f.job.unlockDay = func(_ context.Context, key string) {
		f.unlocked = append(f.unlocked, key)
	}
	return f
}

func dueCandidate(userID uint64) *model.SummaryCandidate {
	return &model.SummaryCandidate{UserID: userID, SummaryTime: "09:00"}
}

func TestRun_FailureIsolation(t *testing.T) {
	f := newJobFixture([]*model.SummaryCandidate{dueCandidate(1), dueCandidate(2)})
	f.summarySvc.errs[1] = context.DeadlineExceeded

	f.job.Run()

	if len(f.summarySvc.composed) != 2 {
		t.Fatalf("want both users composed, got %v", f.summarySvc.composed)
	}
	if len(f.userRepo.marked) != 1 || f.userRepo.marked[0] != 2 {
		t.Fatalf("only the healthy user must advance the date, got %v", f.userRepo.marked)
	}
	if len(f.pushSvc.pushed) != 1 || f.pushSvc.pushed[0] != 2 {
		t.Fatalf("only the healthy user must be pushed, got %v", f.pushSvc.pushed)
	}
}

func TestRun_ComposeErrorReleasesDayLock(t *testing.T) {
	f := newJobFixture([]*model.SummaryCandidate{dueCandidate(1), dueCandidate(2)})
	f.summarySvc.errs[1] = context.DeadlineExceeded

	f.job.Run()

	// 失败用户释放当日锁，后续轮次可重试；成功用户保留锁
	if len(f.unlocked) != 1 {
		t.Fatalf("want exactly one lock released, got %v", f.unlocked)
	}
	want := "summary:lock:1:2025-03-10"
	if f.unlocked[0] != want {
		t.Fatalf("want %q released, got %q", want, f.unlocked[0])
	}
}

func TestRun_NothingToReportAdvancesDate(t *testing.T) {
	f := newJobFixture([]*model.SummaryCandidate{dueCandidate(1)})
	f.summarySvc.errs[1] = service.ErrNothingToReport

	f.job.Run()

	if len(f.userRepo.marked) != 1 || f.userRepo.marked[0] != 1 {
		t.Fatalf("quiet day must still advance the date, got %v", f.userRepo.marked)
	}
	if len(f.pushSvc.pushed) != 0 {
		t.Fatalf("quiet day must not push, got %v", f.pushSvc.pushed)
	}
	if len(f.unlocked) != 0 {
		t.Fatalf("quiet day is terminal, lock must stay, got %v", f.unlocked)
	}
}

func TestRun_StorageUnavailableSkipsPass(t *testing.T) {
	f := newJobFixture([]*model.SummaryCandidate{dueCandidate(1)})
	f.userRepo.pingErr = context.DeadlineExceeded

	f.job.Run()

	if len(f.summarySvc.composed) != 0 {
		t.Fatalf("pass must be skipped when storage is down, composed %v", f.summarySvc.composed)
	}
}

func TestRun_LockHeldSkipsUser(t *testing.T) {
	f := newJobFixture([]*model.SummaryCandidate{dueCandidate(1)})
	f.job.lockDay = func(_ context.Context, _ string) (bool, error) { return false, nil }

	f.job.Run()

	if len(f.summarySvc.composed) != 0 {
		t.Fatalf("held lock must skip the user, composed %v", f.summarySvc.composed)
	}
}

func TestRun_LockErrorProceeds(t *testing.T) {
	f := newJobFixture([]*model.SummaryCandidate{dueCandidate(1)})
	f.job.lockDay = func(_ context.Context, _ string) (bool, error) {
		return false, context.DeadlineExceeded
	}

	f.job.Run()

	// Redis 故障时放行，last_summary_date 兜底去重
	if len(f.summarySvc.composed) != 1 {
		t.Fatalf("lock error must not block delivery, composed %v", f.summarySvc.composed)
	}
}

func TestRun_NotDueCandidateSkipped(t *testing.T) {
	f := newJobFixture([]*model.SummaryCandidate{
		{UserID: 1, SummaryTime: "23:00"},
	})

	f.job.Run()

	if len(f.summarySvc.composed) != 0 {
		t.Fatalf("candidate before delivery time must be skipped, composed %v", f.summarySvc.composed)
	}
}
