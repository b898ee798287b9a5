package waitlist_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/waitlist/internal/store"
	"github.com/DoyleJ11/waitlist/internal/waitlist"
	"github.com/DoyleJ11/waitlist/pkg/types"
)

type recordingNotifier struct {
	mu    sync.Mutex
	calls [][]types.RankingEntry
}

func (n *recordingNotifier) Notify(_ context.Context, rankings []types.RankingEntry) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, rankings)
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendCoupon(_ context.Context, to, coupon string) error {
	m.sent = append(m.sent, to+":"+coupon)
	return m.err
}

func newService(t *testing.T, opts ...waitlist.Option) (*waitlist.Service, *store.Repo) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := store.Open(store.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	repo := store.NewRepo(db)
	return waitlist.NewService(repo, opts...), repo
}

func req(name, email, phone, code string) types.SignupRequest {
	return types.SignupRequest{Name: name, Email: email, Phone: phone, ReferralCode: code}
}

func TestSignup_AssignsSequentialPositions(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		got, err := svc.Signup(ctx, req("P", fmt.Sprintf("p%d@x.io", i), fmt.Sprintf("555000000%d", i), ""))
		require.NoError(t, err)
		assert.Equal(t, i, got.Position)
		assert.Len(t, got.ReferralCode, 9)
	}
}

func TestSignup_ConcurrentSignupsGetDistinctPositions(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	const n = 10
	positions := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := svc.Signup(ctx, req("P", fmt.Sprintf("c%d@x.io", i), fmt.Sprintf("55500001%02d", i), ""))
			assert.NoError(t, err)
			positions <- got.Position
		}(i)
	}
	wg.Wait()
	close(positions)

	seen := make(map[int]bool)
	for p := range positions {
		seen[p] = true
	}
	assert.Len(t, seen, n)
	for p := 1; p <= n; p++ {
		assert.True(t, seen[p], "position %d missing", p)
	}
}

func TestSignup_Validation(t *testing.T) {
	cases := []struct {
		name    string
		req     types.SignupRequest
		wantErr error
	}{
		{name: "missing name", req: req(" ", "a@x.io", "5551234567", ""), wantErr: waitlist.ErrMissingFields},
		{name: "missing phone", req: req("A", "a@x.io", "", ""), wantErr: waitlist.ErrMissingFields},
		{name: "bad email", req: req("A", "not-an-email", "5551234567", ""), wantErr: waitlist.ErrInvalidEmail},
		{name: "short phone", req: req("A", "a@x.io", "12345", ""), wantErr: waitlist.ErrInvalidPhone},
		{name: "phone with dashes", req: req("A", "a@x.io", "555-123-4567", ""), wantErr: waitlist.ErrInvalidPhone},
		{name: "unknown referral code", req: req("A", "a@x.io", "5551234567", "zzzzzzzzz"), wantErr: waitlist.ErrInvalidReferralCode},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newService(t)
			_, err := svc.Signup(context.Background(), tc.req)
			require.ErrorIs(t, err, tc.wantErr)
			assert.True(t, waitlist.IsUserError(err))
		})
	}
}

func TestSignup_RejectsDuplicates(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, req("A", "a@x.io", "5551234567", ""))
	require.NoError(t, err)

	_, err = svc.Signup(ctx, req("B", "  A@X.io ", "5559999999", ""))
	require.ErrorIs(t, err, waitlist.ErrEmailRegistered)
	assert.Equal(t, "Email already registered", waitlist.UserMessage(err))

	_, err = svc.Signup(ctx, req("B", "b@x.io", "5551234567", ""))
	require.ErrorIs(t, err, waitlist.ErrPhoneRegistered)
}

func TestSignup_CreditsReferrer(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	first, err := svc.Signup(ctx, req("A", "a@x.io", "5551234567", ""))
	require.NoError(t, err)

	_, err = svc.Signup(ctx, req("B", "b@x.io", "5551234568", first.ReferralCode))
	require.NoError(t, err)

	referrer, err := repo.FindByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, 1, referrer.Referrals)
	assert.Equal(t, 1, referrer.ReferredPersons)

	top, err := svc.Top(ctx)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, types.TopEntry{Name: "A", Email: "a@x.io", Referrals: 1}, top[0])
}

func TestSignup_RegeneratesCollidingCode(t *testing.T) {
	codes := []string{"aaaaaaaaa", "aaaaaaaaa", "bbbbbbbbb"}
	restore := waitlist.SetCodeGenerators(func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}, nil)
	defer restore()

	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Signup(ctx, req("A", "a@x.io", "5551234567", ""))
	require.NoError(t, err)
	second, err := svc.Signup(ctx, req("B", "b@x.io", "5551234568", ""))
	require.NoError(t, err)

	assert.Equal(t, "aaaaaaaaa", first.ReferralCode)
	assert.Equal(t, "bbbbbbbbb", second.ReferralCode)
}

func TestSignup_NotifiesRankings(t *testing.T) {
	n := &recordingNotifier{}
	svc, _ := newService(t, waitlist.WithNotifier(n))
	ctx := context.Background()

	_, err := svc.Signup(ctx, req("A", "a@x.io", "5551234567", ""))
	require.NoError(t, err)
	_, err = svc.Signup(ctx, req("B", "b@x.io", "5551234568", ""))
	require.NoError(t, err)

	require.Len(t, n.calls, 2)
	last := n.calls[1]
	require.Len(t, last, 2)
	assert.Equal(t, "A", last[0].Name)
	assert.Equal(t, 2, last[1].Position)
	assert.Equal(t, 0, last[1].Referred())
}

func TestRankings_EmptyIsNotNil(t *testing.T) {
	svc, _ := newService(t)
	got, err := svc.Rankings(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestReferral_MovesReferrerUpAndMailsCoupon(t *testing.T) {
	restore := waitlist.SetCodeGenerators(nil, func() (string, error) { return "COUPON1234", nil })
	defer restore()

	mailer := &fakeMailer{}
	svc, repo := newService(t, waitlist.WithMailer(mailer))
	ctx := context.Background()

	_, err := svc.Signup(ctx, req("A", "a@x.io", "5551234567", ""))
	require.NoError(t, err)
	second, err := svc.Signup(ctx, req("B", "b@x.io", "5551234568", ""))
	require.NoError(t, err)
	require.Equal(t, 2, second.Position)

	pos, err := svc.Referral(ctx, types.ReferralRequest{ReferralCode: second.ReferralCode, Email: "friend@x.io"})
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	friend, err := repo.FindByEmail(ctx, "friend@x.io")
	require.NoError(t, err)
	assert.Equal(t, 2, friend.Position)
	assert.Nil(t, friend.Phone)

	assert.Equal(t, []string{"friend@x.io:COUPON1234"}, mailer.sent)
}

func TestReferral_PositionNeverBelowOne(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Signup(ctx, req("A", "a@x.io", "5551234567", ""))
	require.NoError(t, err)

	pos, err := svc.Referral(ctx, types.ReferralRequest{ReferralCode: first.ReferralCode, Email: "f@x.io"})
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
}

func TestReferral_NoCouponAboveThreshold(t *testing.T) {
	mailer := &fakeMailer{}
	svc, _ := newService(t, waitlist.WithMailer(mailer), waitlist.WithCouponThreshold(1))
	ctx := context.Background()

	first, err := svc.Signup(ctx, req("A", "a@x.io", "5551234567", ""))
	require.NoError(t, err)

	_, err = svc.Referral(ctx, types.ReferralRequest{ReferralCode: first.ReferralCode, Email: "f@x.io"})
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestReferral_MailFailureDoesNotFail(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp down")}
	svc, _ := newService(t, waitlist.WithMailer(mailer))
	ctx := context.Background()

	first, err := svc.Signup(ctx, req("A", "a@x.io", "5551234567", ""))
	require.NoError(t, err)

	_, err = svc.Referral(ctx, types.ReferralRequest{ReferralCode: first.ReferralCode, Email: "f@x.io"})
	require.NoError(t, err)
	assert.Len(t, mailer.sent, 1)
}

func TestReferral_Errors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.Signup(ctx, req("A", "a@x.io", "5551234567", ""))
	require.NoError(t, err)

	cases := []struct {
		name    string
		req     types.ReferralRequest
		wantErr error
	}{
		{name: "missing code", req: types.ReferralRequest{Email: "f@x.io"}, wantErr: waitlist.ErrReferralFields},
		{name: "bad email", req: types.ReferralRequest{ReferralCode: first.ReferralCode, Email: "nope"}, wantErr: waitlist.ErrInvalidEmail},
		{name: "unknown code", req: types.ReferralRequest{ReferralCode: "missing00", Email: "f@x.io"}, wantErr: waitlist.ErrInvalidReferralCode},
		{name: "email taken", req: types.ReferralRequest{ReferralCode: first.ReferralCode, Email: "a@x.io"}, wantErr: waitlist.ErrEmailRegistered},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Referral(ctx, tc.req)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}
