package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagekingbot/internal/models"
)

type fakeUsers struct {
	users map[int64]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[int64]*models.User)}
}

func (f *fakeUsers) Get(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Upsert(_ context.Context, u *models.User) error {
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUsers) SetStatus(_ context.Context, id int64, status models.UserStatus) error {
	u, ok := f.users[id]
	if !ok {
		return nil
	}
	u.Status = status
	return nil
}

type fakeChallenges struct {
	challenges map[int64]*models.OtpChallenge
}

func newFakeChallenges() *fakeChallenges {
	return &fakeChallenges{challenges: make(map[int64]*models.OtpChallenge)}
}

func (f *fakeChallenges) Get(_ context.Context, userID int64) (*models.OtpChallenge, error) {
	c, ok := f.challenges[userID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeChallenges) Put(_ context.Context, c *models.OtpChallenge) error {
	cp := *c
	cp.Attempts = 0
	f.challenges[c.UserID] = &cp
	return nil
}

func (f *fakeChallenges) IncrementAttempts(_ context.Context, userID int64) (int, error) {
	c, ok := f.challenges[userID]
	if !ok {
		return 0, nil
	}
	c.Attempts++
	return c.Attempts, nil
}

func (f *fakeChallenges) Delete(_ context.Context, userID int64) error {
	delete(f.challenges, userID)
	return nil
}

type fakeSender struct {
	sent []string
}

func (f *fakeSender) Send(_ context.Context, _ int64, _ string, code string) error {
	f.sent = append(f.sent, code)
	return nil
}

type registrationFixture struct {
	svc        *Registration
	users      *fakeUsers
	challenges *fakeChallenges
	sender     *fakeSender
	clock      time.Time
}

func newRegistrationFixture(t *testing.T, opts RegistrationOptions) *registrationFixture {
	t.Helper()
	fx := &registrationFixture{
		users:      newFakeUsers(),
		challenges: newFakeChallenges(),
		sender:     &fakeSender{},
		clock:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	fx.svc = NewRegistration(fx.users, fx.challenges, fx.sender, opts)
	fx.svc.now = func() time.Time { return fx.clock }
	code := 0
	fx.svc.newCode = func() string {
		code++
		return []string{"111111", "222222", "333333"}[code-1]
	}
	return fx
}

func (fx *registrationFixture) advance(d time.Duration) {
	fx.clock = fx.clock.Add(d)
}

func TestRegistrationHappyPath(t *testing.T) {
	fx := newRegistrationFixture(t, RegistrationOptions{})
	ctx := context.Background()

	require.NoError(t, fx.svc.Begin(ctx, 42, "Alice", "+77010000000"))
	require.Len(t, fx.sender.sent, 1)

	user, err := fx.svc.GetUserByTelegramID(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, models.UserOtpPending, user.Status)
	assert.False(t, user.Verified())

	require.NoError(t, fx.svc.SubmitOTP(ctx, 42, fx.sender.sent[0]))

	user, err = fx.svc.GetUserByTelegramID(ctx, 42)
	require.NoError(t, err)
	assert.True(t, user.Verified())

	// Challenge is destroyed on success; resubmitting the code fails.
	assert.ErrorIs(t, fx.svc.SubmitOTP(ctx, 42, fx.sender.sent[0]), ErrOtpExpired)
}

func TestRegistrationNoChallenge(t *testing.T) {
	fx := newRegistrationFixture(t, RegistrationOptions{})
	assert.ErrorIs(t, fx.svc.SubmitOTP(context.Background(), 7, "123456"), ErrOtpExpired)
}

func TestRegistrationExpiredCode(t *testing.T) {
	fx := newRegistrationFixture(t, RegistrationOptions{TTL: 5 * time.Minute})
	ctx := context.Background()

	require.NoError(t, fx.svc.Begin(ctx, 42, "Alice", "+77010000000"))
	fx.advance(5*time.Minute + time.Second)

	// Even the right code fails after the window closes.
	assert.ErrorIs(t, fx.svc.SubmitOTP(ctx, 42, fx.sender.sent[0]), ErrOtpExpired)
	assert.Nil(t, fx.challenges.challenges[42])
}

func TestRegistrationMismatchThenSuccess(t *testing.T) {
	fx := newRegistrationFixture(t, RegistrationOptions{MaxAttempts: 3})
	ctx := context.Background()

	require.NoError(t, fx.svc.Begin(ctx, 42, "Alice", "+77010000000"))
	assert.ErrorIs(t, fx.svc.SubmitOTP(ctx, 42, "000000"), ErrOtpMismatch)
	assert.ErrorIs(t, fx.svc.SubmitOTP(ctx, 42, "999999"), ErrOtpMismatch)
	require.NoError(t, fx.svc.SubmitOTP(ctx, 42, fx.sender.sent[0]))

	user, err := fx.svc.GetUserByTelegramID(ctx, 42)
	require.NoError(t, err)
	assert.True(t, user.Verified())
}

func TestRegistrationAttemptsExceeded(t *testing.T) {
	fx := newRegistrationFixture(t, RegistrationOptions{MaxAttempts: 3})
	ctx := context.Background()

	require.NoError(t, fx.svc.Begin(ctx, 42, "Alice", "+77010000000"))
	assert.ErrorIs(t, fx.svc.SubmitOTP(ctx, 42, "000000"), ErrOtpMismatch)
	assert.ErrorIs(t, fx.svc.SubmitOTP(ctx, 42, "000000"), ErrOtpMismatch)
	assert.ErrorIs(t, fx.svc.SubmitOTP(ctx, 42, "000000"), ErrOtpAttemptsExceeded)

	// Challenge destroyed; the correct code no longer helps.
	assert.ErrorIs(t, fx.svc.SubmitOTP(ctx, 42, fx.sender.sent[0]), ErrOtpExpired)

	user, err := fx.svc.GetUserByTelegramID(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, models.UserOtpPending, user.Status)
}

func TestRegistrationResendWithinWindow(t *testing.T) {
	fx := newRegistrationFixture(t, RegistrationOptions{ResendWindow: time.Minute})
	ctx := context.Background()

	require.NoError(t, fx.svc.Begin(ctx, 42, "Alice", "+77010000000"))
	fx.advance(30 * time.Second)
	require.NoError(t, fx.svc.Begin(ctx, 42, "Alice", "+77010000000"))

	// The same code goes out twice instead of rotating.
	require.Len(t, fx.sender.sent, 2)
	assert.Equal(t, fx.sender.sent[0], fx.sender.sent[1])
}

func TestRegistrationResendAfterWindowRotates(t *testing.T) {
	fx := newRegistrationFixture(t, RegistrationOptions{ResendWindow: time.Minute})
	ctx := context.Background()

	require.NoError(t, fx.svc.Begin(ctx, 42, "Alice", "+77010000000"))
	fx.advance(2 * time.Minute)
	require.NoError(t, fx.svc.Begin(ctx, 42, "Alice", "+77010000000"))

	require.Len(t, fx.sender.sent, 2)
	assert.NotEqual(t, fx.sender.sent[0], fx.sender.sent[1])

	// Only the fresh code verifies.
	assert.ErrorIs(t, fx.svc.SubmitOTP(ctx, 42, fx.sender.sent[0]), ErrOtpMismatch)
	require.NoError(t, fx.svc.SubmitOTP(ctx, 42, fx.sender.sent[1]))
}

func TestRegistrationBeginResetsAttempts(t *testing.T) {
	fx := newRegistrationFixture(t, RegistrationOptions{MaxAttempts: 3, ResendWindow: time.Minute})
	ctx := context.Background()

	require.NoError(t, fx.svc.Begin(ctx, 42, "Alice", "+77010000000"))
	assert.ErrorIs(t, fx.svc.SubmitOTP(ctx, 42, "000000"), ErrOtpMismatch)
	assert.ErrorIs(t, fx.svc.SubmitOTP(ctx, 42, "000000"), ErrOtpMismatch)

	fx.advance(2 * time.Minute)
	require.NoError(t, fx.svc.Begin(ctx, 42, "Alice", "+77010000000"))

	// Fresh challenge, fresh attempt budget.
	assert.ErrorIs(t, fx.svc.SubmitOTP(ctx, 42, "000000"), ErrOtpMismatch)
	assert.ErrorIs(t, fx.svc.SubmitOTP(ctx, 42, "000000"), ErrOtpMismatch)
	require.NoError(t, fx.svc.SubmitOTP(ctx, 42, fx.sender.sent[1]))
}

func TestGenerateCodeFormat(t *testing.T) {
	for range 50 {
		code := generateCode()
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}
