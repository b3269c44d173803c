package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"
	"ngosocial/internal/store"
	"ngosocial/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

func (m *recordingMailer) SendOTP(email, name, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.codes == nil {
		m.codes = map[string]string{}
	}
	m.codes[email] = code
}

func (m *recordingMailer) code(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

func newAuthFixture(t *testing.T) (*AuthService, *recordingMailer, *TokenIssuer) {
	conn := testutil.NewDB(t)
	s := store.New(conn)
	mail := &recordingMailer{}
	tokens := NewTokenIssuer("secret", time.Hour)
	return NewAuthService(s, tokens, mail, zap.NewNop()), mail, tokens
}

func TestAuthFlow(t *testing.T) {
	auth, mail, tokens := newAuthFixture(t)
	ctx := context.Background()
	email := "asha@example.com"

	require.NoError(t, auth.Register(ctx, engagement.KindUser, Registration{Email: email, FullName: "Asha"}))
	code := mail.code(email)
	require.Len(t, code, 6)

	// password cannot be set before verification
	_, err := auth.SetPassword(ctx, engagement.KindUser, email, "hunter22")
	assert.True(t, errors.Is(err, apperr.ErrAuthorization))

	assert.True(t, errors.Is(auth.Verify(ctx, engagement.KindUser, email, "000000x"), apperr.ErrAuthorization))
	require.NoError(t, auth.Verify(ctx, engagement.KindUser, email, code))

	token, err := auth.SetPassword(ctx, engagement.KindUser, email, "hunter22")
	require.NoError(t, err)
	p, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, engagement.KindUser, p.Kind)

	// only once
	_, err = auth.SetPassword(ctx, engagement.KindUser, email, "other")
	assert.True(t, errors.Is(err, apperr.ErrAuthorization))

	_, err = auth.Login(ctx, engagement.KindUser, email, "wrong")
	assert.True(t, errors.Is(err, apperr.ErrAuthentication))

	token, err = auth.Login(ctx, engagement.KindUser, email, "hunter22")
	require.NoError(t, err)
	p2, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, p, p2)
}

func TestRegisterEmailSharedAcrossKinds(t *testing.T) {
	auth, _, _ := newAuthFixture(t)
	ctx := context.Background()

	require.NoError(t, auth.Register(ctx, engagement.KindNgo, Registration{Email: "help@ngo.org", Name: "Help", Type: "trust", Phone: "1"}))
	err := auth.Register(ctx, engagement.KindUser, Registration{Email: "HELP@ngo.org", FullName: "Someone"})
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestLoginAsWrongKind(t *testing.T) {
	auth, mail, _ := newAuthFixture(t)
	ctx := context.Background()
	email := "ngo@example.org"

	require.NoError(t, auth.Register(ctx, engagement.KindNgo, Registration{Email: email, Name: "N", Type: "t", Phone: "1"}))
	require.NoError(t, auth.Verify(ctx, engagement.KindNgo, email, mail.code(email)))
	_, err := auth.SetPassword(ctx, engagement.KindNgo, email, "pw123456")
	require.NoError(t, err)

	_, err = auth.Login(ctx, engagement.KindUser, email, "pw123456")
	assert.True(t, errors.Is(err, apperr.ErrAuthentication))
}

func TestResendOTPReplacesCode(t *testing.T) {
	auth, mail, _ := newAuthFixture(t)
	ctx := context.Background()
	email := "r@example.com"

	require.NoError(t, auth.Register(ctx, engagement.KindUser, Registration{Email: email, FullName: "R"}))
	first := mail.code(email)
	require.NoError(t, auth.ResendOTP(ctx, engagement.KindUser, email))
	second := mail.code(email)

	if first != second {
		assert.Error(t, auth.Verify(ctx, engagement.KindUser, email, first))
	}
	require.NoError(t, auth.Verify(ctx, engagement.KindUser, email, second))

	err := auth.ResendOTP(ctx, engagement.KindUser, "nobody@example.com")
	assert.True(t, errors.Is(err, apperr.ErrAuthentication))
}

func TestTokenRejectsTamperingAndExpiry(t *testing.T) {
	tokens := NewTokenIssuer("secret", time.Hour)
	token, err := tokens.Issue(engagement.Ngo("n1"))
	require.NoError(t, err)

	_, err = NewTokenIssuer("other", time.Hour).Parse(token)
	assert.True(t, errors.Is(err, apperr.ErrAuthentication))

	expired, err := NewTokenIssuer("secret", -time.Minute).Issue(engagement.User("u1"))
	require.NoError(t, err)
	_, err = tokens.Parse(expired)
	assert.True(t, errors.Is(err, apperr.ErrAuthentication))

	p, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, engagement.Ngo("n1"), p)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "S3cret"))
}

func TestAwardIssueCommentDailyLimit(t *testing.T) {
	conn := testutil.NewDB(t)
	s := store.New(conn)
	testutil.CreateUser(t, conn, "u1")
	points := NewPoints(s, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < DailyCommentLimit; i++ {
		ok, err := points.AwardIssueComment(ctx, engagement.User("u1"))
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := points.AwardIssueComment(ctx, engagement.User("u1"))
	require.NoError(t, err)
	assert.False(t, ok)

	u, err := s.FindUser(ctx, "u1")
	require.NoError(t, err)
	assert.InDelta(t, 0.006, u.Points, 1e-9)
}
