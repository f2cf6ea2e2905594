package auth

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/orderdesk/api/internal/domain/actor"
	"github.com/orderdesk/api/internal/domain/user"
)

type mockUserRepo struct {
	byEmail map[string]*user.User
}

func (m *mockUserRepo) FindByID(_ context.Context, _ string) (*user.User, error) {
	return nil, user.ErrNotFound
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (m *mockUserRepo) FindAll(_ context.Context) ([]user.User, error) { return nil, nil }

func (m *mockUserRepo) Save(_ context.Context, _ *user.User) error { return nil }

func (m *mockUserRepo) DeleteByID(_ context.Context, _ string) error { return nil }

func newResolver(t *testing.T) *Resolver {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("abc1@"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &mockUserRepo{byEmail: map[string]*user.User{
		"alice@example.com": {
			ID:           "u1",
			Email:        "alice@example.com",
			PasswordHash: string(hash),
			Role:         actor.RoleAdmin,
		},
	}}
	return NewResolver(repo, []byte("test-secret"), time.Hour)
}

func basic(email, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(email+":"+password))
}

func TestResolve_Basic(t *testing.T) {
	r := newResolver(t)

	act, err := r.Resolve(context.Background(), basic("alice@example.com", "abc1@"))
	require.NoError(t, err)
	assert.Equal(t, "u1", act.ID)
	assert.True(t, act.IsAdmin())
}

func TestResolve_BasicRejected(t *testing.T) {
	r := newResolver(t)

	cases := []string{
		"",
		"Basic not-base64!!!",
		"Basic " + base64.StdEncoding.EncodeToString([]byte("no-colon")),
		basic("alice@example.com", "wrong"),
		basic("ghost@example.com", "abc1@"),
		"Digest whatever",
	}
	for _, credential := range cases {
		_, err := r.Resolve(context.Background(), credential)
		assert.ErrorIs(t, err, actor.ErrAuthenticationRequired, "credential %q", credential)
	}
}

func TestLoginAndBearerRoundTrip(t *testing.T) {
	r := newResolver(t)

	token, err := r.Login(context.Background(), "alice@example.com", "abc1@")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	act, err := r.Resolve(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, "u1", act.ID)
	assert.Equal(t, actor.RoleAdmin, act.Role)
}

func TestLogin_BadCredentials(t *testing.T) {
	r := newResolver(t)

	_, err := r.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, actor.ErrAuthenticationRequired)

	_, err = r.Login(context.Background(), "ghost@example.com", "abc1@")
	assert.ErrorIs(t, err, actor.ErrAuthenticationRequired)
}

func TestResolve_ExpiredToken(t *testing.T) {
	r := newResolver(t)

	issued := time.Now().Add(-2 * time.Hour)
	r.now = func() time.Time { return issued }
	token, err := r.Login(context.Background(), "alice@example.com", "abc1@")
	require.NoError(t, err)

	// Verification happens an hour past expiry.
	r.now = time.Now
	_, err = r.Resolve(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, actor.ErrAuthenticationRequired)
}

func TestResolve_TamperedToken(t *testing.T) {
	r := newResolver(t)

	token, err := r.Login(context.Background(), "alice@example.com", "abc1@")
	require.NoError(t, err)

	other := NewResolver(&mockUserRepo{}, []byte("different-secret"), time.Hour)
	_, err = other.Resolve(context.Background(), "Bearer "+token)
	assert.ErrorIs(t, err, actor.ErrAuthenticationRequired)
}
