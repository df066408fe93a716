package accounts

import (
	"context"
	"testing"
	"time"

	"estately/apperrors"
	"estately/db"
	"estately/services/sessions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := db.OpenBucketStore(t.TempDir())
	require.NoError(t, err)
	return NewService(db.NewUsersDB(store), sessions.NewSessionManager(time.Hour, nil))
}

func TestSignupRejectsMissingDetails(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "secret"},
		{"empty password", "alice", ""},
		{"whitespace only", "   ", "  "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Signup(ctx, tc.username, tc.password, "buyer")
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))
			assert.Contains(t, err.Error(), "Please enter all details.")
		})
	}
}

func TestSignupThenLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "alice", "hunter2", "seller"))

	session, section, err := svc.Login(ctx, "alice", "hunter2")
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "alice", session.Username)
	assert.Equal(t, "seller", session.Role)
	assert.NotEmpty(t, session.SessionID)
	assert.Equal(t, SectionSellerDashboard, section)
}

func TestSignupDefaultsRoleToBuyer(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "bob", "pw", ""))

	_, section, err := svc.Login(ctx, "bob", "pw")
	require.NoError(t, err)
	assert.Equal(t, SectionBuyerDashboard, section)
}

func TestSignupOverwritesExistingAccount(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "alice", "first", "buyer"))
	require.NoError(t, svc.Signup(ctx, "alice", "second", "seller"))

	_, _, err := svc.Login(ctx, "alice", "first")
	require.Error(t, err)

	_, section, err := svc.Login(ctx, "alice", "second")
	require.NoError(t, err)
	assert.Equal(t, SectionSellerDashboard, section)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "alice", "hunter2", "buyer"))

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"unknown user", "mallory", "hunter2"},
		{"wrong password", "alice", "wrong"},
		{"case-sensitive username", "Alice", "hunter2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			session, section, err := svc.Login(ctx, tc.username, tc.password)
			require.Error(t, err)
			assert.Nil(t, session)
			assert.Empty(t, section)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInvalidCreds))
			assert.Contains(t, err.Error(), "Invalid username or password.")
		})
	}
}

func TestLoginTrimsInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "  alice  ", "hunter2", "buyer"))

	_, _, err := svc.Login(ctx, "alice", " hunter2 ")
	require.NoError(t, err)
}

func TestUnknownRoleLandsOnInfo(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "carol", "pw", "agent"))

	_, section, err := svc.Login(ctx, "carol", "pw")
	require.NoError(t, err)
	assert.Equal(t, SectionInfo, section)
}

func TestLogoutDestroysSession(t *testing.T) {
	store, err := db.OpenBucketStore(t.TempDir())
	require.NoError(t, err)
	smngr := sessions.NewSessionManager(time.Hour, nil)
	svc := NewService(db.NewUsersDB(store), smngr)
	ctx := context.Background()

	require.NoError(t, svc.Signup(ctx, "alice", "pw", "buyer"))
	session, _, err := svc.Login(ctx, "alice", "pw")
	require.NoError(t, err)

	got, err := smngr.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, svc.Logout(ctx, session.SessionID))

	got, err = smngr.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
