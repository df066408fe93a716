package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *SessionManager {
	return NewSessionManager(time.Hour, nil)
}

func TestSaveAndGetSession(t *testing.T) {
	smngr := newTestManager()
	ctx := context.Background()

	session := NewSession(uuid.NewString(), "alice", "buyer")
	require.NoError(t, smngr.SaveSession(ctx, session))

	got, err := smngr.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "buyer", got.Role)
}

func TestGetUnknownSessionReturnsNil(t *testing.T) {
	smngr := newTestManager()

	got, err := smngr.GetSession(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteSession(t *testing.T) {
	smngr := newTestManager()
	ctx := context.Background()

	session := NewSession(uuid.NewString(), "bob", "seller")
	require.NoError(t, smngr.SaveSession(ctx, session))
	require.NoError(t, smngr.DeleteSession(ctx, session.SessionID))

	got, err := smngr.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestExpiredSessionIsDropped(t *testing.T) {
	smngr := NewSessionManager(time.Second, nil)
	ctx := context.Background()

	session := NewSession(uuid.NewString(), "carol", "buyer")
	session.LastActivity = time.Now().Add(-time.Minute).Unix()
	require.NoError(t, smngr.SaveSession(ctx, session))

	got, err := smngr.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, smngr.CountActive())
}

func TestRenewSessionRefreshesActivity(t *testing.T) {
	smngr := newTestManager()
	ctx := context.Background()

	session := NewSession(uuid.NewString(), "dave", "buyer")
	session.LastActivity = time.Now().Add(-30 * time.Minute).Unix()
	require.NoError(t, smngr.SaveSession(ctx, session))

	require.NoError(t, smngr.RenewSession(ctx, session.SessionID))

	got, err := smngr.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, time.Now().Unix(), got.LastActivity, 5)
}

func TestRenewUnknownSessionFails(t *testing.T) {
	smngr := newTestManager()
	assert.Error(t, smngr.RenewSession(context.Background(), "nope"))
}

func TestCountActive(t *testing.T) {
	smngr := newTestManager()
	ctx := context.Background()

	for _, name := range []string{"u1", "u2", "u3"} {
		require.NoError(t, smngr.SaveSession(ctx, NewSession(uuid.NewString(), name, "buyer")))
	}
	assert.Equal(t, 3, smngr.CountActive())
}

func TestSessionMarshalRoundTrip(t *testing.T) {
	session := NewSession("sid-1234", "erin", "seller")

	raw := session.Marshal()
	data := map[string]string{
		"session_id":    raw["session_id"].(string),
		"username":      raw["username"].(string),
		"role":          raw["role"].(string),
		"login_time":    "1700000000",
		"last_activity": "1700000100",
	}

	var decoded Session
	require.NoError(t, decoded.Unmarshal(data))
	assert.Equal(t, "erin", decoded.Username)
	assert.Equal(t, "seller", decoded.Role)
	assert.Equal(t, int64(1700000100), decoded.LastActivity)
}
