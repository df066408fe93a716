package sessions

import (
	"container/list"
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"estately/apperrors"
	"estately/pkg/breaker"
	"estately/pkg/logger"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
)

// Session is the ephemeral identity of the authenticated actor. It lives in
// process memory: a fresh process start always yields "logged out".
type Session struct {
	SessionID    string
	Username     string
	Role         string
	LoginTime    int64
	LastActivity int64
}

func NewSession(sessionID, username, role string) *Session {
	now := time.Now().Unix()
	return &Session{
		SessionID:    sessionID,
		Username:     username,
		Role:         role,
		LoginTime:    now,
		LastActivity: now,
	}
}

func (s *Session) Marshal() map[string]any {
	return map[string]any{
		"session_id":    s.SessionID,
		"username":      s.Username,
		"role":          s.Role,
		"login_time":    s.LoginTime,
		"last_activity": s.LastActivity,
	}
}

func (s *Session) Unmarshal(data map[string]string) error {
	s.SessionID = data["session_id"]
	s.Username = data["username"]
	s.Role = data["role"]

	var err error
	s.LoginTime, err = strconv.ParseInt(data["login_time"], 10, 64)
	if err != nil {
		return err
	}

	s.LastActivity, err = strconv.ParseInt(data["last_activity"], 10, 64)
	return err
}

// SessionManager holds live sessions in an LRU-capped local map. When a Redis
// client is supplied, sessions are additionally mirrored write-behind through
// a circuit breaker for operational introspection; the mirror is never
// consulted to answer lookups, so session lifetime stays process-scoped.
type SessionManager struct {
	ttl time.Duration

	rdb *redis.Client // optional mirror, may be nil
	cb  *gobreaker.CircuitBreaker

	cache     map[string]*list.Element
	evictList *list.List
	capacity  int
	cacheMu   sync.Mutex
}

func NewSessionManager(ttl time.Duration, rdb *redis.Client) *SessionManager {
	smngr := &SessionManager{
		ttl:       ttl,
		rdb:       rdb,
		cache:     make(map[string]*list.Element),
		evictList: list.New(),
		capacity:  10000, // max live sessions per node
	}
	if rdb != nil {
		smngr.cb = breaker.New(breaker.Config{
			Name:        "redis-session-mirror",
			MaxRequests: 5,
			Interval:    60 * time.Second,
			Timeout:     30 * time.Second,
			Threshold:   0.5,
			MinRequests: 5,
		})
	}
	return smngr
}

func (smngr *SessionManager) updateCache(session *Session) {
	smngr.cacheMu.Lock()
	defer smngr.cacheMu.Unlock()

	if elem, ok := smngr.cache[session.SessionID]; ok {
		smngr.evictList.MoveToFront(elem)
		elem.Value = session
		return
	}

	if smngr.evictList.Len() >= smngr.capacity {
		oldest := smngr.evictList.Back()
		if oldest != nil {
			smngr.evictList.Remove(oldest)
			s := oldest.Value.(*Session)
			delete(smngr.cache, s.SessionID)
		}
	}

	elem := smngr.evictList.PushFront(session)
	smngr.cache[session.SessionID] = elem
}

func (smngr *SessionManager) expired(session *Session) bool {
	return time.Now().Unix()-session.LastActivity > int64(smngr.ttl.Seconds())
}

// SaveSession stores the session locally and, if a mirror is configured,
// persists it to Redis asynchronously
func (smngr *SessionManager) SaveSession(ctx context.Context, session *Session) error {
	smngr.updateCache(session)

	if smngr.rdb != nil {
		go smngr.mirrorSave(session)
	}

	return nil
}

func (smngr *SessionManager) mirrorSave(session *Session) {
	bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sessionKey := "session:" + session.SessionID

	_, err := breaker.ExecuteCtx(bgCtx, smngr.cb, func() (interface{}, error) {
		pipe := smngr.rdb.Pipeline()
		pipe.HSet(bgCtx, sessionKey, session.Marshal())
		pipe.Expire(bgCtx, sessionKey, smngr.ttl)
		_, err := pipe.Exec(bgCtx)
		return nil, err
	})

	if err != nil {
		logger.WithFields(map[string]any{
			"session_id": session.SessionID,
			"error":      err.Error(),
		}).Error("Async session mirror to Redis failed (session remains local)")
	}
}

// GetSession returns the live session for sessionID, or nil if absent or
// expired. Lookups are local only.
func (smngr *SessionManager) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	smngr.cacheMu.Lock()
	elem, ok := smngr.cache[sessionID]
	if !ok {
		smngr.cacheMu.Unlock()
		return nil, nil
	}
	session := elem.Value.(*Session)
	if smngr.expired(session) {
		smngr.evictList.Remove(elem)
		delete(smngr.cache, sessionID)
		smngr.cacheMu.Unlock()
		return nil, nil
	}
	smngr.evictList.MoveToFront(elem)
	smngr.cacheMu.Unlock()

	return session, nil
}

// RenewSession refreshes the session's activity timestamp
func (smngr *SessionManager) RenewSession(ctx context.Context, sessionID string) error {
	smngr.cacheMu.Lock()
	elem, ok := smngr.cache[sessionID]
	if !ok {
		smngr.cacheMu.Unlock()
		return apperrors.NewSessionError("renew_session", sessionID, errors.New("session not found"))
	}
	session := elem.Value.(*Session)
	session.LastActivity = time.Now().Unix()
	smngr.evictList.MoveToFront(elem)
	smngr.cacheMu.Unlock()

	if smngr.rdb != nil {
		go smngr.mirrorSave(session)
	}

	return nil
}

// DeleteSession removes the session locally and fires a mirror delete
func (smngr *SessionManager) DeleteSession(ctx context.Context, sessionID string) error {
	smngr.cacheMu.Lock()
	if elem, ok := smngr.cache[sessionID]; ok {
		smngr.evictList.Remove(elem)
		delete(smngr.cache, sessionID)
	}
	smngr.cacheMu.Unlock()

	if smngr.rdb != nil {
		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			breaker.ExecuteCtx(bgCtx, smngr.cb, func() (interface{}, error) {
				return nil, smngr.rdb.Del(bgCtx, "session:"+sessionID).Err()
			})
		}()
	}

	return nil
}

// ListActiveSessions returns all live sessions on this node
func (smngr *SessionManager) ListActiveSessions() []*Session {
	smngr.cacheMu.Lock()
	defer smngr.cacheMu.Unlock()

	sessions := make([]*Session, 0, len(smngr.cache))
	for elem := smngr.evictList.Front(); elem != nil; elem = elem.Next() {
		session := elem.Value.(*Session)
		if !smngr.expired(session) {
			sessions = append(sessions, session)
		}
	}
	return sessions
}

// CountActive returns the number of live sessions (gauge feed)
func (smngr *SessionManager) CountActive() int {
	return len(smngr.ListActiveSessions())
}

// GetMetrics returns mirror circuit breaker stats, or an empty map when the
// mirror is disabled
func (smngr *SessionManager) GetMetrics() map[string]interface{} {
	if smngr.cb == nil {
		return map[string]interface{}{"mirror": "disabled"}
	}

	state := smngr.cb.State()
	counts := smngr.cb.Counts()

	return map[string]interface{}{
		"state":                state.String(),
		"total_requests":       counts.Requests,
		"total_successes":      counts.TotalSuccesses,
		"total_failures":       counts.TotalFailures,
		"consecutive_failures": counts.ConsecutiveFailures,
	}
}
