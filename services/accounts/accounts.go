package accounts

import (
	"context"
	"strings"

	"estately/apperrors"
	"estately/db"
	"estately/pkg/logger"
	"estately/pkg/metrics"
	"estately/services/sessions"
	"estately/utils"

	"github.com/google/uuid"
)

// Sections the account flow can land the user on
const (
	SectionLogin           = "login"
	SectionInfo            = "info"
	SectionBuyerDashboard  = "buyer-dashboard"
	SectionSellerDashboard = "seller-dashboard"
)

// Service implements signup, login and logout over the users bucket and the
// session store
type Service struct {
	udb   *db.UsersDB
	smngr *sessions.SessionManager
}

func NewService(udb *db.UsersDB, smngr *sessions.SessionManager) *Service {
	return &Service{udb: udb, smngr: smngr}
}

// Signup creates or silently overwrites the account for username. Empty
// username or password (after trimming) is rejected with no state change.
func (as *Service) Signup(ctx context.Context, username, password, role string) error {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if username == "" || password == "" {
		return apperrors.NewValidationError("Please enter all details.").
			WithOperation("signup")
	}

	role = db.NormalizeRole(role)

	hash, appErr := utils.HashPassword(password)
	if appErr != nil {
		return appErr.WithOperation("signup")
	}

	if err := as.udb.Upsert(username, db.UserRecord{PasswordHash: hash, Role: role}); err != nil {
		return apperrors.NewStoreError("signup", db.UsersBucket, err)
	}

	metrics.SignupsTotal.Inc()
	logger.WithFields(map[string]any{
		"username": username,
		"role":     role,
	}).Info("Account created")
	return nil
}

// Login validates credentials and establishes a session. It returns the
// session and the section the caller should land on. A failed login never
// touches the session store.
func (as *Service) Login(ctx context.Context, username, password string) (*sessions.Session, string, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	rec, ok := as.udb.Find(username)
	if !ok || !utils.CheckPassword(rec.PasswordHash, password) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, "", apperrors.NewInvalidCredentials().
			WithOperation("login").
			WithContext("username", username)
	}

	session := sessions.NewSession(uuid.NewString(), username, rec.Role)
	if err := as.smngr.SaveSession(ctx, session); err != nil {
		return nil, "", apperrors.NewSessionError("login", session.SessionID, err)
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	logger.WithFields(map[string]any{
		"username": username,
		"role":     rec.Role,
	}).Info("User logged in")

	return session, LandingSection(rec.Role), nil
}

// Logout destroys the session
func (as *Service) Logout(ctx context.Context, sessionID string) error {
	return as.smngr.DeleteSession(ctx, sessionID)
}

// LandingSection maps a role to the section shown after login
func LandingSection(role string) string {
	switch role {
	case db.RoleBuyer:
		return SectionBuyerDashboard
	case db.RoleSeller:
		return SectionSellerDashboard
	default:
		return SectionInfo
	}
}
