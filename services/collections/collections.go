package collections

import (
	"strings"
	"sync"

	"estately/apperrors"
	"estately/db"
	"estately/pkg/logger"
)

// Dialogs are the blocking confirm/prompt interactions a browser supplies.
// The manager only calls them; the HTTP layer implements them from
// submitted form state.
type Dialogs interface {
	// Confirm asks the user to approve a destructive action
	Confirm(message string) bool

	// PromptReplacement asks the user for replacement text, offering the
	// current value. The second return is false when the user cancelled.
	PromptReplacement(current string) (string, bool)
}

// Service manages one per-user ordered string collection bucket. The same
// implementation backs favorites and seller listings; they differ only in
// bucket name, seed and user-facing messages.
type Service struct {
	store  *db.BucketStore
	bucket string

	// seed is returned for usernames with no stored entry. It is a display
	// default and is never written back by a read.
	seed []string

	loginMessage   string
	dupMessage     string
	confirmMessage string

	mu sync.Mutex
}

// SeedListing is what sellers with no stored listings see
const SeedListing = "2BHK Apartment in Hyderabad"

// NewFavorites creates the favorites collection manager
func NewFavorites(store *db.BucketStore) *Service {
	return &Service{
		store:          store,
		bucket:         db.FavoritesBucket,
		loginMessage:   "Please login to save favorites.",
		dupMessage:     "This property is already in your favorites.",
		confirmMessage: "Are you sure you want to remove this favorite?",
	}
}

// NewListings creates the seller-listings collection manager
func NewListings(store *db.BucketStore) *Service {
	return &Service{
		store:          store,
		bucket:         db.ListingsBucket,
		seed:           []string{SeedListing},
		loginMessage:   "Please login as seller to add properties.",
		dupMessage:     "This property is already listed.",
		confirmMessage: "Are you sure you want to delete this listing?",
	}
}

// Bucket returns the bucket name this service manages
func (s *Service) Bucket() string {
	return s.bucket
}

func (s *Service) load() map[string][]string {
	table := map[string][]string{}
	s.store.Load(s.bucket, &table)
	return table
}

// effective returns the list the user currently sees: the stored list when
// the username has an entry (even an empty one), the seed otherwise.
func (s *Service) effective(table map[string][]string, username string) []string {
	if stored, ok := table[username]; ok {
		return stored
	}
	return append([]string(nil), s.seed...)
}

// ListFor returns the user's effective list. Reads never create a stored
// entry for an absent username.
func (s *Service) ListFor(username string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.effective(s.load(), username)...)
}

// Add appends item to the user's stored list and persists the whole bucket.
// Duplicates (exact string match) are rejected without a state change.
func (s *Service) Add(username, item string) error {
	if strings.TrimSpace(username) == "" {
		return apperrors.NewUnauthorized(s.loginMessage)
	}
	item = strings.TrimSpace(item)
	if item == "" {
		return apperrors.NewValidationError("Nothing to add").
			WithOperation("collection_add").
			WithDetails("bucket", s.bucket)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.load()
	for _, existing := range table[username] {
		if existing == item {
			return apperrors.NewAlreadyPresent(s.dupMessage).
				WithOperation("collection_add").
				WithDetails("bucket", s.bucket)
		}
	}

	table[username] = append(table[username], item)
	if err := s.store.Save(s.bucket, table); err != nil {
		return apperrors.NewStoreError("collection_add", s.bucket, err)
	}

	logger.WithFields(map[string]any{
		"bucket":   s.bucket,
		"username": username,
	}).Debug("Collection entry added")
	return nil
}

// Update replaces the element at index in the user's effective list. The
// seed row counts: editing it persists the edited list, matching the
// original behavior.
func (s *Service) Update(username string, index int, newItem string) error {
	if strings.TrimSpace(username) == "" {
		return apperrors.NewUnauthorized(s.loginMessage)
	}
	newItem = strings.TrimSpace(newItem)
	if newItem == "" {
		return apperrors.NewValidationError("Replacement text is required").
			WithOperation("collection_update").
			WithDetails("bucket", s.bucket)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.load()
	current := s.effective(table, username)
	if index < 0 || index >= len(current) {
		return apperrors.NewIndexOutOfRange(index, len(current)).
			WithOperation("collection_update").
			WithDetails("bucket", s.bucket)
	}

	next := append([]string(nil), current...)
	next[index] = newItem
	table[username] = next
	if err := s.store.Save(s.bucket, table); err != nil {
		return apperrors.NewStoreError("collection_update", s.bucket, err)
	}
	return nil
}

// UpdateViaPrompt obtains the replacement through the injected prompt
// capability. A cancelled or blank prompt is a no-op.
func (s *Service) UpdateViaPrompt(username string, index int, dialogs Dialogs) error {
	current := s.ListFor(username)
	if index < 0 || index >= len(current) {
		return apperrors.NewIndexOutOfRange(index, len(current)).
			WithOperation("collection_update").
			WithDetails("bucket", s.bucket)
	}

	replacement, ok := dialogs.PromptReplacement(current[index])
	if !ok || strings.TrimSpace(replacement) == "" {
		return apperrors.NewCancelled("collection_update")
	}

	return s.Update(username, index, replacement)
}

// Delete removes the element at index after the confirm capability approves.
// Relative order of the remaining elements is preserved.
func (s *Service) Delete(username string, index int, dialogs Dialogs) error {
	if strings.TrimSpace(username) == "" {
		return apperrors.NewUnauthorized(s.loginMessage)
	}
	if !dialogs.Confirm(s.confirmMessage) {
		return apperrors.NewCancelled("collection_delete")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	table := s.load()
	current := s.effective(table, username)
	if index < 0 || index >= len(current) {
		return apperrors.NewIndexOutOfRange(index, len(current)).
			WithOperation("collection_delete").
			WithDetails("bucket", s.bucket)
	}

	next := make([]string, 0, len(current)-1)
	next = append(next, current[:index]...)
	next = append(next, current[index+1:]...)
	table[username] = next
	if err := s.store.Save(s.bucket, table); err != nil {
		return apperrors.NewStoreError("collection_delete", s.bucket, err)
	}
	return nil
}
