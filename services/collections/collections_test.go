package collections

import (
	"testing"

	"estately/apperrors"
	"estately/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDialogs is a canned confirm/prompt capability for tests
type stubDialogs struct {
	confirm     bool
	replacement string
	cancelled   bool
}

func (d stubDialogs) Confirm(string) bool {
	return d.confirm
}

func (d stubDialogs) PromptReplacement(string) (string, bool) {
	return d.replacement, !d.cancelled
}

func newTestStore(t *testing.T) *db.BucketStore {
	t.Helper()
	store, err := db.OpenBucketStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestFavoritesListForAbsentUserIsEmpty(t *testing.T) {
	favorites := NewFavorites(newTestStore(t))
	assert.Empty(t, favorites.ListFor("nobody"))
}

func TestListingsListForAbsentUserReturnsSeed(t *testing.T) {
	listings := NewListings(newTestStore(t))
	assert.Equal(t, []string{SeedListing}, listings.ListFor("nobody"))
}

func TestSeedIsNeverPersistedByRead(t *testing.T) {
	store := newTestStore(t)
	listings := NewListings(store)

	listings.ListFor("alice")

	table := map[string][]string{}
	store.Load(db.ListingsBucket, &table)
	assert.NotContains(t, table, "alice")
}

func TestAddAppendsAndPersists(t *testing.T) {
	favorites := NewFavorites(newTestStore(t))

	require.NoError(t, favorites.Add("alice", "Plot in Pune"))
	require.NoError(t, favorites.Add("alice", "House in Mumbai"))

	assert.Equal(t, []string{"Plot in Pune", "House in Mumbai"}, favorites.ListFor("alice"))
}

func TestAddIsIdempotentUnderDuplicates(t *testing.T) {
	favorites := NewFavorites(newTestStore(t))

	require.NoError(t, favorites.Add("alice", "Plot in Pune"))

	err := favorites.Add("alice", "Plot in Pune")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeAlreadyPresent))
	assert.Equal(t, []string{"Plot in Pune"}, favorites.ListFor("alice"))
}

func TestAddWithEmptyUsernameIsRejected(t *testing.T) {
	favorites := NewFavorites(newTestStore(t))

	err := favorites.Add("", "Plot in Pune")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnauthorized))
	assert.Empty(t, favorites.ListFor(""))
}

func TestAddDoesNotDedupAcrossUsers(t *testing.T) {
	favorites := NewFavorites(newTestStore(t))

	require.NoError(t, favorites.Add("alice", "Plot in Pune"))
	require.NoError(t, favorites.Add("bob", "Plot in Pune"))

	assert.Equal(t, []string{"Plot in Pune"}, favorites.ListFor("bob"))
}

func TestAddStartsFromStoredListNotSeed(t *testing.T) {
	listings := NewListings(newTestStore(t))

	require.NoError(t, listings.Add("alice", "Flat A in Pune"))

	// The seed is display-only; the first real listing replaces it
	assert.Equal(t, []string{"Flat A in Pune"}, listings.ListFor("alice"))
}

func TestUpdateReplacesElement(t *testing.T) {
	listings := NewListings(newTestStore(t))

	require.NoError(t, listings.Add("alice", "Flat A in Pune"))
	require.NoError(t, listings.Add("alice", "Villa B in Goa"))
	require.NoError(t, listings.Update("alice", 1, "Villa B in Kochi"))

	assert.Equal(t, []string{"Flat A in Pune", "Villa B in Kochi"}, listings.ListFor("alice"))
}

func TestUpdateSeedRowPersistsEditedList(t *testing.T) {
	store := newTestStore(t)
	listings := NewListings(store)

	require.NoError(t, listings.Update("alice", 0, "3BHK Flat in Chennai"))

	assert.Equal(t, []string{"3BHK Flat in Chennai"}, listings.ListFor("alice"))

	table := map[string][]string{}
	store.Load(db.ListingsBucket, &table)
	assert.Contains(t, table, "alice")
}

func TestUpdateOutOfRange(t *testing.T) {
	listings := NewListings(newTestStore(t))
	require.NoError(t, listings.Add("alice", "Flat A in Pune"))

	err := listings.Update("alice", 5, "whatever")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeIndexOutOfRange))
	assert.Equal(t, []string{"Flat A in Pune"}, listings.ListFor("alice"))
}

func TestUpdateViaPrompt(t *testing.T) {
	listings := NewListings(newTestStore(t))
	require.NoError(t, listings.Add("alice", "Flat A in Pune"))

	err := listings.UpdateViaPrompt("alice", 0, stubDialogs{replacement: "Flat A in Nashik"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Flat A in Nashik"}, listings.ListFor("alice"))
}

func TestUpdateViaPromptCancelledIsNoOp(t *testing.T) {
	listings := NewListings(newTestStore(t))
	require.NoError(t, listings.Add("alice", "Flat A in Pune"))

	err := listings.UpdateViaPrompt("alice", 0, stubDialogs{cancelled: true})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeCancelled))
	assert.Equal(t, []string{"Flat A in Pune"}, listings.ListFor("alice"))
}

func TestDeleteRemovesElementPreservingOrder(t *testing.T) {
	listings := NewListings(newTestStore(t))
	for _, item := range []string{"A", "B", "C", "D"} {
		require.NoError(t, listings.Add("alice", item))
	}

	require.NoError(t, listings.Delete("alice", 1, stubDialogs{confirm: true}))

	assert.Equal(t, []string{"A", "C", "D"}, listings.ListFor("alice"))
}

func TestDeleteWithoutConfirmationIsNoOp(t *testing.T) {
	listings := NewListings(newTestStore(t))
	require.NoError(t, listings.Add("alice", "Flat A in Pune"))

	err := listings.Delete("alice", 0, stubDialogs{confirm: false})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeCancelled))
	assert.Equal(t, []string{"Flat A in Pune"}, listings.ListFor("alice"))
}

func TestDeleteLastStoredEntryLeavesEmptyListNotSeed(t *testing.T) {
	listings := NewListings(newTestStore(t))
	require.NoError(t, listings.Add("alice", "Flat A in Pune"))
	require.NoError(t, listings.Delete("alice", 0, stubDialogs{confirm: true}))

	// A present-but-empty entry is not re-seeded
	assert.Empty(t, listings.ListFor("alice"))
}
