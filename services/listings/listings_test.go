package listings

import (
	"testing"

	"estately/apperrors"
	"estately/db"
	"estately/services/collections"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDialogs struct {
	confirm     bool
	replacement string
	ok          bool
}

func (d stubDialogs) Confirm(message string) bool { return d.confirm }

func (d stubDialogs) PromptReplacement(current string) (string, bool) {
	return d.replacement, d.ok
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := db.OpenBucketStore(t.TempDir())
	require.NoError(t, err)
	return NewService(collections.NewListings(store))
}

func validInput() PropertyInput {
	return PropertyInput{
		Title:       "Flat A",
		Description: "desc",
		Price:       "100000",
		Type:        "House",
		Location:    "Pune",
	}
}

func TestAddPropertyComposesTitleAndLocation(t *testing.T) {
	svc := newTestService(t)

	msg, err := svc.AddProperty("alice", validInput())
	require.NoError(t, err)
	assert.Equal(t, MsgPropertyAdded, msg)
	assert.Equal(t, []string{"Flat A in Pune"}, svc.ListFor("alice"))
}

func TestAddPropertyRequiresEveryField(t *testing.T) {
	svc := newTestService(t)

	blank := func(mutate func(*PropertyInput)) PropertyInput {
		input := validInput()
		mutate(&input)
		return input
	}

	cases := []struct {
		name  string
		input PropertyInput
	}{
		{"missing title", blank(func(p *PropertyInput) { p.Title = "" })},
		{"missing description", blank(func(p *PropertyInput) { p.Description = "  " })},
		{"missing price", blank(func(p *PropertyInput) { p.Price = "" })},
		{"missing type", blank(func(p *PropertyInput) { p.Type = "" })},
		{"missing location", blank(func(p *PropertyInput) { p.Location = "" })},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AddProperty("alice", tc.input)
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))
			assert.Contains(t, err.Error(), MsgFillAllDetails)
			assert.Equal(t, []string{collections.SeedListing}, svc.ListFor("alice"))
		})
	}
}

func TestAddPropertyRequiresLogin(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddProperty("", validInput())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnauthorized))
	assert.Contains(t, err.Error(), "Please login as seller to add properties.")
}

func TestAddPropertyRejectsDuplicate(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddProperty("alice", validInput())
	require.NoError(t, err)

	_, err = svc.AddProperty("alice", validInput())
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeAlreadyPresent))
	assert.Equal(t, []string{"Flat A in Pune"}, svc.ListFor("alice"))
}

func TestUpdateListing(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddProperty("alice", validInput())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateListing("alice", 0, "Flat B in Mumbai"))
	assert.Equal(t, []string{"Flat B in Mumbai"}, svc.ListFor("alice"))
}

func TestUpdateListingViaPrompt(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddProperty("alice", validInput())
	require.NoError(t, err)

	dialogs := stubDialogs{replacement: "Villa in Goa", ok: true}
	require.NoError(t, svc.UpdateListingViaPrompt("alice", 0, dialogs))
	assert.Equal(t, []string{"Villa in Goa"}, svc.ListFor("alice"))
}

func TestUpdateListingViaPromptCancelled(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddProperty("alice", validInput())
	require.NoError(t, err)

	err = svc.UpdateListingViaPrompt("alice", 0, stubDialogs{ok: false})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeCancelled))
	assert.Equal(t, []string{"Flat A in Pune"}, svc.ListFor("alice"))
}

func TestDeleteListing(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddProperty("alice", validInput())
	require.NoError(t, err)

	msg, err := svc.DeleteListing("alice", 0, stubDialogs{confirm: true})
	require.NoError(t, err)
	assert.Equal(t, MsgListingDeleted, msg)
	assert.Empty(t, svc.ListFor("alice"))
}

func TestDeleteListingWithoutConfirmation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddProperty("alice", validInput())
	require.NoError(t, err)

	_, err = svc.DeleteListing("alice", 0, stubDialogs{confirm: false})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeCancelled))
	assert.Equal(t, []string{"Flat A in Pune"}, svc.ListFor("alice"))
}

func TestDeleteSeedListing(t *testing.T) {
	svc := newTestService(t)

	assert.Equal(t, []string{collections.SeedListing}, svc.ListFor("alice"))

	_, err := svc.DeleteListing("alice", 0, stubDialogs{confirm: true})
	require.NoError(t, err)
	assert.Empty(t, svc.ListFor("alice"))
}

func TestOutOfRangeIndex(t *testing.T) {
	svc := newTestService(t)

	err := svc.UpdateListing("alice", 5, "anything")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeIndexOutOfRange))
}
