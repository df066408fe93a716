package listings

import (
	"strings"

	"estately/apperrors"
	"estately/pkg/logger"
	"estately/pkg/metrics"
	"estately/services/collections"
)

// Messages shown on the seller dashboard
const (
	MsgFillAllDetails   = "Please fill all property details."
	MsgPropertyAdded    = "Property added successfully!"
	MsgListingDeleted   = "Listing deleted."
	PromptUpdateListing = "Update property title and location:"
)

// PropertyInput carries the seller form fields. Image is accepted and
// validated upstream but never stored or displayed.
type PropertyInput struct {
	Title       string
	Description string
	Price       string
	Type        string
	Location    string
}

// Service implements the seller side of the app on top of the listings
// collection
type Service struct {
	listings *collections.Service
}

func NewService(listings *collections.Service) *Service {
	return &Service{listings: listings}
}

// ListFor returns the seller's current listings
func (ls *Service) ListFor(username string) []string {
	return ls.listings.ListFor(username)
}

// AddProperty appends "{title} in {location}" to the seller's listings.
// Every field must be non-empty after trimming and only the composed string
// is persisted; description, price and type exist for the form alone.
func (ls *Service) AddProperty(username string, input PropertyInput) (string, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	price := strings.TrimSpace(input.Price)
	ptype := strings.TrimSpace(input.Type)
	location := strings.TrimSpace(input.Location)

	if title == "" || description == "" || price == "" || ptype == "" || location == "" {
		return "", apperrors.NewValidationError(MsgFillAllDetails).
			WithOperation("add_property")
	}

	if err := ls.listings.Add(username, title+" in "+location); err != nil {
		return "", err
	}

	metrics.ListingsAdded.Inc()
	logger.WithFields(map[string]any{
		"username": username,
		"listing":  title + " in " + location,
	}).Info("Property listed")
	return MsgPropertyAdded, nil
}

// UpdateListing replaces the row at index with newItem
func (ls *Service) UpdateListing(username string, index int, newItem string) error {
	if err := ls.listings.Update(username, index, newItem); err != nil {
		return err
	}
	metrics.ListingsUpdated.Inc()
	return nil
}

// UpdateListingViaPrompt asks the dialogs capability for the replacement text
func (ls *Service) UpdateListingViaPrompt(username string, index int, dialogs collections.Dialogs) error {
	if err := ls.listings.UpdateViaPrompt(username, index, dialogs); err != nil {
		return err
	}
	metrics.ListingsUpdated.Inc()
	return nil
}

// DeleteListing removes the row at index after the dialogs capability
// confirms the deletion
func (ls *Service) DeleteListing(username string, index int, dialogs collections.Dialogs) (string, error) {
	if err := ls.listings.Delete(username, index, dialogs); err != nil {
		return "", err
	}
	metrics.ListingsDeleted.Inc()
	return MsgListingDeleted, nil
}
