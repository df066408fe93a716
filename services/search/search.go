package search

import (
	"fmt"
	"strings"

	"estately/apperrors"
	"estately/pkg/logger"
	"estately/pkg/metrics"
	"estately/services/collections"
)

// Messages shown in the search results panel
const (
	MsgPlotAutoAdded = "Plot property added to favorites automatically."
	MsgEnterCriteria = "Please enter search criteria."
	MsgFavoriteSaved = "Property saved to favorites."
)

// There is no real inventory behind the search. Results are the echo line
// plus these two fixed rows.
var cannedResults = []string{
	"3BHK House in Mumbai - ₹50,00,000",
	"2BHK Apartment in Hyderabad - ₹35,00,000",
}

// Service implements the buyer-side dummy search and the save-favorite
// shortcut next to it
type Service struct {
	favorites *collections.Service
}

func NewService(favorites *collections.Service) *Service {
	return &Service{favorites: favorites}
}

// Search returns the text for the results panel. Selecting the Plot type
// skips the search entirely and files a favorite instead; that shortcut is
// kept for compatibility with documents written by earlier versions.
func (ss *Service) Search(username, location, maxPrice, propertyType string) (string, error) {
	location = strings.TrimSpace(location)
	maxPrice = strings.TrimSpace(maxPrice)

	if propertyType == "Plot" {
		name := "Plot in " + orDefault(location, "specified location")
		if err := ss.favorites.Add(username, name); err != nil {
			// A duplicate still counts as auto-added
			if !apperrors.HasCode(err, apperrors.ErrCodeAlreadyPresent) {
				metrics.SearchesTotal.WithLabelValues("rejected").Inc()
				return "", err
			}
		} else {
			metrics.FavoritesAdded.Inc()
		}
		metrics.SearchesTotal.WithLabelValues("plot_auto_favorite").Inc()
		logger.WithFields(map[string]any{
			"username": username,
			"favorite": name,
		}).Info("Plot search auto-added favorite")
		return MsgPlotAutoAdded, nil
	}

	if location == "" && maxPrice == "" && propertyType == "" {
		metrics.SearchesTotal.WithLabelValues("empty").Inc()
		return MsgEnterCriteria, nil
	}

	results := []string{
		fmt.Sprintf("%s property in %s under ₹%s",
			orDefault(propertyType, "Any"),
			orDefault(location, "any location"),
			orDefault(maxPrice, "any price")),
	}
	results = append(results, cannedResults...)

	metrics.SearchesTotal.WithLabelValues("results").Inc()
	return strings.Join(results, "\n"), nil
}

// SaveFavorite files "{type} in {location}" under the user's favorites,
// falling back to placeholder words for blank inputs
func (ss *Service) SaveFavorite(username, location, propertyType string) (string, error) {
	location = strings.TrimSpace(location)

	name := orDefault(propertyType, "Sample Property") + " in " + orDefault(location, "specified location")
	if err := ss.favorites.Add(username, name); err != nil {
		return "", err
	}

	metrics.FavoritesAdded.Inc()
	return MsgFavoriteSaved, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
