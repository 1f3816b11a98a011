package app

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"concierge/internal/domain"
	"concierge/internal/normalize"
)

/********** category grouping **********/

// OtherCategory holds places that arrive without a category tag.
const OtherCategory = "Other"

// Categories listed here are emitted first, in this order.
var preferredCategories = []string{"Dining", "Activities", "Golf", "Shopping", "Medical"}

// placeNamespace scopes place and venue ids so they stay stable across fetches.
var placeNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("concierge/places"))

func stableID(kind, name, address string) uuid.UUID {
	return uuid.NewSHA1(placeNamespace, []byte(kind+"\x00"+strings.ToLower(name)+"\x00"+strings.ToLower(address)))
}

func categoryKey(tag *string) (key, display string) {
	if tag == nil || strings.TrimSpace(*tag) == "" {
		return strings.ToLower(OtherCategory), OtherCategory
	}
	d := strings.TrimSpace(*tag)
	return strings.ToLower(d), d
}

func mapPlaces(in []domain.PlaceFeed) []domain.Place {
	out := make([]domain.Place, 0, len(in))
	for _, p := range in {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		out = append(out, domain.Place{
			ID:          stableID("place", name, p.Address),
			Name:        name,
			Category:    p.Category,
			Description: p.Description,
			Address:     p.Address,
			ImageURL:    p.ImageURL,
		})
	}
	return out
}

// groupPlaces groups by case-insensitive category tag. Groups keep the order in
// which their tag first appears and are named by that first spelling.
func groupPlaces(places []domain.Place) []domain.Category {
	var groups []domain.Category
	idx := map[string]int{}
	for _, p := range places {
		key, display := categoryKey(p.Category)
		i, ok := idx[key]
		if !ok {
			i = len(groups)
			idx[key] = i
			groups = append(groups, domain.Category{Name: display})
		}
		groups[i].Places = append(groups[i].Places, p)
	}
	return groups
}

// orderCategories puts preferred categories first, then the rest in grouping
// order. Empty groups are dropped.
func orderCategories(groups []domain.Category) []domain.Category {
	out := make([]domain.Category, 0, len(groups))
	used := make([]bool, len(groups))
	for _, want := range preferredCategories {
		for i, g := range groups {
			if used[i] || !strings.EqualFold(g.Name, want) {
				continue
			}
			used[i] = true
			if len(g.Places) > 0 {
				g.Name = want
				out = append(out, g)
			}
			break
		}
	}
	for i, g := range groups {
		if !used[i] && len(g.Places) > 0 {
			out = append(out, g)
		}
	}
	for i := range out {
		out[i].Icon = normalize.CategoryIcon(out[i].Name)
		out[i].CoverImageURL = out[i].Places[0].ImageURL
	}
	return out
}

func buildCategories(places []domain.PlaceFeed) []domain.Category {
	return orderCategories(groupPlaces(mapPlaces(places)))
}

/********** dining **********/

func mapDining(in *domain.DiningFeed) *domain.DiningSection {
	if in == nil {
		return nil
	}
	out := &domain.DiningSection{
		Title:        in.Title,
		Intro:        in.Intro,
		HeroImageURL: in.HeroImageURL,
		Venues:       make([]domain.DiningVenue, 0, len(in.Venues)),
	}
	for _, v := range in.Venues {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			continue
		}
		out.Venues = append(out.Venues, domain.DiningVenue{
			ID:          stableID("venue", name, v.Address),
			Name:        name,
			Cuisine:     v.Cuisine,
			Description: v.Description,
			Address:     v.Address,
			Hours:       v.Hours,
			Phone:       v.Phone,
			Website:     v.Website,
			PriceLevel:  v.PriceLevel,
			ImageURL:    v.ImageURL,
			Reservation: mapReservation(v.Reservation),
			Reviews:     mapReviews(v.Reviews),
		})
	}
	return out
}

func mapReservation(in *domain.ReservationFeed) *domain.Reservation {
	if in == nil {
		return nil
	}
	return &domain.Reservation{Required: in.Required, Phone: in.Phone, URL: in.URL, Notes: in.Notes}
}

func mapReviews(in *domain.ReviewsFeed) *domain.ReviewSummary {
	if in == nil {
		return nil
	}
	out := &domain.ReviewSummary{Source: in.Source, Rating: in.Rating, Count: in.Count}
	for _, r := range in.Reviews {
		if strings.TrimSpace(r.Text) == "" && r.Rating == 0 {
			continue
		}
		out.Reviews = append(out.Reviews, domain.Review{
			Author:       r.Author,
			Rating:       r.Rating,
			Text:         r.Text,
			RelativeTime: r.RelativeTime,
		})
	}
	return out
}

/********** property **********/

func mapProperty(feed domain.PropertyFeed, now time.Time) domain.PropertySnapshot {
	name := strings.TrimSpace(feed.GuestName)
	if name == "" {
		name = domain.DefaultGuestName
	}
	return domain.PropertySnapshot{
		Guest: domain.GuestProfile{
			Name:         name,
			HeroImageURL: feed.HeroImageURL,
			WiFi:         domain.WiFiCredentials{SSID: feed.WiFiSSID, Password: feed.WiFiPassword},
		},
		Categories: buildCategories(feed.Places),
		Dining:     mapDining(feed.Dining),
		SettleIn:   SettleInCards(),
		FetchedAt:  now,
	}
}
