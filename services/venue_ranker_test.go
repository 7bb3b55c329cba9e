package services

import (
	"reflect"
	"testing"

	"meetspot_server/models"
)

func venueWithDistances(id string, d1, d2 float64) models.VenueWithDistance {
	return models.VenueWithDistance{
		Venue:             models.Venue{VenueID: id, Name: id, Type: models.VenueTypeCafe},
		DistanceFromUser1: d1,
		DistanceFromUser2: d2,
		TravelTimeUser1:   TravelTimeMinutes(d1),
		TravelTimeUser2:   TravelTimeMinutes(d2),
	}
}

// TestRankVenuesByFairness checks the weighted fairness ordering: a venue
// with equal distances beats one that is closer overall but lopsided.
func TestRankVenuesByFairness(t *testing.T) {
	venues := []models.VenueWithDistance{
		venueWithDistances("balanced", 1, 1),
		venueWithDistances("lopsided", 0.5, 4),
		venueWithDistances("middling", 2, 2.5),
	}

	ranked := RankVenuesByFairness(venues)

	want := []string{"balanced", "middling", "lopsided"}
	for i, id := range want {
		if ranked[i].Venue.VenueID != id {
			t.Fatalf("rank %d: expected %s, got %s", i, id, ranked[i].Venue.VenueID)
		}
	}
}

// TestRankVenuesDeterministic ensures repeated ranking of the same candidate
// set yields the identical order.
func TestRankVenuesDeterministic(t *testing.T) {
	venues := []models.VenueWithDistance{
		venueWithDistances("v3", 1.2, 3.1),
		venueWithDistances("v1", 2.0, 2.0),
		venueWithDistances("v2", 0.5, 0.9),
		venueWithDistances("v4", 4.0, 1.0),
	}

	first := RankVenuesByFairness(venues)
	for i := 0; i < 10; i++ {
		again := RankVenuesByFairness(venues)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("ranking not deterministic: %+v vs %+v", first, again)
		}
	}
}

// TestRankVenuesTieBreak ensures equal scores order by venue id ascending.
func TestRankVenuesTieBreak(t *testing.T) {
	venues := []models.VenueWithDistance{
		venueWithDistances("zeta", 1, 2),
		venueWithDistances("alpha", 1, 2),
		venueWithDistances("mike", 2, 1),
	}

	ranked := RankVenuesByFairness(venues)

	want := []string{"alpha", "mike", "zeta"}
	for i, id := range want {
		if ranked[i].Venue.VenueID != id {
			t.Fatalf("rank %d: expected %s, got %s", i, id, ranked[i].Venue.VenueID)
		}
	}
}

// TestRankVenuesDoesNotMutateInput ensures the caller's slice stays intact.
func TestRankVenuesDoesNotMutateInput(t *testing.T) {
	venues := []models.VenueWithDistance{
		venueWithDistances("b", 3, 3),
		venueWithDistances("a", 1, 1),
	}

	RankVenuesByFairness(venues)

	if venues[0].Venue.VenueID != "b" || venues[1].Venue.VenueID != "a" {
		t.Fatalf("input slice was reordered: %+v", venues)
	}
}
