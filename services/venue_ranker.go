package services

import (
	"math"
	"sort"

	"meetspot_server/models"
)

// Fairness weighting: how lopsided the travel split is matters more than the
// combined distance.
const (
	fairnessWeight      = 0.7
	totalDistanceWeight = 0.3
)

// FairnessScore scores a venue for two users; lower is better. Fairness is
// the absolute difference of the two distances, total is their sum.
func FairnessScore(v models.VenueWithDistance) float64 {
	fairness := math.Abs(v.DistanceFromUser1 - v.DistanceFromUser2)
	total := v.DistanceFromUser1 + v.DistanceFromUser2
	return fairness*fairnessWeight + total*totalDistanceWeight
}

// RankVenuesByFairness orders venues ascending by fairness score. Equal
// scores fall back to venue ID so the same candidate set always produces the
// same order. The input slice is not modified.
func RankVenuesByFairness(venues []models.VenueWithDistance) []models.VenueWithDistance {
	ranked := make([]models.VenueWithDistance, len(venues))
	copy(ranked, venues)

	sort.SliceStable(ranked, func(i, j int) bool {
		scoreI, scoreJ := FairnessScore(ranked[i]), FairnessScore(ranked[j])
		if scoreI == scoreJ {
			return ranked[i].Venue.VenueID < ranked[j].Venue.VenueID
		}
		return scoreI < scoreJ
	})

	return ranked
}
