// Package scoring derives display scores and quality tiers for catalog
// entries. All functions are pure; the store is never touched.
package scoring

import (
	"math"

	"github.com/ryansh/mediarater/internal/database"
)

// Tier is the discrete display category for a score
type Tier string

const (
	TierLegendary Tier = "legendary"
	TierAwesome   Tier = "awesome"
	TierGreat     Tier = "great"
	TierGood      Tier = "good"
	TierOkay      Tier = "okay"
	TierBad       Tier = "bad"
	TierGarbage   Tier = "garbage"
)

// Context selects which legendary threshold applies; album detail pages use
// a stricter cutoff than the listing
type Context string

const (
	ContextGeneral Context = "general"
	ContextDetail  Context = "detail"
)

// Kind identifies what a score belongs to when picking thresholds
type Kind string

const (
	KindMovie      Kind = "movie"
	KindSingle     Kind = "single"
	KindAlbum      Kind = "album"
	KindTVShow     Kind = "tv_show"
	KindAlbumTrack Kind = "album_track"
)

// KindOf maps a media type to its scoring kind
func KindOf(t database.MediaType) Kind {
	return Kind(t)
}

// OverallScore is the single source of truth for the headline score: the
// admin-entered official rating if present, otherwise 0.0. Child ratings are
// never auto-promoted.
func OverallScore(m *database.Media) float64 {
	if m.OfficialRating != nil {
		return *m.OfficialRating
	}
	return 0.0
}

// CalculatedAverage returns the mean of the child ratings, rounded to one
// decimal place: episode ratings across all seasons for a TV show, track
// ratings for an album. The second return value is false when the media type
// has no child ratings or none are set, distinguishing "no data" from a
// score of 0.
func CalculatedAverage(m *database.Media) (float64, bool) {
	var sum float64
	var n int

	switch m.MediaType {
	case database.MediaTypeTVShow:
		for _, season := range m.Seasons {
			for _, ep := range season.Episodes {
				if ep.Rating != nil {
					sum += *ep.Rating
					n++
				}
			}
		}
	case database.MediaTypeAlbum:
		for _, track := range m.Tracks {
			if track.Rating != nil {
				sum += *track.Rating
				n++
			}
		}
	default:
		return 0, false
	}

	if n == 0 {
		return 0, false
	}
	return math.Round(sum/float64(n)*10) / 10, true
}

// RatingTier maps a score to its display tier. The per-kind legendary check
// runs first and short-circuits the fixed ladder below it. A nil score is
// garbage.
func RatingTier(score *float64, kind Kind, ctx Context) Tier {
	if score == nil {
		return TierGarbage
	}
	s := *score

	if s >= legendaryThreshold(kind, ctx) {
		return TierLegendary
	}

	switch {
	case s >= 9.0:
		return TierAwesome
	case s >= 8.0:
		return TierGreat
	case s >= 7.0:
		return TierGood
	case s >= 6.0:
		return TierOkay
	case s >= 5.0:
		return TierBad
	default:
		return TierGarbage
	}
}

func legendaryThreshold(kind Kind, ctx Context) float64 {
	switch kind {
	case KindAlbum:
		if ctx == ContextDetail {
			return 8.75
		}
		return 8.5
	case KindSingle, KindAlbumTrack:
		return 9.5
	default:
		// movie, tv_show
		return 9.0
	}
}
