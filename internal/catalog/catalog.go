// Package catalog builds the filtered, sorted projections behind the public
// listing pages. It is read-only over the store; malformed query values
// degrade to defaults instead of failing the request.
package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/ryansh/mediarater/internal/database"
	"github.com/ryansh/mediarater/internal/logger"
	"github.com/ryansh/mediarater/internal/scoring"
)

// FilterSongs flattens singles and album tracks into one playable-unit list
const FilterSongs = "songs"

// FilterAll includes every media type
const FilterAll = "all"

// Sort keys accepted by List; anything else falls back to SortTitleAsc
const (
	SortTitleAsc  = "title_asc"
	SortScoreDesc = "score_desc"
	SortScoreAsc  = "score_asc"
	SortYearDesc  = "year_desc"
	SortYearAsc   = "year_asc"
)

// UnitType distinguishes playable units in songs mode
type UnitType string

const (
	UnitSingle     UnitType = "single"
	UnitAlbumTrack UnitType = "album_track"
)

// Entry is one row of a listing: a media item, or a single playable unit in
// songs mode
type Entry struct {
	MediaID   uint               `json:"media_id"`
	Title     string             `json:"title"`
	Creator   string             `json:"creator,omitempty"`
	Years     string             `json:"years,omitempty"`
	Poster    string             `json:"poster,omitempty"`
	MediaType database.MediaType `json:"media_type"`
	UnitType  UnitType           `json:"unit_type,omitempty"`
	Score     float64            `json:"score"`
	HasScore  bool               `json:"has_score"`
	Tier      scoring.Tier       `json:"tier"`
}

// Service answers listing queries
type Service struct {
	store *database.Store
	log   hclog.Logger
}

// NewService creates a catalog service over the store
func NewService(store *database.Store) *Service {
	return &Service{
		store: store,
		log:   logger.Named("catalog"),
	}
}

// List returns the ordered entries for a listing request. filterType is a
// media type, "all", or "songs"; tagID is a tag id or "all"; sortKey is one
// of the Sort constants. Invalid values degrade to the unfiltered default.
func (s *Service) List(filterType, tagID, sortKey string) ([]Entry, error) {
	filter := database.MediaFilter{}

	songsMode := filterType == FilterSongs
	if !songsMode {
		if t := database.MediaType(filterType); t.Valid() {
			filter.Type = &t
		}
	}

	// Non-numeric tag ids mean no tag filter, deliberately not an error
	if id, err := strconv.ParseUint(tagID, 10, 32); err == nil {
		tid := uint(id)
		filter.TagID = &tid
	}

	media, err := s.store.ListMedia(filter)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if songsMode {
		entries = flattenSongs(media)
	} else {
		entries = make([]Entry, 0, len(media))
		for i := range media {
			entries = append(entries, mediaEntry(&media[i]))
		}
	}

	sortEntries(entries, sortKey)
	return entries, nil
}

func mediaEntry(m *database.Media) Entry {
	score := scoring.OverallScore(m)
	return Entry{
		MediaID:   m.ID,
		Title:     m.Title,
		Creator:   m.Creator,
		Years:     m.Years,
		Poster:    m.PosterImg,
		MediaType: m.MediaType,
		Score:     score,
		HasScore:  m.OfficialRating != nil,
		Tier:      scoring.RatingTier(m.OfficialRating, scoring.KindOf(m.MediaType), scoring.ContextGeneral),
	}
}

// flattenSongs turns every single into one unit and every album track into
// one unit. The tag filter was already applied at the owning media level.
func flattenSongs(media []database.Media) []Entry {
	var entries []Entry
	for i := range media {
		m := &media[i]
		switch m.MediaType {
		case database.MediaTypeSingle:
			e := mediaEntry(m)
			e.UnitType = UnitSingle
			e.Tier = scoring.RatingTier(m.OfficialRating, scoring.KindSingle, scoring.ContextGeneral)
			entries = append(entries, e)
		case database.MediaTypeAlbum:
			for _, track := range m.Tracks {
				e := Entry{
					MediaID:   m.ID,
					Title:     track.Title,
					Creator:   m.Creator,
					Years:     m.Years,
					Poster:    m.PosterImg,
					MediaType: m.MediaType,
					UnitType:  UnitAlbumTrack,
					Tier:      scoring.RatingTier(track.Rating, scoring.KindAlbumTrack, scoring.ContextGeneral),
				}
				if track.Rating != nil {
					e.Score = *track.Rating
					e.HasScore = true
				}
				entries = append(entries, e)
			}
		}
	}
	return entries
}

func sortEntries(entries []Entry, sortKey string) {
	switch sortKey {
	case SortScoreDesc:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Score > entries[j].Score
		})
	case SortScoreAsc:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Score < entries[j].Score
		})
	case SortYearDesc:
		sort.SliceStable(entries, func(i, j int) bool {
			return startYear(entries[i].Years) > startYear(entries[j].Years)
		})
	case SortYearAsc:
		sort.SliceStable(entries, func(i, j int) bool {
			return startYear(entries[i].Years) < startYear(entries[j].Years)
		})
	default:
		// title_asc, case-insensitive
		sort.SliceStable(entries, func(i, j int) bool {
			return strings.ToLower(entries[i].Title) < strings.ToLower(entries[j].Title)
		})
	}
}

// startYear reads the leading 4 characters of a years string such as
// "2015-2019". Absent or unparsable years sort as year 0.
func startYear(years string) int {
	if len(years) < 4 {
		return 0
	}
	year, err := strconv.Atoi(years[:4])
	if err != nil {
		return 0
	}
	return year
}
