// Package mediaform turns submitted media forms into validated store
// inputs. Child rows arrive as flat index-suffixed fields
// (season_number_{i}, ep_rating_{i}_{j}, track_number_{t}); the index
// tokens only correlate sibling fields, the real numbers come from the
// field values. Any malformed numeric field rejects the whole submission
// before anything is written.
package mediaform

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/ryansh/mediarater/internal/apperr"
	"github.com/ryansh/mediarater/internal/database"
)

const (
	seasonNumberPrefix = "season_number_"
	trackNumberPrefix  = "track_number_"
	epNumberPrefix     = "ep_number_"
)

// MediaInput is a fully validated submission, ready for Store.SaveMedia
type MediaInput struct {
	MediaType      database.MediaType
	Title          string
	Creator        string
	Years          string
	OfficialRating *float64
	TagIDs         []uint
	Seasons        []database.SeasonSpec
	Tracks         []database.TrackSpec
}

// Parse validates a flat form submission into a MediaInput
func Parse(form url.Values) (*MediaInput, error) {
	mediaType := database.MediaType(form.Get("media_type"))
	if !mediaType.Valid() {
		return nil, apperr.Validationf("unknown media type %q", form.Get("media_type"))
	}

	title := strings.TrimSpace(form.Get("title"))
	if title == "" {
		return nil, apperr.Validation("title is required")
	}

	rating, err := optionalRating(form.Get("official_rating"), "official_rating")
	if err != nil {
		return nil, err
	}

	tagIDs, err := parseTagIDs(form["tags"])
	if err != nil {
		return nil, err
	}

	input := &MediaInput{
		MediaType:      mediaType,
		Title:          title,
		Creator:        strings.TrimSpace(form.Get("creator")),
		Years:          strings.TrimSpace(form.Get("years")),
		OfficialRating: rating,
		TagIDs:         tagIDs,
	}

	// Only the collection the type owns is parsed; leftover fields from a
	// type switch in the form UI are ignored
	switch mediaType {
	case database.MediaTypeTVShow:
		input.Seasons, err = parseSeasons(form)
	case database.MediaTypeAlbum:
		input.Tracks, err = parseTracks(form)
	}
	if err != nil {
		return nil, err
	}

	return input, nil
}

func parseSeasons(form url.Values) ([]database.SeasonSpec, error) {
	var seasons []database.SeasonSpec

	for _, token := range collectTokens(form, seasonNumberPrefix) {
		numberField := seasonNumberPrefix + token
		number, err := requiredInt(form.Get(numberField), numberField)
		if err != nil {
			return nil, err
		}

		rating, err := optionalRating(form.Get("season_rating_"+token), "season_rating_"+token)
		if err != nil {
			return nil, err
		}

		year, err := optionalInt(form.Get("season_year_"+token), "season_year_"+token)
		if err != nil {
			return nil, err
		}

		episodes, err := parseEpisodes(form, token)
		if err != nil {
			return nil, err
		}

		seasons = append(seasons, database.SeasonSpec{
			SeasonNumber: number,
			Rating:       rating,
			Year:         year,
			Episodes:     episodes,
		})
	}

	sort.SliceStable(seasons, func(i, j int) bool {
		return seasons[i].SeasonNumber < seasons[j].SeasonNumber
	})
	return seasons, nil
}

func parseEpisodes(form url.Values, seasonToken string) ([]database.EpisodeSpec, error) {
	var episodes []database.EpisodeSpec

	prefix := epNumberPrefix + seasonToken + "_"
	for _, token := range collectTokens(form, prefix) {
		numberField := prefix + token
		number, err := requiredInt(form.Get(numberField), numberField)
		if err != nil {
			return nil, err
		}

		ratingField := "ep_rating_" + seasonToken + "_" + token
		rating, err := optionalRating(form.Get(ratingField), ratingField)
		if err != nil {
			return nil, err
		}

		episodes = append(episodes, database.EpisodeSpec{
			EpisodeNumber: number,
			Title:         strings.TrimSpace(form.Get("ep_title_" + seasonToken + "_" + token)),
			Rating:        rating,
		})
	}

	sort.SliceStable(episodes, func(i, j int) bool {
		return episodes[i].EpisodeNumber < episodes[j].EpisodeNumber
	})
	return episodes, nil
}

func parseTracks(form url.Values) ([]database.TrackSpec, error) {
	var tracks []database.TrackSpec

	for _, token := range collectTokens(form, trackNumberPrefix) {
		numberField := trackNumberPrefix + token
		number, err := requiredInt(form.Get(numberField), numberField)
		if err != nil {
			return nil, err
		}

		ratingField := "track_rating_" + token
		rating, err := optionalRating(form.Get(ratingField), ratingField)
		if err != nil {
			return nil, err
		}

		tracks = append(tracks, database.TrackSpec{
			TrackNumber: number,
			Title:       strings.TrimSpace(form.Get("track_title_" + token)),
			Rating:      rating,
		})
	}

	sort.SliceStable(tracks, func(i, j int) bool {
		return tracks[i].TrackNumber < tracks[j].TrackNumber
	})
	return tracks, nil
}

// collectTokens finds the opaque index tokens after prefix, in a stable
// order. Tokens are client-supplied strings; nothing assumes they are
// numeric or contiguous.
func collectTokens(form url.Values, prefix string) []string {
	var tokens []string
	for key := range form {
		if strings.HasPrefix(key, prefix) {
			tokens = append(tokens, strings.TrimPrefix(key, prefix))
		}
	}
	sort.Strings(tokens)
	return tokens
}

func parseTagIDs(values []string) ([]uint, error) {
	var ids []uint
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, apperr.Validationf("invalid tag id %q", v)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func requiredInt(value, field string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, apperr.Validationf("field %s: %q is not a number", field, value)
	}
	return n, nil
}

func optionalInt(value, field string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, apperr.Validationf("field %s: %q is not a number", field, value)
	}
	return &n, nil
}

func optionalRating(value, field string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	rating, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, apperr.Validationf("field %s: %q is not a number", field, value)
	}
	if rating < 0 || rating > 10 {
		return nil, apperr.Validationf("field %s: rating %v is outside 0-10", field, rating)
	}
	return &rating, nil
}
