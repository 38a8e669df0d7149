package mediaform

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/ryansh/mediarater/internal/apperr"
	"github.com/ryansh/mediarater/internal/database"
)

// structuredPayload is the JSON shape of a media submission: explicit nested
// records instead of index-suffixed field names
type structuredPayload struct {
	MediaType      string             `json:"media_type"`
	Title          string             `json:"title"`
	Creator        string             `json:"creator"`
	Years          string             `json:"years"`
	OfficialRating *float64           `json:"official_rating"`
	TagIDs         []uint             `json:"tag_ids"`
	Seasons        []structuredSeason `json:"seasons"`
	Tracks         []structuredTrack  `json:"tracks"`
}

type structuredSeason struct {
	SeasonNumber int                 `json:"season_number"`
	Rating       *float64            `json:"rating"`
	Year         *int                `json:"year"`
	Episodes     []structuredEpisode `json:"episodes"`
}

type structuredEpisode struct {
	EpisodeNumber int      `json:"episode_number"`
	Title         string   `json:"title"`
	Rating        *float64 `json:"rating"`
}

type structuredTrack struct {
	TrackNumber int      `json:"track_number"`
	Title       string   `json:"title"`
	Rating      *float64 `json:"rating"`
}

// ParseStructured validates a JSON submission into a MediaInput. The whole
// payload is checked before anything is written, same as the form path.
func ParseStructured(body io.Reader) (*MediaInput, error) {
	var payload structuredPayload
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		return nil, apperr.Wrap(apperr.ErrorTypeValidation, "malformed JSON payload", err)
	}

	mediaType := database.MediaType(payload.MediaType)
	if !mediaType.Valid() {
		return nil, apperr.Validationf("unknown media type %q", payload.MediaType)
	}

	title := strings.TrimSpace(payload.Title)
	if title == "" {
		return nil, apperr.Validation("title is required")
	}

	if err := checkRating(payload.OfficialRating, "official_rating"); err != nil {
		return nil, err
	}

	input := &MediaInput{
		MediaType:      mediaType,
		Title:          title,
		Creator:        strings.TrimSpace(payload.Creator),
		Years:          strings.TrimSpace(payload.Years),
		OfficialRating: payload.OfficialRating,
		TagIDs:         payload.TagIDs,
	}

	switch mediaType {
	case database.MediaTypeTVShow:
		for _, s := range payload.Seasons {
			if err := checkRating(s.Rating, "season rating"); err != nil {
				return nil, err
			}
			spec := database.SeasonSpec{
				SeasonNumber: s.SeasonNumber,
				Rating:       s.Rating,
				Year:         s.Year,
			}
			for _, ep := range s.Episodes {
				if err := checkRating(ep.Rating, "episode rating"); err != nil {
					return nil, err
				}
				spec.Episodes = append(spec.Episodes, database.EpisodeSpec{
					EpisodeNumber: ep.EpisodeNumber,
					Title:         strings.TrimSpace(ep.Title),
					Rating:        ep.Rating,
				})
			}
			input.Seasons = append(input.Seasons, spec)
		}
	case database.MediaTypeAlbum:
		for _, tr := range payload.Tracks {
			if err := checkRating(tr.Rating, "track rating"); err != nil {
				return nil, err
			}
			input.Tracks = append(input.Tracks, database.TrackSpec{
				TrackNumber: tr.TrackNumber,
				Title:       strings.TrimSpace(tr.Title),
				Rating:      tr.Rating,
			})
		}
	}

	return input, nil
}

func checkRating(rating *float64, field string) error {
	if rating == nil {
		return nil
	}
	if *rating < 0 || *rating > 10 {
		return apperr.Validationf("%s %v is outside 0-10", field, *rating)
	}
	return nil
}
