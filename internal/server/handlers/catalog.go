package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ryansh/mediarater/internal/catalog"
	"github.com/ryansh/mediarater/internal/database"
	"github.com/ryansh/mediarater/internal/scoring"
)

// Index renders the public listing. sort, filter, and tag query parameters
// degrade to defaults when malformed.
func (h *Handlers) Index(c *gin.Context) {
	filterType := c.DefaultQuery("filter", catalog.FilterAll)
	tagID := c.DefaultQuery("tag", "all")
	sortKey := c.DefaultQuery("sort", catalog.SortTitleAsc)

	entries, err := h.catalog.List(filterType, tagID, sortKey)
	if err != nil {
		h.renderError(c, err)
		return
	}

	tags, err := h.store.ListTags()
	if err != nil {
		h.renderError(c, err)
		return
	}

	h.render(c, http.StatusOK, "index.tmpl", gin.H{
		"entries": entries,
		"tags":    tags,
		"filter":  filterType,
		"tag":     tagID,
		"sort":    sortKey,
		"count":   len(entries),
	})
}

// seasonView is a season plus per-episode display tiers
type seasonView struct {
	Season   database.Season `json:"season"`
	Episodes []episodeView   `json:"episodes"`
	Tier     scoring.Tier    `json:"tier"`
}

type episodeView struct {
	Episode database.Episode `json:"episode"`
	Tier    scoring.Tier     `json:"tier"`
}

type trackView struct {
	Track database.Track `json:"track"`
	Tier  scoring.Tier   `json:"tier"`
}

// MediaDetail renders one catalog entry with its children, tags, headline
// score, and the calculated child-rating average when one exists
func (h *Handlers) MediaDetail(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.renderError(c, err)
		return
	}

	media, err := h.store.GetMedia(id)
	if err != nil {
		h.renderError(c, err)
		return
	}

	kind := scoring.KindOf(media.MediaType)
	data := gin.H{
		"media": media,
		"score": scoring.OverallScore(media),
		"tier":  scoring.RatingTier(media.OfficialRating, kind, scoring.ContextDetail),
	}

	if avg, ok := scoring.CalculatedAverage(media); ok {
		data["calculated_average"] = avg
	}

	switch media.MediaType {
	case database.MediaTypeTVShow:
		seasons := make([]seasonView, 0, len(media.Seasons))
		for _, season := range media.Seasons {
			view := seasonView{
				Season: season,
				Tier:   scoring.RatingTier(season.Rating, scoring.KindTVShow, scoring.ContextDetail),
			}
			for _, ep := range season.Episodes {
				view.Episodes = append(view.Episodes, episodeView{
					Episode: ep,
					Tier:    scoring.RatingTier(ep.Rating, scoring.KindTVShow, scoring.ContextDetail),
				})
			}
			seasons = append(seasons, view)
		}
		data["seasons"] = seasons
	case database.MediaTypeAlbum:
		tracks := make([]trackView, 0, len(media.Tracks))
		for _, track := range media.Tracks {
			tracks = append(tracks, trackView{
				Track: track,
				Tier:  scoring.RatingTier(track.Rating, scoring.KindAlbumTrack, scoring.ContextDetail),
			})
		}
		data["tracks"] = tracks
	}

	h.render(c, http.StatusOK, "media_detail.tmpl", data)
}
