package database

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/ryansh/mediarater/internal/apperr"
	"github.com/ryansh/mediarater/internal/logger"
)

// Store owns all catalog reads and writes. Every logical update (media
// fields + children + tags) runs in a single transaction.
type Store struct {
	db  *gorm.DB
	log hclog.Logger
}

// NewStore creates a store over the given database connection
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:  db,
		log: logger.Named("store"),
	}
}

// MediaFilter restricts ListMedia results
type MediaFilter struct {
	Type  *MediaType
	TagID *uint
}

// GetMedia loads a media item with its children and tags. Children come back
// ordered by their season/episode/track numbers.
func (s *Store) GetMedia(id uint) (*Media, error) {
	var media Media
	err := s.preloadChildren(s.db).First(&media, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(fmt.Sprintf("media %d not found", id))
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrorTypeInternal, "failed to load media", err)
	}
	return &media, nil
}

// ListMedia returns all media matching the filter, children and tags loaded
func (s *Store) ListMedia(filter MediaFilter) ([]Media, error) {
	query := s.preloadChildren(s.db)

	if filter.Type != nil {
		query = query.Where("media.media_type = ?", *filter.Type)
	}
	if filter.TagID != nil {
		query = query.
			Joins("JOIN media_tags ON media_tags.media_id = media.id").
			Where("media_tags.tag_id = ?", *filter.TagID)
	}

	var media []Media
	if err := query.Find(&media).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrorTypeInternal, "failed to list media", err)
	}
	return media, nil
}

func (s *Store) preloadChildren(db *gorm.DB) *gorm.DB {
	return db.Model(&Media{}).
		Preload("Seasons", func(db *gorm.DB) *gorm.DB {
			return db.Order("seasons.season_number")
		}).
		Preload("Seasons.Episodes", func(db *gorm.DB) *gorm.DB {
			return db.Order("episodes.episode_number")
		}).
		Preload("Tracks", func(db *gorm.DB) *gorm.DB {
			return db.Order("tracks.track_number")
		}).
		Preload("Tags")
}

// SaveMedia persists a media item together with its children and tag set as
// one all-or-nothing update. Children are replaced wholesale: the existing
// set is deleted and the submitted set inserted. Collections that are invalid
// for the (possibly changed) media type are purged.
func (s *Store) SaveMedia(m *Media, seasons []SeasonSpec, tracks []TrackSpec, tagIDs []uint) error {
	if !m.MediaType.Valid() {
		return apperr.Validationf("unknown media type %q", m.MediaType)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if m.ID == 0 {
			if err := tx.Create(m).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Omit("Seasons", "Tracks", "Tags").Save(m).Error; err != nil {
				return err
			}
		}

		// Wholesale replace: drop every existing child row, then insert the
		// submitted set for the collection the type owns. Episodes go away
		// with their seasons through the declared cascade.
		if err := tx.Where("media_id = ?", m.ID).Delete(&Season{}).Error; err != nil {
			return err
		}
		if err := tx.Where("media_id = ?", m.ID).Delete(&Track{}).Error; err != nil {
			return err
		}

		switch m.MediaType {
		case MediaTypeTVShow:
			if err := insertSeasons(tx, m.ID, seasons); err != nil {
				return err
			}
		case MediaTypeAlbum:
			if err := insertTracks(tx, m.ID, tracks); err != nil {
				return err
			}
		}

		return replaceTags(tx, m, tagIDs)
	})
	if err != nil {
		return s.wrapWriteError(err, "failed to save media")
	}

	s.log.Info("saved media", "id", m.ID, "type", m.MediaType, "title", m.Title)
	return nil
}

func insertSeasons(tx *gorm.DB, mediaID uint, specs []SeasonSpec) error {
	for _, spec := range specs {
		season := Season{
			SeasonNumber: spec.SeasonNumber,
			Rating:       spec.Rating,
			Year:         spec.Year,
			MediaID:      mediaID,
		}
		if err := tx.Create(&season).Error; err != nil {
			return err
		}
		for _, ep := range spec.Episodes {
			episode := Episode{
				EpisodeNumber: ep.EpisodeNumber,
				Title:         ep.Title,
				Rating:        ep.Rating,
				SeasonID:      season.ID,
			}
			if err := tx.Create(&episode).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

func insertTracks(tx *gorm.DB, mediaID uint, specs []TrackSpec) error {
	for _, spec := range specs {
		track := Track{
			TrackNumber: spec.TrackNumber,
			Title:       spec.Title,
			Rating:      spec.Rating,
			MediaID:     mediaID,
		}
		if err := tx.Create(&track).Error; err != nil {
			return err
		}
	}
	return nil
}

func replaceTags(tx *gorm.DB, m *Media, tagIDs []uint) error {
	var tags []Tag
	if len(tagIDs) > 0 {
		if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			return err
		}
	}
	return tx.Model(m).Association("Tags").Replace(tags)
}

// DeleteMedia removes a media item. Seasons, episodes, tracks, and tag
// associations go with it via the storage layer's cascade rules; tag rows
// themselves are untouched.
func (s *Store) DeleteMedia(id uint) error {
	result := s.db.Delete(&Media{}, id)
	if result.Error != nil {
		return s.wrapWriteError(result.Error, "failed to delete media")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound(fmt.Sprintf("media %d not found", id))
	}

	s.log.Info("deleted media", "id", id)
	return nil
}

// CreateTag adds a tag to the vocabulary
func (s *Store) CreateTag(tag *Tag) error {
	if err := s.db.Create(tag).Error; err != nil {
		return s.wrapWriteError(err, "failed to create tag")
	}
	return nil
}

// ListTags returns the full tag vocabulary ordered by category then name
func (s *Store) ListTags() ([]Tag, error) {
	var tags []Tag
	if err := s.db.Order("category, name").Find(&tags).Error; err != nil {
		return nil, apperr.Wrap(apperr.ErrorTypeInternal, "failed to list tags", err)
	}
	return tags, nil
}

// GetUserByUsername looks up an account for login
func (s *Store) GetUserByUsername(username string) (*User, error) {
	var user User
	err := s.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrorTypeInternal, "failed to load user", err)
	}
	return &user, nil
}

func (s *Store) wrapWriteError(err error, msg string) error {
	if apperr.IsDuplicateError(err) || apperr.IsForeignKeyError(err) {
		return apperr.Wrap(apperr.ErrorTypeConstraint, msg, err)
	}
	return apperr.Wrap(apperr.ErrorTypeInternal, msg, err)
}
