package database

import (
	"time"
)

// MediaType represents the kind of catalog entry
type MediaType string

const (
	MediaTypeMovie  MediaType = "movie"
	MediaTypeSingle MediaType = "single"
	MediaTypeAlbum  MediaType = "album"
	MediaTypeTVShow MediaType = "tv_show"
)

// Valid reports whether t is one of the supported media types
func (t MediaType) Valid() bool {
	switch t {
	case MediaTypeMovie, MediaTypeSingle, MediaTypeAlbum, MediaTypeTVShow:
		return true
	}
	return false
}

// TagCategory groups tags into the two vocabulary families
type TagCategory string

const (
	TagCategoryCinematic TagCategory = "cinematic"
	TagCategoryMusical   TagCategory = "musical"
)

// User represents the seeded administrator account
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Media is the root catalog entry. Seasons are only populated for TV shows,
// Tracks only for albums; the store purges the invalid collection when the
// type changes.
type Media struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	MediaType      MediaType `gorm:"type:varchar(20);not null;index" json:"media_type"`
	Title          string    `gorm:"not null;index" json:"title"`
	Creator        string    `json:"creator,omitempty"`
	Years          string    `gorm:"type:varchar(50)" json:"years,omitempty"`
	PosterImg      string    `json:"poster_img,omitempty"`
	BannerImg      string    `json:"banner_img,omitempty"`
	OfficialRating *float64  `json:"official_rating,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relationships; child rows and join rows are removed by the storage
	// layer's cascade rules when the media row is deleted
	Seasons []Season `gorm:"foreignKey:MediaID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"seasons,omitempty"`
	Tracks  []Track  `gorm:"foreignKey:MediaID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"tracks,omitempty"`
	Tags    []Tag    `gorm:"many2many:media_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
}

// TableName pins the table name; the default pluralizer turns Media into
// "medias"
func (Media) TableName() string { return "media" }

// Season belongs to a TV show and owns its episodes, ordered by episode number
type Season struct {
	ID           uint     `gorm:"primaryKey" json:"id"`
	SeasonNumber int      `gorm:"not null" json:"season_number"`
	Rating       *float64 `json:"rating,omitempty"`
	Year         *int     `json:"year,omitempty"`
	MediaID      uint     `gorm:"not null;index" json:"media_id"`

	Episodes []Episode `gorm:"foreignKey:SeasonID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"episodes,omitempty"`
}

// Episode belongs to a season; Rating is nil until the admin scores it
type Episode struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	EpisodeNumber int      `gorm:"not null" json:"episode_number"`
	Title         string   `json:"title,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
	SeasonID      uint     `gorm:"not null;index" json:"season_id"`
}

// Track belongs to an album; Rating is nil until the admin scores it
type Track struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	TrackNumber int      `gorm:"not null" json:"track_number"`
	Title       string   `json:"title,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
	MediaID     uint     `gorm:"not null;index" json:"media_id"`
}

// Tag is a genre/category label shared across media items. Deleting a media
// item removes only its join rows, never the tag itself.
type Tag struct {
	ID       uint        `gorm:"primaryKey" json:"id"`
	Name     string      `gorm:"not null;uniqueIndex:idx_tag_name_category" json:"name"`
	Category TagCategory `gorm:"type:varchar(20);not null;uniqueIndex:idx_tag_name_category" json:"category"`
}

// SeasonSpec is a validated season plus its episodes, ready for a wholesale
// child replace
type SeasonSpec struct {
	SeasonNumber int
	Rating       *float64
	Year         *int
	Episodes     []EpisodeSpec
}

// EpisodeSpec is a validated episode row
type EpisodeSpec struct {
	EpisodeNumber int
	Title         string
	Rating        *float64
}

// TrackSpec is a validated track row
type TrackSpec struct {
	TrackNumber int
	Title       string
	Rating      *float64
}
