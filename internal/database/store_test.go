package database

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ryansh/mediarater/internal/apperr"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func ratingPtr(v float64) *float64 {
	return &v
}

func seedTestTags(t *testing.T, store *Store) []Tag {
	t.Helper()
	require.NoError(t, store.CreateTag(&Tag{Name: "Drama", Category: TagCategoryCinematic}))
	require.NoError(t, store.CreateTag(&Tag{Name: "Rock", Category: TagCategoryMusical}))
	tags, err := store.ListTags()
	require.NoError(t, err)
	return tags
}

func TestDeleteMediaCascades(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	tags := seedTestTags(t, store)

	show := &Media{MediaType: MediaTypeTVShow, Title: "Doomed Show"}
	seasons := []SeasonSpec{
		{SeasonNumber: 1, Episodes: []EpisodeSpec{
			{EpisodeNumber: 1}, {EpisodeNumber: 2}, {EpisodeNumber: 3},
		}},
		{SeasonNumber: 2, Episodes: []EpisodeSpec{
			{EpisodeNumber: 1}, {EpisodeNumber: 2}, {EpisodeNumber: 3},
		}},
	}
	require.NoError(t, store.SaveMedia(show, seasons, nil, []uint{tags[0].ID, tags[1].ID}))

	var seasonCount, episodeCount, joinCount int64
	db.Model(&Season{}).Count(&seasonCount)
	db.Model(&Episode{}).Count(&episodeCount)
	db.Table("media_tags").Count(&joinCount)
	require.Equal(t, int64(2), seasonCount)
	require.Equal(t, int64(6), episodeCount)
	require.Equal(t, int64(2), joinCount)

	require.NoError(t, store.DeleteMedia(show.ID))

	db.Model(&Season{}).Count(&seasonCount)
	db.Model(&Episode{}).Count(&episodeCount)
	db.Table("media_tags").Count(&joinCount)
	assert.Zero(t, seasonCount, "seasons must cascade")
	assert.Zero(t, episodeCount, "episodes must cascade through seasons")
	assert.Zero(t, joinCount, "tag associations must cascade")

	// The tags themselves stay
	var tagCount int64
	db.Model(&Tag{}).Count(&tagCount)
	assert.Equal(t, int64(2), tagCount)
}

func TestSaveMediaReplacesChildrenWholesale(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	album := &Media{MediaType: MediaTypeAlbum, Title: "Album"}
	require.NoError(t, store.SaveMedia(album, nil, []TrackSpec{
		{TrackNumber: 1, Title: "One", Rating: ratingPtr(8.0)},
		{TrackNumber: 2, Title: "Two"},
		{TrackNumber: 3, Title: "Three"},
	}, nil))

	// A partial resubmission drops the unsubmitted tracks
	require.NoError(t, store.SaveMedia(album, nil, []TrackSpec{
		{TrackNumber: 1, Title: "Only One Left", Rating: ratingPtr(9.5)},
	}, nil))

	loaded, err := store.GetMedia(album.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Tracks, 1)
	assert.Equal(t, "Only One Left", loaded.Tracks[0].Title)
}

func TestSaveMediaTypeSwitchPurgesChildren(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	m := &Media{MediaType: MediaTypeAlbum, Title: "Was An Album"}
	require.NoError(t, store.SaveMedia(m, nil, []TrackSpec{{TrackNumber: 1, Title: "Track"}}, nil))

	m.MediaType = MediaTypeMovie
	require.NoError(t, store.SaveMedia(m, nil, nil, nil))

	loaded, err := store.GetMedia(m.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Tracks)
	assert.Empty(t, loaded.Seasons)

	var trackCount int64
	db.Model(&Track{}).Count(&trackCount)
	assert.Zero(t, trackCount)
}

func TestSaveMediaReplacesTagSet(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	tags := seedTestTags(t, store)

	m := &Media{MediaType: MediaTypeMovie, Title: "Movie"}
	require.NoError(t, store.SaveMedia(m, nil, nil, []uint{tags[0].ID}))
	require.NoError(t, store.SaveMedia(m, nil, nil, []uint{tags[1].ID}))

	loaded, err := store.GetMedia(m.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Tags, 1)
	assert.Equal(t, tags[1].ID, loaded.Tags[0].ID)
}

func TestSaveMediaRejectsUnknownType(t *testing.T) {
	store := NewStore(setupTestDB(t))

	err := store.SaveMedia(&Media{MediaType: "mixtape", Title: "X"}, nil, nil, nil)
	require.Error(t, err)
	assert.True(t, apperr.IsValidation(err))
}

func TestGetMediaOrdersChildren(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)

	show := &Media{MediaType: MediaTypeTVShow, Title: "Show"}
	require.NoError(t, store.SaveMedia(show, []SeasonSpec{
		{SeasonNumber: 2, Episodes: []EpisodeSpec{{EpisodeNumber: 2}, {EpisodeNumber: 1}}},
		{SeasonNumber: 1},
	}, nil, nil))

	loaded, err := store.GetMedia(show.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Seasons, 2)
	assert.Equal(t, 1, loaded.Seasons[0].SeasonNumber)
	require.Len(t, loaded.Seasons[1].Episodes, 2)
	assert.Equal(t, 1, loaded.Seasons[1].Episodes[0].EpisodeNumber)
	assert.Equal(t, 2, loaded.Seasons[1].Episodes[1].EpisodeNumber)
}

func TestGetMediaNotFound(t *testing.T) {
	store := NewStore(setupTestDB(t))

	_, err := store.GetMedia(999)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestDeleteMediaNotFound(t *testing.T) {
	store := NewStore(setupTestDB(t))

	err := store.DeleteMedia(999)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}

func TestListMediaFilters(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	tags := seedTestTags(t, store)

	movie := &Media{MediaType: MediaTypeMovie, Title: "Movie"}
	require.NoError(t, store.SaveMedia(movie, nil, nil, []uint{tags[0].ID}))
	album := &Media{MediaType: MediaTypeAlbum, Title: "Album"}
	require.NoError(t, store.SaveMedia(album, nil, nil, nil))

	movieType := MediaTypeMovie
	byType, err := store.ListMedia(MediaFilter{Type: &movieType})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	assert.Equal(t, "Movie", byType[0].Title)

	byTag, err := store.ListMedia(MediaFilter{TagID: &tags[0].ID})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "Movie", byTag[0].Title)

	all, err := store.ListMedia(MediaFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
