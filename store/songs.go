package store

import (
	"github.com/moodlist/backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SongStore interface {
	CreateTable() error
	Upsert(song models.SongDBModel) error
	GetOne(whereQuery string, whereArgs ...interface{}) (*models.SongDBModel, error)
	GetByPlaylistID(playlistID string) ([]models.SongDBModel, error)
	Count() (int64, error)
	DB() *gorm.DB
}

type songStore struct {
	db *gorm.DB
}

func NewSongStore(db *gorm.DB) SongStore {
	return &songStore{
		db: db,
	}
}

func (ss *songStore) table() string {
	return "songs"
}

func (ss *songStore) DB() *gorm.DB {
	return ss.db
}

func (ss *songStore) CreateTable() error {
	return ss.db.Table(ss.table()).AutoMigrate(models.SongDBModel{})
}

// Upsert ignores duplicates by primary key: the same track recommended
// across independent generations keeps its single row.
func (ss *songStore) Upsert(song models.SongDBModel) error {
	return ss.db.Table(ss.table()).Clauses(clause.OnConflict{DoNothing: true}).Create(&song).Error
}

func (ss *songStore) GetOne(whereQuery string, whereArgs ...interface{}) (*models.SongDBModel, error) {
	var song models.SongDBModel
	if err := ss.db.Table(ss.table()).Where(whereQuery, whereArgs...).First(&song).Error; err != nil {
		return nil, err
	}

	return &song, nil
}

func (ss *songStore) GetByPlaylistID(playlistID string) ([]models.SongDBModel, error) {
	var songs []models.SongDBModel

	if err := ss.db.Table(ss.table()).
		Joins("JOIN in_playlist ON in_playlist.song_id = songs.id").
		Where("in_playlist.playlist_id = ?", playlistID).
		Find(&songs).Error; err != nil {
		return nil, err
	}

	return songs, nil
}

func (ss *songStore) Count() (int64, error) {
	var count int64
	if err := ss.db.Table(ss.table()).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
