package store

import (
	"errors"

	"github.com/moodlist/backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlaylistStore interface {
	CreateTable() error
	Upsert(playlist models.PlaylistDBModel) error
	GetOne(whereQuery string, whereArgs ...interface{}) (*models.PlaylistDBModel, error)
	GetMany(whereQuery string, whereArgs ...interface{}) ([]models.PlaylistDBModel, error)
	IsExists(whereQuery string, whereArgs ...interface{}) (bool, error)
	DB() *gorm.DB
}

type playlistStore struct {
	db *gorm.DB
}

func NewPlaylistStore(db *gorm.DB) PlaylistStore {
	return &playlistStore{
		db: db,
	}
}

func (ps *playlistStore) table() string {
	return "playlists"
}

func (ps *playlistStore) DB() *gorm.DB {
	return ps.db
}

func (ps *playlistStore) CreateTable() error {
	return ps.db.Table(ps.table()).AutoMigrate(models.PlaylistDBModel{})
}

// Upsert is insert-or-ignore keyed by id; a generation run never updates an
// existing playlist row.
func (ps *playlistStore) Upsert(playlist models.PlaylistDBModel) error {
	return ps.db.Table(ps.table()).Clauses(clause.OnConflict{DoNothing: true}).Create(&playlist).Error
}

func (ps *playlistStore) GetOne(whereQuery string, whereArgs ...interface{}) (*models.PlaylistDBModel, error) {
	var playlist models.PlaylistDBModel
	if err := ps.db.Table(ps.table()).Where(whereQuery, whereArgs...).First(&playlist).Error; err != nil {
		return nil, err
	}

	return &playlist, nil
}

func (ps *playlistStore) GetMany(whereQuery string, whereArgs ...interface{}) ([]models.PlaylistDBModel, error) {
	var playlists []models.PlaylistDBModel

	if err := ps.db.Table(ps.table()).Where(whereQuery, whereArgs...).Order("created_at DESC").Find(&playlists).Error; err != nil {
		return nil, err
	}

	return playlists, nil
}

func (ps *playlistStore) IsExists(whereQuery string, whereArgs ...interface{}) (bool, error) {
	type Res struct {
		IsExists bool
	}

	var res Res

	if err := ps.db.Table(ps.table()).Select("1 = 1 AS is_exists").Where(whereQuery, whereArgs...).Find(&res).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}

		return false, err
	}

	return res.IsExists, nil
}
