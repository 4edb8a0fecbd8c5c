package store

import (
	"github.com/moodlist/backend/models"
	"gorm.io/gorm"
)

type InPlaylistStore interface {
	CreateTable() error
	Create(association models.InPlaylistDBModel) error
	GetMany(whereQuery string, whereArgs ...interface{}) ([]models.InPlaylistDBModel, error)
	DB() *gorm.DB
}

type inPlaylistStore struct {
	db *gorm.DB
}

func NewInPlaylistStore(db *gorm.DB) InPlaylistStore {
	return &inPlaylistStore{
		db: db,
	}
}

func (is *inPlaylistStore) table() string {
	return "in_playlist"
}

func (is *inPlaylistStore) DB() *gorm.DB {
	return is.db
}

func (is *inPlaylistStore) CreateTable() error {
	return is.db.Table(is.table()).AutoMigrate(models.InPlaylistDBModel{})
}

func (is *inPlaylistStore) Create(association models.InPlaylistDBModel) error {
	return is.db.Table(is.table()).Create(association).Error
}

func (is *inPlaylistStore) GetMany(whereQuery string, whereArgs ...interface{}) ([]models.InPlaylistDBModel, error) {
	var associations []models.InPlaylistDBModel

	if err := is.db.Table(is.table()).Where(whereQuery, whereArgs...).Find(&associations).Error; err != nil {
		return nil, err
	}

	return associations, nil
}
