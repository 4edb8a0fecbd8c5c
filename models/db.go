package models

import "time"

type UserDBModel struct {
	UserID   string `gorm:"column:user_id;primaryKey"`
	Username string `gorm:"column:username"`
}

type PlaylistDBModel struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id"`
	UserID      string    `gorm:"column:user_id" json:"user_id"`
	Public      bool      `gorm:"column:public" json:"public"`
	Title       string    `gorm:"column:title" json:"title"`
	Description string    `gorm:"column:description" json:"description"`
	ImagePath   string    `gorm:"column:image_path" json:"image_path"`
	PlaylistURL string    `gorm:"column:playlist_url" json:"playlist_url"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

// SongDBModel rows are shared across playlists: the primary key is the
// external track id, so a track recommended in two independent generations
// maps to a single row.
type SongDBModel struct {
	ID         string `gorm:"column:id;primaryKey" json:"id"`
	Title      string `gorm:"column:title" json:"title"`
	Artist     string `gorm:"column:artist" json:"artist"`
	PreviewURL string `gorm:"column:preview_url" json:"preview_url"`
	ImageURL   string `gorm:"column:image_url" json:"image_url"`
}

type InPlaylistDBModel struct {
	SongID     string `gorm:"column:song_id" json:"song_id"`
	PlaylistID string `gorm:"column:playlist_id" json:"playlist_id"`
}
