package app

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/moodlist/backend/models"
)

func (app *Application) HandleListPlaylists(c echo.Context) error {
	userID, err := getContext(c, "user_id")
	if err != nil {
		c.Logger().Error(err)
		return err
	}

	playlists, err := app.PlaylistStore.GetMany("user_id = ?", userID)
	if err != nil {
		c.Logger().Error(err)
		return err
	}

	return c.JSON(http.StatusOK, playlists)
}

func (app *Application) HandleGetPlaylist(c echo.Context) error {
	userID, err := getContext(c, "user_id")
	if err != nil {
		c.Logger().Error(err)
		return err
	}

	playlist, err := app.PlaylistStore.GetOne("id = ?", c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "playlist not found")
		}

		c.Logger().Error(err)
		return err
	}

	if playlist.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, models.ErrNotPlaylistOwner)
	}

	songs, err := app.SongStore.GetByPlaylistID(playlist.ID)
	if err != nil {
		c.Logger().Error(err)
		return err
	}

	return c.JSON(http.StatusOK, models.PlaylistDetailResponse{
		Playlist: *playlist,
		Songs:    songs,
	})
}
