package app

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/zmb3/spotify/v2"

	"github.com/moodlist/backend/models"
)

func (app *Application) Router() *echo.Echo {
	e := echo.New()

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(app.CreateSessionMiddleware)

	e.GET("/spotify-auth", app.HandleSpotifyAuth)
	e.GET(app.SpotifyRedirectPath, app.HandleSpotifyRedirect)
	e.GET("/logout", app.HandleLogout)

	api := e.Group("", app.IfNotLogined, app.UpdateSpotifyTokenIfExpired)
	api.POST("/playlists/generate", app.HandleGeneratePlaylist)
	api.GET("/playlists/generate/:id/status", app.HandleGenerationStatus)
	api.GET("/playlists", app.HandleListPlaylists)
	api.GET("/playlists/:id", app.HandleGetPlaylist)

	return e
}

func (app *Application) HandleSpotifyAuth(c echo.Context) error {
	action := c.QueryParam("action")
	if action != "signup" && action != "login" {
		return echo.NewHTTPError(http.StatusBadRequest, models.ErrInvalidAction)
	}

	state := uuid.NewString()

	if err := setSession(c, map[string]any{"action": action, "state": state}); err != nil {
		c.Logger().Error(err)
		return err
	}

	return c.Redirect(http.StatusSeeOther, app.Authenticator.AuthURL(state))
}

func (app *Application) HandleSpotifyRedirect(c echo.Context) error {
	defer func() {
		deleteFromSession(c, []string{"action", "state"})
	}()

	action, err := getContext(c, "action")
	if err != nil {
		c.Logger().Error(err)
		return err
	}

	if action != "signup" && action != "login" {
		return echo.NewHTTPError(http.StatusBadRequest, models.ErrInvalidAction)
	}

	state, err := getContext(c, "state")
	if err != nil {
		c.Logger().Error(err)
		return err
	}

	if c.FormValue("state") != state {
		return echo.NewHTTPError(http.StatusNotFound, models.ErrStateMismatch)
	}

	token, err := app.Authenticator.Token(c.Request().Context(), state, c.Request())
	if err != nil {
		c.Logger().Error(err)
		return err
	}

	client := spotify.New(app.Authenticator.Client(c.Request().Context(), token))

	user, err := client.CurrentUser(context.Background())
	if err != nil {
		c.Logger().Error(err)
		return err
	}

	switch action {
	case "signup":
		exists, err := app.UserStore.IsExists("user_id = ?", user.ID)
		if err != nil {
			c.Logger().Error(err)
			return err
		}

		if exists {
			return echo.NewHTTPError(http.StatusBadRequest, models.ErrUserAlreadyExists)
		}

		if err := app.UserStore.Create(models.UserDBModel{
			UserID:   user.ID,
			Username: user.DisplayName,
		}); err != nil {
			c.Logger().Error(err)
			return err
		}

	case "login":
		exists, err := app.UserStore.IsExists("user_id = ?", user.ID)
		if err != nil {
			c.Logger().Error(err)
			return err
		}

		if !exists {
			return echo.NewHTTPError(http.StatusBadRequest, models.ErrUserNotExists)
		}
	}

	if err := app.TokenStore.Save(context.Background(), user.ID, token); err != nil {
		c.Logger().Error(err)
		return err
	}

	if err := setSession(c,
		map[string]any{"user_id": user.ID, "authenticated": true},
	); err != nil {
		c.Logger().Error(err)
		return err
	}

	return c.Redirect(http.StatusSeeOther, "/playlists")
}

func (app *Application) HandleLogout(c echo.Context) error {
	if err := clearSession(c); err != nil {
		c.Logger().Error(err)
		return err
	}

	return c.NoContent(http.StatusOK)
}
