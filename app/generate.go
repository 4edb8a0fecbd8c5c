package app

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/zmb3/spotify/v2"

	"github.com/moodlist/backend/generate"
	"github.com/moodlist/backend/models"
)

// warningGrace is how long the status stream stays open after the terminal
// update, so warnings from the detached cover upload still reach the client.
const warningGrace = 5 * time.Second

func (app *Application) HandleGeneratePlaylist(c echo.Context) error {
	userID, err := getContext(c, "user_id")
	if err != nil {
		c.Logger().Error(err)
		return err
	}

	req := models.GenerationRequest{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Public:      c.FormValue("public") == "true",
	}

	// A missing or unreadable file leaves req.Image empty; the workflow's
	// own validation step reports it.
	if fileHeader, err := c.FormFile("image"); err == nil {
		req.FileName = fileHeader.Filename

		file, err := fileHeader.Open()
		if err != nil {
			c.Logger().Error(err)
			return err
		}
		defer file.Close()

		req.Image, err = io.ReadAll(file)
		if err != nil {
			c.Logger().Error(err)
			return err
		}
	}

	client, err := app.spotifyClientForUser(c, userID)
	if err != nil {
		c.Logger().Error(err)
		return err
	}

	generationID := uuid.NewString()
	updates := app.registerGeneration(generationID)

	notify := func(u generate.Update) {
		update := models.GenerationUpdate{
			State:    string(u.State),
			Warning:  u.Warning,
			Playlist: u.Playlist,
		}
		if u.Err != nil {
			update.Error = u.Err.Error()
		}

		// Non-blocking: a client that never connects to the status
		// stream must not stall the workflow.
		select {
		case updates <- update:
		default:
		}
	}

	// the echo context is pooled; don't touch it from the goroutine
	logger := c.Logger()

	go func() {
		defer app.scheduleGenerationCleanup(generationID)

		if _, err := app.Generator.Run(context.Background(), client, userID, req, notify); err != nil {
			logger.Error(err)
		}
	}()

	return c.JSON(http.StatusAccepted, models.GenerationStartedResponse{GenerationID: generationID})
}

func (app *Application) HandleGenerationStatus(c echo.Context) error {
	updates := app.generation(c.Param("id"))
	if updates == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no such generation")
	}

	conn, err := app.Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		c.Logger().Error(err)
		return err
	}
	defer conn.Close()

	// bail out if the generation never produces another update
	deadline := time.After(10 * time.Minute)

	for {
		select {
		case update := <-updates:
			if err := conn.WriteJSON(update); err != nil {
				c.Logger().Error(err)
				return nil
			}

			if update.State == string(generate.StateSucceeded) || update.State == string(generate.StateFailed) {
				deadline = time.After(warningGrace)
			}

		case <-deadline:
			return nil
		}
	}
}

func (app *Application) spotifyClientForUser(c echo.Context, userID string) (*spotify.Client, error) {
	token, err := app.TokenStore.Get(c.Request().Context(), userID)
	if err != nil {
		return nil, err
	}

	if token == nil {
		return nil, models.ErrTokenNotExists
	}

	return spotify.New(app.Authenticator.Client(context.Background(), token)), nil
}

func (app *Application) registerGeneration(id string) chan models.GenerationUpdate {
	updates := make(chan models.GenerationUpdate, 64)

	app.mu.Lock()
	app.generations[id] = updates
	app.mu.Unlock()

	return updates
}

func (app *Application) generation(id string) chan models.GenerationUpdate {
	app.mu.Lock()
	defer app.mu.Unlock()

	return app.generations[id]
}

// scheduleGenerationCleanup evicts the update channel once the stream's
// consumer has had time to drain it.
func (app *Application) scheduleGenerationCleanup(id string) {
	time.AfterFunc(10*time.Minute, func() {
		app.mu.Lock()
		delete(app.generations, id)
		app.mu.Unlock()
	})
}
