// Package generate implements the playlist generation workflow: image
// normalization, seed resolution, remote playlist provisioning, track
// recommendation and persistence, sequenced by a single orchestrator.
package generate

import (
	"context"
	"errors"
	"fmt"

	"github.com/moodlist/backend/models"
	"github.com/zmb3/spotify/v2"
)

// State is one step of the generation workflow. Succeeded and Failed are
// terminal for an invocation; a fresh invocation starts over at Idle.
type State string

const (
	StateIdle             State = "idle"
	StateValidating       State = "validating"
	StateNormalizing      State = "normalizing"
	StateResolvingSeeds   State = "resolving_seeds"
	StateCreatingPlaylist State = "creating_playlist"
	StateFetchingTracks   State = "fetching_tracks"
	StatePersisting       State = "persisting"
	StateSucceeded        State = "succeeded"
	StateFailed           State = "failed"
)

// Update is one progress report from a generation run. Warning-only updates
// carry no state change and may arrive after the terminal update, since the
// cover upload is detached from the main flow.
type Update struct {
	State    State
	Warning  string
	Err      error
	Playlist *models.PlaylistDBModel
}

// Generator orchestrates one playlist generation per Run call. Every
// external call is attempted at most once; the first unrecovered error moves
// the run to Failed and nothing already created remotely is compensated.
type Generator struct {
	Seeds               *SeedResolver
	Persister           *Persister
	RecommendationLimit int
}

// Run executes the workflow for one request, reporting transitions through
// notify. notify must be safe for concurrent use: the detached cover upload
// may report a warning from its own goroutine, possibly after Run returns.
func (g *Generator) Run(ctx context.Context, client *spotify.Client, ownerID string, req models.GenerationRequest, notify func(Update)) (*models.PlaylistDBModel, error) {
	if notify == nil {
		notify = func(Update) {}
	}

	fail := func(err error) error {
		err = classify(err)
		notify(Update{State: StateFailed, Err: err})
		return err
	}

	notify(Update{State: StateValidating})
	if err := req.Validate(); err != nil {
		return nil, fail(err)
	}

	notify(Update{State: StateNormalizing})
	img, err := Normalize(req.Image, req.FileName)
	if err != nil {
		return nil, fail(err)
	}

	notify(Update{State: StateResolvingSeeds})
	seeds, err := g.Seeds.Resolve(ctx, client, img)
	if err != nil {
		return nil, fail(err)
	}

	notify(Update{State: StateCreatingPlaylist})
	remote, err := createRemotePlaylist(ctx, client, ownerID, req)
	if err != nil {
		return nil, fail(err)
	}

	// Detached: the run does not wait for the cover, and a failure here
	// degrades to a warning because the playlist stays usable without it.
	go func() {
		if err := uploadCover(context.Background(), client, remote.ID, img); err != nil {
			notify(Update{Warning: fmt.Sprintf("could not set the playlist cover: %v", err)})
		}
	}()

	notify(Update{State: StateFetchingTracks})
	tracks, err := fetchRecommendations(ctx, client, seeds, g.RecommendationLimit)
	if err != nil {
		return nil, fail(err)
	}

	if err := addTracksToRemote(ctx, client, remote.ID, tracks); err != nil {
		return nil, fail(err)
	}

	notify(Update{State: StatePersisting})
	playlist, err := g.Persister.Persist(ctx, ownerID, req, img, remote, tracks)
	if err != nil {
		return nil, fail(err)
	}

	notify(Update{State: StateSucceeded, Playlist: playlist})
	return playlist, nil
}

var knownErrors = []error{
	models.ErrValidation,
	models.ErrUnsupportedFormat,
	models.ErrCompression,
	models.ErrSeedResolution,
	models.ErrPlaylistCreate,
	models.ErrRecommendation,
	models.ErrStorageUpload,
	models.ErrPersistence,
}

// classify maps an error onto the workflow taxonomy, falling back to the
// catch-all class for anything unrecognized.
func classify(err error) error {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return err
		}
	}

	return fmt.Errorf("%w: %v", models.ErrUnknown, err)
}
