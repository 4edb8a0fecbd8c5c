package generate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/moodlist/backend/models"
	"github.com/moodlist/backend/store"
)

// Persister writes the playlist row, its songs and the playlist-song
// associations after the remote playlist exists.
type Persister struct {
	Objects    store.ObjectStore
	Playlists  store.PlaylistStore
	Songs      store.SongStore
	InPlaylist store.InPlaylistStore
}

// Persist uploads the cover image to object storage and writes the playlist,
// song and association rows. A storage failure aborts before any row is
// written; a playlist-row failure aborts before any song write. Song and
// association writes fan out concurrently; the first failure is reported
// after all of them have been attempted, and succeeded writes stay in place.
func (p *Persister) Persist(ctx context.Context, ownerID string, req models.GenerationRequest, img *Normalized, remote *RemotePlaylist, tracks []RecommendedTrack) (*models.PlaylistDBModel, error) {
	// uuid suffix avoids key collisions between uploads of identical bytes
	key := fmt.Sprintf("images-%s-%s", req.Title, uuid.NewString())

	if err := p.Objects.Put(ctx, key, img.Data, img.ContentType); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStorageUpload, err)
	}

	playlist := models.PlaylistDBModel{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Public:      req.Public,
		Title:       req.Title,
		Description: req.Description,
		ImagePath:   key,
		PlaylistURL: remote.URL,
		CreatedAt:   time.Now(),
	}

	if err := p.Playlists.Upsert(playlist); err != nil {
		return nil, fmt.Errorf("%w: playlist row: %v", models.ErrPersistence, err)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for _, track := range tracks {
		wg.Add(1)

		go func(t RecommendedTrack) {
			defer wg.Done()

			err := p.Songs.Upsert(models.SongDBModel{
				ID:         string(t.ID),
				Title:      t.Name,
				Artist:     t.Artist,
				PreviewURL: t.PreviewURL,
				ImageURL:   t.ImageURL,
			})
			if err == nil {
				err = p.InPlaylist.Create(models.InPlaylistDBModel{
					SongID:     string(t.ID),
					PlaylistID: playlist.ID,
				})
			}

			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(track)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrPersistence, firstErr)
	}

	return &playlist, nil
}
