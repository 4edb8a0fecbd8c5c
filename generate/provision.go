package generate

import (
	"bytes"
	"context"
	"fmt"

	"github.com/moodlist/backend/models"
	"github.com/zmb3/spotify/v2"
)

// RemotePlaylist references a playlist created on the music service. Later
// steps hold on to the id only; the remote object is never owned.
type RemotePlaylist struct {
	ID  spotify.ID
	URL string
}

// createRemotePlaylist creates the playlist on the music service. Not
// idempotent: calling twice creates two playlists.
func createRemotePlaylist(ctx context.Context, client *spotify.Client, ownerID string, req models.GenerationRequest) (*RemotePlaylist, error) {
	playlist, err := client.CreatePlaylistForUser(ctx, ownerID, req.Title, req.Description, req.Public, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrPlaylistCreate, err)
	}

	return &RemotePlaylist{
		ID:  playlist.ID,
		URL: playlist.ExternalURLs["spotify"],
	}, nil
}

// uploadCover sets the playlist's cover image. Callers treat a failure as a
// warning, not an abort; the playlist is usable without a cover.
func uploadCover(ctx context.Context, client *spotify.Client, playlistID spotify.ID, img *Normalized) error {
	return client.SetPlaylistImage(ctx, playlistID, bytes.NewReader(img.Data))
}

// addTracksToRemote appends the recommended tracks to the remote playlist.
func addTracksToRemote(ctx context.Context, client *spotify.Client, playlistID spotify.ID, tracks []RecommendedTrack) error {
	if len(tracks) == 0 {
		return nil
	}

	ids := make([]spotify.ID, 0, len(tracks))
	for _, track := range tracks {
		ids = append(ids, track.ID)
	}

	if _, err := client.AddTracksToPlaylist(ctx, playlistID, ids...); err != nil {
		return fmt.Errorf("%w: adding tracks: %v", models.ErrPlaylistCreate, err)
	}

	return nil
}
