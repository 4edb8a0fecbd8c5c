package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/moodlist/backend/models"
	"github.com/zmb3/spotify/v2"
)

const defaultRecommendationLimit = 24

// RecommendedTrack is one track from the recommender's single result page.
type RecommendedTrack struct {
	ID         spotify.ID
	Name       string
	Artist     string
	PreviewURL string
	ImageURL   string
}

// fetchRecommendations requests one page of recommended tracks for the seed
// set. An empty seed set is passed through: the service accepts it and
// returns non-personalized results.
func fetchRecommendations(ctx context.Context, client *spotify.Client, seeds *SeedSet, limit int) ([]RecommendedTrack, error) {
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}

	recommendations, err := client.GetRecommendations(ctx, spotify.Seeds{
		Artists: seeds.Artists,
		Genres:  seeds.Genres,
	}, nil, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrRecommendation, err)
	}

	tracks := make([]RecommendedTrack, 0, len(recommendations.Tracks))
	for _, track := range recommendations.Tracks {
		names := make([]string, 0, len(track.Artists))
		for _, artist := range track.Artists {
			names = append(names, artist.Name)
		}

		var imageURL string
		if len(track.Album.Images) > 0 {
			imageURL = track.Album.Images[0].URL
		}

		tracks = append(tracks, RecommendedTrack{
			ID:         track.ID,
			Name:       track.Name,
			Artist:     strings.Join(names, ", "),
			PreviewURL: track.PreviewURL,
			ImageURL:   imageURL,
		})
	}

	return tracks, nil
}
