package generate

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/moodlist/backend/models"
	"github.com/zmb3/spotify/v2"
)

// SeedPolicy selects how recommendation seeds are derived. A deployment runs
// exactly one policy; the two are never mixed within a run.
type SeedPolicy string

const (
	// SeedPolicyRandom samples seed artists uniformly from the user's top
	// artists and pairs them with the fixed default genres.
	SeedPolicyRandom SeedPolicy = "random"
	// SeedPolicyVision asks the inference service to choose artists and
	// genres that match the uploaded photo.
	SeedPolicyVision SeedPolicy = "vision"
)

const (
	MaxSeedArtists = 3
	MaxSeedGenres  = 2

	defaultTopArtistsLimitRandom = 20
	defaultTopArtistsLimitVision = 15
)

// SeedSet holds the artist ids and genre tags for one recommendation
// request. It is consumed exactly once.
type SeedSet struct {
	Artists []spotify.ID
	Genres  []string
}

// MoodClient is the slice of the inference service the vision policy needs.
type MoodClient interface {
	PickSeeds(ctx context.Context, imageJPEG []byte, artistNames []string, genres []string) (string, error)
}

// SeedResolver derives the SeedSet for a generation run.
type SeedResolver struct {
	Policy          SeedPolicy
	TopArtistsLimit int
	Mood            MoodClient
	Rand            *rand.Rand
}

func (sr *SeedResolver) limit() int {
	if sr.TopArtistsLimit > 0 {
		return sr.TopArtistsLimit
	}
	if sr.Policy == SeedPolicyVision {
		return defaultTopArtistsLimitVision
	}
	return defaultTopArtistsLimitRandom
}

// Resolve fetches the caller's top artists and applies the configured
// policy. Any failure along the way aborts seed resolution.
func (sr *SeedResolver) Resolve(ctx context.Context, client *spotify.Client, img *Normalized) (*SeedSet, error) {
	top, err := client.CurrentUsersTopArtists(ctx, spotify.Limit(sr.limit()))
	if err != nil {
		return nil, fmt.Errorf("%w: fetching top artists: %v", models.ErrSeedResolution, err)
	}

	if sr.Policy == SeedPolicyVision {
		return sr.resolveFromImage(ctx, top.Artists, img)
	}

	return sr.resolveRandom(top.Artists), nil
}

func (sr *SeedResolver) resolveRandom(artists []spotify.FullArtist) *SeedSet {
	rnd := sr.Rand
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &SeedSet{
		Artists: sampleArtistIDs(artists, MaxSeedArtists, rnd),
		Genres:  append([]string(nil), DefaultSeedGenres...),
	}
}

// sampleArtistIDs picks n distinct artists uniformly without replacement
// using a partial Fisher-Yates shuffle.
func sampleArtistIDs(artists []spotify.FullArtist, n int, rnd *rand.Rand) []spotify.ID {
	idx := make([]int, len(artists))
	for i := range idx {
		idx[i] = i
	}

	if n > len(idx) {
		n = len(idx)
	}

	ids := make([]spotify.ID, 0, n)
	for i := 0; i < n; i++ {
		j := i + rnd.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		ids = append(ids, artists[idx[i]].ID)
	}

	return ids
}

func (sr *SeedResolver) resolveFromImage(ctx context.Context, artists []spotify.FullArtist, img *Normalized) (*SeedSet, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: vision policy needs a normalized image", models.ErrSeedResolution)
	}

	names := make([]string, 0, len(artists))
	for _, artist := range artists {
		names = append(names, artist.Name)
	}

	line, err := sr.Mood.PickSeeds(ctx, img.Data, names, SeedGenres)
	if err != nil {
		return nil, fmt.Errorf("%w: inference call: %v", models.ErrSeedResolution, err)
	}

	return parseSeedLine(line, artists), nil
}

// parseSeedLine splits the model's comma-separated answer into artist names
// and genre tags. The first three tokens are treated as artist names and
// resolved back to ids by exact match against the fetched list; tokens that
// match nothing are discarded. The remaining tokens are genre tags, kept
// only when they belong to the fixed vocabulary.
func parseSeedLine(line string, artists []spotify.FullArtist) *SeedSet {
	byName := make(map[string]spotify.ID, len(artists))
	for _, artist := range artists {
		byName[artist.Name] = artist.ID
	}

	seeds := &SeedSet{}
	for i, token := range strings.Split(line, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}

		if i < MaxSeedArtists {
			if id, ok := byName[token]; ok {
				seeds.Artists = append(seeds.Artists, id)
			}
			continue
		}

		if len(seeds.Genres) < MaxSeedGenres && IsSeedGenre(token) {
			seeds.Genres = append(seeds.Genres, token)
		}
	}

	return seeds
}
