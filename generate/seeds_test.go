package generate

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/moodlist/backend/models"
	"github.com/zmb3/spotify/v2"
)

type moodStub struct {
	line string
	err  error

	gotArtists []string
	gotGenres  []string
}

func (m *moodStub) PickSeeds(ctx context.Context, imageJPEG []byte, artistNames []string, genres []string) (string, error) {
	m.gotArtists = artistNames
	m.gotGenres = genres
	return m.line, m.err
}

func testNormalized() *Normalized {
	return &Normalized{Data: []byte("jpeg-bytes"), ContentType: "image/jpeg"}
}

func TestSeedResolver(t *testing.T) {
	t.Run("Random Policy", func(t *testing.T) {
		stub := defaultStub()
		client := newStubClient(t, stub)

		resolver := &SeedResolver{
			Policy: SeedPolicyRandom,
			Rand:   rand.New(rand.NewSource(7)),
		}

		seeds, err := resolver.Resolve(context.Background(), client, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(seeds.Artists) != MaxSeedArtists {
			t.Fatalf("expected %d seed artists, got %d", MaxSeedArtists, len(seeds.Artists))
		}

		page := map[spotify.ID]bool{}
		for _, artist := range stub.topArtists {
			page[spotify.ID(artist.ID)] = true
		}

		seen := map[spotify.ID]bool{}
		for _, id := range seeds.Artists {
			if seen[id] {
				t.Errorf("artist %s sampled twice", id)
			}
			seen[id] = true

			if !page[id] {
				t.Errorf("artist %s not on the top-artists page", id)
			}
		}

		if len(seeds.Genres) != len(DefaultSeedGenres) {
			t.Fatalf("expected default genres, got %v", seeds.Genres)
		}
		for i, genre := range DefaultSeedGenres {
			if seeds.Genres[i] != genre {
				t.Errorf("expected genre %s, got %s", genre, seeds.Genres[i])
			}
		}
	})

	t.Run("Random Policy With Short Page", func(t *testing.T) {
		stub := defaultStub()
		stub.topArtists = stub.topArtists[:2]
		client := newStubClient(t, stub)

		resolver := &SeedResolver{
			Policy: SeedPolicyRandom,
			Rand:   rand.New(rand.NewSource(7)),
		}

		seeds, err := resolver.Resolve(context.Background(), client, nil)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(seeds.Artists) != 2 {
			t.Errorf("expected 2 seed artists from a 2-entry page, got %d", len(seeds.Artists))
		}
	})

	t.Run("Top Artists Failure", func(t *testing.T) {
		stub := defaultStub()
		stub.failTopArtists = true
		client := newStubClient(t, stub)

		resolver := &SeedResolver{Policy: SeedPolicyRandom, Rand: rand.New(rand.NewSource(7))}

		_, err := resolver.Resolve(context.Background(), client, nil)
		if !errors.Is(err, models.ErrSeedResolution) {
			t.Errorf("expected ErrSeedResolution, got %v", err)
		}
	})

	t.Run("Vision Policy", func(t *testing.T) {
		stub := defaultStub()
		client := newStubClient(t, stub)

		mood := &moodStub{line: "Artist One, Artist Two, Imaginary Band, pop, not-a-genre"}
		resolver := &SeedResolver{Policy: SeedPolicyVision, Mood: mood}

		seeds, err := resolver.Resolve(context.Background(), client, testNormalized())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(mood.gotArtists) != len(stub.topArtists) {
			t.Errorf("expected all %d top artists offered to the model, got %d", len(stub.topArtists), len(mood.gotArtists))
		}

		// the unmatched name is discarded, never substituted
		want := []spotify.ID{"a1", "a2"}
		if len(seeds.Artists) != len(want) {
			t.Fatalf("expected artists %v, got %v", want, seeds.Artists)
		}
		for i, id := range want {
			if seeds.Artists[i] != id {
				t.Errorf("expected artist %s, got %s", id, seeds.Artists[i])
			}
		}

		if len(seeds.Genres) != 1 || seeds.Genres[0] != "pop" {
			t.Errorf("expected only the vocabulary genre to survive, got %v", seeds.Genres)
		}
	})

	t.Run("Vision Inference Failure", func(t *testing.T) {
		stub := defaultStub()
		client := newStubClient(t, stub)

		mood := &moodStub{err: errors.New("inference down")}
		resolver := &SeedResolver{Policy: SeedPolicyVision, Mood: mood}

		_, err := resolver.Resolve(context.Background(), client, testNormalized())
		if !errors.Is(err, models.ErrSeedResolution) {
			t.Errorf("expected ErrSeedResolution, got %v", err)
		}
	})
}

func TestSampleArtistIDs(t *testing.T) {
	artists := []spotify.FullArtist{}
	for _, id := range []string{"a1", "a2", "a3", "a4", "a5", "a6"} {
		artist := spotify.FullArtist{}
		artist.ID = spotify.ID(id)
		artists = append(artists, artist)
	}

	t.Run("Distinct Elements", func(t *testing.T) {
		for seed := int64(0); seed < 20; seed++ {
			ids := sampleArtistIDs(artists, 3, rand.New(rand.NewSource(seed)))

			if len(ids) != 3 {
				t.Fatalf("seed %d: expected 3 ids, got %d", seed, len(ids))
			}

			seen := map[spotify.ID]bool{}
			for _, id := range ids {
				if seen[id] {
					t.Errorf("seed %d: id %s sampled twice", seed, id)
				}
				seen[id] = true
			}
		}
	})

	t.Run("Sample Larger Than Population", func(t *testing.T) {
		ids := sampleArtistIDs(artists[:2], 3, rand.New(rand.NewSource(1)))
		if len(ids) != 2 {
			t.Errorf("expected 2 ids, got %d", len(ids))
		}
	})
}

func TestParseSeedLine(t *testing.T) {
	artists := []spotify.FullArtist{}
	for _, a := range []stubArtist{{"a1", "Artist One"}, {"a2", "Artist Two"}, {"a3", "Artist Three"}} {
		artist := spotify.FullArtist{}
		artist.ID = spotify.ID(a.ID)
		artist.Name = a.Name
		artists = append(artists, artist)
	}

	t.Run("Well-Formed Line", func(t *testing.T) {
		seeds := parseSeedLine("Artist One, Artist Three, Artist Two, jazz, chill", artists)

		if len(seeds.Artists) != 3 {
			t.Fatalf("expected 3 artists, got %v", seeds.Artists)
		}
		if len(seeds.Genres) != 2 {
			t.Fatalf("expected 2 genres, got %v", seeds.Genres)
		}
	})

	t.Run("Unknown Artist Tokens Are Dropped", func(t *testing.T) {
		seeds := parseSeedLine("Artist One, The Impostors, artist two, jazz, chill", artists)

		// "artist two" fails the exact match on purpose
		if len(seeds.Artists) != 1 || seeds.Artists[0] != "a1" {
			t.Errorf("expected only a1 to resolve, got %v", seeds.Artists)
		}
	})

	t.Run("Genres Outside The Vocabulary Are Dropped", func(t *testing.T) {
		seeds := parseSeedLine("Artist One, Artist Two, Artist Three, futurecore, chill", artists)

		if len(seeds.Genres) != 1 || seeds.Genres[0] != "chill" {
			t.Errorf("expected only chill to survive, got %v", seeds.Genres)
		}
	})

	t.Run("Short Line", func(t *testing.T) {
		seeds := parseSeedLine("Artist One", artists)

		if len(seeds.Artists) != 1 {
			t.Errorf("expected 1 artist, got %v", seeds.Artists)
		}
		if len(seeds.Genres) != 0 {
			t.Errorf("expected no genres, got %v", seeds.Genres)
		}
	})
}
