package generate

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/zmb3/spotify/v2"
)

type stubArtist struct {
	ID   string
	Name string
}

// spotifyStub is an in-process stand-in for the music service API.
type spotifyStub struct {
	mu    sync.Mutex
	calls map[string]int

	topArtists []stubArtist
	trackIDs   []string

	failTopArtists bool
	failCreate     bool
	failCover      bool
	failRecommend  bool
	failAddTracks  bool
}

func defaultStub() *spotifyStub {
	return &spotifyStub{
		calls: make(map[string]int),
		topArtists: []stubArtist{
			{ID: "a1", Name: "Artist One"},
			{ID: "a2", Name: "Artist Two"},
			{ID: "a3", Name: "Artist Three"},
			{ID: "a4", Name: "Artist Four"},
			{ID: "a5", Name: "Artist Five"},
		},
		trackIDs: []string{"t1", "t2", "t3"},
	}
}

func (s *spotifyStub) record(endpoint string) {
	s.mu.Lock()
	s.calls[endpoint]++
	s.mu.Unlock()
}

func (s *spotifyStub) callCount(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[endpoint]
}

func (s *spotifyStub) totalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

func (s *spotifyStub) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		fail := func() {
			http.Error(w, `{"error":{"status":500,"message":"boom"}}`, http.StatusInternalServerError)
		}

		switch {
		case path == "/me/top/artists":
			s.record("top-artists")
			if s.failTopArtists {
				fail()
				return
			}

			items := make([]map[string]any, 0, len(s.topArtists))
			for _, artist := range s.topArtists {
				items = append(items, map[string]any{"id": artist.ID, "name": artist.Name})
			}
			json.NewEncoder(w).Encode(map[string]any{"items": items, "total": len(items)})

		case strings.HasPrefix(path, "/users/") && strings.HasSuffix(path, "/playlists"):
			s.record("create-playlist")
			if s.failCreate {
				fail()
				return
			}

			json.NewEncoder(w).Encode(map[string]any{
				"id":            "remote-pl-1",
				"name":          "stub",
				"external_urls": map[string]string{"spotify": "https://open.spotify.com/playlist/remote-pl-1"},
			})

		case strings.HasPrefix(path, "/playlists/") && strings.HasSuffix(path, "/images"):
			s.record("cover-upload")
			if s.failCover {
				fail()
				return
			}
			w.WriteHeader(http.StatusAccepted)

		case path == "/recommendations":
			s.record("recommendations")
			if s.failRecommend {
				fail()
				return
			}

			tracks := make([]map[string]any, 0, len(s.trackIDs))
			for i, id := range s.trackIDs {
				tracks = append(tracks, map[string]any{
					"id":          id,
					"name":        fmt.Sprintf("Track %d", i+1),
					"uri":         "spotify:track:" + id,
					"preview_url": "https://p.scdn.co/mp3-preview/" + id,
					"artists":     []map[string]any{{"name": "Artist One"}},
					"album": map[string]any{
						"images": []map[string]any{{"url": "https://i.scdn.co/image/" + id}},
					},
				})
			}
			json.NewEncoder(w).Encode(map[string]any{"seeds": []any{}, "tracks": tracks})

		case strings.HasPrefix(path, "/playlists/") && strings.HasSuffix(path, "/tracks"):
			s.record("add-tracks")
			if s.failAddTracks {
				fail()
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"snapshot_id": "snap-1"})

		default:
			http.NotFound(w, r)
		}
	})
}

func newStubClient(t *testing.T, stub *spotifyStub) *spotify.Client {
	t.Helper()

	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)

	return spotify.New(server.Client(), spotify.WithBaseURL(server.URL+"/"))
}
