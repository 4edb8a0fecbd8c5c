package app

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/gorilla/sessions"
	"github.com/gorilla/websocket"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	spotifyauth "github.com/zmb3/spotify/v2/auth"

	"github.com/moodlist/backend/generate"
	"github.com/moodlist/backend/models"
	"github.com/moodlist/backend/moodai"
	"github.com/moodlist/backend/store"
)

type Application struct {
	CookieStore *sessions.CookieStore

	SpotifyRedirectPath string
	Authenticator       *spotifyauth.Authenticator

	UserStore       store.UserStore
	PlaylistStore   store.PlaylistStore
	SongStore       store.SongStore
	InPlaylistStore store.InPlaylistStore
	TokenStore      store.TokenStore

	Generator *generate.Generator

	Upgrader websocket.Upgrader

	mu          sync.Mutex
	generations map[string]chan models.GenerationUpdate
}

func NewApplication() (*Application, error) {
	db := createSQLDB()

	rc := createRedisClient()

	minioServerAddr := os.Getenv("MINIO_SERVER_ADDR")
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	minioBucketName := os.Getenv("MINIO_BUCKET_NAME")

	minioClient, err := minio.New(minioServerAddr, &minio.Options{
		Creds: credentials.NewStaticV4(minioAccessKey, minioSecretKey, ""),
	})
	if err != nil {
		return nil, err
	}

	userStore := store.NewUserStore(db)
	playlistStore := store.NewPlaylistStore(db)
	songStore := store.NewSongStore(db)
	inPlaylistStore := store.NewInPlaylistStore(db)

	for _, createTable := range []func() error{
		userStore.CreateTable,
		playlistStore.CreateTable,
		songStore.CreateTable,
		inPlaylistStore.CreateTable,
	} {
		if err := createTable(); err != nil {
			return nil, err
		}
	}

	policy := generate.SeedPolicy(os.Getenv("SEED_POLICY"))
	if policy == "" {
		policy = generate.SeedPolicyRandom
	}

	var mood generate.MoodClient
	if policy == generate.SeedPolicyVision {
		mood = moodai.NewClient(moodai.Config{
			BaseURL: os.Getenv("MOODAI_URL"),
			Model:   os.Getenv("MOODAI_MODEL"),
			APIKey:  os.Getenv("MOODAI_API_KEY"),
		})
	}

	generator := &generate.Generator{
		Seeds: &generate.SeedResolver{
			Policy:          policy,
			TopArtistsLimit: envInt("TOP_ARTISTS_LIMIT", 0),
			Mood:            mood,
		},
		Persister: &generate.Persister{
			Objects:    store.NewMinioObjectStore(minioClient, minioBucketName),
			Playlists:  playlistStore,
			Songs:      songStore,
			InPlaylist: inPlaylistStore,
		},
		RecommendationLimit: envInt("RECOMMENDATION_LIMIT", 0),
	}

	return &Application{
		CookieStore: sessions.NewCookieStore([]byte(os.Getenv("SECRET"))),

		SpotifyRedirectPath: os.Getenv("REDIRECT_PATH"),
		Authenticator: spotifyauth.New(
			spotifyauth.WithRedirectURL(fmt.Sprintf("http://%s%s", os.Getenv("ADDR"), os.Getenv("REDIRECT_PATH"))),
			spotifyauth.WithScopes(
				spotifyauth.ScopeUserReadPrivate,
				spotifyauth.ScopeUserTopRead,
				spotifyauth.ScopePlaylistModifyPublic,
				spotifyauth.ScopePlaylistModifyPrivate,
				spotifyauth.ScopeImageUpload,
			),
			spotifyauth.WithClientID(os.Getenv("CLIENT_ID")),
			spotifyauth.WithClientSecret(os.Getenv("CLIENT_SECRET")),
		),

		UserStore:       userStore,
		PlaylistStore:   playlistStore,
		SongStore:       songStore,
		InPlaylistStore: inPlaylistStore,
		TokenStore:      store.NewTokenStore(rc, "oauth_tokens"),

		Generator: generator,

		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},

		generations: make(map[string]chan models.GenerationUpdate),
	}, nil
}

func envInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}

	return value
}
