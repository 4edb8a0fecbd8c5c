package models

type GenerationStartedResponse struct {
	GenerationID string `json:"generation_id"`
}

// GenerationUpdate is one message on a generation's status stream. Terminal
// updates carry either the finished playlist or an error message; warnings
// may arrive after the terminal update (detached cover upload).
type GenerationUpdate struct {
	State    string           `json:"state"`
	Warning  string           `json:"warning,omitempty"`
	Error    string           `json:"error,omitempty"`
	Playlist *PlaylistDBModel `json:"playlist,omitempty"`
}

type PlaylistDetailResponse struct {
	Playlist PlaylistDBModel `json:"playlist"`
	Songs    []SongDBModel   `json:"songs"`
}
