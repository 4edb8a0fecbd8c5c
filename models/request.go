package models

import "fmt"

// GenerationRequest is the ephemeral input of one playlist generation. It is
// never persisted; the workflow consumes it and discards it.
type GenerationRequest struct {
	Title       string
	Description string
	Public      bool
	FileName    string
	Image       []byte
}

func (r GenerationRequest) Validate() error {
	if r.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}

	if len(r.Image) == 0 {
		return fmt.Errorf("%w: image is required", ErrValidation)
	}

	return nil
}
