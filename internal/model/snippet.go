package model

import (
	"time"

	"github.com/codavaulta/snippet-vault/internal/timefmt"
)

// Snippet represents a saved code snippet owned by exactly one user.
//
// Language is stored already normalized (lower-case, member of the accepted
// set). UserID is set at creation and never changes; the database enforces
// the reference and cascade-deletes snippets when the owner is deleted.
type Snippet struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Code        string    `json:"code"`
	Language    string    `json:"language"`
	Description string    `json:"description"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SnippetView is the list/read projection of a Snippet. Timestamps are
// rendered human-readable ("12th May 2024 at 22:45") for display.
type SnippetView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Code        string `json:"code"`
	Language    string `json:"language"`
	Description string `json:"description"`
	UserID      string `json:"userId"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// ToView returns the display projection of the snippet.
func (s *Snippet) ToView() SnippetView {
	return SnippetView{
		ID:          s.ID,
		Title:       s.Title,
		Code:        s.Code,
		Language:    s.Language,
		Description: s.Description,
		UserID:      s.UserID,
		CreatedAt:   timefmt.Format(s.CreatedAt),
		UpdatedAt:   timefmt.Format(s.UpdatedAt),
	}
}
