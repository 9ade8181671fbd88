// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history provides durable conversation persistence.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jar285/llmchat/internal/model"
	"github.com/jar285/llmchat/internal/util"
)

// ErrNotFound is returned by Load when no record exists for the id.
var ErrNotFound = errors.New("conversation not found")

// titleWords is how many leading words of the first user message become the
// auto-derived title.
const titleWords = 5

// =============================================================================
// STORED RECORD TYPES
// =============================================================================

// Record is the on-disk form of a conversation. The file is named <id>.json
// and the embedded id always agrees with the file name; the store rewrites
// it on every save.
type Record struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	SystemPrompt string          `json:"system_prompt,omitempty"`
	Created      string          `json:"created"`
	Updated      string          `json:"updated"`
	Messages     []model.Message `json:"messages"`
}

// Conversation rebuilds an in-memory Conversation from the record.
func (r *Record) Conversation() *model.Conversation {
	conv := model.NewConversation()
	conv.ID = r.ID
	conv.Title = r.Title
	conv.SystemPrompt = r.SystemPrompt
	if t, err := time.Parse(time.RFC3339, r.Created); err == nil {
		conv.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, r.Updated); err == nil {
		conv.UpdatedAt = t
	}
	conv.Messages = append(conv.Messages, r.Messages...)
	return conv
}

// Meta is the summary used for listing, derived from the full record.
type Meta struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Created      string `json:"created"`
	Updated      string `json:"updated"`
	MessageCount int    `json:"message_count"`
}

// =============================================================================
// STORE
// =============================================================================

// Store maps conversation identifiers to record files in a directory and
// keeps a process-local metadata cache for listing. A nil cache means it
// must be rebuilt from disk; every mutation resets it to nil unconditionally.
//
// The store assumes a single local process; there is no file locking, and
// concurrent external writers to the same id race last-writer-wins.
type Store struct {
	dir   string
	cache []Meta
}

// New creates a store rooted at the default per-user directory
// (~/.llmchat/history), creating it if needed.
func New() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not determine home directory: %w", err)
	}
	return NewWithDir(filepath.Join(home, ".llmchat", "history"))
}

// NewWithDir creates a store rooted at dir, creating the directory if needed.
func NewWithDir(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string {
	return s.dir
}

// filePath returns the record file path for a conversation id.
func (s *Store) filePath(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// =============================================================================
// SAVE
// =============================================================================

// Save writes the full record for a conversation, replacing any prior record
// with the same id, and returns the (possibly newly generated) id.
//
// An empty id synthesizes a fresh one. An empty title derives one from the
// first user message. The created timestamp is preserved from an existing
// record with the same id; updated is always set to now.
func (s *Store) Save(messages []model.Message, id, title, systemPrompt string) (string, error) {
	if id == "" {
		id = newConversationID()
	}
	if title == "" {
		title = deriveTitle(messages, id)
	}

	now := time.Now().Format(time.RFC3339Nano)
	created := now
	if prior, err := s.Load(id); err == nil {
		created = prior.Created
	}

	rec := Record{
		ID:           id,
		Title:        title,
		SystemPrompt: systemPrompt,
		Created:      created,
		Updated:      now,
		Messages:     messages,
	}
	if rec.Messages == nil {
		rec.Messages = []model.Message{}
	}

	if err := s.writeRecord(&rec); err != nil {
		return "", err
	}

	s.cache = nil

	log.Debug().Str("id", id).Int("messages", len(messages)).Msg("saved conversation")
	return id, nil
}

// SaveConversation persists an in-memory conversation and writes the assigned
// id back onto it.
func (s *Store) SaveConversation(conv *model.Conversation) (string, error) {
	id, err := s.Save(conv.Messages, conv.ID, conv.Title, conv.SystemPrompt)
	if err != nil {
		return "", err
	}
	conv.ID = id
	return id, nil
}

// writeRecord marshals and atomically writes a record to its file.
func (s *Store) writeRecord(rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode conversation %s: %w", rec.ID, err)
	}
	if err := util.AtomicWriteFile(s.filePath(rec.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write conversation %s: %w", rec.ID, err)
	}
	return nil
}

// newConversationID creates a fresh identifier. The timestamp prefix keeps
// ids roughly sorted by creation order; the random suffix removes the
// same-second collision window.
func newConversationID() string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return time.Now().Format("20060102_150405") + "_" + suffix
}

// deriveTitle builds a title from the first user message: its first few
// whitespace-delimited words, with an ellipsis marker when truncated.
// Without a user message the title falls back to a generic label.
func deriveTitle(messages []model.Message, id string) string {
	for _, msg := range messages {
		if msg.Role != model.RoleUser || msg.Content == "" {
			continue
		}
		words := strings.Fields(msg.Content)
		if len(words) <= titleWords {
			return strings.Join(words, " ")
		}
		return strings.Join(words[:titleWords], " ") + "..."
	}
	return "Conversation " + id
}

// =============================================================================
// LOAD
// =============================================================================

// Load retrieves the record for an id. Returns ErrNotFound if no record
// exists. The listing cache is not touched.
func (s *Store) Load(id string) (*Record, error) {
	data, err := os.ReadFile(s.filePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read conversation %s: %w", id, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse conversation %s: %w", id, err)
	}

	return &rec, nil
}

// =============================================================================
// LIST
// =============================================================================

// List returns metadata for every stored conversation, newest first by
// creation time. The populated cache is returned as-is unless forceRefresh
// is set; otherwise the directory is scanned and the cache rebuilt. Records
// that fail to parse are skipped with a logged warning so one corrupt file
// cannot hide the rest of the history.
func (s *Store) List(forceRefresh bool) ([]Meta, error) {
	if s.cache != nil && !forceRefresh {
		return s.cache, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			s.cache = []Meta{}
			return s.cache, nil
		}
		return nil, fmt.Errorf("failed to scan history directory: %w", err)
	}

	metas := make([]Meta, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		rec, err := s.Load(id)
		if err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping unreadable conversation record")
			continue
		}

		if rec.ID == "" {
			rec.ID = id
		}
		if rec.Title == "" {
			rec.Title = "Unnamed Conversation"
		}

		metas = append(metas, Meta{
			ID:           rec.ID,
			Title:        rec.Title,
			Created:      rec.Created,
			Updated:      rec.Updated,
			MessageCount: len(rec.Messages),
		})
	}

	// Newest first. Unparseable created timestamps sort to the end.
	sort.SliceStable(metas, func(i, j int) bool {
		return parseListTime(metas[i].Created).After(parseListTime(metas[j].Created))
	})

	s.cache = metas
	return s.cache, nil
}

// parseListTime parses a record timestamp for sort order, zero on failure.
func parseListTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// =============================================================================
// DELETE
// =============================================================================

// Delete removes the record for an id. Returns whether a record was actually
// removed; deleting a nonexistent id is not an error.
func (s *Store) Delete(id string) (bool, error) {
	if err := os.Remove(s.filePath(id)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete conversation %s: %w", id, err)
	}

	s.cache = nil

	log.Debug().Str("id", id).Msg("deleted conversation")
	return true, nil
}

// =============================================================================
// RENAME
// =============================================================================

// Rename updates the title of an existing record and rewrites it in full.
// Returns false without error when no record exists for the id. The store
// does not validate the new title; callers reject empty titles.
func (s *Store) Rename(id, newTitle string) (bool, error) {
	rec, err := s.Load(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	rec.Title = newTitle
	rec.Updated = time.Now().Format(time.RFC3339Nano)

	if err := s.writeRecord(rec); err != nil {
		return false, err
	}

	s.cache = nil

	log.Debug().Str("id", id).Str("title", newTitle).Msg("renamed conversation")
	return true, nil
}
