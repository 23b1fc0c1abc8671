package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"fumibako/internal/model"
)

// createdAtLayout は created_at フィールドの表示用フォーマット
const createdAtLayout = "2006-01-02 15:04:05"

// Store owns the on-disk message collection. The backing storage is a single
// JSON file rewritten in full on every mutation, so the read-modify-write
// sequence of each operation runs under one lock.
type Store struct {
	mu          sync.Mutex
	path        string
	maxMessages int

	now func() time.Time
}

// Open returns a Store backed by the file at path, creating the file with an
// empty collection if it does not exist. maxMessages is the retention bound
// enforced after every Append.
func Open(path string, maxMessages int) (*Store, error) {
	s := &Store{
		path:        path,
		maxMessages: maxMessages,
		now:         time.Now,
	}

	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to stat messages file: %w", err)
		}
		if err := s.save([]model.Message{}); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Append constructs a Message from fields, assigns a fresh id and the current
// timestamp, inserts it and persists the collection. The retention bound is
// enforced on the same write, so the store never holds more than maxMessages
// after a successful Append.
func (s *Store) Append(fields model.MessageFields) (model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, err := s.load()
	if err != nil {
		return model.Message{}, err
	}

	now := s.now()
	msg := model.Message{
		ID:        uuid.NewString(),
		FullName:  fields.FullName,
		Email:     fields.Email,
		Position:  fields.Position,
		Message:   fields.Message,
		Timestamp: now,
		CreatedAt: now.Format(createdAtLayout),
	}

	messages = retain(append(messages, msg), s.maxMessages)

	if err := s.save(messages); err != nil {
		return model.Message{}, err
	}

	return msg, nil
}

// List returns all stored messages ordered newest first. Read-only.
func (s *Store) List() ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, err := s.load()
	if err != nil {
		return nil, err
	}

	return sortNewestFirst(messages), nil
}

// Delete removes the message with the given id if present and reports whether
// a deletion occurred. An absent id is not an error.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, err := s.load()
	if err != nil {
		return false, err
	}

	remaining := lo.Filter(messages, func(m model.Message, _ int) bool {
		return m.ID != id
	})
	if len(remaining) == len(messages) {
		return false, nil
	}

	if err := s.save(remaining); err != nil {
		return false, err
	}

	return true, nil
}

// Cleanup discards all but the keep most recent messages and returns the
// resulting count. When the collection is already within bound nothing is
// written, so repeated calls with the same keep are no-ops.
func (s *Store) Cleanup(keep int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, err := s.load()
	if err != nil {
		return 0, err
	}

	if len(messages) <= keep {
		return len(messages), nil
	}

	messages = retain(messages, keep)
	if err := s.save(messages); err != nil {
		return 0, err
	}

	return len(messages), nil
}

// Count returns the number of stored messages
func (s *Store) Count() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, err := s.load()
	if err != nil {
		return 0, err
	}

	return len(messages), nil
}

// load reads the full collection from disk. A missing file is an empty
// collection; any other failure is a storage error and must abort the
// operation before anything is written back.
func (s *Store) load() ([]model.Message, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.Message{}, nil
		}
		return nil, fmt.Errorf("failed to read messages file: %w", err)
	}

	var messages []model.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages file: %w", err)
	}

	return messages, nil
}

// save rewrites the full collection through a temp file and rename so an
// interrupted write cannot leave a half-written file behind
func (s *Store) save(messages []model.Message) error {
	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode messages: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write messages file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace messages file: %w", err)
	}

	return nil
}

// retain keeps the keep most recent messages
func retain(messages []model.Message, keep int) []model.Message {
	sorted := sortNewestFirst(messages)
	if len(sorted) > keep {
		sorted = sorted[:keep]
	}
	return sorted
}

// sortNewestFirst returns a copy ordered by timestamp descending. The sort is
// stable so messages sharing a timestamp stay in insertion order.
func sortNewestFirst(messages []model.Message) []model.Message {
	sorted := make([]model.Message, len(messages))
	copy(sorted, messages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	return sorted
}
