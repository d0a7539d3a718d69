// Package session keeps the images a user sent until they ask for the PDF.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/m3rciful/tgbots/core/logger"
)

var (
	// ErrEmpty is returned by Take when the user has no images.
	ErrEmpty = errors.New("no images in session")
	// ErrLimit is returned by Add once the session is full.
	ErrLimit = errors.New("session image limit reached")
)

// Store holds one session per user. Images live on disk under
// <root>/<user>/<uuid>.jpg in arrival order.
type Store struct {
	root string
	max  int

	mu       sync.Mutex
	sessions map[int64][]string
}

// New creates a store rooted at root. maxImages 0 means no limit.
func New(root string, maxImages int) *Store {
	return &Store{root: root, max: maxImages, sessions: make(map[int64][]string)}
}

func (s *Store) userDir(userID int64) string {
	return filepath.Join(s.root, strconv.FormatInt(userID, 10))
}

// Add saves a JPEG to the user's session, creating it on the first image,
// and returns the number of images now held.
func (s *Store) Add(userID int64, jpeg []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := s.sessions[userID]
	if s.max > 0 && len(files) >= s.max {
		return len(files), ErrLimit
	}
	dir := s.userDir(userID)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return len(files), fmt.Errorf("session dir: %w", err)
	}
	path := filepath.Join(dir, uuid.NewString()+".jpg")
	if err := os.WriteFile(path, jpeg, 0o600); err != nil {
		return len(files), fmt.Errorf("save image: %w", err)
	}
	s.sessions[userID] = append(files, path)
	return len(files) + 1, nil
}

// Count returns how many images the user has sent so far.
func (s *Store) Count(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions[userID])
}

// Batch is a session taken out of the store for PDF assembly.
type Batch struct {
	UserID int64
	Files  []string
	store  *Store
}

// Remove deletes the batch files and the user folder when no newer session
// is using it.
func (b Batch) Remove() error {
	var errs []error
	for _, f := range b.Files {
		if err := os.Remove(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	if b.store != nil {
		b.store.removeDir(b.UserID)
	}
	return errors.Join(errs...)
}

// removeDir drops the user folder under the store lock so a concurrent Add
// never loses its folder between MkdirAll and WriteFile.
func (s *Store) removeDir(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions[userID]) > 0 {
		return
	}
	_ = os.Remove(s.userDir(userID))
}

// Take ends the user's session and hands its images to the caller, who
// must Remove the batch when done. Images sent afterwards start a new session.
func (s *Store) Take(userID int64) (Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files := s.sessions[userID]
	if len(files) == 0 {
		return Batch{}, ErrEmpty
	}
	delete(s.sessions, userID)
	return Batch{UserID: userID, Files: files, store: s}, nil
}

// Cancel drops the user's session and its files. It returns how many images
// were discarded.
func (s *Store) Cancel(userID int64) (int, error) {
	b, err := s.Take(userID)
	if errors.Is(err, ErrEmpty) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return len(b.Files), b.Remove()
}

// Purge drops every session. It runs on shutdown.
func (s *Store) Purge() error {
	s.mu.Lock()
	users := make([]int64, 0, len(s.sessions))
	for id := range s.sessions {
		users = append(users, id)
	}
	s.mu.Unlock()

	var errs []error
	for _, id := range users {
		if _, err := s.Cancel(id); err != nil {
			errs = append(errs, err)
		}
	}
	if len(users) > 0 {
		logger.SVCPDF.Info("sessions purged",
			slog.String("event", "session.purge"),
			slog.Int("sessions", len(users)),
		)
	}
	return errors.Join(errs...)
}
