// Package file persists one JSON document per session under a local
// directory. The directory listing doubles as the session index.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mobilindo/lapor-assistant/internal/domain"
)

type Store struct {
	dir    string
	logger zerolog.Logger
}

// NewStore creates a session store rooted at dir, creating it if needed.
func NewStore(dir string, logger zerolog.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.New("sessions directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating sessions directory: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

func (s *Store) Create(seedMessage string) *domain.Session {
	return domain.NewSession(seedMessage)
}

// validateID rejects ids that would escape the sessions directory.
func validateID(id domain.SessionID) error {
	v := string(id)
	if v == "" {
		return errors.New("session id cannot be empty")
	}
	if strings.Contains(v, "..") || strings.ContainsAny(v, "/\\") || strings.Contains(v, "\x00") {
		return fmt.Errorf("session id %q contains path elements", v)
	}
	return nil
}

func (s *Store) sessionPath(id domain.SessionID) string {
	return filepath.Join(s.dir, string(id)+".json")
}

func (s *Store) Load(id domain.SessionID) (*domain.Session, error) {
	if err := validateID(id); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionNotFound, err)
	}

	data, err := os.ReadFile(s.sessionPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("reading session %s: %w", id, err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSessionCorrupt, id, err)
	}
	if err := sess.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrSessionCorrupt, id, err)
	}
	if sess.Messages == nil {
		sess.Messages = []domain.Turn{}
	}

	return &sess, nil
}

// Save replaces the record for session.ID. The write goes to a temp file in
// the same directory and is renamed into place, so a concurrent Load or List
// never sees truncated JSON.
func (s *Store) Save(session *domain.Session) error {
	if err := validateID(session.ID); err != nil {
		return err
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session %s: %w", session.ID, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("saving session %s: %w", session.ID, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("saving session %s: %w", session.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("saving session %s: %w", session.ID, err)
	}
	if err := os.Rename(tmpName, s.sessionPath(session.ID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("saving session %s: %w", session.ID, err)
	}

	return nil
}

// List returns summaries for every stored session in reverse filename order,
// a recency proxy given how ids are generated. Files that fail to parse are
// logged and skipped.
func (s *Store) List() ([]domain.SessionSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	summaries := make([]domain.SessionSummary, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			s.logger.Warn().Err(err).Str("file", name).Msg("could not read session file, skipping")
			continue
		}

		var sess domain.Session
		if err := json.Unmarshal(data, &sess); err != nil || sess.ID == "" {
			s.logger.Warn().Err(err).Str("file", name).Msg("could not parse session file, skipping")
			continue
		}

		summaries = append(summaries, domain.SessionSummary{ID: sess.ID, Title: sess.Title})
	}

	return summaries, nil
}
