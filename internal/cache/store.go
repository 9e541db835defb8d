package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/wonny/tickerpulse/internal/contracts"
	"github.com/wonny/tickerpulse/pkg/logger"
)

// Store provides typed exists / load / save over a Backend.
// Every failure it returns is an *Error.
// ⭐ SSOT: 캐시 artifact 직렬화는 여기서만
type Store struct {
	backend Backend
	logger  *logger.Logger
}

// NewStore creates a typed store
func NewStore(backend Backend, log *logger.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  log.Component("cache").WithField("backend", backend.Name()),
	}
}

// Backend returns the underlying backend name
func (s *Store) Backend() string {
	return s.backend.Name()
}

// Exists reports whether an artifact has been written
func (s *Store) Exists(ctx context.Context, a Artifact) (bool, error) {
	ok, err := s.backend.Exists(ctx, a)
	if err != nil {
		return false, readErr(a, err)
	}
	return ok, nil
}

// LoadPosts returns the cached posts; found is false when the artifact is absent
func (s *Store) LoadPosts(ctx context.Context) (posts []contracts.Post, found bool, err error) {
	data, found, err := s.read(ctx, ArtifactPosts)
	if err != nil || !found {
		return nil, found, err
	}

	posts, err = DecodePosts(data)
	if err != nil {
		return nil, true, readErr(ArtifactPosts, err)
	}
	return posts, true, nil
}

// SavePosts overwrites the posts artifact
func (s *Store) SavePosts(ctx context.Context, posts []contracts.Post) error {
	data, err := EncodePosts(posts)
	if err != nil {
		return writeErr(ArtifactPosts, err)
	}
	return s.write(ctx, ArtifactPosts, data, len(posts))
}

// LoadSignals returns the cached signal set
func (s *Store) LoadSignals(ctx context.Context) (contracts.SignalSet, bool, error) {
	var set contracts.SignalSet
	found, err := s.loadJSON(ctx, ArtifactSignals, &set)
	if err != nil || !found {
		return contracts.SignalSet{}, found, err
	}
	set.Normalize()
	return set, true, nil
}

// SaveSignals overwrites the signals artifact
func (s *Store) SaveSignals(ctx context.Context, set contracts.SignalSet) error {
	set.Normalize()
	return s.saveJSON(ctx, ArtifactSignals, set, len(set.IndustrySignals))
}

// LoadHistorical returns the cached ledger
func (s *Store) LoadHistorical(ctx context.Context) (contracts.HistoricalLedger, bool, error) {
	var l contracts.HistoricalLedger
	found, err := s.loadJSON(ctx, ArtifactHistorical, &l)
	if err != nil || !found {
		return contracts.HistoricalLedger{}, found, err
	}
	if l.Data == nil {
		l.Data = []contracts.HistoricalDayRecord{}
	}
	return l, true, nil
}

// SaveHistorical overwrites the historical artifact
func (s *Store) SaveHistorical(ctx context.Context, l contracts.HistoricalLedger) error {
	if l.Data == nil {
		l.Data = []contracts.HistoricalDayRecord{}
	}
	return s.saveJSON(ctx, ArtifactHistorical, l, len(l.Data))
}

func (s *Store) read(ctx context.Context, a Artifact) ([]byte, bool, error) {
	data, err := s.backend.Read(ctx, a)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, readErr(a, err)
	}
	return data, true, nil
}

func (s *Store) write(ctx context.Context, a Artifact, data []byte, count int) error {
	if err := s.backend.Write(ctx, a, data); err != nil {
		return writeErr(a, err)
	}

	s.logger.WithFields(map[string]interface{}{
		"artifact": a,
		"count":    count,
		"bytes":    len(data),
	}).Debug("Artifact written")
	return nil
}

func (s *Store) loadJSON(ctx context.Context, a Artifact, dest interface{}) (bool, error) {
	data, found, err := s.read(ctx, a)
	if err != nil || !found {
		return found, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return true, readErr(a, err)
	}
	return true, nil
}

func (s *Store) saveJSON(ctx context.Context, a Artifact, value interface{}, count int) error {
	data, err := json.Marshal(value)
	if err != nil {
		return writeErr(a, err)
	}
	return s.write(ctx, a, data, count)
}
