package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/neo-hazard/internal/domain/prediction"
	apperrors "github.com/yanqian/neo-hazard/pkg/errors"
)

// Service owns one resolver and controller per client session.
type Service interface {
	Create(ctx context.Context) (Snapshot, error)
	Get(ctx context.Context, id string) (Snapshot, error)
	Delete(ctx context.Context, id string) error
	SetMode(ctx context.Context, id, mode string) (Snapshot, error)
	SetField(ctx context.Context, id, field, value string) (Snapshot, error)
	Submit(ctx context.Context, id string) (Snapshot, error)
	Sweep(ctx context.Context) int
}

type entry struct {
	id         string
	resolver   *prediction.Resolver
	controller *prediction.Controller
	createdAt  time.Time
	lastSeen   time.Time
}

type service struct {
	cfg        Config
	classifier prediction.Classifier
	recorder   prediction.Recorder
	logger     *slog.Logger
	now        func() time.Time
	newID      func() string

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewService wires the session registry.
func NewService(cfg Config, classifier prediction.Classifier, recorder prediction.Recorder, logger *slog.Logger) Service {
	return &service{
		cfg:        cfg,
		classifier: classifier,
		recorder:   recorder,
		logger:     logger.With("component", "session.service"),
		now:        time.Now,
		newID:      uuid.NewString,
		sessions:   make(map[string]*entry),
	}
}

func (s *service) Create(ctx context.Context) (Snapshot, error) {
	now := s.now()
	s.mu.Lock()
	s.sweepLocked(now)
	if s.cfg.MaxSessions > 0 && len(s.sessions) >= s.cfg.MaxSessions {
		s.mu.Unlock()
		return Snapshot{}, apperrors.Wrap(CodeLimit, "too many active sessions, try again later", nil)
	}
	e := &entry{
		id:         s.newID(),
		resolver:   prediction.NewResolver(),
		controller: prediction.NewController(s.classifier, s.logger, prediction.WithRecorder(s.recorder)),
		createdAt:  now,
		lastSeen:   now,
	}
	s.sessions[e.id] = e
	s.mu.Unlock()

	s.logger.Info("session created", "session_id", e.id)
	return s.snapshot(e), nil
}

func (s *service) Get(ctx context.Context, id string) (Snapshot, error) {
	e, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(e), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return notFound(id)
	}
	delete(s.sessions, id)
	return nil
}

func (s *service) SetMode(ctx context.Context, id, mode string) (Snapshot, error) {
	e, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	parsed, err := prediction.ParseInputMode(mode)
	if err != nil {
		return Snapshot{}, err
	}
	if err := e.resolver.SetMode(parsed); err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(e), nil
}

func (s *service) SetField(ctx context.Context, id, field, value string) (Snapshot, error) {
	e, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	if field == FieldID {
		e.resolver.SetIDField(value)
	} else if err := e.resolver.SetManualField(prediction.Field(field), value); err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(e), nil
}

func (s *service) Submit(ctx context.Context, id string) (Snapshot, error) {
	e, err := s.lookup(id)
	if err != nil {
		return Snapshot{}, err
	}
	if err := e.controller.Submit(ctx, e.resolver); err != nil {
		return Snapshot{}, err
	}
	s.logger.Info("prediction submitted", "session_id", id, "mode", e.resolver.Mode())
	return s.snapshot(e), nil
}

// Sweep evicts idle sessions that have no request outstanding.
func (s *service) Sweep(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

func (s *service) sweepLocked(now time.Time) int {
	if s.cfg.IdleTTL <= 0 {
		return 0
	}
	evicted := 0
	for id, e := range s.sessions {
		if now.Sub(e.lastSeen) <= s.cfg.IdleTTL {
			continue
		}
		if e.controller.State().Status == prediction.StatusLoading {
			continue
		}
		delete(s.sessions, id)
		evicted++
	}
	if evicted > 0 {
		s.logger.Info("idle sessions evicted", "count", evicted, "remaining", len(s.sessions))
	}
	return evicted
}

func (s *service) lookup(id string) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, notFound(id)
	}
	e.lastSeen = s.now()
	return e, nil
}

func (s *service) snapshot(e *entry) Snapshot {
	s.mu.Lock()
	updated := e.lastSeen
	s.mu.Unlock()
	return Snapshot{
		ID:        e.id,
		Inputs:    e.resolver.Snapshot(),
		State:     e.controller.State(),
		CreatedAt: e.createdAt,
		UpdatedAt: updated,
	}
}

func notFound(id string) error {
	return apperrors.Wrap(CodeNotFound, "session "+id+" not found", nil)
}
