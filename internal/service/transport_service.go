package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"transport-editor/internal/customdata"
	"transport-editor/internal/metrics"
	"transport-editor/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultSessionTTL is how long a session may stay unused before it is torn down
const DefaultSessionTTL = 30 * time.Minute

// TransportService opens and tracks transport editor sessions
type TransportService struct {
	registry Registry
	geocoder Geocoder
	budget   uint64
	ttl      time.Duration
	logger   zerolog.Logger
	metrics  *metrics.Metrics
	newID    func() string
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option configures a TransportService
type Option func(*TransportService)

// WithResourceBudget sets the resource allowance attached to every write
func WithResourceBudget(budget uint64) Option {
	return func(s *TransportService) {
		if budget > 0 {
			s.budget = budget
		}
	}
}

// WithSessionTTL sets how long an unused session is kept. Zero or negative keeps the default.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *TransportService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *TransportService) { s.logger = logger }
}

// WithMetrics sets the metrics collectors
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *TransportService) { s.metrics = m }
}

// NewTransportService creates a new transport service
func NewTransportService(registry Registry, geocoder Geocoder, opts ...Option) *TransportService {
	s := &TransportService{
		registry: registry,
		geocoder: geocoder,
		budget:   models.DefaultResourceBudget,
		ttl:      DefaultSessionTTL,
		logger:   zerolog.Nop(),
		newID:    func() string { return uuid.New().String() },
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open loads the custom data of a product and starts an editor session for it.
// An empty versionID selects the latest version. Any failure is returned as
// *LoadError and no session is created.
func (s *TransportService) Open(ctx context.Context, productID, versionID string) (*Session, error) {
	productID = strings.TrimSpace(productID)
	if versionID == "" {
		versionID = models.LatestVersion
	}

	fail := func(err error) (*Session, error) {
		s.metrics.SessionOpened(metrics.OutcomeFailure)
		s.logger.Warn().Err(err).Str("product_id", productID).Str("version_id", versionID).Msg("cannot open transport editor")
		return nil, &LoadError{ProductID: productID, VersionID: versionID, Err: err}
	}

	if productID == "" {
		return fail(ErrProductIDRequired)
	}

	raw, err := s.registry.FetchCustomData(ctx, productID, versionID)
	if err != nil {
		return fail(err)
	}

	entries, err := customdata.Load(raw)
	if err != nil {
		return fail(err)
	}

	session := newSession(s.newID(), productID, versionID, entries, s)

	s.mu.Lock()
	s.sessions[session.id] = session
	s.mu.Unlock()

	s.metrics.SessionOpened(metrics.OutcomeSuccess)
	s.logger.Debug().Str("session_id", session.id).Str("product_id", productID).Int("entries", entries.Len()).Msg("transport editor opened")
	return session, nil
}

// Session returns an open session
func (s *TransportService) Session(id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || session.Closed() {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Start opens a session and returns its first view
func (s *TransportService) Start(ctx context.Context, productID, versionID string) (View, error) {
	session, err := s.Open(ctx, productID, versionID)
	if err != nil {
		return View{}, err
	}
	return session.View(), nil
}

// View returns the current view of a session
func (s *TransportService) View(id string) (View, error) {
	session, err := s.Session(id)
	if err != nil {
		return View{}, err
	}
	return session.View(), nil
}

// AppendEntry adds a blank entry to a session
func (s *TransportService) AppendEntry(id string) (customdata.SlotID, error) {
	session, err := s.Session(id)
	if err != nil {
		return "", err
	}
	return session.AppendEntry()
}

// UpdateValue edits an entry of a session
func (s *TransportService) UpdateValue(id string, slot customdata.SlotID, value string) error {
	session, err := s.Session(id)
	if err != nil {
		return err
	}
	return session.UpdateValue(slot, value)
}

// SelectAddress resolves the location of a session and returns the resulting view.
// The view is returned even when resolution fails, unless the session is gone.
func (s *TransportService) SelectAddress(ctx context.Context, id, address string) (View, error) {
	session, err := s.Session(id)
	if err != nil {
		return View{}, err
	}
	err = session.SelectAddress(ctx, address)
	if errors.Is(err, ErrSessionClosed) {
		return View{}, err
	}
	return session.View(), err
}

// Submit submits the session and forgets it once the write succeeded
func (s *TransportService) Submit(ctx context.Context, id, sender string) (*Outcome, error) {
	session, err := s.Session(id)
	if err != nil {
		return nil, err
	}

	outcome, err := session.Submit(ctx, sender)
	if err != nil {
		return nil, err
	}

	s.forget(id)
	return outcome, nil
}

// Close tears a session down
func (s *TransportService) Close(id string) error {
	s.mu.Lock()
	session, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	session.Close()
	return nil
}

// Len returns the number of open sessions
func (s *TransportService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *TransportService) forget(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Sweep tears down every session unused for longer than the TTL and returns
// how many were removed. Sessions with an outstanding resolution or submission
// are kept until it completes.
func (s *TransportService) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	var expired []*Session
	for id, session := range s.sessions {
		if session.idleSince(cutoff) {
			delete(s.sessions, id)
			expired = append(expired, session)
		}
	}
	s.mu.Unlock()

	for _, session := range expired {
		session.Close()
		s.logger.Debug().Str("session_id", session.id).Str("product_id", session.productID).Msg("expired idle transport editor")
	}
	return len(expired)
}

// Run sweeps idle sessions every interval until ctx is done
func (s *TransportService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Info().Int("expired", n).Int("open", s.Len()).Msg("idle transport editors removed")
			}
		}
	}
}
