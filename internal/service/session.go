package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"transport-editor/internal/customdata"
	"transport-editor/internal/metrics"
	"transport-editor/internal/models"

	"github.com/rs/zerolog"
)

// Geocoder turns free-text addresses into coordinates
type Geocoder interface {
	Suggest(ctx context.Context, address string) ([]models.Place, error)
	Resolve(ctx context.Context, place models.Place) (models.Coordinates, error)
}

// Registry is the ledger-backed product registry
type Registry interface {
	FetchCustomData(ctx context.Context, productID, versionID string) (string, error)
	SubmitUpdate(ctx context.Context, update models.ProductUpdate, opts models.SubmitOptions) (*models.Receipt, error)
}

// State of a session's gate
type State string

const (
	StateIdle       State = "idle"
	StateResolving  State = "resolving"
	StateSubmitting State = "submitting"
	StateClosed     State = "closed"
)

// EntryView is one entry as presented by the transport view
type EntryView struct {
	Slot     customdata.SlotID `json:"slot"`
	Key      string            `json:"key"`
	Value    string            `json:"value"`
	ReadOnly bool              `json:"read_only"`
	Options  []string          `json:"options,omitempty"`
}

// LocationView is the current location selection
type LocationView struct {
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// View is a snapshot of a session
type View struct {
	SessionID     string       `json:"session_id"`
	ProductID     string       `json:"product_id"`
	VersionID     string       `json:"version_id"`
	Entries       []EntryView  `json:"entries"`
	Location      LocationView `json:"location"`
	State         State        `json:"state"`
	SubmitEnabled bool         `json:"submit_enabled"`
	Status        string       `json:"status,omitempty"`
}

// Outcome is the result of a successful submission
type Outcome struct {
	Receipt  *models.Receipt `json:"receipt"`
	Redirect string          `json:"redirect"`
}

// Session is the state of one transport editor for one product.
//
// A single gate guards resolutions and submissions: while one is outstanding
// the other operations fail with ErrBusy. Results arriving after Close are
// discarded.
type Session struct {
	id        string
	productID string
	versionID string
	geocoder  Geocoder
	registry  Registry
	budget    uint64
	logger    zerolog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	mu      sync.Mutex
	entries *customdata.EntrySet
	address string
	coords  *models.Coordinates
	state   State
	closed  bool
	status  string

	lastUsed time.Time
}

func newSession(id, productID, versionID string, entries *customdata.EntrySet, s *TransportService) *Session {
	return &Session{
		id:        id,
		productID: productID,
		versionID: versionID,
		geocoder:  s.geocoder,
		registry:  s.registry,
		budget:    s.budget,
		logger:    s.logger.With().Str("session_id", id).Str("product_id", productID).Logger(),
		metrics:   s.metrics,
		now:       s.now,
		entries:   entries,
		state:     StateIdle,
		lastUsed:  s.now(),
	}
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// ProductID returns the product being edited
func (s *Session) ProductID() string { return s.productID }

// View returns a snapshot of the visible entries, the location and the gate
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastUsed = s.now()

	visible := s.entries.Visible()
	entries := make([]EntryView, 0, len(visible))
	for _, slot := range visible {
		ev := EntryView{
			Slot:     slot.ID,
			Key:      slot.Key,
			Value:    slot.Value,
			ReadOnly: customdata.ReadOnly(slot.Key),
		}
		if slot.Key == customdata.KeyTransportType {
			ev.Options = append([]string(nil), customdata.TransportTypes...)
		}
		entries = append(entries, ev)
	}

	loc := LocationView{Address: s.address}
	if s.coords != nil {
		lat, lng := s.coords.Latitude, s.coords.Longitude
		loc.Latitude, loc.Longitude = &lat, &lng
	}

	state := s.state
	if s.closed {
		state = StateClosed
	}

	return View{
		SessionID:     s.id,
		ProductID:     s.productID,
		VersionID:     s.versionID,
		Entries:       entries,
		Location:      loc,
		State:         state,
		SubmitEnabled: state == StateIdle && s.coords != nil,
		Status:        s.status,
	}
}

// AppendEntry adds a blank entry and returns its slot
func (s *Session) AppendEntry() (customdata.SlotID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return "", ErrSessionClosed
	}
	s.lastUsed = s.now()
	return s.entries.Append(), nil
}

// UpdateValue edits the value of a visible entry
func (s *Session) UpdateValue(slot customdata.SlotID, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	s.lastUsed = s.now()

	entry, ok := s.entries.Get(slot)
	if !ok {
		return ErrSlotNotFound
	}
	if !customdata.Displayed(entry.Key) {
		return ErrNotEditable
	}
	if customdata.ReadOnly(entry.Key) {
		return ErrReadOnly
	}
	if entry.Key == customdata.KeyTransportType && !customdata.ValidTransportType(value) {
		return fmt.Errorf("%w: %q", ErrInvalidTransportType, value)
	}

	s.entries.UpdateValue(slot, value)
	return nil
}

// SelectAddress resolves address to coordinates using the first suggested place.
//
// On failure the previous coordinates are kept, the failure is logged and
// recorded as the session status, and the error is returned. The gate is
// released in every case.
func (s *Session) SelectAddress(ctx context.Context, address string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if s.state != StateIdle {
		s.mu.Unlock()
		return ErrBusy
	}
	s.state = StateResolving
	s.lastUsed = s.now()
	s.address = address
	s.status = ""
	s.mu.Unlock()

	coords, err := s.resolve(ctx, address)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.lastUsed = s.now()
	if s.closed {
		s.logger.Debug().Str("address", address).Msg("discarding resolution for closed session")
		return ErrSessionClosed
	}

	if err != nil {
		s.metrics.Resolution(metrics.OutcomeFailure)
		s.logger.Warn().Err(err).Str("address", address).Msg("address resolution failed")
		s.status = err.Error()
		return err
	}

	s.metrics.Resolution(metrics.OutcomeSuccess)
	s.coords = &coords
	s.logger.Debug().Str("address", address).Float64("latitude", coords.Latitude).Float64("longitude", coords.Longitude).Msg("address resolved")
	return nil
}

func (s *Session) resolve(ctx context.Context, address string) (models.Coordinates, error) {
	places, err := s.geocoder.Suggest(ctx, address)
	if err != nil {
		return models.Coordinates{}, err
	}
	if len(places) == 0 {
		return models.Coordinates{}, fmt.Errorf("%w: %q", ErrNoCandidates, address)
	}
	return s.geocoder.Resolve(ctx, places[0])
}

// Payload builds the registry update from the current location and the clean custom data.
func (s *Session) Payload() (models.ProductUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payload()
}

func (s *Session) payload() (models.ProductUpdate, error) {
	if s.coords == nil {
		return models.ProductUpdate{}, ErrLocationRequired
	}

	customData, err := s.entries.CleanMapping().Encode()
	if err != nil {
		return models.ProductUpdate{}, fmt.Errorf("service: failed to encode custom data: %w", err)
	}

	return models.ProductUpdate{
		ProductID:  s.productID,
		Latitude:   strconv.FormatFloat(s.coords.Latitude, 'f', -1, 64),
		Longitude:  strconv.FormatFloat(s.coords.Longitude, 'f', -1, 64),
		CustomData: customData,
	}, nil
}

// Submit writes the payload to the registry signed by sender.
//
// On success the session is closed and the outcome carries the product page
// to navigate to. A failed write is returned as *SubmissionError and leaves
// the session open so the user can submit again.
func (s *Session) Submit(ctx context.Context, sender string) (*Outcome, error) {
	if sender == "" {
		return nil, ErrSenderRequired
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if s.state != StateIdle {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	update, err := s.payload()
	if err != nil {
		s.mu.Unlock()
		s.metrics.Submission(metrics.OutcomeRejected)
		return nil, err
	}
	s.state = StateSubmitting
	s.lastUsed = s.now()
	s.status = ""
	s.mu.Unlock()

	receipt, err := s.registry.SubmitUpdate(ctx, update, models.SubmitOptions{Sender: sender, ResourceBudget: s.budget})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateIdle
	s.lastUsed = s.now()

	if err != nil {
		s.metrics.Submission(metrics.OutcomeFailure)
		s.logger.Error().Err(err).Str("sender", sender).Msg("registry write failed")
		if s.closed {
			return nil, ErrSessionClosed
		}
		subErr := &SubmissionError{ProductID: s.productID, Err: err}
		s.status = subErr.Error()
		return nil, subErr
	}
	if receipt == nil {
		receipt = &models.Receipt{ProductID: s.productID, Sender: sender}
	}

	s.metrics.Submission(metrics.OutcomeSuccess)
	s.metrics.ResourceUsed(receipt.ResourceUsed)
	s.logger.Info().Str("tx_hash", receipt.TxHash).Int64("version", receipt.Version).Msg("transport information saved")
	s.closed = true

	return &Outcome{Receipt: receipt, Redirect: ProductPath(s.productID)}, nil
}

// Close tears the session down. Operations still in flight complete but their results are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// idleSince reports whether the session has had no activity since cutoff.
// A session with an outstanding resolution or submission is never idle.
func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateIdle && !s.lastUsed.After(cutoff)
}

// Closed reports whether the session was torn down
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// ProductPath returns the detail page of a product
func ProductPath(productID string) string {
	return productPath + url.PathEscape(productID)
}
