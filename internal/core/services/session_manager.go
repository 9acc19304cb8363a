package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/budget_tracker_app/internal/apperrors"
	"github.com/SscSPs/budget_tracker_app/internal/core/domain"
	portsrepo "github.com/SscSPs/budget_tracker_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/budget_tracker_app/internal/core/ports/services"
	"github.com/SscSPs/budget_tracker_app/internal/middleware"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultRateRefreshInterval = time.Hour
	DefaultResetCheckInterval  = time.Hour

	sessionOpenTimeout = 15 * time.Second
)

type session struct {
	ledger    portssvc.LedgerSvcFacade
	scheduler *Scheduler
}

// SessionManager keeps one ledger controller per user together with its
// scheduled rate refresh and billing reset tasks.
type SessionManager struct {
	BaseService
	repo          portsrepo.LedgerRepositoryFacade
	ledgerOpts    []LedgerOption
	rateInterval  time.Duration
	resetInterval time.Duration

	baseCtx    context.Context
	cancelBase context.CancelFunc

	mu       sync.Mutex
	sessions map[string]*session
	opening  singleflight.Group
}

// SessionOption configures a SessionManager
type SessionOption func(*SessionManager)

// WithLedgerOptions sets the options every ledger controller is built with
func WithLedgerOptions(opts ...LedgerOption) SessionOption {
	return func(m *SessionManager) {
		m.ledgerOpts = append(m.ledgerOpts, opts...)
	}
}

// WithRateRefreshInterval sets the cadence of the scheduled rate refresh
func WithRateRefreshInterval(d time.Duration) SessionOption {
	return func(m *SessionManager) {
		if d > 0 {
			m.rateInterval = d
		}
	}
}

// WithResetCheckInterval sets the cadence of the scheduled billing reset check
func WithResetCheckInterval(d time.Duration) SessionOption {
	return func(m *SessionManager) {
		if d > 0 {
			m.resetInterval = d
		}
	}
}

// WithSessionLogger sets the logger background tasks log through
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(m *SessionManager) {
		m.Logger = logger
	}
}

// NewSessionManager creates a session manager persisting through repo.
func NewSessionManager(repo portsrepo.LedgerRepositoryFacade, opts ...SessionOption) *SessionManager {
	baseCtx, cancel := context.WithCancel(context.Background())
	m := &SessionManager{
		repo:          repo,
		rateInterval:  DefaultRateRefreshInterval,
		resetInterval: DefaultResetCheckInterval,
		baseCtx:       baseCtx,
		cancelBase:    cancel,
		sessions:      make(map[string]*session),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.Logger == nil {
		m.Logger = slog.Default()
	}
	return m
}

var _ portssvc.SessionSvcFacade = (*SessionManager)(nil)

// Open returns the ledger of userID. The first call loads the stored ledger,
// runs the billing reset check and starts the scheduled tasks; concurrent
// first calls for the same user share one load.
func (m *SessionManager) Open(ctx context.Context, userID string) (portssvc.LedgerSvcFacade, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	}
	if sess, ok := m.lookup(userID); ok {
		return sess.ledger, nil
	}

	v, err, _ := m.opening.Do(userID, func() (any, error) {
		if sess, ok := m.lookup(userID); ok {
			return sess.ledger, nil
		}
		if m.baseCtx.Err() != nil {
			return nil, errors.New("session manager is shut down")
		}

		// Callers share this load, so it must outlive the request that started it.
		openCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sessionOpenTimeout)
		defer cancel()

		state, err := m.load(openCtx, userID)
		if err != nil {
			return nil, err
		}
		ledger := NewLedgerService(userID, state, m.repo, m.ledgerOpts...)

		if _, err := ledger.CheckAndReset(openCtx); err != nil {
			m.LogError(ctx, err, "Billing reset check failed on session start", slog.String("user_id", userID))
		}

		taskLogger := m.Logger.With(slog.String("user_id", userID))
		scheduler := NewScheduler(taskLogger, m.tasksFor(ledger)...)
		if err := scheduler.Start(middleware.WithLogger(m.baseCtx, taskLogger)); err != nil {
			return nil, fmt.Errorf("failed to start session tasks: %w", err)
		}

		m.mu.Lock()
		m.sessions[userID] = &session{ledger: ledger, scheduler: scheduler}
		m.mu.Unlock()

		m.LogInfo(ctx, "Ledger session opened", slog.String("user_id", userID))
		return ledger, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(portssvc.LedgerSvcFacade), nil
}

func (m *SessionManager) lookup(userID string) (*session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[userID]
	return sess, ok
}

// load reads the stored ledger. Only a missing ledger starts from defaults;
// any other failure is returned so no session is cached over stored data.
func (m *SessionManager) load(ctx context.Context, userID string) (*domain.LedgerState, error) {
	if m.repo == nil {
		return domain.NewLedgerState(), nil
	}
	state, err := m.repo.FindLedger(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			m.LogDebug(ctx, "No stored ledger, starting fresh", slog.String("user_id", userID))
			return domain.NewLedgerState(), nil
		}
		m.LogError(ctx, err, "Failed to load ledger", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to load ledger for user %s: %w", userID, err)
	}
	if state == nil {
		return domain.NewLedgerState(), nil
	}
	return state, nil
}

func (m *SessionManager) tasksFor(ledger portssvc.LedgerSvcFacade) []ScheduledTask {
	return []ScheduledTask{
		{
			Name:       "rate-refresh",
			Interval:   m.rateInterval,
			RunOnStart: true,
			Run: func(ctx context.Context) error {
				_, err := ledger.RefreshRateIfStale(ctx)
				return err
			},
		},
		{
			Name:     "reset-check",
			Interval: m.resetInterval,
			Run: func(ctx context.Context) error {
				_, err := ledger.CheckAndReset(ctx)
				return err
			},
		},
	}
}

// Close stops the scheduled tasks of userID and forgets its session.
func (m *SessionManager) Close(ctx context.Context, userID string) bool {
	m.mu.Lock()
	sess, ok := m.sessions[userID]
	delete(m.sessions, userID)
	m.mu.Unlock()
	if !ok {
		return false
	}
	sess.scheduler.Stop()
	m.LogInfo(ctx, "Ledger session closed", slog.String("user_id", userID))
	return true
}

// Shutdown closes every session and refuses new ones.
func (m *SessionManager) Shutdown(ctx context.Context) {
	m.cancelBase()

	m.mu.Lock()
	open := m.sessions
	m.sessions = make(map[string]*session)
	m.mu.Unlock()

	for userID, sess := range open {
		sess.scheduler.Stop()
		m.LogDebug(ctx, "Ledger session closed on shutdown", slog.String("user_id", userID))
	}
	m.LogInfo(ctx, "All ledger sessions closed", slog.Int("count", len(open)))
}
