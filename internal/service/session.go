package service

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dapur-pos/checkout/internal/checkout"
	"github.com/dapur-pos/checkout/internal/enum"
	"github.com/dapur-pos/checkout/internal/metrics"
	"github.com/dapur-pos/checkout/internal/ws"
	"github.com/google/uuid"
)

// Errors returned by the session service.
var ErrSessionNotFound = errors.New("checkout session not found")

// Broadcaster pushes checkout events to connected displays.
// Satisfied by *ws.Hub; narrow interface for testability.
type Broadcaster interface {
	BroadcastToSession(sessionID uuid.UUID, event ws.Event)
}

// Session is one live checkout dialog. It exists only in memory for the
// lifetime of the dialog and is discarded on completion or cancellation.
type Session struct {
	ID        uuid.UUID
	Workflow  *checkout.Workflow
	CreatedAt time.Time

	// mu serializes access to the workflow, which is single-threaded state.
	mu sync.Mutex
}

// View runs fn with the session lock held, for building read snapshots.
func (s *Session) View(fn func(w *checkout.Workflow)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.Workflow)
}

// SessionService owns all live checkout sessions. Exactly one workflow
// instance exists per dialog; no instance is shared across two orders.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	hub   Broadcaster
	delay time.Duration
}

// NewSessionService creates a session service. processingDelay is the
// simulated settlement latency applied to every non-cash payment.
func NewSessionService(hub Broadcaster, processingDelay time.Duration) *SessionService {
	return &SessionService{
		sessions: make(map[uuid.UUID]*Session),
		hub:      hub,
		delay:    processingDelay,
	}
}

// Open starts a checkout session for an order snapshot.
func (s *SessionService) Open(order checkout.Order) *Session {
	id := uuid.New()
	sess := &Session{ID: id, CreatedAt: time.Now()}
	sess.Workflow = checkout.NewWorkflow(order,
		func(method enum.PaymentMethod) {
			metrics.CheckoutsCompleted.WithLabelValues(string(method)).Inc()
			slog.Info("checkout completed",
				"session_id", id, "order_id", order.ID, "method", method)
			s.publish(id, "checkout.completed", completedPayload{
				SessionID: id,
				OrderID:   order.ID,
				Method:    method,
			})
		},
		checkout.WithProcessingDelay(s.delay),
	)

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	metrics.SessionsStarted.Inc()
	metrics.ActiveSessions.Inc()
	slog.Info("checkout session opened",
		"session_id", id, "order_id", order.ID, "total", order.Total.StringFixed(2))
	return sess
}

// Get returns a live session by ID.
func (s *SessionService) Get(id uuid.UUID) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Close discards a session, paid or not. Nothing is persisted.
func (s *SessionService) Close(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	metrics.ActiveSessions.Dec()
	slog.Info("checkout session closed", "session_id", id)
	return nil
}

// Update applies fn to the session's workflow under its lock. On success the
// new state is broadcast to displays and settled payments are counted; on
// error the workflow is untouched and nothing is published.
func (s *SessionService) Update(id uuid.UUID, fn func(w *checkout.Workflow) error) (*Session, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	before := sess.Workflow.Status()
	if err := fn(sess.Workflow); err != nil {
		return nil, err
	}
	after := sess.Workflow.Status()

	if after != before &&
		(after == enum.CheckoutSuccess || after == enum.CheckoutCustomerSuccess) {
		metrics.PaymentsSettled.WithLabelValues(string(sess.Workflow.Method())).Inc()
	}

	s.publish(id, "checkout.updated", statusPayload{
		SessionID: id,
		Status:    after,
		Completed: sess.Workflow.Completed(),
	})
	return sess, nil
}

// --- WebSocket payloads ---

type statusPayload struct {
	SessionID uuid.UUID           `json:"session_id"`
	Status    enum.CheckoutStatus `json:"status"`
	Completed bool                `json:"completed"`
}

type completedPayload struct {
	SessionID uuid.UUID          `json:"session_id"`
	OrderID   uuid.UUID          `json:"order_id"`
	Method    enum.PaymentMethod `json:"method"`
}

func (s *SessionService) publish(id uuid.UUID, eventType string, payload any) {
	if s.hub == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws payload", "type", eventType, "error", err)
		return
	}
	s.hub.BroadcastToSession(id, ws.Event{Type: eventType, Payload: data})
}
