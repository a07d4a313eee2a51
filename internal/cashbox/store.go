// Package cashbox holds the server-side view of active cash-register
// sessions: per-cashier stores with synchronously recomputed aggregates,
// plus a best-effort Redis snapshot cache. The database rows remain the
// authoritative record; a Store only mirrors them for the current-session
// view and its running totals.
package cashbox

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/amare53/school-sub001/internal/model"
)

var (
	// ErrNoActiveSession is returned when a record is appended with no
	// session set.
	ErrNoActiveSession = errors.New("no active cash session")
	// ErrSessionMismatch is returned when an appended record carries a
	// session id other than the active session's. Accepting it would
	// silently corrupt the aggregates.
	ErrSessionMismatch = errors.New("record does not belong to the active session")
	// ErrSessionClosed is returned when appending to a session that is no
	// longer in_progress.
	ErrSessionClosed = errors.New("cash session is not in progress")
)

// Store holds one cashier's active session together with its payments and
// manual movements, and keeps SessionStats consistent with them. All
// mutations are atomic with respect to each other.
type Store struct {
	mu        sync.RWMutex
	session   *model.CashSession
	payments  []model.Payment
	movements []model.CashMovement
	stats     SessionStats
}

// NewStore returns an empty store with zeroed stats.
func NewStore() *Store {
	return &Store{stats: ZeroStats()}
}

// SetActiveSession replaces the current session. A nil session clears the
// payment and movement collections as a side effect — a closed or absent
// session has no in-memory history. Total replace semantics, no error
// conditions.
func (s *Store) SetActiveSession(session *model.CashSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session == nil {
		s.session = nil
		s.payments = nil
		s.movements = nil
	} else {
		cp := *session
		s.session = &cp
	}
	s.recompute()
}

// SetPayments bulk-replaces the payment collection (used after an initial
// load from the database).
func (s *Store) SetPayments(payments []model.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments = append([]model.Payment(nil), payments...)
	s.recompute()
}

// SetMovements bulk-replaces the movement collection.
func (s *Store) SetMovements(movements []model.CashMovement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movements = append([]model.CashMovement(nil), movements...)
	s.recompute()
}

// AddPayment appends a payment. The record must belong to the active
// session, and the session must still be in progress.
func (s *Store) AddPayment(p model.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardAppend(p.SessionID == s.sessionIDLocked()); err != nil {
		return err
	}
	s.payments = append(s.payments, p)
	s.recompute()
	return nil
}

// AddMovement appends a manual movement under the same guards as AddPayment.
func (s *Store) AddMovement(m model.CashMovement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardAppend(m.SessionID == s.sessionIDLocked()); err != nil {
		return err
	}
	s.movements = append(s.movements, m)
	s.recompute()
	return nil
}

// Clear discards the session and all derived state.
func (s *Store) Clear() {
	s.SetActiveSession(nil)
}

// Session returns a copy of the active session, or nil.
func (s *Store) Session() *model.CashSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	cp := *s.session
	return &cp
}

// Payments returns a copy of the payment collection in append order.
func (s *Store) Payments() []model.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Payment(nil), s.payments...)
}

// Movements returns a copy of the movement collection in append order.
func (s *Store) Movements() []model.CashMovement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.CashMovement(nil), s.movements...)
}

// Stats returns the current aggregates. The result is detached from the
// store and safe to retain.
func (s *Store) Stats() SessionStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyStats(s.stats)
}

func (s *Store) guardAppend(sessionMatches bool) error {
	if s.session == nil {
		return ErrNoActiveSession
	}
	if !sessionMatches {
		return ErrSessionMismatch
	}
	if s.session.Status != model.SessionInProgress {
		return ErrSessionClosed
	}
	return nil
}

func (s *Store) sessionIDLocked() uuid.UUID {
	if s.session == nil {
		return uuid.Nil
	}
	return s.session.ID
}

// recompute must be called with the write lock held.
func (s *Store) recompute() {
	s.stats = Compute(s.session, s.payments, s.movements)
}
