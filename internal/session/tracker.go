// Package session tracks the files modified during one working session
// and the follow-up checks they imply. The tracker is the only mutable
// state in the system; it is created at session start and discarded at
// session end.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skillgate/skillgate/internal/engine"
	"github.com/skillgate/skillgate/internal/logger"
)

// Edit is one recorded file modification
type Edit struct {
	Path string
	Op   engine.Operation
	At   time.Time
}

// Log is a read-only snapshot of the session state. SinceSurfaced is
// the number of edits recorded since checks were last surfaced; it is
// the throttle's progress and must survive a restore.
type Log struct {
	SessionID     string
	Edits         []Edit
	PendingChecks []string
	SinceSurfaced int
}

// Tracker accumulates edits and derived checks for a single session.
// All mutation goes through RecordEdit; the host serializes events per
// session, the mutex only guards against accidental sharing.
type Tracker struct {
	mu          sync.Mutex
	sessionID   string
	eng         *engine.Engine
	remindEvery int
	journal     Journal

	edits         []Edit
	pending       map[string]struct{}
	sinceSurfaced int
}

// NewTracker creates a tracker for one session. An empty sessionID gets a
// generated one. remindEvery < 1 surfaces checks on every edit. The
// journal is optional; journal failures are logged and never propagate.
func NewTracker(sessionID string, eng *engine.Engine, remindEvery int, journal Journal) *Tracker {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	if remindEvery < 1 {
		remindEvery = 1
	}
	return &Tracker{
		sessionID:   sessionID,
		eng:         eng,
		remindEvery: remindEvery,
		journal:     journal,
		pending:     make(map[string]struct{}),
	}
}

// SessionID returns the tracker's session identifier
func (t *Tracker) SessionID() string {
	return t.sessionID
}

// Restore seeds the tracker from a previously journaled log, so a
// per-invocation host process can carry session state across calls.
// Correctness of a long-lived host never depends on this.
func (t *Tracker) Restore(log Log) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.edits = append(t.edits, log.Edits...)
	for _, c := range log.PendingChecks {
		t.pending[c] = struct{}{}
	}
	t.sinceSurfaced = log.SinceSurfaced
}

// RecordEdit appends one file modification to the session log and unions
// any checks derived from file-matching rules into the pending set.
// Duplicate paths are kept; the pending set only grows.
func (t *Tracker) RecordEdit(path string, op engine.Operation) error {
	matches, err := t.eng.EvaluateFileOp(path, op)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	edit := Edit{Path: path, Op: op, At: time.Now()}
	t.edits = append(t.edits, edit)
	t.sinceSurfaced++

	for _, m := range matches {
		for _, check := range m.Rule.Checks {
			if _, ok := t.pending[check]; ok {
				continue
			}
			t.pending[check] = struct{}{}
			if t.journal != nil {
				if err := t.journal.RecordCheck(t.sessionID, check); err != nil {
					logger.Warn().Err(err).Str("check", check).Msg("Failed to journal check")
				}
			}
		}
	}

	if t.journal != nil {
		if err := t.journal.AppendEdit(t.sessionID, edit); err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Failed to journal edit")
		}
	}

	logger.Debug().
		Str("path", path).
		Str("op", string(op)).
		Int("pending_checks", len(t.pending)).
		Msg("Recorded edit")

	return nil
}

// ChecksDue returns the pending checks once the reminder cadence is
// reached, else nothing. Throttling only delays: no check is ever
// removed from the pending set, so a later ChecksDue or Flush always
// returns a superset.
func (t *Tracker) ChecksDue() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.sinceSurfaced < t.remindEvery {
		return nil
	}
	t.sinceSurfaced = 0
	t.markSurfaced()
	return t.pendingSorted()
}

// Flush returns all pending checks regardless of cadence. Call at
// session end to guarantee at-least-once delivery of every check.
func (t *Tracker) Flush() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sinceSurfaced = 0
	t.markSurfaced()
	return t.pendingSorted()
}

// markSurfaced mirrors the throttle reset to the journal. Caller holds
// the mutex.
func (t *Tracker) markSurfaced() {
	if t.journal == nil {
		return
	}
	if err := t.journal.MarkSurfaced(t.sessionID); err != nil {
		logger.Warn().Err(err).Msg("Failed to journal surfaced marker")
	}
}

// Snapshot returns a read-only copy of the session log
func (t *Tracker) Snapshot() Log {
	t.mu.Lock()
	defer t.mu.Unlock()

	log := Log{
		SessionID:     t.sessionID,
		Edits:         make([]Edit, len(t.edits)),
		PendingChecks: t.pendingSorted(),
		SinceSurfaced: t.sinceSurfaced,
	}
	copy(log.Edits, t.edits)
	return log
}

func (t *Tracker) pendingSorted() []string {
	if len(t.pending) == 0 {
		return nil
	}
	checks := make([]string, 0, len(t.pending))
	for c := range t.pending {
		checks = append(checks, c)
	}
	sort.Strings(checks)
	return checks
}
