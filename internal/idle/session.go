// Package idle implements the kiosk's inactivity state machine. After a
// configured quiet period a warning is raised with a visible countdown;
// if the countdown expires the registered reset callback fires and the
// session returns to Stopped. The machine survives app backgrounding by
// freezing its timers and re-deriving state from elapsed wall-clock time
// on return to foreground.
package idle

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/formkiosk/internal/timex"
)

// State is the current position of the state machine.
type State int

const (
	StateStopped State = iota
	StateActive
	StateActiveWarning
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateActiveWarning:
		return "warning"
	case StatePaused:
		return "paused"
	default:
		return "stopped"
	}
}

// activityThrottle is the minimum gap between honored ResetActivity calls.
const activityThrottle = 2 * time.Second

// Config sets the idle window. ResetAfter is measured from the same
// anchor as WarningAfter, so the visible countdown lasts
// ResetAfter - WarningAfter.
type Config struct {
	WarningAfter time.Duration
	ResetAfter   time.Duration
}

// Snapshot is the externally visible session state, emitted on every
// change so a UI layer can mirror it without reaching into the machine.
type Snapshot struct {
	State            State
	SecondsRemaining int

	// WarningWasShown reports whether the warning dialog was up when the
	// session was paused, so the UI can restore it on resume.
	WarningWasShown bool
}

// Session is the idle state machine. All methods are safe for concurrent
// use and total: they never fail, they at most do nothing.
type Session struct {
	mu      sync.Mutex
	cfg     Config
	clock   timex.Clock
	onReset func()
	events  chan Snapshot

	state            State
	gen              uint64 // bumping it invalidates outstanding timer callbacks
	warningTimer     timex.Timer
	countdownTimer   timex.Timer
	secondsRemaining int
	windowStartedAt  time.Time // anchor of the current idle window
	lastActivity     time.Time
	warningWasShown  bool // survives Pause so Resume can report it

	inBackground            bool
	backgroundEnteredAt     time.Time
	elapsedBeforeBackground time.Duration
}

// NewSession builds a stopped session. onReset runs outside the session
// lock whenever the reset threshold is crossed, either by the countdown
// or by a foreground catch-up.
func NewSession(cfg Config, clock timex.Clock, onReset func()) *Session {
	return &Session{
		cfg:     cfg,
		clock:   clock,
		onReset: onReset,
		events:  make(chan Snapshot, 16),
		state:   StateStopped,
	}
}

// Events delivers a snapshot after every state change. Sends never block;
// a slow consumer loses intermediate snapshots, not the final one it will
// read via Snapshot.
func (s *Session) Events() <-chan Snapshot {
	return s.events
}

// Snapshot returns the current state for polling consumers.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	return Snapshot{
		State:            s.state,
		SecondsRemaining: s.secondsRemaining,
		WarningWasShown:  s.warningWasShown,
	}
}

// Start moves Stopped to Active and schedules the warning. Calling Start
// in any other state is a no-op, so duplicate timers cannot exist.
func (s *Session) Start() {
	s.mu.Lock()
	if s.state != StateStopped {
		s.mu.Unlock()
		return
	}
	s.beginWindowLocked(s.cfg.WarningAfter)
	s.emitLocked()
	s.mu.Unlock()
}

// Stop cancels all timers and returns to Stopped from any state.
func (s *Session) Stop() {
	s.mu.Lock()
	s.toStoppedLocked()
	s.emitLocked()
	s.mu.Unlock()
}

// Pause suspends an Active/ActiveWarning session (e.g. while the admin
// surface is open). Timers stop; whether the warning was showing is kept.
func (s *Session) Pause() {
	s.mu.Lock()
	if s.state != StateActive && s.state != StateActiveWarning {
		s.mu.Unlock()
		return
	}
	s.warningWasShown = s.state == StateActiveWarning
	s.cancelTimersLocked()
	s.state = StatePaused
	s.secondsRemaining = 0
	s.inBackground = false
	s.backgroundEnteredAt = time.Time{}
	s.elapsedBeforeBackground = 0
	s.emitLocked()
	s.mu.Unlock()
}

// Resume returns a Paused session to Active with a fresh idle window.
func (s *Session) Resume() {
	s.mu.Lock()
	if s.state != StatePaused {
		s.mu.Unlock()
		return
	}
	s.warningWasShown = false
	s.beginWindowLocked(s.cfg.WarningAfter)
	s.emitLocked()
	s.mu.Unlock()
}

// ResetActivity restarts the idle window on user input. Calls arriving
// within 2 seconds of the previously honored call are ignored so that
// high-frequency input events do not churn timers. No-op unless Active
// or ActiveWarning.
func (s *Session) ResetActivity() {
	s.restartWindow(true)
}

// ConfirmPresence is the explicit "I am still here" acknowledgement from
// the warning dialog. It restarts the window like ResetActivity but is
// never throttled. Tolerated in Active as well.
func (s *Session) ConfirmPresence() {
	s.restartWindow(false)
}

func (s *Session) restartWindow(throttled bool) {
	s.mu.Lock()
	if s.state != StateActive && s.state != StateActiveWarning {
		s.mu.Unlock()
		return
	}
	now := s.clock.Now()
	if throttled && !s.lastActivity.IsZero() && now.Sub(s.lastActivity) < activityThrottle {
		s.mu.Unlock()
		return
	}
	s.lastActivity = now
	s.beginWindowLocked(s.cfg.WarningAfter)
	s.emitLocked()
	s.mu.Unlock()
}

// EnterBackground freezes the machine while the app is backgrounded.
// Duplicate notifications are idempotent: elapsed time is recorded once.
func (s *Session) EnterBackground() {
	s.mu.Lock()
	if s.inBackground || (s.state != StateActive && s.state != StateActiveWarning) {
		s.mu.Unlock()
		return
	}
	now := s.clock.Now()
	s.cancelTimersLocked()
	s.inBackground = true
	s.backgroundEnteredAt = now
	s.elapsedBeforeBackground = now.Sub(s.windowStartedAt)
	s.mu.Unlock()
}

// LeaveBackground re-derives the state from total elapsed idle time:
// past the reset threshold the reset callback fires immediately; past the
// warning threshold the warning shows with the remaining countdown;
// otherwise the warning is rescheduled for the remainder of the window.
func (s *Session) LeaveBackground() {
	s.mu.Lock()
	if !s.inBackground {
		s.mu.Unlock()
		return
	}
	now := s.clock.Now()
	total := s.elapsedBeforeBackground + now.Sub(s.backgroundEnteredAt)
	s.inBackground = false
	s.backgroundEnteredAt = time.Time{}
	s.elapsedBeforeBackground = 0

	switch {
	case total >= s.cfg.ResetAfter:
		s.toStoppedLocked()
		s.emitLocked()
		s.mu.Unlock()
		s.onReset()
		return

	case total >= s.cfg.WarningAfter:
		s.windowStartedAt = now.Add(-total)
		s.showWarningLocked(s.cfg.ResetAfter - total)

	default:
		s.windowStartedAt = now.Add(-total)
		s.state = StateActive
		s.warningWasShown = false
		s.secondsRemaining = 0
		s.scheduleWarningLocked(s.cfg.WarningAfter - total)
	}
	s.emitLocked()
	s.mu.Unlock()
}

// beginWindowLocked restarts the idle window from zero in state Active.
func (s *Session) beginWindowLocked(until time.Duration) {
	s.cancelTimersLocked()
	s.state = StateActive
	s.warningWasShown = false
	s.secondsRemaining = 0
	s.inBackground = false
	s.backgroundEnteredAt = time.Time{}
	s.elapsedBeforeBackground = 0
	s.windowStartedAt = s.clock.Now()
	s.scheduleWarningLocked(until)
}

func (s *Session) scheduleWarningLocked(d time.Duration) {
	gen := s.gen
	s.warningTimer = s.clock.AfterFunc(d, func() { s.warningFired(gen) })
}

func (s *Session) warningFired(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.state != StateActive {
		s.mu.Unlock()
		return
	}
	s.showWarningLocked(s.cfg.ResetAfter - s.cfg.WarningAfter)
	s.emitLocked()
	s.mu.Unlock()
}

// showWarningLocked enters ActiveWarning with the given countdown remaining
// and starts the 1-second tick.
func (s *Session) showWarningLocked(remaining time.Duration) {
	s.state = StateActiveWarning
	s.warningWasShown = true
	s.secondsRemaining = int(remaining.Seconds())
	s.scheduleTickLocked()
}

func (s *Session) scheduleTickLocked() {
	gen := s.gen
	s.countdownTimer = s.clock.AfterFunc(time.Second, func() { s.tickFired(gen) })
}

func (s *Session) tickFired(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.state != StateActiveWarning {
		s.mu.Unlock()
		return
	}
	s.secondsRemaining--
	if s.secondsRemaining > 0 {
		s.scheduleTickLocked()
		s.emitLocked()
		s.mu.Unlock()
		return
	}
	s.toStoppedLocked()
	s.emitLocked()
	s.mu.Unlock()
	s.onReset()
}

// toStoppedLocked cancels everything and clears background accumulators.
func (s *Session) toStoppedLocked() {
	s.cancelTimersLocked()
	s.state = StateStopped
	s.secondsRemaining = 0
	s.warningWasShown = false
	s.inBackground = false
	s.backgroundEnteredAt = time.Time{}
	s.elapsedBeforeBackground = 0
	s.lastActivity = time.Time{}
}

// cancelTimersLocked stops outstanding timers and bumps the generation so
// a timer that already fired but has not yet acquired the lock becomes a
// no-op. That makes cancellation synchronous from the caller's view.
func (s *Session) cancelTimersLocked() {
	s.gen++
	if s.warningTimer != nil {
		s.warningTimer.Stop()
		s.warningTimer = nil
	}
	if s.countdownTimer != nil {
		s.countdownTimer.Stop()
		s.countdownTimer = nil
	}
}

func (s *Session) emitLocked() {
	snap := s.snapshotLocked()
	select {
	case s.events <- snap:
	default:
	}
}
