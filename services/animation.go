// services/animation.go
package services

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"edvantage/models"
)

// AnimationPhase is the unlock banner's state.
type AnimationPhase int

const (
	PhaseIdle AnimationPhase = iota
	PhaseShowing
)

// AnimationState is one snapshot of the banner state machine. There is a
// single slot: a second unlock while one is showing replaces the displayed
// achievement (last write wins) and restarts the clear timer, so it still
// gets the full display window.
type AnimationState struct {
	Phase       AnimationPhase
	Achievement *models.Achievement
	ExpiresAt   time.Time
}

// Animator drives the unlock banner: Idle -> Showing on Show, back to Idle
// when the clear timer fires. Each Show cancels and reschedules the pending
// clear rather than letting a stale timer truncate the new banner.
type Animator struct {
	duration time.Duration
	log      *zap.SugaredLogger
	now      func() time.Time

	mu      sync.Mutex
	state   AnimationState
	timer   *time.Timer
	gen     uint64 // invalidates clear callbacks from cancelled timers
	subs    map[int]chan AnimationState
	nextSub int
	stopped bool
}

func NewAnimator(duration time.Duration, log *zap.SugaredLogger) *Animator {
	return &Animator{
		duration: duration,
		log:      log,
		now:      time.Now,
		state:    AnimationState{Phase: PhaseIdle},
		subs:     make(map[int]chan AnimationState),
	}
}

// Show puts the achievement into the banner slot and (re)schedules the
// clear. The achievement is copied so later engine mutations do not change
// what subscribers already received.
func (a *Animator) Show(ach models.Achievement) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}

	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	gen := a.gen

	shown := ach
	a.state = AnimationState{
		Phase:       PhaseShowing,
		Achievement: &shown,
		ExpiresAt:   a.now().Add(a.duration),
	}
	a.broadcastLocked()
	a.log.Debugf("showing unlock banner for %q until %s", shown.ID, a.state.ExpiresAt.Format(time.RFC3339))

	a.timer = time.AfterFunc(a.duration, func() { a.clear(gen) })
}

func (a *Animator) clear(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	// A newer Show cancelled this timer; if its callback was already in
	// flight it must not wipe the newer banner.
	if gen != a.gen || a.stopped {
		return
	}
	a.state = AnimationState{Phase: PhaseIdle}
	a.broadcastLocked()
}

// State returns the current banner snapshot.
func (a *Animator) State() AnimationState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Subscribe registers a state-change listener. The returned cancel func
// unregisters it. Slow listeners miss intermediate states rather than
// blocking the machine.
func (a *Animator) Subscribe() (<-chan AnimationState, func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextSub
	a.nextSub++
	ch := make(chan AnimationState, 8)
	a.subs[id] = ch

	cancel := func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		if sub, ok := a.subs[id]; ok {
			delete(a.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Stop tears the machine down: pending clear cancelled, subscribers closed,
// further Show calls ignored.
func (a *Animator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	a.stopped = true
	if a.timer != nil {
		a.timer.Stop()
	}
	a.state = AnimationState{Phase: PhaseIdle}
	for id, ch := range a.subs {
		delete(a.subs, id)
		close(ch)
	}
}

func (a *Animator) broadcastLocked() {
	for _, ch := range a.subs {
		select {
		case ch <- a.state:
		default:
		}
	}
}
