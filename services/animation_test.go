package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"edvantage/models"
)

func testAchievement(id string) models.Achievement {
	return models.Achievement{ID: id, Title: id, Points: 10, MaxProgress: 1}
}

func TestAnimatorShowThenClear(t *testing.T) {
	a := NewAnimator(50*time.Millisecond, zaptest.NewLogger(t).Sugar())
	t.Cleanup(a.Stop)

	a.Show(testAchievement("first-task"))

	state := a.State()
	require.Equal(t, PhaseShowing, state.Phase)
	require.NotNil(t, state.Achievement)
	assert.Equal(t, "first-task", state.Achievement.ID)
	assert.False(t, state.ExpiresAt.IsZero())

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, PhaseIdle, a.State().Phase)
	assert.Nil(t, a.State().Achievement)
}

func TestAnimatorSecondShowReplacesAndReschedules(t *testing.T) {
	a := NewAnimator(100*time.Millisecond, zaptest.NewLogger(t).Sugar())
	t.Cleanup(a.Stop)

	a.Show(testAchievement("first"))
	time.Sleep(60 * time.Millisecond)
	a.Show(testAchievement("second"))

	// Past the first banner's original deadline: the stale timer must not
	// have truncated the second banner.
	time.Sleep(70 * time.Millisecond)
	state := a.State()
	require.Equal(t, PhaseShowing, state.Phase)
	assert.Equal(t, "second", state.Achievement.ID)

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, PhaseIdle, a.State().Phase)
}

func TestAnimatorSubscribeSeesTransitions(t *testing.T) {
	a := NewAnimator(40*time.Millisecond, zaptest.NewLogger(t).Sugar())
	t.Cleanup(a.Stop)

	events, cancel := a.Subscribe()
	t.Cleanup(cancel)

	a.Show(testAchievement("first-task"))

	select {
	case state := <-events:
		require.Equal(t, PhaseShowing, state.Phase)
		assert.Equal(t, "first-task", state.Achievement.ID)
	case <-time.After(time.Second):
		t.Fatal("no showing event received")
	}

	select {
	case state := <-events:
		assert.Equal(t, PhaseIdle, state.Phase)
	case <-time.After(time.Second):
		t.Fatal("no idle event received")
	}
}

func TestAnimatorStop(t *testing.T) {
	a := NewAnimator(time.Minute, zaptest.NewLogger(t).Sugar())
	events, cancel := a.Subscribe()
	t.Cleanup(cancel)

	a.Show(testAchievement("x"))
	a.Stop()

	assert.Equal(t, PhaseIdle, a.State().Phase)

	// Subscriber channel is closed and later shows are ignored.
	drained := false
	for !drained {
		_, open := <-events
		if !open {
			drained = true
		}
	}
	a.Show(testAchievement("y"))
	assert.Equal(t, PhaseIdle, a.State().Phase)
}

func TestChannelNotifierDropsOldest(t *testing.T) {
	n := NewChannelNotifier(2)
	n.Notify(models.Toast{Title: "1"})
	n.Notify(models.Toast{Title: "2"})
	n.Notify(models.Toast{Title: "3"})

	first := <-n.Toasts()
	second := <-n.Toasts()
	assert.Equal(t, "2", first.Title)
	assert.Equal(t, "3", second.Title)
}
