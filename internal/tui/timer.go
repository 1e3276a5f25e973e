package tui

import (
	"time"

	"github.com/MIkhsanPasaribu/studyhub/internal/logger"
	"github.com/MIkhsanPasaribu/studyhub/internal/models"
	"github.com/MIkhsanPasaribu/studyhub/internal/store"
)

// timerState tracks the current state of the timer.
type timerState int

const (
	timerStopped timerState = iota
	timerRunning
	timerPaused
)

// timerModel manages the focus timer separately from its display. Paused
// time is excluded from the stored duration.
type timerModel struct {
	store *store.Store
	owner string

	state     timerState
	startTime time.Time
	elapsed   time.Duration
	pausedAt  time.Time
	pauseGap  time.Duration

	category  string
	sessionID string

	// Idle detection
	lastActivity time.Time
	idleTimeout  time.Duration
	isIdle       bool
}

func newTimerModel(s *store.Store, owner string) timerModel {
	return timerModel{
		store:        s,
		owner:        owner,
		state:        timerStopped,
		lastActivity: time.Now(),
		idleTimeout:  time.Duration(s.GetSettingInt(store.SettingIdleTimeout, 300)) * time.Second,
	}
}

func (t *timerModel) start(category string) (*models.FocusSession, error) {
	fs, err := t.store.StartSession(t.owner, models.ModeWork, category)
	if err != nil {
		return nil, err
	}
	t.adopt(fs)
	logger.Info("Focus timer started", "session", fs.ID, "category", models.NormalizeCategory(category))
	return fs, nil
}

// adopt attaches the timer to a session that is already running, such as
// one left open by a previous run.
func (t *timerModel) adopt(fs *models.FocusSession) {
	t.state = timerRunning
	t.startTime = fs.StartTime
	t.elapsed = time.Since(fs.StartTime)
	t.pauseGap = 0
	t.category = fs.Category
	t.sessionID = fs.ID
	t.lastActivity = time.Now()
	t.isIdle = false
}

func (t *timerModel) stop() (*models.FocusSession, error) {
	if t.state == timerStopped {
		return nil, nil
	}
	gap := t.pauseGap
	if t.state == timerPaused {
		gap += time.Since(t.pausedAt)
	}
	fs, err := t.store.StopSession(t.sessionID, true, gap)
	if err != nil {
		return nil, err
	}
	t.state = timerStopped
	t.elapsed = 0
	t.sessionID = ""
	logger.Info("Focus timer stopped", "session", fs.ID, "minutes", fs.Duration)
	return fs, nil
}

func (t *timerModel) pause() {
	if t.state != timerRunning {
		return
	}
	t.state = timerPaused
	t.pausedAt = time.Now()
}

func (t *timerModel) resume() {
	if t.state != timerPaused {
		return
	}
	t.pauseGap += time.Since(t.pausedAt)
	t.state = timerRunning
	t.isIdle = false
	t.lastActivity = time.Now()
}

func (t *timerModel) toggle() {
	switch t.state {
	case timerRunning:
		t.pause()
	case timerPaused:
		t.resume()
	}
}

func (t *timerModel) tick() {
	if t.state == timerRunning {
		t.elapsed = time.Since(t.startTime) - t.pauseGap

		if t.idleTimeout > 0 && time.Since(t.lastActivity) > t.idleTimeout && !t.isIdle {
			t.isIdle = true
			t.pause()
			logger.Debug("Focus timer paused after idle timeout", "session", t.sessionID)
		}
	}
}

func (t *timerModel) recordActivity() {
	t.lastActivity = time.Now()
	if t.isIdle && t.state == timerPaused {
		t.resume()
		t.isIdle = false
	}
}

func (t timerModel) running() bool {
	return t.state != timerStopped
}

func (t timerModel) paused() bool {
	return t.state == timerPaused
}

func (t timerModel) currentElapsed() time.Duration {
	if t.state == timerStopped {
		return 0
	}
	if t.state == timerPaused {
		return time.Since(t.startTime) - t.pauseGap - time.Since(t.pausedAt)
	}
	return time.Since(t.startTime) - t.pauseGap
}
