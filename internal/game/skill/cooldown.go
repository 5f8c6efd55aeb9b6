package skill

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/model"
)

// DefaultTurnDuration converts cooldown turns into wall-clock time.
const DefaultTurnDuration = 10 * time.Second

// Tracker evaluates cooldowns stored on the hunter record.
// Expiry is absolute and checked lazily on access; nothing ticks in the background.
type Tracker struct {
	now  func() time.Time
	turn time.Duration
}

// NewTracker creates a Tracker. A nil clock means time.Now; a non-positive
// turn means DefaultTurnDuration.
func NewTracker(now func() time.Time, turn time.Duration) *Tracker {
	if now == nil {
		now = time.Now
	}
	if turn <= 0 {
		turn = DefaultTurnDuration
	}
	return &Tracker{now: now, turn: turn}
}

// Now returns the tracker's current time.
func (t *Tracker) Now() time.Time {
	return t.now()
}

// TurnDuration returns the real time one turn lasts.
func (t *Tracker) TurnDuration() time.Duration {
	return t.turn
}

// expiry parses the stored expiry for key. Malformed values are deleted.
func (t *Tracker) expiry(h *model.Hunter, key string) (time.Time, bool) {
	raw, ok := h.Cooldowns[key]
	if !ok {
		return time.Time{}, false
	}
	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		slog.Warn("dropping malformed cooldown", "hunter", h.ID, "key", key, "value", raw)
		delete(h.Cooldowns, key)
		return time.Time{}, false
	}
	return at, true
}

// IsOnCooldown reports whether key has an expiry still in the future.
// Past-due and malformed entries are removed as a side effect.
func (t *Tracker) IsOnCooldown(h *model.Hunter, key string) bool {
	at, ok := t.expiry(h, key)
	if !ok {
		return false
	}
	if t.now().Before(at) {
		return true
	}
	delete(h.Cooldowns, key)
	return false
}

// Remaining returns the time left on key, or false when it is not on cooldown.
func (t *Tracker) Remaining(h *model.Hunter, key string) (time.Duration, bool) {
	at, ok := t.expiry(h, key)
	if !ok {
		return 0, false
	}
	left := at.Sub(t.now())
	if left <= 0 {
		return 0, false
	}
	return left, true
}

// StartCooldown puts key on cooldown for turns turns.
func (t *Tracker) StartCooldown(h *model.Hunter, key string, turns int) {
	t.StartFor(h, key, time.Duration(turns)*t.turn)
}

// StartFor puts key on cooldown for a fixed duration.
func (t *Tracker) StartFor(h *model.Hunter, key string, d time.Duration) {
	if h.Cooldowns == nil {
		h.Cooldowns = make(map[string]string)
	}
	h.Cooldowns[key] = t.now().Add(d).UTC().Format(time.RFC3339Nano)
}

// Sweep removes every expired or malformed cooldown. Returns how many were removed.
func (t *Tracker) Sweep(h *model.Hunter) int {
	removed := 0
	for key := range h.Cooldowns {
		if !t.IsOnCooldown(h, key) {
			removed++
		}
	}
	return removed
}

// FormatRemaining renders a duration as "Xm Ys", or "Ys" under a minute.
func FormatRemaining(d time.Duration) string {
	secs := int(d.Seconds())
	if m := secs / 60; m > 0 {
		return fmt.Sprintf("%dm %ds", m, secs%60)
	}
	return fmt.Sprintf("%ds", secs)
}
