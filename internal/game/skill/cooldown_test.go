package skill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelkoskia/TheShadowCastleBlog-sub001/internal/testutil"
)

func newTestTracker(t *testing.T) (*Tracker, *testutil.Clock) {
	t.Helper()
	clock := testutil.NewClock()
	return NewTracker(clock.Now, 0), clock
}

func TestTracker_ThreeTurnCooldown(t *testing.T) {
	tr, clock := newTestTracker(t)
	h := testutil.NewHunter(t)

	tr.StartCooldown(h, "heal", 3)
	assert.True(t, tr.IsOnCooldown(h, "heal"))

	clock.Advance(29 * time.Second)
	assert.True(t, tr.IsOnCooldown(h, "heal"))

	clock.Advance(time.Second)
	assert.False(t, tr.IsOnCooldown(h, "heal"))
	assert.NotContains(t, h.Cooldowns, "heal", "expired entry removed on access")
}

func TestTracker_MalformedTimestampSelfHeals(t *testing.T) {
	tr, _ := newTestTracker(t)
	h := testutil.NewHunter(t)
	h.Cooldowns["power_strike"] = "not-a-time"

	assert.False(t, tr.IsOnCooldown(h, "power_strike"))
	assert.NotContains(t, h.Cooldowns, "power_strike")

	h.Cooldowns["heal"] = "2025-13-45"
	_, ok := tr.Remaining(h, "heal")
	assert.False(t, ok)
	assert.NotContains(t, h.Cooldowns, "heal")
}

func TestTracker_Remaining(t *testing.T) {
	tr, clock := newTestTracker(t)
	h := testutil.NewHunter(t)

	_, ok := tr.Remaining(h, "heal")
	assert.False(t, ok)

	tr.StartFor(h, "rest", 5*time.Minute)
	clock.Advance(45 * time.Second)

	left, ok := tr.Remaining(h, "rest")
	require.True(t, ok)
	assert.Equal(t, 4*time.Minute+15*time.Second, left)
	assert.Equal(t, "4m 15s", FormatRemaining(left))
}

func TestTracker_Sweep(t *testing.T) {
	tr, clock := newTestTracker(t)
	h := testutil.NewHunter(t)

	tr.StartCooldown(h, "a", 1)
	tr.StartCooldown(h, "b", 5)
	h.Cooldowns["c"] = "garbage"
	clock.Advance(20 * time.Second)

	assert.Equal(t, 2, tr.Sweep(h))
	assert.Equal(t, []string{"b"}, keys(h.Cooldowns))
}

func TestTracker_CustomTurnDuration(t *testing.T) {
	clock := testutil.NewClock()
	tr := NewTracker(clock.Now, 2*time.Second)
	h := testutil.NewHunter(t)

	tr.StartCooldown(h, "heal", 3)
	clock.Advance(6 * time.Second)
	assert.False(t, tr.IsOnCooldown(h, "heal"))
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{1500 * time.Millisecond, "1s"},
		{59 * time.Second, "59s"},
		{60 * time.Second, "1m 0s"},
		{125 * time.Second, "2m 5s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatRemaining(tt.d))
	}
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
