package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeedBump_FloorsAtOne(t *testing.T) {
	tests := []struct {
		name   string
		speed  int
		amount int
		want   int
	}{
		{"normal slowdown", 10, 5, 5},
		{"exact floor", 6, 5, 1},
		{"below floor", 3, 5, 1},
		{"already at floor", 1, 5, 1},
		{"zero amount", 10, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &Vehicle{ID: 1, Speed: tt.speed}
			note, ok := Apply(SpeedBump(tt.amount), v, NewStream(1))
			assert.Equal(t, tt.want, v.Speed)
			assert.False(t, ok)
			assert.Empty(t, note)
		})
	}
}

func TestSpeedEnforcement_SlowdownStaysAboveZero(t *testing.T) {
	rng := NewStream(42)
	for i := 0; i < 1000; i++ {
		v := &Vehicle{ID: 1, Speed: 3}
		Apply(SpeedEnforcement(15), v, rng)
		// Either untouched or slowed to the floor, never below 1.
		assert.GreaterOrEqual(t, v.Speed, 1)
		assert.Contains(t, []int{3, 1}, v.Speed)
	}
}

func TestSpeedEnforcement_SlowdownRate(t *testing.T) {
	rng := NewStream(7)
	const n = 10000
	slowed := 0
	for i := 0; i < n; i++ {
		v := &Vehicle{ID: 1, Speed: 30}
		Apply(SpeedEnforcement(15), v, rng)
		if v.Speed == 25 {
			slowed++
		} else {
			require.Equal(t, 30, v.Speed)
		}
	}
	rate := float64(slowed) / n
	assert.InDelta(t, 0.5, rate, 0.03)
}

func TestSpeedEnforcement_ViolationIsObservational(t *testing.T) {
	rng := NewStream(3)
	for i := 0; i < 1000; i++ {
		v := &Vehicle{ID: 1, Speed: 30}
		note, ok := Apply(SpeedEnforcement(15), v, rng)
		// 30 or 25 after the draw, both above the limit: always flagged,
		// and the flag itself never touches speed.
		require.True(t, ok)
		require.Equal(t, NoteViolation, note)
		assert.Contains(t, []int{30, 25}, v.Speed)
	}
}

func TestSpeedEnforcement_NoViolationAtOrBelowLimit(t *testing.T) {
	rng := NewStream(3)
	for i := 0; i < 1000; i++ {
		v := &Vehicle{ID: 1, Speed: 15}
		_, ok := Apply(SpeedEnforcement(15), v, rng)
		assert.False(t, ok)
	}
}

func TestCongestionCharge_InertBelowThreshold(t *testing.T) {
	v := &Vehicle{ID: 1, Speed: 20}
	rng := NewStream(99)
	note, ok := Apply(CongestionCharge(0.5), v, rng)
	assert.Equal(t, 20, v.Speed)
	assert.False(t, ok)
	assert.Empty(t, note)

	// The inert branch consumes no draw: the stream continues exactly
	// where a fresh stream would.
	fresh := NewStream(99)
	assert.Equal(t, fresh.Chance(0.5), rng.Chance(0.5))
}

func TestCongestionCharge_ActiveBranches(t *testing.T) {
	rng := NewStream(11)
	const n = 10000
	charged, stalled := 0, 0
	for i := 0; i < n; i++ {
		v := &Vehicle{ID: 1, Speed: 20}
		note, ok := Apply(CongestionCharge(0.9), v, rng)
		require.True(t, ok)
		switch note {
		case NoteCharged:
			charged++
			assert.Equal(t, 20, v.Speed)
		case NoteStalled:
			stalled++
			assert.Equal(t, 0, v.Speed)
		default:
			t.Fatalf("unexpected note %q", note)
		}
	}
	assert.InDelta(t, 0.4, float64(charged)/n, 0.03)
	assert.InDelta(t, 0.6, float64(stalled)/n, 0.03)
}

func TestCollisionRisk_StopRate(t *testing.T) {
	rng := NewStream(5)
	const n = 20000
	stopped := 0
	for i := 0; i < n; i++ {
		v := &Vehicle{ID: 1, Speed: 20}
		note, ok := Apply(CollisionRisk(), v, rng)
		if ok {
			require.Equal(t, NoteCollision, note)
			require.Equal(t, 0, v.Speed)
			stopped++
		} else {
			require.Equal(t, 20, v.Speed)
		}
	}
	assert.InDelta(t, 0.05, float64(stopped)/n, 0.01)
}

func TestApply_SpeedNeverNegative(t *testing.T) {
	rng := NewStream(13)
	effects := []Effect{
		SpeedEnforcement(15),
		SpeedBump(5),
		CongestionCharge(0.9),
		CollisionRisk(),
	}
	for i := 0; i < 5000; i++ {
		v := &Vehicle{ID: 1, Speed: i % 40}
		for _, e := range effects {
			Apply(e, v, rng)
			assert.GreaterOrEqual(t, v.Speed, 0)
		}
	}
}

func TestApply_UnknownKind(t *testing.T) {
	v := &Vehicle{ID: 1, Speed: 10}
	note, ok := Apply(Effect{Kind: Kind(99)}, v, NewStream(1))
	assert.False(t, ok)
	assert.Empty(t, note)
	assert.Equal(t, 10, v.Speed)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "speedEnforcement", KindSpeedEnforcement.String())
	assert.Equal(t, "speedBump", KindSpeedBump.String())
	assert.Equal(t, "congestionCharge", KindCongestionCharge.String())
	assert.Equal(t, "collisionRisk", KindCollisionRisk.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
