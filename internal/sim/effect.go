package sim

// Kind discriminates the closed set of road effect variants.
type Kind int

const (
	KindSpeedEnforcement Kind = iota
	KindSpeedBump
	KindCongestionCharge
	KindCollisionRisk
)

func (k Kind) String() string {
	switch k {
	case KindSpeedEnforcement:
		return "speedEnforcement"
	case KindSpeedBump:
		return "speedBump"
	case KindCongestionCharge:
		return "congestionCharge"
	case KindCollisionRisk:
		return "collisionRisk"
	default:
		return "unknown"
	}
}

// Note is the observational signal an effect may emit alongside its speed
// mutation. Notes surface in the trace and never change the outcome of a
// run themselves.
type Note string

const (
	// NoteViolation: the vehicle passed the enforcement point above the limit.
	NoteViolation Note = "violation"
	// NoteCharged: the congestion charge was paid, speed unchanged.
	NoteCharged Note = "charged"
	// NoteStalled: the congestion charge branch stopped the vehicle.
	NoteStalled Note = "stalled"
	// NoteCollision: the collision draw triggered, stopping the vehicle.
	NoteCollision Note = "collision"
)

// Effect is one element of a road's pipeline. Effects carry only their
// construction parameters; only the fields relevant to the Kind are set.
type Effect struct {
	Kind   Kind
	Limit  int     // SpeedEnforcement
	Amount int     // SpeedBump
	Fumes  float64 // CongestionCharge
}

// SpeedEnforcement slows a vehicle by 5 with probability 0.5, then reports
// a violation if it is still above limit.
func SpeedEnforcement(limit int) Effect {
	return Effect{Kind: KindSpeedEnforcement, Limit: limit}
}

// SpeedBump unconditionally slows a vehicle by amount.
func SpeedBump(amount int) Effect {
	return Effect{Kind: KindSpeedBump, Amount: amount}
}

// CongestionCharge is inert while fumes <= 0.5. Above that, the vehicle is
// charged with probability 0.4 and stalled otherwise.
func CongestionCharge(fumes float64) Effect {
	return Effect{Kind: KindCongestionCharge, Fumes: fumes}
}

// CollisionRisk stops a vehicle with probability 0.05.
func CollisionRisk() Effect {
	return Effect{Kind: KindCollisionRisk}
}

type applyFunc func(Effect, *Vehicle, *Stream) (Note, bool)

// registry maps each kind to its behavior. A new variant needs a Kind
// constant and an entry here, nothing else.
var registry = map[Kind]applyFunc{
	KindSpeedEnforcement: applySpeedEnforcement,
	KindSpeedBump:        applySpeedBump,
	KindCongestionCharge: applyCongestionCharge,
	KindCollisionRisk:    applyCollisionRisk,
}

// Apply runs one effect against the vehicle, drawing from the shared
// stream. It returns the note the effect emitted, if any. Effects read and
// mutate only the vehicle they are given.
func Apply(e Effect, v *Vehicle, rng *Stream) (Note, bool) {
	fn, ok := registry[e.Kind]
	if !ok {
		return "", false
	}
	return fn(e, v, rng)
}

func applySpeedEnforcement(e Effect, v *Vehicle, rng *Stream) (Note, bool) {
	if rng.Bool() {
		v.Speed = slowdown(v.Speed, 5)
	}
	if v.Speed > e.Limit {
		return NoteViolation, true
	}
	return "", false
}

func applySpeedBump(e Effect, v *Vehicle, _ *Stream) (Note, bool) {
	v.Speed = slowdown(v.Speed, e.Amount)
	return "", false
}

func applyCongestionCharge(e Effect, v *Vehicle, rng *Stream) (Note, bool) {
	// Inert below the threshold; no draw is consumed on this branch.
	if e.Fumes <= 0.5 {
		return "", false
	}
	if rng.Chance(0.4) {
		return NoteCharged, true
	}
	v.Speed = 0
	return NoteStalled, true
}

func applyCollisionRisk(_ Effect, v *Vehicle, rng *Stream) (Note, bool) {
	if rng.Chance(0.05) {
		v.Speed = 0
		return NoteCollision, true
	}
	return "", false
}

// slowdown floors at 1: a slowed vehicle keeps crawling, unlike a vehicle
// stopped by a stall or collision, which sits at exactly 0.
func slowdown(speed, by int) int {
	if speed-by < 1 {
		return 1
	}
	return speed - by
}
