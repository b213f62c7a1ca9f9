package sim

import "fmt"

// Outcome is a vehicle's terminal classification. A vehicle starts Running
// and transitions exactly once, to Finished or TimedOut.
type Outcome int

const (
	Running Outcome = iota
	Finished
	TimedOut
)

func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case Finished:
		return "finished"
	case TimedOut:
		return "timedOut"
	default:
		return "unknown"
	}
}

// TraceEvent is one per-tick observation of a vehicle, emitted after the
// effect pipeline ran for that tick.
type TraceEvent struct {
	VehicleID int
	Tick      int
	Position  int
	Speed     int
	Notes     []Note
}

// TraceSink receives trace events when tracing is enabled. Sinks must not
// mutate the simulation; they exist purely for logging and storage.
type TraceSink interface {
	Record(ev TraceEvent)
}

// Engine drives simulated time tick by tick over a set of registered
// vehicles. Single-threaded by design: within a tick vehicles are stepped
// in registration order, and within a vehicle's turn effects apply in
// pipeline order. That fixed interleaving decides which draws of the shared
// stream go to which vehicle, so it is part of the determinism contract.
type Engine struct {
	road      Road
	timeLimit int
	rng       *Stream
	trace     TraceSink

	vehicles []*Vehicle
	outcomes map[int]Outcome
	finished []int
	clock    int
}

// NewEngine creates an engine for one run.
func NewEngine(road Road, timeLimit int, rng *Stream) (*Engine, error) {
	if timeLimit <= 0 {
		return nil, fmt.Errorf("time limit must be positive, got %d", timeLimit)
	}
	return &Engine{
		road:      road,
		timeLimit: timeLimit,
		rng:       rng,
		outcomes:  make(map[int]Outcome),
	}, nil
}

// SetTrace attaches a sink for per-tick events. Tracing is off by default
// and never required for correctness.
func (e *Engine) SetTrace(sink TraceSink) {
	e.trace = sink
}

// Register adds a vehicle to the run. Registration order is the per-tick
// iteration order.
func (e *Engine) Register(v *Vehicle) {
	e.vehicles = append(e.vehicles, v)
	e.outcomes[v.ID] = Running
}

// Clock returns the number of ticks executed so far.
func (e *Engine) Clock() int {
	return e.clock
}

// Outcome returns the classification of a vehicle by id.
func (e *Engine) Outcome(id int) Outcome {
	return e.outcomes[id]
}

// Finished returns the ids that reached the road's length in time, in
// finishing order.
func (e *Engine) Finished() []int {
	return e.finished
}

// Run executes the simulation until the time limit. Vehicles still running
// when the clock reaches the limit are classified TimedOut; the tick bound
// holds unconditionally, so a stalled vehicle (speed 0) cannot loop the
// engine forever. Returns the finished ids.
func (e *Engine) Run() []int {
	running := make([]*Vehicle, len(e.vehicles))
	copy(running, e.vehicles)

	for e.clock = 0; e.clock < e.timeLimit && len(running) > 0; {
		e.clock++
		still := running[:0]
		for _, v := range running {
			e.step(v)
			if v.Position >= e.road.Length {
				e.outcomes[v.ID] = Finished
				e.finished = append(e.finished, v.ID)
				continue
			}
			still = append(still, v)
		}
		running = still
	}

	for _, v := range running {
		e.outcomes[v.ID] = TimedOut
	}
	return e.finished
}

// step advances one vehicle through one tick: move, then the full effect
// pipeline. Speed mutations from effect i are visible to effect i+1 and
// persist into the next tick's advance.
func (e *Engine) step(v *Vehicle) {
	v.Advance()

	var notes []Note
	for _, eff := range e.road.Effects {
		if n, ok := Apply(eff, v, e.rng); ok {
			notes = append(notes, n)
		}
	}

	if e.trace != nil {
		e.trace.Record(TraceEvent{
			VehicleID: v.ID,
			Tick:      e.clock,
			Position:  v.Position,
			Speed:     v.Speed,
			Notes:     notes,
		})
	}
}
