package sim

import "fmt"

// Config is the full set of knobs for a single simulation run.
type Config struct {
	NumVehicles     int
	TimeLimit       int
	RoadLength      int
	SpeedLimit      int
	BumpAmount      int
	CongestionFumes float64
	SpeedValues     []int
	SpeedWeights    []float64
}

// Validate rejects degenerate configurations eagerly, before any
// simulation starts.
func (c Config) Validate() error {
	if c.NumVehicles <= 0 {
		return fmt.Errorf("numVehicles must be positive, got %d", c.NumVehicles)
	}
	if c.TimeLimit <= 0 {
		return fmt.Errorf("timeLimit must be positive, got %d", c.TimeLimit)
	}
	if c.RoadLength <= 0 {
		return fmt.Errorf("roadLength must be positive, got %d", c.RoadLength)
	}
	if len(c.SpeedValues) == 0 {
		return fmt.Errorf("speedValues must not be empty")
	}
	if len(c.SpeedValues) != len(c.SpeedWeights) {
		return fmt.Errorf("speedValues and speedWeights must have equal length, got %d and %d",
			len(c.SpeedValues), len(c.SpeedWeights))
	}
	var total float64
	for i, w := range c.SpeedWeights {
		if w < 0 {
			return fmt.Errorf("speedWeights[%d] must be non-negative, got %v", i, w)
		}
		total += w
	}
	if total <= 0 {
		return fmt.Errorf("speedWeights must sum to a positive value")
	}
	if c.CongestionFumes < 0 || c.CongestionFumes > 1 {
		return fmt.Errorf("congestionFumes must be in [0,1], got %v", c.CongestionFumes)
	}
	return nil
}

// pipeline builds the road effect chain for this configuration. The order
// is fixed: enforcement, bump, congestion charge, collision risk.
func (c Config) pipeline() []Effect {
	return []Effect{
		SpeedEnforcement(c.SpeedLimit),
		SpeedBump(c.BumpAmount),
		CongestionCharge(c.CongestionFumes),
		CollisionRisk(),
	}
}

// Result is the outcome of one run.
type Result struct {
	// Finished holds the ids that completed the road in time, in
	// finishing order.
	Finished []int
	// Outcomes maps every vehicle id to its terminal classification.
	Outcomes map[int]Outcome
}

// Run executes one simulation: sample initial speeds, build the shared
// road, register one vehicle per id in creation order, and drive the
// engine to the time limit. trace may be nil.
func Run(cfg Config, rng *Stream, trace TraceSink) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	road, err := NewRoad(cfg.RoadLength, cfg.pipeline()...)
	if err != nil {
		return Result{}, err
	}

	// All initial speeds are drawn before the first tick, in creation
	// order. These draws come first in the stream.
	speeds := make([]int, cfg.NumVehicles)
	for i := range speeds {
		speeds[i] = rng.WeightedInt(cfg.SpeedValues, cfg.SpeedWeights)
	}

	engine, err := NewEngine(road, cfg.TimeLimit, rng)
	if err != nil {
		return Result{}, err
	}
	if trace != nil {
		engine.SetTrace(trace)
	}

	for i := 0; i < cfg.NumVehicles; i++ {
		engine.Register(&Vehicle{ID: i + 1, Speed: speeds[i]})
	}

	finished := engine.Run()

	outcomes := make(map[int]Outcome, cfg.NumVehicles)
	for i := 1; i <= cfg.NumVehicles; i++ {
		outcomes[i] = engine.Outcome(i)
	}

	return Result{Finished: finished, Outcomes: outcomes}, nil
}

// RunCount is the count-only entry point used by the experiment driver.
func RunCount(cfg Config, rng *Stream) (int, error) {
	res, err := Run(cfg, rng, nil)
	if err != nil {
		return 0, err
	}
	return len(res.Finished), nil
}
