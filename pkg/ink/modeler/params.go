package modeler

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidParams is wrapped by Params.Validate errors.
var ErrInvalidParams = errors.New("invalid modeler parameters")

// Params tunes the modeler. Distances are canvas units, rates are per second.
type Params struct {
	// WobbleTimeout is the window over which input positions are averaged.
	WobbleTimeout time.Duration
	// Below SpeedFloor the averaged position is used, above SpeedCeiling the
	// raw one, with a linear blend in between.
	SpeedFloor   float64
	SpeedCeiling float64

	// SpringMassConstant and DragConstant define the spring-mass follower.
	SpringMassConstant float64
	DragConstant       float64

	// MinOutputRate is the minimum number of output samples per second.
	MinOutputRate float64
	// End-of-stroke catch-up stops once the follower moves less than
	// EndOfStrokeStoppingDistance or after EndOfStrokeMaxIterations steps.
	EndOfStrokeStoppingDistance float64
	EndOfStrokeMaxIterations    int

	// MaxInputSamples bounds the input history kept for smoothing.
	MaxInputSamples int
}

// DefaultParams returns the parameters the tracing app ships with.
func DefaultParams() Params {
	return Params{
		WobbleTimeout:               40 * time.Millisecond,
		SpeedFloor:                  1.31,
		SpeedCeiling:                1.44,
		SpringMassConstant:          11.0 / 32400,
		DragConstant:                72,
		MinOutputRate:               180,
		EndOfStrokeStoppingDistance: 0.001,
		EndOfStrokeMaxIterations:    20,
		MaxInputSamples:             20,
	}
}

// Validate checks that every constant is usable.
func (p Params) Validate() error {
	switch {
	case p.WobbleTimeout <= 0:
		return fmt.Errorf("%w: wobble timeout must be positive, got %v", ErrInvalidParams, p.WobbleTimeout)
	case p.SpeedFloor < 0 || p.SpeedCeiling <= p.SpeedFloor:
		return fmt.Errorf("%w: speed floor %g must be below ceiling %g", ErrInvalidParams, p.SpeedFloor, p.SpeedCeiling)
	case p.SpringMassConstant <= 0:
		return fmt.Errorf("%w: spring mass constant must be positive, got %g", ErrInvalidParams, p.SpringMassConstant)
	case p.DragConstant <= 0:
		return fmt.Errorf("%w: drag constant must be positive, got %g", ErrInvalidParams, p.DragConstant)
	case p.MinOutputRate <= 0:
		return fmt.Errorf("%w: minimum output rate must be positive, got %g", ErrInvalidParams, p.MinOutputRate)
	case p.EndOfStrokeStoppingDistance <= 0:
		return fmt.Errorf("%w: stopping distance must be positive, got %g", ErrInvalidParams, p.EndOfStrokeStoppingDistance)
	case p.EndOfStrokeMaxIterations <= 0:
		return fmt.Errorf("%w: end of stroke iterations must be positive, got %d", ErrInvalidParams, p.EndOfStrokeMaxIterations)
	case p.MaxInputSamples < 2:
		return fmt.Errorf("%w: need at least 2 input samples, got %d", ErrInvalidParams, p.MaxInputSamples)
	}
	return nil
}
