package hwio

import (
	"fmt"
	"strings"
)

// State represents the current binary value of a pin. Is it High or Low voltage.
type State uint8

const (
	// Low voltage registered on the pin (~0-1v)
	Low State = 0
	// High voltage registered on the pin (~1-3.3v)
	High State = 1
)

// String returns the string representation of the state.
func (s State) String() string {
	if s == Low {
		return "Low"
	}
	return "High"
}

// Edge refers to the rising or falling of a voltage value on the pin.
type Edge int

const (
	// EdgeNone means no change
	EdgeNone Edge = 0
	// EdgeRising means that the voltage is moving from a low to a high state.
	EdgeRising Edge = 1
	// EdgeFalling means that the voltage is moving from a high to a low state.
	EdgeFalling Edge = 2
	// EdgeBoth means that a change is occurring in either direction.
	EdgeBoth Edge = 3
)

// String returns the string representation of the edge.
func (e Edge) String() string {
	switch e {
	case EdgeRising:
		return "Rising"
	case EdgeFalling:
		return "Falling"
	case EdgeBoth:
		return "Both"
	default:
		return "None"
	}
}

// ParseEdge maps a user-supplied trigger name to an Edge. The match is
// case-insensitive and only rising, falling and both are accepted; "none"
// is not a valid trigger for waiting.
func ParseEdge(s string) (Edge, error) {
	switch strings.ToLower(s) {
	case "rising":
		return EdgeRising, nil
	case "falling":
		return EdgeFalling, nil
	case "both":
		return EdgeBoth, nil
	}
	return EdgeNone, fmt.Errorf("invalid mode: %s. Should be rising, falling or both", s)
}

// Pull refers to the configuration of the pin's internal resistor circuitry.
type Pull int

const (
	// PullOff disables the pull resistor, the input floats.
	PullOff Pull = 0
	// PullDown applies pull-down resistance to the pin
	PullDown Pull = 1
	// PullUp applies pull-up resistance to the pin
	PullUp Pull = 2
)

func (p Pull) String() string {
	switch p {
	case PullDown:
		return "Pull Down"
	case PullUp:
		return "Pull Up"
	default:
		return "Pull Off"
	}
}

// PinMode is the function a pin is configured to perform.
type PinMode int

const (
	ModeInput PinMode = iota
	ModeOutput
	ModePwm
	ModePwmTone
	ModeClock
	ModeAlt0
	ModeAlt1
	ModeAlt2
	ModeAlt3
	ModeAlt4
	ModeAlt5
)

// String returns the string representation of the mode.
func (m PinMode) String() string {
	switch m {
	case ModeInput:
		return "IN"
	case ModeOutput:
		return "OUT"
	case ModePwm, ModePwmTone:
		return "PWM"
	case ModeClock:
		return "CLK"
	case ModeAlt0, ModeAlt1, ModeAlt2, ModeAlt3, ModeAlt4, ModeAlt5:
		return fmt.Sprintf("ALT%d", int(m-ModeAlt0))
	default:
		return "?"
	}
}

// Pin is the per-pin hardware interface the rest of the package drives.
// The real implementation wraps a memory-mapped go-rpio pin; a stub
// implementation records operations for dry runs and tests.
type Pin interface {
	// Input sets the pin to be read from.
	Input()
	// Output sets the pin to be written to.
	Output()
	// Clock sets the pin to clock output.
	Clock()
	// Pwm sets the pin to hardware PWM output.
	Pwm()
	// Read returns the current state of the pin.
	Read() State
	// Write sets the state of the pin.
	Write(State)
	// Toggle inverts the state of the pin.
	Toggle()
	// Pull configures the pin's resistor.
	Pull(Pull)
	// Freq sets the source frequency for PWM or clock output, in Hz.
	Freq(hz int)
	// DutyCycle sets duty out of cycle for PWM output.
	DutyCycle(duty, cycle uint32)
	// Detect arms edge detection on the pin; EdgeNone disarms it.
	Detect(Edge)
	// EdgeDetected reports and clears a pending edge event.
	EdgeDetected() bool
}

// backend creates pins and performs the few operations that are not
// per-pin register writes.
type backend interface {
	open() error
	close() error
	pin(bcm int) Pin
	modeOf(bcm int) (PinMode, bool)
	setAlt(bcm, alt int) error
	padDrive(group, value int) error
	setPwmRange(r uint32) error
	setPwmClock(div uint32) error
	setPwmMode(markSpace bool) error
}
