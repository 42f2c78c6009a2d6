package hwio

import (
	rpio "github.com/stianeikeland/go-rpio/v4"
)

// rpioBackend drives the real hardware through the go-rpio memory map.
type rpioBackend struct{}

func (b *rpioBackend) open() error {
	return rpio.Open()
}

func (b *rpioBackend) close() error {
	return rpio.Close()
}

func (b *rpioBackend) pin(bcm int) Pin {
	return rpioPin{p: rpio.Pin(bcm)}
}

func (b *rpioBackend) modeOf(bcm int) (PinMode, bool) {
	return ModeInput, false
}

// rpioPin adapts a go-rpio pin to the Pin interface.
type rpioPin struct {
	p rpio.Pin
}

func (r rpioPin) Input()  { r.p.Input() }
func (r rpioPin) Output() { r.p.Output() }
func (r rpioPin) Clock()  { r.p.Mode(rpio.Clock) }
func (r rpioPin) Pwm()    { r.p.Mode(rpio.Pwm) }

func (r rpioPin) Read() State {
	if r.p.Read() == rpio.High {
		return High
	}
	return Low
}

func (r rpioPin) Write(s State) {
	if s == High {
		r.p.Write(rpio.High)
		return
	}
	r.p.Write(rpio.Low)
}

func (r rpioPin) Toggle() {
	r.p.Toggle()
}

func (r rpioPin) Pull(p Pull) {
	r.p.Pull(rPull(p))
}

func (r rpioPin) Freq(hz int) {
	r.p.Freq(hz)
}

func (r rpioPin) DutyCycle(duty, cycle uint32) {
	r.p.DutyCycle(duty, cycle)
}

func (r rpioPin) Detect(e Edge) {
	r.p.Detect(rEdge(e))
}

func (r rpioPin) EdgeDetected() bool {
	return r.p.EdgeDetected()
}

func rEdge(e Edge) rpio.Edge {
	switch e {
	case EdgeRising:
		return rpio.RiseEdge
	case EdgeFalling:
		return rpio.FallEdge
	case EdgeBoth:
		return rpio.AnyEdge
	default:
		return rpio.NoEdge
	}
}

func rPull(p Pull) rpio.Pull {
	switch p {
	case PullDown:
		return rpio.PullDown
	case PullUp:
		return rpio.PullUp
	default:
		return rpio.PullOff
	}
}
