package hwio

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Scheme selects how user-supplied pin numbers are translated before any
// hardware access. It is chosen exactly once, when the handle is opened,
// and is immutable for the life of the process.
type Scheme int

const (
	// SchemeGpio uses BCM GPIO numbering directly.
	SchemeGpio Scheme = iota
	// SchemePhys uses physical header positions.
	SchemePhys
	// SchemeWpi uses the classic wiring-scheme numbering.
	SchemeWpi
	// SchemeNone skips hardware initialisation entirely; operations run
	// against a recording stub. Used for dry runs and tests.
	SchemeNone
)

// String returns the string representation of the scheme.
func (s Scheme) String() string {
	switch s {
	case SchemePhys:
		return "Physical"
	case SchemeWpi:
		return "WiringPi"
	case SchemeNone:
		return "Uninitialised"
	default:
		return "GPIO"
	}
}

// AnalogDevice is an attached extension providing analog channels for a
// contiguous pin range starting at PinBase.
type AnalogDevice interface {
	PinBase() int
	PinCount() int
	AnalogRead(channel int) (int, error)
	AnalogWrite(channel int, value int) error
	Close() error
}

// extensionBase is the first pin number reserved for extension devices.
// Onboard pins live below it.
const extensionBase = 64

// pwmBaseClock is the PWM source clock on the SoC, in Hz.
const pwmBaseClock = 19200000

// GPIO is the hardware-access handle. All pin arguments to its methods
// are in the handle's numbering scheme and are translated to BCM numbers
// before touching the hardware.
type GPIO struct {
	scheme   Scheme
	be       backend
	pwmRange uint32
	pwmFreq  int
	devices  []AnalogDevice
}

// Open memory-maps the GPIO register range and returns a handle using
// the given numbering scheme. SchemeNone skips the mapping and installs
// a stub backend.
func Open(scheme Scheme) (*GPIO, error) {
	var be backend
	if scheme == SchemeNone {
		be = newStubBackend()
	} else {
		be = &rpioBackend{}
	}
	if err := be.open(); err != nil {
		return nil, fmt.Errorf("unable to initialise GPIO: %v", err)
	}
	log.Debugf("hwio: opened, scheme %s", scheme)
	return &GPIO{scheme: scheme, be: be, pwmRange: 1024}, nil
}

// NewStub returns a handle backed by a recording stub, plus the stub for
// inspection. Tests use it; `-z` uses Open(SchemeNone).
func NewStub(scheme Scheme) (*GPIO, *Stub) {
	be := newStubBackend()
	return &GPIO{scheme: scheme, be: be, pwmRange: 1024}, &Stub{be: be}
}

// Close releases the hardware mapping and any attached devices.
func (g *GPIO) Close() error {
	for _, d := range g.devices {
		if err := d.Close(); err != nil {
			log.Warnf("hwio: closing extension at pin base %d: %v", d.PinBase(), err)
		}
	}
	return g.be.close()
}

// Scheme returns the numbering scheme the handle was opened with.
func (g *GPIO) Scheme() Scheme {
	return g.scheme
}

// Attach registers an extension device for analog routing.
func (g *GPIO) Attach(dev AnalogDevice) {
	log.Debugf("hwio: attached extension at pin base %d (%d pins)", dev.PinBase(), dev.PinCount())
	g.devices = append(g.devices, dev)
}

// Translate maps a pin number in the handle's scheme to its BCM GPIO
// number.
func (g *GPIO) Translate(pin int) (int, error) {
	bcm := -1
	switch g.scheme {
	case SchemePhys:
		bcm = PhysToGpio(pin)
	case SchemeWpi:
		bcm = WpiToGpio(pin)
	default:
		if pin >= 0 && pin < extensionBase {
			bcm = pin
		}
	}
	if bcm < 0 {
		return 0, fmt.Errorf("pin %d is not a valid %s pin", pin, g.scheme)
	}
	return bcm, nil
}

func (g *GPIO) pin(pin int) (Pin, error) {
	bcm, err := g.Translate(pin)
	if err != nil {
		return nil, err
	}
	return g.be.pin(bcm), nil
}

// PinMode sets the function of a pin.
func (g *GPIO) PinMode(pin int, mode PinMode) error {
	p, err := g.pin(pin)
	if err != nil {
		return err
	}
	switch mode {
	case ModeInput:
		p.Input()
	case ModeOutput:
		p.Output()
	case ModePwm, ModePwmTone:
		p.Pwm()
	case ModeClock:
		p.Clock()
	case ModeAlt0, ModeAlt1, ModeAlt2, ModeAlt3, ModeAlt4, ModeAlt5:
		bcm, _ := g.Translate(pin)
		return g.be.setAlt(bcm, int(mode-ModeAlt0))
	default:
		return fmt.Errorf("unknown pin mode %d", mode)
	}
	return nil
}

// PullControl configures the pull resistor of a pin.
func (g *GPIO) PullControl(pin int, pull Pull) error {
	p, err := g.pin(pin)
	if err != nil {
		return err
	}
	p.Pull(pull)
	return nil
}

// DigitalRead returns 0 or 1 for the pin's current state.
func (g *GPIO) DigitalRead(pin int) (int, error) {
	p, err := g.pin(pin)
	if err != nil {
		return 0, err
	}
	return int(p.Read()), nil
}

// DigitalWrite sets the pin high for any nonzero value, low for zero.
func (g *GPIO) DigitalWrite(pin int, value int) error {
	p, err := g.pin(pin)
	if err != nil {
		return err
	}
	if value == 0 {
		p.Write(Low)
	} else {
		p.Write(High)
	}
	return nil
}

// Toggle inverts the pin's current state once.
func (g *GPIO) Toggle(pin int) error {
	p, err := g.pin(pin)
	if err != nil {
		return err
	}
	p.Toggle()
	return nil
}

// device returns the attached extension covering pin, if any.
func (g *GPIO) device(pin int) AnalogDevice {
	for _, d := range g.devices {
		if pin >= d.PinBase() && pin < d.PinBase()+d.PinCount() {
			return d
		}
	}
	return nil
}

// AnalogRead reads an analog value from an extension channel. Onboard
// pins have no analog inputs and read as 0.
func (g *GPIO) AnalogRead(pin int) (int, error) {
	if d := g.device(pin); d != nil {
		return d.AnalogRead(pin - d.PinBase())
	}
	if pin < extensionBase {
		return 0, nil
	}
	return 0, fmt.Errorf("no analog device covers pin %d", pin)
}

// AnalogWrite writes an analog value to an extension channel.
func (g *GPIO) AnalogWrite(pin int, value int) error {
	if d := g.device(pin); d != nil {
		return d.AnalogWrite(pin-d.PinBase(), value)
	}
	return fmt.Errorf("no analog device covers pin %d", pin)
}

// PwmSetRange writes the PWM range register of both channels. The range
// persists in hardware across invocations; it is also kept on the handle
// so later duty-cycle writes in the same process clamp against it.
func (g *GPIO) PwmSetRange(r uint32) error {
	g.pwmRange = r
	return g.be.setPwmRange(r)
}

// PwmSetClock programs the PWM clock divider against the 19.2MHz base
// clock.
func (g *GPIO) PwmSetClock(div uint32) error {
	g.pwmFreq = pwmBaseClock / int(div)
	return g.be.setPwmClock(div)
}

// PwmSetMode selects mark-space (true) or balanced (false) PWM output
// for both channels.
func (g *GPIO) PwmSetMode(markSpace bool) error {
	log.Debugf("hwio: pwm mode mark-space=%v", markSpace)
	return g.be.setPwmMode(markSpace)
}

// PwmWrite outputs the value as a duty cycle against the current range.
func (g *GPIO) PwmWrite(pin int, value int) error {
	p, err := g.pin(pin)
	if err != nil {
		return err
	}
	duty := uint32(value)
	if duty > g.pwmRange {
		duty = g.pwmRange
	}
	p.Pwm()
	if g.pwmFreq > 0 {
		p.Freq(g.pwmFreq)
	}
	p.DutyCycle(duty, g.pwmRange)
	return nil
}

// PwmTone outputs an audible square wave of the given frequency on a PWM
// pin. Frequency 0 silences the pin.
func (g *GPIO) PwmTone(pin int, freq int) error {
	p, err := g.pin(pin)
	if err != nil {
		return err
	}
	p.Pwm()
	if freq == 0 {
		p.DutyCycle(0, g.pwmRange)
		return nil
	}
	cycle := g.pwmRange
	p.Freq(freq * int(cycle))
	p.DutyCycle(cycle/2, cycle)
	return nil
}

// ClockSet outputs a clock of the given frequency on a clock-capable pin.
func (g *GPIO) ClockSet(pin int, freq int) error {
	p, err := g.pin(pin)
	if err != nil {
		return err
	}
	p.Clock()
	p.Freq(freq)
	return nil
}

// PadDrive sets the drive strength of a pad group (0..2) to value (0..7).
// Range checks belong to the caller; this routes to the hardware.
func (g *GPIO) PadDrive(group, value int) error {
	return g.be.padDrive(group, value)
}

// ReadBank reads 32 pins as a single word: bit i of bank b is BCM pin
// 32*b+i. SoC pins past 53 read as 0.
func (g *GPIO) ReadBank(bank int) (uint32, error) {
	if bank != 0 && bank != 1 {
		return 0, fmt.Errorf("bad bank number %d. Must be 0 or 1", bank)
	}
	var word uint32
	for i := 0; i < 32; i++ {
		bcm := bank*32 + i
		if bcm > 53 {
			break
		}
		if g.be.pin(bcm).Read() == High {
			word |= 1 << uint(i)
		}
	}
	return word, nil
}

// ReadPin reads a pin addressed by its BCM number directly, bypassing
// the numbering scheme. The pin report uses it.
func (g *GPIO) ReadPin(bcm int) State {
	return g.be.pin(bcm).Read()
}

// ModeOf returns the recorded function of a pin, by BCM number. Only
// the stub backend records functions; the memory-mapped backend does
// not expose readback and reports false.
func (g *GPIO) ModeOf(bcm int) (PinMode, bool) {
	return g.be.modeOf(bcm)
}

// WriteByte writes the value over the byte interface: bit i goes to
// wiring-scheme pin i, regardless of the handle's numbering scheme.
func (g *GPIO) WriteByte(value byte) error {
	for i := 0; i < 8; i++ {
		p := g.be.pin(wpiToGpio[i])
		p.Output()
		if value&(1<<uint(i)) != 0 {
			p.Write(High)
		} else {
			p.Write(Low)
		}
	}
	return nil
}

// ReadByte reads the byte interface back: bit i comes from wiring-scheme
// pin i.
func (g *GPIO) ReadByte() (byte, error) {
	var value byte
	for i := 0; i < 8; i++ {
		if g.be.pin(wpiToGpio[i]).Read() == High {
			value |= 1 << uint(i)
		}
	}
	return value, nil
}
