package hwio

import (
	"sync"
)

// stubBackend records every operation instead of touching hardware. It
// backs `-z` dry runs and the tests.
type stubBackend struct {
	mu   sync.Mutex
	pins map[int]*StubPin
	alts map[int]int
	pads map[int]int

	pwmRange     uint32
	pwmRangeSet  bool
	pwmDiv       uint32
	pwmDivSet    bool
	markSpace    bool
	markSpaceSet bool
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		pins: make(map[int]*StubPin),
		alts: make(map[int]int),
		pads: make(map[int]int),
	}
}

func (b *stubBackend) open() error  { return nil }
func (b *stubBackend) close() error { return nil }

func (b *stubBackend) pin(bcm int) Pin {
	return b.stubPin(bcm)
}

func (b *stubBackend) stubPin(bcm int) *StubPin {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pins[bcm]
	if !ok {
		p = &StubPin{bcm: bcm, mode: ModeInput}
		b.pins[bcm] = p
	}
	return p
}

func (b *stubBackend) modeOf(bcm int) (PinMode, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pins[bcm]
	if !ok {
		return ModeInput, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode, true
}

func (b *stubBackend) setAlt(bcm, alt int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.alts[bcm] = alt
	return nil
}

func (b *stubBackend) padDrive(group, value int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pads[group] = value
	return nil
}

func (b *stubBackend) setPwmRange(r uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pwmRange, b.pwmRangeSet = r, true
	return nil
}

func (b *stubBackend) setPwmClock(div uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pwmDiv, b.pwmDivSet = div, true
	return nil
}

func (b *stubBackend) setPwmMode(markSpace bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.markSpace, b.markSpaceSet = markSpace, true
	return nil
}

// Stub gives tests access to the recorded state of a stub-backed handle.
type Stub struct {
	be *stubBackend
}

// Pin returns the recording pin for a BCM number, creating it if needed.
func (s *Stub) Pin(bcm int) *StubPin {
	return s.be.stubPin(bcm)
}

// PadDrive returns the last drive strength recorded for a pad group.
func (s *Stub) PadDrive(group int) (int, bool) {
	s.be.mu.Lock()
	defer s.be.mu.Unlock()
	v, ok := s.be.pads[group]
	return v, ok
}

// Alt returns the last alternate function recorded for a pin.
func (s *Stub) Alt(bcm int) (int, bool) {
	s.be.mu.Lock()
	defer s.be.mu.Unlock()
	v, ok := s.be.alts[bcm]
	return v, ok
}

// PwmRange returns the last recorded PWM range register write.
func (s *Stub) PwmRange() (uint32, bool) {
	s.be.mu.Lock()
	defer s.be.mu.Unlock()
	return s.be.pwmRange, s.be.pwmRangeSet
}

// PwmClock returns the last recorded PWM clock divider write.
func (s *Stub) PwmClock() (uint32, bool) {
	s.be.mu.Lock()
	defer s.be.mu.Unlock()
	return s.be.pwmDiv, s.be.pwmDivSet
}

// PwmMarkSpace returns the last recorded PWM output mode.
func (s *Stub) PwmMarkSpace() (bool, bool) {
	s.be.mu.Lock()
	defer s.be.mu.Unlock()
	return s.be.markSpace, s.be.markSpaceSet
}

// StubPin is a recording implementation of Pin.
type StubPin struct {
	mu      sync.Mutex
	bcm     int
	mode    PinMode
	state   State
	pull    Pull
	edge    Edge
	pending int
	duty    uint32
	cycle   uint32
	freq    int
}

func (p *StubPin) Input()  { p.setMode(ModeInput) }
func (p *StubPin) Output() { p.setMode(ModeOutput) }
func (p *StubPin) Clock()  { p.setMode(ModeClock) }
func (p *StubPin) Pwm()    { p.setMode(ModePwm) }

func (p *StubPin) setMode(m PinMode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mode = m
}

func (p *StubPin) Read() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *StubPin) Write(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s
}

func (p *StubPin) Toggle() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == High {
		p.state = Low
	} else {
		p.state = High
	}
}

func (p *StubPin) Pull(pull Pull) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pull = pull
}

func (p *StubPin) Freq(hz int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.freq = hz
}

func (p *StubPin) DutyCycle(duty, cycle uint32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.duty, p.cycle = duty, cycle
}

func (p *StubPin) Detect(e Edge) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.edge = e
}

// EdgeDetected consumes one pending edge injected with TriggerEdge.
func (p *StubPin) EdgeDetected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.edge == EdgeNone || p.pending == 0 {
		return false
	}
	p.pending--
	return true
}

// TriggerEdge injects an edge event for the polling watcher to pick up.
func (p *StubPin) TriggerEdge() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending++
}

// Set forces the pin state, as if driven externally.
func (p *StubPin) Set(s State) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s
}

// Mode returns the recorded pin function.
func (p *StubPin) Mode() PinMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// State returns the recorded pin state.
func (p *StubPin) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// PullSetting returns the recorded pull configuration.
func (p *StubPin) PullSetting() Pull {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pull
}

// PwmSetting returns the recorded duty, cycle and frequency.
func (p *StubPin) PwmSetting() (duty, cycle uint32, freq int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.duty, p.cycle, p.freq
}
