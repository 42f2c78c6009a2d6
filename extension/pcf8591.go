package extension

import (
	"fmt"
	"strconv"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// pcf8591 drives the PCF8591 8-bit I2C ADC/DAC: four analog inputs on
// channels 0..3 and one analog output on channel 0. The only parameter
// is the I2C address, typically 0x48.
type pcf8591 struct {
	mu   sync.Mutex
	base int
	bus  i2c.BusCloser
	dev  *i2c.Dev
}

// analogEnable turns the DAC output on in the control byte.
const analogEnable = 0x40

var hostInit sync.Once

func newPCF8591(base int, params []string) (Device, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("want one parameter, the I2C address")
	}
	addr, err := strconv.ParseUint(params[0], 0, 16)
	if err != nil {
		return nil, fmt.Errorf("bad I2C address %q", params[0])
	}
	var initErr error
	hostInit.Do(func() {
		_, initErr = host.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("host init: %v", initErr)
	}
	bus, err := i2creg.Open("")
	if err != nil {
		return nil, fmt.Errorf("unable to open I2C bus: %v", err)
	}
	return &pcf8591{
		base: base,
		bus:  bus,
		dev:  &i2c.Dev{Bus: bus, Addr: uint16(addr)},
	}, nil
}

func (p *pcf8591) PinBase() int  { return p.base }
func (p *pcf8591) PinCount() int { return 4 }

func (p *pcf8591) AnalogRead(channel int) (int, error) {
	if channel < 0 || channel > 3 {
		return 0, fmt.Errorf("channel %d out of range 0..3", channel)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	// The first byte returned after selecting a channel is the previous
	// conversion, so read two and keep the second.
	r := make([]byte, 2)
	if err := p.dev.Tx([]byte{analogEnable | byte(channel)}, r); err != nil {
		return 0, err
	}
	return int(r[1]), nil
}

func (p *pcf8591) AnalogWrite(channel, value int) error {
	if channel != 0 {
		return fmt.Errorf("only channel 0 has a DAC output")
	}
	if value < 0 || value > 255 {
		return fmt.Errorf("value %d out of range 0..255", value)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dev.Tx([]byte{analogEnable, byte(value)}, nil)
}

func (p *pcf8591) Close() error {
	return p.bus.Close()
}
