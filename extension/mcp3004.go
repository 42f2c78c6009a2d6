package extension

import (
	"fmt"
	"strconv"
	"sync"

	rpio "github.com/stianeikeland/go-rpio/v4"
)

// mcp3000 drives the MCP3004/3008 family of 10-bit SPI ADCs on SPI0.
// The only parameter is the chip select, 0 or 1.
type mcp3000 struct {
	mu       sync.Mutex
	base     int
	channels int
	cs       uint8
}

func newMCP3004(base int, params []string) (Device, error) {
	return newMCP3000(base, 4, params)
}

func newMCP3008(base int, params []string) (Device, error) {
	return newMCP3000(base, 8, params)
}

func newMCP3000(base, channels int, params []string) (Device, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("want one parameter, the SPI chip select (0 or 1)")
	}
	cs, err := strconv.Atoi(params[0])
	if err != nil || cs < 0 || cs > 1 {
		return nil, fmt.Errorf("bad chip select %q: must be 0 or 1", params[0])
	}
	if err := rpio.SpiBegin(rpio.Spi0); err != nil {
		return nil, fmt.Errorf("unable to claim SPI0: %v", err)
	}
	rpio.SpiSpeed(1000000)
	return &mcp3000{base: base, channels: channels, cs: uint8(cs)}, nil
}

func (m *mcp3000) PinBase() int  { return m.base }
func (m *mcp3000) PinCount() int { return m.channels }

func (m *mcp3000) AnalogRead(channel int) (int, error) {
	if channel < 0 || channel >= m.channels {
		return 0, fmt.Errorf("channel %d out of range 0..%d", channel, m.channels-1)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rpio.SpiChipSelect(m.cs)
	// Start bit, single-ended conversion on the channel, then clock the
	// 10 result bits out.
	buf := []byte{1, byte(8+channel) << 4, 0}
	rpio.SpiExchange(buf)
	return int(buf[1]&0x3)<<8 | int(buf[2]), nil
}

func (m *mcp3000) AnalogWrite(channel, value int) error {
	return fmt.Errorf("the MCP3000 family is read-only")
}

func (m *mcp3000) Close() error {
	rpio.SpiEnd(rpio.Spi0)
	return nil
}
