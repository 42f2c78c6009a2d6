package hwio

import (
	"encoding/binary"
	"fmt"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// The pads control block and the GPIO function-select registers are not
// exposed by go-rpio, so they are reached with a short-lived privileged
// mapping of their pages.

const (
	padsPageOffset  = 0x100000
	clockPageOffset = 0x101000
	gpioPageOffset  = 0x200000
	pwmPageOffset   = 0x20c000
	pageSize        = 4096

	// pads and clock-manager registers want this password in bits 31:24.
	padsPassword = 0x5a000000
	// slew rate limited + hysteresis enabled, the kernel default.
	padsControlBits = 0x18
)

// Word indexes and bits in the PWM page.
const (
	pwmCtlReg  = 0
	pwmRng1Reg = 4
	pwmRng2Reg = 8

	pwmMsen1 = 1 << 7
	pwmMsen2 = 1 << 15
)

// Word indexes and bits of the PWM clock in the clock-manager page.
const (
	clkPwmCtlReg = 40
	clkPwmDivReg = 41

	clkSrcOsc = 1
	clkEnable = 1 << 4
	clkBusy   = 1 << 7
)

// altBits is the GPFSEL encoding of the six alternate functions.
var altBits = [6]uint32{0b100, 0b101, 0b110, 0b111, 0b011, 0b010}

// periphBase reads the SoC peripheral bus base address from the device
// tree. The first ranges cell pair is used, falling back to the second
// on SoCs that describe a 64-bit parent address (Pi 4).
func periphBase() (int64, error) {
	b, err := os.ReadFile("/proc/device-tree/soc/ranges")
	if err != nil {
		return 0, fmt.Errorf("unable to read soc ranges: %v", err)
	}
	if len(b) < 12 {
		return 0, fmt.Errorf("soc ranges too short (%d bytes)", len(b))
	}
	base := int64(binary.BigEndian.Uint32(b[4:8]))
	if base == 0 {
		base = int64(binary.BigEndian.Uint32(b[8:12]))
	}
	if base == 0 {
		return 0, fmt.Errorf("soc ranges gave no peripheral base")
	}
	return base, nil
}

// mapPage maps one page of the given device file at offset.
func mapPage(dev string, offset int64) ([]byte, error) {
	f, err := os.OpenFile(dev, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	mem, err := unix.Mmap(int(f.Fd()), offset, pageSize,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %v", dev, err)
	}
	return mem, nil
}

func words(mem []byte) *[pageSize / 4]uint32 {
	return (*[pageSize / 4]uint32)(unsafe.Pointer(&mem[0]))
}

// padDrive sets the drive strength of one pad group. The three groups'
// registers sit at 0x2c, 0x30 and 0x34 in the pads page.
func (b *rpioBackend) padDrive(group, value int) error {
	base, err := periphBase()
	if err != nil {
		return err
	}
	mem, err := mapPage("/dev/mem", base+padsPageOffset)
	if err != nil {
		return err
	}
	defer unix.Munmap(mem)
	words(mem)[11+group] = padsPassword | padsControlBits | uint32(value)
	return nil
}

// setPwmRange writes the range register of both PWM channels, so the
// configured range outlives this process.
func (b *rpioBackend) setPwmRange(r uint32) error {
	base, err := periphBase()
	if err != nil {
		return err
	}
	mem, err := mapPage("/dev/mem", base+pwmPageOffset)
	if err != nil {
		return err
	}
	defer unix.Munmap(mem)
	w := words(mem)
	w[pwmRng1Reg] = r
	w[pwmRng2Reg] = r
	return nil
}

// setPwmClock programs the PWM clock divider against the 19.2MHz
// oscillator. The generator must be stopped, and the PWM block paused,
// while the divisor changes.
func (b *rpioBackend) setPwmClock(div uint32) error {
	base, err := periphBase()
	if err != nil {
		return err
	}
	clk, err := mapPage("/dev/mem", base+clockPageOffset)
	if err != nil {
		return err
	}
	defer unix.Munmap(clk)
	pwm, err := mapPage("/dev/mem", base+pwmPageOffset)
	if err != nil {
		return err
	}
	defer unix.Munmap(pwm)
	cw, pw := words(clk), words(pwm)

	ctl := pw[pwmCtlReg]
	pw[pwmCtlReg] = 0
	cw[clkPwmCtlReg] = padsPassword | clkSrcOsc
	for cw[clkPwmCtlReg]&clkBusy != 0 {
		time.Sleep(time.Microsecond)
	}
	cw[clkPwmDivReg] = padsPassword | div<<12
	cw[clkPwmCtlReg] = padsPassword | clkSrcOsc | clkEnable
	pw[pwmCtlReg] = ctl
	return nil
}

// setPwmMode flips both channels between mark-space and balanced output.
func (b *rpioBackend) setPwmMode(markSpace bool) error {
	base, err := periphBase()
	if err != nil {
		return err
	}
	mem, err := mapPage("/dev/mem", base+pwmPageOffset)
	if err != nil {
		return err
	}
	defer unix.Munmap(mem)
	w := words(mem)
	if markSpace {
		w[pwmCtlReg] |= pwmMsen1 | pwmMsen2
	} else {
		w[pwmCtlReg] &^= pwmMsen1 | pwmMsen2
	}
	return nil
}

// setAlt selects an alternate function for a pin via its GPFSEL
// register. /dev/gpiomem maps the GPIO page directly at offset 0.
func (b *rpioBackend) setAlt(bcm, alt int) error {
	mem, err := mapPage("/dev/gpiomem", 0)
	if err != nil {
		base, berr := periphBase()
		if berr != nil {
			return err
		}
		mem, err = mapPage("/dev/mem", base+gpioPageOffset)
		if err != nil {
			return err
		}
	}
	defer unix.Munmap(mem)
	fsel := bcm / 10
	shift := uint(bcm%10) * 3
	w := words(mem)
	w[fsel] = w[fsel]&^(7<<shift) | altBits[alt]<<shift
	return nil
}
