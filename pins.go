package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pitools/gpio/board"
	"github.com/pitools/gpio/hwio"
)

// usbPowerPin drives the USB current limiter on the boards that have one.
const usbPowerPin = 38

// blinkInterval is the toggle period of the blink command.
const blinkInterval = 500 * time.Millisecond

// pinModes maps the mode command's argument to what it does: either a
// pin function or a pull configuration.
var pinModes = map[string]hwio.PinMode{
	"in":      hwio.ModeInput,
	"input":   hwio.ModeInput,
	"out":     hwio.ModeOutput,
	"output":  hwio.ModeOutput,
	"pwm":     hwio.ModePwm,
	"pwmtone": hwio.ModePwmTone,
	"clock":   hwio.ModeClock,
	"alt0":    hwio.ModeAlt0,
	"alt1":    hwio.ModeAlt1,
	"alt2":    hwio.ModeAlt2,
	"alt3":    hwio.ModeAlt3,
	"alt4":    hwio.ModeAlt4,
	"alt5":    hwio.ModeAlt5,
}

var pullModes = map[string]hwio.Pull{
	"up":   hwio.PullUp,
	"down": hwio.PullDown,
	"tri":  hwio.PullOff,
	"off":  hwio.PullOff,
}

func (c *cli) doMode(args []string) error {
	if len(args) != 2 {
		return usagef("mode <pin> <mode>")
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return err
	}
	key := strings.ToLower(args[1])
	if m, ok := pinModes[key]; ok {
		return c.hw.PinMode(pin, m)
	}
	if p, ok := pullModes[key]; ok {
		return c.hw.PullControl(pin, p)
	}
	return fmt.Errorf("invalid mode: %s. Should be in/out/pwm/clock/up/down/tri", args[1])
}

func (c *cli) doRead(args []string) error {
	if len(args) != 1 {
		return usagef("read <pin>")
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return err
	}
	v, err := c.hw.DigitalRead(pin)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%d\n", v)
	return nil
}

func (c *cli) doWrite(args []string) error {
	if len(args) != 2 {
		return usagef("write <pin> <value>")
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return err
	}
	var value int
	switch strings.ToLower(args[1]) {
	case "up", "on":
		value = 1
	case "down", "off":
		value = 0
	default:
		value, _ = strconv.Atoi(args[1])
	}
	return c.hw.DigitalWrite(pin, value)
}

func (c *cli) doAread(args []string) error {
	if len(args) != 1 {
		return usagef("aread <pin>")
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return err
	}
	v, err := c.hw.AnalogRead(pin)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%d\n", v)
	return nil
}

func (c *cli) doAwrite(args []string) error {
	if len(args) != 2 {
		return usagef("awrite <pin> <value>")
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return err
	}
	value, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad analog value %q", args[1])
	}
	return c.hw.AnalogWrite(pin, value)
}

func (c *cli) doBank(args []string) error {
	if len(args) != 1 {
		return usagef("bank <bank#>")
	}
	bank, err := strconv.Atoi(args[0])
	if err != nil || (bank != 0 && bank != 1) {
		return fmt.Errorf("bad bank number. Must be 0 or 1")
	}
	v, err := c.hw.ReadBank(bank)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "0x%08X\n", v)
	return nil
}

func (c *cli) doToggle(args []string) error {
	if len(args) != 1 {
		return usagef("toggle <pin>")
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return err
	}
	return c.hw.Toggle(pin)
}

func (c *cli) doBlink(args []string) error {
	if len(args) != 1 {
		return usagef("blink <pin>")
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return err
	}
	if err := c.hw.PinMode(pin, hwio.ModeOutput); err != nil {
		return err
	}
	// Runs until the process is killed.
	for {
		if err := c.hw.Toggle(pin); err != nil {
			return err
		}
		time.Sleep(blinkInterval)
	}
}

func (c *cli) doPwm(args []string) error {
	if len(args) != 2 {
		return usagef("pwm <pin> <value>")
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return err
	}
	value, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad PWM value %q", args[1])
	}
	return c.hw.PwmWrite(pin, value)
}

func (c *cli) doPwmTone(args []string) error {
	if len(args) != 2 {
		return usagef("pwmTone <pin> <freq>")
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return err
	}
	freq, err := strconv.Atoi(args[1])
	if err != nil || freq < 0 {
		return fmt.Errorf("bad frequency %q", args[1])
	}
	return c.hw.PwmTone(pin, freq)
}

func (c *cli) doClock(args []string) error {
	if len(args) != 2 {
		return usagef("clock <pin> <freq>")
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return err
	}
	freq, err := strconv.Atoi(args[1])
	if err != nil || freq <= 0 {
		return fmt.Errorf("bad frequency %q", args[1])
	}
	return c.hw.ClockSet(pin, freq)
}

func (c *cli) doPwmBal(args []string) error {
	if len(args) != 0 {
		return usagef("pwm-bal")
	}
	return c.hw.PwmSetMode(false)
}

func (c *cli) doPwmMs(args []string) error {
	if len(args) != 0 {
		return usagef("pwm-ms")
	}
	return c.hw.PwmSetMode(true)
}

func (c *cli) doPwmRange(args []string) error {
	if len(args) != 1 {
		return usagef("pwmr <range>")
	}
	r, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil || r == 0 {
		return fmt.Errorf("range must be > 0")
	}
	return c.hw.PwmSetRange(uint32(r))
}

func (c *cli) doPwmClock(args []string) error {
	if len(args) != 1 {
		return usagef("pwmc <divider>")
	}
	div, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil || div < 1 || div > 4095 {
		return fmt.Errorf("clock divider must be between 1 and 4095")
	}
	return c.hw.PwmSetClock(uint32(div))
}

func (c *cli) doPadDrive(args []string) error {
	if len(args) != 2 {
		return usagef("drive <group> <value>")
	}
	group, err := strconv.Atoi(args[0])
	if err != nil || group < 0 || group > 2 {
		return fmt.Errorf("drive group not 0, 1 or 2: %s", args[0])
	}
	value, err := strconv.Atoi(args[1])
	if err != nil || value < 0 || value > 7 {
		return fmt.Errorf("drive value not 0-7: %s", args[1])
	}
	return c.hw.PadDrive(group, value)
}

func (c *cli) doWriteByte(args []string) error {
	if len(args) != 1 {
		return usagef("wb <value>")
	}
	v, err := strconv.ParseInt(args[0], 0, 16)
	if err != nil || v < 0 || v > 0xff {
		return fmt.Errorf("bad byte value %q", args[0])
	}
	return c.hw.WriteByte(uint8(v))
}

func (c *cli) doReadByteHex(args []string) error {
	return c.doReadByte(args, true)
}

func (c *cli) doReadByteDec(args []string) error {
	return c.doReadByte(args, false)
}

func (c *cli) doReadByte(args []string, printHex bool) error {
	if len(args) != 0 {
		return usagef("rbx|rbd")
	}
	v, err := c.hw.ReadByte()
	if err != nil {
		return err
	}
	if printHex {
		fmt.Fprintf(c.out, "%02X\n", v)
	} else {
		fmt.Fprintf(c.out, "%d\n", v)
	}
	return nil
}

func (c *cli) doUsbp(args []string) error {
	if len(args) != 1 {
		return usagef("usbp high|low")
	}
	info, err := board.Identify()
	if err != nil {
		return err
	}
	if !info.HasUSBPowerControl() {
		return fmt.Errorf("USB power control is applicable to B+ and v2 boards only")
	}
	var value int
	var label string
	switch strings.ToLower(args[0]) {
	case "high", "hi":
		value, label = 1, "HIGH current USB (1.2A)"
	case "low", "lo":
		value, label = 0, "LOW current USB (600mA)"
	default:
		return usagef("usbp high|low")
	}
	if err := c.hw.DigitalWrite(usbPowerPin, value); err != nil {
		return err
	}
	if err := c.hw.PinMode(usbPowerPin, hwio.ModeOutput); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Switched to %s\n", label)
	return nil
}

func (c *cli) doReset(args []string) error {
	fmt.Fprintln(c.out, "GPIO reset is dangerous and has been removed from the gpio command.")
	fmt.Fprintln(c.out, " - Please write a shell-script to reset the GPIO pins into the state")
	fmt.Fprintln(c.out, "   that you need them in for your applications.")
	return nil
}
