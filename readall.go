package main

import (
	"fmt"
	"strings"

	"github.com/pitools/gpio/hwio"
)

// modeString is the best available answer for what a pin is doing: the
// recorded function under a dry run, the sysfs direction when the pin is
// exported, otherwise unknown. The memory map gives no function
// readback.
func (c *cli) modeString(bcm int) string {
	if m, ok := c.hw.ModeOf(bcm); ok {
		return m.String()
	}
	if d, err := c.sys.readAttr(bcm, "direction"); err == nil && d != "" {
		return strings.ToUpper(d)
	}
	return "-"
}

// headerCell renders one half of a physical header row.
func (c *cli) headerCell(phys int) (bcmS, wpiS, name, mode, value string) {
	name = hwio.PhysName(phys)
	bcm := hwio.PhysToGpio(phys)
	if bcm < 0 {
		return "  ", "  ", name, "  ", " "
	}
	bcmS = fmt.Sprintf("%2d", bcm)
	if w := hwio.GpioToWpi(bcm); w >= 0 {
		wpiS = fmt.Sprintf("%2d", w)
	} else {
		wpiS = "  "
	}
	mode = fmt.Sprintf("%-4s", c.modeString(bcm))
	value = fmt.Sprintf("%d", int(c.hw.ReadPin(bcm)))
	return bcmS, wpiS, name, mode, value
}

const readAllBorder = " +-----+-----+---------+------+---+---Pi---+---+------+---------+-----+-----+"

// doReadAll prints the 40-pin header as two side-by-side columns.
func (c *cli) doReadAll(args []string) error {
	if len(args) != 0 {
		return usagef("readall")
	}
	fmt.Fprintln(c.out, readAllBorder)
	fmt.Fprintln(c.out, " | BCM | wPi |   Name  | Mode | V | Physical | V | Mode | Name    | wPi | BCM |")
	fmt.Fprintln(c.out, readAllBorder)
	for phys := 1; phys <= 40; phys += 2 {
		lb, lw, ln, lm, lv := c.headerCell(phys)
		rb, rw, rn, rm, rv := c.headerCell(phys + 1)
		fmt.Fprintf(c.out, " | %3s | %3s | %-7s | %4s | %1s | %2d || %-2d | %1s | %4s | %-7s | %3s | %3s |\n",
			lb, lw, ln, lm, lv, phys, phys+1, rv, rm, rn, rw, rb)
	}
	fmt.Fprintln(c.out, readAllBorder)
	return nil
}

// doAllReadAll lists every SoC pin in BCM order, one per line.
func (c *cli) doAllReadAll(args []string) error {
	if len(args) != 0 {
		return usagef("allreadall")
	}
	fmt.Fprintln(c.out, "GPIO | Mode | Value")
	fmt.Fprintln(c.out, "-----+------+------")
	for bcm := 0; bcm <= 53; bcm++ {
		fmt.Fprintf(c.out, "%4d | %-4s | %d\n", bcm, c.modeString(bcm), int(c.hw.ReadPin(bcm)))
	}
	return nil
}

// doQmode reports the mode of a single pin, in the active numbering
// scheme.
func (c *cli) doQmode(args []string) error {
	if len(args) != 1 {
		return usagef("qmode <pin>")
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return err
	}
	bcm, err := c.hw.Translate(pin)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s\n", c.modeString(bcm))
	return nil
}
