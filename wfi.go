package main

import (
	"fmt"
	"strings"

	"github.com/pitools/gpio/hwio"
)

// doWfi blocks until one edge of the requested type is seen on the pin.
// There is no timeout; killing the process is the only way out.
func (c *cli) doWfi(args []string) error {
	if len(args) != 2 {
		return usagef("wfi <pin> <mode>")
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return err
	}
	edge, err := hwio.ParseEdge(args[1])
	if err != nil {
		return err
	}
	ch, err := c.hw.Watch([]int{pin}, edge)
	if err != nil {
		return fmt.Errorf("unable to set up edge watch: %v", err)
	}
	fmt.Fprintln(c.out, "Waiting for one interrupt...")
	ev := <-ch
	fmt.Fprintf(c.out, "Interrupt on pin %d (1/1)\n", ev.Pin)
	return nil
}

// doMwfi blocks until as many edges have been seen, across the listed
// pins, as there are pins. Edges are counted in arrival order with no
// guarantee about which pin fires when.
func (c *cli) doMwfi(args []string) error {
	if len(args) != 2 {
		return usagef("mwfi <pin>[,<pin>...] <mode>")
	}
	var pins []int
	for _, tok := range strings.Split(args[0], ",") {
		pin, err := parsePin(strings.TrimSpace(tok))
		if err != nil {
			return err
		}
		pins = append(pins, pin)
	}
	edge, err := hwio.ParseEdge(args[1])
	if err != nil {
		return err
	}
	ch, err := c.hw.Watch(pins, edge)
	if err != nil {
		return fmt.Errorf("unable to set up edge watch: %v", err)
	}
	want := len(pins)
	fmt.Fprintf(c.out, "Waiting for %d interrupts...\n", want)
	for n := 1; n <= want; n++ {
		ev := <-ch
		fmt.Fprintf(c.out, "Interrupt on pin %d (%d/%d)\n", ev.Pin, n, want)
	}
	return nil
}
