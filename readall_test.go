package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitools/gpio/hwio"
)

func TestReadAll(t *testing.T) {
	c, stub, out := newTestCLI(t, hwio.SchemeGpio)
	assert.NoError(t, c.hw.PinMode(17, hwio.ModeOutput))
	stub.Pin(17).Set(hwio.High)

	assert.NoError(t, c.doReadAll(nil))
	lines := strings.Split(out.String(), "\n")
	// Three border lines, one title line, twenty pin rows.
	assert.Len(t, lines, 25)
	assert.Contains(t, out.String(), "| BCM | wPi |")

	// Physical pin 11 is BCM 17 / wiring pin 0, just set high as an
	// output.
	var row string
	for _, l := range lines {
		if strings.Contains(l, "| 11 ||") {
			row = l
		}
	}
	assert.Contains(t, row, "|  17 |")
	assert.Contains(t, row, "|   0 |")
	assert.Contains(t, row, "| OUT  |")
	assert.Contains(t, row, "| 1 |")

	// Power pins carry no BCM number or value.
	assert.Contains(t, out.String(), "3.3v")
	assert.Contains(t, out.String(), "0v")
}

func TestAllReadAll(t *testing.T) {
	c, _, out := newTestCLI(t, hwio.SchemeGpio)
	assert.NoError(t, c.doAllReadAll(nil))
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	// Header, rule, then one row per SoC pin.
	assert.Len(t, lines, 56)
	assert.Contains(t, lines[0], "GPIO | Mode | Value")
}

func TestQmode(t *testing.T) {
	t.Run("ReportsMode", func(t *testing.T) {
		c, _, out := newTestCLI(t, hwio.SchemeGpio)
		assert.NoError(t, c.hw.PinMode(18, hwio.ModePwm))
		assert.NoError(t, c.doQmode([]string{"18"}))
		assert.Equal(t, "PWM\n", out.String())
	})
	t.Run("TranslatesScheme", func(t *testing.T) {
		c, _, out := newTestCLI(t, hwio.SchemePhys)
		assert.NoError(t, c.hw.PinMode(11, hwio.ModeOutput))
		assert.NoError(t, c.doQmode([]string{"11"}))
		assert.Equal(t, "OUT\n", out.String())
	})
	t.Run("UnknownPin", func(t *testing.T) {
		c, _, out := newTestCLI(t, hwio.SchemeGpio)
		assert.NoError(t, c.doQmode([]string{"17"}))
		assert.Equal(t, "-\n", out.String())
	})
	t.Run("ExtraArgs", func(t *testing.T) {
		c, _, _ := newTestCLI(t, hwio.SchemeGpio)
		assert.ErrorContains(t, c.doQmode([]string{"17", "18"}), "qmode")
	})
}
