package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pitools/gpio/hwio"
)

// runHandler runs a blocking handler in the background and returns a
// channel that yields its error.
func runHandler(fn func() error) <-chan error {
	done := make(chan error, 1)
	go func() { done <- fn() }()
	return done
}

func TestWfi(t *testing.T) {
	c, stub, out := newTestCLI(t, hwio.SchemeGpio)
	done := runHandler(func() error { return c.doWfi([]string{"17", "rising"}) })

	select {
	case <-done:
		t.Fatal("returned before any edge")
	case <-time.After(20 * time.Millisecond):
	}

	stub.Pin(17).TriggerEdge()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("edge not delivered")
	}
	assert.Contains(t, out.String(), "Waiting for one interrupt...")
	assert.Contains(t, out.String(), "Interrupt on pin 17 (1/1)")
}

func TestWfiBadEdge(t *testing.T) {
	c, _, _ := newTestCLI(t, hwio.SchemeGpio)
	assert.Error(t, c.doWfi([]string{"17", "sometimes"}))
}

func TestMwfi(t *testing.T) {
	c, stub, out := newTestCLI(t, hwio.SchemeGpio)
	done := runHandler(func() error { return c.doMwfi([]string{"4,17,27", "falling"}) })

	// Two edges are not enough for three pins.
	stub.Pin(4).TriggerEdge()
	stub.Pin(27).TriggerEdge()
	select {
	case <-done:
		t.Fatal("returned after two of three edges")
	case <-time.After(50 * time.Millisecond):
	}

	// The third may come from any pin, a repeat included.
	stub.Pin(4).TriggerEdge()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("edges not delivered")
	}
	assert.Contains(t, out.String(), "Waiting for 3 interrupts...")
	assert.Contains(t, out.String(), "(3/3)")
}

func TestMwfiTranslatesScheme(t *testing.T) {
	// Physical pin 11 is BCM 17; the report uses the caller's numbering.
	c, stub, out := newTestCLI(t, hwio.SchemePhys)
	done := runHandler(func() error { return c.doMwfi([]string{"11", "both"}) })

	time.Sleep(20 * time.Millisecond)
	stub.Pin(17).TriggerEdge()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("edge not delivered")
	}
	assert.Contains(t, out.String(), "Interrupt on pin 11 (1/1)")
}

func TestMwfiBadPinList(t *testing.T) {
	c, _, _ := newTestCLI(t, hwio.SchemeGpio)
	assert.ErrorContains(t, c.doMwfi([]string{"4,x,27", "rising"}), "bad pin number")
}
