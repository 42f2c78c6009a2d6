package hwio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(ch <-chan Event, n int, d time.Duration) []Event {
	var got []Event
	deadline := time.After(d)
	for len(got) < n {
		select {
		case e := <-ch:
			got = append(got, e)
		case <-deadline:
			return got
		}
	}
	return got
}

func TestWatchSinglePin(t *testing.T) {
	g, stub := NewStub(SchemeGpio)
	ch, err := g.Watch([]int{4}, EdgeRising)
	require.NoError(t, err)

	assert.Equal(t, ModeInput, stub.Pin(4).Mode())

	stub.Pin(4).TriggerEdge()
	got := collect(ch, 1, time.Second)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].Pin)
}

func TestWatchManyPins(t *testing.T) {
	g, stub := NewStub(SchemeGpio)
	pins := []int{4, 17, 27}
	ch, err := g.Watch(pins, EdgeBoth)
	require.NoError(t, err)

	stub.Pin(17).TriggerEdge()
	stub.Pin(4).TriggerEdge()

	got := collect(ch, 3, 300*time.Millisecond)
	assert.Len(t, got, 2, "must not deliver more events than edges")

	stub.Pin(27).TriggerEdge()
	got = append(got, collect(ch, 1, time.Second)...)
	require.Len(t, got, 3)

	seen := map[int]bool{}
	for _, e := range got {
		seen[e.Pin] = true
	}
	assert.True(t, seen[4] && seen[17] && seen[27])
}

func TestWatchTranslatesScheme(t *testing.T) {
	g, stub := NewStub(SchemePhys)
	ch, err := g.Watch([]int{11}, EdgeFalling) // phys 11 = BCM 17
	require.NoError(t, err)

	stub.Pin(17).TriggerEdge()
	got := collect(ch, 1, time.Second)
	require.Len(t, got, 1)
	assert.Equal(t, 11, got[0].Pin, "events carry the caller's numbering")
}

func TestWatchRejectsBadPins(t *testing.T) {
	g, _ := NewStub(SchemeGpio)
	_, err := g.Watch([]int{70}, EdgeRising)
	assert.Error(t, err)
	_, err = g.Watch([]int{4}, EdgeNone)
	assert.Error(t, err)
}
