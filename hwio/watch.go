package hwio

import (
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
)

var errNoEdge = errors.New("no edge trigger requested")

// Event is one observed edge on a watched pin. Pin is in the handle's
// numbering scheme, as supplied to Watch.
type Event struct {
	Pin  int
	Time time.Time
}

// watchPoll is how often each watcher goroutine checks the event detect
// status. Edge detection itself is latched in hardware, so a slow poll
// only delays delivery, it does not miss edges.
const watchPoll = time.Millisecond

// Watch arms edge detection on each pin and delivers one Event per
// observed edge on the returned channel. The watchers run for the life
// of the process; there is no cancellation, matching the command-line
// contract that only process termination stops a wait. Events from
// different pins arrive in no particular order.
func (g *GPIO) Watch(pins []int, edge Edge) (<-chan Event, error) {
	if edge == EdgeNone {
		return nil, errNoEdge
	}
	watched := make([]Pin, len(pins))
	for i, pin := range pins {
		p, err := g.pin(pin)
		if err != nil {
			return nil, err
		}
		p.Input()
		p.Detect(edge)
		watched[i] = p
	}
	ch := make(chan Event, 64)
	for i, p := range watched {
		go watchLoop(ch, p, pins[i], edge)
	}
	return ch, nil
}

func watchLoop(ch chan<- Event, p Pin, pin int, edge Edge) {
	for {
		if p.EdgeDetected() {
			log.Debugf("hwio: edge on pin %d", pin)
			ch <- Event{Pin: pin, Time: time.Now()}
			// Re-arm; some backends clear detection on read.
			p.Detect(edge)
			continue
		}
		time.Sleep(watchPoll)
	}
}
