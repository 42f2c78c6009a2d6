// Package extension loads analog device extensions from colon-delimited
// command-line specs of the form name:pinBase[:param...]. Loaded devices
// attach to the hardware handle and serve the analog commands for their
// pin range.
package extension

import (
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Device is an opened extension. The method set matches what the
// hardware handle expects from an attached analog device.
type Device interface {
	PinBase() int
	PinCount() int
	AnalogRead(channel int) (int, error)
	AnalogWrite(channel int, value int) error
	Close() error
}

// Constructor opens a device at the given pin base with its
// device-specific parameters.
type Constructor func(pinBase int, params []string) (Device, error)

var registry = map[string]Constructor{
	"mcp3004": newMCP3004,
	"mcp3008": newMCP3008,
	"pcf8591": newPCF8591,
}

// minPinBase keeps extensions clear of the onboard pin numbers.
const minPinBase = 64

// Load parses a spec string and opens the device it names.
func Load(spec string) (Device, error) {
	name, base, params, err := parseSpec(spec)
	if err != nil {
		return nil, err
	}
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("extension %s is not known", name)
	}
	dev, err := ctor(base, params)
	if err != nil {
		return nil, fmt.Errorf("extension %s: %v", name, err)
	}
	log.Debugf("extension: loaded %s at pin base %d", name, base)
	return dev, nil
}

func parseSpec(spec string) (name string, base int, params []string, err error) {
	fields := strings.Split(spec, ":")
	if len(fields) < 2 {
		return "", 0, nil, fmt.Errorf("bad extension spec %q: want name:pinBase[:params]", spec)
	}
	name = strings.ToLower(fields[0])
	base, err = strconv.Atoi(fields[1])
	if err != nil {
		return "", 0, nil, fmt.Errorf("bad pin base %q in extension spec", fields[1])
	}
	if base < minPinBase {
		return "", 0, nil, fmt.Errorf("pin base %d too low: must be %d or above", base, minPinBase)
	}
	return name, base, fields[2:], nil
}
