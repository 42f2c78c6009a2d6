// Package board identifies the Raspberry Pi model the process is running
// on from the board revision code, the way the firmware documents it:
// new-style codes (bit 23 set) are bitfields, old-style codes are a
// straight lookup table.
package board

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"periph.io/x/host/v3/distro"
)

// Model codes from the new-style revision bitfield.
const (
	ModelA       = 0x00
	ModelB       = 0x01
	ModelAPlus   = 0x02
	ModelBPlus   = 0x03
	Model2B      = 0x04
	ModelAlpha   = 0x05
	ModelCM1     = 0x06
	Model3B      = 0x08
	ModelZero    = 0x09
	ModelCM3     = 0x0a
	ModelZeroW   = 0x0c
	Model3BPlus  = 0x0d
	Model3APlus  = 0x0e
	ModelCM3Plus = 0x10
	Model4B      = 0x11
	ModelZero2W  = 0x12
	Model400     = 0x13
	ModelCM4     = 0x14
)

var modelNames = map[int]string{
	ModelA:       "Model A",
	ModelB:       "Model B",
	ModelAPlus:   "Model A+",
	ModelBPlus:   "Model B+",
	Model2B:      "Pi 2",
	ModelAlpha:   "Alpha",
	ModelCM1:     "CM1",
	Model3B:      "Pi 3",
	ModelZero:    "Pi Zero",
	ModelCM3:     "CM3",
	ModelZeroW:   "Pi Zero-W",
	Model3BPlus:  "Pi 3B+",
	Model3APlus:  "Pi 3A+",
	ModelCM3Plus: "CM3+",
	Model4B:      "Pi 4B",
	ModelZero2W:  "Pi Zero 2W",
	Model400:     "Pi 400",
	ModelCM4:     "CM4",
}

var processorNames = []string{"BCM2835", "BCM2836", "BCM2837", "BCM2711", "BCM2712"}

var makerNames = []string{"Sony UK", "Egoman", "Embest", "Sony Japan", "Embest", "Stadium"}

var memoryNames = []string{"256MB", "512MB", "1GB", "2GB", "4GB", "8GB", "16GB"}

// Info is the decoded identity of the board.
type Info struct {
	Revision  uint32 // raw revision code
	ModelCode int
	Model     string
	Processor string
	Rev       string // board revision within the model, e.g. "1.2"
	Memory    string
	Maker     string
	Warranty  bool // warranty-void bit set
}

// oldRev describes one legacy (pre-2012 scheme) revision code.
type oldRev struct {
	model  int
	rev    string
	memory string
	maker  string
}

var oldRevisions = map[uint32]oldRev{
	0x0002: {ModelB, "1.0", "256MB", "Egoman"},
	0x0003: {ModelB, "1.0", "256MB", "Egoman"},
	0x0004: {ModelB, "2.0", "256MB", "Sony UK"},
	0x0005: {ModelB, "2.0", "256MB", "Qisda"},
	0x0006: {ModelB, "2.0", "256MB", "Egoman"},
	0x0007: {ModelA, "2.0", "256MB", "Egoman"},
	0x0008: {ModelA, "2.0", "256MB", "Sony UK"},
	0x0009: {ModelA, "2.0", "256MB", "Qisda"},
	0x000d: {ModelB, "2.0", "512MB", "Egoman"},
	0x000e: {ModelB, "2.0", "512MB", "Sony UK"},
	0x000f: {ModelB, "2.0", "512MB", "Egoman"},
	0x0010: {ModelBPlus, "1.0", "512MB", "Sony UK"},
	0x0011: {ModelCM1, "1.0", "512MB", "Sony UK"},
	0x0012: {ModelAPlus, "1.0", "256MB", "Sony UK"},
	0x0013: {ModelBPlus, "1.2", "512MB", "Embest"},
	0x0014: {ModelCM1, "1.0", "512MB", "Embest"},
	0x0015: {ModelAPlus, "1.1", "256MB", "Embest"},
}

func name(table []string, i int) string {
	if i < 0 || i >= len(table) {
		return fmt.Sprintf("Unknown (%d)", i)
	}
	return table[i]
}

// Decode turns a raw revision code into board Info.
func Decode(rev uint32) Info {
	info := Info{Revision: rev}
	if rev&(1<<23) != 0 {
		// New-style bitfield code.
		info.ModelCode = int((rev >> 4) & 0xff)
		if n, ok := modelNames[info.ModelCode]; ok {
			info.Model = n
		} else {
			info.Model = fmt.Sprintf("Unknown (0x%02x)", info.ModelCode)
		}
		info.Processor = name(processorNames, int((rev>>12)&0xf))
		info.Memory = name(memoryNames, int((rev>>20)&0x7))
		info.Maker = name(makerNames, int((rev>>16)&0xf))
		info.Rev = fmt.Sprintf("1.%d", rev&0xf)
		info.Warranty = rev&(1<<25) != 0
		return info
	}
	// Legacy code; the warranty bit lived at bit 24.
	info.Warranty = rev&(1<<24) != 0
	old, ok := oldRevisions[rev&0xffff]
	if !ok {
		info.ModelCode = -1
		info.Model = fmt.Sprintf("Unknown (0x%04x)", rev)
		info.Processor = processorNames[0]
		return info
	}
	info.ModelCode = old.model
	info.Model = modelNames[old.model]
	info.Processor = processorNames[0]
	info.Rev = old.rev
	info.Memory = old.memory
	info.Maker = old.maker
	return info
}

// revisionCode reads the raw revision code, preferring /proc/cpuinfo and
// tolerating the overvolt prefix some firmwares prepend.
func revisionCode() (uint32, error) {
	r, ok := distro.CPUInfo()["Revision"]
	if !ok {
		return 0, fmt.Errorf("no Revision field in cpuinfo")
	}
	r = strings.TrimSpace(r)
	v, err := strconv.ParseUint(r, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("bad revision code %q: %v", r, err)
	}
	return uint32(v), nil
}

// Identify decodes the identity of the running board.
func Identify() (Info, error) {
	rev, err := revisionCode()
	if err != nil {
		return Info{}, err
	}
	info := Decode(rev)
	log.Debugf("board: revision 0x%08x decoded as %s", rev, info.Model)
	return info, nil
}

// GpioLayout returns 1 for the two earliest Model B revisions, whose
// header wiring differs, and 2 for everything since.
func (i Info) GpioLayout() int {
	if i.Revision&(1<<23) == 0 {
		switch i.Revision & 0xffff {
		case 0x0002, 0x0003:
			return 1
		}
	}
	return 2
}

// I2CBus returns the userland I2C bus number for this board.
func (i Info) I2CBus() int {
	if i.GpioLayout() == 1 {
		return 0
	}
	return 1
}

// HasUSBPowerControl reports whether the board routes USB power control
// through a GPIO (Model B+ and Pi 2 only).
func (i Info) HasUSBPowerControl() bool {
	return i.ModelCode == ModelBPlus || i.ModelCode == Model2B
}

// DTModel returns the kernel's model string from the device tree, or ""
// when unavailable.
func DTModel() string {
	m := distro.DTModel()
	if m == "<unknown>" {
		return ""
	}
	return m
}

// DeviceTreeEnabled reports whether the kernel exposes a device tree.
func DeviceTreeEnabled() bool {
	_, err := os.Stat("/proc/device-tree")
	return err == nil
}

// UserLevelGpio reports whether /dev/gpiomem allows GPIO access without
// root.
func UserLevelGpio() bool {
	_, err := os.Stat("/dev/gpiomem")
	return err == nil
}
