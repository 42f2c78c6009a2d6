package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pitools/gpio/board"
)

// searchDirs is the complete list of places system executables are
// looked for. $PATH is deliberately never consulted: this program runs
// set-uid root and an inherited search path is not to be trusted.
var searchDirs = []string{
	"/sbin",
	"/usr/sbin",
	"/bin",
	"/usr/bin",
	"/usr/local/bin",
	"/usr/local/sbin",
}

// Paths the tests point at fixtures.
var (
	procModulesPath = "/proc/modules"
	deviceTreeDir   = "/proc/device-tree"
	settleDelay     = time.Second
)

// modulePair is the two kernel modules a bus needs, and the device nodes
// that appear once they are loaded.
type modulePair struct {
	modules [2]string
	devices [2]string
}

var modulePairs = map[string]modulePair{
	"spi": {
		modules: [2]string{"spidev", "spi_bcm2708"},
		devices: [2]string{"/dev/spidev0.0", "/dev/spidev0.1"},
	},
	"i2c": {
		modules: [2]string{"i2c_dev", "i2c_bcm2708"},
		devices: [2]string{"/dev/i2c-0", "/dev/i2c-1"},
	},
}

// findExecutable locates a program on the fixed search list.
func findExecutable(name string) (string, error) {
	for _, dir := range searchDirs {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("unable to find %s in %s", name, strings.Join(searchDirs, ":"))
}

// moduleLoaded reports whether the kernel module list contains an entry
// with the given prefix.
func moduleLoaded(name string) (bool, error) {
	f, err := os.Open(procModulesPath)
	if err != nil {
		return false, fmt.Errorf("unable to check %s: %v", procModulesPath, err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if strings.HasPrefix(sc.Text(), name) {
			return true, nil
		}
	}
	return false, sc.Err()
}

// checkDevTree refuses module control when the device tree is active;
// overlays, not modprobe, decide what is loaded on such boards.
func checkDevTree() error {
	if _, err := os.Stat(deviceTreeDir); err == nil {
		return fmt.Errorf("unable to load/unload modules as this Pi has the device tree enabled.\n" +
			"  You need to run the raspi-config program (as root) and select the\n" +
			"  modules (SPI or I2C) that you wish to load/unload there and reboot")
	}
	return nil
}

func runTool(path string, args ...string) {
	cmd := exec.Command(path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		log.Debugf("%s %s: %v", path, strings.Join(args, " "), err)
	}
}

func (c *cli) doLoad(args []string) error {
	if err := checkDevTree(); err != nil {
		return err
	}
	if len(args) < 1 || len(args) > 2 {
		return usagef("load <spi/i2c> [I2C baudrate in Kb/sec]")
	}
	kind := strings.ToLower(args[0])
	pair, ok := modulePairs[kind]
	if !ok {
		return usagef("load <spi/i2c> [I2C baudrate in Kb/sec]")
	}
	var extra []string
	if len(args) == 2 {
		// Only the i2c controller module takes a baud rate.
		if kind != "i2c" {
			return usagef("load spi")
		}
		kb, err := strconv.Atoi(args[1])
		if err != nil || kb <= 0 {
			return fmt.Errorf("bad baudrate %q", args[1])
		}
		extra = []string{fmt.Sprintf("baudrate=%d", kb*1000)}
	}

	modprobe, err := findExecutable("modprobe")
	if err != nil {
		return err
	}
	for i, mod := range pair.modules {
		loaded, err := moduleLoaded(mod)
		if err != nil {
			return err
		}
		if loaded {
			continue
		}
		margs := []string{mod}
		if i == 1 {
			margs = append(margs, extra...)
		}
		runTool(modprobe, margs...)
	}

	loaded, err := moduleLoaded(pair.modules[1])
	if err != nil {
		return err
	}
	if !loaded {
		return fmt.Errorf("unable to load %s", pair.modules[1])
	}

	// Give udev a moment to create the device nodes.
	time.Sleep(settleDelay)

	for _, dev := range pair.devices {
		changeOwner(dev)
	}
	return nil
}

func (c *cli) doUnload(args []string) error {
	if err := checkDevTree(); err != nil {
		return err
	}
	if len(args) != 1 {
		return usagef("unload <spi/i2c>")
	}
	pair, ok := modulePairs[strings.ToLower(args[0])]
	if !ok {
		return usagef("unload <spi/i2c>")
	}
	rmmod, err := findExecutable("rmmod")
	if err != nil {
		return err
	}
	for _, mod := range pair.modules {
		loaded, err := moduleLoaded(mod)
		if err != nil {
			return err
		}
		if loaded {
			runTool(rmmod, mod)
		}
	}
	return nil
}

func (c *cli) doI2CDetect(args []string) error {
	if len(args) != 0 {
		return usagef("i2cd|i2cdetect")
	}
	info, err := board.Identify()
	if err != nil {
		return err
	}
	path, err := findExecutable("i2cdetect")
	if err != nil {
		return fmt.Errorf("unable to find i2cdetect command: %v", err)
	}
	loaded, err := moduleLoaded("i2c_dev")
	if err != nil {
		return err
	}
	if !loaded {
		return fmt.Errorf("the I2C kernel module(s) are not loaded")
	}
	cmd := exec.Command(path, "-y", strconv.Itoa(info.I2CBus()))
	cmd.Stdout = c.out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("unable to run i2cdetect: %v", err)
	}
	return nil
}
