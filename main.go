// gpio is a swiss-army-knife command-line interface to the Raspberry
// Pi's GPIO pins. It talks to the hardware through a memory-mapped pin
// layer and to the kernel through the sysfs GPIO pseudo-files, and is
// expected to be installed set-uid root.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/pitools/gpio/extension"
	"github.com/pitools/gpio/hwio"
)

const usage = `Usage: gpio -v              Show version info
       gpio -h|-help|--help|help|h  Show help
       gpio [-b|-p|-w|-z] ...  Use bcm-gpio/physical/wiring/no-init pin numbering.
                               If none specified, BCM GPIO numbering is used by default.
       [-x extension:pinBase:params] [-x ...] ...
       gpio <mode/read/write/aread/awrite/wb/pwm/pwmTone/clock> ...
       gpio qmode <pin>
       gpio bank <bank>
       gpio <toggle/blink> <pin>
       gpio readall/allreadall
       gpio unexportall/exports
       gpio export/edge/unexport ...
       gpio wfi <pin> <mode>
       gpio mwfi <pin>[,<pin>...] <mode>
       gpio drive <group> <value>
       gpio pwm-bal/pwm-ms
       gpio pwmr <range>
       gpio pwmc <divider>
       gpio load spi/i2c
       gpio unload spi/i2c
       gpio i2cd/i2cdetect
       gpio rbx/rbd
       gpio wb <value>
       gpio usbp high/low`

// Hooks the tests replace to run without root or hardware.
var (
	geteuid = os.Geteuid
	openHW  = hwio.Open
	loadExt = extension.Load
)

// defaultSysfsRoot is where the kernel exposes the GPIO class.
var defaultSysfsRoot = "/sys/class/gpio"

// usageError is a wrong argument count or shape; it prints bare, without
// the program-name prefix.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, a ...interface{}) error {
	return &usageError{msg: fmt.Sprintf("Usage: gpio "+format, a...)}
}

// cli carries what the command handlers need: the hardware handle (nil
// for sysfs-only commands), the sysfs state machine and the output
// stream.
type cli struct {
	hw  *hwio.GPIO
	sys *sysGpio
	out io.Writer
}

// commands is the core table dispatched after the numbering-scheme and
// extension flags are consumed. Keys are lower case; lookup folds case.
var commands = map[string]func(*cli, []string) error{
	"mode":      (*cli).doMode,
	"read":      (*cli).doRead,
	"bank":      (*cli).doBank,
	"write":     (*cli).doWrite,
	"pwm":       (*cli).doPwm,
	"awrite":    (*cli).doAwrite,
	"aread":     (*cli).doAread,
	"toggle":    (*cli).doToggle,
	"blink":     (*cli).doBlink,
	"pwm-bal":   (*cli).doPwmBal,
	"pwm-ms":    (*cli).doPwmMs,
	"pwmr":      (*cli).doPwmRange,
	"pwmc":      (*cli).doPwmClock,
	"pwmtone":   (*cli).doPwmTone,
	"drive":     (*cli).doPadDrive,
	"readall":   (*cli).doReadAll,
	"nreadall":  (*cli).doReadAll,
	"pins":      (*cli).doReadAll,
	"qmode":     (*cli).doQmode,
	"i2cdetect": (*cli).doI2CDetect,
	"i2cd":      (*cli).doI2CDetect,
	"reset":     (*cli).doReset,
	"wb":        (*cli).doWriteByte,
	"rbx":       (*cli).doReadByteHex,
	"rbd":       (*cli).doReadByteDec,
	"clock":     (*cli).doClock,
	"wfi":       (*cli).doWfi,
	"mwfi":      (*cli).doMwfi,
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out, errw io.Writer) int {
	if os.Getenv("GPIO_DEBUG") != "" || os.Getenv("WIRINGPI_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
		fmt.Fprintln(out, "gpio: debug mode enabled")
	}

	if len(args) == 0 {
		fmt.Fprintln(errw, "gpio:\n  Format: gpio -h for full details and\n          gpio readall for a quick printout of your connector details")
		return 1
	}

	switch strings.ToLower(args[0]) {
	case "h", "-h", "-help", "--help", "help":
		fmt.Fprintln(out, usage)
		return 0
	}
	if args[0] == "-v" {
		doVersion(out)
		return 0
	}
	if strings.EqualFold(args[0], "-warranty") {
		doWarranty(out)
		return 0
	}

	if geteuid() != 0 {
		fmt.Fprintln(errw, "gpio: must be root to run. Program should be suid root. This is an error.")
		return 1
	}

	c := &cli{out: out, sys: &sysGpio{root: defaultSysfsRoot}}

	// sysfs and kernel-module commands work through pseudo-files alone
	// and must not require the privileged memory map.
	switch strings.ToLower(args[0]) {
	case "exports":
		return report(errw, c.doExports(args[1:]))
	case "export":
		return report(errw, c.doExport(args[1:]))
	case "edge":
		return report(errw, c.doEdge(args[1:]))
	case "unexport":
		return report(errw, c.doUnexport(args[1:]))
	case "unexportall":
		return report(errw, c.doUnexportAll(args[1:]))
	case "load":
		return report(errw, c.doLoad(args[1:]))
	case "unload":
		return report(errw, c.doUnload(args[1:]))
	case "usbp":
		return report(errw, withHW(c, hwio.SchemeGpio, func() error {
			return c.doUsbp(args[1:])
		}))
	case "allreadall":
		return report(errw, withHW(c, hwio.SchemeGpio, func() error {
			return c.doAllReadAll(args[1:])
		}))
	}

	fs := flag.NewFlagSet("gpio", flag.ContinueOnError)
	fs.SetOutput(errw)
	b := fs.Bool("b", false, "use BCM GPIO pin numbering (the default)")
	p := fs.Bool("p", false, "use physical header pin numbering")
	w := fs.Bool("w", false, "use classic wiring pin numbering")
	z := fs.Bool("z", false, "do not initialise the hardware (dry run)")
	var exts extList
	fs.Var(&exts, "x", "load an extension, name:pinBase[:params] (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	scheme := hwio.SchemeGpio
	picked := 0
	if *b {
		scheme = hwio.SchemeGpio
		picked++
	}
	if *p {
		scheme = hwio.SchemePhys
		picked++
	}
	if *w {
		scheme = hwio.SchemeWpi
		picked++
	}
	if *z {
		scheme = hwio.SchemeNone
		picked++
	}
	if picked > 1 {
		fmt.Fprintln(errw, "gpio: only one of -b, -p, -w and -z may be given")
		return 1
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprintln(errw, "gpio: no command given")
		return 1
	}

	cmd, ok := commands[strings.ToLower(rest[0])]
	if !ok {
		fmt.Fprintf(errw, "gpio: unknown command: %s\n", rest[0])
		return 1
	}

	return report(errw, withHW(c, scheme, func() error {
		for _, spec := range exts {
			dev, err := loadExt(spec)
			if err != nil {
				return fmt.Errorf("extension load failed: %v", err)
			}
			c.hw.Attach(dev)
		}
		return cmd(c, rest[1:])
	}))
}

// withHW opens the hardware layer for the given scheme around fn.
func withHW(c *cli, scheme hwio.Scheme, fn func() error) error {
	hw, err := openHW(scheme)
	if err != nil {
		return err
	}
	defer hw.Close()
	c.hw = hw
	return fn()
}

func report(errw io.Writer, err error) int {
	if err == nil {
		return 0
	}
	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintln(errw, ue.msg)
	} else {
		fmt.Fprintf(errw, "gpio: %v\n", err)
	}
	return 1
}

// extList collects repeated -x flags in order.
type extList []string

func (e *extList) String() string {
	return strings.Join(*e, " ")
}

func (e *extList) Set(v string) error {
	if v == "" {
		return errors.New("missing extension spec")
	}
	*e = append(*e, v)
	return nil
}
