package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// sysGpio manages the kernel's sysfs representation of exported GPIO
// pins. It needs no memory map and works for any pin the kernel accepts;
// the kernel, not this program, is the authority on pin validity.
type sysGpio struct {
	root string
}

func (s *sysGpio) pinDir(pin int) string {
	return filepath.Join(s.root, fmt.Sprintf("gpio%d", pin))
}

func (s *sysGpio) attrPath(pin int, attr string) string {
	return filepath.Join(s.pinDir(pin), attr)
}

func (s *sysGpio) exported(pin int) bool {
	_, err := os.Stat(s.pinDir(pin))
	return err == nil
}

// writeControl writes a decimal pin number to the export or unexport
// control file.
func (s *sysGpio) writeControl(name string, pin int) error {
	path := filepath.Join(s.root, name)
	f, err := os.OpenFile(path, os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("unable to open GPIO %s interface: %v", name, err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "%d\n", pin); err != nil {
		return fmt.Errorf("unable to write pin %d to GPIO %s interface: %v", pin, name, err)
	}
	return nil
}

func (s *sysGpio) writeAttr(pin int, attr, value string) error {
	f, err := os.OpenFile(s.attrPath(pin, attr), os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("unable to open GPIO %s interface for pin %d: %v", attr, pin, err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "%s\n", value); err != nil {
		return fmt.Errorf("unable to write GPIO %s for pin %d: %v", attr, pin, err)
	}
	return nil
}

// readAttr returns the attribute's content with the trailing newline
// stripped.
func (s *sysGpio) readAttr(pin int, attr string) (string, error) {
	b, err := os.ReadFile(s.attrPath(pin, attr))
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(b), "\n"), nil
}

// changeOwner hands the file to the real (not effective) user of the
// process, so the invoking user can keep using the pin without staying
// elevated. A missing file is not worth reporting.
func changeOwner(file string) {
	if err := os.Chown(file, os.Getuid(), os.Getgid()); err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("unable to change ownership of %s: %v", file, err)
		}
	}
}

func (s *sysGpio) chownUserFiles(pin int) {
	changeOwner(s.attrPath(pin, "value"))
	changeOwner(s.attrPath(pin, "edge"))
}

// normalizeDirection folds the accepted direction aliases onto the four
// tokens the kernel understands.
func normalizeDirection(mode string) (string, bool) {
	switch strings.ToLower(mode) {
	case "in", "input":
		return "in", true
	case "out", "output":
		return "out", true
	case "high", "up":
		return "high", true
	case "low", "down":
		return "low", true
	}
	return "", false
}

// Export exports a pin and sets its direction. An already-exported pin
// surfaces as the kernel's write error, the same as any other.
func (s *sysGpio) Export(pin int, mode string) error {
	dir, ok := normalizeDirection(mode)
	if !ok {
		return fmt.Errorf("invalid mode: %s. Should be in, out, high or low", mode)
	}
	if err := s.writeControl("export", pin); err != nil {
		return err
	}
	if err := s.writeAttr(pin, "direction", dir); err != nil {
		return err
	}
	s.chownUserFiles(pin)
	return nil
}

// edgeModes are the exact tokens the kernel accepts; no case folding.
var edgeModes = map[string]bool{"none": true, "rising": true, "falling": true, "both": true}

// Edge re-exports the pin, forces it to input and sets its edge trigger.
// The token is validated before anything is written.
func (s *sysGpio) Edge(pin int, mode string) error {
	if !edgeModes[mode] {
		return fmt.Errorf("invalid mode: %s. Should be none, rising, falling or both", mode)
	}
	if err := s.writeControl("export", pin); err != nil && !s.exported(pin) {
		return err
	}
	if err := s.writeAttr(pin, "direction", "in"); err != nil {
		return err
	}
	if err := s.writeAttr(pin, "edge", mode); err != nil {
		return err
	}
	s.chownUserFiles(pin)
	return nil
}

// Unexport returns a pin to the kernel.
func (s *sysGpio) Unexport(pin int) error {
	return s.writeControl("unexport", pin)
}

// UnexportAll unexports every pin unconditionally, ignoring which were
// actually exported.
func (s *sysGpio) UnexportAll() error {
	for pin := 0; pin < 63; pin++ {
		path := filepath.Join(s.root, "unexport")
		f, err := os.OpenFile(path, os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("unable to open GPIO unexport interface: %v", err)
		}
		// The kernel rejects pins that were never exported; that is
		// expected here.
		fmt.Fprintf(f, "%d\n", pin)
		f.Close()
	}
	return nil
}

// List prints one line per exported pin: number, direction, value and,
// when present, edge. An empty attribute renders as "?".
func (s *sysGpio) List(out io.Writer) error {
	first := true
	for pin := 0; pin < 64; pin++ {
		d, err := s.readAttr(pin, "direction")
		if err != nil {
			continue
		}
		if first {
			first = false
			fmt.Fprintln(out, "GPIO Pins exported:")
		}
		fmt.Fprintf(out, "%4d: %-3s", pin, orPlaceholder(d))
		v, err := s.readAttr(pin, "value")
		if err != nil {
			fmt.Fprintln(out, " No value file (huh?)")
			continue
		}
		fmt.Fprintf(out, "  %s", orPlaceholder(v))
		e, err := s.readAttr(pin, "edge")
		if err != nil {
			fmt.Fprintln(out)
			continue
		}
		fmt.Fprintf(out, "  %-8s\n", orPlaceholder(e))
	}
	return nil
}

func orPlaceholder(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

func parsePin(s string) (int, error) {
	pin, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad pin number %q", s)
	}
	return pin, nil
}

func (c *cli) doExport(args []string) error {
	if len(args) != 2 {
		return usagef("export <pin> <mode>")
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return err
	}
	return c.sys.Export(pin, args[1])
}

func (c *cli) doEdge(args []string) error {
	if len(args) != 2 {
		return usagef("edge <pin> <mode>")
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return err
	}
	return c.sys.Edge(pin, args[1])
}

func (c *cli) doUnexport(args []string) error {
	if len(args) != 1 {
		return usagef("unexport <pin>")
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return err
	}
	return c.sys.Unexport(pin)
}

func (c *cli) doUnexportAll(args []string) error {
	if len(args) != 0 {
		return usagef("unexportall")
	}
	return c.sys.UnexportAll()
}

func (c *cli) doExports(args []string) error {
	if len(args) != 0 {
		return usagef("exports")
	}
	return c.sys.List(c.out)
}
