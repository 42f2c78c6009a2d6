package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pitools/gpio/extension"
	"github.com/pitools/gpio/hwio"
)

// asRoot makes run() believe it is root and gives it a stub hardware
// layer for the duration of the test.
func asRoot(t *testing.T) {
	t.Helper()
	oldEuid, oldOpen := geteuid, openHW
	geteuid = func() int { return 0 }
	openHW = func(scheme hwio.Scheme) (*hwio.GPIO, error) {
		hw, _ := hwio.NewStub(scheme)
		return hw, nil
	}
	t.Cleanup(func() {
		geteuid, openHW = oldEuid, oldOpen
	})
}

func runCapture(args ...string) (int, string, string) {
	out, errw := &bytes.Buffer{}, &bytes.Buffer{}
	code := run(args, out, errw)
	return code, out.String(), errw.String()
}

func TestRunNoArgs(t *testing.T) {
	code, _, errs := runCapture()
	assert.Equal(t, 1, code)
	assert.Contains(t, errs, "gpio -h for full details")
}

func TestRunHelp(t *testing.T) {
	for _, arg := range []string{"-h", "-help", "--help", "help", "h", "HELP"} {
		code, out, _ := runCapture(arg)
		assert.Equal(t, 0, code, arg)
		assert.Contains(t, out, "Usage: gpio", arg)
	}
}

func TestRunVersion(t *testing.T) {
	// Version and warranty work without root.
	old := geteuid
	geteuid = func() int { return 1000 }
	defer func() { geteuid = old }()

	code, out, _ := runCapture("-v")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "gpio version: "+Version)

	code, out, _ = runCapture("-warranty")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "WITHOUT ANY WARRANTY")
}

func TestRunRequiresRoot(t *testing.T) {
	old := geteuid
	geteuid = func() int { return 1000 }
	defer func() { geteuid = old }()

	code, _, errs := runCapture("readall")
	assert.Equal(t, 1, code)
	assert.Contains(t, errs, "must be root")
}

func TestRunUnknownCommand(t *testing.T) {
	asRoot(t)
	code, _, errs := runCapture("frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, errs, "unknown command: frobnicate")
}

func TestRunNoCommandAfterFlags(t *testing.T) {
	asRoot(t)
	code, _, errs := runCapture("-g")
	assert.Equal(t, 1, code)
	assert.NotEmpty(t, errs)

	code, _, errs = runCapture("-w")
	assert.Equal(t, 1, code)
	assert.Contains(t, errs, "no command given")
}

func TestRunSchemeConflict(t *testing.T) {
	asRoot(t)
	code, _, errs := runCapture("-p", "-w", "read", "7")
	assert.Equal(t, 1, code)
	assert.Contains(t, errs, "only one of")
}

func TestRunDispatch(t *testing.T) {
	asRoot(t)
	t.Run("DefaultScheme", func(t *testing.T) {
		code, out, _ := runCapture("read", "17")
		assert.Equal(t, 0, code)
		assert.Equal(t, "0\n", out)
	})
	t.Run("CaseFolded", func(t *testing.T) {
		code, _, _ := runCapture("-w", "READ", "0")
		assert.Equal(t, 0, code)
	})
	t.Run("UsageErrorPrintsBare", func(t *testing.T) {
		code, _, errs := runCapture("read")
		assert.Equal(t, 1, code)
		assert.Contains(t, errs, "Usage: gpio read <pin>")
		assert.NotContains(t, errs, "gpio: Usage")
	})
	t.Run("OtherErrorsArePrefixed", func(t *testing.T) {
		code, _, errs := runCapture("-p", "read", "1")
		assert.Equal(t, 1, code)
		assert.Contains(t, errs, "gpio: ")
	})
}

func TestRunExtensionFlag(t *testing.T) {
	asRoot(t)
	var got []string
	oldLoad := loadExt
	loadExt = func(spec string) (extension.Device, error) {
		got = append(got, spec)
		return nil, errors.New("no such device")
	}
	defer func() { loadExt = oldLoad }()

	code, _, errs := runCapture("-x", "mcp3008:100", "aread", "100")
	assert.Equal(t, 1, code)
	assert.Equal(t, []string{"mcp3008:100"}, got)
	assert.Contains(t, errs, "extension load failed")
}

func TestReportFormatting(t *testing.T) {
	errw := &bytes.Buffer{}
	assert.Equal(t, 0, report(errw, nil))
	assert.Empty(t, errw.String())

	assert.Equal(t, 1, report(errw, usagef("bank <bank#>")))
	assert.Equal(t, "Usage: gpio bank <bank#>\n", errw.String())

	errw.Reset()
	assert.Equal(t, 1, report(errw, errors.New("boom")))
	assert.Equal(t, "gpio: boom\n", errw.String())
}

func TestExtListFlag(t *testing.T) {
	var e extList
	assert.NoError(t, e.Set("mcp3004:64"))
	assert.NoError(t, e.Set("pcf8591:120:32"))
	assert.Equal(t, extList{"mcp3004:64", "pcf8591:120:32"}, e)
	assert.Error(t, e.Set(""))
}
