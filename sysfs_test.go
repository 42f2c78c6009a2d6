package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// newSysfsFixture builds a fake sysfs GPIO tree: the export/unexport
// control files plus a fully-populated directory for each listed pin.
func newSysfsFixture(t *testing.T, pins ...int) *sysGpio {
	t.Helper()
	root := t.TempDir()
	for _, name := range []string{"export", "unexport"} {
		assert.NoError(t, os.WriteFile(filepath.Join(root, name), nil, 0644))
	}
	s := &sysGpio{root: root}
	for _, pin := range pins {
		assert.NoError(t, os.Mkdir(s.pinDir(pin), 0755))
		for attr, content := range map[string]string{
			"direction": "in\n",
			"value":     "0\n",
			"edge":      "none\n",
		} {
			assert.NoError(t, os.WriteFile(s.attrPath(pin, attr), []byte(content), 0644))
		}
	}
	return s
}

func TestNormalizeDirection(t *testing.T) {
	for in, want := range map[string]string{
		"in": "in", "input": "in", "IN": "in",
		"out": "out", "Output": "out",
		"up": "high", "high": "high",
		"down": "low", "low": "low",
	} {
		got, ok := normalizeDirection(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := normalizeDirection("sideways")
	assert.False(t, ok)
}

func TestExport(t *testing.T) {
	t.Run("WritesDirection", func(t *testing.T) {
		s := newSysfsFixture(t, 17)
		assert.NoError(t, s.Export(17, "output"))
		d, err := s.readAttr(17, "direction")
		assert.NoError(t, err)
		assert.Equal(t, "out", d)
	})
	t.Run("AliasUp", func(t *testing.T) {
		s := newSysfsFixture(t, 17)
		assert.NoError(t, s.Export(17, "up"))
		d, err := s.readAttr(17, "direction")
		assert.NoError(t, err)
		assert.Equal(t, "high", d)
	})
	t.Run("InvalidMode", func(t *testing.T) {
		s := newSysfsFixture(t, 17)
		err := s.Export(17, "rising")
		assert.ErrorContains(t, err, "invalid mode")
		// Nothing was written to the control file.
		b, rerr := os.ReadFile(filepath.Join(s.root, "export"))
		assert.NoError(t, rerr)
		assert.Empty(t, b)
	})
	t.Run("MissingControlFile", func(t *testing.T) {
		s := &sysGpio{root: t.TempDir()}
		assert.ErrorContains(t, s.Export(17, "in"), "export interface")
	})
}

func TestEdge(t *testing.T) {
	t.Run("ForcesInput", func(t *testing.T) {
		s := newSysfsFixture(t, 17)
		assert.NoError(t, os.WriteFile(s.attrPath(17, "direction"), []byte("out\n"), 0644))
		assert.NoError(t, s.Edge(17, "rising"))
		d, _ := s.readAttr(17, "direction")
		assert.Equal(t, "in", d)
		e, _ := s.readAttr(17, "edge")
		assert.Equal(t, "rising", e)
	})
	t.Run("TokensAreCaseSensitive", func(t *testing.T) {
		s := newSysfsFixture(t, 17)
		err := s.Edge(17, "Rising")
		assert.ErrorContains(t, err, "invalid mode")
		// Validation happens before any write.
		e, _ := s.readAttr(17, "edge")
		assert.Equal(t, "none", e)
	})
	t.Run("AlreadyExportedPin", func(t *testing.T) {
		s := newSysfsFixture(t, 17)
		// Kill the export control file; an existing pin dir still works.
		assert.NoError(t, os.Remove(filepath.Join(s.root, "export")))
		assert.NoError(t, s.Edge(17, "both"))
		e, _ := s.readAttr(17, "edge")
		assert.Equal(t, "both", e)
	})
}

func TestUnexportAll(t *testing.T) {
	s := newSysfsFixture(t)
	assert.NoError(t, s.UnexportAll())
	t.Run("MissingControlFile", func(t *testing.T) {
		s := &sysGpio{root: t.TempDir()}
		assert.ErrorContains(t, s.UnexportAll(), "unexport interface")
	})
}

func TestExportsListing(t *testing.T) {
	t.Run("Empty", func(t *testing.T) {
		s := newSysfsFixture(t)
		out := &bytes.Buffer{}
		assert.NoError(t, s.List(out))
		assert.Empty(t, out.String())
	})
	t.Run("ListsExportedPins", func(t *testing.T) {
		s := newSysfsFixture(t, 4, 17)
		assert.NoError(t, os.WriteFile(s.attrPath(17, "value"), []byte("1\n"), 0644))
		out := &bytes.Buffer{}
		assert.NoError(t, s.List(out))
		assert.Contains(t, out.String(), "GPIO Pins exported:")
		assert.Contains(t, out.String(), "   4: in ")
		assert.Contains(t, out.String(), "  17: in   1  none")
	})
	t.Run("EmptyAttrShowsPlaceholder", func(t *testing.T) {
		s := newSysfsFixture(t, 4)
		assert.NoError(t, os.WriteFile(s.attrPath(4, "value"), nil, 0644))
		out := &bytes.Buffer{}
		assert.NoError(t, s.List(out))
		assert.Contains(t, out.String(), "in   ?")
	})
}

func TestSysfsHandlers(t *testing.T) {
	t.Run("ExportUsage", func(t *testing.T) {
		c := &cli{sys: newSysfsFixture(t)}
		assert.ErrorContains(t, c.doExport([]string{"17"}), "export <pin> <mode>")
	})
	t.Run("BadPin", func(t *testing.T) {
		c := &cli{sys: newSysfsFixture(t)}
		assert.ErrorContains(t, c.doEdge([]string{"seventeen", "rising"}), "bad pin number")
	})
	t.Run("Unexport", func(t *testing.T) {
		s := newSysfsFixture(t, 17)
		c := &cli{sys: s}
		assert.NoError(t, c.doUnexport([]string{"17"}))
		b, err := os.ReadFile(filepath.Join(s.root, "unexport"))
		assert.NoError(t, err)
		assert.Equal(t, "17\n", string(b))
	})
}
