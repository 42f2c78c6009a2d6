package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeNewStyle(t *testing.T) {
	t.Run("Pi3B", func(t *testing.T) {
		info := Decode(0xa02082)
		assert.Equal(t, "Pi 3", info.Model)
		assert.Equal(t, "BCM2837", info.Processor)
		assert.Equal(t, "1GB", info.Memory)
		assert.Equal(t, "Sony UK", info.Maker)
		assert.Equal(t, "1.2", info.Rev)
		assert.False(t, info.Warranty)
	})

	t.Run("Pi4B4GB", func(t *testing.T) {
		info := Decode(0xc03111)
		assert.Equal(t, "Pi 4B", info.Model)
		assert.Equal(t, "BCM2711", info.Processor)
		assert.Equal(t, "4GB", info.Memory)
		assert.Equal(t, "1.1", info.Rev)
	})

	t.Run("ZeroW", func(t *testing.T) {
		info := Decode(0x9000c1)
		assert.Equal(t, "Pi Zero-W", info.Model)
		assert.Equal(t, "512MB", info.Memory)
	})

	t.Run("WarrantyBit", func(t *testing.T) {
		info := Decode(0xa02082 | 1<<25)
		assert.True(t, info.Warranty)
	})
}

func TestDecodeOldStyle(t *testing.T) {
	t.Run("EarlyModelB", func(t *testing.T) {
		info := Decode(0x0002)
		assert.Equal(t, "Model B", info.Model)
		assert.Equal(t, "BCM2835", info.Processor)
		assert.Equal(t, "256MB", info.Memory)
		assert.Equal(t, 1, info.GpioLayout())
		assert.Equal(t, 0, info.I2CBus())
	})

	t.Run("Rev2ModelB", func(t *testing.T) {
		info := Decode(0x000e)
		assert.Equal(t, "Model B", info.Model)
		assert.Equal(t, "Sony UK", info.Maker)
		assert.Equal(t, 2, info.GpioLayout())
		assert.Equal(t, 1, info.I2CBus())
	})

	t.Run("OvervoltPrefixWarranty", func(t *testing.T) {
		info := Decode(0x1000002)
		assert.Equal(t, "Model B", info.Model)
		assert.True(t, info.Warranty)
	})

	t.Run("Unknown", func(t *testing.T) {
		info := Decode(0x001f)
		assert.Contains(t, info.Model, "Unknown")
	})
}

func TestUSBPowerControl(t *testing.T) {
	assert.True(t, Decode(0x0010).HasUSBPowerControl())  // B+
	assert.True(t, Decode(0xa01041).HasUSBPowerControl()) // Pi 2
	assert.False(t, Decode(0xa02082).HasUSBPowerControl())
	assert.False(t, Decode(0xc03111).HasUSBPowerControl())
}
