package hwio

// Pin numbering translation tables for the 40-pin (and legacy 26-pin +
// P5) headers. A -1 entry means the slot does not map to a BCM GPIO.

// wpiToGpio maps classic wiring-scheme pin numbers to BCM GPIO numbers.
var wpiToGpio = [64]int{
	17, 18, 27, 22, 23, 24, 25, 4, // 0..7
	2, 3, // 8, 9: I2C SDA, SCL
	8, 7, // 10, 11: SPI CE0, CE1
	10, 9, 11, // 12..14: SPI MOSI, MISO, SCLK
	14, 15, // 15, 16: UART Tx, Rx
	28, 29, 30, 31, // 17..20: P5 header
	5, 6, 13, 19, 26, // 21..25
	12, 16, 20, 21, // 26..29
	0, 1, // 30, 31: ID I2C
	-1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1,
}

// physToGpio maps physical header positions to BCM GPIO numbers.
// Positions 1..40 are the main header, 51..54 the P5 header on rev 2
// boards.
var physToGpio = [64]int{
	-1, // 0
	-1, -1, // 1, 2
	2, -1, // 3, 4
	3, -1, // 5, 6
	4, 14, // 7, 8
	-1, 15, // 9, 10
	17, 18, // 11, 12
	27, -1, // 13, 14
	22, 23, // 15, 16
	-1, 24, // 17, 18
	10, -1, // 19, 20
	9, 25, // 21, 22
	11, 8, // 23, 24
	-1, 7, // 25, 26
	0, 1, // 27, 28
	5, -1, // 29, 30
	6, 12, // 31, 32
	13, -1, // 33, 34
	19, 16, // 35, 36
	26, 20, // 37, 38
	-1, 21, // 39, 40
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, // 41..50
	28, 29, 30, 31, // 51..54: P5
	-1, -1, -1, -1, -1, -1, -1, -1, -1, // 55..63
}

// physNames is the conventional label for each physical header position.
var physNames = [41]string{
	"",
	"3.3v", "5v",
	"SDA.1", "5v",
	"SCL.1", "0v",
	"GPIO. 7", "TxD",
	"0v", "RxD",
	"GPIO. 0", "GPIO. 1",
	"GPIO. 2", "0v",
	"GPIO. 3", "GPIO. 4",
	"3.3v", "GPIO. 5",
	"MOSI", "0v",
	"MISO", "GPIO. 6",
	"SCLK", "CE0",
	"0v", "CE1",
	"SDA.0", "SCL.0",
	"GPIO.21", "0v",
	"GPIO.22", "GPIO.26",
	"GPIO.23", "0v",
	"GPIO.24", "GPIO.27",
	"GPIO.25", "GPIO.28",
	"0v", "GPIO.29",
}

// WpiToGpio translates a wiring-scheme pin number to its BCM number, or
// -1 if the slot is unused.
func WpiToGpio(pin int) int {
	if pin < 0 || pin >= len(wpiToGpio) {
		return -1
	}
	return wpiToGpio[pin]
}

// PhysToGpio translates a physical header position to its BCM number, or
// -1 for power, ground and unused positions.
func PhysToGpio(pin int) int {
	if pin < 0 || pin >= len(physToGpio) {
		return -1
	}
	return physToGpio[pin]
}

// GpioToWpi is the reverse of WpiToGpio, or -1 when the BCM pin has no
// wiring-scheme number.
func GpioToWpi(bcm int) int {
	for w, g := range wpiToGpio {
		if g == bcm {
			return w
		}
	}
	return -1
}

// PhysName returns the conventional label for a physical header position.
func PhysName(phys int) string {
	if phys < 1 || phys >= len(physNames) {
		return ""
	}
	return physNames[phys]
}
