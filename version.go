package main

import (
	"fmt"
	"io"

	"github.com/pitools/gpio/board"
)

const Version = "2.60"

func doVersion(out io.Writer) {
	fmt.Fprintf(out, "gpio version: %s\n", Version)
	fmt.Fprintln(out, "Copyright (c) 2012-2026 Gordon Henderson and contributors")
	fmt.Fprintln(out, "This is free software with ABSOLUTELY NO WARRANTY.")
	fmt.Fprintln(out, "For details type: gpio -warranty")
	fmt.Fprintln(out)

	info, err := board.Identify()
	if err != nil {
		fmt.Fprintf(out, "Unable to determine board type: %v\n", err)
		return
	}
	fmt.Fprintf(out, "Raspberry Pi Details:\n")
	fmt.Fprintf(out, "  Revision string: 0x%08X\n", info.Revision)
	fmt.Fprintf(out, "  Type: %s, Revision: %s, Memory: %s, Maker: %s\n",
		info.Model, info.Rev, info.Memory, info.Maker)
	fmt.Fprintf(out, "  Processor: %s\n", info.Processor)
	if info.Warranty {
		fmt.Fprintln(out, "  [Out of Warranty]")
	}
	if board.DeviceTreeEnabled() {
		fmt.Fprintln(out, "  * Device tree is enabled.")
		if m := board.DTModel(); m != "" {
			fmt.Fprintf(out, "  *--> %s\n", m)
		}
	}
	if board.UserLevelGpio() {
		fmt.Fprintln(out, "  * This Raspberry Pi supports user-level GPIO access.")
	} else {
		fmt.Fprintln(out, "  * Root or sudo required for GPIO access.")
	}
}

func doWarranty(out io.Writer) {
	fmt.Fprintf(out, "gpio version: %s\n", Version)
	fmt.Fprintln(out, `Copyright (c) 2012-2026 Gordon Henderson and contributors

    This program is free software; you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as
    published by the Free Software Foundation; either version 3 of the
    License, or (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU Lesser General Public License for more details.

    You should have received a copy of the GNU Lesser General Public
    License along with this program. If not, see
    <http://www.gnu.org/licenses/>.`)
}
