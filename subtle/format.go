package subtle

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatBytes renders b as upper-case hex octets separated by spaces, the
// layout used by the NIST sample files.
func FormatBytes(b []byte) string {
	var sb strings.Builder
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", c)
	}
	return sb.String()
}

// FormatNumerals renders a numeral string as "[d0 d1 ...]".
func FormatNumerals(x []int) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, d := range x {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(strconv.Itoa(d))
	}
	sb.WriteByte(']')
	return sb.String()
}
