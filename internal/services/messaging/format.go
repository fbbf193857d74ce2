package messaging

import (
	"fmt"
	"time"
)

// FormatDuration renders a duration as 1h 02m 05s, dropping leading zero units
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	d = d.Truncate(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	sec := int(d % time.Minute / time.Second)

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm %02ds", h, m, sec)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, sec)
	default:
		return fmt.Sprintf("%ds", sec)
	}
}
