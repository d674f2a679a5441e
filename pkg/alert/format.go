// Copyright (C) 2026, MarketPulse Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package alert

import (
	"fmt"
	"math"
	"strconv"
)

// FormatValue renders a metric value for alert messages: currency
// metrics get a Rp prefix and thousands separators, ratio metrics a
// one-decimal percentage, everything else a grouped integer.
func FormatValue(metricName string, v float64) string {
	switch metricName {
	case "cpc", "cost":
		return "Rp " + groupDigits(int64(math.Round(v)))
	case "ctr", "conversion_rate":
		return fmt.Sprintf("%.1f%%", v*100)
	default:
		return groupDigits(int64(math.Round(v)))
	}
}

// groupDigits inserts comma separators every three digits.
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s) > 3 {
		var out []byte
		lead := len(s) % 3
		if lead > 0 {
			out = append(out, s[:lead]...)
		}
		for i := lead; i < len(s); i += 3 {
			if len(out) > 0 {
				out = append(out, ',')
			}
			out = append(out, s[i:i+3]...)
		}
		s = string(out)
	}
	if neg {
		return "-" + s
	}
	return s
}
