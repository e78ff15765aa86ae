package tui

import (
	"fmt"
	"strings"
)

func padRight(s string, width int) string {
	if len(s) >= width {
		if width > 3 {
			return s[:width-3] + "..."
		}
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// truncate shortens s to maxLen characters with ellipsis if needed.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// sparkline renders a single-line block chart of data scaled to
// [minVal, maxVal], followed by the latest value.
func sparkline(data []float64, width int, minVal, maxVal float64, unit string) string {
	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	if maxVal <= minVal {
		maxVal = minVal + 1
	}
	if len(data) == 0 {
		return dimStyle.Render(strings.Repeat("·", width) + " no data")
	}

	// keep the newest points when the buffer is wider than the chart
	if len(data) > width {
		data = data[len(data)-width:]
	}

	var sb strings.Builder
	for _, v := range data {
		ratio := (v - minVal) / (maxVal - minVal)
		if ratio < 0 {
			ratio = 0
		}
		if ratio > 1 {
			ratio = 1
		}
		idx := int(ratio * float64(len(blocks)-1))

		switch {
		case ratio > 0.85:
			sb.WriteString(critStyle.Render(string(blocks[idx])))
		case ratio > 0.6:
			sb.WriteString(warnStyle.Render(string(blocks[idx])))
		default:
			sb.WriteString(okStyle.Render(string(blocks[idx])))
		}
	}
	if pad := width - len(data); pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}

	sb.WriteString(dimStyle.Render(fmt.Sprintf(" now=%.1f%s", data[len(data)-1], unit)))
	return sb.String()
}
