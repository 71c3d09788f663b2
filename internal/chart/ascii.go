package chart

import (
	"math"
	"strings"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders values as a single line of block characters,
// downsampled to at most width columns.
func Sparkline(values []float64, width int) string {
	values = downsample(values, width)
	if len(values) == 0 {
		return ""
	}
	lo, hi := bounds(values)
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int(math.Round((v - lo) / (hi - lo) * float64(len(sparkRunes)-1)))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

// Plot draws values as a height x width grid of '*' with the min and max on the axis.
func Plot(values []float64, width, height int) []string {
	values = downsample(values, width)
	if len(values) == 0 || height < 2 {
		return nil
	}
	lo, hi := bounds(values)
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", len(values)))
	}
	for x, v := range values {
		row := 0
		if hi > lo {
			row = int(math.Round((v - lo) / (hi - lo) * float64(height-1)))
		}
		grid[height-1-row][x] = '*'
	}

	top := formatAxis(hi)
	bottom := formatAxis(lo)
	pad := len(top)
	if len(bottom) > pad {
		pad = len(bottom)
	}
	lines := make([]string, height)
	for i, row := range grid {
		label := ""
		switch i {
		case 0:
			label = top
		case height - 1:
			label = bottom
		}
		lines[i] = strings.Repeat(" ", pad-len(label)) + label + " |" + string(row)
	}
	return lines
}

func downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		return values
	}
	out := make([]float64, width)
	step := float64(len(values)-1) / float64(width-1)
	for i := range out {
		out[i] = values[int(math.Round(float64(i)*step))]
	}
	return out
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}
