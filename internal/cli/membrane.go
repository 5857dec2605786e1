package cli

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/agbru/besselj/internal/membrane"
)

// shadeRamp maps displacements from the most negative to the most positive
// value of a frame.
const shadeRamp = "#=-.+*@"

// DefaultRenderSize is the number of text rows of a rendered frame.
const DefaultRenderSize = 12

// RenderFrame draws a top view of the membrane as size rows of 2*size
// characters (terminal cells are about twice as tall as wide). Each cell
// shows the nearest grid vertex, shaded relative to the largest absolute
// displacement of the frame; cells outside the rim are blank.
func RenderFrame(frame *membrane.Frame, size int) []string {
	if frame == nil || len(frame.Rings) == 0 || size <= 0 {
		return nil
	}
	rings := len(frame.Rings) - 1
	spokes := len(frame.Rings[0]) - 1

	maxAbs := 0.0
	for _, ring := range frame.Rings {
		for _, z := range ring {
			maxAbs = math.Max(maxAbs, math.Abs(z))
		}
	}

	width := 2 * size
	lines := make([]string, size)
	var b strings.Builder
	for row := 0; row < size; row++ {
		b.Reset()
		v := 1 - (float64(row)+0.5)/float64(size)*2
		for col := 0; col < width; col++ {
			u := (float64(col)+0.5)/float64(width)*2 - 1
			rho := math.Hypot(u, v)
			if rho > 1 {
				b.WriteByte(' ')
				continue
			}
			theta := math.Atan2(v, u)
			if theta < 0 {
				theta += 2 * math.Pi
			}
			i := int(math.Round(rho * float64(rings)))
			j := 0
			if spokes > 0 {
				j = int(math.Round(theta/(2*math.Pi)*float64(spokes))) % (spokes + 1)
			}
			b.WriteByte(shade(frame.Rings[i][j], maxAbs))
		}
		lines[row] = strings.TrimRight(b.String(), " ")
	}
	return lines
}

func shade(z, maxAbs float64) byte {
	if maxAbs == 0 {
		return shadeRamp[len(shadeRamp)/2]
	}
	idx := int(math.Round((z/maxAbs + 1) / 2 * float64(len(shadeRamp)-1)))
	return shadeRamp[idx]
}

// DisplayFrame prints the summary of a sampled membrane frame and its top
// view. With details it adds the sampling time and the number of Bessel
// evaluations, one per ring.
//
// Parameters:
//   - frame: The sampled frame.
//   - stats: The frame statistics.
//   - duration: The sampling time.
//   - details: If true, prints timing information.
//   - out: The io.Writer for the output.
func DisplayFrame(frame *membrane.Frame, stats membrane.FrameStats, duration time.Duration, details bool, out io.Writer) {
	fmt.Fprintf(out, "\nMembrane mode %s%s%s at t=%s%g%s (λ = %s%.4f%s)\n",
		ColorMagenta(), frame.Mode, ColorReset(),
		ColorMagenta(), frame.Time, ColorReset(),
		ColorCyan(), frame.Lambda, ColorReset())
	// Rings and spokes are segment counts; the grid carries one more
	// vertex than segments along each axis.
	fmt.Fprintf(out, "Grid: %d rings × %d spokes, radius %g\n",
		len(frame.Rings)-1, len(frame.Rings[0])-1, frame.Radius)
	fmt.Fprintf(out, "Displacement: min %s%s%s, max %s%s%s, mean %s, stddev %s\n",
		ColorBlue(), FormatValue(stats.Min, false), ColorReset(),
		ColorRed(), FormatValue(stats.Max, false), ColorReset(),
		FormatValue(stats.Mean, false), FormatValue(stats.StdDev, false))

	if details {
		fmt.Fprintf(out, "\n%s--- Sampling details ---%s\n", ColorBold(), ColorReset())
		fmt.Fprintf(out, "Sampling time     : %s%s%s\n", ColorGreen(), FormatExecutionDuration(duration), ColorReset())
		fmt.Fprintf(out, "Bessel evaluations: %s%d%s\n", ColorCyan(), len(frame.Rings), ColorReset())
	}

	fmt.Fprintln(out)
	for _, line := range RenderFrame(frame, DefaultRenderSize) {
		fmt.Fprintf(out, "  %s\n", line)
	}
}
