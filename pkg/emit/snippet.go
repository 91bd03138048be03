package emit

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/menta2k/shape-tracer/pkg/shape"
)

// FunctionName builds the generator name for a shape, e.g. "lenses01" ->
// "generateLenses01". Non alphanumeric characters are dropped.
func FunctionName(name string) string {
	var sb strings.Builder
	for _, r := range name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			if sb.Len() == 0 {
				sb.WriteRune(unicode.ToUpper(r))
			} else {
				sb.WriteRune(unicode.ToLower(r))
			}
		}
	}
	if sb.Len() == 0 {
		return "generateExtracted"
	}
	return "generate" + sb.String()
}

// WriteSnippet writes a JavaScript module function that returns the embedded
// points, or resamples them with resamplePoints when a different count is
// requested.
func WriteSnippet(w io.Writer, d shape.Descriptor, name string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n// --- Extracted from image: %s ---\n", name)
	fmt.Fprintf(&sb, "// Width ratio: %.3f\n", d.WidthRatio)
	fmt.Fprintf(&sb, "export function %s(numPoints = %d) {\n", FunctionName(name), len(d.Points))
	sb.WriteString("  const raw = [")
	for i, p := range d.Points {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, "\n    {x: %s, z: %s}", formatFloat(p[0]), formatFloat(p[1]))
	}
	sb.WriteString("\n  ];\n")
	sb.WriteString(`
  // Resample if different point count requested
  if (numPoints !== raw.length) {
    return resamplePoints(raw, numPoints);
  }
  return raw;
}
`)
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write snippet: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
