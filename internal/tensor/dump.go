package tensor

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Fprint writes a human-readable dump of m to w: a "name (rows x cols)"
// header followed by one tab-separated line per row. Not a stable format.
func Fprint(w io.Writer, name string, m *Matrix) error {
	_, err := io.WriteString(w, Format(name, m))
	return err
}

// Dump prints m to stdout. Debugging aid only.
func Dump(name string, m *Matrix) {
	_ = Fprint(os.Stdout, name, m)
}

// Format returns the dump written by Fprint.
func Format(name string, m *Matrix) string {
	var b strings.Builder
	if m == nil {
		fmt.Fprintf(&b, "%s <nil>\n", name)
		return b.String()
	}
	r, c := m.Dims()
	fmt.Fprintf(&b, "%s (%d x %d)\n", name, r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if j > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(strconv.FormatFloat(m.At(i, j), 'f', 6, 64))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// String implements fmt.Stringer using Format with an empty name.
func (m *Matrix) String() string {
	return strings.TrimPrefix(Format("", m), " ")
}
