package selection

import (
	"fmt"
	"strings"
)

// Key is a lexicographic sort key: a fixed-arity tuple of signed scalars,
// optionally with string parts for stable id tie-breaks. Keys are computed
// once per entity and compared part by part; rankers never re-sort on live
// features.
type Key struct {
	parts []keyPart
}

type keyPart struct {
	num   float64
	str   string
	isStr bool
}

// AppendNum appends a numeric part to the key
func (k *Key) AppendNum(v float64) {
	k.parts = append(k.parts, keyPart{num: v})
}

// AppendStr appends a string part to the key
func (k *Key) AppendStr(s string) {
	k.parts = append(k.parts, keyPart{str: s, isStr: true})
}

// Less compares two keys lexicographically. Parts at the same position have
// the same kind by construction (both keys come from one scheme).
func (k Key) Less(other Key) bool {
	n := len(k.parts)
	if len(other.parts) < n {
		n = len(other.parts)
	}
	for i := 0; i < n; i++ {
		a, b := k.parts[i], other.parts[i]
		if a.isStr || b.isStr {
			if a.str != b.str {
				return a.str < b.str
			}
			continue
		}
		if a.num != b.num {
			return a.num < b.num
		}
	}
	return len(k.parts) < len(other.parts)
}

// String renders the literal key for audit rows, e.g. "(-1,39600,-0.52,O7)"
func (k Key) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range k.parts {
		if i > 0 {
			b.WriteByte(',')
		}
		if p.isStr {
			b.WriteString(p.str)
		} else {
			b.WriteString(formatKeyNum(p.num))
		}
	}
	b.WriteByte(')')
	return b.String()
}

func formatKeyNum(v float64) string {
	return fmt.Sprintf("%g", v)
}
