package querystring

import "strings"

// segmentWriter accumulates "?"/"&" separated key=value segments after a
// fixed path. It lives for a single compile and is discarded afterwards.
type segmentWriter struct {
	builder  strings.Builder
	segments int
}

func newSegmentWriter(path string) *segmentWriter {
	w := &segmentWriter{}
	w.builder.WriteString(path)
	return w
}

// add appends key=value, prefixed with "?" for the first segment and "&"
// for every later one. Neither key nor value is escaped.
func (w *segmentWriter) add(key, value string) {
	if w.segments == 0 {
		w.builder.WriteByte('?')
	} else {
		w.builder.WriteByte('&')
	}
	w.segments++

	w.builder.Grow(len(key) + len(value) + 1)
	w.builder.WriteString(key)
	w.builder.WriteByte('=')
	w.builder.WriteString(value)
}

func (w *segmentWriter) String() string {
	return w.builder.String()
}
