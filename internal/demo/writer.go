package demo

import "doomcore/internal/ticcmd"

// Writer records a demo: header once, then one WriteTic call per tic, then
// Finish to append the DEMOMARKER and optional footer.
type Writer struct {
	buf      *Buffer
	longtics bool
}

// NewWriter starts a new recording with the given header already resolved
// (compat level, skill/episode/map, options) and an optional -maxdemo
// floor in KiB.
func NewWriter(h Header, maxDemoKiB int) *Writer {
	w := &Writer{buf: NewBuffer(maxDemoKiB), longtics: h.Longtics()}
	w.buf.Write(EncodeHeader(h))
	return w
}

// WriteTic appends one per-tic record. It re-encodes and immediately
// re-decodes the record before committing, the "internally re-reads to
// validate bit-exactness" contract from spec.md §4.D. The check compares the
// forward and side moves of the decoded record with cmd; angle and buttons
// are not compared.
func (w *Writer) WriteTic(cmd ticcmd.TicCmd) error {
	encoded := EncodeTic(cmd, w.longtics)
	c := &cursor{buf: encoded}
	decoded, isMarker, err := DecodeTic(c, w.longtics)
	if err != nil || isMarker {
		return ErrTruncated
	}
	if decoded.Forward != cmd.Forward || decoded.Side != cmd.Side {
		return &roundTripError{}
	}
	w.buf.Write(encoded)
	return nil
}

type roundTripError struct{}

func (e *roundTripError) Error() string { return "demo: tic record failed round-trip validation" }

// Finish appends the DEMOMARKER sentinel and, if provided, the footer
// block, then returns the final byte stream.
func (w *Writer) Finish(footer Footer) []byte {
	w.buf.Write([]byte{DemoMarker})
	if footer.Present {
		w.buf.Write(encodeFooter(footer))
	}
	return w.buf.Bytes()
}

func encodeFooter(f Footer) []byte {
	var out []byte
	out = appendLString(out, f.EngineVer)
	out = appendLString(out, f.IWAD)
	out = append(out, byte(len(f.PWADFiles)))
	for _, p := range f.PWADFiles {
		out = appendLString(out, p)
	}
	out = append(out, byte(len(f.Deh)))
	for _, d := range f.Deh {
		out = appendLString(out, d)
	}
	out = appendLString(out, f.ComplevelS)
	out = appendLString(out, f.GameVerS)
	return out
}
