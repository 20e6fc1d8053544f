package sim

import "fmt"

// errTruncated mirrors demo.ErrTruncated's role for this package's own
// archive cursor (spec.md §9: never type-pun structs across the wire, so
// every wire format in this module gets the same explicit little-endian
// cursor rather than unsafe casts).
var errTruncated = fmt.Errorf("sim: truncated archive section")

type writer struct {
	buf []byte
}

func (w *writer) u8(v uint8)   { w.buf = append(w.buf, v) }
func (w *writer) bool(v bool) {
	if v {
		w.u8(1)
	} else {
		w.u8(0)
	}
}

func (w *writer) u16(v uint16) {
	w.buf = append(w.buf, byte(v), byte(v>>8))
}

func (w *writer) u32(v uint32) {
	w.buf = append(w.buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func (w *writer) i32(v int32) { w.u32(uint32(v)) }

type reader struct {
	buf []byte
	pos int
}

func (r *reader) remaining() int { return len(r.buf) - r.pos }

func (r *reader) u8() (uint8, error) {
	if r.remaining() < 1 {
		return 0, errTruncated
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

func (r *reader) boolv() (bool, error) {
	v, err := r.u8()
	return v != 0, err
}

func (r *reader) u16() (uint16, error) {
	if r.remaining() < 2 {
		return 0, errTruncated
	}
	v := uint16(r.buf[r.pos]) | uint16(r.buf[r.pos+1])<<8
	r.pos += 2
	return v, nil
}

func (r *reader) u32() (uint32, error) {
	if r.remaining() < 4 {
		return 0, errTruncated
	}
	v := uint32(r.buf[r.pos]) | uint32(r.buf[r.pos+1])<<8 |
		uint32(r.buf[r.pos+2])<<16 | uint32(r.buf[r.pos+3])<<24
	r.pos += 4
	return v, nil
}

func (r *reader) i32int() (int, error) {
	v, err := r.u32()
	return int(int32(v)), err
}
