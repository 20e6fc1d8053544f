package demo

import "doomcore/internal/ticcmd"

// Reader plays back a previously recorded demo stream.
type Reader struct {
	Header Header
	cur    *cursor
	done   bool
}

// NewReader parses the header and positions the cursor at the first
// per-tic record. Any header error (truncated lump, unknown version, bad
// signature) is returned for the caller to map to an abort, per spec.md
// §4.D's playback contract.
func NewReader(data []byte) (*Reader, error) {
	h, n, err := DecodeHeader(data)
	if err != nil {
		return nil, err
	}
	return &Reader{Header: h, cur: &cursor{buf: data, pos: n}}, nil
}

// ReadTic returns the next ticcmd, or done=true once the DEMOMARKER
// sentinel is reached (a demo consisting solely of the marker is
// valid-empty per spec.md §8 boundary behaviors and simply returns
// done=true on the very first call).
func (r *Reader) ReadTic() (cmd ticcmd.TicCmd, done bool, err error) {
	if r.done {
		return ticcmd.TicCmd{}, true, nil
	}
	cmd, isMarker, err := DecodeTic(r.cur, r.Header.Longtics())
	if err != nil {
		return ticcmd.TicCmd{}, false, err
	}
	if isMarker {
		r.done = true
		return ticcmd.TicCmd{}, true, nil
	}
	return cmd, false, nil
}

// ReadFooter attempts to parse the optional footer immediately following
// the position ReadTic left the cursor at after returning done=true. It is
// valid for no footer to be present, in which case Present is false and no
// error is returned.
func (r *Reader) ReadFooter() (Footer, error) {
	if r.cur.remaining() == 0 {
		return Footer{}, nil
	}
	engineVer, err := readLString(r.cur)
	if err != nil {
		return Footer{}, nil //nolint: footer is best-effort once remaining bytes exist
	}
	iwad, err := readLString(r.cur)
	if err != nil {
		return Footer{}, nil
	}
	pwadCount, err := r.cur.readU8()
	if err != nil {
		return Footer{}, nil
	}
	pwads := make([]string, 0, pwadCount)
	for i := 0; i < int(pwadCount); i++ {
		s, err := readLString(r.cur)
		if err != nil {
			return Footer{}, nil
		}
		pwads = append(pwads, s)
	}
	dehCount, err := r.cur.readU8()
	if err != nil {
		return Footer{}, nil
	}
	dehs := make([]string, 0, dehCount)
	for i := 0; i < int(dehCount); i++ {
		s, err := readLString(r.cur)
		if err != nil {
			return Footer{}, nil
		}
		dehs = append(dehs, s)
	}
	complevel, err := readLString(r.cur)
	if err != nil {
		return Footer{}, nil
	}
	gamever, err := readLString(r.cur)
	if err != nil {
		return Footer{}, nil
	}
	return Footer{
		Present:    true,
		EngineVer:  engineVer,
		IWAD:       iwad,
		PWADFiles:  pwads,
		Deh:        dehs,
		ComplevelS: complevel,
		GameVerS:   gamever,
	}, nil
}
