package save

import "errors"

// ErrTruncated reports a save stream that ends before a field is fully
// read.
var ErrTruncated = errors.New("save: truncated stream")

// ErrConsistencyLost reports a missing or corrupt 0xE6 marker between the
// archive sections and the trailing totals (spec.md §4.E item 12).
var ErrConsistencyLost = errors.New("save: consistency marker missing")

// ErrIncompatible is the "Incompatible Savegame" rejection: the WAD
// signature in the save does not match the currently loaded WAD and the
// caller did not force-load.
var ErrIncompatible = errors.New("save: incompatible savegame")

// ErrVersionMismatch is the "Different Savegame Version" rejection: the
// version string does not match the running engine and no (or a
// mismatched) compat byte is present to vouch for it.
var ErrVersionMismatch = errors.New("save: different savegame version")

// CheckCompatible applies the two load-rejection rules from spec.md §4.E:
// a WAD signature mismatch is fatal unless forceLoad is set, and a version
// string mismatch is fatal unless the save's compat byte still matches the
// currently running compat level.
func CheckCompatible(g Game, currentWadSignature uint64, currentEngineVersion string, currentCompat uint8, forceLoad bool) error {
	if g.Header.WadSignature != currentWadSignature && !forceLoad {
		return ErrIncompatible
	}
	if g.Header.EngineVersion != currentEngineVersion && g.Header.Compat != currentCompat {
		return ErrVersionMismatch
	}
	return nil
}
