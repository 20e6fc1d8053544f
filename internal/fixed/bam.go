package fixed

import "math"

// Angle is a 32-bit unsigned Binary Angular Measure: the full circle is
// 0x100000000, so 0x10000000 == 22.5 degrees, matching the original engine's
// angle_t. Wraparound is exact and free (unsigned overflow), which is why
// angle math never uses float64 on a path that affects simulation state.
type Angle uint32

const (
	// AngleLookupBits is the number of bits used to index the trig tables;
	// 8192-entry tables (13 bits) match the original FINEANGLES/4 table size.
	AngleLookupBits = 13
	angleLookupSize = 1 << AngleLookupBits
	// AngleToFineShift converts a full 32-bit Angle into a fine-angle index.
	AngleToFineShift = 32 - AngleLookupBits - 2

	Angle90  Angle = 0x40000000
	Angle180 Angle = 0x80000000
	Angle270 Angle = 0xC0000000
)

var (
	sineTable   [angleLookupSize * 5]Fixed
	cosineTable [angleLookupSize * 5]Fixed
	tangentSet  bool
)

func init() {
	// Build a table over 0..1.25 turns worth of fine angles so cosine (a
	// quarter-turn phase shift of sine) never needs to wrap negative
	// indices; this mirrors the original finesine/finecosine tables which
	// overlap by FINEANGLES/4 entries for the same reason.
	n := len(sineTable)
	for i := 0; i < n; i++ {
		radians := (2 * math.Pi) * float64(i) / float64(angleLookupSize*4)
		sineTable[i] = FromFloat(math.Sin(radians))
	}
	quarter := angleLookupSize
	for i := 0; i < n; i++ {
		idx := i + quarter
		if idx >= n {
			idx = idx % n
		}
		cosineTable[i] = sineTable[idx]
	}
	tangentSet = true
}

func fineIndex(a Angle) int {
	return int(uint32(a) >> AngleToFineShift)
}

// Sin returns the fixed-point sine of a BAM angle.
func Sin(a Angle) Fixed { return sineTable[fineIndex(a)%len(sineTable)] }

// Cos returns the fixed-point cosine of a BAM angle.
func Cos(a Angle) Fixed { return cosineTable[fineIndex(a)%len(cosineTable)] }

// Tan returns the fixed-point tangent of a BAM angle, saturating at the
// asymptotes instead of dividing by zero.
func Tan(a Angle) Fixed {
	c := Cos(a)
	if c == 0 {
		if Sin(a) < 0 {
			return MinFixed
		}
		return MaxFixed
	}
	return FixedDiv(Sin(a), c)
}

// PointToAngle returns the BAM angle from the origin to (x, y).
func PointToAngle(x, y Fixed) Angle {
	fx, fy := ToFloat(x), ToFloat(y)
	radians := math.Atan2(fy, fx)
	if radians < 0 {
		radians += 2 * math.Pi
	}
	return Angle(uint32(radians / (2 * math.Pi) * 4294967296.0))
}
