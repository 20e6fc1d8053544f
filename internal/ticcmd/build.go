package ticcmd

// InputSource holds the raw, edge- and level-triggered signals polled from
// the platform layer (external per spec.md §1) that BuildTiccmd needs. The
// core only ever sees this struct; the SDL/keyboard/gamepad specifics live
// outside the core's scope.
type InputSource struct {
	ForwardMove  int8 // -1, 0, 1 axis of the level-triggered "key down" state
	SideMove     int8
	TurnKeyLeft  bool
	TurnKeyRight bool
	StickX       float64 // analog right-stick X in [-1, 1]
	MouseDX      float64

	AttackDown    bool
	UseDown       bool
	PauseEdge     bool // edge-triggered: true only on the tic the key went down
	SaveEdge      bool
	SaveSlot      uint8
	JoinDemoEdge  bool
	WeaponNextReq bool
	WeaponPrevReq bool

	// WeaponSelectReq/HasWeaponSelectReq carry an edge-triggered direct
	// numbered weapon-key press (input_weapon1..input_weapon9 in the
	// original engine), already mapped to a slot by the platform layer.
	// It takes priority over WeaponNextReq/WeaponPrevReq cycling.
	WeaponSelectReq    WeaponSlot
	HasWeaponSelectReq bool

	ChatChar byte
}

// TurnState tracks the per-function static state the original engine kept
// in file-local statics for turn-key acceleration (spec.md §9 "per-function
// static state" becomes an explicitly owned field on the caller's context).
type TurnState struct {
	turnHeldTics int
}

const (
	turnSlowTics   = 6
	turnSpeedSlow  = 320
	turnSpeedFast  = 640
	mouseTurnScale = 8
)

// BuildTiccmd constructs the local player's ticcmd for one tic from the
// polled input source, applying acceleration, analog shaping, and the
// weapon-selection policy described in spec.md §4.C.
func BuildTiccmd(in InputSource, turn *TurnState, weapons *WeaponState) TicCmd {
	var cmd TicCmd
	cmd.Forward = int8(clampInt(int(in.ForwardMove)*int(MaxPlMove), -int(MaxPlMove), int(MaxPlMove)))
	cmd.Side = int8(clampInt(int(in.SideMove)*int(MaxPlMove), -int(MaxPlMove), int(MaxPlMove)))

	cmd.AngleTurn = buildAngleTurn(in, turn)

	if in.AttackDown {
		cmd.Buttons |= ButtonAttack
	}
	if in.UseDown {
		cmd.Buttons |= ButtonUse
	}

	if in.PauseEdge {
		cmd.Buttons |= ButtonSpecial
		cmd.Special = SpecialPause
	} else if in.SaveEdge {
		cmd.Buttons |= ButtonSpecial
		cmd.Special = SpecialSave
		cmd.SaveSlot = in.SaveSlot
	}
	if in.JoinDemoEdge {
		cmd.Buttons |= ButtonJoinDemo
	}

	if weapons != nil {
		var direct *WeaponSlot
		if in.HasWeaponSelectReq {
			direct = &in.WeaponSelectReq
		}
		if idx, ok := weapons.Resolve(in.WeaponNextReq, in.WeaponPrevReq, direct); ok {
			cmd.Buttons |= ButtonChange
			cmd.WeaponIndex = idx
		}
	}

	cmd.ChatChar = in.ChatChar

	cmd.Clamp()
	return cmd
}

// buildAngleTurn implements the two-stage key-turn acceleration (slow for
// the first turnSlowTics, fast after) plus the cubic analog curve for
// gamepad right-stick turn and linear mouse sensitivity scaling, per
// spec.md §4.C item 2.
func buildAngleTurn(in InputSource, turn *TurnState) int16 {
	var speed float64

	keyTurn := in.TurnKeyLeft != in.TurnKeyRight
	if keyTurn {
		if turn != nil {
			turn.turnHeldTics++
		}
		held := 0
		if turn != nil {
			held = turn.turnHeldTics
		}
		rate := turnSpeedSlow
		if held > turnSlowTics {
			rate = turnSpeedFast
		}
		if in.TurnKeyRight {
			speed -= float64(rate)
		} else {
			speed += float64(rate)
		}
	} else if turn != nil {
		turn.turnHeldTics = 0
	}

	// Analog stick: cubic curve gives fine control near center, full speed
	// at the edges, matching spec.md's "x*x*x cubic for center precision".
	stick := in.StickX
	speed += stick * stick * stick * turnSpeedFast

	speed += in.MouseDX * mouseTurnScale

	return int16(clampInt(int(speed), -0x7FFF, 0x7FFF))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
