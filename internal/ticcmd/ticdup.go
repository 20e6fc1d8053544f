package ticcmd

// Replicate fans a single built cmd out across dup consecutive tics,
// clearing chat-char and special buttons on every replica after the first
// so Save/Pause are not applied repeatedly (spec.md §4.C, §4.I). dup is
// clamped to [1, 12] per spec.md §3.
func Replicate(cmd TicCmd, dup int) []TicCmd {
	if dup < 1 {
		dup = 1
	}
	if dup > 12 {
		dup = 12
	}
	out := make([]TicCmd, dup)
	out[0] = cmd
	for i := 1; i < dup; i++ {
		replica := cmd
		replica.Squash()
		out[i] = replica
	}
	return out
}
