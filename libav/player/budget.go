package player

// FrameBudget caps how many frames one playback pass dispatches. A negative
// budget never stops; a zero budget stops right after the first dispatched
// frame.
type FrameBudget int64

const FrameBudgetUnlimited FrameBudget = -1

func NewFrameBudget(frameCount int64) *FrameBudget {
	b := FrameBudget(frameCount)
	return &b
}

// ConsumeOne accounts for one dispatched frame and reports whether the pass
// should stop. The zero-check happens before the decrement, so a budget that
// started at zero stops immediately while a negative one keeps counting down
// without ever reaching zero.
func (b *FrameBudget) ConsumeOne() (stop bool) {
	if *b == 0 {
		return true
	}
	*b--
	return *b == 0
}
