package pitoncache

// The middleware ticks the stages in reverse pipeline order so that a
// stalled downstream stage naturally holds the upstream registers in place.
// Array writes from the previous cycle are committed first so that every
// stage reads this cycle's architectural state.
type middleware struct {
	*Comp
}

func (m *middleware) Tick() bool {
	madeProgress := false

	m.commitArrays()

	madeProgress = m.runSweep() || madeProgress
	madeProgress = m.respond() || madeProgress
	madeProgress = m.execute() || madeProgress
	madeProgress = m.decode() || madeProgress
	madeProgress = m.arbitrate() || madeProgress
	madeProgress = m.processControl() || madeProgress

	if m.busy && !m.initializing() {
		m.busy = false
	}

	return madeProgress
}

func (m *middleware) commitArrays() {
	m.states.Commit()
	m.tags.Commit()
	m.lru.Commit()
	m.data.Commit()
}

// runSweep walks one set per cycle after reset, forcing every way to
// Invalid. The busy flag holds stage 1 closed through the cycle that
// sweeps the last set, so admission resumes one cycle later.
func (m *middleware) runSweep() bool {
	if !m.initializing() {
		return false
	}

	m.states.WriteAll(m.sweepIdx, LineInvalid)
	m.sweepIdx++

	return true
}
