package pitoncache

// decode is stage 2. It splits the address of a client operation into set,
// tag, and offset. Invalidations resolve their target set here as well.
// Hazards against in-flight fills are detected downstream at the execute
// stage, so the decode stage never blocks the acknowledgment flow.
func (m *middleware) decode() bool {
	if m.paused {
		return false
	}

	item := m.decodeReg.Peek()
	if item == nil {
		return false
	}

	if !m.executeReg.CanPush() {
		return false
	}

	op := item.(*stageOp)

	switch op.kind {
	case opNewRequest, opReplay:
		trans := op.trans
		trans.set, trans.tag, trans.offset = m.geometry(trans.address)
		op.set = trans.set
		op.tag = trans.tag
	case opInvalidateWay:
		set, tag, _ := m.geometry(op.inv.Address)
		op.set = set
		op.tag = tag
	case opInvalidateAll:
		// op.set serves as the sweep cursor at the execute stage.
		op.set = 0
	}

	m.executeReg.Push(op)
	m.decodeReg.Pop()

	return true
}
