package pitoncache

// LineState is the state of one way of one set.
type LineState int

// The states that a cache line can be in. ValidPendingFill marks a way whose
// fill has been dispatched to memory but has not been acknowledged yet.
const (
	LineInvalid LineState = iota
	LineValid
	LineValidPendingFill
)

// A wayDecision is the outcome of probing one set with a tag.
type wayDecision struct {
	hit         bool
	way         int
	pendingFill bool
}

// decideWay probes the ways of a set in ascending order and reports the
// first way whose tag matches and whose state is not invalid.
func decideWay(
	states []LineState,
	tags []uint64,
	tag uint64,
) wayDecision {
	for way := 0; way < len(states); way++ {
		if states[way] == LineInvalid {
			continue
		}

		if tags[way] != tag {
			continue
		}

		return wayDecision{
			hit:         true,
			way:         way,
			pendingFill: states[way] == LineValidPendingFill,
		}
	}

	return wayDecision{}
}

// victimWay selects the way to replace. Invalid ways win in ascending order.
// Among valid ways, the highest LRU rank wins, ties broken by ascending way
// number.
func victimWay(states []LineState, ranks []int) int {
	for way := 0; way < len(states); way++ {
		if states[way] == LineInvalid {
			return way
		}
	}

	numWays := len(states)
	for rank := numWays - 1; rank >= 0; rank-- {
		for way := 0; way < numWays; way++ {
			if ranks[way] == rank {
				return way
			}
		}
	}

	return 0
}

// nextLRURanks returns the rank vector after touching a way. The touched way
// becomes rank 0. Every way that was more recent than the touched way ages
// by one.
func nextLRURanks(ranks []int, touchedWay int) []int {
	next := make([]int, len(ranks))
	touchedRank := ranks[touchedWay]

	for way := range ranks {
		switch {
		case way == touchedWay:
			next[way] = 0
		case ranks[way] < touchedRank:
			next[way] = ranks[way] + 1
		default:
			next[way] = ranks[way]
		}
	}

	return next
}
