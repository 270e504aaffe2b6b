package pitoncache

// The four storage arrays are each single read-port, single write-port
// memories. A write issued in one cycle lands in a pending slot and is
// committed at the next tick boundary. Reads check the pending slot first so
// that a read of the set being written returns the new value, not the stale
// storage content.

type stateWrite struct {
	set   int
	way   int // -1 writes every way of the set
	value LineState
}

type stateArray struct {
	storage [][]LineState
	pending *stateWrite
}

func newStateArray(numSets, numWays int) *stateArray {
	a := &stateArray{
		storage: make([][]LineState, numSets),
	}
	for i := range a.storage {
		a.storage[i] = make([]LineState, numWays)
	}

	return a
}

func (a *stateArray) Read(set int) []LineState {
	line := make([]LineState, len(a.storage[set]))
	copy(line, a.storage[set])

	if a.pending != nil && a.pending.set == set {
		if a.pending.way < 0 {
			for way := range line {
				line[way] = a.pending.value
			}
		} else {
			line[a.pending.way] = a.pending.value
		}
	}

	return line
}

func (a *stateArray) Write(set, way int, value LineState) {
	if a.pending != nil {
		panic("state array write port already used this cycle")
	}

	a.pending = &stateWrite{set: set, way: way, value: value}
}

func (a *stateArray) WriteAll(set int, value LineState) {
	a.Write(set, -1, value)
}

func (a *stateArray) Commit() {
	if a.pending == nil {
		return
	}

	line := a.storage[a.pending.set]
	if a.pending.way < 0 {
		for way := range line {
			line[way] = a.pending.value
		}
	} else {
		line[a.pending.way] = a.pending.value
	}

	a.pending = nil
}

type tagWrite struct {
	set   int
	way   int
	value uint64
}

type tagArray struct {
	storage [][]uint64
	pending *tagWrite
}

func newTagArray(numSets, numWays int) *tagArray {
	a := &tagArray{
		storage: make([][]uint64, numSets),
	}
	for i := range a.storage {
		a.storage[i] = make([]uint64, numWays)
	}

	return a
}

func (a *tagArray) Read(set int) []uint64 {
	line := make([]uint64, len(a.storage[set]))
	copy(line, a.storage[set])

	if a.pending != nil && a.pending.set == set {
		line[a.pending.way] = a.pending.value
	}

	return line
}

func (a *tagArray) Write(set, way int, value uint64) {
	if a.pending != nil {
		panic("tag array write port already used this cycle")
	}

	a.pending = &tagWrite{set: set, way: way, value: value}
}

func (a *tagArray) Commit() {
	if a.pending == nil {
		return
	}

	a.storage[a.pending.set][a.pending.way] = a.pending.value
	a.pending = nil
}

// The LRU array stores one rank vector per set and is written a whole line
// at a time, as a rank update touches multiple ways at once.
type lruWrite struct {
	set   int
	ranks []int
}

type lruArray struct {
	storage [][]int
	pending *lruWrite
}

func newLRUArray(numSets, numWays int) *lruArray {
	a := &lruArray{
		storage: make([][]int, numSets),
	}
	for i := range a.storage {
		ranks := make([]int, numWays)
		for way := range ranks {
			ranks[way] = way
		}
		a.storage[i] = ranks
	}

	return a
}

func (a *lruArray) Read(set int) []int {
	if a.pending != nil && a.pending.set == set {
		line := make([]int, len(a.pending.ranks))
		copy(line, a.pending.ranks)
		return line
	}

	line := make([]int, len(a.storage[set]))
	copy(line, a.storage[set])

	return line
}

func (a *lruArray) Write(set int, ranks []int) {
	if a.pending != nil {
		panic("LRU array write port already used this cycle")
	}

	a.pending = &lruWrite{set: set, ranks: ranks}
}

func (a *lruArray) Commit() {
	if a.pending == nil {
		return
	}

	copy(a.storage[a.pending.set], a.pending.ranks)
	a.pending = nil
}

type dataWrite struct {
	set  int
	way  int
	data []byte
	mask []bool // nil overwrites the whole line
}

type dataArray struct {
	lineSize int
	storage  [][][]byte
	pending  *dataWrite
}

func newDataArray(numSets, numWays, lineSize int) *dataArray {
	a := &dataArray{
		lineSize: lineSize,
		storage:  make([][][]byte, numSets),
	}
	for i := range a.storage {
		a.storage[i] = make([][]byte, numWays)
		for j := range a.storage[i] {
			a.storage[i][j] = make([]byte, lineSize)
		}
	}

	return a
}

func (a *dataArray) Read(set, way int) []byte {
	line := make([]byte, a.lineSize)
	copy(line, a.storage[set][way])

	if a.pending != nil && a.pending.set == set && a.pending.way == way {
		applyMaskedWrite(line, a.pending.data, a.pending.mask)
	}

	return line
}

// Write updates a line. A nil mask overwrites the whole line. With a mask,
// only the bytes whose mask bit is set are written.
func (a *dataArray) Write(set, way int, data []byte, mask []bool) {
	if a.pending != nil {
		panic("data array write port already used this cycle")
	}

	a.pending = &dataWrite{set: set, way: way, data: data, mask: mask}
}

func (a *dataArray) Commit() {
	if a.pending == nil {
		return
	}

	applyMaskedWrite(
		a.storage[a.pending.set][a.pending.way],
		a.pending.data,
		a.pending.mask,
	)
	a.pending = nil
}

func applyMaskedWrite(line, data []byte, mask []bool) {
	if mask == nil {
		copy(line, data)
		return
	}

	for i := range data {
		if mask[i] {
			line[i] = data[i]
		}
	}
}
