package sim

import (
	"log"
	"reflect"
	"sync"
)

// A SerialEngine runs events one after another on a single goroutine.
type SerialEngine struct {
	HookableBase

	timeLock sync.RWMutex
	time     VTimeInSec

	queue          EventQueue
	secondaryQueue EventQueue

	isPaused     bool
	isPausedLock sync.Mutex
	pauseLock    sync.Mutex

	singleRunLock sync.Mutex

	endHandlers []SimulationEndHandler
}

// NewSerialEngine creates a SerialEngine.
func NewSerialEngine() *SerialEngine {
	return &SerialEngine{
		queue:          NewEventQueue(),
		secondaryQueue: NewEventQueue(),
	}
}

// Schedule registers an event to happen in the future.
func (e *SerialEngine) Schedule(evt Event) {
	if evt.Time() < e.CurrentTime() {
		log.Panic("scheduling an event earlier than current time")
	}

	if evt.IsSecondary() {
		e.secondaryQueue.Push(evt)
		return
	}

	e.queue.Push(evt)
}

func (e *SerialEngine) setNow(t VTimeInSec) {
	e.timeLock.Lock()
	e.time = t
	e.timeLock.Unlock()
}

// Run triggers all the scheduled events in time order, including the events
// scheduled while running.
func (e *SerialEngine) Run() error {
	e.singleRunLock.Lock()
	defer e.singleRunLock.Unlock()

	for e.hasEvent() {
		e.pauseLock.Lock()
		e.triggerNextEvent()
		e.pauseLock.Unlock()
	}

	return nil
}

func (e *SerialEngine) hasEvent() bool {
	return e.queue.Len() > 0 || e.secondaryQueue.Len() > 0
}

func (e *SerialEngine) triggerNextEvent() {
	evt := e.popNextEvent()

	if now := e.CurrentTime(); evt.Time() < now {
		log.Panicf(
			"cannot run event in the past, evt %s @ %.10f, now %.10f",
			reflect.TypeOf(evt), evt.Time(), now,
		)
	}
	e.setNow(evt.Time())

	ctx := HookCtx{
		Domain: e,
		Pos:    HookPosBeforeEvent,
		Item:   evt,
	}
	e.InvokeHook(ctx)

	_ = evt.Handler().Handle(evt)

	ctx.Pos = HookPosAfterEvent
	e.InvokeHook(ctx)
}

// popNextEvent removes and returns the earliest pending event. Secondary
// events at the same time run after primary events.
func (e *SerialEngine) popNextEvent() Event {
	switch {
	case e.queue.Len() == 0:
		return e.secondaryQueue.Pop()
	case e.secondaryQueue.Len() == 0:
		return e.queue.Pop()
	case e.queue.Peek().Time() <= e.secondaryQueue.Peek().Time():
		return e.queue.Pop()
	default:
		return e.secondaryQueue.Pop()
	}
}

// Pause stops the engine from triggering more events until Continue.
func (e *SerialEngine) Pause() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if e.isPaused {
		return
	}

	e.pauseLock.Lock()
	e.isPaused = true
}

// Continue lets a paused engine trigger events again.
func (e *SerialEngine) Continue() {
	e.isPausedLock.Lock()
	defer e.isPausedLock.Unlock()

	if !e.isPaused {
		return
	}

	e.pauseLock.Unlock()
	e.isPaused = false
}

// CurrentTime returns the time of the event being triggered.
func (e *SerialEngine) CurrentTime() VTimeInSec {
	e.timeLock.RLock()
	t := e.time
	e.timeLock.RUnlock()

	return t
}

// RegisterSimulationEndHandler registers a handler to run when the
// simulation ends.
func (e *SerialEngine) RegisterSimulationEndHandler(
	handler SimulationEndHandler,
) {
	e.endHandlers = append(e.endHandlers, handler)
}

// Finished runs the registered SimulationEndHandlers. Call it after the
// simulation ends.
func (e *SerialEngine) Finished() {
	now := e.CurrentTime()
	for _, h := range e.endHandlers {
		h.Handle(now)
	}
}
