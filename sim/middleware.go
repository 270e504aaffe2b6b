package sim

// A Middleware implements one aspect of a component's per-cycle behavior.
type Middleware interface {
	// Tick updates the state for one cycle and reports whether any
	// progress was made.
	Tick() bool
}

// MiddlewareHolder maintains an ordered list of middleware and ticks them
// all on every cycle.
type MiddlewareHolder struct {
	middlewares []Middleware
}

// AddMiddleware appends a middleware to the holder.
func (h *MiddlewareHolder) AddMiddleware(m Middleware) {
	h.middlewares = append(h.middlewares, m)
}

// Middlewares returns the list of middleware.
func (h *MiddlewareHolder) Middlewares() []Middleware {
	return h.middlewares
}

// Tick runs one cycle of every middleware. It returns true if any of them
// made progress.
func (h *MiddlewareHolder) Tick() bool {
	progress := false

	for _, m := range h.middlewares {
		if m.Tick() {
			progress = true
		}
	}

	return progress
}
