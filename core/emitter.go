package core

import (
	"github.com/chartwerk/line-chart/internal/contract"
	"github.com/chartwerk/line-chart/schema"
)

// Callbacks are the host notifications. Every field is optional.
type Callbacks struct {
	MouseMove           func(schema.MouseMovePayload)
	MouseOut            func()
	ZoomIn              func(schema.Range)
	ZoomOut             func(schema.ZoomOutPayload)
	SharedCrosshairMove func(schema.SharedCrosshairPayload)
}

// maxDiagnostics caps the retained diagnostics; older entries are dropped first.
const maxDiagnostics = 256

// Diagnostic is one dropped emission.
type Diagnostic struct {
	Kind schema.EventKind
	Err  error
}

// Emitter dispatches payload copies to the host callbacks. A missing callback
// drops the emission, logs a warning and records a Diagnostic.
type Emitter struct {
	callbacks   Callbacks
	recorder    contract.EmissionRecorder
	diagnostics []Diagnostic
	dispatching bool
	quiet       bool
}

var _ contract.EventSink = &Emitter{} // Compile-time check

// NewEmitter creates an emitter. recorder may be nil.
func NewEmitter(callbacks Callbacks, recorder contract.EmissionRecorder) *Emitter {
	return &Emitter{callbacks: callbacks, recorder: recorder}
}

// SetQuiet stops missing-callback warnings from being logged. Diagnostics are still recorded.
func (e *Emitter) SetQuiet(quiet bool) { e.quiet = quiet }

// Dispatching reports whether a host callback is currently running.
func (e *Emitter) Dispatching() bool { return e.dispatching }

// Diagnostics returns the dropped emissions so far.
func (e *Emitter) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), e.diagnostics...)
}

// MouseMove implements contract.EventSink.
func (e *Emitter) MouseMove(payload schema.MouseMovePayload) {
	if !e.check(schema.MouseMoveEvent, e.callbacks.MouseMove != nil) {
		return
	}
	e.dispatch(func() { e.callbacks.MouseMove(payload.Clone()) })
}

// MouseOut implements contract.EventSink.
func (e *Emitter) MouseOut() {
	if !e.check(schema.MouseOutEvent, e.callbacks.MouseOut != nil) {
		return
	}
	e.dispatch(e.callbacks.MouseOut)
}

// ZoomIn implements contract.EventSink.
func (e *Emitter) ZoomIn(r schema.Range) {
	if !e.check(schema.ZoomInEvent, e.callbacks.ZoomIn != nil) {
		return
	}
	e.dispatch(func() { e.callbacks.ZoomIn(r) })
}

// ZoomOut implements contract.EventSink.
func (e *Emitter) ZoomOut(payload schema.ZoomOutPayload) {
	if !e.check(schema.ZoomOutEvent, e.callbacks.ZoomOut != nil) {
		return
	}
	e.dispatch(func() { e.callbacks.ZoomOut(payload.Clone()) })
}

// SharedCrosshairMove implements contract.EventSink.
func (e *Emitter) SharedCrosshairMove(payload schema.SharedCrosshairPayload) {
	if !e.check(schema.SharedCrosshairMoveEvent, e.callbacks.SharedCrosshairMove != nil) {
		return
	}
	e.dispatch(func() { e.callbacks.SharedCrosshairMove(payload.Clone()) })
}

func (e *Emitter) check(kind schema.EventKind, registered bool) bool {
	if e.recorder != nil {
		e.recorder.RecordEmission(kind, registered)
	}
	if registered {
		return true
	}
	if len(e.diagnostics) == maxDiagnostics {
		e.diagnostics = append(e.diagnostics[:0], e.diagnostics[1:]...)
	}
	e.diagnostics = append(e.diagnostics, Diagnostic{Kind: kind, Err: contract.ErrMissingCallback})
	if !e.quiet {
		contract.LogWarn(string(kind), contract.ErrMissingCallback)
	}
	return false
}

func (e *Emitter) dispatch(fn func()) {
	e.dispatching = true
	defer func() { e.dispatching = false }()
	fn()
}
