package runtime

import (
	"errors"
	"fmt"
)

// ErrCallDepth is returned when pushing a frame would exceed the configured
// maximum call depth.
var ErrCallDepth = errors.New("maximum call depth exceeded")

// Scope maps identifiers to variables, remembering declaration order.
type Scope struct {
	order []string
	vars  map[string]Variable
}

func NewScope() *Scope {
	return &Scope{vars: make(map[string]Variable)}
}

// Declare adds v, replacing any variable of the same name.
func (s *Scope) Declare(v Variable) {
	if old, ok := s.vars[v.Name()]; ok {
		release(old)
	} else {
		s.order = append(s.order, v.Name())
	}
	s.vars[v.Name()] = v
}

func (s *Scope) Lookup(name string) (Variable, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// Remove deletes name from the scope, releasing any object it held.
func (s *Scope) Remove(name string) bool {
	v, ok := s.vars[name]
	if !ok {
		return false
	}
	release(v)
	delete(s.vars, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Names lists the declared identifiers in declaration order.
func (s *Scope) Names() []string { return append([]string(nil), s.order...) }

func (s *Scope) Len() int { return len(s.vars) }

// Release drops every object held by the scope's variables, in declaration
// order.
func (s *Scope) Release() {
	for _, name := range s.order {
		release(s.vars[name])
	}
}

func release(v Variable) {
	if ov, ok := v.(*ObjectVar); ok {
		ov.Release()
	}
}

// Frame is the activation record of one procedure call: a stack of scopes.
type Frame struct {
	Procedure string
	scopes    []*Scope
}

// NewFrame returns a frame with one open scope.
func NewFrame(procedure string) *Frame {
	return &Frame{Procedure: procedure, scopes: []*Scope{NewScope()}}
}

func (f *Frame) PushScope() { f.scopes = append(f.scopes, NewScope()) }

// PopScope closes and releases the innermost scope.
func (f *Frame) PopScope() {
	if len(f.scopes) == 0 {
		return
	}
	top := f.scopes[len(f.scopes)-1]
	f.scopes = f.scopes[:len(f.scopes)-1]
	top.Release()
}

// Top returns the innermost scope, or nil.
func (f *Frame) Top() *Scope {
	if len(f.scopes) == 0 {
		return nil
	}
	return f.scopes[len(f.scopes)-1]
}

// Lookup resolves name innermost scope first.
func (f *Frame) Lookup(name string) (Variable, bool) {
	for i := len(f.scopes) - 1; i >= 0; i-- {
		if v, ok := f.scopes[i].Lookup(name); ok {
			return v, true
		}
	}
	return nil, false
}

// Release closes every remaining scope, innermost first.
func (f *Frame) Release() {
	for len(f.scopes) > 0 {
		f.PopScope()
	}
}

// CallStack owns global memory and the frames of active calls. Declarations
// go to global memory until StopGlobalAllocation is called.
type CallStack struct {
	global      *Scope
	frames      []*Frame
	allocGlobal bool
	maxDepth    int
	tracker     *Tracker
}

// NewCallStack returns a stack holding only global memory. maxDepth <= 0
// means unlimited.
func NewCallStack(tracker *Tracker, maxDepth int) *CallStack {
	return &CallStack{global: NewScope(), allocGlobal: true, maxDepth: maxDepth, tracker: tracker}
}

func (cs *CallStack) Tracker() *Tracker { return cs.tracker }

func (cs *CallStack) Global() *Scope { return cs.global }

// Depth is the number of active frames.
func (cs *CallStack) Depth() int { return len(cs.frames) }

// Current returns the innermost frame, or nil.
func (cs *CallStack) Current() *Frame {
	if len(cs.frames) == 0 {
		return nil
	}
	return cs.frames[len(cs.frames)-1]
}

// Frames returns the active frames, outermost first.
func (cs *CallStack) Frames() []*Frame { return cs.frames }

func (cs *CallStack) PushFrame(f *Frame) error {
	if cs.maxDepth > 0 && len(cs.frames) >= cs.maxDepth {
		return fmt.Errorf("calling %s at depth %d: %w", f.Procedure, len(cs.frames)+1, ErrCallDepth)
	}
	cs.frames = append(cs.frames, f)
	return nil
}

// PopFrame removes the innermost frame and releases its memory.
func (cs *CallStack) PopFrame() {
	f := cs.Current()
	if f == nil {
		return
	}
	cs.frames = cs.frames[:len(cs.frames)-1]
	f.Release()
}

func (cs *CallStack) PushScope() {
	if f := cs.Current(); f != nil {
		f.PushScope()
	}
}

func (cs *CallStack) PopScope() {
	if f := cs.Current(); f != nil {
		f.PopScope()
	}
}

// StopGlobalAllocation sends later declarations to the current frame.
func (cs *CallStack) StopGlobalAllocation() { cs.allocGlobal = false }

// Allocate declares v in global memory or the current frame's top scope.
func (cs *CallStack) Allocate(v Variable) {
	if cs.allocGlobal || cs.Current() == nil {
		cs.global.Declare(v)
		return
	}
	cs.Current().Top().Declare(v)
}

// Lookup resolves name in the current frame, then global memory.
func (cs *CallStack) Lookup(name string) (Variable, bool) {
	if f := cs.Current(); f != nil {
		if v, ok := f.Lookup(name); ok {
			return v, true
		}
	}
	return cs.global.Lookup(name)
}

// RemoveLocal deletes name from the current frame's top scope.
func (cs *CallStack) RemoveLocal(name string) bool {
	f := cs.Current()
	if f == nil || f.Top() == nil {
		return false
	}
	return f.Top().Remove(name)
}

// ReleaseGlobals releases every object held in global memory.
func (cs *CallStack) ReleaseGlobals() { cs.global.Release() }
