package core

// StateFrame holds the local state scoped to a single active routine
// invocation. A frame is pushed when the routine is called and popped when it
// returns or fails; the frame handle passed to a routine body is valid only
// for the duration of that invocation.
//
// Frames are owned exclusively by the per-run stack manager and are never
// shared across runs, so no internal locking is required.
type StateFrame struct {
	// Designation is the `skill.routine` string this frame was pushed for.
	Designation string

	local map[string]any
}

// NewStateFrame creates a frame for the given designation with empty local state.
func NewStateFrame(designation string) *StateFrame {
	return &StateFrame{Designation: designation, local: map[string]any{}}
}

// Get returns the local state value for key and whether it was present.
func (f *StateFrame) Get(key string) (any, bool) {
	v, ok := f.local[key]
	return v, ok
}

// Set stores a local state value under key.
func (f *StateFrame) Set(key string, value any) { f.local[key] = value }

// Delete removes key from local state. Deleting an absent key is a no-op.
func (f *StateFrame) Delete(key string) { delete(f.local, key) }

// Len reports the number of local state entries.
func (f *StateFrame) Len() int { return len(f.local) }

// RoutineStack is the ordered sequence of StateFrames for one run, last-in
// representing the innermost active call. It is non-empty exactly while the
// run is in progress: a push happens synchronously before each routine body
// begins executing and the matching pop happens synchronously after it
// returns or fails.
//
// A stack belongs to exactly one run. Execution within a run is strictly
// nested on a single logical thread, so the stack is deliberately
// unsynchronized.
type RoutineStack struct {
	frames []*StateFrame
}

// NewRoutineStack returns an empty stack.
func NewRoutineStack() *RoutineStack { return &RoutineStack{} }

// Push appends a frame for a newly entered invocation.
func (s *RoutineStack) Push(f *StateFrame) { s.frames = append(s.frames, f) }

// Pop removes and returns the innermost frame, or nil when the stack is empty.
func (s *RoutineStack) Pop() *StateFrame {
	if len(s.frames) == 0 {
		return nil
	}
	f := s.frames[len(s.frames)-1]
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	return f
}

// Peek returns the innermost frame without removing it, or nil when empty.
func (s *RoutineStack) Peek() *StateFrame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// Depth reports the number of active frames.
func (s *RoutineStack) Depth() int { return len(s.frames) }

// Designations returns the designations of all active frames, outermost first.
// The slice is a snapshot and safe for caller mutation.
func (s *RoutineStack) Designations() []string {
	out := make([]string, len(s.frames))
	for i, f := range s.frames {
		out[i] = f.Designation
	}
	return out
}
