package model

// Timeline is the ordered list of states a game went through, with a cursor
// for undo and redo.
type Timeline struct {
	States []*GameState `json:"states"`
	Cursor int          `json:"cursor"`
}

func NewTimeline(initial *GameState) *Timeline {
	return &Timeline{States: []*GameState{initial.Clone()}}
}

// Current returns a copy of the state under the cursor.
func (t *Timeline) Current() (*GameState, bool) {
	if t.Cursor < 0 || t.Cursor >= len(t.States) {
		return nil, false
	}
	return t.States[t.Cursor].Clone(), true
}

// Push records state after the cursor, discarding any redo states.
func (t *Timeline) Push(state *GameState) {
	if len(t.States) > 0 {
		t.States = t.States[:t.Cursor+1]
	}
	t.States = append(t.States, state.Clone())
	t.Cursor = len(t.States) - 1
}

func (t *Timeline) Previous() (*GameState, bool) {
	if t.Cursor <= 0 || t.Cursor >= len(t.States) {
		return nil, false
	}
	t.Cursor--
	return t.States[t.Cursor].Clone(), true
}

func (t *Timeline) Next() (*GameState, bool) {
	if t.Cursor >= len(t.States)-1 {
		return nil, false
	}
	t.Cursor++
	return t.States[t.Cursor].Clone(), true
}

func (t *Timeline) Len() int { return len(t.States) }
