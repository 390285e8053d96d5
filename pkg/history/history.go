// Package history records component moves as an undo/redo log.
//
// Only repositions are tracked. Layout runs produce positions, not
// history entries; the log exists for the interactive edits a user makes
// on top of the computed layout.
package history

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one committed component move. From is nil when the component
// had no position before the move.
type Entry struct {
	ID          uuid.UUID `json:"id"`
	ComponentID string    `json:"component_id"`
	FromX       *float64  `json:"from_x,omitempty"`
	FromY       *float64  `json:"from_y,omitempty"`
	ToX         float64   `json:"to_x"`
	ToY         float64   `json:"to_y"`
	At          time.Time `json:"at"`
}

// Log is a linear undo/redo stack of moves. The zero value is an empty,
// usable log. Log is not safe for concurrent use.
type Log struct {
	past   []Entry
	future []Entry
}

// Record appends a move and clears the redo stack.
func (l *Log) Record(componentID string, fromX, fromY *float64, toX, toY float64) Entry {
	e := Entry{
		ID:          uuid.New(),
		ComponentID: componentID,
		FromX:       fromX,
		FromY:       fromY,
		ToX:         toX,
		ToY:         toY,
		At:          time.Now().UTC(),
	}
	l.past = append(l.past, e)
	l.future = nil
	return e
}

// Undo pops the most recent move, making it redoable. The second return
// is false when there is nothing to undo.
func (l *Log) Undo() (Entry, bool) {
	if len(l.past) == 0 {
		return Entry{}, false
	}
	e := l.past[len(l.past)-1]
	l.past = l.past[:len(l.past)-1]
	l.future = append(l.future, e)
	return e, true
}

// Redo replays the most recently undone move. The second return is false
// when there is nothing to redo.
func (l *Log) Redo() (Entry, bool) {
	if len(l.future) == 0 {
		return Entry{}, false
	}
	e := l.future[len(l.future)-1]
	l.future = l.future[:len(l.future)-1]
	l.past = append(l.past, e)
	return e, true
}

// Len returns the number of undoable moves.
func (l *Log) Len() int { return len(l.past) }

// CanRedo reports whether a redo is available.
func (l *Log) CanRedo() bool { return len(l.future) > 0 }
