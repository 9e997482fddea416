package engine

import "slices"

// UndoHistory is a LIFO log of move records. Records are stored by value
// and never modified once pushed.
type UndoHistory struct {
	records []MoveRecord
}

// NewUndoHistory creates an empty history
func NewUndoHistory() *UndoHistory {
	return &UndoHistory{records: []MoveRecord{}}
}

// Push appends a record
func (h *UndoHistory) Push(record MoveRecord) {
	record.PriorStackOrder = slices.Clone(record.PriorStackOrder)
	h.records = append(h.records, record)
}

// Pop removes and returns the most recent record
func (h *UndoHistory) Pop() (MoveRecord, bool) {
	if len(h.records) == 0 {
		return MoveRecord{}, false
	}
	last := h.records[len(h.records)-1]
	h.records = h.records[:len(h.records)-1]
	return last, true
}

// Peek returns the most recent record without removing it
func (h *UndoHistory) Peek() (MoveRecord, bool) {
	if len(h.records) == 0 {
		return MoveRecord{}, false
	}
	last := h.records[len(h.records)-1]
	last.PriorStackOrder = slices.Clone(last.PriorStackOrder)
	return last, true
}

// HasUndo reports whether there is anything to undo
func (h *UndoHistory) HasUndo() bool {
	return len(h.records) > 0
}

// Len returns the number of records
func (h *UndoHistory) Len() int {
	return len(h.records)
}

// Clear drops every record
func (h *UndoHistory) Clear() {
	h.records = []MoveRecord{}
}

// Records returns a copy of the log, oldest first
func (h *UndoHistory) Records() []MoveRecord {
	result := make([]MoveRecord, len(h.records))
	for i, r := range h.records {
		r.PriorStackOrder = slices.Clone(r.PriorStackOrder)
		result[i] = r
	}
	return result
}
