package engine

// =============================================================================
// UPDATE CURSOR - Effectively-once consumption of the event stream
// =============================================================================

// UpdateCursor tracks the highest platform sequence number consumed so
// far. The platform delivers at-least-once; the cursor converts that into
// effectively-once processing: the next fetch asks for events strictly
// after the stored value, so an acknowledged event is never redelivered
// once a save succeeds. If a fetch fails the cursor is simply left where
// it was and the next run reattempts.
type UpdateCursor struct {
	value SequenceNum
}

// NewUpdateCursor starts the cursor at the given (persisted) value.
func NewUpdateCursor(value SequenceNum) *UpdateCursor {
	return &UpdateCursor{value: value}
}

// Advance moves the cursor to max(current, candidate) and returns the new
// value. The cursor never decreases.
func (c *UpdateCursor) Advance(candidate SequenceNum) SequenceNum {
	if candidate > c.value {
		c.value = candidate
	}
	return c.value
}

// Value returns the current cursor position: the exclusive lower bound
// for the next fetch. The gateway owns the wire mapping of "strictly
// after this value".
func (c *UpdateCursor) Value() SequenceNum { return c.value }
