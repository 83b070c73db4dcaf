package availability

import "context"

// SlotSource reports whether a live appointment already occupies a slot.
// Implemented by the appointments repository.
type SlotSource interface {
	SlotTaken(ctx context.Context, doctorID, date, timeOfDay string) (bool, error)
}

// Index answers the two questions booking validation asks: is the date
// blacked out, and is the slot already occupied. Read-only; every call goes
// straight to the underlying stores.
type Index struct {
	blackouts Repository
	slots     SlotSource
}

// NewIndex builds an availability index over the given stores.
func NewIndex(blackouts Repository, slots SlotSource) *Index {
	return &Index{blackouts: blackouts, slots: slots}
}

// IsDateBlocked reports whether the doctor declared the date unavailable.
func (i *Index) IsDateBlocked(ctx context.Context, doctorID, date string) (bool, error) {
	return i.blackouts.Exists(ctx, doctorID, date)
}

// IsSlotTaken reports whether a pending or accepted appointment already holds
// the (doctor, date, time) triple. An appointment in reschedule_requested
// status does not occupy its original slot.
func (i *Index) IsSlotTaken(ctx context.Context, doctorID, date, timeOfDay string) (bool, error) {
	return i.slots.SlotTaken(ctx, doctorID, date, timeOfDay)
}
