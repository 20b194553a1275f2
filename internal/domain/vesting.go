package domain

import "time"

// ValidateSchedule rejects release tables with decreasing release times.
// Amounts are unsigned so non-negativity holds by construction.
func ValidateSchedule(entries []ScheduleEntry) error {
	for i := 1; i < len(entries); i++ {
		if entries[i].ReleaseTime.Before(entries[i-1].ReleaseTime) {
			return ErrMalformedSchedule
		}
	}
	return nil
}

// ScheduleTotal sums a schedule's amounts with overflow checking.
func ScheduleTotal(entries []ScheduleEntry) (uint64, error) {
	var total uint64
	var err error
	for _, entry := range entries {
		total, err = AddAmount(total, entry.Amount)
		if err != nil {
			return 0, ErrMalformedSchedule
		}
	}
	return total, nil
}

// ValidateScheduleChange checks a replacement release table against the
// vesting account it will govern. The new total must still cover everything
// already released and must not promise more than was ever allocated, which
// is what has been released plus what remains in the pool.
func ValidateScheduleChange(entries []ScheduleEntry, released, poolBalance uint64) error {
	total, err := ScheduleTotal(entries)
	if err != nil {
		return err
	}
	if total < released {
		return ErrMalformedSchedule
	}
	allocated, err := AddAmount(released, poolBalance)
	if err != nil || total > allocated {
		return ErrScheduleExceedsAllocation
	}
	return nil
}

// Releasable computes how much of the schedule has vested by now and not yet
// been released. Calling twice within the same period yields zero the second
// time; after all periods elapse it yields exactly the remaining total.
func Releasable(entries []ScheduleEntry, released uint64, now time.Time) (uint64, error) {
	var due uint64
	var err error
	for _, entry := range entries {
		if entry.ReleaseTime.After(now) {
			break
		}
		due, err = AddAmount(due, entry.Amount)
		if err != nil {
			return 0, ErrMalformedSchedule
		}
	}
	if released > due {
		return 0, InvariantError{Reason: "released exceeds vested amount"}
	}
	return due - released, nil
}
