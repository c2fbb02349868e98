package schedule

// HasConflict reports whether candidate overlaps any booking in existing,
// skipping the sessions named by exclude and cancelled PT sessions.
// existing is expected to be pre-filtered to a single room or trainer.
func HasConflict(existing []Booking, candidate Interval, exclude Exclusion) bool {
	for _, b := range existing {
		if exclude.excludes(b) {
			continue
		}
		if b.Kind == BookingPT && b.Status == PTStatusCancelled {
			continue
		}
		if b.Interval().Overlaps(candidate) {
			return true
		}
	}
	return false
}

// IsWithinAvailability reports whether some window fully contains candidate.
// No windows means never available.
func IsWithinAvailability(windows []AvailabilityWindow, candidate Interval) bool {
	for _, w := range windows {
		if w.Interval().Contains(candidate) {
			return true
		}
	}
	return false
}

// overlapsAnyWindow reports whether candidate overlaps an existing window.
func overlapsAnyWindow(windows []AvailabilityWindow, candidate Interval) bool {
	for _, w := range windows {
		if w.Interval().Overlaps(candidate) {
			return true
		}
	}
	return false
}
