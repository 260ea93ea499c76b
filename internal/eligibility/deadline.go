package eligibility

// ApproachingWindow is how close a deadline must be to count as approaching.
const ApproachingWindow int64 = 24 * 3600

// IsDeadlineApproaching reports whether deadline is in the future and at most
// 24 hours away. Equivalent to 0 < (deadline-now)/3600 <= 24 in real
// arithmetic.
func IsDeadlineApproaching(deadline, now int64) bool {
	remaining := deadline - now
	return remaining > 0 && remaining <= ApproachingWindow
}

// IsDeadlinePassed reports whether deadline is strictly before now.
func IsDeadlinePassed(deadline, now int64) bool {
	return deadline < now
}

// TimeRemaining returns the seconds until deadline, never negative.
func TimeRemaining(deadline, now int64) int64 {
	return max(0, deadline-now)
}
