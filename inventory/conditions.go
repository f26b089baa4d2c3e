package inventory

// ConditionCounts partitions a title's total copies into healthy, damaged
// and lost stock. After NormalizeConditions the three counts always sum
// exactly to the total they were normalized against.
type ConditionCounts struct {
	Healthy int
	Damaged int
	Lost    int
}

// Sum returns healthy + damaged + lost.
func (c ConditionCounts) Sum() int {
	return c.Healthy + c.Damaged + c.Lost
}

// NormalizeConditions reconciles optional condition counts against a total.
//
// The clamping order is a deliberate tie-break: damaged is clamped first,
// then lost against what damaged left over, then healthy against the rest.
// Whatever remains after clamping is absorbed by healthy, so healthy stock
// is always the buffer that makes the sum invariant hold exactly - never
// damaged or lost. A nil count means "unspecified"; unspecified healthy
// defaults to everything damaged and lost did not claim.
func NormalizeConditions(total int, healthy, damaged, lost *int) ConditionCounts {
	if total < 0 {
		total = 0
	}

	counts := ConditionCounts{
		Damaged: clamp(valueOrZero(damaged), 0, total),
	}
	counts.Lost = clamp(valueOrZero(lost), 0, total-counts.Damaged)

	unclaimed := total - counts.Damaged - counts.Lost
	if healthy == nil {
		counts.Healthy = unclaimed
	} else {
		counts.Healthy = clamp(*healthy, 0, unclaimed)
	}

	// The remainder is >= 0 by construction of the clamps above.
	counts.Healthy += total - counts.Sum()

	return counts
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}

	return *v
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}

	if v > high {
		return high
	}

	return v
}
