package txbuilder

// MaxFitting returns the largest k in [1, n-1] whose encoding sizeOf(k) is
// within limit, or 0 when even one item does not fit. It assumes size grows
// with k.
func MaxFitting(n, limit int, sizeOf func(k int) (int, error)) (int, error) {
	lo, hi := 1, n-1
	best := 0
	for lo <= hi {
		mid := lo + (hi-lo)/2
		size, err := sizeOf(mid)
		if err != nil {
			return 0, err
		}
		if size <= limit {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best, nil
}
