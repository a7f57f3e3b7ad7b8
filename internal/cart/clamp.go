package cart

// Clamp bounds a requested quantity against per-size stock. With no size
// selected the result is max(1, desired) with no upper bound. With a size
// selected the result is clamped into [1, stockBySize[size]], where a missing
// size counts as zero stock, so a sold-out size legally yields quantity 0.
func Clamp(stockBySize map[string]int, size string, desired int) int {
	if size == "" {
		return max(1, desired)
	}
	return min(max(1, desired), stockBySize[size])
}
