package utils

func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// Filter returns the elements of slice for which keep is true, in order.
func Filter[T any](slice []T, keep func(T) bool) []T {
	out := make([]T, 0, len(slice))
	for _, v := range slice {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
