package utils

// FilterSlice maps and filters in one pass.
func FilterSlice[S any, T any](in []S, fn func(S) (T, bool)) []T {
	out := make([]T, 0, len(in))
	for _, item := range in {
		if v, ok := fn(item); ok {
			out = append(out, v)
		}
	}
	return out
}

// Difference returns the distinct items of a that are absent from b, in a's order.
func Difference[T comparable](a, b []T) []T {
	drop := make(map[T]struct{}, len(b))
	for _, item := range b {
		drop[item] = struct{}{}
	}
	seen := make(map[T]struct{}, len(a))
	out := make([]T, 0)
	for _, item := range a {
		if _, ok := drop[item]; ok {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// Distinct drops duplicates and zero values, keeping first occurrences.
func Distinct[T comparable](in []T) []T {
	var zero T
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, item := range in {
		if item == zero {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
