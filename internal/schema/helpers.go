package schema

// mapSlice converts every element and never returns nil.
func mapSlice[S, T any](in []S, fn func(S) T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}

	return out
}

// setIf records column = *v when v was supplied.
func setIf[V any](changes map[string]any, column string, v *V) {
	if v != nil {
		changes[column] = *v
	}
}
