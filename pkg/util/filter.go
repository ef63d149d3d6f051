package util

func InPlaceFilter[T any](s *[]T, p func(T) bool) {
	i := 0
	for _, e := range *s {
		if p(e) {
			(*s)[i] = e
			i++
		}
	}
	*s = (*s)[:i]
}

// UniqueBy keeps the first element for each key, preserving order
func UniqueBy[T any, K comparable](s []T, key func(T) K) []T {
	seen := map[K]bool{}
	list := make([]T, 0, len(s))

	for _, item := range s {
		k := key(item)
		if !seen[k] {
			seen[k] = true
			list = append(list, item)
		}
	}

	return list
}
