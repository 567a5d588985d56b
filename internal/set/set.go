// Package set has a minimal hash set. The zero value is an empty set ready to use.
package set

type Set[T comparable] struct {
	values map[T]struct{}
}

// Insert adds value and reports whether it was not yet part of the set.
func (s *Set[T]) Insert(value T) bool {
	if s.Has(value) {
		return false
	}

	if s.values == nil {
		s.values = map[T]struct{}{}
	}

	s.values[value] = struct{}{}
	return true
}

func (s *Set[T]) Has(value T) bool {
	_, ok := s.values[value]
	return ok
}

func (s *Set[T]) Len() int {
	return len(s.values)
}
