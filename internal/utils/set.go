// Package utils holds small generic helpers shared by the engine packages.
package utils

// Set implements a set of elements of any comparable type.
type Set[T comparable] map[T]struct{}

// MakeSet returns an empty Set of the given type. The optional parameter is
// the initial capacity reserved for it.
func MakeSet[T comparable](size ...int) Set[T] {
	if len(size) > 0 {
		return make(Set[T], size[0])
	}
	return make(Set[T])
}

// SetWith returns a Set initialized with the given elements.
func SetWith[T comparable](elements ...T) Set[T] {
	s := make(Set[T], len(elements))
	s.Insert(elements...)
	return s
}

// Has returns whether the set contains the given element.
func (s Set[T]) Has(element T) bool {
	_, found := s[element]
	return found
}

// Insert adds the given elements to the set.
func (s Set[T]) Insert(elements ...T) {
	for _, element := range elements {
		s[element] = struct{}{}
	}
}
