package internal

// StringSet is an unordered set of strings. The zero value is not usable;
// create one with NewStringSet.
type StringSet struct {
	m map[string]struct{}
}

func NewStringSet(items ...string) *StringSet {
	s := &StringSet{
		m: make(map[string]struct{}, len(items)),
	}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

func (s *StringSet) Add(item string) {
	s.m[item] = struct{}{}
}

// AddIfAbsent adds item and reports whether it was not already present.
func (s *StringSet) AddIfAbsent(item string) bool {
	if s.Contains(item) {
		return false
	}
	s.Add(item)
	return true
}

func (s *StringSet) Remove(item string) {
	delete(s.m, item)
}

func (s *StringSet) Contains(item string) bool {
	_, exists := s.m[item]
	return exists
}

func (s *StringSet) Len() int {
	return len(s.m)
}

func (s *StringSet) Elements() []string {
	elements := make([]string, 0, len(s.m))
	for item := range s.m {
		elements = append(elements, item)
	}
	return elements
}
