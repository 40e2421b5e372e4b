package collect

// Set is an insertion-ordered set of macro names.
type Set struct {
	names []string
	index map[string]struct{}
}

func NewSet() *Set {
	return &Set{index: make(map[string]struct{})}
}

// Add inserts name unless present and reports whether it was new.
func (s *Set) Add(name string) bool {
	if _, ok := s.index[name]; ok {
		return false
	}
	s.index[name] = struct{}{}
	s.names = append(s.names, name)
	return true
}

func (s *Set) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[name]
	return ok
}

// Names returns the names in first-encounter order. The slice is a copy.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}
