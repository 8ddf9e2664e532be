package entropy

// Failing is a source whose every draw fails.
type Failing struct {
	Err error // nil means ErrExhausted
}

// Intn always returns an error.
func (f Failing) Intn(int) (int, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	return 0, ErrExhausted
}

// Scripted replays a fixed list of values, each reduced modulo n, then
// fails once the list runs out.
type Scripted struct {
	Values []int
	next   int
}

// Intn returns the next scripted value modulo n.
func (s *Scripted) Intn(n int) (int, error) {
	if n <= 0 {
		return 0, ErrInvalidBound
	}
	if s.next >= len(s.Values) {
		return 0, ErrExhausted
	}
	v := s.Values[s.next] % n
	s.next++
	if v < 0 {
		v += n
	}
	return v, nil
}
