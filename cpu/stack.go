package cpu

const (
	STACK_LIMIT = 16 // Maximum call depth
)

// Stack of subroutine return addresses.
type Stack struct {
	Data [STACK_LIMIT]uint16
	Sp   int // Number of entries in use.
}

func (s *Stack) Push(value uint16) (err error) {
	if s.Full() {
		err = ErrStackOverflow
		return
	}

	s.Data[s.Sp] = value
	s.Sp++
	return
}

func (s *Stack) Pop() (value uint16, err error) {
	value, ok := s.Peek()
	if !ok {
		err = ErrStackUnderflow
		return
	}

	s.Sp--
	s.Data[s.Sp] = 0
	return
}

func (s *Stack) Empty() bool {
	return s.Sp == 0
}

func (s *Stack) Full() bool {
	return s.Sp == STACK_LIMIT
}

func (s *Stack) Peek() (value uint16, ok bool) {
	if s.Empty() {
		return
	}

	return s.Data[s.Sp-1], true
}

func (s *Stack) Reset() {
	clear(s.Data[:])
	s.Sp = 0
}
