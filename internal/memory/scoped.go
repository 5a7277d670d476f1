package memory

// Releaser is anything with an explicit teardown.
type Releaser interface {
	Release()
}

// Scoped owns a Releaser and releases it exactly once on Close. Ownership
// moves with Move, leaving the source empty.
//
//	s := memory.Scope(pool)
//	defer s.Close()
type Scoped[R Releaser] struct {
	res   R
	owned bool
}

// Scope takes ownership of r.
func Scope[R Releaser](r R) *Scoped[R] {
	return &Scoped[R]{res: r, owned: true}
}

// Get returns the owned resource and whether one is held.
func (s *Scoped[R]) Get() (R, bool) {
	return s.res, s.owned
}

// Close releases the resource. Subsequent calls do nothing.
func (s *Scoped[R]) Close() error {
	if !s.owned {
		return nil
	}
	res := s.res
	s.reset()
	res.Release()
	return nil
}

// Move transfers ownership to a new Scoped.
func (s *Scoped[R]) Move() *Scoped[R] {
	moved := &Scoped[R]{res: s.res, owned: s.owned}
	s.reset()
	return moved
}

func (s *Scoped[R]) reset() {
	var zero R
	s.res = zero
	s.owned = false
}
