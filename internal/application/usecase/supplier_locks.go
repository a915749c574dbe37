package usecase

import "sync"

// supplierLocks hands out one mutex per supplier. Entries are dropped once no
// caller holds or waits on them.
type supplierLocks struct {
	mu    sync.Mutex
	locks map[string]*supplierLock
}

type supplierLock struct {
	mu   sync.Mutex
	refs int
}

func newSupplierLocks() *supplierLocks {
	return &supplierLocks{locks: make(map[string]*supplierLock)}
}

// lock blocks until supplier is free and returns the matching unlock.
func (s *supplierLocks) lock(supplier string) func() {
	s.mu.Lock()
	l, ok := s.locks[supplier]
	if !ok {
		l = &supplierLock{}
		s.locks[supplier] = l
	}
	l.refs++
	s.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, supplier)
		}
		s.mu.Unlock()
	}
}

func (s *supplierLocks) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.locks)
}
