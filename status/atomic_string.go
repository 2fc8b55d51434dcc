package status

import "sync/atomic"

// MaxStringLen bounds stored strings; longer values are truncated
const MaxStringLen = 32

// AtomicString is a lock-free string cell; the zero value reads ""
type AtomicString struct {
	ptr atomic.Pointer[string]
}

func (s *AtomicString) Store(val string) {
	if len(val) > MaxStringLen {
		val = val[:MaxStringLen]
	}
	s.ptr.Store(&val)
}

func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}
