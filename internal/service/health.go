package service

// StoreHealth reports whether the backing store is reachable. Satisfied by
// *health.Checker; a nil value disables the check.
type StoreHealth interface {
	Available() bool
}
