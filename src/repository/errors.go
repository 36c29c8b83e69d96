package repository

import "fmt"

// PersistenceError tags store failures with the operation that produced
// them so the orchestrator can report a useful stage/message pair.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
