package model

// UnsupportedKindError indicates a node kind outside chance/decision/utility.
type UnsupportedKindError struct {
	Kind string
}

func (e *UnsupportedKindError) Error() string {
	return "unsupported node kind: " + e.Kind
}

// DuplicateNodeError indicates a second insert for an already-registered ID.
type DuplicateNodeError struct {
	ID string
}

func (e *DuplicateNodeError) Error() string {
	return "node already exists: " + e.ID
}
