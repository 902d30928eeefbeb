package xdsl

// ParseError indicates the document is not well-formed XML.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "malformed xdsl document: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// StructureError indicates a well-formed document that is missing a
// required structural element.
type StructureError struct {
	Element string
}

func (e *StructureError) Error() string {
	return "invalid xdsl structure: element '" + e.Element + "' not found"
}
