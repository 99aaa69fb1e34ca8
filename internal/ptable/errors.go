package ptable

// UnknownElementError reports a symbol that is not part of the table.
type UnknownElementError struct {
	Symbol string
}

func (e *UnknownElementError) Error() string {
	return "unknown element symbol: " + e.Symbol
}
