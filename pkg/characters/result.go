package characters

// Result is the outcome of a character fetch: exactly one of Pending,
// Failed or Succeeded.
type Result interface {
	isResult()
}

// Pending is the result before a fetch has completed.
type Pending struct{}

// Failed is a fetch that ended in a transport or server failure.
type Failed struct {
	Reason error
}

// Succeeded is a fetch that returned a payload. Characters is empty when
// the payload had no results or was absent/malformed.
type Succeeded struct {
	Characters []Character
}

func (Pending) isResult()   {}
func (Failed) isResult()    {}
func (Succeeded) isResult() {}

// Error implements the error interface so a Failed can be logged directly.
func (f Failed) Error() string {
	if f.Reason == nil {
		return "fetch failed"
	}
	return f.Reason.Error()
}

// Unwrap returns the underlying failure.
func (f Failed) Unwrap() error {
	return f.Reason
}
