package chessdto

// DomainError is the wire form of a scoped, recoverable error: a stable code
// for clients to branch on and a human-readable message.
type DomainError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "session error"
}
