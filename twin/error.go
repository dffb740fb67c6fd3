package twin

import "fmt"

//ErrorType are Error types
type ErrorType int

//ErrorTypes
const (
	//ErrorTypeTransport is a network failure or a non-success HTTP status
	ErrorTypeTransport ErrorType = iota
	//ErrorTypePayload is a response body that doesn't match the expected shape
	ErrorTypePayload
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeTransport:
		return "transport"
	case ErrorTypePayload:
		return "payload"
	}
	return fmt.Sprintf("ErrorType(%d)", int(t))
}

//Error wraps errors returned by the backend collaborators
type Error struct {
	Description string
	Type        ErrorType
	Err         error
}

func (e *Error) Error() string {
	if e.Type == ErrorTypePayload {
		return fmt.Sprintf("Payload Error: %s: %v", e.Description, e.Err)
	}
	return fmt.Sprintf("Transport Error: %s: %v", e.Description, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
