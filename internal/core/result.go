package core

// Kind classifies how an operation ended.
type Kind int

const (
	KindOK Kind = iota
	KindNotFound
	KindValidation
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is what every ledger operation returns for expected outcomes.
// Infrastructure failures travel separately as Go errors.
type Result[T any] struct {
	Value   T
	Kind    Kind
	Message string
	Errors  []FieldError
}

func (r Result[T]) OK() bool { return r.Kind == KindOK }

func Success[T any](v T, message string) Result[T] {
	return Result[T]{Value: v, Kind: KindOK, Message: message}
}

func NotFound[T any](message string) Result[T] {
	return Result[T]{Kind: KindNotFound, Message: message}
}

func Invalid[T any](errs []FieldError) Result[T] {
	return Result[T]{Kind: KindValidation, Message: "invalid data", Errors: errs}
}

func Rejected[T any](message string) Result[T] {
	return Result[T]{Kind: KindRejected, Message: message}
}

// Outcome is the reply of a persistence command: a success flag and message,
// followed by the persisted row when the command succeeded.
type Outcome[T any] struct {
	Success bool
	Message string
	// Missing marks a failure caused by an absent target row.
	Missing bool
	Row     T
}

func Done[T any](row T, message string) Outcome[T] {
	return Outcome[T]{Success: true, Message: message, Row: row}
}

func Refused[T any](message string) Outcome[T] {
	return Outcome[T]{Message: message}
}

func Missing[T any](message string) Outcome[T] {
	return Outcome[T]{Message: message, Missing: true}
}

// FromOutcome lifts a persistence outcome into a Result, passing the message through verbatim.
func FromOutcome[T any](o Outcome[T]) Result[T] {
	switch {
	case o.Success:
		return Success(o.Row, o.Message)
	case o.Missing:
		return NotFound[T](o.Message)
	default:
		return Rejected[T](o.Message)
	}
}
