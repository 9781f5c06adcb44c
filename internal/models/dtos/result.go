package dtos

// Result is the uniform envelope every engine operation returns. The
// transport layer decides how to map it onto its wire format; the
// engine never bakes in a status code.
type Result[T any] struct {
	OK       bool   `json:"ok"`
	Data     *T     `json:"data,omitempty"`
	ErrorKey string `json:"error_key,omitempty"`
}

// Ok wraps a successful payload.
func Ok[T any](data T) Result[T] {
	return Result[T]{OK: true, Data: &data}
}

// Err wraps a failure under its stable error key.
func Err[T any](key string) Result[T] {
	return Result[T]{OK: false, ErrorKey: key}
}
