package floating

import (
	"errors"

	"github.com/dawedawe/volerup/translate"
)

var f = translate.From

var (
	ErrNotFinite = errors.New(f("not a finite value"))
	ErrOverflow  = errors.New(f("magnitude of 8 or more"))
)

// ErrUnrepresentable reports a value that has no packed encoding.
type ErrUnrepresentable struct {
	Value float64
	Err   error
}

func (err *ErrUnrepresentable) Error() string {
	return f("%v unrepresentable: %v", err.Value, err.Err)
}

func (err *ErrUnrepresentable) Unwrap() error {
	return err.Err
}
