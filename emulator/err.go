package emulator

import (
	"github.com/dawedawe/volerup/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int // Source line, or 0 if unknown.
	Addr   int // Program counter of the failing cycle.
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d (0x%02X) %v", err.LineNo, err.Addr, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrCycleLimit is returned by Run when the cycle limit is reached before
// the machine halts.
type ErrCycleLimit uint64

func (err ErrCycleLimit) Error() string {
	return f("no halt after %d cycles", uint64(err))
}

func (err ErrCycleLimit) Is(target error) (ok bool) {
	_, ok = target.(ErrCycleLimit)
	return
}
