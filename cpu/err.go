package cpu

import (
	"errors"

	"github.com/dawedawe/volerup/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrHalted     = errors.New(f("machine halted"))
	ErrFetchRange = errors.New(f("fetch past end of memory"))
	ErrFloat      = errors.New(f("float add"))

	// Program text errors
	ErrParseByte          = errors.New(f("not a hex byte"))
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrOperandCount       = errors.New(f("operand count"))
	ErrOperandRange       = errors.New(f("operand out of range"))
)

// ErrProgramTooLarge is returned when a program does not fit in memory.
type ErrProgramTooLarge int

func (err ErrProgramTooLarge) Error() string {
	return f("program of %d bytes exceeds %d bytes of memory", int(err), MEMORY_SIZE)
}

func (err ErrProgramTooLarge) Is(target error) (ok bool) {
	_, ok = target.(ErrProgramTooLarge)
	return
}

// ErrIllegalInstruction is returned when the opcode nibble of an
// instruction has no mapping.
type ErrIllegalInstruction Instruction

func (err ErrIllegalInstruction) Error() string {
	return f("illegal instruction 0x%04X", uint16(err))
}

func (err ErrIllegalInstruction) Is(target error) (ok bool) {
	_, ok = target.(ErrIllegalInstruction)
	return
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a value or label", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSyntax locates an error in program text.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
