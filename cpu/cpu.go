package cpu

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"iter"
	"maps"
	"math/bits"

	"go.uber.org/zap"

	"github.com/dawedawe/volerup/floating"
)

const (
	REGISTER_COUNT    = 16  // General-purpose registers.
	MEMORY_SIZE       = 256 // Bytes of memory.
	INSTRUCTION_WIDTH = 2   // Bytes per instruction.
)

var _cpu_defines = map[string]string{
	"REGISTER_COUNT":    fmt.Sprintf("%d", REGISTER_COUNT),
	"MEMORY_SIZE":       fmt.Sprintf("%d", MEMORY_SIZE),
	"INSTRUCTION_WIDTH": fmt.Sprintf("%d", INSTRUCTION_WIDTH),
}

// ChangeKind is the kind of state an executed opcode modified.
type ChangeKind int

//go:generate go tool stringer -linecomment -type=ChangeKind
const (
	CHANGE_NONE     = ChangeKind(0) // none
	CHANGE_REGISTER = ChangeKind(1) // register
	CHANGE_MEMORY   = ChangeKind(2) // memory
	CHANGE_JUMP     = ChangeKind(3) // jump
	CHANGE_HALT     = ChangeKind(4) // halt
)

// Change records the effect of the last executed opcode.
// Index is the register number, memory address or jump target.
type Change struct {
	Kind  ChangeKind
	Index int
}

// Option configures a Machine.
type Option func(m *Machine)

// WithLogger sets the logger used for cycle tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithVerbose enables cycle tracing.
func WithVerbose(verbose bool) Option {
	return func(m *Machine) {
		m.Verbose = verbose
	}
}

// Machine is the simulation context of a Vole machine.
//
// A Machine is not safe for concurrent use.
type Machine struct {
	Verbose bool // Set to enable cycle tracing.

	Registers           [REGISTER_COUNT]uint8 // Register bank.
	Memory              [MEMORY_SIZE]uint8    // Main memory.
	ProgramCounter      int                   // Address of the next instruction.
	InstructionRegister Instruction           // Last fetched instruction.
	CycleCount          uint64                // Successfully executed cycles.
	Halted              bool                  // No further cycles once set.
	LastChange          Change                // Effect of the last executed opcode.

	logger *zap.Logger
}

// NewMachine creates a machine with program loaded at address 0.
func NewMachine(program []byte, opts ...Option) (m *Machine, err error) {
	m = &Machine{
		logger: zap.L(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.logger = m.logger.Named("cpu")

	err = m.Load(program)
	if err != nil {
		m = nil
	}

	return
}

// Defines for the machine.
func (m *Machine) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset zeroes all machine state.
func (m *Machine) Reset() {
	clear(m.Registers[:])
	clear(m.Memory[:])
	m.ProgramCounter = 0
	m.InstructionRegister = 0
	m.CycleCount = 0
	m.Halted = false
	m.LastChange = Change{}
}

// Load resets the machine and copies program to address 0.
// The machine is left untouched if the program does not fit.
func (m *Machine) Load(program []byte) (err error) {
	if len(program) > MEMORY_SIZE {
		err = ErrProgramTooLarge(len(program))
		return
	}

	m.Reset()
	copy(m.Memory[:], program)

	if m.Verbose {
		m.logger.Debug("load", zap.Int("bytes", len(program)))
	}

	return
}

// Fetch reads the instruction at the program counter into the
// instruction register.
func (m *Machine) Fetch() (err error) {
	pc := m.ProgramCounter
	if pc < 0 || pc+INSTRUCTION_WIDTH > MEMORY_SIZE {
		err = ErrFetchRange
		return
	}

	m.InstructionRegister = InstructionFrom(m.Memory[pc], m.Memory[pc+1])

	return
}

// Decode decodes the instruction register.
func (m *Machine) Decode() (op Opcode, ok bool) {
	return Decode(m.InstructionRegister)
}

// register returns the register addressed by the low four bits of n.
func (m *Machine) register(n uint8) *uint8 {
	return &m.Registers[n&(REGISTER_COUNT-1)]
}

// Execute applies one opcode to the machine state, then advances the
// program counter by one instruction. JUMP never advances; it either
// loads the program counter or leaves it unchanged.
//
// On error no state is modified.
func (m *Machine) Execute(op Opcode) (err error) {
	var change Change

	next_pc := m.ProgramCounter + INSTRUCTION_WIDTH

	set_register := func(n uint8, value uint8) {
		*m.register(n) = value
		change = Change{Kind: CHANGE_REGISTER, Index: int(n & (REGISTER_COUNT - 1))}
	}

	switch op := op.(type) {
	case LoadAddr:
		set_register(op.Reg, m.Memory[op.Addr])
	case LoadValue:
		set_register(op.Reg, op.Value)
	case Store:
		m.Memory[op.Addr] = *m.register(op.Reg)
		change = Change{Kind: CHANGE_MEMORY, Index: int(op.Addr)}
	case Move:
		set_register(op.Target, *m.register(op.Source))
	case AddInt:
		set_register(op.Target, *m.register(op.Reg1)+*m.register(op.Reg2))
	case AddFloat:
		var sum floating.Floating
		sum, err = floating.Add(floating.Floating(*m.register(op.Reg1)), floating.Floating(*m.register(op.Reg2)))
		if err != nil {
			err = errors.Join(ErrFloat, err)
			return
		}
		set_register(op.Target, uint8(sum))
	case Or:
		set_register(op.Target, *m.register(op.Reg1)|*m.register(op.Reg2))
	case And:
		set_register(op.Target, *m.register(op.Reg1)&*m.register(op.Reg2))
	case Xor:
		set_register(op.Target, *m.register(op.Reg1)^*m.register(op.Reg2))
	case Rotate:
		// Negative counts rotate right, modulo 8.
		set_register(op.Reg, bits.RotateLeft8(*m.register(op.Reg), -int(op.Times)))
	case Jump:
		next_pc = m.ProgramCounter
		if m.Registers[0] == *m.register(op.Reg) {
			next_pc = int(m.Memory[op.Addr])
			change = Change{Kind: CHANGE_JUMP, Index: next_pc}
		}
	case Halt:
		m.Halted = true
		change = Change{Kind: CHANGE_HALT}
	default:
		err = ErrInstructionInvalid
		return
	}

	m.ProgramCounter = next_pc
	m.LastChange = change

	return
}

// Cycle performs one fetch, decode and execute step.
//
// An illegal instruction, a fetch past the end of memory, or a failed
// execute halts the machine. Neither the cycle counter nor the program
// counter move on failure.
func (m *Machine) Cycle() (err error) {
	if m.Halted {
		err = ErrHalted
		return
	}

	m.LastChange = Change{}

	defer func() {
		if err != nil {
			m.Halted = true
			if m.Verbose {
				m.logger.Debug("halt",
					zap.Int("pc", m.ProgramCounter),
					zap.Error(err))
			}
		}
	}()

	err = m.Fetch()
	if err != nil {
		return
	}

	op, ok := m.Decode()
	if !ok {
		err = ErrIllegalInstruction(m.InstructionRegister)
		return
	}

	if m.Verbose {
		m.logger.Debug("cycle",
			zap.Uint64("cycle", m.CycleCount),
			zap.Int("pc", m.ProgramCounter),
			zap.String("ir", fmt.Sprintf("0x%04X", uint16(m.InstructionRegister))),
			zap.Stringer("op", op))
	}

	err = m.Execute(op)
	if err != nil {
		return
	}

	m.CycleCount++

	return
}

// Run cycles the machine until it halts. The context is checked between
// cycles, as programs without a reachable HALT loop forever.
func (m *Machine) Run(ctx context.Context) (err error) {
	for !m.Halted {
		err = ctx.Err()
		if err != nil {
			return
		}

		err = m.Cycle()
		if err != nil {
			return
		}
	}

	return
}

// String returns the current machine state as a string.
func (m *Machine) String() (text string) {
	state := "RUNNING"
	if m.Halted {
		state = "HALTED"
	}

	op := "-"
	if decoded, ok := m.Decode(); ok {
		op = decoded.String()
	}

	text += fmt.Sprintf("% 5s: %v\n", "state", state)
	text += fmt.Sprintf("% 5s: %v\n", "cycle", m.CycleCount)
	text += fmt.Sprintf("% 5s: 0x%02X\n", "pc", m.ProgramCounter)
	text += fmt.Sprintf("% 5s: 0x%04X (%v)\n", "ir", uint16(m.InstructionRegister), op)
	for n, value := range m.Registers {
		text += fmt.Sprintf("% 5s: 0x%02X (%3d)\n", fmt.Sprintf("r%X", n), value, value)
	}

	return
}

// Hexdump returns a canonical hex dump of memory.
func (m *Machine) Hexdump() string {
	return hex.Dump(m.Memory[:])
}
