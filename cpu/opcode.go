package cpu

import (
	"fmt"
)

// Mnemonic is the opcode nibble of an instruction.
type Mnemonic int

//go:generate go tool stringer -linecomment -type=Mnemonic
const (
	OP_LOADADDR  = Mnemonic(0x1) // LOADADDR
	OP_LOADVALUE = Mnemonic(0x2) // LOADVALUE
	OP_STORE     = Mnemonic(0x3) // STORE
	OP_MOVE      = Mnemonic(0x4) // MOVE
	OP_ADDINT    = Mnemonic(0x5) // ADDINT
	OP_ADDFLOAT  = Mnemonic(0x6) // ADDFLOAT
	OP_OR        = Mnemonic(0x7) // OR
	OP_AND       = Mnemonic(0x8) // AND
	OP_XOR       = Mnemonic(0x9) // XOR
	OP_ROTATE    = Mnemonic(0xA) // ROTATE
	OP_JUMP      = Mnemonic(0xB) // JUMP
	OP_HALT      = Mnemonic(0xC) // HALT
)

// Opcode is a decoded instruction. The set of implementations is closed.
type Opcode interface {
	fmt.Stringer

	// Mnemonic returns the opcode nibble.
	Mnemonic() Mnemonic
	// Instruction re-encodes the opcode.
	Instruction() Instruction

	isOpcode()
}

// LoadAddr sets register Reg to the memory cell at Addr.
type LoadAddr struct {
	Reg  uint8
	Addr uint8
}

// LoadValue sets register Reg to Value.
type LoadValue struct {
	Reg   uint8
	Value uint8
}

// Store sets the memory cell at Addr to register Reg.
type Store struct {
	Reg  uint8
	Addr uint8
}

// Move copies register Source to register Target.
type Move struct {
	Source uint8
	Target uint8
}

// RST is the operand layout shared by the three-register opcodes:
// Target receives the result of Reg1 and Reg2.
type RST struct {
	Target uint8
	Reg1   uint8
	Reg2   uint8
}

type (
	AddInt   RST // Two's complement add.
	AddFloat RST // Packed float add.
	Or       RST // Bitwise or.
	And      RST // Bitwise and.
	Xor      RST // Bitwise exclusive or.
)

// Rotate rotates register Reg right by Times bits.
type Rotate struct {
	Reg   uint8
	Times uint8
}

// Jump sets the program counter to the memory cell at Addr when register
// Reg equals register r0.
type Jump struct {
	Reg  uint8
	Addr uint8
}

// Halt stops the machine.
type Halt struct{}

func (op LoadAddr) Mnemonic() Mnemonic  { return OP_LOADADDR }
func (op LoadValue) Mnemonic() Mnemonic { return OP_LOADVALUE }
func (op Store) Mnemonic() Mnemonic     { return OP_STORE }
func (op Move) Mnemonic() Mnemonic      { return OP_MOVE }
func (op AddInt) Mnemonic() Mnemonic    { return OP_ADDINT }
func (op AddFloat) Mnemonic() Mnemonic  { return OP_ADDFLOAT }
func (op Or) Mnemonic() Mnemonic        { return OP_OR }
func (op And) Mnemonic() Mnemonic       { return OP_AND }
func (op Xor) Mnemonic() Mnemonic       { return OP_XOR }
func (op Rotate) Mnemonic() Mnemonic    { return OP_ROTATE }
func (op Jump) Mnemonic() Mnemonic      { return OP_JUMP }
func (op Halt) Mnemonic() Mnemonic      { return OP_HALT }

func (op LoadAddr) Instruction() Instruction {
	return makeInstructionXY(OP_LOADADDR, op.Reg, op.Addr)
}

func (op LoadValue) Instruction() Instruction {
	return makeInstructionXY(OP_LOADVALUE, op.Reg, op.Value)
}

func (op Store) Instruction() Instruction {
	return makeInstructionXY(OP_STORE, op.Reg, op.Addr)
}

func (op Move) Instruction() Instruction {
	return makeInstruction(OP_MOVE, 0, op.Source, op.Target)
}

func (op RST) instruction(mnemonic Mnemonic) Instruction {
	return makeInstruction(mnemonic, op.Target, op.Reg1, op.Reg2)
}

func (op AddInt) Instruction() Instruction   { return RST(op).instruction(OP_ADDINT) }
func (op AddFloat) Instruction() Instruction { return RST(op).instruction(OP_ADDFLOAT) }
func (op Or) Instruction() Instruction       { return RST(op).instruction(OP_OR) }
func (op And) Instruction() Instruction      { return RST(op).instruction(OP_AND) }
func (op Xor) Instruction() Instruction      { return RST(op).instruction(OP_XOR) }

func (op Rotate) Instruction() Instruction {
	return makeInstruction(OP_ROTATE, op.Reg, 0, op.Times)
}

func (op Jump) Instruction() Instruction {
	return makeInstructionXY(OP_JUMP, op.Reg, op.Addr)
}

func (op Halt) Instruction() Instruction {
	return makeInstruction(OP_HALT, 0, 0, 0)
}

// operands renders a mnemonic and its operands as two digit hex.
func operands(mnemonic Mnemonic, args ...uint8) (text string) {
	text = mnemonic.String()
	for _, arg := range args {
		text += fmt.Sprintf(" 0x%02X", arg)
	}
	return
}

func (op LoadAddr) String() string  { return operands(OP_LOADADDR, op.Reg, op.Addr) }
func (op LoadValue) String() string { return operands(OP_LOADVALUE, op.Reg, op.Value) }
func (op Store) String() string     { return operands(OP_STORE, op.Reg, op.Addr) }
func (op Move) String() string      { return operands(OP_MOVE, op.Source, op.Target) }
func (op AddInt) String() string    { return operands(OP_ADDINT, op.Target, op.Reg1, op.Reg2) }
func (op AddFloat) String() string  { return operands(OP_ADDFLOAT, op.Target, op.Reg1, op.Reg2) }
func (op Or) String() string        { return operands(OP_OR, op.Target, op.Reg1, op.Reg2) }
func (op And) String() string       { return operands(OP_AND, op.Target, op.Reg1, op.Reg2) }
func (op Xor) String() string       { return operands(OP_XOR, op.Target, op.Reg1, op.Reg2) }
func (op Rotate) String() string    { return operands(OP_ROTATE, op.Reg, op.Times) }
func (op Jump) String() string      { return operands(OP_JUMP, op.Reg, op.Addr) }
func (op Halt) String() string      { return operands(OP_HALT) }

func (LoadAddr) isOpcode()  {}
func (LoadValue) isOpcode() {}
func (Store) isOpcode()     {}
func (Move) isOpcode()      {}
func (AddInt) isOpcode()    {}
func (AddFloat) isOpcode()  {}
func (Or) isOpcode()        {}
func (And) isOpcode()       {}
func (Xor) isOpcode()       {}
func (Rotate) isOpcode()    {}
func (Jump) isOpcode()      {}
func (Halt) isOpcode()      {}

// Decode maps an instruction to its opcode. It returns false when the
// opcode nibble is not one of 0x1-0xC.
func Decode(in Instruction) (op Opcode, ok bool) {
	r, s, t, xy := in.R(), in.S(), in.T(), in.XY()

	switch Mnemonic(in.Opcode()) {
	case OP_LOADADDR:
		op = LoadAddr{Reg: r, Addr: xy}
	case OP_LOADVALUE:
		op = LoadValue{Reg: r, Value: xy}
	case OP_STORE:
		op = Store{Reg: r, Addr: xy}
	case OP_MOVE:
		op = Move{Source: s, Target: t}
	case OP_ADDINT:
		op = AddInt{Target: r, Reg1: s, Reg2: t}
	case OP_ADDFLOAT:
		op = AddFloat{Target: r, Reg1: s, Reg2: t}
	case OP_OR:
		op = Or{Target: r, Reg1: s, Reg2: t}
	case OP_AND:
		op = And{Target: r, Reg1: s, Reg2: t}
	case OP_XOR:
		op = Xor{Target: r, Reg1: s, Reg2: t}
	case OP_ROTATE:
		op = Rotate{Reg: r, Times: t}
	case OP_JUMP:
		op = Jump{Reg: r, Addr: xy}
	case OP_HALT:
		op = Halt{}
	default:
		return
	}

	ok = true
	return
}
