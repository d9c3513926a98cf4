package cpu

// Instruction is a raw 16-bit machine instruction.
//
//	bits 15-12  opcode
//	bits 11-8   R
//	bits  7-4   S
//	bits  3-0   T
//	bits  7-0   XY, an address or immediate value
type Instruction uint16

// makeInstruction packs an opcode nibble and operand fields.
func makeInstruction(op Mnemonic, r, s, t uint8) Instruction {
	return Instruction(uint16(op&0xf)<<12 | uint16(r&0xf)<<8 | uint16(s&0xf)<<4 | uint16(t&0xf))
}

// makeInstructionXY packs an opcode nibble, R and a byte operand.
func makeInstructionXY(op Mnemonic, r, xy uint8) Instruction {
	return Instruction(uint16(op&0xf)<<12 | uint16(r&0xf)<<8 | uint16(xy))
}

// InstructionFrom assembles the instruction stored big-endian at hi, lo.
func InstructionFrom(hi, lo byte) Instruction {
	return Instruction(uint16(hi)<<8 | uint16(lo))
}

// Opcode returns the opcode nibble.
func (in Instruction) Opcode() uint8 {
	return uint8(in >> 12)
}

// R returns operand field 1.
func (in Instruction) R() uint8 {
	return uint8((in >> 8) & 0xf)
}

// S returns operand field 2.
func (in Instruction) S() uint8 {
	return uint8((in >> 4) & 0xf)
}

// T returns operand field 3.
func (in Instruction) T() uint8 {
	return uint8(in & 0xf)
}

// XY returns operand fields 2 and 3 as one byte.
func (in Instruction) XY() uint8 {
	return uint8(in & 0xff)
}

// Bytes returns the instruction in memory order.
func (in Instruction) Bytes() [INSTRUCTION_WIDTH]byte {
	return [INSTRUCTION_WIDTH]byte{byte(in >> 8), byte(in)}
}
