// Package cpu implements the Vole machine and its assembler.
//
// The machine has sixteen 8-bit general-purpose registers (r0-rF), 256
// bytes of memory, a program counter and an instruction register. Each
// 16-bit instruction is fetched big-endian from memory, decoded into one
// of twelve opcodes, and executed. Register r0 doubles as the comparand of
// the conditional JUMP.
//
// The assembler accepts the plain hex byte listing used to publish Vole
// programs, extended with mnemonics, labels and equates. $(expr) operands
// are evaluated at assembly time.
package cpu
