package cpu

import (
	"iter"
)

// Line is one source line of an assembled program and the bytes it
// generated.
type Line struct {
	LineNo int      // Source line number.
	Addr   int      // Address of the first generated byte.
	Words  []string // Words of the line after expansion.
	Bytes  []byte   // Generated bytes.
}

// Program is an assembled program listing.
type Program struct {
	Lines []Line
}

// Debug locates the source line covering a memory address.
type Debug struct {
	*Line
	Index int // Offset of the address within the line's bytes.
}

// Debug returns the line that generated the byte at addr. The Line is nil
// if no line covers the address.
func (prog *Program) Debug(addr int) (dbg Debug) {
	for n, line := range prog.Lines {
		if addr >= line.Addr && addr < line.Addr+len(line.Bytes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: addr - line.Addr,
			}
			break
		}
	}

	return
}

// Binary returns the memory image of the program.
func (prog *Program) Binary() (bin []byte) {
	for addr, value := range prog.Bytes() {
		for len(bin) < addr {
			bin = append(bin, 0)
		}
		bin = append(bin, value)
	}

	return
}

// Bytes iterates over the program bytes and their addresses.
func (prog *Program) Bytes() iter.Seq2[int, byte] {
	return func(yield func(addr int, value byte) bool) {
		for _, line := range prog.Lines {
			for n, value := range line.Bytes {
				if !yield(line.Addr+n, value) {
					return
				}
			}
		}
	}
}
