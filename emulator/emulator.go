package emulator

import (
	"context"
	"fmt"
	"io"
	"iter"
	"maps"

	"github.com/dawedawe/volerup/cpu"
	"github.com/dawedawe/volerup/internal"
)

const (
	PROGRAM_START = 0 // Load address of every program.
)

var _emulator_defines = map[string]string{
	"PROGRAM_START": fmt.Sprintf("%v", PROGRAM_START),
}

// Emulator state. Machine plus the listing of the program it runs.
type Emulator struct {
	Verbose      bool         // If set, enables verbose logging.
	*cpu.Machine              // Reference to the machine simulation.
	Program      *cpu.Program // Reference to the currently running program listing.

	CycleLimit uint64 // If non-zero, Run stops with ErrCycleLimit after this many cycles.
}

// NewEmulator creates a new emulator with an empty program.
func NewEmulator(opts ...cpu.Option) (emu *Emulator) {
	// An empty program always fits.
	m, _ := cpu.NewMachine(nil, opts...)

	emu = &Emulator{
		Verbose: m.Verbose,
		Machine: m,
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Machine.Defines(),
	)
}

// Assemble program text into the emulator's program listing, with the
// emulator defines available as equates. The machine is not reset.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// LoadBinary sets the program listing to a raw memory image, which has
// no source lines. The machine is not reset.
func (emu *Emulator) LoadBinary(bin []byte) (err error) {
	if len(bin) > cpu.MEMORY_SIZE {
		err = cpu.ErrProgramTooLarge(len(bin))
		return
	}

	emu.Program = &cpu.Program{
		Lines: []cpu.Line{
			{Addr: PROGRAM_START, Bytes: bin},
		},
	}

	return
}

// Reset the machine and load the program binary.
func (emu *Emulator) Reset() (err error) {
	emu.Machine.Verbose = emu.Verbose

	err = emu.Machine.Load(emu.Program.Binary())
	return
}

// Cycles returns the total cycles since a reset.
func (emu *Emulator) Cycles() uint64 {
	return emu.Machine.CycleCount
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() int {
	return emu.Machine.ProgramCounter
}

// LineNo returns the source line number of the instruction at the program
// counter, or 0 if it was not generated from a source line.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Machine.ProgramCounter)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single cycle of the emulator. It is done once the
// machine has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set machine verbosity
	emu.Machine.Verbose = emu.Verbose

	if emu.Machine.Halted {
		done = true
		return
	}

	lineno := emu.LineNo()
	addr := emu.Machine.ProgramCounter
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Addr: addr, Err: err}
		}
	}()

	err = emu.Machine.Cycle()
	if err != nil {
		return
	}

	done = emu.Machine.Halted
	return
}

// Run ticks the emulator until the machine halts, the context is done,
// or the cycle limit is reached.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	for done := emu.Machine.Halted; !done; {
		err = ctx.Err()
		if err != nil {
			return
		}

		if emu.CycleLimit != 0 && emu.Machine.CycleCount >= emu.CycleLimit {
			err = ErrCycleLimit(emu.CycleLimit)
			return
		}

		done, err = emu.Tick()
		if err != nil {
			return
		}
	}

	return
}
