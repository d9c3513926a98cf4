package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/dawedawe/volerup/cpu"
	"github.com/dawedawe/volerup/emulator"
)

func main() {
	var compile string
	var hex bool
	var binary bool
	var step bool
	var dump bool
	var limit uint64
	var timeout time.Duration
	var verbose bool

	flag.StringVar(&compile, "c", "-", "Vole program file to run")
	flag.BoolVar(&hex, "x", false, "Program is plain hex bytes, not assembly")
	flag.BoolVar(&binary, "b", false, "Program is a raw memory image")
	flag.BoolVar(&step, "s", false, "Print the machine state after every cycle")
	flag.BoolVar(&dump, "m", false, "Print a memory dump on exit")
	flag.Uint64Var(&limit, "n", 0, "Stop after this many cycles (0 for no limit)")
	flag.DurationVar(&timeout, "t", 0, "Stop after this long (0 for no limit)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if hex && binary {
		log.Fatalf("%v: -x and -b are exclusive", os.Args[0])
	}

	logger := zap.NewNop()
	if verbose {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
	}
	defer logger.Sync()

	emu := emulator.NewEmulator(cpu.WithLogger(logger))
	emu.Verbose = verbose
	emu.CycleLimit = limit

	inf := os.Stdin
	if compile != "-" {
		var err error
		inf, err = os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()
	}

	var err error
	switch {
	case binary:
		var bin []byte
		bin, err = io.ReadAll(inf)
		if err == nil {
			err = emu.LoadBinary(bin)
		}
	case hex:
		var bin []byte
		bin, err = cpu.ParseHex(inf)
		if err == nil {
			err = emu.LoadBinary(bin)
		}
	default:
		err = emu.Assemble(inf)
	}
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}

	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if step {
		err = stepRun(ctx, emu)
	} else {
		err = emu.Run(ctx)
	}

	fmt.Print(emu.Machine.String())
	if dump {
		fmt.Print(emu.Machine.Hexdump())
	}

	if err != nil {
		log.Fatalf("%v: %v", compile, err)
	}
}

// stepRun ticks the emulator, printing the source line and the machine
// state of every cycle.
func stepRun(ctx context.Context, emu *emulator.Emulator) (err error) {
	for done := emu.Halted; !done; {
		err = ctx.Err()
		if err != nil {
			return
		}

		if emu.CycleLimit != 0 && emu.Cycles() >= emu.CycleLimit {
			err = emulator.ErrCycleLimit(emu.CycleLimit)
			return
		}

		fmt.Printf("--- line %d, pc 0x%02X\n", emu.LineNo(), emu.Pc())
		done, err = emu.Tick()
		if err != nil {
			return
		}

		if change := emu.LastChange; change.Kind != cpu.CHANGE_NONE {
			fmt.Printf("% 5s: %v 0x%02X\n", "chg", change.Kind, change.Index)
		}
		fmt.Print(emu.Machine.String())
	}

	return
}
