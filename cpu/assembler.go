package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/dawedawe/volerup/internal"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// operandLayout is the operand shape of a mnemonic.
type operandLayout int

const (
	LAYOUT_NONE = operandLayout(iota) // HALT
	LAYOUT_RXY                        // register, byte
	LAYOUT_ST                         // register, register
	LAYOUT_RST                        // register, register, register
	LAYOUT_RX                         // register, nibble
)

// mnemonicLayout maps each mnemonic to its operand layout.
var mnemonicLayout = map[Mnemonic]operandLayout{
	OP_LOADADDR:  LAYOUT_RXY,
	OP_LOADVALUE: LAYOUT_RXY,
	OP_STORE:     LAYOUT_RXY,
	OP_MOVE:      LAYOUT_ST,
	OP_ADDINT:    LAYOUT_RST,
	OP_ADDFLOAT:  LAYOUT_RST,
	OP_OR:        LAYOUT_RST,
	OP_AND:       LAYOUT_RST,
	OP_XOR:       LAYOUT_RST,
	OP_ROTATE:    LAYOUT_RX,
	OP_JUMP:      LAYOUT_RXY,
	OP_HALT:      LAYOUT_NONE,
}

// mnemonicMap maps upper case mnemonic names.
var mnemonicMap = func() (table map[string]Mnemonic) {
	table = make(map[string]Mnemonic, len(mnemonicLayout))
	for mnemonic := range mnemonicLayout {
		table[mnemonic.String()] = mnemonic
	}
	return
}()

var (
	reLabel    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	reRegister = regexp.MustCompile(`^[rR][0-9a-fA-F]$`)
	reChar     = regexp.MustCompile(`'\\?[^']'`)
	reParen    = regexp.MustCompile(`\$\([^\$]*\)`)
)

// link is a byte operand waiting for a label address.
type link struct {
	line   int // Index into the assembled lines.
	offset int // Byte within the line.
	label  string
}

// Assembler is a single pass assembler for Vole program text.
//
// Every line is one of:
//
//	0x14 0x02 ...          raw bytes
//	.byte VALUE...         raw bytes
//	.org ADDR              advance to ADDR, zero filling
//	.equ NAME VALUE        define an equate
//	label: ...             define a label at the current address
//	MNEMONIC OPERAND...    one instruction, in Opcode.String() form
//
// Text after ';' is a comment. $(expr) is evaluated at assembly time.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Lines   []Line // List of generated lines.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.

	links []link
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	invert := false
	if len(word) > 1 && word[0] == '~' {
		invert = true
		word = word[1:]
	}

	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseValue(word)
		return
	}

	if invert {
		value = ^value
	}

	return
}

// nibbleOf returns the value of a register or 4-bit operand.
func (asm *Assembler) nibbleOf(word string) (value uint8, err error) {
	if reRegister.MatchString(word) {
		var v64 uint64
		v64, err = strconv.ParseUint(word[1:], 16, 4)
		value = uint8(v64)
		return
	}

	v64, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v64 < 0 || v64 > 0xf {
		err = ErrOperandRange
		return
	}

	value = uint8(v64)
	return
}

// byteOf returns the value of a byte operand. Negative values down to
// -128 are stored as two's complement. Label references are returned
// unresolved.
func (asm *Assembler) byteOf(word string) (value uint8, label string, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		if reLabel.MatchString(word) {
			label = word
			err = nil
		}
		return
	}

	if v64 < -0x80 || v64 > 0xff {
		err = ErrOperandRange
		return
	}

	value = uint8(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	err = nil
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// currentAddr gets the address of the next generated byte.
func (asm *Assembler) currentAddr() int {
	if len(asm.Lines) == 0 {
		return 0
	}

	last := asm.Lines[len(asm.Lines)-1]

	return last.Addr + len(last.Bytes)
}

// parseLine expands a single line into words, and handles equates and
// labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reChar.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = ErrParseExpression(str[2 : len(str)-1])
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := strings.TrimSuffix(words[0], ":")
		if !reLabel.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.currentAddr()
		words = words[1:]
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Lines = asm.Lines[:0]
	asm.links = asm.links[:0]
	asm.Label = make(map[string]int, 16)
	asm.Equate = maps.Collect(internal.IterSeq2Concat(
		maps.All(sysEquate),
		maps.All(_cpu_defines),
		maps.All(asm.predefine),
	))

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line = strings.TrimSpace(strings.Split(text, ";")[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}

		size := asm.currentAddr()
		if size > MEMORY_SIZE {
			err = ErrProgramTooLarge(size)
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for _, ln := range asm.links {
		target := &asm.Lines[ln.line]
		addr, ok := asm.Label[ln.label]
		if !ok {
			lineno = target.LineNo
			line = strings.Join(target.Words, " ")
			err = ErrLabelMissing(ln.label)
			return
		}
		target.Bytes[ln.offset] = uint8(addr)
	}

	prog = &Program{
		Lines: slices.Clone(asm.Lines),
	}

	return
}

// parseBytes evaluates a list of byte operands.
func (asm *Assembler) parseBytes(words []string) (data []byte, labels map[int]string, err error) {
	for n, word := range words {
		var value uint8
		var label string
		value, label, err = asm.byteOf(word)
		if err != nil {
			return
		}
		if len(label) != 0 {
			if labels == nil {
				labels = make(map[int]string)
			}
			labels[n] = label
		}
		data = append(data, value)
	}

	return
}

// parseWords evaluates the words in a line of program text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var data []byte
	var labels map[int]string

	// no-op
	if len(words) == 0 {
		return
	}

	addr := asm.currentAddr()
	initial_words := words

	defer func() {
		if err != nil || len(data) == 0 {
			return
		}
		index := len(asm.Lines)
		asm.Lines = append(asm.Lines, Line{LineNo: lineno, Addr: addr, Words: initial_words, Bytes: data})
		for offset, label := range labels {
			asm.links = append(asm.links, link{line: index, offset: offset, label: label})
		}
	}()

	if _, ok := parseHexByte(words[0]); ok {
		data, labels, err = asm.parseBytes(words)
		return
	}

	switch words[0] {
	case ".byte":
		if len(words) < 2 {
			err = ErrOperandCount
			return
		}
		data, labels, err = asm.parseBytes(words[1:])
		return
	case ".org":
		if len(words) != 2 {
			err = ErrOperandCount
			return
		}
		var org int64
		org, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if org < int64(addr) || org > MEMORY_SIZE {
			err = ErrOperandRange
			return
		}
		// Zero length placeholder, so currentAddr() moves.
		asm.Lines = append(asm.Lines, Line{LineNo: lineno, Addr: int(org), Words: initial_words})
		return
	}

	mnemonic, ok := mnemonicMap[strings.ToUpper(words[0])]
	if !ok {
		err = ErrInstructionInvalid
		return
	}

	args := words[1:]
	var fields []uint8

	nibbles := func(count int) (err error) {
		for _, word := range args[:count] {
			var value uint8
			value, err = asm.nibbleOf(word)
			if err != nil {
				return
			}
			fields = append(fields, value)
		}
		return
	}

	layout := mnemonicLayout[mnemonic]
	want := map[operandLayout]int{
		LAYOUT_NONE: 0,
		LAYOUT_RXY:  2,
		LAYOUT_ST:   2,
		LAYOUT_RST:  3,
		LAYOUT_RX:   2,
	}[layout]
	if len(args) != want {
		err = ErrOperandCount
		return
	}

	switch layout {
	case LAYOUT_RXY:
		err = nibbles(1)
		if err != nil {
			return
		}
		var value uint8
		var label string
		value, label, err = asm.byteOf(args[1])
		if err != nil {
			return
		}
		if len(label) != 0 {
			labels = map[int]string{1: label}
		}
		fields = append(fields, value)
	default:
		err = nibbles(want)
		if err != nil {
			return
		}
	}

	op := makeOpcode(mnemonic, fields)
	bytes := op.Instruction().Bytes()
	data = bytes[:]

	return
}

// makeOpcode builds the opcode of mnemonic from its operand fields, in
// source order.
func makeOpcode(mnemonic Mnemonic, fields []uint8) (op Opcode) {
	switch mnemonic {
	case OP_LOADADDR:
		op = LoadAddr{Reg: fields[0], Addr: fields[1]}
	case OP_LOADVALUE:
		op = LoadValue{Reg: fields[0], Value: fields[1]}
	case OP_STORE:
		op = Store{Reg: fields[0], Addr: fields[1]}
	case OP_MOVE:
		op = Move{Source: fields[0], Target: fields[1]}
	case OP_ADDINT:
		op = AddInt{Target: fields[0], Reg1: fields[1], Reg2: fields[2]}
	case OP_ADDFLOAT:
		op = AddFloat{Target: fields[0], Reg1: fields[1], Reg2: fields[2]}
	case OP_OR:
		op = Or{Target: fields[0], Reg1: fields[1], Reg2: fields[2]}
	case OP_AND:
		op = And{Target: fields[0], Reg1: fields[1], Reg2: fields[2]}
	case OP_XOR:
		op = Xor{Target: fields[0], Reg1: fields[1], Reg2: fields[2]}
	case OP_ROTATE:
		op = Rotate{Reg: fields[0], Times: fields[1]}
	case OP_JUMP:
		op = Jump{Reg: fields[0], Addr: fields[1]}
	case OP_HALT:
		op = Halt{}
	}

	return
}
