package cpu

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, program ...string) (prog *Program, err error) {
	t.Helper()

	asm := &Assembler{}
	prog, err = asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, len(prog.Lines))
	assert.Equal(0, len(prog.Binary()))

	assert.Equal("0", asm.Equate["LINENO"])
	assert.Equal(fmt.Sprintf("%d", REGISTER_COUNT), asm.Equate["REGISTER_COUNT"])
	assert.Equal(fmt.Sprintf("%d", MEMORY_SIZE), asm.Equate["MEMORY_SIZE"])
	assert.Equal(fmt.Sprintf("%d", INSTRUCTION_WIDTH), asm.Equate["INSTRUCTION_WIDTH"])
}

func TestAssemblerBinary(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []string
		binary  []byte
	}){
		{"hex",
			[]string{"0x14 0x02", "0x34 0x17 ; store", "", "0xC0 0x0"},
			[]byte{0x14, 0x02, 0x34, 0x17, 0xC0, 0x00},
		},
		{"mnemonics",
			[]string{
				"; copy 0x34 to 0x17",
				"LOADVALUE 0x04 0x34",
				"STORE 0x04 0x17",
				"HALT",
			},
			[]byte{0x24, 0x34, 0x34, 0x17, 0xC0, 0x00},
		},
		{"lower_case",
			[]string{"loadaddr 0x04 0xA3", "halt"},
			[]byte{0x14, 0xA3, 0xC0, 0x00},
		},
		{"registers",
			[]string{"ADDINT r3 r4 rE", "ADDFLOAT R0 R1 R2", "MOVE rA r4"},
			[]byte{0x53, 0x4E, 0x60, 0x12, 0x40, 0xA4},
		},
		{"rst",
			[]string{"OR 0x0 0x1 0x2", "AND 0x3 0x4 0x5", "XOR 0x6 0x7 0x8"},
			[]byte{0x70, 0x12, 0x83, 0x45, 0x96, 0x78},
		},
		{"rotate",
			[]string{"ROTATE r4 3"},
			[]byte{0xA4, 0x03},
		},
		{"negative",
			[]string{"LOADVALUE r0 -1", "LOADVALUE r1 -128"},
			[]byte{0x20, 0xFF, 0x21, 0x80},
		},
		{"invert",
			[]string{".byte ~0 ~0x0F"},
			[]byte{0xFF, 0xF0},
		},
		{"char",
			[]string{".byte 'A' '\\n' 'z'"},
			[]byte{0x41, 0x0A, 0x7A},
		},
		{"equate",
			[]string{".equ COUNT 5", "LOADVALUE r1 COUNT"},
			[]byte{0x21, 0x05},
		},
		{"expression",
			[]string{".equ COUNT 5", "LOADVALUE r1 $(COUNT*2+1)", ".byte $(MEMORY_SIZE-1)"},
			[]byte{0x21, 0x0B, 0xFF},
		},
		{"lineno",
			[]string{"", ".byte LINENO", ".byte $(LINENO*2)"},
			[]byte{0x02, 0x06},
		},
		{"org",
			[]string{".byte 1", ".org 4", ".byte 2"},
			[]byte{0x01, 0x00, 0x00, 0x00, 0x02},
		},
		{"labels",
			[]string{
				"start:  LOADVALUE r0 0x00",
				"        JUMP r0 done",
				"        .byte 0xFF 0xFF",
				"done:   HALT",
				"        JUMP r0 start",
			},
			[]byte{0x20, 0x00, 0xB0, 0x06, 0xFF, 0xFF, 0xC0, 0x00, 0xB0, 0x00},
		},
		{"label_only_line",
			[]string{".org 0x10", "here:", ".byte here $(here+1)"},
			append(make([]byte, 0x10), 0x10, 0x11),
		},
		{"label_in_data",
			[]string{"JUMP r0 table", ".org 0x80", "table: .byte table"},
			append(append([]byte{0xB0, 0x80}, make([]byte, 0x7E)...), 0x80),
		},
	}

	for _, entry := range table {
		prog, err := assemble(t, entry.program...)
		if !assert.NoError(err, entry.name) {
			continue
		}
		assert.Equal(entry.binary, prog.Binary(), entry.name)
	}
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("BASE", "0x80")
	asm.Predefine("VALUE", "7")
	asm.Predefine("VALUE", "9")

	prog, err := asm.Parse(strings.NewReader(".org BASE\nLOADVALUE r2 VALUE"))
	assert.NoError(err)

	bin := prog.Binary()
	assert.Equal(0x82, len(bin))
	assert.Equal([]byte{0x22, 0x09}, bin[0x80:])
	assert.Equal(0x80, prog.Lines[1].Addr)
	assert.Equal([]string{"LOADVALUE", "r2", "9"}, prog.Lines[1].Words)
}

func TestAssemblerReuse(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	_, err := asm.Parse(strings.NewReader(".equ X 1\nHALT\na: HALT"))
	assert.NoError(err)
	assert.Equal(2, asm.Label["a"])

	prog, err := asm.Parse(strings.NewReader(".equ X 2\na: .byte X a"))
	assert.NoError(err)
	assert.Equal([]byte{0x02, 0x00}, prog.Binary())
}

func TestAssemblerFull(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t, ".org 0xFE", "HALT")
	assert.NoError(err)
	assert.Equal(MEMORY_SIZE, len(prog.Binary()))

	_, err = assemble(t, ".org 0xFE", "HALT", ".byte 0")
	assert.ErrorIs(err, ErrProgramTooLarge(0))

	_, err = assemble(t, strings.Repeat(".byte 0 0\n", MEMORY_SIZE/2+1))
	assert.ErrorIs(err, ErrProgramTooLarge(0))
}

func TestAssemblerInvalid(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		program []string
		err     error
		lineno  int
	}){
		{[]string{"NOPE r0"}, ErrInstructionInvalid, 1},
		{[]string{"HALT", "LOADVALUE r0"}, ErrOperandCount, 2},
		{[]string{"HALT r0"}, ErrOperandCount, 1},
		{[]string{"ADDINT r0 r1"}, ErrOperandCount, 1},
		{[]string{".byte"}, ErrOperandCount, 1},
		{[]string{".org"}, ErrOperandCount, 1},
		{[]string{"LOADVALUE r0 0x100"}, ErrOperandRange, 1},
		{[]string{"LOADVALUE r0 -129"}, ErrOperandRange, 1},
		{[]string{"MOVE r0 0x10"}, ErrOperandRange, 1},
		{[]string{"ROTATE r0 -1"}, ErrOperandRange, 1},
		{[]string{".org 0x10", ".org 0x08"}, ErrOperandRange, 2},
		{[]string{".org 0x101"}, ErrOperandRange, 1},
		{[]string{"MOVE rG r0"}, ErrParseValue("rG"), 1},
		{[]string{".byte banana!"}, ErrParseValue("banana!"), 1},
		{[]string{"", "", "JUMP r0 nowhere", "HALT"}, ErrLabelMissing("nowhere"), 3},
		{[]string{"a: HALT", "a: HALT"}, ErrLabelDuplicate, 2},
		{[]string{"1a: HALT"}, ErrLabelInvalid, 1},
		{[]string{".equ X"}, ErrEquateSyntax, 1},
		{[]string{".equ X 1", ".equ X 2"}, ErrEquateDuplicate, 2},
		{[]string{".byte $(1/)"}, ErrParseExpression("1/"), 1},
		{[]string{".byte $(\"text\")"}, ErrParseExpression("\"text\""), 1},
	}

	for _, entry := range table {
		text := strings.Join(entry.program, "\n")
		prog, err := assemble(t, entry.program...)
		assert.Nil(prog, text)
		assert.ErrorIs(err, entry.err, text)

		var syntax *ErrSyntax
		if assert.ErrorAs(err, &syntax, text) {
			assert.Equal(entry.lineno, syntax.LineNo, text)
		}
	}
}
