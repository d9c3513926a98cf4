package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramDebug(t *testing.T) {
	assert := assert.New(t)

	prog, err := assemble(t,
		"LOADVALUE r1 0x01",
		".org 0x10",
		"loop: ADDINT r2 r2 r1",
		"      JUMP r0 loop",
	)
	assert.NoError(err)

	table := [](struct {
		addr   int
		lineno int
		index  int
	}){
		{0x00, 1, 0},
		{0x01, 1, 1},
		{0x10, 3, 0},
		{0x11, 3, 1},
		{0x12, 4, 0},
		{0x13, 4, 1},
	}

	for _, entry := range table {
		dbg := prog.Debug(entry.addr)
		if assert.NotNil(dbg.Line, "0x%02X", entry.addr) {
			assert.Equal(entry.lineno, dbg.LineNo, "0x%02X", entry.addr)
			assert.Equal(entry.index, dbg.Index, "0x%02X", entry.addr)
		}
	}

	for _, addr := range []int{-1, 0x02, 0x0F, 0x14, MEMORY_SIZE} {
		dbg := prog.Debug(addr)
		assert.Nil(dbg.Line, "0x%02X", addr)
	}
}

func TestProgramBinary(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{}
	assert.Nil(prog.Binary())

	prog = &Program{
		Lines: []Line{
			{LineNo: 1, Addr: 0, Bytes: []byte{0x20, 0x01}},
			{LineNo: 2, Addr: 4},
			{LineNo: 3, Addr: 4, Bytes: []byte{0xC0, 0x00}},
		},
	}
	assert.Equal([]byte{0x20, 0x01, 0x00, 0x00, 0xC0, 0x00}, prog.Binary())
}

func TestProgramBytes(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Lines: []Line{
			{Addr: 0x00, Bytes: []byte{0x01, 0x02}},
			{Addr: 0x40, Bytes: []byte{0x03}},
			{Addr: 0x80, Bytes: []byte{0x04}},
		},
	}

	var addrs []int
	var values []byte
	for addr, value := range prog.Bytes() {
		addrs = append(addrs, addr)
		values = append(values, value)
		if addr == 0x40 {
			break
		}
	}

	assert.Equal([]int{0x00, 0x01, 0x40}, addrs)
	assert.Equal([]byte{0x01, 0x02, 0x03}, values)
}
