package cpu

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// parseHexByte parses a single 0xN or 0xNN token.
func parseHexByte(token string) (value byte, ok bool) {
	if len(token) < 3 || len(token) > 4 {
		return
	}
	if token[0] != '0' || (token[1] != 'x' && token[1] != 'X') {
		return
	}

	v64, err := strconv.ParseUint(token[2:], 16, 8)
	if err != nil {
		return
	}

	value = byte(v64)
	ok = true
	return
}

// ParseHex parses a program listing of whitespace separated hex bytes,
// written 0xN or 0xNN, over any number of lines. Blank lines are ignored.
// Any other token fails the whole parse.
func ParseHex(input io.Reader) (program []byte, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	for scanner.Scan() {
		line := scanner.Text()
		lineno += 1

		for _, token := range strings.Fields(line) {
			value, ok := parseHexByte(token)
			if !ok {
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: ErrParseByte}
				program = nil
				return
			}
			program = append(program, value)
		}
	}

	err = scanner.Err()
	if err != nil {
		program = nil
		return
	}

	if len(program) > MEMORY_SIZE {
		err = ErrProgramTooLarge(len(program))
		program = nil
		return
	}

	return
}
