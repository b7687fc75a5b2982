// Package decoder attributes every byte of a compiled bytecode to the source
// that produced it, driven by the compiler's instruction level source map.
package decoder

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/jsign/contract-sizes/analysis"
)

// ErrInconsistent is returned when the source map, the bytecode and the
// declared tail don't add up.
var ErrInconsistent = errors.New("inconsistent bytecode")

// Result of decoding one bytecode.
type Result struct {
	// CodeLength is the length in bytes of the code without the tail.
	CodeLength int
	Tally      analysis.Tally
}

// state is carried from one source map entry to the next.
type state struct {
	pos    int // cursor, in hex characters
	source analysis.SourceID
	mapped bool
}

// step decodes the instruction at the cursor for the given source map entry.
// It returns the next state and the length of the instruction in bytes.
func (s state) step(entry string, code string) (state, int, error) {
	if fields := strings.Split(entry, ":"); len(fields) >= 3 && fields[2] != "" {
		id, err := strconv.Atoi(fields[2])
		if err != nil {
			return s, 0, errors.Wrapf(ErrInconsistent, "bad source id %q at offset %d", fields[2], s.pos/2)
		}
		s.source = analysis.SourceID(id)
	}
	op, ok := opcodeAt(code, s.pos)
	if !ok {
		return s, 0, errors.Wrapf(ErrInconsistent, "no opcode at offset %d", s.pos/2)
	}
	n := 1
	if op >= vm.PUSH1 && op <= vm.PUSH32 {
		n += int(op-vm.PUSH1) + 1
	}
	s.pos += n * 2
	s.mapped = true
	return s, n, nil
}

// Decode walks bytecode along sourceMap and tallies bytes per source id.
// tailHexLen is the length, in hex characters, of the data appended after the
// code (the runtime image for creation code, zero for runtime code). When
// allowMetadata is set, a trailing length-prefixed metadata block is expected.
func Decode(sourceMap, bytecode string, tailHexLen int, allowMetadata bool) (Result, error) {
	code := strings.TrimPrefix(bytecode, "0x")
	if len(code)%2 != 0 {
		return Result{}, errors.Wrapf(ErrInconsistent, "odd bytecode length %d", len(code))
	}
	if tailHexLen < 0 || tailHexLen%2 != 0 {
		return Result{}, errors.Wrapf(ErrInconsistent, "bad tail length %d", tailHexLen)
	}

	tally := make(analysis.Tally)
	s := state{source: analysis.NonMappedID}
	if sourceMap != "" {
		for _, entry := range strings.Split(sourceMap, ";") {
			next, n, err := s.step(entry, code)
			if err != nil {
				return Result{}, err
			}
			tally.Add(next.source, n)
			s = next
		}
	}

	unknown := len(code) - s.pos
	if unknown > tailHexLen && unknown >= 2 {
		// terminating INVALID of an assert
		if op, ok := opcodeAt(code, s.pos); ok && op == vm.INVALID {
			tally.Add(s.source, 1)
			unknown -= 2
		}
	}
	switch {
	case unknown > tailHexLen:
		unknown -= tailHexLen
		if allowMetadata && unknown >= 4 {
			size, err := strconv.ParseUint(code[len(code)-4:], 16, 16)
			if err != nil {
				return Result{}, errors.Wrapf(ErrInconsistent, "bad metadata length %q", code[len(code)-4:])
			}
			metadataLen := int(size) + 2
			if metadataLen*2 > unknown {
				return Result{}, errors.Wrapf(ErrInconsistent, "metadata size %d exceeds %d remaining bytes", metadataLen, unknown/2)
			}
			unknown -= metadataLen * 2
			tally.Add(analysis.MetadataID, metadataLen)
		}
		rest := analysis.NonCodeID
		if !s.mapped {
			rest = analysis.NonMappedID
		}
		tally.Add(rest, unknown/2)
	case unknown < tailHexLen:
		return Result{}, errors.Wrapf(ErrInconsistent, "bytecode size: %d < %d", unknown/2, tailHexLen/2)
	}
	return Result{CodeLength: (len(code) - tailHexLen) / 2, Tally: tally}, nil
}

func opcodeAt(code string, pos int) (vm.OpCode, bool) {
	if pos < 0 || pos+2 > len(code) {
		return 0, false
	}
	b, err := strconv.ParseUint(code[pos:pos+2], 16, 8)
	if err != nil {
		return 0, false
	}
	return vm.OpCode(b), true
}
