// Package z32bytechunker measures code split in plain 32-byte chunks, with a
// table of chunks starting inside PUSHDATA with a JUMPDEST looking byte stored
// in front of the code.
package z32bytechunker

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/core/vm"
	"github.com/jsign/contract-sizes/analysis"
)

const name = "32bytechunker"

type Chunker struct{}

func New() *Chunker {
	return &Chunker{}
}

func (c *Chunker) Name() string {
	return name
}

func (c *Chunker) Chunk(code []byte) analysis.ChunkerMetrics {
	if len(code) == 0 {
		return analysis.ChunkerMetrics{ChunkerName: name}
	}
	// The invalid JUMPDEST table sits in front of the code, prefixed by its
	// leb128 encoded length.
	table := chunkifyCodeInvalidJumpdests(code)
	var buf [binary.MaxVarintLen64]byte
	tableSizeEncoded := leb128Encode(buf[:], len(table))

	// Chunked size is aligned to 32 bytes.
	size := tableSizeEncoded + len(table) + len(code)
	if size%32 != 0 {
		size += 32 - size%32
	}
	return analysis.ChunkerMetrics{
		ChunkerName:      name,
		ChunkedSizeBytes: size,
		Stems:            analysis.CodeStems(size / 32),
	}
}

// jumpdestTable lists, for every chunk where a JUMPDEST byte appears inside
// PUSHDATA, the offset of the first instruction of that chunk. Chunk numbers
// are delta encoded.
type jumpdestTable struct {
	encoded   []byte
	lastChunk int
	buf       [binary.MaxVarintLen64]byte
}

func (t *jumpdestTable) add(chunk int, firstInstruction int) {
	e := (chunk-t.lastChunk)*33 + firstInstruction
	t.encoded = append(t.encoded, t.buf[:leb128Encode(t.buf[:], e)]...)
	t.lastChunk = chunk
}

// chunkifyCodeInvalidJumpdests returns the table of invalid jumpdests in the
// code. The code itself is sliced in plain 32-byte chunks.
func chunkifyCodeInvalidJumpdests(code []byte) []byte {
	table := jumpdestTable{encoded: make([]byte, 0, 32)}

	var (
		added       bool
		validOffset int
	)
	for pc := 0; pc < len(code); {
		if pc%32 == 0 {
			validOffset = 0
			added = false
		}
		op := vm.OpCode(code[pc])
		if op < vm.PUSH1 || op > vm.PUSH32 {
			pc++
			continue
		}
		pushDataEnd := pc + int(op-vm.PUSH1) + 1
		for pc++; pc <= pushDataEnd && pc < len(code); {
			if pc%32 == 0 {
				validOffset = pushDataEnd%32 + 1
				added = false
			}
			if vm.OpCode(code[pc]) == vm.JUMPDEST && !added {
				table.add(pc/32, validOffset)
				added = true
				// one entry per chunk, skip to the next chunk or the end of the data
				pc = min(pc/32*32+32, pushDataEnd+1)
			} else {
				pc++
			}
		}
	}
	return table.encoded
}

func leb128Encode(buf []byte, value int) int {
	return binary.PutUvarint(buf, uint64(value))
}
