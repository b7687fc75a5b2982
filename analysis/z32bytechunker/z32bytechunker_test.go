package z32bytechunker

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidJumpdestTable(t *testing.T) {
	// no PUSHDATA byte looks like a JUMPDEST
	assert.Empty(t, chunkifyCodeInvalidJumpdests([]byte{0x60, 0x01, 0x5b, 0x00}))

	// PUSH1 5b
	assert.Equal(t, []byte{0x00}, chunkifyCodeInvalidJumpdests([]byte{0x60, 0x5b}))

	// PUSH2 crossing into chunk 1, whose first instruction is at offset 2
	code := append(bytes.Repeat([]byte{0x00}, 31), 0x61, 0x5b, 0x00, 0x00)
	assert.Equal(t, []byte{1*33 + 2}, chunkifyCodeInvalidJumpdests(code))
}

func TestChunk(t *testing.T) {
	ch := New()
	assert.Equal(t, "32bytechunker", ch.Name())

	m := ch.Chunk(nil)
	assert.Zero(t, m.ChunkedSizeBytes)
	assert.Zero(t, m.Stems)

	// 1 byte table length + 62 bytes of code
	m = ch.Chunk(bytes.Repeat([]byte{0x00}, 62))
	require.Equal(t, 64, m.ChunkedSizeBytes)
	assert.Equal(t, 1, m.Stems)

	// 1 byte table length + 1 byte table + 63 bytes of code
	code := append([]byte{0x60, 0x5b}, bytes.Repeat([]byte{0x00}, 61)...)
	m = ch.Chunk(code)
	assert.Equal(t, 96, m.ChunkedSizeBytes)
}

func TestLeb128Encode(t *testing.T) {
	var buf [10]byte
	assert.Equal(t, 1, leb128Encode(buf[:], 0))
	assert.Equal(t, 1, leb128Encode(buf[:], 127))
	n := leb128Encode(buf[:], 300)
	assert.Equal(t, []byte{0xac, 0x02}, buf[:n])
}
