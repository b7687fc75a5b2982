package z31bytechunker

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChunk(t *testing.T) {
	ch := New()
	for _, tt := range []struct {
		codeLen int
		size    int
		stems   int
	}{
		{0, 0, 0},
		{1, 32, 1},
		{31, 32, 1},
		{32, 64, 1},
		{128 * 31, 128 * 32, 1},
		{128*31 + 1, 129 * 32, 2},
		{24576, 793 * 32, 4},
	} {
		m := ch.Chunk(bytes.Repeat([]byte{0x5b}, tt.codeLen))
		assert.Equal(t, "31bytechunker", m.ChunkerName)
		assert.Equal(t, tt.size, m.ChunkedSizeBytes, "code length %d", tt.codeLen)
		assert.Equal(t, tt.stems, m.Stems, "code length %d", tt.codeLen)
	}
}
