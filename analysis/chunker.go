package analysis

import "github.com/holiman/uint256"

// ChunkerMetrics is the verkle code-chunking footprint of a runtime image.
type ChunkerMetrics struct {
	ChunkerName      string
	ChunkedSizeBytes int
	// Stems is the number of distinct tree stems the code chunks live under.
	Stems int
}

type Chunker interface {
	Name() string
	Chunk(code []byte) ChunkerMetrics
}

var (
	codeOffset      = uint256.NewInt(128)
	verkleNodeWidth = uint256.NewInt(256)
)

// CodeChunkIndex returns the tree index and the sub index a code chunk is
// stored at. The first 128 chunks share the account header stem.
func CodeChunkIndex(chunk *uint256.Int) (*uint256.Int, byte) {
	var (
		chunkOffset            = new(uint256.Int).Add(codeOffset, chunk)
		treeIndex, subIndexMod = new(uint256.Int).DivMod(chunkOffset, verkleNodeWidth, new(uint256.Int))
	)
	return treeIndex, byte(subIndexMod.Uint64())
}

// CodeStems returns the number of tree stems touched when storing numChunks
// code chunks.
func CodeStems(numChunks int) int {
	var (
		stems = make(map[uint256.Int]struct{})
		one   = uint256.NewInt(1)
		end   = uint256.NewInt(uint64(max(numChunks, 0)))
	)
	for chunk := new(uint256.Int); chunk.Lt(end); chunk.Add(chunk, one) {
		treeIndex, _ := CodeChunkIndex(chunk)
		stems[*treeIndex] = struct{}{}
	}
	return len(stems)
}
