package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRequestPadsAndTruncatesOp(t *testing.T) {
	req := NewRequest("add", 1, 2, 3, "/tmp/r.fifo")
	assert.Equal(t, [OpSize]byte{'a', 'd', 'd', 0}, req.Op)

	long := NewRequest("division", 1, 2, 3, "/tmp/r.fifo")
	assert.Equal(t, [OpSize]byte{'d', 'i', 'v', 'i'}, long.Op)
}

func TestOpEqualIgnoresPadding(t *testing.T) {
	req := NewRequest("mul", 1, 2, 3, "/tmp/r.fifo")
	req.Op[3] = 0xAB

	assert.True(t, req.OpEqual("mul"))
	assert.False(t, req.OpEqual("add"))
	assert.False(t, req.OpEqual("mult"), "only 3-letter codes compare")
	assert.Equal(t, "mul", req.OpString())
}

func TestValidOp(t *testing.T) {
	for _, op := range []string{OpAdd, OpSub, OpMul, OpDiv} {
		assert.True(t, ValidOp(op), op)
	}
	for _, op := range []string{"mod", "ADD", "", "addx"} {
		assert.False(t, ValidOp(op), op)
	}
}
