package wire

import (
	"errors"
	"fmt"
)

// ErrInvalidBlock is returned for a block option that cannot be decoded.
var ErrInvalidBlock = errors.New("invalid block option")

// MaxBlockNum is the largest block number a three-byte option can carry.
const MaxBlockNum = 1<<20 - 1

// Block is a decoded Block1 or Block2 option.
type Block struct {
	// Num is the block number.
	Num uint32

	// More is set when further blocks follow.
	More bool

	// SZX is the size exponent: the block size is 2^(SZX+4).
	SZX uint8
}

// Size returns the block size in bytes.
func (b Block) Size() int {
	return 1 << (b.SZX + 4)
}

// Offset returns the byte offset of the block.
func (b Block) Offset() int {
	return int(b.Num) * b.Size()
}

// Value returns the option value.
func (b Block) Value() uint32 {
	v := b.Num<<4 | uint32(b.SZX&0x7)
	if b.More {
		v |= 1 << 3
	}
	return v
}

// String returns the NUM/M/SIZE notation used in RFC 7959.
func (b Block) String() string {
	m := 0
	if b.More {
		m = 1
	}
	return fmt.Sprintf("%d/%d/%d", b.Num, m, b.Size())
}

// ParseBlock decodes a block option value. SZX 7 is reserved.
func ParseBlock(v uint32) (Block, error) {
	b := Block{
		Num:  v >> 4,
		More: v&(1<<3) != 0,
		SZX:  uint8(v & 0x7),
	}
	if b.SZX == 7 {
		return Block{}, fmt.Errorf("%w: reserved size exponent", ErrInvalidBlock)
	}
	if b.Num > MaxBlockNum {
		return Block{}, fmt.Errorf("%w: block number %d", ErrInvalidBlock, b.Num)
	}
	return b, nil
}

// SZXForSize returns the largest size exponent whose block size does not
// exceed size. Sizes below 16 map to 0.
func SZXForSize(size int) uint8 {
	var szx uint8
	for szx < 6 && 1<<(szx+5) <= size {
		szx++
	}
	return szx
}
