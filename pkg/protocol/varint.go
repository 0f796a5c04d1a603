package protocol

import "errors"

// MaxVarIntLen is the longest legal encoding of a 32-bit VarInt.
const MaxVarIntLen = 5

var errVarIntTooBig = errors.New("varint is too big")

// PeekVarInt decodes the VarInt at the start of b without consuming anything.
// ok is false when b ends before the VarInt does; err is set when the
// encoding runs past MaxVarIntLen bytes.
func PeekVarInt(b []byte) (value int32, n int, ok bool, err error) {
	var result uint32
	for i := 0; i < MaxVarIntLen; i++ {
		if i >= len(b) {
			return 0, 0, false, nil
		}
		c := b[i]
		result |= uint32(c&0x7F) << (7 * i)
		if c&0x80 == 0 {
			return int32(result), i + 1, true, nil
		}
	}
	return 0, 0, false, errVarIntTooBig
}

// VarIntSize is the number of bytes v occupies on the wire.
func VarIntSize(v int32) int {
	u := uint32(v)
	n := 1
	for u >= 0x80 {
		u >>= 7
		n++
	}
	return n
}

func readVarInt(b []byte) (int32, int, error) {
	v, n, ok, err := PeekVarInt(b)
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return 0, 0, errors.New("truncated varint")
	}
	return v, n, nil
}
