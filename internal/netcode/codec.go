package netcode

import "fmt"

// AppendIndex appends the one- or two-byte encoding of index to b.
//
// Precondition: 0 <= index <= MaxIndex (panics otherwise).
// Postcondition: appends one byte iff index < 128.
func AppendIndex(b []byte, index int) []byte {
	if index < 0 || index > MaxIndex {
		panic(fmt.Sprintf("netcode: AppendIndex: index %d out of range [0, %d]", index, MaxIndex))
	}
	if index < 0x80 {
		return append(b, byte(index))
	}
	return append(b, 0x80|byte(index&0x7F), byte(index>>7))
}

// DecodeIndex decodes one index from the front of b.
//
// Postcondition: n is the number of bytes consumed, or 0 if b is truncated.
func DecodeIndex(b []byte) (index, n int) {
	if len(b) == 0 {
		return 0, 0
	}
	index = int(b[0])
	if index&0x80 == 0 {
		return index, 1
	}
	if len(b) < 2 {
		return 0, 0
	}
	return index&0x7F | int(b[1])<<7, 2
}
