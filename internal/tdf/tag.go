package tdf

// ValueType is the type code stored in the byte following a packed tag. 11
// variants exist, so the full byte is significant, not just its low bits.
type ValueType byte

const (
	TypeVarInt ValueType = 0x0
	TypeString ValueType = 0x1
	TypeBlob   ValueType = 0x2
	TypeGroup  ValueType = 0x3
	TypeList   ValueType = 0x4
	TypeMap    ValueType = 0x5
	TypeUnion  ValueType = 0x6
	TypeIntList ValueType = 0x7
	TypePair   ValueType = 0x8
	TypeTriple ValueType = 0x9
	TypeFloat  ValueType = 0xA
)

func (t ValueType) Valid() bool {
	return t <= TypeFloat
}

func (t ValueType) String() string {
	switch t {
	case TypeVarInt:
		return "VarInt"
	case TypeString:
		return "String"
	case TypeBlob:
		return "Blob"
	case TypeGroup:
		return "Group"
	case TypeList:
		return "List"
	case TypeMap:
		return "Map"
	case TypeUnion:
		return "Union"
	case TypeIntList:
		return "IntList"
	case TypePair:
		return "Pair"
	case TypeTriple:
		return "Triple"
	case TypeFloat:
		return "Float"
	default:
		return "Unknown"
	}
}

// encodeTagChar maps one ASCII tag character down to the 6 bits the wire
// format stores for it: 0x00 passes through as 0 (padding), everything else
// is offset by 0x20 and masked to 6 bits.
func encodeTagChar(c byte) byte {
	if c == 0 {
		return 0
	}
	return (c - 0x20) & 0x3F
}

func decodeTagChar(b byte) byte {
	if b == 0 {
		return 0
	}
	return b + 0x20
}

// EncodeTag packs a (≤4 byte, NUL-padded) ASCII tag into the 3-byte field
// the wire format uses: the 6 most significant bits of each of the four
// characters concatenated into 24 bits.
func EncodeTag(tag string) [3]byte {
	var in [4]byte
	for i := 0; i < 4 && i < len(tag); i++ {
		in[i] = tag[i]
	}
	c0 := encodeTagChar(in[0])
	c1 := encodeTagChar(in[1])
	c2 := encodeTagChar(in[2])
	c3 := encodeTagChar(in[3])

	var out [3]byte
	out[0] = (c0 << 2) | (c1 >> 4)
	out[1] = (c1 << 4) | (c2 >> 2)
	out[2] = (c2 << 6) | c3
	return out
}

// DecodeTag is the inverse of EncodeTag, returning the NUL-padded 4-char tag.
func DecodeTag(b [3]byte) string {
	c0 := decodeTagChar((b[0] >> 2) & 0x3F)
	c1 := decodeTagChar(((b[0] & 0x3) << 4) | ((b[1] >> 4) & 0xF))
	c2 := decodeTagChar(((b[1] & 0xF) << 2) | ((b[2] >> 6) & 0x3))
	c3 := decodeTagChar(b[2] & 0x3F)

	out := [4]byte{c0, c1, c2, c3}
	n := 4
	for n > 0 && out[n-1] == 0 {
		n--
	}
	return string(out[:n])
}

// PadTag right-pads a tag to exactly 4 bytes with NUL, truncating if longer.
func PadTag(tag string) string {
	if len(tag) >= 4 {
		return tag[:4]
	}
	b := make([]byte, 4)
	copy(b, tag)
	return string(b)
}
