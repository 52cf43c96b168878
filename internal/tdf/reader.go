package tdf

import "math"

// Reader decodes a TDF-encoded byte buffer.
type Reader struct {
	data []byte
	off  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

func (r *Reader) Offset() int    { return r.off }
func (r *Reader) Remaining() int { return len(r.data) - r.off }

func (r *Reader) readByte() (byte, error) {
	if r.off >= len(r.data) {
		return 0, newErr(r.off, "byte", "unexpected end of buffer")
	}
	b := r.data[r.off]
	r.off++
	return b, nil
}

func (r *Reader) readBytes(n int) ([]byte, error) {
	if r.off+n > len(r.data) {
		return nil, newErr(r.off, "bytes", "unexpected end of buffer")
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) readVarUint() (uint64, error) {
	v, n, err := decodeVarUint(r.data, r.off)
	if err != nil {
		return 0, err
	}
	r.off += n
	return v, nil
}

// readRawString reads "VarInt length (incl NUL) || bytes || 0x00".
func (r *Reader) readRawString() (string, error) {
	length, err := r.readVarUint()
	if err != nil {
		return "", err
	}
	if length == 0 {
		return "", newErr(r.off, "String", "zero-length string (missing NUL terminator)")
	}
	raw, err := r.readBytes(int(length))
	if err != nil {
		return "", err
	}
	if raw[len(raw)-1] != 0 {
		return "", newErr(r.off, "String", "string not NUL-terminated within its length")
	}
	return string(raw[:len(raw)-1]), nil
}

func (r *Reader) readTagHeader() (string, ValueType, error) {
	b, err := r.readBytes(4)
	if err != nil {
		return "", 0, err
	}
	tag := DecodeTag([3]byte{b[0], b[1], b[2]})
	t := ValueType(b[3])
	if !t.Valid() {
		return "", 0, newErr(r.off-1, "ValueType", "unknown value type byte")
	}
	return tag, t, nil
}

func (r *Reader) readFloat() (Float32, error) {
	b, err := r.readBytes(4)
	if err != nil {
		return 0, err
	}
	bits := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	return Float32(math.Float32frombits(bits)), nil
}

// readValueBody reads the payload for an already-identified type (tag
// header, if any, already consumed).
func (r *Reader) readValueBody(t ValueType) (Value, error) {
	switch t {
	case TypeVarInt:
		v, err := r.readVarUint()
		return VarInt(v), err
	case TypeString:
		s, err := r.readRawString()
		return Str(s), err
	case TypeBlob:
		length, err := r.readVarUint()
		if err != nil {
			return nil, err
		}
		raw, err := r.readBytes(int(length))
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(raw))
		copy(out, raw)
		return Blob(out), nil
	case TypeGroup:
		g, err := r.readGroupBody()
		return g, err
	case TypeList:
		return r.readListBody()
	case TypeMap:
		return r.readMapBody()
	case TypeUnion:
		return r.readUnionBody()
	case TypeIntList:
		return r.readIntListBody()
	case TypePair:
		a, err := r.readVarUint()
		if err != nil {
			return nil, err
		}
		b, err := r.readVarUint()
		if err != nil {
			return nil, err
		}
		return Pair{a, b}, nil
	case TypeTriple:
		a, err := r.readVarUint()
		if err != nil {
			return nil, err
		}
		b, err := r.readVarUint()
		if err != nil {
			return nil, err
		}
		c, err := r.readVarUint()
		if err != nil {
			return nil, err
		}
		return Triple{a, b, c}, nil
	case TypeFloat:
		return r.readFloat()
	default:
		return nil, newErr(r.off, "ValueType", "unhandled value type")
	}
}

// readGroupBody reads fields until the 0x00 terminator byte.
func (r *Reader) readGroupBody() (*Group, error) {
	var fields []Field
	for {
		if r.off >= len(r.data) {
			return nil, newErr(r.off, "Group", "group missing terminator")
		}
		if r.data[r.off] == 0 {
			r.off++
			return &Group{Fields: fields}, nil
		}
		f, err := r.ReadField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
}

// readElement reads one List item or Map key/value of the given type, with
// no tag header. A Group element nested in a list/map is prefixed with 0x02.
func (r *Reader) readElement(t ValueType) (Value, error) {
	switch t {
	case TypeVarInt:
		v, err := r.readVarUint()
		return VarInt(v), err
	case TypeString:
		s, err := r.readRawString()
		return Str(s), err
	case TypeBlob:
		length, err := r.readVarUint()
		if err != nil {
			return nil, err
		}
		raw, err := r.readBytes(int(length))
		if err != nil {
			return nil, err
		}
		out := make([]byte, len(raw))
		copy(out, raw)
		return Blob(out), nil
	case TypeGroup:
		marker, err := r.readByte()
		if err != nil {
			return nil, err
		}
		if marker != 0x02 {
			return nil, newErr(r.off-1, "0x02", "missing group-in-list marker byte")
		}
		return r.readGroupBody()
	case TypePair:
		a, err := r.readVarUint()
		if err != nil {
			return nil, err
		}
		b, err := r.readVarUint()
		return Pair{a, b}, err
	case TypeTriple:
		a, err := r.readVarUint()
		if err != nil {
			return nil, err
		}
		b, err := r.readVarUint()
		if err != nil {
			return nil, err
		}
		c, err := r.readVarUint()
		return Triple{a, b, c}, err
	case TypeFloat:
		return r.readFloat()
	default:
		return nil, newErr(r.off, "ValueType", "unsupported list/map element type")
	}
}

func (r *Reader) readListBody() (List, error) {
	elemByte, err := r.readByte()
	if err != nil {
		return List{}, err
	}
	elemType := ValueType(elemByte)
	if !elemType.Valid() {
		return List{}, newErr(r.off-1, "ValueType", "unknown list element type")
	}
	count, err := r.readVarUint()
	if err != nil {
		return List{}, err
	}
	items := make([]Value, 0, count)
	for i := uint64(0); i < count; i++ {
		v, err := r.readElement(elemType)
		if err != nil {
			return List{}, err
		}
		items = append(items, v)
	}
	return List{ElemType: elemType, Items: items}, nil
}

func (r *Reader) readMapBody() (Map, error) {
	kb, err := r.readByte()
	if err != nil {
		return Map{}, err
	}
	vb, err := r.readByte()
	if err != nil {
		return Map{}, err
	}
	keyType := ValueType(kb)
	valType := ValueType(vb)
	if !keyType.Valid() || !valType.Valid() {
		return Map{}, newErr(r.off-2, "ValueType", "unknown map key/value type")
	}
	count, err := r.readVarUint()
	if err != nil {
		return Map{}, err
	}
	pairs := make([]MapPair, 0, count)
	for i := uint64(0); i < count; i++ {
		k, err := r.readElement(keyType)
		if err != nil {
			return Map{}, err
		}
		v, err := r.readElement(valType)
		if err != nil {
			return Map{}, err
		}
		pairs = append(pairs, MapPair{Key: k, Val: v})
	}
	return Map{KeyType: keyType, ValType: valType, Pairs: pairs}, nil
}

func (r *Reader) readUnionBody() (Union, error) {
	variant, err := r.readByte()
	if err != nil {
		return Union{}, err
	}
	if variant == UnsetUnionVariant {
		return Union{Variant: variant}, nil
	}
	tag, t, err := r.readTagHeader()
	if err != nil {
		return Union{}, err
	}
	if tag != "VALU" || t != TypeGroup {
		return Union{}, newErr(r.off, "VALU group", "union variant set without VALU body")
	}
	g, err := r.readGroupBody()
	if err != nil {
		return Union{}, err
	}
	return Union{Variant: variant, Value: g}, nil
}

func (r *Reader) readIntListBody() (IntList, error) {
	count, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	out := make(IntList, 0, count)
	for i := uint64(0); i < count; i++ {
		v, err := r.readVarUint()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ReadField reads one tagged field: header then value body.
func (r *Reader) ReadField() (Field, error) {
	tag, t, err := r.readTagHeader()
	if err != nil {
		return Field{}, err
	}
	v, err := r.readValueBody(t)
	if err != nil {
		return Field{}, err
	}
	return Field{Tag: tag, Value: v}, nil
}

// ReadFields reads a flat field sequence until the buffer is exhausted —
// used for packet bodies, which have no terminator of their own.
func (r *Reader) ReadFields() ([]Field, error) {
	var fields []Field
	for r.Remaining() > 0 {
		f, err := r.ReadField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// Body is a decoded packet body: an ordered, tag-addressable field list.
type Body struct {
	Fields []Field
}

func (b *Body) Get(tag string) (Value, bool) {
	for _, f := range b.Fields {
		if f.Tag == tag {
			return f.Value, true
		}
	}
	return nil, false
}

func DecodeBody(data []byte) (*Body, error) {
	r := NewReader(data)
	fields, err := r.ReadFields()
	if err != nil {
		return nil, err
	}
	return &Body{Fields: fields}, nil
}
