package tdf

import "math"

// Writer builds a TDF-encoded byte buffer. Methods append to an internal
// slice; Bytes returns the accumulated body.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

func (w *Writer) Bytes() []byte { return w.buf }
func (w *Writer) Len() int      { return len(w.buf) }

func (w *Writer) writeTagHeader(tag string, t ValueType) {
	packed := EncodeTag(tag)
	w.buf = append(w.buf, packed[0], packed[1], packed[2], byte(t))
}

func (w *Writer) WriteVarInt(tag string, v uint64) {
	w.writeTagHeader(tag, TypeVarInt)
	w.buf = encodeVarUint(w.buf, v)
}

// WriteInt writes a signed value using its two's-complement bit pattern.
func (w *Writer) WriteInt(tag string, v int64) {
	w.WriteVarInt(tag, uint64(v))
}

func (w *Writer) WriteString(tag string, s string) {
	w.writeTagHeader(tag, TypeString)
	w.writeRawString(s)
}

// writeRawString encodes "length (incl. NUL) || bytes || 0x00" with no tag
// header, used both for top-level strings and string list/map elements.
func (w *Writer) writeRawString(s string) {
	w.buf = encodeVarUint(w.buf, uint64(len(s)+1))
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
}

func (w *Writer) WriteBlob(tag string, b []byte) {
	w.writeTagHeader(tag, TypeBlob)
	w.buf = encodeVarUint(w.buf, uint64(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *Writer) WriteFloat(tag string, f float32) {
	w.writeTagHeader(tag, TypeFloat)
	bits := math.Float32bits(f)
	w.buf = append(w.buf, byte(bits>>24), byte(bits>>16), byte(bits>>8), byte(bits))
}

func (w *Writer) WritePair(tag string, p Pair) {
	w.writeTagHeader(tag, TypePair)
	w.buf = encodeVarUint(w.buf, p[0])
	w.buf = encodeVarUint(w.buf, p[1])
}

func (w *Writer) WriteTriple(tag string, t Triple) {
	w.writeTagHeader(tag, TypeTriple)
	w.buf = encodeVarUint(w.buf, t[0])
	w.buf = encodeVarUint(w.buf, t[1])
	w.buf = encodeVarUint(w.buf, t[2])
}

func (w *Writer) WriteIntList(tag string, vals []uint64) {
	w.writeTagHeader(tag, TypeIntList)
	w.buf = encodeVarUint(w.buf, uint64(len(vals)))
	for _, v := range vals {
		w.buf = encodeVarUint(w.buf, v)
	}
}

// GroupStart writes the tag header for a Group; the caller writes fields
// and then calls GroupEnd.
func (w *Writer) GroupStart(tag string) {
	w.writeTagHeader(tag, TypeGroup)
}

func (w *Writer) GroupEnd() {
	w.buf = append(w.buf, 0)
}

func (w *Writer) ListStart(tag string, elemType ValueType, count int) {
	w.writeTagHeader(tag, TypeList)
	w.buf = append(w.buf, byte(elemType))
	w.buf = encodeVarUint(w.buf, uint64(count))
}

func (w *Writer) MapStart(tag string, keyType, valType ValueType, count int) {
	w.writeTagHeader(tag, TypeMap)
	w.buf = append(w.buf, byte(keyType), byte(valType))
	w.buf = encodeVarUint(w.buf, uint64(count))
}

// WriteUnion writes a Union value: an unset union has variant 0x7F and no
// body; a set union is followed by a VALU-tagged group carrying the payload.
func (w *Writer) WriteUnion(tag string, u Union) {
	w.writeTagHeader(tag, TypeUnion)
	w.buf = append(w.buf, u.Variant)
	if u.Variant != UnsetUnionVariant && u.Value != nil {
		w.GroupStart("VALU")
		w.writeFieldsInline(u.Value.Fields)
		w.GroupEnd()
	}
}

// writeElement writes one element of a List or one key/value of a Map,
// with no tag header. Groups nested this way are prefixed with 0x02 per
// spec.md §4.1.
func (w *Writer) writeElement(v Value) {
	switch val := v.(type) {
	case VarInt:
		w.buf = encodeVarUint(w.buf, uint64(val))
	case Str:
		w.writeRawString(string(val))
	case Blob:
		w.buf = encodeVarUint(w.buf, uint64(len(val)))
		w.buf = append(w.buf, val...)
	case *Group:
		w.buf = append(w.buf, 0x02)
		w.writeFieldsInline(val.Fields)
		w.GroupEnd()
	case Group:
		w.buf = append(w.buf, 0x02)
		w.writeFieldsInline(val.Fields)
		w.GroupEnd()
	case Pair:
		w.buf = encodeVarUint(w.buf, val[0])
		w.buf = encodeVarUint(w.buf, val[1])
	case Triple:
		w.buf = encodeVarUint(w.buf, val[0])
		w.buf = encodeVarUint(w.buf, val[1])
		w.buf = encodeVarUint(w.buf, val[2])
	case Float32:
		bits := math.Float32bits(float32(val))
		w.buf = append(w.buf, byte(bits>>24), byte(bits>>16), byte(bits>>8), byte(bits))
	default:
		panic("tdf: unsupported list/map element type")
	}
}

func (w *Writer) WriteList(tag string, l List) {
	w.ListStart(tag, l.ElemType, len(l.Items))
	for _, it := range l.Items {
		w.writeElement(it)
	}
}

func (w *Writer) WriteMap(tag string, m Map) {
	w.MapStart(tag, m.KeyType, m.ValType, len(m.Pairs))
	for _, p := range m.Pairs {
		w.writeElement(p.Key)
		w.writeElement(p.Val)
	}
}

// writeFieldsInline writes a field sequence with no surrounding group
// header/terminator — used for packet bodies and (by GroupStart/GroupEnd
// callers) for group contents.
func (w *Writer) writeFieldsInline(fields []Field) {
	for _, f := range fields {
		w.WriteField(f.Tag, f.Value)
	}
}

// WriteField writes a single tagged field for any supported Value type.
func (w *Writer) WriteField(tag string, v Value) {
	switch val := v.(type) {
	case VarInt:
		w.WriteVarInt(tag, uint64(val))
	case Str:
		w.WriteString(tag, string(val))
	case Blob:
		w.WriteBlob(tag, val)
	case *Group:
		w.GroupStart(tag)
		w.writeFieldsInline(val.Fields)
		w.GroupEnd()
	case Group:
		w.GroupStart(tag)
		w.writeFieldsInline(val.Fields)
		w.GroupEnd()
	case List:
		w.WriteList(tag, val)
	case Map:
		w.WriteMap(tag, val)
	case Union:
		w.WriteUnion(tag, val)
	case IntList:
		w.WriteIntList(tag, []uint64(val))
	case Pair:
		w.WritePair(tag, val)
	case Triple:
		w.WriteTriple(tag, val)
	case Float32:
		w.WriteFloat(tag, float32(val))
	default:
		panic("tdf: unsupported field value type")
	}
}

// WriteFields writes a whole body (or group content) as a flat field list.
func (w *Writer) WriteFields(fields []Field) {
	w.writeFieldsInline(fields)
}
