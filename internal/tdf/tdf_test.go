package tdf

import (
	"bytes"
	"reflect"
	"testing"
)

func roundTripField(t *testing.T, tag string, v Value) Value {
	t.Helper()
	w := NewWriter()
	w.WriteField(tag, v)
	r := NewReader(w.Bytes())
	f, err := r.ReadField()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if f.Tag != PadTagTrim(tag) {
		t.Fatalf("tag round-trip: got %q want %q", f.Tag, tag)
	}
	return f.Value
}

// PadTagTrim mirrors how a short tag round-trips: NUL padding then trimmed.
func PadTagTrim(tag string) string {
	return DecodeTag(EncodeTag(tag))
}

func TestTagRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteField("BSDK", Str("3.15.6.0"))
	w.WriteField("CLTP", VarInt(0))
	w.WriteField("LOC", VarInt(0x656E4E5A))

	r := NewReader(w.Bytes())
	fields, err := r.ReadFields()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	if fields[0].Tag != "BSDK" || fields[0].Value != Str("3.15.6.0") {
		t.Fatalf("field 0 mismatch: %+v", fields[0])
	}
	if fields[1].Tag != "CLTP" || fields[1].Value != VarInt(0) {
		t.Fatalf("field 1 mismatch: %+v", fields[1])
	}
	if fields[2].Tag != "LOC" || fields[2].Value != VarInt(0x656E4E5A) {
		t.Fatalf("field 2 mismatch: %+v", fields[2])
	}
}

func TestVarIntBoundaries(t *testing.T) {
	values := []uint64{0, 63, 64, 127, 128, 16383, 16384, 1 << 31, (1 << 63) - 1, ^uint64(0)}
	for _, v := range values {
		w := NewWriter()
		w.WriteField("TEST", VarInt(v))
		r := NewReader(w.Bytes())
		f, err := r.ReadField()
		if err != nil {
			t.Fatalf("decode %d: %v", v, err)
		}
		if f.Value != VarInt(v) {
			t.Fatalf("round trip %d: got %v", v, f.Value)
		}
	}
}

func TestUnionUnset(t *testing.T) {
	w := NewWriter()
	w.WriteField("ADDR", Union{Variant: UnsetUnionVariant})
	got := w.Bytes()

	packedTag := EncodeTag("ADDR")
	want := []byte{packedTag[0], packedTag[1], packedTag[2], byte(TypeUnion), UnsetUnionVariant}
	if !bytes.Equal(got, want) {
		t.Fatalf("unset union bytes: got % X want % X", got, want)
	}

	r := NewReader(got)
	f, err := r.ReadField()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	u, ok := f.Value.(Union)
	if !ok || u.Variant != UnsetUnionVariant || u.Value != nil {
		t.Fatalf("expected unset union, got %+v", f.Value)
	}
}

func TestUnionSet(t *testing.T) {
	payload := &Group{Fields: []Field{
		{Tag: "HOST", Value: Str("example.test")},
		{Tag: "PORT", Value: VarInt(14219)},
	}}
	v := roundTripField(t, "ADDR", Union{Variant: 0x02, Value: payload})
	u := v.(Union)
	if u.Variant != 0x02 {
		t.Fatalf("variant mismatch: %d", u.Variant)
	}
	host, _ := u.Value.Get("HOST")
	if host != Str("example.test") {
		t.Fatalf("host mismatch: %v", host)
	}
}

func TestGroupRoundTrip(t *testing.T) {
	g := &Group{Fields: []Field{
		{Tag: "AAAA", Value: VarInt(1)},
		{Tag: "BBBB", Value: Str("hello")},
	}}
	v := roundTripField(t, "GRUP", g)
	got := v.(*Group)
	if len(got.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(got.Fields))
	}
}

func TestListRoundTrip(t *testing.T) {
	l := List{ElemType: TypeVarInt, Items: []Value{VarInt(1), VarInt(2), VarInt(3)}}
	v := roundTripField(t, "LIST", l)
	got := v.(List)
	if !reflect.DeepEqual(got.Items, l.Items) {
		t.Fatalf("list mismatch: %+v", got)
	}
}

func TestMapRoundTrip(t *testing.T) {
	m := Map{
		KeyType: TypeString,
		ValType: TypeVarInt,
		Pairs: []MapPair{
			{Key: Str("a"), Val: VarInt(1)},
			{Key: Str("b"), Val: VarInt(2)},
		},
	}
	v := roundTripField(t, "MAP0", m)
	got := v.(Map)
	if !reflect.DeepEqual(got, m) {
		t.Fatalf("map mismatch: got %+v want %+v", got, m)
	}
}

func TestFloatRoundTrip(t *testing.T) {
	v := roundTripField(t, "FLT0", Float32(3.14159))
	if v.(Float32) != Float32(3.14159) {
		t.Fatalf("float mismatch: %v", v)
	}
}

func TestPacketFrameRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteField("TEST", Str("payload"))

	p := &Packet{
		Component: 0x0019,
		Command:   0x0001,
		Error:     0,
		QType:     QTypeRequest,
		Seq:       42,
		Body:      w.Bytes(),
	}
	encoded := EncodeFrame(p)
	decoded, err := ReadFrame(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if decoded.Component != p.Component || decoded.Command != p.Command ||
		decoded.Error != p.Error || decoded.QType != p.QType || decoded.Seq != p.Seq {
		t.Fatalf("header mismatch: %+v", decoded)
	}
	if !bytes.Equal(decoded.Body, p.Body) {
		t.Fatalf("body mismatch: got % X want % X", decoded.Body, p.Body)
	}
}

func TestPacketFrameExtendedLength(t *testing.T) {
	body := make([]byte, 0x10000+37)
	p := &Packet{Component: 1, Command: 2, QType: QTypeResponse, Seq: 7, Body: body}
	encoded := EncodeFrame(p)
	if len(encoded) != 14+len(body) {
		t.Fatalf("expected 14-byte extended header, got frame of %d bytes", len(encoded))
	}
	decoded, err := ReadFrame(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded.Body) != len(body) {
		t.Fatalf("body length mismatch: got %d want %d", len(decoded.Body), len(body))
	}
	if !decoded.QType.Extended() {
		t.Fatalf("expected extended-length bit set on decode")
	}
}

func TestReadFrameTruncated(t *testing.T) {
	_, err := ReadFrame(bytes.NewReader([]byte{0, 5, 0, 0}))
	if err == nil {
		t.Fatalf("expected error for truncated frame")
	}
}

func TestCodecErrorUnknownListElementType(t *testing.T) {
	buf := []byte{0, 0, 0, byte(TypeList), 0x0F, 0x00}
	r := NewReader(buf)
	if _, err := r.ReadField(); err == nil {
		t.Fatalf("expected error for unknown list element type")
	}
}

func TestCodecErrorUnterminatedGroup(t *testing.T) {
	w := NewWriter()
	w.writeTagHeader("GRUP", TypeGroup)
	w.WriteField("INNR", VarInt(1))
	// no GroupEnd() — terminator missing
	r := NewReader(w.Bytes())
	if _, err := r.ReadField(); err == nil {
		t.Fatalf("expected error for missing group terminator")
	}
}
