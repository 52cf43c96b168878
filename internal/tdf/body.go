package tdf

// EncodeBody serializes a flat field list as a packet body.
func EncodeBody(fields []Field) []byte {
	w := NewWriter()
	w.WriteFields(fields)
	return w.Bytes()
}
