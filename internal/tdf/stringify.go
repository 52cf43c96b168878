package tdf

import (
	"fmt"
	"strings"
)

// Stringify renders a decoded packet body as an indented debug tree, used
// for trace logging around the router (see gsession package).
func Stringify(p *Packet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "component=0x%04X command=0x%04X error=0x%04X qtype=0x%02X seq=%d {\n",
		p.Component, p.Command, p.Error, p.QType.Kind(), p.Seq)

	body, err := DecodeBody(p.Body)
	if err != nil {
		fmt.Fprintf(&sb, "  <malformed body: %v>\n", err)
		sb.WriteString("}")
		return sb.String()
	}
	writeFields(&sb, body.Fields, 1)
	sb.WriteString("}")
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func writeFields(sb *strings.Builder, fields []Field, depth int) {
	for _, f := range fields {
		indent(sb, depth)
		fmt.Fprintf(sb, "%s: ", f.Tag)
		writeValue(sb, f.Value, depth)
		sb.WriteString("\n")
	}
}

func writeValue(sb *strings.Builder, v Value, depth int) {
	switch val := v.(type) {
	case VarInt:
		fmt.Fprintf(sb, "%d", uint64(val))
	case Str:
		fmt.Fprintf(sb, "%q", string(val))
	case Blob:
		fmt.Fprintf(sb, "<%d bytes>", len(val))
	case *Group:
		sb.WriteString("{\n")
		writeFields(sb, val.Fields, depth+1)
		indent(sb, depth)
		sb.WriteString("}")
	case List:
		fmt.Fprintf(sb, "[%s x%d]", val.ElemType, len(val.Items))
	case Map:
		fmt.Fprintf(sb, "{%s->%s x%d}", val.KeyType, val.ValType, len(val.Pairs))
	case Union:
		if val.Variant == UnsetUnionVariant {
			sb.WriteString("Union(unset)")
		} else {
			fmt.Fprintf(sb, "Union(%d)", val.Variant)
		}
	case IntList:
		fmt.Fprintf(sb, "IntList x%d", len(val))
	case Pair:
		fmt.Fprintf(sb, "(%d,%d)", val[0], val[1])
	case Triple:
		fmt.Fprintf(sb, "(%d,%d,%d)", val[0], val[1], val[2])
	case Float32:
		fmt.Fprintf(sb, "%g", float32(val))
	default:
		sb.WriteString("<unknown>")
	}
}
