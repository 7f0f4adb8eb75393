package sqlite

// The templates.config column holds a protobuf message whose first three
// fields are length-delimited strings: question format, answer format, and
// browser question format. Rather than pull in a protobuf stack for three
// strings, decode just enough of the wire format here.

// decodeTemplateConfig extracts (front, back, browserQuestion) from a
// template config blob. Unknown or malformed trailing data is ignored.
func decodeTemplateConfig(config []byte) (front, back, browser string) {
	fields := map[uint64]string{}
	i := 0
	for i < len(config) {
		tag, n := readVarint(config[i:])
		if n == 0 {
			break
		}
		i += n
		fieldNum := tag >> 3
		wireType := tag & 0x7

		switch wireType {
		case 0: // varint
			_, n := readVarint(config[i:])
			if n == 0 {
				return fields[1], fields[2], fields[3]
			}
			i += n
		case 1: // 64-bit
			i += 8
		case 2: // length-delimited
			length, n := readVarint(config[i:])
			if n == 0 {
				return fields[1], fields[2], fields[3]
			}
			i += n
			if i+int(length) > len(config) {
				return fields[1], fields[2], fields[3]
			}
			if fieldNum >= 1 && fieldNum <= 3 {
				fields[fieldNum] = string(config[i : i+int(length)])
			}
			i += int(length)
		case 5: // 32-bit
			i += 4
		default:
			return fields[1], fields[2], fields[3]
		}
	}
	return fields[1], fields[2], fields[3]
}

// readVarint decodes a protobuf varint, returning the value and the number
// of bytes consumed (0 on truncated input).
func readVarint(b []byte) (uint64, int) {
	var v uint64
	for i := 0; i < len(b) && i < 10; i++ {
		v |= uint64(b[i]&0x7f) << (7 * i)
		if b[i]&0x80 == 0 {
			return v, i + 1
		}
	}
	return 0, 0
}
