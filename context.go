package brotli

// Literal context modeling. Each literal block type carries one of four
// context modes that map the previous two output bytes to a 6-bit context
// ID, which the context map then translates into a prefix code index.

const (
	contextLSB6 = iota
	contextMSB6
	contextUTF8
	contextSigned
)

const (
	numLiteralContexts  = 64
	numDistanceContexts = 4
)

// Lookup tables for the UTF8 and signed context modes. The UTF8 mode
// combines a class of the last byte (multiples of 4, with separate classes
// for vowels, other letters, digits and individual punctuation characters)
// with a coarse class of the byte before it. The signed mode buckets both
// bytes by magnitude.
var (
	contextLUT0 [256]uint8 // UTF8 mode, last byte
	contextLUT1 [256]uint8 // UTF8 mode, second last byte
	contextLUT2 [256]uint8 // signed mode, both bytes
)

func init() {
	for i := 0; i < 256; i++ {
		contextLUT0[i] = utf8LastByteClass(byte(i))
		contextLUT1[i] = utf8PrevByteClass(byte(i))
		contextLUT2[i] = signedByteClass(byte(i))
	}
}

func utf8LastByteClass(c byte) uint8 {
	switch {
	case c >= 192: // UTF8 lead bytes
		return 2 + c&1
	case c >= 128: // UTF8 continuation bytes
		return c & 1
	case c == '\t' || c == '\n' || c == '\r':
		return 4
	case c < ' ' || c == 127:
		return 0
	case c >= '0' && c <= '9':
		return 44
	case c >= 'a' && c <= 'z':
		if isVowel(c) {
			return 56
		}
		return 60
	case c >= 'A' && c <= 'Z':
		if isVowel(c | 0x20) {
			return 48
		}
		return 52
	}
	// Remaining ASCII punctuation, with a handful of characters in classes
	// of their own.
	switch c {
	case ' ':
		return 8
	case '"', '\'':
		return 16
	case '(', '[', '<', '{':
		return 24
	case ')', ']', '>', '}':
		return 28
	case ',', ':', ';':
		return 32
	case '.':
		return 36
	case '=':
		return 40
	case '%':
		return 20
	default:
		return 12
	}
}

func isVowel(c byte) bool {
	return c == 'a' || c == 'e' || c == 'i' || c == 'o' || c == 'u'
}

func utf8PrevByteClass(c byte) uint8 {
	switch {
	case c >= 'a' && c <= 'z':
		return 3
	case c >= 'A' && c <= 'Z' || c >= '0' && c <= '9':
		return 2
	case c >= ' ' && c < 127:
		return 1
	default:
		return 0
	}
}

func signedByteClass(c byte) uint8 {
	switch {
	case c == 0:
		return 0
	case c < 16:
		return 1
	case c < 64:
		return 2
	case c < 128:
		return 3
	case c < 192:
		return 4
	case c < 240:
		return 5
	case c < 255:
		return 6
	default:
		return 7
	}
}

// literalContext computes the context ID for the next literal from the two
// preceding output bytes under the given mode.
func literalContext(mode uint8, p1, p2 byte) uint32 {
	switch mode {
	case contextLSB6:
		return uint32(p1 & 0x3f)
	case contextMSB6:
		return uint32(p1 >> 2)
	case contextUTF8:
		return uint32(contextLUT0[p1] | contextLUT1[p2])
	default:
		return uint32(contextLUT2[p1])<<3 | uint32(contextLUT2[p2])
	}
}

// distanceContext buckets a copy length into one of the four distance
// contexts.
func distanceContext(copyLen int64) uint32 {
	if copyLen > 4 {
		return 3
	}
	return uint32(copyLen - 2)
}
