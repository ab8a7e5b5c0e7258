package brotli

// Static dictionary support. The format addresses a dictionary word whenever
// a back-reference reaches beyond the available history: the excess encodes
// a word index and a transform. The dictionary itself is not embedded in
// this package; it is provided by the caller via Decoder.SetStaticDictionary
// and treated as opaque word data plus a transform list.

const (
	minDictionaryWordLength = 4
	maxDictionaryWordLength = 24
)

// Dictionary describes a static dictionary: a flat byte array of words
// grouped by length, with 1<<SizeBits[n] words of each length n starting at
// Offsets[n], and the transform list that word references may apply.
type Dictionary struct {
	Data       []byte
	Offsets    [maxDictionaryWordLength + 1]uint32
	SizeBits   [maxDictionaryWordLength + 1]uint8
	Transforms []Transform
}

// word returns the dictionary word of the given length and index.
func (d *Dictionary) word(length, index int) []byte {
	off := int(d.Offsets[length]) + index*length
	return d.Data[off : off+length]
}

// TransformOp selects how a transform rewrites the dictionary word between
// its prefix and suffix.
type TransformOp uint8

const (
	// TransformIdentity copies the word unchanged.
	TransformIdentity TransformOp = iota
	// TransformUppercaseFirst uppercases the first character of the word,
	// interpreting the bytes as UTF-8.
	TransformUppercaseFirst
	// TransformUppercaseAll uppercases every character of the word.
	TransformUppercaseAll
	// TransformOmitFirst drops the first 1 to 9 bytes; TransformOmitFirst+k
	// drops k+1 bytes.
	TransformOmitFirst
	// TransformOmitLast drops the last 1 to 9 bytes; TransformOmitLast+k
	// drops k+1 bytes.
	TransformOmitLast TransformOp = TransformOmitFirst + 9
)

// Transform rewrites a dictionary word: the word is trimmed or recased per
// Op and wrapped in Prefix and Suffix.
type Transform struct {
	Prefix string
	Op     TransformOp
	Suffix string
}

// uppercase recases the UTF-8 character starting at p[0] in place and
// returns its encoded length. The recasing matches the format: a cheap
// bit flip rather than full Unicode case mapping.
func uppercase(p []byte) int {
	c := p[0]
	switch {
	case c < 192:
		if c >= 'a' && c <= 'z' {
			p[0] = c ^ 32
		}
		return 1
	case c < 224:
		if len(p) > 1 {
			p[1] ^= 32
		}
		return 2
	default:
		if len(p) > 2 {
			p[2] ^= 5
		}
		return 3
	}
}

// apply runs the transform over word and returns the resulting bytes.
func (t *Transform) apply(word []byte) []byte {
	switch {
	case t.Op >= TransformOmitLast:
		k := int(t.Op-TransformOmitLast) + 1
		if k > len(word) {
			k = len(word)
		}
		word = word[:len(word)-k]
	case t.Op >= TransformOmitFirst:
		k := int(t.Op-TransformOmitFirst) + 1
		if k > len(word) {
			k = len(word)
		}
		word = word[k:]
	}
	out := make([]byte, 0, len(t.Prefix)+len(word)+len(t.Suffix))
	out = append(out, t.Prefix...)
	n := len(out)
	out = append(out, word...)
	switch t.Op {
	case TransformUppercaseFirst:
		if n < len(out) {
			uppercase(out[n:])
		}
	case TransformUppercaseAll:
		for n < len(out) {
			n += uppercase(out[n:])
		}
	}
	return append(out, t.Suffix...)
}
