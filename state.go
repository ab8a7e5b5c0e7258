package brotli

// The decoding state machine. Decoding is organized as phases that mirror
// the stream structure: stream header, meta-block header, the per-category
// block type setup, context maps, tree groups and the command loop. Each
// phase either completes, suspends for input with the bit reader rolled
// back to an item boundary, or suspends for output with the produced prefix
// already in the window.

const (
	minWindowBits = 10
	maxWindowBits = 24
	windowGap     = 16
)

const (
	phaseStreamHeader = iota
	phaseMetaBlockBegin
	phaseMetaBlockHeader
	phaseMetadataPadding
	phaseMetadataSkip
	phaseUncompressedPadding
	phaseUncompressed
	phaseBlockTypes
	phaseDistanceParams
	phaseContextModes
	phaseContextMapLit
	phaseContextMapDist
	phaseTreeGroups
	phaseCommandBegin
	phaseInsertLiterals
	phaseDistance
	phaseCopy
	phaseDictionaryWord
	phaseMetaBlockDone
	phaseStreamPadding
	phaseDone
	phaseErrored
)

// advance outcomes
const (
	stepMore = iota
	stepNeedInput
	stepNeedOutput
	stepDone
	stepFailed
)

// symbol categories of a meta-block
const (
	catLiteral = iota
	catCommand
	catDistance
)

// Decoder decompresses a brotli stream incrementally. It is driven by
// Decompress with caller-owned input and output buffers and keeps all
// progress internally, so the stream may be cut at arbitrary byte
// boundaries. The zero value is not ready for use; call NewDecoder.
type Decoder struct {
	br  bitReader
	win window

	customDict []byte
	dict       *Dictionary

	phase   int
	substep int
	err     error
	started bool

	wbits       uint32
	maxBackward int64

	isLast         bool
	isUncompressed bool
	isMetadata     bool
	metaRemaining  int64

	blocks   [3]blockDecoder
	category int

	npostfix uint32
	ndirect  uint32

	contextModes   []uint8
	contextMap     []uint8
	distContextMap []uint8
	cmr            contextMapReader
	numLitTrees    uint32
	numDistTrees   uint32

	litTables  []huffTable
	cmdTables  []huffTable
	distTables []huffTable
	hr         huffReader
	group      int
	treeIndex  int

	// command under execution
	distRB        [4]int32
	distRBIdx     int
	insertLen     int64
	copyLen       int64
	literalsLeft  int64
	distance      int64
	implicitDist  bool
	rbComp        int
	copyRemaining int64
	word          []byte
	wordOff       int

	scratch  [4096]byte
	totalOut int64
}

func (d *Decoder) fail(err error) int {
	d.err = err
	d.phase = phaseErrored
	debugf("decoder failed: %s", err)
	return stepFailed
}

// advance runs the phase the decoder is suspended in.
func (d *Decoder) advance() int {
	switch d.phase {
	case phaseStreamHeader:
		return d.readStreamHeader()
	case phaseMetaBlockBegin:
		return d.metaBlockBegin()
	case phaseMetaBlockHeader:
		return d.readMetaBlockHeader()
	case phaseMetadataPadding:
		return d.readPadding(phaseMetadataSkip)
	case phaseMetadataSkip:
		return d.skipMetadata()
	case phaseUncompressedPadding:
		return d.readPadding(phaseUncompressed)
	case phaseUncompressed:
		return d.copyUncompressed()
	case phaseBlockTypes:
		return d.readBlockTypes()
	case phaseDistanceParams:
		return d.readDistanceParams()
	case phaseContextModes:
		return d.readContextModes()
	case phaseContextMapLit:
		return d.readLiteralContextMap()
	case phaseContextMapDist:
		return d.readDistanceContextMap()
	case phaseTreeGroups:
		return d.readTreeGroups()
	case phaseCommandBegin:
		return d.readCommand()
	case phaseInsertLiterals:
		return d.insertLiterals()
	case phaseDistance:
		return d.readDistance()
	case phaseCopy:
		return d.copyLoop()
	case phaseDictionaryWord:
		return d.writeDictionaryWord()
	case phaseMetaBlockDone:
		return d.metaBlockDone()
	case phaseStreamPadding:
		return d.readStreamPadding()
	case phaseDone:
		return stepDone
	default:
		return stepFailed
	}
}

// readStreamHeader decodes the window size and sets up the history window,
// seeding the custom dictionary if one was provided.
func (d *Decoder) readStreamHeader() int {
	m := d.br.mark()
	b, ok := d.br.take(1)
	if !ok {
		return stepNeedInput
	}
	wbits := uint32(16)
	if b == 1 {
		n, ok := d.br.take(3)
		if !ok {
			d.br.reset(m)
			return stepNeedInput
		}
		switch {
		case n != 0:
			wbits = 17 + n
		default:
			n, ok = d.br.take(3)
			if !ok {
				d.br.reset(m)
				return stepNeedInput
			}
			switch {
			case n == 0:
				wbits = 17
			case n == 1:
				return d.fail(FormatError("reserved window size code"))
			default:
				wbits = 8 + n
			}
		}
	}
	d.wbits = wbits
	d.maxBackward = 1<<wbits - windowGap
	if err := d.win.init(1<<wbits, d.customDict); err != nil {
		return d.fail(err)
	}
	debugf("window bits %d", wbits)
	d.phase = phaseMetaBlockBegin
	return stepMore
}

func (d *Decoder) metaBlockBegin() int {
	d.isLast = false
	d.isUncompressed = false
	d.isMetadata = false
	d.metaRemaining = 0
	for i := range d.blocks {
		d.blocks[i].init(1)
	}
	d.category = 0
	d.substep = 0
	d.npostfix = 0
	d.ndirect = 0
	d.phase = phaseMetaBlockHeader
	return stepMore
}

// readMetaBlockHeader decodes ISLAST, the length encoding and the
// uncompressed flag as one atomic read.
func (d *Decoder) readMetaBlockHeader() int {
	m := d.br.mark()
	b, ok := d.br.take(1)
	if !ok {
		return stepNeedInput
	}
	d.isLast = b == 1
	if d.isLast {
		b, ok = d.br.take(1)
		if !ok {
			d.br.reset(m)
			return stepNeedInput
		}
		if b == 1 {
			// empty last meta-block
			d.phase = phaseStreamPadding
			return stepMore
		}
	}
	nib, ok := d.br.take(2)
	if !ok {
		d.br.reset(m)
		return stepNeedInput
	}
	if nib == 3 {
		d.isMetadata = true
		b, ok = d.br.take(1)
		if !ok {
			d.br.reset(m)
			return stepNeedInput
		}
		if b != 0 {
			return d.fail(FormatError("reserved metadata bit set"))
		}
		nBytes, ok := d.br.take(2)
		if !ok {
			d.br.reset(m)
			return stepNeedInput
		}
		var length int64
		for i := uint32(0); i < nBytes; i++ {
			v, ok := d.br.take(8)
			if !ok {
				d.br.reset(m)
				return stepNeedInput
			}
			if i+1 == nBytes && nBytes > 1 && v == 0 {
				return d.fail(FormatError("metadata length has empty trailing byte"))
			}
			length |= int64(v) << (8 * i)
		}
		// MSKIPLEN is stored minus one unless MSKIPBYTES is zero
		if nBytes > 0 {
			length++
		}
		d.metaRemaining = length
		d.phase = phaseMetadataPadding
		return stepMore
	}
	nibbles := nib + 4
	var length int64
	for i := uint32(0); i < nibbles; i++ {
		v, ok := d.br.take(4)
		if !ok {
			d.br.reset(m)
			return stepNeedInput
		}
		if i+1 == nibbles && nibbles > 4 && v == 0 {
			return d.fail(FormatError("meta-block length has empty trailing nibble"))
		}
		length |= int64(v) << (4 * i)
	}
	d.metaRemaining = length + 1
	if !d.isLast {
		b, ok = d.br.take(1)
		if !ok {
			d.br.reset(m)
			return stepNeedInput
		}
		d.isUncompressed = b == 1
	}
	debugf("meta-block len=%d last=%t uncompressed=%t",
		d.metaRemaining, d.isLast, d.isUncompressed)
	if d.isUncompressed {
		d.phase = phaseUncompressedPadding
	} else {
		d.phase = phaseBlockTypes
	}
	return stepMore
}

// readPadding discards the bits up to the next byte boundary and verifies
// they are zero.
func (d *Decoder) readPadding(next int) int {
	if !d.br.alignByte() {
		return d.fail(FormatError("non-zero padding bits"))
	}
	d.phase = next
	d.substep = 0
	return stepMore
}

func (d *Decoder) skipMetadata() int {
	for d.metaRemaining > 0 {
		n := len(d.scratch)
		if int64(n) > d.metaRemaining {
			n = int(d.metaRemaining)
		}
		k := d.br.copyBytes(d.scratch[:n])
		d.metaRemaining -= int64(k)
		if k < n {
			return stepNeedInput
		}
	}
	d.phase = phaseMetaBlockDone
	return stepMore
}

func (d *Decoder) copyUncompressed() int {
	for d.metaRemaining > 0 {
		n := d.win.spare()
		if n == 0 {
			return stepNeedOutput
		}
		if n > len(d.scratch) {
			n = len(d.scratch)
		}
		if int64(n) > d.metaRemaining {
			n = int(d.metaRemaining)
		}
		k := d.br.copyBytes(d.scratch[:n])
		if k == 0 {
			return stepNeedInput
		}
		d.win.write(d.scratch[:k])
		d.metaRemaining -= int64(k)
	}
	d.phase = phaseMetaBlockDone
	return stepMore
}

// readBlockTypes decodes, per symbol category, the number of block types
// and, when there is more than one, the block type code, the block count
// code and the first block's length.
func (d *Decoder) readBlockTypes() int {
	for d.category < 3 {
		b := &d.blocks[d.category]
		switch d.substep {
		case 0:
			v, ok := readVarLenUint8(&d.br)
			if !ok {
				return stepNeedInput
			}
			b.init(v + 1)
			if b.numTypes == 1 {
				d.category++
				continue
			}
			d.hr.init(b.numTypes + 2)
			d.substep = 1
		case 1:
			done, err := d.hr.read(&d.br, &b.typeTable)
			if err != nil {
				return d.fail(err)
			}
			if !done {
				return stepNeedInput
			}
			d.hr.init(numBlockCountSymbols)
			d.substep = 2
		case 2:
			done, err := d.hr.read(&d.br, &b.countTable)
			if err != nil {
				return d.fail(err)
			}
			if !done {
				return stepNeedInput
			}
			d.substep = 3
		default:
			n, ok := b.readCount(&d.br)
			if !ok {
				return stepNeedInput
			}
			b.remaining = n
			d.category++
			d.substep = 0
		}
	}
	d.phase = phaseDistanceParams
	return stepMore
}

func (d *Decoder) readDistanceParams() int {
	m := d.br.mark()
	p, ok := d.br.take(2)
	if !ok {
		return stepNeedInput
	}
	nd, ok := d.br.take(4)
	if !ok {
		d.br.reset(m)
		return stepNeedInput
	}
	d.npostfix = p
	d.ndirect = nd << p
	d.contextModes = growBytes(d.contextModes, int(d.blocks[catLiteral].numTypes))
	d.substep = 0
	d.phase = phaseContextModes
	return stepMore
}

func (d *Decoder) readContextModes() int {
	for d.substep < len(d.contextModes) {
		v, ok := d.br.take(2)
		if !ok {
			return stepNeedInput
		}
		d.contextModes[d.substep] = uint8(v)
		d.substep++
	}
	d.contextMap = growBytes(d.contextMap,
		numLiteralContexts*int(d.blocks[catLiteral].numTypes))
	d.cmr.init(d.contextMap)
	d.phase = phaseContextMapLit
	return stepMore
}

func (d *Decoder) readLiteralContextMap() int {
	n, done, err := d.cmr.read(&d.br)
	if err != nil {
		return d.fail(err)
	}
	if !done {
		return stepNeedInput
	}
	d.numLitTrees = n
	d.distContextMap = growBytes(d.distContextMap,
		numDistanceContexts*int(d.blocks[catDistance].numTypes))
	d.cmr.init(d.distContextMap)
	d.phase = phaseContextMapDist
	return stepMore
}

func (d *Decoder) readDistanceContextMap() int {
	n, done, err := d.cmr.read(&d.br)
	if err != nil {
		return d.fail(err)
	}
	if !done {
		return stepNeedInput
	}
	d.numDistTrees = n
	d.litTables = growTables(d.litTables, int(d.numLitTrees))
	d.cmdTables = growTables(d.cmdTables, int(d.blocks[catCommand].numTypes))
	d.distTables = growTables(d.distTables, int(d.numDistTrees))
	d.group = 0
	d.treeIndex = 0
	d.substep = 0
	d.phase = phaseTreeGroups
	return stepMore
}

func (d *Decoder) treeGroup(g int) (tables []huffTable, alphabetSize uint32) {
	switch g {
	case 0:
		return d.litTables, numLiteralSymbols
	case 1:
		return d.cmdTables, numCommandSymbols
	default:
		return d.distTables, distanceAlphabetSize(d.npostfix, d.ndirect)
	}
}

func (d *Decoder) readTreeGroups() int {
	for d.group < 3 {
		tables, alphabetSize := d.treeGroup(d.group)
		if d.treeIndex >= len(tables) {
			d.group++
			d.treeIndex = 0
			continue
		}
		if d.substep == 0 {
			d.hr.init(alphabetSize)
			d.substep = 1
		}
		done, err := d.hr.read(&d.br, &tables[d.treeIndex])
		if err != nil {
			return d.fail(err)
		}
		if !done {
			return stepNeedInput
		}
		d.treeIndex++
		d.substep = 0
	}
	d.phase = phaseCommandBegin
	d.substep = 0
	return stepMore
}

// readCommand decodes one insert-and-copy command: the command symbol and
// both length extra bits, atomically. A pending block switch is handled as
// a separate resumable step.
func (d *Decoder) readCommand() int {
	b := &d.blocks[catCommand]
	if d.substep == 0 {
		if b.numTypes > 1 && b.remaining == 0 {
			if !b.switchType(&d.br) {
				return stepNeedInput
			}
		}
		d.substep = 1
	}
	m := d.br.mark()
	sym, ok := d.cmdTables[b.blockType()].decodeSymbol(&d.br)
	if !ok {
		return stepNeedInput
	}
	insCode, copyCode, implicit := unpackCommand(sym)
	ir := insertLengthRanges[insCode]
	cr := copyLengthRanges[copyCode]
	ie, ok := d.br.take(uint(ir.nbits))
	if !ok {
		d.br.reset(m)
		return stepNeedInput
	}
	ce, ok := d.br.take(uint(cr.nbits))
	if !ok {
		d.br.reset(m)
		return stepNeedInput
	}
	if b.numTypes > 1 {
		b.remaining--
	}
	d.insertLen = int64(ir.offset) + int64(ie)
	d.copyLen = int64(cr.offset) + int64(ce)
	d.implicitDist = implicit
	d.literalsLeft = d.insertLen
	d.phase = phaseInsertLiterals
	return stepMore
}

func (d *Decoder) insertLiterals() int {
	b := &d.blocks[catLiteral]
	for d.literalsLeft > 0 {
		if b.numTypes > 1 && b.remaining == 0 {
			if !b.switchType(&d.br) {
				return stepNeedInput
			}
		}
		bt := b.blockType()
		ctx := literalContext(d.contextModes[bt], d.win.byteAt(1), d.win.byteAt(2))
		tree := &d.litTables[d.contextMap[bt*numLiteralContexts+ctx]]
		v, n := d.br.peekAvail()
		sym, bits, ok := tree.peekSymbol(v, n)
		if !ok {
			return stepNeedInput
		}
		// the code is consumed only once the literal is placed, so a full
		// window suspends without losing the symbol
		if !d.win.writeByte(byte(sym)) {
			return stepNeedOutput
		}
		d.br.drop(bits)
		if b.numTypes > 1 {
			b.remaining--
		}
		d.literalsLeft--
		d.metaRemaining--
	}
	if d.metaRemaining <= 0 {
		d.phase = phaseMetaBlockDone
		return stepMore
	}
	d.phase = phaseDistance
	d.substep = 0
	return stepMore
}

// readDistance resolves the distance of the current command, either
// implicitly from the recent-distance cache or by decoding a distance
// symbol with its extra bits.
func (d *Decoder) readDistance() int {
	d.rbComp = 0
	if d.implicitDist {
		d.distRBIdx--
		d.distance = int64(d.distRB[d.distRBIdx&3])
		d.rbComp = 1
		return d.beginCopy()
	}
	b := &d.blocks[catDistance]
	if d.substep == 0 {
		if b.numTypes > 1 && b.remaining == 0 {
			if !b.switchType(&d.br) {
				return stepNeedInput
			}
		}
		d.substep = 1
	}
	m := d.br.mark()
	ctx := distanceContext(d.copyLen)
	tree := &d.distTables[d.distContextMap[b.blockType()*numDistanceContexts+ctx]]
	sym, ok := tree.decodeSymbol(&d.br)
	if !ok {
		return stepNeedInput
	}
	switch {
	case sym == 0:
		d.distRBIdx--
		d.distance = int64(d.distRB[d.distRBIdx&3])
		d.rbComp = 1
	case sym < numDistanceShortCodes:
		i := (d.distRBIdx + int(distShortIndexOffset[sym])) & 3
		v := int64(d.distRB[i]) + int64(distShortValueOffset[sym])
		if v <= 0 {
			return d.fail(FormatError("distance short code yields no distance"))
		}
		d.distance = v
	default:
		numDirect := numDistanceShortCodes + d.ndirect
		if sym < numDirect {
			d.distance = int64(sym - numDistanceShortCodes + 1)
		} else {
			distval := sym - numDirect
			postfix := distval & (1<<d.npostfix - 1)
			distval >>= d.npostfix
			nbits := uint(distval>>1 + 1)
			offset := (2 + distval&1) << nbits
			extra, ok := d.br.take(nbits)
			if !ok {
				d.br.reset(m)
				return stepNeedInput
			}
			d.distance = int64(d.ndirect) +
				int64((offset-4+extra)<<d.npostfix) + int64(postfix) + 1
		}
	}
	if b.numTypes > 1 {
		b.remaining--
	}
	return d.beginCopy()
}

// beginCopy classifies the distance against the available history: a match
// copy from the window or a static dictionary word.
func (d *Decoder) beginCopy() int {
	maxDist := d.win.history()
	if maxDist > d.maxBackward {
		maxDist = d.maxBackward
	}
	if d.distance <= maxDist {
		d.distRB[d.distRBIdx&3] = int32(d.distance)
		d.distRBIdx++
		d.metaRemaining -= d.copyLen
		d.copyRemaining = d.copyLen
		d.phase = phaseCopy
		return stepMore
	}

	// The distance reaches beyond the history: a static dictionary word.
	d.distRBIdx += d.rbComp
	if d.copyLen < minDictionaryWordLength || d.copyLen > maxDictionaryWordLength {
		return d.fail(newFormatError("dictionary reference with length %d", d.copyLen))
	}
	if d.dict == nil {
		return d.fail(&ReferenceError{Distance: d.distance, Available: maxDist})
	}
	sizeBits := uint(d.dict.SizeBits[d.copyLen])
	if sizeBits == 0 {
		return d.fail(newFormatError("no dictionary words of length %d", d.copyLen))
	}
	addr := d.distance - maxDist - 1
	index := int(addr & (1<<sizeBits - 1))
	tIdx := addr >> sizeBits
	if tIdx >= int64(len(d.dict.Transforms)) {
		return d.fail(newFormatError("dictionary transform %d out of range", tIdx))
	}
	d.word = d.dict.Transforms[tIdx].apply(d.dict.word(int(d.copyLen), index))
	d.wordOff = 0
	d.metaRemaining -= int64(len(d.word))
	d.phase = phaseDictionaryWord
	return stepMore
}

func (d *Decoder) copyLoop() int {
	for d.copyRemaining > 0 {
		n := d.win.copyMatch(d.distance, int(d.copyRemaining))
		if n == 0 {
			return stepNeedOutput
		}
		d.copyRemaining -= int64(n)
	}
	return d.commandDone()
}

func (d *Decoder) writeDictionaryWord() int {
	for d.wordOff < len(d.word) {
		n := d.win.write(d.word[d.wordOff:])
		if n == 0 {
			return stepNeedOutput
		}
		d.wordOff += n
	}
	return d.commandDone()
}

func (d *Decoder) commandDone() int {
	if d.metaRemaining <= 0 {
		d.phase = phaseMetaBlockDone
	} else {
		d.phase = phaseCommandBegin
		d.substep = 0
	}
	return stepMore
}

func (d *Decoder) metaBlockDone() int {
	if d.metaRemaining < 0 {
		return d.fail(FormatError("meta-block length exceeded"))
	}
	if d.isLast {
		d.phase = phaseStreamPadding
	} else {
		d.phase = phaseMetaBlockBegin
	}
	return stepMore
}

func (d *Decoder) readStreamPadding() int {
	if !d.br.alignByte() {
		return d.fail(FormatError("non-zero padding bits"))
	}
	debugf("stream complete, %d bytes decoded", d.win.pos())
	d.phase = phaseDone
	return stepDone
}

// growBytes returns a zeroed byte slice of length n, reusing the capacity
// of p.
func growBytes(p []uint8, n int) []uint8 {
	if cap(p) < n {
		return make([]uint8, n)
	}
	p = p[:n]
	for i := range p {
		p[i] = 0
	}
	return p
}

func growTables(p []huffTable, n int) []huffTable {
	if cap(p) < n {
		return make([]huffTable, n)
	}
	return p[:n]
}
