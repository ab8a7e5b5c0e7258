package brotli

// Static tables of the format: the code-length code's own fixed prefix code,
// the insert-and-copy command decomposition, the insert, copy and block
// count ranges and the distance short-code recipes.

// The code-length code is itself prefix coded with a fixed code whose
// lengths are transmitted in a scrambled symbol order.
var codeLengthOrder = [codeLengthCodes]uint8{
	1, 2, 3, 4, 0, 5, 17, 6, 16, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// Fixed prefix code over the code lengths 0..5, indexed by the next 4 input
// bits. Entries give the decoded length value and the code's width.
var codeLengthCodeLengths = [16]uint8{2, 2, 2, 3, 2, 2, 2, 4, 2, 2, 2, 3, 2, 2, 2, 4}
var codeLengthCodeValues = [16]uint8{0, 4, 3, 2, 0, 4, 3, 1, 0, 4, 3, 2, 0, 4, 3, 5}

const (
	repeatPrevious = 16 // repeat last non-zero length, 2 extra bits
	repeatZero     = 17 // run of zero lengths, 3 extra bits
)

// prefixRange describes one symbol of a value code: the first value of the
// symbol's range and the number of extra bits selecting within it.
type prefixRange struct {
	offset uint32
	nbits  uint8
}

var insertLengthRanges = [24]prefixRange{
	{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0}, {5, 0}, {6, 1}, {8, 1},
	{10, 2}, {14, 2}, {18, 3}, {26, 3}, {34, 4}, {50, 4}, {66, 5}, {98, 5},
	{130, 6}, {194, 7}, {322, 8}, {578, 9}, {1090, 10}, {2114, 12},
	{6210, 14}, {22594, 24},
}

var copyLengthRanges = [24]prefixRange{
	{2, 0}, {3, 0}, {4, 0}, {5, 0}, {6, 0}, {7, 0}, {8, 0}, {9, 0},
	{10, 1}, {12, 1}, {14, 2}, {18, 2}, {22, 3}, {30, 3}, {38, 4}, {54, 4},
	{70, 5}, {102, 5}, {134, 6}, {198, 7}, {326, 8}, {582, 9},
	{1094, 10}, {2118, 24},
}

var blockCountRanges = [26]prefixRange{
	{1, 2}, {5, 2}, {9, 2}, {13, 2}, {17, 3}, {25, 3}, {33, 3}, {41, 3},
	{49, 4}, {65, 4}, {81, 4}, {97, 4}, {113, 5}, {145, 5}, {177, 5},
	{209, 5}, {241, 6}, {305, 6}, {369, 7}, {497, 8}, {753, 9}, {1265, 10},
	{2289, 11}, {4337, 12}, {8433, 13}, {16625, 24},
}

// Alphabet sizes of the fixed-alphabet codes.
const (
	numLiteralSymbols    = 256
	numCommandSymbols    = 704
	numBlockCountSymbols = 26
)

// An insert-and-copy command symbol splits into a 64-symbol cell selecting
// the base offsets of the insert and copy length codes; cells 0 and 1 also
// imply reuse of the last distance.
var cmdCellInsertOffset = [11]uint8{0, 0, 0, 0, 8, 8, 0, 16, 8, 16, 16}
var cmdCellCopyOffset = [11]uint8{0, 8, 0, 8, 0, 8, 16, 0, 16, 8, 16}

// unpackCommand decomposes a command symbol into its insert length code,
// copy length code and whether the distance is implicitly the last one used.
func unpackCommand(cmd uint32) (insCode, copyCode uint32, implicitDistance bool) {
	cell := cmd >> 6
	insCode = uint32(cmdCellInsertOffset[cell]) + (cmd>>3)&7
	copyCode = uint32(cmdCellCopyOffset[cell]) + cmd&7
	return insCode, copyCode, cell < 2
}

// Distance codes below 16 address the ring of recently used distances.
// Codes 1..15 pick an entry and add a small signed delta; code 0 repeats the
// last distance verbatim.
var distShortIndexOffset = [16]uint8{3, 2, 1, 0, 3, 3, 3, 3, 3, 3, 2, 2, 2, 2, 2, 2}
var distShortValueOffset = [16]int8{0, 0, 0, 0, -1, 1, -2, 2, -3, 3, -1, 1, -2, 2, -3, 3}

const numDistanceShortCodes = 16

// distanceAlphabetSize returns the size of the distance symbol alphabet for
// the given meta-block parameters.
func distanceAlphabetSize(npostfix, ndirect uint32) uint32 {
	return numDistanceShortCodes + ndirect + 48<<npostfix
}

const maxDistanceAlphabetSize = 16 + 120 + 48<<3
