package gilbertmoore

import (
	"github.com/fumin/gilbertmoore/bitstream"
	"github.com/pkg/errors"
)

// A Bitstream is a packed sequence of Len bits, most significant bit first within each byte.
// The unused low-order bits of the last byte are zero.
type Bitstream struct {
	Packed []byte
	Len    int
}

func (bs Bitstream) String() string {
	b := make([]byte, bs.Len)
	for i := range b {
		b[i] = '0' + (bs.Packed[i/8]>>uint(7-i%8))&1
	}
	return string(b)
}

// Encode concatenates the codewords of symbols in order.
// It fails with ErrUnknownSymbol if a symbol is not in table, in which case no bitstream is returned.
func Encode(symbols []Symbol, table *CodeTable) (Bitstream, error) {
	var w bitstream.Writer
	for i, sym := range symbols {
		e, ok := table.Lookup(sym)
		if !ok {
			return Bitstream{}, errors.Wrapf(ErrUnknownSymbol, "symbol %q at position %d", sym, i)
		}
		w.WriteBits(e.Code.Bits, e.Code.Len)
	}

	log.Debugf("encoded %d symbols into %d bits", len(symbols), w.Len())
	return Bitstream{Packed: w.Bytes(), Len: w.Len()}, nil
}

// Decode splits bs into codewords of table and returns their symbols.
//
// The bitstream is walked one bit at a time down the decoding trie of table,
// emitting a symbol and restarting from the root at every leaf.
// If the bits run out inside a codeword, or a bit sequence is not the prefix of any codeword,
// Decode fails with ErrIncompleteCodeword and returns no symbols.
// Decode expects that table is built from the same probability table used in Encode.
func Decode(bs Bitstream, table *CodeTable) ([]Symbol, error) {
	r, err := bitstream.NewReader(bs.Packed, bs.Len)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	var symbols []Symbol
	node, start := 0, 0
	for r.Remaining() > 0 {
		bit, err := r.ReadBit()
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		next := table.trie[node].child[bit]
		if next == 0 {
			return nil, errors.Wrapf(ErrIncompleteCodeword, "bit offset %d: no codeword starting at bit offset %d continues with %d", r.Offset()-1, start, bit)
		}
		node = int(next)
		if leaf := table.trie[node].leaf; leaf != 0 {
			symbols = append(symbols, table.entries[leaf-1].Symbol)
			node, start = 0, r.Offset()
		}
	}
	if node != 0 {
		return nil, errors.Wrapf(ErrIncompleteCodeword, "bitstream ends %d bits into the codeword starting at bit offset %d", bs.Len-start, start)
	}

	log.Debugf("decoded %d bits into %d symbols", bs.Len, len(symbols))
	return symbols, nil
}
