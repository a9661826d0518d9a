// Package gilbertmoore provides an implementation of the Gilbert-Moore prefix code.
// Given an ordered alphabet with known probabilities, Build assigns every symbol a
// codeword taken from the binary expansion of the midpoint of its cumulative probability
// interval, using one bit more than the information-theoretic minimum.
// The extra bit makes the code prefix-free for any symbol order, so the table order
// read from the probability source is kept as is.
//
// Encode and Decode turn a symbol sequence into a packed bitstream and back.
// The decoder rebuilds the same code table from the same probability source:
// the table is never transmitted, and all construction arithmetic is exact,
// so both sides derive identical codewords.
//
// Below is an example of using the command line tools:
//    go run encode/main.go -p testdata/abc.txt testdata/abc_message.txt > msg.gmc
//    go run decode/main.go -p testdata/abc.txt msg.gmc > msg.txt
//    diff testdata/abc_message.txt msg.txt
//
// Reference:
// E. N. Gilbert and E. F. Moore, Variable-Length Binary Encodings, Bell System Technical Journal 38 (1959), 933-967.
package gilbertmoore

import (
	"math/big"
	"strings"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

// Records of this package below WARNING are dropped until the program installs
// its own backend with logging.SetBackend, which also resets the module levels.
var log = logging.MustGetLogger("gilbertmoore")

func init() {
	logging.SetLevel(logging.WARNING, "gilbertmoore")
}

// MaxCodeLen is the length in bits of the longest representable codeword.
const MaxCodeLen = 64

// A Codeword is a sequence of Len bits, stored in the low-order bits of Bits with the first bit most significant.
type Codeword struct {
	Bits uint64
	Len  int
}

// Bit returns the i'th bit of the codeword, counting from the first.
func (c Codeword) Bit(i int) int {
	return int(c.Bits>>uint(c.Len-1-i)) & 1
}

// HasPrefix reports whether p is a prefix of c. Every codeword is a prefix of itself.
func (c Codeword) HasPrefix(p Codeword) bool {
	if p.Len > c.Len {
		return false
	}
	return c.Bits>>uint(c.Len-p.Len) == p.Bits
}

func (c Codeword) String() string {
	var b strings.Builder
	for i := 0; i < c.Len; i++ {
		b.WriteByte('0' + byte(c.Bit(i)))
	}
	return b.String()
}

// A CodeTableEntry is the codeword assignment of one symbol.
type CodeTableEntry struct {
	Symbol Symbol
	Prob   float64
	// Q is the midpoint of the symbol's cumulative probability interval, rounded to float64.
	// Codewords are derived from the exact value.
	Q    float64
	Code Codeword
}

// trieNode is a node of the decoding trie.
// Children are indices into CodeTable.trie, 0 meaning absent; the root is never a child.
// leaf is the entry index plus one for leaves, and 0 for inner nodes.
type trieNode struct {
	child [2]int32
	leaf  int32
}

// A CodeTable maps symbols to codewords and codewords back to symbols.
// A CodeTable is immutable and safe for concurrent use.
type CodeTable struct {
	entries []CodeTableEntry
	index   map[Symbol]int
	trie    []trieNode
}

// Build derives the Gilbert-Moore code of pt.
//
// For the i'th entry in table order, with S the sum of the preceding probabilities,
// the codeword is the first L = ceil(log2(1/p)) + 1 bits of the binary expansion of Q = S + p/2.
// All of this is computed exactly on rationals.
// A symbol of probability 1, necessarily the only one, is given the codeword 0.
// Build fails with ErrDegenerateCode if a codeword would be longer than MaxCodeLen bits,
// or if two codewords clash.
func Build(pt *ProbabilityTable) (*CodeTable, error) {
	ct := &CodeTable{
		entries: make([]CodeTableEntry, 0, pt.Len()),
		index:   make(map[Symbol]int, pt.Len()),
		trie:    []trieNode{{}},
	}

	s := new(big.Rat)
	half := big.NewRat(1, 2)
	maxLen := 0
	for i, e := range pt.entries {
		q := new(big.Rat).Mul(e.Prob, half)
		q.Add(q, s)
		if q.Cmp(ratOne) >= 0 {
			return nil, errors.Wrapf(ErrDegenerateCode, "symbol %q: cumulative midpoint %s is not below 1", e.Symbol, q.FloatString(9))
		}
		l := codeLen(e.Prob)
		if l > MaxCodeLen {
			return nil, errors.Wrapf(ErrDegenerateCode, "symbol %q: probability %s needs a codeword longer than %d bits", e.Symbol, e.Prob.FloatString(12), MaxCodeLen)
		}

		code := Codeword{Bits: leadingBits(q, l), Len: l}
		if e.Prob.Cmp(ratOne) == 0 {
			// A certain symbol is coded as a single 0 bit.
			code.Bits = 0
		}
		qf, _ := q.Float64()
		entry := CodeTableEntry{
			Symbol: e.Symbol,
			Prob:   e.Float64(),
			Q:      qf,
			Code:   code,
		}
		if err := ct.insert(entry.Code, i); err != nil {
			return nil, errors.Wrapf(err, "symbol %q", e.Symbol)
		}
		ct.entries = append(ct.entries, entry)
		ct.index[e.Symbol] = i
		if l > maxLen {
			maxLen = l
		}

		s.Add(s, e.Prob)
	}

	log.Debugf("built code table: %d symbols, %d trie nodes, longest codeword %d bits", len(ct.entries), len(ct.trie), maxLen)
	return ct, nil
}

// codeLen returns ceil(log2(1/p)) + 1 for p in (0,1], or MaxCodeLen+1 if that would exceed MaxCodeLen.
// ceil(log2(1/p)) is the least k such that 2^k * p >= 1.
func codeLen(p *big.Rat) int {
	x := new(big.Rat).Set(p)
	two := big.NewRat(2, 1)
	k := 0
	for x.Cmp(ratOne) < 0 {
		if k >= MaxCodeLen {
			return MaxCodeLen + 1
		}
		x.Mul(x, two)
		k++
	}
	return k + 1
}

// leadingBits returns floor(q * 2^l), the first l bits of the binary expansion of q in [0,1).
func leadingBits(q *big.Rat, l int) uint64 {
	n := new(big.Int).Lsh(q.Num(), uint(l))
	n.Quo(n, q.Denom())
	return n.Uint64()
}

// insert adds code to the decoding trie with a leaf for entry i.
// It fails if code clashes with a codeword already in the trie.
func (ct *CodeTable) insert(code Codeword, i int) error {
	node := 0
	for j := 0; j < code.Len; j++ {
		if leaf := ct.trie[node].leaf; leaf != 0 {
			return errors.Wrapf(ErrDegenerateCode, "codeword %v extends codeword %v of symbol %q", code, ct.entries[leaf-1].Code, ct.entries[leaf-1].Symbol)
		}
		bit := code.Bit(j)
		next := ct.trie[node].child[bit]
		if next == 0 {
			next = int32(len(ct.trie))
			ct.trie = append(ct.trie, trieNode{})
			ct.trie[node].child[bit] = next
		}
		node = int(next)
	}

	n := ct.trie[node]
	if n.leaf != 0 {
		return errors.Wrapf(ErrDegenerateCode, "codeword %v already assigned to symbol %q", code, ct.entries[n.leaf-1].Symbol)
	}
	if n.child[0] != 0 || n.child[1] != 0 {
		return errors.Wrapf(ErrDegenerateCode, "codeword %v is a prefix of another codeword", code)
	}
	ct.trie[node].leaf = int32(i + 1)
	return nil
}

// Len returns the number of symbols in the table.
func (ct *CodeTable) Len() int {
	return len(ct.entries)
}

// Entry returns the i'th entry in table order.
func (ct *CodeTable) Entry(i int) CodeTableEntry {
	return ct.entries[i]
}

// Entries returns a copy of all entries in table order.
func (ct *CodeTable) Entries() []CodeTableEntry {
	return append([]CodeTableEntry(nil), ct.entries...)
}

// Lookup returns the entry of sym.
func (ct *CodeTable) Lookup(sym Symbol) (CodeTableEntry, bool) {
	i, ok := ct.index[sym]
	if !ok {
		return CodeTableEntry{}, false
	}
	return ct.entries[i], true
}
