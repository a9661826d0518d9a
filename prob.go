package gilbertmoore

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// SumTolerance is the largest accepted deviation of a table's probability sum from 1.
var SumTolerance = big.NewRat(1, 1000000)

var ratOne = big.NewRat(1, 1)

// A Symbol is an opaque member of an alphabet.
type Symbol string

// A ProbabilityEntry assigns a probability to a symbol.
// Prob holds the exact value read from the source.
type ProbabilityEntry struct {
	Symbol Symbol
	Prob   *big.Rat
}

// Float64 returns the entry's probability as the nearest float64.
func (e ProbabilityEntry) Float64() float64 {
	f, _ := e.Prob.Float64()
	return f
}

// A ProbabilityTable is a validated, ordered list of probability entries.
// The order is significant: cumulative probabilities are taken in table order.
// A ProbabilityTable is immutable.
type ProbabilityTable struct {
	entries []ProbabilityEntry
}

// NewProbabilityTable validates entries and returns them as a table, keeping their order.
func NewProbabilityTable(entries []ProbabilityEntry) (*ProbabilityTable, error) {
	return newProbabilityTable(entries, func(i int) string {
		return fmt.Sprintf("entry %d", i+1)
	})
}

// newProbabilityTable validates entries, using where to describe the position of entry i in errors.
func newProbabilityTable(entries []ProbabilityEntry, where func(i int) string) (*ProbabilityTable, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyAlphabet
	}

	seen := make(map[Symbol]int, len(entries))
	sum := new(big.Rat)
	pt := &ProbabilityTable{entries: make([]ProbabilityEntry, 0, len(entries))}
	for i, e := range entries {
		if e.Symbol == "" {
			return nil, errors.Wrapf(ErrMalformedEntry, "%s: empty symbol", where(i))
		}
		if e.Prob == nil || e.Prob.Sign() <= 0 || e.Prob.Cmp(ratOne) > 0 {
			return nil, errors.Wrapf(ErrMalformedEntry, "%s: symbol %q: probability %v not in (0,1]", where(i), e.Symbol, e.Prob)
		}
		if j, ok := seen[e.Symbol]; ok {
			return nil, errors.Wrapf(ErrDuplicateSymbol, "%s: symbol %q already defined by %s", where(i), e.Symbol, where(j))
		}
		seen[e.Symbol] = i
		sum.Add(sum, e.Prob)
		pt.entries = append(pt.entries, ProbabilityEntry{Symbol: e.Symbol, Prob: new(big.Rat).Set(e.Prob)})
	}

	dev := new(big.Rat).Sub(sum, ratOne)
	if dev.Abs(dev).Cmp(SumTolerance) > 0 {
		return nil, errors.Wrapf(ErrProbabilitySumMismatch, "sum is %s", sum.FloatString(9))
	}
	return pt, nil
}

// ParseProbabilities reads a probability table from r.
//
// Each line holds a symbol and its probability separated by whitespace.
// Blank lines and lines starting with '#' are ignored.
// A symbol may be written as a Go quoted string, which allows whitespace symbols such as " " or "\n".
// A probability is a decimal number such as 0.25 or 2.5e-1, or a fraction such as 1/3.
func ParseProbabilities(r io.Reader) (*ProbabilityTable, error) {
	var entries []ProbabilityEntry
	var lines []int

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		e, err := parseEntry(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineno)
		}
		entries = append(entries, e)
		lines = append(lines, lineno)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "")
	}

	return newProbabilityTable(entries, func(i int) string {
		return fmt.Sprintf("line %d", lines[i])
	})
}

// parseEntry parses a single non-empty line "<symbol> <probability>".
func parseEntry(line string) (ProbabilityEntry, error) {
	var sym, rest string
	if line[0] == '"' || line[0] == '`' {
		quoted, err := strconv.QuotedPrefix(line)
		if err != nil {
			return ProbabilityEntry{}, errors.Wrapf(ErrMalformedEntry, "bad quoted symbol in %q", line)
		}
		// QuotedPrefix validated the literal, so Unquote cannot fail.
		sym, _ = strconv.Unquote(quoted)
		rest = line[len(quoted):]
		if rest != "" && !unicode.IsSpace(rune(rest[0])) {
			return ProbabilityEntry{}, errors.Wrapf(ErrMalformedEntry, "no space after quoted symbol in %q", line)
		}
	} else {
		i := strings.IndexFunc(line, unicode.IsSpace)
		if i < 0 {
			return ProbabilityEntry{}, errors.Wrapf(ErrMalformedEntry, "missing probability in %q", line)
		}
		sym, rest = line[:i], line[i:]
	}

	fields := strings.Fields(rest)
	if len(fields) != 1 {
		return ProbabilityEntry{}, errors.Wrapf(ErrMalformedEntry, "want \"<symbol> <probability>\", got %q", line)
	}
	p, ok := new(big.Rat).SetString(fields[0])
	if !ok {
		return ProbabilityEntry{}, errors.Wrapf(ErrMalformedEntry, "symbol %q: bad probability %q", sym, fields[0])
	}
	if sym == "" {
		return ProbabilityEntry{}, errors.Wrapf(ErrMalformedEntry, "empty symbol in %q", line)
	}
	return ProbabilityEntry{Symbol: Symbol(sym), Prob: p}, nil
}

// Len returns the number of entries.
func (pt *ProbabilityTable) Len() int {
	return len(pt.entries)
}

// Entry returns the i'th entry in table order.
func (pt *ProbabilityTable) Entry(i int) ProbabilityEntry {
	e := pt.entries[i]
	return ProbabilityEntry{Symbol: e.Symbol, Prob: new(big.Rat).Set(e.Prob)}
}
