package gilbertmoore

import (
	"math/big"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestParseProbabilities(t *testing.T) {
	src := `
# comment
A 0.5
" " 1/8
"\n"	0.125

B 2.5e-1
`
	pt, err := ParseProbabilities(strings.NewReader(src))
	if err != nil {
		t.Fatalf("%+v", err)
	}

	want := []struct {
		sym  Symbol
		prob *big.Rat
	}{
		{"A", big.NewRat(1, 2)},
		{" ", big.NewRat(1, 8)},
		{"\n", big.NewRat(1, 8)},
		{"B", big.NewRat(1, 4)},
	}
	if pt.Len() != len(want) {
		t.Fatalf("%d entries, want %d", pt.Len(), len(want))
	}
	for i, w := range want {
		e := pt.Entry(i)
		if e.Symbol != w.sym || e.Prob.Cmp(w.prob) != 0 {
			t.Errorf("%d: got %q %v, want %q %v", i, e.Symbol, e.Prob, w.sym, w.prob)
		}
	}
	if got := pt.Entry(3).Float64(); got != 0.25 {
		t.Errorf("Float64() = %v, want 0.25", got)
	}
}

func TestParseProbabilitiesErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
		msg  string
	}{
		{"missing probability", "A 0.5\nB\n", ErrMalformedEntry, "line 2"},
		{"bad number", "A 0.5\nB abc\n", ErrMalformedEntry, "line 2"},
		{"too many fields", "A 0.5 0.5\n", ErrMalformedEntry, "line 1"},
		{"zero", "A 1\nB 0\n", ErrMalformedEntry, "line 2"},
		{"negative", "A -0.5\n", ErrMalformedEntry, "line 1"},
		{"above one", "A 1.5\n", ErrMalformedEntry, "line 1"},
		{"nan", "A NaN\n", ErrMalformedEntry, "line 1"},
		{"inf", "A Inf\n", ErrMalformedEntry, "line 1"},
		{"bad quote", "\"A 1\n", ErrMalformedEntry, "line 1"},
		{"glued quote", "\"A\"1\n", ErrMalformedEntry, "line 1"},
		{"empty quoted symbol", "\"\" 1\n", ErrMalformedEntry, "line 1"},
		{"duplicate", "A 0.5\n# x\nA 0.5\n", ErrDuplicateSymbol, "line 3"},
		{"sum 0.9", "A 0.5\nB 0.25\nC 0.15\n", ErrProbabilitySumMismatch, "0.9"},
		{"sum above one", "A 0.5\nB 0.5\nC 0.001\n", ErrProbabilitySumMismatch, "1.001"},
		{"empty", "", ErrEmptyAlphabet, ""},
		{"only comments", "# A 1\n\n", ErrEmptyAlphabet, ""},
	}
	for _, test := range tests {
		pt, err := ParseProbabilities(strings.NewReader(test.src))
		if errors.Cause(err) != test.err {
			t.Errorf("%s: got %v, want %v", test.name, err, test.err)
			continue
		}
		if pt != nil {
			t.Errorf("%s: got a table along with error %v", test.name, err)
		}
		if !strings.Contains(err.Error(), test.msg) {
			t.Errorf("%s: %q does not mention %q", test.name, err, test.msg)
		}
	}
}

func TestSumTolerance(t *testing.T) {
	// Within 1e-6 of 1 is accepted, exactly as written.
	for _, src := range []string{
		"A 0.5\nB 0.5000009\n",
		"A 0.5\nB 0.4999991\n",
		"A 1/3\nB 1/3\nC 1/3\n",
		"A 0.333333\nB 0.333333\nC 0.333334\n",
	} {
		if _, err := ParseProbabilities(strings.NewReader(src)); err != nil {
			t.Errorf("%q: %+v", src, err)
		}
	}
	if _, err := ParseProbabilities(strings.NewReader("A 0.5\nB 0.500002\n")); errors.Cause(err) != ErrProbabilitySumMismatch {
		t.Errorf("got %v, want %v", err, ErrProbabilitySumMismatch)
	}
}

func TestNewProbabilityTable(t *testing.T) {
	entries := []ProbabilityEntry{
		{Symbol: "x", Prob: big.NewRat(3, 4)},
		{Symbol: "y", Prob: big.NewRat(1, 4)},
	}
	pt, err := NewProbabilityTable(entries)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	// The table keeps its own copy of the probabilities.
	entries[0].Prob.SetInt64(1)
	if got := pt.Entry(0).Prob; got.Cmp(big.NewRat(3, 4)) != 0 {
		t.Errorf("table changed along with its input: %v", got)
	}

	_, err = NewProbabilityTable([]ProbabilityEntry{{Symbol: "x", Prob: nil}})
	if errors.Cause(err) != ErrMalformedEntry || !strings.Contains(err.Error(), "entry 1") {
		t.Errorf("got %v, want %v at entry 1", err, ErrMalformedEntry)
	}
	_, err = NewProbabilityTable([]ProbabilityEntry{{Symbol: "", Prob: big.NewRat(1, 1)}})
	if errors.Cause(err) != ErrMalformedEntry {
		t.Errorf("got %v, want %v", err, ErrMalformedEntry)
	}
	_, err = NewProbabilityTable(nil)
	if errors.Cause(err) != ErrEmptyAlphabet {
		t.Errorf("got %v, want %v", err, ErrEmptyAlphabet)
	}
}
