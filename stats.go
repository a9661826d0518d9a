package gilbertmoore

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"text/tabwriter"

	"github.com/pkg/errors"
)

// Stats summarizes the efficiency of a code table.
type Stats struct {
	// Entropy is the entropy of the distribution in bits per symbol.
	Entropy float64
	// AverageLength is the expected codeword length in bits per symbol.
	AverageLength float64
	// Redundancy is AverageLength - Entropy.
	Redundancy float64
	// KraftSum is the sum of 2^-L over all codewords.
	KraftSum float64
	// KraftHolds reports whether the exact KraftSum is at most 1.
	KraftHolds bool
}

// Stats computes the statistics of the table.
func (ct *CodeTable) Stats() Stats {
	var st Stats
	kraft := new(big.Rat)
	for _, e := range ct.entries {
		st.Entropy += e.Prob * math.Log2(1/e.Prob)
		st.AverageLength += e.Prob * float64(e.Code.Len)
		kraft.Add(kraft, new(big.Rat).SetFrac(big.NewInt(1), new(big.Int).Lsh(big.NewInt(1), uint(e.Code.Len))))
	}
	st.Redundancy = st.AverageLength - st.Entropy
	st.KraftSum, _ = kraft.Float64()
	st.KraftHolds = kraft.Cmp(ratOne) <= 0
	return st
}

// WriteReport writes the code table followed by its statistics to w.
func (ct *CodeTable) WriteReport(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintf(tw, "symbol\tp\tQ\tL\tcodeword\n")
	for _, e := range ct.entries {
		fmt.Fprintf(tw, "%q\t%.6f\t%.6f\t%d\t%v\n", e.Symbol, e.Prob, e.Q, e.Code.Len, e.Code)
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "")
	}

	st := ct.Stats()
	kraft := "holds"
	if !st.KraftHolds {
		kraft = "violated"
	}
	_, err := fmt.Fprintf(w, "\naverage length: %.6f\nentropy: %.6f\nredundancy: %.6f\nkraft sum: %.6f (%s)\n",
		st.AverageLength, st.Entropy, st.Redundancy, st.KraftSum, kraft)
	if err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
