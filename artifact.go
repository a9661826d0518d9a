package gilbertmoore

import (
	"bytes"

	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"
)

// artifactMagic starts every persisted bitstream.
var artifactMagic = []byte("GMC\x01")

// An Artifact is an encoded message as persisted:
// the magic "GMC\x01", the uvarint symbol count, the uvarint valid-bit count,
// and then exactly ceil(Bits.Len/8) packed bytes.
type Artifact struct {
	Symbols int
	Bits    Bitstream
}

// MarshalBinary returns the persisted form of a.
func (a Artifact) MarshalBinary() ([]byte, error) {
	if a.Symbols < 0 || a.Bits.Len < 0 {
		return nil, errors.Errorf("negative artifact counts %d symbols, %d bits", a.Symbols, a.Bits.Len)
	}
	n := packedLen(a.Bits.Len)
	if len(a.Bits.Packed) < n {
		return nil, errors.Errorf("%d bits declared, %d bytes present", a.Bits.Len, len(a.Bits.Packed))
	}

	b := make([]byte, 0, len(artifactMagic)+2*protowire.SizeVarint(uint64(a.Bits.Len))+n)
	b = append(b, artifactMagic...)
	b = protowire.AppendVarint(b, uint64(a.Symbols))
	b = protowire.AppendVarint(b, uint64(a.Bits.Len))
	b = append(b, a.Bits.Packed[:n]...)
	return b, nil
}

// UnmarshalBinary parses the persisted form of an artifact.
// Badly framed input fails with ErrCorruptArtifact.
func (a *Artifact) UnmarshalBinary(b []byte) error {
	if !bytes.HasPrefix(b, artifactMagic) {
		return errors.Wrap(ErrCorruptArtifact, "bad magic")
	}
	b = b[len(artifactMagic):]

	symbols, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return errors.Wrapf(ErrCorruptArtifact, "symbol count: %v", protowire.ParseError(n))
	}
	b = b[n:]
	bits, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return errors.Wrapf(ErrCorruptArtifact, "bit count: %v", protowire.ParseError(n))
	}
	b = b[n:]

	const maxInt = int(^uint(0) >> 1)
	if bits > uint64(maxInt-7) || symbols > bits {
		// Every codeword has at least one bit.
		return errors.Wrapf(ErrCorruptArtifact, "implausible counts %d symbols, %d bits", symbols, bits)
	}
	if want := packedLen(int(bits)); len(b) != want {
		return errors.Wrapf(ErrCorruptArtifact, "%d bits need %d bytes, found %d", bits, want, len(b))
	}
	if rem := bits % 8; rem != 0 && b[len(b)-1]&(1<<(8-rem)-1) != 0 {
		return errors.Wrap(ErrCorruptArtifact, "nonzero padding bits")
	}

	a.Symbols = int(symbols)
	a.Bits = Bitstream{Packed: b, Len: int(bits)}
	return nil
}

// packedLen returns the number of bytes holding n bits.
func packedLen(n int) int {
	return (n + 7) / 8
}
