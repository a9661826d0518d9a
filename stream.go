package gilbertmoore

import (
	"bufio"
	"io"
	"io/ioutil"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// A Tokenization determines how text is split into symbols.
type Tokenization int

const (
	// Words splits text into maximal runs of non-whitespace.
	// Decoded words are written separated by single spaces and followed by a newline.
	Words Tokenization = iota

	// Runes makes every UTF-8 character a symbol, whitespace included.
	// Decoded characters are written back to back.
	// Text that is not valid UTF-8 fails with ErrInvalidText.
	Runes
)

// maxTokenSize bounds the length of a single word.
const maxTokenSize = 1 << 24

// ReadSymbols reads all symbols of r.
func ReadSymbols(r io.Reader, t Tokenization) ([]Symbol, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxTokenSize)
	switch t {
	case Words:
		scanner.Split(bufio.ScanWords)
	case Runes:
		scanner.Split(scanValidRunes())
	default:
		return nil, errors.Errorf("unknown tokenization %d", t)
	}

	var symbols []Symbol
	for scanner.Scan() {
		symbols = append(symbols, Symbol(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return symbols, nil
}

// scanValidRunes returns a split function like bufio.ScanRunes,
// except that it fails with ErrInvalidText on bytes that are not valid UTF-8
// instead of turning them into U+FFFD.
func scanValidRunes() bufio.SplitFunc {
	off := 0
	return func(data []byte, atEOF bool) (int, []byte, error) {
		advance, token, err := bufio.ScanRunes(data, atEOF)
		if err != nil || token == nil {
			return advance, token, err
		}
		if advance == 1 && data[0] >= utf8.RuneSelf {
			return 0, nil, errors.Wrapf(ErrInvalidText, "byte offset %d: invalid UTF-8 byte %#02x", off, data[0])
		}
		off += advance
		return advance, token, nil
	}
}

// AppendSymbols appends the text form of symbols to b.
func AppendSymbols(b []byte, symbols []Symbol, t Tokenization) []byte {
	for i, sym := range symbols {
		if t == Words && i > 0 {
			b = append(b, ' ')
		}
		b = append(b, sym...)
	}
	if t == Words && len(symbols) > 0 {
		b = append(b, '\n')
	}
	return b
}

// Compress reads a message from src, encodes it with table, and writes the persisted artifact to dst.
// Nothing is written to dst unless the whole message is encoded successfully.
func Compress(dst io.Writer, src io.Reader, table *CodeTable, t Tokenization) error {
	symbols, err := ReadSymbols(src, t)
	if err != nil {
		return errors.Wrap(err, "")
	}
	bs, err := Encode(symbols, table)
	if err != nil {
		return errors.Wrap(err, "")
	}
	b, err := Artifact{Symbols: len(symbols), Bits: bs}.MarshalBinary()
	if err != nil {
		return errors.Wrap(err, "")
	}
	if _, err := dst.Write(b); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// Decompress reads an artifact from src, decodes it with table, and writes the message to dst.
// Nothing is written to dst unless the whole artifact is decoded successfully.
func Decompress(dst io.Writer, src io.Reader, table *CodeTable, t Tokenization) error {
	b, err := ioutil.ReadAll(src)
	if err != nil {
		return errors.Wrap(err, "")
	}
	var a Artifact
	if err := a.UnmarshalBinary(b); err != nil {
		return errors.Wrap(err, "")
	}
	symbols, err := Decode(a.Bits, table)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if len(symbols) != a.Symbols {
		return errors.Wrapf(ErrCorruptArtifact, "decoded %d symbols, artifact declares %d", len(symbols), a.Symbols)
	}

	if _, err := dst.Write(AppendSymbols(nil, symbols, t)); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
