package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fumin/gilbertmoore"
	"github.com/fumin/gilbertmoore/internal/cliutil"
	"github.com/kr/pretty"
	"github.com/ogier/pflag"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("encode")

type options struct {
	probs   string
	output  string
	runes   bool
	table   bool
	verbose bool
}

func main() {
	os.Exit(run(os.Args, os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line args and returns the exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmdName := filepath.Base(args[0])
	var opt options
	flags := pflag.NewFlagSet(cmdName, pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opt.probs, "probs", "p", "", "probability table file")
	flags.StringVarP(&opt.output, "output", "o", "", "output file (default stdout)")
	flags.BoolVarP(&opt.runes, "runes", "r", false, "make every character a symbol instead of every word")
	flags.BoolVarP(&opt.table, "table", "t", false, "print the code table and its statistics to stderr")
	flags.BoolVarP(&opt.verbose, "verbose", "v", false, "verbosity")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s -p probs [flags] [file]\n", cmdName)
		flags.PrintDefaults()
	}
	if err := flags.Parse(args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 1
	}
	cliutil.StartLogging(stderr, cmdName, opt.verbose)
	if opt.probs == "" || flags.NArg() > 1 {
		flags.Usage()
		return 1
	}

	if err := encode(opt, flags.Arg(0), stdin, stdout, stderr); err != nil {
		log.Errorf("%+v", err)
		return 1
	}
	return 0
}

func encode(opt options, input string, stdin io.Reader, stdout, stderr io.Writer) error {
	ct, err := gilbertmoore.LoadCodeTable(opt.probs)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if opt.table {
		if err := ct.WriteReport(stderr); err != nil {
			return errors.Wrap(err, "")
		}
	}
	log.Debugf("statistics %s", pretty.Sprint(ct.Stats()))

	msg, err := cliutil.ReadInput(input, stdin)
	if err != nil {
		return errors.Wrap(err, "")
	}
	tok := gilbertmoore.Words
	if opt.runes {
		tok = gilbertmoore.Runes
	}
	var buf bytes.Buffer
	if err := gilbertmoore.Compress(&buf, bytes.NewReader(msg), ct, tok); err != nil {
		return errors.Wrap(err, "")
	}
	if err := cliutil.WriteOutput(opt.output, buf.Bytes(), stdout); err != nil {
		return errors.Wrap(err, "")
	}
	log.Infof("encoded %d bytes of input into %d bytes", len(msg), buf.Len())
	return nil
}
