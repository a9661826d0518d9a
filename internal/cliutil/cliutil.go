// Package cliutil holds the plumbing shared by the encode and decode commands.
package cliutil

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

// StartLogging sends log records of all modules to w, prefixed with the command name.
// Records below INFO are dropped unless verbose is set.
func StartLogging(w io.Writer, cmdName string, verbose bool) {
	backend := logging.NewLogBackend(w, cmdName+": ", 0)
	formatter := logging.MustStringFormatter("%{level:.4s} %{module} | %{message}")
	leveled := logging.AddModuleLevel(logging.NewBackendFormatter(backend, formatter))
	leveled.SetLevel(logging.INFO, "")
	if verbose {
		leveled.SetLevel(logging.DEBUG, "")
	}
	logging.SetBackend(leveled)
}

// ReadInput returns the contents of the named file, or of stdin if name is "" or "-".
func ReadInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "" || name == "-" {
		b, err := ioutil.ReadAll(stdin)
		if err != nil {
			return nil, errors.Wrap(err, "stdin")
		}
		return b, nil
	}
	b, err := ioutil.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return b, nil
}

// WriteOutput writes data to the named file, or to stdout if name is "" or "-".
// A named file is replaced atomically: data goes to a temporary file in the same
// directory which is then renamed, so a failure never leaves a partial file behind.
func WriteOutput(name string, data []byte, stdout io.Writer) error {
	if name == "" || name == "-" {
		return writeAll(stdout, data)
	}

	f, err := ioutil.TempFile(filepath.Dir(name), "."+filepath.Base(name)+".tmp")
	if err != nil {
		return errors.Wrap(err, "")
	}
	tmp := f.Name()
	if err := writeAll(f, data); err != nil {
		f.Close()
		os.Remove(tmp)
		return errors.Wrap(err, "")
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "")
	}
	if err := os.Rename(tmp, name); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "")
	}
	return nil
}

func writeAll(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
