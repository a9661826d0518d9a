package cliutil

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/op/go-logging"
)

func TestWriteOutput(t *testing.T) {
	dir, err := ioutil.TempDir("", "cliutil.TestWriteOutput")
	if err != nil {
		t.Fatalf("%v", err)
	}
	defer os.RemoveAll(dir)

	name := filepath.Join(dir, "out.gmc")
	if err := ioutil.WriteFile(name, []byte("old contents"), 0644); err != nil {
		t.Fatalf("%v", err)
	}
	data := []byte("GMC\x01\x00\x00")
	if err := WriteOutput(name, data, ioutil.Discard); err != nil {
		t.Fatalf("%+v", err)
	}

	got, err := ReadInput(name, nil)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("%q, want %q", got, data)
	}

	// No temporary files are left behind.
	files, err := ioutil.ReadDir(dir)
	if err != nil {
		t.Fatalf("%v", err)
	}
	if len(files) != 1 {
		for _, f := range files {
			t.Errorf("file %s", f.Name())
		}
	}
}

func TestWriteOutputMissingDir(t *testing.T) {
	dir, err := ioutil.TempDir("", "cliutil.TestWriteOutputMissingDir")
	if err != nil {
		t.Fatalf("%v", err)
	}
	defer os.RemoveAll(dir)

	if err := WriteOutput(filepath.Join(dir, "nope", "out"), []byte("x"), ioutil.Discard); err == nil {
		t.Errorf("expected error writing into a missing directory")
	}
}

func TestReadInputMissing(t *testing.T) {
	if _, err := ReadInput(filepath.Join(os.TempDir(), "cliutil-does-not-exist"), nil); err == nil {
		t.Errorf("expected error")
	}
}

func TestStdStreams(t *testing.T) {
	got, err := ReadInput("-", strings.NewReader("A B"))
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if string(got) != "A B" {
		t.Errorf("%q", got)
	}

	var out bytes.Buffer
	if err := WriteOutput("", []byte("GMC"), &out); err != nil {
		t.Fatalf("%+v", err)
	}
	if out.String() != "GMC" {
		t.Errorf("%q", out.String())
	}
}

func TestStartLogging(t *testing.T) {
	log := logging.MustGetLogger("cliutil_test")
	var buf bytes.Buffer
	StartLogging(&buf, "enc", false)
	log.Debugf("hidden")
	log.Errorf("shown %d", 1)
	if s := buf.String(); strings.Contains(s, "hidden") || !strings.Contains(s, "enc: ERRO cliutil_test | shown 1") {
		t.Errorf("%q", s)
	}

	buf.Reset()
	StartLogging(&buf, "enc", true)
	log.Debugf("hidden")
	if !strings.Contains(buf.String(), "DEBU cliutil_test | hidden") {
		t.Errorf("%q", buf.String())
	}
}
