package rsc

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// localParent is the local-OS parent directory of a destination path.
func localParent(path string) string {
	return filepath.Dir(filepath.FromSlash(path))
}

// Source is a local origin for an upload: either a path on the local
// filesystem or a caller-owned stream. The connection closes a source only
// when it opened it itself, which is only ever the case for PathSource.
type Source interface {
	open() (io.Reader, bool, error)
}

type pathSource struct {
	path string
}

// PathSource uploads the local file at the given path.
func PathSource(path string) Source {
	return pathSource{path: path}
}

func (s pathSource) open() (io.Reader, bool, error) {
	if s.path == "" {
		return nil, false, NewError(CodeInvalidInput, "local source path must not be empty")
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, false, Wrapf(err, CodeNotPerformed, "could not open local file %s", s.path)
	}
	return f, true, nil
}

type readerSource struct {
	r io.Reader
}

// ReaderSource uploads from a caller-owned stream. The stream is rewound
// when it supports seeking but is never closed by the connection.
func ReaderSource(r io.Reader) Source {
	return readerSource{r: r}
}

func (s readerSource) open() (io.Reader, bool, error) {
	if s.r == nil {
		return nil, false, NewError(CodeInvalidInput, "source stream must not be nil")
	}
	return s.r, false, nil
}

// Sink is a local destination for a download: either a path on the local
// filesystem or a caller-owned stream. As with Source, the connection only
// closes what it opened.
type Sink interface {
	open(createParents bool) (io.Writer, bool, error)
}

type pathSink struct {
	path string
}

// PathSink downloads into the local file at the given path, creating or
// truncating it.
func PathSink(path string) Sink {
	return pathSink{path: path}
}

func (s pathSink) open(createParents bool) (io.Writer, bool, error) {
	if s.path == "" {
		return nil, false, NewError(CodeInvalidInput, "local destination path must not be empty")
	}
	if createParents {
		if err := os.MkdirAll(localParent(s.path), 0o755); err != nil {
			return nil, false, Wrapf(err, CodeNotPerformed,
				"could not create parent directories for %s", s.path)
		}
	}
	f, err := os.Create(s.path)
	if err != nil {
		return nil, false, Wrapf(err, CodeNotPerformed, "could not create local file %s", s.path)
	}
	return f, true, nil
}

type writerSink struct {
	w io.Writer
}

// WriterSink downloads into a caller-owned stream.
func WriterSink(w io.Writer) Sink {
	return writerSink{w: w}
}

func (s writerSink) open(bool) (io.Writer, bool, error) {
	if s.w == nil {
		return nil, false, NewError(CodeInvalidInput, "destination stream must not be nil")
	}
	return s.w, false, nil
}

// Contents is the accepted shape of new-file contents: nothing, text, raw
// bytes or a caller-owned stream. Each variant normalizes into a byte
// stream at the upload boundary.
type Contents interface {
	source() (Source, error)
}

type noContents struct{}

// NoContents creates an empty file.
func NoContents() Contents {
	return noContents{}
}

func (noContents) source() (Source, error) {
	return ReaderSource(bytes.NewReader(nil)), nil
}

type textContents struct {
	text string
}

// TextContents creates a file holding the UTF-8 encoding of the text.
func TextContents(text string) Contents {
	return textContents{text: text}
}

func (c textContents) source() (Source, error) {
	return ReaderSource(strings.NewReader(c.text)), nil
}

type bytesContents struct {
	data []byte
}

// BytesContents creates a file holding the raw bytes.
func BytesContents(data []byte) Contents {
	return bytesContents{data: data}
}

func (c bytesContents) source() (Source, error) {
	return ReaderSource(bytes.NewReader(c.data)), nil
}

type readerContents struct {
	r io.Reader
}

// ReaderContents creates a file from a caller-owned stream. The stream is
// passed through unchanged and never closed by the connection.
func ReaderContents(r io.Reader) Contents {
	return readerContents{r: r}
}

func (c readerContents) source() (Source, error) {
	if c.r == nil {
		return nil, NewError(CodeInvalidInput,
			"file contents must be text, bytes or a stream (got a nil stream)")
	}
	return ReaderSource(c.r), nil
}
