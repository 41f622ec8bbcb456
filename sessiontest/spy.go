package sessiontest

import (
	"io"

	"github.com/mtsarev06/rsc"
)

// Call is one recorded primitive invocation.
type Call struct {
	Op   string
	Path string
}

// Spy wraps a Session and records every primitive call made through it, in
// order. Tests use it to assert that an operation touched the backend in
// the right sequence, or, for failed preconditions, that it did not touch
// it at all.
type Spy struct {
	inner rsc.Session
	calls []Call
}

// NewSpy wraps a session.
func NewSpy(inner rsc.Session) *Spy {
	return &Spy{inner: inner}
}

// Calls returns every recorded call, in order.
func (s *Spy) Calls() []Call {
	return append([]Call(nil), s.calls...)
}

// Mutations returns the recorded calls that change backend state: write,
// mkdir, rmdir and unlink.
func (s *Spy) Mutations() []Call {
	var muts []Call
	for _, call := range s.calls {
		switch call.Op {
		case "write", "mkdir", "rmdir", "unlink":
			muts = append(muts, call)
		}
	}
	return muts
}

// Reset clears the recorded calls.
func (s *Spy) Reset() {
	s.calls = nil
}

func (s *Spy) record(op string, p rsc.Path) {
	s.calls = append(s.calls, Call{Op: op, Path: p.Posix()})
}

func (s *Spy) Exists(p rsc.Path) (bool, error) {
	s.record("exists", p)
	return s.inner.Exists(p)
}

func (s *Spy) Stat(p rsc.Path) (rsc.EntryInfo, error) {
	s.record("stat", p)
	return s.inner.Stat(p)
}

func (s *Spy) List(p rsc.Path) ([]rsc.EntryInfo, error) {
	s.record("list", p)
	return s.inner.List(p)
}

func (s *Spy) Read(p rsc.Path, dst io.Writer) (int64, error) {
	s.record("read", p)
	return s.inner.Read(p, dst)
}

func (s *Spy) Write(p rsc.Path, src io.Reader) error {
	s.record("write", p)
	return s.inner.Write(p, src)
}

func (s *Spy) MakeDirectory(p rsc.Path) error {
	s.record("mkdir", p)
	return s.inner.MakeDirectory(p)
}

func (s *Spy) RemoveDirectory(p rsc.Path) error {
	s.record("rmdir", p)
	return s.inner.RemoveDirectory(p)
}

func (s *Spy) RemoveFile(p rsc.Path) error {
	s.record("unlink", p)
	return s.inner.RemoveFile(p)
}

func (s *Spy) Close() error {
	s.calls = append(s.calls, Call{Op: "close"})
	return s.inner.Close()
}

var _ rsc.Session = (*Spy)(nil)
