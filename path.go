package rsc

import "strings"

// Path is an immutable, comparable path value that understands both Windows
// and POSIX separators regardless of the host OS. It exists because native
// path handling differs between platforms: code manipulating remote Windows
// paths from a Linux host (or the other way around) breaks when it relies on
// the local separator conventions.
//
// The first constructor argument is the root of the path; every later
// argument is appended as a relative continuation even when it carries its
// own drive or leading separator. NewPath("/home", "/debian") therefore
// yields "/home/debian", not "/debian".
type Path struct {
	drive  string // drive prefix such as "E:", empty when none
	rooted bool
	rel    string // "/"-joined segments without leading or trailing slash
}

// NewPath builds a Path from one or more parts. The first part keeps its
// anchor (drive and root); subsequent parts are always treated as relative
// continuations of the accumulated path.
func NewPath(parts ...string) Path {
	var p Path
	for i, part := range parts {
		drive, rooted, rel := splitPath(part)
		if i == 0 {
			p.drive = drive
			p.rooted = rooted
			p.rel = rel
			continue
		}
		p.rel = joinRel(p.rel, rel)
	}
	return p
}

// splitPath normalizes separators and splits a raw path string into its
// drive prefix, rooted flag and relative remainder.
func splitPath(raw string) (drive string, rooted bool, rel string) {
	s := strings.ReplaceAll(raw, `\`, "/")
	if len(s) >= 2 && s[1] == ':' && isDriveLetter(s[0]) {
		drive = s[:2]
		s = s[2:]
	}
	if strings.HasPrefix(s, "/") {
		rooted = true
	}
	segs := make([]string, 0, 4)
	for _, seg := range strings.Split(s, "/") {
		if seg == "" || seg == "." {
			continue
		}
		segs = append(segs, seg)
	}
	return drive, rooted, strings.Join(segs, "/")
}

func isDriveLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func joinRel(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "/" + b
	}
}

// Join returns a new Path with the given parts appended as relative
// continuations. The receiver is not modified.
func (p Path) Join(parts ...string) Path {
	q := p
	for _, part := range parts {
		_, _, rel := splitPath(part)
		q.rel = joinRel(q.rel, rel)
	}
	return q
}

// Name returns the final path segment, or the empty string when the path is
// an anchor or the current directory.
func (p Path) Name() string {
	if p.rel == "" {
		return ""
	}
	if i := strings.LastIndexByte(p.rel, '/'); i >= 0 {
		return p.rel[i+1:]
	}
	return p.rel
}

// Suffix returns the extension of the final segment including the leading
// dot, or the empty string when there is none. A name consisting only of a
// leading dot (".bashrc") has no suffix.
func (p Path) Suffix() string {
	name := p.Name()
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[i:]
	}
	return ""
}

// Parent returns the path without its final segment. The parent of an
// anchor is the anchor itself; the parent of a single relative segment is
// the current directory.
func (p Path) Parent() Path {
	if p.rel == "" {
		return p
	}
	q := p
	if i := strings.LastIndexByte(p.rel, '/'); i >= 0 {
		q.rel = p.rel[:i]
	} else {
		q.rel = ""
	}
	return q
}

// Parents returns the ancestors of the path ordered from nearest to
// furthest, excluding the degenerate current-directory element.
func (p Path) Parents() []Path {
	var parents []Path
	for cur := p; ; {
		next := cur.Parent()
		if next == cur {
			break
		}
		if !next.IsCurrent() {
			parents = append(parents, next)
		}
		cur = next
	}
	return parents
}

// IsAbsolute reports whether the path has a root.
func (p Path) IsAbsolute() bool {
	return p.rooted
}

// IsCurrent reports whether the path denotes the current directory.
func (p Path) IsCurrent() bool {
	return p.drive == "" && !p.rooted && p.rel == ""
}

// Posix renders the path with forward slashes. The current directory
// renders as ".".
func (p Path) Posix() string {
	return p.render("/")
}

// Windows renders the path with backslashes, the form required by backends
// that only understand native Windows paths.
func (p Path) Windows() string {
	return p.render(`\`)
}

func (p Path) render(sep string) string {
	var b strings.Builder
	b.WriteString(p.drive)
	if p.rooted {
		b.WriteString(sep)
	}
	b.WriteString(strings.ReplaceAll(p.rel, "/", sep))
	if b.Len() == 0 {
		return "."
	}
	return b.String()
}

// String renders the path in POSIX form.
func (p Path) String() string {
	return p.Posix()
}
