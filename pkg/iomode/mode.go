package iomode

import (
	"fmt"
	"os"
	"strings"
)

// Mode is an immutable bitset describing the semantic axes of an I/O
// mode string. Two Mode values are equal iff their axes agree,
// regardless of how the original strings were spelled ("rb+" and
// "r+b" parse to the same Mode).
type Mode uint16

const (
	// Read allows reading from the stream.
	Read Mode = 1 << iota
	// Write allows writing to the stream.
	Write
	// Append positions every write at the end of the stream.
	Append
	// Create creates the file if it does not exist.
	Create
	// Excl makes creation exclusive: opening fails if the file exists.
	Excl
	// Trunc truncates the file to zero length on open.
	Trunc
	// Binary disables the text encode/decode layer. Its absence means
	// text mode; there is no separate text bit.
	Binary
)

// InvalidModeError reports a mode string that could not be parsed.
type InvalidModeError struct {
	Mode   string
	Reason string
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid I/O mode string %q: %s", e.Mode, e.Reason)
}

// Parse converts a mode string into a Mode. It fails when the string
// lacks an opening verb (one of "r", "w", "a"), when it requests both
// binary and text behavior, or when it requests exclusive creation
// with a verb that does not create.
func Parse(s string) (Mode, error) {
	binary := strings.ContainsRune(s, 'b')
	if binary && strings.ContainsRune(s, 't') {
		return 0, &InvalidModeError{Mode: s, Reason: "binary and text modes are mutually exclusive"}
	}

	var m Mode
	if binary {
		m |= Binary
	}

	plus := strings.ContainsRune(s, '+')
	switch {
	case strings.ContainsRune(s, 'r'):
		m |= Read
		if plus {
			m |= Write
		}
	case strings.ContainsRune(s, 'w'):
		m |= Write | Create | Trunc
		if plus {
			m |= Read
		}
	case strings.ContainsRune(s, 'a'):
		m |= Write | Append | Create
		if plus {
			m |= Read
		}
	default:
		return 0, &InvalidModeError{Mode: s, Reason: `missing opening verb ("r", "w" or "a")`}
	}

	if strings.ContainsRune(s, 'x') {
		if m&Create == 0 {
			return 0, &InvalidModeError{Mode: s, Reason: `"x" requires a creating verb ("w" or "a")`}
		}
		m |= Excl
	}

	return m, nil
}

// String renders the canonical mode string: the base verb, then "+"
// for read-write, then "x" for exclusive creation, then "b" for
// binary. It is total over every Mode that Parse can produce.
func (m Mode) String() string {
	var b strings.Builder
	switch {
	case m&Append != 0:
		b.WriteByte('a')
	case m&Trunc != 0:
		b.WriteByte('w')
	default:
		b.WriteByte('r')
	}
	if m&Read != 0 && m&Write != 0 {
		b.WriteByte('+')
	}
	if m&Excl != 0 {
		b.WriteByte('x')
	}
	if m&Binary != 0 {
		b.WriteByte('b')
	}
	return b.String()
}

// CanRead reports whether reading from the stream is allowed.
func (m Mode) CanRead() bool { return m&Read != 0 }

// CanWrite reports whether writing to the stream is allowed.
func (m Mode) CanWrite() bool { return m&Write != 0 }

// IsAppend reports whether writes go to the end of the stream.
func (m Mode) IsAppend() bool { return m&Append != 0 }

// IsCreate reports whether the file is created when absent.
func (m Mode) IsCreate() bool { return m&Create != 0 }

// IsExclusive reports whether creation must be exclusive.
func (m Mode) IsExclusive() bool { return m&Excl != 0 }

// IsTrunc reports whether the file is truncated on open.
func (m Mode) IsTrunc() bool { return m&Trunc != 0 }

// IsBinary reports whether the stream carries raw bytes.
func (m Mode) IsBinary() bool { return m&Binary != 0 }

// IsText reports whether the stream goes through the text layer.
func (m Mode) IsText() bool { return m&Binary == 0 }

// Valid reports whether a Mode built by OR-ing flags directly denotes
// one of the combinations Parse can produce.
func (m Mode) Valid() bool {
	base := m &^ (Excl | Binary)
	switch base {
	case Read, Read | Write:
		// Read-only and read-write never create, so Excl is invalid.
		return m&Excl == 0
	case Write | Create | Trunc, Read | Write | Create | Trunc:
		return true
	case Write | Append | Create, Read | Write | Append | Create:
		return true
	}
	return false
}

// Flags converts the Mode to the os.O_* flag bits understood by
// syscall-level opens. The binary/text axis has no flag counterpart
// and is dropped; use IsBinary for it.
func (m Mode) Flags() int {
	var f int
	switch {
	case m&Read != 0 && m&Write != 0:
		f = os.O_RDWR
	case m&Write != 0:
		f = os.O_WRONLY
	default:
		f = os.O_RDONLY
	}
	if m&Append != 0 {
		f |= os.O_APPEND
	}
	if m&Create != 0 {
		f |= os.O_CREATE
	}
	if m&Excl != 0 {
		f |= os.O_EXCL
	}
	if m&Trunc != 0 {
		f |= os.O_TRUNC
	}
	return f
}

// FromFlags converts os.O_* flag bits back into a Mode. The flags
// carry no binary/text distinction, so the caller supplies it.
func FromFlags(flags int, binary bool) (Mode, error) {
	var m Mode
	switch {
	case flags&os.O_APPEND != 0:
		m = Write | Append | Create
		if flags&os.O_RDWR != 0 {
			m |= Read
		}
	case flags&os.O_TRUNC != 0:
		m = Write | Create | Trunc
		if flags&os.O_RDWR != 0 {
			m |= Read
		}
	case flags&os.O_RDWR != 0:
		m = Read | Write
	case flags&os.O_WRONLY != 0:
		return 0, fmt.Errorf("write-only flags %#x have no mode string equivalent without O_APPEND or O_TRUNC", flags)
	default:
		m = Read
	}
	if flags&os.O_EXCL != 0 {
		if m&Create == 0 {
			return 0, fmt.Errorf("flags %#x combine O_EXCL with a non-creating mode", flags)
		}
		m |= Excl
	}
	if binary {
		m |= Binary
	}
	return m, nil
}
