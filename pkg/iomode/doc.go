// Package iomode parses POSIX-style I/O mode strings ("r", "w+", "ab",
// "xb", ...) into an orthogonal flag representation and renders flags
// back to a canonical string.
//
// # Mode Strings
//
// A mode string contains exactly one opening verb plus optional
// modifiers:
//
//	r    read only
//	r+   read and write
//	w    write only; create the file, truncating it if it exists
//	w+   read and write; create the file, truncating it if it exists
//	a    write only; create the file, appending to it if it exists
//	a+   read and write; create the file, appending to it if it exists
//
// "x" requires that the file be created exclusively (the open fails if
// the file already exists) and is only valid with a creating verb.
// "b" selects binary mode; "t" selects text mode and is the default.
// Requesting both "b" and "t" is an error.
//
// Characters outside the set r, w, a, +, x, b, t are ignored; behavior
// for such strings is undefined and callers should not rely on it.
//
// # Usage
//
//	mode, err := iomode.Parse("w+b")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(mode.CanRead(), mode.IsBinary()) // true true
//	fmt.Println(mode)                            // "w+b"
package iomode
