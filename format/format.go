package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

type Format int

const (
	ConfFormat Format = iota
	JSONFormat
	YAMLFormat
	TOMLFormat
)

var ErrBadFormat = errors.New("bad format")

// syntaxes is indexed by Format.  The first name is canonical and the first
// suffix is the one used for include probing.
var syntaxes = [...]struct {
	names    []string
	suffixes []string
}{
	ConfFormat: {[]string{"conf", "c", "hocon"}, []string{".conf", ".hocon"}},
	JSONFormat: {[]string{"json", "j"}, []string{".json"}},
	YAMLFormat: {[]string{"yaml", "y", "yml"}, []string{".yaml", ".yml"}},
	TOMLFormat: {[]string{"toml", "t"}, []string{".toml"}},
}

func (f Format) valid() bool { return f >= 0 && int(f) < len(syntaxes) }

func ParseFormat(v string) (Format, error) {
	for i, s := range syntaxes {
		if slices.Contains(s.names, v) {
			return Format(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	if !f.valid() {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return syntaxes[f].names[0]
}

func (f Format) MarshalText() ([]byte, error) {
	if !f.valid() {
		return nil, fmt.Errorf("%w: %d", ErrBadFormat, int(f))
	}
	return []byte(f.String()), nil
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsConf() bool { return f == ConfFormat }
func (f Format) IsJSON() bool { return f == JSONFormat }

// HasSubstitutions reports whether documents in this format may contain
// ${...} references, includes and duplicate-key merging.
func (f Format) HasSubstitutions() bool { return f == ConfFormat }

// Suffix is the file extension probed for f, dot included.
func (f Format) Suffix() string {
	if !f.valid() {
		return ""
	}
	return syntaxes[f].suffixes[0]
}

// AllFormats returns all supported formats in include probing order.
func AllFormats() []Format {
	return []Format{ConfFormat, JSONFormat, YAMLFormat, TOMLFormat}
}

// FromFilename guesses the format from a file extension.  ok is false when
// the extension is not recognized, in which case f is ConfFormat.
func FromFilename(name string) (f Format, ok bool) {
	ext := strings.ToLower(filepath.Ext(name))
	for i, s := range syntaxes {
		if slices.Contains(s.suffixes, ext) {
			return Format(i), true
		}
	}
	return ConfFormat, false
}
