package config

import (
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"
)

var durationUnits = map[string]time.Duration{
	"":             time.Millisecond,
	"ms":           time.Millisecond,
	"millis":       time.Millisecond,
	"milliseconds": time.Millisecond,
	"us":           time.Microsecond,
	"micros":       time.Microsecond,
	"microseconds": time.Microsecond,
	"ns":           time.Nanosecond,
	"nanos":        time.Nanosecond,
	"nanoseconds":  time.Nanosecond,
	"s":            time.Second,
	"seconds":      time.Second,
	"m":            time.Minute,
	"minutes":      time.Minute,
	"h":            time.Hour,
	"hours":        time.Hour,
	"d":            24 * time.Hour,
	"days":         24 * time.Hour,
}

// ParseDuration parses a number followed by an optional unit: ns, us, ms,
// s, m, h or d, or their long names in singular or plural.  A bare number
// is in milliseconds.  Units are case sensitive.
func ParseDuration(s string) (time.Duration, error) {
	num, unit, err := splitUnit(s, "duration")
	if err != nil {
		return 0, err
	}
	key := unit
	if len(key) > 2 && !strings.HasSuffix(key, "s") {
		key += "s"
	}
	d, ok := durationUnits[key]
	if !ok {
		return 0, fmt.Errorf("%w: could not parse time unit '%s' (try ns, us, ms, s, m, h, d)", ErrBadValue, unit)
	}
	n, err := scale(num, big.NewInt(int64(d)), "duration")
	if err != nil {
		return 0, err
	}
	return time.Duration(n), nil
}

var byteUnits = makeByteUnits()

func makeByteUnits() map[string]*big.Int {
	m := map[string]*big.Int{}
	one := big.NewInt(1)
	for _, k := range []string{"", "b", "B", "byte", "bytes"} {
		m[k] = one
	}
	add := func(prefix string, base int64, power int) {
		n := new(big.Int).Exp(big.NewInt(base), big.NewInt(int64(power)), nil)
		first := prefix[:1]
		upper := strings.ToUpper(first)
		m[prefix+"byte"] = n
		m[prefix+"bytes"] = n
		if base == 1000 {
			m[first] = n
			m[upper] = n
			m[first+"B"] = n
			m[upper+"B"] = n
			return
		}
		m[first+"i"] = n
		m[upper+"i"] = n
		m[first+"iB"] = n
		m[upper+"iB"] = n
	}
	decimal := []string{"kilo", "mega", "giga", "tera", "peta", "exa", "zetta", "yotta"}
	binary := []string{"kibi", "mebi", "gibi", "tebi", "pebi", "exbi", "zebi", "yobi"}
	for i := range decimal {
		add(decimal[i], 1000, i+1)
		add(binary[i], 1024, i+1)
	}
	return m
}

// ParseBytes parses a size in bytes.  Decimal units (k, kB, M, MB, ...,
// kilobytes) are powers of 1000 and binary units (Ki, KiB, Mi, ...,
// kibibytes) powers of 1024.  A bare number is in bytes.
func ParseBytes(s string) (int64, error) {
	num, unit, err := splitUnit(s, "size-in-bytes")
	if err != nil {
		return 0, err
	}
	mult, ok := byteUnits[unit]
	if !ok {
		return 0, fmt.Errorf("%w: could not parse size-in-bytes unit '%s' (try k, K, kB, KiB, kilobytes, kibibytes)", ErrBadValue, unit)
	}
	return scale(num, mult, "size-in-bytes")
}

func splitUnit(s, what string) (num, unit string, err error) {
	s = strings.TrimSpace(s)
	i := len(s)
	for i > 0 {
		r := rune(s[i-1])
		if r >= 0x80 || !unicode.IsLetter(r) {
			break
		}
		i--
	}
	num, unit = strings.TrimSpace(s[:i]), s[i:]
	if num == "" {
		return "", "", fmt.Errorf("%w: no number in %s value '%s'", ErrBadValue, what, s)
	}
	return num, unit, nil
}

// scale multiplies num by mult exactly, failing when the result does not
// fit in an int64.  Fractions are truncated toward zero.
func scale(num string, mult *big.Int, what string) (int64, error) {
	var res *big.Int
	if isDigits(num) {
		n, ok := new(big.Int).SetString(num, 10)
		if !ok {
			return 0, fmt.Errorf("%w: could not parse %s number '%s'", ErrBadValue, what, num)
		}
		res = n.Mul(n, mult)
	} else {
		f, ok := new(big.Float).SetPrec(200).SetString(num)
		if !ok {
			return 0, fmt.Errorf("%w: could not parse %s number '%s'", ErrBadValue, what, num)
		}
		f.Mul(f, new(big.Float).SetInt(mult))
		res, _ = f.Int(nil)
	}
	if !res.IsInt64() {
		return 0, fmt.Errorf("%w: %s value '%s' is out of range", ErrBadValue, what, num)
	}
	return res.Int64(), nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}
