// names.go: Case and dash insensitive parameter name handling
//
// Parameter names are ASCII. Lookups ignore case and treat '-' and '_' as
// the same character, so "debug-all", "DEBUG_ALL" and "Debug_All" name the
// same parameter.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package params

func foldNameByte(c byte) byte {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	if c == '-' {
		c = '_'
	}
	return c
}

// NameHash returns the hash used to index parameter names.
func NameHash(name string) uint32 {
	h := uint32(1)
	for i := 0; i < len(name); i++ {
		h = h*31397 + uint32(foldNameByte(name[i]))
	}
	return h
}

// NamesEqual reports whether a and b name the same parameter.
func NamesEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		if foldNameByte(a[i]) != foldNameByte(b[i]) {
			return false
		}
	}
	return true
}

// CompareNames orders parameter names A to Z, ignoring case and dash
// versus underscore. When one name is a prefix of the other the longer
// name sorts first. It returns -1, 0 or +1.
func CompareNames(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		c, d := foldNameByte(a[i]), foldNameByte(b[i])
		if c != d {
			if c < d {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) > len(b):
		return -1
	case len(a) < len(b):
		return 1
	default:
		return 0
	}
}

// nameKey is the normalized form of a name used as map key.
func nameKey(name string) string {
	b := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		b[i] = foldNameByte(name[i])
	}
	return string(b)
}
