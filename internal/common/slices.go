package common

// UnknownStr is rendered by String methods for values outside their enumeration.
const UnknownStr = "unknown"

// Unpack2 returns the first two elements of s, leaving missing ones zero.
func Unpack2[S ~[]T, T any](s S) (first T, second T) {
	switch len(s) {
	default:
		return s[0], s[1]
	case 0:
		return
	case 1:
		first = s[0]
		return
	}
}
