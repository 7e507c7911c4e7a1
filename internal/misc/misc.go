package misc

import "golang.org/x/exp/constraints"

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// StringLimit caps s at n characters, replacing the tail with "..." when cut.
func StringLimit(s string, n int) string {
	if n < 0 {
		return ""
	}
	if n <= 3 {
		return s[:Min(n, len(s))]
	}
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

// BytesLimit caps bs at n bytes, replacing the tail with "..." when cut. The
// result never aliases the input's backing array.
func BytesLimit(bs []byte, n int) []byte {
	if n < 0 {
		return nil
	}
	if n <= 3 {
		return bs[:Min(n, len(bs))]
	}
	if len(bs) > n {
		cut := make([]byte, 0, n)
		cut = append(cut, bs[:n-3]...)
		return append(cut, "..."...)
	}
	return bs
}
