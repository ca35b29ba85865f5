package segment

const (
	hanziFirst = '\u4e00'
	hanziLast  = '\u9fff'
)

// IsHanzi reports whether r lies in the CJK Unified Ideographs block.
func IsHanzi(r rune) bool {
	return r >= hanziFirst && r <= hanziLast
}

// HanziCount returns the number of CJK Unified Ideographs in s. It is the
// only length measure the splitters use.
func HanziCount(s string) int {
	n := 0
	for _, r := range s {
		if IsHanzi(r) {
			n++
		}
	}
	return n
}

// cutAfterHanzi returns the rune offset just past the n-th ideograph in rs,
// or -1 when rs holds fewer than n ideographs.
func cutAfterHanzi(rs []rune, n int) int {
	if n <= 0 {
		return 0
	}
	seen := 0
	for i, r := range rs {
		if !IsHanzi(r) {
			continue
		}
		seen++
		if seen == n {
			return i + 1
		}
	}
	return -1
}
