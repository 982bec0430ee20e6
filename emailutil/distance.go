package emailutil

// WithinOneEdit reports whether a and b are at most one Damerau-Levenshtein
// edit apart: one substitution, one adjacent transposition, one insertion or
// one deletion. It answers only that question and never builds a distance
// matrix. Comparison is byte-wise.
func WithinOneEdit(a, b string) bool {
	if a == b {
		return true
	}

	switch len(a) - len(b) {
	case 0:
		return oneSubstitutionOrSwap(a, b)
	case 1:
		return oneDeletion(a, b)
	case -1:
		return oneDeletion(b, a)
	default:
		return false
	}
}

// oneSubstitutionOrSwap expects len(a) == len(b) and a != b.
func oneSubstitutionOrSwap(a, b string) bool {
	first := -1
	for i := 0; i < len(a); i++ {
		if a[i] == b[i] {
			continue
		}
		if first < 0 {
			first = i
			continue
		}

		// Second mismatch: only an adjacent swap with an identical tail is one edit.
		return i == first+1 &&
			a[first] == b[i] && a[i] == b[first] &&
			a[i+1:] == b[i+1:]
	}
	return true
}

// oneDeletion expects len(long) == len(short)+1.
func oneDeletion(long, short string) bool {
	i, j := 0, 0
	edits := 0
	for i < len(long) && j < len(short) {
		if long[i] == short[j] {
			i++
			j++
			continue
		}
		edits++
		if edits > 1 {
			return false
		}
		i++
	}
	return true
}
