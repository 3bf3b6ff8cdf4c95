package textproc

// SplitChunks splits text into contiguous, non-overlapping slices of at
// most size runes, preserving order. The final chunk may be shorter.
// Concatenating the result in order reconstructs text exactly.
func SplitChunks(text string, size int) []string {
	if text == "" {
		return nil
	}
	if size < 1 {
		return []string{text}
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}

// Truncate bounds text to at most max runes.
func Truncate(text string, max int) string {
	if max < 1 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
