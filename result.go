package filesig

// Best returns the most confident format of a sorted result and true, or
// the zero Format and false when the result is empty.
func Best(formats []Format) (Format, bool) {
	if len(formats) == 0 {
		return Format{}, false
	}
	return formats[0], true
}

// Merge folds repeated detections of the same format into one entry whose
// confidence is the sum of the repeats, then sorts by confidence. The first
// occurrence of each format fixes its position among equal confidences.
func Merge(formats []Format) []Format {
	merged := make([]Format, 0, len(formats))
	for _, f := range formats {
		found := false
		for i, m := range merged {
			if !SameFormat(m, f) {
				continue
			}
			// SameFormat was checked, Combine cannot fail.
			merged[i], _ = Combine(m, f)
			found = true
			break
		}
		if !found {
			merged = append(merged, f)
		}
	}
	SortByConfidence(merged)
	return merged
}

// Filter returns the formats of the given category, keeping their order.
func Filter(formats []Format, category string) []Format {
	out := make([]Format, 0, len(formats))
	for _, f := range formats {
		if f.category == category {
			out = append(out, f)
		}
	}
	return out
}
