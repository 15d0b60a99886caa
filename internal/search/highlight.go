package search

import "regexp"

// Span marks a matched query substring within a text, as byte offsets.
// The client wraps spans for visual emphasis.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// HighlightSpans returns the case-insensitive occurrences of query within
// text. Regex metacharacters in the query are escaped so the raw user input
// is matched literally.
func HighlightSpans(text, query string) []Span {
	if query == "" {
		return nil
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(query))
	if err != nil {
		return nil
	}
	idx := re.FindAllStringIndex(text, -1)
	spans := make([]Span, 0, len(idx))
	for _, pair := range idx {
		spans = append(spans, Span{Start: pair[0], End: pair[1]})
	}
	return spans
}
