package extraction

import (
	"regexp"
	"strings"

	"returns-assistant-be/pkg/catalog"
)

var (
	pricePattern     = regexp.MustCompile(`\$?(\p{Nd}+(?:\.\p{Nd}{2})?)`)
	daysAgoPattern   = regexp.MustCompile(`(\p{Nd}+)\s*days?\s*ago`)
	lastWeekPattern  = regexp.MustCompile(`last\s*week`)
	daysSincePattern = regexp.MustCompile(`(\p{Nd}+)\s*days?\s*(since|from)`)
	openedPattern    = regexp.MustCompile(`opened|open|used`)
	sealedPattern    = regexp.MustCompile(`sealed|new|unopened`)
)

// ExtractRegex is the deterministic fallback. It is a pure function of query.
func ExtractRegex(query string) ExtractedParams {
	var params ExtractedParams
	lower := strings.ToLower(query)

	if m := pricePattern.FindStringSubmatch(query); m != nil {
		if v, ok := parseFloat(m[1]); ok {
			params.setPrice(v)
		}
	}

	if days, ok := extractDays(query, lower); ok {
		params.setDays(days)
	}

	// "opened" wins when both conditions are mentioned
	if openedPattern.MatchString(lower) {
		params.setOpened(true)
	} else if sealedPattern.MatchString(lower) {
		params.setOpened(false)
	}

	if category := catalog.Detect(lower); category != "" {
		params.setCategory(category)
	}

	return params
}

func extractDays(query, lower string) (int, bool) {
	if strings.Contains(lower, "yesterday") {
		return 1, true
	}
	if m := daysAgoPattern.FindStringSubmatch(query); m != nil {
		return parseInt(m[1])
	}
	if lastWeekPattern.MatchString(lower) {
		return 7, true
	}
	if m := daysSincePattern.FindStringSubmatch(query); m != nil {
		return parseInt(m[1])
	}
	return 0, false
}
