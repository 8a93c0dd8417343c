package util

// RemoveDuplicateStrings keeps the first occurrence of each value,
// dropping empties and anything on the ignore list.
func RemoveDuplicateStrings(values []string, ignoreList []string) []string {
	seen := make(map[string]bool, len(values))
	for _, ignored := range ignoreList {
		seen[ignored] = true
	}

	var deduplicated []string
	for _, value := range values {
		if value == "" || seen[value] {
			continue
		}

		seen[value] = true
		deduplicated = append(deduplicated, value)
	}

	return deduplicated
}
