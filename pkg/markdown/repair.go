package markdown

import "strings"

// Delimiter classes balanced independently of each other. Single * and _ are
// deliberately not repaired: a lone * is usually a list bullet and a lone _
// usually sits inside an identifier.
var repairDelimiters = []string{"**", "__", "~~", "`"}

// Repair balances unmatched inline delimiters by appending a closing
// delimiter for every class that occurs an odd number of times. The result of
// repairing an already-repaired string is the string itself.
func Repair(text string) string {
	if text == "" {
		return text
	}
	var b strings.Builder
	b.WriteString(text)
	for _, delim := range repairDelimiters {
		if strings.Count(text, delim)%2 == 1 {
			b.WriteString(delim)
		}
	}
	return b.String()
}
