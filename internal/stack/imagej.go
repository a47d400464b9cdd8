package stack

import "strings"

// ParseImageJDescription parses an ImageJ-style ImageDescription block into
// its key=value pairs. The block looks like:
//
//	ImageJ=1.54f
//	images=333
//	frames=333
//	unit=micron
//
// Lines without "=" and empty lines are skipped. CRLF and stray whitespace
// are tolerated. Keys are lowercased; values keep their case ("unit=Micron"
// would be surprising, but units are values, not identifiers).
func ParseImageJDescription(desc string) map[string]string {
	out := make(map[string]string)
	for _, line := range strings.Split(desc, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line == "" {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		out[key] = strings.TrimSpace(value)
	}
	return out
}
