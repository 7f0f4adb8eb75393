package apkg

import "regexp"

var (
	imgRefRe   = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)
	soundRefRe = regexp.MustCompile(`(?i)\[sound:([^\]]+)\]`)
)

// DetectMediaRefs returns the media filenames referenced from the given
// field values: <img src="..."> images and [sound:...] audio. Each filename
// is reported once.
func DetectMediaRefs(fields []string) []string {
	seen := map[string]bool{}
	var refs []string
	for _, field := range fields {
		for _, re := range []*regexp.Regexp{imgRefRe, soundRefRe} {
			for _, m := range re.FindAllStringSubmatch(field, -1) {
				if !seen[m[1]] {
					seen[m[1]] = true
					refs = append(refs, m[1])
				}
			}
		}
	}
	return refs
}
