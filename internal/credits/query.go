package credits

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var featParenthetical = regexp.MustCompile(`\((feat\..*)\)`)

// BuildQuery turns a sheet artist and title into a catalog search query.
// Only the primary artist of an "X ft. Y" credit is kept and a
// "(feat. ...)" parenthetical is removed from the title.
func BuildQuery(artist, title string) string {
	primary, _, _ := strings.Cut(artist, " ft. ")
	parts := make([]string, 0, 2)
	for _, p := range []string{primary, StripFeaturing(title)} {
		if p = strings.TrimSpace(norm.NFC.String(p)); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// StripFeaturing removes a "(feat. ...)" parenthetical from a title.
func StripFeaturing(title string) string {
	return strings.TrimSpace(featParenthetical.ReplaceAllString(title, ""))
}
