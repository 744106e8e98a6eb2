package oncourt

import "strings"

var nameReplacer = strings.NewReplacer(
	".", "",
	"’", "",
	"'", "",
	"-", " ",
)

// NormalizeName maps a free-text player name onto a stable lookup key,
// absorbing punctuation and spacing differences between the boxscore and
// play-by-play feeds ("A.J. Lawson" and "AJ Lawson" collide on purpose).
func NormalizeName(name string) string {
	s := nameReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeTeam maps a team tricode onto its canonical upper-case form.
func NormalizeTeam(tricode string) string {
	return strings.ToUpper(strings.TrimSpace(tricode))
}
