package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Letters that do not decompose into an ASCII base plus a combining mark.
var specialLetters = strings.NewReplacer(
	"ı", "i", "ß", "ss", "æ", "ae", "ø", "o", "đ", "d", "ł", "l", "&", " and ",
)

// Generate creates a URL-friendly slug from a display name such as a
// category title. Accented letters are folded to ASCII.
//
//   - "Dog Food & Treats" -> "dog-food-and-treats"
//   - "Çocuk Ürünleri"    -> "cocuk-urunleri"
//   - "  Cat   Toys!! "   -> "cat-toys"
func Generate(name string) string {
	s := specialLetters.Replace(strings.ToLower(strings.TrimSpace(name)))

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	return strings.Trim(nonAlnum.ReplaceAllString(s, "-"), "-")
}
