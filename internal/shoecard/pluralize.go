package shoecard

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// irregularPlurals maps lower-case singular nouns to their plural form.
var irregularPlurals = map[string]string{
	"child":  "children",
	"foot":   "feet",
	"man":    "men",
	"mouse":  "mice",
	"person": "people",
	"tooth":  "teeth",
	"woman":  "women",
}

// Pluralize returns "{count} {noun}", using the plural noun for every count
// other than one: Pluralize("Color", 0) == "0 Colors".
func Pluralize(noun string, count int) string {
	label := noun
	if count != 1 {
		label = plural(noun)
	}
	return strconv.Itoa(count) + " " + label
}

func plural(noun string) string {
	if noun == "" {
		return noun
	}
	irregular, ok := irregularPlurals[strings.ToLower(noun)]
	if !ok {
		return noun + "s"
	}
	first, _ := utf8.DecodeRuneInString(noun)
	if unicode.IsUpper(first) {
		r, size := utf8.DecodeRuneInString(irregular)
		return string(unicode.ToUpper(r)) + irregular[size:]
	}
	return irregular
}
