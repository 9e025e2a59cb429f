package dataset

import (
	"strings"
	"unicode"
)

// stateAliases maps upper-cased, whitespace-collapsed spellings seen in the
// source registers to their canonical names.
var stateAliases = map[string]string{
	"WEST BENGAL": "West Bengal",
	"WESTBENGAL":  "West Bengal",
	"WEST BANGAL": "West Bengal",
	"WESTBANGAL":  "West Bengal",
	"WEST BENGLI": "West Bengal",
	"WESTBENGLI":  "West Bengal",

	"ANDHRA PRADESH":    "Andhra Pradesh",
	"ANDHRAPRADESH":     "Andhra Pradesh",
	"MADHYA PRADESH":    "Madhya Pradesh",
	"MADHYAPRADESH":     "Madhya Pradesh",
	"HIMACHAL PRADESH":  "Himachal Pradesh",
	"HIMACHALPRADESH":   "Himachal Pradesh",
	"UTTAR PRADESH":     "Uttar Pradesh",
	"UTTARPRADESH":      "Uttar Pradesh",
	"ARUNACHAL PRADESH": "Arunachal Pradesh",
	"ARUNACHALPRADESH":  "Arunachal Pradesh",

	"TAMIL NADU": "Tamil Nadu",
	"TAMILNADU":  "Tamil Nadu",

	"JAMMU AND KASHMIR":      "Jammu and Kashmir",
	"JAMMUANDKASHMIR":        "Jammu and Kashmir",
	"DADRA AND NAGAR HAVELI": "Dadra and Nagar Haveli",
	"DAMAN AND DIU":          "Daman and Diu",
}

// CanonicalState normalizes a state name so that spelling variants of the
// same state group together. Unknown names are title-cased.
func CanonicalState(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	key := strings.ToUpper(strings.Join(fields, " "))
	if canon, ok := stateAliases[key]; ok {
		return canon
	}
	return titleCase(fields)
}

// titleCase upper-cases the first letter of every word and lower-cases the rest.
func titleCase(words []string) string {
	out := make([]string, len(words))
	for i, w := range words {
		r := []rune(strings.ToLower(w))
		for j := range r {
			if j == 0 || !unicode.IsLetter(r[j-1]) {
				r[j] = unicode.ToUpper(r[j])
			}
		}
		out[i] = string(r)
	}
	return strings.Join(out, " ")
}

// CanonicalDistrict trims and collapses whitespace. District names are
// otherwise kept as exported.
func CanonicalDistrict(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
