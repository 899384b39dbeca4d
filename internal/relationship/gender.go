package relationship

import "strings"

// Gender is a closed enum. Anything that is not male or female takes the
// resolver's generic-fallback path instead of failing the request.
type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderNonbinary Gender = "nonbinary"
	GenderUnknown   Gender = "unknown"
)

func ParseGender(raw string) Gender {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "m":
		return GenderMale
	case "female", "f":
		return GenderFemale
	case "nonbinary", "non-binary", "nb":
		return GenderNonbinary
	default:
		return GenderUnknown
	}
}

// Resolvable reports whether this gender selects a cell in the mapping table.
func (g Gender) Resolvable() bool {
	return g == GenderMale || g == GenderFemale
}

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNonbinary, GenderUnknown:
		return true
	default:
		return false
	}
}
