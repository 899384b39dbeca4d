package relationship

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveGendered(t *testing.T) {
	r := NewResolver(nil)

	res := r.Resolve("sibling", GenderMale, GenderFemale, false)
	require.Equal(t, "brother", res.AToB)
	require.Equal(t, "sister", res.BToA)
	require.Equal(t, CategoryFamily, res.Category)
	require.True(t, res.GenderResolved)
	require.Equal(t, "sibling", res.OriginalType)

	res = r.Resolve("parent", GenderFemale, GenderMale, false)
	require.Equal(t, "mother", res.AToB)
	require.Equal(t, "son", res.BToA)

	res = r.Resolve("uncle_aunt", GenderMale, GenderFemale, false)
	require.Equal(t, "uncle", res.AToB)
	require.Equal(t, "niece", res.BToA)
}

func TestResolveFallbackOnMissingGender(t *testing.T) {
	r := NewResolver(nil)

	res := r.Resolve("sibling", GenderUnknown, GenderFemale, false)
	require.Equal(t, "sibling", res.AToB)
	require.Equal(t, "sibling", res.BToA)
	require.False(t, res.GenderResolved)
	require.Equal(t, "sibling", res.OriginalType, "fallback keeps the requested base type for audit")

	res = r.Resolve("spouse", GenderNonbinary, GenderMale, false)
	require.Equal(t, "spouse", res.AToB)
	require.False(t, res.GenderResolved)
}

func TestResolveSpecificType(t *testing.T) {
	r := NewResolver(nil)

	res := r.Resolve("friend", GenderMale, GenderFemale, false)
	require.Equal(t, "friend", res.AToB)
	require.Equal(t, "friend", res.BToA)
	require.Equal(t, CategorySocial, res.Category)
	require.False(t, res.GenderResolved)
	require.Empty(t, res.OriginalType, "specific types carry no original base type")

	res = r.Resolve("sorcerer", GenderMale, GenderMale, false)
	require.Equal(t, "sorcerer", res.AToB)
	require.Equal(t, CategoryOther, res.Category)
}

func TestResolveOverrideBypassesGenders(t *testing.T) {
	r := NewResolver(nil)

	for _, a := range []Gender{GenderMale, GenderFemale, GenderNonbinary, GenderUnknown} {
		for _, b := range []Gender{GenderMale, GenderFemale, GenderNonbinary, GenderUnknown} {
			res := r.Resolve("sibling", a, b, true)
			require.Equal(t, "sibling", res.AToB)
			require.Equal(t, "sibling", res.BToA)
			require.False(t, res.GenderResolved)
			require.Empty(t, res.OriginalType)
		}
	}
}

func TestResolveDeterministic(t *testing.T) {
	r := NewResolver(nil)
	first := r.Resolve("grandparent", GenderFemale, GenderMale, false)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, r.Resolve("grandparent", GenderFemale, GenderMale, false))
	}
}

// Every base type must produce a usable result for every gender combination,
// including unknown and nonbinary values.
func TestFallbackCompleteness(t *testing.T) {
	table := DefaultTable()
	r := NewResolver(table)

	genders := []Gender{GenderMale, GenderFemale, GenderNonbinary, GenderUnknown}
	for name := range table.baseTypes {
		for _, a := range genders {
			for _, b := range genders {
				res := r.Resolve(name, a, b, false)
				require.NotEmpty(t, res.AToB, "type %s genders %s/%s", name, a, b)
				require.NotEmpty(t, res.BToA, "type %s genders %s/%s", name, a, b)
				require.NotEmpty(t, res.Category)
			}
		}
	}
}

func TestDefaultTableCellCoverage(t *testing.T) {
	table := DefaultTable()
	for name, bt := range table.baseTypes {
		require.NotEmpty(t, bt.Fallback, "base type %s", name)
		require.Len(t, bt.Cells, 4, "base type %s must cover the full 2x2 grid", name)
	}
}

func TestParseGender(t *testing.T) {
	require.Equal(t, GenderMale, ParseGender("Male"))
	require.Equal(t, GenderFemale, ParseGender(" f "))
	require.Equal(t, GenderNonbinary, ParseGender("non-binary"))
	require.Equal(t, GenderUnknown, ParseGender(""))
	require.Equal(t, GenderUnknown, ParseGender("xyzzy"))
}

func TestLoadTableMerge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mapping.yaml")
	content := `
types:
  - name: guardian
    category: family
    labels:
      forward_male: guardian
      forward_female: guardian
      inverse_male: ward
      inverse_female: ward
categories:
  bandmate: social
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	table, err := LoadTable(path)
	require.NoError(t, err)

	r := NewResolver(table)
	res := r.Resolve("guardian", GenderFemale, GenderMale, false)
	require.Equal(t, "guardian", res.AToB)
	require.Equal(t, "ward", res.BToA)
	require.True(t, res.GenderResolved)

	require.Equal(t, CategorySocial, table.CategoryOf("bandmate"))
	// built-ins survive the merge
	require.Equal(t, CategoryFamily, table.CategoryOf("sibling"))
}

func TestOptionsListsBaseAndSpecificTypes(t *testing.T) {
	table := DefaultTable()
	opts := table.Options()
	require.NotEmpty(t, opts)

	byName := make(map[string]TypeOption, len(opts))
	for _, o := range opts {
		byName[o.Name] = o
	}
	require.True(t, byName["sibling"].GenderResolved)
	require.False(t, byName["friend"].GenderResolved)
	require.Equal(t, CategoryProfessional, byName["colleague"].Category)
}
