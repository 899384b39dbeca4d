package relationship

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Category is the coarse grouping a relationship belongs to.
type Category string

const (
	CategoryFamily       Category = "family"
	CategoryProfessional Category = "professional"
	CategorySocial       Category = "social"
	CategoryRomantic     Category = "romantic"
	CategoryOther        Category = "other"
)

type genderPair struct {
	A Gender
	B Gender
}

type labelPair struct {
	AToB string
	BToA string
}

// baseType is one gender-resolvable entry: a complete male/female cell grid
// plus a fallback label used when either side's gender is not resolvable.
type baseType struct {
	Category Category
	Fallback string
	Cells    map[genderPair]labelPair
}

// Table holds the gendered base types and the specific-type category index.
// Immutable after construction; Resolver only reads it.
type Table struct {
	baseTypes  map[string]baseType
	categories map[string]Category
}

// symmetric builds the four-cell grid for types where the label depends only
// on the gender of the side it describes (sibling, grandparent, ...).
func symmetric(maleLabel, femaleLabel string) map[genderPair]labelPair {
	label := func(g Gender) string {
		if g == GenderFemale {
			return femaleLabel
		}
		return maleLabel
	}
	cells := make(map[genderPair]labelPair, 4)
	for _, a := range []Gender{GenderMale, GenderFemale} {
		for _, b := range []Gender{GenderMale, GenderFemale} {
			cells[genderPair{a, b}] = labelPair{AToB: label(a), BToA: label(b)}
		}
	}
	return cells
}

// asymmetric builds the grid for types where the two directions carry
// different roles (parent/child, uncle_aunt/nephew_niece, ...). The A side
// takes the forward role, the B side the inverse role.
func asymmetric(forwardMale, forwardFemale, inverseMale, inverseFemale string) map[genderPair]labelPair {
	forward := func(g Gender) string {
		if g == GenderFemale {
			return forwardFemale
		}
		return forwardMale
	}
	inverse := func(g Gender) string {
		if g == GenderFemale {
			return inverseFemale
		}
		return inverseMale
	}
	cells := make(map[genderPair]labelPair, 4)
	for _, a := range []Gender{GenderMale, GenderFemale} {
		for _, b := range []Gender{GenderMale, GenderFemale} {
			cells[genderPair{a, b}] = labelPair{AToB: forward(a), BToA: inverse(b)}
		}
	}
	return cells
}

// DefaultTable returns the built-in mapping. Every base type has full 2x2
// coverage and a fallback, so lookups can never miss.
func DefaultTable() *Table {
	base := map[string]baseType{
		"sibling": {
			Category: CategoryFamily,
			Fallback: "sibling",
			Cells:    symmetric("brother", "sister"),
		},
		"parent": {
			Category: CategoryFamily,
			Fallback: "parent",
			Cells:    asymmetric("father", "mother", "son", "daughter"),
		},
		"child": {
			Category: CategoryFamily,
			Fallback: "child",
			Cells:    asymmetric("son", "daughter", "father", "mother"),
		},
		"grandparent": {
			Category: CategoryFamily,
			Fallback: "grandparent",
			Cells:    asymmetric("grandfather", "grandmother", "grandson", "granddaughter"),
		},
		"grandchild": {
			Category: CategoryFamily,
			Fallback: "grandchild",
			Cells:    asymmetric("grandson", "granddaughter", "grandfather", "grandmother"),
		},
		"uncle_aunt": {
			Category: CategoryFamily,
			Fallback: "uncle_aunt",
			Cells:    asymmetric("uncle", "aunt", "nephew", "niece"),
		},
		"nephew_niece": {
			Category: CategoryFamily,
			Fallback: "nephew_niece",
			Cells:    asymmetric("nephew", "niece", "uncle", "aunt"),
		},
		"spouse": {
			Category: CategoryRomantic,
			Fallback: "spouse",
			Cells:    symmetric("husband", "wife"),
		},
		"sibling_in_law": {
			Category: CategoryFamily,
			Fallback: "sibling_in_law",
			Cells:    symmetric("brother_in_law", "sister_in_law"),
		},
		"parent_in_law": {
			Category: CategoryFamily,
			Fallback: "parent_in_law",
			Cells:    asymmetric("father_in_law", "mother_in_law", "son_in_law", "daughter_in_law"),
		},
		"child_in_law": {
			Category: CategoryFamily,
			Fallback: "child_in_law",
			Cells:    asymmetric("son_in_law", "daughter_in_law", "father_in_law", "mother_in_law"),
		},
		"godparent": {
			Category: CategoryFamily,
			Fallback: "godparent",
			Cells:    asymmetric("godfather", "godmother", "godson", "goddaughter"),
		},
		"godchild": {
			Category: CategoryFamily,
			Fallback: "godchild",
			Cells:    asymmetric("godson", "goddaughter", "godfather", "godmother"),
		},
	}
	categories := map[string]Category{
		"cousin":       CategoryFamily,
		"stepparent":   CategoryFamily,
		"stepchild":    CategoryFamily,
		"stepsibling":  CategoryFamily,
		"partner":      CategoryRomantic,
		"ex_partner":   CategoryOther,
		"ex_spouse":    CategoryOther,
		"friend":       CategorySocial,
		"close_friend": CategorySocial,
		"neighbor":     CategorySocial,
		"acquaintance": CategorySocial,
		"colleague":    CategoryProfessional,
		"manager":      CategoryProfessional,
		"report":       CategoryProfessional,
		"mentor":       CategoryProfessional,
		"mentee":       CategoryProfessional,
		"client":       CategoryProfessional,
		"vendor":       CategoryProfessional,
	}
	// Gendered leaf labels share the category of their base type.
	for name, bt := range base {
		categories[name] = bt.Category
		categories[bt.Fallback] = bt.Category
		for _, lp := range bt.Cells {
			categories[lp.AToB] = bt.Category
			categories[lp.BToA] = bt.Category
		}
	}
	return &Table{baseTypes: base, categories: categories}
}

// mappingFile is the YAML shape for operator-supplied additions to the table.
type mappingFile struct {
	Types []struct {
		Name     string `yaml:"name"`
		Category string `yaml:"category"`
		Fallback string `yaml:"fallback"`
		Labels   struct {
			ForwardMale   string `yaml:"forward_male"`
			ForwardFemale string `yaml:"forward_female"`
			InverseMale   string `yaml:"inverse_male"`
			InverseFemale string `yaml:"inverse_female"`
		} `yaml:"labels"`
	} `yaml:"types"`
	Categories map[string]string `yaml:"categories"`
}

// LoadTable returns the default table extended with entries from a YAML file.
func LoadTable(path string) (*Table, error) {
	t := DefaultTable()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading relationship mapping file: %w", err)
	}
	var mf mappingFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("unmarshalling relationship mapping YAML: %w", err)
	}
	for _, entry := range mf.Types {
		if entry.Name == "" {
			return nil, fmt.Errorf("relationship mapping entry missing name")
		}
		fallback := entry.Fallback
		if fallback == "" {
			fallback = entry.Name
		}
		cat := Category(entry.Category)
		if cat == "" {
			cat = CategoryOther
		}
		l := entry.Labels
		if l.ForwardMale == "" || l.ForwardFemale == "" {
			return nil, fmt.Errorf("relationship mapping entry %q missing forward labels", entry.Name)
		}
		inverseMale, inverseFemale := l.InverseMale, l.InverseFemale
		if inverseMale == "" {
			inverseMale = l.ForwardMale
		}
		if inverseFemale == "" {
			inverseFemale = l.ForwardFemale
		}
		bt := baseType{
			Category: cat,
			Fallback: fallback,
			Cells:    asymmetric(l.ForwardMale, l.ForwardFemale, inverseMale, inverseFemale),
		}
		t.baseTypes[entry.Name] = bt
		t.categories[entry.Name] = cat
		t.categories[fallback] = cat
		for _, lp := range bt.Cells {
			t.categories[lp.AToB] = cat
			t.categories[lp.BToA] = cat
		}
	}
	for name, cat := range mf.Categories {
		t.categories[name] = Category(cat)
	}
	return t, nil
}

// CategoryOf returns the category for a specific or base type, defaulting to
// "other" for unrecognized labels.
func (t *Table) CategoryOf(relType string) Category {
	if cat, ok := t.categories[relType]; ok {
		return cat
	}
	return CategoryOther
}

func (t *Table) isBaseType(relType string) bool {
	_, ok := t.baseTypes[relType]
	return ok
}

// TypeOption is one entry of the UI-facing options listing.
type TypeOption struct {
	Name           string   `json:"name"`
	Category       Category `json:"category"`
	GenderResolved bool     `json:"gender_resolved"`
}

// Options lists every known base and specific type, sorted by name.
func (t *Table) Options() []TypeOption {
	seen := make(map[string]bool, len(t.categories))
	opts := make([]TypeOption, 0, len(t.categories))
	for name, bt := range t.baseTypes {
		seen[name] = true
		opts = append(opts, TypeOption{Name: name, Category: bt.Category, GenderResolved: true})
	}
	for name, cat := range t.categories {
		if seen[name] {
			continue
		}
		seen[name] = true
		opts = append(opts, TypeOption{Name: name, Category: cat})
	}
	sort.Slice(opts, func(i, j int) bool { return opts[i].Name < opts[j].Name })
	return opts
}
