package relationship

// ResolutionResult carries the two directional labels for a pair plus the
// audit fields recorded on the stored relationship.
type ResolutionResult struct {
	AToB           string
	BToA           string
	Category       Category
	GenderResolved bool
	// OriginalType is the base type the caller asked for, kept for audit.
	// Empty when the requested type was already specific or override was set.
	OriginalType string
}

// Resolver maps a requested relationship type plus the two contacts' genders
// onto directional labels. Pure lookup; no I/O, no side effects.
type Resolver struct {
	table *Table
}

func NewResolver(table *Table) *Resolver {
	if table == nil {
		table = DefaultTable()
	}
	return &Resolver{table: table}
}

func (r *Resolver) Table() *Table { return r.table }

// Resolve never fails: a missing or unresolvable gender degrades both labels
// to the generic base type instead of blocking the request. Callers can tell
// the fallback apart from an explicitly generic type because OriginalType is
// only set when a known base type was requested.
func (r *Resolver) Resolve(requestedType string, genderA, genderB Gender, override bool) ResolutionResult {
	bt, known := r.table.baseTypes[requestedType]
	if override || !known {
		return ResolutionResult{
			AToB:     requestedType,
			BToA:     requestedType,
			Category: r.table.CategoryOf(requestedType),
		}
	}
	if !genderA.Resolvable() || !genderB.Resolvable() {
		return ResolutionResult{
			AToB:         bt.Fallback,
			BToA:         bt.Fallback,
			Category:     bt.Category,
			OriginalType: requestedType,
		}
	}
	cell := bt.Cells[genderPair{genderA, genderB}]
	return ResolutionResult{
		AToB:           cell.AToB,
		BToA:           cell.BToA,
		Category:       bt.Category,
		GenderResolved: true,
		OriginalType:   requestedType,
	}
}
