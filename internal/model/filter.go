package model

// PostFilter selects one status partition from the record store.
// Category and Tag are optional narrowing pushed down to the store.
// Legacy asks for the reduced column set that predates soft deletion.
type PostFilter struct {
	Status   Status
	Category string
	Tag      string
	Legacy   bool
}

func (f PostFilter) Match(p *Post) bool {
	if p.Status() != f.Status {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Tag != "" && !p.HasTag(f.Tag) {
		return false
	}
	return true
}
