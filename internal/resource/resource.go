// Package resource describes the collections served by the generic
// tenant-scoped CRUD layer. Each collection is a Spec resolved once at
// startup; per-collection behavior lives in the Spec fields instead of
// conditionals in the service.
package resource

// Record is a JSON-shaped row keyed by camelCase field names.
type Record map[string]any

// Kind is the storage type of a field.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindInt
	KindBool
	KindTime
	KindJSON
)

// Field maps a JSON key to a column.
type Field struct {
	Name   string
	Column string
	Kind   Kind
	// Hidden fields are accepted on write but never returned.
	Hidden bool
}

// Child is a composed collection owned by its parent row.
type Child struct {
	Name       string
	Spec       *Spec
	ForeignKey string
	// OnList eager-loads the child on list as well as get.
	OnList bool
	// Nested children may be inserted together with the parent.
	Nested bool
}

// Spec is the capability record of one collection.
type Spec struct {
	Name  string
	Table string
	// AuditName is the suffix used in CREATE_/UPDATE_/DELETE_ audit actions.
	AuditName    string
	Fields       []Field
	TenantColumn string
	BranchScoped bool
	AdminWrite   bool
	Creatable    bool
	Updatable    bool
	Deletable    bool
	OrderBy      string
	Children     []Child

	byName map[string]Field
}

// Field returns the field with the given JSON name.
func (s *Spec) Field(name string) (Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// HasField reports whether s declares the JSON name.
func (s *Spec) HasField(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Child returns the composed collection with the given JSON name.
func (s *Spec) Child(name string) (Child, bool) {
	for _, c := range s.Children {
		if c.Name == name {
			return c, true
		}
	}
	return Child{}, false
}

func (s *Spec) index() {
	s.byName = make(map[string]Field, len(s.Fields))
	for _, f := range s.Fields {
		s.byName[f.Name] = f
	}
	for _, c := range s.Children {
		c.Spec.index()
	}
}
