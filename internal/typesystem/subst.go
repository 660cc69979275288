package typesystem

// Subst maps generated type variables, by ID, to the types they were
// solved to.
type Subst map[int]Type

// Apply replaces solved variables in t, following chains of solutions.
func (s Subst) Apply(t Type) Type {
	switch t := t.(type) {
	case TVar:
		if t.ID == 0 {
			return t
		}
		if solved, ok := s[t.ID]; ok {
			return s.Apply(solved)
		}
		return t
	case TFunc:
		return TFunc{Param: s.Apply(t.Param), Return: s.Apply(t.Return)}
	}
	return t
}

// Occurs reports whether the generated variable id appears in t.
func (s Subst) Occurs(id int, t Type) bool {
	switch t := s.Apply(t).(type) {
	case TVar:
		return t.ID == id
	case TFunc:
		return s.Occurs(id, t.Param) || s.Occurs(id, t.Return)
	}
	return false
}
