package ir

// KindOf names the variant of e, used in diagnostics.
func KindOf(e Expression) string {
	k := &kindVisitor{}
	e.Accept(k)
	return k.kind
}

type kindVisitor struct{ kind string }

func (k *kindVisitor) VisitInteger(*Integer)     { k.kind = "Integer" }
func (k *kindVisitor) VisitString(*String)       { k.kind = "String" }
func (k *kindVisitor) VisitReference(*Reference) { k.kind = "Reference" }
func (k *kindVisitor) VisitParameter(*Parameter) { k.kind = "Parameter" }
func (k *kindVisitor) VisitCall(*Call)           { k.kind = "Call" }
func (k *kindVisitor) VisitLambda(*Lambda)       { k.kind = "Lambda" }
func (k *kindVisitor) VisitIfElse(*IfElse)       { k.kind = "IfElse" }
func (k *kindVisitor) VisitRaw(*Raw)             { k.kind = "Raw" }
