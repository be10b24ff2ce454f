package circuit

import "strings"

// A Term is either a constant, when it has no argument, or a function applied to
// argument terms, such as (cell 1 1 x).
type Term struct {
	Name string
	Args []Term
}

// Const returns the constant term with the given name.
func Const(name string) Term {
	return Term{Name: name}
}

// Func returns the term applying name to args.
func Func(name string, args ...Term) Term {
	return Term{Name: name, Args: args}
}

// Consts is a shorthand for a function whose arguments are all constants.
func Consts(name string, args ...string) Term {
	t := Term{Name: name, Args: make([]Term, len(args))}
	for i, a := range args {
		t.Args[i] = Const(a)
	}
	return t
}

// IsConst is true iff t has no argument.
func (t Term) IsConst() bool {
	return len(t.Args) == 0
}

// Arity returns the number of arguments of t.
func (t Term) Arity() int {
	return len(t.Args)
}

// Arg returns the i'th argument of t, or the zero term if there is no such argument.
func (t Term) Arg(i int) Term {
	if i < 0 || i >= len(t.Args) {
		return Term{}
	}
	return t.Args[i]
}

// Equal is true iff t and t2 are structurally identical.
func (t Term) Equal(t2 Term) bool {
	if t.Name != t2.Name || len(t.Args) != len(t2.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].Equal(t2.Args[i]) {
			return false
		}
	}
	return true
}

// String returns t in rule syntax, e.g "(legal xplayer (mark 1 1))".
// Two terms are equal iff their string representations are equal, so the result can be
// used as a map key.
func (t Term) String() string {
	if t.IsConst() {
		return t.Name
	}
	var sb strings.Builder
	t.write(&sb)
	return sb.String()
}

func (t Term) write(sb *strings.Builder) {
	if t.IsConst() {
		sb.WriteString(t.Name)
		return
	}
	sb.WriteByte('(')
	sb.WriteString(t.Name)
	for _, arg := range t.Args {
		sb.WriteByte(' ')
		arg.write(sb)
	}
	sb.WriteByte(')')
}

// A Role is the name of a player.
type Role string

// Term returns the constant term naming r.
func (r Role) Term() Term {
	return Const(string(r))
}
