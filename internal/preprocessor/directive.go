package preprocessor

import "regexp"

// ---------------- Directives ----------------

type DirectiveKind int

const (
	NoDirective DirectiveKind = iota
	Quoted
	Angled
	Bare
)

func (k DirectiveKind) String() string {
	switch k {
	case Quoted:
		return "quoted"
	case Angled:
		return "angled"
	case Bare:
		return "bare"
	default:
		return "none"
	}
}

// Directive is the result of classifying one line. Ref is empty for
// NoDirective.
type Directive struct {
	Kind DirectiveKind
	Ref  string
}

var includeRE = regexp.MustCompile(
	`^[ \t]*#[ \t]*include[ \t]+(?:"([^"]+)"|<([^>]+)>|([_a-zA-Z][_0-9a-zA-Z]*))`,
)

// Classify recognises include directives. Alternatives are tried quoted,
// then angled, then bare identifier.
func Classify(line string) Directive {
	m := includeRE.FindStringSubmatch(line)
	switch {
	case m == nil:
		return Directive{}
	case m[1] != "":
		return Directive{Kind: Quoted, Ref: m[1]}
	case m[2] != "":
		return Directive{Kind: Angled, Ref: m[2]}
	default:
		return Directive{Kind: Bare, Ref: m[3]}
	}
}
