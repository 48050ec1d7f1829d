package parser

import (
	"time"
)

// File is the parsed program-model view of one source file.
type File struct {
	Path         string
	Dialect      string
	Namespace    string // Go package name / Java package
	Source       []byte
	Declarations []*Declaration
	Sites        []ReferenceSite // identifier/selector occurrences, in byte order
	Scopes       []*Scope        // enclosing-declaration spans
	ParsedAt     time.Time
}

type SymbolKind int

const (
	KindConstField SymbolKind = iota
	KindMethod
)

func (k SymbolKind) String() string {
	switch k {
	case KindConstField:
		return "ConstField"
	case KindMethod:
		return "Method"
	}
	return "Unknown"
}

type Accessibility int

const (
	AccessPublic Accessibility = iota
	AccessProtected
)

func (a Accessibility) String() string {
	switch a {
	case AccessPublic:
		return "Public"
	case AccessProtected:
		return "Protected"
	}
	return "Unknown"
}

// Declaration is one qualifying source-level declaration resolved to a symbol.
type Declaration struct {
	ID        string // stable symbol identity; overloads carry the signature
	Name      string
	Kind      SymbolKind
	Access    Accessibility
	Namespace string
	Type      string // declaring type; empty for package-level Go symbols
	Location  Location
	// NameOffset is the byte offset of the declared name token; the
	// reference query never reports the declaration's own name as a use.
	NameOffset uint

	// StatementText is the original declaration statement (methods:
	// signature only), trimmed. Complete marks it as a faithful standalone
	// rendering; combined declarations reconstruct instead.
	StatementText string
	Complete      bool
	SiblingCount  int    // names declared by the same statement
	Modifiers     string // original modifier text, e.g. "public static final"
	TypeText      string // explicit type annotation, "" if absent
	InitText      string // explicit per-name initializer, "" if absent
	ResolvedType  string // type known from symbol resolution, "" if unknown
	Const         *ConstValue

	Params     []Param // methods
	ResultText string  // method result/return type, "" for none
	Accessor   bool    // dialect-flagged property accessor
}

type Param struct {
	Name string
	Type string
}

// ConstValue is a resolved constant in canonical, locale-independent text.
type ConstValue struct {
	Kind ConstKind
	Text string // unquoted for strings and chars
}

type ConstKind int

const (
	ConstString ConstKind = iota
	ConstChar
	ConstBool
	ConstInt
	ConstFloat
	ConstOther
)

// ReferenceSite is one identifier occurrence that may be a use of a symbol.
type ReferenceSite struct {
	Name      string
	Qualifier string // selector/receiver text before the name, "" if bare
	Location  Location
}

type Location struct {
	File   string
	Line   int // 1-based
	Column int // 1-based
	Offset uint
}

type ScopeKind int

const (
	ScopeUnknown ScopeKind = iota
	ScopeFunction
	ScopeMethod
	ScopeCtor
	ScopeStaticInit
	ScopeLocalFunc
	ScopeAccessor
	ScopeFieldInit
	ScopeEventHandler
)

// Scope is a span of source owned by one enclosing declaration.
type Scope struct {
	Kind      ScopeKind
	Name      string // member name; "" when anonymous
	Type      string // owning type; "" at package/global level
	Namespace string
	Start     uint // byte span, [Start, End)
	End       uint
}

// Contains reports whether the byte offset falls inside the scope span.
func (s *Scope) Contains(offset uint) bool {
	return offset >= s.Start && offset < s.End
}
