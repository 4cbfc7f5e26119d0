// Package types implements the type lattice: the variant type
// representation, the convertibility relation between two types, and the
// least-upper-bound merge operation used to unify the branches of a
// conditional. It is deterministic and side-effect-free beyond the
// write-once resolution of alias bodies.
package types

import (
	"fmt"
	"strings"
)

// Convert is the result of a convertibility check. The zero value is Same,
// the strongest (most permissive) outcome.
type Convert int

const (
	Same Convert = iota
	Implicit
	Explicit
	False
)

// String renders a Convert for diagnostics.
func (c Convert) String() string {
	switch c {
	case Same:
		return "same"
	case Implicit:
		return "implicit"
	case Explicit:
		return "explicit"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// worse returns the stronger rejection of a and b: Same < Implicit <
// Explicit < False.
func worse(a, b Convert) Convert {
	if a > b {
		return a
	}
	return b
}

// Bottom enumerates the primitive scalar kinds.
type Bottom int

const (
	Int Bottom = iota
	Char
	Bool
	Float
	Void
	SelfRef
)

func (b Bottom) String() string {
	switch b {
	case Int:
		return "int"
	case Char:
		return "char"
	case Bool:
		return "bool"
	case Float:
		return "float"
	case Void:
		return "void"
	case SelfRef:
		return "self"
	default:
		return "unknown"
	}
}

// Field is a named, typed member of a Struct or Impl.
type Field struct {
	Name string
	Type *Type
}

// variant is the marker every concrete type representation implements. It is
// unexported so only this package can introduce new variants, mirroring the
// closed variant set in the data model.
type variant interface {
	variant()
}

// Type is a node in the type lattice: one variant plus the set of interfaces
// (Impls) it is decorated with. Two Types are the SAME type, for primitives,
// exactly when they are the same pointer; for everything else SAME means
// structural equivalence as determined by ConvertibleTo.
type Type struct {
	Variant    variant
	Interfaces []*Type
}

func newType(v variant) *Type { return &Type{Variant: v} }

// BottomVariant is a primitive scalar.
type BottomVariant struct{ Kind Bottom }

func (BottomVariant) variant() {}

// OptionalVariant holds a T or is absent.
type OptionalVariant struct{ Elem *Type }

func (OptionalVariant) variant() {}

// TupleVariant is a fixed-arity ordered product.
type TupleVariant struct{ Elems []*Type }

func (TupleVariant) variant() {}

// ListVariant is size (>=0 fixed, -1 unbounded) and element type.
type ListVariant struct {
	Size int
	Elem *Type
}

func (ListVariant) variant() {}

// StructVariant is an ordered set of named fields (a class body).
type StructVariant struct{ Fields []Field }

func (StructVariant) variant() {}

// SumVariant is a tagged union of branch types.
type SumVariant struct{ Branches []*Type }

func (SumVariant) variant() {}

// FunctionVariant is an ordinary function signature.
type FunctionVariant struct {
	Params []*Type
	Return *Type
}

func (FunctionVariant) variant() {}

// AliasVariant names another type. Body is nil until the elaborator resolves
// it; ResolveBody fills it exactly once.
type AliasVariant struct {
	Name string
	body *Type
}

func (AliasVariant) variant() {}

// ImplVariant is a trait-like interface specification.
type ImplVariant struct{ Members []Field }

func (ImplVariant) variant() {}

// Canonical primitive instances. Exactly one instance exists per Bottom kind
// for the lifetime of a compilation, so identity comparison doubles as SAME
// for primitives.
var (
	TheInt     = newType(BottomVariant{Kind: Int})
	TheChar    = newType(BottomVariant{Kind: Char})
	TheBool    = newType(BottomVariant{Kind: Bool})
	TheFloat   = newType(BottomVariant{Kind: Float})
	TheVoid    = newType(BottomVariant{Kind: Void})
	TheSelfRef = newType(BottomVariant{Kind: SelfRef})
)

// Canonical looks up the shared primitive instance for a Bottom kind.
func Canonical(b Bottom) *Type {
	switch b {
	case Int:
		return TheInt
	case Char:
		return TheChar
	case Bool:
		return TheBool
	case Float:
		return TheFloat
	case Void:
		return TheVoid
	case SelfRef:
		return TheSelfRef
	default:
		return TheVoid
	}
}

// NewOptional builds Optional(elem), collapsing Optional(Void) to Void per
// the invariant that Optional(Void) is never constructed.
func NewOptional(elem *Type) *Type {
	if elem.IsVoid() {
		return TheVoid
	}
	return newType(OptionalVariant{Elem: elem})
}

// NewTuple builds a fixed-arity product type.
func NewTuple(elems ...*Type) *Type {
	return newType(TupleVariant{Elems: elems})
}

// NewList builds a list type; size -1 means unbounded.
func NewList(size int, elem *Type) *Type {
	return newType(ListVariant{Size: size, Elem: elem})
}

// NewStruct builds an ordered struct type.
func NewStruct(fields ...Field) *Type {
	return newType(StructVariant{Fields: fields})
}

// NewSum builds a tagged-union type from at least one branch.
func NewSum(branches ...*Type) *Type {
	return newType(SumVariant{Branches: branches})
}

// NewFunction builds a function signature type.
func NewFunction(ret *Type, params ...*Type) *Type {
	return newType(FunctionVariant{Params: params, Return: ret})
}

// NewAlias builds an unresolved alias awaiting ResolveBody.
func NewAlias(name string) *Type {
	return newType(&AliasVariant{Name: name})
}

// NewResolvedAlias builds an alias with a known body, used when the parser
// can resolve it immediately (a TypeDef).
func NewResolvedAlias(name string, body *Type) *Type {
	return newType(&AliasVariant{Name: name, body: body})
}

// NewImpl builds an interface specification.
func NewImpl(members ...Field) *Type {
	return newType(ImplVariant{Members: members})
}

func (t *Type) bottom() (BottomVariant, bool) {
	v, ok := t.Variant.(BottomVariant)
	return v, ok
}

// IsVoid reports whether t is the Bottom Void kind.
func (t *Type) IsVoid() bool {
	v, ok := t.bottom()
	return ok && v.Kind == Void
}

// IsBottom reports whether t is a primitive scalar.
func (t *Type) IsBottom() bool {
	_, ok := t.bottom()
	return ok
}

// IsOptional reports whether t is Optional(_).
func (t *Type) IsOptional() bool {
	_, ok := t.Variant.(OptionalVariant)
	return ok
}

// IsTuple reports whether t is a Tuple.
func (t *Type) IsTuple() bool {
	_, ok := t.Variant.(TupleVariant)
	return ok
}

// IsList reports whether t is a List.
func (t *Type) IsList() bool {
	_, ok := t.Variant.(ListVariant)
	return ok
}

// IsStruct reports whether t is a Struct.
func (t *Type) IsStruct() bool {
	_, ok := t.Variant.(StructVariant)
	return ok
}

// IsSum reports whether t is a Sum.
func (t *Type) IsSum() bool {
	_, ok := t.Variant.(SumVariant)
	return ok
}

// IsFunction reports whether t is a Function.
func (t *Type) IsFunction() bool {
	_, ok := t.Variant.(FunctionVariant)
	return ok
}

// Alias returns the AliasVariant and true if t is an Alias.
func (t *Type) Alias() (*AliasVariant, bool) {
	v, ok := t.Variant.(*AliasVariant)
	return v, ok
}

// IsAlias reports whether t is an Alias.
func (t *Type) IsAlias() bool {
	_, ok := t.Alias()
	return ok
}

// IsImpl reports whether t is an Impl.
func (t *Type) IsImpl() bool {
	_, ok := t.Variant.(ImplVariant)
	return ok
}

// String renders t for diagnostics (error messages).
// It is not meant to round-trip through the parser's type grammar exactly,
// only to be legible in a compile error.
func (t *Type) String() string {
	switch v := t.Variant.(type) {
	case BottomVariant:
		return v.Kind.String()
	case OptionalVariant:
		return v.Elem.String() + "?"
	case TupleVariant:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case ListVariant:
		if v.Size < 0 {
			return "[" + v.Elem.String() + "]"
		}
		return fmt.Sprintf("[%s; %d]", v.Elem.String(), v.Size)
	case StructVariant:
		parts := make([]string, len(v.Fields))
		for i, f := range v.Fields {
			parts[i] = f.Name + ": " + f.Type.String()
		}
		return "class { " + strings.Join(parts, ", ") + " }"
	case SumVariant:
		parts := make([]string, len(v.Branches))
		for i, br := range v.Branches {
			parts[i] = br.String()
		}
		return strings.Join(parts, " | ")
	case FunctionVariant:
		parts := make([]string, len(v.Params))
		for i, p := range v.Params {
			parts[i] = p.String()
		}
		return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), v.Return.String())
	case *AliasVariant:
		return v.Name
	case ImplVariant:
		parts := make([]string, len(v.Members))
		for i, m := range v.Members {
			parts[i] = m.Name + ": " + m.Type.String()
		}
		return "impl { " + strings.Join(parts, ", ") + " }"
	default:
		return "<unknown type>"
	}
}

// Body returns the alias's resolved body, or nil if unresolved.
func (a *AliasVariant) Body() *Type { return a.body }

// ResolveBody fills an unresolved alias's body exactly once. Calling it on
// an already-resolved alias is an invariant violation reserved for the
// elaborator's own bug-detection, not a user-facing error, so it panics.
func (a *AliasVariant) ResolveBody(body *Type) {
	if a.body != nil {
		panic("types: alias " + a.Name + " already resolved")
	}
	a.body = body
}

// ConvertibleTo computes the convertibility of t (the source) to dst (the
// destination), per the laws of the type lattice.
func (t *Type) ConvertibleTo(dst *Type) Convert {
	if t == dst {
		return Same
	}
	if dv, ok := dst.bottom(); ok && dv.Kind == Void {
		if sv, ok := t.bottom(); ok && sv.Kind == Void {
			return Same
		}
		if t.IsOptional() {
			return Implicit
		}
		return False
	}
	switch src := t.Variant.(type) {
	case OptionalVariant:
		if dv, ok := dst.Variant.(OptionalVariant); ok {
			return src.Elem.ConvertibleTo(dv.Elem)
		}
		ans := src.Elem.ConvertibleTo(dst)
		if ans == Same {
			return Implicit
		}
		return ans
	case BottomVariant:
		return convertBottom(src, dst)
	case TupleVariant:
		dv, ok := dst.Variant.(TupleVariant)
		if !ok || len(dv.Elems) != len(src.Elems) {
			return False
		}
		ans := Same
		for i, e := range src.Elems {
			temp := e.ConvertibleTo(dv.Elems[i])
			if temp == False {
				return False
			}
			ans = worse(ans, temp)
		}
		return ans
	case ListVariant:
		dv, ok := dst.Variant.(ListVariant)
		if !ok {
			ans := src.Elem.ConvertibleTo(dst)
			if ans == False {
				return False
			}
			return Explicit
		}
		// size = -1 source converts like the element type alone, regardless
		// of the destination's size.
		if src.Size == -1 {
			return src.Elem.ConvertibleTo(dv.Elem)
		}
		// A fixed-size source only converts to a destination of the same or
		// smaller size (or an unbounded one, dv.Size == -1): widening to a
		// larger fixed size has no source elements to fill the extra slots.
		if dv.Size >= 0 && dv.Size > src.Size {
			return False
		}
		ans := src.Elem.ConvertibleTo(dv.Elem)
		if src.Size != dv.Size && ans == Same {
			return Implicit
		}
		return ans
	case StructVariant:
		dv, ok := dst.Variant.(StructVariant)
		if !ok || len(dv.Fields) != len(src.Fields) {
			return False
		}
		renamed := false
		for i, f := range src.Fields {
			if f.Name != dv.Fields[i].Name {
				temp := f.Type.ConvertibleTo(dv.Fields[i].Type)
				if temp == False || temp == Explicit {
					return False
				}
				renamed = true
			}
		}
		if renamed {
			return Explicit
		}
		return Same
	case *AliasVariant:
		if dv, ok := dst.Alias(); ok {
			if src.Name == dv.Name {
				return Same
			}
			ans := src.Body().ConvertibleTo(dv.Body())
			if ans == False {
				return False
			}
			return Explicit
		}
		ans := src.Body().ConvertibleTo(dst)
		if ans == Same {
			return Implicit
		}
		return ans
	case ImplVariant:
		return False
	case FunctionVariant:
		dv, ok := dst.Variant.(FunctionVariant)
		if !ok || len(dv.Params) != len(src.Params) {
			return False
		}
		ans := dv.Return.ConvertibleTo(src.Return)
		if ans == False {
			return False
		}
		for i := range src.Params {
			temp := dv.Params[i].ConvertibleTo(src.Params[i])
			if temp == False || temp == Explicit {
				return False
			}
			if temp == Implicit {
				ans = Implicit
			}
		}
		return ans
	case SumVariant:
		return convertSum(src, dst)
	}
	return False
}

func convertBottom(src BottomVariant, dst *Type) Convert {
	if src.Kind == Void {
		return Implicit
	}
	if dv, ok := dst.Alias(); ok {
		ans := Canonical(src.Kind).ConvertibleTo(dv.Body())
		if ans == Same || ans == Explicit {
			return Implicit
		}
		return ans
	}
	dv, ok := dst.bottom()
	if !ok {
		return False
	}
	switch src.Kind {
	case Int:
		switch dv.Kind {
		case Int:
			return Same
		case Char:
			return Implicit
		default:
			return False
		}
	case Char:
		switch dv.Kind {
		case Int:
			return Explicit
		case Char:
			return Same
		default:
			return False
		}
	case Float:
		switch dv.Kind {
		case Int:
			return Implicit
		case Char:
			return Explicit
		case Float:
			return Same
		default:
			return False
		}
	case Bool:
		if dv.Kind == Bool {
			return Same
		}
		return False
	case SelfRef:
		if dst.IsStruct() {
			return Implicit
		}
		return False
	default:
		return False
	}
}

func convertSum(src SumVariant, dst *Type) Convert {
	dv, ok := dst.Variant.(SumVariant)
	if !ok {
		ans := False
		for _, branch := range src.Branches {
			temp := branch.ConvertibleTo(dst)
			if temp == Same || temp == Implicit {
				return Implicit
			}
			if temp == Explicit {
				ans = Explicit
			}
		}
		return ans
	}
	same := len(src.Branches) == len(dv.Branches)
	for _, branch := range dv.Branches {
		temp := (&Type{Variant: src}).ConvertibleTo(branch)
		if temp == False || temp == Explicit {
			return False
		}
		if same {
			matched := false
			for _, sb := range src.Branches {
				if sb.ConvertibleTo(branch) == Same {
					matched = true
					break
				}
			}
			same = matched
		}
	}
	if same {
		return Same
	}
	return Implicit
}

// Merge computes the least upper bound of a and b, used to unify the
// branches of a conditional or match arm.
func Merge(a, b *Type) *Type {
	if a == b {
		return a
	}
	if a.IsVoid() || b.IsVoid() {
		other := a
		if a.IsVoid() {
			other = b
		}
		if other.IsOptional() {
			return other
		}
		return NewOptional(other)
	}
	if ans := a.ConvertibleTo(b); ans == Same || ans == Implicit {
		return b
	}
	if ans := b.ConvertibleTo(a); ans == Same || ans == Implicit {
		return a
	}
	aSum, aIsSum := a.Variant.(SumVariant)
	bSum, bIsSum := b.Variant.(SumVariant)
	switch {
	case aIsSum && bIsSum:
		return NewSum(unionBranches(aSum.Branches, bSum.Branches)...)
	case aIsSum:
		return NewSum(unionBranches(aSum.Branches, []*Type{b})...)
	case bIsSum:
		return NewSum(unionBranches(bSum.Branches, []*Type{a})...)
	}
	return NewSum(a, b)
}

// unionBranches de-duplicates branches under convertibility: a candidate is
// dropped if some already-kept branch is SAME to it.
func unionBranches(sets ...[]*Type) []*Type {
	var out []*Type
	for _, set := range sets {
		for _, cand := range set {
			dup := false
			for _, kept := range out {
				if cand.ConvertibleTo(kept) == Same {
					dup = true
					break
				}
			}
			if !dup {
				out = append(out, cand)
			}
		}
	}
	return out
}
