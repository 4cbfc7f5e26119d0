// Package env implements the lexically scoped, parent-pointing environment
// tree that the parser builds and the elaborator and codegen consume.
package env

import (
	"github.com/ember-lang/emberc/symbol"
	"github.com/ember-lang/emberc/types"
)

// Member is anything an Environment can bind a name to. ast.Stmt
// declaration nodes (Declaration, Class, Impl, TypeDef) implement this so
// that env need not import the ast package — the dependency runs the other
// way, ast.Function/ast.Block embed an *Environment.
type Member interface {
	MemberName() symbol.ID
}

// RedeclarationState classifies a name lookup against one scope.
type RedeclarationState int

const (
	// Unique means the name is not bound anywhere visible from this scope.
	Unique RedeclarationState = iota
	// Alias means the name is bound in an ancestor scope but not this one.
	Alias
	// Redeclaration means the name is already bound at this exact scope.
	Redeclaration
)

// Environment is one lexical scope: a parent pointer, a name→Member map
// preserving insertion order, and (on the root) the canonical primitive
// types.
type Environment struct {
	parent  *Environment
	bottoms *bottomTypes
	byName  map[symbol.ID]Member
	order   []symbol.ID
}

type bottomTypes struct {
	void, int_, bool_, char, float, self *types.Type
}

// NewRoot creates a fresh root Environment seeded with the canonical
// primitive types, the way Parser::setup seeds them before parsing begins.
func NewRoot() *Environment {
	return &Environment{
		bottoms: &bottomTypes{
			void:   types.TheVoid,
			int_:   types.TheInt,
			bool_:  types.TheBool,
			char:   types.TheChar,
			float:  types.TheFloat,
			self:   types.TheSelfRef,
		},
		byName: map[symbol.ID]Member{},
	}
}

// GenerateInnerEnvironment returns a child scope with a fresh empty member
// map and the same primitive-type handles as its parent.
func (e *Environment) GenerateInnerEnvironment() *Environment {
	return &Environment{
		parent:  e,
		bottoms: e.bottoms,
		byName:  map[symbol.ID]Member{},
	}
}

// Parent returns the enclosing scope, or nil at the root.
func (e *Environment) Parent() *Environment { return e.parent }

// Void, Int, Bool, Char, Float, SelfRef return this environment's canonical
// primitive type handles (shared across the whole tree via the root).
func (e *Environment) Void() *types.Type    { return e.bottoms.void }
func (e *Environment) Int() *types.Type     { return e.bottoms.int_ }
func (e *Environment) Bool() *types.Type    { return e.bottoms.bool_ }
func (e *Environment) Char() *types.Type    { return e.bottoms.char }
func (e *Environment) Float() *types.Type   { return e.bottoms.float }
func (e *Environment) SelfRef() *types.Type { return e.bottoms.self }

// RedeclarationState reports how name relates to this scope and its
// ancestors.
func (e *Environment) RedeclarationState(name symbol.ID) RedeclarationState {
	if _, ok := e.byName[name]; ok {
		return Redeclaration
	}
	for p := e.parent; p != nil; p = p.parent {
		if _, ok := p.byName[name]; ok {
			return Alias
		}
	}
	return Unique
}

// AddMember appends a binding at this scope in declaration order. Returns
// false if name is already bound at this exact scope (a redeclaration the
// caller must turn into a ScopeError).
func (e *Environment) AddMember(name symbol.ID, m Member) bool {
	if _, ok := e.byName[name]; ok {
		return false
	}
	e.byName[name] = m
	e.order = append(e.order, name)
	return true
}

// GetMember looks up name starting at this scope and walking outward,
// returning the first hit.
func (e *Environment) GetMember(name symbol.ID) (Member, bool) {
	for scope := e; scope != nil; scope = scope.parent {
		if m, ok := scope.byName[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// GetInOrder returns the i-th member declared at this exact scope, in
// insertion order.
func (e *Environment) GetInOrder(i int) (Member, bool) {
	if i < 0 || i >= len(e.order) {
		return nil, false
	}
	return e.byName[e.order[i]], true
}

// Len returns the number of members declared directly at this scope.
func (e *Environment) Len() int { return len(e.order) }
