package env_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ember-lang/emberc/env"
	"github.com/ember-lang/emberc/symbol"
)

type fakeMember symbol.ID

func (f fakeMember) MemberName() symbol.ID { return symbol.ID(f) }

func TestRootSeedsBottomTypes(t *testing.T) {
	root := env.NewRoot()
	assert.Same(t, root.Int(), root.Int())
	assert.NotNil(t, root.Void())
}

func TestInnerEnvironmentSharesBottoms(t *testing.T) {
	root := env.NewRoot()
	child := root.GenerateInnerEnvironment()
	assert.Same(t, root.Int(), child.Int())
	assert.Same(t, root, child.Parent())
}

func TestAddMemberAndRedeclaration(t *testing.T) {
	root := env.NewRoot()
	name := symbol.Intern("x")
	assert.True(t, root.AddMember(name, fakeMember(name)))
	assert.False(t, root.AddMember(name, fakeMember(name)))
	assert.Equal(t, env.Redeclaration, root.RedeclarationState(name))
}

func TestAliasAcrossScopes(t *testing.T) {
	root := env.NewRoot()
	name := symbol.Intern("y")
	root.AddMember(name, fakeMember(name))
	child := root.GenerateInnerEnvironment()
	assert.Equal(t, env.Alias, child.RedeclarationState(name))
	assert.Equal(t, env.Unique, child.RedeclarationState(symbol.Intern("z")))
}

func TestGetMemberWalksOutward(t *testing.T) {
	root := env.NewRoot()
	name := symbol.Intern("w")
	root.AddMember(name, fakeMember(name))
	child := root.GenerateInnerEnvironment()
	m, ok := child.GetMember(name)
	assert.True(t, ok)
	assert.Equal(t, fakeMember(name), m)
}

func TestGetInOrder(t *testing.T) {
	root := env.NewRoot()
	a, b := symbol.Intern("a_ord"), symbol.Intern("b_ord")
	root.AddMember(a, fakeMember(a))
	root.AddMember(b, fakeMember(b))
	m0, ok := root.GetInOrder(0)
	assert.True(t, ok)
	assert.Equal(t, fakeMember(a), m0)
	m1, _ := root.GetInOrder(1)
	assert.Equal(t, fakeMember(b), m1)
	_, ok = root.GetInOrder(2)
	assert.False(t, ok)
}
