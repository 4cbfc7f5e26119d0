package codegen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ember-lang/emberc/ast"
	"github.com/ember-lang/emberc/codegen"
	"github.com/ember-lang/emberc/source"
	"github.com/ember-lang/emberc/token"
	"github.com/ember-lang/emberc/types"
)

// recordingBuilder is a fake codegen.Builder that records the calls Lower
// makes instead of emitting real IR, the same role a mock backend plays in
// the reference front end's own table-evaluation tests.
type recordingBuilder struct {
	calls []string
}

func (r *recordingBuilder) ConstInt(v int32) codegen.Value {
	r.calls = append(r.calls, "const.int")
	return v
}
func (r *recordingBuilder) ConstFloat(v float64) codegen.Value {
	r.calls = append(r.calls, "const.float")
	return v
}
func (r *recordingBuilder) ConstBool(v bool) codegen.Value {
	r.calls = append(r.calls, "const.bool")
	return v
}
func (r *recordingBuilder) ConstChar(v byte) codegen.Value {
	r.calls = append(r.calls, "const.char")
	return v
}
func (r *recordingBuilder) ConstString(v []byte) codegen.Value {
	r.calls = append(r.calls, "const.string")
	return v
}
func (r *recordingBuilder) BinaryOp(op token.Kind, kind types.Bottom, left, right codegen.Value) (codegen.Value, error) {
	r.calls = append(r.calls, "binary")
	return nil, nil
}
func (r *recordingBuilder) Negate(kind types.Bottom, v codegen.Value) (codegen.Value, error) {
	r.calls = append(r.calls, "negate")
	return nil, nil
}
func (r *recordingBuilder) Not(kind types.Bottom, v codegen.Value) (codegen.Value, error) {
	r.calls = append(r.calls, "not")
	return nil, nil
}
func (r *recordingBuilder) ConvertIntToFloat(v codegen.Value) codegen.Value {
	r.calls = append(r.calls, "conv.int_to_float")
	return v
}
func (r *recordingBuilder) ConvertNumeric(from, to types.Bottom, v codegen.Value) codegen.Value {
	r.calls = append(r.calls, "conv.numeric")
	return v
}
func (r *recordingBuilder) Alloca(name string, init codegen.Value) codegen.Value {
	r.calls = append(r.calls, "alloca")
	return init
}
func (r *recordingBuilder) Load(slot codegen.Value) codegen.Value { return slot }
func (r *recordingBuilder) Store(slot, v codegen.Value)            {}
func (r *recordingBuilder) NewBlock(label string) codegen.Block    { return label }
func (r *recordingBuilder) SetInsertPoint(b codegen.Block)          {}
func (r *recordingBuilder) Br(target codegen.Block)                 {}
func (r *recordingBuilder) CondBr(cond codegen.Value, then, els codegen.Block) {}
func (r *recordingBuilder) Phi(kind *types.Type, incoming []codegen.PhiEdge) codegen.Value {
	return nil
}
func (r *recordingBuilder) CallFunction(callee codegen.Value, args []codegen.Value) codegen.Value {
	return nil
}
func (r *recordingBuilder) CallConstructor(st *types.Type, fields []codegen.Value) codegen.Value {
	return nil
}
func (r *recordingBuilder) CallIndex(list, index codegen.Value) codegen.Value { return nil }

func TestLowerIntLiteral(t *testing.T) {
	b := &recordingBuilder{}
	n := &ast.Int{Value: 7}
	n.SetType(types.TheInt)
	_, err := codegen.Lower(b, n)
	assert.NoError(t, err)
	assert.Equal(t, []string{"const.int"}, b.calls)
}

func TestLowerBinaryEmitsOperandsThenOp(t *testing.T) {
	b := &recordingBuilder{}
	left := &ast.Int{Value: 1}
	left.SetType(types.TheInt)
	right := &ast.Int{Value: 2}
	right.SetType(types.TheInt)
	bin := &ast.Binary{Op: token.PLUS, Left: left, Right: right}
	_, err := codegen.Lower(b, bin)
	assert.NoError(t, err)
	assert.Equal(t, []string{"const.int", "const.int", "binary"}, b.calls)
}

func TestLowerTypeConvIntToFloatUsesDedicatedHook(t *testing.T) {
	b := &recordingBuilder{}
	inner := &ast.Int{Value: 3}
	inner.SetType(types.TheInt)
	tc := &ast.TypeConv{Implicit: true, From: types.TheInt, To: types.TheFloat, Inner: inner}
	_, err := codegen.Lower(b, tc)
	assert.NoError(t, err)
	assert.Equal(t, []string{"const.int", "conv.int_to_float"}, b.calls)
}

func TestLowerUnsupportedNodeIsIRError(t *testing.T) {
	b := &recordingBuilder{}
	_, err := codegen.Lower(b, &ast.Void{})
	assert.Error(t, err)
	d, ok := err.(interface{ Error() string })
	assert.True(t, ok)
	_ = d
}

func TestLowerPrefixNegateEmitsInnerThenNegate(t *testing.T) {
	b := &recordingBuilder{}
	inner := &ast.Int{Value: 5}
	inner.SetType(types.TheInt)
	p := &ast.Prefix{Op: token.MINUS, Inner: inner}
	p.SetPos(source.Location{})
	_, err := codegen.Lower(b, p)
	assert.NoError(t, err)
	assert.Equal(t, []string{"const.int", "negate"}, b.calls)
}
