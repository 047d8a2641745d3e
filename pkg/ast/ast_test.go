package ast

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/godfearingman/ape/pkg/token"
)

func TestSexpr(t *testing.T) {
	tests := []struct {
		name string
		node Expr
		want string
	}{
		{"number", Num(2.5), "2.5"},
		{"precedence", Add(Num(2), Mul(Num(3), Num(4))), "(+ 2 (* 3 4))"},
		{"unary", Un(token.OpSin, Neg(Var("x"))), "(sin (- x))"},
		{"log", Log(Num(100), Num(10)), "(log 100 10)"},
		{"assignment", Let("x", Fact(Num(5))), "(= x (! 5))"},
		{"empty block", Block(), "(block)"},
		{"block", Block(Let("x", Num(2)), Add(Var("x"), Num(3))), "(block (= x 2) (+ x 3))"},
		{"function", Fn("test", []string{"x", "y"}, Add(Var("x"), Var("y"))), "(fn test (x y) (block (+ x y)))"},
		{"no params", Fn("one", nil, Num(1)), "(fn one () (block 1))"},
		{"call", Call("test", Num(5), Num(2)), "(call test 5 2)"},
		{"nil", nil, "<nil>"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Sexpr(tc.node); got != tc.want {
				t.Fatalf("Sexpr = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestProgramJoinsStatements(t *testing.T) {
	got := Program([]Expr{Let("x", Num(5)), Add(Var("x"), Num(3))})
	want := "(= x 5)\n(+ x 3)"
	if got != want {
		t.Fatalf("Program = %q, want %q", got, want)
	}
}

func TestSetPosition(t *testing.T) {
	node := Add(Num(1), Num(2))
	if node.Pos().Known() {
		t.Fatalf("fresh node has position %+v", node.Pos())
	}
	SetPosition(node, Position{Line: 3, Column: 7})
	if got, want := node.Pos(), (Position{Line: 3, Column: 7}); got != want {
		t.Fatalf("position = %+v, want %+v", got, want)
	}
	if node.Left.Pos().Known() {
		t.Fatalf("child position changed: %+v", node.Left.Pos())
	}
	SetPosition(nil, Position{Line: 1, Column: 1})
}

func TestConstructorsNormalizeNilSlices(t *testing.T) {
	if got := NewScopeExpression(nil).Body; got == nil {
		t.Fatalf("block body is nil")
	}
	if got := NewFunctionCall("f", nil).Arguments; got == nil {
		t.Fatalf("call arguments are nil")
	}
	if got := NewFunctionDefinition("f", nil, Block()).Params; got == nil {
		t.Fatalf("function params are nil")
	}
}

func TestJSONEncoding(t *testing.T) {
	data, err := json.Marshal(Add(Num(2), Var("x")))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"type":"BinaryExpression","operator":"+","left":{"type":"NumberLiteral","value":2},"right":{"type":"Variable","name":"x"}}`
	if string(data) != want {
		t.Fatalf("json = %s, want %s", data, want)
	}
}

func TestYAMLEncodingInlinesNodeType(t *testing.T) {
	data, err := yaml.Marshal(Fn("f", []string{"a"}, Var("a")))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := yaml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, data)
	}
	if decoded["type"] != string(NodeFunctionDefinition) {
		t.Fatalf("type = %v, want %s\n%s", decoded["type"], NodeFunctionDefinition, data)
	}
	if decoded["name"] != "f" {
		t.Fatalf("name = %v, want f", decoded["name"])
	}
	body, ok := decoded["body"].(map[string]any)
	if !ok {
		t.Fatalf("body = %T, want mapping\n%s", decoded["body"], data)
	}
	if body["type"] != string(NodeScopeExpression) {
		t.Fatalf("body type = %v", body["type"])
	}
}
