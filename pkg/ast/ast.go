package ast

import "github.com/godfearingman/ape/pkg/token"

type NodeType string

const (
	NodeNumberLiteral      NodeType = "NumberLiteral"
	NodeVariable           NodeType = "Variable"
	NodeBinaryExpression   NodeType = "BinaryExpression"
	NodeUnaryExpression    NodeType = "UnaryExpression"
	NodeAssignment         NodeType = "Assignment"
	NodeScopeExpression    NodeType = "ScopeExpression"
	NodeFunctionDefinition NodeType = "FunctionDefinition"
	NodeFunctionCall       NodeType = "FunctionCall"
)

// Expr is implemented by every node type in this package and by nothing
// else.
type Expr interface {
	NodeType() NodeType
	Pos() Position
	isExpr()
}

// Position is where the token that began a node sits in the source. Line is
// 0-based, Column is 1-based; the zero value means unknown.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func (p Position) Known() bool { return p.Column > 0 }

type nodeImpl struct {
	Type NodeType `json:"type" yaml:"type"`
	pos  Position
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType        { return n.Type }
func (n nodeImpl) Pos() Position             { return n.pos }
func (nodeImpl) isExpr()                     {}
func (n *nodeImpl) setPosition(pos Position) { n.pos = pos }

// SetPosition annotates the node with the provided position.
func SetPosition(node Expr, pos Position) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setPosition(Position) }); ok {
		setter.setPosition(pos)
	}
}

// Literals and references

type NumberLiteral struct {
	nodeImpl `yaml:",inline"`

	Value float64 `json:"value" yaml:"value"`
}

func NewNumberLiteral(value float64) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral), Value: value}
}

type Variable struct {
	nodeImpl `yaml:",inline"`

	Name string `json:"name" yaml:"name"`
}

func NewVariable(name string) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable), Name: name}
}

// Operators

type BinaryExpression struct {
	nodeImpl `yaml:",inline"`

	Operator token.Operator `json:"operator" yaml:"operator"`
	Left     Expr           `json:"left" yaml:"left"`
	Right    Expr           `json:"right" yaml:"right"`
}

func NewBinaryExpression(operator token.Operator, left, right Expr) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

// UnaryExpression covers the named math functions as well as negation
// (OpSubtract), logical not and factorial.
type UnaryExpression struct {
	nodeImpl `yaml:",inline"`

	Operator token.Operator `json:"operator" yaml:"operator"`
	Operand  Expr           `json:"operand" yaml:"operand"`
}

func NewUnaryExpression(operator token.Operator, operand Expr) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

// Bindings and blocks

// Assignment binds Name in the innermost scope. Both `let x = e` and `x = e`
// produce one.
type Assignment struct {
	nodeImpl `yaml:",inline"`

	Name  string `json:"name" yaml:"name"`
	Value Expr   `json:"value" yaml:"value"`
}

func NewAssignment(name string, value Expr) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment), Name: name, Value: value}
}

type ScopeExpression struct {
	nodeImpl `yaml:",inline"`

	Body []Expr `json:"body" yaml:"body"`
}

func NewScopeExpression(body []Expr) *ScopeExpression {
	if body == nil {
		body = make([]Expr, 0)
	}
	return &ScopeExpression{nodeImpl: newNodeImpl(NodeScopeExpression), Body: body}
}

// Functions

type FunctionDefinition struct {
	nodeImpl `yaml:",inline"`

	Name   string           `json:"name" yaml:"name"`
	Params []string         `json:"params" yaml:"params"`
	Body   *ScopeExpression `json:"body" yaml:"body"`
}

func NewFunctionDefinition(name string, params []string, body *ScopeExpression) *FunctionDefinition {
	if params == nil {
		params = make([]string, 0)
	}
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), Name: name, Params: params, Body: body}
}

type FunctionCall struct {
	nodeImpl `yaml:",inline"`

	Name      string `json:"name" yaml:"name"`
	Arguments []Expr `json:"arguments" yaml:"arguments"`
}

func NewFunctionCall(name string, args []Expr) *FunctionCall {
	if args == nil {
		args = make([]Expr, 0)
	}
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Name: name, Arguments: args}
}
