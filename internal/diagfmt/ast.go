package diagfmt

import (
	"fmt"
	"io"

	"exprua/internal/ast"
	"exprua/internal/source"
)

type ASTNodeOutput struct {
	Type     string          `json:"type" msgpack:"type"`
	Op       string          `json:"op,omitempty" msgpack:"op,omitempty"`
	Name     string          `json:"name,omitempty" msgpack:"name,omitempty"`
	Text     string          `json:"text,omitempty" msgpack:"text,omitempty"`
	Unit     string          `json:"unit,omitempty" msgpack:"unit,omitempty"`
	Span     source.Span     `json:"span" msgpack:"span"`
	Children []ASTNodeOutput `json:"children,omitempty" msgpack:"children,omitempty"`
}

// BuildASTOutput converts the subtree rooted at id into export records.
func BuildASTOutput(tree *ast.Tree, id ast.ExprID) ASTNodeOutput {
	expr := tree.Exprs.Get(id)
	if expr == nil {
		return ASTNodeOutput{Type: "<nil>"}
	}
	node := ASTNodeOutput{Type: expr.Kind.String(), Span: expr.Span}
	switch expr.Kind {
	case ast.ExprLit:
		data, _ := tree.Exprs.Literal(id)
		node.Text = data.Raw
		node.Unit = data.UnitText
	case ast.ExprIdent:
		data, _ := tree.Exprs.Ident(id)
		node.Name = tree.Name(data.Name)
	case ast.ExprUnary:
		data, _ := tree.Exprs.Unary(id)
		node.Op = data.Op.String()
	case ast.ExprBinary:
		data, _ := tree.Exprs.Binary(id)
		node.Op = data.Op.String()
	case ast.ExprCall:
		data, _ := tree.Exprs.Call(id)
		node.Name = tree.Name(data.Name)
	case ast.ExprAssign:
		data, _ := tree.Exprs.Assign(id)
		node.Name = tree.Name(data.Name)
	}
	for _, child := range tree.Children(id) {
		node.Children = append(node.Children, BuildASTOutput(tree, child))
	}
	return node
}

// nodeLabel renders one line of the pretty tree, e.g. "BinaryOp *" or
// "Literal 2 m".
func nodeLabel(n *ASTNodeOutput) string {
	switch {
	case n.Op != "":
		return n.Type + " " + n.Op
	case n.Name != "":
		return n.Type + " " + n.Name
	case n.Unit != "":
		return n.Type + " " + n.Text + " " + n.Unit
	case n.Text != "":
		return n.Type + " " + n.Text
	default:
		return n.Type
	}
}

// FormatASTPretty prints the tree with box-drawing connectors:
//
//	Assignment F
//	└─ BinaryOp *
//	   ├─ Literal 5 kg
//	   └─ Identifier g
func FormatASTPretty(w io.Writer, tree *ast.Tree) error {
	if tree == nil || !tree.Root.IsValid() {
		return fmt.Errorf("empty tree")
	}
	root := BuildASTOutput(tree, tree.Root)
	if _, err := fmt.Fprintln(w, nodeLabel(&root)); err != nil {
		return err
	}
	return formatChildrenPretty(w, root.Children, "")
}

func formatChildrenPretty(w io.Writer, children []ASTNodeOutput, prefix string) error {
	for i := range children {
		child := &children[i]
		branch, next := "├─ ", "│  "
		if i == len(children)-1 {
			branch, next = "└─ ", "   "
		}
		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, branch, nodeLabel(child)); err != nil {
			return err
		}
		if err := formatChildrenPretty(w, child.Children, prefix+next); err != nil {
			return err
		}
	}
	return nil
}

// FormatAST writes the tree in format.
func FormatAST(w io.Writer, tree *ast.Tree, format Format) error {
	if format == FormatPretty {
		return FormatASTPretty(w, tree)
	}
	if tree == nil || !tree.Root.IsValid() {
		return fmt.Errorf("empty tree")
	}
	return Encode(w, format, BuildASTOutput(tree, tree.Root))
}
