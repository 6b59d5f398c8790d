package treesitterhelper

import tree_sitter "github.com/tree-sitter/go-tree-sitter"

var (
	// JSModuleExportsPattern matches `module.exports = ...` and `exports.default = ...` assignments
	JSModuleExportsPattern = And(
		NodeKind("assignment_expression"),
		Field("left", And(
			NodeKind("member_expression"),
			NodeText("module.exports", "module.exports.default", "exports.default"),
		)),
	)

	// JSExportDefaultPattern matches `export default ...` statements
	JSExportDefaultPattern = And(
		NodeKind("export_statement"),
		FuncPattern(func(node *tree_sitter.Node, content []byte) bool {
			// `default` is an anonymous keyword node
			return GetFirstNodeOfKind(node, "default") != nil
		}),
	)

	// JSFunctionPattern matches every function form that can hold a return statement
	JSFunctionPattern = AnyNodeKind("arrow_function", "function_expression", "function", "function_declaration")
)

// JSRequireCallPattern matches require('<module>') calls for any of the given module names
func JSRequireCallPattern(modules ...string) Pattern {
	return And(
		NodeKind("call_expression"),
		Field("function", And(
			NodeKind("identifier"),
			NodeText("require"),
		)),
		Field("arguments", FuncPattern(func(node *tree_sitter.Node, content []byte) bool {
			if node.NamedChildCount() == 0 {
				return false
			}
			return And(NodeKind("string"), NodeText(modules...)).Matches(node.NamedChild(0), content)
		})),
	)
}

// JSExportedValue returns the expression a module exports: the right hand side
// of the last CommonJS export assignment, or the value of `export default`.
func JSExportedValue(root *tree_sitter.Node, content []byte) *tree_sitter.Node {
	var exported *tree_sitter.Node

	for _, node := range FindAll(root, Or(JSModuleExportsPattern, JSExportDefaultPattern), content) {
		switch node.Kind() {
		case "assignment_expression":
			exported = node.ChildByFieldName("right")
		case "export_statement":
			if value := node.ChildByFieldName("value"); value != nil {
				exported = value
			} else if declaration := node.ChildByFieldName("declaration"); declaration != nil {
				exported = declaration
			}
		}
	}

	return exported
}

// JSFunctionReturn returns the expression a function evaluates to: the body of an
// expression-bodied arrow function or the first top level return statement.
func JSFunctionReturn(function *tree_sitter.Node) *tree_sitter.Node {
	body := function.ChildByFieldName("body")
	if body == nil {
		return nil
	}
	if body.Kind() != "statement_block" {
		return body
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		statement := body.NamedChild(uint(i))
		if statement.Kind() == "return_statement" && statement.NamedChildCount() > 0 {
			return statement.NamedChild(0)
		}
	}
	return nil
}

// JSFunctionParams returns the names of a function's plain identifier parameters.
// Destructured or defaulted parameters are reported as empty names to keep positions.
func JSFunctionParams(function *tree_sitter.Node, content []byte) []string {
	if single := function.ChildByFieldName("parameter"); single != nil {
		return []string{single.Utf8Text(content)}
	}

	params := function.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}

	names := make([]string, 0, params.NamedChildCount())
	for i := 0; i < int(params.NamedChildCount()); i++ {
		param := params.NamedChild(uint(i))
		if param.Kind() == "comment" {
			continue
		}
		if param.Kind() == "identifier" {
			names = append(names, param.Utf8Text(content))
		} else {
			names = append(names, "")
		}
	}
	return names
}
