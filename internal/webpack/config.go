package webpack

import (
	"errors"
	"fmt"
	"path/filepath"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"github.com/wanfu920/jumpToAliasFile/internal/alias"
	treesitterhelper "github.com/wanfu920/jumpToAliasFile/internal/tree_sitter_helper"
)

// ErrNoExport is returned for config files that do not export anything
var ErrNoExport = errors.New("config file has no export")

const maxEvalDepth = 64

var pathRequirePattern = treesitterhelper.JSRequireCallPattern("path", "node:path")

// ExtractAliases statically reads resolve.alias out of a webpack config.
//
// The file is never executed. Only the subset of JavaScript that webpack
// configs commonly use to build their alias table is evaluated: literals,
// objects, local bindings, path.resolve/path.join, __dirname, config
// factories and merge helpers. Entries whose value cannot be determined are
// left out. cwd is the directory process.cwd() and relative path.resolve
// calls refer to.
func ExtractAliases(parser *tree_sitter.Parser, content []byte, configPath, cwd string) (alias.Table, error) {
	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s", configPath)
	}
	defer tree.Close()

	root := tree.RootNode()

	e := &evaluator{
		content:    content,
		configPath: configPath,
		cwd:        cwd,
	}

	global := newScope(nil)
	e.declare(global, root)

	exported := treesitterhelper.JSExportedValue(root, content)
	if exported == nil {
		return nil, ErrNoExport
	}

	table := alias.Table{}
	for _, config := range e.configs(e.eval(exported, global)) {
		object, ok := config.(*jsObject)
		if !ok {
			continue
		}
		resolve, ok := object.get("resolve").(*jsObject)
		if !ok {
			continue
		}
		collectAliases(resolve.get("alias"), table)
	}

	return table, nil
}

// configs expands an exported value into the config objects it stands for.
// Factories are called without arguments and arrays are multi-compiler configs.
func (e *evaluator) configs(value jsValue) []jsValue {
	if fn, ok := value.(*jsFunction); ok {
		value = e.call(fn, nil)
	}

	array, ok := value.(jsArray)
	if !ok {
		return []jsValue{value}
	}

	configs := make([]jsValue, 0, len(array))
	for _, element := range array {
		if fn, ok := element.(*jsFunction); ok {
			element = e.call(fn, nil)
		}
		configs = append(configs, element)
	}
	return configs
}

// collectAliases copies string entries of an alias object, or of the
// [{name, alias}] array form, into table.
func collectAliases(value jsValue, table alias.Table) {
	switch aliases := value.(type) {
	case *jsObject:
		for _, key := range aliases.keys {
			if target, ok := aliases.values[key].(string); ok {
				table[key] = target
			}
		}
	case jsArray:
		for _, element := range aliases {
			entry, ok := element.(*jsObject)
			if !ok {
				continue
			}
			name, nameOK := entry.get("name").(string)
			target, targetOK := entry.get("alias").(string)
			if nameOK && targetOK {
				table[name] = target
			}
		}
	}
}

// jsValue is a statically known value. nil means unknown.
type jsValue any

type jsUndefined struct{}

type jsArray []jsValue

type jsObject struct {
	keys   []string
	values map[string]jsValue
}

func newObject() *jsObject {
	return &jsObject{values: make(map[string]jsValue)}
}

func (o *jsObject) set(key string, value jsValue) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *jsObject) get(key string) jsValue {
	if value, ok := o.values[key]; ok {
		return value
	}
	return jsUndefined{}
}

type jsFunction struct {
	node  *tree_sitter.Node
	scope *scope
}

// jsPathModule is the value of require('path')
type jsPathModule struct{}

// jsPathFunc is one of the supported functions of the path module
type jsPathFunc string

type jsProcess struct{}

type jsProcessCwd struct{}

type binding struct {
	node   *tree_sitter.Node
	member string
	scope  *scope

	value      jsValue
	resolved   bool
	evaluating bool
}

type scope struct {
	parent   *scope
	bindings map[string]*binding
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, bindings: make(map[string]*binding)}
}

func (s *scope) lookup(name string) *binding {
	for current := s; current != nil; current = current.parent {
		if b, ok := current.bindings[name]; ok {
			return b
		}
	}
	return nil
}

func (s *scope) bindValue(name string, value jsValue) {
	s.bindings[name] = &binding{value: value, resolved: true}
}

type evaluator struct {
	content    []byte
	configPath string
	cwd        string
	depth      int
}

// declare registers the declarations and imports found directly in container.
// Values are evaluated lazily on first use.
func (e *evaluator) declare(s *scope, container *tree_sitter.Node) {
	for i := 0; i < int(container.NamedChildCount()); i++ {
		statement := container.NamedChild(uint(i))

		switch statement.Kind() {
		case "export_statement":
			if declaration := statement.ChildByFieldName("declaration"); declaration != nil {
				e.declareStatement(s, declaration)
			}
		case "import_statement":
			e.declareImport(s, statement)
		default:
			e.declareStatement(s, statement)
		}
	}
}

func (e *evaluator) declareStatement(s *scope, statement *tree_sitter.Node) {
	switch statement.Kind() {
	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(statement.NamedChildCount()); i++ {
			declarator := statement.NamedChild(uint(i))
			if declarator.Kind() != "variable_declarator" {
				continue
			}
			e.declareDeclarator(s, declarator)
		}
	case "function_declaration":
		if name := statement.ChildByFieldName("name"); name != nil {
			s.bindValue(name.Utf8Text(e.content), &jsFunction{node: statement, scope: s})
		}
	}
}

func (e *evaluator) declareDeclarator(s *scope, declarator *tree_sitter.Node) {
	name := declarator.ChildByFieldName("name")
	value := declarator.ChildByFieldName("value")
	if name == nil || value == nil {
		return
	}

	switch name.Kind() {
	case "identifier":
		s.bindings[name.Utf8Text(e.content)] = &binding{node: value, scope: s}
	case "object_pattern":
		// const { resolve, join: joinPath } = require('path')
		for i := 0; i < int(name.NamedChildCount()); i++ {
			property := name.NamedChild(uint(i))
			switch property.Kind() {
			case "shorthand_property_identifier_pattern":
				local := property.Utf8Text(e.content)
				s.bindings[local] = &binding{node: value, member: local, scope: s}
			case "pair_pattern":
				key := property.ChildByFieldName("key")
				local := property.ChildByFieldName("value")
				if key == nil || local == nil || local.Kind() != "identifier" {
					continue
				}
				s.bindings[local.Utf8Text(e.content)] = &binding{node: value, member: e.propertyKey(key, s), scope: s}
			}
		}
	}
}

func (e *evaluator) declareImport(s *scope, statement *tree_sitter.Node) {
	source, ok := treesitterhelper.StringValue(statement.ChildByFieldName("source"), e.content)
	if !ok || !isPathModule(source) {
		return
	}

	clause := treesitterhelper.GetFirstNodeOfKind(statement, "import_clause")
	if clause == nil {
		return
	}

	for i := 0; i < int(clause.NamedChildCount()); i++ {
		child := clause.NamedChild(uint(i))
		switch child.Kind() {
		case "identifier":
			s.bindValue(child.Utf8Text(e.content), jsPathModule{})
		case "namespace_import":
			if local := treesitterhelper.GetFirstNodeOfKind(child, "identifier"); local != nil {
				s.bindValue(local.Utf8Text(e.content), jsPathModule{})
			}
		case "named_imports":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				specifier := child.NamedChild(uint(j))
				if specifier.Kind() != "import_specifier" {
					continue
				}
				name := specifier.ChildByFieldName("name")
				if name == nil {
					continue
				}
				local := name
				if aliasNode := specifier.ChildByFieldName("alias"); aliasNode != nil {
					local = aliasNode
				}
				s.bindValue(local.Utf8Text(e.content), pathMember(name.Utf8Text(e.content)))
			}
		}
	}
}

func isPathModule(name string) bool {
	return name == "path" || name == "node:path"
}

func (e *evaluator) resolveBinding(b *binding) jsValue {
	if b.resolved {
		return b.value
	}
	if b.evaluating {
		return nil
	}

	b.evaluating = true
	value := e.eval(b.node, b.scope)
	if b.member != "" {
		value = e.member(value, b.member)
	}
	b.evaluating = false

	b.value = value
	b.resolved = true
	return value
}

func (e *evaluator) eval(node *tree_sitter.Node, s *scope) jsValue {
	if node == nil {
		return nil
	}

	e.depth++
	defer func() { e.depth-- }()
	if e.depth > maxEvalDepth {
		return nil
	}

	switch node.Kind() {
	case "string":
		value, _ := treesitterhelper.StringValue(node, e.content)
		return value
	case "template_string":
		return e.evalTemplate(node, s)
	case "true":
		return true
	case "false":
		return false
	case "null", "undefined":
		return jsUndefined{}
	case "identifier":
		return e.evalIdentifier(node.Utf8Text(e.content), s)
	case "parenthesized_expression", "await_expression":
		return e.eval(firstNamedChild(node), s)
	case "object":
		return e.evalObject(node, s)
	case "array":
		return e.evalArray(node, s)
	case "member_expression":
		property := node.ChildByFieldName("property")
		if property == nil {
			return nil
		}
		return e.member(e.eval(node.ChildByFieldName("object"), s), property.Utf8Text(e.content))
	case "subscript_expression":
		key, ok := e.eval(node.ChildByFieldName("index"), s).(string)
		if !ok {
			return nil
		}
		return e.member(e.eval(node.ChildByFieldName("object"), s), key)
	case "call_expression":
		return e.evalCall(node, s)
	case "binary_expression":
		return e.evalBinary(node, s)
	case "ternary_expression":
		truthy, known := isTruthy(e.eval(node.ChildByFieldName("condition"), s))
		if !known {
			return nil
		}
		if truthy {
			return e.eval(node.ChildByFieldName("consequence"), s)
		}
		return e.eval(node.ChildByFieldName("alternative"), s)
	case "assignment_expression":
		return e.eval(node.ChildByFieldName("right"), s)
	case "arrow_function", "function_expression", "function", "function_declaration":
		return &jsFunction{node: node, scope: s}
	}

	return nil
}

func (e *evaluator) evalIdentifier(name string, s *scope) jsValue {
	if b := s.lookup(name); b != nil {
		return e.resolveBinding(b)
	}

	switch name {
	case "__dirname":
		return filepath.Dir(e.configPath)
	case "__filename":
		return e.configPath
	case "process":
		return jsProcess{}
	case "undefined":
		return jsUndefined{}
	}
	return nil
}

func (e *evaluator) evalTemplate(node *tree_sitter.Node, s *scope) jsValue {
	var text []byte
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(uint(i))
		switch child.Kind() {
		case "string_fragment":
			text = append(text, child.Utf8Text(e.content)...)
		case "escape_sequence":
			text = append(text, treesitterhelper.DecodeEscape(child.Utf8Text(e.content))...)
		case "template_substitution":
			value, ok := e.eval(firstNamedChild(child), s).(string)
			if !ok {
				return nil
			}
			text = append(text, value...)
		}
	}
	return string(text)
}

func (e *evaluator) evalObject(node *tree_sitter.Node, s *scope) jsValue {
	object := newObject()

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(uint(i))

		switch child.Kind() {
		case "pair":
			key := e.propertyKey(child.ChildByFieldName("key"), s)
			if key == "" {
				continue
			}
			object.set(key, e.eval(child.ChildByFieldName("value"), s))
		case "shorthand_property_identifier":
			name := child.Utf8Text(e.content)
			object.set(name, e.evalIdentifier(name, s))
		case "spread_element":
			if spread, ok := e.eval(firstNamedChild(child), s).(*jsObject); ok {
				for _, key := range spread.keys {
					object.set(key, spread.values[key])
				}
			}
		case "method_definition":
			if name := child.ChildByFieldName("name"); name != nil {
				object.set(e.propertyKey(name, s), &jsFunction{node: child, scope: s})
			}
		}
	}

	return object
}

func (e *evaluator) evalArray(node *tree_sitter.Node, s *scope) jsValue {
	var array jsArray
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(uint(i))
		switch child.Kind() {
		case "comment":
		case "spread_element":
			if spread, ok := e.eval(firstNamedChild(child), s).(jsArray); ok {
				array = append(array, spread...)
			}
		default:
			array = append(array, e.eval(child, s))
		}
	}
	return array
}

// propertyKey returns the name of an object key node, "" if it is not static
func (e *evaluator) propertyKey(key *tree_sitter.Node, s *scope) string {
	if key == nil {
		return ""
	}

	switch key.Kind() {
	case "property_identifier", "number", "private_property_identifier":
		return key.Utf8Text(e.content)
	case "string":
		value, _ := treesitterhelper.StringValue(key, e.content)
		return value
	case "computed_property_name":
		value, _ := e.eval(firstNamedChild(key), s).(string)
		return value
	}
	return ""
}

func (e *evaluator) member(object jsValue, property string) jsValue {
	switch value := object.(type) {
	case *jsObject:
		return value.get(property)
	case jsPathModule:
		return pathMember(property)
	case jsProcess:
		if property == "cwd" {
			return jsProcessCwd{}
		}
	case jsUndefined:
		return jsUndefined{}
	}
	return nil
}

func pathMember(property string) jsValue {
	switch property {
	case "resolve", "join", "dirname", "normalize", "basename":
		return jsPathFunc(property)
	case "posix":
		return jsPathModule{}
	case "sep":
		return string(filepath.Separator)
	}
	return nil
}

func (e *evaluator) evalCall(node *tree_sitter.Node, s *scope) jsValue {
	function := node.ChildByFieldName("function")
	if function == nil {
		return nil
	}

	if function.Kind() == "identifier" && function.Utf8Text(e.content) == "require" && s.lookup("require") == nil {
		if pathRequirePattern.Matches(node, e.content) {
			return jsPathModule{}
		}
		return nil
	}

	args := e.evalArguments(node.ChildByFieldName("arguments"), s)

	switch callee := e.eval(function, s).(type) {
	case jsPathFunc:
		return e.callPath(callee, args)
	case jsProcessCwd:
		return e.cwd
	case *jsFunction:
		return e.call(callee, args)
	}

	// Unknown functions such as webpack-merge's merge() or defineConfig()
	// are assumed to combine the config objects they receive.
	var merged *jsObject
	for _, arg := range args {
		objects := []jsValue{arg}
		if array, ok := arg.(jsArray); ok {
			objects = array
		}
		for _, value := range objects {
			object, ok := value.(*jsObject)
			if !ok {
				continue
			}
			if merged == nil {
				merged = newObject()
			}
			mergeObjects(merged, object)
		}
	}
	if merged == nil {
		return nil
	}
	return merged
}

func (e *evaluator) evalArguments(node *tree_sitter.Node, s *scope) []jsValue {
	if node == nil {
		return nil
	}

	var args []jsValue
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(uint(i))
		switch child.Kind() {
		case "comment":
		case "spread_element":
			if spread, ok := e.eval(firstNamedChild(child), s).(jsArray); ok {
				args = append(args, spread...)
			} else {
				args = append(args, nil)
			}
		default:
			args = append(args, e.eval(child, s))
		}
	}
	return args
}

// call evaluates a function with the given arguments. Missing arguments are undefined.
func (e *evaluator) call(fn *jsFunction, args []jsValue) jsValue {
	local := newScope(fn.scope)
	for i, name := range treesitterhelper.JSFunctionParams(fn.node, e.content) {
		if name == "" {
			continue
		}
		var value jsValue = jsUndefined{}
		if i < len(args) {
			value = args[i]
		}
		local.bindValue(name, value)
	}

	if body := fn.node.ChildByFieldName("body"); body != nil && body.Kind() == "statement_block" {
		e.declare(local, body)
	}

	result := treesitterhelper.JSFunctionReturn(fn.node)
	if result == nil {
		return jsUndefined{}
	}
	return e.eval(result, local)
}

func (e *evaluator) callPath(fn jsPathFunc, args []jsValue) jsValue {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		part, ok := arg.(string)
		if !ok {
			return nil
		}
		parts = append(parts, part)
	}

	switch fn {
	case "resolve":
		return pathResolve(e.cwd, parts)
	case "join":
		joined := filepath.Join(parts...)
		if joined == "" {
			return "."
		}
		return joined
	}

	if len(parts) == 0 {
		return nil
	}
	switch fn {
	case "dirname":
		return filepath.Dir(parts[0])
	case "basename":
		return filepath.Base(parts[0])
	case "normalize":
		return filepath.Clean(parts[0])
	}
	return nil
}

// pathResolve mirrors node's path.resolve: segments are applied right to left
// until an absolute path is formed, falling back to cwd.
func pathResolve(cwd string, parts []string) string {
	resolved := ""
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] == "" {
			continue
		}
		resolved = filepath.Join(parts[i], resolved)
		if filepath.IsAbs(resolved) {
			return filepath.Clean(resolved)
		}
	}
	return filepath.Join(cwd, resolved)
}

func (e *evaluator) evalBinary(node *tree_sitter.Node, s *scope) jsValue {
	operator := node.ChildByFieldName("operator")
	if operator == nil {
		return nil
	}

	left := e.eval(node.ChildByFieldName("left"), s)

	switch operator.Kind() {
	case "+":
		right := e.eval(node.ChildByFieldName("right"), s)
		l, lok := left.(string)
		r, rok := right.(string)
		if lok && rok {
			return l + r
		}
	case "||":
		truthy, known := isTruthy(left)
		if !known {
			return nil
		}
		if truthy {
			return left
		}
		return e.eval(node.ChildByFieldName("right"), s)
	case "&&":
		truthy, known := isTruthy(left)
		if !known {
			return nil
		}
		if !truthy {
			return left
		}
		return e.eval(node.ChildByFieldName("right"), s)
	case "??":
		if _, ok := left.(jsUndefined); ok {
			return e.eval(node.ChildByFieldName("right"), s)
		}
		return left
	}

	return nil
}

// isTruthy reports the truthiness of a value and whether it is known at all
func isTruthy(value jsValue) (truthy bool, known bool) {
	switch v := value.(type) {
	case nil:
		return false, false
	case jsUndefined:
		return false, true
	case bool:
		return v, true
	case string:
		return v != "", true
	}
	return true, true
}

// mergeObjects merges src into dst the way webpack-merge does for plain
// objects: nested objects are merged, arrays are concatenated and any other
// value is replaced.
func mergeObjects(dst, src *jsObject) {
	for _, key := range src.keys {
		value := src.values[key]

		switch existing := dst.values[key].(type) {
		case *jsObject:
			if incoming, ok := value.(*jsObject); ok {
				merged := newObject()
				mergeObjects(merged, existing)
				mergeObjects(merged, incoming)
				dst.set(key, merged)
				continue
			}
		case jsArray:
			if incoming, ok := value.(jsArray); ok {
				dst.set(key, append(append(jsArray{}, existing...), incoming...))
				continue
			}
		}

		dst.set(key, value)
	}
}

func firstNamedChild(node *tree_sitter.Node) *tree_sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(uint(i))
		if child.Kind() != "comment" {
			return child
		}
	}
	return nil
}
