package parser

import (
	"strconv"
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// GoExtractor audits exported package-level constants and exported methods.
// Go has a single visibility tier above package scope, so every declaration
// it emits is Public.
type GoExtractor struct{}

type goWalkState struct {
	funcName string
	typeName string
	depth    int // function nesting depth
}

func (e *GoExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*File, error) {
	file := &File{
		Path:     filePath,
		Dialect:  "go",
		Source:   source,
		ParsedAt: time.Now(),
	}

	w := &goWalker{src: source, file: file}
	w.walkChildren(root, goWalkState{})

	for _, d := range file.Declarations {
		d.Namespace = file.Namespace
		d.ID = goSymbolID(d)
	}
	for _, s := range file.Scopes {
		s.Namespace = file.Namespace
	}

	return file, nil
}

func goSymbolID(d *Declaration) string {
	var b strings.Builder
	b.WriteString(d.Namespace)
	b.WriteString(".")
	if d.Type != "" {
		b.WriteString(d.Type)
		b.WriteString(".")
	}
	b.WriteString(d.Name)
	if d.Kind == KindMethod {
		b.WriteString("(")
		for i, p := range d.Params {
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(p.Type)
		}
		b.WriteString(")")
	}
	return b.String()
}

type goWalker struct {
	src  []byte
	file *File
}

func (w *goWalker) walk(node *sitter.Node, st goWalkState) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "package_clause":
		for i := uint(0); i < node.ChildCount(); i++ {
			if c := node.Child(i); c.Kind() == "package_identifier" {
				w.file.Namespace = nodeText(w.src, c)
			}
		}
		return
	case "import_declaration", "comment":
		return
	case "const_declaration":
		if st.depth == 0 {
			w.constDecl(node, st)
			return
		}
		// Local consts are not audited; their initializers are still uses.
		w.walkSpecValues(node, st)
		return
	case "var_declaration":
		if st.depth == 0 {
			w.varDecl(node, st)
			return
		}
		w.walkSpecValues(node, st)
		return
	case "short_var_declaration":
		// The left side defines names; only the right side holds uses.
		w.walk(node.ChildByFieldName("right"), st)
		return
	case "function_declaration":
		w.funcDecl(node, st)
		return
	case "method_declaration":
		w.methodDecl(node, st)
		return
	case "func_literal":
		if st.depth > 0 {
			w.addScopeSpan(ScopeLocalFunc, st.funcName, st.typeName, node.StartByte(), node.EndByte())
		}
		next := st
		next.depth++
		w.walkChildren(node, next)
		return
	case "selector_expression":
		w.selector(node, st)
		return
	case "identifier", "field_identifier", "type_identifier":
		w.addSite(node, "")
		return
	}

	w.walkChildren(node, st)
}

func (w *goWalker) walkChildren(node *sitter.Node, st goWalkState) {
	for i := uint(0); i < node.ChildCount(); i++ {
		w.walk(node.Child(i), st)
	}
}

// walkSpecValues visits only the initializer expressions of a var/const
// declaration, skipping the declared names.
func (w *goWalker) walkSpecValues(decl *sitter.Node, st goWalkState) {
	for i := uint(0); i < decl.ChildCount(); i++ {
		spec := decl.Child(i)
		kind := spec.Kind()
		if kind != "const_spec" && kind != "var_spec" {
			continue
		}
		if value := spec.ChildByFieldName("value"); value != nil {
			w.walk(value, st)
		}
	}
}

func (w *goWalker) selector(node *sitter.Node, st goWalkState) {
	operand := node.ChildByFieldName("operand")
	field := node.ChildByFieldName("field")
	if field != nil {
		w.addSite(field, nodeText(w.src, operand))
	}
	// Chained selectors keep their own qualifier text.
	w.walk(operand, st)
}

func (w *goWalker) addSite(node *sitter.Node, qualifier string) {
	w.file.Sites = append(w.file.Sites, ReferenceSite{
		Name:      nodeText(w.src, node),
		Qualifier: qualifier,
		Location:  nodeLocation(w.file.Path, node),
	})
}

func (w *goWalker) addScopeSpan(kind ScopeKind, name, typeName string, start, end uint) {
	w.file.Scopes = append(w.file.Scopes, &Scope{
		Kind:  kind,
		Name:  name,
		Type:  typeName,
		Start: start,
		End:   end,
	})
}

func (w *goWalker) constDecl(decl *sitter.Node, st goWalkState) {
	grouped := false
	var specs []*sitter.Node
	for i := uint(0); i < decl.ChildCount(); i++ {
		c := decl.Child(i)
		switch c.Kind() {
		case "(":
			grouped = true
		case "const_spec":
			specs = append(specs, c)
		}
	}

	var lastType string
	var lastExprs []string
	for iotaIdx, spec := range specs {
		var names []*sitter.Node
		for i := uint(0); i < spec.ChildCount(); i++ {
			if c := spec.Child(i); c.Kind() == "identifier" {
				names = append(names, c)
			}
		}

		typeText := nodeText(w.src, spec.ChildByFieldName("type"))
		valueList := spec.ChildByFieldName("value")

		var exprNodes []*sitter.Node
		var exprTexts []string
		if valueList != nil {
			for i := uint(0); i < valueList.ChildCount(); i++ {
				c := valueList.Child(i)
				if c.Kind() == "," {
					continue
				}
				exprNodes = append(exprNodes, c)
				exprTexts = append(exprTexts, nodeText(w.src, c))
			}
		}

		// Specs without initializers repeat the previous spec's expression
		// list with the next iota value; specs without a type inherit the
		// previous explicit type in the same group.
		inherited := valueList == nil
		resolvedExprs := exprTexts
		if inherited {
			resolvedExprs = lastExprs
		} else {
			lastExprs = exprTexts
		}
		resolvedType := typeText
		if typeText != "" {
			lastType = typeText
		} else if inherited {
			resolvedType = lastType
		}

		for i, nameNode := range names {
			name := nodeText(w.src, nameNode)
			if !isExportedName(name) {
				continue
			}

			initText := ""
			if !inherited && i < len(exprTexts) {
				initText = exprTexts[i]
			}

			statement := "const " + strings.TrimSpace(nodeText(w.src, spec))
			complete := false
			if !grouped && len(names) == 1 {
				statement = strings.TrimSpace(nodeText(w.src, decl))
				complete = true
			} else if grouped && len(names) == 1 && !inherited {
				complete = true
			}

			w.file.Declarations = append(w.file.Declarations, &Declaration{
				Name:          name,
				Kind:          KindConstField,
				Access:        AccessPublic,
				Location:      nodeLocation(w.file.Path, decl),
				NameOffset:    nameNode.StartByte(),
				StatementText: statement,
				Complete:      complete,
				SiblingCount:  len(names),
				Modifiers:     "const",
				TypeText:      typeText,
				ResolvedType:  resolvedType,
				InitText:      initText,
				Const:         resolveGoConst(resolvedExprs, i, iotaIdx),
			})
		}

		// Initializer expressions are both use sites and field-init scopes.
		for i, expr := range exprNodes {
			scopeName := nodeText(w.src, names[0])
			if len(exprNodes) == len(names) {
				scopeName = nodeText(w.src, names[i])
			}
			w.addScopeSpan(ScopeFieldInit, scopeName, "", expr.StartByte(), expr.EndByte())
			w.walk(expr, st)
		}
	}
}

func resolveGoConst(exprTexts []string, nameIdx, iotaIdx int) *ConstValue {
	var text string
	switch {
	case nameIdx < len(exprTexts):
		text = exprTexts[nameIdx]
	case len(exprTexts) == 1:
		text = exprTexts[0]
	default:
		return nil
	}

	if strings.TrimSpace(text) == "iota" {
		return &ConstValue{Kind: ConstInt, Text: strconv.Itoa(iotaIdx)}
	}
	return classifyLiteralText(text)
}

func (w *goWalker) varDecl(decl *sitter.Node, st goWalkState) {
	for i := uint(0); i < decl.ChildCount(); i++ {
		spec := decl.Child(i)
		if spec.Kind() != "var_spec" {
			continue
		}

		var names []*sitter.Node
		for j := uint(0); j < spec.ChildCount(); j++ {
			if c := spec.Child(j); c.Kind() == "identifier" {
				names = append(names, c)
			}
		}

		valueList := spec.ChildByFieldName("value")
		if valueList == nil {
			continue
		}

		var exprNodes []*sitter.Node
		for j := uint(0); j < valueList.ChildCount(); j++ {
			if c := valueList.Child(j); c.Kind() != "," {
				exprNodes = append(exprNodes, c)
			}
		}

		for j, expr := range exprNodes {
			scopeName := ""
			if len(names) > 0 {
				scopeName = nodeText(w.src, names[0])
				if len(exprNodes) == len(names) {
					scopeName = nodeText(w.src, names[j])
				}
			}
			w.addScopeSpan(ScopeFieldInit, scopeName, "", expr.StartByte(), expr.EndByte())
			w.walk(expr, st)
		}
	}
}

func (w *goWalker) funcDecl(node *sitter.Node, st goWalkState) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nodeText(w.src, nameNode)
	resultText := nodeText(w.src, node.ChildByFieldName("result"))

	kind := ScopeFunction
	typeName := ""
	if name == "init" {
		kind = ScopeStaticInit
	} else if strings.HasPrefix(name, "New") && len(name) > 3 && strings.Contains(resultText, name[3:]) {
		// Constructor convention: NewFoo returning Foo.
		kind = ScopeCtor
		typeName = name[3:]
	}
	w.addScopeSpan(kind, name, typeName, node.StartByte(), node.EndByte())

	if body := node.ChildByFieldName("body"); body != nil {
		w.walkChildren(body, goWalkState{funcName: name, typeName: typeName, depth: st.depth + 1})
	}
}

func (w *goWalker) methodDecl(node *sitter.Node, st goWalkState) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nodeText(w.src, nameNode)
	recvType := w.receiverType(node.ChildByFieldName("receiver"))

	w.addScopeSpan(ScopeMethod, name, recvType, node.StartByte(), node.EndByte())

	body := node.ChildByFieldName("body")

	if isExportedName(name) {
		statement := strings.TrimSpace(nodeText(w.src, node))
		if body != nil {
			statement = strings.TrimSpace(string(w.src[node.StartByte():body.StartByte()]))
		}

		w.file.Declarations = append(w.file.Declarations, &Declaration{
			Name:          name,
			Kind:          KindMethod,
			Access:        AccessPublic,
			Type:          recvType,
			Location:      nodeLocation(w.file.Path, node),
			NameOffset:    nameNode.StartByte(),
			StatementText: statement,
			Complete:      true,
			SiblingCount:  1,
			Modifiers:     "func",
			Params:        w.params(node.ChildByFieldName("parameters")),
			ResultText:    nodeText(w.src, node.ChildByFieldName("result")),
		})
	}

	if body != nil {
		w.walkChildren(body, goWalkState{funcName: name, typeName: recvType, depth: st.depth + 1})
	}
}

func (w *goWalker) receiverType(receiver *sitter.Node) string {
	if receiver == nil {
		return ""
	}
	for i := uint(0); i < receiver.ChildCount(); i++ {
		c := receiver.Child(i)
		if c.Kind() != "parameter_declaration" {
			continue
		}
		text := nodeText(w.src, c.ChildByFieldName("type"))
		text = strings.TrimPrefix(text, "*")
		if idx := strings.Index(text, "["); idx > 0 {
			text = text[:idx]
		}
		return text
	}
	return ""
}

func (w *goWalker) params(list *sitter.Node) []Param {
	if list == nil {
		return nil
	}
	var params []Param
	for i := uint(0); i < list.ChildCount(); i++ {
		c := list.Child(i)
		if c.Kind() != "parameter_declaration" && c.Kind() != "variadic_parameter_declaration" {
			continue
		}
		typeText := nodeText(w.src, c.ChildByFieldName("type"))
		if c.Kind() == "variadic_parameter_declaration" {
			typeText = "..." + typeText
		}
		named := false
		for j := uint(0); j < c.ChildCount(); j++ {
			if n := c.Child(j); n.Kind() == "identifier" {
				params = append(params, Param{Name: nodeText(w.src, n), Type: typeText})
				named = true
			}
		}
		if !named {
			params = append(params, Param{Type: typeText})
		}
	}
	return params
}

// FormatConst renders a resolved constant as a Go literal.
func (e *GoExtractor) FormatConst(v *ConstValue, typeHint string) string {
	if v == nil {
		return "nil"
	}
	switch v.Kind {
	case ConstString:
		return strconv.Quote(v.Text)
	case ConstChar:
		for _, r := range v.Text {
			return strconv.QuoteRune(r)
		}
		return "''"
	default:
		return v.Text
	}
}

func (e *GoExtractor) AssembleConst(d *Declaration, initText string) string {
	typeText := d.TypeText
	if typeText == "" {
		typeText = d.ResolvedType
	}
	var b strings.Builder
	b.WriteString("const ")
	b.WriteString(d.Name)
	if typeText != "" {
		b.WriteString(" ")
		b.WriteString(typeText)
	}
	b.WriteString(" = ")
	b.WriteString(initText)
	return b.String()
}

func (e *GoExtractor) Synthesize(d *Declaration) string {
	if d.Kind == KindConstField {
		return e.AssembleConst(d, e.FormatConst(d.Const, d.ResolvedType))
	}

	var b strings.Builder
	b.WriteString("func ")
	if d.Type != "" {
		b.WriteString("(")
		b.WriteString(d.Type)
		b.WriteString(") ")
	}
	b.WriteString(d.Name)
	b.WriteString("(")
	for i, p := range d.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Name != "" {
			b.WriteString(p.Name)
			b.WriteString(" ")
		}
		b.WriteString(p.Type)
	}
	b.WriteString(")")
	if d.ResultText != "" {
		b.WriteString(" ")
		b.WriteString(d.ResultText)
	}
	return b.String()
}
