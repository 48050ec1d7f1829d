package parser

import (
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// JavaExtractor audits public static final fields and public/protected
// methods. Candidate selection is a textual-modifier filter: a member whose
// modifier list lacks the literal keyword is excluded even when its effective
// accessibility would qualify.
type JavaExtractor struct{}

type javaWalkState struct {
	memberName string
	typeName   string
	depth      int
}

func (e *JavaExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*File, error) {
	file := &File{
		Path:     filePath,
		Dialect:  "java",
		Source:   source,
		ParsedAt: time.Now(),
	}

	w := &javaWalker{src: source, file: file}
	for i := uint(0); i < root.ChildCount(); i++ {
		c := root.Child(i)
		switch c.Kind() {
		case "package_declaration":
			w.file.Namespace = w.packageName(c)
		case "class_declaration", "interface_declaration", "enum_declaration":
			w.extractType(c, "")
		}
	}

	for _, d := range file.Declarations {
		d.Namespace = file.Namespace
		d.ID = javaSymbolID(d)
	}
	for _, s := range file.Scopes {
		s.Namespace = file.Namespace
	}

	return file, nil
}

func javaSymbolID(d *Declaration) string {
	var b strings.Builder
	b.WriteString(d.Namespace)
	b.WriteString(".")
	b.WriteString(d.Type)
	b.WriteString(".")
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

type javaWalker struct {
	src  []byte
	file *File
}

func (w *javaWalker) packageName(node *sitter.Node) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		c := node.Child(i)
		if c.Kind() == "scoped_identifier" || c.Kind() == "identifier" {
			return nodeText(w.src, c)
		}
	}
	return ""
}

func (w *javaWalker) extractType(node *sitter.Node, enclosing string) {
	nameNode := node.ChildByFieldName("name")
	body := node.ChildByFieldName("body")
	if nameNode == nil || body == nil {
		return
	}
	simpleName := nodeText(w.src, nameNode)
	dotted := simpleName
	if enclosing != "" {
		dotted = enclosing + "." + simpleName
	}

	// Type-level span catches uses outside any member scope.
	w.addScopeSpan(ScopeUnknown, simpleName, dotted, node.StartByte(), node.EndByte())

	fields := w.collectFieldNames(body)

	for _, member := range typeMembers(body) {
		switch member.Kind() {
		case "field_declaration":
			w.fieldDecl(member, dotted)
		case "method_declaration":
			w.methodDecl(member, dotted, simpleName, fields)
		case "constructor_declaration":
			w.addScopeSpan(ScopeCtor, simpleName, dotted, member.StartByte(), member.EndByte())
			if b := member.ChildByFieldName("body"); b != nil {
				w.walk(b, javaWalkState{memberName: simpleName, typeName: dotted, depth: 1})
			}
		case "static_initializer":
			w.addScopeSpan(ScopeStaticInit, simpleName, dotted, member.StartByte(), member.EndByte())
			w.walk(member, javaWalkState{memberName: simpleName, typeName: dotted, depth: 1})
		case "class_declaration", "interface_declaration", "enum_declaration":
			w.extractType(member, dotted)
		}
	}
}

// typeMembers flattens a type body into its member nodes; enum members sit
// under a nested enum_body_declarations node rather than the body itself.
func typeMembers(body *sitter.Node) []*sitter.Node {
	var members []*sitter.Node
	for i := uint(0); i < body.ChildCount(); i++ {
		c := body.Child(i)
		if c.Kind() == "enum_body_declarations" {
			for j := uint(0); j < c.ChildCount(); j++ {
				members = append(members, c.Child(j))
			}
			continue
		}
		members = append(members, c)
	}
	return members
}

func (w *javaWalker) collectFieldNames(body *sitter.Node) map[string]bool {
	fields := make(map[string]bool)
	for _, member := range typeMembers(body) {
		if member.Kind() != "field_declaration" {
			continue
		}
		for j := uint(0); j < member.ChildCount(); j++ {
			c := member.Child(j)
			if c.Kind() != "variable_declarator" {
				continue
			}
			if name := c.ChildByFieldName("name"); name != nil {
				fields[nodeText(w.src, name)] = true
			}
		}
	}
	return fields
}

func (w *javaWalker) modifiers(node *sitter.Node) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		if c := node.Child(i); c.Kind() == "modifiers" {
			return nodeText(w.src, c)
		}
	}
	return ""
}

func hasModifier(modText, keyword string) bool {
	for _, tok := range strings.Fields(modText) {
		if tok == keyword {
			return true
		}
	}
	return false
}

func (w *javaWalker) fieldDecl(node *sitter.Node, dotted string) {
	modText := w.modifiers(node)
	typeText := nodeText(w.src, node.ChildByFieldName("type"))

	var declarators []*sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		if c := node.Child(i); c.Kind() == "variable_declarator" {
			declarators = append(declarators, c)
		}
	}

	constant := hasModifier(modText, "static") && hasModifier(modText, "final")
	access, visible := javaAccess(modText)

	for _, declarator := range declarators {
		nameNode := declarator.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		name := nodeText(w.src, nameNode)
		valueNode := declarator.ChildByFieldName("value")
		initText := nodeText(w.src, valueNode)

		if constant && visible {
			w.file.Declarations = append(w.file.Declarations, &Declaration{
				Name:          name,
				Kind:          KindConstField,
				Access:        access,
				Type:          dotted,
				Location:      nodeLocation(w.file.Path, node),
				NameOffset:    nameNode.StartByte(),
				StatementText: strings.TrimSpace(nodeText(w.src, node)),
				Complete:      len(declarators) == 1,
				SiblingCount:  len(declarators),
				Modifiers:     modText,
				TypeText:      typeText,
				ResolvedType:  typeText,
				InitText:      initText,
				Const:         classifyLiteralText(initText),
			})
		}

		if valueNode != nil {
			w.addScopeSpan(ScopeFieldInit, name, dotted, valueNode.StartByte(), valueNode.EndByte())
			w.walk(valueNode, javaWalkState{memberName: name, typeName: dotted, depth: 1})
		}
	}
}

func (w *javaWalker) methodDecl(node *sitter.Node, dotted, simpleName string, fields map[string]bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := nodeText(w.src, nameNode)
	modText := w.modifiers(node)
	accessor := isBeanAccessor(name, fields)

	scopeKind := ScopeMethod
	switch {
	case accessor:
		scopeKind = ScopeAccessor
	case isListenerHandler(name):
		scopeKind = ScopeEventHandler
	}
	w.addScopeSpan(scopeKind, name, dotted, node.StartByte(), node.EndByte())

	body := node.ChildByFieldName("body")

	if access, visible := javaAccess(modText); visible {
		statement := strings.TrimSpace(nodeText(w.src, node))
		if body != nil {
			statement = strings.TrimSpace(string(w.src[node.StartByte():body.StartByte()]))
		}
		statement = strings.TrimSpace(strings.TrimSuffix(statement, ";"))

		w.file.Declarations = append(w.file.Declarations, &Declaration{
			Name:          name,
			Kind:          KindMethod,
			Access:        access,
			Type:          dotted,
			Location:      nodeLocation(w.file.Path, node),
			NameOffset:    nameNode.StartByte(),
			StatementText: statement,
			Complete:      true,
			SiblingCount:  1,
			Modifiers:     modText,
			Params:        w.params(node.ChildByFieldName("parameters")),
			ResultText:    nodeText(w.src, node.ChildByFieldName("type")),
			Accessor:      accessor,
		})
	}

	if body != nil {
		w.walk(body, javaWalkState{memberName: name, typeName: dotted, depth: 1})
	}
}

// javaAccess maps the literal visibility keyword; members without one are
// not candidates regardless of effective accessibility.
func javaAccess(modText string) (Accessibility, bool) {
	if hasModifier(modText, "public") {
		return AccessPublic, true
	}
	if hasModifier(modText, "protected") {
		return AccessProtected, true
	}
	return AccessPublic, false
}

func isBeanAccessor(name string, fields map[string]bool) bool {
	var prop string
	switch {
	case strings.HasPrefix(name, "get") && len(name) > 3:
		prop = name[3:]
	case strings.HasPrefix(name, "set") && len(name) > 3:
		prop = name[3:]
	case strings.HasPrefix(name, "is") && len(name) > 2:
		prop = name[2:]
	default:
		return false
	}
	if prop[0] < 'A' || prop[0] > 'Z' {
		return false
	}
	return fields[strings.ToLower(prop[:1])+prop[1:]]
}

func isListenerHandler(name string) bool {
	return strings.HasPrefix(name, "on") && len(name) > 2 && name[2] >= 'A' && name[2] <= 'Z'
}

func (w *javaWalker) params(list *sitter.Node) []Param {
	if list == nil {
		return nil
	}
	var params []Param
	for i := uint(0); i < list.ChildCount(); i++ {
		c := list.Child(i)
		if c.Kind() != "formal_parameter" && c.Kind() != "spread_parameter" {
			continue
		}
		params = append(params, Param{
			Name: nodeText(w.src, c.ChildByFieldName("name")),
			Type: nodeText(w.src, c.ChildByFieldName("type")),
		})
	}
	return params
}

func (w *javaWalker) walk(node *sitter.Node, st javaWalkState) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "comment", "import_declaration":
		return
	case "lambda_expression":
		w.addScopeSpan(ScopeLocalFunc, st.memberName, st.typeName, node.StartByte(), node.EndByte())
		next := st
		next.depth++
		w.walkChildren(node, next)
		return
	case "class_declaration":
		// Local and anonymous classes nest inside a member.
		w.addScopeSpan(ScopeLocalFunc, st.memberName, st.typeName, node.StartByte(), node.EndByte())
		w.walkChildren(node, st)
		return
	case "method_declaration", "constructor_declaration":
		if name := node.ChildByFieldName("name"); name != nil {
			w.addScopeSpan(ScopeMethod, nodeText(w.src, name), st.typeName, node.StartByte(), node.EndByte())
		}
		if body := node.ChildByFieldName("body"); body != nil {
			w.walk(body, st)
		}
		return
	case "method_invocation":
		object := node.ChildByFieldName("object")
		if name := node.ChildByFieldName("name"); name != nil {
			w.addSite(name, nodeText(w.src, object))
		}
		w.walk(object, st)
		w.walk(node.ChildByFieldName("arguments"), st)
		return
	case "field_access":
		object := node.ChildByFieldName("object")
		if field := node.ChildByFieldName("field"); field != nil {
			w.addSite(field, nodeText(w.src, object))
		}
		w.walk(object, st)
		return
	case "identifier":
		w.addSite(node, "")
		return
	}

	w.walkChildren(node, st)
}

func (w *javaWalker) walkChildren(node *sitter.Node, st javaWalkState) {
	for i := uint(0); i < node.ChildCount(); i++ {
		w.walk(node.Child(i), st)
	}
}

func (w *javaWalker) addSite(node *sitter.Node, qualifier string) {
	w.file.Sites = append(w.file.Sites, ReferenceSite{
		Name:      nodeText(w.src, node),
		Qualifier: qualifier,
		Location:  nodeLocation(w.file.Path, node),
	})
}

func (w *javaWalker) addScopeSpan(kind ScopeKind, name, typeName string, start, end uint) {
	w.file.Scopes = append(w.file.Scopes, &Scope{
		Kind:  kind,
		Name:  name,
		Type:  typeName,
		Start: start,
		End:   end,
	})
}

// FormatConst renders a resolved constant as a Java literal.
func (e *JavaExtractor) FormatConst(v *ConstValue, typeHint string) string {
	if v == nil {
		return "null"
	}
	switch v.Kind {
	case ConstString:
		return `"` + javaEscape(v.Text) + `"`
	case ConstChar:
		return "'" + javaEscape(v.Text) + "'"
	case ConstInt:
		if typeHint == "long" {
			return v.Text + "L"
		}
		return v.Text
	case ConstFloat:
		if typeHint == "float" {
			return v.Text + "f"
		}
		return v.Text
	default:
		return v.Text
	}
}

func javaEscape(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"'", `\'`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return replacer.Replace(s)
}

func (e *JavaExtractor) AssembleConst(d *Declaration, initText string) string {
	modText := d.Modifiers
	if modText == "" {
		modText = "public static final"
	}
	typeText := d.TypeText
	if typeText == "" {
		typeText = d.ResolvedType
	}

	var b strings.Builder
	b.WriteString(modText)
	b.WriteString(" ")
	if typeText != "" {
		b.WriteString(typeText)
		b.WriteString(" ")
	}
	b.WriteString(d.Name)
	b.WriteString(" = ")
	b.WriteString(initText)
	b.WriteString(";")
	return b.String()
}

func (e *JavaExtractor) Synthesize(d *Declaration) string {
	if d.Kind == KindConstField {
		return e.AssembleConst(d, e.FormatConst(d.Const, d.ResolvedType))
	}

	modText := d.Modifiers
	if modText == "" {
		modText = strings.ToLower(d.Access.String())
	}
	result := d.ResultText
	if result == "" {
		result = "void"
	}

	var b strings.Builder
	b.WriteString(modText)
	b.WriteString(" ")
	b.WriteString(result)
	b.WriteString(" ")
	b.WriteString(d.Name)
	b.WriteString("(")
	for i, p := range d.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Type)
		if p.Name != "" {
			b.WriteString(" ")
			b.WriteString(p.Name)
		}
	}
	b.WriteString(")")
	return b.String()
}
