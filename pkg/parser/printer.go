package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Printer renders AST nodes as S-expressions. Top-level directives are
// written one per line; everything below them is printed on a single line.
type Printer struct {
	indentLevel int
	buffer      bytes.Buffer
}

// NewPrinter creates a new AST printer
func NewPrinter() *Printer {
	return &Printer{}
}

// Print converts a program to its S-expression listing.
func (pr *Printer) Print(program *Program) string {
	pr.buffer.Reset()
	pr.indentLevel = 0

	for _, pkg := range program.Packages {
		name := pkg.Name()
		if name == "" {
			pr.writeLine("(package")
		} else {
			pr.writeLine("(package %s", name)
		}
		pr.indent()
		for _, d := range pkg.Block.Directives {
			pr.writeLine("%s", DirectiveString(d))
		}
		pr.dedent()
		pr.writeLine(")")
	}
	for _, d := range program.Directives {
		pr.writeLine("%s", DirectiveString(d))
	}
	return pr.buffer.String()
}

func (pr *Printer) indent() {
	pr.indentLevel++
}

func (pr *Printer) dedent() {
	if pr.indentLevel > 0 {
		pr.indentLevel--
	}
}

func (pr *Printer) writeLine(format string, args ...interface{}) {
	for i := 0; i < pr.indentLevel; i++ {
		pr.buffer.WriteString("  ")
	}
	fmt.Fprintf(&pr.buffer, format, args...)
	pr.buffer.WriteString("\n")
}

// sexp joins head and the non-empty parts into a parenthesized list.
func sexp(head string, parts ...string) string {
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(head)
	for _, part := range parts {
		if part == "" {
			continue
		}
		sb.WriteByte(' ')
		sb.WriteString(part)
	}
	sb.WriteByte(')')
	return sb.String()
}

func listOf[T any](items []T, render func(T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = render(item)
	}
	return out
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// --- Expressions ---

// ExpressionString renders e as an S-expression.
func ExpressionString(e Expression) string {
	switch e := e.(type) {
	case nil:
		return "_"
	case *QualifiedIdentifier:
		return qualifiedString(e)
	case *ReservedNamespaceExpression:
		return e.Namespace.String()
	case *NullLiteral:
		return "null"
	case *BooleanLiteral:
		return strconv.FormatBool(e.Value)
	case *NumericLiteral:
		return e.Raw
	case *StringLiteral:
		return strconv.Quote(e.Value)
	case *ThisExpression:
		return "this"
	case *RegExpLiteral:
		return "/" + e.Body + "/" + e.Flags
	case *XMLMarkupExpression:
		return sexp("xml-markup", strconv.Quote(e.Markup))
	case *XMLElementExpression:
		return xmlElementString(e.Element)
	case *XMLListExpression:
		return sexp("xml-list", listOf(e.Content, xmlContentString)...)
	case *EmptyParenExpression:
		return "()"
	case *ParenExpression:
		return sexp("paren", ExpressionString(e.Expression))
	case *RestExpression:
		return sexp("rest", ExpressionString(e.Expression))
	case *ArrayInitializer:
		return sexp("array", listOf(e.Elements, ExpressionString)...)
	case *VectorInitializer:
		return sexp("vector", append([]string{TypeString(e.ElementType)}, listOf(e.Elements, ExpressionString)...)...)
	case *ObjectInitializer:
		return sexp("object", listOf(e.Fields, objectFieldString)...)
	case *FunctionExpression:
		name := ""
		if e.Name != nil {
			name = e.Name.Value
		}
		return sexp("function", append([]string{name}, functionCommonParts(e.Common)...)...)
	case *ArrowFunctionExpression:
		return sexp("arrow", functionCommonParts(e.Common)...)
	case *SuperExpression:
		if !e.HasArguments {
			return "(super)"
		}
		return sexp("super", argumentsString(e.Arguments))
	case *NewExpression:
		if !e.HasArguments {
			return sexp("new", ExpressionString(e.Base))
		}
		return sexp("new", ExpressionString(e.Base), argumentsString(e.Arguments))
	case *DotMemberExpression:
		return sexp("member", ExpressionString(e.Base), qualifiedString(e.ID))
	case *BracketsMemberExpression:
		return sexp("index", ExpressionString(e.Base), ExpressionString(e.Key))
	case *TypeArgumentsExpression:
		return sexp("apply", append([]string{ExpressionString(e.Base)}, listOf(e.Arguments, TypeString)...)...)
	case *FilterExpression:
		return sexp("filter", ExpressionString(e.Base), ExpressionString(e.Condition))
	case *DescendantsExpression:
		return sexp("descendants", ExpressionString(e.Base), qualifiedString(e.ID))
	case *CallExpression:
		return sexp("call", append([]string{ExpressionString(e.Base)}, listOf(e.Arguments, ExpressionString)...)...)
	case *UnaryExpression:
		return sexp("unary", e.Operator.String(), ExpressionString(e.Operand))
	case *BinaryExpression:
		return sexp("binary", e.Operator.String(), ExpressionString(e.Left), ExpressionString(e.Right))
	case *ConditionalExpression:
		return sexp("?", ExpressionString(e.Test), ExpressionString(e.Consequent), ExpressionString(e.Alternative))
	case *AssignmentExpression:
		op := "="
		if e.Compound != OperatorNone {
			op = e.Compound.String() + "="
		}
		left := ExpressionString(e.Left)
		if e.Pattern != nil {
			left = PatternString(e.Pattern)
		}
		return sexp("assign", op, left, ExpressionString(e.Right))
	case *SequenceExpression:
		return sexp("seq", ExpressionString(e.Left), ExpressionString(e.Right))
	case *TypedExpression:
		return sexp("typed", ExpressionString(e.Expression), TypeString(e.TypeAnnotation))
	case *NonNullExpression:
		return sexp("!", ExpressionString(e.Expression))
	case *YieldExpression:
		if e.Operand == nil {
			return "(yield)"
		}
		return sexp("yield", ExpressionString(e.Operand))
	case *OptionalChainingExpression:
		return sexp("?.", ExpressionString(e.Base), ExpressionString(e.Operations))
	case *OptionalChainingHost:
		return "<host>"
	}
	return fmt.Sprintf("<%T>", e)
}

func qualifiedString(q *QualifiedIdentifier) string {
	var sb strings.Builder
	if q.Attribute {
		sb.WriteByte('@')
	}
	if q.Qualifier != nil {
		sb.WriteString(ExpressionString(q.Qualifier))
		sb.WriteString("::")
	}
	if q.Name.Brackets != nil {
		sb.WriteString("[" + ExpressionString(q.Name.Brackets) + "]")
	} else {
		sb.WriteString(q.Name.Name)
	}
	return sb.String()
}

func argumentsString(args []Expression) string {
	return "(" + strings.Join(listOf(args, ExpressionString), " ") + ")"
}

func objectKeyString(k ObjectKey) string {
	switch k.Kind {
	case ObjectKeyString:
		return strconv.Quote(k.String)
	case ObjectKeyNumber:
		return formatNumber(k.Number)
	case ObjectKeyBrackets:
		return "[" + ExpressionString(k.Brackets) + "]"
	}
	return qualifiedString(k.ID)
}

func objectFieldString(f *ObjectField) string {
	if f.Rest != nil {
		return sexp("rest", ExpressionString(f.Rest))
	}
	head := "field"
	if f.NonNull {
		head = "field!"
	}
	if f.Value == nil {
		return sexp(head, objectKeyString(f.Key))
	}
	return sexp(head, objectKeyString(f.Key), ExpressionString(f.Value))
}

// --- XML ---

func xmlTagNameString(n XMLTagName) string {
	if n.Expression != nil {
		return "{" + ExpressionString(n.Expression) + "}"
	}
	return n.Name
}

func xmlElementString(el *XMLElement) string {
	parts := []string{xmlTagNameString(el.OpeningTagName)}
	for _, attr := range el.Attributes {
		switch {
		case attr.Name == nil:
			parts = append(parts, sexp("attr", "{"+ExpressionString(attr.ValueExpression)+"}"))
		case attr.ValueExpression != nil:
			parts = append(parts, sexp("attr", attr.Name.Value, "{"+ExpressionString(attr.ValueExpression)+"}"))
		default:
			parts = append(parts, sexp("attr", attr.Name.Value, strconv.Quote(attr.Value)))
		}
	}
	parts = append(parts, listOf(el.Content, xmlContentString)...)
	return sexp("xml-element", parts...)
}

func xmlContentString(c *XMLContent) string {
	switch c.Kind {
	case XMLContentMarkup:
		return sexp("markup", strconv.Quote(c.Text))
	case XMLContentExpression:
		return sexp("expr", ExpressionString(c.Expression))
	case XMLContentElement:
		return xmlElementString(c.Element)
	}
	return sexp("text", strconv.Quote(c.Text))
}

// --- Functions ---

func functionParamString(param *FunctionParam) string {
	pattern := PatternString(param.Binding.Pattern)
	switch param.Kind {
	case ParamOptional:
		return sexp("optional", pattern, ExpressionString(param.Binding.Init))
	case ParamRest:
		return sexp("rest", pattern)
	}
	return pattern
}

func functionCommonParts(c *FunctionCommon) []string {
	parts := []string{sexp("params", listOf(c.Params, functionParamString)...)}
	if c.ReturnAnnotation != nil {
		parts = append(parts, ":"+TypeString(c.ReturnAnnotation))
	}
	if c.Body != nil {
		if c.Body.Block != nil {
			parts = append(parts, StatementString(c.Body.Block))
		} else {
			parts = append(parts, ExpressionString(c.Body.Expression))
		}
	}
	return parts
}

// --- Types ---

// TypeString renders t as an S-expression.
func TypeString(t TypeExpression) string {
	switch t := t.(type) {
	case nil:
		return "_"
	case *TypeIdentifier:
		return qualifiedString(t.ID)
	case *TypeMemberExpression:
		return sexp("tmember", TypeString(t.Base), qualifiedString(t.Member))
	case *TupleType:
		return sexp("tuple", listOf(t.Elements, TypeString)...)
	case *RecordType:
		return sexp("record", listOf(t.Fields, recordTypeFieldString)...)
	case *AnyType:
		return "*"
	case *VoidType:
		return "void"
	case *NeverType:
		return "never"
	case *UndefinedType:
		return "undefined"
	case *NullableType:
		return sexp("nullable", TypeString(t.Base))
	case *NonNullableType:
		return sexp("non-nullable", TypeString(t.Base))
	case *FunctionType:
		parts := []string{sexp("params", listOf(t.Params, functionTypeParamString)...)}
		if t.ReturnAnnotation != nil {
			parts = append(parts, ":"+TypeString(t.ReturnAnnotation))
		}
		return sexp("tfunction", parts...)
	case *StringLiteralType:
		return strconv.Quote(t.Value)
	case *NumberLiteralType:
		return t.Raw
	case *UnionType:
		return sexp("union", listOf(t.Members, TypeString)...)
	case *ComplementType:
		return sexp("complement", TypeString(t.Base), TypeString(t.Complement))
	case *TypeWithArguments:
		return sexp("tapply", append([]string{TypeString(t.Base)}, listOf(t.Arguments, TypeString)...)...)
	}
	return fmt.Sprintf("<%T>", t)
}

func recordTypeFieldString(f *RecordTypeField) string {
	key := objectKeyString(f.Key)
	switch f.KeySuffix {
	case KeySuffixNullable:
		key += "?"
	case KeySuffixNonNullable:
		key += "!"
	}
	readonly := ""
	if f.Readonly {
		readonly = "readonly"
	}
	if f.Type == nil {
		return sexp("field", readonly, key)
	}
	return sexp("field", readonly, key, TypeString(f.Type))
}

func functionTypeParamString(param *FunctionTypeParam) string {
	name := param.Name.Value
	switch param.Kind {
	case ParamOptional:
		name += "?"
	case ParamRest:
		name = "..." + name
	}
	if param.Type != nil {
		name += ":" + TypeString(param.Type)
	}
	return name
}

// --- Patterns ---

// PatternString renders a destructuring pattern.
func PatternString(d *Destructuring) string {
	if d == nil {
		return "_"
	}
	var s string
	switch d.Kind {
	case DestructuringRecord:
		s = sexp("record-pattern", listOf(d.Record, recordDestructuringFieldString)...)
	case DestructuringArray:
		s = sexp("array-pattern", listOf(d.Array, arrayDestructuringItemString)...)
	default:
		s = d.Binding.Value
	}
	if d.NonNull {
		s += "!"
	}
	if d.TypeAnnotation != nil {
		s = sexp("typed", s, TypeString(d.TypeAnnotation))
	}
	return s
}

func recordDestructuringFieldString(f *RecordDestructuringField) string {
	key := objectKeyString(f.Key)
	if f.NonNull {
		key += "!"
	}
	if f.Alias == nil {
		return key
	}
	return "(" + key + " " + PatternString(f.Alias) + ")"
}

func arrayDestructuringItemString(item *ArrayDestructuringItem) string {
	if item == nil {
		return "_"
	}
	if item.Rest {
		return sexp("rest", PatternString(item.Pattern))
	}
	return PatternString(item.Pattern)
}

// --- Statements ---

func optionalStatement(s Statement) string {
	if s == nil {
		return ""
	}
	return StatementString(s)
}

func blockString(b *Block) string {
	if b == nil {
		return ""
	}
	return StatementString(b)
}

// StatementString renders s as an S-expression.
func StatementString(s Statement) string {
	switch s := s.(type) {
	case *EmptyStatement:
		return "(empty)"
	case *SuperStatement:
		return sexp("super-call", listOf(s.Arguments, ExpressionString)...)
	case *Block:
		return sexp("block", listOf(s.Directives, DirectiveString)...)
	case *IfStatement:
		return sexp("if", ExpressionString(s.Condition), StatementString(s.Consequent), optionalStatement(s.Alternative))
	case *SwitchStatement:
		parts := []string{ExpressionString(s.Discriminant)}
		for _, c := range s.Cases {
			body := listOf(c.Consequent, DirectiveString)
			if c.Test == nil {
				parts = append(parts, sexp("default", body...))
			} else {
				parts = append(parts, sexp("case", append([]string{ExpressionString(c.Test)}, body...)...))
			}
		}
		return sexp("switch", parts...)
	case *SwitchTypeStatement:
		parts := []string{ExpressionString(s.Discriminant)}
		for _, c := range s.Cases {
			if c.Pattern == nil {
				parts = append(parts, sexp("default", blockString(c.Block)))
			} else {
				parts = append(parts, sexp("case", PatternString(c.Pattern), blockString(c.Block)))
			}
		}
		return sexp("switch-type", parts...)
	case *DoStatement:
		return sexp("do", StatementString(s.Body), ExpressionString(s.Test))
	case *WhileStatement:
		return sexp("while", ExpressionString(s.Test), StatementString(s.Body))
	case *ForStatement:
		init := ExpressionString(s.InitExpression)
		if s.InitVariable != nil {
			init = StatementString(s.InitVariable)
		}
		return sexp("for", init, ExpressionString(s.Test), ExpressionString(s.Update), StatementString(s.Body))
	case *ForInStatement:
		head := "for-in"
		if s.Each {
			head = "for-each"
		}
		left := ExpressionString(s.LeftExpression)
		if s.LeftVariable != nil {
			left = StatementString(s.LeftVariable)
		}
		return sexp(head, left, ExpressionString(s.Right), StatementString(s.Body))
	case *WithStatement:
		return sexp("with", ExpressionString(s.Object), StatementString(s.Body))
	case *ContinueStatement:
		return sexp("continue", labelString(s.Label))
	case *BreakStatement:
		return sexp("break", labelString(s.Label))
	case *ReturnStatement:
		if s.Expression == nil {
			return "(return)"
		}
		return sexp("return", ExpressionString(s.Expression))
	case *ThrowStatement:
		return sexp("throw", ExpressionString(s.Expression))
	case *TryStatement:
		parts := []string{StatementString(s.Block)}
		for _, c := range s.CatchClauses {
			parts = append(parts, sexp("catch", PatternString(c.Pattern), StatementString(c.Block)))
		}
		if s.Finally != nil {
			parts = append(parts, sexp("finally", StatementString(s.Finally)))
		}
		return sexp("try", parts...)
	case *ExpressionStatement:
		return ExpressionString(s.Expression)
	case *LabeledStatement:
		return sexp("label", s.Label.Value, StatementString(s.Statement))
	case *DefaultXMLNamespaceStatement:
		return sexp("default-xml-namespace", ExpressionString(s.Expression))
	case *SimpleVariableDeclaration:
		return sexp(s.Kind.String(), listOf(s.Bindings, bindingString)...)
	}
	return fmt.Sprintf("<%T>", s)
}

func labelString(label *Identifier) string {
	if label == nil {
		return ""
	}
	return label.Value
}

func bindingString(b *VariableBinding) string {
	if b.Init == nil {
		return PatternString(b.Pattern)
	}
	return sexp("=", PatternString(b.Pattern), ExpressionString(b.Init))
}

// --- Directives ---

// DirectiveString renders d as an S-expression.
func DirectiveString(d Directive) string {
	switch d := d.(type) {
	case Statement:
		return StatementString(d)
	case *IncludeDirective:
		return sexp("include", strconv.Quote(d.Source))
	case *ImportDirective:
		return importString(d)
	case *UseNamespaceDirective:
		return sexp("use-namespace", ExpressionString(d.Expression))
	case *VariableDefinition:
		return sexp(d.Kind.String(), append(annotationParts(d.Annotations), listOf(d.Bindings, bindingString)...)...)
	case *FunctionDefinition:
		return definitionString("function-def", d.Annotations, d.Name.Value, genericsString(d.Generics), functionCommonParts(d.Common)...)
	case *ConstructorDefinition:
		return definitionString("constructor", d.Annotations, d.Name.Value, "", functionCommonParts(d.Common)...)
	case *GetterDefinition:
		return definitionString("get", d.Annotations, d.Name.Value, "", functionCommonParts(d.Common)...)
	case *SetterDefinition:
		return definitionString("set", d.Annotations, d.Name.Value, "", functionCommonParts(d.Common)...)
	case *TypeDefinition:
		return definitionString("type", d.Annotations, d.Left.Value, genericsString(d.Generics), TypeString(d.Right))
	case *ClassDefinition:
		var parts []string
		if d.Extends != nil {
			parts = append(parts, sexp("extends", TypeString(d.Extends)))
		}
		if len(d.Implements) > 0 {
			parts = append(parts, sexp("implements", listOf(d.Implements, TypeString)...))
		}
		parts = append(parts, blockString(d.Block))
		return definitionString("class", d.Annotations, d.Name.Value, genericsString(d.Generics), parts...)
	case *EnumDefinition:
		return definitionString("enum", d.Annotations, d.Name.Value, "", blockString(d.Block))
	case *InterfaceDefinition:
		var parts []string
		if len(d.Extends) > 0 {
			parts = append(parts, sexp("extends", listOf(d.Extends, TypeString)...))
		}
		parts = append(parts, blockString(d.Block))
		return definitionString("interface", d.Annotations, d.Name.Value, genericsString(d.Generics), parts...)
	case *NamespaceDefinition:
		right := ""
		if d.Right != nil {
			right = ExpressionString(d.Right)
		}
		return definitionString("namespace", d.Annotations, d.Left.Value, "", right)
	}
	return fmt.Sprintf("<%T>", d)
}

func importString(d *ImportDirective) string {
	var path []string
	for _, id := range d.PackageName {
		path = append(path, id.Value)
	}
	switch d.Item.Kind {
	case ImportWildcard:
		path = append(path, "*")
	case ImportRecursive:
		path = append(path, "**")
	default:
		path = append(path, d.Item.Name.Value)
	}
	if d.Alias != nil {
		return sexp("import", d.Alias.Value, "=", strings.Join(path, "."))
	}
	return sexp("import", strings.Join(path, "."))
}

func definitionString(head string, annotations DefinitionAnnotations, name, generics string, rest ...string) string {
	parts := append(annotationParts(annotations), name, generics)
	return sexp(head, append(parts, rest...)...)
}

func annotationParts(a DefinitionAnnotations) []string {
	var parts []string
	for _, meta := range a.Metadata {
		parts = append(parts, metadataString(meta))
	}
	if a.AccessModifier != nil {
		parts = append(parts, ExpressionString(a.AccessModifier))
	}
	if a.Modifiers != 0 {
		parts = append(parts, a.Modifiers.String())
	}
	return parts
}

func metadataString(m *Metadata) string {
	if len(m.Entries) == 0 {
		return "[" + m.Name + "]"
	}
	entries := listOf(m.Entries, func(e *MetadataEntry) string {
		if e.Key == nil {
			return strconv.Quote(e.Value)
		}
		return e.Key.Value + "=" + strconv.Quote(e.Value)
	})
	return "[" + m.Name + "(" + strings.Join(entries, ", ") + ")]"
}

func genericsString(g Generics) string {
	if len(g.Params) == 0 {
		return ""
	}
	params := listOf(g.Params, func(param *GenericParam) string {
		if len(param.Constraints) == 0 && param.Default == nil {
			return param.Name.Value
		}
		parts := []string{}
		if len(param.Constraints) > 0 {
			parts = append(parts, ":", TypeString(param.Constraints[0]))
		}
		if param.Default != nil {
			parts = append(parts, "=", TypeString(param.Default))
		}
		return sexp(param.Name.Value, parts...)
	})
	s := sexp("generics", params...)
	if len(g.Where) > 0 {
		s += " " + sexp("where", listOf(g.Where, func(w *GenericsWhereConstraint) string {
			return sexp(w.Name.Value, TypeString(w.Constraint))
		})...)
	}
	return s
}
