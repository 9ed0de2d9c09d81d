// Package treeyaml encodes pyast trees as YAML documents and decodes them
// back. Each node is a mapping whose "kind" key names its type; fields use
// snake_case keys and zero-valued fields are left out.
//
//	kind: BinOp
//	left: {kind: Name, id: a}
//	op: Add
//	right: {kind: Num, value: "1"}
package treeyaml

import (
	"bytes"
	"encoding"
	"encoding/base64"
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/raymyers/pyunparse/pkg/pyast"
)

const kindKey = "kind"

// kinds maps type names to node types
var kinds = map[string]reflect.Type{}

func init() {
	for _, n := range []pyast.Node{
		pyast.Module{}, pyast.Expression{},
		pyast.Num{}, pyast.Str{}, pyast.Bytes{}, pyast.JoinedStr{}, pyast.FormattedValue{},
		pyast.NameConstant{}, pyast.Ellipsis{}, pyast.Name{}, pyast.Starred{},
		pyast.List{}, pyast.Tuple{}, pyast.Set{}, pyast.Dict{},
		pyast.UnaryOp{}, pyast.BinOp{}, pyast.BoolOp{}, pyast.Compare{},
		pyast.Attribute{}, pyast.Subscript{}, pyast.Slice{}, pyast.ExtSlice{},
		pyast.Call{}, pyast.Keyword{},
		pyast.Comprehension{}, pyast.ListComp{}, pyast.SetComp{}, pyast.GeneratorExp{}, pyast.DictComp{},
		pyast.IfExp{}, pyast.Lambda{}, pyast.Yield{}, pyast.YieldFrom{}, pyast.Await{},
		pyast.Arguments{}, pyast.Arg{},
		pyast.Assign{}, pyast.AnnAssign{}, pyast.AugAssign{}, pyast.ExprStmt{},
		pyast.Pass{}, pyast.Break{}, pyast.Continue{}, pyast.Delete{}, pyast.Raise{}, pyast.Assert{},
		pyast.Alias{}, pyast.Import{}, pyast.ImportFrom{},
		pyast.If{}, pyast.For{}, pyast.While{}, pyast.Try{}, pyast.ExceptHandler{},
		pyast.WithItem{}, pyast.With{}, pyast.FunctionDef{}, pyast.ClassDef{},
		pyast.Return{}, pyast.Global{}, pyast.Nonlocal{},
	} {
		t := reflect.TypeOf(n)
		kinds[t.Name()] = t
	}
}

var (
	nodeType            = reflect.TypeOf((*pyast.Node)(nil)).Elem()
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// Kinds returns the number of node kinds the codec knows
func Kinds() int {
	return len(kinds)
}

// Marshal encodes a tree as a YAML document
func Marshal(n pyast.Node) ([]byte, error) {
	node, err := Encode(n)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return nil, errors.Wrap(err, "encode yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "encode yaml")
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a YAML document into a tree
func Unmarshal(data []byte) (pyast.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse yaml")
	}
	if doc.Kind == 0 {
		// empty input
		return nil, nil
	}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return Decode(doc.Content[0])
	}
	return Decode(&doc)
}

// Encode converts a tree to a YAML node
func Encode(n pyast.Node) (*yaml.Node, error) {
	if n == nil {
		return nullNode(), nil
	}
	return encodeValue(reflect.ValueOf(n))
}

// Decode converts a YAML node to a tree
func Decode(n *yaml.Node) (pyast.Node, error) {
	v := reflect.New(nodeType).Elem()
	if err := decodeValue(n, v); err != nil {
		return nil, err
	}
	if v.IsNil() {
		return nil, nil
	}
	return v.Interface().(pyast.Node), nil
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

// binaryNode holds text YAML cannot carry as a string, such as bytes
// literals with values above 0x7f
func binaryNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!binary", Value: base64.StdEncoding.EncodeToString([]byte(s))}
}

// snake converts a Go field name to its YAML key: ContextExpr -> context_expr
func snake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 && unicode.IsLower(rune(name[i-1])) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func encodeValue(v reflect.Value) (*yaml.Node, error) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nullNode(), nil
		}
		v = v.Elem()
	}
	if v.Type().Implements(textMarshalerType) {
		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, err
		}
		return strNode(string(text)), nil
	}

	switch v.Kind() {
	case reflect.Ptr:
		if v.IsNil() {
			return nullNode(), nil
		}
		return encodeValue(v.Elem())
	case reflect.Struct:
		return encodeStruct(v)
	case reflect.Slice:
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i := 0; i < v.Len(); i++ {
			item, err := encodeValue(v.Index(i))
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, item)
		}
		return seq, nil
	case reflect.String:
		if !utf8.ValidString(v.String()) {
			return binaryNode(v.String()), nil
		}
		return strNode(v.String()), nil
	case reflect.Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.Bool())}, nil
	case reflect.Int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v.Int(), 10)}, nil
	case reflect.Uint8:
		return strNode(string(rune(v.Uint()))), nil
	}
	return nil, errors.Errorf("cannot encode %s", v.Type())
}

func encodeStruct(v reflect.Value) (*yaml.Node, error) {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	t := v.Type()
	if _, ok := kinds[t.Name()]; ok {
		m.Content = append(m.Content, strNode(kindKey), strNode(t.Name()))
	}
	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		if field.IsZero() {
			continue
		}
		value, err := encodeValue(field)
		if err != nil {
			return nil, errors.Wrapf(err, "%s.%s", t.Name(), t.Field(i).Name)
		}
		m.Content = append(m.Content, strNode(snake(t.Field(i).Name)), value)
	}
	if len(m.Content) <= 6 && scalarsOnly(m) {
		m.Style = yaml.FlowStyle
	}
	return m, nil
}

// scalarsOnly reports whether every value of a mapping is a scalar. Small
// mappings like that print on one line.
func scalarsOnly(m *yaml.Node) bool {
	for i := 1; i < len(m.Content); i += 2 {
		if m.Content[i].Kind != yaml.ScalarNode {
			return false
		}
	}
	return true
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func decodeValue(n *yaml.Node, v reflect.Value) error {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if isNull(n) {
		v.Set(reflect.Zero(v.Type()))
		return nil
	}
	if v.Kind() != reflect.Interface && v.Kind() != reflect.Struct && v.Addr().Type().Implements(textUnmarshalerType) {
		if n.Kind != yaml.ScalarNode {
			return errors.Errorf("line %d: expected a %s name", n.Line, v.Type().Name())
		}
		err := v.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(n.Value))
		return errors.Wrapf(err, "line %d", n.Line)
	}

	switch v.Kind() {
	case reflect.Interface:
		return decodeNode(n, v)
	case reflect.Ptr:
		elem := reflect.New(v.Type().Elem())
		if err := decodeValue(n, elem.Elem()); err != nil {
			return err
		}
		v.Set(elem)
		return nil
	case reflect.Struct:
		return decodeStruct(n, v)
	case reflect.Slice:
		if n.Kind != yaml.SequenceNode {
			return errors.Errorf("line %d: expected a sequence", n.Line)
		}
		s := reflect.MakeSlice(v.Type(), len(n.Content), len(n.Content))
		for i, item := range n.Content {
			if err := decodeValue(item, s.Index(i)); err != nil {
				return err
			}
		}
		v.Set(s)
		return nil
	case reflect.String:
		if n.Kind != yaml.ScalarNode {
			return errors.Errorf("line %d: expected a string", n.Line)
		}
		if n.ShortTag() == "!!binary" {
			data, err := base64.StdEncoding.DecodeString(n.Value)
			if err != nil {
				return errors.Wrapf(err, "line %d: bad binary value", n.Line)
			}
			v.SetString(string(data))
			return nil
		}
		v.SetString(n.Value)
		return nil
	case reflect.Bool:
		var b bool
		if err := n.Decode(&b); err != nil {
			return errors.Wrapf(err, "line %d", n.Line)
		}
		v.SetBool(b)
		return nil
	case reflect.Int:
		var i int
		if err := n.Decode(&i); err != nil {
			return errors.Wrapf(err, "line %d", n.Line)
		}
		v.SetInt(int64(i))
		return nil
	case reflect.Uint8:
		if n.Kind != yaml.ScalarNode || len(n.Value) != 1 {
			return errors.Errorf("line %d: expected a single character", n.Line)
		}
		v.SetUint(uint64(n.Value[0]))
		return nil
	}
	return errors.Errorf("line %d: cannot decode into %s", n.Line, v.Type())
}

// decodeNode decodes a mapping into an interface field, choosing the
// concrete type from its kind key
func decodeNode(n *yaml.Node, v reflect.Value) error {
	if n.Kind != yaml.MappingNode {
		return errors.Errorf("line %d: expected a node mapping", n.Line)
	}
	kind := ""
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == kindKey {
			kind = n.Content[i+1].Value
		}
	}
	if kind == "" {
		return errors.Errorf("line %d: node has no kind", n.Line)
	}
	t, ok := kinds[kind]
	if !ok {
		return errors.Errorf("line %d: unknown kind %q", n.Line, kind)
	}
	if !t.Implements(v.Type()) {
		return errors.Errorf("line %d: %s is not a %s", n.Line, kind, v.Type().Name())
	}
	elem := reflect.New(t).Elem()
	if err := decodeStruct(n, elem); err != nil {
		return err
	}
	v.Set(elem)
	return nil
}

func decodeStruct(n *yaml.Node, v reflect.Value) error {
	if n.Kind != yaml.MappingNode {
		return errors.Errorf("line %d: expected a mapping for %s", n.Line, v.Type().Name())
	}
	t := v.Type()
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i].Value, n.Content[i+1]
		if key == kindKey {
			if value.Value != t.Name() {
				return errors.Errorf("line %d: kind %s where %s is expected", value.Line, value.Value, t.Name())
			}
			continue
		}
		idx := fieldIndex(t, key)
		if idx < 0 {
			return errors.Errorf("line %d: %s has no field %q", n.Content[i].Line, t.Name(), key)
		}
		if err := decodeValue(value, v.Field(idx)); err != nil {
			return errors.Wrapf(err, "%s.%s", t.Name(), t.Field(idx).Name)
		}
	}
	return nil
}

func fieldIndex(t reflect.Type, key string) int {
	for i := 0; i < t.NumField(); i++ {
		if snake(t.Field(i).Name) == key {
			return i
		}
	}
	return -1
}
