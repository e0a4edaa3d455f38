// Package yamldoc persists tree graphs as YAML documents.
//
// Schema bindings become YAML tags on their mapping nodes, and shared
// nodes become anchors with aliases — including the cyclic case of a
// model whose inverse refers back to its own node.
package yamldoc

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/astrokit/treecodec"
)

// quantityTag marks opaque unit-bearing scalars on the wire.
const quantityTag = "!unit/quantity-1.1.0"

// yamlContainer implements treecodec.Container for YAML.
type yamlContainer struct{}

// New returns a YAML container.
func New() treecodec.Container {
	return &yamlContainer{}
}

// ContentType returns the MIME type for YAML.
func (c *yamlContainer) ContentType() string {
	return "application/yaml"
}

// MarshalTree serializes a tree graph as a YAML document. Nodes
// referenced more than once are anchored and subsequent references emit
// aliases.
func (c *yamlContainer) MarshalTree(t *treecodec.Tree) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("yamldoc: nil tree")
	}

	shared := make(map[*treecodec.Tree]bool)
	countTreeRefs(t, make(map[*treecodec.Tree]int), shared)

	b := &builder{shared: shared, built: make(map[*treecodec.Tree]*yaml.Node)}
	node, err := b.treeNode(t)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

// UnmarshalTree reconstructs a tree graph from a YAML document, resolving
// aliases back to the nodes they anchor.
func (c *yamlContainer) UnmarshalTree(data []byte) (*treecodec.Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("yamldoc: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, fmt.Errorf("yamldoc: expected a single-document stream")
	}

	r := &reader{built: make(map[*yaml.Node]*treecodec.Tree)}
	v, err := r.value(doc.Content[0])
	if err != nil {
		return nil, err
	}
	t, ok := v.(*treecodec.Tree)
	if !ok {
		return nil, fmt.Errorf("yamldoc: document root is not a mapping")
	}
	return t, nil
}

// countTreeRefs walks the graph once, recording nodes reached twice.
func countTreeRefs(t *treecodec.Tree, counts map[*treecodec.Tree]int, shared map[*treecodec.Tree]bool) {
	counts[t]++
	if counts[t] > 1 {
		shared[t] = true
		return
	}
	for _, k := range t.Keys() {
		v, _ := t.Get(k)
		countValueRefs(v, counts, shared)
	}
}

func countValueRefs(v any, counts map[*treecodec.Tree]int, shared map[*treecodec.Tree]bool) {
	switch v := v.(type) {
	case *treecodec.Tree:
		countTreeRefs(v, counts, shared)
	case []any:
		for _, e := range v {
			countValueRefs(e, counts, shared)
		}
	}
}

type builder struct {
	shared  map[*treecodec.Tree]bool
	built   map[*treecodec.Tree]*yaml.Node
	anchors int
}

func (b *builder) treeNode(t *treecodec.Tree) (*yaml.Node, error) {
	if target, ok := b.built[t]; ok {
		if target.Anchor == "" {
			b.anchors++
			target.Anchor = "a" + strconv.Itoa(b.anchors)
		}
		return &yaml.Node{Kind: yaml.AliasNode, Value: target.Anchor, Alias: target}, nil
	}

	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if binding := t.Binding(); !binding.IsZero() {
		node.Tag = "!" + binding.Tag()
	}
	if b.shared[t] {
		b.anchors++
		node.Anchor = "a" + strconv.Itoa(b.anchors)
	}
	b.built[t] = node

	for _, k := range t.Keys() {
		v, _ := t.Get(k)
		vn, err := b.valueNode(v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, vn)
	}
	return node, nil
}

func (b *builder) valueNode(v any) (*yaml.Node, error) {
	switch v := v.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case *treecodec.Tree:
		return b.treeNode(v)
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i, e := range v {
			en, err := b.valueNode(e)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			node.Content = append(node.Content, en)
		}
		return node, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}, nil
	case int:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}, nil
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(v, 10)}, nil
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(v, 'g', -1, 64)}, nil
	case treecodec.Quantity:
		return &yaml.Node{
			Kind: yaml.MappingNode,
			Tag:  quantityTag,
			Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Tag: "!!str", Value: "value"},
				{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(v.Value, 'g', -1, 64)},
				{Kind: yaml.ScalarNode, Tag: "!!str", Value: "unit"},
				{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Unit},
			},
		}, nil
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}

type reader struct {
	built map[*yaml.Node]*treecodec.Tree
}

func (r *reader) value(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.AliasNode:
		if t, ok := r.built[node.Alias]; ok {
			return t, nil
		}
		return nil, fmt.Errorf("yamldoc: alias %q does not resolve to a mapping", node.Value)

	case yaml.MappingNode:
		if node.Tag == quantityTag {
			return r.quantity(node)
		}
		return r.tree(node)

	case yaml.SequenceNode:
		seq := make([]any, len(node.Content))
		for i, c := range node.Content {
			v, err := r.value(c)
			if err != nil {
				return nil, err
			}
			seq[i] = v
		}
		return seq, nil

	case yaml.ScalarNode:
		return r.scalar(node)
	}
	return nil, fmt.Errorf("yamldoc: unexpected node kind %d", node.Kind)
}

func (r *reader) tree(node *yaml.Node) (*treecodec.Tree, error) {
	t := treecodec.NewTree()
	if len(node.Tag) > 1 && node.Tag[0] == '!' && node.Tag[1] != '!' {
		binding, err := treecodec.ParseBinding(node.Tag[1:])
		if err != nil {
			return nil, fmt.Errorf("yamldoc: %w", err)
		}
		t.SetBinding(binding)
	}

	// Register before children so aliases back to this node resolve.
	r.built[node] = t

	for i := 0; i+1 < len(node.Content); i += 2 {
		kn, vn := node.Content[i], node.Content[i+1]
		if kn.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("yamldoc: non-scalar mapping key")
		}
		v, err := r.value(vn)
		if err != nil {
			return nil, err
		}
		t.Set(kn.Value, v)
	}
	return t, nil
}

func (r *reader) quantity(node *yaml.Node) (treecodec.Quantity, error) {
	var q treecodec.Quantity
	for i := 0; i+1 < len(node.Content); i += 2 {
		kn, vn := node.Content[i], node.Content[i+1]
		switch kn.Value {
		case "value":
			f, err := strconv.ParseFloat(vn.Value, 64)
			if err != nil {
				return q, fmt.Errorf("yamldoc: quantity value: %w", err)
			}
			q.Value = f
		case "unit":
			q.Unit = vn.Value
		}
	}
	return q, nil
}

func (r *reader) scalar(node *yaml.Node) (any, error) {
	switch node.Tag {
	case "!!null":
		return nil, nil
	case "!!bool":
		return strconv.ParseBool(node.Value)
	case "!!int":
		return strconv.Atoi(node.Value)
	case "!!float":
		return strconv.ParseFloat(node.Value, 64)
	default:
		return node.Value, nil
	}
}
