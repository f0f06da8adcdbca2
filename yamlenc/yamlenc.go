// Package yamlenc registers strategies that encode parsed YAML documents (*yaml.Node) as JSON.
//
// Scalars keep their resolved YAML types: !!int and !!float become numbers, !!bool booleans,
// !!null null, !!timestamp an ISO-8601 UTC string and !!binary a base64 string. Merge keys
// (<<) are expanded in place.
package yamlenc

import (
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/egsam98/encoders/jsonenc"
)

// Configurator registers the YAML node strategies.
var Configurator = jsonenc.ConfiguratorFunc(func(b *jsonenc.Builder) {
	b.Register(
		jsonenc.Value(encodeNode),
		jsonenc.Object(encodeMapping),
	)
})

// mapping is a mapping node, encoded as a JSON object.
type mapping struct {
	*yaml.Node
}

func encodeNode(node *yaml.Node, ctx *jsonenc.ValueContext) error {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			ctx.Add(nil)
			break
		}
		ctx.Add(node.Content[0])
	case yaml.SequenceNode:
		items := node.Content
		if items == nil {
			items = []*yaml.Node{}
		}
		ctx.Add(items)
	case yaml.MappingNode:
		ctx.Add(mapping{node})
	case yaml.AliasNode:
		ctx.Add(node.Alias)
	case yaml.ScalarNode:
		value, err := scalar(node)
		if err != nil {
			return err
		}
		ctx.Add(value)
	default:
		return errors.Errorf("line %d: unexpected node kind %d", node.Line, node.Kind)
	}
	return ctx.Err()
}

func encodeMapping(m mapping, ctx *jsonenc.ObjectContext) error {
	if len(m.Content)%2 != 0 {
		return errors.Errorf("line %d: mapping has a key without value", m.Line)
	}
	for i := 0; i < len(m.Content); i += 2 {
		key, value := m.Content[i], m.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return errors.Errorf("line %d: only scalar mapping keys are supported", key.Line)
		}
		if key.ShortTag() == "!!merge" {
			sources, err := mergeSources(value)
			if err != nil {
				return err
			}
			for _, src := range sources {
				ctx.Inline(mapping{src})
			}
			continue
		}
		ctx.Add(key.Value, value)
	}
	return ctx.Err()
}

// mergeSources returns the mappings referenced by the value of a merge key.
func mergeSources(node *yaml.Node) ([]*yaml.Node, error) {
	node = resolveAlias(node)
	switch node.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{node}, nil
	case yaml.SequenceNode:
		sources := make([]*yaml.Node, 0, len(node.Content))
		for _, item := range node.Content {
			if item = resolveAlias(item); item.Kind != yaml.MappingNode {
				return nil, errors.Errorf("line %d: merge sequence must contain mappings", item.Line)
			}
			sources = append(sources, item)
		}
		return sources, nil
	}
	return nil, errors.Errorf("line %d: merge value must be a mapping or a sequence of mappings", node.Line)
}

func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

func scalar(node *yaml.Node) (any, error) {
	switch tag := node.ShortTag(); tag {
	case "!!null":
		return nil, nil
	case "!!bool", "!!int", "!!float":
		var value any
		if err := node.Decode(&value); err != nil {
			return nil, errors.Wrapf(err, "line %d: decode %s %q", node.Line, tag, node.Value)
		}
		return value, nil
	case "!!timestamp":
		var value time.Time
		if err := node.Decode(&value); err != nil {
			return nil, errors.Wrapf(err, "line %d: decode %s %q", node.Line, tag, node.Value)
		}
		return value, nil
	case "!!binary":
		var value string
		if err := node.Decode(&value); err != nil {
			return nil, errors.Wrapf(err, "line %d: decode %s", node.Line, tag)
		}
		return []byte(value), nil
	default:
		return node.Value, nil
	}
}
