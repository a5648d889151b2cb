package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/finsona-dev/finsona/internal/signal"
)

// registryFile is the YAML shape of a persona registry.
type registryFile struct {
	Version  int           `yaml:"version"`
	Personas []personaNode `yaml:"personas"`
}

type personaNode struct {
	ID       string            `yaml:"id"`
	Name     string            `yaml:"name"`
	Priority int               `yaml:"priority"`
	Criteria *criteriaNode     `yaml:"criteria"`
	Metadata map[string]string `yaml:"metadata,omitempty"`
}

// criteriaNode is the recursive YAML form of an Expr. Exactly one of
// signal / all / any must be set per node.
type criteriaNode struct {
	Signal string `yaml:"signal,omitempty"`
	Op     string `yaml:"op,omitempty"`
	Value  any    `yaml:"value,omitempty"`

	All []criteriaNode `yaml:"all,omitempty"`
	Any []criteriaNode `yaml:"any,omitempty"`
}

// Load reads and validates a persona registry from a YAML file. Any
// invariant violation fails the load; an invalid registry must never
// reach the matcher.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry: %w", err)
	}
	return Parse(data)
}

// Parse builds a Registry from raw YAML.
func Parse(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing registry: %w", err)
	}

	personas := make([]Persona, 0, len(file.Personas))
	for _, node := range file.Personas {
		criteria, err := buildExpr(node.Criteria)
		if err != nil {
			return nil, fmt.Errorf("persona %s: %w", node.ID, err)
		}
		personas = append(personas, Persona{
			ID:       node.ID,
			Name:     node.Name,
			Priority: node.Priority,
			Criteria: criteria,
			Metadata: node.Metadata,
		})
	}

	return New(file.Version, personas)
}

func buildExpr(node *criteriaNode) (Expr, error) {
	if node == nil {
		return nil, nil // caught by invariant validation in New
	}

	forms := 0
	if node.Signal != "" {
		forms++
	}
	if len(node.All) > 0 {
		forms++
	}
	if len(node.Any) > 0 {
		forms++
	}
	if forms != 1 {
		return nil, fmt.Errorf("criteria node must have exactly one of signal/all/any, got %d", forms)
	}

	switch {
	case node.Signal != "":
		threshold, err := thresholdValue(node.Value)
		if err != nil {
			return nil, fmt.Errorf("leaf %s: %w", node.Signal, err)
		}
		return Leaf{Signal: node.Signal, Op: Comparator(node.Op), Threshold: threshold}, nil

	case len(node.All) > 0:
		children, err := buildChildren(node.All)
		if err != nil {
			return nil, err
		}
		return All{Children: children}, nil

	default:
		children, err := buildChildren(node.Any)
		if err != nil {
			return nil, err
		}
		return Any{Children: children}, nil
	}
}

func buildChildren(nodes []criteriaNode) ([]Expr, error) {
	children := make([]Expr, 0, len(nodes))
	for i := range nodes {
		child, err := buildExpr(&nodes[i])
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// thresholdValue converts a decoded YAML scalar to a signal value.
func thresholdValue(raw any) (signal.Value, error) {
	switch v := raw.(type) {
	case nil:
		return signal.Absent(), nil
	case bool:
		return signal.Bool(v), nil
	case int:
		return signal.Number(float64(v)), nil
	case int64:
		return signal.Number(float64(v)), nil
	case float64:
		return signal.Number(v), nil
	case string:
		return signal.Category(v), nil
	default:
		return signal.Absent(), fmt.Errorf("unsupported threshold type %T", raw)
	}
}
