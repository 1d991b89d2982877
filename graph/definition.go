package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/BaSui01/flowgraph/types"
)

// Definition is a serializable, declarative graph description. Only
// labelled nodes are expressible here; hidden nodes are a programmatic
// construction feature.
type Definition struct {
	// Name is the graph name.
	Name string `json:"name" yaml:"name"`
	// Description describes the graph.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	// Nodes contains all node definitions.
	Nodes []NodeDefinition `json:"nodes" yaml:"nodes"`
}

// NodeDefinition is a serializable node description.
type NodeDefinition struct {
	// Label is the graph label the node is registered under.
	Label string `json:"label" yaml:"label"`
	// Kind is "input" or "compute".
	Kind string `json:"kind" yaml:"kind"`
	// Sources maps the node's local source labels to the graph labels of
	// the referenced nodes (compute nodes only).
	Sources map[string]string `json:"sources,omitempty" yaml:"sources,omitempty"`
	// Handler is the registered handler name (compute nodes only).
	Handler string `json:"handler,omitempty" yaml:"handler,omitempty"`
}

// HandlerRegistry resolves handler names from definitions to functions.
type HandlerRegistry struct {
	handlers map[string]Handler
}

// NewHandlerRegistry creates an empty handler registry.
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: map[string]Handler{}}
}

// Register binds a handler under name, replacing any previous binding.
func (r *HandlerRegistry) Register(name string, h Handler) *HandlerRegistry {
	r.handlers[name] = h
	return r
}

// Get returns the handler registered under name.
func (r *HandlerRegistry) Get(name string) (Handler, bool) {
	h, ok := r.handlers[name]
	return h, ok
}

// Validate checks the definition for structural problems that do not need
// a handler registry: duplicate or empty labels, unknown kinds, compute
// nodes without sources, source references to labels the definition does
// not declare.
func (d *Definition) Validate() error {
	if len(d.Nodes) == 0 {
		return types.NewError(types.ErrConfiguration, "definition has no nodes")
	}
	declared := make(map[string]string, len(d.Nodes))
	for _, nd := range d.Nodes {
		if nd.Label == "" {
			return types.NewError(types.ErrConfiguration, "node definition has an empty label")
		}
		if _, dup := declared[nd.Label]; dup {
			return types.NewErrorf(types.ErrStructural, "label %q is declared twice", nd.Label).WithLabel(nd.Label)
		}
		declared[nd.Label] = nd.Kind
	}
	for _, nd := range d.Nodes {
		switch nd.Kind {
		case string(KindInput):
			if len(nd.Sources) > 0 {
				return types.NewErrorf(types.ErrConfiguration, "input node %q cannot declare sources", nd.Label).WithLabel(nd.Label)
			}
		case string(KindCompute):
			if len(nd.Sources) == 0 {
				return types.NewErrorf(types.ErrConfiguration, "compute node %q declares no sources", nd.Label).WithLabel(nd.Label)
			}
			if nd.Handler == "" {
				return types.NewErrorf(types.ErrConfiguration, "compute node %q declares no handler", nd.Label).WithLabel(nd.Label)
			}
			for srcLabel, target := range nd.Sources {
				if _, ok := declared[target]; !ok {
					return types.NewErrorf(types.ErrConfiguration,
						"node %q source %q references undeclared label %q", nd.Label, srcLabel, target).WithLabel(target)
				}
			}
		default:
			return types.NewErrorf(types.ErrConfiguration, "node %q has unknown kind %q", nd.Label, nd.Kind).WithLabel(nd.Label)
		}
	}
	return nil
}

// Build instantiates the definition into a graph, resolving handler names
// through reg and minting identities through factory (the package default
// when factory is nil). Nodes are instantiated in dependency order so
// every source exists before its dependants; cycles between definitions
// surface as a structural error.
func (d *Definition) Build(reg *HandlerRegistry, factory *Factory) (*Graph, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		factory = defaultFactory
	}

	byLabel := make(map[string]NodeDefinition, len(d.Nodes))
	for _, nd := range d.Nodes {
		byLabel[nd.Label] = nd
	}

	built := make(map[string]*Node, len(d.Nodes))
	building := map[string]bool{}

	var instantiate func(label string) (*Node, error)
	instantiate = func(label string) (*Node, error) {
		if node, ok := built[label]; ok {
			return node, nil
		}
		if building[label] {
			return nil, types.NewErrorf(types.ErrStructural, "cycle detected via node %q", label).WithLabel(label)
		}
		building[label] = true
		defer delete(building, label)

		nd := byLabel[label]
		if nd.Kind == string(KindInput) {
			node := factory.Input()
			built[label] = node
			return node, nil
		}

		handler, ok := reg.Get(nd.Handler)
		if !ok {
			return nil, types.NewErrorf(types.ErrConfiguration, "handler %q is not registered", nd.Handler).WithLabel(label)
		}
		sources := make(map[string]*Node, len(nd.Sources))
		for srcLabel, target := range nd.Sources {
			src, err := instantiate(target)
			if err != nil {
				return nil, err
			}
			sources[srcLabel] = src
		}
		node, err := factory.Compute(sources, handler)
		if err != nil {
			return nil, err
		}
		built[label] = node
		return node, nil
	}

	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	nodes := make(map[string]*Node, len(labels))
	for _, label := range labels {
		node, err := instantiate(label)
		if err != nil {
			return nil, err
		}
		nodes[label] = node
	}
	return New(nodes)
}

// ToJSON converts the definition to an indented JSON string.
func (d *Definition) ToJSON() (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal definition to JSON: %w", err)
	}
	return string(data), nil
}

// ToYAML converts the definition to a YAML string.
func (d *Definition) ToYAML() (string, error) {
	data, err := yaml.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("marshal definition to YAML: %w", err)
	}
	return string(data), nil
}

// FromJSON parses and validates a definition from a JSON string.
func FromJSON(jsonStr string) (*Definition, error) {
	var def Definition
	if err := json.Unmarshal([]byte(jsonStr), &def); err != nil {
		return nil, fmt.Errorf("unmarshal definition from JSON: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// FromYAML parses and validates a definition from a YAML string.
func FromYAML(yamlStr string) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal([]byte(yamlStr), &def); err != nil {
		return nil, fmt.Errorf("unmarshal definition from YAML: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadFromYAMLFile loads a definition from a YAML file.
func LoadFromYAMLFile(filename string) (*Definition, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read definition file: %w", err)
	}
	return FromYAML(string(data))
}

// LoadFromJSONFile loads a definition from a JSON file.
func LoadFromJSONFile(filename string) (*Definition, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read definition file: %w", err)
	}
	return FromJSON(string(data))
}
