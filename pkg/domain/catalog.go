package domain

// ValueType discriminates how an action's Value is interpreted.
type ValueType string

const (
	// ValueText means Value is literal content: a message, JSON, or a URL.
	ValueText ValueType = "text"
	// ValueFunction means Value names an entry in the function catalog.
	ValueFunction ValueType = "function"
)

// IntentDefinition is a catalogued intent. ID is the stable identifier
// intent nodes reference; Label is the human-readable name shown in the UI.
type IntentDefinition struct {
	ID       string   `json:"id" yaml:"id"`
	Label    string   `json:"label" yaml:"label"`
	Examples []string `json:"examples,omitempty" yaml:"examples,omitempty"`
}

// Clone returns a deep copy of the definition.
func (d IntentDefinition) Clone() IntentDefinition {
	c := d
	c.Examples = append([]string(nil), d.Examples...)
	return c
}

// ActionDefinition is a catalogued action. Name is the primary key.
type ActionDefinition struct {
	Title     string    `json:"title" yaml:"title"`
	Name      string    `json:"name" yaml:"name"`
	Value     string    `json:"value" yaml:"value"`
	ValueType ValueType `json:"valueType" yaml:"value_type"`
}

// Payload copies the definition onto a node payload.
func (d ActionDefinition) Payload() ActionPayload {
	return ActionPayload{
		Title:     d.Title,
		Name:      d.Name,
		Value:     d.Value,
		ValueType: d.ValueType,
	}
}

// AvailableFunction is a read-only entry in the function catalog, used to
// populate the function selector when an action's ValueType is "function".
// Never mutated by this system.
type AvailableFunction struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}
