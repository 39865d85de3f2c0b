package types

// PropertyValueTypeString is the only value type collection data carries;
// collectors write string keys to string values and nothing else.
const PropertyValueTypeString = "string"

// PropertyScope identifies the owner level of a result property.
type PropertyScope string

// ScopeTestCase scopes a property to a single test case result.
const ScopeTestCase PropertyScope = "test-case"

// PropertyDescriptor describes one named property attached to a test result.
// Descriptors are derived deterministically from the collection key, so
// repeated keys across runs produce stable property identities.
type PropertyDescriptor struct {
	ID          string
	Label       string
	Category    string
	Description string
	ValueType   string
	Scope       PropertyScope
}

// TestProperty is a descriptor paired with its string value.
type TestProperty struct {
	Descriptor PropertyDescriptor
	Value      string
}

// NewPropertyDescriptor builds the descriptor for a collection data key.
// ID and label are the key itself; category and description stay empty and
// the value is always string-typed with test-case scope.
func NewPropertyDescriptor(key string) PropertyDescriptor {
	return PropertyDescriptor{
		ID:        key,
		Label:     key,
		ValueType: PropertyValueTypeString,
		Scope:     ScopeTestCase,
	}
}
