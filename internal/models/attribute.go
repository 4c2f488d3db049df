package models

// AttributeItem documents one configurable attribute of a component
type AttributeItem struct {
	Name         string `json:"name" yaml:"name"`
	Description  string `json:"description" yaml:"description"`
	Type         string `json:"type" yaml:"type"`
	ValueList    string `json:"value_list" yaml:"value_list"`
	DefaultValue string `json:"default_value" yaml:"default_value"`
}
