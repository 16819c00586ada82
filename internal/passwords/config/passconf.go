package config

// ValidatorConf names a password validator and its options
type ValidatorConf struct {
	Name    string         `validate:"required"`
	Options map[string]any `yaml:",omitempty"`
}
