package types

// Architecture is the canonical, format-independent description of a system.
// Every collection is optional; a nil collection means the section was not
// declared and contributes no findings. Values are never modified once a
// parser has returned them.
type Architecture struct {
	Services       []Service       `json:"services,omitempty" yaml:"services,omitempty"`
	FirewallRules  []FirewallRule  `json:"firewall_rules,omitempty" yaml:"firewall_rules,omitempty"`
	DataFlows      []DataFlow      `json:"data_flows,omitempty" yaml:"data_flows,omitempty"`
	Databases      []Database      `json:"databases,omitempty" yaml:"databases,omitempty"`
	IAMPolicies    []IAMPolicy     `json:"iam_policies,omitempty" yaml:"iam_policies,omitempty"`
	Storage        []StorageBucket `json:"storage,omitempty" yaml:"storage,omitempty"`
	CodeFiles      []CodeFile      `json:"code_files,omitempty" yaml:"code_files,omitempty"`
	Authentication *AuthConfig     `json:"authentication,omitempty" yaml:"authentication,omitempty"`

	// RawContent is only set for inputs in an unrecognized format.
	RawContent string `json:"raw_content,omitempty" yaml:"raw_content,omitempty"`
	// Format records which parser produced the model.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Service is a deployed service endpoint
type Service struct {
	Name          string `json:"name" yaml:"name"`
	Public        bool   `json:"public" yaml:"public"`
	Authenticated bool   `json:"authentication" yaml:"authentication"`
	Port          int    `json:"port" yaml:"port"`
}

// FirewallRule is an ingress rule
type FirewallRule struct {
	SourceCIDR string `json:"source" yaml:"source"`
	Port       int    `json:"port" yaml:"port"`
	Protocol   string `json:"protocol" yaml:"protocol"`
}

// DataFlow is a directed data transfer between two components
type DataFlow struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	Encrypted   bool   `json:"encrypted" yaml:"encrypted"`
}

// Database is a data store and the kinds of data it holds
type Database struct {
	Name            string   `json:"name" yaml:"name"`
	DataTypes       []string `json:"data_types" yaml:"data_types"`
	EncryptedAtRest bool     `json:"encrypted_at_rest" yaml:"encrypted_at_rest"`
}

// IAMPolicy grants actions on resources
type IAMPolicy struct {
	Name      string   `json:"name" yaml:"name"`
	Actions   []string `json:"actions" yaml:"actions"`
	Resources []string `json:"resources" yaml:"resources"`
}

// StorageBucket is an object storage bucket
type StorageBucket struct {
	Name       string `json:"name" yaml:"name"`
	PublicRead bool   `json:"public_read" yaml:"public_read"`
	Encrypted  bool   `json:"encrypted" yaml:"encrypted"`
}

// CodeFile is a source snippet shipped with the description
type CodeFile struct {
	Name    string `json:"name" yaml:"name"`
	Content string `json:"content" yaml:"content"`
}

// AuthConfig describes the system-wide authentication setup
type AuthConfig struct {
	MultiFactor bool `json:"multi_factor" yaml:"multi_factor"`
}

// Upload is a named byte buffer submitted for analysis
type Upload struct {
	Filename string
	Content  []byte
}

// IsEmpty reports whether the model declares no entities at all.
func (a *Architecture) IsEmpty() bool {
	if a == nil {
		return true
	}
	return len(a.Services) == 0 &&
		len(a.FirewallRules) == 0 &&
		len(a.DataFlows) == 0 &&
		len(a.Databases) == 0 &&
		len(a.IAMPolicies) == 0 &&
		len(a.Storage) == 0 &&
		len(a.CodeFiles) == 0 &&
		a.Authentication == nil
}
