package config

// Config represents the full gridrun configuration document.
type Config struct {
	Version  string   `yaml:"version" validate:"required,semver"`
	Name     string   `yaml:"name" validate:"required,min=1,max=100"`
	On       []string `yaml:"on" validate:"required,min=1,dive,oneof=push pull_request"`
	Matrix   Matrix   `yaml:"matrix"`
	Steps    []Step   `yaml:"steps" validate:"required,min=1,dive"`
	Settings Settings `yaml:"settings,omitempty"`
}

// Matrix declares the build axes and the include overrides applied after
// the base cross product.
type Matrix struct {
	Axes    []Axis    `yaml:"axes" validate:"required,min=1,dive"`
	Include []Include `yaml:"include,omitempty" validate:"omitempty,dive"`
}

// Axis is one independent dimension of the build matrix. Values listed
// under experimental produce tolerant jobs by default.
type Axis struct {
	Name         string   `yaml:"name" validate:"required,axis_name"`
	Values       []string `yaml:"values" validate:"required,min=1,dive,min=1"`
	Experimental []string `yaml:"experimental,omitempty" validate:"omitempty,dive,min=1"`
}

// Include either merges overrides onto base jobs matched by Where, or,
// when Where is empty, appends one new job built from Values.
type Include struct {
	Where    map[string]string `yaml:"where,omitempty"`
	Values   map[string]string `yaml:"values,omitempty"`
	Tolerant *bool             `yaml:"tolerant,omitempty"`
}

// Step describes one external command executed inside every job, in
// declaration order. Command, workdir, and env values may reference axis
// values with ${{ axis }} placeholders.
type Step struct {
	ID      string            `yaml:"id" validate:"required,step_id"`
	Name    string            `yaml:"name,omitempty"`
	Command string            `yaml:"command" validate:"required,min=1"`
	Shell   string            `yaml:"shell,omitempty"`
	WorkDir string            `yaml:"workdir,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
}

// Settings holds global execution parameters.
type Settings struct {
	// Parallel bounds simultaneous jobs; zero means unbounded.
	Parallel int `yaml:"parallel,omitempty" validate:"omitempty,min=0,max=64"`
	// Timeout is the per-job limit in seconds; zero disables it.
	Timeout int  `yaml:"timeout,omitempty" validate:"omitempty,min=0,max=360000"`
	Verbose bool `yaml:"verbose,omitempty"`
}

// AxisNames returns the declared axis names in declaration order.
func (m Matrix) AxisNames() []string {
	names := make([]string, 0, len(m.Axes))
	for _, axis := range m.Axes {
		names = append(names, axis.Name)
	}
	return names
}

// HasAxis reports whether name is a declared axis.
func (m Matrix) HasAxis(name string) bool {
	for _, axis := range m.Axes {
		if axis.Name == name {
			return true
		}
	}
	return false
}

// AcceptsTrigger reports whether the configuration accepts the given
// trigger kind.
func (c *Config) AcceptsTrigger(kind string) bool {
	for _, accepted := range c.On {
		if accepted == kind {
			return true
		}
	}
	return false
}
