package profile

// Group is a named list of profiles launched together, in declaration
// order. The configuration accepts either a plain list of profile names or
// a table with a "profiles" key.
type Group struct {
	Profiles        []string `json:"profiles" mapstructure:"profiles"`
	ContinueOnError bool     `json:"continue-on-error,omitempty" mapstructure:"continue-on-error"`
}
