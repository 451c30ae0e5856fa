package core

import "strings"

// Environment is the deployment environment the assistant runs in.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

// IsProduction reports whether logs should be emitted as JSON at info level.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment maps ENVIRONMENT values onto the known environments.
// Anything unrecognised is treated as Development.
func ParseEnvironment(v string) Environment {
	switch env := Environment(strings.ToLower(strings.TrimSpace(v))); env {
	case Production, Staging, Testing:
		return env
	default:
		return Development
	}
}
