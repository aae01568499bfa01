package types

import "github.com/lepinkainen/fakecheck/config"

// DefaultVersion is the fallback version when AppContext is nil
const DefaultVersion = "dev"

// AppContext holds application-wide context information passed to commands
type AppContext struct {
	Version string
	Options *config.Options
}

// VersionOrDefault returns the version, tolerating a nil context
func (a *AppContext) VersionOrDefault() string {
	if a == nil || a.Version == "" {
		return DefaultVersion
	}
	return a.Version
}
