// # internal/engine/definition/settings.go
package definition

import (
	"strings"

	"apidocgen/internal/core/errors"
)

type OutputMode int

const (
	ModeModule OutputMode = iota
	ModeClass
)

func (m OutputMode) String() string {
	if m == ModeClass {
		return "class"
	}
	return "module"
}

func ParseOutputMode(s string) (OutputMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "module":
		return ModeModule, nil
	case "class":
		return ModeClass, nil
	}
	return ModeModule, errors.Newf(errors.CodeValidationError, "unknown output mode %q", s)
}

// SectionRole says how an extra section is parsed.
type SectionRole int

const (
	RoleMethods SectionRole = iota + 1
	RoleProperties
	RoleEvents
)

func (r SectionRole) String() string {
	switch r {
	case RoleMethods:
		return "methods"
	case RoleProperties:
		return "properties"
	case RoleEvents:
		return "events"
	}
	return "unknown"
}

func ParseSectionRole(s string) (SectionRole, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "methods":
		return RoleMethods, nil
	case "properties":
		return RoleProperties, nil
	case "events":
		return RoleEvents, nil
	}
	return 0, errors.Newf(errors.CodeValidationError, "unknown section role %q", s)
}

// Settings configures one parse.
type Settings struct {
	Mode OutputMode
	// Name overrides the top-level heading text.
	Name string
	// UncommonSections maps extra section names to the parser used for them.
	UncommonSections map[string]SectionRole
	// MethodsAreInstance parses a "Methods" section as instance methods.
	MethodsAreInstance bool
}
