// # internal/engine/definition/signature.go
package definition

import (
	"regexp"
	"strings"
)

const variadicSuffix = "[, arg1][, arg2][, ...]"

var (
	signaturePattern = regexp.MustCompile(`^([^(]+)\(([^)]*)\)$`)
	paramToken       = regexp.MustCompile(`(\[),?(\w+(?:,\w+)*)(\])|,?(\w+)`)
)

var reservedNames = map[string]bool{
	"switch": true,
}

func escapeReserved(name string) string {
	if reservedNames[name] {
		return "_" + name
	}
	return name
}

type signature struct {
	path     []string
	params   []*Parameter
	variadic bool
	// mixed is set when bracket groups and the variadic suffix both appear.
	mixed bool
}

func (s signature) name() string { return s.path[len(s.path)-1] }

func (s signature) prefixes() []string {
	if len(s.path) <= 2 {
		return nil
	}
	out := make([]string, len(s.path)-2)
	copy(out, s.path[1:len(s.path)-1])
	return out
}

type signatureError int

const (
	sigOK signatureError = iota
	sigBadShape
	sigBadParams
)

// parseSignature splits "a.b.name(x, y[, z])" into its dotted path and
// positional parameters. The variadic suffix is removed before bracket
// groups are read.
func parseSignature(text string) (signature, signatureError) {
	m := signaturePattern.FindStringSubmatch(text)
	if m == nil {
		return signature{}, sigBadShape
	}
	sig := signature{path: strings.Split(strings.TrimSpace(m[1]), ".")}

	list := m[2]
	if strings.HasSuffix(list, variadicSuffix) {
		sig.variadic = true
		list = strings.TrimSuffix(list, variadicSuffix)
	}
	list = strings.ReplaceAll(list, " ", "")
	if list == "" {
		sig.params = []*Parameter{}
		return sig, sigOK
	}

	matches := paramToken.FindAllStringSubmatch(list, -1)
	bounds := paramToken.FindAllStringIndex(list, -1)
	if len(matches) == 0 || bounds[len(bounds)-1][1] != len(list) {
		return signature{}, sigBadParams
	}

	sig.params = make([]*Parameter, 0, len(matches))
	gotOptional := false
	for _, tok := range matches {
		if tok[4] != "" {
			sig.params = append(sig.params, &Parameter{
				Name:     escapeReserved(tok[4]),
				Type:     "any",
				Optional: gotOptional,
			})
			continue
		}
		gotOptional = true
		if sig.variadic {
			sig.mixed = true
		}
		for _, name := range strings.Split(tok[2], ",") {
			sig.params = append(sig.params, &Parameter{
				Name:     escapeReserved(name),
				Type:     "any",
				Optional: true,
			})
		}
	}
	return sig, sigOK
}

var simpleTypes = map[string]string{
	"String":  "string",
	"Float":   "number",
	"Double":  "number",
	"Integer": "number",
}

func simpleType(name string) string {
	if mapped, ok := simpleTypes[name]; ok {
		return mapped
	}
	return name
}

func toTypeCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

var returnsPattern = regexp.MustCompile("(?i)^Returns (?:the|an?) \\[?`(\\w+)`\\]?")

// inferReturnType reads "Returns the `X`" style summaries.
func inferReturnType(summary string) string {
	m := returnsPattern.FindStringSubmatch(summary)
	if m == nil {
		return ""
	}
	return simpleType(m[1])
}

var predicateNames = []*regexp.Regexp{
	regexp.MustCompile(`^is[A-Z]\w*$`),
	regexp.MustCompile(`^has[A-Z]\w*$`),
	regexp.MustCompile(`^can[A-Z]\w*$`),
}

func isPredicateName(name string) bool {
	for _, re := range predicateNames {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
