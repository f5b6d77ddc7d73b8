// # internal/engine/definition/matchers.go
package definition

import (
	"regexp"
	"strings"
)

// HeadingMatch is what a heading matcher extracts: the member signature or
// name, and any trailing _platform_ tags.
type HeadingMatch struct {
	Signature string
	Platforms []string
}

// HeadingMatcher recognizes one accepted heading shape. Matchers are tried in
// list order; the first hit wins.
type HeadingMatcher struct {
	Name  string
	Match func(heading string) (HeadingMatch, bool)
}

var (
	backtickHeading     = regexp.MustCompile("^`([^`]+)`((?:\\s+_[^_]+_)*)$")
	bareSignatureHeader = regexp.MustCompile(`^([\w.]+\([^)]*\))$`)
	constructorHeading  = regexp.MustCompile(`^new (.+)$`)
	staticPropertyHead  = regexp.MustCompile(`^\w+\.(\w+)$`)
	eventHeading        = regexp.MustCompile(`^Event: '([a-zA-Z0-9\-]+)'((?:\s+_[^_]+_)*)$`)
	platformTag         = regexp.MustCompile(`_([^_]+)_`)
)

func platforms(tags string) []string {
	found := platformTag.FindAllStringSubmatch(tags, -1)
	if len(found) == 0 {
		return nil
	}
	out := make([]string, len(found))
	for i, m := range found {
		out[i] = m[1]
	}
	return out
}

func taggedMatcher(name string, re *regexp.Regexp) HeadingMatcher {
	return HeadingMatcher{
		Name: name,
		Match: func(heading string) (HeadingMatch, bool) {
			m := re.FindStringSubmatch(heading)
			if m == nil {
				return HeadingMatch{}, false
			}
			return HeadingMatch{Signature: m[1], Platforms: platforms(m[2])}, true
		},
	}
}

func plainMatcher(name string, re *regexp.Regexp) HeadingMatcher {
	return HeadingMatcher{
		Name: name,
		Match: func(heading string) (HeadingMatch, bool) {
			m := re.FindStringSubmatch(heading)
			if m == nil {
				return HeadingMatch{}, false
			}
			return HeadingMatch{Signature: m[1]}, true
		},
	}
}

var (
	backtickMatcher       = taggedMatcher("backtick-signature", backtickHeading)
	bareSignatureMatcher  = plainMatcher("bare-signature", bareSignatureHeader)
	staticPropertyMatcher = plainMatcher("static-property", staticPropertyHead)
	eventMatcher          = taggedMatcher("event", eventHeading)

	// A constructor heading without a parameter list takes no arguments.
	constructorMatcher = HeadingMatcher{
		Name: "constructor",
		Match: func(heading string) (HeadingMatch, bool) {
			m := constructorHeading.FindStringSubmatch(heading)
			if m == nil {
				return HeadingMatch{}, false
			}
			sig := "new " + strings.TrimSpace(m[1])
			if !strings.Contains(sig, "(") {
				sig += "()"
			}
			return HeadingMatch{Signature: sig}, true
		},
	}
)

var (
	MethodMatchers         = []HeadingMatcher{backtickMatcher, bareSignatureMatcher}
	ConstructorMatchers    = []HeadingMatcher{backtickMatcher, bareSignatureMatcher, constructorMatcher}
	PropertyMatchers       = []HeadingMatcher{backtickMatcher}
	StaticPropertyMatchers = []HeadingMatcher{backtickMatcher, staticPropertyMatcher}
	EventMatchers          = []HeadingMatcher{eventMatcher}
)

// MatchHeading runs matchers in order and reports which one accepted the
// heading.
func MatchHeading(matchers []HeadingMatcher, heading string) (HeadingMatch, string, bool) {
	for _, matcher := range matchers {
		if m, ok := matcher.Match(heading); ok {
			return m, matcher.Name, true
		}
	}
	return HeadingMatch{}, "", false
}
