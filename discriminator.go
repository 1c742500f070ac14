package mediator

import "github.com/tidwall/gjson"

// Matcher decides whether an envelope Format applies to a JSON document.
// Matchers are cheap compared to decoding the payload. Paths use gjson
// syntax.
type Matcher func(doc gjson.Result) bool

// HasPaths returns a Matcher that matches when all paths exist.
func HasPaths(paths ...string) Matcher {
	return func(doc gjson.Result) bool {
		for _, p := range paths {
			if !doc.Get(p).Exists() {
				return false
			}
		}
		return true
	}
}

// PathEquals returns a Matcher that matches when the path holds the given
// string value.
func PathEquals(path, value string) Matcher {
	return func(doc gjson.Result) bool {
		r := doc.Get(path)
		return r.Type == gjson.String && r.Str == value
	}
}

// AllOf returns a Matcher that matches when every matcher matches.
func AllOf(ms ...Matcher) Matcher {
	return func(doc gjson.Result) bool {
		for _, m := range ms {
			if !m(doc) {
				return false
			}
		}
		return true
	}
}

// AnyOf returns a Matcher that matches when at least one matcher matches.
func AnyOf(ms ...Matcher) Matcher {
	return func(doc gjson.Result) bool {
		for _, m := range ms {
			if m(doc) {
				return true
			}
		}
		return false
	}
}
