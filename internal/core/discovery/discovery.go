// Package discovery contains the pure logic for deciding which compiled
// class files qualify as test classes. Filesystem traversal lives in the
// filesystem adapter; this package only derives names and applies the
// suffix and ignore rules.
package discovery

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// ClassExt is the compiled artifact extension.
const ClassExt = ".class"

// Match is one qualifying class: its fully qualified name in dotted form and
// the root-relative path of its class file.
type Match struct {
	ClassName string
	RelPath   string
}

// ClassName derives the fully qualified class name from a root-relative
// class file path by stripping the extension and mapping path separators to
// the package delimiter. The path is expected in slash form.
func ClassName(relPath string) string {
	name := strings.TrimSuffix(relPath, ClassExt)
	return strings.ReplaceAll(name, "/", ".")
}

// MatchesSuffix reports whether the class file path ends with one of the
// configured suffixes followed by the class extension.
func MatchesSuffix(relPath string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(relPath, suffix+ClassExt) {
			return true
		}
	}
	return false
}

// CompileIgnores compiles ignore patterns with full-match semantics: a class
// name is ignored only if the whole name matches the pattern.
func CompileIgnores(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(`\A(?:` + p + `)\z`)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// Ignored reports whether the fully qualified class name full-matches any of
// the compiled ignore patterns.
func Ignored(className string, ignores []*regexp.Regexp) bool {
	for _, re := range ignores {
		if re.MatchString(className) {
			return true
		}
	}
	return false
}

// Filter applies the suffix and ignore rules to root-relative class file
// paths, preserving input order. Paths not ending in the class extension
// never qualify.
func Filter(relPaths []string, suffixes []string, ignores []*regexp.Regexp) []Match {
	var matches []Match
	for _, p := range relPaths {
		p = path.Clean(p)
		if !strings.HasSuffix(p, ClassExt) || !MatchesSuffix(p, suffixes) {
			continue
		}
		name := ClassName(p)
		if Ignored(name, ignores) {
			continue
		}
		matches = append(matches, Match{ClassName: name, RelPath: p})
	}
	return matches
}
