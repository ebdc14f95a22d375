package handbook

import (
	"fmt"
	"regexp"
	"sort"
)

// AliasTable rewrites handbook routes through regex aliases, e.g.
// "/.*/_sidebar.md" -> "/_sidebar.md" so every section shares one sidebar.
type AliasTable struct {
	rules []aliasRule
}

type aliasRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// NewAliasTable compiles aliases. Patterns are anchored to the whole route
// and tried in sorted key order. A nil or empty map yields a table that
// resolves every route to itself.
func NewAliasTable(aliases map[string]string) (*AliasTable, error) {
	keys := make([]string, 0, len(aliases))
	for k := range aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := &AliasTable{rules: make([]aliasRule, 0, len(keys))}
	for _, k := range keys {
		// The bare pattern must compile on its own, or "a)|(b" would escape
		// the anchoring group below.
		if _, err := regexp.Compile(k); err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAlias, k, err)
		}
		re, err := regexp.Compile("^(?:" + k + ")$")
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidAlias, k, err)
		}
		t.rules = append(t.rules, aliasRule{pattern: re, replacement: aliases[k]})
	}
	return t, nil
}

// Resolve returns the aliased route for path, or path itself when no alias
// matches. Replacements may reference groups as $1, ${name}.
func (t *AliasTable) Resolve(path string) string {
	if t == nil {
		return path
	}
	for _, rule := range t.rules {
		if m := rule.pattern.FindStringSubmatchIndex(path); m != nil {
			return string(rule.pattern.ExpandString(nil, rule.replacement, path, m))
		}
	}
	return path
}

// Len returns the number of aliases.
func (t *AliasTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rules)
}
