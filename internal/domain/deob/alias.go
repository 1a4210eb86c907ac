package deob

import (
	"regexp"

	m "github.com/mouse-blink/unrotate/internal/model"
)

var referenceDecl = regexp.MustCompile(
	`\b(?:const|let|var)\s+(` + identPattern + `)\s*=\s*(` + identPattern + `)\s*;`)

// ResolveAliases returns canonical plus every name transitively bound to it
// through `const a = b;` style declarations anywhere in text.
func ResolveAliases(text, canonical string) m.AliasSet {
	bound := map[string][]string{}

	for _, parts := range referenceDecl.FindAllStringSubmatch(text, -1) {
		bound[parts[2]] = append(bound[parts[2]], parts[1])
	}

	set := m.AliasSet{canonical: {}}
	queue := []string{canonical}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		for _, alias := range bound[name] {
			if !set.Has(alias) {
				set[alias] = struct{}{}
				queue = append(queue, alias)
			}
		}
	}

	return set
}
