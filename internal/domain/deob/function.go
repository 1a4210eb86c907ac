package deob

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	m "github.com/mouse-blink/unrotate/internal/model"
)

var errFunctionNotFound = errors.New("function not declared")

var anyFunctionDecl = regexp.MustCompile(`\bfunction\s+(` + identPattern + `)\s*\(`)

// function is a `function name(params) { body }` declaration.
type function struct {
	Name   string
	Params []string
	Body   m.Region
}

// functionAt reads the parameter list opening at text[paren] and the body
// block that follows it.
func functionAt(text, name string, paren int) (function, error) {
	params, err := Scan(text, paren, '(', ')')
	if err != nil {
		return function{}, err
	}

	brace := skipSpace(text, params.End)
	if brace >= len(text) || text[brace] != '{' {
		return function{}, fmt.Errorf("%w: function %s has no body", errFunctionNotFound, name)
	}

	body, err := Scan(text, brace, '{', '}')
	if err != nil {
		return function{}, err
	}

	fn := function{Name: name, Body: body}

	for _, p := range strings.Split(params.Inner(text), ",") {
		if p = strings.TrimSpace(p); p != "" {
			fn.Params = append(fn.Params, p)
		}
	}

	return fn, nil
}

// findFunction locates the first declaration of the named function.
func findFunction(text, name string) (function, error) {
	decl := regexp.MustCompile(`\bfunction\s+` + regexp.QuoteMeta(name) + `\s*\(`)

	for _, loc := range decl.FindAllStringIndex(text, -1) {
		if loc[0] > 0 && isIdentPart(text[loc[0]-1]) {
			continue
		}

		return functionAt(text, name, loc[1]-1)
	}

	return function{}, fmt.Errorf("%w: %s", errFunctionNotFound, name)
}

func skipSpace(text string, i int) int {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r') {
		i++
	}

	return i
}

func isIdentPart(ch byte) bool {
	return ch == '_' || ch == '$' ||
		('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ('0' <= ch && ch <= '9')
}
