package deob

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	m "github.com/mouse-blink/unrotate/internal/model"
)

var errExprSyntax = errors.New("syntax error")

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokLParen
	tokRParen
	tokComma
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
)

var punct = map[byte]tokenKind{
	'(': tokLParen, ')': tokRParen, ',': tokComma,
	'+': tokPlus, '-': tokMinus, '*': tokStar, '/': tokSlash, '%': tokPercent,
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

func lexExpr(src string) ([]token, error) {
	var toks []token

	for i := 0; i < len(src); {
		ch := src[i]

		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case punct[ch] != tokEOF:
			toks = append(toks, token{kind: punct[ch], text: src[i : i+1], pos: i})
			i++
		case isQuote(ch):
			j := skipString(src, i)
			if j == len(src) && (j-i < 2 || src[j-1] != ch) {
				return nil, fmt.Errorf("%w: unterminated string at %d", errExprSyntax, i)
			}

			toks = append(toks, token{kind: tokString, text: src[i:j], pos: i})
			i = j
		case '0' <= ch && ch <= '9' || ch == '.':
			j := lexNumber(src, i)
			toks = append(toks, token{kind: tokNumber, text: src[i:j], pos: i})
			i = j
		case isIdentPart(ch):
			j := i
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}

			toks = append(toks, token{kind: tokIdent, text: src[i:j], pos: i})
			i = j
		default:
			return nil, fmt.Errorf("%w: unexpected %q at %d", errExprSyntax, ch, i)
		}
	}

	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

func lexNumber(src string, i int) int {
	if strings.HasPrefix(src[i:], "0x") || strings.HasPrefix(src[i:], "0X") {
		j := i + 2
		for j < len(src) && strings.IndexByte("0123456789abcdefABCDEF", src[j]) >= 0 {
			j++
		}

		return j
	}

	j := i
	for j < len(src) && ('0' <= src[j] && src[j] <= '9' || src[j] == '.') {
		j++
	}

	return j
}

type exprNode interface {
	eval(env *evalEnv) (value, error)
}

type (
	numberNode struct{ v *big.Rat }
	stringNode struct{ s string }
	unaryNode  struct {
		op tokenKind
		x  exprNode
	}
	binaryNode struct {
		op   tokenKind
		l, r exprNode
	}
	callNode struct {
		name string
		args []exprNode
	}
)

type exprParser struct {
	toks []token
	i    int
}

// parseExpr parses the arithmetic subset used by rotation checksums: integer
// and string literals, calls, unary sign, + - * / % and parentheses.
func parseExpr(src string) (exprNode, error) {
	toks, err := lexExpr(src)
	if err != nil {
		return nil, err
	}

	p := &exprParser{toks: toks}

	n, err := p.expr(0)
	if err != nil {
		return nil, err
	}

	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %q at %d", errExprSyntax, t.text, t.pos)
	}

	return n, nil
}

func (p *exprParser) peek() token { return p.toks[p.i] }

func (p *exprParser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}

	return t
}

func (p *exprParser) expect(kind tokenKind, what string) error {
	if t := p.next(); t.kind != kind {
		return fmt.Errorf("%w: expected %s at %d", errExprSyntax, what, t.pos)
	}

	return nil
}

func lbp(kind tokenKind) int {
	switch kind {
	case tokStar, tokSlash, tokPercent:
		return 70
	case tokPlus, tokMinus:
		return 60
	default:
		return 0
	}
}

func (p *exprParser) expr(minBP int) (exprNode, error) {
	left, err := p.prefix()
	if err != nil {
		return nil, err
	}

	for {
		op := p.peek()

		bp := lbp(op.kind)
		if bp == 0 || bp <= minBP {
			return left, nil
		}

		p.next()

		right, err := p.expr(bp)
		if err != nil {
			return nil, err
		}

		left = binaryNode{op: op.kind, l: left, r: right}
	}
}

func (p *exprParser) prefix() (exprNode, error) {
	t := p.next()

	switch t.kind {
	case tokNumber:
		v, ok := parseNumberLiteral(t.text)
		if !ok {
			return nil, fmt.Errorf("%w: bad number %q", errExprSyntax, t.text)
		}

		return numberNode{v: v}, nil
	case tokString:
		s, err := DecodeLiteral(t.text)
		if err != nil {
			return nil, err
		}

		return stringNode{s: s}, nil
	case tokMinus, tokPlus:
		x, err := p.expr(80)
		if err != nil {
			return nil, err
		}

		return unaryNode{op: t.kind, x: x}, nil
	case tokLParen:
		inner, err := p.expr(0)
		if err != nil {
			return nil, err
		}

		return inner, p.expect(tokRParen, ")")
	case tokIdent:
		return p.call(t.text)
	default:
		return nil, fmt.Errorf("%w: unexpected %q at %d", errExprSyntax, t.text, t.pos)
	}
}

func (p *exprParser) call(name string) (exprNode, error) {
	if err := p.expect(tokLParen, "( after "+name); err != nil {
		return nil, err
	}

	n := callNode{name: name}

	if p.peek().kind == tokRParen {
		p.next()

		return n, nil
	}

	for {
		arg, err := p.expr(0)
		if err != nil {
			return nil, err
		}

		n.args = append(n.args, arg)

		switch t := p.next(); t.kind {
		case tokComma:
		case tokRParen:
			return n, nil
		default:
			return nil, fmt.Errorf("%w: expected , or ) at %d", errExprSyntax, t.pos)
		}
	}
}

func parseNumberLiteral(lit string) (*big.Rat, bool) {
	if strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X") {
		i, ok := new(big.Int).SetString(lit[2:], 16)
		if !ok {
			return nil, false
		}

		return new(big.Rat).SetInt(i), true
	}

	return new(big.Rat).SetString(lit)
}

// value is a number or a string; checksum expressions never produce anything else.
type value struct {
	num   *big.Rat
	str   string
	isStr bool
}

func numberValue(r *big.Rat) value { return value{num: r} }
func stringValue(s string) value   { return value{str: s, isStr: true} }

func (v value) String() string {
	if v.isStr {
		return v.str
	}

	if v.num.IsInt() {
		return v.num.Num().String()
	}

	f, _ := v.num.Float64()

	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (v value) number() (*big.Rat, error) {
	if !v.isStr {
		return v.num, nil
	}

	s := strings.TrimSpace(v.str)
	if s == "" {
		return new(big.Rat), nil
	}

	if isHexLiteral(s) || !strings.Contains(s, "/") {
		if r, ok := parseNumberLiteral(s); ok {
			return r, nil
		}
	}

	return nil, fmt.Errorf("%w: %q is not a number", ErrCoercionFailed, preview(v.str, 30))
}

func isHexLiteral(s string) bool {
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}

// evalEnv resolves decoder calls against one rotation of the table.
type evalEnv struct {
	decoders map[string]struct{}
	offset   int64
	table    m.StringTable
	shift    int
}

func (e *evalEnv) lookup(index int64) (m.Element, error) {
	pos := index - e.offset
	if pos < 0 || pos >= int64(len(e.table)) {
		return m.Element{}, fmt.Errorf("%w: index %d (offset %d, %d entries)", ErrIndexOutOfRange, index, e.offset, len(e.table))
	}

	return e.table[(int(pos)+e.shift)%len(e.table)], nil
}

func (n numberNode) eval(*evalEnv) (value, error) { return numberValue(n.v), nil }
func (n stringNode) eval(*evalEnv) (value, error) { return stringValue(n.s), nil }

func (n unaryNode) eval(env *evalEnv) (value, error) {
	x, err := n.x.eval(env)
	if err != nil {
		return value{}, err
	}

	r, err := x.number()
	if err != nil {
		return value{}, err
	}

	if n.op == tokMinus {
		return numberValue(new(big.Rat).Neg(r)), nil
	}

	return numberValue(r), nil
}

func (n binaryNode) eval(env *evalEnv) (value, error) {
	l, err := n.l.eval(env)
	if err != nil {
		return value{}, err
	}

	r, err := n.r.eval(env)
	if err != nil {
		return value{}, err
	}

	if n.op == tokPlus && (l.isStr || r.isStr) {
		return stringValue(l.String() + r.String()), nil
	}

	a, err := l.number()
	if err != nil {
		return value{}, err
	}

	b, err := r.number()
	if err != nil {
		return value{}, err
	}

	out := new(big.Rat)

	switch n.op {
	case tokPlus:
		out.Add(a, b)
	case tokMinus:
		out.Sub(a, b)
	case tokStar:
		out.Mul(a, b)
	case tokSlash:
		if b.Sign() == 0 {
			return value{}, fmt.Errorf("%w: division by zero", ErrCoercionFailed)
		}

		out.Quo(a, b)
	case tokPercent:
		if b.Sign() == 0 {
			return value{}, fmt.Errorf("%w: modulo by zero", ErrCoercionFailed)
		}

		// Truncated remainder: the result takes the dividend's sign.
		q := new(big.Rat).Quo(a, b)
		t := new(big.Int).Quo(q.Num(), q.Denom())
		out.Sub(a, new(big.Rat).Mul(b, new(big.Rat).SetInt(t)))
	}

	return numberValue(out), nil
}

func (n callNode) eval(env *evalEnv) (value, error) {
	args := make([]value, len(n.args))

	for i, a := range n.args {
		v, err := a.eval(env)
		if err != nil {
			return value{}, err
		}

		args[i] = v
	}

	if n.name == "parseInt" {
		return evalParseInt(args)
	}

	if _, ok := env.decoders[n.name]; !ok {
		return value{}, fmt.Errorf("%w: call to unknown function %s", errExprSyntax, n.name)
	}

	if len(args) == 0 {
		return value{}, fmt.Errorf("%w: %s called without an index", ErrIndexOutOfRange, n.name)
	}

	idx, err := args[0].number()
	if err != nil {
		return value{}, err
	}

	if !idx.IsInt() || !idx.Num().IsInt64() {
		return value{}, fmt.Errorf("%w: index %s", ErrIndexOutOfRange, idx.RatString())
	}

	el, err := env.lookup(idx.Num().Int64())
	if err != nil {
		return value{}, err
	}

	return stringValue(el.Value), nil
}

func evalParseInt(args []value) (value, error) {
	if len(args) == 0 {
		return value{}, fmt.Errorf("%w: parseInt without argument", ErrCoercionFailed)
	}

	radix := 0

	if len(args) > 1 {
		r, err := args[1].number()
		if err != nil {
			return value{}, err
		}

		if !r.IsInt() || !r.Num().IsInt64() {
			return value{}, fmt.Errorf("%w: radix %s", ErrCoercionFailed, r.RatString())
		}

		radix = int(r.Num().Int64())
	}

	n, err := ParseIntPrefix(args[0].String(), radix)
	if err != nil {
		return value{}, err
	}

	return numberValue(new(big.Rat).SetInt(n)), nil
}

// ParseIntPrefix reads the longest integer prefix of s the way parseInt does:
// leading whitespace and sign are accepted, a 0x prefix selects base 16 when
// radix is 0 or 16, and trailing garbage is ignored. A string without a
// numeric prefix is a coercion failure.
func ParseIntPrefix(s string, radix int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	neg := false

	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	if (radix == 0 || radix == 16) && isHexLiteral(s) {
		s, radix = s[2:], 16
	}

	if radix == 0 {
		radix = 10
	}

	if radix < 2 || radix > 36 {
		return nil, fmt.Errorf("%w: radix %d", ErrCoercionFailed, radix)
	}

	end := 0
	for end < len(s) && digitValue(s[end]) < radix {
		end++
	}

	if end == 0 {
		return nil, fmt.Errorf("%w: %q has no numeric prefix", ErrCoercionFailed, preview(s, 30))
	}

	n, _ := new(big.Int).SetString(s[:end], radix)
	if neg {
		n.Neg(n)
	}

	return n, nil
}

func digitValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'z':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 99
	}
}
