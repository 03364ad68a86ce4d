// Package evalexpr implements the small infix expression language used by
// `if` conditions and `set` right-hand sides (spec §4.1). It is an
// explicit-instance evaluator rather than the process-wide static table the
// original engine used internally (spec §9, "Global evaluator state") — the
// Interpreter owns one Evaluator and resets it before every call.
package evalexpr

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/forktale/forktale/internal/value"
)

// Evaluator holds the symbol table an expression is evaluated against. The
// Interpreter re-registers identifiers (including the synthetic `visited`
// identifier) immediately before each call, matching the source contract
// that evaluator state must be fully reset and repopulated before use.
type Evaluator struct {
	symbols         map[string]value.Value
	includeUnknowns bool
}

// New returns an Evaluator with includeUnknowns enabled, the only mode the
// engine exercises (spec §4.1).
func New() *Evaluator {
	return &Evaluator{
		symbols:         make(map[string]value.Value),
		includeUnknowns: true,
	}
}

// Reset clears all bound identifiers, leaving includeUnknowns untouched.
func (e *Evaluator) Reset() {
	e.symbols = make(map[string]value.Value)
}

// SetIncludeUnknowns configures whether unregistered identifiers resolve to
// Unknown (true) or raise an evaluation error (false). The engine always
// calls with true (spec §4.1).
func (e *Evaluator) SetIncludeUnknowns(v bool) {
	e.includeUnknowns = v
}

// Bind registers an identifier's current value for the next Eval call.
func (e *Evaluator) Bind(name string, v value.Value) {
	e.symbols[strings.ToLower(name)] = v
}

// Eval tokenizes and evaluates expr, returning its Value. The caller decides
// whether the result must be a Bool (if-condition) or Decimal (set
// right-hand side); Eval itself places no such restriction.
func (e *Evaluator) Eval(expr string) (value.Value, error) {
	toks, err := newLexer(expr).tokenize()
	if err != nil {
		return value.Value{}, err
	}
	p := &parser{toks: toks, eval: e}
	v, err := p.parseOr()
	if err != nil {
		return value.Value{}, err
	}
	if p.cur().Type != EOF {
		return value.Value{}, errAt(p.cur().Column, "unexpected token %s after expression", p.cur())
	}
	return v, nil
}

// resolve looks up an identifier, honoring includeUnknowns.
func (e *Evaluator) resolve(name string) (value.Value, error) {
	if v, ok := e.symbols[strings.ToLower(name)]; ok {
		return v, nil
	}
	if e.includeUnknowns {
		return value.NewUnknown(), nil
	}
	return value.Value{}, errAt(-1, "unknown identifier %q", name)
}

// --- recursive-descent parser, precedence low to high: or, and, not,
// comparison, additive, multiplicative, unary, primary. ---

type parser struct {
	toks []Token
	pos  int
	eval *Evaluator
}

func (p *parser) cur() Token  { return p.toks[p.pos] }
func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) parseOr() (value.Value, error) {
	left, err := p.parseAnd()
	if err != nil {
		return value.Value{}, err
	}
	for p.cur().Type == OR {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return value.Value{}, err
		}
		left = value.NewBool(left.AsBool() || right.AsBool())
	}
	return left, nil
}

func (p *parser) parseAnd() (value.Value, error) {
	left, err := p.parseNot()
	if err != nil {
		return value.Value{}, err
	}
	for p.cur().Type == AND {
		p.advance()
		right, err := p.parseNot()
		if err != nil {
			return value.Value{}, err
		}
		left = value.NewBool(left.AsBool() && right.AsBool())
	}
	return left, nil
}

func (p *parser) parseNot() (value.Value, error) {
	if p.cur().Type == NOT {
		p.advance()
		v, err := p.parseNot()
		if err != nil {
			return value.Value{}, err
		}
		return value.NewBool(!v.AsBool()), nil
	}
	return p.parseComparison()
}

var comparisonOps = map[TokenType]bool{EQ: true, NEQ: true, LT: true, LTE: true, GT: true, GTE: true}

func (p *parser) parseComparison() (value.Value, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return value.Value{}, err
	}
	if !comparisonOps[p.cur().Type] {
		return left, nil
	}
	op := p.advance()
	right, err := p.parseAdditive()
	if err != nil {
		return value.Value{}, err
	}
	return compareValues(op.Type, left, right, op.Column)
}

func compareValues(op TokenType, l, r value.Value, col int) (value.Value, error) {
	switch op {
	case EQ:
		return value.NewBool(l.Equal(r)), nil
	case NEQ:
		return value.NewBool(!l.Equal(r)), nil
	}
	// Ordering comparisons only make sense between two decimals.
	if l.Kind() != value.Decimal || r.Kind() != value.Decimal {
		return value.Value{}, errAt(col, "ordering comparison requires two decimal operands, got %s and %s", l.Kind(), r.Kind())
	}
	ld, rd := l.Decimal(), r.Decimal()
	switch op {
	case LT:
		return value.NewBool(ld.LessThan(rd)), nil
	case LTE:
		return value.NewBool(ld.LessThanOrEqual(rd)), nil
	case GT:
		return value.NewBool(ld.GreaterThan(rd)), nil
	case GTE:
		return value.NewBool(ld.GreaterThanOrEqual(rd)), nil
	}
	return value.Value{}, errAt(col, "unreachable comparison operator")
}

func (p *parser) parseAdditive() (value.Value, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return value.Value{}, err
	}
	for p.cur().Type == PLUS || p.cur().Type == MINUS {
		op := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return value.Value{}, err
		}
		left, err = arith(op.Type, left, right, op.Column)
		if err != nil {
			return value.Value{}, err
		}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (value.Value, error) {
	left, err := p.parseUnary()
	if err != nil {
		return value.Value{}, err
	}
	for p.cur().Type == STAR || p.cur().Type == SLASH || p.cur().Type == PERCENT {
		op := p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return value.Value{}, err
		}
		left, err = arith(op.Type, left, right, op.Column)
		if err != nil {
			return value.Value{}, err
		}
	}
	return left, nil
}

func (p *parser) parseUnary() (value.Value, error) {
	if p.cur().Type == MINUS {
		col := p.advance().Column
		v, err := p.parseUnary()
		if err != nil {
			return value.Value{}, err
		}
		if v.Kind() != value.Decimal {
			return value.Value{}, errAt(col, "unary '-' requires a decimal operand, got %s", v.Kind())
		}
		return value.NewDecimal(v.Decimal().Neg()), nil
	}
	return p.parsePrimary()
}

func arith(op TokenType, l, r value.Value, col int) (value.Value, error) {
	if l.Kind() != value.Decimal || r.Kind() != value.Decimal {
		return value.Value{}, errAt(col, "arithmetic requires two decimal operands, got %s and %s", l.Kind(), r.Kind())
	}
	ld, rd := l.Decimal(), r.Decimal()
	switch op {
	case PLUS:
		return value.NewDecimal(ld.Add(rd)), nil
	case MINUS:
		return value.NewDecimal(ld.Sub(rd)), nil
	case STAR:
		return value.NewDecimal(ld.Mul(rd)), nil
	case SLASH:
		if rd.IsZero() {
			return value.Value{}, errAt(col, "division by zero")
		}
		return value.NewDecimal(ld.Div(rd)), nil
	case PERCENT:
		if rd.IsZero() {
			return value.Value{}, errAt(col, "modulo by zero")
		}
		return value.NewDecimal(ld.Mod(rd)), nil
	}
	return value.Value{}, errAt(col, "unreachable arithmetic operator")
}

func (p *parser) parsePrimary() (value.Value, error) {
	tok := p.cur()
	switch tok.Type {
	case NUMBER:
		p.advance()
		d, err := decimal.NewFromString(tok.Value)
		if err != nil {
			return value.Value{}, errAt(tok.Column, "invalid decimal literal %q", tok.Value)
		}
		return value.NewDecimal(d), nil
	case BOOL:
		p.advance()
		return value.NewBool(tok.Value == "true"), nil
	case IDENT:
		p.advance()
		return p.eval.resolve(tok.Value)
	case LPAREN:
		p.advance()
		v, err := p.parseOr()
		if err != nil {
			return value.Value{}, err
		}
		if p.cur().Type != RPAREN {
			return value.Value{}, errAt(p.cur().Column, "expected ')', got %s", p.cur())
		}
		p.advance()
		return v, nil
	default:
		return value.Value{}, errAt(tok.Column, "unexpected token %s", tok)
	}
}
