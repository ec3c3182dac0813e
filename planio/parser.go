package planio

import (
	"fmt"
	"strings"
)

// parser is a one-token-lookahead recursive-descent reader over the
// lexer's token stream.
type parser struct {
	lex  *lexer
	cur  token
	err  error
}

func newParser(src string) (*parser, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

func (p *parser) isKeyword(kw string) bool { return p.cur.kind == tokKeyword && p.cur.text == kw }
func (p *parser) isPunct(s string) bool    { return p.cur.kind == tokPunct && p.cur.text == s }

func (p *parser) expectKeyword(kw string) error {
	if !p.isKeyword(kw) {
		return fmt.Errorf("planio: expected keyword %q, got %q", kw, p.cur.text)
	}
	return p.advance()
}

func (p *parser) expectPunct(s string) error {
	if !p.isPunct(s) {
		return fmt.Errorf("planio: expected %q, got %q", s, p.cur.text)
	}
	return p.advance()
}

func (p *parser) expectIdent() (string, error) {
	if p.cur.kind != tokIdent {
		return "", fmt.Errorf("planio: expected identifier, got %q", p.cur.text)
	}
	s := p.cur.text
	return s, p.advance()
}

// Parse reads a full SELECT statement from src (§1's grammar).
func Parse(src string) (*SelectStatement, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	stmt, err := p.parseSelectStatement()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, fmt.Errorf("planio: unexpected trailing input %q", p.cur.text)
	}
	return stmt, nil
}

func (p *parser) parseSelectStatement() (*SelectStatement, error) {
	if err := p.expectKeyword("select"); err != nil {
		return nil, err
	}
	stmt := &SelectStatement{}
	for {
		proj, err := p.parseAliasedExpr()
		if err != nil {
			return nil, err
		}
		stmt.Projections = append(stmt.Projections, proj)
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}

	if err := p.expectKeyword("from"); err != nil {
		return nil, err
	}
	first, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if p.isPunct(".") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		second, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		stmt.TableSchema, stmt.TableName = first, second
	} else {
		stmt.TableName = first
	}

	if p.isKeyword("where") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		where, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		stmt.Where = where
	}

	if p.isKeyword("group") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("by"); err != nil {
			return nil, err
		}
		for {
			ident, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			stmt.GroupBy = append(stmt.GroupBy, strings.ToLower(ident))
			if p.isPunct(",") {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}

	if p.isKeyword("order") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectKeyword("by"); err != nil {
			return nil, err
		}
		for {
			ident, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			term := OrderByTerm{Ident: strings.ToLower(ident)}
			if p.isKeyword("desc") {
				term.Desc = true
				if err := p.advance(); err != nil {
					return nil, err
				}
			} else if p.isKeyword("asc") {
				if err := p.advance(); err != nil {
					return nil, err
				}
			}
			stmt.OrderBy = append(stmt.OrderBy, term)
			if p.isPunct(",") {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
	}

	if p.isKeyword("limit") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind != tokNumber {
			return nil, fmt.Errorf("planio: expected a number after LIMIT, got %q", p.cur.text)
		}
		n, err := parseInt64(p.cur.text)
		if err != nil {
			return nil, fmt.Errorf("planio: invalid LIMIT value: %w", err)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		lim := &Limit{N: uint64(n)}
		if p.isKeyword("offset") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.kind != tokNumber {
				return nil, fmt.Errorf("planio: expected a number after OFFSET, got %q", p.cur.text)
			}
			off, err := parseInt64(p.cur.text)
			if err != nil {
				return nil, fmt.Errorf("planio: invalid OFFSET value: %w", err)
			}
			lim.Offset = uint64(off)
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		stmt.Limit = lim
	}

	return stmt, nil
}

func (p *parser) parseAliasedExpr() (AliasedExpr, error) {
	expr, err := p.parseProjectionExpr()
	if err != nil {
		return AliasedExpr{}, err
	}
	if err := p.expectKeyword("as"); err != nil {
		return AliasedExpr{}, fmt.Errorf("planio: every projected expression must be aliased with AS (%w)", err)
	}
	alias, err := p.expectIdent()
	if err != nil {
		return AliasedExpr{}, err
	}
	return AliasedExpr{Alias: strings.ToLower(alias), Expr: expr}, nil
}

// parseProjectionExpr parses either a bare aggregate call
// (COUNT(*)/SUM(x)/MIN(x)/MAX(x)) or a general scalar expression — the
// only place the grammar allows an aggregate to appear (§1's GROUP BY
// clause scenarios, §8.4-.5).
func (p *parser) parseProjectionExpr() (Expr, error) {
	if p.cur.kind == tokKeyword {
		var kind AggregateKind
		switch p.cur.text {
		case "count":
			kind = AggCount
		case "sum":
			kind = AggSum
		case "min":
			kind = AggMin
		case "max":
			kind = AggMax
		}
		if kind != AggNone {
			if err := p.advance(); err != nil {
				return nil, err
			}
			if err := p.expectPunct("("); err != nil {
				return nil, err
			}
			if kind == AggCount && p.isPunct("*") {
				if err := p.advance(); err != nil {
					return nil, err
				}
				if err := p.expectPunct(")"); err != nil {
					return nil, err
				}
				return AggregateExpr{Kind: AggCount}, nil
			}
			child, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return AggregateExpr{Kind: kind, Child: child}, nil
		}
	}
	return p.parseExpr()
}

func (p *parser) parseExpr() (Expr, error) { return p.parseOr() }

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("or") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: OpOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.isKeyword("and") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: OpAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.isKeyword("not") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		child, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return NotExpr{Child: child}, nil
	}
	return p.parseComparison()
}

var comparisonOps = map[string]BinaryOp{
	"=": OpEq, "!=": OpNotEq, "<>": OpNotEq,
	"<": OpLt, "<=": OpLtEq, ">": OpGt, ">=": OpGtEq,
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseAdd()
	if err != nil {
		return nil, err
	}
	if p.cur.kind == tokPunct {
		if op, ok := comparisonOps[p.cur.text]; ok {
			if err := p.advance(); err != nil {
				return nil, err
			}
			right, err := p.parseAdd()
			if err != nil {
				return nil, err
			}
			return BinaryExpr{Op: op, Left: left, Right: right}, nil
		}
	}
	return left, nil
}

func (p *parser) parseAdd() (Expr, error) {
	left, err := p.parseMul()
	if err != nil {
		return nil, err
	}
	for p.isPunct("+") || p.isPunct("-") {
		op := OpAdd
		if p.cur.text == "-" {
			op = OpSub
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMul()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseMul() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.isPunct("*") || p.isPunct("/") {
		op := OpMul
		if p.cur.text == "/" {
			op = OpDiv
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = BinaryExpr{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.isPunct("-") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		child, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return BinaryExpr{Op: OpSub, Left: Literal{Kind: LiteralInt, Int: 0}, Right: child}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	switch {
	case p.cur.kind == tokNumber:
		n, err := parseInt64(p.cur.text)
		if err != nil {
			return nil, fmt.Errorf("planio: invalid integer literal %q: %w", p.cur.text, err)
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Literal{Kind: LiteralInt, Int: n}, nil

	case p.cur.kind == tokString:
		s := p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Literal{Kind: LiteralString, Str: s}, nil

	case p.isKeyword("true") || p.isKeyword("false"):
		b := p.cur.text == "true"
		if err := p.advance(); err != nil {
			return nil, err
		}
		return Literal{Kind: LiteralBool, Bool: b}, nil

	case p.isPunct("("):
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return inner, nil

	case p.cur.kind == tokIdent:
		first, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if p.isPunct(".") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			second, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			return ColumnRef{Table: strings.ToLower(first), Ident: strings.ToLower(second)}, nil
		}
		return ColumnRef{Ident: strings.ToLower(first)}, nil

	default:
		return nil, fmt.Errorf("planio: unexpected token %q", p.cur.text)
	}
}
