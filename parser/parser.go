// Package parser builds daro syntax trees from source text.
package parser

import (
	"fmt"

	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/lexer"
	"github.com/podhmo/daro/token"
)

// Parse parses a whole program. Empty input yields an empty sequence.
func Parse(file, src string) (seq *ast.Sequence, err error) {
	p := newParser(file, src)
	defer p.recover(&err)

	start := p.peek().Pos
	var stmts []ast.Node
	for !p.at(token.EOF) {
		if p.accept(token.SEMICOLON) {
			continue
		}
		stmts = append(stmts, p.parseStatement())
		p.accept(token.SEMICOLON)
	}
	return &ast.Sequence{Position: p.span(start), Stmts: stmts}, nil
}

// ParseExpression parses src as a single expression.
func ParseExpression(file, src string) (expr ast.Node, err error) {
	p := newParser(file, src)
	defer p.recover(&err)

	expr = p.parseExpr()
	if tok := p.peek(); tok.Kind != token.EOF {
		p.errorf(tok.Pos, "unexpected %s after expression", describe(tok))
	}
	return expr, nil
}

type parser struct {
	s    *lexer.Scanner
	file string
	last token.Position // position of the most recently consumed token
}

func newParser(file, src string) *parser {
	return &parser{s: lexer.New(file, src), file: file}
}

// bailout carries the first syntax error out of the descent.
type bailout struct{ err *Error }

func (p *parser) recover(err *error) {
	if r := recover(); r != nil {
		b, ok := r.(bailout)
		if !ok {
			panic(r)
		}
		*err = b.err
	}
}

func (p *parser) errorf(pos token.Position, format string, args ...any) {
	panic(bailout{&Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}})
}

// ----------------------------------------------------------------------------
// Token helpers

func (p *parser) next() token.Token {
	tok := p.s.Next()
	if tok.Kind != token.EOF {
		p.last = tok.Pos
	}
	return tok
}

func (p *parser) peek() token.Token { return p.s.Peek() }

func (p *parser) at(kind token.Kind) bool { return p.s.HasNext(kind) }

func (p *parser) accept(kind token.Kind) bool {
	if p.at(kind) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(kind token.Kind) token.Token {
	tok := p.next()
	if tok.Kind != kind {
		p.errorf(tok.Pos, "expected %s, found %s", kind, describe(tok))
	}
	return tok
}

func (p *parser) ident() *ast.Ident {
	tok := p.expect(token.IDENTIFIER)
	return &ast.Ident{Position: tok.Pos, Name: tok.Text}
}

// span covers everything from start up to the last consumed token.
func (p *parser) span(start token.Position) token.Position {
	if p.last.End < start.Start {
		return start
	}
	return token.Span(start, p.last)
}

func describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of input"
	case token.INVALID:
		return fmt.Sprintf("invalid token %q", tok.Text)
	case token.IDENTIFIER:
		return fmt.Sprintf("identifier %s", tok.Text)
	case token.INTEGER, token.REAL, token.STRING, token.CHAR:
		return fmt.Sprintf("literal %s", tok.Text)
	}
	return fmt.Sprintf("'%s'", tok.Text)
}

// ----------------------------------------------------------------------------
// Statements

func (p *parser) parseStatement() ast.Node {
	tok := p.peek()
	switch tok.Kind {
	case token.VAR:
		return p.parseDefine()
	case token.RETURN:
		p.next()
		ret := &ast.ReturnStmt{}
		if canStartExpr(p.peek().Kind) {
			ret.Value = p.parseExpr()
		}
		ret.Position = p.span(tok.Pos)
		return ret
	case token.BREAK:
		p.next()
		return &ast.BreakStmt{Position: tok.Pos}
	case token.CONTINUE:
		p.next()
		return &ast.ContinueStmt{Position: tok.Pos}
	case token.USE:
		p.next()
		stmt := &ast.UseStmt{Path: p.parsePath()}
		if p.accept(token.AS) {
			stmt.Alias = p.ident()
		}
		stmt.Position = p.span(tok.Pos)
		return stmt
	case token.FROM:
		p.next()
		stmt := &ast.FromImportStmt{Path: p.parsePath()}
		p.expect(token.IMPORT)
		stmt.Names = append(stmt.Names, p.ident())
		for p.accept(token.COMMA) {
			stmt.Names = append(stmt.Names, p.ident())
		}
		stmt.Position = p.span(tok.Pos)
		return stmt
	case token.IMPORT:
		p.next()
		stmt := &ast.ImportStmt{Path: p.parsePath()}
		if p.accept(token.AS) {
			stmt.Alias = p.ident()
		}
		stmt.Position = p.span(tok.Pos)
		return stmt
	}
	return p.parseSimpleStatement()
}

// parseSimpleStatement parses a definition, an expression, or an assignment.
func (p *parser) parseSimpleStatement() ast.Node {
	if p.at(token.VAR) {
		return p.parseDefine()
	}
	start := p.peek().Pos
	x := p.parseExpr()
	op := p.peek()
	if op.Kind == token.ASSIGN {
		p.next()
		value := p.parseExpr()
		return &ast.AssignStmt{Position: p.span(start), Op: token.ASSIGN, Target: x, Value: value}
	}
	if _, ok := op.Kind.AssignOp(); ok {
		p.next()
		value := p.parseExpr()
		return &ast.AssignStmt{Position: p.span(start), Op: op.Kind, Target: x, Value: value}
	}
	return x
}

func (p *parser) parseDefine() ast.Node {
	start := p.expect(token.VAR).Pos
	stmt := &ast.DefineStmt{Name: p.ident()}
	if p.accept(token.COLON) {
		stmt.Type = p.parseType()
	}
	if p.accept(token.ASSIGN) {
		stmt.Value = p.parseExpr()
	}
	stmt.Position = p.span(start)
	return stmt
}

func (p *parser) parsePath() string {
	tok := p.expect(token.STRING)
	s, err := lexer.Unquote(tok.Text)
	if err != nil {
		p.errorf(tok.Pos, "%v", err)
	}
	return s
}

func (p *parser) parseBlock() *ast.Block {
	start := p.expect(token.LBRACE).Pos
	var stmts []ast.Node
	for !p.at(token.RBRACE) {
		if p.at(token.EOF) {
			p.errorf(p.peek().Pos, "expected }, found end of input")
		}
		if p.accept(token.SEMICOLON) {
			continue
		}
		stmts = append(stmts, p.parseStatement())
		p.accept(token.SEMICOLON)
	}
	p.expect(token.RBRACE)
	return &ast.Block{Position: p.span(start), Stmts: stmts}
}

// parseBody parses the body of a control statement: a block or one statement.
func (p *parser) parseBody() ast.Node {
	if p.at(token.LBRACE) {
		return p.parseBlock()
	}
	return p.parseStatement()
}

// ----------------------------------------------------------------------------
// Expressions

func (p *parser) parseExpr() ast.Node {
	return p.parseBinary(lowestPrec)
}

const lowestPrec = 1

func precedence(k token.Kind) int {
	switch k {
	case token.LOR:
		return 1
	case token.LAND:
		return 2
	case token.EQL, token.NEQ:
		return 3
	case token.LSS, token.LEQ, token.GTR, token.GEQ:
		return 4
	case token.AND, token.OR, token.XOR:
		return 5
	case token.SHL, token.SHR:
		return 6
	case token.ADD, token.SUB:
		return 7
	case token.MUL, token.QUO, token.REM:
		return 8
	case token.POW:
		return 9
	}
	return 0
}

func (p *parser) parseBinary(minPrec int) ast.Node {
	x := p.parseUnary()
	for {
		op := p.peek()
		prec := precedence(op.Kind)
		if prec < minPrec {
			return x
		}
		p.next()
		var y ast.Node
		if op.Kind == token.POW {
			y = p.parseBinary(prec)
		} else {
			y = p.parseBinary(prec + 1)
		}
		x = &ast.BinaryExpr{Position: token.Span(x.Pos(), y.Pos()), Op: op.Kind, Left: x, Right: y}
	}
}

func (p *parser) parseUnary() ast.Node {
	tok := p.peek()
	switch tok.Kind {
	case token.SUB, token.ADD, token.NOT, token.TILDE:
		p.next()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Position: p.span(tok.Pos), Op: tok.Kind, Operand: operand}
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() ast.Node {
	x := p.parsePrimary()
	for {
		switch p.peek().Kind {
		case token.LPAREN:
			p.next()
			args := p.parseList(token.RPAREN)
			x = &ast.CallExpr{Position: p.span(x.Pos()), Fn: x, Args: args}
		case token.LBRACK:
			p.next()
			x = p.parseIndex(x)
		case token.PERIOD:
			p.next()
			name := p.ident()
			x = &ast.MemberExpr{Position: p.span(x.Pos()), X: x, Name: name}
		default:
			return x
		}
	}
}

// parseIndex parses the rest of x[i] or x[from:to] after the '['.
func (p *parser) parseIndex(x ast.Node) ast.Node {
	var from ast.Node
	if !p.at(token.COLON) {
		from = p.parseExpr()
		if p.accept(token.RBRACK) {
			return &ast.IndexExpr{Position: p.span(x.Pos()), X: x, Index: from}
		}
	}
	p.expect(token.COLON)
	var to ast.Node
	if !p.at(token.RBRACK) {
		to = p.parseExpr()
	}
	p.expect(token.RBRACK)
	return &ast.RangeExpr{Position: p.span(x.Pos()), X: x, From: from, To: to}
}

// parseList parses comma separated expressions up to and including end.
func (p *parser) parseList(end token.Kind) []ast.Node {
	var list []ast.Node
	for !p.at(end) {
		list = append(list, p.parseExpr())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(end)
	return list
}

func (p *parser) parsePrimary() ast.Node {
	tok := p.peek()
	switch tok.Kind {
	case token.IDENTIFIER:
		p.next()
		return &ast.Ident{Position: tok.Pos, Name: tok.Text}
	case token.INTEGER:
		p.next()
		v, err := lexer.ParseInteger(tok.Text)
		if err != nil {
			p.errorf(tok.Pos, "%v", err)
		}
		return &ast.IntegerLit{Position: tok.Pos, Value: v}
	case token.REAL:
		p.next()
		v, err := lexer.ParseReal(tok.Text)
		if err != nil {
			p.errorf(tok.Pos, "%v", err)
		}
		return &ast.RealLit{Position: tok.Pos, Value: v}
	case token.STRING:
		p.next()
		s, err := lexer.Unquote(tok.Text)
		if err != nil {
			p.errorf(tok.Pos, "string literal: %v", err)
		}
		return &ast.StringLit{Position: tok.Pos, Value: s}
	case token.CHAR:
		p.next()
		s, err := lexer.UnquoteChar(tok.Text)
		if err != nil {
			p.errorf(tok.Pos, "character literal: %v", err)
		}
		return &ast.CharLit{Position: tok.Pos, Value: s}
	case token.TRUE, token.FALSE:
		p.next()
		return &ast.BoolLit{Position: tok.Pos, Value: tok.Kind == token.TRUE}
	case token.NULL:
		p.next()
		return &ast.NullLit{Position: tok.Pos}
	case token.LPAREN:
		p.next()
		x := p.parseExpr()
		p.expect(token.RPAREN)
		return x
	case token.LBRACK:
		p.next()
		elems := p.parseList(token.RBRACK)
		return &ast.ArrayLit{Position: p.span(tok.Pos), Elems: elems}
	case token.LBRACE:
		return p.parseBlock()
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.MATCH:
		return p.parseMatch()
	case token.FN:
		return p.parseFunc()
	case token.CLASS:
		return p.parseClass()
	case token.NEW:
		return p.parseNew()
	}
	p.errorf(tok.Pos, "unexpected %s", describe(tok))
	return nil
}

func canStartExpr(k token.Kind) bool {
	switch k {
	case token.IDENTIFIER, token.INTEGER, token.REAL, token.STRING, token.CHAR,
		token.TRUE, token.FALSE, token.NULL,
		token.LPAREN, token.LBRACK, token.LBRACE,
		token.IF, token.FOR, token.MATCH, token.FN, token.CLASS, token.NEW,
		token.SUB, token.ADD, token.NOT, token.TILDE:
		return true
	}
	return false
}

// ----------------------------------------------------------------------------
// Compound forms

func (p *parser) parseIf() ast.Node {
	start := p.expect(token.IF).Pos
	stmt := &ast.IfStmt{Cond: p.parseExpr()}
	stmt.Then = p.parseBody()
	if p.accept(token.ELSE) {
		if p.at(token.IF) {
			stmt.Else = p.parseIf()
		} else {
			stmt.Else = p.parseBody()
		}
	}
	stmt.Position = p.span(start)
	return stmt
}

func (p *parser) parseFor() ast.Node {
	start := p.expect(token.FOR).Pos

	// for { ... }
	if p.at(token.LBRACE) {
		body := p.parseBlock()
		return &ast.ForStmt{Position: p.span(start), Body: body}
	}

	// for x in xs { ... }
	first := p.next()
	if first.Kind == token.IDENTIFIER && p.at(token.IN) {
		p.next()
		v := &ast.Ident{Position: first.Pos, Name: first.Text}
		iter := p.parseExpr()
		body := p.parseBody()
		return &ast.ForInStmt{Position: p.span(start), Var: v, Iter: iter, Body: body}
	}
	p.s.Revert(first)

	var init ast.Node
	if !p.at(token.SEMICOLON) {
		init = p.parseSimpleStatement()
		if !p.at(token.SEMICOLON) {
			// for cond { ... }
			if _, ok := init.(*ast.AssignStmt); ok {
				p.errorf(init.Pos(), "expected condition, found assignment")
			}
			if _, ok := init.(*ast.DefineStmt); ok {
				p.errorf(init.Pos(), "expected condition, found definition")
			}
			body := p.parseBody()
			return &ast.ForStmt{Position: p.span(start), Cond: init, Body: body}
		}
	}

	// for init; cond; post { ... }
	stmt := &ast.ForStmt{Init: init}
	p.expect(token.SEMICOLON)
	if !p.at(token.SEMICOLON) {
		stmt.Cond = p.parseExpr()
	}
	p.expect(token.SEMICOLON)
	if !p.at(token.LBRACE) {
		stmt.Post = p.parseSimpleStatement()
	}
	stmt.Body = p.parseBlock()
	stmt.Position = p.span(start)
	return stmt
}

func (p *parser) parseMatch() ast.Node {
	start := p.expect(token.MATCH).Pos
	stmt := &ast.MatchStmt{Subject: p.parseExpr()}
	p.expect(token.LBRACE)
	seenDefault := false
	for !p.accept(token.RBRACE) {
		if p.at(token.EOF) {
			p.errorf(p.peek().Pos, "expected }, found end of input")
		}
		caseStart := p.peek().Pos
		c := &ast.MatchCase{}
		if p.accept(token.DEFAULT) {
			if seenDefault {
				p.errorf(caseStart, "multiple default cases in match")
			}
			seenDefault = true
		} else {
			c.Values = append(c.Values, p.parseExpr())
			for p.accept(token.COMMA) {
				c.Values = append(c.Values, p.parseExpr())
			}
		}
		p.expect(token.ARROW)
		c.Body = p.parseBody()
		c.Position = p.span(caseStart)
		stmt.Cases = append(stmt.Cases, c)
		if !p.accept(token.COMMA) {
			p.accept(token.SEMICOLON)
		}
	}
	stmt.Position = p.span(start)
	return stmt
}

func (p *parser) parseFunc() ast.Node {
	start := p.expect(token.FN).Pos
	fn := &ast.FuncLit{}
	if p.at(token.IDENTIFIER) {
		fn.Name = p.ident()
	}
	p.expect(token.LPAREN)
	for !p.at(token.RPAREN) {
		if p.accept(token.ELLIPSIS) {
			fn.Params = append(fn.Params, p.ident())
			fn.Variadic = true
			break
		}
		fn.Params = append(fn.Params, p.ident())
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	seen := make(map[string]bool, len(fn.Params))
	for _, param := range fn.Params {
		if seen[param.Name] {
			p.errorf(param.Position, "duplicate parameter %s", param.Name)
		}
		seen[param.Name] = true
	}
	fn.Body = p.parseBlock()
	fn.Position = p.span(start)
	return fn
}

func (p *parser) parseClass() ast.Node {
	start := p.expect(token.CLASS).Pos
	decl := &ast.ClassDecl{Name: p.ident()}
	decl.Body = p.parseBlock()
	decl.Position = p.span(start)
	return decl
}

func (p *parser) parseNew() ast.Node {
	start := p.expect(token.NEW).Pos
	expr := &ast.NewExpr{Type: p.parseType()}
	if p.at(token.LBRACE) {
		expr.Init = p.parseInitializer()
	}
	expr.Position = p.span(start)
	return expr
}

// parseType parses [len]elem, a dotted name, or a parenthesized expression.
func (p *parser) parseType() ast.Node {
	tok := p.peek()
	switch tok.Kind {
	case token.LBRACK:
		p.next()
		t := &ast.ArrayType{}
		if !p.at(token.RBRACK) {
			t.Len = p.parseExpr()
		}
		p.expect(token.RBRACK)
		switch p.peek().Kind {
		case token.LBRACK, token.IDENTIFIER, token.LPAREN:
			t.Elem = p.parseType()
		}
		t.Position = p.span(tok.Pos)
		return t
	case token.IDENTIFIER:
		var x ast.Node = p.ident()
		for p.accept(token.PERIOD) {
			name := p.ident()
			x = &ast.MemberExpr{Position: p.span(tok.Pos), X: x, Name: name}
		}
		return x
	case token.LPAREN:
		p.next()
		x := p.parseExpr()
		p.expect(token.RPAREN)
		return x
	}
	p.errorf(tok.Pos, "expected type, found %s", describe(tok))
	return nil
}

func (p *parser) parseInitializer() *ast.Initializer {
	start := p.expect(token.LBRACE).Pos
	init := &ast.Initializer{}
	for !p.at(token.RBRACE) {
		var entry ast.Node
		if p.at(token.LBRACE) {
			entry = p.parseInitializer()
		} else {
			entryStart := p.peek().Pos
			entry = p.parseExpr()
			if p.accept(token.ASSIGN) {
				value := p.parseExpr()
				entry = &ast.AssignStmt{Position: p.span(entryStart), Op: token.ASSIGN, Target: entry, Value: value}
			}
		}
		init.Entries = append(init.Entries, entry)
		if !p.accept(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE)
	init.Position = p.span(start)
	return init
}
