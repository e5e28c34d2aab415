// Package parser implements a hand-written recursive-descent parser for the
// chore grammar (SPEC_FULL.md §4.A), producing a concrete parse tree
// (package cst). It trusts the lexer to have correctly classified tokens
// and focuses purely on assembling the tree.
package parser

import (
	"github.com/chorelang/chore/internal/cst"
	"github.com/chorelang/chore/internal/lexer"
	"github.com/chorelang/chore/internal/token"
)

// parser pulls tokens from the lexer one at a time. It never looks further
// ahead than the current token: advance() is the only thing that invokes
// the lexer, and it is never called while the lexer's cursor sits inside
// an exec(...) raw-shell span (see parseExec).
type parser struct {
	lex *lexer.Lexer
	cur token.Token
	doc string
}

// Parse tokenizes and parses src into a concrete parse tree.
func Parse(src string) (*cst.File, error) {
	p := &parser{lex: lexer.New(src)}
	p.advance() // prime p.cur with the first token

	file := &cst.File{}
	for p.cur.Type != token.EOF {
		cmd, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		file.Commands = append(file.Commands, cmd)
	}
	return file, nil
}

// advance fetches the next token (and any doc comment immediately
// preceding it) from the lexer into p.cur/p.doc.
func (p *parser) advance() {
	tok, doc, hasDoc := p.lex.NextToken()
	p.cur = tok
	if hasDoc {
		p.doc = doc
	}
}

func (p *parser) expect(tt token.Type) (token.Token, error) {
	if p.cur.Type != tt {
		return token.Token{}, newError(p.cur.Position, "expected %s, got %s %q", tt, p.cur.Type, p.cur.Text)
	}
	tok := p.cur
	p.advance()
	return tok, nil
}

// consumeDoc takes and clears any doc comment currently pending, so it is
// attached to exactly one command.
func (p *parser) consumeDoc() string {
	d := p.doc
	p.doc = ""
	return d
}

// command := doc? ident params? '{' stmt* '}'
func (p *parser) parseCommand() (*cst.Command, error) {
	doc := p.consumeDoc()
	pos := p.cur.Position
	nameTok, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}

	cmd := &cst.Command{Doc: doc, Name: nameTok.Text, Pos: pos}

	if p.cur.Type == token.LPAREN {
		p.advance()
		if p.cur.Type != token.RPAREN {
			for {
				nameTok, err := p.expect(token.IDENTIFIER)
				if err != nil {
					return nil, err
				}
				cmd.Params = append(cmd.Params, nameTok.Text)
				if p.cur.Type != token.COMMA {
					break
				}
				p.advance()
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseStmts()
	if err != nil {
		return nil, err
	}
	cmd.Body = body
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return cmd, nil
}

// parseStmts parses statements until a '}' (not consumed) or EOF.
func (p *parser) parseStmts() ([]cst.Stmt, error) {
	var stmts []cst.Stmt
	for p.cur.Type != token.RBRACE && p.cur.Type != token.EOF {
		if p.cur.Type == token.SEMICOLON {
			p.advance()
			continue
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// stmt := let | exec | depends | if | for | command | ';'
func (p *parser) parseStmt() (cst.Stmt, error) {
	switch p.cur.Type {
	case token.LET:
		return p.parseLet()
	case token.EXEC:
		return p.parseExec()
	case token.DEPENDS:
		return p.parseDepends()
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.IDENTIFIER:
		cmd, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		return &cst.Nested{Command: cmd, Pos: cmd.Pos}, nil
	default:
		return nil, newError(p.cur.Position, "unexpected token %s %q, expected a statement", p.cur.Type, p.cur.Text)
	}
}

// let := 'let' ident '=' expr ';'
func (p *parser) parseLet() (cst.Stmt, error) {
	pos := p.cur.Position
	p.advance() // 'let'
	nameTok, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EQUALS); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &cst.Let{Name: nameTok.Text, Value: value, Pos: pos}, nil
}

// exec := 'exec' '(' raw_shell ')' ';'?
// raw_shell is captured directly from the lexer (see Lexer.ScanRawShell),
// bypassing normal tokenization so embedded punctuation and keywords
// inside the shell text are left untouched.
func (p *parser) parseExec() (cst.Stmt, error) {
	pos := p.cur.Position
	p.advance() // 'exec'
	// Do not expect()/advance() past the '(' here: the lexer's cursor
	// already sits immediately after it (advance() consumed it while
	// producing the LPAREN token now in p.cur), which is exactly where
	// ScanRawShell must start reading from.
	if p.cur.Type != token.LPAREN {
		return nil, newError(p.cur.Position, "expected %s, got %s %q", token.LPAREN, p.cur.Type, p.cur.Text)
	}
	text, err := p.lex.ScanRawShell()
	if err != nil {
		return nil, newError(pos, "%s", err.Error())
	}
	p.advance() // the ')' the lexer's cursor now sits on
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if p.cur.Type == token.SEMICOLON {
		p.advance()
	}
	return &cst.Exec{Text: text, Pos: pos}, nil
}

// depends := 'depends' '(' ident (',' ident)* ')' ';'?
func (p *parser) parseDepends() (cst.Stmt, error) {
	pos := p.cur.Position
	p.advance() // 'depends'
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var names []string
	for {
		nameTok, err := p.expect(token.IDENTIFIER)
		if err != nil {
			return nil, err
		}
		names = append(names, nameTok.Text)
		if p.cur.Type != token.COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if p.cur.Type == token.SEMICOLON {
		p.advance()
	}
	return &cst.Depends{Names: names, Pos: pos}, nil
}

// if := 'if' cond '{' stmt* '}' ('else' '{' stmt* '}')?
func (p *parser) parseIf() (cst.Stmt, error) {
	pos := p.cur.Position
	p.advance() // 'if'
	cond, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	thenBody, err := p.parseStmts()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}

	stmt := &cst.If{Cond: cond, Then: thenBody, Pos: pos}
	if p.cur.Type == token.ELSE {
		p.advance()
		if _, err := p.expect(token.LBRACE); err != nil {
			return nil, err
		}
		elseBody, err := p.parseStmts()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACE); err != nil {
			return nil, err
		}
		stmt.Else = elseBody
	}
	return stmt, nil
}

// for := 'for' ident 'in' '[' expr (',' expr)* ']' '{' stmt* '}'
func (p *parser) parseFor() (cst.Stmt, error) {
	pos := p.cur.Position
	p.advance() // 'for'
	varTok, err := p.expect(token.IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LSQUARE); err != nil {
		return nil, err
	}
	var items []cst.Expr
	for {
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
		if p.cur.Type != token.COMMA {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.RSQUARE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseStmts()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &cst.For{Var: varTok.Text, Items: items, Body: body, Pos: pos}, nil
}

// cond := expr cmp_op expr
func (p *parser) parseCond() (cst.Cond, error) {
	pos := p.cur.Position
	left, err := p.parseExpr()
	if err != nil {
		return cst.Cond{}, err
	}
	op, err := p.parseCmpOp()
	if err != nil {
		return cst.Cond{}, err
	}
	right, err := p.parseExpr()
	if err != nil {
		return cst.Cond{}, err
	}
	return cst.Cond{Left: left, Op: op, Right: right, Pos: pos}, nil
}

func (p *parser) parseCmpOp() (string, error) {
	switch p.cur.Type {
	case token.EQ_EQ, token.NOT_EQ, token.LT, token.GT:
		op := p.cur.Text
		p.advance()
		return op, nil
	default:
		return "", newError(p.cur.Position, "expected a comparison operator (== != < >), got %s %q", p.cur.Type, p.cur.Text)
	}
}

// expr := string | var
func (p *parser) parseExpr() (cst.Expr, error) {
	switch p.cur.Type {
	case token.STRING:
		e := cst.Expr{IsVariable: false, Text: p.cur.Text, Pos: p.cur.Position}
		p.advance()
		return e, nil
	case token.VARIABLE:
		e := cst.Expr{IsVariable: true, Text: p.cur.Text, Pos: p.cur.Position}
		p.advance()
		return e, nil
	default:
		return cst.Expr{}, newError(p.cur.Position, "expected a string literal or $variable, got %s %q", p.cur.Type, p.cur.Text)
	}
}
