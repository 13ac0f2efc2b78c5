// Package parser implements a hand-rolled parser for the language: a
// recursive-descent grammar for declarations and statements, and a Pratt
// (precedence-climbing) parser for expressions — the same split the
// teacher compiler uses and for the same reasons (clear grammar mapping,
// good error messages, no parser-generator dependency).
//
// The whole token stream for a file is read eagerly into a slice before
// parsing starts. Several productions in this grammar are ambiguous with
// one token of lookahead (`Tipo nome = ...` vs. a bare assignment or call
// statement, `Tipo nome(...)` vs. a field/property), so the parser needs
// cheap arbitrary-lookahead and backtracking; indexing into a slice gives
// both for free, which a single-token-buffer lexer-driven parser (as the
// teacher's is) would need a token-pushback stack to emulate.
package parser

import (
	"strconv"

	"github.com/brlang/compilador/internal/diag"
	"github.com/brlang/compilador/internal/lexer"
	"github.com/brlang/compilador/internal/parser/ast"
)

const stage = "sintatico"

// Parser converts a token stream into a *ast.File.
type Parser struct {
	tokens []lexer.Token
	pos    int
	bag    diag.Bag

	// className, when non-empty, is the enclosing class's name — used to
	// recognize the constructor production `Nome(params) {...}` which has
	// no leading return type and no `função` keyword.
	className string
}

// New creates a parser over l. It drains the lexer immediately; lexical
// errors collected during that drain surface back through Errors() the
// same way parse errors do, so the driver can report both kinds at once.
func New(l *lexer.Lexer) *Parser {
	toks := l.Tokens()
	p := &Parser{tokens: toks}
	for _, e := range l.Errors() {
		p.bag.Addf(stage, lexer.Position{}, "%v", e)
	}
	return p
}

// ParseStandaloneExpr parses a single expression occupying the whole token
// stream — used by the interpolation expander to re-parse a `{expr}`
// substitution body in isolation (spec.md §4.3).
func (p *Parser) ParseStandaloneExpr() (ast.Expr, []error) {
	if p.check(lexer.TokenEOF) {
		p.errorf(p.cur().Position, "substituição de interpolação vazia")
		return nil, p.Errors()
	}
	expr := p.parseExpression()
	if !p.check(lexer.TokenEOF) {
		p.errorf(p.cur().Position, "token inesperado %s após expressão de interpolação", p.cur().Type)
	}
	return expr, p.Errors()
}

func (p *Parser) Errors() []error {
	errs := make([]error, 0, len(p.bag.Errors()))
	for _, e := range p.bag.Errors() {
		errs = append(errs, e)
	}
	return errs
}

// --- token stream helpers -------------------------------------------------

func (p *Parser) at(offset int) lexer.Token {
	i := p.pos + offset
	if i < 0 || i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[i]
}

func (p *Parser) cur() lexer.Token  { return p.at(0) }
func (p *Parser) peek() lexer.Token { return p.at(1) }

func (p *Parser) check(tt lexer.TokenType) bool { return p.cur().Type == tt }

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) match(tt lexer.TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of type tt or records a diagnostic and returns
// the current (unconsumed) token as a best-effort placeholder — the parser
// does not attempt recovery beyond the current statement (spec.md §4.2).
func (p *Parser) expect(tt lexer.TokenType, what string) lexer.Token {
	if p.check(tt) {
		return p.advance()
	}
	p.errorf(p.cur().Position, "esperado %s, encontrado %s", what, p.cur().Type)
	return p.cur()
}

func (p *Parser) errorf(pos lexer.Position, format string, args ...interface{}) {
	p.bag.Addf(stage, pos, format, args...)
}

// synchronize skips tokens until a likely statement/declaration boundary,
// used after a parse error so later declarations can still be parsed
// (spec.md §7: "the enclosing declaration is skipped").
func (p *Parser) synchronize() {
	for !p.check(lexer.TokenEOF) {
		if p.at(-1).Type == lexer.TokenSemicolon || p.at(-1).Type == lexer.TokenRightBrace {
			return
		}
		switch p.cur().Type {
		case lexer.TokenClasse, lexer.TokenInterface, lexer.TokenEnumeracao, lexer.TokenFuncao,
			lexer.TokenSe, lexer.TokenEnquanto, lexer.TokenPara, lexer.TokenRetorne, lexer.TokenImprima:
			return
		}
		p.advance()
	}
}

// --- file-level grammar ----------------------------------------------------

// ParseFile parses one source file into a *ast.File.
//
// Grammar:
//   file = using* namespaceBlock* (decl | stmt)* EOF
func (p *Parser) ParseFile(filename string) (*ast.File, []error) {
	file := &ast.File{Filename: filename}

	for p.check(lexer.TokenUsando) {
		file.Usings = append(file.Usings, p.parseUsing())
	}

	for !p.check(lexer.TokenEOF) {
		if p.check(lexer.TokenEspaco) {
			file.Namespaces = append(file.Namespaces, p.parseNamespaceBlock())
			continue
		}
		if decl := p.tryParseTopLevelDecl(); decl != nil {
			file.Decls = append(file.Decls, decl)
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			file.Stmts = append(file.Stmts, stmt)
		}
	}

	return file, p.Errors()
}

func (p *Parser) parseUsing() *ast.UsingDecl {
	start := p.cur().Position
	p.advance() // usando
	path := p.parseDottedPath()
	p.match(lexer.TokenSemicolon)
	return &ast.UsingDecl{BaseNode: ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position}, Path: path}
}

func (p *Parser) parseDottedPath() string {
	name := p.expect(lexer.TokenIdentifier, "identificador").Lexeme
	for p.check(lexer.TokenDot) && p.peek().Type == lexer.TokenIdentifier {
		p.advance()
		name += "." + p.advance().Lexeme
	}
	return name
}

func (p *Parser) parseNamespaceBlock() *ast.NamespaceBlock {
	start := p.cur().Position
	p.advance() // espaco
	path := p.parseDottedPath()
	p.expect(lexer.TokenLeftBrace, "'{'")
	var decls []ast.Decl
	for !p.check(lexer.TokenRightBrace) && !p.check(lexer.TokenEOF) {
		if d := p.tryParseTopLevelDecl(); d != nil {
			decls = append(decls, d)
		} else {
			p.errorf(p.cur().Position, "declaração esperada dentro de espaco")
			p.synchronize()
		}
	}
	end := p.expect(lexer.TokenRightBrace, "'}'").Position
	return &ast.NamespaceBlock{BaseNode: ast.BaseNode{StartPos: start, EndPos: end}, Path: path, Decls: decls}
}

// tryParseTopLevelDecl parses a classe/interface/enumeração/função
// declaration, or a prefixed-form top-level function (`Tipo nome(...) {}`).
// Returns nil when the current position isn't the start of a declaration,
// so the caller can fall back to statement parsing for the synthetic entry
// point (spec.md §3); a leading access modifier is consumed either way, and
// reported as an error when no declaration follows it.
func (p *Parser) tryParseTopLevelDecl() ast.Decl {
	access, hasAccess := p.tryParseAccess()
	switch {
	case p.check(lexer.TokenClasse):
		return p.parseClassDecl(access)
	case p.check(lexer.TokenInterface):
		return p.parseInterfaceDecl(access)
	case p.check(lexer.TokenEnumeracao):
		return p.parseEnumDecl(access)
	case p.check(lexer.TokenFuncao):
		return p.parseFuncDeclKeyword(access)
	case p.looksLikePrefixedFunction():
		return p.parsePrefixedFuncDecl(access)
	}
	if hasAccess {
		p.errorf(p.cur().Position, "esperada declaração após modificador de acesso")
	}
	return nil
}

func (p *Parser) tryParseAccess() (ast.Access, bool) {
	switch p.cur().Type {
	case lexer.TokenPublico:
		p.advance()
		return ast.AccessPublic, true
	case lexer.TokenPrivado:
		p.advance()
		return ast.AccessPrivate, true
	case lexer.TokenProtegido:
		p.advance()
		return ast.AccessProtected, true
	}
	return ast.AccessPublic, false
}

// looksLikePrefixedFunction performs fixed lookahead to tell
// `Tipo nome(...)` (a prefixed-form function) apart from a top-level
// statement that merely starts with an identifier or type keyword.
func (p *Parser) looksLikePrefixedFunction() bool {
	if !p.isTypeStartToken(p.cur().Type) {
		return false
	}
	i := p.pos
	i = p.skipTypeTokensFrom(i)
	if i >= len(p.tokens) {
		return false
	}
	if p.tokens[i].Type != lexer.TokenIdentifier {
		return false
	}
	i++
	return i < len(p.tokens) && p.tokens[i].Type == lexer.TokenLeftParen
}

func (p *Parser) isTypeStartToken(tt lexer.TokenType) bool {
	switch tt {
	case lexer.TokenInteiro, lexer.TokenTexto, lexer.TokenBooleano, lexer.TokenDecimalType,
		lexer.TokenDuplo, lexer.TokenVazio, lexer.TokenIdentifier:
		return true
	}
	return false
}

// skipTypeTokensFrom returns the index just past a type spelling
// (primitive keyword or dotted identifier) starting at i, including any
// trailing `[]` array-suffix pairs.
func (p *Parser) skipTypeTokensFrom(i int) int {
	if i >= len(p.tokens) {
		return i
	}
	if p.tokens[i].Type == lexer.TokenIdentifier {
		i++
		for i+1 < len(p.tokens) && p.tokens[i].Type == lexer.TokenDot && p.tokens[i+1].Type == lexer.TokenIdentifier {
			i += 2
		}
	} else {
		i++
	}
	for i+1 < len(p.tokens) && p.tokens[i].Type == lexer.TokenLeftBracket && p.tokens[i+1].Type == lexer.TokenRightBracket {
		i += 2
	}
	return i
}

// --- types -----------------------------------------------------------------

func (p *Parser) parseType() *ast.TypeExpr {
	start := p.cur().Position
	var te *ast.TypeExpr
	switch p.cur().Type {
	case lexer.TokenInteiro, lexer.TokenTexto, lexer.TokenBooleano, lexer.TokenDecimalType,
		lexer.TokenDuplo, lexer.TokenVazio:
		name := p.advance().Lexeme
		te = &ast.TypeExpr{BaseNode: ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position}, Name: name}
	case lexer.TokenIdentifier:
		name := p.parseDottedPath()
		te = &ast.TypeExpr{BaseNode: ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position}, Name: name}
	default:
		p.errorf(start, "tipo esperado, encontrado %s", p.cur().Type)
		p.advance()
		return &ast.TypeExpr{BaseNode: ast.BaseNode{StartPos: start, EndPos: start}, Name: "?"}
	}
	for p.check(lexer.TokenLeftBracket) && p.peek().Type == lexer.TokenRightBracket {
		p.advance()
		end := p.advance().Position
		te = &ast.TypeExpr{BaseNode: ast.BaseNode{StartPos: start, EndPos: end}, IsArray: true, Elem: te}
	}
	return te
}

// --- class / interface / enum / function declarations -----------------------

func (p *Parser) parseClassDecl(access ast.Access) *ast.ClassDecl {
	start := p.cur().Position
	p.advance() // classe

	static := false
	abstract := false
	// Trailing modifiers are also accepted preceding `classe` in the
	// tryParseTopLevelDecl loop via tryParseAccess only; estatica/abstrata
	// here are parsed if they appear right after the keyword for symmetry
	// with member modifiers (`classe estatica Util { ... }`).
	for {
		switch p.cur().Type {
		case lexer.TokenEstatica:
			static = true
			p.advance()
			continue
		case lexer.TokenAbstrata:
			abstract = true
			p.advance()
			continue
		}
		break
	}

	name := p.expect(lexer.TokenIdentifier, "nome da classe").Lexeme
	decl := &ast.ClassDecl{Name: name, Access: access, Static: static, Abstract: abstract}

	if p.match(lexer.TokenColon) {
		decl.Base = p.parseType()
		for p.match(lexer.TokenComma) {
			decl.Interfaces = append(decl.Interfaces, p.parseType())
		}
	}

	prevClassName := p.className
	p.className = name
	defer func() { p.className = prevClassName }()

	p.expect(lexer.TokenLeftBrace, "'{'")
	for !p.check(lexer.TokenRightBrace) && !p.check(lexer.TokenEOF) {
		p.parseClassMember(decl)
	}
	end := p.expect(lexer.TokenRightBrace, "'}'").Position
	decl.BaseNode = ast.BaseNode{StartPos: start, EndPos: end}
	return decl
}

func (p *Parser) parseClassMember(decl *ast.ClassDecl) {
	memberAccess, _ := p.tryParseAccess()
	static, abstract, virtual, override := false, false, false, false
	for {
		switch p.cur().Type {
		case lexer.TokenEstatica:
			static = true
			p.advance()
			continue
		case lexer.TokenAbstrata:
			abstract = true
			p.advance()
			continue
		case lexer.TokenRedefinivel:
			virtual = true
			p.advance()
			continue
		case lexer.TokenSobrescreve:
			override = true
			p.advance()
			continue
		}
		break
	}

	// Constructor: bare class name followed directly by '('.
	if p.check(lexer.TokenIdentifier) && p.cur().Lexeme == p.className && p.peek().Type == lexer.TokenLeftParen {
		decl.Constructors = append(decl.Constructors, p.parseConstructor(memberAccess))
		return
	}

	if p.match(lexer.TokenFuncao) {
		decl.Methods = append(decl.Methods, p.parseMethodAfterKeyword(memberAccess, static, abstract, virtual, override))
		return
	}

	if !p.isTypeStartToken(p.cur().Type) {
		p.errorf(p.cur().Position, "membro de classe esperado")
		p.synchronize()
		return
	}

	typ := p.parseType()
	name := p.expect(lexer.TokenIdentifier, "nome do membro").Lexeme

	switch {
	case p.check(lexer.TokenLeftParen):
		decl.Methods = append(decl.Methods, p.parseMethodTail(memberAccess, static, abstract, virtual, override, typ, name, p.at(-1).Position))
	case p.check(lexer.TokenLeftBrace):
		decl.Properties = append(decl.Properties, p.parsePropertyTail(memberAccess, static, typ, name))
	default:
		decl.Fields = append(decl.Fields, p.parseFieldTail(memberAccess, static, typ, name))
	}
}

func (p *Parser) parseConstructor(access ast.Access) *ast.ConstructorDecl {
	start := p.cur().Position
	p.advance() // class name
	params := p.parseParams()
	c := &ast.ConstructorDecl{Access: access, Signature: ast.Signature{Params: params}}
	if p.match(lexer.TokenColon) {
		p.expect(lexer.TokenBase, "'base'")
		p.expect(lexer.TokenLeftParen, "'('")
		c.BaseArgs = []ast.Expr{}
		if !p.check(lexer.TokenRightParen) {
			c.BaseArgs = append(c.BaseArgs, p.parseExpression())
			for p.match(lexer.TokenComma) {
				c.BaseArgs = append(c.BaseArgs, p.parseExpression())
			}
		}
		p.expect(lexer.TokenRightParen, "')'")
	}
	c.Body = p.parseBlock()
	c.BaseNode = ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position}
	return c
}

func (p *Parser) parseParams() []*ast.Param {
	p.expect(lexer.TokenLeftParen, "'('")
	var params []*ast.Param
	seenDefault := false
	if !p.check(lexer.TokenRightParen) {
		for {
			start := p.cur().Position
			typ := p.parseType()
			name := p.expect(lexer.TokenIdentifier, "nome do parâmetro").Lexeme
			var def ast.Expr
			if p.match(lexer.TokenAssign) {
				def = p.parseExpression()
				seenDefault = true
			} else if seenDefault {
				p.errorf(start, "parâmetro %q sem valor padrão após parâmetro com valor padrão", name)
			}
			params = append(params, &ast.Param{
				BaseNode: ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position},
				Name:     name, Type: typ, Default: def,
			})
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.expect(lexer.TokenRightParen, "')'")
	return params
}

// parseMethodAfterKeyword parses a method declared with the `função`
// keyword, which admits the implicit-void (`função f()`), arrow
// (`função f() => T`) and prefixed (`função T f()`) return-type forms
// (spec.md §4.2).
func (p *Parser) parseMethodAfterKeyword(access ast.Access, static, abstract, virtual, override bool) *ast.MethodDecl {
	start := p.at(-1).Position
	var ret *ast.TypeExpr
	if p.isTypeStartToken(p.cur().Type) && !(p.check(lexer.TokenIdentifier) && p.peek().Type == lexer.TokenLeftParen) {
		ret = p.parseType()
	}
	name := p.expect(lexer.TokenIdentifier, "nome do método").Lexeme
	params := p.parseParams()
	if p.match(lexer.TokenArrow) {
		ret = p.parseType()
	}
	m := &ast.MethodDecl{
		Name: name, Access: access, Static: static, Abstract: abstract, Virtual: virtual, Override: override,
		Signature: ast.Signature{Params: params, ReturnType: ret},
	}
	p.finishMethodBody(m, start)
	return m
}

// parseMethodTail finishes a prefixed-form method once the caller has
// already consumed `Tipo Nome` and found a following '('.
func (p *Parser) parseMethodTail(access ast.Access, static, abstract, virtual, override bool, retType *ast.TypeExpr, name string, start lexer.Position) *ast.MethodDecl {
	params := p.parseParams()
	m := &ast.MethodDecl{
		Name: name, Access: access, Static: static, Abstract: abstract, Virtual: virtual, Override: override,
		Signature: ast.Signature{Params: params, ReturnType: retType},
	}
	p.finishMethodBody(m, start)
	return m
}

func (p *Parser) finishMethodBody(m *ast.MethodDecl, start lexer.Position) {
	if m.Abstract {
		p.expect(lexer.TokenSemicolon, "';' após método abstrato")
	} else {
		m.Body = p.parseBlock()
	}
	m.BaseNode = ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position}
}

func (p *Parser) parsePropertyTail(access ast.Access, static bool, typ *ast.TypeExpr, name string) *ast.PropertyDecl {
	start := typ.Pos()
	prop := &ast.PropertyDecl{Name: name, Type: typ, Access: access, Static: static}
	p.expect(lexer.TokenLeftBrace, "'{'")
accessors:
	for !p.check(lexer.TokenRightBrace) && !p.check(lexer.TokenEOF) {
		accessorAccess, _ := p.tryParseAccess()
		switch p.cur().Type {
		case lexer.TokenObter:
			p.advance()
			prop.HasGetter = true
			prop.GetterAccess = accessorAccess
			if p.check(lexer.TokenLeftBrace) {
				prop.GetterBody = p.parseBlock()
			} else {
				p.expect(lexer.TokenSemicolon, "';' após 'obter'")
			}
		case lexer.TokenDefinir:
			p.advance()
			prop.HasSetter = true
			prop.SetterAccess = accessorAccess
			if p.check(lexer.TokenLeftBrace) {
				prop.SetterBody = p.parseBlock()
			} else {
				p.expect(lexer.TokenSemicolon, "';' após 'definir'")
			}
		default:
			p.errorf(p.cur().Position, "esperado 'obter' ou 'definir'")
			p.synchronize()
			if p.check(lexer.TokenRightBrace) {
				break accessors
			}
		}
	}
	p.expect(lexer.TokenRightBrace, "'}'")
	if p.match(lexer.TokenAssign) {
		prop.Initializer = p.parseExpression()
	}
	p.match(lexer.TokenSemicolon)
	prop.BaseNode = ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position}
	return prop
}

func (p *Parser) parseFieldTail(access ast.Access, static bool, typ *ast.TypeExpr, name string) *ast.FieldDecl {
	start := typ.Pos()
	f := &ast.FieldDecl{Name: name, Type: typ, Access: access, Static: static}
	if p.match(lexer.TokenAssign) {
		f.Initializer = p.parseExpression()
	}
	p.expect(lexer.TokenSemicolon, "';'")
	f.BaseNode = ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position}
	return f
}

func (p *Parser) parseInterfaceDecl(access ast.Access) *ast.InterfaceDecl {
	start := p.cur().Position
	p.advance() // interface
	name := p.expect(lexer.TokenIdentifier, "nome da interface").Lexeme
	d := &ast.InterfaceDecl{Name: name, Access: access}
	p.expect(lexer.TokenLeftBrace, "'{'")
	for !p.check(lexer.TokenRightBrace) && !p.check(lexer.TokenEOF) {
		mstart := p.cur().Position
		var ret *ast.TypeExpr
		if p.match(lexer.TokenFuncao) {
			mname := p.expect(lexer.TokenIdentifier, "nome do método").Lexeme
			params := p.parseParams()
			if p.match(lexer.TokenArrow) {
				ret = p.parseType()
			}
			p.expect(lexer.TokenSemicolon, "';'")
			d.Methods = append(d.Methods, &ast.InterfaceMethod{
				BaseNode: ast.BaseNode{StartPos: mstart, EndPos: p.at(-1).Position},
				Name:     mname, Signature: ast.Signature{Params: params, ReturnType: ret},
			})
			continue
		}
		typ := p.parseType()
		mname := p.expect(lexer.TokenIdentifier, "nome do método").Lexeme
		params := p.parseParams()
		p.expect(lexer.TokenSemicolon, "';'")
		d.Methods = append(d.Methods, &ast.InterfaceMethod{
			BaseNode: ast.BaseNode{StartPos: mstart, EndPos: p.at(-1).Position},
			Name:     mname, Signature: ast.Signature{Params: params, ReturnType: typ},
		})
	}
	end := p.expect(lexer.TokenRightBrace, "'}'").Position
	d.BaseNode = ast.BaseNode{StartPos: start, EndPos: end}
	return d
}

func (p *Parser) parseEnumDecl(access ast.Access) *ast.EnumDecl {
	start := p.cur().Position
	p.advance() // enumeração
	name := p.expect(lexer.TokenIdentifier, "nome da enumeração").Lexeme
	d := &ast.EnumDecl{Name: name, Access: access}
	p.expect(lexer.TokenLeftBrace, "'{'")
	if !p.check(lexer.TokenRightBrace) {
		for {
			d.Members = append(d.Members, p.expect(lexer.TokenIdentifier, "membro da enumeração").Lexeme)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	end := p.expect(lexer.TokenRightBrace, "'}'").Position
	d.BaseNode = ast.BaseNode{StartPos: start, EndPos: end}
	return d
}

func (p *Parser) parseFuncDeclKeyword(access ast.Access) *ast.FuncDecl {
	start := p.cur().Position
	p.advance() // função
	name := p.expect(lexer.TokenIdentifier, "nome da função").Lexeme
	params := p.parseParams()
	var ret *ast.TypeExpr
	if p.match(lexer.TokenArrow) {
		ret = p.parseType()
	}
	body := p.parseBlock()
	return &ast.FuncDecl{
		BaseNode: ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position},
		Name:     name, Access: access, Signature: ast.Signature{Params: params, ReturnType: ret}, Body: body,
	}
}

func (p *Parser) parsePrefixedFuncDecl(access ast.Access) *ast.FuncDecl {
	start := p.cur().Position
	ret := p.parseType()
	name := p.expect(lexer.TokenIdentifier, "nome da função").Lexeme
	params := p.parseParams()
	body := p.parseBlock()
	return &ast.FuncDecl{
		BaseNode: ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position},
		Name:     name, Access: access, Signature: ast.Signature{Params: params, ReturnType: ret}, Body: body,
	}
}

// --- statements --------------------------------------------------------------

func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.expect(lexer.TokenLeftBrace, "'{'").Position
	var stmts []ast.Stmt
	for !p.check(lexer.TokenRightBrace) && !p.check(lexer.TokenEOF) {
		if s := p.parseStatement(); s != nil {
			stmts = append(stmts, s)
		}
	}
	end := p.expect(lexer.TokenRightBrace, "'}'").Position
	return &ast.BlockStmt{BaseNode: ast.BaseNode{StartPos: start, EndPos: end}, Stmts: stmts}
}

func (p *Parser) parseStatement() ast.Stmt {
	switch {
	case p.check(lexer.TokenLeftBrace):
		return p.parseBlock()
	case p.check(lexer.TokenVar):
		return p.parseVarDeclStmt()
	case p.looksLikeTypedDecl():
		return p.parseTypedVarDeclStmt()
	case p.check(lexer.TokenImprima):
		return p.parsePrintStmt()
	case p.check(lexer.TokenSe):
		return p.parseIfStmt()
	case p.check(lexer.TokenEnquanto):
		return p.parseWhileStmt()
	case p.check(lexer.TokenPara):
		return p.parseForStmt()
	case p.check(lexer.TokenRetorne):
		return p.parseReturnStmt()
	default:
		return p.parseExprOrAssignStmt()
	}
}

// looksLikeTypedDecl performs the lookahead spec.md leaves implicit: a
// statement starting with a type spelling followed by an identifier and
// then `=` is a typed variable declaration, not an expression or a
// (malformed) assignment.
func (p *Parser) looksLikeTypedDecl() bool {
	if !p.isTypeStartToken(p.cur().Type) {
		return false
	}
	i := p.skipTypeTokensFrom(p.pos)
	if i >= len(p.tokens) || p.tokens[i].Type != lexer.TokenIdentifier {
		return false
	}
	i++
	return i < len(p.tokens) && p.tokens[i].Type == lexer.TokenAssign
}

func (p *Parser) parseVarDeclStmt() *ast.VarDeclStmt {
	start := p.cur().Position
	p.advance() // var
	name := p.expect(lexer.TokenIdentifier, "nome da variável").Lexeme
	p.expect(lexer.TokenAssign, "'=' (declarações var exigem inicializador)")
	init := p.parseExpression()
	p.expect(lexer.TokenSemicolon, "';'")
	return &ast.VarDeclStmt{BaseNode: ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position}, Name: name, Initializer: init}
}

func (p *Parser) parseTypedVarDeclStmt() *ast.VarDeclStmt {
	start := p.cur().Position
	typ := p.parseType()
	name := p.expect(lexer.TokenIdentifier, "nome da variável").Lexeme
	p.expect(lexer.TokenAssign, "'='")
	init := p.parseExpression()
	p.expect(lexer.TokenSemicolon, "';'")
	return &ast.VarDeclStmt{BaseNode: ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position}, Name: name, Type: typ, Initializer: init}
}

func (p *Parser) parsePrintStmt() *ast.PrintStmt {
	start := p.cur().Position
	p.advance() // imprima
	p.expect(lexer.TokenLeftParen, "'('")
	val := p.parseExpression()
	p.expect(lexer.TokenRightParen, "')'")
	p.expect(lexer.TokenSemicolon, "';'")
	return &ast.PrintStmt{BaseNode: ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position}, Value: val}
}

// parseIfStmt builds a dangling-else-binds-innermost chain: `senão se` is
// parsed as Else holding a nested IfStmt (spec.md §4.2).
func (p *Parser) parseIfStmt() *ast.IfStmt {
	start := p.cur().Position
	p.advance() // se
	p.expect(lexer.TokenLeftParen, "'('")
	cond := p.parseExpression()
	p.expect(lexer.TokenRightParen, "')'")
	then := p.parseBlock()
	stmt := &ast.IfStmt{BaseNode: ast.BaseNode{StartPos: start}, Cond: cond, Then: then}
	if p.match(lexer.TokenSenao) {
		if p.check(lexer.TokenSe) {
			stmt.Else = p.parseIfStmt()
		} else {
			stmt.Else = p.parseBlock()
		}
	}
	stmt.EndPos = p.at(-1).Position
	return stmt
}

func (p *Parser) parseWhileStmt() *ast.WhileStmt {
	start := p.cur().Position
	p.advance() // enquanto
	p.expect(lexer.TokenLeftParen, "'('")
	cond := p.parseExpression()
	p.expect(lexer.TokenRightParen, "')'")
	body := p.parseBlock()
	return &ast.WhileStmt{BaseNode: ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position}, Cond: cond, Body: body}
}

func (p *Parser) parseForStmt() *ast.ForStmt {
	start := p.cur().Position
	p.advance() // para
	p.expect(lexer.TokenLeftParen, "'('")
	var init ast.Stmt
	if !p.check(lexer.TokenSemicolon) {
		init = p.parseForClauseStmt()
	} else {
		p.advance()
	}
	var cond ast.Expr
	if !p.check(lexer.TokenSemicolon) {
		cond = p.parseExpression()
	}
	p.expect(lexer.TokenSemicolon, "';'")
	var step ast.Stmt
	if !p.check(lexer.TokenRightParen) {
		step = p.parseForClauseStmtNoSemicolon()
	}
	p.expect(lexer.TokenRightParen, "')'")
	body := p.parseBlock()
	return &ast.ForStmt{BaseNode: ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position}, Init: init, Cond: cond, Step: step, Body: body}
}

// parseForClauseStmt parses the init clause of a `para` header (consumes
// its own trailing ';'), accepting a typed/inferred declaration or a bare
// assignment/expression.
func (p *Parser) parseForClauseStmt() ast.Stmt {
	var s ast.Stmt
	switch {
	case p.check(lexer.TokenVar):
		s = p.parseVarDeclStmtNoSemicolon(true)
	case p.looksLikeTypedDecl():
		s = p.parseVarDeclStmtNoSemicolon(false)
	default:
		s = p.parseExprOrAssignStmtNoSemicolon()
	}
	p.expect(lexer.TokenSemicolon, "';'")
	return s
}

func (p *Parser) parseForClauseStmtNoSemicolon() ast.Stmt {
	return p.parseExprOrAssignStmtNoSemicolon()
}

func (p *Parser) parseVarDeclStmtNoSemicolon(inferred bool) ast.Stmt {
	start := p.cur().Position
	var typ *ast.TypeExpr
	if inferred {
		p.advance() // var
	} else {
		typ = p.parseType()
	}
	name := p.expect(lexer.TokenIdentifier, "nome da variável").Lexeme
	p.expect(lexer.TokenAssign, "'='")
	init := p.parseExpression()
	return &ast.VarDeclStmt{BaseNode: ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position}, Name: name, Type: typ, Initializer: init}
}

func (p *Parser) parseReturnStmt() *ast.ReturnStmt {
	start := p.cur().Position
	p.advance() // retorne
	var val ast.Expr
	if !p.check(lexer.TokenSemicolon) {
		val = p.parseExpression()
	}
	p.expect(lexer.TokenSemicolon, "';'")
	return &ast.ReturnStmt{BaseNode: ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position}, Value: val}
}

func (p *Parser) parseExprOrAssignStmt() ast.Stmt {
	start := p.cur().Position
	expr := p.parseExpression()
	if p.match(lexer.TokenAssign) {
		val := p.parseExpression()
		p.expect(lexer.TokenSemicolon, "';'")
		return &ast.AssignStmt{BaseNode: ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position}, Target: expr, Value: val}
	}
	p.expect(lexer.TokenSemicolon, "';'")
	return &ast.ExprStmt{BaseNode: ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position}, X: expr}
}

func (p *Parser) parseExprOrAssignStmtNoSemicolon() ast.Stmt {
	start := p.cur().Position
	expr := p.parseExpression()
	if p.match(lexer.TokenAssign) {
		val := p.parseExpression()
		return &ast.AssignStmt{BaseNode: ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position}, Target: expr, Value: val}
	}
	return &ast.ExprStmt{BaseNode: ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position}, X: expr}
}

// --- expressions: precedence climbing ---------------------------------------

func (p *Parser) parseExpression() ast.Expr {
	return p.parsePrecedence(PrecOr)
}

func (p *Parser) parsePrecedence(min Precedence) ast.Expr {
	left := p.parseUnary()
	for {
		opType := p.cur().Type
		prec := getPrecedence(opType)
		if prec < min || prec == PrecNone || prec == PrecCall {
			break
		}
		op := p.advance()
		right := p.parsePrecedence(prec + 1)
		if opType == lexer.TokenAndAnd || opType == lexer.TokenOrOr {
			left = &ast.LogicalExpr{BaseNode: ast.BaseNode{StartPos: left.Pos(), EndPos: right.End()}, Left: left, Operator: op, Right: right}
		} else {
			left = &ast.BinaryExpr{BaseNode: ast.BaseNode{StartPos: left.Pos(), EndPos: right.End()}, Left: left, Operator: op, Right: right}
		}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.check(lexer.TokenMinus) || p.check(lexer.TokenNot) {
		op := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{BaseNode: ast.BaseNode{StartPos: op.Position, EndPos: operand.End()}, Operator: op, Operand: operand}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.cur().Type {
		case lexer.TokenDot:
			p.advance()
			name := p.expect(lexer.TokenIdentifier, "nome do membro").Lexeme
			expr = &ast.MemberExpr{BaseNode: ast.BaseNode{StartPos: expr.Pos(), EndPos: p.at(-1).Position}, Object: expr, Member: name}
		case lexer.TokenLeftParen:
			args := p.parseArgs()
			expr = &ast.CallExpr{BaseNode: ast.BaseNode{StartPos: expr.Pos(), EndPos: p.at(-1).Position}, Callee: expr, Args: args}
		case lexer.TokenLeftBracket:
			p.advance()
			idx := p.parseExpression()
			end := p.expect(lexer.TokenRightBracket, "']'").Position
			expr = &ast.IndexExpr{BaseNode: ast.BaseNode{StartPos: expr.Pos(), EndPos: end}, Array: expr, Index: idx}
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgs() []ast.Expr {
	p.expect(lexer.TokenLeftParen, "'('")
	var args []ast.Expr
	if !p.check(lexer.TokenRightParen) {
		args = append(args, p.parseExpression())
		for p.match(lexer.TokenComma) {
			args = append(args, p.parseExpression())
		}
	}
	p.expect(lexer.TokenRightParen, "')'")
	return args
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Type {
	case lexer.TokenInteger:
		p.advance()
		n, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			p.errorf(tok.Position, "literal inteiro inválido: %s", tok.Lexeme)
		}
		return &ast.LiteralExpr{BaseNode: ast.BaseNode{StartPos: tok.Position, EndPos: tok.Span().End}, Token: tok, Value: n}
	case lexer.TokenDecimal, lexer.TokenDouble:
		p.advance()
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			p.errorf(tok.Position, "literal numérico inválido: %s", tok.Lexeme)
		}
		return &ast.LiteralExpr{BaseNode: ast.BaseNode{StartPos: tok.Position, EndPos: tok.Span().End}, Token: tok, Value: f}
	case lexer.TokenString:
		p.advance()
		return &ast.LiteralExpr{BaseNode: ast.BaseNode{StartPos: tok.Position, EndPos: tok.Span().End}, Token: tok, Value: tok.Lexeme}
	case lexer.TokenTrue:
		p.advance()
		return &ast.LiteralExpr{BaseNode: ast.BaseNode{StartPos: tok.Position, EndPos: tok.Span().End}, Token: tok, Value: true}
	case lexer.TokenFalse:
		p.advance()
		return &ast.LiteralExpr{BaseNode: ast.BaseNode{StartPos: tok.Position, EndPos: tok.Span().End}, Token: tok, Value: false}
	case lexer.TokenInterpString:
		p.advance()
		return &ast.InterpolatedExpr{BaseNode: ast.BaseNode{StartPos: tok.Position, EndPos: tok.Span().End}, RawBody: tok.Lexeme}
	case lexer.TokenEste:
		p.advance()
		return &ast.EsteExpr{BaseNode: ast.BaseNode{StartPos: tok.Position, EndPos: tok.Span().End}}
	case lexer.TokenIdentifier:
		p.advance()
		return &ast.IdentifierExpr{BaseNode: ast.BaseNode{StartPos: tok.Position, EndPos: tok.Span().End}, Name: tok.Lexeme}
	case lexer.TokenNovo:
		return p.parseNewExpr()
	case lexer.TokenLeftParen:
		p.advance()
		inner := p.parseExpression()
		end := p.expect(lexer.TokenRightParen, "')'").Position
		return &ast.GroupingExpr{BaseNode: ast.BaseNode{StartPos: tok.Position, EndPos: end}, Inner: inner}
	case lexer.TokenLeftBracket:
		return p.parseArrayLiteral()
	default:
		p.errorf(tok.Position, "expressão esperada, encontrado %s", tok.Type)
		p.advance()
		return &ast.LiteralExpr{BaseNode: ast.BaseNode{StartPos: tok.Position, EndPos: tok.Position}, Token: tok, Value: int64(0)}
	}
}

func (p *Parser) parseNewExpr() ast.Expr {
	start := p.cur().Position
	p.advance() // novo
	typ := p.parseType()
	args := p.parseArgs()
	return &ast.NewExpr{BaseNode: ast.BaseNode{StartPos: start, EndPos: p.at(-1).Position}, Type: typ, Args: args}
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	start := p.cur().Position
	p.advance() // [
	var elems []ast.Expr
	if !p.check(lexer.TokenRightBracket) {
		elems = append(elems, p.parseExpression())
		for p.match(lexer.TokenComma) {
			elems = append(elems, p.parseExpression())
		}
	}
	end := p.expect(lexer.TokenRightBracket, "']'").Position
	return &ast.ArrayLiteralExpr{BaseNode: ast.BaseNode{StartPos: start, EndPos: end}, Elements: elems}
}
