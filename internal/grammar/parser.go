package grammar

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/k0kubun/pp"
	"github.com/karupanerura/minipascal-analyzer/internal/types"
)

var parserDebugLog = false

func init() {
	if v, err := strconv.ParseBool(os.Getenv("MINIPASCAL_ANALYZER_DEBUG")); v && err == nil {
		parserDebugLog = true
	}
}

type parser struct {
	symbols []string
	index   int
	checker checker
	debug   bool
}

// Parse validates symbols against the program grammar. The returned error is
// nil for a valid program; otherwise it is the first *types.SyntaxError or
// *types.SemanticError encountered.
func Parse(symbols []string, mode Mode) error {
	p := &parser{symbols: symbols, checker: mode.newChecker(), debug: parserDebugLog}
	return p.parse()
}

func ParseWithDebugOutput(symbols []string, mode Mode) error {
	p := &parser{symbols: symbols, checker: mode.newChecker(), debug: true}
	return p.parse()
}

// AnalyzeSyntax checks symbols against the grammar only.
func AnalyzeSyntax(symbols []string) error {
	return Parse(symbols, SyntaxOnly)
}

// AnalyzeSemantics checks the grammar plus variable declaration and use.
func AnalyzeSemantics(symbols []string) error {
	return Parse(symbols, SyntaxAndSemantics)
}

func (p *parser) parse() error {
	if p.debug {
		pp.Println(p.symbols)
	}

	err := p.parseProgram()
	if p.debug {
		if sc, ok := p.checker.(*semanticChecker); ok {
			log.Printf("%d variables declared", sc.table.Len())
			pp.Println(sc.table.Symbols)
		}
		log.Printf("result: %v", err)
	}
	return err
}

func (p *parser) peek() (string, bool) {
	if p.index >= len(p.symbols) {
		return "", false
	}
	return p.symbols[p.index], true
}

// match consumes the current symbol iff it equals expected.
func (p *parser) match(expected string) bool {
	if s, ok := p.peek(); ok && s == expected {
		p.index++
		return true
	}
	return false
}

// matchBy consumes the current symbol iff it satisfies class.
func (p *parser) matchBy(class func(string) bool) (string, int, bool) {
	if s, ok := p.peek(); ok && class(s) {
		p.index++
		return s, p.index - 1, true
	}
	return "", 0, false
}

func (p *parser) errorf(format string, args ...any) error {
	err := &types.SyntaxError{Message: fmt.Sprintf(format, args...), Position: p.index}
	if p.debug {
		s, _ := p.peek()
		log.Printf("syntax error at %d (%q): %s", p.index, s, err.Message)
	}
	return err
}

func (p *parser) trace(nonterminal string) {
	if p.debug {
		s, _ := p.peek()
		log.Printf("%s at %d: %q", nonterminal, p.index, s)
	}
}

// Program := 'program' Identifier ';' {['var'] VarDecl} 'begin' StmtList 'end' '.'
func (p *parser) parseProgram() error {
	p.trace("Program")
	if !p.match("program") {
		return p.errorf("expected 'program' keyword")
	}
	if _, _, ok := p.matchBy(IsIdentifier); !ok {
		return p.errorf("expected program identifier")
	}
	if !p.match(";") {
		return p.errorf("expected ';' after program identifier")
	}

	for p.match("var") || p.lookingAt(IsIdentifier) {
		if err := p.parseVariableDeclaration(); err != nil {
			return err
		}
	}

	if !p.match("begin") {
		return p.errorf("expected 'begin' keyword")
	}
	if err := p.parseStatementList(); err != nil {
		return err
	}
	if !p.match("end") {
		return p.errorf("expected 'end' keyword")
	}
	if !p.match(".") {
		return p.errorf("expected '.' after 'end' keyword")
	}
	if p.index != len(p.symbols) {
		return p.errorf("unexpected symbol after program end")
	}

	return p.checker.finish(p.symbols)
}

func (p *parser) lookingAt(class func(string) bool) bool {
	s, ok := p.peek()
	return ok && class(s)
}

type declared struct {
	name string
	pos  int
}

// VarDecl := Identifier {',' Identifier} ':' Type ';'
func (p *parser) parseVariableDeclaration() error {
	p.trace("VarDecl")
	name, pos, ok := p.matchBy(IsIdentifier)
	if !ok {
		return p.errorf("expected variable identifier")
	}
	names := []declared{{name: name, pos: pos}}
	for p.match(",") {
		name, pos, ok := p.matchBy(IsIdentifier)
		if !ok {
			return p.errorf("expected variable identifier after ','")
		}
		names = append(names, declared{name: name, pos: pos})
	}

	if !p.match(":") {
		return p.errorf("expected ':' after variable identifiers")
	}
	if _, _, ok := p.matchBy(IsType); !ok {
		return p.errorf("expected variable type")
	}
	if !p.match(";") {
		return p.errorf("expected ';' after variable declaration")
	}

	for _, d := range names {
		p.checker.declare(d.name, d.pos)
	}
	return nil
}

// StmtList := Statement {';' Statement}
func (p *parser) parseStatementList() error {
	if err := p.parseStatement(); err != nil {
		return err
	}
	for p.match(";") {
		if err := p.parseStatement(); err != nil {
			return err
		}
	}
	return nil
}

// Statement := 'if' IfStmt | 'while' WhileStmt | Identifier AssignStmt
func (p *parser) parseStatement() error {
	p.trace("Statement")
	if p.match("if") {
		return p.parseIfStatement()
	}
	if p.match("while") {
		return p.parseWhileStatement()
	}
	if name, pos, ok := p.matchBy(IsIdentifier); ok {
		return p.parseAssignmentStatement(name, pos)
	}
	return p.errorf("expected statement")
}

// IfStmt := BoolExpr 'then' Statement ['else' Statement]
func (p *parser) parseIfStatement() error {
	if err := p.parseBooleanExpression(); err != nil {
		return err
	}
	if !p.match("then") {
		return p.errorf("expected 'then' keyword after boolean expression")
	}
	if err := p.parseStatement(); err != nil {
		return err
	}
	if p.match("else") {
		return p.parseStatement()
	}
	return nil
}

// WhileStmt := BoolExpr 'do' Statement
func (p *parser) parseWhileStatement() error {
	if err := p.parseBooleanExpression(); err != nil {
		return err
	}
	if !p.match("do") {
		return p.errorf("expected 'do' keyword after boolean expression")
	}
	return p.parseStatement()
}

// AssignStmt := ':=' Expr, the target identifier already consumed.
func (p *parser) parseAssignmentStatement(target string, pos int) error {
	if err := p.checker.use(target, pos); err != nil {
		return err
	}
	if !p.match(":=") {
		return p.errorf("expected ':=' operator after variable identifier")
	}
	return p.parseExpression()
}

// BoolExpr := Expr RelOp Expr
func (p *parser) parseBooleanExpression() error {
	p.trace("BoolExpr")
	if err := p.parseExpression(); err != nil {
		return err
	}
	if _, _, ok := p.matchBy(IsRelationalOperator); !ok {
		return p.errorf("expected relational operator in boolean expression")
	}
	return p.parseExpression()
}

// Expr := Term {('+'|'-') Term}
func (p *parser) parseExpression() error {
	if err := p.parseTerm(); err != nil {
		return err
	}
	for p.lookingAt(IsAdditiveOperator) {
		p.index++
		if err := p.parseTerm(); err != nil {
			return err
		}
	}
	return nil
}

// Term := Factor {('*'|'/') Factor}
func (p *parser) parseTerm() error {
	if err := p.parseFactor(); err != nil {
		return err
	}
	for p.lookingAt(IsMultiplicativeOperator) {
		p.index++
		if err := p.parseFactor(); err != nil {
			return err
		}
	}
	return nil
}

// Factor := Integer | Identifier ['(' Expr {',' Expr} ')'] | '(' Expr ')'
func (p *parser) parseFactor() error {
	p.trace("Factor")
	if _, _, ok := p.matchBy(IsInteger); ok {
		return nil
	}

	if name, pos, ok := p.matchBy(IsIdentifier); ok {
		if !p.match("(") {
			return p.checker.use(name, pos)
		}

		// call targets are not checked against declarations
		if err := p.parseExpression(); err != nil {
			return err
		}
		for p.match(",") {
			if err := p.parseExpression(); err != nil {
				return err
			}
		}
		if !p.match(")") {
			return p.errorf("expected ')' after call arguments")
		}
		return nil
	}

	if p.match("(") {
		if err := p.parseExpression(); err != nil {
			return err
		}
		if !p.match(")") {
			return p.errorf("expected closing parenthesis")
		}
		return nil
	}

	return p.errorf("expected integer, identifier or '('")
}
