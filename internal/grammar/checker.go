package grammar

import (
	"github.com/karupanerura/minipascal-analyzer/internal/types"
	"github.com/samber/lo"
)

// checker is the capability plugged into the parser by Mode.
type checker interface {
	declare(name string, pos int)
	use(name string, pos int) error
	finish(symbols []string) error
}

type syntaxChecker struct{}

func (syntaxChecker) declare(string, int) {}

func (syntaxChecker) use(string, int) error { return nil }

func (syntaxChecker) finish([]string) error { return nil }

type semanticChecker struct {
	table *types.SymbolTable
}

func newSemanticChecker() *semanticChecker {
	return &semanticChecker{table: types.NewSymbolTable()}
}

func (c *semanticChecker) declare(name string, pos int) {
	c.table.Declare(name, pos)
}

func (c *semanticChecker) use(name string, _ int) error {
	if !c.table.Has(name) {
		return &types.SemanticError{Message: types.MessageUsedBeforeDeclaration, Identifier: name}
	}
	return nil
}

// finish reports the first declared name whose text occurs nowhere but at its
// declaration. Any other occurrence counts as a use, whatever its role.
func (c *semanticChecker) finish(symbols []string) error {
	for _, name := range c.table.Names() {
		if lo.Count(symbols, name) < 2 {
			return &types.SemanticError{Message: types.MessageDeclaredButNeverUsed, Identifier: name}
		}
	}
	return nil
}
