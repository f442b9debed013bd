package types

// SymbolTable holds the variables declared by one program.
// It is owned by a single parse and never shared.
type SymbolTable struct {
	Symbols map[string]int // name -> index of the first declaring symbol
	order   []string
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Symbols: map[string]int{},
	}
}

// Declare records name as declared at pos. Redeclaring is accepted and keeps
// the first position.
func (st *SymbolTable) Declare(name string, pos int) {
	if _, ok := st.Symbols[name]; ok {
		return
	}
	st.Symbols[name] = pos
	st.order = append(st.order, name)
}

func (st *SymbolTable) Has(name string) bool {
	_, ok := st.Symbols[name]
	return ok
}

func (st *SymbolTable) Len() int {
	return len(st.order)
}

// Names returns the declared names in declaration order.
func (st *SymbolTable) Names() []string {
	return append([]string(nil), st.order...)
}
