package grammar

import "fmt"

// Mode selects the checks layered onto the grammar.
type Mode int

const (
	SyntaxOnly Mode = iota
	SyntaxAndSemantics
)

func ParseMode(s string) (Mode, error) {
	switch s {
	case "syntax":
		return SyntaxOnly, nil
	case "semantics", "":
		return SyntaxAndSemantics, nil
	default:
		return 0, fmt.Errorf("unknown mode: %q", s)
	}
}

func (m Mode) String() string {
	switch m {
	case SyntaxOnly:
		return "syntax"
	case SyntaxAndSemantics:
		return "semantics"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	mode, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

func (m Mode) newChecker() checker {
	if m == SyntaxAndSemantics {
		return newSemanticChecker()
	}
	return syntaxChecker{}
}
