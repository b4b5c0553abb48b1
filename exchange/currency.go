package exchange

import "strings"

// CodeMapper translates between exchange-native currency tickers and
// canonical codes. The default is identity; per-exchange override tables
// handle renames. The inverse table is derived only for one-to-one
// entries: when two native codes collapse onto one canonical code the
// canonical side keeps no inverse and Native falls back to identity.
type CodeMapper struct {
	canonical map[string]string
	native    map[string]string
}

// NewCodeMapper builds a mapper from a native→canonical override table.
func NewCodeMapper(overrides map[string]string) CodeMapper {
	m := CodeMapper{
		canonical: make(map[string]string, len(overrides)),
		native:    make(map[string]string, len(overrides)),
	}
	seen := make(map[string]int, len(overrides))
	for nat, canon := range overrides {
		nat = strings.ToUpper(nat)
		canon = strings.ToUpper(canon)
		m.canonical[nat] = canon
		seen[canon]++
	}
	for nat, canon := range m.canonical {
		if seen[canon] == 1 {
			m.native[canon] = nat
		}
	}
	return m
}

// Canonical maps an exchange-native ticker to its canonical code.
func (m CodeMapper) Canonical(native string) string {
	native = strings.ToUpper(native)
	if canon, ok := m.canonical[native]; ok {
		return canon
	}
	return native
}

// Native maps a canonical code back to the exchange-native ticker.
func (m CodeMapper) Native(canonical string) string {
	canonical = strings.ToUpper(canonical)
	if nat, ok := m.native[canonical]; ok {
		return nat
	}
	return canonical
}
