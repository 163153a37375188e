package positions

import (
	"github.com/bobmccarthy/chainfolio/internal/interfaces"
)

// Compile-time interface check
var _ interfaces.TokenResolver = (*MapResolver)(nil)

// MapResolver resolves token display symbols from a static mint -> symbol
// table, typically loaded from configuration. Unknown mints resolve to the
// mint address itself so positions stay identifiable.
type MapResolver struct {
	symbols map[string]string
}

// NewMapResolver creates a resolver over the given table. A nil table is
// valid and resolves everything to the raw mint address.
func NewMapResolver(symbols map[string]string) *MapResolver {
	return &MapResolver{symbols: symbols}
}

// Resolve returns the display symbol for a mint address.
func (r *MapResolver) Resolve(mint string) string {
	if symbol, ok := r.symbols[mint]; ok && symbol != "" {
		return symbol
	}
	return mint
}
