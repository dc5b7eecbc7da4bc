package phase

// Resolver holds the active phase and resolves it to a color pair.
// Only the active key changes at runtime; the table is fixed at construction.
type Resolver struct {
	current Phase
	table   map[Phase]Colors
}

// NewResolver returns a resolver on Designer backed by Palette.
func NewResolver() *Resolver {
	return NewResolverWithTable(Palette)
}

// NewResolverWithTable returns a resolver on Designer backed by table.
func NewResolverWithTable(table map[Phase]Colors) *Resolver {
	return &Resolver{current: Designer, table: table}
}

// Set activates p. Values outside the closed set are rejected and the current
// phase is kept.
func (r *Resolver) Set(p Phase) error {
	if !p.Valid() {
		return ErrUnknownPhase
	}
	r.current = p
	return nil
}

// SetKey parses key and activates it.
func (r *Resolver) SetKey(key string) error {
	p, err := Parse(key)
	if err != nil {
		return err
	}
	r.current = p
	return nil
}

// Current returns the active phase.
func (r *Resolver) Current() Phase {
	return r.current
}

// Colors returns the pair for the active phase, falling back to the Designer
// entry when the table has no row for it.
func (r *Resolver) Colors() Colors {
	if c, ok := r.table[r.current]; ok {
		return c
	}
	if c, ok := r.table[Designer]; ok {
		return c
	}
	return Palette[Designer]
}
