package flags

// Catalog is the validated, read-only set of flag definitions.
// Build it with NewCatalog; the zero value is not usable.
type Catalog struct {
	defs       []FlagDefinition
	index      map[string]int
	dependents map[string][]string
	root       string
	terminal   string
}

// NewCatalog validates defs and indexes them. Validation rejects an empty
// catalog, empty or duplicate keys, unknown or repeated dependencies, cycles,
// and graphs without exactly one root and exactly one sink.
func NewCatalog(defs []FlagDefinition) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, invalidCatalog("catalog is empty")
	}

	c := &Catalog{
		defs:       make([]FlagDefinition, len(defs)),
		index:      make(map[string]int, len(defs)),
		dependents: make(map[string][]string, len(defs)),
	}

	for i, def := range defs {
		if def.Key == "" {
			return nil, invalidCatalog("flag at position %d has an empty key", i)
		}
		if _, exists := c.index[def.Key]; exists {
			return nil, invalidCatalog("duplicate flag key %q", def.Key)
		}
		def.DependsOn = append([]string(nil), def.DependsOn...)
		c.defs[i] = def
		c.index[def.Key] = i
	}

	// Build reverse index and validate dependencies
	for _, def := range c.defs {
		seen := make(map[string]struct{}, len(def.DependsOn))
		for _, dep := range def.DependsOn {
			if _, exists := c.index[dep]; !exists {
				return nil, invalidCatalog("flag %q depends on unknown flag %q", def.Key, dep)
			}
			if _, dup := seen[dep]; dup {
				return nil, invalidCatalog("flag %q lists dependency %q twice", def.Key, dep)
			}
			seen[dep] = struct{}{}
			c.dependents[dep] = append(c.dependents[dep], def.Key)
		}
	}

	if err := c.checkAcyclic(); err != nil {
		return nil, err
	}

	var roots, sinks []string
	for _, def := range c.defs {
		if len(def.DependsOn) == 0 {
			roots = append(roots, def.Key)
		}
		if len(c.dependents[def.Key]) == 0 {
			sinks = append(sinks, def.Key)
		}
	}
	if len(roots) != 1 {
		return nil, invalidCatalog("expected exactly one root flag, found %d %v", len(roots), roots)
	}
	if len(sinks) != 1 {
		return nil, invalidCatalog("expected exactly one terminal flag, found %d %v", len(sinks), sinks)
	}
	c.root = roots[0]
	c.terminal = sinks[0]

	return c, nil
}

// checkAcyclic runs Kahn's algorithm over the dependency edges.
func (c *Catalog) checkAcyclic() error {
	inDegree := make(map[string]int, len(c.defs))
	var queue []string
	for _, def := range c.defs {
		inDegree[def.Key] = len(def.DependsOn)
		if len(def.DependsOn) == 0 {
			queue = append(queue, def.Key)
		}
	}

	visited := 0
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		visited++

		for _, dependent := range c.dependents[curr] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}

	if visited != len(c.defs) {
		var stuck []string
		for _, def := range c.defs {
			if inDegree[def.Key] > 0 {
				stuck = append(stuck, def.Key)
			}
		}
		return invalidCatalog("dependency cycle among %v", stuck)
	}
	return nil
}

// Get returns the definition for key.
func (c *Catalog) Get(key string) (FlagDefinition, bool) {
	i, ok := c.index[key]
	if !ok {
		return FlagDefinition{}, false
	}
	return cloneDef(c.defs[i]), true
}

// Has reports whether key is a catalog flag.
func (c *Catalog) Has(key string) bool {
	_, ok := c.index[key]
	return ok
}

// All returns every definition in catalog order.
func (c *Catalog) All() []FlagDefinition {
	out := make([]FlagDefinition, len(c.defs))
	for i, def := range c.defs {
		out[i] = cloneDef(def)
	}
	return out
}

// Keys returns every flag key in catalog order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.defs))
	for i, def := range c.defs {
		keys[i] = def.Key
	}
	return keys
}

// DependenciesOf returns the direct dependencies of key, or nil for unknown keys.
func (c *Catalog) DependenciesOf(key string) []string {
	i, ok := c.index[key]
	if !ok {
		return nil
	}
	return append([]string(nil), c.defs[i].DependsOn...)
}

func (c *Catalog) Root() FlagDefinition {
	return cloneDef(c.defs[c.index[c.root]])
}

func (c *Catalog) Terminal() FlagDefinition {
	return cloneDef(c.defs[c.index[c.terminal]])
}

func (c *Catalog) Len() int {
	return len(c.defs)
}

// Categories groups flags by category in order of first appearance.
// Flags without a category are left out.
func (c *Catalog) Categories() []Category {
	var out []Category
	pos := make(map[string]int)
	for _, def := range c.defs {
		if def.Category == "" {
			continue
		}
		i, ok := pos[def.Category]
		if !ok {
			i = len(out)
			pos[def.Category] = i
			out = append(out, Category{Name: def.Category})
		}
		out[i].Flags = append(out[i].Flags, cloneDef(def))
	}
	return out
}

func cloneDef(def FlagDefinition) FlagDefinition {
	def.DependsOn = append([]string(nil), def.DependsOn...)
	return def
}
