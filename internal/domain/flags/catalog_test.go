package flags

import (
	"errors"
	"reflect"
	"testing"
)

func abcDefs() []FlagDefinition {
	return []FlagDefinition{
		{Key: "A", Name: "Alpha"},
		{Key: "B", Name: "Beta", DependsOn: []string{"A"}},
		{Key: "C", Name: "Gamma", DependsOn: []string{"B"}},
	}
}

func TestNewCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name string
		defs []FlagDefinition
	}{
		{name: "Empty", defs: nil},
		{name: "EmptyKey", defs: []FlagDefinition{{Key: ""}}},
		{
			name: "DuplicateKey",
			defs: []FlagDefinition{{Key: "A"}, {Key: "A"}},
		},
		{
			name: "UnknownDependency",
			defs: []FlagDefinition{{Key: "A"}, {Key: "B", DependsOn: []string{"X"}}},
		},
		{
			name: "RepeatedDependency",
			defs: []FlagDefinition{{Key: "A"}, {Key: "B", DependsOn: []string{"A", "A"}}},
		},
		{
			name: "SelfDependency",
			defs: []FlagDefinition{{Key: "A"}, {Key: "B", DependsOn: []string{"A", "B"}}},
		},
		{
			name: "Cycle",
			defs: []FlagDefinition{
				{Key: "A"},
				{Key: "B", DependsOn: []string{"A", "D"}},
				{Key: "C", DependsOn: []string{"B"}},
				{Key: "D", DependsOn: []string{"C"}},
				{Key: "E", DependsOn: []string{"D"}},
			},
		},
		{
			name: "NoRoot",
			defs: []FlagDefinition{{Key: "A", DependsOn: []string{"B"}}, {Key: "B", DependsOn: []string{"A"}}},
		},
		{
			name: "TwoRoots",
			defs: []FlagDefinition{{Key: "A"}, {Key: "B"}, {Key: "C", DependsOn: []string{"A", "B"}}},
		},
		{
			name: "TwoSinks",
			defs: []FlagDefinition{{Key: "A"}, {Key: "B", DependsOn: []string{"A"}}, {Key: "C", DependsOn: []string{"A"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCatalog(tt.defs)
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("NewCatalog() error = %v, want ErrInvalidCatalog", err)
			}
			if c != nil {
				t.Errorf("NewCatalog() returned a catalog for invalid input")
			}
		})
	}
}

func TestNewCatalog_PlanesOfPower(t *testing.T) {
	c, err := NewCatalog(PlanesOfPower())
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	if got := c.Len(); got != 19 {
		t.Errorf("Len() = %d, want 19", got)
	}
	if got := c.Root().Key; got != KeyKnowledge {
		t.Errorf("Root() = %s, want %s", got, KeyKnowledge)
	}
	if got := c.Terminal().Key; got != KeyQuarm {
		t.Errorf("Terminal() = %s, want %s", got, KeyQuarm)
	}

	keys := c.Keys()
	if keys[0] != KeyKnowledge || keys[len(keys)-1] != KeyQuarm {
		t.Errorf("Keys() not in definition order: %v", keys)
	}

	def, ok := c.Get("storms")
	if !ok || def.Name != "Plane of Storms" {
		t.Errorf("Get(storms) = %+v, %v", def, ok)
	}
	if _, ok := c.Get("nope"); ok {
		t.Errorf("Get(nope) found a flag")
	}
	if deps := c.DependenciesOf("nope"); deps != nil {
		t.Errorf("DependenciesOf(nope) = %v, want nil", deps)
	}

	wantCats := []string{CategoryElemental, CategoryMidTier, CategorySeven, CategoryUpper}
	var gotCats []string
	total := 0
	for _, cat := range c.Categories() {
		gotCats = append(gotCats, cat.Name)
		total += len(cat.Flags)
	}
	if !reflect.DeepEqual(gotCats, wantCats) {
		t.Errorf("Categories() = %v, want %v", gotCats, wantCats)
	}
	if total != c.Len()-1 {
		t.Errorf("Categories() hold %d flags, want %d", total, c.Len()-1)
	}
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c, err := NewCatalog(abcDefs())
	if err != nil {
		t.Fatal(err)
	}

	deps := c.DependenciesOf("C")
	deps[0] = "A"
	all := c.All()
	all[1].DependsOn[0] = "C"
	all[0].Name = "changed"

	if got := c.DependenciesOf("C"); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("DependenciesOf(C) = %v after caller mutation", got)
	}
	if def, _ := c.Get("A"); def.Name != "Alpha" {
		t.Errorf("Get(A).Name = %q after caller mutation", def.Name)
	}
}

func TestLoadCatalogFile(t *testing.T) {
	c, err := LoadCatalogFile("testdata/catalog.toml")
	if err != nil {
		t.Fatalf("LoadCatalogFile() error = %v", err)
	}
	if got := c.Keys(); !reflect.DeepEqual(got, []string{"A", "B", "C"}) {
		t.Errorf("Keys() = %v", got)
	}
	if got := c.DependenciesOf("C"); !reflect.DeepEqual(got, []string{"B"}) {
		t.Errorf("DependenciesOf(C) = %v", got)
	}

	if _, err := LoadCatalogFile("testdata/cycle.toml"); !errors.Is(err, ErrInvalidCatalog) {
		t.Errorf("LoadCatalogFile(cycle) error = %v, want ErrInvalidCatalog", err)
	}
	if _, err := LoadCatalogFile("testdata/missing.toml"); err == nil {
		t.Errorf("LoadCatalogFile(missing) returned no error")
	}
}

func TestLoadCatalog_DefaultsToPlanesOfPower(t *testing.T) {
	c, err := LoadCatalog("")
	if err != nil {
		t.Fatal(err)
	}
	if c.Terminal().Key != KeyQuarm {
		t.Errorf("Terminal() = %s", c.Terminal().Key)
	}
}
