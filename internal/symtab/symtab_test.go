package symtab

import (
	"testing"

	"github.com/brlang/compilador/internal/lexer"
	"github.com/brlang/compilador/internal/semantic/types"
)

func TestSymbolString(t *testing.T) {
	symbol := &Symbol{
		Name: "x",
		Kind: SymbolVariable,
		Type: &types.InteiroType{},
		Pos:  lexer.Position{Filename: "t.pr", Line: 1, Column: 5},
	}

	expected := "variavel x: inteiro em t.pr:1:5"
	if got := symbol.String(); got != expected {
		t.Errorf("Symbol.String() = %q, want %q", got, expected)
	}
}

func TestSymbolIsGlobal(t *testing.T) {
	globalScope := NewScope(ScopeGlobal, nil)
	localScope := NewScope(ScopeBlock, globalScope)

	globalSymbol := &Symbol{Name: "x", Scope: globalScope}
	localSymbol := &Symbol{Name: "y", Scope: localScope}

	if !globalSymbol.IsGlobal() {
		t.Error("expected globalSymbol.IsGlobal() to be true")
	}
	if localSymbol.IsGlobal() {
		t.Error("expected localSymbol.IsGlobal() to be false")
	}
}

func TestSymbolCanAssign(t *testing.T) {
	tests := []struct {
		name     string
		symbol   *Symbol
		expected bool
	}{
		{"variable can be assigned", &Symbol{Kind: SymbolVariable}, true},
		{"parameter can be assigned", &Symbol{Kind: SymbolParameter}, true},
		{"field can be assigned", &Symbol{Kind: SymbolField}, true},
		{"property can be assigned", &Symbol{Kind: SymbolProperty}, true},
		{"constant cannot be assigned", &Symbol{Kind: SymbolVariable, Constant: true}, false},
		{"function cannot be assigned", &Symbol{Kind: SymbolFunction}, false},
		{"class cannot be assigned", &Symbol{Kind: SymbolClass}, false},
		{"method cannot be assigned", &Symbol{Kind: SymbolMethod}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.symbol.CanAssign(); got != tt.expected {
				t.Errorf("CanAssign() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestSymbolLookupField(t *testing.T) {
	classSymbol := &Symbol{
		Kind: SymbolClass,
		Class: &ClassInfo{
			Fields: map[string]*Symbol{
				"idade": {Name: "idade", Type: &types.InteiroType{}},
			},
			Properties: map[string]*Symbol{},
			Methods:    map[string]*Symbol{},
		},
	}

	field := classSymbol.LookupField("idade")
	if field == nil || field.Name != "idade" {
		t.Fatalf("expected to find field idade, got %+v", field)
	}
	if classSymbol.LookupField("nome") != nil {
		t.Error("expected nil for non-existent field")
	}

	varSymbol := &Symbol{Kind: SymbolVariable}
	if varSymbol.LookupField("x") != nil {
		t.Error("expected nil for field lookup on a non-class symbol")
	}
}

func TestSymbolLookupMemberWalksBase(t *testing.T) {
	animal := &Symbol{
		Kind: SymbolClass,
		Name: "Animal",
		Class: &ClassInfo{
			Fields:     map[string]*Symbol{"nome": {Name: "nome", Type: &types.TextoType{}}},
			Properties: map[string]*Symbol{},
			Methods:    map[string]*Symbol{},
		},
	}
	cachorro := &Symbol{
		Kind: SymbolClass,
		Name: "Cachorro",
		Class: &ClassInfo{
			Base:       animal,
			Fields:     map[string]*Symbol{"raca": {Name: "raca", Type: &types.TextoType{}}},
			Properties: map[string]*Symbol{},
			Methods:    map[string]*Symbol{},
		},
	}

	if cachorro.LookupMember("raca") == nil {
		t.Error("expected to find Cachorro's own field raca")
	}
	if cachorro.LookupMember("nome") == nil {
		t.Error("expected to find inherited field nome via Animal")
	}
	if cachorro.LookupMember("inexistente") != nil {
		t.Error("expected nil for a field that exists nowhere in the chain")
	}
}

func TestNewScope(t *testing.T) {
	parent := NewScope(ScopeGlobal, nil)
	child := NewScope(ScopeBlock, parent)

	if child.Parent != parent {
		t.Error("expected child scope to have correct parent")
	}
	if child.Depth != 1 {
		t.Errorf("expected child depth = 1, got %d", child.Depth)
	}
	if len(parent.Children) != 1 || parent.Children[0] != child {
		t.Error("expected parent to contain child in Children slice")
	}
}

func TestScopeDefine(t *testing.T) {
	scope := NewScope(ScopeGlobal, nil)
	symbol := &Symbol{Name: "x", Type: &types.InteiroType{}}

	if err := scope.Define(symbol); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if symbol.Scope != scope {
		t.Error("expected symbol scope to be set")
	}

	duplicate := &Symbol{Name: "x", Type: &types.DecimalType{}}
	if err := scope.Define(duplicate); err == nil {
		t.Error("expected error for duplicate definition")
	}
}

func TestScopeLookup(t *testing.T) {
	global := NewScope(ScopeGlobal, nil)
	local := NewScope(ScopeBlock, global)

	globalSymbol := &Symbol{Name: "x", Type: &types.InteiroType{}}
	localSymbol := &Symbol{Name: "y", Type: &types.DuploType{}}
	global.Define(globalSymbol)
	local.Define(localSymbol)

	if found := local.Lookup("y"); found == nil || found.Name != "y" {
		t.Error("expected to find local symbol y")
	}
	if found := local.Lookup("x"); found == nil || found.Name != "x" {
		t.Error("expected to find global symbol x from a local scope")
	}
	if local.Lookup("z") != nil {
		t.Error("expected nil for a non-existent symbol")
	}
	if !globalSymbol.Used || !localSymbol.Used {
		t.Error("expected both symbols to be marked used after lookup")
	}
}

func TestScopeLookupLocal(t *testing.T) {
	global := NewScope(ScopeGlobal, nil)
	local := NewScope(ScopeBlock, global)

	global.Define(&Symbol{Name: "x"})
	local.Define(&Symbol{Name: "y"})

	if local.LookupLocal("y") == nil {
		t.Error("expected to find local symbol y")
	}
	if local.LookupLocal("x") != nil {
		t.Error("expected nil when looking up a parent symbol with LookupLocal")
	}
}

func TestScopeFindEnclosingFunction(t *testing.T) {
	global := NewScope(ScopeGlobal, nil)
	funcScope := NewScope(ScopeFunction, global)
	funcScope.Function = &Symbol{Name: "soma", Kind: SymbolFunction}
	blockScope := NewScope(ScopeBlock, funcScope)

	if blockScope.FindEnclosingFunction() != funcScope.Function {
		t.Error("expected to find the enclosing function symbol from a nested block")
	}
	if global.FindEnclosingFunction() != nil {
		t.Error("expected nil enclosing function from the global scope")
	}
}

func TestScopeFindEnclosingLoop(t *testing.T) {
	funcScope := NewScope(ScopeFunction, nil)
	loopScope := NewScope(ScopeLoop, funcScope)
	blockScope := NewScope(ScopeBlock, loopScope)

	if blockScope.FindEnclosingLoop() != loopScope {
		t.Error("expected to find the loop scope from a nested block")
	}
	if funcScope.FindEnclosingLoop() != nil {
		t.Error("expected nil enclosing loop from a function scope with no loop")
	}
}

func TestScopeFindEnclosingClass(t *testing.T) {
	global := NewScope(ScopeGlobal, nil)
	classScope := NewScope(ScopeClass, global)
	classScope.Class = &Symbol{Name: "Pessoa", Kind: SymbolClass}
	methodScope := NewScope(ScopeFunction, classScope)

	if methodScope.FindEnclosingClass() != classScope.Class {
		t.Error("expected a method scope to find its enclosing class")
	}
}

func TestScopeUnusedSymbols(t *testing.T) {
	scope := NewScope(ScopeGlobal, nil)
	used := &Symbol{Name: "x", Used: true}
	unused := &Symbol{Name: "y", Used: false}
	scope.Define(used)
	scope.Define(unused)

	got := scope.UnusedSymbols()
	if len(got) != 1 || got[0].Name != "y" {
		t.Errorf("UnusedSymbols() = %+v, want just y", got)
	}
}

func TestSymbolKindString(t *testing.T) {
	tests := []struct {
		kind     SymbolKind
		expected string
	}{
		{SymbolVariable, "variavel"},
		{SymbolFunction, "funcao"},
		{SymbolParameter, "parametro"},
		{SymbolClass, "classe"},
		{SymbolInterface, "interface"},
		{SymbolEnum, "enumeracao"},
		{SymbolField, "campo"},
		{SymbolProperty, "propriedade"},
		{SymbolMethod, "metodo"},
		{SymbolConstructor, "construtor"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("SymbolKind.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestScopeKindString(t *testing.T) {
	tests := []struct {
		kind     ScopeKind
		expected string
	}{
		{ScopeGlobal, "global"},
		{ScopeNamespace, "namespace"},
		{ScopeClass, "class"},
		{ScopeFunction, "function"},
		{ScopeBlock, "block"},
		{ScopeLoop, "loop"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("ScopeKind.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}
