package types

import "testing"

func TestPrimitiveTypeString(t *testing.T) {
	tests := []struct {
		typ      Type
		expected string
	}{
		{&InteiroType{}, "inteiro"},
		{&DecimalType{}, "decimal"},
		{&DuploType{}, "duplo"},
		{&BooleanoType{}, "booleano"},
		{&TextoType{}, "texto"},
		{&VazioType{}, "vazio"},
		{&NuloType{}, "nulo"},
		{&InvalidType{}, "<invalido>"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPrimitiveTypeEquals(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Type
		expected bool
	}{
		{"inteiro equals inteiro", &InteiroType{}, &InteiroType{}, true},
		{"decimal equals decimal", &DecimalType{}, &DecimalType{}, true},
		{"inteiro not equals decimal", &InteiroType{}, &DecimalType{}, false},
		{"decimal not equals duplo", &DecimalType{}, &DuploType{}, false},
		{"booleano not equals inteiro", &BooleanoType{}, &InteiroType{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equals(tt.b); got != tt.expected {
				t.Errorf("%s.Equals(%s) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestNumericWideningAssignableTo(t *testing.T) {
	tests := []struct {
		name     string
		value    Type
		target   Type
		expected bool
	}{
		{"inteiro to inteiro", &InteiroType{}, &InteiroType{}, true},
		{"inteiro widens to decimal", &InteiroType{}, &DecimalType{}, true},
		{"inteiro widens to duplo", &InteiroType{}, &DuploType{}, true},
		{"decimal does not narrow to inteiro", &DecimalType{}, &InteiroType{}, false},
		{"duplo does not narrow to inteiro", &DuploType{}, &InteiroType{}, false},
		{"decimal does not convert to duplo", &DecimalType{}, &DuploType{}, false},
		{"duplo does not convert to decimal", &DuploType{}, &DecimalType{}, false},
		{"booleano not assignable to inteiro", &BooleanoType{}, &InteiroType{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.value.AssignableTo(tt.target); got != tt.expected {
				t.Errorf("%s.AssignableTo(%s) = %v, want %v", tt.value, tt.target, got, tt.expected)
			}
		})
	}
}

func TestInvalidTypeNeverCascades(t *testing.T) {
	inv := &InvalidType{}
	if !inv.AssignableTo(&InteiroType{}) {
		t.Error("InvalidType should be assignable to anything, to avoid cascading diagnostics")
	}
}

func TestNuloAssignableToReferenceTypesOnly(t *testing.T) {
	nulo := &NuloType{}
	class := &ClassType{FQN: "App.Pessoa"}
	iface := &InterfaceType{FQN: "App.Descrivel"}
	arr := &ArrayType{Elem: &InteiroType{}}

	if !nulo.AssignableTo(class) {
		t.Error("nulo should be assignable to a class type")
	}
	if !nulo.AssignableTo(iface) {
		t.Error("nulo should be assignable to an interface type")
	}
	if !nulo.AssignableTo(arr) {
		t.Error("nulo should be assignable to an array type")
	}
	if nulo.AssignableTo(&InteiroType{}) {
		t.Error("nulo should not be assignable to a value type")
	}
}

func TestClassTypeInheritanceAssignability(t *testing.T) {
	animal := &ClassType{FQN: "App.Animal"}
	cachorro := &ClassType{FQN: "App.Cachorro", Base: animal}

	if !cachorro.AssignableTo(animal) {
		t.Error("a subclass should be assignable to its base class")
	}
	if animal.AssignableTo(cachorro) {
		t.Error("a base class should not be assignable to a subclass (no implicit downcast)")
	}
	if !cachorro.AssignableTo(cachorro) {
		t.Error("a class should be assignable to itself")
	}
}

func TestClassImplementsInterfaceTransitively(t *testing.T) {
	descrivel := &InterfaceType{FQN: "App.Descrivel"}
	comparavel := &InterfaceType{FQN: "App.Comparavel", Bases: []*InterfaceType{descrivel}}
	animal := &ClassType{FQN: "App.Animal", Interfaces: []*InterfaceType{comparavel}}
	cachorro := &ClassType{FQN: "App.Cachorro", Base: animal}

	if !cachorro.Implements(comparavel) {
		t.Error("Cachorro should implement Comparavel via its base class Animal")
	}
	if !cachorro.Implements(descrivel) {
		t.Error("Cachorro should transitively implement Descrivel via Comparavel's extension")
	}
	if !cachorro.AssignableTo(descrivel) {
		t.Error("Cachorro should be assignable to Descrivel")
	}
}

func TestEnumTypesNeverCrossMix(t *testing.T) {
	cor := &EnumType{FQN: "App.Cor", Members: []string{"Vermelho", "Verde", "Azul"}}
	status := &EnumType{FQN: "App.Status", Members: []string{"Vermelho", "Verde"}}

	if cor.Equals(status) {
		t.Error("two distinct enum types must never be Equals, even with overlapping member names")
	}
	if cor.AssignableTo(status) {
		t.Error("a Cor value must not be assignable to a Status-typed location")
	}
	if cor.MemberIndex("Verde") != 1 {
		t.Errorf("MemberIndex(Verde) = %d, want 1", cor.MemberIndex("Verde"))
	}
	if cor.MemberIndex("Roxo") != -1 {
		t.Error("MemberIndex of a non-member should be -1")
	}
}

func TestArrayTypeEquality(t *testing.T) {
	intArr := &ArrayType{Elem: &InteiroType{}}
	intArr2 := &ArrayType{Elem: &InteiroType{}}
	textArr := &ArrayType{Elem: &TextoType{}}
	nested := &ArrayType{Elem: intArr}

	if !intArr.Equals(intArr2) {
		t.Error("two inteiro[] types should be equal")
	}
	if intArr.Equals(textArr) {
		t.Error("inteiro[] should not equal texto[]")
	}
	if nested.String() != "inteiro[][]" {
		t.Errorf("nested array String() = %q, want %q", nested.String(), "inteiro[][]")
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		name     string
		typ      Type
		expected bool
	}{
		{"inteiro is numeric", &InteiroType{}, true},
		{"decimal is numeric", &DecimalType{}, true},
		{"duplo is numeric", &DuploType{}, true},
		{"booleano is not numeric", &BooleanoType{}, false},
		{"texto is not numeric", &TextoType{}, false},
		{"vazio is not numeric", &VazioType{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNumeric(tt.typ); got != tt.expected {
				t.Errorf("IsNumeric(%s) = %v, want %v", tt.typ, got, tt.expected)
			}
		})
	}
}

func TestIsReference(t *testing.T) {
	tests := []struct {
		name     string
		typ      Type
		expected bool
	}{
		{"class is reference", &ClassType{FQN: "App.Pessoa"}, true},
		{"interface is reference", &InterfaceType{FQN: "App.Descrivel"}, true},
		{"array is reference", &ArrayType{Elem: &InteiroType{}}, true},
		{"inteiro is not reference", &InteiroType{}, false},
		{"enum is not reference", &EnumType{FQN: "App.Cor"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsReference(tt.typ); got != tt.expected {
				t.Errorf("IsReference(%s) = %v, want %v", tt.typ, got, tt.expected)
			}
		})
	}
}

func TestCommonNumeric(t *testing.T) {
	inteiro := &InteiroType{}
	decimal := &DecimalType{}
	duplo := &DuploType{}
	booleano := &BooleanoType{}

	if got, ok := CommonNumeric(inteiro, inteiro); !ok || !got.Equals(inteiro) {
		t.Error("inteiro + inteiro should widen to inteiro")
	}
	if got, ok := CommonNumeric(inteiro, decimal); !ok || !got.Equals(decimal) {
		t.Error("inteiro + decimal should widen to decimal")
	}
	if got, ok := CommonNumeric(duplo, inteiro); !ok || !got.Equals(duplo) {
		t.Error("duplo + inteiro should widen to duplo")
	}
	if _, ok := CommonNumeric(decimal, duplo); ok {
		t.Error("decimal + duplo should have no common numeric type")
	}
	if _, ok := CommonNumeric(booleano, inteiro); ok {
		t.Error("booleano + inteiro should have no common numeric type")
	}
}
