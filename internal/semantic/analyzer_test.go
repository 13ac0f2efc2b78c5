package semantic

import (
	"testing"

	"github.com/brlang/compilador/internal/lexer"
	"github.com/brlang/compilador/internal/parser"
	"github.com/brlang/compilador/internal/parser/ast"
)

// parseSource runs the full lexer/parser over src and fails the test on
// any parse error, returning a single-file Program ready for Check.
func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	l := lexer.New(src, "t.pr")
	p := parser.New(l)
	file, errs := p.ParseFile("t.pr")
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	return &ast.Program{Files: []*ast.File{file}}
}

func checkSource(t *testing.T, src string) []error {
	t.Helper()
	prog := parseSource(t, src)
	c := New()
	return c.Check(prog)
}

func TestCheckSimpleClassNoErrors(t *testing.T) {
	src := `
classe Pessoa {
    publico texto nome;
    publico inteiro idade;

    Pessoa(texto nome, inteiro idade) {
        este.nome = nome;
        este.idade = idade;
    }

    publico inteiro anosParaAposentar() {
        retorne 65 - este.idade;
    }
}
`
	errs := checkSource(t, src)
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestCheckUndefinedTypeProducesError(t *testing.T) {
	src := `
classe Caixa {
    publico Inexistente conteudo;
}
`
	errs := checkSource(t, src)
	if len(errs) == 0 {
		t.Fatal("expected an error for an undefined type, got none")
	}
}

func TestCheckAssignmentTypeMismatch(t *testing.T) {
	src := `
classe Caixa {
    publico inteiro valor;

    publico vazio definirMal() {
        este.valor = "oi";
    }
}
`
	errs := checkSource(t, src)
	if len(errs) == 0 {
		t.Fatal("expected a type error assigning texto to inteiro, got none")
	}
}

func TestCheckInteiroWidensToDecimal(t *testing.T) {
	src := `
classe Caixa {
    publico vazio atribuir() {
        decimal x = 5;
    }
}
`
	errs := checkSource(t, src)
	if len(errs) != 0 {
		t.Fatalf("expected inteiro to widen to decimal without error, got %v", errs)
	}
}

func TestCheckDecimalDoesNotNarrowToInteiro(t *testing.T) {
	src := `
classe Caixa {
    publico vazio atribuir() {
        decimal d = 1;
        inteiro x = d;
    }
}
`
	errs := checkSource(t, src)
	if len(errs) == 0 {
		t.Fatal("expected narrowing decimal -> inteiro to be rejected")
	}
}

func TestCheckMethodCallArityMismatch(t *testing.T) {
	src := `
classe Calculadora {
    publico inteiro somar(inteiro a, inteiro b) {
        retorne a + b;
    }

    publico vazio usar() {
        este.somar(1);
    }
}
`
	errs := checkSource(t, src)
	if len(errs) == 0 {
		t.Fatal("expected an arity mismatch error calling somar with one argument")
	}
}

func TestCheckMethodCallResolvesReturnType(t *testing.T) {
	src := `
classe Calculadora {
    publico inteiro somar(inteiro a, inteiro b) {
        retorne a + b;
    }

    publico vazio usar() {
        decimal resultado = este.somar(1, 2);
    }
}
`
	errs := checkSource(t, src)
	if len(errs) != 0 {
		t.Fatalf("expected somar's inteiro result to widen into decimal, got %v", errs)
	}
}

func TestCheckAbstractMethodOutsideAbstractClassIsError(t *testing.T) {
	src := `
classe Forma {
    publico abstrata inteiro area();
}
`
	errs := checkSource(t, src)
	if len(errs) == 0 {
		t.Fatal("expected an error for an abstract method in a non-abstract class")
	}
}

func TestCheckInterfaceConformanceMissingMethod(t *testing.T) {
	src := `
interface Comparavel {
    inteiro compararCom(Comparavel outro);
}

classe Numero : Comparavel {
    publico inteiro valor;
}
`
	errs := checkSource(t, src)
	if len(errs) == 0 {
		t.Fatal("expected an error for a class that implements an interface without the required method")
	}
}

func TestCheckInterfaceConformanceSatisfied(t *testing.T) {
	src := `
interface Comparavel {
    inteiro compararCom(Comparavel outro);
}

classe Numero : Comparavel {
    publico inteiro valor;

    publico inteiro compararCom(Comparavel outro) {
        retorne 0;
    }
}
`
	errs := checkSource(t, src)
	if len(errs) != 0 {
		t.Fatalf("expected no errors once compararCom is implemented, got %v", errs)
	}
}

func TestCheckClassCycleDetected(t *testing.T) {
	src := `
classe A : B {
    publico inteiro x;
}

classe B : A {
    publico inteiro y;
}
`
	errs := checkSource(t, src)
	if len(errs) == 0 {
		t.Fatal("expected a cyclic inheritance error")
	}
}

func TestCheckBaseCallWithoutBaseClassIsError(t *testing.T) {
	src := `
classe Solo {
    Solo() : base() {
    }
}
`
	errs := checkSource(t, src)
	if len(errs) == 0 {
		t.Fatal("expected an error for : base(...) with no base class")
	}
}

func TestCheckConstructorCannotReturnValue(t *testing.T) {
	src := `
classe Caixa {
    Caixa() {
        retorne 1;
    }
}
`
	errs := checkSource(t, src)
	if len(errs) == 0 {
		t.Fatal("expected an error for a constructor returning a value")
	}
}

func TestCheckEnumsDoNotCrossMix(t *testing.T) {
	src := `
enumeracao Cor { Vermelho, Verde, Azul }
enumeracao Tamanho { Pequeno, Medio, Grande }

função comparar() {
    var a = Cor.Vermelho;
    var b = Tamanho.Pequeno;
    se (a == b) {
    }
}
`
	errs := checkSource(t, src)
	if len(errs) == 0 {
		t.Fatal("expected an error comparing values of two different enum types")
	}
}

func TestCheckPropertyWithoutSetterRejectsAssignment(t *testing.T) {
	src := `
classe Pessoa {
    publico texto Nome {
        obter {
            retorne "fixo";
        }
    }

    publico vazio tentar() {
        este.Nome = "outro";
    }
}
`
	errs := checkSource(t, src)
	if len(errs) == 0 {
		t.Fatal("expected an error assigning to a getter-only property")
	}
}

func TestCheckTextConcatenationWithNumber(t *testing.T) {
	src := `
função mostrar() {
    texto s = "idade: " + 10;
}
`
	errs := checkSource(t, src)
	if len(errs) != 0 {
		t.Fatalf("expected texto + inteiro concatenation to type-check, got %v", errs)
	}
}

func TestCheckWhileConditionMustBeBoolean(t *testing.T) {
	src := `
função loop() {
    enquanto (1) {
    }
}
`
	errs := checkSource(t, src)
	if len(errs) == 0 {
		t.Fatal("expected an error for a non-boolean enquanto condition")
	}
}

func TestCheckUnusedVariableWarns(t *testing.T) {
	prog := parseSource(t, `
função f() {
    inteiro naoUsado = 1;
}
`)
	c := New()
	errs := c.Check(prog)
	if len(errs) != 0 {
		t.Fatalf("expected no hard errors, got %v", errs)
	}
	foundWarning := false
	for _, d := range c.Diagnostics() {
		if d.Message != "" {
			foundWarning = true
		}
	}
	if !foundWarning {
		t.Error("expected at least one diagnostic (warning) for an unused local variable")
	}
}
