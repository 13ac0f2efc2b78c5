package parser

import (
	"testing"

	"github.com/brlang/compilador/internal/lexer"
	"github.com/brlang/compilador/internal/parser/ast"
)

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	l := lexer.New(src, "teste.pr")
	p := New(l)
	file, errs := p.ParseFile("teste.pr")
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors for %q: %v", src, errs)
	}
	return file
}

func TestParseTopLevelEntryStatements(t *testing.T) {
	file := parse(t, `imprima("ola"); var x = 1 + 2;`)
	if len(file.Stmts) != 2 {
		t.Fatalf("want 2 top-level stmts, got %d", len(file.Stmts))
	}
	if _, ok := file.Stmts[0].(*ast.PrintStmt); !ok {
		t.Errorf("stmt[0] = %T, want *ast.PrintStmt", file.Stmts[0])
	}
	decl, ok := file.Stmts[1].(*ast.VarDeclStmt)
	if !ok {
		t.Fatalf("stmt[1] = %T, want *ast.VarDeclStmt", file.Stmts[1])
	}
	if decl.Type != nil {
		t.Errorf("inferred var decl should have nil Type")
	}
}

func TestParseUsingAndNamespace(t *testing.T) {
	file := parse(t, `usando Sistema.Colecoes;
espaco Jogo.Modelo {
	classe Pessoa {
		texto Nome;
	}
}`)
	if len(file.Usings) != 1 || file.Usings[0].Path != "Sistema.Colecoes" {
		t.Fatalf("usando not parsed: %+v", file.Usings)
	}
	if len(file.Namespaces) != 1 || file.Namespaces[0].Path != "Jogo.Modelo" {
		t.Fatalf("espaco not parsed: %+v", file.Namespaces)
	}
	if len(file.Namespaces[0].Decls) != 1 {
		t.Fatalf("want 1 decl inside espaco, got %d", len(file.Namespaces[0].Decls))
	}
}

func TestParseClassMembers(t *testing.T) {
	src := `classe Pessoa {
	privado texto nome;
	inteiro idade = 0;
	texto Nome {
		obter;
		definir;
	}
	Pessoa(texto n) : base() {
		nome = n;
	}
	vazio cumprimentar() {
		imprima(nome);
	}
	função inteiro dobroIdade() {
		retorne idade * 2;
	}
}`
	file := parse(t, src)
	if len(file.Decls) != 1 {
		t.Fatalf("want 1 top-level decl, got %d", len(file.Decls))
	}
	cd, ok := file.Decls[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("decl = %T, want *ast.ClassDecl", file.Decls[0])
	}
	if cd.Name != "Pessoa" {
		t.Errorf("class name = %q", cd.Name)
	}
	if len(cd.Fields) != 2 {
		t.Fatalf("want 2 fields, got %d: %+v", len(cd.Fields), cd.Fields)
	}
	if len(cd.Properties) != 1 || !cd.Properties[0].IsAuto() {
		t.Fatalf("want 1 auto-property, got %+v", cd.Properties)
	}
	if len(cd.Constructors) != 1 {
		t.Fatalf("want 1 constructor, got %d", len(cd.Constructors))
	}
	if cd.Constructors[0].BaseArgs == nil {
		t.Errorf("constructor should have recorded an (empty but present) base() call")
	}
	if len(cd.Methods) != 2 {
		t.Fatalf("want 2 methods (prefixed + keyword forms), got %d", len(cd.Methods))
	}
	if cd.Methods[0].Name != "cumprimentar" || cd.Methods[0].Signature.ReturnType.Name != "vazio" {
		t.Errorf("prefixed method not parsed correctly: %+v", cd.Methods[0])
	}
	if cd.Methods[1].Name != "dobroIdade" || cd.Methods[1].Signature.ReturnType.Name != "inteiro" {
		t.Errorf("keyword-form method not parsed correctly: %+v", cd.Methods[1])
	}
}

func TestParseClassInheritanceAndInterfaces(t *testing.T) {
	file := parse(t, `classe Gerente : Funcionario, IGerenciavel {
	vazio delegar() {}
}`)
	cd := file.Decls[0].(*ast.ClassDecl)
	if cd.Base == nil || cd.Base.Name != "Funcionario" {
		t.Fatalf("base class not parsed: %+v", cd.Base)
	}
	if len(cd.Interfaces) != 1 || cd.Interfaces[0].Name != "IGerenciavel" {
		t.Fatalf("interfaces not parsed: %+v", cd.Interfaces)
	}
}

func TestParseInterfaceDecl(t *testing.T) {
	file := parse(t, `interface IForma {
	decimal area();
	função descricao() => texto;
}`)
	id, ok := file.Decls[0].(*ast.InterfaceDecl)
	if !ok {
		t.Fatalf("decl = %T, want *ast.InterfaceDecl", file.Decls[0])
	}
	if len(id.Methods) != 2 {
		t.Fatalf("want 2 interface methods, got %d", len(id.Methods))
	}
	if id.Methods[0].Signature.ReturnType.Name != "decimal" {
		t.Errorf("prefixed interface method return type wrong: %+v", id.Methods[0])
	}
}

func TestParseEnumDecl(t *testing.T) {
	file := parse(t, `enumeracao Cor { Vermelho, Verde, Azul }`)
	ed := file.Decls[0].(*ast.EnumDecl)
	want := []string{"Vermelho", "Verde", "Azul"}
	if len(ed.Members) != len(want) {
		t.Fatalf("got %v, want %v", ed.Members, want)
	}
	for i, m := range want {
		if ed.Members[i] != m {
			t.Errorf("member[%d] = %q, want %q", i, ed.Members[i], m)
		}
	}
}

func TestParseFunctionThreeForms(t *testing.T) {
	file := parse(t, `
função soma(inteiro a, inteiro b) {
	retorne a + b;
}
função dobro(inteiro a) => inteiro {
	retorne a * 2;
}
inteiro triplo(inteiro a) {
	retorne a * 3;
}
`)
	if len(file.Decls) != 3 {
		t.Fatalf("want 3 func decls, got %d", len(file.Decls))
	}
	for i, d := range file.Decls {
		if _, ok := d.(*ast.FuncDecl); !ok {
			t.Fatalf("decl[%d] = %T, want *ast.FuncDecl", i, d)
		}
	}
	arrow := file.Decls[1].(*ast.FuncDecl)
	if arrow.Signature.ReturnType == nil || arrow.Signature.ReturnType.Name != "inteiro" {
		t.Errorf("arrow-form return type wrong: %+v", arrow.Signature.ReturnType)
	}
}

func TestParseOptionalParameterDefaultOrderInvariant(t *testing.T) {
	l := lexer.New(`função f(inteiro a = 1, inteiro b) { retorne a + b; }`, "t.pr")
	p := New(l)
	_, errs := p.ParseFile("t.pr")
	if len(errs) == 0 {
		t.Fatalf("expected an error for a required parameter following a defaulted one")
	}
}

func TestParseIfElseChainDanglingBindsInnermost(t *testing.T) {
	file := parse(t, `se (x == 1) { imprima("um"); } senão se (x == 2) { imprima("dois"); } senão { imprima("outro"); }`)
	stmt := file.Stmts[0].(*ast.IfStmt)
	inner, ok := stmt.Else.(*ast.IfStmt)
	if !ok {
		t.Fatalf("senão se should nest an *ast.IfStmt, got %T", stmt.Else)
	}
	if _, ok := inner.Else.(*ast.BlockStmt); !ok {
		t.Fatalf("innermost senão should be a block, got %T", inner.Else)
	}
}

func TestParseWhileAndForLoops(t *testing.T) {
	file := parse(t, `enquanto (i < 10) { i = i + 1; }
para (inteiro i = 0; i < 10; i = i + 1) { imprima(i); }`)
	if _, ok := file.Stmts[0].(*ast.WhileStmt); !ok {
		t.Fatalf("stmt[0] = %T, want *ast.WhileStmt", file.Stmts[0])
	}
	forStmt, ok := file.Stmts[1].(*ast.ForStmt)
	if !ok {
		t.Fatalf("stmt[1] = %T, want *ast.ForStmt", file.Stmts[1])
	}
	if _, ok := forStmt.Init.(*ast.VarDeclStmt); !ok {
		t.Errorf("for-init = %T, want *ast.VarDeclStmt", forStmt.Init)
	}
	if forStmt.Cond == nil || forStmt.Step == nil {
		t.Errorf("for-cond/step should not be nil")
	}
}

func TestParseExpressionPrecedence(t *testing.T) {
	file := parse(t, `var r = 1 + 2 * 3 == 7 && !falso;`)
	decl := file.Stmts[0].(*ast.VarDeclStmt)
	logical, ok := decl.Initializer.(*ast.LogicalExpr)
	if !ok {
		t.Fatalf("top node = %T, want *ast.LogicalExpr (&& binds loosest but above ||)", decl.Initializer)
	}
	eq, ok := logical.Left.(*ast.BinaryExpr)
	if !ok || eq.Operator.Type != lexer.TokenEqual {
		t.Fatalf("left of && should be ==, got %+v", logical.Left)
	}
	add, ok := eq.Left.(*ast.BinaryExpr)
	if !ok || add.Operator.Type != lexer.TokenPlus {
		t.Fatalf("left of == should be +, got %+v", eq.Left)
	}
	if _, ok := add.Right.(*ast.BinaryExpr); !ok {
		t.Fatalf("right of + should be the * subexpression, got %+v", add.Right)
	}
}

func TestParseNewArrayIndexAndMemberCallChain(t *testing.T) {
	file := parse(t, `var p = novo Pessoa("Ana").primeiro()[0];`)
	decl := file.Stmts[0].(*ast.VarDeclStmt)
	idx, ok := decl.Initializer.(*ast.IndexExpr)
	if !ok {
		t.Fatalf("top node = %T, want *ast.IndexExpr", decl.Initializer)
	}
	call, ok := idx.Array.(*ast.CallExpr)
	if !ok {
		t.Fatalf("idx.Array = %T, want *ast.CallExpr", idx.Array)
	}
	member, ok := call.Callee.(*ast.MemberExpr)
	if !ok || member.Member != "primeiro" {
		t.Fatalf("call.Callee = %+v, want MemberExpr(primeiro)", call.Callee)
	}
	if _, ok := member.Object.(*ast.NewExpr); !ok {
		t.Fatalf("member.Object = %T, want *ast.NewExpr", member.Object)
	}
}

func TestParseArrayLiteralAndTypedArrayDecl(t *testing.T) {
	file := parse(t, `inteiro[] nums = [1, 2, 3];`)
	decl := file.Stmts[0].(*ast.VarDeclStmt)
	if decl.Type == nil || !decl.Type.IsArray || decl.Type.Elem.Name != "inteiro" {
		t.Fatalf("array type not parsed: %+v", decl.Type)
	}
	lit, ok := decl.Initializer.(*ast.ArrayLiteralExpr)
	if !ok || len(lit.Elements) != 3 {
		t.Fatalf("array literal not parsed: %+v", decl.Initializer)
	}
}

func TestParseAssignmentVsExprStmt(t *testing.T) {
	file := parse(t, `x = 5; obj.Metodo();`)
	if _, ok := file.Stmts[0].(*ast.AssignStmt); !ok {
		t.Fatalf("stmt[0] = %T, want *ast.AssignStmt", file.Stmts[0])
	}
	if _, ok := file.Stmts[1].(*ast.ExprStmt); !ok {
		t.Fatalf("stmt[1] = %T, want *ast.ExprStmt", file.Stmts[1])
	}
}

func TestParseInterpolatedStringLiteral(t *testing.T) {
	file := parse(t, `imprima($"Ola, {nome}!");`)
	print := file.Stmts[0].(*ast.PrintStmt)
	if _, ok := print.Value.(*ast.InterpolatedExpr); !ok {
		t.Fatalf("print.Value = %T, want *ast.InterpolatedExpr", print.Value)
	}
}

func TestParseEsteAndBaseConstructorCall(t *testing.T) {
	file := parse(t, `classe Aluno : Pessoa {
	Aluno(texto n) : base(n) {
		este.Nome = n;
	}
}`)
	cd := file.Decls[0].(*ast.ClassDecl)
	ctor := cd.Constructors[0]
	if len(ctor.BaseArgs) != 1 {
		t.Fatalf("base(n) call should have 1 arg, got %d", len(ctor.BaseArgs))
	}
	assign := ctor.Body.Stmts[0].(*ast.AssignStmt)
	member, ok := assign.Target.(*ast.MemberExpr)
	if !ok {
		t.Fatalf("assign target = %T, want *ast.MemberExpr", assign.Target)
	}
	if _, ok := member.Object.(*ast.EsteExpr); !ok {
		t.Fatalf("member.Object = %T, want *ast.EsteExpr", member.Object)
	}
}

func TestParseCustomPropertyAccessorBodies(t *testing.T) {
	file := parse(t, `classe Conta {
	decimal Saldo {
		obter {
			retorne saldo;
		}
		privado definir {
			saldo = valor;
		}
	}
}`)
	cd := file.Decls[0].(*ast.ClassDecl)
	prop := cd.Properties[0]
	if prop.IsAuto() {
		t.Fatalf("property with bodies should not report IsAuto")
	}
	if prop.GetterBody == nil || prop.SetterBody == nil {
		t.Fatalf("expected both accessor bodies present")
	}
	if prop.SetterAccess != ast.AccessPrivate {
		t.Errorf("setter access = %v, want privado", prop.SetterAccess)
	}
}

func TestParseAbstractMethodHasNoBody(t *testing.T) {
	file := parse(t, `classe FormaBase {
	abstrata decimal area();
}`)
	cd := file.Decls[0].(*ast.ClassDecl)
	m := cd.Methods[0]
	if !m.Abstract || m.Body != nil {
		t.Fatalf("abstract method should have Abstract=true and nil Body, got %+v", m)
	}
}

func TestParseErrorRecoveryContinuesAfterBadDeclaration(t *testing.T) {
	l := lexer.New(`classe { } classe Valida { }`, "t.pr")
	p := New(l)
	file, errs := p.ParseFile("t.pr")
	if len(errs) == 0 {
		t.Fatalf("expected at least one error for the malformed first class")
	}
	found := false
	for _, d := range file.Decls {
		if cd, ok := d.(*ast.ClassDecl); ok && cd.Name == "Valida" {
			found = true
		}
	}
	if !found {
		t.Fatalf("parser should recover and still parse the valid second declaration")
	}
}
