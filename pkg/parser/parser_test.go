package parser

import (
	"testing"

	"fplc/pkg/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return prog
}

func TestParsesSimpleAssignment(t *testing.T) {
	prog := mustParse(t, `x <- 5`)
	if len(prog.Statements) != 1 {
		t.Fatalf("got %d statements, want 1", len(prog.Statements))
	}
	assign, ok := prog.Statements[0].(*ast.AssignStatement)
	if !ok {
		t.Fatalf("got %T, want *ast.AssignStatement", prog.Statements[0])
	}
	if assign.Name != "x" {
		t.Fatalf("got name %q, want x", assign.Name)
	}
}

func TestParsesIndexAssignment(t *testing.T) {
	prog := mustParse(t, `a[1][2] <- 9`)
	stmt, ok := prog.Statements[0].(*ast.IndexAssignStatement)
	if !ok {
		t.Fatalf("got %T, want *ast.IndexAssignStatement", prog.Statements[0])
	}
	if len(stmt.Indices) != 2 {
		t.Fatalf("got %d indices, want 2", len(stmt.Indices))
	}
}

func TestParsesFieldAssignment(t *testing.T) {
	prog := mustParse(t, `p.x.y <- 1`)
	stmt, ok := prog.Statements[0].(*ast.FieldAssignStatement)
	if !ok {
		t.Fatalf("got %T, want *ast.FieldAssignStatement", prog.Statements[0])
	}
	if len(stmt.Fields) != 2 || stmt.Fields[0] != "x" || stmt.Fields[1] != "y" {
		t.Fatalf("got fields %v, want [x y]", stmt.Fields)
	}
}

func TestInvalidAssignmentTargetIsRejected(t *testing.T) {
	if _, err := Parse(`5 <- x`); err == nil {
		t.Fatalf("expected a parse error for assigning to a literal")
	}
}

func TestOperatorPrecedence(t *testing.T) {
	prog := mustParse(t, `x <- 1 + 2 * 3`)
	assign := prog.Statements[0].(*ast.AssignStatement)
	bin, ok := assign.Value.(*ast.Binary)
	if !ok || bin.Op != "+" {
		t.Fatalf("top-level op = %#v, want + at top", assign.Value)
	}
	right, ok := bin.Right.(*ast.Binary)
	if !ok || right.Op != "*" {
		t.Fatalf("right operand = %#v, want * subtree", bin.Right)
	}
}

func TestIfElseBlock(t *testing.T) {
	prog := mustParse(t, `IF(x > 0) { y <- 1 } ELSE { y <- 2 }`)
	ifs, ok := prog.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("got %T, want *ast.IfStatement", prog.Statements[0])
	}
	if len(ifs.Then) != 1 || len(ifs.Else) != 1 {
		t.Fatalf("then=%d else=%d, want 1/1", len(ifs.Then), len(ifs.Else))
	}
}

func TestRepeatTimesVsUntil(t *testing.T) {
	prog := mustParse(t, `REPEAT 3 TIMES { x <- 1 } REPEAT UNTIL(x > 0) { x <- 1 }`)
	if _, ok := prog.Statements[0].(*ast.RepeatTimesStatement); !ok {
		t.Fatalf("got %T, want *ast.RepeatTimesStatement", prog.Statements[0])
	}
	if _, ok := prog.Statements[1].(*ast.RepeatUntilStatement); !ok {
		t.Fatalf("got %T, want *ast.RepeatUntilStatement", prog.Statements[1])
	}
}

func TestProcedureAndCall(t *testing.T) {
	prog := mustParse(t, `PROCEDURE double(n) { RETURN(n * 2) } x <- double(21)`)
	if _, ok := prog.Statements[0].(*ast.ProcedureDecl); !ok {
		t.Fatalf("got %T, want *ast.ProcedureDecl", prog.Statements[0])
	}
	assign := prog.Statements[1].(*ast.AssignStatement)
	if _, ok := assign.Value.(*ast.Call); !ok {
		t.Fatalf("got %T, want *ast.Call", assign.Value)
	}
}

func TestClassWithMethods(t *testing.T) {
	prog := mustParse(t, `CLASS Counter() { PROCEDURE INIT(n) { this.n <- n } PROCEDURE get() { RETURN(this.n) } }`)
	decl, ok := prog.Statements[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("got %T, want *ast.ClassDecl", prog.Statements[0])
	}
	if len(decl.Methods) != 2 {
		t.Fatalf("got %d methods, want 2", len(decl.Methods))
	}
}

func TestTryCatch(t *testing.T) {
	prog := mustParse(t, `TRY { x <- 1 / 0 } CATCH(e) { DISPLAY(e) }`)
	stmt, ok := prog.Statements[0].(*ast.TryCatchStatement)
	if !ok {
		t.Fatalf("got %T, want *ast.TryCatchStatement", prog.Statements[0])
	}
	if stmt.CatchVar != "e" {
		t.Fatalf("got catch var %q, want e", stmt.CatchVar)
	}
}

func TestFormatStringSplitsLiteralAndExpressionParts(t *testing.T) {
	prog := mustParse(t, `x <- f"sum={1 + 2}!"`)
	assign := prog.Statements[0].(*ast.AssignStatement)
	fs, ok := assign.Value.(*ast.FormatString)
	if !ok {
		t.Fatalf("got %T, want *ast.FormatString", assign.Value)
	}
	if len(fs.Parts) != 3 {
		t.Fatalf("got %d parts, want 3 (literal, expr, literal)", len(fs.Parts))
	}
	if fs.Parts[0].Literal != "sum=" || fs.Parts[1].Expr == nil || fs.Parts[2].Literal != "!" {
		t.Fatalf("unexpected parts: %#v", fs.Parts)
	}
}

func TestForEach(t *testing.T) {
	prog := mustParse(t, `FOR EACH item IN [1, 2, 3] { DISPLAY(item) }`)
	stmt, ok := prog.Statements[0].(*ast.ForEachStatement)
	if !ok {
		t.Fatalf("got %T, want *ast.ForEachStatement", prog.Statements[0])
	}
	if stmt.VarName != "item" {
		t.Fatalf("got var %q, want item", stmt.VarName)
	}
}

func TestMethodCallChaining(t *testing.T) {
	prog := mustParse(t, `x <- a.b().c(1, 2)`)
	assign := prog.Statements[0].(*ast.AssignStatement)
	mc, ok := assign.Value.(*ast.MethodCall)
	if !ok || mc.Name != "c" || len(mc.Args) != 2 {
		t.Fatalf("got %#v, want MethodCall c(1,2)", assign.Value)
	}
	if _, ok := mc.Target.(*ast.MethodCall); !ok {
		t.Fatalf("got target %T, want nested MethodCall for b()", mc.Target)
	}
}
