package vm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	e "github.com/rami3l/blox/errors"
	"github.com/rami3l/blox/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPair is an input line and everything it prints, without the final newline.
type TestPair struct{ input, output string }

func assertEval(t *testing.T, errSubstr string, pairs ...TestPair) {
	t.Helper()
	var out bytes.Buffer
	vm_ := vm.NewVM(vm.WithStdout(&out))
	for _, pair := range pairs {
		out.Reset()
		err := vm_.Interpret(pair.input + "\n")
		switch {
		case errSubstr == "":
			require.NoError(t, err, "input: %s", pair.input)
		case err != nil:
			assert.ErrorContains(t, err, errSubstr)
			return
		}
		assert.Equal(t, pair.output, strings.TrimSuffix(out.String(), "\n"), "input: %s", pair.input)
	}
	if errSubstr != "" {
		assert.Failf(t, "missing error", "expected an error containing %q", errSubstr)
	}
}

func TestCalculator(t *testing.T) {
	t.Parallel()
	assertEval(t, "", []TestPair{
		{"print 2 +2;", "4"},
		{"print 11.4 + 5.14 / 19198.10;", "11.400267734827926"},
		{"print -6 *(-4+ -3) == 6*4 + 2  *((((9))));", "true"},
		{
			heredoc.Doc(`
                print 4/1 - 4/3 + 4/5 - 4/7 + 4/9 - 4/11
                    + 4/13 - 4/15 + 4/17 - 4/19 + 4/21 - 4/23;
            `),
			"3.058402765927333",
		},
		{
			heredoc.Doc(`
                print 3
                    + 4/(2*3*4)
                    - 4/(4*5*6)
                    + 4/(6*7*8)
                    - 4/(8*9*10)
                    + 4/(10*11*12)
                    - 4/(12*13*14);
            `),
			"3.1408813408813407",
		},
	}...)
}

func TestPrecedence(t *testing.T) {
	t.Parallel()
	assertEval(t, "", []TestPair{
		{"print 1 + 2 * 3;", "7"},
		{"print (1 + 2) * 3;", "9"},
		{"print 1 - 2 - 3;", "-4"},
		{"print 8 / 4 / 2;", "1"},
		{"print -2 * -3;", "6"},
		{"1 < 2 == true;", ""},
		{"print 1 < 2 == true;", "true"},
		{"print 1 <= 1 != 2 >= 3;", "true"},
	}...)
}

func TestNumberDisplay(t *testing.T) {
	t.Parallel()
	assertEval(t, "", []TestPair{
		{"print 1000000;", "1000000"},
		{"print 0.1 + 0.2;", "0.30000000000000004"},
		{"print 2.50;", "2.5"},
		{"print 1 / 0;", "inf"},
		{"print -1 / 0;", "-inf"},
	}...)
}

func TestFalsiness(t *testing.T) {
	t.Parallel()
	assertEval(t, "", []TestPair{
		{"print !nil;", "true"},
		{"print !false;", "true"},
		{"print !true;", "false"},
		{"print !0;", "false"},
		{`print !"";`, "false"},
		{"print !!nil;", "false"},
	}...)
}

func TestEquality(t *testing.T) {
	t.Parallel()
	assertEval(t, "", []TestPair{
		{"print nil == nil;", "true"},
		{"print nil == false;", "false"},
		{"print 0 == false;", "false"},
		{"print 1 == 1.0;", "true"},
		{`print "a" == "a";`, "true"},
		{`print "ab" == "a" + "b";`, "true"},
		{`print "a" != "b";`, "true"},
		{`print "1" == 1;`, "false"},
	}...)
}

func TestStrings(t *testing.T) {
	t.Parallel()
	assertEval(t, "", []TestPair{
		{`print "foo" + "bar";`, "foobar"},
		{`var greeting = "hello";`, ""},
		{`print greeting + ", " + "world";`, "hello, world"},
		{heredoc.Doc(`
            print "multi
            line";
        `), "multi\nline"},
	}...)
}

func TestStringPlusNumber(t *testing.T) {
	t.Parallel()
	assertEval(t, "operands must both be strings or numbers",
		TestPair{`print "foo" + 1;`, ""},
	)
}

func TestTypeErrors(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct{ input, errSubstr string }{
		{`print -"foo";`, "operand must be a number"},
		{`print 1 < "foo";`, "operands must be numbers"},
		{`print nil * 2;`, "operands must be numbers"},
		{`print true - false;`, "operands must be numbers"},
		{`print nil + nil;`, "operands must both be strings or numbers"},
	} {
		var out bytes.Buffer
		vm_ := vm.NewVM(vm.WithStdout(&out))
		err := vm_.Interpret(tc.input)
		var rtErr *e.RuntimeError
		require.ErrorAs(t, err, &rtErr, "input: %s", tc.input)
		assert.Contains(t, rtErr.Reason, tc.errSubstr)
		assert.Equal(t, 1, rtErr.Line)
		assert.Empty(t, vm_.Stack(), "the stack is discarded after a runtime error")
		assert.Empty(t, out.String())
	}
}

func TestVarsBlocks(t *testing.T) {
	t.Parallel()
	assertEval(t, "", []TestPair{
		{"var foo = 2;", ""},
		{"print foo;", "2"},
		{"print foo + 3 == 1 + foo * foo;", "true"},
		{"var bar;", ""},
		{"print bar;", "nil"},
		{"bar = foo = 2;", ""},
		{"print foo;", "2"},
		{"print bar;", "2"},
		{
			"{ foo = foo + 1; var bar; var foo1 = foo; foo1 = foo1 + 1; print foo1; }",
			"4",
		},
		{"print foo;", "3"},
		{"print bar;", "2"},
	}...)
}

func TestShadowing(t *testing.T) {
	t.Parallel()
	assertEval(t, "", []TestPair{
		{"var a = \"global\";", ""},
		{
			heredoc.Doc(`
                {
                    var a = "outer";
                    {
                        var a = "inner";
                        print a;
                    }
                    print a;
                }
                print a;
            `),
			"inner\nouter\nglobal",
		},
	}...)
}

func TestLocalOutOfScope(t *testing.T) {
	t.Parallel()
	assertEval(t, "undefined variable 'a'",
		TestPair{"{ var a = 1; print a; }", "1"},
		TestPair{"print a;", ""},
	)
}

func TestVarOwnInit(t *testing.T) {
	t.Parallel()
	assertEval(t, "can't read local variable in its own initializer",
		[]TestPair{
			{"var foo = 2;", ""},
			{"{ var foo = foo; }", ""},
		}...,
	)

	err := vm.NewVM().Interpret("{ var a = a; }")
	assert.Equal(t, e.StatusCompileError, e.StatusOf(err))
}

func TestRedefinition(t *testing.T) {
	t.Parallel()
	assertEval(t, "", TestPair{"var a = 1; var a = 2; print a;", "2"})
	assertEval(t, "already a variable with this name in this scope",
		TestPair{"{ var a = 1; var a = 2; }", ""},
	)
	assertEval(t, "", TestPair{"{ var a = 1; { var a = 2; print a; } }", "2"})
}

func TestIfElse(t *testing.T) {
	t.Parallel()
	assertEval(t, "", []TestPair{
		{"if (false) print 1; else print 2;", "2"},
		{"if (true) print 1;", "1"},
		{"if (nil) print 1;", ""},
		{"var foo = 2;", ""},
		{"if (foo == 2) foo = foo + 1; else { foo = 42; }", ""},
		{"print foo;", "3"},
		{"if (foo == 2) { foo = foo + 1; } else foo = nil;", ""},
		{"print foo;", "nil"},
		{"if (!foo) foo = 1;", ""},
		{"print foo;", "1"},
		{"if (foo) foo = 2;", ""},
		{"print foo;", "2"},
		{"if (foo > 1) if (foo > 5) print \"big\"; else print \"medium\";", "medium"},
	}...)
}

func TestIfLeavesStackBalanced(t *testing.T) {
	t.Parallel()
	for _, src := range []string{
		"if (true) print 1;",
		"if (false) print 1;",
		"if (false) print 1; else print 2;",
		"{ var a = 1; if (a) { var b = 2; } }",
		"print nil or false and true;",
	} {
		vm_ := vm.NewVM(vm.WithStdout(&bytes.Buffer{}))
		require.NoError(t, vm_.Interpret(src))
		assert.Empty(t, vm_.Stack(), "source: %s", src)
	}
}

func TestAndOr(t *testing.T) {
	t.Parallel()
	assertEval(t, "", []TestPair{
		{`print "trick" or TREAT;`, "trick"},
		{"print 996 or 007;", "996"},
		{`print nil or "hi";`, "hi"},
		{"print nil and what;", "nil"},
		{`print true and "then_what";`, "then_what"},
		{"var B = 66;", ""},
		{"print 2*B or !2*B;", "132"},
		{"print false or nil;", "nil"},
	}...)
}

func TestIfAndOr(t *testing.T) {
	t.Parallel()
	assertEval(t, "", []TestPair{
		{"var foo = 2;", ""},
		{
			"if (foo != 2 and whatever) foo = foo + 42; else { foo = 3; }",
			"",
		},
		{"print foo;", "3"},
		{
			"if (0 <= foo and foo <= 3) { foo = foo + 1; } else { foo = nil; }",
			"",
		},
		{"print foo;", "4"},
		{"if (!!!(2 + 2 != 5) or !!!!!!!!foo) foo = 1;", ""},
		{"print foo;", "1"},
		{"if (true or whatever) foo = 2;", ""},
		{"print foo;", "2"},
	}...)
}

func TestUnknownGlobal(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	vm_ := vm.NewVM(vm.WithStdout(&out))

	err := vm_.Interpret("print x;")
	var rtErr *e.RuntimeError
	require.ErrorAs(t, err, &rtErr)
	assert.Equal(t, "undefined variable 'x'", rtErr.Reason)
	assert.Equal(t, e.StatusRuntimeError, e.StatusOf(err))
	assert.Empty(t, out.String())

	assert.ErrorContains(t, vm_.Interpret("x = 1;"), "undefined variable 'x'")
}

func TestRuntimeErrorLine(t *testing.T) {
	t.Parallel()
	err := vm.NewVM(vm.WithStdout(&bytes.Buffer{})).Interpret(heredoc.Doc(`
        var a = 1;
        print a;

        print a + nil;
    `))
	var rtErr *e.RuntimeError
	require.ErrorAs(t, err, &rtErr)
	assert.Equal(t, 4, rtErr.Line)
	assert.EqualError(t, err, "runtime error [L4]: operands must both be strings or numbers")
}

func TestSessionSurvivesErrors(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	vm_ := vm.NewVM(vm.WithStdout(&out))

	require.NoError(t, vm_.Interpret(`var a = "kept";`))
	assert.Error(t, vm_.Interpret("print a + 1;"))
	assert.Error(t, vm_.Interpret("print (a;"))
	vm_.ResetStack()
	require.NoError(t, vm_.Interpret("print a;"))
	assert.Equal(t, "kept\n", out.String())
	assert.Equal(t, []string{"a"}, vm_.Globals())

	val, ok := vm_.Global("a")
	require.True(t, ok)
	assert.Equal(t, "kept", vm_.Heap().Show(val))
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct{ input, errSubstr string }{
		{`print "abc;`, "unterminated string"},
		{"print @;", "unexpected character"},
		{"var a = 1; var b = 2; a + b = 3;", "invalid assignment target"},
		{"while (true) print 1;", "expected prefix expression"},
		{"for (;;) print 1;", "expected prefix expression"},
		{"print 1", "expect ';' after value"},
		{"{ print 1;", "expect '}' after block"},
		{"if true print 1;", "expect '(' after 'if'"},
		{"var 1 = 2;", "expect variable name"},
		{"var my_var = 1;", "unexpected character"},
	} {
		var out bytes.Buffer
		err := vm.NewVM(vm.WithStdout(&out)).Interpret(tc.input)
		var failure *e.CompileFailure
		require.ErrorAs(t, err, &failure, "input: %s", tc.input)
		assert.ErrorContains(t, err, tc.errSubstr, "input: %s", tc.input)
		assert.Empty(t, out.String(), "nothing runs after a failed compilation")
	}
}

func TestCompileErrorRecovery(t *testing.T) {
	t.Parallel()
	err := vm.NewVM().Interpret("print ;\nvar 1;\nprint 3;\n")
	var failure *e.CompileFailure
	require.ErrorAs(t, err, &failure)

	errs := failure.Errors()
	require.Len(t, errs, 2)
	assert.Equal(t, 1, errs[0].Line)
	assert.Contains(t, errs[0].Reason, "expected prefix expression")
	assert.Equal(t, 2, errs[1].Line)
	assert.Contains(t, errs[1].Reason, "expect variable name")
}

func TestTrace(t *testing.T) {
	t.Parallel()
	var out, trace bytes.Buffer
	vm_ := vm.NewVM(vm.WithStdout(&out), vm.WithTrace(&trace))
	require.NoError(t, vm_.Interpret(`print "a" + "b";`))

	assert.Equal(t, "ab\n", out.String())
	lines := strings.Split(strings.TrimSuffix(trace.String(), "\n"), "\n")
	// A stack snapshot and an instruction for each of the 5 instructions.
	require.Len(t, lines, 10)
	assert.Equal(t, "          ", lines[0])
	assert.Contains(t, lines[1], "CONSTANT")
	assert.Equal(t, `          [ "a" ][ "b" ]`, lines[4])
	assert.Contains(t, lines[5], "ADD")
	assert.Equal(t, `          [ "ab" ]`, lines[6])
	assert.Contains(t, lines[9], "RETURN")
}

func TestDisassembly(t *testing.T) {
	t.Parallel()
	var disasm bytes.Buffer
	vm_ := vm.NewVM(vm.WithStdout(&bytes.Buffer{}), vm.WithDisassembly(&disasm))
	require.NoError(t, vm_.Interpret("var a = 1;\nprint a;"))
	assert.Equal(t, heredoc.Doc(`
        == script ==
        0000    1 CONSTANT            1 '1'
        0001    | DEFINE_GLOBAL       0 'a'
        0002    2 GET_GLOBAL          0 'a'
        0003    | PRINT
        0004    | RETURN
    `), disasm.String())

	disasm.Reset()
	assert.Error(t, vm_.Interpret("print ;"))
	assert.Empty(t, disasm.String(), "failed compilations are not listed")
}

func TestInternalErrorsPanic(t *testing.T) {
	t.Parallel()
	c := vm.NewChunk()
	c.Write(vm.Op{Code: vm.OpPop}, 1)
	c.Write(vm.Op{Code: vm.OpReturn}, 1)
	assert.PanicsWithError(t, "internal error: pop from empty stack at 0000", func() {
		_ = vm.NewVM().Run(c)
	})

	c = vm.NewChunk()
	c.Write(vm.Op{Code: vm.OpNil}, 1)
	c.Write(vm.Op{Code: vm.OpReturn}, 1)
	assert.PanicsWithError(t, "internal error: 0 != 1", func() {
		_ = vm.NewVM().Run(c)
	})
}
