package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mattn/go-isatty"
	"github.com/rami3l/blox/vm"
	"github.com/sirupsen/logrus"
)

func isTerminal(files ...*os.File) bool {
	for _, f := range files {
		if fd := f.Fd(); !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
			return false
		}
	}
	return true
}

// REPL feeds vm_ one line at a time until EOF or `q`. Errors are reported
// and the session goes on with its globals intact.
func REPL(vm_ *vm.VM, stdin io.ReadCloser, stdout io.Writer, interactive bool) error {
	prompt := ""
	if interactive {
		prompt = ">> "
		fmt.Fprintln(stdout, "=== Welcome to blox! Enter 'q' to quit.")
	}

	reader, err := readline.NewEx(&readline.Config{
		Prompt:         prompt,
		Stdin:          stdin,
		Stdout:         stdout,
		FuncIsTerminal: func() bool { return interactive },
	})
	if err != nil {
		return err
	}
	defer reader.Close()

	for {
		line, err := reader.Readline()
		switch err {
		case nil:
		case readline.ErrInterrupt: // ^C
			continue
		case io.EOF: // ^D
			return nil
		default:
			return err
		}

		if quit := evalLine(vm_, line); quit {
			return nil
		}
	}
}

// evalLine runs a single REPL input and reports whether the session should end.
func evalLine(vm_ *vm.VM, line string) (quit bool) {
	switch line = strings.TrimSpace(line); {
	case line == "":
		return false
	case strings.EqualFold(line, "q"):
		return true
	}

	if err := vm_.Interpret(line); err != nil {
		report(err)
	}
	vm_.ResetStack()
	logrus.WithField("globals", vm_.Globals()).Debugln("session state")
	return false
}
