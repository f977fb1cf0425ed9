package vm

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rami3l/blox/debug"
	e "github.com/rami3l/blox/errors"
	"github.com/rami3l/blox/utils"
	"github.com/sirupsen/logrus"
)

// VM executes compiled chunks. The globals and the heap outlive a single
// Interpret call, so later inputs can refer to what earlier ones defined.
type VM struct {
	chunk   *Chunk
	ip      int
	stack   []Value
	globals map[string]Value
	heap    *Heap

	stdout io.Writer
	// trace and disasm are nil unless the corresponding diagnostic is enabled.
	trace, disasm io.Writer
	log           logrus.FieldLogger
}

type Option func(*VM)

// WithStdout redirects the output of `print` statements.
func WithStdout(w io.Writer) Option { return func(vm *VM) { vm.stdout = w } }

// WithTrace writes the stack and the next instruction to w before every step.
func WithTrace(w io.Writer) Option { return func(vm *VM) { vm.trace = w } }

// WithDisassembly writes the listing of every successfully compiled chunk to w.
func WithDisassembly(w io.Writer) Option { return func(vm *VM) { vm.disasm = w } }

func WithLogger(log logrus.FieldLogger) Option { return func(vm *VM) { vm.log = log } }

func NewVM(opts ...Option) *VM {
	vm := &VM{
		globals: make(map[string]Value),
		heap:    NewHeap(),
		stdout:  os.Stdout,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

func (vm *VM) Heap() *Heap { return vm.heap }

// Globals returns the sorted names of the global variables defined so far.
func (vm *VM) Globals() []string { return utils.SortedKeys(vm.globals) }

// Global looks up the global variable called name.
func (vm *VM) Global(name string) (val Value, ok bool) {
	val, ok = vm.globals[name]
	return
}

// Stack returns a copy of the operand stack, bottom first.
func (vm *VM) Stack() []Value { return append([]Value(nil), vm.stack...) }

// ResetStack discards the transient state left by the last run.
func (vm *VM) ResetStack() {
	vm.ip = 0
	vm.stack = vm.stack[:0]
}

func (vm *VM) push(val Value) { vm.stack = append(vm.stack, val) }

func (vm *VM) pop() (last Value) {
	len_ := len(vm.stack)
	debug.Assertf(len_ > 0, "pop from empty stack at %04d", vm.ip-1)
	vm.stack, last = vm.stack[:len_-1], vm.stack[len_-1]
	return
}

func (vm *VM) peek(distance int) Value {
	idx := len(vm.stack) - 1 - distance
	debug.Assertf(0 <= idx && idx < len(vm.stack), "peek(%d) out of bounds (stack size %d)", distance, len(vm.stack))
	return vm.stack[idx]
}

// Interpret compiles src against the VM's heap and runs the result.
// It returns nil, an *errors.CompileFailure or an *errors.RuntimeError.
func (vm *VM) Interpret(src string) error {
	prog, err := NewParser(vm.heap, vm.log).Compile(src)
	if err != nil {
		return err
	}
	if vm.disasm != nil {
		fmt.Fprint(vm.disasm, prog.Chunk.Disassemble("script", vm.heap))
	}
	return vm.Run(prog.Chunk)
}

// Run executes chunk from its first instruction until OpReturn or the first
// runtime error.
func (vm *VM) Run(chunk *Chunk) error {
	vm.chunk = chunk
	vm.ResetStack()

	readOp := func() (res Op) {
		res = vm.chunk.ReadOp(vm.ip)
		vm.ip++
		return
	}

	for {
		if vm.trace != nil {
			fmt.Fprintln(vm.trace, vm.stackTrace())
			fmt.Fprintln(vm.trace, vm.chunk.DisassembleInst(vm.ip, vm.heap))
		}
		switch op := readOp(); op.Code {
		case OpReturn:
			// Every statement leaves the stack as it found it.
			debug.AssertEq(0, len(vm.stack))
			return nil
		case OpConst:
			vm.push(vm.chunk.ReadConst(op.Arg))
		case OpNil:
			vm.push(VNil{})
		case OpTrue:
			vm.push(VBool(true))
		case OpFalse:
			vm.push(VBool(false))
		case OpPop:
			vm.pop()
		case OpGetLocal:
			vm.push(vm.stack[op.Arg])
		case OpSetLocal:
			// Assignment is an expression, so the value stays on the stack.
			vm.stack[op.Arg] = vm.peek(0)
		case OpGetGlobal:
			name := vm.identAt(op.Arg)
			val, ok := vm.globals[name]
			if !ok {
				return vm.Error(fmt.Sprintf("undefined variable '%s'", name))
			}
			vm.push(val)
		case OpDefGlobal:
			vm.globals[vm.identAt(op.Arg)] = vm.pop()
		case OpSetGlobal:
			name := vm.identAt(op.Arg)
			if _, ok := vm.globals[name]; !ok {
				return vm.Error(fmt.Sprintf("undefined variable '%s'", name))
			}
			vm.globals[name] = vm.peek(0)
		case OpEqual:
			rhs := vm.pop()
			vm.push(VEq(vm.heap, vm.pop(), rhs))
		case OpNot:
			vm.push(!VTruthy(vm.pop()))
		case OpNeg:
			res, ok := VNeg(vm.peek(0))
			if !ok {
				return vm.Error("operand must be a number")
			}
			vm.pop()
			vm.push(res)
		case OpAdd:
			res, ok := vm.add(vm.peek(1), vm.peek(0))
			if !ok {
				return vm.Error("operands must both be strings or numbers")
			}
			vm.pop()
			vm.pop()
			vm.push(res)
		case OpSub, OpMul, OpDiv, OpGreater, OpLess:
			if err := vm.binaryOp(op.Code); err != nil {
				return err
			}
		case OpPrint:
			fmt.Fprintln(vm.stdout, vm.heap.Show(vm.pop()))
		case OpJump:
			vm.ip = op.Arg
		case OpJumpIfFalse:
			if !VTruthy(vm.peek(0)) {
				vm.ip = op.Arg
			}
		default:
			panic(&e.InternalError{Reason: fmt.Sprintf("unknown instruction '%d'", op.Code)})
		}
	}
}

func (vm *VM) binaryOp(code OpCode) error {
	var f func(v, w Value) (Value, bool)
	switch code {
	case OpSub:
		f = VSub
	case OpMul:
		f = VMul
	case OpDiv:
		f = VDiv
	case OpGreater:
		f = VGreater
	case OpLess:
		f = VLess
	default:
		panic(debug.Unreachable())
	}
	// Both operands are checked before either is popped.
	res, ok := f(vm.peek(1), vm.peek(0))
	if !ok {
		return vm.Error("operands must be numbers")
	}
	vm.pop()
	vm.pop()
	vm.push(res)
	return nil
}

// add performs numeric addition or string concatenation.
func (vm *VM) add(v, w Value) (res Value, ok bool) {
	res = NewValue()
	switch v := v.(type) {
	case VNum:
		if w, ok := w.(VNum); ok {
			return v + w, true
		}
	case VObj:
		if w, ok := w.(VObj); ok {
			s, ok1 := vm.heap.Get(v).(ObjStr)
			t, ok2 := vm.heap.Get(w).(ObjStr)
			if ok1 && ok2 {
				return vm.heap.NewStr(string(s + t)), true
			}
		}
	}
	return
}

func (vm *VM) identAt(idx int) string {
	obj, ok := vm.chunk.ReadConst(idx).(VObj)
	debug.Assertf(ok, "constant %d is not an identifier", idx)
	ident, ok := vm.heap.Get(obj).(ObjIdent)
	debug.Assertf(ok, "constant %d is not an identifier", idx)
	return string(ident)
}

// Error builds a RuntimeError for the instruction being executed and
// discards the operand stack. Globals and the heap are left untouched.
func (vm *VM) Error(reason string) *e.RuntimeError {
	err := &e.RuntimeError{Reason: reason}
	if vm.chunk != nil && vm.ip > 0 {
		err.Line = vm.chunk.Line(vm.ip - 1)
	}
	vm.log.WithField("line", err.Line).Debugln(reason)
	vm.ResetStack()
	return err
}

func (vm *VM) stackTrace() string {
	var res strings.Builder
	res.WriteString("          ")
	for _, slot := range vm.stack {
		fmt.Fprintf(&res, "[ %s ]", vm.heap.Quote(slot))
	}
	return res.String()
}
