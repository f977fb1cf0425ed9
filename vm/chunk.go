package vm

import (
	"fmt"
	"strings"

	"github.com/rami3l/blox/debug"
)

//go:generate stringer -type=OpCode -linecomment
type OpCode byte

const (
	OpReturn      OpCode = iota // RETURN
	OpConst                     // CONSTANT
	OpNil                       // NIL
	OpTrue                      // TRUE
	OpFalse                     // FALSE
	OpPop                       // POP
	OpGetLocal                  // GET_LOCAL
	OpSetLocal                  // SET_LOCAL
	OpGetGlobal                 // GET_GLOBAL
	OpDefGlobal                 // DEFINE_GLOBAL
	OpSetGlobal                 // SET_GLOBAL
	OpEqual                     // EQUAL
	OpGreater                   // GREATER
	OpLess                      // LESS
	OpNot                       // NOT
	OpNeg                       // NEGATE
	OpAdd                       // ADD
	OpSub                       // SUBTRACT
	OpMul                       // MULTIPLY
	OpDiv                       // DIVIDE
	OpPrint                     // PRINT
	OpJump                      // JUMP
	OpJumpIfFalse               // JUMP_IF_FALSE
)

// HasArg reports whether instructions of this kind carry an operand.
func (o OpCode) HasArg() bool {
	switch o {
	case OpConst, OpGetLocal, OpSetLocal, OpGetGlobal, OpDefGlobal, OpSetGlobal, OpJump, OpJumpIfFalse:
		return true
	}
	return false
}

func (o OpCode) IsJump() bool { return o == OpJump || o == OpJumpIfFalse }

// Op is a single instruction. Arg holds a constant index, a stack slot or an
// absolute jump target, depending on Code.
type Op struct {
	Code OpCode
	Arg  int
}

func (op Op) String() string {
	if !op.Code.HasArg() {
		return op.Code.String()
	}
	return fmt.Sprintf("%-16s %4d", op.Code, op.Arg)
}

type Chunk struct {
	code []Op
	// lines[i] is the number of instructions emitted for source line i+1.
	lines  []int
	consts []Value
}

func NewChunk() *Chunk { return &Chunk{} }

func (c *Chunk) Write(op Op, line int) {
	debug.Assertf(line >= 1, "invalid source line %d", line)
	c.code = append(c.code, op)
	for len(c.lines) < line {
		c.lines = append(c.lines, 0)
	}
	c.lines[line-1]++
}

func (c *Chunk) AddConst(const_ Value) (idx int) {
	idx = len(c.consts)
	c.consts = append(c.consts, const_)
	return
}

func (c *Chunk) Len() int { return len(c.code) }

func (c *Chunk) ReadOp(offset int) Op {
	debug.Assertf(0 <= offset && offset < len(c.code), "instruction offset %d out of bounds (len %d)", offset, len(c.code))
	return c.code[offset]
}

func (c *Chunk) ReadConst(idx int) Value {
	debug.Assertf(0 <= idx && idx < len(c.consts), "constant index %d out of bounds (len %d)", idx, len(c.consts))
	return c.consts[idx]
}

// Line returns the 1-based source line of the instruction at offset.
func (c *Chunk) Line(offset int) int {
	debug.Assertf(0 <= offset && offset < len(c.code), "instruction offset %d out of bounds (len %d)", offset, len(c.code))
	seen := 0
	for i, count := range c.lines {
		if seen += count; seen > offset {
			return i + 1
		}
	}
	panic(debug.Unreachable())
}

// PatchJump retargets the jump instruction at offset.
func (c *Chunk) PatchJump(offset, target int) {
	op := c.ReadOp(offset)
	debug.Assertf(op.Code.IsJump(), "cannot patch non-jump instruction %s at %04d", op.Code, offset)
	c.code[offset].Arg = target
}

/* Disassembly */

func (c *Chunk) DisassembleInst(offset int, h *Heap) string {
	var res strings.Builder
	fmt.Fprintf(&res, "%04d ", offset)
	if line := c.Line(offset); offset > 0 && line == c.Line(offset-1) {
		res.WriteString("   | ")
	} else {
		fmt.Fprintf(&res, "%4d ", line)
	}

	switch op := c.ReadOp(offset); op.Code {
	case OpConst, OpGetGlobal, OpDefGlobal, OpSetGlobal:
		fmt.Fprintf(&res, "%s '%s'", op, h.Show(c.ReadConst(op.Arg)))
	default:
		res.WriteString(op.String())
	}
	return res.String()
}

func (c *Chunk) Disassemble(name string, h *Heap) string {
	var res strings.Builder
	fmt.Fprintf(&res, "== %s ==\n", name)
	for i := range c.code {
		res.WriteString(c.DisassembleInst(i, h))
		res.WriteByte('\n')
	}
	return res.String()
}
