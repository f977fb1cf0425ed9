package vm

import (
	"strconv"

	"github.com/rami3l/blox/debug"
	e "github.com/rami3l/blox/errors"
	"github.com/rami3l/blox/utils"
)

type Compiler struct {
	locals []Local
	depth  int
	// identConsts caches the constant index of each identifier used by the chunk.
	identConsts map[VObj]int
}

const (
	// MaxLocals is the number of locals that can be live at once.
	MaxLocals = 256

	UninitDepth = -1
	GlobalSlot  = -1
)

func NewCompiler() *Compiler { return &Compiler{identConsts: make(map[VObj]int)} }

type Local struct {
	name  Token
	depth int
}

// Program is the result of a successful compilation.
type Program struct {
	Chunk *Chunk
	// Heap holds every object referenced by Chunk's constants.
	Heap *Heap
}

// Compile compiles src into a Program whose objects live in heap.
func Compile(src string, heap *Heap) (*Program, error) { return NewParser(heap, nil).Compile(src) }

func (p *Parser) Compile(src string) (*Program, error) {
	chunk := NewChunk()
	p.compilingChunk = chunk
	defer func() { p.compilingChunk = nil }()
	p.Compiler = NewCompiler()
	p.Scanner = NewScanner(src)
	p.errors, p.state = nil, stateNormal

	p.advance()
	for !p.match(TEOF) {
		p.decl()
	}
	p.endCompiler()

	if failure := e.NewCompileFailure(p.errors); failure != nil {
		return nil, failure
	}
	return &Program{Chunk: chunk, Heap: p.heap}, nil
}

/* Single-pass compilation */

func (p *Parser) currentChunk() *Chunk { return p.compilingChunk }

func (p *Parser) emit(codes ...OpCode) {
	for _, code := range codes {
		debug.Assertf(!code.HasArg(), "%s requires an operand", code)
		p.currentChunk().Write(Op{Code: code}, p.prev.Line)
	}
}

func (p *Parser) emitArg(code OpCode, arg int) {
	p.currentChunk().Write(Op{Code: code, Arg: arg}, p.prev.Line)
}

// emitJump emits a jump with a placeholder target and returns its offset.
func (p *Parser) emitJump(code OpCode) (offset int) {
	offset = p.currentChunk().Len()
	p.emitArg(code, -1)
	return
}

// patchJump makes the jump at offset land on the next instruction to be emitted.
func (p *Parser) patchJump(offset int) {
	p.currentChunk().PatchJump(offset, p.currentChunk().Len())
}

func (p *Parser) endCompiler() { p.emit(OpReturn) }

func (p *Parser) emitConst(val Value) { p.emitArg(OpConst, p.makeConst(val)) }

func (p *Parser) makeConst(val Value) int { return p.currentChunk().AddConst(val) }

func (p *Parser) identConst(name Token) int {
	ident := p.heap.Ident(name.Lexeme)
	if idx, ok := p.identConsts[ident]; ok {
		return idx
	}
	idx := p.makeConst(ident)
	p.identConsts[ident] = idx
	return idx
}

/* Expressions */

func (p *Parser) expr() { p.parsePrec(PrecAssign) }

func (p *Parser) num() {
	val, err := strconv.ParseFloat(p.prev.Lexeme, 64)
	if err != nil {
		p.Error("invalid number literal")
		return
	}
	p.emitConst(VNum(val))
}

func (p *Parser) grouping() {
	p.expr()
	p.consume(TRParen, "expect ')' after expression")
}

func (p *Parser) lit() {
	switch p.prev.Type {
	case TFalse:
		p.emit(OpFalse)
	case TNil:
		p.emit(OpNil)
	case TTrue:
		p.emit(OpTrue)
	default:
		panic(debug.Unreachable())
	}
}

func (p *Parser) str() {
	lexeme := p.prev.Lexeme
	// The lexeme inside the quotes, without escapes.
	p.emitConst(p.heap.NewStr(lexeme[1 : len(lexeme)-1]))
}

func (p *Parser) namedVar(name Token, canAssign bool) {
	get, set, arg := OpGetLocal, OpSetLocal, p.resolveLocal(name)
	if arg == GlobalSlot {
		get, set, arg = OpGetGlobal, OpSetGlobal, p.identConst(name)
	}

	switch {
	case canAssign && p.match(TEqual):
		p.expr()
		p.emitArg(set, arg)
	default:
		p.emitArg(get, arg)
	}
}

func (p *Parser) unary() {
	op := p.prev.Type

	// Compile the RHS.
	p.parsePrec(PrecUnary)

	// Emit the operator instruction.
	switch op {
	case TBang:
		p.emit(OpNot)
	case TMinus:
		p.emit(OpNeg)
	default:
		panic(debug.Unreachable())
	}
}

func (p *Parser) binary() {
	op := p.prev.Type
	rule := ruleFor(op)

	// Compile the RHS.
	p.parsePrec(rule.Prec + 1)

	// Emit the operator instruction.
	switch op {
	case TBangEqual:
		p.emit(OpEqual, OpNot)
	case TEqualEqual:
		p.emit(OpEqual)
	case TGreater:
		p.emit(OpGreater)
	case TGreaterEqual:
		p.emit(OpLess, OpNot)
	case TLess:
		p.emit(OpLess)
	case TLessEqual:
		p.emit(OpGreater, OpNot)
	case TPlus:
		p.emit(OpAdd)
	case TMinus:
		p.emit(OpSub)
	case TStar:
		p.emit(OpMul)
	case TSlash:
		p.emit(OpDiv)
	default:
		panic(debug.Unreachable())
	}
}

func (p *Parser) and() {
	// LHS is falsey: short-circuit with the LHS as the result.
	endJump := p.emitJump(OpJumpIfFalse)
	p.emit(OpPop)
	p.parsePrec(PrecAnd)
	p.patchJump(endJump)
}

func (p *Parser) or() {
	// LHS is truthy: short-circuit with the LHS as the result.
	elseJump := p.emitJump(OpJumpIfFalse)
	endJump := p.emitJump(OpJump)
	p.patchJump(elseJump)
	p.emit(OpPop)
	p.parsePrec(PrecOr)
	p.patchJump(endJump)
}

/* Statements */

func (p *Parser) exprStmt() {
	p.expr()
	p.consume(TSemi, "expect ';' after expression")
	p.emit(OpPop)
}

func (p *Parser) printStmt() {
	p.expr()
	p.consume(TSemi, "expect ';' after value")
	p.emit(OpPrint)
}

func (p *Parser) ifStmt() {
	p.consume(TLParen, "expect '(' after 'if'")
	p.expr()
	p.consume(TRParen, "expect ')' after condition")

	thenJump := p.emitJump(OpJumpIfFalse)
	p.emit(OpPop) // Pop off the condition in the then branch.
	p.stmt()
	elseJump := p.emitJump(OpJump)

	p.patchJump(thenJump)
	p.emit(OpPop) // Pop off the condition in the else branch.
	if p.match(TElse) {
		p.stmt()
	}
	p.patchJump(elseJump)
}

func (p *Parser) block() {
	for !p.check(TRBrace) && !p.check(TEOF) {
		p.decl()
	}
	p.consume(TRBrace, "expect '}' after block")
}

func (p *Parser) stmt() {
	switch {
	case p.match(TPrint):
		p.printStmt()
	case p.match(TIf):
		p.ifStmt()
	case p.match(TLBrace):
		p.beginScope()
		p.block()
		p.endScope()
	default:
		p.exprStmt()
	}
}

func (p *Parser) decl() {
	switch {
	case p.match(TVar):
		p.varDecl()
	default:
		p.stmt()
	}
	if p.panicking() {
		p.sync()
	}
}

/* Variables */

func (p *Parser) varDecl() {
	global, ok := p.parseVar("expect variable name")
	switch {
	case p.match(TEqual):
		p.expr()
	default:
		p.emit(OpNil)
	}
	p.consume(TSemi, "expect ';' after variable declaration")
	if ok {
		p.defVar(global)
	}
}

// parseVar consumes a variable name and declares it. The returned index is
// only meaningful for global variables.
func (p *Parser) parseVar(errorMsg string) (global int, ok bool) {
	if !p.consume(TIdent, errorMsg) {
		return 0, false
	}
	if p.depth > 0 {
		// Local vars are not resolved using `identConst`, but stay on the stack.
		return 0, p.declVar()
	}
	return p.identConst(p.prev), true
}

func (p *Parser) defVar(global int) {
	if p.depth > 0 {
		// Local vars. Mark it as initialized.
		p.markInit()
		return
	}
	p.emitArg(OpDefGlobal, global)
}

func (p *Parser) markInit() { utils.Last(p.locals).depth = p.depth }

func (p *Parser) declVar() (ok bool) {
	name := p.prev
	// Search for the latest variable declaration of the same name.
	for i := len(p.locals) - 1; i >= 0; i-- {
		local := p.locals[i]
		if local.depth != UninitDepth && local.depth < p.depth {
			break // Variable shadowing in a deeper scope is allowed.
		}
		if name.Eq(local.name) {
			p.Error("already a variable with this name in this scope")
			return false
		}
	}
	return p.addLocal(name)
}

func (p *Parser) addLocal(name Token) (ok bool) {
	if len(p.locals) >= MaxLocals {
		p.Error("too many local variables in scope")
		return false
	}
	p.locals = append(p.locals, Local{name, UninitDepth})
	return true
}

func (p *Parser) beginScope() { p.depth++ }

func (p *Parser) endScope() {
	p.depth--
	for len(p.locals) > 0 && utils.Last(p.locals).depth > p.depth {
		p.emit(OpPop) // Pop off the local on the stack.
		p.locals = p.locals[:len(p.locals)-1]
	}
}

func (p *Parser) resolveLocal(name Token) (slot int) {
	// Search for the latest variable declaration of the same name.
	for i := len(p.locals) - 1; i >= 0; i-- {
		local := p.locals[i]
		if name.Eq(local.name) {
			if local.depth == UninitDepth {
				p.Error("can't read local variable in its own initializer")
			}
			return i
		}
	}
	return GlobalSlot // Global variable.
}
