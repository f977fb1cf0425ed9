package vm

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/rami3l/blox/debug"
	e "github.com/rami3l/blox/errors"
	"github.com/sirupsen/logrus"
)

type Parser struct {
	*Scanner
	*Compiler
	prev, curr     Token
	compilingChunk *Chunk
	heap           *Heap

	errors *multierror.Error
	state  parseState
	log    logrus.FieldLogger
}

// NewParser returns a Parser allocating its objects in heap.
// A nil heap is replaced with a fresh one.
func NewParser(heap *Heap, log logrus.FieldLogger) *Parser {
	if heap == nil {
		heap = NewHeap()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Parser{heap: heap, log: log}
}

/* Error recovery */

// parseState tracks whether the parser is trying to sync, i.e. in the error
// recovery process. Errors are only collected in stateNormal.
type parseState int

const (
	stateNormal parseState = iota
	statePanicking
)

type parseEvent int

const (
	evError parseEvent = iota
	evSync
)

func (s parseState) next(ev parseEvent) parseState {
	switch ev {
	case evError:
		return statePanicking
	case evSync:
		return stateNormal
	}
	panic(debug.Unreachable())
}

func (p *Parser) panicking() bool { return p.state == statePanicking }

// sync discards tokens until a probable statement boundary.
func (p *Parser) sync() {
	p.state = p.state.next(evSync)
	for !p.check(TEOF) {
		if p.checkPrev(TSemi) {
			return
		}
		switch p.curr.Type {
		case TClass, TFun, TVar, TVal, TFor, TIf, TWhile, TPrint, TReturn, TSwitch:
			return
		}
		p.advance()
	}
}

func (p *Parser) ErrorAt(tk Token, reason string) {
	// Don't collect error when we're syncing.
	if p.panicking() {
		return
	}
	p.state = p.state.next(evError)

	var reason1 string
	switch tk.Type {
	case TEOF:
		reason1 = fmt.Sprintf("at EOF, %s", reason)
	case TErr:
		reason1 = fmt.Sprintf("%s: `%s`", reason, tk)
	case TIdent:
		reason1 = fmt.Sprintf("at identifier `%s`, %s", tk, reason)
	default:
		reason1 = fmt.Sprintf("at `%s`, %s", tk, reason)
	}
	err := &e.CompilationError{
		Line: tk.Line, Col: tk.Col, Len: tk.Len,
		Lexeme: tk.Lexeme, Reason: reason1,
	}
	p.log.WithFields(logrus.Fields{
		"line": tk.Line, "col": tk.Col, "lexeme": tk.Lexeme,
	}).Debugln(reason)

	p.errors = multierror.Append(p.errors, err)
}

func (p *Parser) Error(reason string)       { p.ErrorAt(p.prev, reason) }
func (p *Parser) ErrorAtCurr(reason string) { p.ErrorAt(p.curr, reason) }
func (p *Parser) HadError() bool            { return p.errors.ErrorOrNil() != nil }

/* Parsing helpers */

func (p *Parser) check(ty TokenType) bool     { return p.curr.Type == ty }
func (p *Parser) checkPrev(ty TokenType) bool { return p.prev.Type == ty }

func (p *Parser) advance() {
	p.prev = p.curr
	for {
		// Skip until the first non-TErr token.
		if p.curr = p.ScanToken(); !p.check(TErr) {
			break
		}
		p.ErrorAtCurr(p.curr.Error)
	}
}

func (p *Parser) match(ty TokenType) (matched bool) {
	if !p.check(ty) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(ty TokenType, errorMsg string) (ok bool) {
	if !p.check(ty) {
		p.ErrorAtCurr(errorMsg)
		return false
	}
	p.advance()
	return true
}

/* Pratt parsing */

//go:generate stringer -type=Prec
type Prec int

const (
	PrecNone   Prec = iota
	PrecAssign      // =
	PrecOr          // or
	PrecAnd         // and
	PrecEqual       // == !=
	PrecComp        // < > <= >=
	PrecTerm        // + -
	PrecFactor      // * /
	PrecUnary       // ! -
	PrecCall        // . ()
	PrecPrimary
)

type PrefixKind int

const (
	PrefixNone PrefixKind = iota
	PrefixGrouping
	PrefixUnary
	PrefixNum
	PrefixStr
	PrefixLit
	// PrefixVar is the only prefix rule that may be the target of an assignment.
	PrefixVar
)

type InfixKind int

const (
	InfixNone InfixKind = iota
	InfixBinary
	InfixAnd
	InfixOr
)

type ParseRule struct {
	Prefix PrefixKind
	Infix  InfixKind
	Prec
}

func ruleFor(ty TokenType) ParseRule {
	switch ty {
	case TLParen:
		return ParseRule{PrefixGrouping, InfixNone, PrecNone}
	case TMinus:
		return ParseRule{PrefixUnary, InfixBinary, PrecTerm}
	case TPlus:
		return ParseRule{PrefixNone, InfixBinary, PrecTerm}
	case TSlash, TStar:
		return ParseRule{PrefixNone, InfixBinary, PrecFactor}
	case TBang:
		return ParseRule{PrefixUnary, InfixNone, PrecNone}
	case TBangEqual, TEqualEqual:
		return ParseRule{PrefixNone, InfixBinary, PrecEqual}
	case TGreater, TGreaterEqual, TLess, TLessEqual:
		return ParseRule{PrefixNone, InfixBinary, PrecComp}
	case TIdent:
		return ParseRule{PrefixVar, InfixNone, PrecNone}
	case TStr:
		return ParseRule{PrefixStr, InfixNone, PrecNone}
	case TNum:
		return ParseRule{PrefixNum, InfixNone, PrecNone}
	case TAnd:
		return ParseRule{PrefixNone, InfixAnd, PrecAnd}
	case TOr:
		return ParseRule{PrefixNone, InfixOr, PrecOr}
	case TFalse, TNil, TTrue:
		return ParseRule{PrefixLit, InfixNone, PrecNone}
	case TRParen, TLBrace, TRBrace, TComma, TDot, TSemi, TColon, TEqual,
		TCase, TClass, TDefault, TElse, TFor, TFun, TIf, TPrint, TReturn,
		TSuper, TSwitch, TThis, TVal, TVar, TWhile, TErr, TEOF:
		return ParseRule{}
	}
	panic(debug.Unreachable())
}

func (p *Parser) parsePrec(prec Prec) {
	p.advance()

	// Parse LHS.
	canAssign := prec <= PrecAssign
	if !p.prefix(ruleFor(p.prev.Type).Prefix, canAssign) {
		p.Error("expected prefix expression")
		return
	}

	// Parse RHS if there's one maintaining rule.Prec >= prec.
	for {
		rule := ruleFor(p.curr.Type)
		if rule.Prec < prec {
			break
		}
		p.advance()
		p.infix(rule.Infix)
	}

	if canAssign && p.match(TEqual) {
		p.Error("invalid assignment target")
	}
}

func (p *Parser) prefix(kind PrefixKind, canAssign bool) (ok bool) {
	switch kind {
	case PrefixNone:
		return false
	case PrefixGrouping:
		p.grouping()
	case PrefixUnary:
		p.unary()
	case PrefixNum:
		p.num()
	case PrefixStr:
		p.str()
	case PrefixLit:
		p.lit()
	case PrefixVar:
		p.namedVar(p.prev, canAssign)
	default:
		panic(debug.Unreachable())
	}
	return true
}

func (p *Parser) infix(kind InfixKind) {
	switch kind {
	case InfixBinary:
		p.binary()
	case InfixAnd:
		p.and()
	case InfixOr:
		p.or()
	default:
		panic(debug.Unreachable())
	}
}
