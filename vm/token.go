package vm

type Token struct {
	Type TokenType
	// Lexeme is the source text of the token. For TStr it includes the quotes.
	Lexeme string
	// Start and Len are measured in runes; Col is 1-based.
	Start, Len, Line, Col int

	// Error message for TErr.
	Error string
}

func (t Token) String() string { return t.Lexeme }

// Eq reports whether two tokens spell the same lexeme.
func (t Token) Eq(other Token) bool { return t.Lexeme == other.Lexeme }

//go:generate stringer -type=TokenType
type TokenType int

const (
	TLParen TokenType = iota
	TRParen
	TLBrace
	TRBrace
	TComma
	TDot
	TMinus
	TPlus
	TSemi
	TColon
	TSlash
	TStar
	TBang
	TBangEqual
	TEqual
	TEqualEqual
	TGreater
	TGreaterEqual
	TLess
	TLessEqual
	TIdent
	TStr
	TNum
	TAnd
	TCase
	TClass
	TDefault
	TElse
	TFalse
	TFor
	TFun
	TIf
	TNil
	TOr
	TPrint
	TReturn
	TSuper
	TSwitch
	TThis
	TTrue
	TVal
	TVar
	TWhile
	TErr
	TEOF
)
