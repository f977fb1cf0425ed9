package vm

import "unicode"

type Scanner struct {
	start, curr, line int
	// lineStart is the offset of the first rune of the current line.
	lineStart int
	src       []rune
}

func NewScanner(src string) *Scanner {
	return &Scanner{src: []rune(src), line: 1}
}

// ScanToken returns the next token in the source.
// Once the source is exhausted it keeps returning TEOF.
func (s *Scanner) ScanToken() Token {
	s.skipWhitespace()
	s.start = s.curr
	if s.isAtEnd() {
		return s.makeToken(TEOF)
	}

	c := s.advance()
	switch {
	case isDigit(c): // Number literal.
		// Consume the integral part.
		for isDigit(s.peek()) {
			s.advance()
		}

		// Consume the fractional part if it exists.
		if s.peek() == '.' && isDigit(s.peekNext()) {
			s.advance()
			for isDigit(s.peek()) {
				s.advance()
			}
		}

		return s.makeToken(TNum)

	case isAlpha(c): // Identifier.
		for c1 := s.peek(); isAlpha(c1) || unicode.IsDigit(c1); c1 = s.peek() {
			s.advance()
		}
		return s.makeToken(s.identType())
	}

	switch c {
	case '(':
		return s.makeToken(TLParen)
	case ')':
		return s.makeToken(TRParen)
	case '{':
		return s.makeToken(TLBrace)
	case '}':
		return s.makeToken(TRBrace)
	case ';':
		return s.makeToken(TSemi)
	case ':':
		return s.makeToken(TColon)
	case ',':
		return s.makeToken(TComma)
	case '.':
		return s.makeToken(TDot)
	case '-':
		return s.makeToken(TMinus)
	case '+':
		return s.makeToken(TPlus)
	case '/':
		return s.makeToken(TSlash)
	case '*':
		return s.makeToken(TStar)

	case '!':
		if s.match('=') {
			return s.makeToken(TBangEqual)
		}
		return s.makeToken(TBang)

	case '=':
		if s.match('=') {
			return s.makeToken(TEqualEqual)
		}
		return s.makeToken(TEqual)

	case '<':
		if s.match('=') {
			return s.makeToken(TLessEqual)
		}
		return s.makeToken(TLess)

	case '>':
		if s.match('=') {
			return s.makeToken(TGreaterEqual)
		}
		return s.makeToken(TGreater)

	case '"': // String literal.
		// The token keeps the line and column of its opening quote.
		line, col := s.line, s.start-s.lineStart+1
		for s.peek() != '"' {
			if s.isAtEnd() {
				tk := s.errorToken("unterminated string")
				tk.Line, tk.Col = line, col
				return tk
			}
			s.newlineAware(s.advance())
		}
		// Consume the closing quote.
		s.advance()
		tk := s.makeToken(TStr)
		tk.Line, tk.Col = line, col
		return tk
	}

	return s.errorToken("unexpected character")
}

// skipWhitespace makes the Scanner skip consecutive whitespaces and comments.
func (s *Scanner) skipWhitespace() {
	for {
		switch s.peek() {
		case ' ', '\r', '\t', '\n':
			s.newlineAware(s.advance())

		case '/': // Skip comments.
			if s.peekNext() != '/' {
				return
			}
			// Skip until the end of the line.
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}

		default:
			return
		}
	}
}

func (s *Scanner) newlineAware(c rune) {
	if c == '\n' {
		s.line++
		s.lineStart = s.curr
	}
}

func (s *Scanner) advance() (res rune) {
	res = s.src[s.curr]
	s.curr++
	return
}

func (s *Scanner) peek() (res rune) {
	if s.isAtEnd() {
		return
	}
	return s.src[s.curr]
}

func (s *Scanner) peekNext() (res rune) {
	if s.curr+1 >= len(s.src) {
		return
	}
	return s.src[s.curr+1]
}

func (s *Scanner) match(expected rune) bool {
	if s.isAtEnd() || s.src[s.curr] != expected {
		return false
	}
	s.curr++
	return true
}

func (s *Scanner) isAtEnd() bool { return s.curr >= len(s.src) }

func (s *Scanner) makeToken(ty TokenType) Token {
	return Token{
		Type:   ty,
		Lexeme: string(s.src[s.start:s.curr]),
		Start:  s.start,
		Len:    s.curr - s.start,
		Line:   s.line,
		Col:    s.start - s.lineStart + 1,
	}
}

func (s *Scanner) errorToken(reason string) (tk Token) {
	tk = s.makeToken(TErr)
	tk.Error = reason
	return
}

// identType classifies the identifier spanning [start, curr) by dispatching
// on its first and second letters.
func (s *Scanner) identType() TokenType {
	lexeme := s.src[s.start:s.curr]
	if len(lexeme) > 1 {
		switch lexeme[0] {
		case 'c':
			switch lexeme[1] {
			case 'a':
				return s.checkKeyword(2, "se", TCase)
			case 'l':
				return s.checkKeyword(2, "ass", TClass)
			}
		case 'f':
			switch lexeme[1] {
			case 'a':
				return s.checkKeyword(2, "lse", TFalse)
			case 'o':
				return s.checkKeyword(2, "r", TFor)
			case 'u':
				return s.checkKeyword(2, "n", TFun)
			}
		case 's':
			switch lexeme[1] {
			case 'u':
				return s.checkKeyword(2, "per", TSuper)
			case 'w':
				return s.checkKeyword(2, "itch", TSwitch)
			}
		case 't':
			switch lexeme[1] {
			case 'h':
				return s.checkKeyword(2, "is", TThis)
			case 'r':
				return s.checkKeyword(2, "ue", TTrue)
			}
		case 'v':
			if lexeme[1] == 'a' {
				if tk := s.checkKeyword(2, "r", TVar); tk != TIdent {
					return tk
				}
				return s.checkKeyword(2, "l", TVal)
			}
		}
	}

	switch lexeme[0] {
	case 'a':
		return s.checkKeyword(1, "nd", TAnd)
	case 'd':
		return s.checkKeyword(1, "efault", TDefault)
	case 'e':
		return s.checkKeyword(1, "lse", TElse)
	case 'i':
		return s.checkKeyword(1, "f", TIf)
	case 'n':
		return s.checkKeyword(1, "il", TNil)
	case 'o':
		return s.checkKeyword(1, "r", TOr)
	case 'p':
		return s.checkKeyword(1, "rint", TPrint)
	case 'r':
		return s.checkKeyword(1, "eturn", TReturn)
	case 'w':
		return s.checkKeyword(1, "hile", TWhile)
	}
	return TIdent
}

// checkKeyword returns ty if the current lexeme, from offset on, is exactly rest.
func (s *Scanner) checkKeyword(offset int, rest string, ty TokenType) TokenType {
	if s.curr-s.start == offset+len(rest) && string(s.src[s.start+offset:s.curr]) == rest {
		return ty
	}
	return TIdent
}

func isDigit(c rune) bool { return '0' <= c && c <= '9' }

// isAlpha reports whether c may start an identifier. Underscores are not allowed.
func isAlpha(c rune) bool { return unicode.IsLetter(c) }
