// Package lexer turns Core source text (programs and Read data files) into a
// token.Source with a single token of lookahead.
package lexer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/token"
)

// maxConstDigits bounds literal length before conversion; anything longer
// than four digits is out of range.
const maxConstDigits = 4

// Error reports a lexical error with its location.
type Error struct {
	File    string
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	loc := e.Pos.String()
	switch {
	case e.File != "" && loc != "":
		return fmt.Sprintf("lexer: %s:%s: %s", e.File, loc, e.Message)
	case loc != "":
		return fmt.Sprintf("lexer: %s: %s", loc, e.Message)
	default:
		return "lexer: " + e.Message
	}
}

// ErrPastEOS is returned when Next is called after the stream ended.
var ErrPastEOS = errors.New("lexer: no next token, already reached EOS")

// Scanner is a token.Source over a character stream.
type Scanner struct {
	name string
	in   *bufio.Reader
	cur  token.Token
	line int
	col  int
	// lastCol lets unread restore the column after a newline.
	lastCol int
}

var _ token.Source = (*Scanner)(nil)

// New builds a scanner and classifies the first token. name is used only for
// diagnostics.
func New(name string, r io.Reader) (*Scanner, error) {
	s := &Scanner{name: name, in: bufio.NewReader(r), line: 1, col: 0}
	tok, err := s.scan()
	if err != nil {
		return nil, err
	}
	s.cur = tok
	return s, nil
}

// NewString is a convenience wrapper around New for in-memory sources.
func NewString(name, src string) (*Scanner, error) {
	return New(name, strings.NewReader(src))
}

// Name returns the diagnostic name given at construction.
func (s *Scanner) Name() string { return s.name }

// Current returns the lookahead token.
func (s *Scanner) Current() token.Token { return s.cur }

// Next advances to the following token.
func (s *Scanner) Next() error {
	if s.cur.Kind == token.EOS {
		return ErrPastEOS
	}
	tok, err := s.scan()
	if err != nil {
		return err
	}
	s.cur = tok
	return nil
}

// All drains the scanner, returning every token including the final EOS.
func All(src token.Source) ([]token.Token, error) {
	var toks []token.Token
	for {
		tok := src.Current()
		toks = append(toks, tok)
		if tok.Kind == token.EOS {
			return toks, nil
		}
		if err := src.Next(); err != nil {
			return toks, err
		}
	}
}

func (s *Scanner) read() (rune, bool, error) {
	r, _, err := s.in.ReadRune()
	if err == io.EOF {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("lexer: read %s: %w", s.name, err)
	}
	s.lastCol = s.col
	if r == '\n' {
		s.line++
		s.col = 0
	} else {
		s.col++
	}
	return r, true, nil
}

func (s *Scanner) unread(r rune) {
	_ = s.in.UnreadRune()
	if r == '\n' {
		s.line--
	}
	s.col = s.lastCol
}

func (s *Scanner) errorf(pos token.Position, format string, args ...any) error {
	return &Error{File: s.name, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (s *Scanner) scan() (token.Token, error) {
	var (
		r   rune
		ok  bool
		err error
	)
	for {
		r, ok, err = s.read()
		if err != nil {
			return token.Token{}, err
		}
		if !ok {
			return token.Token{Kind: token.EOS, Pos: token.Position{Line: s.line, Column: s.col + 1}}, nil
		}
		if !unicode.IsSpace(r) {
			break
		}
	}
	pos := token.Position{Line: s.line, Column: s.col}

	switch {
	case unicode.IsDigit(r):
		return s.scanConst(r, pos)
	case unicode.IsLetter(r):
		return s.scanWord(r, pos)
	case r == '\'':
		return s.scanString(pos)
	case r == '=':
		next, ok, err := s.read()
		if err != nil {
			return token.Token{}, err
		}
		if ok && next == '=' {
			return token.Token{Kind: token.Equal, Pos: pos}, nil
		}
		if ok {
			s.unread(next)
		}
		return token.Token{Kind: token.Assign, Pos: pos}, nil
	}
	if kind, ok := token.Symbol(r); ok {
		return token.Token{Kind: kind, Pos: pos}, nil
	}
	return token.Token{}, s.errorf(pos, "'%c' is not a valid symbol token", r)
}

func (s *Scanner) scanConst(first rune, pos token.Position) (token.Token, error) {
	var b strings.Builder
	b.WriteRune(first)
	for {
		r, ok, err := s.read()
		if err != nil {
			return token.Token{}, err
		}
		if !ok {
			break
		}
		if !unicode.IsDigit(r) {
			s.unread(r)
			break
		}
		b.WriteRune(r)
	}
	text := b.String()
	if len(text) > 1 && text[0] == '0' {
		return token.Token{}, s.errorf(pos, "%s is an invalid CONST: CONST cannot have leading zeroes", text)
	}
	if len(text) > maxConstDigits {
		return token.Token{}, s.errorf(pos, "%s is an invalid CONST: CONST is too big", text)
	}
	value, err := strconv.Atoi(text)
	if err != nil || value < token.MinConst || value > token.MaxConst {
		return token.Token{}, s.errorf(pos, "%s is an invalid CONST: CONST is too big", text)
	}
	return token.Token{Kind: token.Const, Text: text, Pos: pos}, nil
}

func (s *Scanner) scanWord(first rune, pos token.Position) (token.Token, error) {
	var b strings.Builder
	b.WriteRune(first)
	for {
		r, ok, err := s.read()
		if err != nil {
			return token.Token{}, err
		}
		if !ok {
			break
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			s.unread(r)
			break
		}
		b.WriteRune(r)
	}
	word := b.String()
	if kind, ok := token.Keyword(word); ok {
		return token.Token{Kind: kind, Pos: pos}, nil
	}
	return token.Token{Kind: token.ID, Text: word, Pos: pos}, nil
}

func (s *Scanner) scanString(pos token.Position) (token.Token, error) {
	var b strings.Builder
	for {
		r, ok, err := s.read()
		if err != nil {
			return token.Token{}, err
		}
		if !ok {
			return token.Token{}, s.errorf(pos, "'%s is an invalid STRING (missing closing single quote)", b.String())
		}
		if r == '\'' {
			return token.Token{Kind: token.String, Text: b.String(), Pos: pos}, nil
		}
		b.WriteRune(r)
	}
}
