package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/peterh/liner"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/lexer"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/token"
)

const dataPrompt = "data> "

// promptSource is a token.Source that reads a line from prompt whenever its
// buffered tokens run out. Lines are only requested when a token is needed,
// so a program that never reads never prompts. A failed prompt or a bad data
// line ends the stream; Err reports why.
type promptSource struct {
	label   string
	prompt  func(string) (string, error)
	pending []token.Token
	line    int
	eof     bool
	err     error
}

func newPromptSource(label string, prompt func(string) (string, error)) *promptSource {
	return &promptSource{label: label, prompt: prompt}
}

func (s *promptSource) Current() token.Token {
	s.fill()
	if s.err != nil || len(s.pending) == 0 {
		return token.Token{Kind: token.EOS}
	}
	return s.pending[0]
}

// Err is the failure that ended the stream, if any.
func (s *promptSource) Err() error {
	s.fill()
	return s.err
}

func (s *promptSource) Next() error {
	s.fill()
	if s.err != nil {
		return s.err
	}
	if len(s.pending) == 0 {
		return lexer.ErrPastEOS
	}
	s.pending = s.pending[1:]
	return nil
}

func (s *promptSource) fill() {
	for len(s.pending) == 0 && !s.eof && s.err == nil {
		text, err := s.prompt(dataPrompt)
		if err != nil {
			s.eof = true
			if !errors.Is(err, io.EOF) && !errors.Is(err, liner.ErrPromptAborted) {
				s.err = fmt.Errorf("%s: %w", s.label, err)
			}
			return
		}
		s.line++
		scanner, err := lexer.NewString(fmt.Sprintf("%s:%d", s.label, s.line), text)
		if err != nil {
			s.err = err
			return
		}
		toks, err := lexer.All(scanner)
		if err != nil {
			s.err = err
			return
		}
		s.pending = toks[:len(toks)-1]
	}
}
