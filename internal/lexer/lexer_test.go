package lexer

import (
	"testing"

	"github.com/nivertech/match/internal/token"
)

func TestNextTokenPunctuation(t *testing.T) {
	input := "([{}]) & ' |"
	want := []token.TokenType{
		token.LPAREN, token.LBRACKET, token.LBRACE, token.RBRACE, token.RBRACKET, token.RPAREN,
		token.AMP, token.QUOTE, token.PIPE, token.EOF,
	}

	l := New(input)
	for i, wantType := range want {
		tok := l.NextToken()
		if tok.Type != wantType {
			t.Fatalf("token %d: got %s, want %s", i, tok.Type, wantType)
		}
	}
}

func TestNextTokenLiterals(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantTyp token.TokenType
		wantLit any
	}{
		{"int", "42", token.INT, int64(42)},
		{"negative int", "-7", token.INT, int64(-7)},
		{"float", "3.14", token.FLOAT, 3.14},
		{"string", `"hello world"`, token.STRING, "hello world"},
		{"string escape", `"a\nb"`, token.STRING, "a\nb"},
		{"true", "true", token.TRUE, nil},
		{"false", "false", token.FALSE, nil},
		{"nil", "nil", token.NIL, nil},
		{"keyword", ":as", token.KEYWORD, "as"},
		{"ident", "even?", token.IDENT, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input)
			tok := l.NextToken()
			if tok.Type != tt.wantTyp {
				t.Fatalf("got type %s, want %s", tok.Type, tt.wantTyp)
			}
			if tt.wantLit != nil && tok.Literal != tt.wantLit {
				t.Fatalf("got literal %#v, want %#v", tok.Literal, tt.wantLit)
			}
		})
	}
}

func TestNextTokenSkipsComments(t *testing.T) {
	input := "; a comment\n42 ; trailing\n"
	l := New(input)
	tok := l.NextToken()
	if tok.Type != token.INT || tok.Literal != int64(42) {
		t.Fatalf("got %v, want INT(42)", tok)
	}
	if eof := l.NextToken(); eof.Type != token.EOF {
		t.Fatalf("got %v, want EOF", eof)
	}
}

func TestNextTokenLineColumn(t *testing.T) {
	input := "(a\n b)"
	l := New(input)
	l.NextToken() // (
	l.NextToken() // a
	tok := l.NextToken() // b, on line 2
	if tok.Line != 2 {
		t.Fatalf("got line %d, want 2", tok.Line)
	}
}
