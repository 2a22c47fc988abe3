// Package reader parses the pattern-match surface syntax into form.Form
// trees: a small recursive-descent reader over internal/lexer's tokens,
// grounded in the same line/column-tracked token stream the rest of the
// module's diagnostics cite.
package reader

import (
	"fmt"

	"github.com/nivertech/match/internal/form"
	"github.com/nivertech/match/internal/lexer"
	"github.com/nivertech/match/internal/token"
)

// Reader turns a token stream into form.Form values, one top-level Form
// per call to Read.
type Reader struct {
	l         *lexer.Lexer
	cur, peek token.Token
}

func New(input string) *Reader {
	r := &Reader{l: lexer.New(input)}
	r.next()
	r.next()
	return r
}

func (r *Reader) next() {
	r.cur = r.peek
	r.peek = r.l.NextToken()
}

// AtEOF reports whether the reader has consumed the whole input.
func (r *Reader) AtEOF() bool { return r.cur.Type == token.EOF }

// ReadAll reads every top-level form until EOF.
func (r *Reader) ReadAll() ([]form.Form, error) {
	var out []form.Form
	for !r.AtEOF() {
		f, err := r.Read()
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// Read parses a single top-level form.
func (r *Reader) Read() (form.Form, error) {
	tok := r.cur
	switch tok.Type {
	case token.LPAREN:
		return r.readList()
	case token.LBRACKET:
		return r.readVector()
	case token.LBRACE:
		return r.readMap()
	case token.QUOTE:
		r.next()
		inner, err := r.Read()
		if err != nil {
			return nil, err
		}
		return form.Quote{Inner: inner}, nil
	case token.IDENT:
		r.next()
		return form.Sym{Name: tok.Lexeme}, nil
	case token.KEYWORD:
		r.next()
		return form.Keyword{Name: tok.Literal.(string)}, nil
	case token.INT:
		r.next()
		return form.Int{Value: tok.Literal.(int64)}, nil
	case token.FLOAT:
		r.next()
		return form.Float{Value: tok.Literal.(float64)}, nil
	case token.STRING:
		r.next()
		return form.Str{Value: tok.Literal.(string)}, nil
	case token.TRUE:
		r.next()
		return form.Bool{Value: true}, nil
	case token.FALSE:
		r.next()
		return form.Bool{Value: false}, nil
	case token.NIL:
		r.next()
		return form.Nil{}, nil
	case token.AMP:
		r.next()
		return form.Sym{Name: "&"}, nil
	default:
		return nil, fmt.Errorf("reader: unexpected token %s at line %d, column %d", tok.Type, tok.Line, tok.Column)
	}
}

func (r *Reader) readList() (form.Form, error) {
	startLine := r.cur.Line
	r.next() // consume '('
	var elems []form.Form
	for r.cur.Type != token.RPAREN {
		if r.cur.Type == token.EOF {
			return nil, fmt.Errorf("reader: unterminated list starting at line %d", startLine)
		}
		if r.cur.Type == token.PIPE {
			elems = append(elems, form.Sym{Name: "|"})
			r.next()
			continue
		}
		f, err := r.Read()
		if err != nil {
			return nil, err
		}
		elems = append(elems, f)
	}
	r.next() // consume ')'
	return form.ListForm{Elems: elems}, nil
}

func (r *Reader) readVector() (form.Form, error) {
	startLine := r.cur.Line
	r.next() // consume '['
	var elems []form.Form
	for r.cur.Type != token.RBRACKET {
		if r.cur.Type == token.EOF {
			return nil, fmt.Errorf("reader: unterminated vector starting at line %d", startLine)
		}
		f, err := r.Read()
		if err != nil {
			return nil, err
		}
		elems = append(elems, f)
	}
	r.next() // consume ']'
	return form.Vector{Elems: elems}, nil
}

func (r *Reader) readMap() (form.Form, error) {
	startLine := r.cur.Line
	r.next() // consume '{'
	var entries []form.MapEntry
	for r.cur.Type != token.RBRACE {
		if r.cur.Type == token.EOF {
			return nil, fmt.Errorf("reader: unterminated map starting at line %d", startLine)
		}
		k, err := r.Read()
		if err != nil {
			return nil, err
		}
		if r.cur.Type == token.RBRACE {
			return nil, fmt.Errorf("reader: map literal at line %d has an odd number of forms", startLine)
		}
		v, err := r.Read()
		if err != nil {
			return nil, err
		}
		entries = append(entries, form.MapEntry{Key: k, Val: v})
	}
	r.next() // consume '}'
	return form.MapForm{Entries: entries}, nil
}
