// Package syntax parses concrete program text into internal/ast nodes. It
// is the external "parser" collaborator spec.md §6 assumes already exists;
// the middle-end proper (internal/lower onward) never re-parses and trusts
// the positions this package attaches. Grounded on the teacher's grammar
// package (participle/v2, stateful lexer, struct-tag grammar, lookahead
// parser), adapted from Kanso's contract syntax to the small imperative
// language of original_source/src/parser.
package syntax

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer tokenizes source the way grammar.KansoLexer does in the teacher,
// with rules reduced to this language's token set (token/token.go).
var Lexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Int", `[0-9]+`, nil},
		{"Assign", `:=`, nil},
		{"Operator", `(<=|>=|[-+*/=#<>])`, nil},
		{"Punctuation", `[{}\[\](),:;]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
