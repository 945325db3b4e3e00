package syntax

import "github.com/alecthomas/participle/v2/lexer"

// The tree below is the participle concrete syntax tree; convert.go turns it
// into internal/ast nodes. Shape follows original_source/src/parser's
// recursive-descent grammar (program -> procedure* ; procedure -> proc name
// (params) { var-decls stmt* }), expressed the teacher's declarative,
// struct-tag-driven way (grammar/grammar.go) instead of hand-rolled
// combinators.

type program struct {
	Pos        lexer.Position
	Procedures []*procedure `@@*`
}

type procedure struct {
	Pos    lexer.Position
	Name   string       `"proc" @Ident "("`
	Params []*param     `[ @@ { "," @@ } ] ")" "{"`
	Locals []*varDecl   `@@*`
	Body   []*statement `@@* "}"`
}

type param struct {
	Pos  lexer.Position
	Ref  bool      `[ @"ref" ]`
	Name string    `@Ident ":"`
	Type *typeExpr `@@`
}

type varDecl struct {
	Pos  lexer.Position
	Name string    `"var" @Ident ":"`
	Type *typeExpr `@@ ";"`
}

type typeExpr struct {
	Pos   lexer.Position
	Array *arrayType `  @@`
	Name  string     `| @Ident`
}

type arrayType struct {
	Pos     lexer.Position
	Size    int       `"array" "[" @Int "]" "of"`
	Element *typeExpr `@@`
}

type statement struct {
	Pos      lexer.Position
	If       *ifStmt    `  @@`
	While    *whileStmt `| @@`
	Compound *compound  `| @@`
	Assign   *assignOrCallStmt `| @@`
}

// assignOrCallStmt disambiguates `ident := expr;` from `ident(args);` on one
// leading identifier, the way assign_statement/call_statement share a
// `variable`/ident prefix in original_source's parser.
type assignOrCallStmt struct {
	Pos    lexer.Position
	Target *lvalue `@@`
	Call   *callTail   `(   @@`
	Value  *expr       `  | ":=" @@ )  ";"`
}

// callTail captures `(args)` immediately following a bare identifier,
// distinguishing a call statement from an assignment at the same position.
type callTail struct {
	Pos  lexer.Position
	Args []*expr `"(" [ @@ { "," @@ } ] ")"`
}

type lvalue struct {
	Pos     lexer.Position
	Name    string       `@Ident`
	Indices []*expr `{ "[" @@ "]" }`
}

type ifStmt struct {
	Pos  lexer.Position
	Cond *expr       `"if" "(" @@ ")"`
	Then *statement  `"then" @@`
	Else *statement  `[ "else" @@ ]`
}

type whileStmt struct {
	Pos  lexer.Position
	Cond *expr      `"while" "(" @@ ")"`
	Body *statement `"do" @@`
}

type compound struct {
	Pos   lexer.Position
	Stmts []*statement `"{" @@* "}"`
}

// expr encodes precedence as grammar nesting, the teacher's
// BinaryExpr{Left, []BinOp} shape (grammar/shared.go), specialized to one
// relational-or-arithmetic level since this language has no operator
// precedence beyond unary negation and parentheses (original_source's
// expression grammar is likewise flat).
type expr struct {
	Pos   lexer.Position
	Left  *term    `@@`
	Ops   []*binOp `{ @@ }`
}

type binOp struct {
	Pos      lexer.Position
	Operator string `@("=" | "#" | "<=" | ">=" | "<" | ">" | "+" | "-" | "*" | "/")`
	Right    *term  `@@`
}

type term struct {
	Pos     lexer.Position
	Neg     bool     `[ @"-" ]`
	Primary *primary `@@`
}

// primary has no call alternative: procedures in this language return no
// value, so a call can only ever appear as a statement (assignOrCallStmt),
// never nested inside an expression (original_source's expression grammar
// has no call production either).
type primary struct {
	Pos    lexer.Position
	Index  *indexExpr `  @@`
	Number *int       `| @Int`
	Ident  *string    `| @Ident`
	Paren  *expr      `| "(" @@ ")"`
}

type indexExpr struct {
	Pos     lexer.Position
	Name    string    `@Ident`
	Indices []*expr   `( "[" @@ "]" )+`
}
