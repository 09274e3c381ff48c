package asm

// TokenKind identifies the category of a lexed token.
type TokenKind int

const (
	tEOF TokenKind = iota
	tNewline
	tIdentifier
	tInteger
	tString
	tColon      // :
	tPlus       // +
	tLBracket   // [
	tRBracket   // ]
	tDirective  // #set KEY=VALUE
	tIncludeDir // #include "path"
)

// Token is one lexeme recognised by the Lexer, carrying source position for
// diagnostics.
type Token struct {
	Kind TokenKind
	// Text holds the raw lexeme for identifiers and the key for directives.
	Text string
	// IValue holds the parsed value of an Integer token.
	IValue int64
	// SValue holds the unescaped bytes of a String token, or the value half
	// of a #set directive, or the path of a #include directive.
	SValue string
	Line   int
	Col    int
}
