// Package token defines the lexical tokens of the daro language and the
// source positions attached to them.
package token

import (
	"fmt"
	"sort"
)

// Position is a half-open [Start, End) byte range in a source buffer,
// optionally tagged with the file it came from.
type Position struct {
	File  string
	Start int
	End   int
}

// NoPos is the zero position, used for values created by the host.
var NoPos = Position{}

// IsValid reports whether the position describes a non-empty range or was
// attached to a named file.
func (p Position) IsValid() bool {
	return p.End > p.Start || p.File != ""
}

// Span returns the smallest position covering both a and b.
// The file of a wins.
func Span(a, b Position) Position {
	p := a
	if b.Start < p.Start {
		p.Start = b.Start
	}
	if b.End > p.End {
		p.End = b.End
	}
	return p
}

func (p Position) String() string {
	if p.File == "" {
		return fmt.Sprintf("%d:%d", p.Start, p.End)
	}
	return fmt.Sprintf("%s:%d:%d", p.File, p.Start, p.End)
}

// LineCol converts the start offset of p into a 1-based line and column
// within src.
func (p Position) LineCol(src string) (line, col int) {
	line, col = 1, 1
	for i, r := range src {
		if i >= p.Start {
			break
		}
		if r == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// Kind is the category of a token.
type Kind int

const (
	INVALID Kind = iota
	EOF

	// variable spelling
	IDENTIFIER
	INTEGER
	REAL
	STRING
	CHAR

	keywordBeg
	VAR
	FN
	CLASS
	IF
	ELSE
	FOR
	IN
	MATCH
	DEFAULT
	RETURN
	BREAK
	CONTINUE
	NEW
	USE
	FROM
	IMPORT
	AS
	TRUE
	FALSE
	NULL
	keywordEnd

	operatorBeg
	ADD     // +
	SUB     // -
	MUL     // *
	QUO     // /
	REM     // %
	POW     // **
	AND     // &
	OR      // |
	XOR     // ^
	TILDE   // ~
	SHL     // <<
	SHR     // >>
	LAND    // &&
	LOR     // ||
	NOT     // !
	EQL     // ==
	NEQ     // !=
	LSS     // <
	LEQ     // <=
	GTR     // >
	GEQ     // >=
	ASSIGN  // =
	ADD_ASSIGN
	SUB_ASSIGN
	MUL_ASSIGN
	QUO_ASSIGN
	REM_ASSIGN
	POW_ASSIGN
	AND_ASSIGN
	OR_ASSIGN
	XOR_ASSIGN
	SHL_ASSIGN
	SHR_ASSIGN
	PERIOD    // .
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	LPAREN    // (
	RPAREN    // )
	LBRACK    // [
	RBRACK    // ]
	LBRACE    // {
	RBRACE    // }
	ARROW     // =>
	ELLIPSIS  // ...
	operatorEnd
)

var spellings = map[Kind]string{
	INVALID:    "INVALID",
	EOF:        "EOF",
	IDENTIFIER: "IDENTIFIER",
	INTEGER:    "INTEGER",
	REAL:       "REAL",
	STRING:     "STRING",
	CHAR:       "CHAR",

	VAR:      "var",
	FN:       "fn",
	CLASS:    "class",
	IF:       "if",
	ELSE:     "else",
	FOR:      "for",
	IN:       "in",
	MATCH:    "match",
	DEFAULT:  "default",
	RETURN:   "return",
	BREAK:    "break",
	CONTINUE: "continue",
	NEW:      "new",
	USE:      "use",
	FROM:     "from",
	IMPORT:   "import",
	AS:       "as",
	TRUE:     "true",
	FALSE:    "false",
	NULL:     "null",

	ADD:        "+",
	SUB:        "-",
	MUL:        "*",
	QUO:        "/",
	REM:        "%",
	POW:        "**",
	AND:        "&",
	OR:         "|",
	XOR:        "^",
	TILDE:      "~",
	SHL:        "<<",
	SHR:        ">>",
	LAND:       "&&",
	LOR:        "||",
	NOT:        "!",
	EQL:        "==",
	NEQ:        "!=",
	LSS:        "<",
	LEQ:        "<=",
	GTR:        ">",
	GEQ:        ">=",
	ASSIGN:     "=",
	ADD_ASSIGN: "+=",
	SUB_ASSIGN: "-=",
	MUL_ASSIGN: "*=",
	QUO_ASSIGN: "/=",
	REM_ASSIGN: "%=",
	POW_ASSIGN: "**=",
	AND_ASSIGN: "&=",
	OR_ASSIGN:  "|=",
	XOR_ASSIGN: "^=",
	SHL_ASSIGN: "<<=",
	SHR_ASSIGN: ">>=",
	PERIOD:     ".",
	COMMA:      ",",
	SEMICOLON:  ";",
	COLON:      ":",
	LPAREN:     "(",
	RPAREN:     ")",
	LBRACK:     "[",
	RBRACK:     "]",
	LBRACE:     "{",
	RBRACE:     "}",
	ARROW:      "=>",
	ELLIPSIS:   "...",
}

func (k Kind) String() string {
	if s, ok := spellings[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return keywordBeg < k && k < keywordEnd }

// IsOperator reports whether k is an operator or punctuation.
func (k Kind) IsOperator() bool { return operatorBeg < k && k < operatorEnd }

// IsLiteral reports whether k has a variable spelling.
func (k Kind) IsLiteral() bool { return k >= IDENTIFIER && k <= CHAR }

var (
	keywords  map[string]Kind
	operators []string // longest first
	opKinds   map[string]Kind
)

func init() {
	keywords = make(map[string]Kind)
	for k := keywordBeg + 1; k < keywordEnd; k++ {
		keywords[spellings[k]] = k
	}
	opKinds = make(map[string]Kind)
	for k := operatorBeg + 1; k < operatorEnd; k++ {
		opKinds[spellings[k]] = k
		operators = append(operators, spellings[k])
	}
	sort.SliceStable(operators, func(i, j int) bool { return len(operators[i]) > len(operators[j]) })
}

// Lookup maps an identifier spelling to its keyword kind, or IDENTIFIER.
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return IDENTIFIER
}

// MatchOperator returns the longest operator that prefixes s.
func MatchOperator(s string) (Kind, int, bool) {
	for _, op := range operators {
		if len(op) <= len(s) && s[:len(op)] == op {
			return opKinds[op], len(op), true
		}
	}
	return INVALID, 0, false
}

// AssignOp returns the binary operator of a compound assignment kind.
func (k Kind) AssignOp() (Kind, bool) {
	switch k {
	case ADD_ASSIGN:
		return ADD, true
	case SUB_ASSIGN:
		return SUB, true
	case MUL_ASSIGN:
		return MUL, true
	case QUO_ASSIGN:
		return QUO, true
	case REM_ASSIGN:
		return REM, true
	case POW_ASSIGN:
		return POW, true
	case AND_ASSIGN:
		return AND, true
	case OR_ASSIGN:
		return OR, true
	case XOR_ASSIGN:
		return XOR, true
	case SHL_ASSIGN:
		return SHL, true
	case SHR_ASSIGN:
		return SHR, true
	}
	return INVALID, false
}

// Token is a single lexical token. Text holds the exact source slice.
type Token struct {
	Kind Kind
	Pos  Position
	Text string
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "EOF"
	case IDENTIFIER, INTEGER, REAL, STRING, CHAR, INVALID:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
	}
	return t.Text
}
