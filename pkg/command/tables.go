package command

import (
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
	"github.com/pseudomuto/dbkeeper/pkg/utils"
)

var (
	// createLexer splits a create script into the tokens needed to find
	// CREATE TABLE headers. Everything else is skipped. Strings never span
	// lines. Other takes any character the remaining rules reject.
	createLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `--[^\r\n]*|#[^\r\n]*`},
		{Name: "MultilineComment", Pattern: `/\*[^*]*\*+([^/*][^*]*\*+)*/`},
		{Name: "String", Pattern: `'([^'\\\r\n]|\\.|'')*'`},
		{Name: "BacktickIdent", Pattern: "`([^`]|``)*`"},
		{Name: "QuotedIdent", Pattern: `"([^"]|"")*"`},
		{Name: "BracketIdent", Pattern: `\[[^\]]*\]`},
		{Name: "Ident", Pattern: `[a-zA-Z_$][a-zA-Z0-9_$]*`},
		{Name: "Number", Pattern: `\d+(\.\d*)?`},
		{Name: "Punct", Pattern: `[^\sa-zA-Z0-9_$'"\x60\[]`},
		{Name: "Whitespace", Pattern: `\s+`},
		{Name: "Other", Pattern: `.`},
	})

	// dollarTag matches the opening of a PostgreSQL dollar-quoted body.
	dollarTag = regexp.MustCompile(`^\$([A-Za-z_][A-Za-z0-9_]*)?\$`)

	// tableModifiers may appear between CREATE and TABLE.
	tableModifiers = map[string]bool{
		"TEMPORARY": true,
		"TEMP":      true,
		"UNLOGGED":  true,
		"GLOBAL":    true,
		"LOCAL":     true,
	}
)

// TablesFromFile returns the tables created by the script at path.
func TablesFromFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read the create script %s", path)
	}
	defer func() { _ = f.Close() }()

	return ScanTables(f)
}

// ScanTables returns the names of the tables created by the SQL in r, in
// order of appearance. Quoting and schema qualifiers are stripped.
//
// Example:
//
//	CREATE TABLE IF NOT EXISTS accounts (...);
//	CREATE TABLE "public"."orders" (...);
//
// yields [accounts orders].
func ScanTables(r io.Reader) ([]string, error) {
	script, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read the create script")
	}

	lex, err := createLexer.Lex("", strings.NewReader(stripDollarQuotes(string(script))))
	if err != nil {
		return nil, errors.Wrap(err, "cannot scan the create script")
	}

	all, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil, errors.Wrap(err, "cannot scan the create script")
	}

	symbols := createLexer.Symbols()
	skip := map[lexer.TokenType]bool{
		symbols["Comment"]:          true,
		symbols["MultilineComment"]: true,
		symbols["Whitespace"]:       true,
		lexer.EOF:                   true,
	}
	names := map[lexer.TokenType]bool{
		symbols["Ident"]:         true,
		symbols["BacktickIdent"]: true,
		symbols["QuotedIdent"]:   true,
		symbols["BracketIdent"]:  true,
	}

	tokens := make([]lexer.Token, 0, len(all))
	for _, tok := range all {
		if !skip[tok.Type] {
			tokens = append(tokens, tok)
		}
	}

	keyword := func(i int, word string) bool {
		return i < len(tokens) && tokens[i].Type == symbols["Ident"] && strings.EqualFold(tokens[i].Value, word)
	}

	var tables []string
	for i := 0; i < len(tokens); i++ {
		if !keyword(i, "CREATE") {
			continue
		}

		j := i + 1
		for j < len(tokens) && tokens[j].Type == symbols["Ident"] && tableModifiers[strings.ToUpper(tokens[j].Value)] {
			j++
		}

		if !keyword(j, "TABLE") {
			continue
		}
		j++

		if keyword(j, "IF") && keyword(j+1, "NOT") && keyword(j+2, "EXISTS") {
			j += 3
		}

		var name string
		for j < len(tokens) && names[tokens[j].Type] {
			name = tokens[j].Value
			if j+1 < len(tokens) && tokens[j+1].Value == "." {
				j += 2
				continue
			}
			break
		}

		if name = utils.UnqualifiedName(name); name != "" {
			tables = append(tables, name)
		}
		i = j
	}

	return tables, nil
}

// stripDollarQuotes replaces every $tag$...$tag$ body with an empty string
// literal, keeping its line breaks. An unterminated body is left as is.
func stripDollarQuotes(script string) string {
	var b strings.Builder
	b.Grow(len(script))

	for i := 0; i < len(script); {
		if script[i] != '$' || (i > 0 && isIdentByte(script[i-1])) {
			b.WriteByte(script[i])
			i++
			continue
		}

		tag := dollarTag.FindString(script[i:])
		if tag == "" {
			b.WriteByte(script[i])
			i++
			continue
		}

		end := strings.Index(script[i+len(tag):], tag)
		if end < 0 {
			b.WriteString(script[i:])
			break
		}

		body := script[i : i+len(tag)+end+len(tag)]
		b.WriteString("''")
		b.WriteString(strings.Repeat("\n", strings.Count(body, "\n")))
		i += len(body)
	}

	return b.String()
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
