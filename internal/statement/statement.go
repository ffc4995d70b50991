// Package statement converts downloaded bank statements into entry
// workbooks: every parsed transaction comes out Pending with the account
// filled in, ready for manual category review before the batch runs.
package statement

import (
	"fmt"
	"sort"

	"github.com/athakur/ledgerhand/internal/model"
)

// Parser turns a statement file into transactions.
type Parser interface {
	Parse(path string) ([]model.Transaction, error)
}

// ParserFunc adapts a plain function to Parser.
type ParserFunc func(path string) ([]model.Transaction, error)

func (f ParserFunc) Parse(path string) ([]model.Transaction, error) {
	return f(path)
}

var parsers = map[string]Parser{}

// RegisterParser registers a parser under a source name.
func RegisterParser(source string, p Parser) {
	parsers[source] = p
}

// GetParser returns the parser for the given source type.
func GetParser(source string) (Parser, error) {
	p, ok := parsers[source]
	if !ok {
		return nil, fmt.Errorf("unknown statement source %q (available: %v)", source, AvailableSources())
	}
	return p, nil
}

// AvailableSources lists the registered source types, sorted.
func AvailableSources() []string {
	sources := make([]string, 0, len(parsers))
	for name := range parsers {
		sources = append(sources, name)
	}
	sort.Strings(sources)
	return sources
}

func init() {
	RegisterParser("hdfc-qif", ParserFunc(ParseHDFCQIF))
	RegisterParser("ofx", ParserFunc(ParseOFX))
}
