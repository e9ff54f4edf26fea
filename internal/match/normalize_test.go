package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeIdent(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"KeyValuePair", "keyvaluepair"},
		{"key_value_pair", "keyvaluepair"},
		{"key-value-pair", "keyvaluepair"},
		{"IComparable", "icomparable"},
		{"HTTPClient", "httpclient"},
		{"golang.org/x/tools", "golangorgxtools"},
		{"core.KeyValuePair", "corekeyvaluepair"},
		{"typemeta/sample/core.Base", "typemetasamplecorebase"},
		{"", ""},
		{"A", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeIdent(tt.input))
		})
	}
}

func TestTokenizeCamelCase(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"IComparable", []string{"I", "Comparable"}},
		{"keyValuePair", []string{"key", "Value", "Pair"}},
		{"XMLParser", []string{"XML", "Parser"}},
		{"plugin_id", []string{"plugin", "id"}},
		{"ALLCAPS", []string{"ALLCAPS"}},
		{"", nil},
		{"AbC", []string{"Ab", "C"}},
		{"parseURL", []string{"parse", "URL"}},
		{"core.IComparable", []string{"core", "I", "Comparable"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, tokenizeCamelCase(tt.input))
		})
	}
}

func TestRefName(t *testing.T) {
	tests := map[string]string{
		"core.Int":                            "core.Int",
		"core.List[core.Int]":                 "core.List",
		" []core.Dictionary[core.String, T] ": "core.Dictionary",
		"[][]core.List[]":                     "core.List",
		"typemeta/sample/core.Registry[T]":    "typemeta/sample/core.Registry",
	}

	for ref, want := range tests {
		t.Run(ref, func(t *testing.T) {
			assert.Equal(t, want, RefName(ref))
		})
	}
}
