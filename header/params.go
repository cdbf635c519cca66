package header

import (
	"fmt"
	"strings"

	"github.com/dendrascience/dendra-hid/rules"
)

// Param is a single name=value parameter. Names are lower-cased on parse;
// values are kept as written, with quoted-strings unquoted.
type Param struct {
	Name  string
	Value string
}

// paramSyntax describes how one header flavour spells its parameters.
type paramSyntax struct {
	// valueChars is the set allowed in an unquoted value.
	valueChars rules.CharMatcher
	// bare allows a parameter with no "=value" part.
	bare bool
}

var (
	mediaParams = paramSyntax{valueChars: rules.TChar}
	linkParams  = paramSyntax{valueChars: rules.PTokenChar, bare: true}
)

// parseParams reads *( OWS ";" OWS name [ BWS "=" BWS value ] ) from s at i
// and returns the parameters and the index where the list ends. Empty list
// elements (";;") are skipped.
func (ps paramSyntax) parseParams(s string, i int) ([]Param, int, error) {
	var params []Param
	for {
		j := rules.SkipOWS(s, i)
		if j >= len(s) || s[j] != ';' {
			return params, j, nil
		}
		j = rules.SkipOWS(s, j+1)
		if j >= len(s) || s[j] == ';' || s[j] == ',' {
			i = j
			continue
		}

		end := rules.ScanToken(s, j)
		if end == j {
			return nil, j, fmt.Errorf("%w at offset %d", ErrMalformedParameter, j)
		}
		p := Param{Name: strings.ToLower(s[j:end])}

		k := rules.SkipOWS(s, end)
		if k >= len(s) || s[k] != '=' {
			if !ps.bare {
				return nil, k, fmt.Errorf("%w: %q has no value", ErrMalformedParameter, p.Name)
			}
			params = append(params, p)
			i = end
			continue
		}

		k = rules.SkipOWS(s, k+1)
		value, next, err := ps.scanValue(s, k)
		if err != nil {
			return nil, k, fmt.Errorf("parameter %q: %w", p.Name, err)
		}
		p.Value = value
		params = append(params, p)
		i = next
	}
}

func (ps paramSyntax) scanValue(s string, i int) (string, int, error) {
	if i < len(s) && s[i] == '"' {
		end := rules.ScanQuotedString(s, i)
		if end < 0 {
			return "", i, rules.ErrMalformedQuotedString
		}
		v, err := rules.Unquote(s[i:end])
		return v, end, err
	}
	end := ps.valueChars.Span(s, i)
	if end == i {
		return "", i, ErrMalformedParameter
	}
	return s[i:end], end, nil
}

func findParam(params []Param, name string) (string, bool) {
	for _, p := range params {
		if strings.EqualFold(p.Name, name) {
			return p.Value, true
		}
	}
	return "", false
}

func writeParams(b *strings.Builder, params []Param) {
	for _, p := range params {
		b.WriteString("; ")
		b.WriteString(p.Name)
		b.WriteByte('=')
		b.WriteString(rules.QuoteIfNeeded(p.Value))
	}
}
