package header

import (
	"fmt"
	"strings"

	"github.com/dendrascience/dendra-hid/rules"
)

// Product is one product token from a User-Agent or Server header, with
// the comments that follow it. Comments are kept as written, without the
// outer parentheses.
type Product struct {
	Name     string
	Version  string
	Comments []string
}

// NewProduct validates name and version as tokens and each comment as the
// inside of an RFC 7230 comment.
func NewProduct(name, version string, comments ...string) (Product, error) {
	if !rules.IsToken(name) || version != "" && !rules.IsToken(version) {
		return Product{}, fmt.Errorf("%w: %q/%q", ErrMalformedProduct, name, version)
	}
	for _, c := range comments {
		if !rules.IsComment("(" + c + ")") {
			return Product{}, fmt.Errorf("%w: comment %q", ErrMalformedProduct, c)
		}
	}
	return Product{Name: name, Version: version, Comments: comments}, nil
}

// ParseProducts parses product *( RWS ( product / comment ) ). A comment
// belongs to the product before it, so the value may not start with one.
func ParseProducts(s string) ([]Product, error) {
	var products []Product
	i := rules.SkipOWS(s, 0)
	for i < len(s) {
		if s[i] == '(' {
			end := rules.ScanComment(s, i)
			if end < 0 {
				return nil, fmt.Errorf("%w: unterminated comment at offset %d", ErrMalformedProduct, i)
			}
			if len(products) == 0 {
				return nil, fmt.Errorf("%w: comment before the first product", ErrMalformedProduct)
			}
			last := &products[len(products)-1]
			last.Comments = append(last.Comments, s[i+1:end-1])
			i = end
		} else {
			p, end, err := scanProduct(s, i)
			if err != nil {
				return nil, err
			}
			products = append(products, p)
			i = end
		}

		next := rules.SkipOWS(s, i)
		if next == i && next < len(s) && s[next] != '(' {
			return nil, fmt.Errorf("%w: expected whitespace at offset %d", ErrMalformedProduct, next)
		}
		i = next
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: empty value", ErrMalformedProduct)
	}
	return products, nil
}

// ParseProduct parses a value holding exactly one product and its comments.
func ParseProduct(s string) (Product, error) {
	products, err := ParseProducts(s)
	if err != nil {
		return Product{}, err
	}
	if len(products) != 1 {
		return Product{}, fmt.Errorf("%w: expected one product, found %d", ErrMalformedProduct, len(products))
	}
	return products[0], nil
}

func scanProduct(s string, i int) (Product, int, error) {
	end := rules.ScanToken(s, i)
	if end == i {
		return Product{}, i, fmt.Errorf("%w: unexpected %q at offset %d", ErrMalformedProduct, s[i], i)
	}
	p := Product{Name: s[i:end]}
	if end < len(s) && s[end] == '/' {
		vend := rules.ScanToken(s, end+1)
		if vend == end+1 {
			return Product{}, end, fmt.Errorf("%w: %q has an empty version", ErrMalformedProduct, p.Name)
		}
		p.Version = s[end+1 : vend]
		end = vend
	}
	return p, end, nil
}

// Token returns "name/version", or just the name when there is no version.
func (p Product) Token() string {
	if p.Version == "" {
		return p.Name
	}
	return p.Name + "/" + p.Version
}

func (p Product) String() string {
	var b strings.Builder
	b.WriteString(p.Token())
	for _, c := range p.Comments {
		b.WriteString(" (")
		b.WriteString(c)
		b.WriteByte(')')
	}
	return b.String()
}

// FormatProducts renders products as a single header value.
func FormatProducts(products []Product) string {
	parts := make([]string, len(products))
	for i, p := range products {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}
