package mapcss

import (
	"io"
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/jamesrr39/goutil/errorsx"
	"github.com/jamesrr39/mapstyle/geodata"
)

const (
	tokenOpenBlock    = '{'
	tokenCloseBlock   = '}'
	tokenEndStatement = ';'
	tokenOpenTest     = '['
	tokenCloseTest    = ']'
	tokenZoomPrefix   = '|'
	tokenGroupComma   = ','
)

// 2-char tokens
const (
	tokenOpenBlockComment  = "/*"
	tokenCloseBlockComment = "*/"
	tokenOpenLineComment   = "//"
	tokenLayerSuffix       = "::"
)

// Parse reads a MapCSS stylesheet and produces the ordered rule list the
// styler cascades over.
func Parse(r io.Reader) ([]*Rule, errorsx.Error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errorsx.Wrap(err)
	}

	return ParseString(string(b))
}

func ParseString(stylesheet string) ([]*Rule, errorsx.Error) {
	p := &parser{input: stylesheet, line: 1}

	var rules []*Rule
	for {
		err := p.skipSpaceAndComments()
		if err != nil {
			return nil, err
		}
		if p.eof() {
			break
		}

		rule, err := p.parseRule()
		if err != nil {
			return nil, err
		}

		rules = append(rules, rule)
	}

	return rules, nil
}

type parser struct {
	input string
	pos   int
	line  int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) next() byte {
	c := p.input[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
	}
	return c
}

func (p *parser) errorf(format string, args ...interface{}) errorsx.Error {
	args = append(args, p.line)
	return errorsx.Errorf(format+" (line %d)", args...)
}

func (p *parser) skipSpaceAndComments() errorsx.Error {
	for !p.eof() {
		switch p.peek() {
		case ' ', '\t', '\r', '\n':
			p.next()
			continue
		}

		if strings.HasPrefix(p.input[p.pos:], tokenOpenLineComment) {
			for !p.eof() && p.peek() != '\n' {
				p.next()
			}
			continue
		}

		if strings.HasPrefix(p.input[p.pos:], tokenOpenBlockComment) {
			endIdx := strings.Index(p.input[p.pos:], tokenCloseBlockComment)
			if endIdx == -1 {
				return p.errorf("unterminated block comment")
			}
			for i := 0; i < endIdx+len(tokenCloseBlockComment); i++ {
				p.next()
			}
			continue
		}

		return nil
	}

	return nil
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_' || c == '-'
}

func (p *parser) readIdentifier() string {
	start := p.pos
	for !p.eof() && isIdentByte(p.peek()) {
		p.next()
	}
	return p.input[start:p.pos]
}

func (p *parser) parseRule() (*Rule, errorsx.Error) {
	var selectors []Selector
	for {
		selector, err := p.parseSelectorGroup()
		if err != nil {
			return nil, err
		}
		selectors = append(selectors, selector)

		err = p.skipSpaceAndComments()
		if err != nil {
			return nil, err
		}

		switch p.peek() {
		case tokenGroupComma:
			p.next()
			err = p.skipSpaceAndComments()
			if err != nil {
				return nil, err
			}
			continue
		case tokenOpenBlock:
		default:
			return nil, p.errorf("expected ',' or '{' after a selector, but got %q", string(p.peek()))
		}
		break
	}

	p.next() // consume '{'

	var properties []*Property
	for {
		err := p.skipSpaceAndComments()
		if err != nil {
			return nil, err
		}
		if p.eof() {
			return nil, p.errorf("unterminated rule block")
		}
		if p.peek() == tokenCloseBlock {
			p.next()
			break
		}

		property, err := p.parseProperty()
		if err != nil {
			return nil, err
		}

		properties = append(properties, property)
	}

	return &Rule{Selectors: selectors, Properties: properties}, nil
}

// parseSelectorGroup parses one comma-separated selector entry, which is
// either a single selector or a whitespace-separated parent/child pair.
func (p *parser) parseSelectorGroup() (Selector, errorsx.Error) {
	first, err := p.parseSingleSelector()
	if err != nil {
		return nil, err
	}

	err = p.skipSpaceAndComments()
	if err != nil {
		return nil, err
	}

	if p.eof() || p.peek() == tokenGroupComma || p.peek() == tokenOpenBlock {
		return first, nil
	}

	child, err := p.parseSingleSelector()
	if err != nil {
		return nil, err
	}

	return &NestedSelector{Parent: first, Child: child}, nil
}

func (p *parser) parseSingleSelector() (*SingleSelector, errorsx.Error) {
	selector := new(SingleSelector)

	var typeName string
	if p.peek() == '*' {
		p.next()
		typeName = "*"
	} else {
		typeName = p.readIdentifier()
	}

	closedTrue, closedFalse := true, false
	switch typeName {
	case "*":
		selector.ObjectType = ObjectTypeAll
	case "canvas":
		selector.ObjectType = ObjectTypeCanvas
	case "meta":
		selector.ObjectType = ObjectTypeMeta
	case "node":
		selector.ObjectType = ObjectTypeNode
	case "way":
		selector.ObjectType = ObjectTypeWay
	case "area":
		selector.ObjectType = ObjectTypeWay
		selector.ShouldBeClosed = &closedTrue
	case "line":
		selector.ObjectType = ObjectTypeWay
		selector.ShouldBeClosed = &closedFalse
	default:
		return nil, p.errorf("unknown object type %q", typeName)
	}

	for !p.eof() {
		switch {
		case p.peek() == tokenZoomPrefix:
			err := p.parseZoomRange(selector)
			if err != nil {
				return nil, err
			}
		case p.peek() == tokenOpenTest:
			test, err := p.parseTest()
			if err != nil {
				return nil, err
			}
			selector.Tests = append(selector.Tests, test)
		case strings.HasPrefix(p.input[p.pos:], tokenLayerSuffix):
			p.next()
			p.next()
			if p.peek() == '*' {
				p.next()
				selector.LayerID = WildcardLayerID
			} else {
				layerID := p.readIdentifier()
				if layerID == "" {
					return nil, p.errorf("expected a layer name after %q", tokenLayerSuffix)
				}
				selector.LayerID = layerID
			}
		default:
			return selector, nil
		}
	}

	return selector, nil
}

// parseZoomRange handles |z12, |z12-14, |z12- and |z-14. Both bounds are
// inclusive.
func (p *parser) parseZoomRange(selector *SingleSelector) errorsx.Error {
	p.next() // consume '|'
	if p.peek() != 'z' {
		return p.errorf("expected 'z' after '|'")
	}
	p.next()

	readZoom := func() (*geodata.ZoomLevel, errorsx.Error) {
		start := p.pos
		for !p.eof() && (p.peek() >= '0' && p.peek() <= '9' || p.peek() == '.') {
			p.next()
		}
		if start == p.pos {
			return nil, nil
		}

		parsed, err := strconv.ParseFloat(p.input[start:p.pos], 64)
		if err != nil {
			return nil, p.errorf("bad zoom level %q", p.input[start:p.pos])
		}

		zoom := geodata.ZoomLevel(parsed)
		return &zoom, nil
	}

	minZoom, err := readZoom()
	if err != nil {
		return err
	}

	if p.peek() != '-' {
		if minZoom == nil {
			return p.errorf("empty zoom range")
		}
		// single zoom level: |z12
		selector.MinZoom = minZoom
		selector.MaxZoom = minZoom
		return nil
	}

	p.next() // consume '-'
	maxZoom, err := readZoom()
	if err != nil {
		return err
	}

	if minZoom == nil && maxZoom == nil {
		return p.errorf("empty zoom range")
	}

	selector.MinZoom = minZoom
	selector.MaxZoom = maxZoom
	return nil
}

func (p *parser) parseTest() (Test, errorsx.Error) {
	p.next() // consume '['

	start := p.pos
	for !p.eof() && p.peek() != tokenCloseTest {
		p.next()
	}
	if p.eof() {
		return nil, p.errorf("unterminated tag test")
	}

	raw := strings.TrimSpace(p.input[start:p.pos])
	p.next() // consume ']'

	if raw == "" {
		return nil, p.errorf("empty tag test")
	}

	// binary operators, longest first so that "<=" is not read as "<",
	// and "!=" not as "=".
	binaryOps := []struct {
		token       string
		numericType *BinaryNumericTestType
		stringType  *BinaryStringTestType
	}{
		{"<=", numericTestType(BinaryNumericTestTypeLessOrEqual), nil},
		{">=", numericTestType(BinaryNumericTestTypeGreaterOrEqual), nil},
		{"!=", nil, stringTestType(BinaryStringTestTypeNotEqual)},
		{"<", numericTestType(BinaryNumericTestTypeLess), nil},
		{">", numericTestType(BinaryNumericTestTypeGreater), nil},
		{"=", nil, stringTestType(BinaryStringTestTypeEqual)},
	}

	for _, op := range binaryOps {
		idx := strings.Index(raw, op.token)
		if idx == -1 {
			continue
		}

		tagName := strings.TrimSpace(raw[:idx])
		value := strings.TrimSpace(raw[idx+len(op.token):])
		if tagName == "" || value == "" {
			return nil, p.errorf("bad tag test %q", raw)
		}

		if op.stringType != nil {
			return &BinaryStringCompareTest{
				TagName:  tagName,
				Value:    value,
				TestType: *op.stringType,
			}, nil
		}

		numValue, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, p.errorf("expected a number in tag test %q", raw)
		}

		return &BinaryNumericCompareTest{
			TagName:  tagName,
			Value:    numValue,
			TestType: *op.numericType,
		}, nil
	}

	switch {
	case strings.HasPrefix(raw, "!"):
		return &UnaryTest{TagName: raw[1:], TestType: UnaryTestTypeNotExists}, nil
	case strings.HasSuffix(raw, "?!"):
		return &UnaryTest{TagName: raw[:len(raw)-2], TestType: UnaryTestTypeFalse}, nil
	case strings.HasSuffix(raw, "?"):
		return &UnaryTest{TagName: raw[:len(raw)-1], TestType: UnaryTestTypeTrue}, nil
	}

	return &UnaryTest{TagName: raw, TestType: UnaryTestTypeExists}, nil
}

func numericTestType(t BinaryNumericTestType) *BinaryNumericTestType {
	return &t
}

func stringTestType(t BinaryStringTestType) *BinaryStringTestType {
	return &t
}

func (p *parser) parseProperty() (*Property, errorsx.Error) {
	name := p.readIdentifier()
	if name == "" {
		return nil, p.errorf("expected a property name, but got %q", string(p.peek()))
	}

	err := p.skipSpaceAndComments()
	if err != nil {
		return nil, err
	}
	if p.peek() != ':' {
		return nil, p.errorf("expected ':' after property name %q", name)
	}
	p.next()

	start := p.pos
	for !p.eof() && p.peek() != tokenEndStatement {
		if p.peek() == tokenCloseBlock {
			return nil, p.errorf("missing ';' after property %q", name)
		}
		p.next()
	}
	if p.eof() {
		return nil, p.errorf("missing ';' after property %q", name)
	}

	raw := strings.TrimSpace(p.input[start:p.pos])
	p.next() // consume ';'

	value, perr := p.parsePropertyValue(raw)
	if perr != nil {
		return nil, perr
	}

	return &Property{Name: name, Value: value}, nil
}

func (p *parser) parsePropertyValue(raw string) (PropertyValue, errorsx.Error) {
	if raw == "" {
		return nil, p.errorf("empty property value")
	}

	if strings.HasPrefix(raw, "#") {
		color, err := ParseHexColor(raw)
		if err != nil {
			return nil, p.errorf("bad color %q", raw)
		}
		return &ColorValue{Color: color}, nil
	}

	if numbers, ok := parseNumberList(raw); ok {
		return &NumbersValue{Numbers: numbers}, nil
	}

	return &IdentifierValue{ID: raw}, nil
}

func parseNumberList(raw string) ([]float64, bool) {
	parts := strings.Split(raw, ",")
	numbers := make([]float64, 0, len(parts))
	for _, part := range parts {
		num, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, false
		}
		numbers = append(numbers, num)
	}
	return numbers, true
}
