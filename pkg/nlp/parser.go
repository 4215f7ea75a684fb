package nlp

import "time"

// Parser resolves relative expressions against a clock in a fixed location.
type Parser struct {
	loc *time.Location
	now func() time.Time
}

var (
	_ DateParser      = (*Parser)(nil)
	_ TimeParser      = (*Parser)(nil)
	_ EntityExtractor = (*Parser)(nil)
)

func NewParser(loc *time.Location, now func() time.Time) *Parser {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Parser{loc: loc, now: now}
}

func (p *Parser) Location() *time.Location {
	return p.loc
}

func (p *Parser) Now() time.Time {
	return p.now().In(p.loc)
}

func (p *Parser) today() time.Time {
	n := p.Now()
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, p.loc)
}
