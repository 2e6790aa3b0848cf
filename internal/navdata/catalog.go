package navdata

import (
	"strings"

	"github.com/rpgo/fund-calculator/internal/domain"
)

// DefaultSearchLimit caps the number of suggestions Search returns.
const DefaultSearchLimit = 100

// Catalog is the list of schemes offered by the NAV API.
type Catalog struct {
	instruments []domain.Instrument
}

// NewCatalog wraps a decoded scheme list.
func NewCatalog(instruments []domain.Instrument) *Catalog {
	return &Catalog{instruments: instruments}
}

// Len returns the number of schemes.
func (c *Catalog) Len() int { return len(c.instruments) }

// Search returns schemes whose name contains query, case-insensitively, in
// catalog order. An empty query matches everything. limit <= 0 means
// DefaultSearchLimit.
func (c *Catalog) Search(query string, limit int) []domain.Instrument {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	q := strings.ToLower(strings.TrimSpace(query))
	var out []domain.Instrument
	for _, inst := range c.instruments {
		if strings.Contains(strings.ToLower(inst.Name), q) {
			out = append(out, inst)
			if len(out) == limit {
				break
			}
		}
	}
	return out
}

// Resolve maps user-entered text to a scheme: an exact scheme code, or a
// scheme name equal to the text ignoring case and surrounding whitespace.
func (c *Catalog) Resolve(text string) (domain.Instrument, error) {
	t := strings.TrimSpace(text)
	if t == "" {
		return domain.Instrument{}, &domain.NotFoundError{Query: text}
	}
	for _, inst := range c.instruments {
		if inst.Code == t {
			return inst, nil
		}
	}
	for _, inst := range c.instruments {
		if strings.EqualFold(strings.TrimSpace(inst.Name), t) {
			return inst, nil
		}
	}
	return domain.Instrument{}, &domain.NotFoundError{Query: text}
}
