package order

import (
	"strings"
	"time"

	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/pkg/textutil"
)

const maxNumberPrefix = 32

// NumberGenerator builds an order number from the line-item initials and the
// checkout time. It is called again with the same arguments after a
// collision, so it must not be deterministic.
type NumberGenerator func(prefix string, now time.Time) string

// DefaultNumber appends the timestamp and a random suffix to the prefix
func DefaultNumber(prefix string, now time.Time) string {
	return prefix + now.Format("20060102150405") + textutil.RandomToken(6)
}

// numberPrefix concatenates the first letters of product, category and
// brand for every item, upper-cased and capped.
func numberPrefix(items []cart.CartItem) string {
	var b strings.Builder
	for _, item := range items {
		p := item.Product
		if p == nil {
			continue
		}
		b.WriteString(textutil.FirstRune(p.Name))
		b.WriteString(textutil.FirstRune(p.Category.Name))
		b.WriteString(textutil.FirstRune(p.Brand.Name))
	}
	return textutil.Prefix(strings.ToUpper(b.String()), maxNumberPrefix)
}
