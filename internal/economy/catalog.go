package economy

import (
	"errors"
	"fmt"
	"sort"
)

// Purchase failure kinds. Both leave the ledger unchanged.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrAlreadyOwned      = errors.New("already owned")
)

// Item identifies a purchasable powerup.
type Item string

const (
	ItemWildcard         Item = "wildcard"
	ItemPassiveIncome    Item = "passive"
	ItemLucky            Item = "lucky"
	ItemInsurance        Item = "insurance"
	ItemMulligan         Item = "mulligan"
	ItemJokersWild       Item = "jokers_wild"
	ItemDoubleMaster     Item = "double_master"
	ItemCompoundInterest Item = "compound_interest"
)

// itemSpec pairs an item's price function with its stacking effect. Prices
// are functions because compound interest escalates with every purchase.
type itemSpec struct {
	description string
	price       func(l *Ledger) int
	apply       func(l *Ledger) error
}

// Catalog is the shop: the full set of purchasable powerups with their
// prices and effects.
type Catalog struct {
	items map[Item]itemSpec
}

// CatalogOption customises a catalog.
type CatalogOption func(*Catalog)

// WithPrices overrides the fixed price of individual items. Compound
// interest keeps its escalating formula regardless.
func WithPrices(prices map[Item]int) CatalogOption {
	return func(c *Catalog) {
		for item, price := range prices {
			if item == ItemCompoundInterest {
				continue
			}
			if spec, ok := c.items[item]; ok {
				p := price
				spec.price = func(*Ledger) int { return p }
				c.items[item] = spec
			}
		}
	}
}

const (
	compoundInterestBase = 500
	compoundInterestStep = 250
)

// NewCatalog builds the default shop.
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{items: map[Item]itemSpec{
		ItemWildcard: {
			description: "adds one wild card to every deck until drawn",
			price:       fixedPrice(100),
			apply: func(l *Ledger) error {
				l.Powerups.WildcardsInDeck++
				return nil
			},
		},
		ItemPassiveIncome: {
			description: "earn 5gc more at the start of every round",
			price:       fixedPrice(200),
			apply: func(l *Ledger) error {
				l.Powerups.PassiveIncome += 5
				return nil
			},
		},
		ItemLucky: {
			description: "lucky charm active for 5 more rounds",
			price:       fixedPrice(150),
			apply: func(l *Ledger) error {
				l.Powerups.Lucky += 5
				return nil
			},
		},
		ItemInsurance: {
			description: "half-bet refund on a loss, 3 more rounds",
			price:       fixedPrice(75),
			apply: func(l *Ledger) error {
				l.Powerups.Insurance += 3
				return nil
			},
		},
		ItemMulligan: {
			description: "one extra full-hand redeal",
			price:       fixedPrice(125),
			apply: func(l *Ledger) error {
				l.Powerups.Mulligan++
				return nil
			},
		},
		ItemJokersWild: {
			description: "all Jacks count as wild for 5 more rounds",
			price:       fixedPrice(250),
			apply: func(l *Ledger) error {
				l.Powerups.JokersWild += 5
				return nil
			},
		},
		ItemDoubleMaster: {
			description: "reveals high/low odds in double or nothing",
			price:       fixedPrice(300),
			apply: func(l *Ledger) error {
				if l.Powerups.DoubleOrNothingMaster {
					return ErrAlreadyOwned
				}
				l.Powerups.DoubleOrNothingMaster = true
				return nil
			},
		},
		ItemCompoundInterest: {
			description: "1% more interest on your balance every round",
			price: func(l *Ledger) int {
				return compoundInterestBase + compoundInterestStep*l.Powerups.CompoundInterestPurchases
			},
			apply: func(l *Ledger) error {
				l.Powerups.CompoundInterest++
				l.Powerups.CompoundInterestPurchases++
				return nil
			},
		},
	}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func fixedPrice(price int) func(*Ledger) int {
	return func(*Ledger) int { return price }
}

// Price returns what item currently costs against the given ledger.
func (c *Catalog) Price(l *Ledger, item Item) (int, error) {
	spec, ok := c.items[item]
	if !ok {
		return 0, fmt.Errorf("unknown item %q", item)
	}
	return spec.price(l), nil
}

// Describe returns the short shop description for item.
func (c *Catalog) Describe(item Item) string {
	return c.items[item].description
}

// Items returns every purchasable item in stable order.
func (c *Catalog) Items() []Item {
	items := make([]Item, 0, len(c.items))
	for item := range c.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i] < items[j] })
	return items
}

// Purchase buys item against the ledger. On success the price is deducted
// and the item's stacking effect applied; on any failure the ledger is left
// unchanged (a duplicate one-time purchase is refunded in full).
func (c *Catalog) Purchase(l *Ledger, item Item) (int, error) {
	spec, ok := c.items[item]
	if !ok {
		return l.Balance, fmt.Errorf("unknown item %q", item)
	}

	price := spec.price(l)
	if l.Balance < price {
		return l.Balance, ErrInsufficientFunds
	}

	l.Debit(price)
	if err := spec.apply(l); err != nil {
		l.Credit(price)
		return l.Balance, err
	}
	return l.Balance, nil
}
