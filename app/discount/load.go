package discount

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/bazar/app/contracts"
)

// Load registers "name:value" entries in order. A value ending in % takes
// that share of the model's total; any other value is a fixed amount.
//
//	welcome:5
//	summer:10%
func Load(r contracts.DiscountRepository, entries []string) error {
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, value, ok := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return fmt.Errorf("%w: entry %q is not name:value", ErrInvalidDiscount, entry)
		}
		rule, err := parseValue(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("discount %q: %w", name, err)
		}
		if err := r.Register(name, rule); err != nil {
			return fmt.Errorf("discount %q: %w", name, err)
		}
	}
	return nil
}

func parseValue(value string) (interface{}, error) {
	if rate, ok := strings.CutSuffix(value, "%"); ok {
		p, err := decimal.NewFromString(strings.TrimSpace(rate))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDiscount, value)
		}
		return PercentOf(p), nil
	}
	return value, nil
}
