// Package discount implements the registry of named discounts applied to
// orders and other discountable models.
package discount

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/bazar/app/contracts"
	"github.com/shashiranjanraj/bazar/pkg/container"
	"github.com/shashiranjanraj/bazar/pkg/metrics"
)

// ErrInvalidDiscount is returned by Register for values that are neither a
// number nor a calculation.
var ErrInvalidDiscount = errors.New("discount: value must be a number, a numeric string or a calculation")

// Repository is the default contracts.DiscountRepository. It is safe for
// concurrent use.
type Repository struct {
	mu       sync.RWMutex
	names    []string
	rules    map[string]Rule
	disabled atomic.Bool
}

var _ contracts.DiscountRepository = (*Repository)(nil)

// New returns an empty, enabled repository.
func New() *Repository {
	return &Repository{rules: make(map[string]Rule)}
}

// Register stores discount under name. Accepted values are a Rule, a
// calculation func, a decimal, any int or float, or a numeric string.
func (r *Repository) Register(name string, discount interface{}) error {
	rule, err := ruleOf(discount)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[name]; !ok {
		r.names = append(r.names, name)
	}
	r.rules[name] = rule
	return nil
}

// Remove drops the discount called name, if any.
func (r *Repository) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rules[name]; !ok {
		return
	}
	delete(r.rules, name)
	for i, n := range r.names {
		if n == name {
			r.names = append(r.names[:i], r.names[i+1:]...)
			break
		}
	}
}

// Names lists the registered discounts in registration order.
func (r *Repository) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}

func (r *Repository) Enable()       { r.disabled.Store(false) }
func (r *Repository) Disable()      { r.disabled.Store(true) }
func (r *Repository) Enabled() bool { return !r.disabled.Load() }

// Calculate sums every registered discount for model in registration order.
// The sum is neither rounded nor clamped.
func (r *Repository) Calculate(model contracts.Discountable) decimal.Decimal {
	if !r.Enabled() {
		metrics.DiscountCalculations.WithLabelValues("disabled").Inc()
		return decimal.Zero
	}
	metrics.DiscountCalculations.WithLabelValues("enabled").Inc()

	// Rules run outside the lock so a calculation may consult the registry.
	r.mu.RLock()
	rules := make([]Rule, 0, len(r.names))
	for _, n := range r.names {
		rules = append(rules, r.rules[n])
	}
	r.mu.RUnlock()

	sum := decimal.Zero
	for _, rule := range rules {
		sum = sum.Add(rule.Amount(model))
	}
	return sum
}

// Registry resolves the shared repository from the container.
func Registry() contracts.DiscountRepository {
	return container.Resolve[contracts.DiscountRepository](contracts.DiscountRepositoryKey)
}

func ruleOf(v interface{}) (Rule, error) {
	switch d := v.(type) {
	case Func:
		if d == nil {
			return nil, fmt.Errorf("%w: nil calculation", ErrInvalidDiscount)
		}
		return d, nil
	case Rule:
		return d, nil
	case func(contracts.Discountable) decimal.Decimal:
		if d == nil {
			return nil, fmt.Errorf("%w: nil calculation", ErrInvalidDiscount)
		}
		return Func(d), nil
	case func(contracts.Discountable) float64:
		if d == nil {
			return nil, fmt.Errorf("%w: nil calculation", ErrInvalidDiscount)
		}
		return Func(func(m contracts.Discountable) decimal.Decimal {
			return decimal.NewFromFloat(d(m))
		}), nil
	case decimal.Decimal:
		return Fixed(d), nil
	case int:
		return Fixed(decimal.NewFromInt(int64(d))), nil
	case int8:
		return Fixed(decimal.NewFromInt(int64(d))), nil
	case int16:
		return Fixed(decimal.NewFromInt(int64(d))), nil
	case int32:
		return Fixed(decimal.NewFromInt32(d)), nil
	case int64:
		return Fixed(decimal.NewFromInt(d)), nil
	case uint:
		return Fixed(decimal.NewFromUint64(uint64(d))), nil
	case uint8:
		return Fixed(decimal.NewFromUint64(uint64(d))), nil
	case uint16:
		return Fixed(decimal.NewFromUint64(uint64(d))), nil
	case uint32:
		return Fixed(decimal.NewFromUint64(uint64(d))), nil
	case uint64:
		return Fixed(decimal.NewFromUint64(d)), nil
	case float32:
		return Fixed(decimal.NewFromFloat32(d)), nil
	case float64:
		return Fixed(decimal.NewFromFloat(d)), nil
	case string:
		amount, err := decimal.NewFromString(strings.TrimSpace(d))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDiscount, d)
		}
		return Fixed(amount), nil
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidDiscount, v)
	}
}
