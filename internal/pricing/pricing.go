// Package pricing holds the customer-facing installment arithmetic.
// Everything here is pure: whole-krona inputs, whole-krona outputs,
// no lookups.
package pricing

import (
	"math"

	operatordomain "github.com/teleretail/salespoint/internal/operator/domain"
)

// installmentMonths is the fixed hardware installment term.
const installmentMonths = 24

// SubscriptionMonthlyCost is the plan's effective monthly price after
// its running discount, floored at zero.
func SubscriptionMonthlyCost(monthlyPrice, monthlyDiscount int64) int64 {
	net := monthlyPrice - monthlyDiscount
	if net < 0 {
		return 0
	}
	return net
}

// PhoneMonthlyCost dispatches on the operator's pricing family.
func PhoneMonthlyCost(family operatordomain.PricingFamily, catalogPrice, discount int64) int64 {
	if family == operatordomain.PricingNinety {
		return NinetyMonthly(catalogPrice, discount)
	}
	return StandardMonthly(catalogPrice, discount)
}

// StandardMonthly spreads the discounted price over 24 months and
// rounds to the nearest 10. The rounded result must never bill more
// than the discounted price over the full term; when it would, the
// next 10-step down is used instead.
func StandardMonthly(catalogPrice, discount int64) int64 {
	net := catalogPrice - discount
	if net <= 0 {
		return 0
	}
	monthly := int64(math.Round(float64(net)/installmentMonths/10)) * 10
	if monthly*installmentMonths > net {
		monthly -= 10
	}
	if monthly < 0 {
		return 0
	}
	return monthly
}

// NinetyMonthly picks the 90-ending total nearest the discounted price
// and spreads it over 24 months. The candidates are the values n×100−10
// bracketing the net price; the upper one is skipped when it would
// exceed the phone's undiscounted catalog price, and ties go to the
// lower. The operator family behind this prices hardware at totals
// ending in 90.
func NinetyMonthly(catalogPrice, discount int64) int64 {
	net := catalogPrice - discount
	if net <= 0 {
		return 0
	}

	lower := (net+10)/100*100 - 10
	upper := lower + 100

	chosen := upper
	if lower >= 90 {
		if upper > catalogPrice || net-lower <= upper-net {
			chosen = lower
		}
	} else if upper > catalogPrice {
		// No valid candidate on either side of a tiny remainder.
		return 0
	}

	return int64(math.Round(float64(chosen) / installmentMonths))
}
