package analytics

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/Veraticus/smart-expense/internal/model"
)

// MinSubscriptionGap is the shortest spacing allowed between two charges of
// the same recurring payment.
const MinSubscriptionGap = 6 * 24 * time.Hour

type subscriptionKey struct {
	merchant string
	amount   int64
}

// NormalizeMerchant lowercases a description, strips digits and trims
// whitespace, so "Netflix #1123" and "Netflix #1124" compare equal.
func NormalizeMerchant(description string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, strings.ToLower(description))
	return strings.TrimSpace(stripped)
}

// DetectSubscriptions groups expenses by normalized merchant and rounded
// amount, keeping groups whose charges are all at least MinSubscriptionGap apart.
func DetectSubscriptions(txns []model.Transaction) []model.Subscription {
	groups := make(map[subscriptionKey][]model.Transaction)
	for _, t := range txns {
		if !t.IsExpense() {
			continue
		}
		key := subscriptionKey{
			merchant: NormalizeMerchant(t.DescriptionOrDefault()),
			amount:   int64(math.Round(t.Amount)),
		}
		groups[key] = append(groups[key], t)
	}

	detected := make([]model.Subscription, 0)
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}

		sorted := make([]model.Transaction, len(members))
		copy(sorted, members)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Date.Before(sorted[j].Date)
		})

		if !evenlySpaced(sorted) {
			continue
		}

		first := sorted[0]
		detected = append(detected, model.Subscription{
			Merchant:    first.DescriptionOrDefault(),
			Amount:      first.Amount,
			Occurrences: len(sorted),
		})
	}

	sort.Slice(detected, func(i, j int) bool {
		if detected[i].Amount != detected[j].Amount {
			return detected[i].Amount > detected[j].Amount
		}
		return detected[i].Merchant < detected[j].Merchant
	})
	return detected
}

// evenlySpaced expects txns sorted by date.
func evenlySpaced(txns []model.Transaction) bool {
	for i := 0; i+1 < len(txns); i++ {
		if txns[i+1].Date.Sub(txns[i].Date) < MinSubscriptionGap {
			return false
		}
	}
	return true
}
