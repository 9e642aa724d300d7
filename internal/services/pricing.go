package services

import "shopease/internal/domain"

// Total computes the payable amount in minor units (paise). Integer
// arithmetic only; a fixed discount can never push the total below zero.
func Total(items []domain.CartItem, promo *domain.Promo) int64 {
	var amount int64
	for _, it := range items {
		qty := it.Qty
		if qty < 1 {
			qty = 1
		}
		amount += it.Price * int64(qty)
	}

	if promo != nil {
		switch promo.Kind {
		case domain.PromoPercent:
			amount -= amount * promo.Discount / 100
		case domain.PromoFixed:
			amount -= promo.Discount
		}
	}

	if amount < 0 {
		amount = 0
	}
	return amount
}
