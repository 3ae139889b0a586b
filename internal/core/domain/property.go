package domain

import "github.com/google/uuid"

// PropertyPricing - ценовая информация объявления, нужная калькулятору.
type PropertyPricing struct {
	ID         uuid.UUID
	Title      string
	Price      float64
	PromoPrice *float64
	Currency   string
}

// EffectivePrice возвращает промо-цену, если она задана и положительна, иначе обычную цену.
func (p PropertyPricing) EffectivePrice() float64 {
	if p.PromoPrice != nil && *p.PromoPrice > 0 {
		return *p.PromoPrice
	}
	return p.Price
}
