package parser

import (
	"strings"

	"github.com/Veraticus/savemoney/internal/model"
)

// ExtractPaymentMethod returns the first payment method whose keyword appears
// in text, defaulting to WeChat Pay.
func (t *Tables) ExtractPaymentMethod(text string) model.PaymentMethod {
	for _, p := range t.Payments {
		for _, kw := range p.Keywords {
			if kw != "" && strings.Contains(text, kw) {
				return p.Method
			}
		}
	}
	return model.PaymentWeChat
}
