package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductDiscountPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    int64
		discount int
		want     int64
	}{
		{name: "twenty percent", price: 1000, discount: 20, want: 800},
		{name: "no discount", price: 1000, discount: 0, want: 1000},
		{name: "full discount", price: 1000, discount: 100, want: 0},
		{name: "floors fractional discount", price: 999, discount: 15, want: 850},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Price: tt.price, Discount: tt.discount}
			assert.Equal(t, tt.want, p.DiscountPrice())
		})
	}
}

func TestProductDenormalizedFields(t *testing.T) {
	p := Product{}
	assert.Empty(t, p.FirstImage())
	assert.Empty(t, p.SellerName())

	p.Images = []ProductImage{{Image: "products/a.jpg"}, {Image: "products/b.jpg"}}
	p.Seller = &Seller{Name: "Chorsu"}
	assert.Equal(t, "products/a.jpg", p.FirstImage())
	assert.Equal(t, "Chorsu", p.SellerName())
}
