package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Fresh Basket", "fresh-basket"},
		{"Dairy, Bread & Eggs", "dairy-bread-eggs"},
		{"  Cold Drinks & Juices  ", "cold-drinks-juices"},
		{"Amul Milk 500ml", "amul-milk-500ml"},
		{"---", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "input %q", tt.in)
	}
}
