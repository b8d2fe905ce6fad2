package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidISBN(t *testing.T) {
	tests := []struct {
		name string
		isbn string
		want bool
	}{
		{"thirteen digits", "1234567891234", true},
		{"real isbn", "9780134685991", true},
		{"too short", "42", false},
		{"empty", "", false},
		{"fourteen digits", "12345678912345", false},
		{"hyphenated", "978-0134685991", false},
		{"isbn10 with X", "123456789X", false},
		{"letter inside", "97801346859a1", false},
		{"unicode digits", "９７８０１３４６８５９", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidISBN(tt.isbn))
		})
	}
}
