package book

// ISBNLength is the only accepted ISBN length.
const ISBNLength = 13

// IsValidISBN reports whether isbn is exactly 13 ASCII digits.
// Hyphenated forms and checksums are not considered.
func IsValidISBN(isbn string) bool {
	if len(isbn) != ISBNLength {
		return false
	}
	for i := 0; i < len(isbn); i++ {
		if isbn[i] < '0' || isbn[i] > '9' {
			return false
		}
	}
	return true
}
