package main

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookcatalog/internal/book"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReviewVerify(t *testing.T) {
	t.Run("accepts good review", func(t *testing.T) {
		out, err := execute(t, "", "review", "verify",
			"I can totally recommend this book who is interested in learning hwo to write Java code!")
		require.NoError(t, err)
		assert.Equal(t, "ok\n", out)
	})

	t.Run("rejects profanity with detail", func(t *testing.T) {
		out, err := execute(t, "", "review", "verify", "This", "book", "is", "shit")
		assert.ErrorIs(t, err, errReviewRejected)
		assert.Equal(t, "rejected: profanity (shit)\n", out)
	})

	t.Run("reads stdin without arguments", func(t *testing.T) {
		out, err := execute(t, "Lorem Ipsum generated text...", "review", "verify")
		assert.ErrorIs(t, err, errReviewRejected)
		assert.Contains(t, out, "boilerplate")
	})
}

func TestSyncPublish_RequiresISBN(t *testing.T) {
	_, err := execute(t, "", "sync", "publish")
	assert.Error(t, err)
}

func TestSeedBooks(t *testing.T) {
	books := seedBooks(rand.New(rand.NewPCG(1, 2)), 41, 3)

	require.Len(t, books, 3)
	assert.Equal(t, "9780000000041", books[0].ISBN)
	assert.Equal(t, "9780000000043", books[2].ISBN)
	for _, b := range books {
		assert.True(t, book.IsValidISBN(b.ISBN), b.ISBN)
		assert.NotEmpty(t, b.Title)
		assert.GreaterOrEqual(t, b.Pages, 100)
	}
}

func TestSeed_RejectsRangesOutsideISBNSpace(t *testing.T) {
	for _, args := range [][]string{
		{"--count", "0"},
		{"--count", "-5"},
		{"--start", "-1"},
		{"--start", "9999999999", "--count", "2"},
		{"--start", "10000000000", "--count", "1"},
	} {
		_, err := execute(t, "", append([]string{"seed"}, args...)...)
		assert.Error(t, err, args)
	}
}

func TestValidateSeedRange(t *testing.T) {
	assert.NoError(t, validateSeedRange(0, 1))
	assert.NoError(t, validateSeedRange(9_999_999_999, 1))
	assert.NoError(t, validateSeedRange(9_999_999_000, 1000))
	assert.Error(t, validateSeedRange(9_999_999_001, 1000))

	books := seedBooks(rand.New(rand.NewPCG(1, 2)), 9_999_999_998, 2)
	for _, b := range books {
		assert.True(t, book.IsValidISBN(b.ISBN), b.ISBN)
	}
}
