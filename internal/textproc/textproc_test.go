package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessFiltersShortTokensAndStopwords(t *testing.T) {
	tokens := Preprocess("The US government says a new report on AI is due")

	for _, tok := range tokens {
		assert.Greater(t, len(tok), 2, "token %q too short", tok)
		assert.False(t, IsStopword(tok), "stopword %q survived filtering", tok)
	}

	// "says", "new", "report", "us" are custom stopwords; "the", "a", "on",
	// "is" are standard; "ai" is too short.
	assert.Equal(t, Tokens{"government", "due"}, tokens)
}

func TestPreprocessEmptyInput(t *testing.T) {
	assert.Empty(t, Preprocess(""))
	assert.Empty(t, Preprocess("   \n\t  "))
}

func TestPreprocessLowercasesAndDropsPunctuation(t *testing.T) {
	tokens := Preprocess("Breaking: Stocks RALLY, markets rally!")
	assert.Equal(t, Tokens{"breaking", "stocks", "rally", "markets", "rally"}, tokens)
}

func TestPreprocessIdempotent(t *testing.T) {
	input := "European markets rallied after the central bank held rates steady."
	first := Preprocess(input)
	second := Preprocess(input)
	assert.Equal(t, first, second)
}

func TestRankKeywordsOrderAndTiebreak(t *testing.T) {
	ranked := RankKeywords(Tokens{"aaa", "aaa", "bbb"}, 5)

	require.Len(t, ranked, 2)
	assert.Equal(t, Keyword{Token: "aaa", Count: 2}, ranked[0])
	assert.Equal(t, Keyword{Token: "bbb", Count: 1}, ranked[1])
}

func TestRankKeywordsTiesKeepFirstSeenOrder(t *testing.T) {
	ranked := RankKeywords(Tokens{"zebra", "apple", "zebra", "apple", "mango"}, 5)

	require.Len(t, ranked, 3)
	assert.Equal(t, "zebra", ranked[0].Token)
	assert.Equal(t, "apple", ranked[1].Token)
	assert.Equal(t, "mango", ranked[2].Token)
}

func TestRankKeywordsTopN(t *testing.T) {
	tokens := Tokens{"one", "two", "two", "three", "three", "three", "four", "four", "four", "four"}
	ranked := RankKeywords(tokens, 2)

	require.Len(t, ranked, 2)
	assert.Equal(t, Keyword{Token: "four", Count: 4}, ranked[0])
	assert.Equal(t, Keyword{Token: "three", Count: 3}, ranked[1])
}

func TestRankKeywordsEmpty(t *testing.T) {
	assert.Nil(t, RankKeywords(nil, 5))
	assert.Nil(t, RankKeywords(Tokens{"word"}, 0))
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "alpha beta", Join(Tokens{"alpha", "beta"}))
	assert.Equal(t, "", Join(Tokens{}))
}
