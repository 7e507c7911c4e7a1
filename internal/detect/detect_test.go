package detect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuess(t *testing.T) {
	g := Guess("https://www.camper.com/en/shoes/product.oruga")
	require.NotNil(t, g)
	assert.Equal(t, "Camper", g.Store)
	assert.Equal(t, "Product Oruga", g.Name)
}

func TestGuessSchemeless(t *testing.T) {
	g := Guess("camper.com/en/shoes/runner-four.html")
	require.NotNil(t, g)
	assert.Equal(t, "Camper", g.Store)
	assert.Equal(t, "Runner Four", g.Name)
}

func TestGuessBareHost(t *testing.T) {
	g := Guess("https://shop.example.co.uk")
	require.NotNil(t, g)
	assert.Equal(t, "Shop Example Co", g.Store)
	assert.Equal(t, g.Store, g.Name, "an empty path falls back to the store name")
}

func TestGuessUnparseable(t *testing.T) {
	assert.Nil(t, Guess("not a url"))
	assert.Nil(t, Guess(""))
	assert.Nil(t, Guess("https://"))
}

func TestGuessSeparators(t *testing.T) {
	g := Guess("https://store.com/items/red_wool-socks...v2")
	require.NotNil(t, g)
	assert.Equal(t, "Red Wool Socks V2", g.Name)
}

func TestClassifyClean(t *testing.T) {
	price := 49.99
	code := "GBP"
	r := Classify(&Extracted{ProductName: "Kettle", Store: "argos.co.uk", CurrentPrice: &price, CurrencyCode: &code}, nil, "https://argos.co.uk/p/kettle")
	assert.Equal(t, OutcomeClean, r.Outcome)
	assert.Equal(t, "Kettle", r.Name)
	require.NotNil(t, r.CurrentPrice)
	assert.Equal(t, 49.99, *r.CurrentPrice)
	assert.Equal(t, MessageClean, r.Message)
}

func TestClassifySuspiciousPrice(t *testing.T) {
	for _, price := range []float64{-5, 0, 250000} {
		r := Classify(&Extracted{ProductName: "Kettle", Store: "argos.co.uk", CurrentPrice: &price}, nil, "https://argos.co.uk/p/kettle")
		assert.Equal(t, OutcomeSuspiciousPrice, r.Outcome, "price %v", price)
		assert.Nil(t, r.CurrentPrice, "implausible price must be discarded")
		assert.Equal(t, "Kettle", r.Name, "other extracted fields are kept")
		assert.Equal(t, "argos.co.uk", r.Store)
		assert.Equal(t, MessageSuspicious, r.Message)
	}
}

func TestClassifyHeuristicFallback(t *testing.T) {
	r := Classify(nil, errors.New("connection refused"), "https://www.camper.com/en/shoes/product.oruga")
	assert.Equal(t, OutcomeHeuristicFallback, r.Outcome)
	assert.Equal(t, "Product Oruga", r.Name)
	assert.Equal(t, "Camper", r.Store)
	assert.Nil(t, r.CurrentPrice)
	assert.Equal(t, MessageFallback, r.Message)

	r = Classify(&Extracted{}, nil, "https://www.camper.com/en/shoes/product.oruga")
	assert.Equal(t, OutcomeHeuristicFallback, r.Outcome, "an empty extraction also falls back")
}

func TestClassifyFailed(t *testing.T) {
	r := Classify(nil, errors.New("connection refused"), "not a url")
	assert.Equal(t, OutcomeFailed, r.Outcome)
	assert.Empty(t, r.Name)
	assert.Equal(t, MessageFailed, r.Message)
}
