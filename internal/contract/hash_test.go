package contract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBidHashDeterminism(t *testing.T) {
	b := Bid{FurnisherKey: "02aa", Plans: "plan", BidAmount: 5000, Bond: 100, TimeOfBid: 1_700_000_000, TimeRequired: 1_700_086_400}

	h1 := BidHash(b)
	h2 := BidHash(b)

	assert.Equal(t, h1, h2, "BidHash must be deterministic")
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestBidHashCoversFullTuple(t *testing.T) {
	base := Bid{FurnisherKey: "02aa", Plans: "plan", BidAmount: 5000, TimeOfBid: 100, TimeRequired: 200}

	variants := []Bid{
		{FurnisherKey: "02bb", Plans: "plan", BidAmount: 5000, TimeOfBid: 100, TimeRequired: 200},
		{FurnisherKey: "02aa", Plans: "other", BidAmount: 5000, TimeOfBid: 100, TimeRequired: 200},
		{FurnisherKey: "02aa", Plans: "plan", BidAmount: 5001, TimeOfBid: 100, TimeRequired: 200},
		{FurnisherKey: "02aa", Plans: "plan", BidAmount: 5000, Bond: 1, TimeOfBid: 100, TimeRequired: 200},
		{FurnisherKey: "02aa", Plans: "plan", BidAmount: 5000, TimeOfBid: 101, TimeRequired: 200},
		{FurnisherKey: "02aa", Plans: "plan", BidAmount: 5000, TimeOfBid: 100, TimeRequired: 201},
	}

	for _, v := range variants {
		assert.NotEqual(t, BidHash(base), BidHash(v))
	}
}

func TestHashWithDomainSeparates(t *testing.T) {
	data := []byte(`{"a":1}`)
	assert.NotEqual(t, hashWithDomain(DomainBid, data), hashWithDomain("paragon/other/v1", data))
}
