package stockoverview_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/grocy-sync/internal/application/stockoverview"
	"github.com/jhoicas/grocy-sync/internal/domain/entity"
)

func TestFuzzyProductNamesIncludesCloseMatches(t *testing.T) {
	products := []entity.Product{
		product(1, "Apple"),
		product(2, "Mantequilla"),
	}
	names := stockoverview.FuzzyProductNames("aple", products)
	assert.Contains(t, names, "apple")
}

func TestFuzzyProductNamesFloorExcludesDissimilar(t *testing.T) {
	// un nombre con similitud bajo el piso de 70 nunca entra al conjunto
	products := []entity.Product{
		product(1, "Mantequilla"),
		product(2, "Pan integral"),
	}
	names := stockoverview.FuzzyProductNames("xyzqw", products)
	assert.Empty(t, names)
}

func TestFuzzyProductNamesExactMatch(t *testing.T) {
	products := []entity.Product{product(1, "Leche")}
	names := stockoverview.FuzzyProductNames("leche", products)
	assert.Contains(t, names, "leche")
}

func TestFuzzyProductNamesEmptyQuery(t *testing.T) {
	products := []entity.Product{product(1, "Leche")}
	assert.Empty(t, stockoverview.FuzzyProductNames("", products))
}
