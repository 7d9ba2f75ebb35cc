package stockoverview

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/jhoicas/grocy-sync/internal/domain/entity"
)

// fuzzyScoreCutoff piso de similitud (escala 0-100) para que un nombre entre al
// conjunto difuso de una consulta.
const fuzzyScoreCutoff = 70

// FuzzyProductNames calcula, una sola vez por cambio de consulta, el conjunto de
// nombres de producto (en minúsculas) cuya similitud ponderada con la consulta
// alcanza el piso. El filtrado posterior solo hace búsquedas O(1) en el conjunto;
// no se conserva el orden de ranking.
func FuzzyProductNames(query string, products []entity.Product) map[string]struct{} {
	result := make(map[string]struct{})
	if query == "" {
		return result
	}
	for _, p := range products {
		name := strings.ToLower(p.Name)
		if fuzzy.WRatio(query, name) >= fuzzyScoreCutoff {
			result[name] = struct{}{}
		}
	}
	return result
}
