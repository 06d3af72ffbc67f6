// Package parser decodes entity/relationship tuples out of raw LLM output.
// This is the one place untyped model text crosses into the typed data model,
// so the grammar is fixed here and nowhere else: a delimiter-based wire format
// for extraction, plus a terse arrow grammar used for query-time entity
// spotting. Unmatched or malformed lines are skipped, never raised.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/agenthands/staygraph/internal/core/model"
)

// Separator is the reserved multi-character token between tuple fields. It is
// chosen to be vanishingly unlikely in natural review text.
const Separator = "$$$$"

var (
	entityPattern = regexp.MustCompile(
		`\("entity"\$\$\$\$"(.+?)"\$\$\$\$"(.+?)"\$\$\$\$"(.+?)"\$\$\$\$"(.+?)"\)`)
	relationPattern = regexp.MustCompile(
		`\("relationship"\$\$\$\$"(.+?)"\$\$\$\$"(.+?)"\$\$\$\$"(.+?)"\$\$\$\$"(.+?)"\$\$\$\$"(.+?)"\$\$\$\$"(.+?)"\)`)

	// Terse `subject -> relation -> object` lines, one per line. Distinct from
	// the wire grammar above; the two must never cross-match.
	triplePattern = regexp.MustCompile(
		`(?im)^(\w+(?:\s+\w+)*)\s*->\s*([a-zA-Z\s]+?)\s*->\s*(\w+(?:\s+\w+)*)$`)
)

// ParseExtraction decodes all well-formed entity and relationship tuples from
// an extraction response. Anything that does not match the wire grammar is
// silently dropped.
func ParseExtraction(response string) ([]model.ExtractedEntity, []model.ExtractedRelation) {
	var entities []model.ExtractedEntity
	for _, m := range entityPattern.FindAllStringSubmatch(response, -1) {
		entities = append(entities, model.ExtractedEntity{
			Name:        strings.TrimSpace(m[1]),
			Type:        strings.TrimSpace(m[2]),
			Description: strings.TrimSpace(m[3]),
			Attributes:  strings.TrimSpace(m[4]),
		})
	}

	var relations []model.ExtractedRelation
	for _, m := range relationPattern.FindAllStringSubmatch(response, -1) {
		relations = append(relations, model.ExtractedRelation{
			Source:      strings.TrimSpace(m[1]),
			Target:      strings.TrimSpace(m[2]),
			Label:       strings.TrimSpace(m[3]),
			Strength:    parseStrength(m[4]),
			Description: strings.TrimSpace(m[5]),
			Features:    strings.TrimSpace(m[6]),
		})
	}

	return entities, relations
}

// ParseTriples matches the terse arrow grammar against free text, typically
// fragments returned by the similarity retriever.
func ParseTriples(text string) []model.Triple {
	var triples []model.Triple
	for _, m := range triplePattern.FindAllStringSubmatch(text, -1) {
		triples = append(triples, model.Triple{
			Subject:  strings.TrimSpace(m[1]),
			Relation: strings.TrimSpace(m[2]),
			Object:   strings.TrimSpace(m[3]),
		})
	}
	return triples
}

// parseStrength coerces the relationship strength field. Malformed values
// must not abort extraction, so they collapse to 0.
func parseStrength(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
