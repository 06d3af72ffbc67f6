package driver

import (
	"fmt"
	"strings"
)

// Canonical vocabularies for the structured side of the graph. These are the
// only values the loader writes and the only values the recommender filters
// on, so tool schemas quote them verbatim.
var (
	AmenityNames = []string{
		"Air Conditioning",
		"TV",
		"Balcony",
		"Food Service",
		"Parking",
		"Vehicle Hire",
	}
	StayDurationNames = []string{"Short", "Medium", "Long"}
	StayTypeNames     = []string{"Couple", "Family", "Group", "Solo traveller"}
)

// Parameter-ready copies ([]any, as the bolt protocol requires).
var (
	Amenities     = toAnySlice(AmenityNames)
	StayDurations = toAnySlice(StayDurationNames)
	StayTypes     = toAnySlice(StayTypeNames)
)

var schemaConstraints = []string{
	"CREATE CONSTRAINT IF NOT EXISTS FOR (h:Hotel) REQUIRE h.hotel_id IS UNIQUE",
	"CREATE CONSTRAINT IF NOT EXISTS FOR (u:User) REQUIRE u.user_id IS UNIQUE",
	"CREATE CONSTRAINT IF NOT EXISTS FOR (a:Amenity) REQUIRE a.name IS UNIQUE",
	"CREATE CONSTRAINT IF NOT EXISTS FOR (d:StayDuration) REQUIRE d.duration IS UNIQUE",
	"CREATE CONSTRAINT IF NOT EXISTS FOR (t:StayType) REQUIRE t.type IS UNIQUE",
}

const (
	createAmenitiesQuery     = "UNWIND $amenities AS name MERGE (a:Amenity {name: name})"
	createStayDurationsQuery = "UNWIND $durations AS duration MERGE (d:StayDuration {duration: duration})"
	createStayTypesQuery     = "UNWIND $types AS type MERGE (t:StayType {type: type})"
)

// BuildRecommendQuery assembles the scored hotel recommendation query. The
// MATCH clauses vary with the requested filters; the scoring blend
// (avg_rating*0.7 + log(review_count+1)*0.3) is fixed.
func BuildRecommendQuery(amenities []string, stayType, stayDuration string) (string, map[string]interface{}) {
	params := map[string]interface{}{}

	var b strings.Builder
	b.WriteString("MATCH (h:Hotel)\n")
	for i, amenity := range amenities {
		key := fmt.Sprintf("amenity_%d", i)
		fmt.Fprintf(&b, "MATCH (h)-[:HAS_AMENITY]->(:Amenity {name: $%s})\n", key)
		params[key] = amenity
	}
	b.WriteString("MATCH (r:Review)-[:REVIEWED]->(h)\n")
	if stayType != "" {
		b.WriteString("MATCH (r)-[:HAS_TYPE]->(:StayType {type: $stay_type})\n")
		params["stay_type"] = stayType
	}
	if stayDuration != "" {
		b.WriteString("MATCH (r)-[:HAS_DURATION]->(:StayDuration {duration: $stay_duration})\n")
		params["stay_duration"] = stayDuration
	}
	b.WriteString(`WITH h, avg(r.rating) AS avg_rating, count(r) AS review_count
WHERE avg_rating IS NULL OR avg_rating >= $min_rating
RETURN h.hotel_id AS hotel_id,
    h.name AS name,
    h.description AS description,
    h.address AS address,
    coalesce(avg_rating, 0) AS avg_rating,
    review_count,
    coalesce(avg_rating * 0.7 + log(review_count + 1) * 0.3, 0) AS score
ORDER BY score DESC
LIMIT $limit`)

	return b.String(), params
}

func toAnySlice(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
