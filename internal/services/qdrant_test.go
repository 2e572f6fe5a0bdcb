package services

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

func scoredPoint(evalID, jobTitle, decision string, overallMean float64, score float32) *qdrant.ScoredPoint {
	return &qdrant.ScoredPoint{
		Score: score,
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"evaluation_id": evalID,
			"job_title":     jobTitle,
			"decision":      decision,
			"overall_mean":  overallMean,
		}),
	}
}

func TestCollectMatches(t *testing.T) {
	points := []*qdrant.ScoredPoint{
		scoredPoint("eval-1", "Backend Engineer", "PASS", 0.82, 0.95),
		scoredPoint("eval-2", "Platform Engineer", "REVIEW", 0.68, 0.90),
	}

	matches := collectMatches(points, "self", 5)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}

	first := matches[0]
	if first.EvaluationID != "eval-1" || first.JobTitle != "Backend Engineer" ||
		first.Decision != "PASS" || first.OverallMean != 0.82 || first.Score != 0.95 {
		t.Errorf("payload not decoded: %+v", first)
	}
}

func TestCollectMatchesDropsQueryPoint(t *testing.T) {
	// The engine may echo the query point: filtering it out must not shrink
	// the result below the requested limit when enough points were fetched.
	points := []*qdrant.ScoredPoint{
		scoredPoint("self", "Backend Engineer", "PASS", 0.90, 1.0),
		scoredPoint("eval-1", "Backend Engineer", "PASS", 0.82, 0.95),
		scoredPoint("eval-2", "Platform Engineer", "REVIEW", 0.68, 0.90),
		scoredPoint("eval-3", "SRE", "REJECT", 0.40, 0.70),
	}

	matches := collectMatches(points, "self", 3)
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	for _, m := range matches {
		if m.EvaluationID == "self" {
			t.Fatal("query point leaked into the matches")
		}
	}
}

func TestCollectMatchesCapsAtLimit(t *testing.T) {
	points := []*qdrant.ScoredPoint{
		scoredPoint("eval-1", "a", "PASS", 0.8, 0.9),
		scoredPoint("eval-2", "b", "PASS", 0.7, 0.8),
		scoredPoint("eval-3", "c", "PASS", 0.6, 0.7),
	}

	matches := collectMatches(points, "self", 2)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0].EvaluationID != "eval-1" || matches[1].EvaluationID != "eval-2" {
		t.Fatalf("order not preserved: %+v", matches)
	}
}
