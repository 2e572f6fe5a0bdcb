package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

// CandidateIndex stores one vector per screened candidate so recruiters can
// look up previously evaluated CVs similar to a given one.
type CandidateIndex interface {
	InitCollection() error
	IndexCandidate(ctx context.Context, evalID uuid.UUID, jobTitle, decision string, overallMean float64, embedding []float32) error
	SimilarToCandidate(ctx context.Context, evalID uuid.UUID, limit int) ([]CandidateMatch, error)
	DeleteCandidate(ctx context.Context, evalID uuid.UUID) error
}

type CandidateMatch struct {
	EvaluationID string
	JobTitle     string
	Decision     string
	OverallMean  float64
	Score        float32
}

type candidateIndex struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	logger         *zap.Logger
}

func NewCandidateIndex(urlStr, apiKey, collectionName string, logger *zap.Logger) (CandidateIndex, error) {
	// Parse URL to extract host, port, and TLS usage
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// For gRPC client, use port 6334 by default (gRPC port)
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &candidateIndex{
		client:         client,
		collectionName: collectionName,
		vectorSize:     embeddingDim,
		logger:         logger,
	}, nil
}

// InitCollection implements CandidateIndex.
func (q *candidateIndex) InitCollection() error {
	ctx := context.Background()

	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})

	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.logger.Info("qdrant collection created",
		zap.String("collection", q.collectionName))
	return nil
}

// IndexCandidate implements CandidateIndex. The point ID is the evaluation ID
// so lookups and deletes need no payload filter.
func (q *candidateIndex) IndexCandidate(ctx context.Context, evalID uuid.UUID, jobTitle, decision string, overallMean float64, embedding []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(evalID.String()),
		Vectors: qdrant.NewVectors(embedding...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"evaluation_id": evalID.String(),
			"job_title":     jobTitle,
			"decision":      decision,
			"overall_mean":  overallMean,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert candidate: %w", err)
	}

	return nil
}

// SimilarToCandidate implements CandidateIndex. One extra point is requested
// because the engine may echo the query point itself; after filtering it out
// the caller still receives up to limit matches.
func (q *candidateIndex) SimilarToCandidate(ctx context.Context, evalID uuid.UUID, limit int) ([]CandidateMatch, error) {
	searchResult, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQueryID(qdrant.NewID(evalID.String())),
		Limit:          qdrant.PtrOf(uint64(limit + 1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})

	if err != nil {
		return nil, fmt.Errorf("failed to search candidates: %w", err)
	}

	return collectMatches(searchResult, evalID.String(), limit), nil
}

// collectMatches converts scored points into candidate matches, dropping the
// query point and capping the result at limit.
func collectMatches(points []*qdrant.ScoredPoint, selfID string, limit int) []CandidateMatch {
	var matches []CandidateMatch
	for _, point := range points {
		if len(matches) == limit {
			break
		}

		payload := point.Payload

		match := CandidateMatch{Score: point.Score}

		if id, ok := payload["evaluation_id"]; ok {
			if val, ok := id.GetKind().(*qdrant.Value_StringValue); ok {
				match.EvaluationID = val.StringValue
			}
		}

		if match.EvaluationID == selfID {
			continue
		}

		if title, ok := payload["job_title"]; ok {
			if val, ok := title.GetKind().(*qdrant.Value_StringValue); ok {
				match.JobTitle = val.StringValue
			}
		}

		if decision, ok := payload["decision"]; ok {
			if val, ok := decision.GetKind().(*qdrant.Value_StringValue); ok {
				match.Decision = val.StringValue
			}
		}

		if mean, ok := payload["overall_mean"]; ok {
			if val, ok := mean.GetKind().(*qdrant.Value_DoubleValue); ok {
				match.OverallMean = val.DoubleValue
			}
		}

		matches = append(matches, match)
	}

	return matches
}

// DeleteCandidate implements CandidateIndex.
func (q *candidateIndex) DeleteCandidate(ctx context.Context, evalID uuid.UUID) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{
					Ids: []*qdrant.PointId{qdrant.NewID(evalID.String())},
				},
			},
		},
	})

	if err != nil {
		return fmt.Errorf("failed to delete candidate: %w", err)
	}

	return nil
}
