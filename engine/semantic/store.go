// Package semantic owns all Qdrant access: collection lifecycle, point
// storage, similarity search, and bulk per-company reads.
package semantic

import (
	"context"
	"fmt"
	"sort"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/PagelineAI/pageline-mvp/engine/domain"
)

// pointsAPI is the subset of pb.PointsClient the store uses.
type pointsAPI interface {
	Upsert(ctx context.Context, in *pb.UpsertPoints, opts ...grpc.CallOption) (*pb.PointsOperationResponse, error)
	Delete(ctx context.Context, in *pb.DeletePoints, opts ...grpc.CallOption) (*pb.PointsOperationResponse, error)
	Search(ctx context.Context, in *pb.SearchPoints, opts ...grpc.CallOption) (*pb.SearchResponse, error)
	Scroll(ctx context.Context, in *pb.ScrollPoints, opts ...grpc.CallOption) (*pb.ScrollResponse, error)
	Count(ctx context.Context, in *pb.CountPoints, opts ...grpc.CallOption) (*pb.CountResponse, error)
}

// collectionsAPI is the subset of pb.CollectionsClient the store uses.
type collectionsAPI interface {
	List(ctx context.Context, in *pb.ListCollectionsRequest, opts ...grpc.CallOption) (*pb.ListCollectionsResponse, error)
	Create(ctx context.Context, in *pb.CreateCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
	Delete(ctx context.Context, in *pb.DeleteCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
}

// scrollPageSize bounds each Scroll request during bulk reads.
const scrollPageSize = 256

// VectorStore is the sole owner of all Qdrant operations.
type VectorStore struct {
	conn        *grpc.ClientConn
	points      pointsAPI
	collections collectionsAPI
	collection  string
}

// New creates a VectorStore connected to Qdrant at the given gRPC address.
func New(addr string, collection string) (*VectorStore, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("%w: dial qdrant %s: %v", domain.ErrNotConfigured, addr, err)
	}
	return &VectorStore{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
	}, nil
}

// NewWithClients creates a VectorStore with explicit clients. Used in tests.
func NewWithClients(points pointsAPI, collections collectionsAPI, collection string) *VectorStore {
	return &VectorStore{points: points, collections: collections, collection: collection}
}

// Close closes the underlying gRPC connection.
func (v *VectorStore) Close() error {
	if v.conn == nil {
		return nil
	}
	return v.conn.Close()
}

// EnsureCollection creates the collection if it doesn't exist.
func (v *VectorStore) EnsureCollection(ctx context.Context, dims int) error {
	list, err := v.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("semantic: list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == v.collection {
			return nil
		}
	}

	d := uint64(dims)
	_, err = v.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: v.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     d,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("semantic: create collection %s: %w", v.collection, err)
	}
	return nil
}

// DeleteCollection deletes the collection.
func (v *VectorStore) DeleteCollection(ctx context.Context) error {
	_, err := v.collections.Delete(ctx, &pb.DeleteCollection{
		CollectionName: v.collection,
	})
	if err != nil {
		return fmt.Errorf("semantic: delete collection %s: %w", v.collection, err)
	}
	return nil
}

// Upsert stores embedding records into Qdrant. Called by engine/ingest.
func (v *VectorStore) Upsert(ctx context.Context, records []VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]*pb.PointStruct, len(records))
	for i, r := range records {
		payload := make(map[string]*pb.Value, len(r.Payload))
		for k, val := range r.Payload {
			switch tv := val.(type) {
			case string:
				payload[k] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: tv}}
			case int:
				payload[k] = &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: int64(tv)}}
			case int64:
				payload[k] = &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: tv}}
			case float64:
				payload[k] = &pb.Value{Kind: &pb.Value_DoubleValue{DoubleValue: tv}}
			case bool:
				payload[k] = &pb.Value{Kind: &pb.Value_BoolValue{BoolValue: tv}}
			default:
				payload[k] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: fmt.Sprint(tv)}}
			}
		}

		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: r.ID},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: r.Embedding},
				},
			},
			Payload: payload,
		}
	}

	wait := true
	_, err := v.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: v.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("semantic: upsert %d points: %w", len(records), err)
	}
	return nil
}

// Search performs k-NN similarity search, optionally restricted to one
// company. Scores come back as cosine similarity; results carry distance.
func (v *VectorStore) Search(ctx context.Context, embedding []float32, topK int, companyID string) ([]SearchResult, error) {
	req := &pb.SearchPoints{
		CollectionName: v.collection,
		Vector:         embedding,
		Limit:          uint64(topK),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	}
	if companyID != "" {
		req.Filter = &pb.Filter{Must: []*pb.Condition{fieldMatch(payloadCompanyID, companyID)}}
	}

	resp, err := v.points.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("semantic: search: %w", err)
	}

	results := make([]SearchResult, len(resp.GetResult()))
	for i, r := range resp.GetResult() {
		sr := resultFromPayload(r.GetId().GetUuid(), r.GetPayload())
		sr.Distance = 1 - r.GetScore()
		results[i] = sr
	}
	return results, nil
}

// CountByCompany returns the exact number of stored points for a company.
func (v *VectorStore) CountByCompany(ctx context.Context, companyID string) (int, error) {
	exact := true
	resp, err := v.points.Count(ctx, &pb.CountPoints{
		CollectionName: v.collection,
		Exact:          &exact,
		Filter:         &pb.Filter{Must: []*pb.Condition{fieldMatch(payloadCompanyID, companyID)}},
	})
	if err != nil {
		return 0, fmt.Errorf("semantic: count company %s: %w", companyID, err)
	}
	return int(resp.GetResult().GetCount()), nil
}

// Exists reports whether any points are stored for the company.
func (v *VectorStore) Exists(ctx context.Context, companyID string) (bool, error) {
	n, err := v.CountByCompany(ctx, companyID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// FetchCompany reads every stored chunk for a company, ordered by page role
// rank then chunk index. Qdrant has no server-side ordering for scrolls, so
// pages are collected and sorted client-side.
func (v *VectorStore) FetchCompany(ctx context.Context, companyID string) ([]SearchResult, error) {
	var results []SearchResult
	var offset *pb.PointId

	limit := uint32(scrollPageSize)
	for {
		resp, err := v.points.Scroll(ctx, &pb.ScrollPoints{
			CollectionName: v.collection,
			Filter:         &pb.Filter{Must: []*pb.Condition{fieldMatch(payloadCompanyID, companyID)}},
			Limit:          &limit,
			Offset:         offset,
			WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
		})
		if err != nil {
			return nil, fmt.Errorf("semantic: scroll company %s: %w", companyID, err)
		}
		for _, p := range resp.GetResult() {
			results = append(results, resultFromPayload(p.GetId().GetUuid(), p.GetPayload()))
		}
		offset = resp.GetNextPageOffset()
		if offset == nil {
			break
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := domain.PageRole(results[i].Role).Rank(), domain.PageRole(results[j].Role).Rank()
		if ri != rj {
			return ri < rj
		}
		return results[i].ChunkIndex < results[j].ChunkIndex
	})
	return results, nil
}

// DeleteByCompany removes all points for a company. Returns true when
// anything was actually deleted.
func (v *VectorStore) DeleteByCompany(ctx context.Context, companyID string) (bool, error) {
	n, err := v.CountByCompany(ctx, companyID)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	wait := true
	_, err = v.points.Delete(ctx, &pb.DeletePoints{
		CollectionName: v.collection,
		Wait:           &wait,
		Points: &pb.PointsSelector{
			PointsSelectorOneOf: &pb.PointsSelector_Filter{
				Filter: &pb.Filter{
					Must: []*pb.Condition{
						fieldMatch(payloadCompanyID, companyID),
					},
				},
			},
		},
	})
	if err != nil {
		return false, fmt.Errorf("semantic: delete company %s: %w", companyID, err)
	}
	return true, nil
}

func resultFromPayload(id string, payload map[string]*pb.Value) SearchResult {
	sr := SearchResult{
		ID:   id,
		Meta: make(map[string]string),
	}
	for k, val := range payload {
		switch k {
		case payloadContent:
			sr.Text = val.GetStringValue()
		case payloadCompanyID:
			sr.CompanyID = val.GetStringValue()
		case payloadPageRole:
			sr.Role = val.GetStringValue()
		case payloadChunkIndex:
			sr.ChunkIndex = int(val.GetIntegerValue())
		case payloadURL:
			sr.SourceURL = val.GetStringValue()
		default:
			sr.Meta[k] = val.GetStringValue()
		}
	}
	return sr
}

func fieldMatch(key, value string) *pb.Condition {
	return &pb.Condition{
		ConditionOneOf: &pb.Condition_Field{
			Field: &pb.FieldCondition{
				Key: key,
				Match: &pb.Match{
					MatchValue: &pb.Match_Keyword{Keyword: value},
				},
			},
		},
	}
}
