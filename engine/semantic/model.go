package semantic

// Payload keys used on every stored point.
const (
	payloadCompanyID   = "company_id"
	payloadBaseURL     = "base_url"
	payloadPageRole    = "page_role"
	payloadChunkIndex  = "chunk_index"
	payloadContent     = "content"
	payloadURL         = "url"
	payloadTitle       = "title"
	payloadDescription = "description"
)

// SearchResult represents a single vector search hit. Distance is
// 1 - cosine similarity, so lower is closer.
type SearchResult struct {
	ID         string            `json:"id"`
	Distance   float32           `json:"distance"`
	Text       string            `json:"text"`
	CompanyID  string            `json:"company_id"`
	Role       string            `json:"page_role"`
	ChunkIndex int               `json:"chunk_index"`
	SourceURL  string            `json:"url"`
	Meta       map[string]string `json:"meta"`
}

// VectorRecord represents a single vector to store in Qdrant.
type VectorRecord struct {
	ID        string
	Embedding []float32
	Payload   map[string]any // company_id, base_url, page_role, chunk_index, content, url, title, description
}
