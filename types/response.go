package types

type DataResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type SearchResponse struct {
	Chunks []ScoredChunk `json:"chunks"`
}

// TrainProgress is streamed over SSE while a train run processes files.
type TrainProgress struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	TotalFiles     int    `json:"total_files"`
	ProcessedFiles int    `json:"processed_files"`
	ChunkCount     int    `json:"chunk_count"`
}
