package dto

import maildomain "mailrag-backend/internal/mail/domain"

type IngestRequest struct {
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type IngestResponse struct {
	Run *maildomain.IngestRun `json:"run"`
}

type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	TopK  int    `json:"top_k"`
}

type SearchResponse struct {
	Results []*maildomain.RecordMetadata `json:"results"`
}

type AnswerResponse struct {
	Answer  string                       `json:"answer"`
	Sources []*maildomain.RecordMetadata `json:"sources"`
}

type RunsResponse struct {
	Runs []*maildomain.IngestRun `json:"runs"`
}
