package delivery

import (
	"errors"
	"net/http"

	authdomain "mailrag-backend/internal/auth/domain"
	maildomain "mailrag-backend/internal/mail/domain"
	"mailrag-backend/internal/mail/dto"
	"mailrag-backend/internal/mail/usecase"

	"github.com/gin-gonic/gin"
)

// MailHandler handles ingestion and retrieval API endpoints
type MailHandler struct {
	mailUsecase usecase.MailUsecase
}

// NewMailHandler creates a new MailHandler
func NewMailHandler(mailUsecase usecase.MailUsecase) *MailHandler {
	return &MailHandler{
		mailUsecase: mailUsecase,
	}
}

func currentUser(c *gin.Context) (*authdomain.User, bool) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return nil, false
	}
	userData, ok := user.(*authdomain.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user data"})
		return nil, false
	}
	return userData, true
}

// POST /api/mail/ingest
// Ingest fetches the user's mail over a date range and indexes it
func (h *MailHandler) Ingest(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run, err := h.mailUsecase.IngestEmails(c.Request.Context(), user.ID, req.StartDate, req.EndDate)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrMissingDateRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, usecase.ErrNotLoggedIn):
			c.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, dto.IngestResponse{Run: run})
}

// POST /api/search/semantic
// SemanticSearch returns the stored emails most similar to the query
func (h *MailHandler) SemanticSearch(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.mailUsecase.FindMostRelevant(c.Request.Context(), user.ID, req.Query, req.TopK)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if results == nil {
		results = []*maildomain.RecordMetadata{}
	}

	c.JSON(http.StatusOK, dto.SearchResponse{Results: results})
}

// POST /api/search/answer
// Answer generates an answer to the query grounded on the user's emails
func (h *MailHandler) Answer(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, sources, err := h.mailUsecase.Answer(c.Request.Context(), user.ID, req.Query, req.TopK)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.AnswerResponse{Answer: answer, Sources: sources})
}

// GET /api/mail/runs
// ListRuns returns the user's recent ingestion runs
func (h *MailHandler) ListRuns(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	runs, err := h.mailUsecase.ListRuns(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}

	c.JSON(http.StatusOK, dto.RunsResponse{Runs: runs})
}

// DELETE /api/mail/index
// ClearIndex removes everything the user has indexed
func (h *MailHandler) ClearIndex(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.mailUsecase.ClearIndex(c.Request.Context(), user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "index cleared"})
}

// POST /api/mail/watch
// Watch registers Gmail push notifications for the user's inbox
func (h *MailHandler) Watch(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.mailUsecase.WatchMailbox(c.Request.Context(), user.ID); err != nil {
		if errors.Is(err, usecase.ErrNotLoggedIn) {
			c.JSON(http.StatusPreconditionFailed, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "watch registered"})
}
