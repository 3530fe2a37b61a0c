package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/timmy/dishlingo/internal/api/middleware"
	"github.com/timmy/dishlingo/internal/domain"
	"github.com/timmy/dishlingo/internal/service"
)

// MenuHandler serves the menu analysis and enrichment endpoints.
type MenuHandler struct {
	analysis *service.MenuAnalysisService
}

// NewMenuHandler creates a new menu handler.
// Parameters:
//   - analysis: pipeline service shared by all requests.
// Returns:
//   - *MenuHandler: initialized handler.
func NewMenuHandler(analysis *service.MenuAnalysisService) *MenuHandler {
	return &MenuHandler{
		analysis: analysis,
	}
}

// PronunciationRequest is the body of POST /api/pronunciations.
type PronunciationRequest struct {
	Names []string `json:"names"`
}

// AllergenRequest is the body of POST /api/allergens.
type AllergenRequest struct {
	Items []domain.AllergenQuery `json:"items"`
}

// AnalyzeMenu handles POST /api/analyze-menu.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *MenuHandler) AnalyzeMenu(c *gin.Context) {
	var req service.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	for _, img := range req.Images {
		if err := img.Validate(); err != nil {
			badRequest(c, err)
			return
		}
	}

	result, err := h.analysis.Analyze(c.Request.Context(), &req)
	if err != nil {
		ae := service.Classify(err)
		if ae.Kind == service.KindInternal {
			middleware.GetLogger(c).WithError(err).Error("Menu analysis failed")
		}
		c.JSON(ae.StatusCode, gin.H{
			"error": ae.Message,
			"code":  ae.Code,
		})
		return
	}

	resp := gin.H{
		"analysis_id": result.ID,
		"dishes":      result.Dishes,
	}
	if len(result.Skipped) > 0 {
		resp["skipped_pages"] = result.Skipped
	}
	c.JSON(http.StatusOK, resp)
}

// Pronunciations handles POST /api/pronunciations.
// The response maps every requested name, falling back to the name itself.
func (h *MenuHandler) Pronunciations(c *gin.Context) {
	var req PronunciationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pronunciations": h.analysis.Pronunciations(c.Request.Context(), req.Names),
	})
}

// Allergens handles POST /api/allergens.
// The response maps every requested name, falling back to "".
func (h *MenuHandler) Allergens(c *gin.Context) {
	var req AllergenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"allergens": h.analysis.Allergens(c.Request.Context(), req.Items),
	})
}

func badRequest(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": "Request body too large",
			"code":  "PAYLOAD_TOO_LARGE",
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error": "Invalid request: " + err.Error(),
		"code":  "INVALID_REQUEST",
	})
}
