package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"slateai/health-planner/internal/domain"
	"slateai/health-planner/internal/service"

	"github.com/gin-gonic/gin"
)

// PlanHandler serves the plan generation and discovery surface. These
// endpoints use the {success, message, data} envelope the frontend
// expects, with {"detail": ...} error bodies.
type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

func envelope(c *gin.Context, message string, data gin.H) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func abortWithDetail(c *gin.Context, code int, detail string) {
	c.AbortWithStatusJSON(code, gin.H{"detail": detail})
}

// GeneratePlan runs the full agent pipeline for a structured request.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	var req domain.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithDetail(c, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	result, err := h.planService.Generate(c.Request.Context(), req)
	if err != nil {
		abortWithDetail(c, http.StatusInternalServerError, fmt.Sprintf("Error generating plan: %v", err))
		return
	}

	envelope(c, "Health plan generated successfully", gin.H{
		"plan_id": result.PlanID,
		"plan": map[string]domain.PlanDocument{
			result.PlanID: result.Plan,
		},
		"metadata": result.Metadata,
		"stored":   result.Stored,
	})
}

// DiscoverPlans lists database and bundled plans with optional filters.
func (h *PlanHandler) DiscoverPlans(c *gin.Context) {
	limit := 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	filter := service.DiscoverFilter{
		Category:   c.Query("category"),
		Difficulty: c.Query("difficulty"),
		PlanType:   c.Query("plan_type"),
		Limit:      limit,
	}

	plans, err := h.planService.Discover(c.Request.Context(), filter)
	if err != nil {
		abortWithDetail(c, http.StatusInternalServerError, fmt.Sprintf("Error discovering plans: %v", err))
		return
	}

	envelope(c, "Plans discovered successfully", gin.H{
		"plans":       plans,
		"total_plans": len(plans),
		"filters_applied": gin.H{
			"category":   filter.Category,
			"difficulty": filter.Difficulty,
			"plan_type":  filter.PlanType,
			"limit":      filter.Limit,
		},
	})
}

// GetPlan returns a single plan by id, from the database or the
// bundled catalog.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	planID := c.Param("plan_id")

	plan, source, err := h.planService.Get(c.Request.Context(), planID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithDetail(c, http.StatusNotFound, fmt.Sprintf("Plan '%s' not found", planID))
			return
		}
		abortWithDetail(c, http.StatusInternalServerError, fmt.Sprintf("Error retrieving plan: %v", err))
		return
	}

	envelope(c, "Plan retrieved successfully", gin.H{
		"plan_id": planID,
		"plan":    plan,
		"source":  source,
	})
}

// DeletePlan removes a plan. The default is a soft delete that flips
// the active flag and keeps the record; ?hard=true removes the record
// and its backup snapshot.
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	planID := c.Param("plan_id")
	hard := c.Query("hard") == "true"

	var err error
	if hard {
		err = h.planService.Delete(c.Request.Context(), planID)
	} else {
		err = h.planService.Deactivate(c.Request.Context(), planID)
	}
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithDetail(c, http.StatusNotFound, fmt.Sprintf("Plan '%s' not found", planID))
			return
		}
		abortWithDetail(c, http.StatusInternalServerError, fmt.Sprintf("Error deleting plan: %v", err))
		return
	}

	message := "Plan deactivated successfully"
	if hard {
		message = "Plan deleted successfully"
	}
	envelope(c, message, gin.H{"plan_id": planID})
}
