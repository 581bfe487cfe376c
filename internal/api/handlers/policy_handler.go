package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/service"
)

type PolicyHandler struct {
	service *service.PolicyService
}

func NewPolicyHandler(service *service.PolicyService) *PolicyHandler {
	return &PolicyHandler{service: service}
}

// Health reports liveness together with the loaded catalog.
func (h *PolicyHandler) Health(c *gin.Context) {
	cat := h.service.Catalog()
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"catalog_version": cat.Version,
		"items":           len(cat.Items),
	})
}

func (h *PolicyHandler) GetServiceLevels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service_levels": h.service.ServiceLevels()})
}

func (h *PolicyHandler) GetItems(c *gin.Context) {
	params, filter, ok := h.parseRequest(c)
	if !ok {
		return
	}

	items, err := h.service.Items(c.Request.Context(), params, filter)
	if err != nil {
		respondError(c, "failed to evaluate policy", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"params": params,
		"items":  items,
		"total":  len(items),
	})
}

func (h *PolicyHandler) GetSummary(c *gin.Context) {
	params, filter, ok := h.parseRequest(c)
	if !ok {
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), params, filter)
	if err != nil {
		respondError(c, "failed to fetch summary", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"params":  params,
		"summary": summary,
	})
}

func (h *PolicyHandler) GetDashboard(c *gin.Context) {
	params, filter, ok := h.parseRequest(c)
	if !ok {
		return
	}

	data, err := h.service.Dashboard(c.Request.Context(), params, filter)
	if err != nil {
		respondError(c, "failed to fetch dashboard", err)
		return
	}

	c.JSON(http.StatusOK, data)
}

func (h *PolicyHandler) GetPlan(c *gin.Context) {
	params, filter, ok := h.parseRequest(c)
	if !ok {
		return
	}

	plan, err := h.service.Plan(c.Request.Context(), params, filter)
	if err != nil {
		respondError(c, "failed to fetch replenishment plan", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"params": params,
		"items":  plan,
		"total":  len(plan),
	})
}

func (h *PolicyHandler) Export(c *gin.Context) {
	params, filter, ok := h.parseRequest(c)
	if !ok {
		return
	}

	result, err := h.service.Export(c.Request.Context(), params, filter)
	if err != nil {
		respondError(c, "failed to export policy", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *PolicyHandler) GetSKU(c *gin.Context) {
	input, err := parseParams(c)
	if err != nil {
		respondError(c, "invalid policy parameters", err)
		return
	}
	params, err := h.service.ResolveParams(input)
	if err != nil {
		respondError(c, "invalid policy parameters", err)
		return
	}

	drill, err := h.service.SKU(c.Request.Context(), params, c.Param("sku"))
	if err != nil {
		respondError(c, "failed to fetch sku", err)
		return
	}

	c.JSON(http.StatusOK, drill)
}

func (h *PolicyHandler) GetDemand(c *gin.Context) {
	days := 0
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(c, "invalid days", fmt.Errorf("days must be a positive integer, got %q: %w", raw, domain.ErrInvalidParameter))
			return
		}
		days = n
	}

	skuID := c.Param("sku")
	demand, err := h.service.DemandHistory(c.Request.Context(), skuID, days)
	if err != nil {
		respondError(c, "failed to fetch demand", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sku_id": skuID,
		"demand": demand,
	})
}

func (h *PolicyHandler) parseRequest(c *gin.Context) (domain.PolicyParams, domain.PolicyFilter, bool) {
	input, err := parseParams(c)
	if err != nil {
		respondError(c, "invalid policy parameters", err)
		return domain.PolicyParams{}, domain.PolicyFilter{}, false
	}

	params, err := h.service.ResolveParams(input)
	if err != nil {
		respondError(c, "invalid policy parameters", err)
		return domain.PolicyParams{}, domain.PolicyFilter{}, false
	}

	filter, err := parseFilter(c, h.service.DefaultFilter())
	if err != nil {
		respondError(c, "invalid filter", err)
		return domain.PolicyParams{}, domain.PolicyFilter{}, false
	}

	return params, filter, true
}

// respondError maps domain errors onto HTTP status codes.
func respondError(c *gin.Context, message string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidParameter):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrSKUNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrExportDisabled):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	}
	c.JSON(status, gin.H{"error": message, "details": err.Error()})
}
