package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/kontribute/kontribute-backend/internal/dto"
	"github.com/kontribute/kontribute-backend/internal/http/handlers/common"
	"github.com/kontribute/kontribute-backend/internal/http/response"
	"github.com/kontribute/kontribute-backend/internal/service"
)

type CollectionHandler struct {
	svc           CollectionService
	publicBaseURL string
}

func NewCollectionHandler(svc CollectionService, publicBaseURL string) *CollectionHandler {
	return &CollectionHandler{svc: svc, publicBaseURL: publicBaseURL}
}

// Create POST /collections/
func (h *CollectionHandler) Create(c *gin.Context) {
	var req dto.CreateCollectionRequest
	if !common.BindJSON(c, &req, false) {
		return
	}

	collection, err := h.svc.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Collection created successfully", collection, response.Extra{
		"collection_url": service.CollectionURL(h.publicBaseURL, collection.Slug),
	})
}

// Get GET /collections/:slug/
func (h *CollectionHandler) Get(c *gin.Context) {
	detail, err := h.svc.Get(c.Request.Context(), common.SlugParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Collection retrieved successfully", dto.NewCollectionResponse(detail))
}

// Dashboard GET /collections/:slug/dashboard/
func (h *CollectionHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.svc.Dashboard(c.Request.Context(), common.SlugParam(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Dashboard retrieved successfully", dto.NewDashboardResponse(dashboard))
}

// UpdateBankDetails PATCH /collections/:slug/bank-details/
func (h *CollectionHandler) UpdateBankDetails(c *gin.Context) {
	var req dto.UpdateBankDetailsRequest
	if !common.BindJSON(c, &req, false) {
		return
	}

	collection, err := h.svc.UpdateBankDetails(c.Request.Context(), common.SlugParam(c), req.ToUpdate())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Bank details updated successfully", collection)
}
