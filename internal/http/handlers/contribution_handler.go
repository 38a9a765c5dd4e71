package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kontribute/kontribute-backend/internal/dto"
	"github.com/kontribute/kontribute-backend/internal/http/handlers/common"
	"github.com/kontribute/kontribute-backend/internal/http/response"
	"github.com/kontribute/kontribute-backend/internal/pkg/apperror"
	"github.com/kontribute/kontribute-backend/internal/storage"
)

// multipartOverhead is added to the upload limit to leave room for form
// boundaries and headers.
const multipartOverhead = 1 << 20

type ContributionHandler struct {
	svc            ContributionService
	maxUploadBytes int64
	mediaURLPrefix string
}

func NewContributionHandler(svc ContributionService, maxUploadBytes int64, mediaURLPrefix string) *ContributionHandler {
	return &ContributionHandler{
		svc:            svc,
		maxUploadBytes: maxUploadBytes,
		mediaURLPrefix: mediaURLPrefix,
	}
}

// Contribute POST /collections/:slug/contribute/
// Responds 201 for a new contributor and 200 when the pending registration
// for the same phone is returned.
func (h *ContributionHandler) Contribute(c *gin.Context) {
	var req dto.ContributeRequest
	if !common.BindJSON(c, &req, false) {
		return
	}

	result, err := h.svc.Contribute(c.Request.Context(), common.SlugParam(c), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}

	body := dto.NewContributeResponse(result)
	if result.IsExisting {
		response.OK(c, "You have a pending contribution. Please complete your payment", body)
		return
	}
	response.Created(c, "Contribution registered. Please complete your payment", body, nil)
}

// ConfirmPayment POST /collections/:slug/confirm-payment/
func (h *ContributionHandler) ConfirmPayment(c *gin.Context) {
	var req dto.ConfirmPaymentRequest
	if !common.BindJSON(c, &req, false) {
		return
	}

	result, err := h.svc.ConfirmPayment(c.Request.Context(), common.SlugParam(c), req.ToInput())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Payment confirmed successfully", dto.NewConfirmPaymentResponse(result))
}

// Remind POST /collections/:slug/remind/
func (h *ContributionHandler) Remind(c *gin.Context) {
	var req dto.RemindRequest
	if !common.BindJSON(c, &req, true) {
		return
	}

	result, err := h.svc.SendReminders(c.Request.Context(), common.SlugParam(c), req.ContributorIDs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Reminders sent", dto.NewReminderResponse(result))
}

// UploadProof POST /collections/:slug/contributors/:id/proof/
// Accepts a multipart "file" field holding a JPEG, PNG, WEBP or PDF.
func (h *ContributionHandler) UploadProof(c *gin.Context) {
	contributorID, ok := common.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)

	file, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.Error(c, apperror.ValidationFields("File is too large", map[string]string{"file": storage.ErrFileTooLarge.Error()}))
			return
		}
		response.BadRequest(c, "The data are not valid", map[string]string{"file": "This field is required"})
		return
	}
	if file.Size == 0 {
		response.BadRequest(c, "The data are not valid", map[string]string{"file": "File is empty"})
		return
	}
	if file.Size > h.maxUploadBytes {
		response.Error(c, apperror.ValidationFields("File is too large", map[string]string{"file": storage.ErrFileTooLarge.Error()}))
		return
	}

	src, err := file.Open()
	if err != nil {
		response.Error(c, apperror.Internal(err))
		return
	}
	defer src.Close()

	head := make([]byte, storage.SniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		response.BadRequest(c, "The data are not valid", map[string]string{"file": "Could not read file"})
		return
	}
	head = head[:n]

	_, ext, err := storage.DetectProofType(head)
	if err != nil {
		response.Error(c, apperror.ValidationFields("Unsupported file type", map[string]string{"file": err.Error()}))
		return
	}

	updated, err := h.svc.AttachProof(c.Request.Context(), common.SlugParam(c), contributorID, ext, io.MultiReader(bytes.NewReader(head), src))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment proof uploaded", dto.ProofResponse{
		ContributorID: updated.ID,
		PaymentProof:  updated.PaymentProof,
		URL:           h.mediaURLPrefix + updated.PaymentProof,
	})
}

// Receipt GET /receipts/:contributor_id/
func (h *ContributionHandler) Receipt(c *gin.Context) {
	receipt, err := h.svc.GetReceipt(c.Request.Context(), c.Param("contributor_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt retrieved successfully", receipt)
}
