// README: Driver verification endpoints: document submission and admin review.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/modules/verification"
)

type VerificationHandler struct {
	verification *verification.Service
	store        *verification.Store
}

func NewVerificationHandler(svc *verification.Service, store *verification.Store) *VerificationHandler {
	return &VerificationHandler{verification: svc, store: store}
}

type submitVerificationReq struct {
	DocumentRef string `json:"documentRef"`
}

func (h *VerificationHandler) Submit(c *gin.Context) {
	driverID, ok := idParam(c, "driverId")
	if !ok {
		return
	}
	var req submitVerificationReq
	if err := c.ShouldBindJSON(&req); err != nil || req.DocumentRef == "" {
		writeError(c, http.StatusBadRequest, "documentRef is required")
		return
	}
	if err := h.store.Upsert(c.Request.Context(), driverID, req.DocumentRef); err != nil {
		writeVerificationError(c, err)
		return
	}
	writeData(c, http.StatusAccepted, gin.H{"driverId": driverID, "status": verification.StatusPending})
}

type reviewVerificationReq struct {
	Status string `json:"status"`
}

func (h *VerificationHandler) Review(c *gin.Context) {
	driverID, ok := idParam(c, "driverId")
	if !ok {
		return
	}
	var req reviewVerificationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.verification.Review(c.Request.Context(), driverID, verification.Status(req.Status)); err != nil {
		writeVerificationError(c, err)
		return
	}
	writeData(c, http.StatusOK, gin.H{"driverId": driverID, "status": req.Status})
}

func (h *VerificationHandler) Get(c *gin.Context) {
	driverID, ok := idParam(c, "driverId")
	if !ok {
		return
	}
	rec, err := h.verification.Get(c.Request.Context(), driverID)
	if err != nil {
		writeVerificationError(c, err)
		return
	}
	writeData(c, http.StatusOK, gin.H{
		"driverId":    rec.DriverID,
		"status":      rec.Status,
		"documentRef": rec.DocumentRef,
		"reviewedAt":  rec.ReviewedAt,
	})
}
