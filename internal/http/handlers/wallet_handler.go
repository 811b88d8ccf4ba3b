// README: Wallet endpoints: deposits, balance, and transaction history.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/internal/modules/wallet"
)

type WalletHandler struct {
	wallet *wallet.Service
}

func NewWalletHandler(svc *wallet.Service) *WalletHandler {
	return &WalletHandler{wallet: svc}
}

type addFundsReq struct {
	UserID   int64  `json:"userId"`
	UserType string `json:"userType"`
	Amount   int64  `json:"amount"`
}

func (h *WalletHandler) AddFunds(c *gin.Context) {
	var req addFundsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	userType := wallet.UserType(req.UserType)
	if userType != wallet.UserCustomer && userType != wallet.UserDriver {
		writeError(c, http.StatusBadRequest, "user type must be customer or driver")
		return
	}
	if err := h.wallet.AddFunds(c.Request.Context(), req.UserID, userType, req.Amount); err != nil {
		writeWalletError(c, err)
		return
	}
	writeData(c, http.StatusOK, gin.H{"userId": req.UserID, "amount": req.Amount})
}

func (h *WalletHandler) Get(c *gin.Context) {
	userType, ok := userTypeParam(c)
	if !ok {
		return
	}
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	w, err := h.wallet.Get(c.Request.Context(), userID, userType)
	if err != nil {
		writeWalletError(c, err)
		return
	}
	writeData(c, http.StatusOK, gin.H{
		"userId":   w.UserID,
		"userType": w.UserType,
		"balance":  w.Balance,
	})
}

func (h *WalletHandler) Transactions(c *gin.Context) {
	userType, ok := userTypeParam(c)
	if !ok {
		return
	}
	userID, ok := idParam(c, "userId")
	if !ok {
		return
	}
	txs, err := h.wallet.Transactions(c.Request.Context(), userID, userType)
	if err != nil {
		writeWalletError(c, err)
		return
	}

	type txResp struct {
		ID          int64  `json:"id"`
		Type        string `json:"type"`
		Amount      int64  `json:"amount"`
		Description string `json:"description"`
		CreatedAt   string `json:"createdAt"`
	}
	out := make([]txResp, 0, len(txs))
	for _, t := range txs {
		out = append(out, txResp{
			ID:          t.ID,
			Type:        string(t.Type),
			Amount:      t.Amount,
			Description: t.Description,
			CreatedAt:   t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeData(c, http.StatusOK, out)
}
