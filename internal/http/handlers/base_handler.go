// README: Base handler utilities (JSON envelope, error mapping).
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"courier/internal/modules/order"
	"courier/internal/modules/verification"
	"courier/internal/modules/wallet"
)

func writeMessage(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": true, "message": msg})
}

func writeData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "message": msg})
}

// writeOrderError maps order-flow failures onto the API contract.
// Conflicts and insufficient funds are expected business outcomes and
// answer 400 like validation failures; only pricing-collaborator and
// unknown failures surface as 500.
func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, order.ErrValidation), errors.Is(err, order.ErrDistance):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrConflict), errors.Is(err, order.ErrInvalidState):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, wallet.ErrInsufficientFunds):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrDriverNotVerified):
		writeError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, order.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, order.ErrPricing):
		writeError(c, http.StatusInternalServerError, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeWalletError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, wallet.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, wallet.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeVerificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, verification.ErrBadStatus):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, verification.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// idParam parses a positive int64 path parameter, writing the 400 itself
// on failure.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

func userTypeParam(c *gin.Context) (wallet.UserType, bool) {
	switch t := wallet.UserType(c.Param("userType")); t {
	case wallet.UserCustomer, wallet.UserDriver:
		return t, true
	default:
		writeError(c, http.StatusBadRequest, "user type must be customer or driver")
		return "", false
	}
}
