package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"sling/roomhub/internal/handler/middleware"
	"sling/roomhub/internal/model"
	jwtpkg "sling/roomhub/pkg/jwt"
	"sling/roomhub/pkg/response"
)

var ErrNoClaims = errors.New("claims not found in context")

func accountIDFromContext(c *gin.Context) (uint, error) {
	claimsVal, exists := c.Get(middleware.ContextKeyAccountClaims)
	if !exists {
		return 0, ErrNoClaims
	}
	claims, ok := claimsVal.(*jwtpkg.Claims)
	if !ok {
		return 0, ErrNoClaims
	}
	return claims.AccountID()
}

// currentAccount resolves the authenticated account, participant projection
// included, from the request claims.
func (h *AccountHandler) currentAccount(c *gin.Context) (*model.Account, bool) {
	id, err := accountIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid account context")
		return nil, false
	}
	account, err := h.accounts.Get(c.Request.Context(), id)
	if err != nil {
		response.Unauthorized(c, "account no longer exists")
		return nil, false
	}
	return account, true
}

// respondWithSession returns the canonical account document plus a short-lived
// access token for the HTTP session.
func (h *AccountHandler) respondWithSession(c *gin.Context, account *model.Account) {
	accessToken, err := h.jwtManager.GenerateAccessToken(account.AccountID)
	if err != nil {
		response.InternalError(c, "session issuance failed")
		return
	}
	response.Success(c, gin.H{
		"account":      account.Serialize(),
		"access_token": accessToken,
	})
}
