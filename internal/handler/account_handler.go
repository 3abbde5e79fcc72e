package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"sling/roomhub/internal/service"
	jwtpkg "sling/roomhub/pkg/jwt"
	"sling/roomhub/pkg/response"
)

type AccountHandler struct {
	accounts   *service.AccountService
	jwtManager *jwtpkg.Manager
}

func NewAccountHandler(accounts *service.AccountService, jwtManager *jwtpkg.Manager) *AccountHandler {
	return &AccountHandler{accounts: accounts, jwtManager: jwtManager}
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	LoginToken string `json:"login_token"`
}

type UpdateFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

func (h *AccountHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	account, err := h.accounts.Create(c.Request.Context(), req.Email, req.FirstName, req.LastName, req.Password)
	if err != nil {
		switch {
		case service.IsValidation(err):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrEmailTaken):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, "registration failed")
		}
		return
	}

	h.respondWithSession(c, account)
}

// Login authenticates either by email+password or by opaque login token.
func (h *AccountHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	switch {
	case req.LoginToken != "":
		acct, err := h.accounts.LoginByToken(c.Request.Context(), req.LoginToken)
		if err != nil {
			if errors.Is(err, service.ErrAccountNotFound) {
				response.Unauthorized(c, "unknown token")
			} else {
				response.InternalError(c, "login failed")
			}
			return
		}
		h.respondWithSession(c, acct)

	case req.Email != "" && req.Password != "":
		acct, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				response.Unauthorized(c, "invalid credentials")
			} else {
				response.InternalError(c, "login failed")
			}
			return
		}
		h.respondWithSession(c, acct)

	default:
		response.BadRequest(c, "provide email and password, or a login token")
	}
}

func (h *AccountHandler) Me(c *gin.Context) {
	account, ok := h.currentAccount(c)
	if !ok {
		return
	}
	response.Success(c, account.Serialize())
}

func (h *AccountHandler) UpdateField(c *gin.Context) {
	account, ok := h.currentAccount(c)
	if !ok {
		return
	}

	var req UpdateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	kind, ok := fieldKindFromString(req.Field)
	if !ok {
		response.BadRequest(c, "unknown field: "+req.Field)
		return
	}

	if err := h.accounts.UpdateField(c.Request.Context(), account, kind, req.Value); err != nil {
		switch {
		case service.IsValidation(err):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrNoParticipant):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, "update failed")
		}
		return
	}
	response.Success(c, account.Serialize())
}

func (h *AccountHandler) RotateToken(c *gin.Context) {
	account, ok := h.currentAccount(c)
	if !ok {
		return
	}
	if err := h.accounts.RotateToken(c.Request.Context(), account); err != nil {
		response.InternalError(c, "token rotation failed")
		return
	}
	response.Success(c, gin.H{"login_token": account.LoginToken})
}

func (h *AccountHandler) Delete(c *gin.Context) {
	account, ok := h.currentAccount(c)
	if !ok {
		return
	}
	removed, err := h.accounts.Delete(c.Request.Context(), account)
	if err != nil {
		response.InternalError(c, "account deletion failed")
		return
	}
	response.Success(c, gin.H{"deleted": removed})
}

func (h *AccountHandler) DeleteParticipant(c *gin.Context) {
	account, ok := h.currentAccount(c)
	if !ok {
		return
	}
	removed, err := h.accounts.DeleteParticipant(c.Request.Context(), account)
	if err != nil {
		response.InternalError(c, "participant deletion failed")
		return
	}
	response.Success(c, gin.H{"deleted": removed})
}

func fieldKindFromString(s string) (service.FieldKind, bool) {
	switch s {
	case "email":
		return service.FieldEmail, true
	case "first_name":
		return service.FieldFirstName, true
	case "last_name":
		return service.FieldLastName, true
	case "password":
		return service.FieldPassword, true
	case "token":
		return service.FieldToken, true
	case "screen_name":
		return service.FieldScreenName, true
	}
	return 0, false
}
