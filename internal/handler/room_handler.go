package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"sling/roomhub/internal/config"
	"sling/roomhub/internal/service"
	"sling/roomhub/pkg/response"
)

type RoomHandler struct {
	rooms    *service.RoomService
	codes    *service.RoomCodeService
	accounts *service.AccountService
	defaults config.RoomsConfig
}

func NewRoomHandler(rooms *service.RoomService, codes *service.RoomCodeService, accounts *service.AccountService, defaults config.RoomsConfig) *RoomHandler {
	return &RoomHandler{rooms: rooms, codes: codes, accounts: accounts, defaults: defaults}
}

type CreateRoomRequest struct {
	RoomName   string     `json:"room_name" binding:"required"`
	ScreenName string     `json:"screen_name" binding:"required"`
	LoginToken string     `json:"login_token"`
	Uses       *int       `json:"uses,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

type JoinRoomRequest struct {
	RoomCode   string `json:"room_code" binding:"required"`
	ScreenName string `json:"screen_name" binding:"required"`
	LoginToken string `json:"login_token"`
}

type RenameRoomRequest struct {
	RoomName string `json:"room_name" binding:"required"`
}

type MintCodeRequest struct {
	Uses      *int       `json:"uses,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Create opens a room. Callers without a login token get a guest account;
// the issued token comes back inside the nested account document.
func (h *RoomHandler) Create(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	uses, expires := h.applyDefaults(req.Uses, req.ExpiresAt)
	room, err := h.rooms.CreateRoom(c.Request.Context(), req.RoomName, req.LoginToken, req.ScreenName, uses, expires)
	if err != nil {
		switch {
		case service.IsValidation(err):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrAlreadyInRoom):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, "room creation failed")
		}
		return
	}
	response.Success(c, room.Serialize())
}

func (h *RoomHandler) Join(c *gin.Context) {
	var req JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	account, err := h.rooms.Join(c.Request.Context(), req.RoomCode, req.LoginToken, req.ScreenName)
	if err != nil {
		switch {
		case service.IsValidation(err):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrCodeNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, service.ErrCodeExhausted), errors.Is(err, service.ErrCodeExpired):
			response.Gone(c, err.Error())
		case errors.Is(err, service.ErrAlreadyInRoom):
			response.Conflict(c, err.Error())
		default:
			response.InternalError(c, "join failed")
		}
		return
	}
	response.Success(c, account.Serialize())
}

func (h *RoomHandler) Get(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	room, err := h.rooms.Get(c.Request.Context(), roomID)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			response.NotFound(c, err.Error())
		} else {
			response.InternalError(c, "room lookup failed")
		}
		return
	}
	response.Success(c, room.Serialize())
}

func (h *RoomHandler) Participants(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	names, err := h.rooms.Participants(c.Request.Context(), roomID)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			response.NotFound(c, err.Error())
		} else {
			response.InternalError(c, "participant lookup failed")
		}
		return
	}
	response.Success(c, gin.H{"participants": names})
}

func (h *RoomHandler) Rename(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	var req RenameRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if err := h.rooms.Rename(c.Request.Context(), roomID, req.RoomName); err != nil {
		switch {
		case service.IsValidation(err):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrRoomNotFound):
			response.NotFound(c, err.Error())
		default:
			response.InternalError(c, "rename failed")
		}
		return
	}
	response.Success(c, nil)
}

// Delete cascades the room away. A partially failed cascade still reports
// per-step outcomes instead of aborting.
func (h *RoomHandler) Delete(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	result, err := h.rooms.Delete(c.Request.Context(), roomID)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			response.NotFound(c, err.Error())
		} else {
			response.InternalError(c, "room deletion failed")
		}
		return
	}

	steps := make([]gin.H, 0, len(result.Steps))
	for _, step := range result.Steps {
		entry := gin.H{"step": step.Name, "removed": step.Removed}
		if step.Err != nil {
			entry["error"] = step.Err.Error()
		}
		steps = append(steps, entry)
	}
	response.Success(c, gin.H{"clean": !result.Failed(), "steps": steps})
}

// Leave removes the authenticated account's participant and all of the
// room's codes.
func (h *RoomHandler) Leave(c *gin.Context) {
	id, err := accountIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid account context")
		return
	}
	removed, err := h.rooms.Leave(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c, "leave failed")
		return
	}
	response.Success(c, gin.H{"left": removed})
}

// MintCode issues an additional admission code for a room the caller
// participates in.
func (h *RoomHandler) MintCode(c *gin.Context) {
	roomID, ok := roomIDParam(c)
	if !ok {
		return
	}
	accountID, err := accountIDFromContext(c)
	if err != nil {
		response.Unauthorized(c, "invalid account context")
		return
	}
	account, err := h.accounts.Get(c.Request.Context(), accountID)
	if err != nil || account.RoomID == nil || *account.RoomID != roomID {
		response.Forbidden(c, "not a participant of this room")
		return
	}

	var req MintCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	uses, expires := h.applyDefaults(req.Uses, req.ExpiresAt)
	code, err := h.codes.Create(c.Request.Context(), roomID, accountID, uses, expires)
	if err != nil {
		response.InternalError(c, "code issuance failed")
		return
	}
	response.Success(c, code.Serialize())
}

func (h *RoomHandler) applyDefaults(uses *int, expiresAt *time.Time) (*int, *time.Time) {
	if uses == nil && h.defaults.DefaultCodeUses > 0 {
		u := h.defaults.DefaultCodeUses
		uses = &u
	}
	if expiresAt == nil && h.defaults.DefaultCodeTTL > 0 {
		e := time.Now().UTC().Add(h.defaults.DefaultCodeTTL)
		expiresAt = &e
	}
	return uses, expiresAt
}

func roomIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid room id")
		return 0, false
	}
	return uint(id), true
}
