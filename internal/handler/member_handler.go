package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/collectivefm/collective-backend/internal/middleware"
	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/collectivefm/collective-backend/internal/response"
	"github.com/collectivefm/collective-backend/internal/service"
	"github.com/collectivefm/collective-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// MemberHandler handles public and back-office member endpoints.
type MemberHandler struct {
	memberService  *service.MemberService
	contactService *service.ContactService
	authzService   *service.AuthzService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(
	memberService *service.MemberService,
	contactService *service.ContactService,
	authzService *service.AuthzService,
) *MemberHandler {
	return &MemberHandler{
		memberService:  memberService,
		contactService: contactService,
		authzService:   authzService,
	}
}

// ListPublic godoc
// GET /api/v1/public/members
// Returns the public roster, archived profiles excluded.
func (h *MemberHandler) ListPublic(c *gin.Context) {
	members, err := h.memberService.ListPublic(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"members": members})
}

// GetPublic godoc
// GET /api/v1/public/members/:id
// Returns one public profile. Archived members read as archived, not found.
func (h *MemberHandler) GetPublic(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	member, err := h.memberService.GetPublic(c.Request.Context(), id)
	if err != nil {
		failMemberLookup(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"member": member})
}

// Contact godoc
// POST /api/v1/public/members/:id/contact
// Relays a contact form to the member's registered address without exposing
// it.
func (h *MemberHandler) Contact(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ContactRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.contactService.Relay(c.Request.Context(), id, req); err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrMailDelivery):
			response.Fail(c, http.StatusBadGateway, response.ErrMailDelivery)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// List godoc
// GET /api/v1/admin/members
// Returns every profile including archived ones. Requires the "members"
// capability.
func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.memberService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"members": members})
}

// Get godoc
// GET /api/v1/admin/members/:id
// Returns one profile. Allowed with the "members" capability or when the
// profile is the caller's own.
func (h *MemberHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	member, err := h.memberService.Get(c.Request.Context(), id)
	if err != nil {
		failMemberLookup(c, err)
		return
	}

	claims := middleware.GetClaims(c)
	if err := h.authzService.Authorize(claims, model.PermissionMembers, member.AdminID); err != nil {
		response.Fail(c, http.StatusForbidden, response.ErrPermissionDenied)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"member": member})
}

// Create godoc
// POST /api/v1/admin/members
// Creates a profile. Requires the "members" capability.
func (h *MemberHandler) Create(c *gin.Context) {
	var req model.MemberRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	member, err := h.memberService.Create(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"member": member})
}

// Update godoc
// PUT /api/v1/admin/members/:id
// Updates a profile. Allowed with the "members" capability or when the
// profile is the caller's own; ownership keeps self-service open to admins
// holding no grants at all.
func (h *MemberHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	member, err := h.memberService.Get(c.Request.Context(), id)
	if err != nil {
		failMemberLookup(c, err)
		return
	}

	claims := middleware.GetClaims(c)
	if err := h.authzService.Authorize(claims, model.PermissionMembers, member.AdminID); err != nil {
		response.Fail(c, http.StatusForbidden, response.ErrPermissionDenied)
		return
	}

	var req model.MemberRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	updated, err := h.memberService.Update(c.Request.Context(), id, req)
	if err != nil {
		failMemberLookup(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"member": updated})
}

// Delete godoc
// DELETE /api/v1/admin/members/:id
// Removes a profile row. Requires the "members" capability; ownership does
// not extend to deletion because a linked profile backs the account's
// self-service identity.
func (h *MemberHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.memberService.Delete(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

func failMemberLookup(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAccountArchived):
		response.Fail(c, http.StatusNotFound, response.ErrAccountArchived)
	case errors.Is(err, service.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
