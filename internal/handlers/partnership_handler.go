package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"moneylovers/internal/models"
	"moneylovers/internal/services"
)

// PartnershipHandler handles partner pairing requests.
type PartnershipHandler struct {
	partnershipService services.PartnershipServicer
	auditService       services.AuditServicer
}

// NewPartnershipHandler creates a new PartnershipHandler.
func NewPartnershipHandler(partnershipService services.PartnershipServicer, auditService services.AuditServicer) *PartnershipHandler {
	return &PartnershipHandler{partnershipService: partnershipService, auditService: auditService}
}

// JoinPartnershipRequest represents the request payload for redeeming an invitation code.
type JoinPartnershipRequest struct {
	InvitationCode   string  `json:"invitation_code" binding:"required,min=1,max=16" example:"K7P2QX"`
	LoveAnniversary  *string `json:"love_anniversary" example:"2021-02-14"`
	RelationshipType string  `json:"relationship_type" binding:"omitempty,max=20" example:"dating"`
}

// UpdatePartnershipRequest represents the request payload for editing a partnership.
type UpdatePartnershipRequest struct {
	LoveAnniversary  *string `json:"love_anniversary" example:"2021-02-14"`
	RelationshipType *string `json:"relationship_type" binding:"omitempty,min=1,max=20" example:"married"`
}

// InvitationResponse carries a freshly created invitation code.
type InvitationResponse struct {
	InvitationCode string    `json:"invitation_code" example:"K7P2QX"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// GetPartnershipStatus reports the caller's current partner.
// @Summary     Get partnership status
// @Description Tell whether the authenticated user has an active partner
// @Tags        partnerships
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PartnerStatus "Partnership status"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /partnerships/status [get]
func (h *PartnershipHandler) GetPartnershipStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	status, err := h.partnershipService.GetStatus(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// CreateInvitation issues an invitation code for the caller's partner.
// @Summary     Create a partner invitation
// @Description Create a 6 character code, valid for 48 hours, that a partner redeems to pair accounts
// @Tags        partnerships
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} InvitationResponse "Invitation created"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Partner already set"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /partnerships/invite [post]
func (h *PartnershipHandler) CreateInvitation(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	invitation, err := h.partnershipService.CreateInvitation(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_PARTNERSHIP_INVITATION", models.AuditResourcePartnership, invitation.ID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, InvitationResponse{
		InvitationCode: invitation.InvitationCode,
		ExpiresAt:      invitation.ExpiresAt,
	})
}

// JoinPartnership redeems an invitation code.
// @Summary     Join a partnership
// @Description Redeem a partner's invitation code and activate the partnership
// @Tags        partnerships
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body JoinPartnershipRequest true "Invitation code"
// @Success     201 {object} services.PartnershipView "Partnership activated"
// @Failure     400 {object} ErrorResponse "Invalid or expired code"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "Partner already set"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /partnerships/join [post]
func (h *PartnershipHandler) JoinPartnership(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req JoinPartnershipRequest
	if !bindJSON(c, &req) {
		return
	}
	anniversary, err := parseOptionalDate(req.LoveAnniversary, "love_anniversary")
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.partnershipService.JoinPartnership(userID, req.InvitationCode, anniversary, req.RelationshipType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "JOIN_PARTNERSHIP", models.AuditResourcePartnership, view.ID, c.ClientIP(),
		map[string]interface{}{"partner_id": view.Partner.ID, "relationship_type": view.RelationshipType})

	c.JSON(http.StatusCreated, gin.H{"partnership": view})
}

// UpdatePartnership edits the caller's active partnership.
// @Summary     Update the partnership
// @Description Change the love anniversary or relationship type of the active partnership
// @Tags        partnerships
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdatePartnershipRequest true "Fields to update"
// @Success     200 {object} services.PartnershipView "Updated partnership"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No active partnership"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /partnerships [put]
func (h *PartnershipHandler) UpdatePartnership(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePartnershipRequest
	if !bindJSON(c, &req) {
		return
	}
	anniversary, err := parseOptionalDate(req.LoveAnniversary, "love_anniversary")
	if err != nil {
		respondWithError(c, err)
		return
	}

	view, err := h.partnershipService.UpdatePartnership(userID, anniversary, req.RelationshipType)
	if err != nil {
		respondWithError(c, err)
		return
	}

	changes := map[string]interface{}{}
	if anniversary != nil {
		changes["love_anniversary"] = anniversary.Format(time.DateOnly)
	}
	if req.RelationshipType != nil {
		changes["relationship_type"] = *req.RelationshipType
	}
	h.auditService.Log(userID, "UPDATE_PARTNERSHIP", models.AuditResourcePartnership, view.ID, c.ClientIP(), changes)

	c.JSON(http.StatusOK, gin.H{"partnership": view})
}

// DissolvePartnership ends the caller's active partnership.
// @Summary     Dissolve the partnership
// @Description Mark the active partnership inactive. Shared transactions already recorded are kept
// @Tags        partnerships
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} MessageResponse "Partnership dissolved"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "No active partnership"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /partnerships [delete]
func (h *PartnershipHandler) DissolvePartnership(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	p, err := h.partnershipService.DissolvePartnership(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DISSOLVE_PARTNERSHIP", models.AuditResourcePartnership, p.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Partnership dissolved"})
}
