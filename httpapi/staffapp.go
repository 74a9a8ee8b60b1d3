package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resolveit/staffapp"
)

func (h *Handler) applicationQuestions(c *gin.Context) {
	c.JSON(http.StatusOK, h.Applications.Questions(c.Request.Context()))
}

type submitApplicationRequest struct {
	Answers []int `json:"answers"`
}

func (h *Handler) submitApplication(c *gin.Context) {
	var req submitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	app, err := h.Applications.Submit(c.Request.Context(), currentUserID(c), currentRole(c), req.Answers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *Handler) myApplicationStatus(c *gin.Context) {
	app, err := h.Applications.MyStatus(c.Request.Context(), currentUserID(c))
	if errors.Is(err, staffapp.ErrNotFound) {
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *Handler) pendingApplications(c *gin.Context) {
	apps, err := h.Applications.Pending(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if apps == nil {
		apps = []staffapp.Application{}
	}
	c.JSON(http.StatusOK, apps)
}

func (h *Handler) approveApplication(c *gin.Context) {
	app, err := h.Applications.Approve(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

type rejectApplicationRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) rejectApplication(c *gin.Context) {
	var req rejectApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	app, err := h.Applications.Reject(c.Request.Context(), c.Param("id"), currentUserID(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *Handler) staffList(c *gin.Context) {
	staff, err := h.Applications.StaffList(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if staff == nil {
		staff = []staffapp.StaffMember{}
	}
	c.JSON(http.StatusOK, staff)
}
