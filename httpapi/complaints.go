package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resolveit/auth"
	"resolveit/complaint"
	"resolveit/notification"
	"resolveit/workflow"
)

type createComplaintRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Anonymous   bool   `json:"anonymous"`
}

func (h *Handler) createComplaint(c *gin.Context) {
	var req createComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	rec, err := h.Complaints.Create(c.Request.Context(), currentUserID(c), complaint.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
		Anonymous:   req.Anonymous,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sanitize(rec, currentRole(c)))
}

func (h *Handler) listComplaints(c *gin.Context) {
	recs, err := h.Complaints.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sanitizeAll(recs, currentRole(c)))
}

func (h *Handler) listMyComplaints(c *gin.Context) {
	recs, err := h.Complaints.ListMine(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *Handler) listAssigned(c *gin.Context) {
	recs, err := h.Complaints.ListAssigned(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sanitizeAll(recs, currentRole(c)))
}

func (h *Handler) getComplaint(c *gin.Context) {
	rec, err := h.Complaints.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sanitize(rec, currentRole(c)))
}

type updateComplaintRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
}

func (h *Handler) updateComplaint(c *gin.Context) {
	var req updateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	rec, err := h.Complaints.Update(c.Request.Context(), c.Param("id"), currentUserID(c), currentRole(c), complaint.UpdateParams{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Priority:    req.Priority,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sanitize(rec, currentRole(c)))
}

func (h *Handler) deleteComplaint(c *gin.Context) {
	if err := h.Complaints.Delete(c.Request.Context(), c.Param("id"), currentUserID(c), currentRole(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "complaint deleted"})
}

func (h *Handler) timeline(c *gin.Context) {
	updates, err := h.Complaints.Timeline(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updates)
}

func (h *Handler) complaintActions(c *gin.Context) {
	actions, err := h.Complaints.ActionsFor(c.Request.Context(), c.Param("id"), currentUserID(c), currentRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, actions)
}

type updateStatusRequest struct {
	Status        workflow.Status `json:"status"`
	Comment       string          `json:"comment"`
	AssigneeEmail string          `json:"assigneeEmail"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	err := h.Status.Transition(c.Request.Context(), complaint.TransitionParams{
		ComplaintID:   c.Param("id"),
		ActorID:       currentUserID(c),
		NextStatus:    req.Status,
		Comment:       req.Comment,
		AssigneeEmail: req.AssigneeEmail,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.invalidateAfterWorkflowWrite(c)
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

func (h *Handler) escalate(c *gin.Context) {
	if err := h.Status.Escalate(c.Request.Context(), c.Param("id"), h.actor(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "complaint escalated"})
}

func (h *Handler) reportResolved(c *gin.Context) {
	if err := h.Status.ReportResolved(c.Request.Context(), c.Param("id"), h.actor(c)); err != nil {
		respondError(c, err)
		return
	}
	h.invalidateAfterWorkflowWrite(c)
	c.JSON(http.StatusOK, gin.H{"message": "resolution reported"})
}

type statusChangeRequest struct {
	Status  workflow.Status `json:"status"`
	Comment string          `json:"comment"`
}

func (h *Handler) requestStatusChange(c *gin.Context) {
	var req statusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	id, err := h.Status.RequestStatusChange(c.Request.Context(), c.Param("id"), h.actor(c), req.Status, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	h.invalidateAfterWorkflowWrite(c)
	c.JSON(http.StatusCreated, gin.H{"id": id, "message": "status change requested"})
}

func (h *Handler) resetData(c *gin.Context) {
	if err := h.Attachments.PurgeAll(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	if err := h.Complaints.Reset(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	h.invalidateAfterWorkflowWrite(c)
	c.JSON(http.StatusOK, gin.H{"message": "data reset complete"})
}

// actor resolves the caller's display name for notification messages.
func (h *Handler) actor(c *gin.Context) complaint.Actor {
	a := complaint.Actor{ID: currentUserID(c)}
	if user, err := h.Auth.GetUserByID(c.Request.Context(), a.ID); err == nil {
		a.Name = user.Name
	}
	return a
}

// Workflow writes insert notifications inside their own transactions, behind
// the notification service's back. Drop the cached admin counter so the next
// poll refetches; per-user counters age out on their short TTL instead.
func (h *Handler) invalidateAfterWorkflowWrite(c *gin.Context) {
	h.Notifications.InvalidateUnread(c.Request.Context(), notification.SpaceAdmin, "")
}

// sanitize hides the creator of an anonymous complaint from non-admin
// viewers.
func sanitize(rec complaint.Complaint, role auth.Role) complaint.Complaint {
	if rec.Anonymous && role != auth.RoleAdmin {
		rec.CreatedByID = ""
		rec.CreatedBy = "Anonymous"
	}
	return rec
}

func sanitizeAll(recs []complaint.Complaint, role auth.Role) []complaint.Complaint {
	out := make([]complaint.Complaint, len(recs))
	for i, rec := range recs {
		out[i] = sanitize(rec, role)
	}
	return out
}
