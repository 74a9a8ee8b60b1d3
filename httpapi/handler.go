// Package httpapi mounts the REST surface. Handlers stay thin: bind, call a
// service, map the error. All authorization is enforced here and in the
// services, never trusted to the client.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"resolveit/attachment"
	"resolveit/auth"
	"resolveit/complaint"
	"resolveit/notification"
	"resolveit/report"
	"resolveit/staffapp"
)

type Handler struct {
	Auth          *auth.Service
	Complaints    *complaint.Service
	Status        *complaint.StatusService
	Notifications *notification.Service
	Applications  *staffapp.Service
	Attachments   *attachment.Service
	Reports       *report.Service
}

// Router builds the gin engine with every route mounted.
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
	}

	protected := api.Group("", h.authenticate)

	complaints := protected.Group("/complaints")
	{
		complaints.POST("", h.createComplaint)
		complaints.GET("", requireRole(auth.RoleAdmin), h.listComplaints)
		complaints.GET("/my-complaints", h.listMyComplaints)
		complaints.GET("/assigned", requireRole(auth.RoleStaff, auth.RoleAdmin), h.listAssigned)
		complaints.POST("/reset-data", requireRole(auth.RoleAdmin), h.resetData)
		complaints.GET("/:id", h.getComplaint)
		complaints.PUT("/:id", h.updateComplaint)
		complaints.DELETE("/:id", h.deleteComplaint)
		complaints.GET("/:id/timeline", h.timeline)
		complaints.GET("/:id/actions", h.complaintActions)
		complaints.PUT("/:id/status", requireRole(auth.RoleAdmin), h.updateStatus)
		complaints.POST("/:id/escalate", requireRole(auth.RoleAdmin), h.escalate)
		complaints.POST("/:id/report-resolved", requireRole(auth.RoleStaff), h.reportResolved)
		complaints.POST("/:id/request-status-change", requireRole(auth.RoleStaff), h.requestStatusChange)
		complaints.POST("/:id/attachments", h.uploadAttachment)
		complaints.GET("/:id/attachments", h.listAttachments)
	}

	protected.GET("/attachments/:id/download", h.downloadAttachment)

	admin := protected.Group("/notifications", requireRole(auth.RoleAdmin))
	{
		admin.GET("", h.listNotifications(notification.SpaceAdmin))
		admin.GET("/unread-count", h.unreadCount(notification.SpaceAdmin))
		admin.PUT("/:id/read", h.markRead(notification.SpaceAdmin))
		admin.PUT("/read-all", h.markAllRead(notification.SpaceAdmin))
	}

	user := protected.Group("/user-notifications")
	{
		user.GET("", h.listNotifications(notification.SpaceUser))
		user.GET("/unread-count", h.unreadCount(notification.SpaceUser))
		user.PUT("/:id/read", h.markRead(notification.SpaceUser))
		user.PUT("/read-all", h.markAllRead(notification.SpaceUser))
	}

	reports := protected.Group("/reports", requireRole(auth.RoleAdmin))
	{
		reports.GET("/stats", h.reportStats)
		reports.GET("/trends", h.reportTrends)
		reports.GET("/export/csv", h.exportCSV)
		reports.GET("/export/pdf", h.exportPDF)
	}

	apps := protected.Group("/staff-applications")
	{
		apps.GET("/questions", h.applicationQuestions)
		apps.POST("", h.submitApplication)
		apps.GET("/my-status", h.myApplicationStatus)
		apps.GET("/pending", requireRole(auth.RoleAdmin), h.pendingApplications)
		apps.GET("/staff-list", requireRole(auth.RoleAdmin), h.staffList)
		apps.PUT("/:id/approve", requireRole(auth.RoleAdmin), h.approveApplication)
		apps.PUT("/:id/reject", requireRole(auth.RoleAdmin), h.rejectApplication)
	}

	return r
}
