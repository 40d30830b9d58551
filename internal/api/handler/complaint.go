package handler

import (
	"complaintdesk/backend/internal/apperr"
	"complaintdesk/backend/internal/attachment"
	"complaintdesk/backend/internal/auth"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/config"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CreateComplaint stores a complaint submitted as a multipart form.
func (h *Handler) CreateComplaint(c *gin.Context) {
	session := currentSession(c)
	if session == nil {
		h.respondError(c, auth.ErrUnauthenticated)
		return
	}

	trimFormFields(c.Request, "title", "text", "LocationText")

	var req createComplaintRequest
	if err := c.ShouldBind(&req); err != nil {
		h.bindError(c, err)
		return
	}

	form, _ := c.MultipartForm()
	uploads := formFiles(form)
	if fields := attachment.Validate(uploads); fields != nil {
		h.respondError(c, apperr.Fields(firstMessage(fields), fields))
		return
	}

	typeID := req.TypeID
	if typeID != nil && *typeID == 0 {
		typeID = nil
	}

	created, err := h.Complaints.Submit(c.Request.Context(), complaint.SubmissionData{
		UserID:        session.UserID,
		DestinationID: req.DestinationID,
		CategoryID:    req.CategoryID,
		TypeID:        typeID,
		Title:         req.Title,
		Text:          req.Text,
		LocationText:  req.LocationText,
		LocationLat:   req.LocationLat,
		LocationLng:   req.LocationLng,
		Files:         uploads,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "complaint stored successfully",
		"data":    gin.H{"complaint_number": created.ID},
	})
}

// Configs returns the reference lists used by the complaint form.
func (h *Handler) Configs(c *gin.Context) {
	configs, err := h.Complaints.Configs(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": configs})
}

// SearchComplaint looks a complaint up by number and owner contact details.
func (h *Handler) SearchComplaint(c *gin.Context) {
	var req searchComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	number, err := strconv.ParseUint(req.ComplaintNumber.String(), 10, 0)
	if err != nil {
		h.respondError(c, apperr.New(apperr.NotFound, "Complaint not found."))
		return
	}

	var callerID *uint
	if session := currentSession(c); session != nil {
		callerID = &session.UserID
	}

	result, err := h.Complaints.Search(c.Request.Context(), complaint.SearchQuery{
		ComplaintNumber: uint(number),
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
	}, callerID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

// ShowComplaint returns one of the caller's complaints with its attachments.
func (h *Handler) ShowComplaint(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		h.respondError(c, apperr.New(apperr.NotFound, "Complaint not found."))
		return
	}

	found, err := h.Complaints.Show(c.Request.Context(), uint(id), currentSession(c).UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	attachments := make([]gin.H, 0, len(found.Attachments))
	for _, a := range found.Attachments {
		attachments = append(attachments, gin.H{
			"id":            a.ID,
			"path":          a.Path,
			"original_name": a.OriginalName,
			"mime_type":     a.MimeType,
			"size":          a.Size,
		})
	}

	data := gin.H{
		"complaint_number": found.ID,
		"title":            found.Title,
		"text":             found.Text,
		"destination":      found.Destination.Name,
		"category":         found.Category.Name,
		"type":             nil,
		"LocationText":     found.LocationText,
		"LocationLat":      found.LocationLat,
		"LocationLng":      found.LocationLng,
		"attachments":      attachments,
		"created_at":       found.CreatedAt,
	}
	if found.Type != nil {
		data["type"] = found.Type.Name
	}
	c.JSON(http.StatusOK, gin.H{"data": data})
}

func firstMessage(fields map[string][]string) string {
	if msgs, ok := fields["attachments"]; ok && len(msgs) > 0 {
		return msgs[0]
	}
	for i := 0; i < config.MaxAttachments; i++ {
		if msgs, ok := fields["attachments."+strconv.Itoa(i)]; ok && len(msgs) > 0 {
			return msgs[0]
		}
	}
	return "The given data was invalid."
}
