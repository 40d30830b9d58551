package handler_test

import (
	"bytes"
	"complaintdesk/backend/internal/apperr"
	"complaintdesk/backend/internal/complaint"
	"complaintdesk/backend/internal/models"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n")

type formFile struct {
	field, name string
	content     []byte
}

func multipartRequest(t *testing.T, fields map[string]string, files ...formFile) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/complaints/create", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func complaintFields() map[string]string {
	return map[string]string{
		"destination_id": "1",
		"category_id":    "2",
		"type_id":        "3",
		"title":          "Broken street light",
		"text":           "The street light on the corner has been out for weeks.",
		"LocationText":   "Main street",
		"LocationLat":    "33.5138",
		"LocationLng":    "36.2765",
	}
}

func TestCreateComplaint_Created(t *testing.T) {
	// Arrange
	api := newTestAPI(t)
	api.complaints.On("Submit", mock.MatchedBy(func(d complaint.SubmissionData) bool {
		return d.UserID == 7 && d.DestinationID == 1 && d.CategoryID == 2 &&
			d.TypeID != nil && *d.TypeID == 3 && d.Title == "Broken street light" &&
			d.LocationLat == "33.5138" && len(d.Files) == 2
	})).Return(&models.Complaint{ID: 55}, nil).Once()

	req := multipartRequest(t, complaintFields(),
		formFile{"attachments", "a.pdf", pdfBytes},
		formFile{"attachments[]", "b.pdf", pdfBytes},
	)

	// Act
	w, body := api.do(withToken(req, validToken))

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "complaint stored successfully", body["message"])
	assert.Equal(t, map[string]interface{}{"complaint_number": float64(55)}, body["data"])
	api.complaints.AssertExpectations(t)
}

func TestCreateComplaint_RequiresAuth(t *testing.T) {
	api := newTestAPI(t)

	w, _ := api.do(multipartRequest(t, complaintFields()))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	api.complaints.AssertNotCalled(t, "Submit", mock.Anything)
}

func TestCreateComplaint_Boundaries(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		value  string
		status int
	}{
		{"title of 2 rejected", "title", "ab", http.StatusUnprocessableEntity},
		{"title of 3 accepted", "title", "abc", http.StatusCreated},
		{"padded title of 2 rejected", "title", "ab ", http.StatusUnprocessableEntity},
		{"whitespace title rejected", "title", "   ", http.StatusUnprocessableEntity},
		{"padded title of 3 accepted", "title", "  abc  ", http.StatusCreated},
		{"title of 255 accepted", "title", strings.Repeat("t", 255), http.StatusCreated},
		{"title of 256 rejected", "title", strings.Repeat("t", 256), http.StatusUnprocessableEntity},
		{"padded short text", "text", "  too short  ", http.StatusUnprocessableEntity},
		{"location of 501 rejected", "LocationText", strings.Repeat("l", 501), http.StatusUnprocessableEntity},
		{"latitude above 90", "LocationLat", "90.5", http.StatusUnprocessableEntity},
		{"latitude of -90 accepted", "LocationLat", "-90", http.StatusCreated},
		{"longitude below -180", "LocationLng", "-180.1", http.StatusUnprocessableEntity},
		{"longitude of 180 accepted", "LocationLng", "180", http.StatusCreated},
		{"short text", "text", "too short", http.StatusUnprocessableEntity},
		{"missing destination", "destination_id", "", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			api.complaints.On("Submit", mock.Anything).Return(&models.Complaint{ID: 1}, nil).Maybe()
			fields := complaintFields()
			fields[tt.field] = tt.value

			w, body := api.do(withToken(multipartRequest(t, fields), validToken))

			assert.Equal(t, tt.status, w.Code, "body: %v", body)
			if tt.status == http.StatusUnprocessableEntity {
				assert.NotEmpty(t, fieldErrors(body, tt.field))
			}
		})
	}
}

func TestCreateComplaint_TrimsTextFields(t *testing.T) {
	api := newTestAPI(t)
	api.complaints.On("Submit", mock.MatchedBy(func(d complaint.SubmissionData) bool {
		return d.Title == "Broken light" && d.Text == "Out for three weeks now." && d.LocationText == "Main street"
	})).Return(&models.Complaint{ID: 4}, nil).Once()
	fields := complaintFields()
	fields["title"] = "  Broken light\n"
	fields["text"] = "\tOut for three weeks now.  "
	fields["LocationText"] = " Main street "

	w, body := api.do(withToken(multipartRequest(t, fields), validToken))

	assert.Equal(t, http.StatusCreated, w.Code, "body: %v", body)
	api.complaints.AssertExpectations(t)
}

func TestCreateComplaint_TitleMessageUsesLimit(t *testing.T) {
	api := newTestAPI(t)
	fields := complaintFields()
	fields["title"] = " ab "

	w, body := api.do(withToken(multipartRequest(t, fields), validToken))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []interface{}{"The title must be at least 3 characters."}, fieldErrors(body, "title"))
	api.complaints.AssertNotCalled(t, "Submit", mock.Anything)
}

func TestCreateComplaint_SixthAttachmentRejected(t *testing.T) {
	api := newTestAPI(t)
	var files []formFile
	for i := 0; i < 6; i++ {
		files = append(files, formFile{"attachments[]", "f.pdf", pdfBytes})
	}

	w, body := api.do(withToken(multipartRequest(t, complaintFields(), files...), validToken))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, []interface{}{"The attachments may not have more than 5 items."}, fieldErrors(body, "attachments"))
	api.complaints.AssertNotCalled(t, "Submit", mock.Anything)
}

func TestCreateComplaint_BadAttachmentType(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.do(withToken(multipartRequest(t, complaintFields(), formFile{"attachments", "run.exe", []byte("MZ")}), validToken))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NotEmpty(t, fieldErrors(body, "attachments.0"))
}

func TestCreateComplaint_EmptyTypeIsOmitted(t *testing.T) {
	api := newTestAPI(t)
	api.complaints.On("Submit", mock.MatchedBy(func(d complaint.SubmissionData) bool { return d.TypeID == nil })).
		Return(&models.Complaint{ID: 2}, nil).Once()
	fields := complaintFields()
	fields["type_id"] = ""

	w, _ := api.do(withToken(multipartRequest(t, fields), validToken))

	assert.Equal(t, http.StatusCreated, w.Code)
	api.complaints.AssertExpectations(t)
}

func TestConfigs(t *testing.T) {
	api := newTestAPI(t)
	api.complaints.On("Configs").Return(&complaint.Configs{
		ComplaintTypes:       []models.ReferenceItem{{ID: 1, Name: "Suggestion"}},
		Destinations:         []models.ReferenceItem{},
		CompetentAuthorities: []models.ReferenceItem{{ID: 4, Name: "Billing Error"}},
	}, nil)

	w, body := api.do(httptest.NewRequest(http.MethodGet, "/complaints/configs", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, []interface{}{map[string]interface{}{"id": float64(1), "name": "Suggestion"}}, data["complaint_types"])
	assert.Equal(t, []interface{}{}, data["destinations"])
	assert.Len(t, data["competent_authorities"], 1)
}

func searchPayload() map[string]interface{} {
	return map[string]interface{}{
		"complaint_number": 12,
		"email":            "lina@example.com",
		"phone_number":     "0912345678",
	}
}

func TestSearchComplaint_Anonymous(t *testing.T) {
	api := newTestAPI(t)
	q := complaint.SearchQuery{ComplaintNumber: 12, Email: "lina@example.com", PhoneNumber: "0912345678"}
	api.complaints.On("Search", q, (*uint)(nil)).
		Return(&complaint.SearchResult{ComplaintNumber: 12, Email: "lina@example.com", PhoneNumber: "0912345678"}, nil).Twice()

	w, body := api.do(jsonRequest(t, http.MethodPost, "/complaints/search", searchPayload()))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(12), body["data"].(map[string]interface{})["complaint_number"])

	// An invalid token degrades to an anonymous search.
	w, _ = api.do(withToken(jsonRequest(t, http.MethodPost, "/complaints/search", searchPayload()), "revoked-token"))
	assert.Equal(t, http.StatusOK, w.Code)
	api.complaints.AssertExpectations(t)
}

func TestSearchComplaint_AuthBackendFailure(t *testing.T) {
	api := newTestAPI(t)
	api.sessions.On("Authenticate", "lookup-fails").Return(nil, errors.New("connection refused")).Once()

	w, body := api.do(withToken(jsonRequest(t, http.MethodPost, "/complaints/search", searchPayload()), "lookup-fails"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server Error", body["message"])
	api.complaints.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestSearchComplaint_PassesCaller(t *testing.T) {
	api := newTestAPI(t)
	api.complaints.On("Search", mock.Anything, mock.MatchedBy(func(id *uint) bool { return id != nil && *id == 7 })).
		Return(nil, apperr.New(apperr.Authorization, "You are not permitted to view this complaint.")).Once()

	payload := searchPayload()
	payload["complaint_number"] = "12"
	w, body := api.do(withToken(jsonRequest(t, http.MethodPost, "/complaints/search", payload), validToken))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "You are not permitted to view this complaint.", body["message"])
	assert.Nil(t, body["data"])
}

func TestSearchComplaint_Errors(t *testing.T) {
	api := newTestAPI(t)
	api.complaints.On("Search", mock.Anything, mock.Anything).Return(nil, apperr.New(apperr.NotFound, "Complaint not found.")).Once()

	w, _ := api.do(jsonRequest(t, http.MethodPost, "/complaints/search", searchPayload()))
	assert.Equal(t, http.StatusNotFound, w.Code)

	bad := searchPayload()
	bad["phone_number"] = "09123"
	w, body := api.do(jsonRequest(t, http.MethodPost, "/complaints/search", bad))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NotEmpty(t, fieldErrors(body, "phone_number"))

	bad = searchPayload()
	delete(bad, "complaint_number")
	w, body = api.do(jsonRequest(t, http.MethodPost, "/complaints/search", bad))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NotEmpty(t, fieldErrors(body, "complaint_number"))

	bad = searchPayload()
	bad["complaint_number"] = "abc"
	w, _ = api.do(jsonRequest(t, http.MethodPost, "/complaints/search", bad))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestShowComplaint(t *testing.T) {
	api := newTestAPI(t)
	typ := models.ComplaintType{ID: 3, Name: "Suggestion"}
	api.complaints.On("Show", uint(12), uint(7)).Return(&models.Complaint{
		ID:          12,
		Title:       "Broken street light",
		Destination: models.Destination{Name: "Customer Service"},
		Category:    models.ComplaintCategory{Name: "Billing Error"},
		Type:        &typ,
		Attachments: []models.Attachment{{ID: 1, Path: "attachments/7/12/x.pdf", OriginalName: "a.pdf", MimeType: "application/pdf", Size: 40}},
	}, nil).Once()
	api.complaints.On("Show", uint(13), uint(7)).Return(nil, apperr.New(apperr.Authorization, "You are not permitted to view this complaint.")).Once()

	w, body := api.do(withToken(httptest.NewRequest(http.MethodGet, "/complaints/12", nil), validToken))
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Suggestion", data["type"])
	assert.Equal(t, "Customer Service", data["destination"])
	assert.Len(t, data["attachments"], 1)

	w, _ = api.do(withToken(httptest.NewRequest(http.MethodGet, "/complaints/13", nil), validToken))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = api.do(withToken(httptest.NewRequest(http.MethodGet, "/complaints/abc", nil), validToken))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = api.do(httptest.NewRequest(http.MethodGet, "/complaints/12", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
