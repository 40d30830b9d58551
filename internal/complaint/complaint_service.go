// Package complaint provides the complaint workflows: submission with
// attachments, reference lookups for client forms, search by contact details
// and owner-only retrieval.
package complaint

import (
	"complaintdesk/backend/internal/apperr"
	"complaintdesk/backend/internal/attachment"
	"complaintdesk/backend/internal/models"
	"complaintdesk/backend/internal/storage"
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"strings"
)

const (
	msgNotFound       = "Complaint not found."
	msgNotPermitted   = "You are not permitted to view this complaint."
	msgMissingRef     = "The referenced entity was not found."
	msgInvalidRefs    = "The given data was invalid."
	msgAttachmentFail = "The attachments could not be stored."
)

// SubmissionData is a validated complaint submission.
type SubmissionData struct {
	UserID        uint
	DestinationID uint
	CategoryID    uint
	TypeID        *uint
	Title         string
	Text          string
	LocationText  string
	LocationLat   string
	LocationLng   string
	Files         []*multipart.FileHeader
}

// Configs holds the reference lists served to client forms.
type Configs struct {
	ComplaintTypes       []models.ReferenceItem `json:"complaint_types"`
	Destinations         []models.ReferenceItem `json:"destinations"`
	CompetentAuthorities []models.ReferenceItem `json:"competent_authorities"`
}

// SearchQuery identifies a complaint by number and the owner's contact
// details.
type SearchQuery struct {
	ComplaintNumber uint
	Email           string
	PhoneNumber     string
}

// SearchResult is the projection returned by a successful search.
type SearchResult struct {
	ComplaintNumber uint   `json:"complaint_number"`
	Email           string `json:"email"`
	PhoneNumber     string `json:"phone_number"`
}

// Service handles the business logic for complaints.
type Service struct {
	Storage storage.Storage
	Disk    attachment.Disk
}

// NewService creates a new complaint service.
func NewService(s storage.Storage, disk attachment.Disk) *Service {
	return &Service{Storage: s, Disk: disk}
}

// Submit stores the complaint and its attachments in one transaction. Files
// already written are deleted again when anything fails.
func (s *Service) Submit(ctx context.Context, data SubmissionData) (*models.Complaint, error) {
	if err := s.checkReferences(ctx, data); err != nil {
		return nil, err
	}

	complaint := &models.Complaint{
		UserID:        data.UserID,
		DestinationID: data.DestinationID,
		CategoryID:    data.CategoryID,
		TypeID:        data.TypeID,
		Title:         data.Title,
		Text:          data.Text,
		LocationText:  data.LocationText,
		LocationLat:   data.LocationLat,
		LocationLng:   data.LocationLng,
	}

	var written []string
	err := s.Storage.Transaction(ctx, func(tx storage.Storage) error {
		if err := tx.CreateComplaint(ctx, complaint); err != nil {
			return err
		}
		for _, fh := range data.Files {
			row, err := s.storeFile(ctx, complaint, fh)
			if row != nil {
				written = append(written, row.Path)
			}
			if err != nil {
				return apperr.Wrap(apperr.GeneralFailure, msgAttachmentFail, err)
			}
			if err := tx.CreateAttachment(ctx, row); err != nil {
				return err
			}
			complaint.Attachments = append(complaint.Attachments, *row)
		}
		return nil
	})
	if err != nil {
		s.discard(ctx, written)
		if errors.Is(err, storage.ErrForeignKey) {
			return nil, apperr.Wrap(apperr.NotFound, msgMissingRef, err)
		}
		return nil, err
	}

	log.Printf("INFO: Complaint %d stored for user %d with %d attachment(s)", complaint.ID, complaint.UserID, len(complaint.Attachments))
	return complaint, nil
}

func (s *Service) checkReferences(ctx context.Context, data SubmissionData) error {
	fields := make(map[string][]string)

	ok, err := s.Storage.DestinationExists(ctx, data.DestinationID)
	if err != nil {
		return fmt.Errorf("check destination: %w", err)
	}
	if !ok {
		fields["destination_id"] = []string{"The selected destination id is invalid."}
	}

	ok, err = s.Storage.ComplaintCategoryExists(ctx, data.CategoryID)
	if err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !ok {
		fields["category_id"] = []string{"The selected category id is invalid."}
	}

	if data.TypeID != nil {
		ok, err = s.Storage.ComplaintTypeExists(ctx, *data.TypeID)
		if err != nil {
			return fmt.Errorf("check type: %w", err)
		}
		if !ok {
			fields["type_id"] = []string{"The selected type id is invalid."}
		}
	}

	if len(fields) > 0 {
		return apperr.Fields(msgInvalidRefs, fields)
	}
	return nil
}

// storeFile writes one upload to the disk. The returned row is non-nil once
// the file exists on the disk.
func (s *Service) storeFile(ctx context.Context, complaint *models.Complaint, fh *multipart.FileHeader) (*models.Attachment, error) {
	detected, err := attachment.DetectContentType(fh)
	if err != nil {
		return nil, fmt.Errorf("sniff %s: %w", fh.Filename, err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	path := attachment.Path(complaint.UserID, complaint.ID, attachment.Extension(fh.Filename))
	contentType := strings.SplitN(detected.String(), ";", 2)[0]
	if err := s.Disk.Put(ctx, path, f, fh.Size, contentType); err != nil {
		return nil, err
	}

	return &models.Attachment{
		ComplaintID:  complaint.ID,
		UserID:       complaint.UserID,
		Disk:         s.Disk.Name(),
		Path:         path,
		OriginalName: fh.Filename,
		MimeType:     contentType,
		Size:         fh.Size,
	}, nil
}

func (s *Service) discard(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := s.Disk.Delete(context.WithoutCancel(ctx), p); err != nil {
			log.Printf("ERROR: Failed to delete orphaned attachment %s: %v", p, err)
		}
	}
}

// Configs returns the reference lists, each ordered by id.
func (s *Service) Configs(ctx context.Context) (*Configs, error) {
	types, err := s.Storage.ListComplaintTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list complaint types: %w", err)
	}
	destinations, err := s.Storage.ListDestinations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list destinations: %w", err)
	}
	categories, err := s.Storage.ListComplaintCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return &Configs{
		ComplaintTypes:       types,
		Destinations:         destinations,
		CompetentAuthorities: categories,
	}, nil
}

// Search returns the complaint projection when the owner's email and phone
// both match the query and, for an authenticated caller, the caller owns the
// complaint. Every mismatch reports the same authorization failure.
func (s *Service) Search(ctx context.Context, q SearchQuery, callerID *uint) (*SearchResult, error) {
	complaint, err := s.Storage.FindComplaintWithOwner(ctx, q.ComplaintNumber)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, msgNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find complaint: %w", err)
	}

	owner := complaint.User
	emailMatches := owner.Email == models.NormalizeEmail(q.Email)
	phoneMatches := owner.PhoneNumber == strings.TrimSpace(q.PhoneNumber)
	callerMatches := callerID == nil || *callerID == complaint.UserID
	if !emailMatches || !phoneMatches || !callerMatches {
		return nil, apperr.New(apperr.Authorization, msgNotPermitted)
	}

	return &SearchResult{
		ComplaintNumber: complaint.ID,
		Email:           owner.Email,
		PhoneNumber:     owner.PhoneNumber,
	}, nil
}

// Show returns a complaint with its attachments to its owner.
func (s *Service) Show(ctx context.Context, id, callerID uint) (*models.Complaint, error) {
	complaint, err := s.Storage.FindComplaintDetails(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.New(apperr.NotFound, msgNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find complaint: %w", err)
	}
	if complaint.UserID != callerID {
		return nil, apperr.New(apperr.Authorization, msgNotPermitted)
	}
	return complaint, nil
}
