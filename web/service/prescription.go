package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"rx-vault/database/model"

	"github.com/google/uuid"
)

// allowedExtensions is the upload allow-list. Everything else is rejected
// before any network call.
var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"webp": true,
}

// ObjectStore is the slice of the storage client the prescription service
// needs.
type ObjectStore interface {
	Upload(ctx context.Context, key string, contentType string, data []byte) error
	PublicURL(key string) string
}

// PrescriptionStore is the slice of the database client the prescription
// service needs.
type PrescriptionStore interface {
	CreatePrescription(ctx context.Context, p *model.Prescription) error
	ListPrescriptions(ctx context.Context) ([]model.PrescriptionItem, error)
}

// PrescriptionService validates uploads, proxies the image bytes to object
// storage and records the metadata row.
type PrescriptionService struct {
	store ObjectStore
	db    PrescriptionStore
}

func NewPrescriptionService(store ObjectStore, db PrescriptionStore) *PrescriptionService {
	return &PrescriptionService{store: store, db: db}
}

// Upload validates the form input, writes the image under a fresh storage key
// and inserts the prescription row. A successful storage write followed by a
// failed insert leaves an orphaned object; no cleanup is attempted.
func (s *PrescriptionService) Upload(ctx context.Context, userId int64, date, filename, contentType string, data []byte) (*model.Prescription, error) {
	date = strings.TrimSpace(date)

	if date == "" {
		return nil, ValidationError("Please select a date.")
	}
	if filename == "" {
		return nil, ValidationError("Please choose an image file.")
	}
	if !allowedFile(filename) {
		return nil, ValidationError("Only PNG, JPG, JPEG, or WEBP files are allowed.")
	}
	if len(data) == 0 {
		return nil, ValidationError("Uploaded file is empty.")
	}

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("%d/%s_%s", userId, newToken(), sanitizeFilename(filename))

	if err := s.store.Upload(ctx, key, contentType, data); err != nil {
		return nil, err
	}

	p := &model.Prescription{
		UserId:           userId,
		PrescriptionDate: date,
		ImagePath:        key,
		ImageUrl:         s.store.PublicURL(key),
	}
	if err := s.db.CreatePrescription(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns every prescription, newest date first, with uploader info.
// There is no per-user filter: every authenticated user sees every row.
func (s *PrescriptionService) List(ctx context.Context) ([]model.PrescriptionItem, error) {
	return s.db.ListPrescriptions(ctx)
}

// allowedFile reports whether the filename carries an allow-listed extension.
func allowedFile(filename string) bool {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 {
		return false
	}
	return allowedExtensions[strings.ToLower(filename[idx+1:])]
}

// newToken returns 32 hex characters, making each storage key unique.
func newToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// sanitizeFilename strips path components and collapses anything outside
// ASCII alphanumerics, dot, underscore and dash. An empty result falls back
// to "file" so the storage key stays well formed.
func sanitizeFilename(filename string) string {
	// Drop any client-supplied directory part, whichever separator style.
	if idx := strings.LastIndexAny(filename, `/\`); idx >= 0 {
		filename = filename[idx+1:]
	}
	filename = unsafeFilenameChars.ReplaceAllString(filename, "_")
	filename = strings.Trim(filename, "._-")
	if filename == "" {
		return "file"
	}
	return filename
}
