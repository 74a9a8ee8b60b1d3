package attachment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const MaxFileSize = 5 << 20

var (
	ErrTooLarge    = errors.New("attachment: file exceeds 5 MiB limit")
	ErrBadFileType = errors.New("attachment: only images and PDF files are accepted")
)

// extension allowlist; content type is recorded but the extension decides.
var allowedExtensions = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type Service struct {
	repo  Repository
	store *FileStore
}

func NewService(repo Repository, store *FileStore) *Service {
	return &Service{repo: repo, store: store}
}

type UploadParams struct {
	ComplaintID  string
	UploaderID   string
	OriginalName string
	ContentType  string
	Size         int64
	Body         io.Reader
}

// Upload validates, stores the file on disk, then records the row. The size
// check also guards the copy itself so a lying Content-Length cannot push
// past the limit.
func (s *Service) Upload(ctx context.Context, params UploadParams) (Attachment, error) {
	if params.OriginalName == "" {
		return Attachment{}, fmt.Errorf("%w: missing filename", ErrBadFileType)
	}
	ext := strings.ToLower(filepath.Ext(params.OriginalName))
	if !allowedExtensions[ext] {
		return Attachment{}, ErrBadFileType
	}
	if params.Size > MaxFileSize {
		return Attachment{}, ErrTooLarge
	}

	limited := &limitedReader{r: params.Body, remaining: MaxFileSize}
	storedName, err := s.store.Save(limited, params.OriginalName)
	if err != nil {
		return Attachment{}, err
	}
	if limited.exceeded {
		s.store.Remove(storedName)
		return Attachment{}, ErrTooLarge
	}

	att, err := s.repo.Create(ctx, CreateParams{
		ComplaintID:  params.ComplaintID,
		StoredName:   storedName,
		OriginalName: params.OriginalName,
		ContentType:  params.ContentType,
		Size:         limited.read,
		UploadedBy:   params.UploaderID,
	})
	if err != nil {
		s.store.Remove(storedName)
		return Attachment{}, err
	}
	return att, nil
}

func (s *Service) ListByComplaint(ctx context.Context, complaintID string) ([]Attachment, error) {
	return s.repo.ListByComplaint(ctx, complaintID)
}

// Download returns the attachment metadata and an open reader over its
// content. The caller closes the reader.
func (s *Service) Download(ctx context.Context, id string) (Attachment, io.ReadCloser, error) {
	att, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Attachment{}, nil, err
	}
	rc, err := s.store.Open(att.StoredName)
	if err != nil {
		return Attachment{}, nil, err
	}
	return att, rc, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	att, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	return s.store.Remove(att.StoredName)
}

// PurgeAll removes every attachment row and its file. Used by the admin
// data reset.
func (s *Service) PurgeAll(ctx context.Context) error {
	atts, err := s.repo.ListAll(ctx)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteAll(ctx); err != nil {
		return err
	}
	for _, att := range atts {
		if err := s.store.Remove(att.StoredName); err != nil {
			return err
		}
	}
	return nil
}

// limitedReader mirrors io.LimitReader but remembers whether the source had
// more data than the cap.
type limitedReader struct {
	r         io.Reader
	remaining int64
	read      int64
	exceeded  bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		// Read one extra byte to distinguish exactly-at-limit from over.
		var extra [1]byte
		n, err := l.r.Read(extra[:])
		if n > 0 {
			l.exceeded = true
		}
		if err == nil {
			err = io.EOF
		}
		return 0, err
	}
	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	l.read += int64(n)
	return n, err
}
