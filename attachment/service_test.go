package attachment

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func newTestService(t *testing.T) (*Service, *fakeAttRepo) {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	repo := &fakeAttRepo{byID: map[string]Attachment{}}
	return NewService(repo, store), repo
}

func TestUpload(t *testing.T) {
	svc, repo := newTestService(t)

	att, err := svc.Upload(context.Background(), UploadParams{
		ComplaintID:  "c-1",
		UploaderID:   "user-1",
		OriginalName: "receipt.pdf",
		ContentType:  "application/pdf",
		Size:         11,
		Body:         strings.NewReader("hello world"),
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if att.OriginalName != "receipt.pdf" {
		t.Errorf("expected original name preserved, got %q", att.OriginalName)
	}
	if att.Size != 11 {
		t.Errorf("expected size 11, got %d", att.Size)
	}
	stored := repo.byID[att.ID].StoredName
	if stored == "" || stored == "receipt.pdf" {
		t.Errorf("expected uuid-derived stored name, got %q", stored)
	}
	if !strings.HasSuffix(stored, ".pdf") {
		t.Errorf("expected extension kept on disk, got %q", stored)
	}
}

func TestUpload_RejectsBadType(t *testing.T) {
	svc, repo := newTestService(t)

	for _, name := range []string{"script.exe", "notes.txt", "archive.zip", "noextension", ""} {
		_, err := svc.Upload(context.Background(), UploadParams{
			OriginalName: name,
			Body:         strings.NewReader("x"),
		})
		if !errors.Is(err, ErrBadFileType) {
			t.Errorf("%q: expected ErrBadFileType, got %v", name, err)
		}
	}
	if len(repo.byID) != 0 {
		t.Errorf("expected no rows written")
	}
}

func TestUpload_RejectsOversizeDeclared(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Upload(context.Background(), UploadParams{
		OriginalName: "big.png",
		Size:         MaxFileSize + 1,
		Body:         strings.NewReader("x"),
	})
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestUpload_RejectsOversizeStream(t *testing.T) {
	svc, repo := newTestService(t)

	// Declared size lies; the stream itself is over the cap.
	body := bytes.NewReader(make([]byte, MaxFileSize+1))
	_, err := svc.Upload(context.Background(), UploadParams{
		OriginalName: "big.png",
		Size:         100,
		Body:         body,
	})
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if len(repo.byID) != 0 {
		t.Errorf("expected no rows written")
	}
}

func TestDownloadRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	content := "jpeg bytes here"
	att, err := svc.Upload(context.Background(), UploadParams{
		ComplaintID:  "c-1",
		OriginalName: "photo.jpg",
		Size:         int64(len(content)),
		Body:         strings.NewReader(content),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	got, rc, err := svc.Download(context.Background(), att.ID)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != content {
		t.Errorf("expected %q, got %q", content, data)
	}
	if got.OriginalName != "photo.jpg" {
		t.Errorf("expected original name in download, got %q", got.OriginalName)
	}
}

func TestPurgeAll(t *testing.T) {
	svc, repo := newTestService(t)

	att, err := svc.Upload(context.Background(), UploadParams{
		OriginalName: "a.png",
		Size:         1,
		Body:         strings.NewReader("x"),
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	stored := repo.byID[att.ID].StoredName

	if err := svc.PurgeAll(context.Background()); err != nil {
		t.Fatalf("PurgeAll: %v", err)
	}
	if len(repo.byID) != 0 {
		t.Errorf("expected rows purged")
	}
	if _, err := svc.store.Open(stored); err == nil {
		t.Errorf("expected file removed from disk")
	}
}

type fakeAttRepo struct {
	byID map[string]Attachment
	seq  int
}

func (f *fakeAttRepo) Create(ctx context.Context, params CreateParams) (Attachment, error) {
	f.seq++
	att := Attachment{
		ID:           "att-" + string(rune('0'+f.seq)),
		ComplaintID:  params.ComplaintID,
		StoredName:   params.StoredName,
		OriginalName: params.OriginalName,
		ContentType:  params.ContentType,
		Size:         params.Size,
		UploadedBy:   params.UploadedBy,
	}
	f.byID[att.ID] = att
	return att, nil
}

func (f *fakeAttRepo) GetByID(ctx context.Context, id string) (Attachment, error) {
	att, ok := f.byID[id]
	if !ok {
		return Attachment{}, ErrNotFound
	}
	return att, nil
}

func (f *fakeAttRepo) ListByComplaint(ctx context.Context, complaintID string) ([]Attachment, error) {
	var out []Attachment
	for _, att := range f.byID {
		if att.ComplaintID == complaintID {
			out = append(out, att)
		}
	}
	return out, nil
}

func (f *fakeAttRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeAttRepo) ListAll(ctx context.Context) ([]Attachment, error) {
	var out []Attachment
	for _, att := range f.byID {
		out = append(out, att)
	}
	return out, nil
}

func (f *fakeAttRepo) DeleteAll(ctx context.Context) error {
	f.byID = map[string]Attachment{}
	return nil
}
