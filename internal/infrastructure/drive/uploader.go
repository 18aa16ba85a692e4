package drive

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

// Uploader uploads finished videos to Google Drive.
type Uploader struct {
	srv      *gdrive.Service
	folderID string
}

func NewUploader(srv *gdrive.Service, folderID string) *Uploader {
	return &Uploader{srv: srv, folderID: folderID}
}

// UploadFile uploads localPath into the configured folder under its base name.
// Returns fileID and webViewLink.
func (u *Uploader) UploadFile(ctx context.Context, localPath string) (string, string, error) {
	dstFileName := filepath.Base(localPath)
	f, err := os.Open(localPath)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	mimeType := mime.TypeByExtension(filepath.Ext(dstFileName))
	if mimeType == "" {
		mimeType = "video/mp4"
	}

	file := &gdrive.File{
		Name:     dstFileName,
		MimeType: mimeType,
	}
	if u.folderID != "" {
		file.Parents = []string{u.folderID}
	}

	mediaOpts := []googleapi.MediaOption{googleapi.ChunkSize(8 * 1024 * 1024), googleapi.ContentType(mimeType)}
	created, err := u.srv.Files.Create(file).Context(ctx).Media(f, mediaOpts...).Do()
	if err != nil {
		return "", "", fmt.Errorf("drive upload failed: %w", err)
	}

	// webViewLink is not part of the create response by default
	got, err := u.srv.Files.Get(created.Id).Fields("id,webViewLink").Context(ctx).Do()
	if err != nil {
		return created.Id, "", nil
	}
	return got.Id, got.WebViewLink, nil
}
