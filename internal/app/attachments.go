package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/hylla/todoboard/internal/domain"
)

// AttachmentInfo describes a candidate file without holding its bytes.
type AttachmentInfo struct {
	Name      string
	Path      string
	Size      int64
	MediaType string
	Accepted  bool
}

// HumanSize returns the size formatted for display.
func (i AttachmentInfo) HumanSize() string {
	return humanize.IBytes(uint64(max(i.Size, 0)))
}

// AttachmentService selects, removes, and downloads task attachments.
type AttachmentService struct {
	downloadDir string
	logger      Logger
}

// NewAttachmentService constructs a new value for this package.
func NewAttachmentService(downloadDir string, logger Logger) *AttachmentService {
	if logger == nil {
		logger = nopLogger{}
	}
	return &AttachmentService{
		downloadDir: strings.TrimSpace(downloadDir),
		logger:      logger,
	}
}

// Check stats path and sniffs its media type from the file header.
func (s *AttachmentService) Check(path string) (AttachmentInfo, error) {
	path = strings.TrimSpace(path)
	stat, err := os.Stat(path)
	if err != nil {
		return AttachmentInfo{}, fmt.Errorf("stat attachment: %w", err)
	}
	if !stat.Mode().IsRegular() {
		return AttachmentInfo{}, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}
	info := AttachmentInfo{
		Name: filepath.Base(path),
		Path: path,
		Size: stat.Size(),
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return AttachmentInfo{}, fmt.Errorf("detect media type: %w", err)
	}
	info.MediaType = mt.String()
	if err := domain.ValidateAttachmentSize(info.Size); err != nil {
		return info, err
	}
	info.Accepted = true
	return info, nil
}

// Select loads the file at path as an attachment. Oversized files are
// rejected before their bytes are read and return the destructive notice
// together with an error wrapping domain.ErrAttachmentTooLarge.
func (s *AttachmentService) Select(path string) (domain.Attachment, *domain.Notification, error) {
	path = strings.TrimSpace(path)
	stat, err := os.Stat(path)
	if err != nil {
		return domain.Attachment{}, nil, fmt.Errorf("stat attachment: %w", err)
	}
	if !stat.Mode().IsRegular() {
		return domain.Attachment{}, nil, fmt.Errorf("%w: %s", ErrNotAFile, path)
	}
	if err := domain.ValidateAttachmentSize(stat.Size()); err != nil {
		s.logger.Warn("attachment rejected", "path", path, "size", stat.Size())
		return domain.Attachment{}, NoticeFileTooLarge(), err
	}

	f, err := os.Open(path)
	if err != nil {
		return domain.Attachment{}, nil, fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()
	// Read one byte past the limit in case the file grew after stat.
	data, err := io.ReadAll(io.LimitReader(f, domain.MaxAttachmentSize+1))
	if err != nil {
		return domain.Attachment{}, nil, fmt.Errorf("read attachment: %w", err)
	}

	attachment, err := domain.NewAttachment(path, mimetype.Detect(data).String(), data)
	if err != nil {
		if errors.Is(err, domain.ErrAttachmentTooLarge) {
			s.logger.Warn("attachment rejected", "path", path, "size", len(data))
			return domain.Attachment{}, NoticeFileTooLarge(), err
		}
		return domain.Attachment{}, nil, err
	}
	s.logger.Debug("attachment selected", "name", attachment.Name, "media_type", attachment.MediaType, "size", attachment.Size())
	return attachment, NoticeFileAttached(attachment.Name), nil
}

// Remove reports the removal of a staged attachment.
func (s *AttachmentService) Remove(attachment domain.Attachment) *domain.Notification {
	s.logger.Debug("attachment removed", "name", attachment.Name)
	return NoticeFileRemoved()
}

// Download writes the attachment into the download directory without
// overwriting existing files and returns the written path.
func (s *AttachmentService) Download(attachment domain.Attachment) (string, *domain.Notification, error) {
	if s.downloadDir == "" {
		return "", nil, ErrNoDownloadTarget
	}
	if err := attachment.Validate(); err != nil {
		return "", nil, err
	}
	if err := os.MkdirAll(s.downloadDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("create download dir: %w", err)
	}

	name := filepath.Base(attachment.Name)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for attempt := 0; attempt < 1000; attempt++ {
		candidate := name
		if attempt > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, attempt, ext)
		}
		path := filepath.Join(s.downloadDir, candidate)
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", nil, fmt.Errorf("create download file: %w", err)
		}
		if _, err := f.Write(attachment.Data); err != nil {
			_ = f.Close()
			return "", nil, fmt.Errorf("write download file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", nil, fmt.Errorf("close download file: %w", err)
		}
		s.logger.Info("attachment downloaded", "name", attachment.Name, "path", path)
		return path, NoticeFileDownloaded(attachment.Name), nil
	}
	return "", nil, fmt.Errorf("no free file name for %q in %s", name, s.downloadDir)
}
