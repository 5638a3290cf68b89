package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// ExportURLTTL is how long an export download link stays valid
const ExportURLTTL = time.Hour

// ProfileExport describes a written snapshot of the admin listing
type ProfileExport struct {
	Key  string `json:"key"`
	URL  string `json:"url"`
	Rows int    `json:"rows"`
}

// ExportService snapshots the profile listing into object storage
type ExportService struct {
	profiles ProfileStore
	storage  ObjectStorage
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService wires the export. A nil storage disables it.
func NewExportService(profiles ProfileStore, storage ObjectStorage, logger *zap.Logger) *ExportService {
	return &ExportService{profiles: profiles, storage: storage, logger: logger, now: time.Now}
}

// Export writes the listing as CSV and returns a download link
func (s *ExportService) Export(ctx context.Context) (*ProfileExport, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}

	summaries, err := s.profiles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "role", "nickname"}); err != nil {
		return nil, err
	}
	for _, p := range summaries {
		if err := w.Write([]string{p.ID, p.DisplayRole(), p.DisplayNickname()}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}

	key := fmt.Sprintf("exports/profiles-%d.csv", s.now().Unix())
	if err := s.storage.PutObject(ctx, key, buf.Bytes(), "text/csv"); err != nil {
		return nil, err
	}

	url, err := s.storage.PresignGet(ctx, key, ExportURLTTL)
	if err != nil {
		return nil, err
	}

	s.logger.Info("profile export written", zap.String("key", key), zap.Int("rows", len(summaries)))
	return &ProfileExport{Key: key, URL: url, Rows: len(summaries)}, nil
}
