package service

import (
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"chat_app/internal/config"
	"chat_app/internal/domain"
	"chat_app/pkg/errors"
	"chat_app/pkg/logger"
)

// StorageService сохраняет загруженные файлы на диск.
// Принимаются только изображения, имена генерируются уникальными.
type StorageService interface {
	SaveMessageFile(file *multipart.FileHeader) (*domain.FileMeta, error)
	SaveAvatar(file *multipart.FileHeader) (string, error)
}

type storageService struct {
	cfg config.UploadConfig
	log logger.Logger
}

func NewStorageService(cfg config.UploadConfig, log logger.Logger) (StorageService, error) {
	for _, dir := range []string{cfg.MessagesDir, cfg.AvatarsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
		}
	}

	return &storageService{cfg: cfg, log: log}, nil
}

func (s *storageService) SaveMessageFile(file *multipart.FileHeader) (*domain.FileMeta, error) {
	name, err := s.save(file, s.cfg.MessagesDir)
	if err != nil {
		return nil, err
	}

	return &domain.FileMeta{
		URL:  "/uploads/messages/" + name,
		Name: file.Filename,
		Type: file.Header.Get("Content-Type"),
		Size: file.Size,
	}, nil
}

func (s *storageService) SaveAvatar(file *multipart.FileHeader) (string, error) {
	name, err := s.save(file, s.cfg.AvatarsDir)
	if err != nil {
		return "", err
	}
	return "/uploads/avatars/" + name, nil
}

func (s *storageService) save(file *multipart.FileHeader, dir string) (string, error) {
	if file == nil {
		return "", errors.ErrInvalidInput
	}
	if file.Size <= 0 || file.Size > s.cfg.MaxFileSize {
		return "", errors.ErrInvalidInput
	}
	if !strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		return "", errors.ErrInvalidInput
	}

	src, err := file.Open()
	if err != nil {
		s.log.Error("Failed to open uploaded file", "error", err, "name", file.Filename)
		return "", err
	}
	defer src.Close()

	ext := filepath.Ext(file.Filename)
	name := fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Intn(1e9), ext)

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		s.log.Error("Failed to create file", "error", err, "name", name)
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		s.log.Error("Failed to write file", "error", err, "name", name)
		return "", err
	}

	return name, nil
}
