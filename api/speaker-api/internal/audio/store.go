// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_audio

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rapidaai/speaker/config"
	"github.com/rapidaai/speaker/pkg/commons"
)

// Store keeps synthesized audio on disk for the lifetime of one request.
type Store interface {
	Save(ctx context.Context, data []byte) (string, error)
	ReadBase64(path string) (string, error)
	Remove(path string) error
}

type fileStore struct {
	logger commons.Logger
	config config.AudioConfig
}

func NewFileStore(logger commons.Logger, cfg config.AudioConfig) Store {
	return &fileStore{logger: logger, config: cfg}
}

func (s *fileStore) Save(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.config.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("speaker-audio: unable to create %s: %w", s.config.OutputDir, err)
	}
	path := filepath.Join(s.config.OutputDir, uuid.NewString()+".wav")
	if err := os.WriteFile(path, EnsureWAV(data, s.config), 0o644); err != nil {
		return "", fmt.Errorf("speaker-audio: unable to write %s: %w", path, err)
	}
	s.logger.Debugf("speaker-audio: saved %d bytes to %s", len(data), path)
	return path, nil
}

func (s *fileStore) ReadBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("speaker-audio: unable to read %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Remove deletes path. A file that is already gone is not an error.
func (s *fileStore) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("speaker-audio: unable to remove %s: %w", path, err)
	}
	return nil
}
