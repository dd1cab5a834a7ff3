// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage holds the media object backends: an S3-compatible bucket
// (AWS SDK v2) and a local directory served by the API itself. Both hand
// out addressable URLs for stored keys.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Backend stores media bytes under a key and resolves keys to URLs.
type Backend interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

var (
	_ Backend = (*S3)(nil)
	_ Backend = (*Local)(nil)
)

// Local stores objects as files below Root. URLs are host-relative
// (Prefix + "/" + key); the HTTP layer makes them absolute per request.
type Local struct {
	Root   string
	Prefix string
}

// NewLocal creates the root directory if needed.
func NewLocal(root, prefix string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create media root: %w", err)
	}
	prefix = "/" + strings.Trim(prefix, "/")
	return &Local{Root: root, Prefix: prefix}, nil
}

// Put writes body to Root/key, creating parent directories.
func (l *Local) Put(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	dst, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("local storage mkdir: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("local storage create %s: %w", key, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return fmt.Errorf("local storage write %s: %w", key, err)
	}
	return f.Close()
}

// Delete removes Root/key. Missing files are not an error.
func (l *Local) Delete(_ context.Context, key string) error {
	dst, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("local storage delete %s: %w", key, err)
	}
	return nil
}

// URL returns the host-relative URL for key.
func (l *Local) URL(key string) string {
	return path.Join(l.Prefix, key)
}

// Dir returns the directory served under Prefix.
func (l *Local) Dir() string {
	return l.Root
}

// path maps a key to a file path, rejecting keys that escape Root.
func (l *Local) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("local storage: invalid key %q", key)
	}
	return filepath.Join(l.Root, filepath.FromSlash(clean)), nil
}
