// Copyright 2026 Dominik Schlosser
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package qr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	ErrScreenUnsupported = errors.New("screen capture is only supported on macOS; pass --image instead")
	ErrCaptureCancelled  = errors.New("screen capture cancelled")
	ErrCapturePermission = errors.New("screen recording permission denied; grant access to your terminal in System Settings and retry")
)

const screenRecordingPane = "x-apple.systempreferences:com.apple.preference.security?Privacy_ScreenCapture"

// ScanScreen lets the user select a screen region with the macOS capture
// tool and decodes the QR code in it. The capture is read back into memory
// before the temp directory is removed.
func ScanScreen(ctx context.Context) (string, error) {
	if runtime.GOOS != "darwin" {
		return "", ErrScreenUnsupported
	}

	dir, err := os.MkdirTemp("", "healthpass-qr-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	capture := filepath.Join(dir, "capture.png")
	if err := runCapture(ctx, capture); err != nil {
		return "", err
	}

	data, err := os.ReadFile(capture)
	if errors.Is(err, os.ErrNotExist) {
		// Escape in the selector exits cleanly without writing a file.
		return "", ErrCaptureCancelled
	}
	if err != nil {
		return "", fmt.Errorf("reading capture: %w", err)
	}
	return Scan(bytes.NewReader(data))
}

func runCapture(ctx context.Context, path string) error {
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "screencapture", "-i", path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if isPermissionError(msg) {
			_ = exec.Command("open", screenRecordingPane).Run()
			return ErrCapturePermission
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("screencapture failed: %s", msg)
	}
	return nil
}

func isPermissionError(stderr string) bool {
	return strings.Contains(stderr, "cannot capture") || strings.Contains(stderr, "image from rect")
}
