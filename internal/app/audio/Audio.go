package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"meeting-whisper/internal/app/api"
)

// mimeTypes maps the audio extensions the service accepts to their mime type.
var mimeTypes = map[string]string{
	".mp3":  "audio/mpeg",
	".m4a":  "audio/mp4",
	".wav":  "audio/wav",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".webm": "audio/webm",
}

// Asset is an immutable handle to an audio file with a known duration in
// seconds. Slices produced from an asset are independent temp files.
type Asset struct {
	Path     string
	Duration float64

	temp bool
}

// MimeType returns the mime type for a service-compatible audio file path,
// or an error when the extension is not recognized.
func MimeType(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	mime, ok := mimeTypes[ext]
	if !ok {
		return "", &api.UnsupportedFormatError{Format: ext}
	}
	return mime, nil
}

// LoadAsset probes the file with ffprobe and returns an asset handle.
func LoadAsset(ctx context.Context, path string) (*Asset, error) {
	if _, err := MimeType(path); err != nil {
		return nil, err
	}

	duration, err := probeDuration(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to probe %s: %w", path, err)
	}

	return &Asset{Path: path, Duration: duration}, nil
}

func probeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe", "-v", "error", "-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1", path)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe error: %w", err)
	}
	return ParseDuration(string(output))
}

// ParseDuration parses ffprobe's duration output into seconds.
func ParseDuration(output string) (float64, error) {
	duration, err := strconv.ParseFloat(strings.TrimSpace(output), 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable ffprobe duration %q: %w", strings.TrimSpace(output), err)
	}
	return duration, nil
}

// Slice extracts [start, end) seconds into a new temp mp3 asset.
// The caller owns the returned asset and should Remove it when done.
func (a *Asset) Slice(ctx context.Context, start, end float64) (*Asset, error) {
	if start < 0 || end <= start {
		return nil, api.NewInvalidInputError("invalid slice interval [%.2f, %.2f)", start, end)
	}

	out, err := os.CreateTemp("", "m2t_slice_*.mp3")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp slice file: %w", err)
	}
	out.Close()

	cmd := exec.CommandContext(ctx, "ffmpeg", "-y",
		"-ss", formatSeconds(start),
		"-to", formatSeconds(end),
		"-i", a.Path,
		"-vn", "-acodec", "libmp3lame",
		out.Name())

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(out.Name())
		return nil, fmt.Errorf("FFmpeg error: %v, stderr: %s", err, stderr.String())
	}

	return &Asset{Path: out.Name(), Duration: end - start, temp: true}, nil
}

// Export reads the asset's encoded bytes and reports their mime type.
func (a *Asset) Export() ([]byte, string, error) {
	mime, err := MimeType(a.Path)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(a.Path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read audio file %s: %w", a.Path, err)
	}
	return data, mime, nil
}

// Remove deletes the backing file of a temp asset. Removing a source asset is
// a no-op.
func (a *Asset) Remove() {
	if a.temp {
		os.Remove(a.Path)
	}
}

func formatSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64)
}
