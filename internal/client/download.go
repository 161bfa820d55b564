package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// SanitizeFilename strips path-unsafe characters from a file name destined
// for the local filesystem. Falls back to "download" when nothing survives.
func SanitizeFilename(name string) string {
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "download"
	}
	return name
}

// Download streams GET /{resource}/{id}/download into dir, named after the
// sanitized fileName, and returns the path of the written file.
func (t *Transport) Download(ctx context.Context, resource, id, dir, fileName string) (string, error) {
	req, err := t.newRequest(ctx, http.MethodGet, "/"+resource+"/"+id+"/download", nil, nil)
	if err != nil {
		return "", err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return "", &ServerError{Status: resp.StatusCode}
	case resp.StatusCode >= 400:
		return "", classifyClientError(req, resp)
	}

	path := filepath.Join(dir, SanitizeFilename(fileName))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
