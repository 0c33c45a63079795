package models

import "fmt"

// UploadedFile is an in-memory document. It lives for the duration of a
// single request or staging session and is never written to disk.
type UploadedFile struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MIMEType string `json:"mime_type"`
	Content  []byte `json:"-"`
}

// FormatFileSize renders a byte count for display (e.g. "1.5 MB").
func FormatFileSize(bytes int64) string {
	if bytes == 0 {
		return "0 Bytes"
	}

	const unit = 1024
	sizes := []string{"Bytes", "KB", "MB", "GB"}

	size := float64(bytes)
	i := 0
	for size >= unit && i < len(sizes)-1 {
		size /= unit
		i++
	}

	if i == 0 {
		return fmt.Sprintf("%d %s", bytes, sizes[i])
	}
	return fmt.Sprintf("%.2f %s", size, sizes[i])
}
