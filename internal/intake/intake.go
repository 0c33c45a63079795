// Package intake stages files for an analysis session. It is pure state:
// no I/O and no network, just validation and an ordered batch.
package intake

import (
	"path/filepath"
	"strings"

	"cv-matcher/internal/models"
)

// Widget holds an ordered batch of staged files, admitting only those that
// pass its type and size predicates and never growing past MaxFiles.
type Widget struct {
	acceptedTypes []string // MIME types or ".ext" extensions; empty accepts anything
	maxFiles      int
	maxFileSize   int64
	files         []models.UploadedFile
	onChange      func([]models.UploadedFile)
}

func NewWidget(acceptedTypes []string, maxFiles int, maxFileSize int64) *Widget {
	return &Widget{
		acceptedTypes: acceptedTypes,
		maxFiles:      maxFiles,
		maxFileSize:   maxFileSize,
	}
}

// OnChange registers a callback invoked with a snapshot of the batch after
// every successful add or remove.
func (w *Widget) OnChange(fn func([]models.UploadedFile)) {
	w.onChange = fn
}

// Validate reports whether a file passes the type and size predicates.
// It carries no state, so re-validating an admitted file always succeeds.
func (w *Widget) Validate(file models.UploadedFile) bool {
	if file.Size > w.maxFileSize {
		return false
	}
	if len(w.acceptedTypes) == 0 {
		return true
	}

	ext := strings.ToLower(filepath.Ext(file.Name))
	for _, accepted := range w.acceptedTypes {
		if strings.HasPrefix(accepted, ".") {
			if ext == strings.ToLower(accepted) {
				return true
			}
		} else if strings.EqualFold(file.MIMEType, accepted) {
			return true
		}
	}
	return false
}

// Add admits each candidate that validates, in order, until the batch is
// full. Files beyond capacity are dropped from the incoming batch; already
// staged files are never evicted. Returns the number admitted.
func (w *Widget) Add(files ...models.UploadedFile) int {
	admitted := 0
	for _, file := range files {
		if len(w.files) >= w.maxFiles {
			break
		}
		if !w.Validate(file) {
			continue
		}
		w.files = append(w.files, file)
		admitted++
	}

	if admitted > 0 {
		w.notify()
	}
	return admitted
}

// Remove drops the file at index, preserving the order of the rest.
// An out-of-range index is a no-op.
func (w *Widget) Remove(index int) {
	if index < 0 || index >= len(w.files) {
		return
	}
	w.files = append(w.files[:index], w.files[index+1:]...)
	w.notify()
}

// Files returns a copy of the staged batch in staging order.
func (w *Widget) Files() []models.UploadedFile {
	out := make([]models.UploadedFile, len(w.files))
	copy(out, w.files)
	return out
}

func (w *Widget) Len() int {
	return len(w.files)
}

func (w *Widget) notify() {
	if w.onChange != nil {
		w.onChange(w.Files())
	}
}
