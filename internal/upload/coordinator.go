// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

/*
Package upload coordinates multipart media uploads for entity mutations.

Given the entity's current URLs, the incoming file parts and the per-field
policies, it produces the final URL values to persist while guaranteeing:

  - no blob is written before every file in the batch has been validated,
  - independent fields upload concurrently and all settle before returning,
  - a partially successful batch is compensated (succeeded blobs deleted)
    before the error is surfaced, so failed mutations never orphan blobs,
  - replaced and cleared URLs are reported back so callers can delete the
    old blobs after their transaction commits, so updates never leak blobs.
*/
package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/platform/constants"
	"github.com/dramirezb/cinemateca/internal/platform/ctxutil"
	"github.com/dramirezb/cinemateca/internal/storage"
)

// # Field Policies

// Kind selects the validation allow-list for a file field.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Disjoint allow-lists per kind. A video can never land in an image field.
var (
	imageMIMETypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/webp": true,
		"image/gif":  true,
	}
	imageExtensions = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
	}

	videoMIMETypes = map[string]bool{
		"video/mp4":       true,
		"video/webm":      true,
		"video/quicktime": true,
	}
	videoExtensions = map[string]bool{
		".mp4": true, ".webm": true, ".mov": true,
	}
)

// FieldSpec is the upload policy of one named file field.
type FieldSpec struct {
	// Name is the multipart field name, e.g. "coverUrl".
	Name string
	// Folder is the bucket folder the blob lands in, e.g. "movies/covers".
	Folder string
	// Kind picks the MIME/extension allow-list.
	Kind Kind
	// MaxBytes caps the file size; zero applies the kind default.
	MaxBytes int64
}

func (spec FieldSpec) maxBytes() int64 {
	if spec.MaxBytes > 0 {
		return spec.MaxBytes
	}
	if spec.Kind == KindVideo {
		return constants.MaxVideoBytes
	}
	return constants.MaxImageBytes
}

// FileInput is one in-memory multipart file part.
type FileInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

// # Coordinator

// Resolution is the outcome of a successful Apply.
type Resolution struct {
	// URLs holds the final value for every field in the spec set. Nil
	// means the column stays/becomes NULL.
	URLs map[string]*string

	// Uploaded lists blobs created by this batch. If the caller's
	// transaction fails these must be discarded.
	Uploaded []string

	// Replaced lists old blobs superseded by this batch (replaced or
	// cleared). They are discarded only after the transaction commits.
	Replaced []string
}

// Coordinator fans file uploads out to object storage for entity services.
type Coordinator struct {
	client storage.Client
	logger *slog.Logger
}

// NewCoordinator wires the coordinator to a storage client.
func NewCoordinator(client storage.Client, logger *slog.Logger) *Coordinator {
	return &Coordinator{client: client, logger: logger}
}

/*
Apply resolves the final URL set for one entity mutation.

Incoming maps field name to a file part; a nil value is the delete
sentinel that clears the field. Fields absent from incoming keep their
current value (update semantics) or stay nil (create semantics, empty
current map).

# Parameters
  - ctx: Caller context for the upload fan-out.
  - current: URLs currently persisted on the entity, keyed by field name.
  - incoming: Parsed multipart file parts, keyed by field name.
  - specs: Upload policy for every file field of the entity.

# Returns
  - *Resolution: Final URLs plus the uploaded/replaced bookkeeping lists.
  - error: ValidationError before any network call, StorageUnavailable
    after a compensated batch failure.
*/
func (coordinator *Coordinator) Apply(ctx context.Context, current map[string]*string, incoming map[string]*FileInput, specs []FieldSpec) (*Resolution, error) {

	resolution := &Resolution{URLs: make(map[string]*string, len(specs))}
	for _, spec := range specs {
		resolution.URLs[spec.Name] = current[spec.Name]
	}

	// 1. Validate every present file before touching the network
	fieldErrors := make(map[string]string)
	pending := make([]FieldSpec, 0, len(specs))

	for _, spec := range specs {
		file, present := incoming[spec.Name]
		if !present || file == nil {
			continue
		}

		if reason := validateFile(spec, file); reason != "" {
			fieldErrors[spec.Name] = reason
			continue
		}

		pending = append(pending, spec)
	}

	if len(fieldErrors) > 0 {
		return nil, apperr.ValidationError("Invalid media upload").WithFields(fieldErrors)
	}

	// 2. Apply delete sentinels (no storage call yet; the old blob is
	// removed only after the caller commits)
	for _, spec := range specs {
		if file, present := incoming[spec.Name]; present && file == nil {
			if old := resolution.URLs[spec.Name]; old != nil {
				resolution.Replaced = append(resolution.Replaced, *old)
			}
			resolution.URLs[spec.Name] = nil
		}
	}

	if len(pending) == 0 {
		return resolution, nil
	}

	// 3. Upload all validated files concurrently. A plain Group is used
	// on purpose: a failing upload must not cancel its siblings, the
	// batch settles fully before compensation runs.
	var (
		group    errgroup.Group
		mu       sync.Mutex
		uploaded = make(map[string]string, len(pending))
		failures []error
	)

	for _, spec := range pending {
		file := incoming[spec.Name]

		group.Go(func() error {
			url, err := coordinator.client.Put(ctx, file.Data, storage.PutOptions{
				Folder:      spec.Folder,
				Filename:    file.Filename,
				ContentType: file.ContentType,
			})

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				failures = append(failures, fmt.Errorf("field %s: %w", spec.Name, err))
				return nil
			}

			uploaded[spec.Name] = url
			return nil
		})
	}

	_ = group.Wait()

	// 4. Compensate a partially successful batch before surfacing the error
	if len(failures) > 0 {
		orphaned := make([]string, 0, len(uploaded))
		for _, url := range uploaded {
			orphaned = append(orphaned, url)
		}
		coordinator.Discard(ctx, orphaned)

		err := errors.Join(failures...)
		coordinator.logger.Warn("upload_batch_compensated",
			slog.Int("discarded", len(orphaned)),
			slog.Any("error", err),
		)

		if errors.Is(err, storage.ErrUnavailable) {
			return nil, apperr.StorageUnavailable(err)
		}
		return nil, apperr.Internal(err)
	}

	// 5. Record the new URLs and the old ones they replace
	for _, spec := range pending {
		url := uploaded[spec.Name]

		if old := resolution.URLs[spec.Name]; old != nil {
			resolution.Replaced = append(resolution.Replaced, *old)
		}

		resolution.URLs[spec.Name] = &url
		resolution.Uploaded = append(resolution.Uploaded, url)
	}

	return resolution, nil
}

// Discard best-effort deletes a batch of blobs. Failures are logged and
// swallowed; cleanup must never fail a mutation that already settled.
func (coordinator *Coordinator) Discard(ctx context.Context, urls []string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := coordinator.client.Delete(ctx, url); err != nil {
			ctxutil.GetLogger(ctx).Warn("storage_cleanup_failed",
				slog.String("url", url),
				slog.Any("error", err),
			)
		}
	}
}

// validateFile checks one file against its field policy. It returns a
// human-readable reason, or "" when the file is acceptable.
func validateFile(spec FieldSpec, file *FileInput) string {

	if int64(len(file.Data)) > spec.maxBytes() {
		return fmt.Sprintf("File exceeds the maximum size of %d bytes", spec.maxBytes())
	}
	if len(file.Data) == 0 {
		return "File must not be empty"
	}

	mime := strings.ToLower(strings.TrimSpace(strings.Split(file.ContentType, ";")[0]))
	extension := strings.ToLower(path.Ext(file.Filename))

	switch spec.Kind {
	case KindVideo:
		if !videoMIMETypes[mime] || !videoExtensions[extension] {
			return "Must be a video file (mp4, webm or mov)"
		}
	default:
		if !imageMIMETypes[mime] || !imageExtensions[extension] {
			return "Must be an image file (jpg, png, webp or gif)"
		}
	}

	return ""
}
