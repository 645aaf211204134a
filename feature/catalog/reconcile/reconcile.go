package reconcile

import (
	"fmt"
	"io"
)

// Mode selects how an upload batch combines with the existing image set.
type Mode string

const (
	// ModeAppendFixedSlots appends uploads into a fixed number of slots.
	ModeAppendFixedSlots Mode = "append_fixed"
	// ModeAppendVariable appends uploads to a variable-length set.
	ModeAppendVariable Mode = "append_variable"
	// ModeReplaceAll discards the existing set and replaces it wholesale.
	ModeReplaceAll Mode = "replace_all"
)

// ParseMode validates a mode string from configuration.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAppendFixedSlots, ModeAppendVariable, ModeReplaceAll:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown image mode %q", s)
	}
}

// ImageRef identifies one stored image: the object key in the bucket and the
// public URL persisted on the row. The key is carried explicitly so deletion
// never reverse-parses a URL.
type ImageRef struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// File is one uploaded file, decoupled from the transport's multipart types.
// Open must return a fresh reader positioned at the start of the content.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// UploadStep is one physical upload the plan requires.
type UploadStep struct {
	File File
	Key  string
	URL  string
}

// DroppedFile records an upload rejected by the overflow policy.
type DroppedFile struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Plan is the computed transition from the current image set to the next one.
// It carries no side effects; executing the uploads and deletes is the
// caller's job.
type Plan struct {
	// Uploads are the files to physically upload, in file-array order.
	Uploads []UploadStep
	// FinalRefs is the next image set, never longer than the capacity.
	FinalRefs []ImageRef
	// Deletes are existing stored objects no longer referenced afterwards.
	Deletes []ImageRef
	// Dropped reports inputs rejected by the overflow policy. Dropped files
	// are never uploaded, so they cannot orphan objects.
	Dropped []DroppedFile
}

// FinalURLs returns the ordered public URLs of the next image set.
func (p *Plan) FinalURLs() []string {
	urls := make([]string, len(p.FinalRefs))
	for i, ref := range p.FinalRefs {
		urls[i] = ref.URL
	}
	return urls
}

// Cover returns the denormalized main-image URL: the head of the final set,
// or empty when the set is empty. It is always derived, never settable.
func (p *Plan) Cover() string {
	if len(p.FinalRefs) == 0 {
		return ""
	}
	return p.FinalRefs[0].URL
}

// UploadKeys returns the object keys of every planned upload.
func (p *Plan) UploadKeys() []string {
	keys := make([]string, len(p.Uploads))
	for i, u := range p.Uploads {
		keys[i] = u.Key
	}
	return keys
}

// Config parameterizes plan building.
type Config struct {
	// Capacity is the maximum size of the image set.
	Capacity int
	// Mode selects the combination strategy.
	Mode Mode
	// KeyFunc assigns a storage key to an uploaded file. Plans are
	// deterministic for a deterministic KeyFunc.
	KeyFunc func(f File) string
	// URLFunc maps a storage key to its public URL.
	URLFunc func(key string) string
}

// BuildPlan computes the next image set for a product.
//
// Overflow policy: the combined sequence (existing set first, then uploads in
// file order) is truncated at the capacity. Truncated uploads are reported in
// Dropped and excluded from Uploads; truncated existing refs move to Deletes
// since nothing will reference them afterwards.
func BuildPlan(current []ImageRef, uploads []File, cfg Config) (*Plan, error) {
	if cfg.Capacity <= 0 {
		return nil, fmt.Errorf("capacity must be positive, got %d", cfg.Capacity)
	}
	if cfg.KeyFunc == nil || cfg.URLFunc == nil {
		return nil, fmt.Errorf("key and url functions are required")
	}

	plan := &Plan{}

	var kept []ImageRef
	switch cfg.Mode {
	case ModeAppendFixedSlots, ModeAppendVariable:
		kept = current
	case ModeReplaceAll:
		// The whole existing set becomes unreferenced.
		plan.Deletes = append(plan.Deletes, current...)
	default:
		return nil, fmt.Errorf("unknown image mode %q", cfg.Mode)
	}

	// Existing refs first. An oversized current set (capacity lowered since
	// the rows were written) is trimmed from the tail.
	for i, ref := range kept {
		if i < cfg.Capacity {
			plan.FinalRefs = append(plan.FinalRefs, ref)
			continue
		}
		plan.Deletes = append(plan.Deletes, ref)
		plan.Dropped = append(plan.Dropped, DroppedFile{
			Name:   ref.URL,
			Reason: "image set over capacity",
		})
	}

	// Then uploads, in file-array order, until the set is full.
	for _, f := range uploads {
		if len(plan.FinalRefs) >= cfg.Capacity {
			plan.Dropped = append(plan.Dropped, DroppedFile{
				Name:   f.Name,
				Reason: "image set at capacity",
			})
			continue
		}
		key := cfg.KeyFunc(f)
		url := cfg.URLFunc(key)
		plan.Uploads = append(plan.Uploads, UploadStep{File: f, Key: key, URL: url})
		plan.FinalRefs = append(plan.FinalRefs, ImageRef{Key: key, URL: url})
	}

	return plan, nil
}
