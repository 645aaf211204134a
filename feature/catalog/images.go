package catalog

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"product-catalog/core/storage"
	"product-catalog/feature/catalog/reconcile"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// imageStore executes reconcile plans against the object store.
type imageStore struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// Apply performs every upload in the plan. Uploads fan out concurrently and
// all complete before Apply returns. If any upload fails, every object that
// did make it is removed again before the error surfaces, so a failed request
// leaves the bucket exactly as it found it.
func (s *imageStore) Apply(ctx context.Context, plan *reconcile.Plan) error {
	if len(plan.Uploads) == 0 {
		return nil
	}

	errs := make([]error, len(plan.Uploads))
	var wg sync.WaitGroup
	for i := range plan.Uploads {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.upload(ctx, plan.Uploads[i])
		}(i)
	}
	wg.Wait()

	failedAt := -1
	for i, err := range errs {
		if err != nil {
			failedAt = i
			break
		}
	}
	if failedAt == -1 {
		return nil
	}

	var succeeded []string
	for i, err := range errs {
		if err == nil {
			succeeded = append(succeeded, plan.Uploads[i].Key)
		}
	}

	// Roll back on a fresh context: the request context may already be
	// cancelled (deadline expiry is one way to land here) and the
	// compensation must still run.
	if len(succeeded) > 0 {
		if rbErr := s.removeKeys(context.WithoutCancel(ctx), succeeded); rbErr != nil {
			s.logger.Error("rollback of uploaded objects failed, orphaned objects remain",
				zap.Strings("keys", succeeded),
				zap.Error(rbErr),
			)
		}
	}

	return &StorageError{Op: "upload", Err: &PartialUploadError{
		Succeeded:  succeeded,
		FailedName: plan.Uploads[failedAt].File.Name,
		Err:        errs[failedAt],
	}}
}

func (s *imageStore) upload(ctx context.Context, step reconcile.UploadStep) error {
	r, err := step.File.Open()
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", step.File.Name, err)
	}
	defer r.Close()

	_, err = s.client.PutObject(ctx, s.bucket, step.Key, r, step.File.Size, minio.PutObjectOptions{
		ContentType: step.File.ContentType,
	})
	return err
}

// removeKeys deletes objects in one batch via RemoveObjects, reporting every
// key that could not be removed.
func (s *imageStore) removeKeys(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		objectsCh <- minio.ObjectInfo{Key: k}
	}
	close(objectsCh)

	var failed []string
	for rerr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rerr.Err != nil {
			failed = append(failed, rerr.ObjectName)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to remove objects: %s", strings.Join(failed, ", "))
	}
	return nil
}
