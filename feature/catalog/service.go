package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"product-catalog/core/keylock"
	"product-catalog/core/storage"
	"product-catalog/feature/catalog/models"
	"product-catalog/feature/catalog/reconcile"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service owns the product record lifecycle: it validates input, delegates
// image-set planning to the reconcile package, executes the plan against the
// object store, and persists rows. All read-modify-write sequences on one
// product run under a per-product advisory lock.
type Service struct {
	client   storage.Client
	storeCfg storage.Config
	cfg      Config
	mode     reconcile.Mode
	logger   *zap.Logger
	db       *gorm.DB
	locks    *keylock.KeyLock
	images   *imageStore
}

// NewService creates a new catalog service.
func NewService(client storage.Client, storeCfg storage.Config, cfg Config, logger *zap.Logger, db *gorm.DB) (*Service, error) {
	mode, err := cfg.Mode()
	if err != nil {
		return nil, err
	}
	return &Service{
		client:   client,
		storeCfg: storeCfg,
		cfg:      cfg,
		mode:     mode,
		logger:   logger,
		db:       db,
		locks:    keylock.New(),
		images:   &imageStore{client: client, bucket: storeCfg.Bucket, logger: logger},
	}, nil
}

// Migrate applies the catalog schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{}, &models.ProductImage{})
}

// CreateInput carries the scalar fields of a new product.
type CreateInput struct {
	Name         string
	Description  string
	Price        float64
	Discount     float64
	DisplayOrder int
}

// UpdateInput carries optional scalar updates. A nil field means "not
// supplied" and leaves the stored value untouched; a pointer to a zero value
// is a legitimate update.
type UpdateInput struct {
	Name         *string
	Description  *string
	Price        *float64
	Discount     *float64
	DisplayOrder *int
}

// MutationResult is the outcome of a create or update.
type MutationResult struct {
	Product *models.Product
	Dropped []reconcile.DroppedFile
}

// Create validates the input, uploads the image batch and inserts the row.
// If the insert fails after uploads succeeded, the uploaded objects are
// removed again so the bucket holds no orphans.
func (s *Service) Create(ctx context.Context, in CreateInput, files []reconcile.File) (*MutationResult, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if in.Price < 0 {
		return nil, &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if err := s.validateFiles(files); err != nil {
		return nil, err
	}

	plan, err := reconcile.BuildPlan(nil, files, s.planConfig(s.createMode()))
	if err != nil {
		return nil, fmt.Errorf("failed to plan image set: %w", err)
	}
	if err := s.images.Apply(ctx, plan); err != nil {
		return nil, err
	}

	p := &models.Product{
		Name:         in.Name,
		Description:  in.Description,
		Price:        in.Price,
		Discount:     clampDiscount(in.Discount),
		DisplayOrder: in.DisplayOrder,
		ImageMain:    plan.Cover(),
		Images:       imageRows(0, plan.FinalRefs),
	}

	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		s.compensateUploads(ctx, plan)
		return nil, &PersistenceError{Op: "create product", Err: err}
	}

	return &MutationResult{Product: p, Dropped: plan.Dropped}, nil
}

// Get returns a single product with its image set.
func (s *Service) Get(ctx context.Context, id uint) (*models.Product, error) {
	return s.load(ctx, id)
}

// Update applies the supplied scalar fields and reconciles the image set in
// the configured mode. Replaced objects are removed from the store only after
// the row commit; new uploads are rolled back if the commit fails.
func (s *Service) Update(ctx context.Context, id uint, in UpdateInput, files []reconcile.File) (*MutationResult, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if in.Price != nil && *in.Price < 0 {
		return nil, &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if err := s.validateFiles(files); err != nil {
		return nil, err
	}

	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	plan, err := reconcile.BuildPlan(imageRefs(p), files, s.planConfig(s.mode))
	if err != nil {
		return nil, fmt.Errorf("failed to plan image set: %w", err)
	}
	if err := s.images.Apply(ctx, plan); err != nil {
		return nil, err
	}

	updates := map[string]any{"image_main": plan.Cover()}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.Discount != nil {
		updates["discount"] = clampDiscount(*in.Discount)
	}
	if in.DisplayOrder != nil {
		updates["display_order"] = *in.DisplayOrder
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if rows := imageRows(id, plan.FinalRefs); len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.compensateUploads(ctx, plan)
		return nil, &PersistenceError{Op: "update product", Err: err}
	}

	// The row no longer references these; remove them after the commit so a
	// failed transaction cannot leave dangling URLs. A failure here only
	// leaks unreferenced objects, which the orphan audit can reclaim.
	if len(plan.Deletes) > 0 {
		keys := refKeys(plan.Deletes)
		if err := s.images.removeKeys(ctx, keys); err != nil {
			s.logger.Warn("failed to remove replaced objects, orphaned objects remain",
				zap.Uint("product_id", id),
				zap.Strings("keys", keys),
				zap.Error(err),
			)
		}
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &MutationResult{Product: updated, Dropped: plan.Dropped}, nil
}

// Delete removes a product's stored objects, then its rows. Object deletion
// failures abort before the row is touched so the operation stays retryable;
// a row-deletion failure after the objects are gone is logged as an
// inconsistency.
func (s *Service) Delete(ctx context.Context, id uint) error {
	s.locks.Lock(id)
	defer s.locks.Unlock(id)

	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	imgs := p.SortedImages()
	keys := make([]string, len(imgs))
	for i, img := range imgs {
		keys[i] = img.ObjectKey
	}
	if len(keys) > 0 {
		if err := s.images.removeKeys(ctx, keys); err != nil {
			return &StorageError{Op: "delete objects", Err: err}
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
	if err != nil {
		s.logger.Error("row deletion failed after storage objects were removed, row now references dead images",
			zap.Uint("product_id", id),
			zap.Error(err),
		)
		return &PersistenceError{Op: "delete product", Err: err}
	}
	return nil
}

// List returns all products with their image sets. With manual sort enabled
// the order is display_order ascending then id descending, otherwise id
// descending.
func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	q := s.db.WithContext(ctx).Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("ordinal ASC")
	})
	if s.cfg.ManualSort {
		q = q.Order("display_order ASC").Order("id DESC")
	} else {
		q = q.Order("id DESC")
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, &PersistenceError{Op: "list products", Err: err}
	}
	return products, nil
}

// Reorder assigns display_order by position in the given id list. Unknown ids
// are ignored.
func (s *Service) Reorder(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return &ValidationError{Field: "orderedIds", Reason: "must not be empty"}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(&models.Product{}).Where("id = ?", id).Update("display_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return &PersistenceError{Op: "reorder products", Err: err}
	}
	return nil
}

// OrphanReport summarizes a bucket audit.
type OrphanReport struct {
	Scanned    int      `json:"scanned"`
	Referenced int      `json:"referenced"`
	Orphans    []string `json:"orphans"`
	Purged     int      `json:"purged"`
}

// AuditOrphans lists bucket objects under the catalog prefix and reports
// every object no product row references. With purge set the orphans are
// removed.
func (s *Service) AuditOrphans(ctx context.Context, purge bool) (*OrphanReport, error) {
	var keys []string
	if err := s.db.WithContext(ctx).Model(&models.ProductImage{}).Pluck("object_key", &keys).Error; err != nil {
		return nil, &PersistenceError{Op: "list image keys", Err: err}
	}
	referenced := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		referenced[k] = struct{}{}
	}

	report := &OrphanReport{Referenced: len(referenced), Orphans: []string{}}
	opts := minio.ListObjectsOptions{Prefix: s.cfg.KeyPrefix, Recursive: true}
	for obj := range s.client.ListObjects(ctx, s.storeCfg.Bucket, opts) {
		if obj.Err != nil {
			return nil, &StorageError{Op: "list objects", Err: obj.Err}
		}
		report.Scanned++
		if _, ok := referenced[obj.Key]; !ok {
			report.Orphans = append(report.Orphans, obj.Key)
		}
	}
	sort.Strings(report.Orphans)

	if purge && len(report.Orphans) > 0 {
		if err := s.images.removeKeys(ctx, report.Orphans); err != nil {
			return report, &StorageError{Op: "purge orphans", Err: err}
		}
		report.Purged = len(report.Orphans)
	}
	return report, nil
}

func (s *Service) load(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	err := s.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("ordinal ASC") }).
		First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load product", Err: err}
	}
	return &p, nil
}

func (s *Service) validateFiles(files []reconcile.File) error {
	if len(files) > s.cfg.MaxUploadFiles {
		return &ValidationError{
			Field:  "images",
			Reason: fmt.Sprintf("at most %d files per request", s.cfg.MaxUploadFiles),
		}
	}
	limit := s.cfg.MaxFileSize()
	for _, f := range files {
		if f.Size > limit {
			return &ValidationError{
				Field:  "images",
				Reason: fmt.Sprintf("%q exceeds the %d byte file size limit", f.Name, limit),
			}
		}
	}
	return nil
}

func (s *Service) planConfig(mode reconcile.Mode) reconcile.Config {
	return reconcile.Config{
		Capacity: s.cfg.Capacity,
		Mode:     mode,
		KeyFunc:  s.objectKey,
		URLFunc:  s.storeCfg.ObjectURL,
	}
}

// createMode returns the mode used for creates. A create always starts from
// an empty set, so replace-all deployments still append.
func (s *Service) createMode() reconcile.Mode {
	if s.mode == reconcile.ModeReplaceAll {
		return reconcile.ModeAppendVariable
	}
	return s.mode
}

func (s *Service) objectKey(f reconcile.File) string {
	ext := strings.ToLower(filepath.Ext(f.Name))
	return s.cfg.KeyPrefix + uuid.NewString() + ext
}

// compensateUploads removes the plan's freshly uploaded objects after a row
// write failed, logging (not failing) if the cleanup itself fails.
func (s *Service) compensateUploads(ctx context.Context, plan *reconcile.Plan) {
	keys := plan.UploadKeys()
	if len(keys) == 0 {
		return
	}
	if err := s.images.removeKeys(context.WithoutCancel(ctx), keys); err != nil {
		s.logger.Error("rollback of uploaded objects failed, orphaned objects remain",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}
}

func clampDiscount(d float64) float64 {
	if d < 0 {
		return 0
	}
	if d > 100 {
		return 100
	}
	return d
}

func imageRefs(p *models.Product) []reconcile.ImageRef {
	imgs := p.SortedImages()
	refs := make([]reconcile.ImageRef, len(imgs))
	for i, img := range imgs {
		refs[i] = reconcile.ImageRef{Key: img.ObjectKey, URL: img.URL}
	}
	return refs
}

func imageRows(productID uint, refs []reconcile.ImageRef) []models.ProductImage {
	rows := make([]models.ProductImage, len(refs))
	for i, ref := range refs {
		rows[i] = models.ProductImage{
			ProductID: productID,
			Ordinal:   i,
			ObjectKey: ref.Key,
			URL:       ref.URL,
		}
	}
	return rows
}

func refKeys(refs []reconcile.ImageRef) []string {
	keys := make([]string, len(refs))
	for i, ref := range refs {
		keys[i] = ref.Key
	}
	return keys
}
