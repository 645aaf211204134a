package catalog_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"product-catalog/core/database"
	"product-catalog/core/storage"
	"product-catalog/core/storage/mocks"
	"product-catalog/feature/catalog"
	"product-catalog/feature/catalog/models"
	"product-catalog/feature/catalog/reconcile"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

type removed struct {
	mu   sync.Mutex
	keys []string
}

func (r *removed) add(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
}

func (r *removed) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func stubRemoveObjects(m *mocks.Client, rec *removed) {
	errCh := make(chan minio.RemoveObjectError)
	close(errCh)
	m.On("RemoveObjects", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ch := args.Get(2).(<-chan minio.ObjectInfo)
			for obj := range ch {
				rec.add(obj.Key)
			}
		}).
		Return((<-chan minio.RemoveObjectError)(errCh))
}

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	assert.NoError(t, err)
	assert.NoError(t, catalog.Migrate(db))
	return db
}

func testConfig() catalog.Config {
	return catalog.Config{
		Capacity:       6,
		ImageMode:      "append_variable",
		MaxUploadFiles: 6,
		MaxFileSizeMB:  5,
		ManualSort:     true,
		KeyPrefix:      "products/",
	}
}

func testStoreConfig() storage.Config {
	return storage.Config{Endpoint: "store.local", Bucket: "products"}
}

func newService(t *testing.T, client *mocks.Client, cfg catalog.Config, db *gorm.DB) *catalog.Service {
	t.Helper()
	svc, err := catalog.NewService(client, testStoreConfig(), cfg, zap.NewNop(), db)
	assert.NoError(t, err)
	return svc
}

func testFile(name string) reconcile.File {
	return reconcile.File{
		Name:        name,
		ContentType: "image/png",
		Size:        4,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader([]byte("data"))), nil
		},
	}
}

func seedProduct(t *testing.T, db *gorm.DB, p *models.Product) *models.Product {
	t.Helper()
	assert.NoError(t, db.Create(p).Error)
	return p
}

func TestService_Create(t *testing.T) {
	db := testDB(t)
	mockClient := new(mocks.Client)
	mockClient.On("PutObject", mock.Anything, "products", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	svc := newService(t, mockClient, testConfig(), db)

	in := catalog.CreateInput{Name: "Widget", Price: 9.99, Discount: 150}
	result, err := svc.Create(context.Background(), in, []reconcile.File{testFile("a.png"), testFile("b.png")})
	assert.NoError(t, err)

	// Discount over 100 is clamped, not rejected.
	assert.Equal(t, 100.0, result.Product.Discount)

	urls := result.Product.ImageURLs()
	assert.Len(t, urls, 2)
	assert.Equal(t, urls[0], result.Product.ImageMain)
	assert.Empty(t, result.Dropped)

	var imageCount int64
	assert.NoError(t, db.Model(&models.ProductImage{}).Count(&imageCount).Error)
	assert.EqualValues(t, 2, imageCount)
}

func TestService_CreateValidation(t *testing.T) {
	db := testDB(t)
	mockClient := new(mocks.Client)
	svc := newService(t, mockClient, testConfig(), db)

	_, err := svc.Create(context.Background(), catalog.CreateInput{Name: "  "}, nil)
	var ve *catalog.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = svc.Create(context.Background(), catalog.CreateInput{Name: "Widget", Price: -1}, nil)
	assert.ErrorAs(t, err, &ve)

	// Nothing reached the store.
	mockClient.AssertNotCalled(t, "PutObject",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CreateInsertFailureRollsBackUploads(t *testing.T) {
	sqlDB, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: glogger.Default.LogMode(glogger.Silent)})
	assert.NoError(t, err)

	dbMock.ExpectBegin()
	dbMock.ExpectExec("INSERT INTO `products`").WillReturnError(errors.New("db down"))
	dbMock.ExpectRollback()

	mockClient := new(mocks.Client)
	mockClient.On("PutObject", mock.Anything, "products", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)
	rec := &removed{}
	stubRemoveObjects(mockClient, rec)

	svc := newService(t, mockClient, testConfig(), gdb)

	_, err = svc.Create(context.Background(), catalog.CreateInput{Name: "Widget"},
		[]reconcile.File{testFile("a.png")})

	var pe *catalog.PersistenceError
	assert.ErrorAs(t, err, &pe)
	// The uploaded object was compensated away.
	assert.Len(t, rec.all(), 1)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestService_UpdateAtCapacityDropsAndTrims(t *testing.T) {
	db := testDB(t)
	cfg := testConfig()
	cfg.Capacity = 4
	cfg.ImageMode = "append_fixed"

	mockClient := new(mocks.Client)
	rec := &removed{}
	stubRemoveObjects(mockClient, rec)

	svc := newService(t, mockClient, cfg, db)

	images := make([]models.ProductImage, 5)
	for i := range images {
		images[i] = models.ProductImage{
			Ordinal:   i,
			ObjectKey: "products/k" + string(rune('1'+i)),
			URL:       "http://store.local/products/products/k" + string(rune('1'+i)),
		}
	}
	p := seedProduct(t, db, &models.Product{Name: "Crowded", ImageMain: images[0].URL, Images: images})

	result, err := svc.Update(context.Background(), p.ID, catalog.UpdateInput{},
		[]reconcile.File{testFile("new1.png"), testFile("new2.png")})
	assert.NoError(t, err)

	// Four survivors, three inputs dropped (the trimmed fifth ref plus both
	// new files), nothing uploaded.
	assert.Len(t, result.Product.ImageURLs(), 4)
	assert.Len(t, result.Dropped, 3)
	mockClient.AssertNotCalled(t, "PutObject",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	// The trimmed ref's object is gone from the store.
	assert.Equal(t, []string{"products/k5"}, rec.all())
	assert.Equal(t, images[0].URL, result.Product.ImageMain)
}

func TestService_UpdateDistinguishesAbsentFromZero(t *testing.T) {
	db := testDB(t)
	mockClient := new(mocks.Client)
	svc := newService(t, mockClient, testConfig(), db)

	p := seedProduct(t, db, &models.Product{Name: "Widget", Description: "old", Price: 9.99, Discount: 10})

	newDesc := "new"
	zero := 0.0
	result, err := svc.Update(context.Background(), p.ID, catalog.UpdateInput{
		Description: &newDesc,
		Price:       &zero,
	}, nil)
	assert.NoError(t, err)

	// Supplied zero overwrites; absent fields keep their stored values.
	assert.Equal(t, 0.0, result.Product.Price)
	assert.Equal(t, "new", result.Product.Description)
	assert.Equal(t, "Widget", result.Product.Name)
	assert.Equal(t, 10.0, result.Product.Discount)
}

func TestService_UpdateNotFound(t *testing.T) {
	db := testDB(t)
	svc := newService(t, new(mocks.Client), testConfig(), db)

	_, err := svc.Update(context.Background(), 999, catalog.UpdateInput{}, nil)
	var nf *catalog.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestService_ReplaceAllSwapsImageSet(t *testing.T) {
	db := testDB(t)
	cfg := testConfig()
	cfg.ImageMode = "replace_all"

	mockClient := new(mocks.Client)
	mockClient.On("PutObject", mock.Anything, "products", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)
	rec := &removed{}
	stubRemoveObjects(mockClient, rec)

	svc := newService(t, mockClient, cfg, db)

	p := seedProduct(t, db, &models.Product{Name: "Widget", Images: []models.ProductImage{
		{Ordinal: 0, ObjectKey: "products/old1", URL: "http://store.local/products/products/old1"},
		{Ordinal: 1, ObjectKey: "products/old2", URL: "http://store.local/products/products/old2"},
	}})

	result, err := svc.Update(context.Background(), p.ID, catalog.UpdateInput{},
		[]reconcile.File{testFile("fresh.png")})
	assert.NoError(t, err)

	assert.Len(t, result.Product.ImageURLs(), 1)
	assert.Equal(t, result.Product.ImageURLs()[0], result.Product.ImageMain)
	// Both old objects removed after the commit.
	assert.ElementsMatch(t, []string{"products/old1", "products/old2"}, rec.all())
}

func TestService_Delete(t *testing.T) {
	db := testDB(t)
	mockClient := new(mocks.Client)
	rec := &removed{}
	stubRemoveObjects(mockClient, rec)

	svc := newService(t, mockClient, testConfig(), db)

	p := seedProduct(t, db, &models.Product{Name: "Doomed", Images: []models.ProductImage{
		{Ordinal: 0, ObjectKey: "products/k1", URL: "u1"},
		{Ordinal: 1, ObjectKey: "products/k2", URL: "u2"},
		{Ordinal: 2, ObjectKey: "products/k3", URL: "u3"},
	}})

	assert.NoError(t, svc.Delete(context.Background(), p.ID))

	// Exactly three objects removed, then the rows.
	assert.ElementsMatch(t, []string{"products/k1", "products/k2", "products/k3"}, rec.all())

	var productCount, imageCount int64
	assert.NoError(t, db.Model(&models.Product{}).Count(&productCount).Error)
	assert.NoError(t, db.Model(&models.ProductImage{}).Count(&imageCount).Error)
	assert.Zero(t, productCount)
	assert.Zero(t, imageCount)
}

func TestService_DeleteAbortsWhenStorageFails(t *testing.T) {
	db := testDB(t)
	mockClient := new(mocks.Client)
	errCh := make(chan minio.RemoveObjectError, 1)
	errCh <- minio.RemoveObjectError{ObjectName: "products/k1", Err: errors.New("denied")}
	close(errCh)
	mockClient.On("RemoveObjects", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return((<-chan minio.RemoveObjectError)(errCh))

	svc := newService(t, mockClient, testConfig(), db)

	p := seedProduct(t, db, &models.Product{Name: "Sticky", Images: []models.ProductImage{
		{Ordinal: 0, ObjectKey: "products/k1", URL: "u1"},
	}})

	err := svc.Delete(context.Background(), p.ID)
	var se *catalog.StorageError
	assert.ErrorAs(t, err, &se)

	// The row survives, so the delete can be retried.
	var count int64
	assert.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestService_DeleteNotFound(t *testing.T) {
	db := testDB(t)
	svc := newService(t, new(mocks.Client), testConfig(), db)

	err := svc.Delete(context.Background(), 404)
	var nf *catalog.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestService_ReorderAndList(t *testing.T) {
	db := testDB(t)
	svc := newService(t, new(mocks.Client), testConfig(), db)

	a := seedProduct(t, db, &models.Product{Name: "A"})
	b := seedProduct(t, db, &models.Product{Name: "B"})
	c := seedProduct(t, db, &models.Product{Name: "C"})

	assert.NoError(t, svc.Reorder(context.Background(), []uint{c.ID, a.ID, b.ID}))

	products, err := svc.List(context.Background())
	assert.NoError(t, err)
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"C", "A", "B"}, names)

	err = svc.Reorder(context.Background(), nil)
	var ve *catalog.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestService_ListWithoutManualSort(t *testing.T) {
	db := testDB(t)
	cfg := testConfig()
	cfg.ManualSort = false
	svc := newService(t, new(mocks.Client), cfg, db)

	seedProduct(t, db, &models.Product{Name: "First"})
	seedProduct(t, db, &models.Product{Name: "Second"})

	products, err := svc.List(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "Second", products[0].Name)
	assert.Equal(t, "First", products[1].Name)
}

func TestService_AuditOrphans(t *testing.T) {
	db := testDB(t)
	mockClient := new(mocks.Client)

	seedProduct(t, db, &models.Product{Name: "Kept", Images: []models.ProductImage{
		{Ordinal: 0, ObjectKey: "products/kept", URL: "u1"},
	}})

	listCh := make(chan minio.ObjectInfo, 2)
	listCh <- minio.ObjectInfo{Key: "products/kept"}
	listCh <- minio.ObjectInfo{Key: "products/stray"}
	close(listCh)
	mockClient.On("ListObjects", mock.Anything, "products", mock.Anything).
		Return((<-chan minio.ObjectInfo)(listCh))

	rec := &removed{}
	stubRemoveObjects(mockClient, rec)

	svc := newService(t, mockClient, testConfig(), db)

	report, err := svc.AuditOrphans(context.Background(), true)
	assert.NoError(t, err)
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Referenced)
	assert.Equal(t, []string{"products/stray"}, report.Orphans)
	assert.Equal(t, 1, report.Purged)
	assert.Equal(t, []string{"products/stray"}, rec.all())
}

func TestService_ConcurrentUpdateAndDeleteSerialize(t *testing.T) {
	db := testDB(t)
	mockClient := new(mocks.Client)
	mockClient.On("PutObject", mock.Anything, "products", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)
	rec := &removed{}
	stubRemoveObjects(mockClient, rec)

	svc := newService(t, mockClient, testConfig(), db)

	p := seedProduct(t, db, &models.Product{Name: "Contended", Images: []models.ProductImage{
		{Ordinal: 0, ObjectKey: "products/k1", URL: "u1"},
	}})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = svc.Update(context.Background(), p.ID, catalog.UpdateInput{},
			[]reconcile.File{testFile("more.png")})
	}()
	go func() {
		defer wg.Done()
		_ = svc.Delete(context.Background(), p.ID)
	}()
	wg.Wait()

	// Whichever order the lock granted, the end state is consistent: either
	// the product is gone with all its objects removed, or it survives with
	// a coherent image set.
	var count int64
	assert.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	if count == 0 {
		var imgs int64
		assert.NoError(t, db.Model(&models.ProductImage{}).Count(&imgs).Error)
		assert.Zero(t, imgs)
	}
}
