package catalog

import "product-catalog/feature/catalog/reconcile"

// Config holds the catalog feature's configuration.
type Config struct {
	// Capacity is the maximum number of images per product.
	Capacity int `mapstructure:"capacity" default:"6"`
	// ImageMode selects how uploads combine with the existing image set
	// (append_fixed, append_variable, replace_all).
	ImageMode string `mapstructure:"image_mode" default:"append_variable"`
	// MaxUploadFiles caps the number of file parts per request.
	MaxUploadFiles int `mapstructure:"max_upload_files" default:"6"`
	// MaxFileSizeMB caps the size of a single uploaded file.
	MaxFileSizeMB int `mapstructure:"max_file_size_mb" default:"5"`
	// ManualSort enables the display_order sorting feature.
	ManualSort bool `mapstructure:"manual_sort" default:"true"`
	// KeyPrefix is prepended to every generated object key.
	KeyPrefix string `mapstructure:"key_prefix" default:"products/"`
}

// Mode returns the parsed reconcile mode.
func (c Config) Mode() (reconcile.Mode, error) {
	return reconcile.ParseMode(c.ImageMode)
}

// MaxFileSize returns the per-file size cap in bytes.
func (c Config) MaxFileSize() int64 {
	mb := c.MaxFileSizeMB
	if mb <= 0 {
		mb = 5
	}
	return int64(mb) * 1024 * 1024
}
