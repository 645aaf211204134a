// Package models defines the catalog's persistence and response models.
//
// A product's image set is stored as one product_images row per image with an
// explicit ordinal, rather than serialized text or fixed slot columns. The
// object key is persisted next to the public URL so storage deletion never
// depends on reverse-parsing a URL.
package models
