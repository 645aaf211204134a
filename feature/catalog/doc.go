// Package catalog implements the product catalog feature.
//
// Products are rows in a relational table; their images are objects in a
// storage bucket. The feature keeps both sides consistent across the whole
// product lifecycle:
//
//  1. Planning: the reconcile subpackage computes, from the current image set
//     and an upload batch, the next image set, the uploads to perform and the
//     stored objects that become unreferenced.
//  2. Execution: uploads fan out concurrently; a partial failure rolls back
//     every object that made it before the error surfaces.
//  3. Persistence: the product row and its image rows are written in one
//     transaction; a failed write triggers compensating deletion of the
//     freshly uploaded objects.
//
// Deletion removes the stored objects first and the row second, so a storage
// failure leaves the operation retryable. Concurrent mutations of one product
// serialize on a per-id advisory lock.
//
// # Components
//
//   - Service: the product record manager (create/update/delete/list/reorder,
//     plus the orphaned-object audit behind the CLI).
//   - Handler: the HTTP surface, mapping the error taxonomy to status codes.
//   - Loader: registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET    /products          : list products
//   - GET    /products/:id      : one product
//   - POST   /products          : create (multipart, repeated "images" parts)
//   - PUT    /products/:id      : update (multipart, files optional)
//   - DELETE /products/:id      : delete product and its stored images
//   - POST   /products/reorder  : set manual sort positions
package catalog
