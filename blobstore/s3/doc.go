// Package s3 provides an S3 implementation of the blobstore.Store interface,
// plus a DynamoDB-backed registry for atomic latest-snapshot pointers.
//
// # Basic Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := s3blob.NewStore(s3.NewFromConfig(cfg), "my-bucket", "models/")
//	err = store.Put(ctx, "office.idf.gz", data)
//
// Uploads go through the S3 transfer manager, so documents larger than the
// multipart threshold are uploaded in parts transparently.
//
// # Latest-Snapshot Registry
//
// S3 has no compare-and-swap, so concurrent writers publishing snapshots can
// silently overwrite each other's latest pointer. RegistryStore layers a
// DynamoDB commit log over any blobstore.Store: snapshot documents go to the
// underlying store, and the pointer document is committed with a DynamoDB
// conditional write that fails on concurrent modification.
package s3
