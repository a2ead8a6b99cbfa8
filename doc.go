// Package idfkit provides a schema-driven query and edit engine for IDF
// building-model files.
//
// An IDF model is a flat list of records ("objects"), each a typed tuple of
// string fields. The IDD schema describes every record type: field names,
// data types, choice keys, numeric bounds, and defaults. idfkit parses both,
// indexes the model, and exposes mask-based bulk operations on it.
//
// # Quick Start
//
//	ctx := context.Background()
//	m, err := idfkit.Open().
//	    SchemaFile("Energy+.idd").
//	    ModelFile("office.idf").
//	    Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Query records with fuzzy field identifiers:
//
//	mask, err := m.Query(ctx, "Zone", match.Words, map[string]string{
//	    "name": "BASEMENT",
//	})
//
// Or with the fluent API:
//
//	names, err := m.Find("Zone").
//	    Where("ceiling_height", "3").
//	    Words().
//	    Values(ctx, "Name")
//
// Edit through masks:
//
//	err = m.SetField(ctx, mask, "Ceiling Height", "2.7")
//	err = m.SetFieldSlice(ctx, mask, "Name", []string{"Z1", "Z2"})
//
// Create and delete:
//
//	_, err = m.CreateObject(ctx, "Zone", map[string]string{"Name": "Attic"})
//	n, err := m.DeleteObjects(ctx, mask)
//
// Masks are immutable boolean selections stamped with the store epoch; a mask
// taken before a structural edit (create/delete) fails fast instead of
// touching the wrong records. Compose them with And, Or, and Not.
//
// # Snapshots
//
// Models can be published to object storage as compressed snapshots with
// integrity-checked manifests:
//
//	m, _ := idfkit.Open().
//	    SchemaFile("Energy+.idd").
//	    ModelFile("office.idf").
//	    Build(idfkit.WithSnapshotStore(blobstore.NewLocalStore("./snapshots")))
//
//	manifest, err := m.SaveSnapshot(ctx, "office-v2")
//	err = m.LoadSnapshot(ctx, "office-v1")
//
// Stores are pluggable: in-memory, local directory, MinIO, or S3 (with an
// optional DynamoDB registry for atomic latest-snapshot pointers).
package idfkit
