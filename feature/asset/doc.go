// Package asset mirrors binary files to object storage (S3/MinIO) and keeps
// one row per file with its object name, content type, size and checksum.
//
// Uploads happen during the run, before the transaction commits. Since
// storage cannot roll back, handlers never remove objects: Orphans lists the
// objects no row refers to and Prune deletes them (see the schema command).
package asset
