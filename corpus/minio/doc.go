// Package minio reads corpora from MinIO and other S3-compatible stores.
package minio
