// Package rsc lets a caller perform file and directory operations against
// heterogeneous remote storage backends through one interface.
//
// The package defines the contract every backend must satisfy (Session), a
// cross-platform path value type (Path), a validated attribute record
// (FileAttributes) and the orchestrator (Connection) that implements every
// composite, backend-independent operation: recursive directory transfer,
// parent creation, file creation from heterogeneous content sources and
// working-directory-relative path resolution.
//
// # Design
//
// Backends are selected by dependency injection, not inheritance: each
// backend subpackage implements Session by wrapping one client library and
// is handed to NewConnection at construction time.
//
//	session, err := sftp.Dial(sftp.Config{Host: "files.example.com", Username: "deploy", Password: pw})
//	if err != nil {
//	    return err
//	}
//	conn := rsc.NewConnection(session, rsc.WithWorkDir("/srv/app"))
//	defer conn.Close()
//
//	err = conn.SendFile(rsc.PathSource("build/app.tar.gz"), "releases/app.tar.gz", rsc.WithParents())
//
// Available backends:
//
//   - local: the local filesystem or an in-memory filesystem (go-billy)
//   - sftp: SSH/SFTP servers (pkg/sftp)
//   - smb: SMB shares (go-smb2)
//   - vmware: VMware guest filesystems through guest tools (govmomi)
//   - minio: S3-compatible object storage (minio-go)
//
// # Errors
//
// Every operation returns a *StorageError carrying one of five codes.
// Existence preconditions fail with NOT_FOUND or ALREADY_EXISTS before any
// backend call is attempted; failures during a delegated backend call are
// wrapped as NOT_PERFORMED with the backend's error as the cause chain, so
// callers can distinguish "target didn't exist" from "operation attempted
// and failed" from "bad input".
//
// # Concurrency
//
// Calls block until the underlying backend call completes. One connection
// owns one backend session and is not safe for concurrent use; open
// multiple connections for parallel work. Recursive operations run their
// sub-operations strictly sequentially with no rollback on partial failure.
package rsc
