package errors

// Diagnostic is a fixed, human-readable description attached to
// InvalidArchive and UnsupportedArchive errors. Collaborators pick one of the
// constants below instead of formatting their own text.
type Diagnostic string

// PasswordRequired is reported as an UnsupportedArchive diagnostic when an
// entry is encrypted and no password was supplied. The value is part of the
// public API and will not change.
const PasswordRequired Diagnostic = "Password required to decrypt file"

// Format diagnostics, used with InvalidArchive.
const (
	InvalidSignature        Diagnostic = "Invalid zip header"
	InvalidCentralDirectory Diagnostic = "Could not find central directory end"
	TruncatedArchive        Diagnostic = "Archive is truncated"
	ChecksumMismatch        Diagnostic = "Invalid checksum"
	InsecurePath            Diagnostic = "Entry path escapes the destination directory"
	InvalidEntryName        Diagnostic = "Invalid entry name"
)

// Feature diagnostics, used with UnsupportedArchive.
const (
	UnsupportedCompression Diagnostic = "Compression method not supported"
	UnsupportedEncryption  Diagnostic = "Encryption method not supported"
	UnsupportedMultiDisk   Diagnostic = "Support for multi-disk files is not implemented"
	ResourceLimitExceeded  Diagnostic = "Archive exceeds configured resource limits"
)
