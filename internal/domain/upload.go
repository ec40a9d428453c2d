package domain

// Default client-side upload limits. The server is documented to reject
// anything above 10 MiB with HTTP 413; we stop well before that.
const (
	DefaultMaxUploadBytes = 5 << 20
)

// DefaultAcceptedExtensions lists the resume formats every flow accepts.
// Individual flows may widen this (some also take ".doc").
var DefaultAcceptedExtensions = []string{".pdf", ".docx"}

// RejectReason enumerates why a candidate file failed local validation.
type RejectReason int

const (
	RejectNone RejectReason = iota
	RejectBadExtension
	RejectBadMimeType
	RejectTooLarge
	RejectEmpty
)

func (r RejectReason) String() string {
	switch r {
	case RejectNone:
		return "none"
	case RejectBadExtension:
		return "bad_extension"
	case RejectBadMimeType:
		return "bad_mime_type"
	case RejectTooLarge:
		return "too_large"
	case RejectEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// UploadConfiguration is immutable per feature flow instance.
type UploadConfiguration struct {
	AcceptedExtensions []string
	MaxSizeBytes       int64
}

// DefaultUploadConfiguration returns the limits every flow starts from:
// PDF or DOCX, 5 MiB.
func DefaultUploadConfiguration() UploadConfiguration {
	return UploadConfiguration{
		AcceptedExtensions: append([]string(nil), DefaultAcceptedExtensions...),
		MaxSizeBytes:       DefaultMaxUploadBytes,
	}
}

// MaxSizeMB reports the configured limit in whole MiB, as shown to the user.
func (c UploadConfiguration) MaxSizeMB() int64 {
	return c.MaxSizeBytes / (1 << 20)
}

// CandidateFile is a user-selected document: content plus the name and MIME
// type the picker declared for it. It is owned by the upload state that
// accepted it until cleared; submission does not transfer ownership, so the
// same file can be resubmitted after a failed request.
type CandidateFile struct {
	Name     string
	MimeType string
	Data     []byte
}

// Size reports the byte length of the file content.
func (f *CandidateFile) Size() int64 {
	return int64(len(f.Data))
}

// ValidationOutcome is the result of running a CandidateFile through the
// validator. When Accepted is false, Reason says what failed and Message is
// the sentence shown to the user.
type ValidationOutcome struct {
	Accepted bool
	Reason   RejectReason
	Message  string
}

// Accepted is the outcome for a file that passed every check.
func Accepted() ValidationOutcome {
	return ValidationOutcome{Accepted: true}
}

// Rejected builds a rejection outcome.
func Rejected(reason RejectReason, message string) ValidationOutcome {
	return ValidationOutcome{Reason: reason, Message: message}
}
