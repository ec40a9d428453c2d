// Package upload implements the file-intake side of the pipeline: the pure
// validator that gates candidate files and the per-screen state that holds
// the accepted one.
package upload

import (
	"fmt"
	"strings"

	"kinovek-client/internal/domain"
)

// mimeTable maps an accepted extension to the MIME types browsers and OSes
// are known to declare for it. The MIME check is a secondary signal: a file
// is rejected only if both the extension and the declared MIME type fail,
// which tolerates platforms that report inconsistent types for the same
// extension.
var mimeTable = map[string][]string{
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
}

const msgEmptyFile = "File is empty. Please upload a valid resume."

// Validate decides whether a candidate file is acceptable under the given
// configuration. It is pure: callers surface the rejection message and
// mutate upload state themselves.
//
// Checks run in order and short-circuit: type (extension OR declared MIME),
// then size, then emptiness.
func Validate(file *domain.CandidateFile, cfg domain.UploadConfiguration) domain.ValidationOutcome {
	ext := extensionOf(file.Name)

	validExt := false
	for _, accepted := range cfg.AcceptedExtensions {
		if strings.EqualFold(accepted, ext) {
			validExt = true
			break
		}
	}

	allowedMimes := mimeUnion(cfg.AcceptedExtensions)
	// An empty union means no MIME mapping exists for the accepted set, so
	// the secondary check cannot veto anything.
	validMime := len(allowedMimes) == 0
	for _, m := range allowedMimes {
		if strings.EqualFold(m, file.MimeType) {
			validMime = true
			break
		}
	}

	if !validExt && !validMime {
		reason := domain.RejectBadExtension
		if file.MimeType != "" {
			reason = domain.RejectBadMimeType
		}
		msg := fmt.Sprintf("Invalid file type %q. Only %s files are allowed.", ext, allowedLabel(cfg.AcceptedExtensions))
		return domain.Rejected(reason, msg)
	}

	if file.Size() > cfg.MaxSizeBytes {
		msg := fmt.Sprintf("File is too large (%s). Maximum size is %dMB.", FormatFileSize(file.Size()), cfg.MaxSizeMB())
		return domain.Rejected(domain.RejectTooLarge, msg)
	}

	if file.Size() == 0 {
		return domain.Rejected(domain.RejectEmpty, msgEmptyFile)
	}

	return domain.Accepted()
}

// extensionOf returns "." plus the case-folded substring after the last dot.
// A name without a dot yields the whole name behind a dot, which can never
// match the accepted set.
func extensionOf(name string) string {
	lower := strings.ToLower(name)
	if i := strings.LastIndex(lower, "."); i >= 0 {
		return lower[i:]
	}
	return "." + lower
}

func mimeUnion(extensions []string) []string {
	var union []string
	for _, ext := range extensions {
		union = append(union, mimeTable[strings.ToLower(ext)]...)
	}
	return union
}

// allowedLabel renders the accepted set the way the rejection message shows
// it: "PDF or DOCX".
func allowedLabel(extensions []string) string {
	names := make([]string, 0, len(extensions))
	for _, ext := range extensions {
		names = append(names, strings.ToUpper(strings.TrimPrefix(ext, ".")))
	}
	return strings.Join(names, " or ")
}

// FormatFileSize renders a byte count for user-facing messages: whole bytes
// below 1 KiB, one decimal of KB below 1 MiB, one decimal of MB above.
func FormatFileSize(bytes int64) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%d B", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(bytes)/(1024*1024))
	}
}
