package domain

import "strings"

// ObjectKeyPrefix is the bucket prefix all managed files live under.
const ObjectKeyPrefix = "downloads/"

// ObjectKey returns the storage key for a stored filename slug.
func ObjectKey(slugValue string) string {
	return ObjectKeyPrefix + slugValue
}

// DownloadFileName reconstructs the original-looking filename and the file
// extension from a stored slug. The slug keeps the extension as a trailing
// "-<ext>" segment ("report-2024-pdf"); the reconstruction swaps that for a
// dot ("report-2024.pdf").
func DownloadFileName(slugValue string) (fileName, ext string) {
	parts := strings.Split(slugValue, "-")
	ext = strings.ToLower(parts[len(parts)-1])
	if len(parts) == 1 {
		return slugValue, ext
	}
	fileName = strings.TrimSuffix(slugValue, "-"+ext) + "." + ext
	return fileName, ext
}

// ContentTypeForExtension infers the response content type from a file
// extension. Unknown extensions yield "" and the header is left unset.
func ContentTypeForExtension(ext string) string {
	switch ext {
	case "gif", "jpg", "jpeg", "png":
		return "image/" + ext
	case "pdf":
		return "application/pdf"
	}
	return ""
}
