package enums

import "fmt"

// UploadCategory namespaces object-storage keys: <category>/<uid>/<filename>.
type UploadCategory string

const (
	UploadCategoryProfilePictures   UploadCategory = "profilePictures"
	UploadCategoryGovernmentIDs     UploadCategory = "governmentIds"
	UploadCategoryAdvertisingImages UploadCategory = "advertisingImages"
)

var validUploadCategories = []UploadCategory{
	UploadCategoryProfilePictures,
	UploadCategoryGovernmentIDs,
	UploadCategoryAdvertisingImages,
}

// String implements fmt.Stringer.
func (u UploadCategory) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UploadCategory.
func (u UploadCategory) IsValid() bool {
	for _, candidate := range validUploadCategories {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUploadCategory converts raw input into an UploadCategory.
func ParseUploadCategory(value string) (UploadCategory, error) {
	for _, candidate := range validUploadCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid upload category %q", value)
}
