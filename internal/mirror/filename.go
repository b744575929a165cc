// Package mirror keeps a file-per-item JSON projection of the record
// store inside the linked library folder. The store is the source of
// truth during normal operation; a full sync makes disk the source of
// truth for that one moment.
package mirror

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FileExt is the mirror file extension, including the dot.
const FileExt = ".json"

// librarySubdir is created inside the linked folder so the mirror never
// mixes with the user's other files.
const librarySubdir = "library"

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)

// fileName computes "{id}_{sanitized-title}.json". Sanitization replaces
// every run of characters outside [A-Za-z0-9] with one hyphen and trims
// the ends; an empty result is fine because the id prefix alone keeps
// names unique across items.
func fileName(id int64, title string) string {
	slug := strings.Trim(nonAlnum.ReplaceAllString(title, "-"), "-")
	return fmt.Sprintf("%d_%s%s", id, slug, FileExt)
}

// idPrefix is the filename prefix shared by every name for the item.
func idPrefix(id int64) string {
	return strconv.FormatInt(id, 10) + "_"
}
