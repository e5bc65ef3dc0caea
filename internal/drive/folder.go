package drive

import (
	"regexp"
	"strings"
)

var folderIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/folders/([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`id=([a-zA-Z0-9_-]+)`),
}

// ExtractFolderID pulls the folder ID out of a Drive share link such as
// https://drive.google.com/drive/folders/<id> or .../open?id=<id>.
func ExtractFolderID(link string) (string, bool) {
	if strings.TrimSpace(link) == "" {
		return "", false
	}
	for _, re := range folderIDPatterns {
		if m := re.FindStringSubmatch(link); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ResolveFolderID is ExtractFolderID that also accepts a bare folder ID.
func ResolveFolderID(arg string) (string, bool) {
	if id, ok := ExtractFolderID(arg); ok {
		return id, true
	}
	arg = strings.TrimSpace(arg)
	return arg, arg != ""
}

// LooksProcessed reports whether a link cell already holds generated
// thumbnail URLs rather than a folder link.
func LooksProcessed(value string) bool {
	return strings.Contains(strings.ToLower(value), "thumbnail")
}
