package drive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractFolderID(t *testing.T) {
	tests := []struct {
		name   string
		link   string
		want   string
		wantOK bool
	}{
		{"folders path", "https://drive.google.com/drive/folders/ABC123", "ABC123", true},
		{"folders path with query", "https://drive.google.com/drive/folders/1a-B_c?usp=sharing", "1a-B_c", true},
		{"user folders path", "https://drive.google.com/drive/u/0/folders/XYZ_789", "XYZ_789", true},
		{"open id", "https://drive.google.com/open?id=1klQ2pAq_F7eCwnJ9SMkIZS-V60fwLaBd&usp=drive_copy", "1klQ2pAq_F7eCwnJ9SMkIZS-V60fwLaBd", true},
		{"folders wins over id", "https://drive.google.com/drive/folders/FOLDER?id=OTHER", "FOLDER", true},
		{"empty", "", "", false},
		{"whitespace", "   \t", "", false},
		{"no pattern", "https://example.com/photos", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractFolderID(tt.link)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveFolderIDAcceptsBareID(t *testing.T) {
	id, ok := ResolveFolderID(" 1uqwgVOtPtRQErRoRM8D ")
	assert.True(t, ok)
	assert.Equal(t, "1uqwgVOtPtRQErRoRM8D", id)

	id, ok = ResolveFolderID("https://drive.google.com/drive/folders/ABC123")
	assert.True(t, ok)
	assert.Equal(t, "ABC123", id)

	_, ok = ResolveFolderID("  ")
	assert.False(t, ok)
}

func TestLooksProcessed(t *testing.T) {
	assert.True(t, LooksProcessed("https://drive.google.com/thumbnail?id=abc&sz=w1000"))
	assert.True(t, LooksProcessed("HTTPS://DRIVE.GOOGLE.COM/THUMBNAIL?id=a|b"))
	assert.False(t, LooksProcessed("https://drive.google.com/drive/folders/ABC123"))
	assert.False(t, LooksProcessed(""))
}
