package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"valid simple", "alice", false},
		{"valid with underscore", "alice_b", false},
		{"valid with hyphen", "alice-b", false},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 21), true},
		{"max length ok", strings.Repeat("a", 20), false},
		{"invalid chars", "alice!", true},
		{"leading underscore", "_alice", true},
		{"trailing hyphen", "alice-", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("a@b.co"))
	assert.NoError(t, ValidateEmail("user.name+tag@example.org"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("a@b"))
	assert.Error(t, ValidateEmail(strings.Repeat("a", 250)+"@b.co"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("Str0ngPass!word"))
	assert.Error(t, ValidatePassword("short1!A"))
	assert.Error(t, ValidatePassword("alllowercase1!aa"))
	assert.Error(t, ValidatePassword("ALLUPPERCASE1!AA"))
	assert.Error(t, ValidatePassword("NoDigitsHere!!aa"))
	assert.Error(t, ValidatePassword("NoSpecials12345aA"))
}

func TestValidateCaption(t *testing.T) {
	assert.NoError(t, ValidateCaption(""))
	assert.NoError(t, ValidateCaption(strings.Repeat("x", 300)))
	assert.Error(t, ValidateCaption(strings.Repeat("x", 301)))
}

func TestValidateAvatarURL(t *testing.T) {
	assert.NoError(t, ValidateAvatarURL(""))
	assert.NoError(t, ValidateAvatarURL("https://i.pravatar.cc/150?u=abc"))
	assert.NoError(t, ValidateAvatarURL("http://example.com/a.png"))
	assert.Error(t, ValidateAvatarURL("ftp://example.com/a.png"))
	assert.Error(t, ValidateAvatarURL("not a url"))
	assert.Error(t, ValidateAvatarURL("https://example.com/"+strings.Repeat("x", 255)))
}

func TestValidateCommentText(t *testing.T) {
	assert.NoError(t, ValidateCommentText("nice shot"))
	assert.Error(t, ValidateCommentText(""))
	assert.Error(t, ValidateCommentText("   "))
	assert.Error(t, ValidateCommentText(strings.Repeat("x", 151)))
}

func TestSplitKeywords(t *testing.T) {
	assert.Equal(t, []string{"cat", "black"}, SplitKeywords("  cat   black "))
	assert.Empty(t, SplitKeywords(""))
	assert.Empty(t, SplitKeywords("   \t  "))
}
