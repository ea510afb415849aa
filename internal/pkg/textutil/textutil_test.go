package textutil

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "iphone-15-pro", Slugify("  iPhone 15 Pro "))
	assert.Equal(t, "home-garden", Slugify("Home & Garden"))
	assert.Equal(t, "кава-зерно", Slugify("Кава, зерно!"))
	assert.Equal(t, "", Slugify("!!!"))
}

func TestFirstRune(t *testing.T) {
	assert.Equal(t, "A", FirstRune("apple"))
	assert.Equal(t, "Ж", FirstRune(" жовтий"))
	assert.Equal(t, "", FirstRune(""))
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "Lap", Prefix("Laptop", 3))
	assert.Equal(t, "TV", Prefix("TV", 3))
	assert.Equal(t, "Кав", Prefix("Кава", 3))
}

func TestRandomToken(t *testing.T) {
	token := RandomToken(6)
	assert.Regexp(t, regexp.MustCompile(`^[0-9A-F]{6}$`), token)
	assert.NotEqual(t, token, RandomToken(6))
	assert.Len(t, RandomToken(100), 32)
}
