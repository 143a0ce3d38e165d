package localization

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBundledCatalogsHaveSameKeys(t *testing.T) {
	l, err := Bundled()
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "tl"}, l.Languages())

	for key := range l.translations["en"] {
		_, ok := l.translations["tl"][key]
		assert.True(t, ok, "tl is missing %s", key)
	}
}

func TestGetStringFallbacks(t *testing.T) {
	fsys := fstest.MapFS{
		"i18n/en.json": {Data: []byte(`{"hello":"Hello","bye":"Goodbye"}`)},
		"i18n/tl.json": {Data: []byte(`{"hello":"Kumusta"}`)},
		"i18n/README":  {Data: []byte("ignored")},
	}
	l, err := NewLocalizer(fsys, "i18n")
	require.NoError(t, err)

	assert.Equal(t, "Kumusta", l.GetString("tl", "hello"))
	assert.Equal(t, "Goodbye", l.GetString("tl", "bye"))
	assert.Equal(t, "Hello", l.GetString("xx", "hello"))
	assert.Equal(t, "missing_key", l.GetString("en", "missing_key"))
}

func TestNewLocalizerErrors(t *testing.T) {
	_, err := NewLocalizer(fstest.MapFS{"i18n/tl.json": {Data: []byte(`{}`)}}, "i18n")
	assert.Error(t, err, "english catalog is required")

	_, err = NewLocalizer(fstest.MapFS{"i18n/en.json": {Data: []byte(`{`)}}, "i18n")
	assert.Error(t, err)

	_, err = NewLocalizer(fstest.MapFS{}, "nowhere")
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	l, err := Bundled()
	require.NoError(t, err)

	assert.Equal(t, "tl", l.Resolve("fil"))
	assert.Equal(t, "tl", l.Resolve("TL"))
	assert.Equal(t, "tl", l.Resolve("tl-PH"))
	assert.Equal(t, "tl", l.Resolve("fil-PH"))
	assert.Equal(t, "en", l.Resolve("en_US"))
	assert.Equal(t, "en", l.Resolve(""))
	assert.Equal(t, "en", l.Resolve("ja"))
}
