package app

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pdm/pkg/app/config"
	"pdm/pkg/capture"
	"pdm/pkg/pdm"
	"pdm/pkg/pulsetrain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/womat/debug"
)

func TestMain(m *testing.M) {
	debug.SetDebug(os.Stderr, debug.Standard)
	os.Exit(m.Run())
}

func newApp(t *testing.T) *App {
	c := config.NewConfig()
	c.WordLog.Pattern = filepath.Join(t.TempDir(), "%Y%m%d.csv")

	a, err := New(c)
	require.NoError(t, err)
	return a
}

func get(t *testing.T, a *App, path string, v interface{}) int {
	resp, err := a.web.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if v != nil {
		require.NoError(t, json.Unmarshal(b, v))
	}
	return resp.StatusCode
}

func TestDecodedWords(t *testing.T) {
	a := newApp(t)

	frame := pulsetrain.Frame(1_000_000, pdm.ActiveLow, pulsetrain.DefaultTiming(pdm.DefaultConfig()), []uint{1, 0, 1, 0, 0, 1})
	require.NoError(t, a.decoder.Decode(capture.NewSlice(frame)))

	var words []word
	assert.Equal(t, http.StatusOK, get(t, a, "/words", &words))
	require.Len(t, words, 1)
	assert.Equal(t, "0x29", words[0].Word)

	// the word is published and logged as well
	require.Len(t, a.mqtt.C, 1)
	msg := <-a.mqtt.C
	assert.Equal(t, "/pdm/word", msg.Topic)
	assert.Contains(t, string(msg.Payload), `"word":"0x29"`)

	require.NoError(t, a.Close())
	files, err := filepath.Glob(filepath.Join(filepath.Dir(a.config.WordLog.Pattern), "*.csv"))
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestThresholds(t *testing.T) {
	a := newApp(t)

	var th map[string]interface{}
	assert.Equal(t, http.StatusOK, get(t, a, "/thresholds", &th))
	assert.Equal(t, 481.0, th["zerosamples"])
	assert.Equal(t, 639.0, th["onesamples"])
	assert.Equal(t, "active-low", th["polarity"])
	assert.Equal(t, 1e6, th["samplerate"])
}

func TestVersionAndHealth(t *testing.T) {
	a := newApp(t)

	var v map[string]string
	assert.Equal(t, http.StatusOK, get(t, a, "/version", &v))
	assert.Equal(t, MODULE, v["description"])
	assert.Equal(t, Version(), v["about"])

	var h map[string]interface{}
	assert.Equal(t, http.StatusOK, get(t, a, "/health", &h))
	assert.Equal(t, false, h["Decoding"])
	assert.Equal(t, 0.0, h["Words"])
	assert.NotContains(t, h, "LastWord")
}

func TestDisabledWebservice(t *testing.T) {
	c := config.NewConfig()
	c.Webserver.Webservices["words"] = false

	a, err := New(c)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, get(t, a, "/words", nil))
}

func TestNewInvalidOptions(t *testing.T) {
	c := config.NewConfig()
	c.Decoder.Endian = "mixed"

	_, err := New(c)
	assert.ErrorIs(t, err, pdm.ErrInvalidOption)
}

func TestRunWithoutSampleRate(t *testing.T) {
	c := config.NewConfig()
	c.Decoder.SampleRate = 0

	a, err := New(c)
	require.NoError(t, err)
	assert.ErrorIs(t, a.Run(), pdm.ErrNoSampleRate)
}

func TestWordStore(t *testing.T) {
	s := newWordStore(2)
	at := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }

	s.Put(pdm.Annotation{Kind: pdm.Hex, Text: "5"})
	for _, w := range []string{"0x1", "0x2", "0x3"} {
		s.Put(pdm.Annotation{Kind: pdm.Word, Text: w})
	}

	words := s.Get()
	require.Len(t, words, 2)
	assert.Equal(t, "0x2", words[0].Word)
	assert.Equal(t, "0x3", words[1].Word)

	n, last := s.Stats()
	assert.Equal(t, uint64(3), n)
	assert.Equal(t, at, last)
}
