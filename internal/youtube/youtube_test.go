package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"notebook/internal/config"
	"notebook/internal/fetch"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ", true},
		{"https://youtube.com/watch?feature=share&v=abc_-123", "abc_-123", true},
		{"https://youtu.be/xyz789?t=42", "xyz789", true},
		{"https://www.youtube.com/embed/EMB3D", "EMB3D", true},
		{"https://www.youtube.com/shorts/sh0rt", "sh0rt", true},
		{"https://vimeo.com/12345", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := ExtractVideoID(tc.url)
		assert.Equal(t, tc.ok, ok, tc.url)
		assert.Equal(t, tc.want, got, tc.url)
	}
}

func TestParseJSON3(t *testing.T) {
	data := []byte(`{"wireMagic":"pb3","events":[
		{"tStartMs":0,"segs":[{"utf8":"so today"},{"utf8":" we talk"}]},
		{"tStartMs":1200,"segs":[{"utf8":"\n"}]},
		{"tStartMs":1500,"segs":[{"utf8":"about tariffs."}]},
		{"tStartMs":2000}
	]}`)
	got, err := parseJSON3(data)
	require.NoError(t, err)
	assert.Equal(t, "so today we talk about tariffs.", got)

	_, err = parseJSON3(nil)
	assert.Error(t, err)
	_, err = parseJSON3([]byte("{"))
	assert.Error(t, err)
}

type fakeRunner struct {
	out  string
	err  error
	name string
	args []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.name = name
	f.args = args
	return []byte(f.out), f.err
}

func captionServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/manual-en":
			_, _ = w.Write([]byte(`{"events":[{"segs":[{"utf8":"manual english"}]}]}`))
		case "/auto-en":
			_, _ = w.Write([]byte(`{"events":[{"segs":[{"utf8":"auto english"}]}]}`))
		case "/auto-fr":
			_, _ = w.Write([]byte(`{"events":[{"segs":[{"utf8":"auto french"}]}]}`))
		case "/empty":
			_, _ = w.Write([]byte(`{"events":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func infoJSON(base string) string {
	return fmt.Sprintf(`{"id":"vid1","title":"Policy Talk",`+
		`"subtitles":{"en":[{"ext":"vtt","url":"%[1]s/vtt"},{"ext":"json3","url":"%[1]s/manual-en"}]},`+
		`"automatic_captions":{"fr":[{"ext":"json3","url":"%[1]s/auto-fr"}],"en-orig":[{"ext":"json3","url":"%[1]s/auto-en"}]}}`, base)
}

func newFetcher(srv *httptest.Server, runner Runner, cfg config.TranscriptConfig) *TranscriptFetcher {
	client := fetch.New(time.Second, 0, "")
	client.HTTP = srv.Client()
	return NewTranscriptFetcher(cfg, client, runner, nil)
}

func TestFetchPrefersManualTrack(t *testing.T) {
	srv := captionServer(t)
	runner := &fakeRunner{out: "WARNING: something minor\n" + infoJSON(srv.URL) + "\n"}
	f := newFetcher(srv, runner, config.TranscriptConfig{
		Languages:    []string{"en"},
		PreferManual: true,
		YtDlp:        config.YtDlpConfig{Name: "yt-dlp"},
	})

	tr, err := f.Fetch(context.Background(), "vid1")
	require.NoError(t, err)
	assert.Equal(t, "manual english", tr.Text)
	assert.Equal(t, "Policy Talk", tr.Title)
	assert.Equal(t, "en", tr.Language)

	assert.Equal(t, "yt-dlp", runner.name)
	assert.Contains(t, runner.args, "-j")
	assert.Contains(t, runner.args, "--skip-download")
	assert.Contains(t, runner.args, "--no-warnings")
	assert.Equal(t, "https://www.youtube.com/watch?v=vid1", runner.args[len(runner.args)-1])
}

func TestFetchAutomaticCaptionLanguageOrder(t *testing.T) {
	srv := captionServer(t)
	runner := &fakeRunner{out: infoJSON(srv.URL)}
	f := newFetcher(srv, runner, config.TranscriptConfig{
		Languages: []string{"en"},
		YtDlp:     config.YtDlpConfig{Path: "/opt/bin/yt-dlp", ShowWarnings: true},
	})

	tr, err := f.Fetch(context.Background(), "vid1")
	require.NoError(t, err)
	assert.Equal(t, "auto english", tr.Text)
	assert.Equal(t, "en-orig", tr.Language)
	assert.Equal(t, "/opt/bin/yt-dlp", runner.name)
	assert.NotContains(t, runner.args, "--no-warnings")

	f.languages = []string{"de"}
	tr, err = f.Fetch(context.Background(), "vid1")
	require.NoError(t, err)
	assert.Equal(t, "en-orig", tr.Language, "unlisted languages fall back alphabetically")
}

func TestFetchWithoutCaptions(t *testing.T) {
	srv := captionServer(t)
	runner := &fakeRunner{out: `{"id":"vid2","title":"Silent","subtitles":{},"automatic_captions":{"en":[{"ext":"vtt","url":"x"}]}}`}
	f := newFetcher(srv, runner, config.TranscriptConfig{Languages: []string{"en"}})

	_, err := f.Fetch(context.Background(), "vid2")
	assert.ErrorIs(t, err, ErrNoTranscript)

	runner.out = strings.Replace(infoJSON(srv.URL), "/manual-en", "/empty", 1)
	f.preferManual = true
	_, err = f.Fetch(context.Background(), "vid1")
	assert.ErrorIs(t, err, ErrNoTranscript)
}

func TestFetchRunnerFailure(t *testing.T) {
	srv := captionServer(t)
	f := newFetcher(srv, &fakeRunner{out: "ERROR: Video unavailable", err: errors.New("exit status 1")}, config.TranscriptConfig{})

	_, err := f.Fetch(context.Background(), "gone")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Video unavailable")

	_, err = f.Fetch(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidURL)
}
