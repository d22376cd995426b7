package stt

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/savemoney/internal/common"
)

func TestWhisperClient_Transcribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))
		assert.Equal(t, "zh", r.FormValue("language"))
		assert.Equal(t, "text", r.FormValue("response_format"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "memo.webm", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, []byte("RIFF-audio"), data)

		_, _ = w.Write([]byte("  买了一杯咖啡十八元\n"))
	}))
	defer server.Close()

	c := NewWhisperClient(Config{APIKey: "test-key", BaseURL: server.URL + "/v1/"})
	text, err := c.Transcribe(context.Background(), []byte("RIFF-audio"), "/tmp/memo.webm")
	require.NoError(t, err)
	assert.Equal(t, "买了一杯咖啡十八元", text)
}

func TestWhisperClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		audio   []byte
		wantErr error
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, audio: []byte("a"), wantErr: common.ErrRateLimit},
		{name: "server error", status: http.StatusBadGateway, body: "bad gateway", audio: []byte("a"), wantErr: common.ErrSTTUnavailable},
		{name: "silence", status: http.StatusOK, body: "  ", audio: []byte("a"), wantErr: ErrNoSpeech},
		{name: "empty audio", status: http.StatusOK, body: "x", wantErr: common.ErrEmptyAudio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewWhisperClient(Config{APIKey: "k", BaseURL: server.URL})
			_, err := c.Transcribe(context.Background(), tt.audio, "a.wav")
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNew(t *testing.T) {
	_, err := New(Config{})
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorIs(t, err, common.ErrSTTUnavailable)

	tr, err := New(Config{Mock: true})
	require.NoError(t, err)
	assert.IsType(t, &MockTranscriber{}, tr)

	tr, err = New(Config{APIKey: "k", Mock: true})
	require.NoError(t, err)
	assert.IsType(t, &WhisperClient{}, tr)
}

func TestMockTranscriber(t *testing.T) {
	m := NewMockTranscriber(func(n int) int { return n - 1 })

	text, err := m.Transcribe(context.Background(), []byte("x"), "")
	require.NoError(t, err)
	assert.Equal(t, "外卖点餐四十二元", text)

	_, err = m.Transcribe(context.Background(), nil, "")
	require.ErrorIs(t, err, common.ErrEmptyAudio)

	random := NewMockTranscriber(nil)
	text, err = random.Transcribe(context.Background(), []byte("x"), "")
	require.NoError(t, err)
	assert.Contains(t, SampleUtterances, text)
}
