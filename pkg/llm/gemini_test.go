package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJSON(t *testing.T) {
	var captured generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "key-1", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"answer\":\"We open at 8.\"}"}]}}]}`))
	}))
	defer srv.Close()

	client := NewClient("key-1", "gemini-test", srv.URL+"/", time.Second)
	var out struct {
		Answer string `json:"answer"`
	}
	err := client.GenerateJSON(context.Background(), "When do you open?", StringObject("answer", "The answer"), &out)
	require.NoError(t, err)

	assert.Equal(t, "We open at 8.", out.Answer)
	assert.Equal(t, "application/json", captured.GenerationConfig.ResponseMIMEType)
	require.NotNil(t, captured.GenerationConfig.ResponseSchema)
	assert.Equal(t, []string{"answer"}, captured.GenerationConfig.ResponseSchema.Required)
	assert.Equal(t, "When do you open?", captured.Contents[0].Parts[0].Text)
}

func TestGenerateJSONErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models/denied:generateContent":
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key invalid","status":"PERMISSION_DENIED"}}`))
		default:
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}
	}))
	defer srv.Close()

	var out map[string]string
	err := NewClient("k", "denied", srv.URL, time.Second).GenerateJSON(context.Background(), "q", StringObject("a", ""), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key invalid")

	err = NewClient("k", "empty", srv.URL, time.Second).GenerateJSON(context.Background(), "q", StringObject("a", ""), &out)
	assert.ErrorIs(t, err, ErrEmptyResponse)

	err = NewClient("", "empty", srv.URL, time.Second).GenerateJSON(context.Background(), "q", StringObject("a", ""), &out)
	assert.Error(t, err)
}
