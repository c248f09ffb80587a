package openai

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	t.Setenv("TEST_EMBED_KEY", "secret")
	c, err := NewClient(Config{BaseURL: url, APIKeyEnv: "TEST_EMBED_KEY", Model: "test-model"}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("TEST_EMBED_KEY", "")
	if _, err := NewClient(Config{APIKeyEnv: "TEST_EMBED_KEY"}, zerolog.Nop()); err == nil {
		t.Fatal("NewClient without key succeeded, want error")
	}
}

func TestEmbedBatchPreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.Model != "test-model" {
			t.Errorf("model = %q", body.Model)
		}
		type item struct {
			Embedding []float32 `json:"embedding"`
		}
		out := struct {
			Data []item `json:"data"`
		}{}
		for i := range body.Input {
			out.Data = append(out.Data, item{Embedding: []float32{float32(i), 1}})
		}
		_ = json.NewEncoder(w).Encode(out)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	vecs, err := c.EmbedBatch([]string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vecs))
	}
	for i, v := range vecs {
		if v[0] != float32(i) {
			t.Fatalf("vector %d out of order: %v", i, v)
		}
	}
	if c.Dimension() != 2 {
		t.Fatalf("Dimension = %d, want 2", c.Dimension())
	}
}

func TestEmbedSingle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.25,0.5,0.75]}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	vec, err := c.Embed("hello")
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 3 || vec[1] != 0.5 {
		t.Fatalf("Embed = %v", vec)
	}
}

func TestEmbedBatchRejectsEmptyInput(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:0")
	if _, err := c.EmbedBatch(nil); err == nil {
		t.Fatal("EmbedBatch(nil) succeeded, want error")
	}
}

func TestEmbedClientErrorNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.Embed("hello"); err == nil {
		t.Fatal("Embed with 400 succeeded, want error")
	}
	if calls != 1 {
		t.Fatalf("client errors retried %d times, want 1 call", calls)
	}
}
