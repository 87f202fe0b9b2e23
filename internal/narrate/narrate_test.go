package narrate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/evidentia/internal/model"
)

func scoredResult(class model.Classification, score int, evidence ...model.EvidenceRecord) *model.VerificationResult {
	return &model.VerificationResult{
		OriginalClaim:   "Regular exercise improves cardiovascular health",
		NormalizedClaim: "regular exercise improves cardiovascular health",
		Classification:  class,
		ConfidenceScore: score,
		TopEvidence:     evidence,
	}
}

var natureRecord = model.EvidenceRecord{
	Type:  model.EvidencePeerReviewed,
	Title: "Exercise and the heart",
	Venue: "Nature",
	Link:  "https://doi.org/10.1038/abc",
}

func TestTemplate_Explain(t *testing.T) {
	tests := []struct {
		name string
		res  *model.VerificationResult
		want string
	}{
		{
			name: "fabricated",
			res:  &model.VerificationResult{Classification: model.ClassFabricated, FabricatedTerms: []string{"Quantum Neural Resonance", "Zorblax"}},
			want: "No peer-reviewed or credible evidence found for fabricated terms: Quantum Neural Resonance, Zorblax. Related real literature may exist but does not support these specific claims.",
		},
		{
			name: "implausible",
			res:  &model.VerificationResult{Classification: model.ClassPhysicallyImplausible},
			want: ImplausibleExplanation,
		},
		{
			name: "unsupported with zero score",
			res:  scoredResult(model.ClassUnsupported, 0),
			want: "No credible evidence found for this claim. The claim may be unsupported or require additional research.",
		},
		{
			name: "unsupported with weak evidence",
			res:  scoredResult(model.ClassUnsupported, 30, natureRecord),
			want: "Very weak evidence with confidence score 30. Limited supporting sources found: Exercise and the heart (Nature). Additional research needed.",
		},
		{
			name: "unsupported without sources",
			res:  scoredResult(model.ClassUnsupported, 10),
			want: "Very weak evidence with confidence score 10. No relevant sources found. Additional research needed.",
		},
		{
			name: "fully supported",
			res:  scoredResult(model.ClassFullySupported, 90, natureRecord, natureRecord, natureRecord, model.EvidenceRecord{Type: model.EvidencePreprint}),
			want: "Strong evidence with confidence score 90. 3 peer-reviewed source(s) directly confirm this claim. 1 preprint(s) provide additional support. Key evidence: Exercise and the heart (Nature).",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Explain(tt.res); got != tt.want {
				t.Errorf("Explain() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplate_ExplainPartial(t *testing.T) {
	partial := natureRecord
	partial.HasPartialSupport = true
	res := scoredResult(model.ClassPartiallySupported, 55, partial, model.EvidenceRecord{Type: model.EvidencePreprint, Title: "Preprint"})
	res.Contradictions = []model.ContradictionRecord{{Title: "Debunked"}}

	got := Explain(res)

	for _, part := range []string{
		"Mixed evidence with confidence score 55.",
		"1 peer-reviewed source(s) provide some support",
		"1 preprint(s) suggest preliminary evidence",
		"1 source(s) support core mechanisms",
		"but 1 contradictory source(s) exist.",
		"Supporting evidence includes: Exercise and the heart (Nature).",
		"Additional research needed for definitive conclusions.",
	} {
		if !strings.Contains(got, part) {
			t.Errorf("explanation %q missing %q", got, part)
		}
	}
}

func TestTemplate_Corrections(t *testing.T) {
	tests := []struct {
		class model.Classification
		want  string
	}{
		{model.ClassPhysicallyImplausible, ImplausibleCorrections},
		{model.ClassUnsupported, unsupportedCorrections},
		{model.ClassPartiallySupported, supportedCorrections},
		{model.ClassFullySupported, supportedCorrections},
	}

	for _, tt := range tests {
		t.Run(string(tt.class), func(t *testing.T) {
			if got := Corrections(&model.VerificationResult{Classification: tt.class}); got != tt.want {
				t.Errorf("Corrections() = %q, want %q", got, tt.want)
			}
		})
	}

	got := Corrections(&model.VerificationResult{Classification: model.ClassFabricated, FabricatedTerms: []string{"Zorblax"}})
	if !strings.HasPrefix(got, "Remove fabricated terms: Zorblax.") {
		t.Errorf("unexpected fabricated corrections: %q", got)
	}
}

type stubProvider struct {
	text string
	err  error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(context.Context, string, string) (string, error) {
	return s.text, s.err
}

func TestLLM_Narrate(t *testing.T) {
	res := scoredResult(model.ClassUnsupported, 30, natureRecord)
	template := Explain(res)

	tests := []struct {
		name     string
		provider *stubProvider
		want     string
	}{
		{"uses model text", &stubProvider{text: "One Nature study supports this. See https://doi.org/10.1038/abc."}, "One Nature study supports this. See https://doi.org/10.1038/abc."},
		{"provider error falls back", &stubProvider{err: errors.New("boom")}, template},
		{"citation leak falls back", &stubProvider{text: "See https://evil.example.com/paper"}, template},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := NewLLM(tt.provider, nil).Narrate(context.Background(), res)
			if err != nil {
				t.Fatalf("Narrate() error = %v", err)
			}
			if out.Explanation != tt.want {
				t.Errorf("Explanation = %q, want %q", out.Explanation, tt.want)
			}
			if out.Corrections != unsupportedCorrections {
				t.Errorf("Corrections = %q", out.Corrections)
			}
		})
	}
}

func TestBuildPrompt(t *testing.T) {
	res := scoredResult(model.ClassUnsupported, 30, natureRecord)
	res.Drivers = []string{"human peer-reviewed study found (doi: 10.1038/abc)"}

	prompt := BuildPrompt(res, evidenceURLs(res))

	for _, part := range []string{
		"- https://doi.org/10.1038/abc",
		"Claim: Regular exercise improves cardiovascular health",
		"Classification: Unsupported",
		"Confidence score: 30/100",
		"- human peer-reviewed study found (doi: 10.1038/abc)",
	} {
		if !strings.Contains(prompt, part) {
			t.Errorf("prompt missing %q", part)
		}
	}

	if !strings.Contains(BuildPrompt(scoredResult(model.ClassUnsupported, 0), nil), "(No evidence URLs available)") {
		t.Error("expected empty allowlist marker")
	}
}

func TestOpenAIProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "  Weak evidence.  "}},
			},
		})
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	text, err := provider.Complete(context.Background(), "system", "prompt")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "Weak evidence." {
		t.Errorf("Unexpected text: %q", text)
	}
}

func TestOpenAIProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "bad-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Complete(context.Background(), "system", "prompt"); err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestOllamaProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}
		var req ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "llama3.1:8b" || req.Stream {
			t.Errorf("unexpected request: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(ollamaResponse{Model: req.Model, Response: "Local summary.", Done: true})
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{Model: "llama3.1:8b", BaseURL: server.URL + "/", Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	text, err := provider.Complete(context.Background(), "system", "prompt")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "Local summary." {
		t.Errorf("Unexpected text: %q", text)
	}
}

func TestOllamaProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	provider, _ := NewOllamaProvider(Config{Model: "missing", BaseURL: server.URL, Timeout: 5})
	_, err := provider.Complete(context.Background(), "system", "prompt")
	if err == nil || !strings.Contains(err.Error(), "model not found") {
		t.Errorf("Expected model not found error, got %v", err)
	}
}

func TestOllamaProvider_NoModel(t *testing.T) {
	if _, err := NewOllamaProvider(Config{}); err == nil {
		t.Error("Expected error when model is not specified")
	}
}

func TestAnthropicProvider_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key test-key, got %s", r.Header.Get("x-api-key"))
		}
		_, _ = w.Write([]byte(`{"model":"claude","content":[{"type":"text","text":"Claude summary."}]}`))
	}))
	defer server.Close()

	provider, err := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	text, err := provider.Complete(context.Background(), "system", "prompt")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "Claude summary." {
		t.Errorf("Unexpected text: %q", text)
	}
}

func TestAnthropicProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer server.Close()

	provider, _ := NewAnthropicProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	_, err := provider.Complete(context.Background(), "system", "prompt")
	if err == nil || !strings.Contains(err.Error(), "rate_limit_error") {
		t.Errorf("Expected rate limit error, got %v", err)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		config  Config
		want    string
		wantErr bool
	}{
		{Config{}, "template", false},
		{Config{Provider: "template"}, "template", false},
		{Config{Provider: "OpenAI", APIKey: "k"}, "openai", false},
		{Config{Provider: "ollama", Model: "mistral"}, "ollama", false},
		{Config{Provider: "claude", APIKey: "k"}, "anthropic", false},
		{Config{Provider: "openai"}, "", true},
		{Config{Provider: "bard"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.config.Provider, func(t *testing.T) {
			n, err := New(tt.config, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if n.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", n.Name(), tt.want)
			}
		})
	}
}
