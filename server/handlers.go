package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/promptlab-hq/promptlab/core"
	"github.com/promptlab-hq/promptlab/core/chain"
	"github.com/promptlab-hq/promptlab/llm"
)

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// apiError is the JSON error envelope shared by all endpoints.
type apiError struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, apiError{Error: msg})
}

// completionStatus maps a completion failure to an HTTP status: bad
// input is the caller's fault, upstream trouble is a gateway problem.
func completionStatus(err error) int {
	var unknown *llm.UnknownModelError
	if errors.As(err, &unknown) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

// decodeBody parses the JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// clampTokens keeps a requested token count inside the configured
// ceiling. Zero or negative requests take the ceiling itself.
func clampTokens(requested, ceiling int) int {
	if requested <= 0 || requested > ceiling {
		return ceiling
	}
	return requested
}

// handlePage serves the view selected by the ?view= query parameter.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	view, err := ParseView(r.URL.Query().Get("view"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sess := s.getSession(w, r)
	if view == ViewAdmin && !sess.Admin {
		// Unauthenticated admin requests still render the view; the page
		// shows the login form until the session authenticates.
		slog.Debug("admin view requested without auth", "session", sess.ID)
	}

	html, err := s.renderPage(view, sess)
	if err != nil {
		slog.Error("rendering page", "view", view, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

type generateRequest struct {
	Model        string   `json:"model"`
	Models       []string `json:"models,omitempty"`
	SystemPrompt string   `json:"system_prompt"`
	UserPrompt   string   `json:"user_prompt"`
	Temperature  *float64 `json:"temperature,omitempty"`
	MaxTokens    int      `json:"max_tokens"`
}

type generateResponse struct {
	Response   *llm.ModelResponse `json:"response,omitempty"`
	Comparison []comparisonEntry  `json:"comparison,omitempty"`
	Failures   map[string]string  `json:"failures,omitempty"`
}

// handleGenerate runs a single completion, or one per visible model
// when comparison mode is on.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if strings.TrimSpace(req.UserPrompt) == "" {
		writeError(w, http.StatusBadRequest, "user prompt must not be empty")
		return
	}

	sess := s.getSession(w, r)
	maxTokens := clampTokens(req.MaxTokens, s.settings.MaxTokens())
	// An absent temperature takes the default; an explicit 0 is kept.
	temp := core.DefaultTemperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}

	if s.settings.ComparisonMode() {
		models := req.Models
		if len(models) == 0 {
			models = s.settings.VisibleModels()
		}
		if len(models) == 0 {
			writeError(w, http.StatusBadRequest, "no models selected for comparison")
			return
		}

		results, failures, err := s.client.GenerateComparison(r.Context(), models, req.SystemPrompt, req.UserPrompt, temp, maxTokens)
		if err != nil {
			writeError(w, completionStatus(err), err.Error())
			return
		}

		sess.Comparison = results
		sess.ComparisonOrder = orderedNames(models, results)
		sess.ComparisonFailures = failureMessages(failures)
		sess.LastResponse = nil

		resp := generateResponse{Failures: sess.ComparisonFailures}
		for _, name := range sess.ComparisonOrder {
			resp.Comparison = append(resp.Comparison, comparisonEntry{Model: name, Response: results[name]})
		}
		writeJSON(w, http.StatusOK, resp)
		return
	}

	result, err := s.client.Generate(r.Context(), llm.GenerateRequest{
		Model:        req.Model,
		SystemPrompt: req.SystemPrompt,
		UserPrompt:   req.UserPrompt,
		Temperature:  temp,
		MaxTokens:    maxTokens,
	})
	if err != nil {
		writeError(w, completionStatus(err), err.Error())
		return
	}

	sess.LastResponse = result
	sess.Comparison = nil
	sess.ComparisonOrder = nil
	sess.ComparisonFailures = nil

	writeJSON(w, http.StatusOK, generateResponse{Response: result})
}

// orderedNames returns the requested model order filtered to models
// that produced a result.
func orderedNames(requested []string, results map[string]*llm.ModelResponse) []string {
	var out []string
	for _, name := range requested {
		if _, ok := results[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

func failureMessages(failures map[string]error) map[string]string {
	if len(failures) == 0 {
		return nil
	}
	out := make(map[string]string, len(failures))
	for name, err := range failures {
		out[name] = err.Error()
	}
	return out
}

type promptRequest struct {
	Description string `json:"description"`
	Existing    string `json:"existing,omitempty"`
	Change      string `json:"change,omitempty"`
}

type promptResponse struct {
	Prompt string `json:"prompt"`
}

// handlePromptGen generates or edits a system prompt from a natural
// language description. Gated behind the generate_prompt_enabled
// setting.
func (s *Server) handlePromptGen(w http.ResponseWriter, r *http.Request) {
	if !s.settings.GeneratePromptEnabled() {
		writeError(w, http.StatusForbidden, "prompt generation is disabled")
		return
	}

	var req promptRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	var prompt string
	var err error
	switch {
	case strings.TrimSpace(req.Existing) != "":
		if strings.TrimSpace(req.Change) == "" {
			writeError(w, http.StatusBadRequest, "change description must not be empty")
			return
		}
		prompt, err = s.client.EditSystemPrompt(r.Context(), req.Existing, req.Change)
	case strings.TrimSpace(req.Description) != "":
		prompt, err = s.client.GenerateSystemPrompt(r.Context(), req.Description)
	default:
		writeError(w, http.StatusBadRequest, "description must not be empty")
		return
	}
	if err != nil {
		writeError(w, completionStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, promptResponse{Prompt: prompt})
}

type loginRequest struct {
	Password string `json:"password"`
}

// handleAdminLogin authenticates the session against the configured
// admin password.
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	sess := s.getSession(w, r)
	if req.Password != s.cfg.AdminPassword() {
		slog.Warn("failed admin login", "session", sess.ID)
		writeError(w, http.StatusForbidden, "invalid password")
		return
	}

	sess.Admin = true
	writeJSON(w, http.StatusOK, map[string]bool{"admin": true})
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	sess.Admin = false
	writeJSON(w, http.StatusOK, map[string]bool{"admin": false})
}

type adminSaveRequest struct {
	VisibleModels         *[]string `json:"visible_models,omitempty"`
	ShowPricing           *bool     `json:"show_pricing,omitempty"`
	MaxTokens             *int      `json:"max_tokens,omitempty"`
	ComparisonMode        *bool     `json:"comparison_mode,omitempty"`
	GeneratePromptEnabled *bool     `json:"generate_prompt_enabled,omitempty"`
}

// handleAdminSave persists settings changes. Requires an authenticated
// admin session. Absent fields are left untouched.
func (s *Server) handleAdminSave(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	if !sess.Admin {
		writeError(w, http.StatusForbidden, "admin authentication required")
		return
	}

	var req adminSaveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	values := make(map[string]any)
	if req.VisibleModels != nil {
		for _, name := range *req.VisibleModels {
			if _, ok := s.registry.Get(name); !ok {
				writeError(w, http.StatusBadRequest, "unknown model: "+name)
				return
			}
		}
		values["visible_models"] = *req.VisibleModels
	}
	if req.ShowPricing != nil {
		values["show_pricing"] = *req.ShowPricing
	}
	if req.MaxTokens != nil {
		if *req.MaxTokens <= 0 {
			writeError(w, http.StatusBadRequest, "max_tokens must be positive")
			return
		}
		values["max_tokens"] = *req.MaxTokens
	}
	if req.ComparisonMode != nil {
		values["comparison_mode"] = *req.ComparisonMode
	}
	if req.GeneratePromptEnabled != nil {
		values["generate_prompt_enabled"] = *req.GeneratePromptEnabled
	}
	if len(values) == 0 {
		writeError(w, http.StatusBadRequest, "no settings provided")
		return
	}

	if err := s.settings.Update(values); err != nil {
		slog.Error("saving settings", "error", err)
		writeError(w, http.StatusInternalServerError, "saving settings failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

type chainStartRequest struct {
	Seed            string            `json:"seed"`
	Stage           chain.StageConfig `json:"stage"`
	IncludeOriginal bool              `json:"include_original"`
	MaxTokens       int               `json:"max_tokens"`
}

type chainContinueRequest struct {
	Stage     int               `json:"stage"`
	Config    chain.StageConfig `json:"config"`
	MaxTokens int               `json:"max_tokens"`
	// IncludeOriginal is decided when stage 3 actually runs; absent
	// leaves the chain's current flag alone.
	IncludeOriginal *bool `json:"include_original,omitempty"`
}

// chainStatus maps a chain transition failure to an HTTP status.
func chainStatus(err error) int {
	if errors.Is(err, chain.ErrEmptySeed) ||
		errors.Is(err, chain.ErrStageNotReady) ||
		errors.Is(err, chain.ErrStageDone) {
		return http.StatusBadRequest
	}
	return completionStatus(err)
}

func (s *Server) handleChainStart(w http.ResponseWriter, r *http.Request) {
	var req chainStartRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	sess := s.getSession(w, r)
	sess.Chain.SetIncludeOriginal(req.IncludeOriginal)

	maxTokens := clampTokens(req.MaxTokens, s.settings.MaxTokens())
	if err := sess.Chain.Start(r.Context(), req.Seed, req.Stage, maxTokens); err != nil {
		writeError(w, chainStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, buildChainData(sess.Chain))
}

func (s *Server) handleChainContinue(w http.ResponseWriter, r *http.Request) {
	var req chainContinueRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	sess := s.getSession(w, r)
	if req.IncludeOriginal != nil {
		sess.Chain.SetIncludeOriginal(*req.IncludeOriginal)
	}

	maxTokens := clampTokens(req.MaxTokens, s.settings.MaxTokens())
	if err := sess.Chain.Continue(r.Context(), req.Stage, req.Config, maxTokens); err != nil {
		writeError(w, chainStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, buildChainData(sess.Chain))
}

func (s *Server) handleChainReset(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(w, r)
	sess.Chain.Reset()
	writeJSON(w, http.StatusOK, buildChainData(sess.Chain))
}
