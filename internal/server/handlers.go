package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gpslab/clientcore/internal/metrics"
	"github.com/gpslab/clientcore/internal/storage"
	"github.com/gpslab/clientcore/internal/validation"
	"github.com/gpslab/clientcore/internal/version"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]errorBody{"error": {Code: code, Message: message}})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "ok",
		"version":          version.GetVersion(),
		"storageAvailable": s.store.Available(),
		"counters":         s.registry.Snapshot(),
	})
}

type emailRequest struct {
	Email              string `json:"email"`
	Required           *bool  `json:"required,omitempty"`
	Strict             *bool  `json:"strict,omitempty"`
	AllowDisposable    *bool  `json:"allowDisposable,omitempty"`
	RequireEducational *bool  `json:"requireEducational,omitempty"`
	Locale             string `json:"locale,omitempty"`
}

func (s *Server) handleValidateEmail(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if !decodeBody(w, r, &req) {
		return
	}

	opts := validation.DefaultEmailOptions()
	opts.AllowDisposable = s.config.Validation.AllowDisposable
	opts.RequireEducational = s.config.Validation.RequireEducational
	if req.Required != nil {
		opts.Required = *req.Required
	}
	if req.Strict != nil {
		opts.Strict = *req.Strict
	}
	if req.AllowDisposable != nil {
		opts.AllowDisposable = *req.AllowDisposable
	}
	if req.RequireEducational != nil {
		opts.RequireEducational = *req.RequireEducational
	}
	opts.Locale = s.localeFor(req.Locale)

	result := validation.ValidateEmail(req.Email, opts)
	s.countValidation(result.IsValid)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"result": result,
		"class":  validation.ClassifyEmail(req.Email),
	})
}

type passwordRequest struct {
	Password     string `json:"password"`
	Confirmation string `json:"confirmation,omitempty"`
	User         struct {
		Email    string `json:"email,omitempty"`
		Username string `json:"username,omitempty"`
		Name     string `json:"name,omitempty"`
	} `json:"user,omitempty"`
	Locale string `json:"locale,omitempty"`
}

func (s *Server) handleValidatePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	loc := s.localeFor(req.Locale)
	policy := validation.DefaultPasswordPolicy()
	policy.MinLength = s.config.Validation.MinPasswordLength

	report := validation.ValidatePassword(req.Password, validation.PasswordOptions{
		Policy: policy,
		User: validation.UserInfo{
			Email:    req.User.Email,
			Username: req.User.Username,
			Name:     req.User.Name,
		},
		Locale: loc,
	})

	passed := report.IsValid
	response := map[string]interface{}{"report": report}
	if req.Confirmation != "" {
		match := validation.ValidatePasswordMatch(req.Password, req.Confirmation, loc)
		response["match"] = match
		passed = passed && match.IsValid
	}
	s.countValidation(passed)
	writeJSON(w, http.StatusOK, response)
}

type formRequest struct {
	Values      map[string]string                `json:"values"`
	Fields      map[string][]validation.RuleSpec `json:"fields"`
	Locale      string                           `json:"locale,omitempty"`
	StopOnFirst bool                             `json:"stopOnFirst,omitempty"`
}

func (s *Server) handleValidateForm(w http.ResponseWriter, r *http.Request) {
	var req formRequest
	if !decodeBody(w, r, &req) {
		return
	}

	schema, err := validation.SchemaFromSpecs(req.Fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_rule", err.Error())
		return
	}

	result := validation.ValidateForm(req.Values, schema, validation.FieldOptions{
		Locale:      s.localeFor(req.Locale),
		StopOnFirst: req.StopOnFirst,
	})
	s.countValidation(result.IsValid)
	writeJSON(w, http.StatusOK, result)
}

// countValidation feeds the pass/fail counters surfaced by /healthz.
func (s *Server) countValidation(passed bool) {
	if passed {
		s.registry.Inc(metrics.ValidationPassTotal)
	} else {
		s.registry.Inc(metrics.ValidationFailTotal)
	}
}

func (s *Server) handleStoreList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": s.store.GetAll()})
}

func (s *Server) handleStoreGet(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if !s.store.Has(key) {
		writeError(w, http.StatusNotFound, "not_found", fmt.Sprintf("key %q not found", key))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"key":   key,
		"value": s.store.Get(key, nil),
	})
}

type storePutRequest struct {
	Value      interface{} `json:"value"`
	TTLSeconds int64       `json:"ttlSeconds,omitempty"`
}

func (s *Server) handleStorePut(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	var req storePutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	opts := storage.SetOptions{}
	if req.TTLSeconds > 0 {
		opts.ExpiresIn = time.Duration(req.TTLSeconds) * time.Second
	}

	if !s.store.Set(key, req.Value, opts) {
		if !s.store.Available() {
			writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "storage backend is unavailable")
			return
		}
		writeError(w, http.StatusInsufficientStorage, "quota_exceeded", "storage quota exceeded")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStoreDelete(w http.ResponseWriter, r *http.Request) {
	s.store.Remove(r.PathValue("key"))
	w.WriteHeader(http.StatusNoContent)
}
