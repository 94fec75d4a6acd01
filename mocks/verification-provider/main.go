package main

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultPort      = "8081"
	defaultAppToken  = "verification-app-token"
	defaultSecretKey = "verification-secret-key"
	defaultLatencyMs = "50"

	externalRefPrefix = "-;externalUserId="
	maxClockSkew      = 5 * time.Minute
)

type Applicant struct {
	ID             string `json:"id"`
	ExternalUserID string `json:"externalUserId"`
}

type ReviewResult struct {
	ReviewAnswer     string `json:"reviewAnswer"`
	ReviewRejectType string `json:"reviewRejectType,omitempty"`
}

type ApplicantStatus struct {
	ReviewStatus string       `json:"reviewStatus"`
	ReviewResult ReviewResult `json:"reviewResult"`
}

type WebhookPayload struct {
	ApplicantID    string       `json:"applicantId"`
	ExternalUserID string       `json:"externalUserId"`
	Type           string       `json:"type"`
	ReviewStatus   string       `json:"reviewStatus"`
	ReviewResult   ReviewResult `json:"reviewResult"`
}

// SeedRequest registers an applicant for an investor id. Tests drive the
// provider state through it.
type SeedRequest struct {
	ExternalUserID   string `json:"externalUserId"`
	ReviewStatus     string `json:"reviewStatus"`
	ReviewAnswer     string `json:"reviewAnswer"`
	ReviewRejectType string `json:"reviewRejectType"`
	// CallbackURL, when set, receives a signed applicantReviewed webhook.
	CallbackURL string `json:"callbackUrl"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type applicantRecord struct {
	applicant Applicant
	status    ApplicantStatus
}

var (
	appToken      = getEnv("APP_TOKEN", defaultAppToken)
	secretKey     = getEnv("SECRET_KEY", defaultSecretKey)
	webhookSecret = os.Getenv("WEBHOOK_SECRET")
	latencyMs     = getEnvInt("LATENCY_MS", defaultLatencyMs)

	mu         sync.RWMutex
	byExternal = map[string]*applicantRecord{}
	byID       = map[string]*applicantRecord{}
	nextID     = 1
)

func main() {
	port := getEnv("PORT", defaultPort)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handleHealth)
	mux.HandleFunc("GET /resources/applicants/{ref}/one", signed(handleFindApplicant))
	mux.HandleFunc("GET /resources/applicants/{id}/status", signed(handleStatus))
	mux.HandleFunc("POST /control/applicants", handleSeed)

	log.Printf("mock verification provider starting on port %s", port)
	log.Printf("simulated latency: %dms, webhooks signed: %v", latencyMs, webhookSecret != "")

	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatal(err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "verification-provider",
		"version": "1.0.0",
	})
}

// signed checks the app token and the request signature the same way the
// real provider does: hex HMAC-SHA256 over ts + METHOD + path + body.
func signed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Duration(latencyMs) * time.Millisecond)
		log.Printf("incoming request: %s %s", r.Method, r.URL.RequestURI())

		if r.Header.Get("X-App-Token") != appToken {
			sendError(w, "invalid app token", http.StatusUnauthorized)
			return
		}
		ts, err := strconv.ParseInt(r.Header.Get("X-App-Access-Ts"), 10, 64)
		if err != nil {
			sendError(w, "missing or invalid X-App-Access-Ts", http.StatusUnauthorized)
			return
		}
		if skew := time.Since(time.Unix(ts, 0)); skew > maxClockSkew || skew < -maxClockSkew {
			sendError(w, "request timestamp outside allowed window", http.StatusUnauthorized)
			return
		}
		expected := sign(secretKey, ts, r.Method, r.URL.RequestURI())
		if !hmac.Equal([]byte(expected), []byte(r.Header.Get("X-App-Access-Sig"))) {
			sendError(w, "invalid signature", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func handleFindApplicant(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ref")
	externalID, ok := strings.CutPrefix(ref, externalRefPrefix)
	if !ok || externalID == "" {
		sendError(w, "expected -;externalUserId=<id>", http.StatusBadRequest)
		return
	}

	mu.RLock()
	rec, found := byExternal[externalID]
	mu.RUnlock()
	if !found {
		sendError(w, "applicant not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec.applicant)
}

func handleStatus(w http.ResponseWriter, r *http.Request) {
	mu.RLock()
	rec, found := byID[r.PathValue("id")]
	mu.RUnlock()
	if !found {
		sendError(w, "applicant not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec.status)
}

func handleSeed(w http.ResponseWriter, r *http.Request) {
	var req SeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.ExternalUserID == "" {
		sendError(w, "externalUserId is required", http.StatusBadRequest)
		return
	}
	if req.ReviewStatus == "" {
		req.ReviewStatus = "completed"
	}

	mu.Lock()
	rec, found := byExternal[req.ExternalUserID]
	if !found {
		rec = &applicantRecord{applicant: Applicant{
			ID:             fmt.Sprintf("app-%06d", nextID),
			ExternalUserID: req.ExternalUserID,
		}}
		nextID++
		byExternal[req.ExternalUserID] = rec
		byID[rec.applicant.ID] = rec
	}
	rec.status = ApplicantStatus{
		ReviewStatus: req.ReviewStatus,
		ReviewResult: ReviewResult{ReviewAnswer: req.ReviewAnswer, ReviewRejectType: req.ReviewRejectType},
	}
	applicant, status := rec.applicant, rec.status
	mu.Unlock()

	log.Printf("seeded applicant %s for %s (status=%s answer=%s)", applicant.ID, applicant.ExternalUserID, status.ReviewStatus, status.ReviewResult.ReviewAnswer)

	if req.CallbackURL != "" {
		if err := sendWebhook(req.CallbackURL, applicant, status); err != nil {
			sendError(w, "webhook delivery failed: "+err.Error(), http.StatusBadGateway)
			return
		}
	}
	writeJSON(w, http.StatusCreated, applicant)
}

func sendWebhook(url string, applicant Applicant, status ApplicantStatus) error {
	body, err := json.Marshal(WebhookPayload{
		ApplicantID:    applicant.ID,
		ExternalUserID: applicant.ExternalUserID,
		Type:           "applicantReviewed",
		ReviewStatus:   status.ReviewStatus,
		ReviewResult:   status.ReviewResult,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(body)
	req.Header.Set("X-Payload-Digest", hex.EncodeToString(mac.Sum(nil)))
	req.Header.Set("X-Payload-Digest-Alg", "HMAC_SHA256_HEX")

	resp, err := (&http.Client{Timeout: 5 * time.Second}).Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("callback returned %d", resp.StatusCode)
	}
	log.Printf("delivered webhook for %s to %s", applicant.ID, url)
	return nil
}

func sign(secret string, ts int64, method, pathWithQuery string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(ts, 10)))
	mac.Write([]byte(strings.ToUpper(method)))
	mac.Write([]byte(pathWithQuery))
	return hex.EncodeToString(mac.Sum(nil))
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func sendError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
		Code:    code,
	})
	log.Printf("error response: %d - %s", code, message)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key, defaultValue string) int {
	value := getEnv(key, defaultValue)
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid integer value for %s, using default: %s", key, defaultValue)
		intValue, _ = strconv.Atoi(defaultValue)
	}
	return intValue
}
