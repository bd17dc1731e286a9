package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// LPRService proxies health checks to the external plate-recognition
// service so the dashboard can show whether detection is alive.
type LPRService struct {
	client  *http.Client
	baseURL string
}

func NewLPRService() *LPRService {
	baseURL := os.Getenv("LPR_SERVICE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5001"
	}
	return &LPRService{
		client:  &http.Client{Timeout: 5 * time.Second},
		baseURL: baseURL,
	}
}

// Status calls the LPR service's health endpoint. A transport error or a
// non-200 reply is reported as an error so the handler can answer 503.
func (s *LPRService) Status() (map[string]interface{}, error) {
	resp, err := s.client.Get(s.baseURL + "/api/health")
	if err != nil {
		return nil, fmt.Errorf("LPR service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("LPR service returned status %d", resp.StatusCode)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("LPR service returned invalid JSON: %w", err)
	}
	return body, nil
}
