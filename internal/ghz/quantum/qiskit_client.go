package quantum

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// QiskitConfig holds IBM Qiskit Runtime API configuration
type QiskitConfig struct {
	// IBM Cloud API key
	APIKey string

	// IBM Cloud CRN (Cloud Resource Name)
	CRN string

	// Base URL for the IBM Quantum API
	BaseURL string

	// Backend name (e.g. "ibmq_qasm_simulator", "ibm_kyoto")
	BackendName string

	// HTTP client with timeout
	HTTPClient *http.Client
}

// QiskitClient handles IBM Qiskit Runtime API interactions
type QiskitClient struct {
	config      *QiskitConfig
	accessToken string
	tokenExpiry time.Time
}

// QiskitJob represents a submitted quantum job
type QiskitJob struct {
	ID        string    `json:"id"`
	Backend   string    `json:"backend"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created"`
}

// QiskitResult represents job execution results
type QiskitResult struct {
	Counts        map[string]int `json:"counts"`
	Success       bool           `json:"success"`
	StatusMsg     string         `json:"status"`
	JobID         string         `json:"job_id"`
	ExecutionTime float64        `json:"execution_time"`
}

// QiskitCircuit is the submission payload: rendered OpenQASM text, a shot
// count, the target backend, and the circuit fingerprint for job tracking
type QiskitCircuit struct {
	QASM        string `json:"qasm"`
	Shots       int    `json:"shots"`
	Backend     string `json:"backend"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// IBM Quantum API endpoints
const (
	DefaultQiskitURL = "https://api.quantum-computing.ibm.com"
	TokenEndpoint    = "/api/auth/login"
	JobsEndpoint     = "/api/Network/ibm-q/Groups/open/Projects/main/Jobs"
	BackendsEndpoint = "/api/Network/ibm-q/Groups/open/Projects/main/devices"
)

// Job status constants
const (
	JobStatusQueued    = "QUEUED"
	JobStatusRunning   = "RUNNING"
	JobStatusCompleted = "COMPLETED"
	JobStatusFailed    = "FAILED"
	JobStatusCancelled = "CANCELLED"
)

// NewQiskitClient creates a Qiskit API client and authenticates immediately
func NewQiskitClient(ctx context.Context, config *QiskitConfig) (*QiskitClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: IBM Cloud API key is required", ErrInvalidArgument)
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultQiskitURL
	}

	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{
			Timeout: 60 * time.Second,
		}
	}

	client := &QiskitClient{
		config: config,
	}

	if err := client.authenticate(ctx); err != nil {
		return nil, fmt.Errorf("%w: authentication failed: %v", ErrExecution, err)
	}

	return client, nil
}

// authenticate obtains an access token from IBM Cloud
func (c *QiskitClient) authenticate(ctx context.Context) error {
	payload := map[string]string{
		"apiToken": c.config.APIKey,
	}

	var result struct {
		ID          string    `json:"id"`
		TTL         int       `json:"ttl"`
		Created     time.Time `json:"created"`
		AccessToken string    `json:"access_token"`
	}

	if err := c.postJSON(ctx, TokenEndpoint, payload, &result); err != nil {
		return err
	}

	c.accessToken = result.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(result.TTL) * time.Second)

	return nil
}

// ensureAuthenticated refreshes the access token when it is close to expiry
func (c *QiskitClient) ensureAuthenticated(ctx context.Context) error {
	if time.Now().After(c.tokenExpiry.Add(-5 * time.Minute)) {
		return c.authenticate(ctx)
	}
	return nil
}

// SubmitJob submits a circuit for execution
func (c *QiskitClient) SubmitJob(ctx context.Context, circuit *QiskitCircuit) (*QiskitJob, error) {
	if err := c.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"qasm":    circuit.QASM,
		"shots":   circuit.Shots,
		"backend": circuit.Backend,
	}
	if circuit.Fingerprint != "" {
		payload["tags"] = []string{"ghz", "fp:" + circuit.Fingerprint}
	}

	var job QiskitJob
	if err := c.postJSON(ctx, JobsEndpoint, payload, &job); err != nil {
		return nil, err
	}

	zap.L().Info("submitted quantum job",
		zap.String("job_id", job.ID),
		zap.String("backend", circuit.Backend),
		zap.Int("shots", circuit.Shots))

	return &job, nil
}

// GetJobStatus retrieves the status of a quantum job
func (c *QiskitClient) GetJobStatus(ctx context.Context, jobID string) (*QiskitJob, error) {
	if err := c.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}

	var job QiskitJob
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s", JobsEndpoint, jobID), &job); err != nil {
		return nil, err
	}

	return &job, nil
}

// WaitForJob polls until the job completes, fails, is cancelled, or the
// wait budget runs out
func (c *QiskitClient) WaitForJob(ctx context.Context, jobID string, maxWaitTime time.Duration) (*QiskitJob, error) {
	pollInterval := 2 * time.Second
	timeout := time.After(maxWaitTime)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-timeout:
			return nil, fmt.Errorf("job %s timed out after %v", jobID, maxWaitTime)

		case <-ticker.C:
			job, err := c.GetJobStatus(ctx, jobID)
			if err != nil {
				return nil, err
			}

			switch job.Status {
			case JobStatusCompleted:
				return job, nil
			case JobStatusFailed:
				return job, fmt.Errorf("job %s failed", jobID)
			case JobStatusCancelled:
				return job, fmt.Errorf("job %s was cancelled", jobID)
				// keep polling for QUEUED and RUNNING
			}
		}
	}
}

// GetJobResult retrieves the results of a completed job
func (c *QiskitClient) GetJobResult(ctx context.Context, jobID string) (*QiskitResult, error) {
	if err := c.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}

	var result QiskitResult
	if err := c.getJSON(ctx, fmt.Sprintf("%s/%s/results", JobsEndpoint, jobID), &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// CancelJob cancels a running or queued job
func (c *QiskitClient) CancelJob(ctx context.Context, jobID string) error {
	if err := c.ensureAuthenticated(ctx); err != nil {
		return err
	}

	return c.postJSON(ctx, fmt.Sprintf("%s/%s/cancel", JobsEndpoint, jobID), nil, nil)
}

// ListBackends retrieves the available quantum backends
func (c *QiskitClient) ListBackends(ctx context.Context) ([]map[string]interface{}, error) {
	if err := c.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}

	var backends []map[string]interface{}
	if err := c.getJSON(ctx, BackendsEndpoint, &backends); err != nil {
		return nil, err
	}

	return backends, nil
}

// ExecuteCircuit submits a circuit, waits for completion, and fetches the
// counts
func (c *QiskitClient) ExecuteCircuit(ctx context.Context, circuit *QiskitCircuit, maxWaitTime time.Duration) (*QiskitResult, error) {
	job, err := c.SubmitJob(ctx, circuit)
	if err != nil {
		return nil, fmt.Errorf("job submission failed: %w", err)
	}

	completed, err := c.WaitForJob(ctx, job.ID, maxWaitTime)
	if err != nil {
		return nil, fmt.Errorf("job execution failed: %w", err)
	}

	result, err := c.GetJobResult(ctx, completed.ID)
	if err != nil {
		return nil, fmt.Errorf("result retrieval failed: %w", err)
	}

	return result, nil
}

// postJSON sends a POST request with a JSON body and decodes the response
// into out when out is non-nil
func (c *QiskitClient) postJSON(ctx context.Context, endpoint string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	return c.do(req, out)
}

// getJSON sends a GET request and decodes the response into out
func (c *QiskitClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	return c.do(req, out)
}

func (c *QiskitClient) do(req *http.Request, out interface{}) error {
	resp, err := c.config.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: %s (status: %d)", req.Method, req.URL.Path, string(body), resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
