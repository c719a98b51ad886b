package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var baseURL = func() string {
	if url := os.Getenv("GOGALLERY_API_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}()

// requireLiveServer skips the test when no live API is configured.
func requireLiveServer(t *testing.T) {
	if os.Getenv("GOGALLERY_API_URL") == "" {
		t.Skip("set GOGALLERY_API_URL to run integration tests against a live server")
	}
}

// SetupTestAccount registers a fresh account and returns its access token.
func SetupTestAccount(t *testing.T, client *http.Client) string {
	t.Helper()

	email := fmt.Sprintf("test_%s@example.com", uuid.NewString())
	payload := map[string]string{
		"email":    email,
		"password": "password123",
	}

	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", baseURL+"/v1/auth/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var registerResp struct {
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&registerResp))
	require.NotEmpty(t, registerResp.Tokens.AccessToken)

	return registerResp.Tokens.AccessToken
}

// CleanupAccountFiles deletes every file the account currently lists.
func CleanupAccountFiles(client *http.Client, authToken string) {
	req, _ := http.NewRequest("GET", baseURL+"/v1/files", nil)
	req.Header.Set("Authorization", "Bearer "+authToken)

	resp, err := client.Do(req)
	if err != nil {
		return
	}
	defer resp.Body.Close()

	var listResp struct {
		Files []struct {
			Key       string `json:"key"`
			SizeBytes int64  `json:"size_bytes"`
		} `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listResp); err != nil {
		return
	}

	for _, file := range listResp.Files {
		url := fmt.Sprintf("%s/v1/files/%s?size=%d", baseURL, file.Key, file.SizeBytes)
		req, _ := http.NewRequest("DELETE", url, nil)
		req.Header.Set("Authorization", "Bearer "+authToken)
		if resp, err := client.Do(req); err == nil {
			resp.Body.Close()
		}
	}
}
