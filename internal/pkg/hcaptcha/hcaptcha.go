package hcaptcha

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ManuelReschke/HouseHub/internal/pkg/env"
)

const verifyURL = "https://hcaptcha.com/siteverify"

var httpClient = &http.Client{Timeout: 10 * time.Second}

type Response struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

// Enabled reports whether registration has to pass a captcha
func Enabled() bool {
	return env.GetEnv("HCAPTCHA_SECRET", "") != ""
}

func SiteKey() string {
	return env.GetEnv("HCAPTCHA_SITEKEY", "")
}

func Verify(token string) (bool, error) {
	return verify(verifyURL, env.GetEnv("HCAPTCHA_SECRET", ""), token)
}

func verify(endpoint, secret, token string) (bool, error) {
	if token == "" {
		return false, errors.New("hCaptcha token is empty")
	}
	if secret == "" {
		return false, errors.New("hCaptcha secret is not set")
	}

	resp, err := httpClient.PostForm(endpoint, url.Values{
		"secret":   {secret},
		"response": {token},
	})
	if err != nil {
		return false, fmt.Errorf("failed to send request to hCaptcha API: %w", err)
	}
	defer resp.Body.Close()

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return false, fmt.Errorf("failed to decode hCaptcha API response: %w", err)
	}

	if !response.Success {
		msg := "hCaptcha validation failed"
		if len(response.ErrorCodes) > 0 {
			msg += ": " + strings.Join(response.ErrorCodes, ", ")
		}
		return false, errors.New(msg)
	}
	return true, nil
}
