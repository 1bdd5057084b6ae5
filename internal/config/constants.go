// Package config contains everything related to configuration
package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// WebBuildEnv holds the values shared with the browser build of the admin
// dashboard, so both frontends can point at the same backend.
type WebBuildEnv struct {
	APIBaseURL  string
	Environment string
}

// LoadWebBuildEnv reads a Vite style env file (.env.production etc).
// It returns nil when the file is missing or defines no base URL.
func LoadWebBuildEnv(path string) *WebBuildEnv {
	if path == "" {
		return nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	return parseWebBuildEnv(string(content))
}

func parseWebBuildEnv(content string) *WebBuildEnv {
	values, err := godotenv.Unmarshal(content)
	if err != nil {
		return nil
	}

	env := &WebBuildEnv{
		APIBaseURL:  strings.TrimRight(values["VITE_API_BASE_URL"], "/"),
		Environment: values["VITE_APP_ENV"],
	}
	if env.APIBaseURL == "" {
		return nil
	}
	return env
}
