package config

import (
	"fmt"

	"github.com/mobilindo/lapor-assistant/internal/observability"
)

// Config is the full service configuration. One structure carries the model
// identifier, sampling parameters, safety and retrieval settings so they are
// declared once instead of per entry point.
type Config struct {
	Port        string `json:"port" mapstructure:"port"`
	StaticDir   string `json:"static_dir" mapstructure:"static_dir"`
	SessionsDir string `json:"sessions_dir" mapstructure:"sessions_dir"`

	// "file" (default), "memory" or "firestore"
	StorageBackend string `json:"storage_backend" mapstructure:"storage_backend"`

	UseMockLLM bool `json:"use_mock_llm" mapstructure:"use_mock_llm"`

	GCPProject  string `json:"gcp_project" mapstructure:"gcp_project"`
	GCPLocation string `json:"gcp_location" mapstructure:"gcp_location"`
	ModelName   string `json:"model_name" mapstructure:"model_name"`
	DatastoreID string `json:"datastore_id" mapstructure:"datastore_id"`

	Generation GenerationConfig        `json:"generation" mapstructure:"generation"`
	Logging    observability.LogConfig `json:"logging" mapstructure:"logging"`
}

// GenerationConfig holds the sampling and safety parameters for the model.
type GenerationConfig struct {
	Temperature     float32 `json:"temperature" mapstructure:"temperature"`
	TopP            float32 `json:"top_p" mapstructure:"top_p"`
	Seed            int32   `json:"seed" mapstructure:"seed"`
	MaxOutputTokens int32   `json:"max_output_tokens" mapstructure:"max_output_tokens"`

	// DisableSafety turns every harm-category filter off, as the shipped
	// deployment runs against an internal report corpus.
	DisableSafety bool `json:"disable_safety" mapstructure:"disable_safety"`
}

// DatastorePath returns the fully qualified Vertex AI Search datastore path,
// or "" when no datastore is configured.
func (c *Config) DatastorePath() string {
	if c.GCPProject == "" || c.DatastoreID == "" {
		return ""
	}
	return fmt.Sprintf(
		"projects/%s/locations/global/collections/default_collection/dataStores/%s",
		c.GCPProject, c.DatastoreID,
	)
}

// Validate checks the minimal invariants for the selected mode.
func (c *Config) Validate() error {
	if c.StorageBackend == "firestore" && c.GCPProject == "" {
		return fmt.Errorf("gcp_project is required for the firestore storage backend")
	}
	return nil
}
