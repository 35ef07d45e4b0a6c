// Package provider models per-cloud credential records. Each provider
// carries its own required-field set, modeled as a tagged union keyed by
// provider name and validated at the boundary before anything reaches
// storage. Credentials are stored but never used to call provider APIs.
package provider

import (
	"encoding/json"
	"fmt"
	"time"
)

// Credentials is implemented by one variant per supported provider.
type Credentials interface {
	// Provider names the variant (aws, gcp, azure, digitalocean).
	Provider() string

	// Validate checks the variant's required fields.
	Validate() error
}

// Account pairs a credential variant with its connection state for one
// owner.
type Account struct {
	UserID      int64       `json:"-"`
	Provider    string      `json:"provider"`
	Connected   bool        `json:"connected"`
	Credentials Credentials `json:"-"` // never serialized in reads
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// AWSCredentials holds an IAM keypair and region.
type AWSCredentials struct {
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
	Region          string `json:"region"`
}

func (c *AWSCredentials) Provider() string { return "aws" }

func (c *AWSCredentials) Validate() error {
	if c.AccessKeyID == "" {
		return fmt.Errorf("aws credentials: accessKeyId is required")
	}
	if c.SecretAccessKey == "" {
		return fmt.Errorf("aws credentials: secretAccessKey is required")
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	return nil
}

// GCPCredentials holds a project and service account key.
type GCPCredentials struct {
	ProjectID         string `json:"projectId"`
	ServiceAccountKey string `json:"serviceAccountKey"`
}

func (c *GCPCredentials) Provider() string { return "gcp" }

func (c *GCPCredentials) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("gcp credentials: projectId is required")
	}
	if c.ServiceAccountKey == "" {
		return fmt.Errorf("gcp credentials: serviceAccountKey is required")
	}
	return nil
}

// AzureCredentials holds a service principal.
type AzureCredentials struct {
	SubscriptionID string `json:"subscriptionId"`
	TenantID       string `json:"tenantId"`
	ClientID       string `json:"clientId"`
	ClientSecret   string `json:"clientSecret"`
}

func (c *AzureCredentials) Provider() string { return "azure" }

func (c *AzureCredentials) Validate() error {
	if c.SubscriptionID == "" {
		return fmt.Errorf("azure credentials: subscriptionId is required")
	}
	if c.TenantID == "" {
		return fmt.Errorf("azure credentials: tenantId is required")
	}
	if c.ClientID == "" {
		return fmt.Errorf("azure credentials: clientId is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("azure credentials: clientSecret is required")
	}
	return nil
}

// DigitalOceanCredentials holds an API token.
type DigitalOceanCredentials struct {
	APIToken string `json:"apiToken"`
}

func (c *DigitalOceanCredentials) Provider() string { return "digitalocean" }

func (c *DigitalOceanCredentials) Validate() error {
	if c.APIToken == "" {
		return fmt.Errorf("digitalocean credentials: apiToken is required")
	}
	return nil
}

// Parse decodes the raw credential payload into the variant for the
// named provider and validates it.
func Parse(providerName string, raw json.RawMessage) (Credentials, error) {
	var creds Credentials
	switch providerName {
	case "aws":
		creds = &AWSCredentials{}
	case "gcp":
		creds = &GCPCredentials{}
	case "azure":
		creds = &AzureCredentials{}
	case "digitalocean":
		creds = &DigitalOceanCredentials{}
	default:
		return nil, fmt.Errorf("unknown provider: %s", providerName)
	}

	if err := json.Unmarshal(raw, creds); err != nil {
		return nil, fmt.Errorf("decode %s credentials: %w", providerName, err)
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	return creds, nil
}

// Marshal serializes a variant for storage.
func Marshal(c Credentials) ([]byte, error) {
	return json.Marshal(c)
}
