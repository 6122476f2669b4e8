// Package config handles configuration for the server component, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the Showcase backend.
//
// Fields:
//   - EndpointAddr: bind address for the public HTTP endpoint.
//   - DatabaseDSN: optional PostgreSQL DSN; when set, documents are stored in
//     Postgres instead of DynamoDB.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test
//     defaults in prod.
//   - TokenValidityDuration: session token lifetime (30 days by default).
//   - AWSRegion / AWSBaseEndpoint / AWSAccessKeyID / AWSSecretAccessKey:
//     shared settings for the DynamoDB and S3 clients. The endpoint and
//     static credentials are meant for local stacks (minio, localstack).
//   - TablePrefix: prefix prepended to every document table name.
//   - S3Bucket: bucket for uploaded assets.
//   - SMTPHost / SMTPPort / SMTPUser / SMTPPassword / FromEmail: outbound
//     mail settings.
//   - AdminEmail: recipient of resume submission notifications.
//   - CORSAllowedOrigin: origin allowed by the CORS middleware.
//   - MaxUploadBytes: cap for a single uploaded attachment.
type Config struct {
	EndpointAddr          string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	AWSRegion             string
	AWSBaseEndpoint       string
	AWSAccessKeyID        string
	AWSSecretAccessKey    string
	TablePrefix           string
	S3Bucket              string
	SMTPHost              string
	SMTPPort              int
	SMTPUser              string
	SMTPPassword          string
	FromEmail             string
	AdminEmail            string
	CORSAllowedOrigin     string
	MaxUploadBytes        int64
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.TokenValidityDuration = 30 * 24 * time.Hour
	c.AWSRegion = "us-east-1"
	c.AWSBaseEndpoint = ""
	c.AWSAccessKeyID = ""
	c.AWSSecretAccessKey = ""
	c.TablePrefix = "showcase_"
	c.S3Bucket = "showcase-assets"
	c.SMTPHost = "localhost"
	c.SMTPPort = 587
	c.SMTPUser = ""
	c.SMTPPassword = ""
	c.FromEmail = "noreply@localhost"
	c.AdminEmail = "admin@localhost"
	c.CORSAllowedOrigin = "*"
	c.MaxUploadBytes = 5 * 1024 * 1024
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
