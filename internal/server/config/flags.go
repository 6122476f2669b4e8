package config

import (
	"flag"
	"os"
	"time"

	"github.com/ndenisov/showcase/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string           HTTP bind address (e.g., ":8080")
//	-d string           PostgreSQL DSN (switches the document store backend)
//	-s string           JWT HMAC secret key
//	-t int              session token validity, hours
//	-region string      AWS region for DynamoDB and S3
//	-endpoint string    AWS base endpoint override (local stacks)
//	-prefix string      document table name prefix
//	-bucket string      S3 bucket for uploaded assets
//	-admin-email string recipient of resume notifications
//	-origin string      CORS allowed origin
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-s", "-t",
		"-region", "-endpoint", "-prefix", "-bucket", "-admin-email", "-origin",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Hours()), "token validity duration (in hours)")

	fs.StringVar(&config.AWSRegion, "region", config.AWSRegion, "AWS region")
	fs.StringVar(&config.AWSBaseEndpoint, "endpoint", config.AWSBaseEndpoint, "AWS base endpoint")
	fs.StringVar(&config.TablePrefix, "prefix", config.TablePrefix, "document table name prefix")
	fs.StringVar(&config.S3Bucket, "bucket", config.S3Bucket, "S3 bucket for assets")
	fs.StringVar(&config.AdminEmail, "admin-email", config.AdminEmail, "admin notification address")
	fs.StringVar(&config.CORSAllowedOrigin, "origin", config.CORSAllowedOrigin, "CORS allowed origin")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Hour
}
