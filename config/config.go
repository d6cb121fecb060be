// Package config loads runtime settings from flags, the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"climber/utils"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// Config is the command line of the ladder server; every flag can also come from
// the environment.
type Config struct {
	Debug bool `help:"Enable debug logging." env:"DEBUG"`

	DatabaseDriver string `help:"Database driver (postgres or sqlite)." enum:"postgres,sqlite" default:"postgres" env:"DATABASE_DRIVER"`
	DatabaseURL    string `help:"Database DSN, or file path for sqlite." required:"" env:"DATABASE_URL"`

	ListenAddr     string `help:"HTTP listen address." default:":5200" env:"LISTEN_ADDR"`
	AllowedOrigins string `help:"Comma separated CORS origins." default:"" env:"ALLOWED_ORIGINS"`

	SnapshotInterval time.Duration `help:"How often the leaderboard is exported to object storage." default:"5m" env:"SNAPSHOT_INTERVAL"`

	R2AccountID       string `help:"Cloudflare account id for R2 snapshots." env:"CLOUDFLARE_ACCOUNT_ID"`
	R2AccessKeyID     string `help:"R2 access key id." env:"R2_ACCESS_KEY_ID"`
	R2AccessKeySecret string `help:"R2 access key secret." env:"R2_ACCESS_KEY_SECRET"`
	R2Bucket          string `help:"R2 bucket for snapshots; snapshots are off when empty." env:"R2_BUCKET_NAME"`
	R2Endpoint        string `help:"Override the S3 endpoint (e.g. MinIO)." env:"R2_ENDPOINT"`
}

func (c *Config) R2() utils.R2Config {
	return utils.R2Config{
		AccountID:       c.R2AccountID,
		AccessKeyID:     c.R2AccessKeyID,
		AccessKeySecret: c.R2AccessKeySecret,
		Bucket:          c.R2Bucket,
		Endpoint:        c.R2Endpoint,
	}
}

// LoadDotEnv reads .env files into the environment without overriding variables
// that are already set. A missing file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Parse builds a Config from args and the current environment.
func Parse(args []string, options ...kong.Option) (*Config, error) {
	var cfg Config
	options = append([]kong.Option{
		kong.Name("climber"),
		kong.Description("Head-to-head match ladder with TrueSkill ratings."),
	}, options...)

	parser, err := kong.New(&cfg, options...)
	if err != nil {
		return nil, err
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, err
	}
	if cfg.SnapshotInterval < time.Second {
		return nil, fmt.Errorf("snapshot interval %s is too short", cfg.SnapshotInterval)
	}
	return &cfg, nil
}
