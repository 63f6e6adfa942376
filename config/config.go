package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Username formats used when matching conference moderators to local accounts.
const (
	UsernameFormatFirstLast = "first_name last_name"
	UsernameFormatLastFirst = "last_name first_name"
)

type Config struct {
	// Directory watched for finished recording files ({internalMeetingID}.{ext}).
	DropPath string `env:"DROP_PATH" envDefault:"/data/recorder/media/"`

	// Conference (BigBlueButton/Scalelite) server base URL, including any
	// provider prefix. The API calls are appended as /api/{call}.
	ServerURL string `env:"CONFERENCE_SERVER_URL" envDefault:"https://bbb.example.org/bigbluebutton"`

	// Shared secret of the conference server (Scalelite LOADBALANCER_SECRET).
	ServerSecret string `env:"CONFERENCE_SECRET"`

	// Type assigned to videos generated from conference recordings.
	DefaultTypeID uint `env:"DEFAULT_VIDEO_TYPE_ID" envDefault:"1"`

	// How moderator full names are composed on the conference side.
	UsernameFormat string `env:"USERNAME_FORMAT" envDefault:"first_name last_name"`

	AllowedExtensions []string `env:"VIDEO_ALLOWED_EXTENSIONS" envSeparator:"," envDefault:"3gp,avi,divx,flv,m2p,m4v,mkv,mov,mp4,mpeg,mpg,mts,wmv,mp3,ogg,wav,wma,webm,ts"`

	// Root of the video pipeline's storage tree. Ingested files are moved
	// under {MediaRoot}/videos/.
	MediaRoot string `env:"MEDIA_ROOT" envDefault:"/data/media/"`

	Debug bool `env:"DEBUG" envDefault:"false"`

	// Redis stream the encoding workers consume from.
	EncodeStream string `env:"ENCODE_STREAM" envDefault:"encode:stream"`

	SMTPHost     string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"25"`
	SMTPFrom     string `env:"SMTP_FROM" envDefault:"confsync@localhost"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	// Recipient of the end-of-run error report. Empty disables delivery.
	AdminEmail string `env:"ADMIN_EMAIL"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("environment variables are invalid: %w", err)
	}

	// The drop path must end with a separator, the server URL must not.
	if !strings.HasSuffix(cfg.DropPath, string(os.PathSeparator)) {
		cfg.DropPath += string(os.PathSeparator)
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.UsernameFormat != UsernameFormatFirstLast && c.UsernameFormat != UsernameFormatLastFirst {
		return fmt.Errorf("USERNAME_FORMAT must be %q or %q, got %q",
			UsernameFormatFirstLast, UsernameFormatLastFirst, c.UsernameFormat)
	}
	if c.DefaultTypeID == 0 {
		return errors.New("DEFAULT_VIDEO_TYPE_ID must be positive")
	}
	if c.ServerURL == "" {
		return errors.New("CONFERENCE_SERVER_URL is required")
	}
	if len(c.AllowedExtensions) == 0 {
		return errors.New("VIDEO_ALLOWED_EXTENSIONS must not be empty")
	}
	return nil
}

// ExtensionAllowed reports whether ext (without dot) is in the allow-list.
func (c *Config) ExtensionAllowed(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, allowed := range c.AllowedExtensions {
		if ext == strings.ToLower(strings.TrimSpace(allowed)) {
			return true
		}
	}
	return false
}
