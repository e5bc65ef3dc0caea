package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultSheetURL       = "https://docs.google.com/spreadsheets/d/1uqwgVOtPtRQErRoRM8D5659b0_4mVZ8eI3hiwzGgYlU/export?format=csv"
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultThumbnailSize  = 1000
	DefaultMinIDLength    = 25
	DefaultMaxIDLength    = 50
	DefaultVerifyLimit    = 15
	DefaultLinkColumn     = "Drive Image"
	DefaultKeyColumn      = "S.N."
	DefaultNameColumn     = "Car Name"
	DefaultOutputFile     = "updated_cars.csv"
	DefaultImageDelimiter = "|"
)

type Config struct {
	SheetURL       string        `mapstructure:"sheet-url"`
	SpreadsheetID  string        `mapstructure:"spreadsheet-id"`
	SheetGID       string        `mapstructure:"gid"`
	LinkColumn     string        `mapstructure:"link-column"`
	ImageColumn    string        `mapstructure:"image-column"`
	FirstImageCol  string        `mapstructure:"first-image-column"`
	NameColumn     string        `mapstructure:"name-column"`
	KeyColumn      string        `mapstructure:"key-column"`
	Delimiter      string        `mapstructure:"delimiter"`
	ThumbnailSize  int           `mapstructure:"thumbnail-size"`
	MinIDLength    int           `mapstructure:"min-id-length"`
	MaxIDLength    int           `mapstructure:"max-id-length"`
	UserAgent      string        `mapstructure:"user-agent"`
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
	Throttle       time.Duration `mapstructure:"throttle"`
	Verify         bool          `mapstructure:"verify"`
	VerifyLimit    int           `mapstructure:"verify-limit"`
	ProbeTimeout   time.Duration `mapstructure:"probe-timeout"`
	ProbeDelay     time.Duration `mapstructure:"probe-delay"`
	LocalCSV       string        `mapstructure:"local"`
	RangeFrom      int           `mapstructure:"from"`
	RangeTo        int           `mapstructure:"to"`
	OutputFile     string        `mapstructure:"output"`
	CacheDuration  time.Duration `mapstructure:"cache-duration"`
	LogLevel       string        `mapstructure:"log-level"`
	MetricsFile    string        `mapstructure:"metrics-file"`
	DiscordWebhook string        `mapstructure:"discord-webhook"`
}

// RegisterFlags adds every setting to fs with its default.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("sheet-url", "", "CSV export URL of the source sheet (default "+DefaultSheetURL+")")
	fs.String("spreadsheet-id", "", "spreadsheet ID, combined with --gid into an export URL")
	fs.String("gid", "0", "sheet tab gid")
	fs.String("link-column", DefaultLinkColumn, "column holding the Drive folder link")
	fs.String("image-column", "", "column receiving thumbnail URLs (defaults to --link-column)")
	fs.String("first-image-column", "", "optional column receiving the first thumbnail URL")
	fs.String("name-column", DefaultNameColumn, "column used to label rows in logs")
	fs.String("key-column", DefaultKeyColumn, "serial number column used by fix")
	fs.String("delimiter", DefaultImageDelimiter, "separator between thumbnail URLs")
	fs.Int("thumbnail-size", DefaultThumbnailSize, "thumbnail width in pixels")
	fs.Int("min-id-length", DefaultMinIDLength, "shortest quoted token accepted as a file ID")
	fs.Int("max-id-length", DefaultMaxIDLength, "longest quoted token accepted as a file ID")
	fs.String("user-agent", DefaultUserAgent, "User-Agent sent to Drive")
	fs.Duration("request-timeout", 30*time.Second, "timeout for sheet and folder requests")
	fs.Duration("throttle", 500*time.Millisecond, "pause after each folder fetch")
	fs.Bool("verify", false, "probe each candidate thumbnail and keep only images")
	fs.Int("verify-limit", DefaultVerifyLimit, "maximum candidates probed per folder")
	fs.Duration("probe-timeout", 5*time.Second, "timeout for each content-type probe")
	fs.Duration("probe-delay", 100*time.Millisecond, "pause after each content-type probe")
	fs.String("local", "", "previously written CSV merged by fix")
	fs.Int("from", 0, "lowest serial number handled by fix (0 = no bound)")
	fs.Int("to", 0, "highest serial number handled by fix (0 = no bound)")
	fs.String("output", "", "output CSV path")
	fs.Duration("cache-duration", 30*time.Minute, "lifetime of cached folder listings")
	fs.String("log-level", "info", "debug, info, warn or error")
	fs.String("metrics-file", "", "write Prometheus metrics in textfile format to this path")
	fs.String("discord-webhook", "", "Discord webhook URL that receives the run summary")
}

// Load resolves settings from flags, the environment (SHEET_URL, LOG_LEVEL, ...)
// and defaults, in that order.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.ImageColumn == "" {
		cfg.ImageColumn = cfg.LinkColumn
	}
	switch {
	case cfg.SheetURL != "" && cfg.SpreadsheetID != "":
		return nil, fmt.Errorf("--sheet-url and --spreadsheet-id are mutually exclusive")
	case cfg.SpreadsheetID != "":
		cfg.SheetURL = ExportURL(cfg.SpreadsheetID, cfg.SheetGID)
	case cfg.SheetURL == "":
		cfg.SheetURL = DefaultSheetURL
	}

	return &cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.SheetURL == "" {
		return fmt.Errorf("sheet URL is required (set --sheet-url or --spreadsheet-id)")
	}
	if c.LinkColumn == "" {
		return fmt.Errorf("link column must not be empty")
	}
	if c.Delimiter == "" {
		return fmt.Errorf("delimiter must not be empty")
	}
	if c.ThumbnailSize <= 0 {
		return fmt.Errorf("thumbnail size must be positive, got %d", c.ThumbnailSize)
	}
	if c.MinIDLength <= 0 || c.MaxIDLength < c.MinIDLength {
		return fmt.Errorf("invalid file ID length bounds [%d, %d]", c.MinIDLength, c.MaxIDLength)
	}
	if c.RangeFrom > 0 && c.RangeTo > 0 && c.RangeTo < c.RangeFrom {
		return fmt.Errorf("invalid serial range %d-%d", c.RangeFrom, c.RangeTo)
	}
	return nil
}

// InRange reports whether a serial number falls inside [RangeFrom, RangeTo].
// A zero bound is open.
func (c *Config) InRange(sn int) bool {
	if c.RangeFrom > 0 && sn < c.RangeFrom {
		return false
	}
	if c.RangeTo > 0 && sn > c.RangeTo {
		return false
	}
	return true
}

// ExportURL is the public CSV export endpoint for one sheet tab.
func ExportURL(spreadsheetID, gid string) string {
	url := fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv", spreadsheetID)
	if gid != "" {
		url += "&gid=" + gid
	}
	return url
}
