package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Replacement policies for interactive review.
const (
	ReplaceRandom    = "random"
	ReplaceLeastUsed = "least-used"
)

// Settings holds everything a command needs to locate the database folder
// and run an exam workflow.
type Settings struct {
	Dir          string   `mapstructure:"dir"`
	Bank         string   `mapstructure:"bank"`
	Points       string   `mapstructure:"points"`
	Requirements string   `mapstructure:"requirements"`
	OutputDir    string   `mapstructure:"output_dir"`
	Formats      []string `mapstructure:"formats"`
	DB           string   `mapstructure:"db"`

	Selection SelectionSettings `mapstructure:"selection"`
	Storage   StorageSettings   `mapstructure:"storage"`
	Log       LogSettings       `mapstructure:"log"`
}

// SelectionSettings controls how questions are picked.
type SelectionSettings struct {
	Shuffle      bool   `mapstructure:"shuffle"`
	Replace      string `mapstructure:"replace"`
	AcceptedOnly bool   `mapstructure:"accepted_only"`
	Seed         uint64 `mapstructure:"seed"`
}

// StorageSettings selects where exports are written.
type StorageSettings struct {
	Type           string `mapstructure:"type"` // "fs" or "minio"
	MinioEndpoint  string `mapstructure:"minio_endpoint"`
	MinioAccessKey string `mapstructure:"minio_access_key"`
	MinioSecretKey string `mapstructure:"minio_secret_key"`
	MinioBucket    string `mapstructure:"minio_bucket"`
	MinioUseSSL    bool   `mapstructure:"minio_use_ssl"`
	Prefix         string `mapstructure:"prefix"`
}

// LogSettings configures the operational log.
type LogSettings struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ConfigName is the base name of the optional settings file looked up in
// the database folder.
const ConfigName = "exambank"

func setDefaults(v *viper.Viper) {
	v.SetDefault("dir", ".")
	v.SetDefault("bank", "Questions.csv")
	v.SetDefault("points", "Points.json")
	v.SetDefault("requirements", "Requirements.json")
	v.SetDefault("output_dir", ".")
	v.SetDefault("formats", []string{"markdown", "csv", "pdf"})
	v.SetDefault("selection.shuffle", true)
	v.SetDefault("selection.replace", ReplaceRandom)
	v.SetDefault("selection.accepted_only", false)
	v.SetDefault("selection.seed", 0)
	v.SetDefault("db", "")
	v.SetDefault("storage.type", "fs")
	v.SetDefault("storage.minio_endpoint", "")
	v.SetDefault("storage.minio_access_key", "")
	v.SetDefault("storage.minio_secret_key", "")
	v.SetDefault("storage.minio_bucket", "")
	v.SetDefault("storage.minio_use_ssl", false)
	v.SetDefault("storage.prefix", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// LoadSettings reads exambank.yaml from dir (or the explicit file when
// configFile is set) and overlays EXAMBANK_* environment variables. A
// missing settings file is not an error.
func LoadSettings(dir, configFile string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)
	if dir != "" {
		v.Set("dir", dir)
	}

	v.SetEnvPrefix("EXAMBANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(v.GetString("dir"))
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read settings: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks enumerated settings.
func (s *Settings) Validate() error {
	switch s.Selection.Replace {
	case ReplaceRandom, ReplaceLeastUsed:
	default:
		return fmt.Errorf("selection.replace must be %q or %q, got %q",
			ReplaceRandom, ReplaceLeastUsed, s.Selection.Replace)
	}
	switch s.Storage.Type {
	case "fs", "minio":
	default:
		return fmt.Errorf("storage.type must be \"fs\" or \"minio\", got %q", s.Storage.Type)
	}
	return nil
}

// Resolve joins a settings path with the database folder unless it is
// already absolute.
func (s *Settings) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.Dir, p)
}

// BankPath returns the resolved location of the question bank. Database
// URLs are returned unchanged.
func (s *Settings) BankPath() string {
	if strings.Contains(s.Bank, "://") {
		return s.Bank
	}
	return s.Resolve(s.Bank)
}

// PointsPath returns the resolved location of the points table.
func (s *Settings) PointsPath() string { return s.Resolve(s.Points) }

// RequirementsPath returns the resolved location of the requirements.
func (s *Settings) RequirementsPath() string { return s.Resolve(s.Requirements) }

// OutputPath returns the resolved export directory.
func (s *Settings) OutputPath() string { return s.Resolve(s.OutputDir) }
