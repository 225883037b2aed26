package store

import (
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config locates dosebook's files and tunes its behavior.
type Config interface {
	// BasePath is the directory holding every store.
	BasePath() string
	// Prefix starts every file name, e.g. BPC157_Profiles.txt.
	Prefix() string
	ProfileSchema() string
	LogLayout() string
	// Backend is "text" (one file per store) or "sqlite".
	Backend() string
	WarnRemaining() int
	BacExpiryDays() int
	Bell() bool
}

const (
	defaultPath          = "~/Documents"
	defaultPrefix        = "BPC157"
	defaultProfileSchema = "v2"
	defaultLogLayout     = "per-vial"
	defaultBackend       = "text"
	defaultWarnRemaining = 5
	defaultBacExpiryDays = 28
)

// LoadConfig reads .dosebook.yaml from $DOSEBOOK_CONFIG_PATH or the working
// directory, with DOSEBOOK_* environment overrides.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", defaultPath)
	v.SetDefault("prefix", defaultPrefix)
	v.SetDefault("profile.schema", defaultProfileSchema)
	v.SetDefault("log.layout", defaultLogLayout)
	v.SetDefault("storage.backend", defaultBackend)
	v.SetDefault("warn.remaining", defaultWarnRemaining)
	v.SetDefault("bac.expiry_days", defaultBacExpiryDays)
	v.SetDefault("notify.bell", true)

	v.SetConfigName(".dosebook") // .yaml is implicit
	v.SetEnvPrefix("DOSEBOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("DOSEBOOK_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, err
	}

	return &FileConfig{
		Path:            path,
		FilePrefix:      v.GetString("prefix"),
		Schema:          v.GetString("profile.schema"),
		Layout:          v.GetString("log.layout"),
		StorageBackend:  v.GetString("storage.backend"),
		RemainingWarn:   v.GetInt("warn.remaining"),
		ExpiryDays:      v.GetInt("bac.expiry_days"),
		NotifyBell:      v.GetBool("notify.bell"),
		ConfigFileInUse: v.ConfigFileUsed(),
	}, nil
}

// DefaultConfig returns the defaults rooted at path.
func DefaultConfig(path string) *FileConfig {
	return &FileConfig{
		Path:           path,
		FilePrefix:     defaultPrefix,
		Schema:         defaultProfileSchema,
		Layout:         defaultLogLayout,
		StorageBackend: defaultBackend,
		RemainingWarn:  defaultWarnRemaining,
		ExpiryDays:     defaultBacExpiryDays,
		NotifyBell:     true,
	}
}

// FileConfig is the Config read by LoadConfig.
type FileConfig struct {
	Path            string `json:"path"`
	FilePrefix      string `json:"prefix"`
	Schema          string `json:"profile_schema"`
	Layout          string `json:"log_layout"`
	StorageBackend  string `json:"storage_backend"`
	RemainingWarn   int    `json:"warn_remaining"`
	ExpiryDays      int    `json:"bac_expiry_days"`
	NotifyBell      bool   `json:"notify_bell"`
	ConfigFileInUse string `json:"config_file,omitempty"`
}

func (f *FileConfig) BasePath() string      { return f.Path }
func (f *FileConfig) Prefix() string        { return f.FilePrefix }
func (f *FileConfig) ProfileSchema() string { return f.Schema }
func (f *FileConfig) LogLayout() string     { return f.Layout }
func (f *FileConfig) Backend() string       { return f.StorageBackend }
func (f *FileConfig) WarnRemaining() int    { return f.RemainingWarn }
func (f *FileConfig) BacExpiryDays() int    { return f.ExpiryDays }
func (f *FileConfig) Bell() bool            { return f.NotifyBell }
