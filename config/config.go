package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Source struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"source"`

	Target struct {
		ConnStr string `mapstructure:"conn_str"`
		Schema  string `mapstructure:"schema"`
	} `mapstructure:"target"`

	AllTables    bool     `mapstructure:"all_tables"`
	Tables       []string `mapstructure:"tables"`
	BatchSize    int      `mapstructure:"batch_size"`
	MaxRetries   int      `mapstructure:"max_retries"`
	DropExisting bool     `mapstructure:"drop_existing"`
	FailFast     bool     `mapstructure:"fail_fast"`
	ColumnCase   string   `mapstructure:"column_case"`

	OpenAIKey    string `mapstructure:"openai_api_key"`
	PasswordHash string `mapstructure:"password_hash"`
}

// LoadConfig loads configuration from a .env file (if present), environment
// variables, and an optional lite2pg.yaml config file.
func LoadConfig() (*Config, error) {
	// Secrets commonly live in .env next to the binary; missing files are fine.
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err != nil {
				return nil, fmt.Errorf("error loading %s file: %w", envPath, err)
			}
			break
		}
	}

	v := viper.New()

	// Set defaults
	v.SetDefault("target.schema", "public")
	v.SetDefault("all_tables", true)
	v.SetDefault("batch_size", 1000)
	v.SetDefault("max_retries", 3)
	v.SetDefault("drop_existing", false)
	v.SetDefault("fail_fast", false)
	v.SetDefault("column_case", "keep")

	// Enable environment variable reading
	v.SetEnvPrefix("LITE2PG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Map legacy environment variables
	v.BindEnv("source.path", "SQLITE_PATH")
	v.BindEnv("target.conn_str", "PG_URL")
	v.BindEnv("target.schema", "PG_SCHEMA")
	v.BindEnv("batch_size", "BATCH_SIZE")
	v.BindEnv("tables", "TABLES")
	v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	v.BindEnv("password_hash", "APP_PASSWORD_HASH")

	// Try to read config file (optional)
	v.SetConfigName("lite2pg")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Read config file if it exists (don't error if not found)
	_ = v.ReadInConfig()

	// Unmarshal into config struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Parse tables string if provided via environment
	if tablesStr := v.GetString("tables"); tablesStr != "" && len(config.Tables) == 0 {
		for _, t := range strings.Split(tablesStr, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				config.Tables = append(config.Tables, t)
			}
		}
	}
	if len(config.Tables) > 0 {
		config.AllTables = false
	}

	return &config, nil
}

// Validate checks if the configuration is valid for a migration run
func (c *Config) Validate() error {
	if c.Source.Path == "" {
		return fmt.Errorf("source database path is required (set SQLITE_PATH or LITE2PG_SOURCE_PATH)")
	}
	if c.Target.ConnStr == "" {
		return fmt.Errorf("target connection string is required (set PG_URL or LITE2PG_TARGET_CONN_STR)")
	}
	if !c.AllTables && len(c.Tables) == 0 {
		return fmt.Errorf("no tables to migrate (set all_tables: true or specify tables)")
	}
	if c.BatchSize < 1 {
		c.BatchSize = 1000
	}
	return nil
}

// ValidateChat checks the configuration needed by the chat surface.
func (c *Config) ValidateChat() error {
	if c.Target.ConnStr == "" {
		return fmt.Errorf("target connection string is required (set PG_URL or LITE2PG_TARGET_CONN_STR)")
	}
	if c.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key is required (set OPENAI_API_KEY)")
	}
	return nil
}
