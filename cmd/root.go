package cmd

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "resume-ranker"
)

type Config struct {
	Resumes     string          `mapstructure:"resumes"`
	ExcludeFile string          `mapstructure:"exclude-file"`
	Embedder    *EmbedderConfig `mapstructure:"embedder"`
	Ranking     *RankingConfig  `mapstructure:"ranking"`
	Qdrant      *QdrantConfig   `mapstructure:"qdrant"`
}

type EmbedderConfig struct {
	// Provider is "hash" or "gemini".
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type RankingConfig struct {
	TopN    int  `mapstructure:"top-n"`
	Workers int  `mapstructure:"workers"`
	Redact  bool `mapstructure:"redact"`
}

type QdrantConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URL        string `mapstructure:"url"`
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Collection string `mapstructure:"collection"`
	Prefilter  int    `mapstructure:"prefilter"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-ranker is a simple cli for ranking resumes against job descriptions",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"embedder.gemini.api-key-file": "RESUME_RANKER_GEMINI_API_KEY_FILE",
		"qdrant.api-key-file":          "RESUME_RANKER_QDRANT_API_KEY_FILE",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("resumes", "resumes.json")
	viper.SetDefault("exclude-file", "excluded.json")
	viper.SetDefault("embedder.provider", "hash")
	viper.SetDefault("ranking.top-n", 10)
	viper.SetDefault("qdrant.collection", "resumes")
	viper.SetDefault("qdrant.prefilter", 50)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-ranker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().StringP("resumes", "r", "", "a resume dataset file (default is resumes.json)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("resumes", rootCmd.PersistentFlags().Lookup("resumes"))
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	err := viper.ReadInConfig()
	if err == nil {
		return
	}

	// Only an explicitly requested config file is mandatory.
	var notFound viper.ConfigFileNotFoundError
	if cfgFile == "" && errors.As(err, &notFound) {
		return
	}

	log.Fatal(err)
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Embedder == nil {
		config.Embedder = &EmbedderConfig{}
	}
	if config.Embedder.Gemini == nil {
		config.Embedder.Gemini = &GeminiConfig{}
	}
	if config.Ranking == nil {
		config.Ranking = &RankingConfig{}
	}
	if config.Qdrant == nil {
		config.Qdrant = &QdrantConfig{}
	}

	return config, nil
}
