package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/danghm/docqa-be/types"
	"github.com/spf13/viper"
)

type Config struct {
	Port      string `mapstructure:"port"`
	UploadDir string `mapstructure:"upload_dir"`
	JWTSecret string `mapstructure:"JWT_SECRET"`
	MongoURI  string `mapstructure:"MONGODB_URI"`

	// AIProvider selects the answer/embedding backend: "openai" (default,
	// any OpenAI-compatible endpoint such as Groq) or "gemini".
	AIProvider string `mapstructure:"ai_provider"`
	AIEndpoint string `mapstructure:"ai_endpoint"`
	// EmbeddingEndpoint is separate from AIEndpoint: Groq serves chat but no
	// embeddings, so the default pairs Groq for answers with OpenAI for vectors.
	EmbeddingEndpoint string `mapstructure:"embedding_endpoint"`
	Model             string `mapstructure:"model"`
	EmbeddingModel    string `mapstructure:"embedding_model"`
	OpenAIAPIKey   string `mapstructure:"OPENAI_API_KEY"`
	GeminiAPIKey   string `mapstructure:"GEMINI_API_KEY"`

	MaxAnswerTokens     int `mapstructure:"max_answer_tokens"`
	RetryAttempts       int `mapstructure:"retry_attempts"`
	RetryBackoffSeconds int `mapstructure:"retry_backoff_seconds"`

	ChunkSize         int `mapstructure:"chunk_size"`
	ChunkOverlap      int `mapstructure:"chunk_overlap"`
	MinChunkLength    int `mapstructure:"min_chunk_length"`
	EmbedBatchSize    int `mapstructure:"embed_batch_size"`
	TopK              int `mapstructure:"top_k"`
	ContextCharBudget int `mapstructure:"context_char_budget"`

	WeaviateStoreConfig WeaviateStoreConfig `mapstructure:"weaviate_store_config"`
}

type WeaviateStoreConfig struct {
	Host       string `mapstructure:"host"`
	APIKey     string `mapstructure:"WEAVIATE_APIKEY"`
	Collection string `mapstructure:"collection"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.BindEnv("OPENAI_API_KEY")
	v.BindEnv("GEMINI_API_KEY")
	v.BindEnv("weaviate_store_config.WEAVIATE_APIKEY", "WEAVIATE_APIKEY")
	v.BindEnv("MONGODB_URI")
	v.BindEnv("JWT_SECRET")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("ai_provider", "openai")
	v.SetDefault("ai_endpoint", "https://api.groq.com/openai/v1")
	v.SetDefault("embedding_endpoint", "https://api.openai.com/v1")
	v.SetDefault("model", "llama3-8b-8192")
	v.SetDefault("embedding_model", "text-embedding-3-small")
	v.SetDefault("max_answer_tokens", 300)
	v.SetDefault("retry_attempts", 3)
	v.SetDefault("retry_backoff_seconds", 5)
	v.SetDefault("chunk_size", 800)
	v.SetDefault("chunk_overlap", 100)
	v.SetDefault("min_chunk_length", 50)
	v.SetDefault("embed_batch_size", 100)
	v.SetDefault("top_k", 5)
	v.SetDefault("context_char_budget", 8000)
	v.SetDefault("weaviate_store_config.host", "http://localhost:8081")
	v.SetDefault("weaviate_store_config.collection", "DocqaChunk")
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
}

// ResolveAPIKey returns the API key for the configured provider. Resolution
// order: config file value, environment variable, interactive prompt. Startup
// halts if all three come up empty.
func (c *Config) ResolveAPIKey() (string, error) {
	envName := "OPENAI_API_KEY"
	key := c.OpenAIAPIKey
	if c.AIProvider == "gemini" {
		envName = "GEMINI_API_KEY"
		key = c.GeminiAPIKey
	}
	if key == "" {
		key = os.Getenv(envName)
	}
	if key == "" {
		fmt.Fprintf(os.Stderr, "%s not configured, enter it now: ", envName)
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("%s is not configured", envName)
		}
		key = strings.TrimSpace(line)
	}
	if key == "" {
		return "", fmt.Errorf("%s is not configured", envName)
	}
	if c.AIProvider == "gemini" {
		c.GeminiAPIKey = key
	} else {
		c.OpenAIAPIKey = key
	}
	return key, nil
}

// ChunkConfig bundles the chunking knobs for the chunk service, which
// validates them before any work starts.
func (c *Config) ChunkConfig() types.ChunkConfig {
	return types.ChunkConfig{
		ChunkSize:      c.ChunkSize,
		ChunkOverlap:   c.ChunkOverlap,
		MinChunkLength: c.MinChunkLength,
	}
}
