/*
Copyright © 2025 danghm
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/danghm/docqa-be/config"
	"github.com/danghm/docqa-be/database"
	"github.com/danghm/docqa-be/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docqa-be",
	Short: "Document Q&A backend",
	Long: `docqa-be indexes uploaded PDF and text documents into a vector
database and answers questions grounded in the retrieved chunks.

Run "docqa-be start" for the HTTP server, "docqa-be train" to index
documents from the command line and "docqa-be ask" for one-shot questions.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/config.yaml", "config file")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// buildAIStack resolves the provider credential and constructs the embedder
// and answer generator for the configured backend. Both are built once and
// reused for the whole process.
func buildAIStack(ctx context.Context, cfg *config.Config) (service.Embedder, service.AIService, error) {
	apiKey, err := cfg.ResolveAPIKey()
	if err != nil {
		return nil, nil, err
	}
	if cfg.AIProvider == "gemini" {
		gemini, err := service.NewGeminiService(ctx, apiKey, cfg.Model, cfg.EmbeddingModel,
			cfg.EmbedBatchSize, cfg.RetryAttempts, cfg.RetryBackoffSeconds)
		if err != nil {
			return nil, nil, err
		}
		return gemini, gemini, nil
	}
	embedder := service.NewEmbeddingService(cfg.EmbeddingEndpoint, apiKey, cfg.EmbeddingModel, cfg.EmbedBatchSize)
	ai := service.NewOpenAIService(cfg.AIEndpoint, apiKey, cfg.Model, cfg.RetryAttempts, cfg.RetryBackoffSeconds)
	return embedder, ai, nil
}

// buildIndexingService wires the full train pipeline against weaviate.
func buildIndexingService(cfg *config.Config, embedder service.Embedder) (*service.IndexingService, *database.WeaviateStore, error) {
	chunkService, err := service.NewChunkService(cfg.ChunkConfig())
	if err != nil {
		return nil, nil, err
	}
	weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to Weaviate database: %w", err)
	}
	indexing := service.NewIndexingService(service.NewDocumentService(), chunkService, embedder, weaviateDb)
	return indexing, weaviateDb, nil
}
