/*
Copyright © 2025 danghm
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/danghm/docqa-be/config"
	"github.com/danghm/docqa-be/database"
	"github.com/danghm/docqa-be/service"
	"github.com/spf13/cobra"
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question against the indexed documents",
	Long: `Embeds the question, retrieves the most similar chunks from the
vector database and prints a grounded answer. With --summarize the
question is ignored and a summary of the indexed corpus is printed
instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		summarize, _ := cmd.Flags().GetBool("summarize")
		question := strings.TrimSpace(strings.Join(args, " "))
		if !summarize && question == "" {
			log.Fatal("A question is required, or pass --summarize")
		}

		ctx := context.Background()
		embedder, ai, err := buildAIStack(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize AI services: %v", err)
		}
		weaviateDb, err := database.NewWeaviateStore(cfg.WeaviateStoreConfig)
		if err != nil {
			log.Fatalf("Failed to connect to Weaviate database: %v", err)
		}
		retrieval := service.NewRetrievalService(embedder, weaviateDb, cfg.TopK, cfg.ContextCharBudget)
		qaService := service.NewQAService(retrieval, ai, nil, cfg.MaxAnswerTokens)

		if summarize {
			summary, err := qaService.Summarize(ctx)
			if err != nil {
				log.Fatalf("Failed to summarize: %v", err)
			}
			fmt.Println(summary)
			return
		}

		resp, err := qaService.Ask(ctx, "", question)
		if err != nil {
			log.Fatalf("Failed to answer: %v", err)
		}
		fmt.Println(resp.Answer)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().Bool("summarize", false, "Summarize the indexed corpus instead of answering")
}
