/*
Copyright © 2025 danghm
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/danghm/docqa-be/config"
	"github.com/danghm/docqa-be/service"
	"github.com/danghm/docqa-be/types"
	"github.com/spf13/cobra"
)

// trainCmd represents the train command
var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Index documents from the command line",
	Long: `Rebuilds the vector index from a file or a directory of PDF/TXT
documents. The existing collection is dropped first, the index only ever
reflects the latest train run.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		filePath, _ := cmd.Flags().GetString("file")
		directory, _ := cmd.Flags().GetString("directory")
		if filePath == "" && directory == "" {
			log.Fatal("Either --file or --directory is required")
		}

		ctx := context.Background()
		embedder, _, err := buildAIStack(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to initialize AI services: %v", err)
		}
		indexingService, _, err := buildIndexingService(cfg, embedder)
		if err != nil {
			log.Fatalf("Failed to initialize indexing pipeline: %v", err)
		}

		var docs []types.Document
		if filePath != "" {
			doc, err := localDocument(filePath)
			if err != nil {
				log.Fatalf("Failed to read %s: %v", filePath, err)
			}
			docs = append(docs, doc)
		} else {
			entries, err := os.ReadDir(directory)
			if err != nil {
				log.Fatalf("Failed to read directory: %v", err)
			}
			for _, entry := range entries {
				if entry.IsDir() {
					continue
				}
				doc, err := localDocument(filepath.Join(directory, entry.Name()))
				if err != nil {
					log.Printf("Skipping %s: %v", entry.Name(), err)
					continue
				}
				docs = append(docs, doc)
			}
		}

		report, err := indexingService.IndexDocuments(ctx, docs, func(p types.TrainProgress) {
			log.Printf("%s (%d/%d files, %d chunks)", p.Message, p.ProcessedFiles, p.TotalFiles, p.ChunkCount)
		})
		if err != nil && !errors.Is(err, types.ErrNoReadableText) {
			log.Fatalf("Train run failed: %v", err)
		}
		fmt.Printf("Indexed %d chunks from %d files\n", report.ChunkCount, report.IndexedFiles)
		for _, skipped := range report.SkippedFiles {
			fmt.Printf("Skipped %s: %s\n", skipped.Name, skipped.Reason)
		}
		if errors.Is(err, types.ErrNoReadableText) {
			fmt.Println("No readable text found, the index is empty")
		}
	},
}

func localDocument(path string) (types.Document, error) {
	kind, err := service.DetectKind(path)
	if err != nil {
		return types.Document{}, err
	}
	return types.Document{
		Name: filepath.Base(path),
		Path: path,
		Kind: kind,
	}, nil
}

func init() {
	rootCmd.AddCommand(trainCmd)
	trainCmd.Flags().StringP("file", "f", "", "Path to a single file to index")
	trainCmd.Flags().String("directory", "", "Path to a directory of files to index")
}
