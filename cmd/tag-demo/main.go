// README: Demo CLI; tags a caption with Gemini and prints the extracted search params.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"roam/internal/modules/intent"
	"roam/internal/tagger"
)

func main() {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY environment variable not set")
	}

	caption := "find me some cheap spicy ramen nearby, open now"
	if len(os.Args) > 1 {
		caption = strings.Join(os.Args[1:], " ")
	}

	ctx := context.Background()
	tg, err := tagger.NewGeminiTagger(ctx, apiKey)
	if err != nil {
		log.Fatalf("Failed to initialize tagger: %v", err)
	}
	defer tg.Close()

	fmt.Printf("Caption: %s\n", caption)

	tags, err := tg.Tag(ctx, caption)
	if err != nil {
		log.Fatalf("Error tagging caption: %v", err)
	}

	for text, labels := range tags {
		fmt.Printf("  %-20s %v\n", text, labels)
	}

	params := intent.Extract(caption, tags)
	fmt.Printf("Query: %s\n", params.Query)
	fmt.Printf("Radius: %dm  Sort: %s\n", params.RadiusM, params.Sort)
	if params.MinPrice > 0 {
		fmt.Printf("MinPrice: %d\n", params.MinPrice)
	}
	if params.MaxPrice > 0 {
		fmt.Printf("MaxPrice: %d\n", params.MaxPrice)
	}
	if params.OpenNow {
		fmt.Println("OpenNow: true")
	}
	if len(params.Tastes) > 0 {
		fmt.Printf("Tastes: %v\n", params.Tastes)
	}
}
