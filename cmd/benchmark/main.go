package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pyhub-apps/paperminer"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: benchmark <pdf-file>")
		os.Exit(1)
	}

	pdfPath := os.Args[1]

	out, err := os.MkdirTemp("", "paperminer-bench")
	if err != nil {
		log.Fatalf("Failed to create image folder: %v", err)
	}
	defer os.RemoveAll(out)

	// Warm-up run
	doc, err := paperminer.Open(pdfPath)
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	pages := doc.PageCount()
	doc.Close()

	fmt.Printf("=== paperminer benchmark ===\n")
	fmt.Printf("File: %s\n", pdfPath)
	fmt.Printf("Pages: %d\n", pages)

	var baseline time.Duration
	for _, workers := range []int{1, 2, 4, 8} {
		start := time.Now()
		result, ok := paperminer.ExtractPages(pdfPath, out, paperminer.WithWorkers(workers))
		elapsed := time.Since(start)
		if !ok {
			log.Fatalf("Extraction failed")
		}

		var textLen int
		for _, text := range result.PageTexts {
			textLen += len(text)
		}
		if workers == 1 {
			baseline = elapsed
		}

		fmt.Printf("workers=%d time=%v chars=%d speedup=%.2fx\n",
			workers, elapsed, textLen, float64(baseline)/float64(elapsed))
	}

	start := time.Now()
	result, ok := paperminer.ExtractPages(pdfPath, out)
	if !ok {
		log.Fatalf("Extraction failed")
	}
	record := paperminer.NewExtractor(nil, nil, nil).Extract(result.Outline, result.PageTexts, result.PageChars)
	fmt.Printf("Full pipeline time: %v (title=%q)\n", time.Since(start), record.Title)
}
