package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pyhub-apps/paperminer/pkg/extractors"
	"github.com/pyhub-apps/paperminer/pkg/layout"
	"github.com/pyhub-apps/paperminer/pkg/pdf"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: dump_layout <pdf_file> [image_folder]")
		os.Exit(1)
	}

	pdfPath := os.Args[1]
	folder := os.TempDir()
	if len(os.Args) > 2 {
		folder = os.Args[2]
	}

	// Open the PDF file
	fmt.Printf("Opening PDF: %s\n", pdfPath)
	doc, err := pdf.Open(pdfPath)
	if err != nil {
		log.Fatalf("Failed to open PDF: %v", err)
	}
	defer doc.Close()

	fmt.Printf("Document has %d pages, extractable=%v\n", doc.PageCount(), doc.IsExtractable())
	for _, entry := range doc.Outline() {
		fmt.Printf("  outline L%d %s\n", entry.Level, entry.Title)
	}
	fmt.Println()

	builder := layout.NewBuilder()
	walker := extractors.NewWalker(folder, extractors.DefaultTolerance, extractors.MatchFirst, nil)

	for i := 0; i < doc.PageCount(); i++ {
		page, err := doc.GetPage(i)
		if err != nil {
			log.Printf("Failed to get page %d: %v", i+1, err)
			continue
		}

		bbox := page.GetBBox()
		fmt.Printf("=== Page %d ===\n", page.GetPageNumber())
		fmt.Printf("Size: %.2f x %.2f\n", bbox.Width(), bbox.Height())

		nodes := builder.Build(page.Fragments(), page.Images())
		printNodes(nodes, "  ")

		text, chars := walker.Walk(nodes, page.GetPageNumber())
		fmt.Println("\nText:")
		fmt.Println(text)
		fmt.Println("Chars:")
		fmt.Println(chars)
		fmt.Println()
	}
}

func printNodes(nodes []layout.Node, indent string) {
	for _, node := range nodes {
		b := node.GetBBox()
		switch n := node.(type) {
		case layout.TextContainer:
			fmt.Printf("%sbox (%.1f,%.1f)-(%.1f,%.1f) %d lines\n", indent, b.X0, b.Y0, b.X1, b.Y1, len(n.Lines))
		case layout.TextRun:
			fmt.Printf("%srun (%.1f,%.1f)-(%.1f,%.1f) %q\n", indent, b.X0, b.Y0, b.X1, b.Y1, n.Text)
		case layout.RawChar:
			fmt.Printf("%schar (%.1f,%.1f) %q\n", indent, b.X0, b.Y0, n.Text)
		case layout.ImageNode:
			fmt.Printf("%simage %s %d bytes\n", indent, n.Name, len(n.Stream))
		case layout.FigureContainer:
			fmt.Printf("%sfigure %d children\n", indent, len(n.Children))
			printNodes(n.Children, indent+"  ")
		}
	}
}
