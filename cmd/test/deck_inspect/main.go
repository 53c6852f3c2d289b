// Test program for inspecting generated decks and templates
//
// Usage:
//
//	go run ./cmd/test/deck_inspect/main.go <pptx-file> (<part-name> ...)
//
// This program prints:
// - Package parts
// - Slide size and layouts in template index order
// - Every slide with its layout and shapes
// - The XML of any part named on the command line
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/yuanying/brandeck/internal/pptx"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/test/deck_inspect/main.go <pptx-file> (<part-name> ...)")
		os.Exit(1)
	}

	path := os.Args[1]
	partNames := os.Args[2:]

	fmt.Printf("Opening deck: %s\n", path)
	doc, err := pptx.Open(path)
	if err != nil {
		log.Fatalf("Failed to open deck: %v", err)
	}
	pkg := doc.Package()

	parts := pkg.PartNames()
	fmt.Printf("✓ Deck opened successfully\n")
	fmt.Printf("Total parts: %d\n", len(parts))
	for _, name := range parts {
		data, err := pkg.ReadPart(name)
		if err != nil {
			log.Fatalf("Failed to read part %s: %v", name, err)
		}
		fmt.Printf("  - %s (%s)\n", name, humanize.Bytes(uint64(len(data))))
	}

	cx, cy := doc.SlideSize()
	fmt.Printf("\nSlide size: %.2fin x %.2fin\n", float64(cx)/float64(pptx.Inches(1)), float64(cy)/float64(pptx.Inches(1)))

	fmt.Println("\nLayouts:")
	for i, l := range doc.Layouts() {
		fmt.Printf("  [%d] %s (%s)\n", i, l.Name, l.Part)
	}

	slides := doc.Slides()
	fmt.Printf("\nSlides: %d\n", len(slides))
	for i, s := range slides {
		fmt.Printf("\nSlide %d: layout %q\n", i+1, s.Layout().Name)
		for _, sh := range s.Shapes() {
			fmt.Printf("  #%d %s %q", sh.ID, sh.Kind, sh.Name)
			if sh.PlaceholderType != "" || sh.PlaceholderIdx != 0 {
				fmt.Printf(" ph=%s/%d", sh.PlaceholderType, sh.PlaceholderIdx)
			}
			fmt.Printf(" @ %.2f,%.2f %.2fx%.2fin\n", inches(sh.Frame.Left), inches(sh.Frame.Top), inches(sh.Frame.Width), inches(sh.Frame.Height))
			for _, p := range sh.Paragraphs {
				fmt.Printf("      | %s\n", p)
			}
			for _, row := range sh.Rows {
				fmt.Printf("      | %s\n", strings.Join(row, " | "))
			}
			if sh.ImagePart != "" {
				fmt.Printf("      image: %s\n", sh.ImagePart)
			}
		}
	}

	for _, name := range partNames {
		fmt.Printf("\nReading part: %s\n", name)
		data, err := pkg.ReadPart(name)
		if err != nil {
			log.Fatalf("Failed to read part %s: %v", name, err)
		}
		fmt.Printf("%s\n", data)
	}
}

func inches(emu int64) float64 {
	return float64(emu) / float64(pptx.Inches(1))
}
