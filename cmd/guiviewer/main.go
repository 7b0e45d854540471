package main

import (
	"fmt"
	"os"

	"guidraw/internal/app"
)

func main() {
	fmt.Println("GUI Viewer - WebGPU")
	fmt.Println("Controls:")
	fmt.Println("  Mouse wheel : UI scale")
	fmt.Println("  + / -       : UI scale")
	fmt.Println("  Space       : Toggle demo scene")
	fmt.Println("  S           : Toggle stats overlay")
	fmt.Println("  Escape      : Exit")
	fmt.Println()

	application, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer application.Cleanup()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
