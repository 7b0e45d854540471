// Command shadergen prints the GLSL shader pair and binding tables for a
// binding profile.
package main

import (
	"flag"
	"fmt"
	"os"

	"guidraw/pkg/glsl"
)

func main() {
	profileName := flag.String("profile", "classic", "binding profile: classic or prefixed")
	shaderStage := flag.String("stage", "both", "shader to print: vertex, fragment or both")
	bindings := flag.Bool("bindings", false, "print the binding tables instead of source")
	flag.Parse()

	profile, ok := glsl.ProfileNamed(*profileName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown profile %q\n", *profileName)
		os.Exit(1)
	}

	if *bindings {
		printBindings(profile)
		return
	}

	switch *shaderStage {
	case "vertex":
		fmt.Println(profile.VertexSource())
	case "fragment":
		fmt.Println(profile.FragmentSource())
	case "both":
		fmt.Println(profile.VertexSource())
		fmt.Println(profile.FragmentSource())
	default:
		fmt.Fprintf(os.Stderr, "unknown stage %q\n", *shaderStage)
		os.Exit(1)
	}
}

func printBindings(p glsl.Profile) {
	section := func(title string, list []glsl.Binding) {
		fmt.Printf("%s:\n", title)
		for _, b := range list {
			fmt.Printf("  %-14s %-10s %s\n", b.Name, b.Type, b.Role)
		}
	}
	section("attributes", p.Attributes())
	section("uniforms", p.Uniforms())
	section("varyings", p.Varyings())
}
