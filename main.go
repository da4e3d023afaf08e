//go:build !(js && wasm)

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/voxelsplace/voxscene/utils"
)

func usage() {
	fmt.Println("Usage: voxscene <command> [flags] [args]")
	fmt.Println("Commands:")
	fmt.Println("  inspect [-max-bytes N] input.{vly,vox}[.zst|.gz]        (print grid, bounds, palette and fingerprint)")
	fmt.Println("  scene2glb [-max-bytes N] [-instanced] [-model cube.ply] input output.glb")
	fmt.Println("                                                          (convert a scene to .glb, greedy mesh by default)")
	fmt.Println("  ply2glb input.ply output.glb                            (convert a PLY model to .glb)")
}

func fail(err error) {
	fmt.Println("Error:", err)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var opts utils.LoadOptions
	fs := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
	fs.Int64Var(&opts.MaxBytes, "max-bytes", utils.DefaultMaxBytes, "maximum input size, before and after decompression")

	switch os.Args[1] {
	case "inspect":
		fs.Parse(os.Args[2:])
		if fs.NArg() != 1 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunInspect(fs.Arg(0), os.Stdout, opts); err != nil {
			fail(err)
		}
		return
	case "scene2glb":
		instanced := fs.Bool("instanced", false, "emit one cube per voxel instead of merged faces")
		model := fs.String("model", "", "PLY model used per voxel (implies -instanced)")
		fs.Parse(os.Args[2:])
		if fs.NArg() != 2 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunScene2GLB(fs.Arg(0), fs.Arg(1), *instanced, *model, opts); err != nil {
			fail(err)
		}
	case "ply2glb":
		if len(os.Args) != 4 {
			usage()
			os.Exit(1)
		}
		if err := utils.RunPLY2GLB(os.Args[2], os.Args[3]); err != nil {
			fail(err)
		}
	default:
		usage()
		os.Exit(1)
	}

	fmt.Println("Operation completed!")
}
