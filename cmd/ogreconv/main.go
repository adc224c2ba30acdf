package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/binzume/ogreconv/converter"
	"github.com/binzume/ogreconv/diag"
	"github.com/binzume/ogreconv/ogre"
	"github.com/binzume/ogreconv/scene"
)

func loadOptions(settings string) (*converter.Options, error) {
	if settings == "" {
		return converter.DefaultOptions(), nil
	}
	if _, err := os.Stat(settings); os.IsNotExist(err) {
		log.Print("settings not found, using defaults: ", settings)
		return converter.DefaultOptions(), nil
	}
	return converter.LoadSettings(settings)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] scene.yaml\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s -inspect file.skeleton.xml|file.mesh.xml [preview.glb]\n", os.Args[0])
		flag.PrintDefaults()
	}
	settings := flag.String("settings", "", "load options from a YAML file")
	saveSettings := flag.Bool("save-settings", false, "write the effective options back to -settings")
	output := flag.String("o", "", "export directory (default: settings or current directory)")
	rotX := flag.Float64("rotx", 0, "rotation around X in degrees (default -90)")
	rotY := flag.Float64("roty", 0, "rotation around Y in degrees")
	rotZ := flag.Float64("rotz", 0, "rotation around Z in degrees")
	scale := flag.Float64("scale", 0, "scale (default 1)")
	world := flag.Bool("world", false, "export in world coordinates")
	ambient := flag.Bool("ambient", false, "coloured ambient")
	material := flag.String("material", "", "material file name (default <scene>.material)")
	preview := flag.Bool("gltf", false, "write a .glb preview of every mesh")
	encoding := flag.String("encoding", "", "character set of written files (default UTF-8)")
	armatureMesh := flag.Bool("armaturemesh", true, "write selected armatures as meshes")
	workers := flag.Int("workers", 0, "submeshes converted in parallel (default 1)")
	inspect := flag.Bool("inspect", false, "print the contents of an exported document")
	listEncodings := flag.Bool("encodings", false, "list supported encodings")
	flag.Parse()

	if *listEncodings {
		fmt.Println(strings.Join(ogre.EncodingNames(), "\n"))
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		return
	}
	input := flag.Arg(0)

	if *inspect {
		if err := inspectDocument(input, flag.Arg(1)); err != nil {
			log.Fatal(err)
		}
		return
	}

	opts, err := loadOptions(*settings)
	if err != nil {
		log.Fatal(err)
	}
	// Flags override settings only when given.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "o":
			opts.ExportPath = *output
		case "rotx":
			opts.RotX = *rotX
		case "roty":
			opts.RotY = *rotY
		case "rotz":
			opts.RotZ = *rotZ
		case "scale":
			opts.Scale = *scale
		case "world":
			opts.WorldCoordinates = *world
		case "ambient":
			opts.ColouredAmbient = *ambient
		case "material":
			opts.MaterialFile = *material
		case "gltf":
			opts.GLTF = *preview
		case "encoding":
			opts.Encoding = *encoding
		case "armaturemesh":
			opts.ArmatureMesh = *armatureMesh
		case "workers":
			opts.Workers = *workers
		}
	})
	if *saveSettings && *settings != "" {
		if err := converter.SaveSettings(*settings, opts); err != nil {
			log.Fatal(err)
		}
		log.Print("settings saved: ", *settings)
	}

	sc, err := scene.Load(input)
	if err != nil {
		log.Fatal(err)
	}

	logger := diag.NewLogger()
	logger.Echo = log.New(os.Stderr, "", 0)
	exporter := converter.NewExporter(opts, logger)
	exporter.TextureDir = filepath.Dir(input)
	if _, err := exporter.Export(sc); err != nil {
		log.Fatal(err)
	}
	if logger.Status() == diag.Error {
		os.Exit(2)
	}
}
