package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/faiface/mainthread"
	"github.com/urfave/cli/v2"

	"github.com/memmaker/tilemapatlas/engine/encode"
	"github.com/memmaker/tilemapatlas/engine/preview"
	"github.com/memmaker/tilemapatlas/engine/tilemap"
	"github.com/memmaker/tilemapatlas/engine/util"
)

func main() {
	app := cli.NewApp()

	app.Name = "tilemapatlas"
	app.Usage = "inspect, convert and view color coded tile maps"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "assets",
			EnvVars: []string{"TILEMAP_ASSETS"},
			Usage:   "search path for map and atlas files",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}
	app.Before = func(c *cli.Context) error {
		if c.Bool("verbose") {
			util.GLOBAL_LOG_LEVEL = util.LogLevelInfo
		}
		return nil
	}

	tileFlags := []cli.Flag{
		&cli.IntFlag{Name: "tile-width", Value: 16, Usage: "tile width in points"},
		&cli.IntFlag{Name: "tile-height", Value: 16, Usage: "tile height in points"},
		&cli.Float64Flag{Name: "scale", Value: 1, Usage: "content scale factor (atlas pixels per point)"},
		&cli.BoolFlag{Name: "fix-artifacts", Value: tilemap.DefaultUVMode == tilemap.UVEdgeCorrect, Usage: "inset uv coordinates by half a texel"},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "info",
			Usage:     "Print grid size, tile count and tile kinds of a map",
			ArgsUsage: "MAP [ATLAS]",
			Flags:     tileFlags,
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				if err := info(os.Stdout, resolver(c), c.Args().Get(0), c.Args().Get(1), c.Int("tile-width"), c.Int("tile-height"), tileConfig(c)); err != nil {
					return cli.NewExitError(err, 1)
				}
				return nil
			},
		},
		{
			Name:      "preview",
			Usage:     "Print a map to the terminal",
			ArgsUsage: "MAP",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				raster, err := loadRaster(resolver(c), c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if err := preview.Render(os.Stdout, raster, preview.TerminalOptions(int(os.Stdout.Fd()))); err != nil {
					return cli.NewExitError(err, 1)
				}
				return nil
			},
		},
		{
			Name:      "encode",
			Usage:     "Quantize a picture into a map, one tile kind per color",
			ArgsUsage: "IMAGE OUTPUT",
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "kinds", Value: 16, Usage: "maximum number of tile kinds"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				if err := encodeImage(os.Stdout, c.Args().Get(0), c.Args().Get(1), c.Int("kinds")); err != nil {
					return cli.NewExitError(err, 1)
				}
				return nil
			},
		},
		{
			Name:      "view",
			Usage:     "Open a window showing the map, click a tile to change its kind",
			ArgsUsage: "MAP ATLAS",
			Flags: append(tileFlags,
				&cli.IntFlag{Name: "zoom", Value: 2, Usage: "window pixels per point"},
			),
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				options := viewOptions{
					mapFile:    c.Args().Get(0),
					atlasFile:  c.Args().Get(1),
					tileWidth:  c.Int("tile-width"),
					tileHeight: c.Int("tile-height"),
					zoom:       c.Int("zoom"),
					config:     tileConfig(c),
				}
				var err error
				mainthread.Run(func() {
					err = view(resolver(c), options)
				})
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func resolver(c *cli.Context) *util.Resolver {
	return util.NewResolver(filepath.SplitList(c.String("assets"))...)
}

func tileConfig(c *cli.Context) tilemap.Config {
	config := tilemap.DefaultConfig()
	config.ContentScaleFactor = float32(c.Float64("scale"))
	config.UVMode = tilemap.UVExact
	if c.Bool("fix-artifacts") {
		config.UVMode = tilemap.UVEdgeCorrect
	}
	return config
}

func loadRaster(r *util.Resolver, name string) (*tilemap.Raster, error) {
	fullPath, err := r.FullPath(name)
	if err != nil {
		return nil, err
	}
	return tilemap.LoadRaster(fullPath)
}

func info(w io.Writer, r *util.Resolver, mapFile, atlasFile string, tileWidth, tileHeight int, config tilemap.Config) error {
	raster, err := loadRaster(r, mapFile)
	if err != nil {
		return err
	}
	if err := preview.Summary(w, raster); err != nil {
		return err
	}
	if atlasFile == "" {
		return nil
	}
	texture, err := tilemap.LoadTextureSize(r, atlasFile)
	if err != nil {
		return err
	}
	if err := tilemap.CheckTileSize(texture, tileWidth, tileHeight, config); err != nil {
		return err
	}
	return preview.AtlasSummary(w, tilemap.New(texture, raster, tileWidth, tileHeight, config))
}

func encodeImage(w io.Writer, inputFile, outputFile string, kinds int) error {
	file, err := os.Open(inputFile)
	if err != nil {
		return err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return err
	}
	result, err := encode.FromImage(img, kinds)
	if err != nil {
		return err
	}
	if err := encode.WriteFile(outputFile, result.Raster); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %dx%d, %d tiles, %d kinds\n", outputFile, result.Raster.Width, result.Raster.Height, tilemap.CountOccupied(result.Raster), len(result.Palette))
	return nil
}
