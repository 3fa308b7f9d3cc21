package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/aotforge/imagelink/annotation"
	"github.com/aotforge/imagelink/buildfile"
	"github.com/aotforge/imagelink/image"
	"github.com/aotforge/imagelink/layout"
	"github.com/aotforge/imagelink/patch"
)

func main() {
	var (
		buildPath   = flag.String("build", "", "Path to encoder build file (YAML)")
		layoutPath  = flag.String("layout", "", "Path to layout manifest (YAML)")
		outPath     = flag.String("out", "image.bin", "Output image path")
		listPath    = flag.String("list", "", "List the relocation table of an image and exit")
		interactive = flag.String("i", "", "Browse an image's relocation table interactively")
		workers     = flag.Int("workers", 0, "Patch worker count (0 = GOMAXPROCS)")
		debug       = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	if *debug {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		annotation.SetLogger(logger)
		patch.SetLogger(logger)
		image.SetLogger(logger)
	}

	switch {
	case *listPath != "":
		if err := runList(*listPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case *interactive != "":
		if err := runInteractive(*interactive); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case *buildPath != "" && *layoutPath != "":
		if err := runBuild(*buildPath, *layoutPath, *outPath, *workers); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "Usage: relink -build <build.yaml> -layout <layout.yaml> [-out image.bin]")
		fmt.Fprintln(os.Stderr, "       relink -list <image.bin>")
		fmt.Fprintln(os.Stderr, "       relink -i <image.bin>  (interactive mode)")
		os.Exit(1)
	}
}

func runBuild(buildPath, layoutPath, outPath string, workers int) error {
	lay, err := layout.Load(layoutPath)
	if err != nil {
		return err
	}
	b, err := buildfile.Load(buildPath)
	if err != nil {
		return err
	}

	opts := image.Options{Workers: workers}
	if term.IsTerminal(int(os.Stderr.Fd())) && len(b.Functions) > 0 {
		bar := progressbar.NewOptions(len(b.Functions),
			progressbar.OptionSetDescription("patching"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
		)
		opts.Progress = func(done, total int) {
			_ = bar.Set(done)
		}
	}

	img, err := image.NewBuilder(lay, opts).Build(b.Functions, b.Data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, img.Encode(), 0o644); err != nil {
		return err
	}

	fmt.Printf("wrote %s: %d function(s), %d text byte(s), %d relocation(s)\n",
		outPath, len(img.Functions), len(img.Text), len(img.Relocs))
	return nil
}

var (
	listTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5A56E0")).
			Padding(0, 1)

	listShapeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	listTargetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))
)

func runList(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	img, err := image.Decode(data)
	if err != nil {
		return err
	}

	styled := term.IsTerminal(int(os.Stdout.Fd()))
	title := fmt.Sprintf("%s: %d relocation(s), text@%#x data@%#x", path, len(img.Relocs), img.TextBase, img.DataBase)
	if styled {
		title = listTitleStyle.Render(title)
	}
	fmt.Println(title)

	for _, e := range img.Relocs {
		shape := e.Shape.String()
		target := e.Target.String()
		if styled {
			shape = listShapeStyle.Render(shape)
			target = listTargetStyle.Render(target)
		}
		addend := "-"
		if e.HasAddend {
			addend = fmt.Sprintf("%+d", e.Addend)
		}
		fmt.Printf("  %#010x  size=%d  %-24s addend=%-6s %s  (%s)\n",
			e.Site, e.Size, shape, addend, target, owner(img, e.Site))
	}
	return nil
}

// owner names the function whose placement covers a site.
func owner(img *image.Image, site int64) string {
	for _, fn := range img.Functions {
		if site >= fn.Base && site < fn.Base+int64(fn.Length) {
			return fn.Name
		}
	}
	return "?"
}
