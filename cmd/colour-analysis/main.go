// Command colour-analysis serves the colour analysis HTTP API and offers a
// dump mode for rendering a single visual to stdout.
package main

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/net/netutil"

	"github.com/colour-science/colour-analysis/analysis"
	"github.com/colour-science/colour-analysis/model"
	"github.com/colour-science/colour-analysis/server"
)

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "colour-analysis: %v\n", err)
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "colour-analysis",
		Short:         "Colour analysis geometry and classification service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCommand(), dumpCommand())
	return root
}

func loadConfig(cmd *cobra.Command) (server.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return server.Config{}, err
	}
	if path == "" {
		return server.DefaultConfig(), nil
	}
	return server.LoadConfig(path)
}

func serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				cfg.Addr = addr
			}
			if dir, _ := cmd.Flags().GetString("images"); dir != "" {
				cfg.ImagesDir = dir
			}

			log := server.NewLogger(os.Stderr)
			srv, err := server.New(cfg, server.WithLogger(log))
			if err != nil {
				return err
			}

			listener, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return err
			}
			if cfg.MaxConnections > 0 {
				listener = netutil.LimitListener(listener, cfg.MaxConnections)
			}

			fmt.Fprintf(os.Stderr, "listening on %s\n", listener.Addr())
			return http.Serve(listener, srv.Handler())
		},
	}
	cmd.Flags().String("config", "", "Path to a YAML configuration file")
	cmd.Flags().String("addr", "", "Listen address, overrides the configuration")
	cmd.Flags().String("images", "", "Images directory, overrides the configuration")
	return cmd
}

func dumpCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Render a colourspace volume visual to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			colourspaceName, _ := cmd.Flags().GetString("colourspace")
			modelName, _ := cmd.Flags().GetString("model")
			segments, _ := cmd.Flags().GetInt("segments")
			wireframe, _ := cmd.Flags().GetBool("wireframe")

			engine := analysis.New()
			buf, err := engine.VolumeVisual(analysis.VolumeRequest{
				Colourspace: colourspaceName,
				Model:       model.Model(modelName),
				Segments:    segments,
				Wireframe:   wireframe,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(buf)
		},
	}
	cmd.Flags().String("colourspace", analysis.PrimaryColourspace, "RGB colourspace name")
	cmd.Flags().String("model", string(analysis.DefaultModel), "Colour model name")
	cmd.Flags().Int("segments", analysis.DefaultSegments, "Box subdivisions per axis")
	cmd.Flags().Bool("wireframe", false, "Emit the outline index instead of faces")
	return cmd
}
