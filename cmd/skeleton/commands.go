package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/creamcroissant/skeleton/internal/api"
	"github.com/creamcroissant/skeleton/internal/replies"
)

func init() {
	// Version
	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "skeleton %s (commit %s, built %s)\n", Version, Commit, BuildTime)
		},
	}
	rootCmd.AddCommand(versionCmd)

	// Schema
	var schemaFormat string
	var schemaCmd = &cobra.Command{
		Use:   "schema",
		Short: "Print the declared routes and reply catalog as JSON Schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeRouteSchemas(cmd.OutOrStdout(), schemaFormat)
		},
	}
	schemaCmd.Flags().StringVar(&schemaFormat, "format", "json", "output format: json or yaml")
	rootCmd.AddCommand(schemaCmd)
}

type schemaDocument struct {
	Routes  []api.RouteDescription `json:"routes"`
	Replies []replies.Entry        `json:"replies"`
}

func writeRouteSchemas(w io.Writer, format string) error {
	doc := schemaDocument{
		Routes:  api.Describe(),
		Replies: replies.Catalog(),
	}

	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case "yaml", "yml":
		// 先转成 JSON 再解码为通用结构，保证字段名和 JSON 输出一致
		raw, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode schema: %w", err)
		}
		var generic any
		if err := json.Unmarshal(raw, &generic); err != nil {
			return fmt.Errorf("decode schema: %w", err)
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}
