package main

import (
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/brook-ui/brook/internal/config"
	"github.com/brook-ui/brook/pkg/export"
)

func exportCmd() *cobra.Command {
	var (
		configPath string
		key        string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render pages to static HTML and publish them to S3",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Export.Bucket == "" {
				return fmt.Errorf("export.bucket is required")
			}
			logger := newLogger(cfg.Log)
			ctx := cmd.Context()

			awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Export.Region))
			if err != nil {
				return fmt.Errorf("loading AWS config: %w", err)
			}
			pub := export.NewS3Publisher(s3.NewFromConfig(awsCfg), cfg.Export.Bucket, cfg.Export.Prefix, logger)

			tree, rc, err := demoPage(cfg)(nil)
			if err != nil {
				return err
			}
			if err := export.PublishPage(ctx, pub, key, tree, rc); err != nil {
				return fmt.Errorf("publishing %s: %w", key, err)
			}
			logger.Info().Str("bucket", cfg.Export.Bucket).Str("key", key).Msg("page published")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to brook.yaml")
	cmd.Flags().StringVarP(&key, "key", "k", "/", "page key to publish (\"/\" becomes index.html)")
	return cmd
}
