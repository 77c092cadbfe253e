package main

import (
	"context"

	"github.com/benpate/derp"
	"github.com/shankyank/presenter/catalog"
	"github.com/shankyank/presenter/config"
	"github.com/shankyank/presenter/presentation"
)

// newCatalogClient creates the S3 client for s3:// catalogs.  Tests replace it.
var newCatalogClient = func(ctx context.Context, region string) (catalog.S3API, error) {
	return catalog.NewClient(ctx, region)
}

// loadCatalog returns the [[presentations]] from the config followed by the
// entries of the configured catalog file, if any.
func loadCatalog(ctx context.Context, cfg *config.Config) ([]presentation.Presentation, error) {

	const location = "main.loadCatalog"

	result := make([]presentation.Presentation, 0, len(cfg.Presentations))

	for _, item := range cfg.Presentations {
		result = append(result, presentation.Presentation{
			Name:     item.Name,
			Filename: item.Filename,
		})
	}

	if cfg.Catalog == "" {
		return result, nil
	}

	var client catalog.S3API

	if catalog.IsS3(cfg.Catalog) {

		var err error
		client, err = newCatalogClient(ctx, cfg.Queue.Region)

		if err != nil {
			return nil, derp.Wrap(err, location, "Unable to create S3 client")
		}
	}

	loaded, err := catalog.Load(ctx, client, cfg.Catalog)

	if err != nil {
		return nil, derp.Wrap(err, location, "Unable to load catalog", cfg.Catalog)
	}

	return append(result, loaded...), nil
}
