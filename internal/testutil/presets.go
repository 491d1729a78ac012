package testutil

// Source names used by the standard fixture.
const (
	SourcePrimary = "open-data-registry"
	SourceASDI    = "sustainability"
)

// WithStandardSources adds a two-source registry:
//
//	open-data-registry: landsat-8 (aws-pds, 2 examples), noaa-ghcn (1 example),
//	                    sentinel-2 (aws-pds), legacy-archive (deprecated)
//	sustainability:     landsat-8 (metadata overlay only), era5 (no examples), collab.yaml
//
// Ranked order: landsat-8 (5), sentinel-2 (3), noaa-ghcn (1), era5 (0).
func (b *SourceBuilder) WithStandardSources() *SourceBuilder {
	return b.
		WithDataset(SourcePrimary, "landsat-8", "Landsat 8",
			Description("Imagery of the **Earth** from Landsat 8."),
			Tags("satellite imagery", "aws-pds", "earth observation"),
			Examples("Tutorials", "Processing Landsat", "browsing scenes"),
			Examples("Publications"),
			Metadata("ADXCategories", "Environmental Data"),
			Resource("S3 Bucket", "arn:aws:s3:::landsat-pds", "us-west-2"),
			ManagedBy("[NASA](https://www.nasa.gov/)"),
			Added("2019-01-03")).
		WithDataset(SourcePrimary, "noaa-ghcn", "NOAA Global Historical Climatology Network",
			Tags("climate", "weather"),
			Examples("Tools & Applications", "GHCN explorer"),
			Resource("S3 Bucket", "arn:aws:s3:::noaa-ghcn-pds", "us-east-1"),
			ManagedBy("NOAA"),
			Added("2019-01-03")).
		WithDataset(SourcePrimary, "sentinel-2", "Sentinel-2",
			Tags("aws-pds", "satellite imagery"),
			Resource("S3 Bucket", "arn:aws:s3:::sentinel-s2-l1c", "eu-central-1"),
			Added("2020-06-15")).
		WithDataset(SourcePrimary, "legacy-archive", "Legacy Archive",
			Tags("archive"),
			Added("2018-02-01"),
			Deprecated()).
		WithDataset(SourceASDI, "landsat-8", "Landsat 8 (mirror)",
			Tags("ignored"),
			Metadata("Regions", []string{"us-west-2", "eu-west-1"})).
		WithDataset(SourceASDI, "era5", "ECMWF ERA5 Reanalysis",
			Tags("climate", "sustainability"),
			Added("2020-06-15")).
		WithCollab(SourceASDI, "Amazon Sustainability Data Initiative", "Datasets for sustainability research.")
}
