package bundle

import (
	"fmt"
	"strings"

	"gridcfg.io/console/models"
)

// PropertiesGenerator renders the secret properties of a cluster.
// An empty result means the cluster has no secrets to externalize.
type PropertiesGenerator interface {
	Properties(cluster *models.Cluster) (string, error)
}

// XMLGenerator renders Spring XML configuration. A nil near cache config
// renders the server variant.
type XMLGenerator interface {
	ClusterXML(cluster *models.Cluster, nearCfg *models.NearCacheConfig) (string, error)
}

// StartupArgs parameterizes a node startup class.
type StartupArgs struct {
	// CfgExpr is a Java expression for the configuration: a quoted XML path
	// for Spring startup, a factory call for code startup.
	CfgExpr string

	// FactoryImport is the class to import for code startup (optional).
	FactoryImport string

	// NearCfg is the near cache config of client startup variants (optional).
	NearCfg *models.NearCacheConfig
}

// JavaGenerator renders Java configuration factories and node startup classes.
type JavaGenerator interface {
	ConfigurationFactory(cluster *models.Cluster, pkg, class string, nearCfg *models.NearCacheConfig) (string, error)
	NodeStartup(cluster *models.Cluster, pkg, class string, args StartupArgs) (string, error)
}

// POMGenerator renders the Maven project descriptor.
type POMGenerator interface {
	POM(cluster *models.Cluster, platformVersion string) (string, error)
}

// ReadmeGenerator renders the static README texts.
type ReadmeGenerator interface {
	Readme() (string, error)
	ReadmeJdbc() (string, error)
}

// Generators is the full set of artifact generators a Builder needs.
type Generators interface {
	PropertiesGenerator
	XMLGenerator
	JavaGenerator
	POMGenerator
	ReadmeGenerator
}

// Option configures a Builder.
type Option func(*Builder)

// WithPlatformVersion overrides the platform version written into pom.xml.
func WithPlatformVersion(version string) Option {
	return func(b *Builder) {
		if version != "" {
			b.platformVersion = version
		}
	}
}

// WithStrictPaths makes two metadata entries mapping to one path an error
// instead of letting the later entry win.
func WithStrictPaths(strict bool) Option {
	return func(b *Builder) {
		b.strict = strict
	}
}

// Builder assembles configuration bundles from injected generators.
type Builder struct {
	gen             Generators
	platformVersion string
	strict          bool
}

// NewBuilder creates a bundle builder.
//
// Parameters:
//   - gen: Artifact generators
//   - opts: Optional settings (platform version, strict paths)
//
// Returns:
//   - Configured Builder
func NewBuilder(gen Generators, opts ...Option) *Builder {
	b := &Builder{
		gen:             gen,
		platformVersion: DefaultPlatformVersion,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FileName returns the archive file name offered for a cluster.
func FileName(cluster *models.Cluster) string {
	return cluster.Name + FileNameSuffix
}

// ServerXMLPath returns the path of the server XML configuration of a cluster.
func ServerXMLPath(cluster *models.Cluster) string {
	return ConfigDir + cluster.Name + "-server.xml"
}

// ClientXMLPath returns the path of the client XML configuration of a cluster.
func ClientXMLPath(cluster *models.Cluster) string {
	return ConfigDir + cluster.Name + "-client.xml"
}

// ClassPath converts a fully qualified Java type name into its source path.
func ClassPath(typeName string) string {
	return SourceRoot + strings.ReplaceAll(typeName, ".", "/") + JavaExtension
}

func javaPath(pkg, class string) string {
	return SourceRoot + pkg + "/" + class + JavaExtension
}

// Build assembles the bundle of a cluster.
//
// Entries are added in a fixed order: Dockerfile, secret properties (when
// non-empty), server and client XML, Java factories and startups, pom.xml,
// READMEs and finally the POJO classes of the payload. Any generator error
// aborts the build; no partial archive is returned.
//
// Parameters:
//   - cluster: The selected cluster (required)
//   - payload: Dockerfile body and generated POJO classes
//
// Returns:
//   - *Archive: The assembled entries
//   - error: models.ErrNoSelection for a nil cluster, a models.ErrGeneration
//     wrapped generator failure, or ErrDuplicatePath in strict mode
func (b *Builder) Build(cluster *models.Cluster, payload models.ExportPayload) (*Archive, error) {
	if cluster == nil {
		return nil, models.ErrNoSelection
	}

	nearCfg := cluster.ClientNearCfg
	archive := NewArchive()

	archive.Add(PathDockerfile, payload.Docker)

	props, err := b.gen.Properties(cluster)
	if err != nil {
		return nil, generationError("secret properties", err)
	}
	if props != "" {
		archive.Add(PathSecretProperties, props)
	}

	serverXML := ServerXMLPath(cluster)
	clientXML := ClientXMLPath(cluster)

	content, err := b.gen.ClusterXML(cluster, nil)
	if err != nil {
		return nil, generationError(serverXML, err)
	}
	archive.Add(serverXML, content)

	content, err = b.gen.ClusterXML(cluster, nearCfg)
	if err != nil {
		return nil, generationError(clientXML, err)
	}
	archive.Add(clientXML, content)

	factories := []struct {
		class   string
		nearCfg *models.NearCacheConfig
	}{
		{ClassServerFactory, nil},
		{ClassClientFactory, nearCfg},
	}
	for _, f := range factories {
		path := javaPath(FactoryPackage, f.class)
		content, err := b.gen.ConfigurationFactory(cluster, FactoryPackage, f.class, f.nearCfg)
		if err != nil {
			return nil, generationError(path, err)
		}
		archive.Add(path, content)
	}

	startups := []struct {
		class string
		args  StartupArgs
	}{
		{ClassServerSpringStartup, StartupArgs{CfgExpr: quote(serverXML)}},
		{ClassClientSpringStartup, StartupArgs{CfgExpr: quote(clientXML)}},
		{ClassServerCodeStartup, StartupArgs{
			CfgExpr:       ClassServerFactory + ".createConfiguration()",
			FactoryImport: FactoryPackage + "." + ClassServerFactory,
		}},
		{ClassClientCodeStartup, StartupArgs{
			CfgExpr:       ClassClientFactory + ".createConfiguration()",
			FactoryImport: FactoryPackage + "." + ClassClientFactory,
			NearCfg:       nearCfg,
		}},
	}
	for _, s := range startups {
		path := javaPath(StartupPackage, s.class)
		content, err := b.gen.NodeStartup(cluster, StartupPackage, s.class, s.args)
		if err != nil {
			return nil, generationError(path, err)
		}
		archive.Add(path, content)
	}

	pom, err := b.gen.POM(cluster, b.platformVersion)
	if err != nil {
		return nil, generationError(PathPOM, err)
	}
	archive.Add(PathPOM, pom)

	readme, err := b.gen.Readme()
	if err != nil {
		return nil, generationError(PathReadme, err)
	}
	archive.Add(PathReadme, readme)

	readme, err = b.gen.ReadmeJdbc()
	if err != nil {
		return nil, generationError(PathReadmeJdbc, err)
	}
	archive.Add(PathReadmeJdbc, readme)

	for _, meta := range payload.Metadatas {
		if meta.KeyClass != "" {
			if err := b.addClass(archive, meta.KeyType, meta.KeyClass); err != nil {
				return nil, err
			}
		}
		if err := b.addClass(archive, meta.ValueType, meta.ValueClass); err != nil {
			return nil, err
		}
	}

	return archive, nil
}

// Export builds and serializes the bundle of a cluster.
func (b *Builder) Export(cluster *models.Cluster, payload models.ExportPayload) (*Result, error) {
	archive, err := b.Build(cluster, payload)
	if err != nil {
		return nil, err
	}

	data, err := archive.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize bundle: %w", err)
	}

	if len(data) > MaxBundleSize {
		return nil, ErrBundleTooLarge
	}

	return &Result{
		FileName: FileName(cluster),
		MIMEType: MIMEType,
		Data:     data,
		Files:    archive.Paths(),
	}, nil
}

func (b *Builder) addClass(archive *Archive, typeName, source string) error {
	path := ClassPath(typeName)
	if b.strict && archive.Has(path) {
		return fmt.Errorf("%w: %s", ErrDuplicatePath, path)
	}
	archive.Add(path, source)
	return nil
}

func generationError(what string, err error) error {
	return fmt.Errorf("%w: %s: %w", models.ErrGeneration, what, err)
}

func quote(s string) string {
	return `"` + s + `"`
}
