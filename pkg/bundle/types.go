// Package bundle assembles and validates cluster configuration bundles.
//
// A bundle is a zip archive with everything needed to start nodes of a cluster:
//   - Dockerfile: image definition
//   - config/<name>-server.xml, config/<name>-client.xml: Spring XML configuration
//   - src/main/java/factory, src/main/java/startup: Java configuration and startup classes
//   - pom.xml: Maven project descriptor
//   - README.txt, jdbc-drivers/README.txt: static documentation
//   - src/main/java/<package path>/<Class>.java: POJO key/value classes
package bundle

import (
	"errors"
	"time"
)

const (
	// MaxBundleSize is the maximum allowed serialized bundle size (10 MiB).
	MaxBundleSize = 10 * 1024 * 1024

	// MaxUncompressedSize caps the summed uncompressed size of all entries.
	MaxUncompressedSize = 10 * MaxBundleSize

	// MaxXMLEntrySize caps a single XML entry, which is decoded in memory.
	MaxXMLEntrySize = MaxBundleSize

	// MIMEType is the content type the archive is offered with.
	MIMEType = "application/octet-stream"

	// FileNameSuffix is appended to the cluster name to form the archive file name.
	FileNameSuffix = "-configuration.zip"

	// DefaultPlatformVersion is the platform version written into pom.xml.
	DefaultPlatformVersion = "1.5.0-b1"

	// PathDockerfile is the Docker descriptor path.
	PathDockerfile = "Dockerfile"

	// PathSecretProperties is the path of the generated secret properties.
	PathSecretProperties = "src/main/resources/secret.properties"

	// PathPOM is the Maven project descriptor path.
	PathPOM = "pom.xml"

	// PathReadme is the general README path.
	PathReadme = "README.txt"

	// PathReadmeJdbc is the JDBC drivers README path.
	PathReadmeJdbc = "jdbc-drivers/README.txt"

	// ConfigDir is the directory holding generated XML configuration.
	ConfigDir = "config/"

	// SourceRoot is the root of all generated Java sources.
	SourceRoot = "src/main/java/"

	// FactoryPackage is the package of the configuration factory classes.
	FactoryPackage = "factory"

	// StartupPackage is the package of the node startup classes.
	StartupPackage = "startup"

	// JavaExtension is appended to class paths.
	JavaExtension = ".java"
)

// Class names of the generated Java sources.
const (
	ClassServerFactory       = "ServerConfigurationFactory"
	ClassClientFactory       = "ClientConfigurationFactory"
	ClassServerSpringStartup = "ServerNodeSpringStartup"
	ClassClientSpringStartup = "ClientNodeSpringStartup"
	ClassServerCodeStartup   = "ServerNodeCodeStartup"
	ClassClientCodeStartup   = "ClientNodeCodeStartup"
)

// RequiredFiles is the list of fixed entries every bundle must contain.
var RequiredFiles = []string{
	PathDockerfile,
	PathPOM,
	PathReadme,
	PathReadmeJdbc,
}

// ArchiveModTime is the modification time stamped on every zip entry so that
// identical inputs produce byte-identical archives.
var ArchiveModTime = time.Date(2016, time.January, 1, 0, 0, 0, 0, time.UTC)

// Common bundle errors.
var (
	// ErrBundleTooLarge indicates the bundle exceeds the size limit.
	ErrBundleTooLarge = errors.New("bundle exceeds 10 MiB size limit")

	// ErrInvalidFormat indicates the bundle is not a valid zip archive.
	ErrInvalidFormat = errors.New("bundle is not a valid zip archive")

	// ErrMissingRequiredFile indicates a required file is missing from the bundle.
	ErrMissingRequiredFile = errors.New("bundle is missing required file")

	// ErrInvalidXML indicates an XML entry is not well-formed.
	ErrInvalidXML = errors.New("bundle contains malformed XML")

	// ErrEmptyBundle indicates the bundle contains no files.
	ErrEmptyBundle = errors.New("bundle contains no files")

	// ErrDuplicatePath indicates two metadata entries map to the same path in strict mode.
	ErrDuplicatePath = errors.New("duplicate bundle entry path")

	// ErrUnsafePath indicates an entry that would extract outside the
	// bundle directory.
	ErrUnsafePath = errors.New("bundle entry path escapes the bundle")
)

// ValidationResult holds the result of bundle validation.
type ValidationResult struct {
	// Valid indicates if the bundle passed all validations.
	Valid bool

	// Error contains the validation error if Valid is false.
	Error error

	// Files is the list of files found in the bundle, in archive order.
	Files []string

	// Size is the total uncompressed size of the bundle in bytes.
	Size int64
}

// Result is a serialized bundle ready to be offered for download.
type Result struct {
	// FileName is "<cluster name>-configuration.zip".
	FileName string

	// MIMEType is always MIMEType.
	MIMEType string

	// Data is the zip archive.
	Data []byte

	// Files lists the archive entries in insertion order.
	Files []string
}
