package models

import "time"

// Store factory kinds recognised by the generators.
const (
	// StoreFactoryJdbcPojo persists cache entries through key/value POJO mappings.
	StoreFactoryJdbcPojo = "CacheJdbcPojoStoreFactory"

	// StoreFactoryJdbcBlob persists cache entries as serialized blobs over JDBC.
	StoreFactoryJdbcBlob = "CacheJdbcBlobStoreFactory"

	// StoreFactoryHibernateBlob persists cache entries as blobs through Hibernate.
	StoreFactoryHibernateBlob = "CacheHibernateBlobStoreFactory"
)

// Cluster represents one named compute-cluster definition.
// Clusters are read-only to the summary screen; they are owned by the catalogue.
type Cluster struct {
	// Name is the unique, human-readable cluster name (e.g., "prod-grid")
	// Used to namespace generated XML files and the exported archive
	Name string `json:"name" yaml:"name"`

	// Discovery describes how nodes of this cluster find each other
	Discovery DiscoveryConfig `json:"discovery" yaml:"discovery"`

	// Caches is the ordered list of caches started on the cluster
	Caches []CacheConfig `json:"caches,omitempty" yaml:"caches"`

	// ClientNearCfg is the near cache override applied to client nodes
	// May be nil when client nodes do not use a near cache
	ClientNearCfg *NearCacheConfig `json:"clientNearCfg,omitempty" yaml:"clientNearCfg"`

	// CreatedAt is the timestamp when this cluster was first imported
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"-"`

	// UpdatedAt is the timestamp of the last import that changed this cluster
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"-"`
}

// DiscoveryConfig describes the node discovery mechanism of a cluster.
type DiscoveryConfig struct {
	// Kind is the IP finder type: "Vm" (default) or "Multicast"
	Kind string `json:"kind" yaml:"kind"`

	// Addresses lists static "host:port[..port]" entries for the Vm finder
	Addresses []string `json:"addresses,omitempty" yaml:"addresses"`

	// MulticastGroup is the multicast group used by the Multicast finder
	MulticastGroup string `json:"multicastGroup,omitempty" yaml:"multicastGroup"`
}

// CacheConfig represents a single cache of a cluster.
type CacheConfig struct {
	// Name is the cache name, unique within the cluster
	Name string `json:"name" yaml:"name"`

	// CacheMode is PARTITIONED, REPLICATED or LOCAL
	CacheMode string `json:"cacheMode,omitempty" yaml:"cacheMode"`

	// AtomicityMode is ATOMIC or TRANSACTIONAL
	AtomicityMode string `json:"atomicityMode,omitempty" yaml:"atomicityMode"`

	// Backups is the number of backup copies for PARTITIONED caches
	Backups int `json:"backups,omitempty" yaml:"backups"`

	// StoreFactory configures the persistent store behind the cache (optional)
	StoreFactory *StoreFactory `json:"cacheStoreFactory,omitempty" yaml:"cacheStoreFactory"`

	// Metadatas is the ordered list of key/value type mappings of the cache
	Metadatas []TypeMetadata `json:"metadatas,omitempty" yaml:"metadatas"`
}

// StoreFactory describes a cache store factory.
type StoreFactory struct {
	// Kind is one of the StoreFactory* constants
	Kind string `json:"kind" yaml:"kind"`

	// DataSourceBean is the name of the JDBC data source bean
	DataSourceBean string `json:"dataSourceBean,omitempty" yaml:"dataSourceBean"`

	// Dialect is the database dialect (e.g., "MySQL", "PostgreSQL", "Oracle")
	Dialect string `json:"dialect,omitempty" yaml:"dialect"`
}

// UsesJdbc reports whether the factory needs a JDBC data source.
func (f *StoreFactory) UsesJdbc() bool {
	return f != nil && f.DataSourceBean != "" && f.Dialect != ""
}

// NearCacheConfig is the client-side near cache override of a cluster.
type NearCacheConfig struct {
	// NearStartSize is the initial size of the near cache
	NearStartSize int `json:"nearStartSize,omitempty" yaml:"nearStartSize"`

	// EvictionPolicy is LRU, FIFO or SORTED
	EvictionPolicy string `json:"evictionPolicy,omitempty" yaml:"evictionPolicy"`

	// MaxSize is the eviction policy size limit
	MaxSize int `json:"maxSize,omitempty" yaml:"maxSize"`
}

// HasPojo reports whether at least one cache of the cluster is backed by a
// JDBC POJO store with a configured dialect.
func (c *Cluster) HasPojo() bool {
	if c == nil {
		return false
	}

	for _, cache := range c.Caches {
		if cache.StoreFactory != nil && cache.StoreFactory.Kind == StoreFactoryJdbcPojo &&
			cache.StoreFactory.Dialect != "" {
			return true
		}
	}

	return false
}

// ClusterListResponse represents the response for listing clusters.
type ClusterListResponse struct {
	// Clusters is the ordered list of known clusters
	Clusters []Cluster `json:"clusters"`
}
